package dotdirectory

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// LoadConventions reads extra naming conventions from an INI file. Every
// section other than the default one is a convention named after the
// section, e.g.
//
//	[FolderIni]
//	FileName = .folder.ini
//	Section  = Folder
//	Field    = Cover
func LoadConventions(path string) ([]Descriptor, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	var descs []Descriptor
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}

		desc := Descriptor{Name: section.Name()}
		for _, field := range []struct {
			key string
			dst *string
		}{
			{"FileName", &desc.FileName},
			{"Section", &desc.Section},
			{"Field", &desc.Field},
		} {
			k, err := section.GetKey(field.key)
			if err != nil {
				return nil, fmt.Errorf("error reading required key in %q: %w", section.Name(), err)
			}
			*field.dst = k.String()
		}

		if err := desc.Validate(); err != nil {
			return nil, err
		}
		descs = append(descs, desc)
	}

	return descs, nil
}

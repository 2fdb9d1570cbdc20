package dotdirectory

import (
	"errors"
	"fmt"
	"strings"
)

// Describes where a naming convention keeps its icon reference.
type Descriptor struct {
	// Name of the provider built from this descriptor,
	// e.g. "DotDirectory".
	Name string

	// Name of the INI-like file inside the media folder
	// containing the icon reference.
	FileName string

	// Name of the section in FileName where the icon
	// reference should be.
	Section string

	// Name of the field in Section where the icon
	// reference should be.
	//
	// Only alphanumeric names can ever match a field line.
	Field string
}

var (
	// freedesktop hidden folder metadata
	DotDirectory = Descriptor{
		Name:     "DotDirectory",
		FileName: ".directory",
		Section:  "Desktop Entry",
		Field:    "Icon",
	}

	// Windows explorer folder customisation
	DesktopIni = Descriptor{
		Name:     "DesktopIni",
		FileName: "Desktop.ini",
		Section:  ".ShellClassInfo",
		Field:    "IconFile",
	}
)

// Descriptors built into the library, in the order a host should try them.
func BuiltinDescriptors() []Descriptor {
	return []Descriptor{DotDirectory, DesktopIni}
}

var ErrInvalidDescriptor = errors.New("invalid descriptor")

func (d Descriptor) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: missing name", ErrInvalidDescriptor)
	case strings.TrimSpace(d.FileName) == "":
		return fmt.Errorf("%w %q: missing file name", ErrInvalidDescriptor, d.Name)
	case strings.ContainsAny(d.FileName, `/\`):
		return fmt.Errorf("%w %q: file name %q must not contain a separator", ErrInvalidDescriptor, d.Name, d.FileName)
	case strings.TrimSpace(d.Section) == "":
		return fmt.Errorf("%w %q: missing section", ErrInvalidDescriptor, d.Name)
	case strings.Contains(d.Section, "]"):
		return fmt.Errorf("%w %q: section %q can never match a header", ErrInvalidDescriptor, d.Name, d.Section)
	case !isAlphanumeric(d.Field):
		return fmt.Errorf("%w %q: field %q must be alphanumeric", ErrInvalidDescriptor, d.Name, d.Field)
	}
	return nil
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

type ImageType int

const (
	Primary ImageType = iota
	Art
	Backdrop
	Banner
	Logo
	Thumb
	Disc
	Box
	Screenshot
	Menu
	Chapter
	BoxRear
	Profile
)

var imageTypeNames = [...]string{
	Primary:    "primary",
	Art:        "art",
	Backdrop:   "backdrop",
	Banner:     "banner",
	Logo:       "logo",
	Thumb:      "thumb",
	Disc:       "disc",
	Box:        "box",
	Screenshot: "screenshot",
	Menu:       "menu",
	Chapter:    "chapter",
	BoxRear:    "boxrear",
	Profile:    "profile",
}

func (t ImageType) String() string {
	if t < 0 || int(t) >= len(imageTypeNames) {
		return fmt.Sprintf("ImageType(%d)", int(t))
	}
	return imageTypeNames[t]
}

// ParseImageType is case insensitive.
func ParseImageType(s string) (ImageType, error) {
	for i, name := range imageTypeNames {
		if strings.EqualFold(name, s) {
			return ImageType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown image type %q", s)
}

// Kind of catalogue item a host asks about.
type ItemKind int

const (
	KindOther ItemKind = iota
	KindSeries
	KindSeason
	KindMovie
	KindMusicAlbum
	KindEpisode
	KindAudio
	KindFolder
)

var itemKindNames = [...]string{
	KindOther:      "other",
	KindSeries:     "series",
	KindSeason:     "season",
	KindMovie:      "movie",
	KindMusicAlbum: "album",
	KindEpisode:    "episode",
	KindAudio:      "audio",
	KindFolder:     "folder",
}

func (k ItemKind) String() string {
	if k < 0 || int(k) >= len(itemKindNames) {
		return fmt.Sprintf("ItemKind(%d)", int(k))
	}
	return itemKindNames[k]
}

func ParseItemKind(s string) (ItemKind, error) {
	for i, name := range itemKindNames {
		if strings.EqualFold(name, s) {
			return ItemKind(i), nil
		}
	}
	return KindOther, fmt.Errorf("unknown item kind %q", s)
}

// Kinds a folder cover makes sense for.
var supportedKinds = map[ItemKind]bool{
	KindSeries:     true,
	KindSeason:     true,
	KindMovie:      true,
	KindMusicAlbum: true,
}

// Storage protocol of an item's path.
type Protocol int

const (
	ProtocolFile Protocol = iota
	ProtocolHTTP
	ProtocolRTSP
	ProtocolRTMP
	ProtocolUDP
	ProtocolFTP
	ProtocolMMS
	ProtocolOther
)

var protocolNames = [...]string{
	ProtocolFile:  "file",
	ProtocolHTTP:  "http",
	ProtocolRTSP:  "rtsp",
	ProtocolRTMP:  "rtmp",
	ProtocolUDP:   "udp",
	ProtocolFTP:   "ftp",
	ProtocolMMS:   "mms",
	ProtocolOther: "other",
}

func (p Protocol) String() string {
	if p < 0 || int(p) >= len(protocolNames) {
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
	return protocolNames[p]
}

// A catalogue item as seen by a provider.
type Item interface {
	// Filesystem path of the item, a file or a directory.
	Path() string

	Kind() ItemKind

	// Storage protocol of Path.
	Protocol() Protocol

	// Directory containing Path.
	ContainingFolderPath() string
}

// Outcome of one GetImage call.
type ImageResult struct {
	HasImage bool

	// Absolute path of the cover, empty without an image.
	Path string

	// Protocol Path should be read with.
	Protocol Protocol

	// Format of the cover, ImageFormatUnknown if it
	// couldn't be classified.
	Format ImageFormat
}

var noImage = ImageResult{}

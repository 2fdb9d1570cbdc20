package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"

	"github.com/mohkale/dotdirectory"
)

type Config struct {
	LogLevel        string   `koanf:"log_level"`        // zerolog level name (default: "info")
	Providers       []string `koanf:"providers"`        // enabled provider names, empty enables all
	ImageTypes      []string `koanf:"image_types"`      // advertised image types (default: ["primary"])
	ConventionsFile string   `koanf:"conventions_file"` // INI file with extra conventions
	Kind            string   `koanf:"kind"`             // item kind folders are presented as (default: "movie")
	Workers         int      `koanf:"workers"`          // concurrent lookups (default: 8)
	RenderSize      int      `koanf:"render_size"`      // edge of rendered covers in pixels (default: 256)
}

// Load reads the config files in priority order; later files win. An
// explicit path replaces the default search.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	paths := getConfigPaths()
	if explicit != "" {
		paths = []string{expandPath(explicit)}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if explicit != "" {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.ConventionsFile != "" {
		cfg.ConventionsFile = expandPath(cfg.ConventionsFile)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/dotdirectory/config.toml
		filepath.Join(xdg.ConfigHome, "dotdirectory", "config.toml"),
		// 2. ./dotdirectory.toml (pwd, highest priority)
		"dotdirectory.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetLogLevel returns the configured level, info when unset.
func (c *Config) GetLogLevel() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(c.LogLevel))
}

// GetImageTypes returns the advertised image types, primary when unset.
func (c *Config) GetImageTypes() ([]dotdirectory.ImageType, error) {
	if len(c.ImageTypes) == 0 {
		return []dotdirectory.ImageType{dotdirectory.Primary}, nil
	}

	types := make([]dotdirectory.ImageType, 0, len(c.ImageTypes))
	for _, name := range c.ImageTypes {
		t, err := dotdirectory.ParseImageType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func (c *Config) GetKind() (dotdirectory.ItemKind, error) {
	if c.Kind == "" {
		return dotdirectory.KindMovie, nil
	}
	return dotdirectory.ParseItemKind(c.Kind)
}

func (c *Config) GetWorkers() int {
	if c.Workers <= 0 {
		return 8
	}
	return c.Workers
}

func (c *Config) GetRenderSize() int {
	if c.RenderSize <= 0 {
		return 256
	}
	return c.RenderSize
}

// Descriptors returns the built-in conventions plus those from
// ConventionsFile, filtered down to Providers when set.
func (c *Config) Descriptors() ([]dotdirectory.Descriptor, error) {
	descs := dotdirectory.BuiltinDescriptors()
	if c.ConventionsFile != "" {
		extra, err := dotdirectory.LoadConventions(c.ConventionsFile)
		if err != nil {
			return nil, err
		}
		descs = append(descs, extra...)
	}

	if len(c.Providers) == 0 {
		return descs, nil
	}

	byName := make(map[string]dotdirectory.Descriptor, len(descs))
	for _, d := range descs {
		byName[strings.ToLower(d.Name)] = d
	}

	enabled := make([]dotdirectory.Descriptor, 0, len(c.Providers))
	for _, name := range c.Providers {
		d, ok := byName[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown provider %q", name)
		}
		enabled = append(enabled, d)
	}
	return enabled, nil
}

// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Unset values are nil so
// callers can tell them apart from explicit zero values.
type FileConfig struct {
	Practice   PracticeConfig   `toml:"practice"`
	Lists      ListsConfig      `toml:"lists"`
	Dictionary DictionaryConfig `toml:"dictionary"`
	Storage    StorageConfig    `toml:"storage"`
	Log        LogConfig        `toml:"log"`
}

// PracticeConfig maps new-session defaults.
type PracticeConfig struct {
	Randomize      *bool   `toml:"randomize"`
	ExcludeCorrect *bool   `toml:"exclude-correct"`
	Mode           *string `toml:"mode"`
}

// ListsConfig locates the available word lists.
type ListsConfig struct {
	Dir      *string `toml:"dir"`
	Manifest *string `toml:"manifest"`
}

// DictionaryConfig maps the dictionary API settings.
type DictionaryConfig struct {
	Endpoint       *string `toml:"endpoint"`
	TimeoutSeconds *int    `toml:"timeout-seconds"`
}

// StorageConfig maps the database location.
type StorageConfig struct {
	DB *string `toml:"db"`
}

// LogConfig maps the log destination and level.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// StringOr returns *p, or fallback when p is nil or empty.
func StringOr(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

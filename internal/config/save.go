package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SavePath returns where settings changed at runtime are written: the
// -config file if given, else the first existing config file, else the
// user config directory.
func SavePath() string {
	if p := ConfigPath(); p != "" {
		return p
	}
	if p := findConfigFile(); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SaveTo writes the config to a specific path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// SaveGraphics stores g in the config file at path and leaves every other
// section as the file has it. Flag overrides never reach the file. A
// missing file is created from the defaults.
func SaveGraphics(path string, g GraphicsConfig) error {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	cfg.Graphics = g
	if err := cfg.Validate(); err != nil {
		return err
	}
	return cfg.SaveTo(path)
}

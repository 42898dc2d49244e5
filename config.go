package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yml"

// AppConfig is the contents of config.yml.
type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	Keyboard      KeyboardConfig `yaml:"keyboard"`
	Codegen       CodegenConfig  `yaml:"codegen"`
	Device        DeviceConfig   `yaml:"device"`
	Log           LogConfig      `yaml:"log"`
}

// KeyboardConfig holds the starting timing of script keyboards. The reset
// operations still restore the built-in defaults.
type KeyboardConfig struct {
	PressDelay   *int     `yaml:"press_delay"`
	ReleaseDelay *int     `yaml:"release_delay"`
	Multiplier   *float64 `yaml:"multiplier"`
	MinDelay     *int     `yaml:"min_delay"`
	Layout       string   `yaml:"layout"`
}

type CodegenConfig struct {
	LineSize int `yaml:"line_size"`
}

// DeviceConfig selects the uinput node and the name of the virtual keyboard.
type DeviceConfig struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

type LogConfig struct {
	Debug      bool   `yaml:"debug"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DefaultAppConfig returns the configuration used when config.yml is absent.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		ConfigVersion: latestConfigVersion,
		Keyboard:      KeyboardConfig{Layout: "US"},
		Codegen:       CodegenConfig{LineSize: defaultLineSize},
		Device:        DeviceConfig{Path: "/dev/uinput", Name: "clickauto"},
		Log:           LogConfig{MaxSizeMB: 5, MaxBackups: 3},
	}
}

// LoadAppConfig reads dir/config.yml on top of the defaults. A missing
// file is not an error.
func LoadAppConfig(dir string) (AppConfig, error) {
	cfg := DefaultAppConfig()
	// Files without config_version predate versioning.
	cfg.ConfigVersion = 0

	data, err := os.ReadFile(filepath.Join(dir, configFileName))
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ConfigVersion = latestConfigVersion
			return cfg, nil
		}
		return AppConfig{}, fmt.Errorf("read %s: %w", configFileName, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse %s: %w", configFileName, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *AppConfig) normalize() {
	def := DefaultAppConfig()
	if strings.TrimSpace(c.Keyboard.Layout) == "" {
		c.Keyboard.Layout = def.Keyboard.Layout
	}
	if c.Codegen.LineSize == 0 {
		c.Codegen.LineSize = def.Codegen.LineSize
	}
	if c.Device.Path == "" {
		c.Device.Path = def.Device.Path
	}
	if c.Device.Name == "" {
		c.Device.Name = def.Device.Name
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = def.Log.MaxSizeMB
	}
}

// Apply sets the configured starting timing on kb. Unset keys leave the
// keyboard defaults in place.
func (c KeyboardConfig) Apply(kb KeyboardObject) {
	if c.PressDelay != nil {
		kb.SetPressDelay(*c.PressDelay)
	}
	if c.ReleaseDelay != nil {
		kb.SetReleaseDelay(*c.ReleaseDelay)
	}
	if c.Multiplier != nil {
		kb.SetMultiplier(*c.Multiplier)
	}
	if c.MinDelay != nil {
		kb.SetMinDelay(*c.MinDelay)
	}
}

func configDir() string {
	if d := os.Getenv("XDG_CONFIG_HOME"); d != "" {
		return filepath.Join(d, "clickauto")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "clickauto")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

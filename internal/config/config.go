package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/bugreg/internal/source"
	"github.com/dkoosis/bugreg/pkg/pkgquery"
	"github.com/dkoosis/bugreg/pkg/render"
)

// FileName is the config file looked up in the working directory and the
// user config directory.
const FileName = ".bugreg.yaml"

// AppConfig represents the contents of .bugreg.yaml.
type AppConfig struct {
	File        string          `yaml:"file"`
	Registry    string          `yaml:"registry"`
	Format      string          `yaml:"format"`
	Theme       string          `yaml:"theme"`
	NoColor     bool            `yaml:"no_color"`
	Lock        bool            `yaml:"lock"`
	LogLevel    string          `yaml:"log_level"`
	AutoModules []string        `yaml:"auto_modules"`
	S3          source.S3Config `yaml:"s3"`
}

// Constants for default values.
const (
	DefaultFormat   = render.FormatAuto
	DefaultTheme    = "default"
	DefaultLogLevel = "warn"
)

// Defaults returns the hardcoded configuration.
func Defaults() *AppConfig {
	return &AppConfig{
		Format:      DefaultFormat,
		Theme:       DefaultTheme,
		LogLevel:    DefaultLogLevel,
		AutoModules: append([]string(nil), pkgquery.DefaultModules...),
	}
}

// LoadConfig reads path, or the first config file found when path is empty,
// over the defaults. It always returns a usable config; a non-nil error
// explains why some or all of the file was ignored.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := Defaults()
	if path == "" {
		path = getConfigPath()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("config file %s not found, using defaults", path)
		}
		return cfg, fmt.Errorf("read config file %s: %w", path, err)
	}

	var fromFile AppConfig
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}
	merge(cfg, &fromFile)
	return cfg, nil
}

// merge copies the fields set in src over dst.
func merge(dst, src *AppConfig) {
	if src.File != "" {
		dst.File = src.File
	}
	if src.Registry != "" {
		dst.Registry = src.Registry
	}
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.AutoModules != nil {
		dst.AutoModules = src.AutoModules
	}
	dst.NoColor = src.NoColor
	dst.Lock = src.Lock
	dst.S3 = src.S3
}

// getConfigPath returns the local config file if present, else the one in
// the user config directory, else "".
func getConfigPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" {
		return ""
	}
	xdgPath := filepath.Join(configHome, "bugreg", FileName)
	if _, err := os.Stat(xdgPath); err == nil {
		return xdgPath
	}
	return ""
}

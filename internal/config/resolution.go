package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/dkoosis/bugreg/internal/logging"
	"github.com/dkoosis/bugreg/internal/source"
	"github.com/dkoosis/bugreg/pkg/render"
)

// CliFlags holds the values of global command-line flags. Empty strings mean
// "not given"; the *Set fields track explicitly passed booleans.
type CliFlags struct {
	File     string
	Registry string
	Format   string
	Theme    string
	LogLevel string
	NoColor  bool
	Lock     bool

	NoColorSet bool
	LockSet    bool
}

// Resolved is the effective configuration after applying all sources.
type Resolved struct {
	File        string
	Registry    string
	Format      string
	Theme       string
	LogLevel    string
	NoColor     bool
	Lock        bool
	AutoModules []string
	S3          source.S3Config

	// Resolution metadata for debug logging: "cli", "env", "file" or "default".
	FileSource   string
	FormatSource string
}

// Resolve layers environment variables and flags over app. Invalid format,
// theme or log level values are reported as errors.
func Resolve(app *AppConfig, flags CliFlags) (*Resolved, error) {
	r := &Resolved{
		File:         app.File,
		Registry:     app.Registry,
		Format:       app.Format,
		Theme:        app.Theme,
		LogLevel:     app.LogLevel,
		NoColor:      app.NoColor,
		Lock:         app.Lock,
		AutoModules:  app.AutoModules,
		S3:           app.S3,
		FileSource:   sourceOf(app.File != "", "file"),
		FormatSource: sourceOf(app.Format != DefaultFormat, "file"),
	}

	if v := os.Getenv("BUGREG_FILE"); v != "" {
		r.File, r.FileSource = v, "env"
	}
	if v := os.Getenv("BUGREG_REGISTRY"); v != "" {
		r.Registry = v
	}
	if v := os.Getenv("BUGREG_FORMAT"); v != "" {
		r.Format, r.FormatSource = v, "env"
	}
	if v := os.Getenv("BUGREG_THEME"); v != "" {
		r.Theme = v
	}
	if v := os.Getenv("BUGREG_LOG_LEVEL"); v != "" {
		r.LogLevel = v
	}
	if os.Getenv("NO_COLOR") != "" {
		r.NoColor = true
	}
	if b, ok := envBool("BUGREG_NO_COLOR"); ok {
		r.NoColor = b
	}
	if b, ok := envBool("BUGREG_LOCK"); ok {
		r.Lock = b
	}

	if flags.File != "" {
		r.File, r.FileSource = flags.File, "cli"
	}
	if flags.Registry != "" {
		r.Registry = flags.Registry
	}
	if flags.Format != "" {
		r.Format, r.FormatSource = flags.Format, "cli"
	}
	if flags.Theme != "" {
		r.Theme = flags.Theme
	}
	if flags.LogLevel != "" {
		r.LogLevel = flags.LogLevel
	}
	if flags.NoColorSet {
		r.NoColor = flags.NoColor
	}
	if flags.LockSet {
		r.Lock = flags.Lock
	}

	if !slices.Contains(render.Formats, r.Format) {
		return nil, fmt.Errorf("invalid output format %q (want one of %v)", r.Format, render.Formats)
	}
	if !slices.Contains(render.Themes, r.Theme) {
		return nil, fmt.Errorf("invalid theme %q (want one of %v)", r.Theme, render.Themes)
	}
	if _, err := logging.ParseLevel(r.LogLevel); err != nil {
		return nil, err
	}
	return r, nil
}

// RenderConfig returns the renderer settings; width and auto format are
// resolved later against the output stream.
func (r *Resolved) RenderConfig() render.Config {
	return render.Config{Format: r.Format, Theme: r.Theme, NoColor: r.NoColor}
}

func sourceOf(set bool, src string) string {
	if set {
		return src
	}
	return "default"
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

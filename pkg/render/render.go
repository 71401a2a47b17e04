// Package render turns table blocks into terminal, plain text, HTML or JSON
// output.
package render

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dkoosis/bugreg/pkg/table"
)

// Renderer converts blocks to formatted output.
type Renderer interface {
	Render(blocks []table.Block) string
}

// Output formats.
const (
	FormatAuto     = "auto"
	FormatTerminal = "terminal"
	FormatText     = "text"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

// Formats lists the accepted format names.
var Formats = []string{FormatAuto, FormatTerminal, FormatText, FormatHTML, FormatJSON}

// Config selects and parameterizes a renderer. It is resolved once by the
// caller; renderers never consult the environment themselves.
type Config struct {
	Format  string
	Theme   string
	NoColor bool
	Width   int
}

// New returns the renderer for cfg. FormatAuto must be resolved first with
// Resolve; it falls back to plain text here.
func New(cfg Config) Renderer {
	switch cfg.Format {
	case FormatJSON:
		return NewJSON()
	case FormatHTML:
		return NewHTML()
	case FormatTerminal:
		theme := ThemeByName(cfg.Theme)
		if cfg.NoColor {
			theme = MonoTheme()
		}
		return NewTerminal(theme, cfg.Width)
	default:
		return NewText()
	}
}

// Resolve fills in FormatAuto and Width for output written to w: terminals
// get styled output at their width, anything else gets plain text.
func Resolve(cfg Config, w io.Writer) Config {
	f, isFile := w.(*os.File)
	tty := isFile && term.IsTerminal(int(f.Fd()))
	if cfg.Format == "" || cfg.Format == FormatAuto {
		cfg.Format = FormatText
		if tty {
			cfg.Format = FormatTerminal
		}
	}
	if cfg.Width <= 0 {
		cfg.Width = 80
		if tty {
			if tw, _, err := term.GetSize(int(f.Fd())); err == nil && tw > 0 {
				cfg.Width = tw
			}
		}
	}
	return cfg
}

package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/bugreg/pkg/table"
)

const maxDetailLines = 3

// Terminal renders blocks as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all blocks for terminal display.
func (t *Terminal) Render(blocks []table.Block) string {
	var sections []string
	for _, b := range blocks {
		if s := t.renderOne(b); s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(b table.Block) string {
	switch v := b.(type) {
	case *table.Table:
		return t.renderTable(v)
	case *table.Summary:
		return t.renderSummary(v)
	case *table.Detail:
		return t.renderDetail(v)
	default:
		return ""
	}
}

func (t *Terminal) renderTable(tb *table.Table) string {
	var sb strings.Builder
	if tb.Section != "" {
		sb.WriteString(t.theme.Bold.Render(runewidth.Truncate(sectionLine(tb.Section), t.width, "")))
		sb.WriteString("\n")
	}
	widths := columnWidths(tb)
	sb.WriteString(t.theme.Bold.Render(formatLine(tb.Headers, widths)))
	sb.WriteString("\n")
	sb.WriteString(t.theme.Muted.Render(formatLine(rules(tb.Headers), widths)))
	sb.WriteString("\n")

	for _, r := range tb.Rows {
		sb.WriteString(t.toneStyle(r.Tone).Render(formatLine(r.Cells, widths)))
		sb.WriteString("\n")
		for i, d := range r.Details {
			if i == maxDetailLines {
				sb.WriteString(t.theme.Muted.Render("    ..."))
				sb.WriteString("\n")
				break
			}
			line := strings.SplitN(d, "\n", 2)[0]
			sb.WriteString(t.theme.Muted.Render(runewidth.Truncate("    "+line, t.width, "...")))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (t *Terminal) renderSummary(s *table.Summary) string {
	parts := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		parts = append(parts, t.toneStyle(it.Tone).Render(it.Value+" "+it.Label))
	}
	return t.theme.Bold.Render(s.Label+":") + " " + strings.Join(parts, t.theme.Muted.Render(", ")) + "\n"
}

func (t *Terminal) renderDetail(d *table.Detail) string {
	lines := detailLines(d)
	var sb strings.Builder
	sb.WriteString(t.theme.Bold.Render(lines[0]))
	sb.WriteString("\n")
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, "  ") {
			sb.WriteString(line)
		} else {
			sb.WriteString(t.theme.Unknown.Render(line))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) toneStyle(tone table.Tone) lipgloss.Style {
	switch tone {
	case table.ToneGood:
		return t.theme.Good
	case table.ToneBad:
		return t.theme.Bad
	case table.ToneUnknown:
		return t.theme.Unknown
	default:
		return lipgloss.NewStyle()
	}
}

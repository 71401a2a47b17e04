package render

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/bugreg/pkg/table"
)

// columnWidths returns the display width of each column, header included.
func columnWidths(t *table.Table) []int {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range t.Rows {
		for i, c := range r.Cells {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(c))
			}
		}
	}
	return widths
}

// formatLine left-aligns cells into columns separated by one space.
func formatLine(cells []string, widths []int) string {
	var sb strings.Builder
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		sb.WriteString(padRight(cell, w+1))
	}
	return strings.TrimRight(sb.String(), " ")
}

// rules underlines each header with dashes as wide as the header itself;
// formatLine pads them out to the column.
func rules(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.Repeat("-", runewidth.StringWidth(h))
	}
	return out
}

// sectionLine frames a registry name the way the listing has always done.
func sectionLine(name string) string {
	return strings.Repeat(":", 20) + " " + padRight(name, 30) + " " + strings.Repeat(":", 58)
}

func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func summaryText(s *table.Summary) string {
	parts := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		parts = append(parts, it.Value+" "+it.Label)
	}
	return strings.Join(parts, ", ")
}

// detailLines lays out a detail block without styling. Empty fields are
// skipped; list values are numbered from zero.
func detailLines(d *table.Detail) []string {
	lines := []string{d.Title}
	for _, f := range d.Fields {
		if len(f.Values) == 0 {
			continue
		}
		if f.Inline {
			lines = append(lines, f.Name+": "+strings.Join(f.Values, ", "))
			continue
		}
		lines = append(lines, f.Name+":")
		for i, v := range f.Values {
			lines = append(lines, "  "+strconv.Itoa(i)+": "+v)
		}
	}
	return lines
}

package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/bugreg/pkg/table"
)

func sampleBlocks() []table.Block {
	return []table.Block{
		&table.Table{
			Section: "server",
			Headers: []string{"Code", "TestSuite", "TestCase", "Result", "Expected"},
			Rows: []table.Row{
				{Cells: []string{"++", "Input", "Keys", "true", "true"}, Tone: table.ToneDefault},
				{Cells: []string{"XX", "Input", "Pointer<Motion>", "false", "true"}, Tone: table.ToneBad, Details: []string{"line one\nline two"}},
			},
		},
		&table.Summary{Label: "server", Items: []table.SummaryItem{
			{Label: "total", Value: "2"}, {Label: "regressed", Value: "1", Tone: table.ToneBad},
		}},
		&table.Detail{Title: "Input Keys", Fields: []table.Field{
			{Name: "Expected Result", Values: []string{"Success"}, Inline: true},
			{Name: "Known Bugs", Values: []string{"bugzilla: http://bugs/1"}},
			{Name: "Known Fixes"},
		}},
	}
}

func TestText_AlignsColumns(t *testing.T) {
	out := NewText().Render(sampleBlocks())
	lines := strings.Split(out, "\n")

	assert.True(t, strings.HasPrefix(lines[0], ":::::::::::::::::::: server "))
	assert.Equal(t, "Code TestSuite TestCase        Result Expected", lines[1])
	assert.Equal(t, "---- --------- --------        ------ --------", lines[2])
	assert.Equal(t, "++   Input     Keys            true   true", lines[3])
	assert.Equal(t, "XX   Input     Pointer<Motion> false  true", lines[4])
	assert.Equal(t, "server: 2 total, 1 regressed", lines[5])
	assert.Equal(t, "Input Keys", lines[6])
	assert.Equal(t, "Expected Result: Success", lines[7])
	assert.Equal(t, "Known Bugs:", lines[8])
	assert.Equal(t, "  0: bugzilla: http://bugs/1", lines[9])
	assert.NotContains(t, out, "Known Fixes")
	assert.NotContains(t, out, "\x1b[")
}

func TestTerminal_MonoHasNoEscapes(t *testing.T) {
	out := NewTerminal(MonoTheme(), 40).Render(sampleBlocks())
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "XX   Input")
	assert.Contains(t, out, "    line one")
	assert.NotContains(t, out, "line two")
}

func TestHTML_EscapesCells(t *testing.T) {
	out := NewHTML().Render(sampleBlocks())
	assert.Contains(t, out, "<h2>server</h2>")
	assert.Contains(t, out, `<tr class="bad">`)
	assert.Contains(t, out, "<td>Pointer&lt;Motion&gt;</td>")
	assert.Contains(t, out, "<dt>Known Bugs</dt>")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</body></html>"))
}

func TestJSON_Structure(t *testing.T) {
	out := NewJSON().Render(sampleBlocks())

	var decoded struct {
		Blocks []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Blocks, 3)
	assert.Equal(t, "table", decoded.Blocks[0].Kind)

	var tbl table.Table
	require.NoError(t, json.Unmarshal(decoded.Blocks[0].Data, &tbl))
	assert.Equal(t, table.ToneBad, tbl.Rows[1].Tone)
}

func TestResolve_NonTerminalWriter(t *testing.T) {
	cfg := Resolve(Config{Format: FormatAuto}, &bytes.Buffer{})
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, 80, cfg.Width)

	cfg = Resolve(Config{Format: FormatHTML, Width: 120}, &bytes.Buffer{})
	assert.Equal(t, FormatHTML, cfg.Format)
	assert.Equal(t, 120, cfg.Width)
}

func TestNew_SelectsRenderer(t *testing.T) {
	assert.IsType(t, &JSON{}, New(Config{Format: FormatJSON}))
	assert.IsType(t, &HTML{}, New(Config{Format: FormatHTML}))
	assert.IsType(t, &Terminal{}, New(Config{Format: FormatTerminal}))
	assert.IsType(t, &Text{}, New(Config{Format: FormatText}))
	assert.Equal(t, "mono", New(Config{Format: FormatTerminal, Theme: "soft", NoColor: true}).(*Terminal).theme.Name)
}

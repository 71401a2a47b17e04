// Package browse is an interactive viewer over verify results: a row list on
// the left, the selected test's failures and triage data on the right.
package browse

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dkoosis/bugreg/pkg/reconcile"
	"github.com/dkoosis/bugreg/pkg/registry"
)

// Filter narrows the row list.
type Filter int

const (
	FilterAll Filter = iota
	FilterMismatch
	FilterUnknown
)

func (f Filter) String() string {
	switch f {
	case FilterMismatch:
		return "mismatches"
	case FilterUnknown:
		return "unknown"
	default:
		return "all"
	}
}

func (f Filter) keep(r reconcile.Row) bool {
	switch f {
	case FilterMismatch:
		return r.Code == reconcile.CodeMismatch
	case FilterUnknown:
		return r.Code == reconcile.CodeUnknown
	default:
		return true
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	listStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("242"))
	detailStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("242")).Padding(0, 1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	blueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// Run shows rows until the user quits.
func Run(ctx context.Context, title string, rows []reconcile.Row, reg *registry.Registry, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(New(title, rows, reg),
		tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Model is the bubbletea model behind Run.
type Model struct {
	title    string
	rows     []reconcile.Row
	reg      *registry.Registry
	filter   Filter
	visible  []int // indexes into rows
	selected int
	viewport viewport.Model
	ready    bool
	width    int
	height   int
	listW    int
}

// New builds a model; reg may be nil when there is no registry to consult.
func New(title string, rows []reconcile.Row, reg *registry.Registry) Model {
	m := Model{title: title, rows: rows, reg: reg, viewport: viewport.New(0, 0)}
	m.applyFilter()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Selected returns the selected row, if any.
func (m Model) Selected() (reconcile.Row, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return reconcile.Row{}, false
	}
	return m.rows[m.visible[m.selected]], true
}

// Filter returns the active filter.
func (m Model) Filter() Filter { return m.filter }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refreshViewport()
			}
		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
				m.refreshViewport()
			}
		case "home", "g":
			m.selected = 0
			m.refreshViewport()
		case "end", "G":
			m.selected = max(len(m.visible)-1, 0)
			m.refreshViewport()
		case "f":
			m.filter = (m.filter + 1) % 3
			m.applyFilter()
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.listW = min(max(m.longestName()+8, 24), m.width/2)
		m.viewport.Width = max(m.width-m.listW-6, 10)
		m.viewport.Height = max(m.height-6, 3)
		m.ready = true
		m.refreshViewport()
	}
	return m, nil
}

func (m *Model) applyFilter() {
	m.visible = nil
	for i, r := range m.rows {
		if m.filter.keep(r) {
			m.visible = append(m.visible, i)
		}
	}
	m.selected = 0
	m.refreshViewport()
}

func (m Model) longestName() int {
	n := 0
	for _, r := range m.rows {
		n = max(n, lipgloss.Width(r.ID.String()))
	}
	return n
}

func (m *Model) refreshViewport() {
	row, ok := m.Selected()
	if !ok {
		m.viewport.SetContent("No rows match the " + m.filter.String() + " filter")
		return
	}
	m.viewport.SetContent(detail(row, m.reg))
	m.viewport.GotoTop()
}

// detail is the right pane text for row.
func detail(row reconcile.Row, reg *registry.Registry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", row.Code, row.ID)
	fmt.Fprintf(&sb, "expected: %s\nactual:   %s\n", orDash(row.Expected), orDash(row.Actual))
	if row.Presence == reconcile.PresenceActualOnly {
		sb.WriteString("not in registry\n")
	}
	if len(row.Failures) > 0 {
		sb.WriteString("\nfailures:\n")
		for _, f := range row.Failures {
			sb.WriteString("  " + strings.ReplaceAll(f, "\n", "\n  ") + "\n")
		}
	}
	if reg == nil {
		return sb.String()
	}
	e, ok := reg.Get(row.ID)
	if !ok {
		return sb.String()
	}
	section := func(name string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString("\n" + name + ":\n")
		for _, it := range items {
			sb.WriteString("  " + it + "\n")
		}
	}
	var bugs, fixes, notes []string
	for _, b := range e.Bugs() {
		bugs = append(bugs, string(b.Kind)+" "+b.URL)
	}
	for _, f := range e.Fixes() {
		fixes = append(fixes, string(f.Kind)+" "+f.Text)
	}
	for _, n := range e.Notes() {
		notes = append(notes, n.Text)
	}
	section("bugs", bugs)
	section("fixes", fixes)
	section("notes", notes)
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func rowStyle(r reconcile.Row) lipgloss.Style {
	switch r.Tone {
	case reconcile.ToneImprovement:
		return goodStyle
	case reconcile.ToneRegression:
		return badStyle
	case reconcile.ToneUnknown:
		return blueStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	contentHeight := max(m.height-5, 3)

	// Keep the cursor in view.
	start := 0
	if m.selected >= contentHeight {
		start = m.selected - contentHeight + 1
	}
	var lines []string
	for i := start; i < len(m.visible) && len(lines) < contentHeight; i++ {
		r := m.rows[m.visible[i]]
		line := string(r.Code) + " " + r.ID.String()
		if i == m.selected {
			line = cursorStyle.Render(line)
		} else {
			line = rowStyle(r).Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < contentHeight {
		lines = append(lines, "")
	}
	list := listStyle.Width(m.listW).Render(strings.Join(lines, "\n"))
	pane := detailStyle.Width(m.viewport.Width + 2).Height(contentHeight).Render(m.viewport.View())

	title := titleStyle.Render(fmt.Sprintf("%s  [%s: %d of %d]", m.title, m.filter, len(m.visible), len(m.rows)))
	help := helpStyle.Render("↑/↓ navigate • f filter • pgup/pgdn scroll • q quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinHorizontal(lipgloss.Top, list, pane), help)
}

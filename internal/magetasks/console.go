package magetasks

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Out receives task progress.
var Out io.Writer = os.Stdout

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// PrintH1Header prints a centered top-level header between rules.
func PrintH1Header(title string) {
	const width = 80
	rule := strings.Repeat("=", width)
	pad := max(0, (width-lipgloss.Width(title))/2)
	fmt.Fprintf(Out, "\n%s\n%s%s\n%s\n\n", rule, strings.Repeat(" ", pad), headerStyle.Render(title), rule)
}

// PrintH2Header prints a section header.
func PrintH2Header(title string) {
	fmt.Fprintf(Out, "\n%s\n\n", headerStyle.Render("=== "+title+" ==="))
}

// PrintSuccess prints a success message.
func PrintSuccess(msg string) { fmt.Fprintln(Out, successStyle.Render("ok   "+msg)) }

// PrintWarning prints a warning message.
func PrintWarning(msg string) { fmt.Fprintln(Out, warningStyle.Render("warn "+msg)) }

// PrintError prints an error message.
func PrintError(msg string) { fmt.Fprintln(Out, errorStyle.Render("FAIL "+msg)) }

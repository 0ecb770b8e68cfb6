package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for status lines.
type Theme struct {
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Dim     lipgloss.Color
}

// DefaultTheme is the standard palette.
var DefaultTheme = Theme{
	Success: lipgloss.Color("#00ff9f"),
	Warning: lipgloss.Color("#ffb86c"),
	Error:   lipgloss.Color("#ff5555"),
	Dim:     lipgloss.Color("#6e7681"),
}

// Printer writes styled status lines. Colors are dropped automatically when
// the terminal does not support them.
type Printer struct {
	w       io.Writer
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	dim     lipgloss.Style
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, t Theme) *Printer {
	return &Printer{
		w:       w,
		success: lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		warning: lipgloss.NewStyle().Foreground(t.Warning),
		err:     lipgloss.NewStyle().Bold(true).Foreground(t.Error),
		dim:     lipgloss.NewStyle().Foreground(t.Dim),
	}
}

// Success prints a success message with checkmark
func (p *Printer) Success(format string, args ...any) {
	fmt.Fprintln(p.w, p.success.Render("✓ "+fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...any) {
	fmt.Fprintln(p.w, p.warning.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// Error prints an error message
func (p *Printer) Error(format string, args ...any) {
	fmt.Fprintln(p.w, p.err.Render("Error: "+fmt.Sprintf(format, args...)))
}

// Info prints a dimmed informational message
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintln(p.w, p.dim.Render(fmt.Sprintf(format, args...)))
}

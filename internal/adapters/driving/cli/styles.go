package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme defines the colour palette for terminal output.
type Theme struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Success: lipgloss.Color("#A6E3A1"), // Green
		Warning: lipgloss.Color("#F9E2AF"), // Yellow
		Error:   lipgloss.Color("#F38BA8"), // Red
	}
}

// printer writes report lines, styled only when the writer is a terminal.
type printer struct {
	w      io.Writer
	styled bool

	title lipgloss.Style
	label lipgloss.Style
	muted lipgloss.Style
	good  lipgloss.Style
	warn  lipgloss.Style
	bad   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	theme := DefaultTheme()
	return &printer{
		w:      w,
		styled: isTerminal(w),
		title:  lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		label:  lipgloss.NewStyle().Bold(true),
		muted:  lipgloss.NewStyle().Foreground(theme.Muted),
		good:   lipgloss.NewStyle().Foreground(theme.Success),
		warn:   lipgloss.NewStyle().Foreground(theme.Warning),
		bad:    lipgloss.NewStyle().Foreground(theme.Error),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

// Title prints a heading followed by an underline in plain mode.
func (p *printer) Title(s string) {
	if p.styled {
		io.WriteString(p.w, p.title.Render(s)+"\n") //nolint:errcheck
		return
	}
	io.WriteString(p.w, s+"\n") //nolint:errcheck
	for range s {
		io.WriteString(p.w, "=") //nolint:errcheck
	}
	io.WriteString(p.w, "\n") //nolint:errcheck
}

// Field prints an indented "label: value" line.
func (p *printer) Field(label, value string) {
	io.WriteString(p.w, "  "+p.render(p.label, label+":")+" "+value+"\n") //nolint:errcheck
}

// Line prints an indented line.
func (p *printer) Line(s string) {
	io.WriteString(p.w, "  "+s+"\n") //nolint:errcheck
}

// Blank prints an empty line.
func (p *printer) Blank() {
	io.WriteString(p.w, "\n") //nolint:errcheck
}

func (p *printer) Muted(s string) string { return p.render(p.muted, s) }
func (p *printer) Good(s string) string  { return p.render(p.good, s) }
func (p *printer) Warn(s string) string  { return p.render(p.warn, s) }
func (p *printer) Bad(s string) string   { return p.render(p.bad, s) }

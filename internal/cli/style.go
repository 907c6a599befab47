package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"struktur/internal/tree"
)

// palette holds the ANSI-256 color values used throughout the CLI.
var (
	clrBrand  = lipgloss.Color("214") // orange
	clrGreen  = lipgloss.Color("114")
	clrRed    = lipgloss.Color("203")
	clrYellow = lipgloss.Color("220")
	clrDim    = lipgloss.Color("245")
	clrWhite  = lipgloss.Color("255")
)

// styles wraps lipgloss renderers that respect TTY detection.
// When output is not a terminal (piped, redirected, NO_COLOR), all
// styling is disabled and raw text is emitted.
type styles struct {
	enabled bool

	Dir         lipgloss.Style
	File        lipgloss.Style
	Content     lipgloss.Style
	Placeholder lipgloss.Style
	Key         lipgloss.Style
	Value       lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style
	Success     lipgloss.Style
}

// newStyles creates a styles instance. Colors are enabled only when w
// points to a terminal file descriptor and NO_COLOR is unset.
func newStyles(w io.Writer) styles {
	enabled := false
	if f, ok := w.(*os.File); ok {
		enabled = term.IsTerminal(int(f.Fd()))
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(strings.TrimSpace(os.Getenv("TERM")), "dumb") {
		enabled = false
	}

	s := styles{enabled: enabled}
	if !enabled {
		noop := lipgloss.NewStyle()
		s.Dir = noop
		s.File = noop
		s.Content = noop
		s.Placeholder = noop
		s.Key = noop
		s.Value = noop
		s.Warning = noop
		s.Error = noop
		s.Success = noop
		return s
	}

	s.Dir = lipgloss.NewStyle().Bold(true).Foreground(clrBrand)
	s.File = lipgloss.NewStyle().Bold(true).Foreground(clrWhite)
	s.Content = lipgloss.NewStyle().Foreground(clrDim)
	s.Placeholder = lipgloss.NewStyle().Foreground(clrYellow)
	s.Key = lipgloss.NewStyle().Foreground(clrDim)
	s.Value = lipgloss.NewStyle().Foreground(clrWhite)
	s.Warning = lipgloss.NewStyle().Foreground(clrYellow).Bold(true)
	s.Error = lipgloss.NewStyle().Foreground(clrRed).Bold(true)
	s.Success = lipgloss.NewStyle().Foreground(clrGreen)
	return s
}

// line renders one mirrored tree line according to its kind.
func (s styles) line(kind tree.LineKind, text string) string {
	if !s.enabled {
		return text
	}
	switch kind {
	case tree.LineDir:
		return s.Dir.Render(text)
	case tree.LineFile:
		return s.File.Render(text)
	case tree.LinePlaceholder:
		return s.Placeholder.Render(text)
	default:
		return s.Content.Render(text)
	}
}

func (s styles) success(text string) string {
	if !s.enabled {
		return text
	}
	return s.Success.Render(text)
}

// errPrefix returns a styled "ERROR:" prefix.
func (s styles) errPrefix() string {
	if !s.enabled {
		return "ERROR:"
	}
	return s.Error.Render("ERROR:")
}

// warnPrefix returns a styled "WARNING:" prefix.
func (s styles) warnPrefix() string {
	if !s.enabled {
		return "WARNING:"
	}
	return s.Warning.Render("WARNING:")
}

// stat formats a labeled statistic like "files=412".
func (s styles) stat(label string, value interface{}) string {
	if !s.enabled {
		return fmt.Sprintf("%s=%v", label, value)
	}
	return fmt.Sprintf("%s=%s", s.Key.Render(label), s.Value.Render(fmt.Sprintf("%v", value)))
}

// consoleMirror echoes tree lines to the terminal. Write errors are ignored:
// the console is best-effort and never fails a run.
type consoleMirror struct {
	w  io.Writer
	st styles
}

func (c consoleMirror) Mirror(kind tree.LineKind, line string) {
	_, _ = fmt.Fprintln(c.w, c.st.line(kind, line))
}

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"

	"github.com/zjrosen/glint/internal/highlight"
	"github.com/zjrosen/glint/internal/theme"
)

// ANSI renders segments with lipgloss styles for terminal output.
type ANSI struct {
	styles      map[highlight.Category]lipgloss.Style
	gutter      lipgloss.Style
	lineNumbers bool
	width       int
}

// ANSIOption configures an ANSI renderer.
type ANSIOption func(*ANSI)

// WithLineNumbers prefixes each line with a right-aligned line number.
func WithLineNumbers() ANSIOption {
	return func(a *ANSI) { a.lineNumbers = true }
}

// WithWrap hard-wraps lines wider than width cells. Zero disables wrapping.
func WithWrap(width int) ANSIOption {
	return func(a *ANSI) { a.width = width }
}

// NewANSI builds a renderer from a palette.
func NewANSI(palette theme.Palette, opts ...ANSIOption) *ANSI {
	a := &ANSI{styles: make(map[highlight.Category]lipgloss.Style)}
	for _, c := range highlight.Categories() {
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Color(c))).
			TabWidth(lipgloss.NoTabConversion)
		switch c {
		case highlight.Comment:
			style = style.Italic(true)
		case highlight.Keyword:
			style = style.Bold(true)
		}
		a.styles[c] = style
	}
	a.gutter = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Color(highlight.Comment)))
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Render implements Renderer.
func (a *ANSI) Render(segments []highlight.Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		style := a.styles[seg.Category]
		// Style line by line: lipgloss pads multi-line blocks to a common width.
		for i, line := range strings.Split(seg.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if line != "" {
				b.WriteString(style.Render(line))
			}
		}
	}

	if a.width <= 0 && !a.lineNumbers {
		return b.String()
	}

	lines := strings.Split(b.String(), "\n")
	digits := len(strconv.Itoa(len(lines)))
	var out strings.Builder
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		if a.width > 0 {
			line = a.wrap(line)
		}
		if !a.lineNumbers {
			out.WriteString(line)
			continue
		}
		// Continuation rows of a wrapped line get a blank gutter.
		for j, row := range strings.Split(line, "\n") {
			if j > 0 {
				out.WriteByte('\n')
				out.WriteString(a.gutter.Render(strings.Repeat(" ", digits) + " │"))
			} else {
				out.WriteString(a.gutter.Render(fmt.Sprintf("%*d │", digits, i+1)))
			}
			out.WriteByte(' ')
			out.WriteString(row)
		}
	}
	return out.String()
}

func (a *ANSI) wrap(line string) string {
	w := wrap.NewWriter(a.width)
	w.PreserveSpace = true
	_, _ = w.Write([]byte(line))
	return w.String()
}

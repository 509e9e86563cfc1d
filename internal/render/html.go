// Package render turns highlighted segments into HTML or styled terminal text.
package render

import (
	"fmt"
	"strings"

	"github.com/zjrosen/glint/internal/highlight"
)

// ClassMap maps a category to the CSS class applied to its span.
// A category with no entry (or an empty class) is emitted as bare text.
type ClassMap map[highlight.Category]string

// DefaultClassMap returns hl-<category> for every category except plain.
func DefaultClassMap() ClassMap {
	m := make(ClassMap, len(highlight.Categories()))
	for _, c := range highlight.Categories() {
		if c == highlight.Plain {
			continue
		}
		m[c] = "hl-" + c.String()
	}
	return m
}

// Validate rejects class names that cannot sit inside a class attribute.
func (m ClassMap) Validate() error {
	for cat, class := range m {
		if !cat.Valid() {
			return fmt.Errorf("class map: invalid category %d", int(cat))
		}
		if strings.ContainsAny(class, "\"'<>&") {
			return fmt.Errorf("class map: class for %s contains markup characters: %q", cat, class)
		}
	}
	return nil
}

// Merge returns a copy of m with overrides applied. An empty override
// removes the span for that category.
func (m ClassMap) Merge(overrides ClassMap) ClassMap {
	out := make(ClassMap, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// HTML renders segments as escaped text with <span class="..."> wrappers.
// Escaping happens per segment, so span boundaries match segment boundaries.
func HTML(segments []highlight.Segment, classes ClassMap) string {
	var b strings.Builder
	b.Grow(estimate(segments))
	for _, seg := range segments {
		text := highlight.EscapeHTML(seg.Text)
		class := classes[seg.Category]
		if seg.Category == highlight.Plain || class == "" {
			b.WriteString(text)
			continue
		}
		b.WriteString(`<span class="`)
		b.WriteString(attrEscaper.Replace(class))
		b.WriteString(`">`)
		b.WriteString(text)
		b.WriteString(`</span>`)
	}
	return b.String()
}

func estimate(segments []highlight.Segment) int {
	n := 0
	for _, s := range segments {
		n += len(s.Text) + 32
	}
	return n
}

// HTMLRenderer adapts HTML to the Renderer interface.
type HTMLRenderer struct {
	Classes ClassMap
}

// Render implements Renderer.
func (r HTMLRenderer) Render(segments []highlight.Segment) string {
	return HTML(segments, r.Classes)
}

// Renderer turns segments into an output string.
type Renderer interface {
	Render(segments []highlight.Segment) string
}

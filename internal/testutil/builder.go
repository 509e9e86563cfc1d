// Package testutil provides fixtures for tests: HTML pages with code blocks
// and pre-seeded render stores.
package testutil

import (
	"html"
	"strings"
)

// PageBuilder accumulates code blocks and prose and renders them as an HTML
// document.
type PageBuilder struct {
	title string
	parts []string
}

// NewPage creates an empty page builder.
func NewPage() *PageBuilder {
	return &PageBuilder{title: "Test page"}
}

// WithTitle sets the document title.
func (b *PageBuilder) WithTitle(title string) *PageBuilder {
	b.title = title
	return b
}

// WithBlock adds a <pre><code> block holding source with optional
// configuration. The source is escaped.
func (b *PageBuilder) WithBlock(source string, opts ...BlockOption) *PageBuilder {
	block := defaultBlock(source)
	for _, opt := range opts {
		opt(&block)
	}
	b.parts = append(b.parts, block.render())
	return b
}

// WithProse adds a paragraph. Inline <code> in text is kept as markup.
func (b *PageBuilder) WithProse(text string) *PageBuilder {
	b.parts = append(b.parts, "<p>"+text+"</p>")
	return b
}

// WithRaw adds markup verbatim.
func (b *PageBuilder) WithRaw(markup string) *PageBuilder {
	b.parts = append(b.parts, markup)
	return b
}

// Build renders the document.
func (b *PageBuilder) Build() string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html><head><title>")
	sb.WriteString(html.EscapeString(b.title))
	sb.WriteString("</title></head>\n<body>\n")
	for _, p := range b.parts {
		sb.WriteString(p)
		sb.WriteByte('\n')
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// blockData holds everything needed to render one code block.
type blockData struct {
	source       string
	language     string
	preLanguage  string
	id           string
	marker       string
	markerValue  string
	extraClasses []string
}

func defaultBlock(source string) blockData {
	return blockData{source: source, marker: "data-highlighted"}
}

func (d blockData) render() string {
	var sb strings.Builder
	sb.WriteString("<pre")
	if d.preLanguage != "" {
		sb.WriteString(` class="lang-` + d.preLanguage + `"`)
	}
	sb.WriteString("><code")

	classes := append([]string(nil), d.extraClasses...)
	if d.language != "" {
		classes = append([]string{"language-" + d.language}, classes...)
	}
	if len(classes) > 0 {
		sb.WriteString(` class="` + strings.Join(classes, " ") + `"`)
	}
	if d.id != "" {
		sb.WriteString(` id="` + html.EscapeString(d.id) + `"`)
	}
	if d.markerValue != "" {
		sb.WriteString(" " + d.marker + `="` + html.EscapeString(d.markerValue) + `"`)
	}
	sb.WriteString(">")
	sb.WriteString(html.EscapeString(d.source))
	sb.WriteString("</code></pre>")
	return sb.String()
}

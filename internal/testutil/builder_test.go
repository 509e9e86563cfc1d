package testutil

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, doc string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	require.NoError(t, err)
	return d
}

func TestPageBuilder_Block(t *testing.T) {
	doc := NewPage().WithTitle("A & B").WithBlock(`if a < b { return "x" }`).Build()

	d := parse(t, doc)
	require.Equal(t, "A & B", d.Find("title").Text())
	code := d.Find("pre code")
	require.Equal(t, 1, code.Length())
	require.Equal(t, `if a < b { return "x" }`, code.Text())
	_, hasClass := code.Attr("class")
	require.False(t, hasClass)
}

func TestPageBuilder_AllOptions(t *testing.T) {
	doc := NewPage().
		WithBlock("x",
			Language("rust"),
			PreLanguage("text"),
			ID("b1"),
			Class("wide"),
			MarkerAttr("data-done"),
			MarkerValue("yes"),
		).
		Build()

	code := parse(t, doc).Find("pre code")
	require.Equal(t, "language-rust wide", code.AttrOr("class", ""))
	require.Equal(t, "lang-text", code.Parent().AttrOr("class", ""))
	require.Equal(t, "b1", code.AttrOr("id", ""))
	require.Equal(t, "yes", code.AttrOr("data-done", ""))
	_, hasDefault := code.Attr("data-highlighted")
	require.False(t, hasDefault)
}

func TestPageBuilder_Marked(t *testing.T) {
	code := parse(t, NewPage().WithBlock("x", Marked()).Build()).Find("pre code")
	require.Equal(t, "true", code.AttrOr("data-highlighted", ""))
}

func TestPreset_StandardBlocks(t *testing.T) {
	d := parse(t, NewPage().WithStandardBlocks().Build())

	require.Equal(t, 4, d.Find("pre code").Length())
	require.Equal(t, 5, d.Find("code").Length(), "inline code is not inside pre")
	require.Equal(t, 0, d.Find("[data-highlighted]").Length())
	require.Equal(t, "main-go", d.Find("code.language-go").AttrOr("id", ""))
}

func TestPreset_PartiallyHighlighted(t *testing.T) {
	d := parse(t, NewPage().WithPartiallyHighlighted().Build())

	require.Equal(t, 3, d.Find("pre code").Length())
	require.Equal(t, 2, d.Find(`pre code[data-highlighted="true"]`).Length())
	require.Equal(t, 1, d.Find("#done-1 span.hl-keyword").Length())
}

func TestNewTestStore_Seeds(t *testing.T) {
	s := NewTestStore(t,
		Render("k1", "fp-a", "<b>one</b>"),
		Render("k2", "fp-b", "two"),
	)

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, n)

	html, err := s.Get(context.Background(), "k1")
	require.NoError(t, err)
	require.Equal(t, "<b>one</b>", html)
}

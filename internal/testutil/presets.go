package testutil

// WithStandardBlocks adds one block per common language plus prose with an
// inline <code> element that selectors must not pick up.
//
// Four blocks match "pre code"; none is marked.
func (b *PageBuilder) WithStandardBlocks() *PageBuilder {
	return b.
		WithBlock("const total = items.length; // count", Language("js")).
		WithProse("Call <code>len(x)</code> to get the size.").
		WithBlock("def area(r):\n    return 3.14 * r * r  # circle", PreLanguage("python")).
		WithBlock("func main() {\n\tfmt.Println(\"hi\")\n}", Language("go"), ID("main-go")).
		WithBlock("@Override\npublic String toString() { return null; }", Language("java"))
}

// WithPartiallyHighlighted adds two blocks already marked as highlighted and
// one that still needs work.
func (b *PageBuilder) WithPartiallyHighlighted() *PageBuilder {
	return b.
		WithRaw(`<pre><code class="language-js" id="done-1" data-highlighted="true"><span class="hl-keyword">let</span> a</code></pre>`).
		WithBlock("let b = 2", Language("js"), ID("done-2"), Marked()).
		WithBlock("let c = 3", Language("js"), ID("todo"))
}

package highlight

import "strings"

var (
	htmlEscaper   = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	htmlUnescaper = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">")
)

// EscapeHTML replaces &, < and > with their entity forms.
// Other characters, quotes included, pass through unchanged.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// UnescapeHTML reverses EscapeHTML. UnescapeHTML(EscapeHTML(s)) == s for any s.
func UnescapeHTML(s string) string {
	return htmlUnescaper.Replace(s)
}

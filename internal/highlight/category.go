// Package highlight implements the rule-ordered lexical scanner behind glint.
//
// A RuleSet is an ordered list of (pattern, category) pairs. Tokenize applies
// the rules in order, each one only scanning text that no earlier rule has
// claimed, and returns a gap-free sequence of Segments covering the input.
package highlight

import (
	"fmt"
	"strings"
)

// Category classifies a span of source text for styling.
type Category int

const (
	Plain Category = iota
	Comment
	String
	Number
	Keyword
	Type
	Literal
	Decorator
	Class
)

var categoryNames = [...]string{
	Plain:     "plain",
	Comment:   "comment",
	String:    "string",
	Number:    "number",
	Keyword:   "keyword",
	Type:      "type",
	Literal:   "literal",
	Decorator: "decorator",
	Class:     "class",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory converts a category name to a Category.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseCategory(name string) (Category, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for i, n := range categoryNames {
		if n == normalized {
			return Category(i), nil
		}
	}
	return Plain, fmt.Errorf("unknown category %q (valid: %s)", name, strings.Join(categoryNames[:], ", "))
}

// Categories returns every category in default priority order, with Plain last.
func Categories() []Category {
	return []Category{Comment, String, Number, Keyword, Type, Literal, Decorator, Class, Plain}
}

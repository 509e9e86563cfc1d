package highlight

import (
	"strings"
	"sync"
)

// Keyword, type and literal vocabularies for the default rule set. They are a
// union over the languages the catalog carries samples in (JS/TS, Java, C#,
// Python, Go, Rust, Kotlin, Swift).
var (
	defaultKeywords = []string{
		"abstract", "and", "as", "assert", "async", "await", "break", "case", "catch",
		"class", "const", "continue", "def", "default", "defer", "del", "do", "elif",
		"else", "enum", "except", "export", "extends", "extension", "final", "finally",
		"fn", "for", "from", "fun", "func", "function", "go", "goto", "guard", "if",
		"impl", "implements", "import", "in", "instanceof", "interface", "is", "lambda",
		"let", "loop", "match", "mod", "module", "mut", "namespace", "new", "not",
		"object", "or", "override", "package", "pass", "private", "protected",
		"protocol", "pub", "public", "raise", "readonly", "return", "sealed", "select",
		"self", "static", "struct", "super", "switch", "this", "throw", "throws",
		"trait", "try", "type", "typeof", "use", "using", "val", "var", "virtual",
		"when", "where", "while", "with", "yield",
	}
	defaultTypes = []string{
		"any", "bigint", "bool", "boolean", "byte", "char", "double", "dyn", "float",
		"float32", "float64", "i8", "i16", "i32", "i64", "int", "int8", "int16",
		"int32", "int64", "isize", "long", "never", "number", "rune", "short", "str",
		"string", "symbol", "u8", "u16", "u32", "u64", "uint", "uint8", "uint16",
		"uint32", "uint64", "unknown", "usize", "void",
	}
	defaultLiterals = []string{
		"true", "false", "null", "nil", "None", "True", "False", "undefined", "NaN", "Infinity",
	}
)

const (
	commentPattern   = `//[^\n]*|/\*[\s\S]*?\*/|(?m:(?P<lead>^|[ \t])#[^\n]*)`
	stringPattern    = `"(?:[^"\\\n]|\\.)*"|'(?:[^'\\\n]|\\.)*'|` + "`[^`]*`"
	numberPattern    = `\b(?:0[xX][0-9a-fA-F]+|\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)\b`
	decoratorPattern = `@[A-Za-z_][\w.]*`
	classPattern     = `\b[A-Z][A-Za-z0-9_]*\b`
)

func wordsPattern(words []string) string {
	return `\b(?:` + strings.Join(words, "|") + `)\b`
}

var defaultRuleSet = sync.OnceValue(func() RuleSet {
	return NewRuleSet(
		MustRule(commentPattern, Comment),
		MustRule(stringPattern, String),
		MustRule(numberPattern, Number),
		MustRule(wordsPattern(defaultKeywords), Keyword),
		MustRule(wordsPattern(defaultTypes), Type),
		MustRule(wordsPattern(defaultLiterals), Literal),
		MustRule(decoratorPattern, Decorator),
		MustRule(classPattern, Class),
	)
})

// DefaultRuleSet returns the standard rule set, compiled once per process.
// Order: comments, strings, numbers, keywords, type names, literals,
// decorators, capitalized identifiers.
func DefaultRuleSet() RuleSet {
	return defaultRuleSet()
}

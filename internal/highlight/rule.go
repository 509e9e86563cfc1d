package highlight

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"slices"
)

// Rule pairs a compiled pattern with the category it assigns.
type Rule struct {
	Pattern  *regexp.Regexp
	Category Category
}

// InvalidRuleError reports a rule that could not be built from configuration.
type InvalidRuleError struct {
	Index   int
	Pattern string
	Err     error
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("rule %d (%q): %v", e.Index, e.Pattern, e.Err)
}

func (e *InvalidRuleError) Unwrap() error {
	return e.Err
}

// NewRule compiles pattern and pairs it with category.
// Plain is rejected: a rule that assigns plain would claim nothing.
func NewRule(pattern string, category Category) (Rule, error) {
	if !category.Valid() {
		return Rule{}, fmt.Errorf("invalid category %d", int(category))
	}
	if category == Plain {
		return Rule{}, fmt.Errorf("rule category must not be plain")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compiling pattern: %w", err)
	}
	return Rule{Pattern: re, Category: category}, nil
}

// MustRule is like NewRule but panics on error.
func MustRule(pattern string, category Category) Rule {
	r, err := NewRule(pattern, category)
	if err != nil {
		panic(err)
	}
	return r
}

// RuleSet is an immutable, ordered list of rules.
// The zero value is an empty RuleSet that leaves all input plain.
type RuleSet struct {
	rules       []Rule
	fingerprint string
}

// NewRuleSet builds a RuleSet. Rules are applied in the order given.
func NewRuleSet(rules ...Rule) RuleSet {
	owned := slices.Clone(rules)
	return RuleSet{rules: owned, fingerprint: fingerprint(owned)}
}

// RuleSpec is the uncompiled form of a rule, as it appears in configuration.
type RuleSpec struct {
	Pattern  string
	Category string
}

// CompileRuleSet builds a RuleSet from configuration specs.
// The first invalid spec is returned as an *InvalidRuleError.
func CompileRuleSet(specs []RuleSpec) (RuleSet, error) {
	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		category, err := ParseCategory(spec.Category)
		if err != nil {
			return RuleSet{}, &InvalidRuleError{Index: i, Pattern: spec.Pattern, Err: err}
		}
		rule, err := NewRule(spec.Pattern, category)
		if err != nil {
			return RuleSet{}, &InvalidRuleError{Index: i, Pattern: spec.Pattern, Err: err}
		}
		rules = append(rules, rule)
	}
	return NewRuleSet(rules...), nil
}

// Rules returns a copy of the rules in priority order.
func (rs RuleSet) Rules() []Rule {
	return slices.Clone(rs.rules)
}

// Specs returns the uncompiled form of the rules in priority order.
func (rs RuleSet) Specs() []RuleSpec {
	specs := make([]RuleSpec, len(rs.rules))
	for i, r := range rs.rules {
		specs[i] = RuleSpec{Pattern: r.Pattern.String(), Category: r.Category.String()}
	}
	return specs
}

// Len returns the number of rules.
func (rs RuleSet) Len() int {
	return len(rs.rules)
}

// Fingerprint identifies the rule list: equal (pattern, category) sequences
// share a fingerprint, so it can key caches of rendered output.
func (rs RuleSet) Fingerprint() string {
	if rs.fingerprint == "" {
		return fingerprint(nil)
	}
	return rs.fingerprint
}

func fingerprint(rules []Rule) string {
	h := sha256.New()
	for _, r := range rules {
		// Length prefixes keep ("ab","c") distinct from ("a","bc").
		fmt.Fprintf(h, "%d:%s|%d:%s;", len(r.Pattern.String()), r.Pattern.String(), len(r.Category.String()), r.Category)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

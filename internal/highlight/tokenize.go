package highlight

import "strings"

// Segment is a categorized slice of the input.
// Start and End are byte offsets into the original input (End exclusive).
type Segment struct {
	Category Category
	Text     string
	Start    int
	End      int
}

// Tokenize splits input into categorized segments using rules in order.
//
// Each rule only scans segments that are still Plain; once a span is claimed
// it is never rescanned, so a keyword inside a string stays part of the
// string. Zero-length matches are ignored. The concatenated Text of the
// result always equals input. Empty input yields no segments.
func Tokenize(input string, rules RuleSet) []Segment {
	if input == "" {
		return nil
	}

	segments := []Segment{{Category: Plain, Text: input, Start: 0, End: len(input)}}
	for _, rule := range rules.rules {
		segments = applyRule(segments, rule)
	}
	return segments
}

// LeadGroup names an optional capture group holding context a rule must see
// but not claim. Text matched by it stays plain, so `(?P<lead>^|\s)#.*`
// claims a comment without the whitespace before it.
const LeadGroup = "lead"

// applyRule returns a new segment list in which every plain segment has been
// split around the rule's matches. The input slice is not modified.
func applyRule(segments []Segment, rule Rule) []Segment {
	lead := rule.Pattern.SubexpIndex(LeadGroup)
	out := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.Category != Plain {
			out = append(out, seg)
			continue
		}

		// FindAll keeps the engine's leftmost-first, non-overlapping semantics
		// and matches against the whole segment so ^ and \b see real context.
		matches := findAll(rule, seg.Text, lead)
		if len(matches) == 0 {
			out = append(out, seg)
			continue
		}

		last := 0
		for _, m := range matches {
			start, end := m[0], m[1]
			if start == end {
				continue
			}
			if start > last {
				out = append(out, sub(seg, last, start, Plain))
			}
			out = append(out, sub(seg, start, end, rule.Category))
			last = end
		}
		if last < len(seg.Text) {
			out = append(out, sub(seg, last, len(seg.Text), Plain))
		}
	}
	return out
}

// findAll returns the claimed [start, end) span of every match. With a lead
// group the claim begins where the group ends.
func findAll(rule Rule, text string, lead int) [][]int {
	if lead < 0 {
		return rule.Pattern.FindAllStringIndex(text, -1)
	}
	matches := rule.Pattern.FindAllStringSubmatchIndex(text, -1)
	spans := make([][]int, len(matches))
	for i, m := range matches {
		start := m[0]
		if leadEnd := m[2*lead+1]; leadEnd >= 0 {
			start = leadEnd
		}
		spans[i] = []int{start, m[1]}
	}
	return spans
}

func sub(seg Segment, from, to int, category Category) Segment {
	return Segment{
		Category: category,
		Text:     seg.Text[from:to],
		Start:    seg.Start + from,
		End:      seg.Start + to,
	}
}

// Join concatenates segment texts in order.
func Join(segments []Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Counts returns how many segments fall in each category.
func Counts(segments []Segment) map[Category]int {
	counts := make(map[Category]int)
	for _, s := range segments {
		counts[s.Category]++
	}
	return counts
}

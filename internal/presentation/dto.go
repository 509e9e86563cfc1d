package presentation

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/zjrosen/glint/internal/highlight"
)

// SegmentDTO represents a highlighted segment for presentation.
// Line and Column are 1-based; Column counts grapheme clusters from the
// start of the line, so it matches what an editor cursor would show.
type SegmentDTO struct {
	Category string `json:"category"`
	Text     string `json:"text"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// HighlightDTO is the JSON result of highlighting one input.
type HighlightDTO struct {
	Fingerprint string         `json:"fingerprint"`
	Segments    []SegmentDTO   `json:"segments"`
	Counts      map[string]int `json:"counts"`
}

// RuleDTO represents one lexical rule in priority order.
type RuleDTO struct {
	Priority int    `json:"priority" yaml:"-"`
	Pattern  string `json:"pattern" yaml:"pattern"`
	Category string `json:"category" yaml:"category"`
}

// ToDTOs converts segments of input to DTOs with line/column positions.
func ToDTOs(input string, segments []highlight.Segment) []SegmentDTO {
	dtos := make([]SegmentDTO, 0, len(segments))
	line, lineStart := 1, 0
	for _, seg := range segments {
		dtos = append(dtos, SegmentDTO{
			Category: seg.Category.String(),
			Text:     seg.Text,
			Start:    seg.Start,
			End:      seg.End,
			Line:     line,
			Column:   uniseg.GraphemeClusterCount(input[lineStart:seg.Start]) + 1,
		})
		if n := strings.Count(seg.Text, "\n"); n > 0 {
			line += n
			lineStart = seg.Start + strings.LastIndexByte(seg.Text, '\n') + 1
		}
	}
	return dtos
}

// FromSegments builds the full highlight result for input.
func FromSegments(input string, segments []highlight.Segment, rules highlight.RuleSet) HighlightDTO {
	counts := make(map[string]int)
	for cat, n := range highlight.Counts(segments) {
		counts[cat.String()] = n
	}
	return HighlightDTO{
		Fingerprint: rules.Fingerprint(),
		Segments:    ToDTOs(input, segments),
		Counts:      counts,
	}
}

// FromRuleSet lists rules in priority order (1 = applied first).
func FromRuleSet(rules highlight.RuleSet) []RuleDTO {
	specs := rules.Specs()
	dtos := make([]RuleDTO, len(specs))
	for i, s := range specs {
		dtos[i] = RuleDTO{Priority: i + 1, Pattern: s.Pattern, Category: s.Category}
	}
	return dtos
}

package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatHighlight formats a highlight result as JSON
func (f *Formatter) FormatHighlight(result HighlightDTO) error {
	return f.json(result)
}

// FormatRules formats a rule listing as JSON
func (f *Formatter) FormatRules(rules []RuleDTO) error {
	return f.json(rules)
}

// FormatRulesYAML writes rules in the shape of the config file's rules: key,
// so the output can be pasted into .glint/config.yaml.
func (f *Formatter) FormatRulesYAML(rules []RuleDTO) error {
	enc := yaml.NewEncoder(f.writer)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]RuleDTO{"rules": rules}); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return enc.Close()
}

// FormatRulesTable writes rules as a bordered table.
func (f *Formatter) FormatRulesTable(rules []RuleDTO) error {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "CATEGORY", "PATTERN").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, r := range rules {
		t.Row(strconv.Itoa(r.Priority), r.Category, r.Pattern)
	}

	_, err := fmt.Fprintln(f.writer, t.Render())
	return err
}

// FormatThemes writes one preset per line: name and description.
func (f *Formatter) FormatThemes(names []string, describe func(string) string) error {
	width := 0
	for _, n := range names {
		width = max(width, lipgloss.Width(n))
	}
	for _, n := range names {
		if _, err := fmt.Fprintf(f.writer, "%-*s  %s\n", width, n, describe(n)); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) json(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

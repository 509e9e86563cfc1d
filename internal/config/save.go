package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/glint/internal/log"
)

// SaveRules replaces the rules section of the config file.
// Comments and formatting in other sections are preserved by editing the
// yaml.Node tree instead of re-marshaling the whole Config.
func SaveRules(configPath string, rules []RuleConfig) error {
	if err := ValidateRules(rules); err != nil {
		return err
	}

	rulesNode, err := buildRulesNode(rules)
	if err != nil {
		return fmt.Errorf("building rules node: %w", err)
	}

	log.Debug(log.CatConfig, "Saving rules", "path", configPath, "count", len(rules))
	return updateConfig(configPath, []string{"rules"}, rulesNode)
}

// SaveThemePreset sets theme.preset in the config file, leaving the rest of
// the theme section (color overrides) intact.
func SaveThemePreset(configPath string, preset string) error {
	presetNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: preset}

	log.Debug(log.CatConfig, "Saving theme preset", "path", configPath, "preset", preset)
	return updateConfig(configPath, []string{"theme", "preset"}, presetNode)
}

func buildRulesNode(rules []RuleConfig) (*yaml.Node, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, r := range rules {
		var n yaml.Node
		if err := n.Encode(r); err != nil {
			return nil, err
		}
		seq.Content = append(seq.Content, &n)
	}
	return seq, nil
}

// updateConfig sets the value at keyPath (creating intermediate mappings)
// and writes the document back atomically.
func updateConfig(configPath string, keyPath []string, value *yaml.Node) error {
	// Read existing file content
	data, err := os.ReadFile(configPath) //nolint:gosec // G304: path is the user's config file
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	// Parse into yaml.Node to preserve comments
	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	if doc.Kind == 0 {
		// Empty or new file - create document structure
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("parsing config: top level must be a mapping")
	}

	setKey(doc.Content[0], keyPath, value)

	// Marshal back to YAML
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()

	if err := writeAtomic(configPath, buf.Bytes()); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to save config", err, "path", configPath)
		return err
	}
	return nil
}

// setKey finds or appends each key along path. A non-mapping value in the
// middle of the path is replaced by a mapping.
func setKey(mapping *yaml.Node, path []string, value *yaml.Node) {
	key := path[0]
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value != key {
			continue
		}
		if len(path) == 1 {
			mapping.Content[i+1] = value
			return
		}
		child := mapping.Content[i+1]
		if child.Kind != yaml.MappingNode {
			child = &yaml.Node{Kind: yaml.MappingNode}
			mapping.Content[i+1] = child
		}
		setKey(child, path[1:], value)
		return
	}

	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
	if len(path) == 1 {
		mapping.Content = append(mapping.Content, keyNode, value)
		return
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	mapping.Content = append(mapping.Content, keyNode, child)
	setKey(child, path[1:], value)
}

// writeAtomic writes to a temp file in the same directory, then renames.
func writeAtomic(configPath string, data []byte) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	temp, err := os.CreateTemp(dir, ".glint.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tempPath := temp.Name()

	if _, err := temp.Write(data); err != nil {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, configPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}

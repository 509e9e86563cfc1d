// Package config provides configuration types and defaults for glint.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zjrosen/glint/internal/highlight"
	"github.com/zjrosen/glint/internal/log"
	"github.com/zjrosen/glint/internal/render"
	"github.com/zjrosen/glint/internal/theme"
	"github.com/zjrosen/glint/internal/tracing"
)

// RuleConfig defines a single highlighting rule.
type RuleConfig struct {
	Pattern  string `mapstructure:"pattern" yaml:"pattern"`
	Category string `mapstructure:"category" yaml:"category"` // comment, string, number, keyword, type, literal, decorator, class
}

// Config holds all configuration options for glint.
type Config struct {
	// Rules replaces the built-in rule table when non-empty. Order is priority.
	Rules   []RuleConfig      `mapstructure:"rules"`
	Classes map[string]string `mapstructure:"classes"` // category -> CSS class override
	Theme   ThemeConfig       `mapstructure:"theme"`
	Cache   CacheConfig       `mapstructure:"cache"`
	Page    PageConfig        `mapstructure:"page"`
	Server  ServerConfig      `mapstructure:"server"`
	Tracing tracing.Config    `mapstructure:"tracing"`
	Log     LogConfig         `mapstructure:"log"`
	Flags   map[string]bool   `mapstructure:"flags"`
}

// ThemeConfig holds terminal color options for ANSI output.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "catppuccin-mocha", "catppuccin-latte",
	// "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Colors overrides individual categories, e.g. {"keyword": "#FF79C6"}.
	Colors map[string]string `mapstructure:"colors"`
}

// CacheConfig controls the rendered-block caches.
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Kind    string        `mapstructure:"kind"` // "memory" (TTL) or "lru" (bounded)
	TTL     time.Duration `mapstructure:"ttl"`
	Size    int           `mapstructure:"size"` // max entries for the lru kind

	// Sliding restarts an entry's TTL on every hit. For the lru kind a hit
	// already marks the entry as recently used.
	Sliding bool `mapstructure:"sliding"`

	// Path is the SQLite database used when the persistent-cache flag is on.
	// Empty means DefaultStorePath().
	Path string `mapstructure:"path"`
}

// PageConfig controls HTML document processing.
type PageConfig struct {
	Selector    string `mapstructure:"selector"`
	MarkerAttr  string `mapstructure:"marker_attr"`
	Concurrency int    `mapstructure:"concurrency"` // 0 = GOMAXPROCS
}

// ServerConfig controls `glint serve`.
type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	MaxBodyBytes int64    `mapstructure:"max_body_bytes"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	Path  string `mapstructure:"path"`  // debug log file (default: glint-debug.log)
}

// Cache kinds.
const (
	CacheKindMemory = "memory"
	CacheKindLRU    = "lru"
)

// DefaultStorePath returns ~/.cache/glint/renders.db, falling back to a
// path relative to the working directory when the home dir is unknown.
func DefaultStorePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "glint", "renders.db")
	}
	return filepath.Join(".glint", "renders.db")
}

// DefaultTracesFilePath returns the JSONL trace output used by the file exporter.
func DefaultTracesFilePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "glint", "traces.jsonl")
	}
	return filepath.Join(".glint", "traces.jsonl")
}

// DefaultRules returns the built-in rule table in config form.
func DefaultRules() []RuleConfig {
	specs := highlight.DefaultRuleSet().Specs()
	rules := make([]RuleConfig, len(specs))
	for i, s := range specs {
		rules[i] = RuleConfig{Pattern: s.Pattern, Category: s.Category}
	}
	return rules
}

// Defaults returns a Config with sensible default values.
// Rules stay empty so the compiled default table is used without recompiling.
func Defaults() Config {
	return Config{
		Theme: ThemeConfig{Preset: "default"},
		Cache: CacheConfig{
			Enabled: true,
			Kind:    CacheKindMemory,
			TTL:     10 * time.Minute,
			Size:    1024,
		},
		Page: PageConfig{
			Selector:   "pre code",
			MarkerAttr: "data-highlighted",
		},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         7878,
			MaxBodyBytes: 4 << 20,
		},
		Tracing: tracing.DefaultConfig(),
		Log:     LogConfig{Level: "debug", Path: "glint-debug.log"},
		Flags:   map[string]bool{},
	}
}

// RuleSet compiles the configured rules, or returns the default table when
// none are configured.
func (c Config) RuleSet() (highlight.RuleSet, error) {
	if len(c.Rules) == 0 {
		return highlight.DefaultRuleSet(), nil
	}
	specs := make([]highlight.RuleSpec, len(c.Rules))
	for i, r := range c.Rules {
		specs[i] = highlight.RuleSpec{Pattern: r.Pattern, Category: r.Category}
	}
	return highlight.CompileRuleSet(specs)
}

// ClassMap returns the default class map with the configured overrides applied.
func (c Config) ClassMap() (render.ClassMap, error) {
	overrides := make(render.ClassMap, len(c.Classes))
	for name, class := range c.Classes {
		cat, err := highlight.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("classes: %w", err)
		}
		overrides[cat] = class
	}
	classes := render.DefaultClassMap().Merge(overrides)
	if err := classes.Validate(); err != nil {
		return nil, err
	}
	return classes, nil
}

// Palette resolves the theme section into per-category colors.
func (c Config) Palette() (theme.Palette, error) {
	return theme.Resolve(theme.Config{Preset: c.Theme.Preset, Colors: c.Theme.Colors})
}

// Validate checks every section and returns the first error found.
func Validate(cfg Config) error {
	if err := ValidateRules(cfg.Rules); err != nil {
		return err
	}
	if _, err := cfg.ClassMap(); err != nil {
		return err
	}
	if _, err := cfg.Palette(); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	if err := ValidateCache(cfg.Cache); err != nil {
		return err
	}
	if err := ValidatePage(cfg.Page); err != nil {
		return err
	}
	if err := ValidateServer(cfg.Server); err != nil {
		return err
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return err
	}
	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// ValidateRules checks rule configuration.
// Empty rules are valid (uses the default table).
func ValidateRules(rules []RuleConfig) error {
	for i, r := range rules {
		if strings.TrimSpace(r.Pattern) == "" {
			return fmt.Errorf("rule %d: pattern is required", i)
		}
		if r.Category == "" {
			return fmt.Errorf("rule %d: category is required", i)
		}
	}
	if len(rules) == 0 {
		return nil
	}
	if _, err := (Config{Rules: rules}).RuleSet(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	return nil
}

// ValidateCache checks cache configuration.
func ValidateCache(cache CacheConfig) error {
	switch cache.Kind {
	case "", CacheKindMemory, CacheKindLRU:
	default:
		return fmt.Errorf("cache.kind must be %q or %q, got %q", CacheKindMemory, CacheKindLRU, cache.Kind)
	}
	if cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", cache.TTL)
	}
	if cache.Kind == CacheKindLRU && cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive for the lru cache, got %d", cache.Size)
	}
	return nil
}

// ValidatePage checks page processing configuration.
func ValidatePage(page PageConfig) error {
	if strings.TrimSpace(page.Selector) == "" {
		return fmt.Errorf("page.selector is required")
	}
	if page.MarkerAttr == "" || strings.ContainsAny(page.MarkerAttr, " \t\n\"'<>=/") {
		return fmt.Errorf("page.marker_attr is not a valid attribute name: %q", page.MarkerAttr)
	}
	if page.Concurrency < 0 {
		return fmt.Errorf("page.concurrency must not be negative, got %d", page.Concurrency)
	}
	return nil
}

// ValidateServer checks server configuration.
func ValidateServer(server ServerConfig) error {
	if server.Port < 0 || server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", server.Port)
	}
	if server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must not be negative, got %d", server.MaxBodyBytes)
	}
	return nil
}

// ValidateTracing checks tracing configuration values.
func ValidateTracing(cfg tracing.Config) error {
	if !cfg.Enabled {
		return nil
	}

	validExporters := map[string]bool{"none": true, "file": true, "stdout": true, "otlp": true}
	if cfg.Exporter != "" && !validExporters[cfg.Exporter] {
		return fmt.Errorf("tracing.exporter must be one of: none, file, stdout, otlp (got %q)", cfg.Exporter)
	}

	if cfg.SampleRate < 0 || cfg.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0 (got %v)", cfg.SampleRate)
	}

	if cfg.Exporter == "otlp" && cfg.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is otlp")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Glint Configuration

# Highlighting rules, applied in order. Once a rule claims a span of text,
# later rules never look inside it. Leave empty to use the built-in table.
# Categories: comment, string, number, keyword, type, literal, decorator, class
# rules:
#   - pattern: '//[^\n]*'
#     category: comment
#   - pattern: '"(?:[^"\\\n]|\\.)*"'
#     category: string
#   - pattern: '\b(?:if|else|for|return)\b'
#     category: keyword
#
# Run 'glint rules --format yaml' to print the built-in table in this format.

# CSS classes for HTML output (default: hl-<category>). An empty class
# leaves that category as bare text.
# classes:
#   keyword: tok-kw
#   comment: tok-c

# Terminal colors for ANSI output
theme:
  # Use a preset (run 'glint themes' to see available presets):
  preset: default
  #
  # Available presets:
  #   default           - Balanced colors for dark terminals
  #   catppuccin-mocha  - Warm, cozy dark theme
  #   catppuccin-latte  - Warm, cozy light theme
  #   dracula           - Dark theme with vibrant colors
  #   nord              - Arctic, north-bluish palette
  #   high-contrast     - High contrast for accessibility
  #
  # Override specific categories (works with or without preset):
  # colors:
  #   keyword: "#FF79C6"
  #   comment: "#6272A4"

# Rendered block cache
cache:
  enabled: true
  kind: memory        # "memory" (expires after ttl) or "lru" (keeps size entries)
  ttl: 10m
  size: 1024
  sliding: false      # restart the ttl whenever a cached block is served
  # path: ~/.cache/glint/renders.db   # SQLite store, used with flags.persistent-cache

# HTML page processing
page:
  selector: "pre code"          # CSS selector for code blocks
  marker_attr: data-highlighted # set to "true" on processed blocks
  concurrency: 0                # parallel blocks (0 = number of CPUs)

# HTTP API (glint serve)
server:
  host: 127.0.0.1
  port: 7878
  max_body_bytes: 4194304
  # cors_origins:
  #   - http://localhost:3000

# OpenTelemetry tracing
tracing:
  enabled: false
  exporter: file      # none, file, stdout, otlp
  # file_path: ~/.cache/glint/traces.jsonl
  otlp_endpoint: localhost:4317
  sample_rate: 1.0

# Debug log (enable with --debug or GLINT_DEBUG=1)
log:
  level: debug
  path: glint-debug.log

# Feature flags
flags:
  persistent-cache: false   # keep rendered blocks in SQLite across runs
  parallel-blocks: true     # process page blocks concurrently
`
}

// WriteDefaultConfig creates a config file with default settings.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	// Create parent directory if needed
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	// Write the template
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

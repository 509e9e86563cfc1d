package config

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glint/internal/highlight"
	"github.com/zjrosen/glint/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.NoError(t, Validate(cfg), "defaults must validate")
	require.Empty(t, cfg.Rules, "defaults use the built-in rule table")
	require.Equal(t, "pre code", cfg.Page.Selector)
	require.Equal(t, "data-highlighted", cfg.Page.MarkerAttr)
	require.Equal(t, CacheKindMemory, cfg.Cache.Kind)
	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.False(t, cfg.Cache.Sliding, "entries expire a fixed ttl after they are stored")
	require.False(t, cfg.Tracing.Enabled)
}

func TestConfig_RuleSet_DefaultsWhenEmpty(t *testing.T) {
	rs, err := Defaults().RuleSet()
	require.NoError(t, err)
	require.Equal(t, highlight.DefaultRuleSet().Fingerprint(), rs.Fingerprint())
}

func TestConfig_RuleSet_Custom(t *testing.T) {
	cfg := Defaults()
	cfg.Rules = []RuleConfig{
		{Pattern: `#[^\n]*`, Category: "comment"},
		{Pattern: `\d+`, Category: "Number"},
	}

	rs, err := cfg.RuleSet()
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())

	segs := highlight.Tokenize("x = 1 # one", rs)
	require.Equal(t, []highlight.Category{
		highlight.Plain, highlight.Number, highlight.Plain, highlight.Comment,
	}, categories(segs))
}

func TestValidateRules_Empty(t *testing.T) {
	require.NoError(t, ValidateRules(nil), "empty rules should be valid (uses defaults)")
}

func TestValidateRules_MissingPattern(t *testing.T) {
	err := ValidateRules([]RuleConfig{{Pattern: "  ", Category: "comment"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "rule 0: pattern is required")
}

func TestValidateRules_MissingCategory(t *testing.T) {
	err := ValidateRules([]RuleConfig{
		{Pattern: `\d+`, Category: "number"},
		{Pattern: `x`},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "rule 1: category is required")
}

func TestValidateRules_UnknownCategory(t *testing.T) {
	err := ValidateRules([]RuleConfig{{Pattern: `\d+`, Category: "operator"}})
	require.Error(t, err)

	var ruleErr *highlight.InvalidRuleError
	require.True(t, errors.As(err, &ruleErr))
	require.Equal(t, 0, ruleErr.Index)
}

func TestValidateRules_PlainCategoryRejected(t *testing.T) {
	err := ValidateRules([]RuleConfig{{Pattern: `\w+`, Category: "plain"}})
	require.Error(t, err, "plain is the unclaimed category, not a rule target")
}

func TestValidateRules_BadPattern(t *testing.T) {
	err := ValidateRules([]RuleConfig{
		{Pattern: `\d+`, Category: "number"},
		{Pattern: `(unclosed`, Category: "string"},
	})
	require.Error(t, err)

	var ruleErr *highlight.InvalidRuleError
	require.True(t, errors.As(err, &ruleErr))
	require.Equal(t, 1, ruleErr.Index)
	require.Equal(t, `(unclosed`, ruleErr.Pattern)
}

func TestConfig_ClassMap_Overrides(t *testing.T) {
	cfg := Defaults()
	cfg.Classes = map[string]string{"keyword": "kw", "comment": ""}

	classes, err := cfg.ClassMap()
	require.NoError(t, err)
	require.Equal(t, "kw", classes[highlight.Keyword])
	require.Equal(t, "", classes[highlight.Comment])
	require.Equal(t, "hl-string", classes[highlight.String])
}

func TestConfig_ClassMap_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		classes map[string]string
		wantErr string
	}{
		{"unknown category", map[string]string{"operator": "op"}, "classes"},
		{"markup in class", map[string]string{"keyword": `kw" onclick="x`}, "markup characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Classes = tt.classes
			err := Validate(cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Palette(t *testing.T) {
	cfg := Defaults()
	cfg.Theme = ThemeConfig{Preset: "dracula", Colors: map[string]string{"keyword": "#123456"}}

	p, err := cfg.Palette()
	require.NoError(t, err)
	require.Equal(t, "#123456", p.Color(highlight.Keyword))
}

func TestValidate_Theme(t *testing.T) {
	cfg := Defaults()
	cfg.Theme.Preset = "solarized-neon"
	err := Validate(cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "theme")
}

func TestValidateCache(t *testing.T) {
	tests := []struct {
		name    string
		cache   CacheConfig
		wantErr string
	}{
		{"memory", CacheConfig{Kind: CacheKindMemory, TTL: time.Minute}, ""},
		{"empty kind", CacheConfig{}, ""},
		{"lru", CacheConfig{Kind: CacheKindLRU, Size: 10}, ""},
		{"lru without size", CacheConfig{Kind: CacheKindLRU}, "cache.size"},
		{"unknown kind", CacheConfig{Kind: "redis"}, "cache.kind"},
		{"negative ttl", CacheConfig{Kind: CacheKindMemory, TTL: -time.Second}, "cache.ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCache(tt.cache)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePage(t *testing.T) {
	require.NoError(t, ValidatePage(Defaults().Page))

	err := ValidatePage(PageConfig{Selector: "", MarkerAttr: "data-x"})
	require.ErrorContains(t, err, "page.selector")

	err = ValidatePage(PageConfig{Selector: "pre", MarkerAttr: "data x"})
	require.ErrorContains(t, err, "page.marker_attr")

	err = ValidatePage(PageConfig{Selector: "pre", MarkerAttr: "data-x", Concurrency: -1})
	require.ErrorContains(t, err, "page.concurrency")
}

func TestValidateServer(t *testing.T) {
	require.NoError(t, ValidateServer(Defaults().Server))
	require.ErrorContains(t, ValidateServer(ServerConfig{Port: 70000}), "server.port")
	require.ErrorContains(t, ValidateServer(ServerConfig{Port: 80, MaxBodyBytes: -1}), "max_body_bytes")
}

func TestValidateTracing(t *testing.T) {
	tests := []struct {
		name    string
		cfg     tracing.Config
		wantErr string
	}{
		{"disabled ignores values", tracing.Config{Enabled: false, Exporter: "bogus"}, ""},
		{"file", tracing.Config{Enabled: true, Exporter: "file", SampleRate: 1}, ""},
		{"bad exporter", tracing.Config{Enabled: true, Exporter: "zipkin"}, "tracing.exporter"},
		{"bad sample rate", tracing.Config{Enabled: true, Exporter: "file", SampleRate: 1.5}, "sample_rate"},
		{"otlp without endpoint", tracing.Config{Enabled: true, Exporter: "otlp", SampleRate: 1}, "otlp_endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracing(tt.cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_LogLevel(t *testing.T) {
	cfg := Defaults()
	cfg.Log.Level = "chatty"
	require.ErrorContains(t, Validate(cfg), "log")
}

func TestDefaultRules_MatchBuiltinTable(t *testing.T) {
	rules := DefaultRules()
	require.Len(t, rules, highlight.DefaultRuleSet().Len())
	require.Equal(t, "comment", rules[0].Category)
	require.Equal(t, "class", rules[len(rules)-1].Category)

	cfg := Defaults()
	cfg.Rules = rules
	rs, err := cfg.RuleSet()
	require.NoError(t, err)
	require.Equal(t, highlight.DefaultRuleSet().Fingerprint(), rs.Fingerprint())
}

func TestDefaultConfigTemplate_LoadsAndValidates(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(DefaultConfigTemplate())))

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))
	require.NoError(t, Validate(cfg))

	require.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	require.False(t, cfg.Cache.Sliding)
	require.Equal(t, 7878, cfg.Server.Port)
	require.True(t, cfg.Flags["parallel-blocks"])
	require.False(t, cfg.Flags["persistent-cache"])
}

func TestCacheConfig_SlidingFromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("cache:\n  ttl: 30s\n  sliding: true\n")))

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))
	require.NoError(t, Validate(cfg))
	require.True(t, cfg.Cache.Sliding)
	require.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	require.Equal(t, "default", v.GetString("theme.preset"))
}

func categories(segs []highlight.Segment) []highlight.Category {
	out := make([]highlight.Category, len(segs))
	for i, s := range segs {
		out[i] = s.Category
	}
	return out
}

package theme

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/glint/internal/highlight"
)

func TestPresets_CoverEveryCategory(t *testing.T) {
	for name, preset := range Presets {
		require.Equal(t, name, preset.Name)
		require.NotEmpty(t, preset.Description, "preset %s", name)
		for _, cat := range highlight.Categories() {
			hex, ok := preset.Colors[cat]
			require.True(t, ok, "preset %s missing %s", name, cat)
			require.True(t, IsValidHexColor(hex), "preset %s has invalid %s color %q", name, cat, hex)
		}
	}
}

func TestResolve_Default(t *testing.T) {
	p, err := Resolve(Config{})
	require.NoError(t, err)
	require.Equal(t, DefaultPreset.Colors, p)
}

func TestResolve_DoesNotMutatePreset(t *testing.T) {
	p, err := Resolve(Config{Colors: map[string]string{"keyword": "#000000"}})
	require.NoError(t, err)
	require.Equal(t, "#000000", p[highlight.Keyword])
	require.Equal(t, "#CBA6F7", DefaultPreset.Colors[highlight.Keyword])
}

func TestResolve_PresetThenOverrides(t *testing.T) {
	p, err := Resolve(Config{
		Preset: "dracula",
		Colors: map[string]string{"Comment": "#abc"},
	})
	require.NoError(t, err)
	require.Equal(t, "#abc", p[highlight.Comment])
	require.Equal(t, DraculaPreset.Colors[highlight.Keyword], p[highlight.Keyword])
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"unknown preset", Config{Preset: "solarized"}, "unknown theme preset: solarized"},
		{"unknown category", Config{Colors: map[string]string{"operator": "#fff"}}, "unknown color token: operator"},
		{"bad hex", Config{Colors: map[string]string{"string": "red"}}, "invalid hex color for string: red"},
		{"short hex", Config{Colors: map[string]string{"string": "#ff"}}, "invalid hex color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.cfg)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPalette_ColorFallsBackToPlain(t *testing.T) {
	p := Palette{highlight.Plain: "#111111"}
	require.Equal(t, "#111111", p.Color(highlight.Keyword))
}

func TestNames_Sorted(t *testing.T) {
	require.Equal(t, []string{
		"catppuccin-latte", "catppuccin-mocha", "default", "dracula", "high-contrast", "nord",
	}, Names())
}

func TestIsValidHexColor(t *testing.T) {
	require.True(t, IsValidHexColor("#FFF"))
	require.True(t, IsValidHexColor("#a1b2c3"))
	require.False(t, IsValidHexColor("FFF"))
	require.False(t, IsValidHexColor("#GGGGGG"))
	require.False(t, IsValidHexColor("#1234"))
}

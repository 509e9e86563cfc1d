package theme

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/zjrosen/glint/internal/highlight"
)

// Palette maps each category to a hex color.
type Palette map[highlight.Category]string

// Color returns the color for c, falling back to the plain color.
func (p Palette) Color(c highlight.Category) string {
	if hex, ok := p[c]; ok {
		return hex
	}
	return p[highlight.Plain]
}

// Config mirrors config.ThemeConfig to avoid circular imports.
type Config struct {
	Preset string
	Colors map[string]string
}

// Resolve builds a palette from a theme configuration.
// Order of application:
// 1. Start with default colors
// 2. Apply preset (if specified)
// 3. Apply individual color overrides, keyed by category name
func Resolve(cfg Config) (Palette, error) {
	colors := maps.Clone(DefaultPreset.Colors)

	if cfg.Preset != "" && cfg.Preset != "default" {
		preset, ok := Presets[cfg.Preset]
		if !ok {
			return nil, fmt.Errorf("unknown theme preset: %s", cfg.Preset)
		}
		maps.Copy(colors, preset.Colors)
	}

	for key, value := range cfg.Colors {
		cat, err := highlight.ParseCategory(key)
		if err != nil {
			return nil, fmt.Errorf("unknown color token: %s", key)
		}
		if !IsValidHexColor(value) {
			return nil, fmt.Errorf("invalid hex color for %s: %s", key, value)
		}
		colors[cat] = value
	}

	return colors, nil
}

// Names returns the preset names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(Presets))
}

// IsValidHexColor reports whether s is #RGB or #RRGGBB.
func IsValidHexColor(s string) bool {
	if !strings.HasPrefix(s, "#") {
		return false
	}
	hex := s[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	_, err := strconv.ParseUint(hex, 16, 64)
	return err == nil
}

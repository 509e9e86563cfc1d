// Package theme holds the color palettes used by the terminal renderer.
package theme

import "github.com/zjrosen/glint/internal/highlight"

// Preset represents a complete color theme.
type Preset struct {
	Name        string
	Description string
	Colors      Palette
}

// Presets contains all built-in theme presets.
var Presets = map[string]Preset{
	"default":          DefaultPreset,
	"catppuccin-mocha": CatppuccinMochaPreset,
	"catppuccin-latte": CatppuccinLattePreset,
	"dracula":          DraculaPreset,
	"nord":             NordPreset,
	"high-contrast":    HighContrastPreset,
}

// DefaultPreset is the stock glint scheme.
var DefaultPreset = Preset{
	Name:        "default",
	Description: "Default glint theme",
	Colors: Palette{
		highlight.Plain:     "#CCCCCC",
		highlight.Comment:   "#696969",
		highlight.String:    "#F9E2AF",
		highlight.Number:    "#FAB387",
		highlight.Keyword:   "#CBA6F7",
		highlight.Type:      "#94E2D5",
		highlight.Literal:   "#FF9F43",
		highlight.Decorator: "#F38BA8",
		highlight.Class:     "#54A0FF",
	},
}

// CatppuccinMochaPreset is the Catppuccin Mocha (dark) theme.
// Colors from: https://catppuccin.com/palette
var CatppuccinMochaPreset = Preset{
	Name:        "catppuccin-mocha",
	Description: "Catppuccin Mocha - warm, cozy dark theme",
	Colors: Palette{
		highlight.Plain:     "#CDD6F4", // text
		highlight.Comment:   "#6C7086", // overlay0
		highlight.String:    "#A6E3A1", // green
		highlight.Number:    "#FAB387", // peach
		highlight.Keyword:   "#CBA6F7", // mauve
		highlight.Type:      "#F9E2AF", // yellow
		highlight.Literal:   "#FAB387", // peach
		highlight.Decorator: "#F38BA8", // red
		highlight.Class:     "#89B4FA", // blue
	},
}

// CatppuccinLattePreset is the Catppuccin Latte (light) theme.
var CatppuccinLattePreset = Preset{
	Name:        "catppuccin-latte",
	Description: "Catppuccin Latte - warm, cozy light theme",
	Colors: Palette{
		highlight.Plain:     "#4C4F69", // text
		highlight.Comment:   "#9CA0B0", // overlay0
		highlight.String:    "#40A02B", // green
		highlight.Number:    "#FE640B", // peach
		highlight.Keyword:   "#8839EF", // mauve
		highlight.Type:      "#DF8E1D", // yellow
		highlight.Literal:   "#FE640B", // peach
		highlight.Decorator: "#D20F39", // red
		highlight.Class:     "#1E66F5", // blue
	},
}

// DraculaPreset is the Dracula theme.
var DraculaPreset = Preset{
	Name:        "dracula",
	Description: "Dracula - dark theme with vibrant colors",
	Colors: Palette{
		highlight.Plain:     "#F8F8F2", // foreground
		highlight.Comment:   "#6272A4", // comment
		highlight.String:    "#F1FA8C", // yellow
		highlight.Number:    "#BD93F9", // purple
		highlight.Keyword:   "#FF79C6", // pink
		highlight.Type:      "#8BE9FD", // cyan
		highlight.Literal:   "#BD93F9", // purple
		highlight.Decorator: "#50FA7B", // green
		highlight.Class:     "#FFB86C", // orange
	},
}

// NordPreset is the Nord theme.
var NordPreset = Preset{
	Name:        "nord",
	Description: "Nord - arctic, north-bluish palette",
	Colors: Palette{
		highlight.Plain:     "#ECEFF4", // snow storm 3
		highlight.Comment:   "#4C566A", // polar night 4
		highlight.String:    "#A3BE8C", // aurora green
		highlight.Number:    "#B48EAD", // aurora purple
		highlight.Keyword:   "#81A1C1", // frost 3
		highlight.Type:      "#8FBCBB", // frost 1
		highlight.Literal:   "#D08770", // aurora orange
		highlight.Decorator: "#BF616A", // aurora red
		highlight.Class:     "#88C0D0", // frost 2
	},
}

// HighContrastPreset is for accessibility.
var HighContrastPreset = Preset{
	Name:        "high-contrast",
	Description: "High contrast for accessibility",
	Colors: Palette{
		highlight.Plain:     "#FFFFFF",
		highlight.Comment:   "#00FF00",
		highlight.String:    "#FFFF00",
		highlight.Number:    "#FF8800",
		highlight.Keyword:   "#FF00FF",
		highlight.Type:      "#00FFFF",
		highlight.Literal:   "#FF8800",
		highlight.Decorator: "#FF0000",
		highlight.Class:     "#FFFFFF",
	},
}

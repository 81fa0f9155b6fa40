package theme

// Theming for the frame pacer overlay. InitStyles activates a base theme and
// configures the semantic widget styles used by the root view.

import (
	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// ColorPalette holds the resolved colors for one mode.
type ColorPalette struct {
	AppBg     string
	Surface   string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
	Overlay   string // latency readout background
}

var (
	light = ColorPalette{
		AppBg:     "#f7f9fb",
		Surface:   "#ffffff",
		Primary:   "#2563eb",
		Danger:    "#dc2626",
		Accent:    "#10b981",
		Text:      "#1e293b",
		TextMuted: "#64748b",
		Overlay:   "#000000",
	}
	dark = ColorPalette{
		AppBg:     "#0f172a",
		Surface:   "#1e293b",
		Primary:   "#3b82f6",
		Danger:    "#ef4444",
		Accent:    "#10b981",
		Text:      "#f1f5f9",
		TextMuted: "#94a3b8",
		Overlay:   "#020617",
	}
)

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleAccentLabel   = "accent.TLabel"
	StyleStateLabel    = "state.TLabel"
	StyleLatencyLabel  = "latency.TLabel"
)

var darkMode bool

// Current returns the palette of the active mode.
func Current() ColorPalette {
	if darkMode {
		return dark
	}
	return light
}

// InitStyles applies styles for the requested mode.
func InitStyles(useDark bool) {
	darkMode = useDark
	p := Current()
	_ = ActivateTheme("azure light")
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton, Background(p.Primary), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleDangerButton, Background(p.Danger), Foreground("white"), Padding("4p 3p"), Borderwidth(1), Relief("ridge"))
	StyleConfigure(StyleAccentLabel, Foreground(p.TextMuted), Background(p.Surface), Padding("2p 1p"))
	StyleConfigure(StyleStateLabel, Foreground("white"), Background(p.Accent), Padding("4p 2p"), Borderwidth(1), Relief("groove"))
	// Green on black like a HUD counter.
	StyleConfigure(StyleLatencyLabel, Foreground("#22c55e"), Background(p.Overlay), Padding("6p 3p"), Font("TkFixedFont", 16))
}

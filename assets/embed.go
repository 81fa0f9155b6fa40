package assets

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

// Presets holds the bundled TOML configurations, one per harness variant.
//
//go:embed presets/*.toml
var Presets embed.FS

// Preset returns the raw TOML of the named preset ("variant-a", "variant-b", ...).
func Preset(name string) ([]byte, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".toml")
	if name == "" {
		return nil, fmt.Errorf("assets: empty preset name")
	}
	b, err := Presets.ReadFile(path.Join("presets", name+".toml"))
	if err != nil {
		return nil, fmt.Errorf("assets: preset %q: %w", name, err)
	}
	return b, nil
}

// PresetNames lists the bundled presets in lexical order.
func PresetNames() []string {
	entries, err := Presets.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

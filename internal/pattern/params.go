package pattern

import (
	"fmt"
	"net/url"
	"strings"
)

// SolidWhite is the safe default colour list used when a raw record
// carries no usable colour data.
const SolidWhite = "255,255,255"

// Params holds the ordered protocol parameters needed to reissue a
// pattern command against the controller.
type Params struct {
	// Type is the controller pattern type token (e.g. "river", "custom", "off").
	Type string `yaml:"type" json:"patternType"`

	// Colors is a comma-delimited flat list of RGB components
	// (R,G,B,R,G,B,...), as the setPattern endpoint expects.
	Colors string `yaml:"colors" json:"colors"`

	// Direction is the direction descriptor ("F", "R", "0", ...).
	Direction string `yaml:"direction" json:"direction"`

	// Speed is the pattern speed value.
	Speed int `yaml:"speed" json:"speed"`

	// Gap, Other and Pause are opaque timing parameters passed through
	// unchanged.
	Gap   int `yaml:"gap" json:"gap"`
	Other int `yaml:"other" json:"other"`
	Pause int `yaml:"pause" json:"pause"`
}

// ColorCount returns the number of complete RGB triples in Colors.
// An empty list counts as one (the solid-white fallback).
func (p Params) ColorCount() int {
	colors := strings.TrimSpace(p.Colors)
	if colors == "" {
		return 1
	}
	return len(strings.Split(colors, ",")) / 3
}

// Query encodes the parameters as a setPattern query string targeting the
// given zone. Parameter order follows the controller's documented wire
// format.
func (p Params) Query(zone int) string {
	colors := strings.TrimSpace(p.Colors)
	if colors == "" {
		colors = SolidWhite
	}

	var b strings.Builder
	fmt.Fprintf(&b, "patternType=%s", url.QueryEscape(p.Type))
	fmt.Fprintf(&b, "&zones=%d", zone)
	b.WriteString("&num_zones=1")
	fmt.Fprintf(&b, "&num_colors=%d", p.ColorCount())
	fmt.Fprintf(&b, "&colors=%s", url.QueryEscape(colors))
	fmt.Fprintf(&b, "&direction=%s", url.QueryEscape(p.Direction))
	fmt.Fprintf(&b, "&speed=%d", p.Speed)
	fmt.Fprintf(&b, "&gap=%d", p.Gap)
	fmt.Fprintf(&b, "&other=%d", p.Other)
	fmt.Fprintf(&b, "&pause=%d", p.Pause)
	return b.String()
}

// OffParams returns the canonical off command parameters. The controller
// expects an explicit black colour list alongside the off type.
func OffParams() Params {
	return Params{Type: "off", Colors: "0,0,0"}
}

// ParseColorStr regroups the controller's ampersand-delimited flat colour
// list into the comma-delimited form outgoing commands use. Components
// that do not form a complete RGB triple are dropped. A missing or empty
// field yields solid white.
func ParseColorStr(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SolidWhite
	}

	parts := strings.Split(raw, "&")
	complete := len(parts) - len(parts)%3
	if complete == 0 {
		return SolidWhite
	}

	triples := make([]string, 0, complete/3)
	for i := 0; i+2 < len(parts); i += 3 {
		triples = append(triples, strings.Join([]string{
			strings.TrimSpace(parts[i]),
			strings.TrimSpace(parts[i+1]),
			strings.TrimSpace(parts[i+2]),
		}, ","))
	}
	return strings.Join(triples, ",")
}

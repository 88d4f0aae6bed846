package pattern

import (
	"strings"
	"testing"
)

func TestParseColorStr(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: SolidWhite},
		{name: "whitespace", raw: "   ", want: SolidWhite},
		{name: "single triple", raw: "255&0&0", want: "255,0,0"},
		{name: "four triples", raw: "255&0&0&0&255&0&0&0&255&255&255&255", want: "255,0,0,0,255,0,0,0,255,255,255,255"},
		{name: "incomplete remainder dropped", raw: "255&0&0&128&64", want: "255,0,0"},
		{name: "only incomplete", raw: "255&0", want: SolidWhite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseColorStr(tt.raw); got != tt.want {
				t.Errorf("ParseColorStr(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParams_ColorCount(t *testing.T) {
	tests := []struct {
		name   string
		colors string
		want   int
	}{
		{name: "empty defaults to one", colors: "", want: 1},
		{name: "one triple", colors: "255,0,0", want: 1},
		{name: "four triples", colors: "255,0,0,0,255,0,0,0,255,255,255,255", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{Colors: tt.colors}
			if got := p.ColorCount(); got != tt.want {
				t.Errorf("ColorCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestParams_Query(t *testing.T) {
	p := Params{
		Type:      "river",
		Colors:    "255,0,0,0,255,0",
		Direction: "R",
		Speed:     20,
		Gap:       5,
		Other:     1,
		Pause:     10,
	}

	got := p.Query(3)
	want := "patternType=river&zones=3&num_zones=1&num_colors=2" +
		"&colors=255%2C0%2C0%2C0%2C255%2C0&direction=R&speed=20&gap=5&other=1&pause=10"
	if got != want {
		t.Errorf("Query(3) = %q, want %q", got, want)
	}
}

func TestParams_Query_EmptyColorsFallsBackToWhite(t *testing.T) {
	got := Params{Type: "solid"}.Query(1)
	if !strings.Contains(got, "colors=255%2C255%2C255") {
		t.Errorf("Query() = %q, want solid white colours", got)
	}
	if !strings.Contains(got, "num_colors=1") {
		t.Errorf("Query() = %q, want num_colors=1", got)
	}
}

func TestOffParams(t *testing.T) {
	p := OffParams()
	if p.Type != "off" || p.Colors != "0,0,0" {
		t.Errorf("OffParams() = %+v, want off/0,0,0", p)
	}
}

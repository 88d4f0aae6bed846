package pattern

import (
	"fmt"

	"github.com/strandworks/strand-core/internal/controller"
)

// IdentityFor computes the stable deduplication id for a raw zone record.
//
// The id starts with the raw pattern type and appends, in fixed order,
// only the non-default descriptors among direction, speed and colour
// count, each joined by an underscore:
//
//	{pattern:"river", direction:"R", speed:20, numberOfColors:4}
//	  → "river_dir R_speed20_4colors"
//
// Suppressed defaults: direction "", "0" or "F"; speed 0; colour count
// of one or fewer. Identical raw records always produce the identical
// id, so repeated captures of the same show dedupe to one entry.
func IdentityFor(rec controller.ZoneStatus) string {
	id := rec.Pattern

	if !defaultDirection(rec.Direction) {
		id += "_dir " + rec.Direction
	}
	if rec.Speed != 0 {
		id += fmt.Sprintf("_speed%d", rec.Speed)
	}
	if rec.NumberOfColors > 1 {
		id += fmt.Sprintf("_%dcolors", rec.NumberOfColors)
	}
	return id
}

// defaultDirection reports whether a direction descriptor is one of the
// controller's defaults and therefore omitted from identities.
func defaultDirection(dir string) bool {
	switch dir {
	case "", "0", "F":
		return true
	}
	return false
}

// paramsFor extracts reissuable command parameters from a raw record.
func paramsFor(rec controller.ZoneStatus) Params {
	return Params{
		Type:      rec.Pattern,
		Colors:    ParseColorStr(rec.ColorStr),
		Direction: rec.Direction,
		Speed:     rec.Speed,
		Gap:       rec.Gap,
		Other:     rec.Other,
		Pause:     rec.Pause,
	}
}

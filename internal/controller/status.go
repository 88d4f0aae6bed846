package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ZoneStatus is the canonical typed record for one zone, decoded from the
// controller's /getController payload. It is the single source of truth
// for observed zone state; no raw payload shapes escape this package.
type ZoneStatus struct {
	// Zone is the zone number (1-6).
	Zone int

	// Pattern is the raw pattern identifier string reported by the
	// controller, or "off".
	Pattern string

	// IsOn is the controller-reported power flag, when present.
	IsOn *bool

	// Direction is the pattern direction descriptor (e.g. "F", "R", "0").
	Direction string

	// Speed is the pattern speed value.
	Speed int

	// NumberOfColors is the controller-reported colour count.
	NumberOfColors int

	// ColorStr is the ampersand-delimited flat list of RGB components.
	ColorStr string

	// Gap, Other and Pause are opaque timing parameters echoed back into
	// outgoing commands.
	Gap   int
	Other int
	Pause int
}

// Off reports whether the record describes an off state: either the
// controller flags the zone off, or the active pattern is "off".
func (z ZoneStatus) Off() bool {
	if z.IsOn != nil && !*z.IsOn {
		return true
	}
	return z.Pattern == "off"
}

// FindZone locates the record for the given zone number.
func FindZone(records []ZoneStatus, zone int) (ZoneStatus, bool) {
	for _, rec := range records {
		if rec.Zone == zone {
			return rec, true
		}
	}
	return ZoneStatus{}, false
}

// flexInt decodes a JSON number or a string-coerced number.
// Controller firmware revisions disagree on which they send.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	// Some revisions send floats for integral fields.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", s)
	}
	*f = flexInt(int(v))
	return nil
}

// flexBool decodes a JSON bool, 0/1 number, or their string forms.
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.ToLower(strings.Trim(strings.TrimSpace(string(data)), `"`))
	switch s {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	default:
		return fmt.Errorf("not a bool: %q", s)
	}
	return nil
}

// flexString decodes a JSON string or bare number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	*f = flexString(strings.Trim(s, `"`))
	return nil
}

// rawZoneRecord mirrors the wire shape of one /getController entry.
type rawZoneRecord struct {
	Zone           flexInt    `json:"zone"`
	Pattern        flexString `json:"pattern"`
	PatternType    flexString `json:"patternType"`
	IsOn           *flexBool  `json:"isOn"`
	Direction      flexString `json:"direction"`
	Speed          flexInt    `json:"speed"`
	NumberOfColors flexInt    `json:"numberOfColors"`
	ColorStr       flexString `json:"colorStr"`
	Gap            flexInt    `json:"gap"`
	Other          flexInt    `json:"other"`
	Pause          flexInt    `json:"pause"`
}

// decodeStatus is the single decoding boundary for controller status
// payloads. It accepts the payload as a JSON array or as a JSON string
// wrapping that array, and returns canonical typed records.
func decodeStatus(data []byte) ([]ZoneStatus, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty payload")
	}

	// Some firmware revisions double-encode: the body is a JSON string
	// whose contents are the JSON array.
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, fmt.Errorf("unwrapping string payload: %w", err)
		}
		return decodeStatus([]byte(inner))
	}

	var raws []rawZoneRecord
	if err := json.Unmarshal(trimmed, &raws); err != nil {
		return nil, fmt.Errorf("decoding zone records: %w", err)
	}

	records := make([]ZoneStatus, 0, len(raws))
	for _, raw := range raws {
		pattern := string(raw.Pattern)
		if pattern == "" {
			pattern = string(raw.PatternType)
		}

		rec := ZoneStatus{
			Zone:           int(raw.Zone),
			Pattern:        pattern,
			Direction:      string(raw.Direction),
			Speed:          int(raw.Speed),
			NumberOfColors: int(raw.NumberOfColors),
			ColorStr:       string(raw.ColorStr),
			Gap:            int(raw.Gap),
			Other:          int(raw.Other),
			Pause:          int(raw.Pause),
		}
		if raw.IsOn != nil {
			on := bool(*raw.IsOn)
			rec.IsOn = &on
		}
		records = append(records, rec)
	}
	return records, nil
}

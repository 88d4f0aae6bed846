package verify

import (
	"net/url"
	"strconv"
)

// Expectation is the predicate derived from a just-sent command URL,
// compared against observed zone state on each polling attempt.
type Expectation struct {
	// IsOff is true when the command turns the zone off.
	IsOff bool

	// PatternType is the commanded pattern type token.
	PatternType string
}

// Observed is the per-attempt snapshot of the zone's reported state.
type Observed struct {
	Pattern string
	IsOff   bool
}

// ParseExpectation derives the expected state from a command URL.
//
// The second return value is false when verification should be skipped:
// the command carries no patternType, its query is unparseable, or its
// zones selector targets a different zone than the one this session
// observes.
func ParseExpectation(commandURL string, zone int) (Expectation, bool) {
	u, err := url.Parse(commandURL)
	if err != nil {
		return Expectation{}, false
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return Expectation{}, false
	}

	patternType := q.Get("patternType")
	if patternType == "" {
		return Expectation{}, false
	}

	if zones := q.Get("zones"); zones != "" {
		n, err := strconv.Atoi(zones)
		if err != nil || n != zone {
			return Expectation{}, false
		}
	}

	return Expectation{
		IsOff:       patternType == "off",
		PatternType: patternType,
	}, true
}

// Matches compares observed state against the expectation.
//
// The policy is approximate: on/off disagreement is the only hard
// mismatch. Once the switch states agree, every remaining tier resolves
// to acceptance — an off expectation is confirmed by the off flag
// alone, a custom pattern cannot be byte-verified, and the controller
// reports pattern names too loosely to compare, so anything still
// undetermined defaults to success.
func (e Expectation) Matches(cur Observed) bool {
	return e.IsOff == cur.IsOff
}

package zone

import (
	"time"

	"github.com/strandworks/strand-core/internal/verify"
)

// Switch positions as exposed on the observable surface.
const (
	SwitchOn  = "on"
	SwitchOff = "off"
)

// State is the observable state of a zone.
type State struct {
	// Switch is "on" or "off".
	Switch string `json:"switch"`

	// CurrentPattern is the raw pattern identifier reported by the
	// controller, or "off".
	CurrentPattern string `json:"currentPattern"`

	// EffectName is the best-effort reverse lookup of CurrentPattern
	// into a known pattern name, empty when unmatched.
	EffectName string `json:"effectName,omitempty"`

	// Verification is the latest terminal verification outcome, empty
	// when verification is disabled or no command has run yet.
	Verification verify.Outcome `json:"verification,omitempty"`

	// UpdatedAt is when the state last changed.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Sink receives zone state updates. Implementations must not block;
// slow consumers should buffer internally.
type Sink interface {
	PublishZoneState(zone int, st State)
}

// VerificationSink optionally receives terminal verification results.
// Sinks that also implement this interface get per-session records in
// addition to state updates.
type VerificationSink interface {
	PublishVerification(zone int, res verify.Result)
}

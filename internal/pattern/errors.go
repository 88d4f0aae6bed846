package pattern

import "errors"

// Domain errors for the pattern package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, pattern.ErrStoreFull) {
//	    // ask the user to delete a pattern first
//	}
var (
	// ErrDeviceOff is returned when a capture is attempted while the zone
	// reports an off state. There is nothing meaningful to save.
	ErrDeviceOff = errors.New("pattern: device is off")

	// ErrStoreFull is returned when a capture would create a new entry
	// but all slots are occupied.
	ErrStoreFull = errors.New("pattern: store full")

	// ErrNotFound is returned when a pattern name does not exist.
	ErrNotFound = errors.New("pattern: not found")

	// ErrNameTaken is returned when a rename targets a name already held
	// by a different entry.
	ErrNameTaken = errors.New("pattern: name already in use")
)

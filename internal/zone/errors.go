package zone

import "errors"

// Domain errors for the zone package.
var (
	// ErrUnknownEffect is returned when an effect name resolves against
	// neither the captured-pattern store nor the built-in catalog.
	ErrUnknownEffect = errors.New("zone: unknown effect")

	// ErrZoneMissing is returned when the controller's status payload
	// carries no record for the configured zone.
	ErrZoneMissing = errors.New("zone: not present in controller status")

	// ErrPollingActive is returned when polling is started twice.
	ErrPollingActive = errors.New("zone: polling already active")
)

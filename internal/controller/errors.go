package controller

import "errors"

// Domain errors for the controller package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, controller.ErrUnreachable) {
//	    // transport failure: retry on the owning loop's schedule
//	}
var (
	// ErrInvalidHost is returned when the configured controller host is
	// empty or malformed.
	ErrInvalidHost = errors.New("controller: invalid host")

	// ErrUnreachable is returned on transport failures: timeout,
	// connection refused, or host resolution failure.
	ErrUnreachable = errors.New("controller: unreachable")

	// ErrBadStatus is returned when the controller answers with a
	// non-200 HTTP status.
	ErrBadStatus = errors.New("controller: unexpected http status")

	// ErrNoAck is returned when a command response is HTTP 200 but the
	// body lacks the acknowledgment phrase.
	ErrNoAck = errors.New("controller: missing command acknowledgment")

	// ErrBadPayload is returned when a status payload cannot be decoded.
	ErrBadPayload = errors.New("controller: malformed status payload")
)

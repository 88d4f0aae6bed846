// Package controller provides the HTTP client for the multi-zone lighting
// controller's unauthenticated device API.
//
// This package manages:
//   - Fire-and-confirm command delivery (GET /setPattern)
//   - Full controller status queries (GET /getController)
//   - Normalisation of the controller's shape-shifting status payload
//     into typed ZoneStatus records
//
// The client is deliberately stateless and retry-free: retry policy belongs
// to the verification and polling loops that own it, not to the transport.
//
// # Failure taxonomy
//
//   - ErrUnreachable: timeout, connection refused, DNS failure (transport)
//   - ErrBadStatus, ErrNoAck, ErrBadPayload: protocol failures
//
// Callers distinguish these with errors.Is.
//
// # Usage
//
//	client, err := controller.New(controller.Config{Host: cfg.Controller.Host})
//	if err != nil {
//	    return err
//	}
//	records, err := client.FetchStatus(ctx)
package controller

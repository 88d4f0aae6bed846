// Package zone owns the observable state and control operations for a
// single lighting zone.
//
// A Service ties the building blocks together: it issues commands
// through the controller client, resolves effect names against the
// captured-pattern store and the built-in catalog, runs post-command
// verification, and keeps the zone's observable state fresh with a
// periodic poll loop.
//
// # Observable State
//
// State carries the switch position, the raw pattern reported by the
// controller, a best-effort effect name, and the latest verification
// outcome. It is updated by the poll loop and by verified command
// results; the command path itself only touches it as an optimistic
// placeholder when verification is disabled.
//
// # Fan-out
//
// Every state change is pushed to registered sinks. MQTT, InfluxDB and
// WebSocket sinks are wired in at startup; the service itself knows
// nothing about their transports.
package zone

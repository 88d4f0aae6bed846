// Package influxdb records zone telemetry in InfluxDB v2.
//
// Strand Core writes two measurement families: zone_state (switch
// position and pattern on every state change) and verification
// (terminal session outcomes with attempt counts and durations).
//
// Writes are non-blocking and batched by the underlying client; a
// failed write never affects zone control. The whole integration is
// optional and disabled by default.
package influxdb

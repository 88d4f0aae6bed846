package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteZoneState records a zone state change.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - zone: Zone number (1-6)
//   - patternType: The raw pattern reported by the controller, or "off"
//   - isOn: Switch position
func (c *Client) WriteZoneState(zone int, patternType string, isOn bool) {
	if !c.IsConnected() {
		return
	}

	on := 0.0
	if isOn {
		on = 1.0
	}

	point := write.NewPoint(
		"zone_state",
		map[string]string{
			"zone":         strconv.Itoa(zone),
			"pattern_type": patternType,
		},
		map[string]interface{}{
			"on": on,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteVerification records a terminal verification outcome.
//
// Parameters:
//   - zone: Zone number
//   - outcome: Terminal outcome string (verified, failed, timeout, skipped, error)
//   - attempts: Polling attempts made before the outcome
//   - elapsed: Session duration
func (c *Client) WriteVerification(zone int, outcome string, attempts int, elapsed time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"verification",
		map[string]string{
			"zone":    strconv.Itoa(zone),
			"outcome": outcome,
		},
		map[string]interface{}{
			"attempts":   attempts,
			"elapsed_ms": float64(elapsed.Milliseconds()),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}

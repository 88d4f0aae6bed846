package influxdb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/strandworks/strand-core/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{
		Enabled: true,
		URL:     "http://127.0.0.1:1", // nothing listens here
		Token:   "token",
		Org:     "strand",
		Bucket:  "telemetry",
	})
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestDisconnectedClientIsSafe(t *testing.T) {
	// A zero client reports disconnected; writes and flushes are no-ops
	// and must never panic.
	c := &Client{}

	if c.IsConnected() {
		t.Error("zero client reports connected")
	}

	c.WriteZoneState(1, "river", true)
	c.WriteVerification(1, "verified", 2, 3*time.Second)
	c.WritePoint("custom", nil, map[string]interface{}{"v": 1.0})
	c.Flush()

	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

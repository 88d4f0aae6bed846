package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
controller:
  host: "192.168.4.80"
  timeout: 3
  ack_phrase: "Command received"
zone:
  number: 2
polling:
  enabled: true
  interval: 30
verification:
  enabled: true
  max_retries: 4
  retry_delay: 1
  timeout: 20
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Controller.Host != "192.168.4.80" {
		t.Errorf("Controller.Host = %q, want %q", cfg.Controller.Host, "192.168.4.80")
	}
	if cfg.Zone.Number != 2 {
		t.Errorf("Zone.Number = %d, want 2", cfg.Zone.Number)
	}
	if cfg.Verification.MaxRetries != 4 {
		t.Errorf("Verification.MaxRetries = %d, want 4", cfg.Verification.MaxRetries)
	}
	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
}

func TestLoad_Defaults(t *testing.T) {
	// A minimal file exercises the default layer.
	cfg, err := Load(writeConfig(t, "controller:\n  host: \"10.0.0.5\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Controller.Timeout != 5 {
		t.Errorf("Controller.Timeout default = %d, want 5", cfg.Controller.Timeout)
	}
	if cfg.Zone.Number != 1 {
		t.Errorf("Zone.Number default = %d, want 1", cfg.Zone.Number)
	}
	if !cfg.Polling.Enabled || cfg.Polling.Interval != 60 {
		t.Errorf("Polling default = %+v, want enabled with interval 60", cfg.Polling)
	}
	if cfg.Verification.MaxRetries != 5 {
		t.Errorf("Verification.MaxRetries default = %d, want 5", cfg.Verification.MaxRetries)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level default = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("STRAND_CONTROLLER_HOST", "10.1.1.1")
	t.Setenv("STRAND_ZONE_NUMBER", "3")

	cfg, err := Load(writeConfig(t, "controller:\n  host: \"ignored\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Controller.Host != "10.1.1.1" {
		t.Errorf("Controller.Host = %q, want env override %q", cfg.Controller.Host, "10.1.1.1")
	}
	if cfg.Zone.Number != 3 {
		t.Errorf("Zone.Number = %d, want env override 3", cfg.Zone.Number)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Controller.Host = "192.168.4.80"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "missing controller host",
			mutate:  func(c *Config) { c.Controller.Host = "  " },
			wantErr: "controller.host",
		},
		{
			name:    "zone number too low",
			mutate:  func(c *Config) { c.Zone.Number = 0 },
			wantErr: "zone.number",
		},
		{
			name:    "zone number too high",
			mutate:  func(c *Config) { c.Zone.Number = 7 },
			wantErr: "zone.number",
		},
		{
			name:    "zero poll interval while enabled",
			mutate:  func(c *Config) { c.Polling.Interval = 0 },
			wantErr: "polling.interval",
		},
		{
			name: "poll interval ignored when disabled",
			mutate: func(c *Config) {
				c.Polling.Enabled = false
				c.Polling.Interval = 0
			},
		},
		{
			name:    "verification retries below one",
			mutate:  func(c *Config) { c.Verification.MaxRetries = 0 },
			wantErr: "verification.max_retries",
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "invalid api port",
			mutate:  func(c *Config) { c.API.Port = 0 },
			wantErr: "api.port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_DurationHelpers(t *testing.T) {
	cfg := defaultConfig()
	cfg.Verification.RetryDelay = 2
	cfg.Verification.Timeout = 30
	cfg.Polling.Interval = 45

	if got := cfg.VerifyRetryDelay().Seconds(); got != 2 {
		t.Errorf("VerifyRetryDelay() = %vs, want 2s", got)
	}
	if got := cfg.VerifyTimeout().Seconds(); got != 30 {
		t.Errorf("VerifyTimeout() = %vs, want 30s", got)
	}
	if got := cfg.PollInterval().Seconds(); got != 45 {
		t.Errorf("PollInterval() = %vs, want 45s", got)
	}
}

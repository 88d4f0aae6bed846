package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Strand Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Controller   ControllerConfig   `yaml:"controller"`
	Zone         ZoneConfig         `yaml:"zone"`
	Polling      PollingConfig      `yaml:"polling"`
	Verification VerificationConfig `yaml:"verification"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	MQTT         MQTTConfig         `yaml:"mqtt"`
	API          APIConfig          `yaml:"api"`
	WebSocket    WebSocketConfig    `yaml:"websocket"`
	InfluxDB     InfluxDBConfig     `yaml:"influxdb"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ControllerConfig contains the lighting controller connection settings.
type ControllerConfig struct {
	// Host is the controller's IP address or hostname. Required.
	Host string `yaml:"host"`

	// Timeout is the per-request HTTP timeout in seconds.
	Timeout int `yaml:"timeout"`

	// AckPhrase is the literal acknowledgment text the controller returns
	// in a command response body. A 200 response without this phrase is
	// treated as a protocol failure.
	AckPhrase string `yaml:"ack_phrase"`
}

// ZoneConfig identifies which controller zone this instance manages.
type ZoneConfig struct {
	// Number is the zone number on the controller (1-6).
	Number int `yaml:"number"`
}

// PollingConfig contains background status-refresh settings.
type PollingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Interval between poll ticks, in seconds.
	Interval int `yaml:"interval"`
}

// VerificationConfig contains post-command verification settings.
type VerificationConfig struct {
	Enabled bool `yaml:"enabled"`

	// MaxRetries is the maximum number of status-poll attempts per session.
	MaxRetries int `yaml:"max_retries"`

	// RetryDelay is the fixed delay between attempts, in seconds.
	RetryDelay int `yaml:"retry_delay"`

	// Timeout is the overall wall-clock bound per session, in seconds,
	// measured from session start independent of attempt count.
	Timeout int `yaml:"timeout"`
}

// CatalogConfig contains the built-in pattern catalog settings.
type CatalogConfig struct {
	// Path optionally overrides the embedded catalog resource.
	Path string `yaml:"path"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
}

// APIConfig contains HTTP API server settings.
type APIConfig struct {
	Host     string           `yaml:"host"`
	Port     int              `yaml:"port"`
	Timeouts APITimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig       `yaml:"cors"`
}

// APITimeoutConfig contains HTTP timeout settings.
type APITimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// WebSocketConfig contains WebSocket server settings.
type WebSocketConfig struct {
	Path           string `yaml:"path"`
	MaxMessageSize int    `yaml:"max_message_size"`
	PingInterval   int    `yaml:"ping_interval"`
	PongTimeout    int    `yaml:"pong_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: STRAND_SECTION_KEY
// For example: STRAND_CONTROLLER_HOST, STRAND_ZONE_NUMBER
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Controller: ControllerConfig{
			Timeout:   5,
			AckPhrase: "Command received",
		},
		Zone: ZoneConfig{
			Number: 1,
		},
		Polling: PollingConfig{
			Enabled:  true,
			Interval: 60,
		},
		Verification: VerificationConfig{
			Enabled:    true,
			MaxRetries: 5,
			RetryDelay: 2,
			Timeout:    30,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "strandcore",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
			},
		},
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: APITimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
		},
		WebSocket: WebSocketConfig{
			Path:           "/ws",
			MaxMessageSize: 8192,
			PingInterval:   30,
			PongTimeout:    10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: STRAND_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Controller
	if v := os.Getenv("STRAND_CONTROLLER_HOST"); v != "" {
		cfg.Controller.Host = v
	}

	// Zone
	if v := os.Getenv("STRAND_ZONE_NUMBER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Zone.Number = n
		}
	}

	// MQTT
	if v := os.Getenv("STRAND_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("STRAND_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("STRAND_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// API
	if v := os.Getenv("STRAND_API_HOST"); v != "" {
		cfg.API.Host = v
	}

	// InfluxDB
	if v := os.Getenv("STRAND_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// No partial operation proceeds without valid configuration: a missing
// controller host or an out-of-range zone number halts initialisation.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Controller validation
	if strings.TrimSpace(c.Controller.Host) == "" {
		errs = append(errs, "controller.host is required (set STRAND_CONTROLLER_HOST environment variable)")
	}
	if c.Controller.Timeout <= 0 {
		errs = append(errs, "controller.timeout must be positive")
	}

	// Zone validation
	if c.Zone.Number < 1 || c.Zone.Number > 6 {
		errs = append(errs, "zone.number must be between 1 and 6")
	}

	// Polling validation
	if c.Polling.Enabled && c.Polling.Interval <= 0 {
		errs = append(errs, "polling.interval must be positive when polling is enabled")
	}

	// Verification validation
	if c.Verification.Enabled {
		if c.Verification.MaxRetries < 1 {
			errs = append(errs, "verification.max_retries must be at least 1")
		}
		if c.Verification.RetryDelay < 1 {
			errs = append(errs, "verification.retry_delay must be at least 1 second")
		}
		if c.Verification.Timeout < 1 {
			errs = append(errs, "verification.timeout must be at least 1 second")
		}
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// API validation
	if c.API.Port < 1 || c.API.Port > 65535 {
		errs = append(errs, "api.port must be between 1 and 65535")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ControllerTimeout returns the controller HTTP timeout as a Duration.
func (c *Config) ControllerTimeout() time.Duration {
	return time.Duration(c.Controller.Timeout) * time.Second
}

// PollInterval returns the poll interval as a Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Polling.Interval) * time.Second
}

// VerifyRetryDelay returns the verification retry delay as a Duration.
func (c *Config) VerifyRetryDelay() time.Duration {
	return time.Duration(c.Verification.RetryDelay) * time.Second
}

// VerifyTimeout returns the verification wall-clock timeout as a Duration.
func (c *Config) VerifyTimeout() time.Duration {
	return time.Duration(c.Verification.Timeout) * time.Second
}

// GetReadTimeout returns the API read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the API write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the API idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.API.Timeouts.Idle) * time.Second
}

// Strand Core - Multi-Zone LED Controller Gateway
//
// This is the main entry point for the Strand Core application.
// Strand Core fronts an unauthenticated HTTP lighting controller with:
//   - A stateful zone service (effects, power, capture, polling)
//   - Post-command verification with bounded retries
//   - REST + WebSocket API for user interfaces
//   - Optional MQTT and InfluxDB integrations
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/strandworks/strand-core/internal/api"
	"github.com/strandworks/strand-core/internal/catalog"
	"github.com/strandworks/strand-core/internal/controller"
	"github.com/strandworks/strand-core/internal/infrastructure/config"
	"github.com/strandworks/strand-core/internal/infrastructure/influxdb"
	"github.com/strandworks/strand-core/internal/infrastructure/logging"
	"github.com/strandworks/strand-core/internal/infrastructure/mqtt"
	"github.com/strandworks/strand-core/internal/pattern"
	"github.com/strandworks/strand-core/internal/verify"
	"github.com/strandworks/strand-core/internal/zone"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// mqttCommandTimeout bounds controller round-trips triggered from MQTT
// command messages.
const mqttCommandTimeout = 10 * time.Second

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Strand Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Controller HTTP client
	client, err := controller.New(controller.Config{
		Host:      cfg.Controller.Host,
		Timeout:   cfg.ControllerTimeout(),
		AckPhrase: cfg.Controller.AckPhrase,
	})
	if err != nil {
		return fmt.Errorf("creating controller client: %w", err)
	}
	client.SetLogger(log)
	log.Info("controller client ready", "base_url", client.BaseURL())

	// Built-in pattern catalog
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("loading pattern catalog: %w", err)
	}
	log.Info("pattern catalog loaded", "patterns", cat.Len())

	// Captured pattern store (in-memory, bounded)
	store := pattern.NewStore()
	store.SetLogger(log)

	// Zone service
	svc := zone.NewService(zone.Config{
		Zone:          cfg.Zone.Number,
		PollInterval:  cfg.PollInterval(),
		VerifyEnabled: cfg.Verification.Enabled,
		Verify: verify.Config{
			MaxRetries: cfg.Verification.MaxRetries,
			RetryDelay: cfg.VerifyRetryDelay(),
			Timeout:    cfg.VerifyTimeout(),
		},
	}, client, store, cat)
	svc.SetLogger(log)
	log.Info("zone service initialised",
		"zone", cfg.Zone.Number,
		"verification", cfg.Verification.Enabled,
	)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		// Publish state and verification results to the zone topics
		svc.AddSink(&mqttZoneSink{
			client: mqttClient,
			qos:    byte(cfg.MQTT.QoS),
			log:    log,
		})

		// Accept commands on strand/zone/{n}/set
		if subErr := subscribeZoneCommands(ctx, mqttClient, svc, byte(cfg.MQTT.QoS), log); subErr != nil {
			return fmt.Errorf("subscribing to zone commands: %w", subErr)
		}
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		svc.AddSink(&influxZoneSink{client: influxClient})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the REST/WebSocket API server
	apiServer, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Zone:    svc,
		Store:   store,
		Catalog: cat,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	// WebSocket clients receive zone state through the API server
	svc.AddSink(apiServer)

	// Start background status polling
	if cfg.Polling.Enabled {
		if pollErr := svc.StartPolling(ctx); pollErr != nil {
			return fmt.Errorf("starting polling: %w", pollErr)
		}
		defer svc.StopPolling()
	} else {
		log.Info("background polling disabled")
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, mqttClient, influxClient, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls will run in reverse order:
	// 1. Polling loop
	// 2. API server
	// 3. InfluxDB (if enabled)
	// 4. MQTT (if enabled)

	log.Info("Strand Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses STRAND_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("STRAND_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - mqttClient: MQTT client to check (may be nil if disabled)
//   - influxClient: InfluxDB client to check (may be nil if disabled)
//   - apiServer: API server to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, mqttClient *mqtt.Client, influxClient *influxdb.Client, apiServer *api.Server) error {
	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	// The controller itself is not checked at startup: the device may be
	// powered down without that being an error. Polling and verification
	// surface controller reachability continuously at runtime.

	return nil
}

// zoneCommand is the payload accepted on the MQTT command topic.
// Exactly one field should be set per message.
type zoneCommand struct {
	// Effect selects a catalog or captured pattern by name.
	Effect string `json:"effect,omitempty"`

	// On switches the zone on (reissuing the last pattern) or off.
	On *bool `json:"on,omitempty"`
}

// subscribeZoneCommands wires the MQTT command intake topic to the zone
// service, mirroring the REST effect/power endpoints.
func subscribeZoneCommands(ctx context.Context, client *mqtt.Client, svc *zone.Service, qos byte, log *logging.Logger) error {
	topic := mqtt.Topics{}.ZoneCommand(svc.Zone())

	handler := func(topic string, payload []byte) error {
		var cmd zoneCommand
		if err := json.Unmarshal(payload, &cmd); err != nil {
			return fmt.Errorf("parsing zone command: %w", err)
		}

		cmdCtx, cancel := context.WithTimeout(ctx, mqttCommandTimeout)
		defer cancel()

		switch {
		case cmd.Effect != "":
			log.Info("MQTT effect command", "zone", svc.Zone(), "effect", cmd.Effect)
			return svc.SetEffect(cmdCtx, cmd.Effect)
		case cmd.On != nil && *cmd.On:
			log.Info("MQTT power command", "zone", svc.Zone(), "on", true)
			return svc.On(cmdCtx)
		case cmd.On != nil:
			log.Info("MQTT power command", "zone", svc.Zone(), "on", false)
			return svc.Off(cmdCtx)
		default:
			return fmt.Errorf("zone command has neither effect nor on field")
		}
	}

	if err := client.Subscribe(topic, qos, handler); err != nil {
		return err
	}
	log.Info("subscribed to zone commands", "topic", topic)
	return nil
}

// mqttZoneSink publishes zone state and verification results to MQTT.
// State messages are retained so late subscribers see the current state
// immediately; verification results are transient events.
type mqttZoneSink struct {
	client *mqtt.Client
	qos    byte
	topics mqtt.Topics
	log    *logging.Logger
}

// PublishZoneState implements zone.Sink.
func (s *mqttZoneSink) PublishZoneState(zoneNum int, st zone.State) {
	payload, err := json.Marshal(st)
	if err != nil {
		s.log.Error("marshalling zone state", "zone", zoneNum, "error", err)
		return
	}
	if err := s.client.Publish(s.topics.ZoneState(zoneNum), payload, s.qos, true); err != nil {
		s.log.Warn("publishing zone state", "zone", zoneNum, "error", err)
	}
}

// PublishVerification implements zone.VerificationSink.
func (s *mqttZoneSink) PublishVerification(zoneNum int, res verify.Result) {
	payload, err := json.Marshal(res)
	if err != nil {
		s.log.Error("marshalling verification result", "zone", zoneNum, "error", err)
		return
	}
	if err := s.client.Publish(s.topics.ZoneVerification(zoneNum), payload, s.qos, false); err != nil {
		s.log.Warn("publishing verification result", "zone", zoneNum, "error", err)
	}
}

// influxZoneSink records zone state and verification results as
// time-series points. Writes are batched and asynchronous; failures
// surface through the client's error callback.
type influxZoneSink struct {
	client *influxdb.Client
}

// PublishZoneState implements zone.Sink.
func (s *influxZoneSink) PublishZoneState(zoneNum int, st zone.State) {
	s.client.WriteZoneState(zoneNum, st.CurrentPattern, st.Switch == zone.SwitchOn)
}

// PublishVerification implements zone.VerificationSink.
func (s *influxZoneSink) PublishVerification(zoneNum int, res verify.Result) {
	s.client.WriteVerification(zoneNum, string(res.Outcome), res.Attempts, res.Elapsed)
}

// Package api provides the HTTP REST API and WebSocket server for Strand Core.
//
// It exposes zone control (effects, power, capture), the captured-pattern
// library, and real-time state updates to user interfaces.
//
// The server follows the same lifecycle pattern as other infrastructure
// components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// Thread Safety: All methods are safe for concurrent use from multiple goroutines.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/strandworks/strand-core/internal/catalog"
	"github.com/strandworks/strand-core/internal/infrastructure/config"
	"github.com/strandworks/strand-core/internal/infrastructure/logging"
	"github.com/strandworks/strand-core/internal/pattern"
	"github.com/strandworks/strand-core/internal/zone"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// ZoneService is the zone control surface the API exposes.
// Satisfied by *zone.Service.
type ZoneService interface {
	Zone() int
	State() zone.State
	SetEffect(ctx context.Context, name string) error
	On(ctx context.Context) error
	Off(ctx context.Context) error
	Capture(ctx context.Context) (pattern.Pattern, error)
	Poll(ctx context.Context) error
	EffectNames() []string
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config  config.APIConfig
	WS      config.WebSocketConfig
	Logger  *logging.Logger
	Zone    ZoneService
	Store   *pattern.Store
	Catalog *catalog.Catalog
	Version string
}

// Server is the HTTP API server for Strand Core.
//
// It manages the HTTP listener, routes, middleware, and WebSocket hub.
// The server is created with New() and started with Start().
type Server struct {
	cfg     config.APIConfig
	wsCfg   config.WebSocketConfig
	logger  *logging.Logger
	zone    ZoneService
	store   *pattern.Store
	catalog *catalog.Catalog
	version string
	server  *http.Server
	hub     *Hub
	cancel  context.CancelFunc // cancels background goroutines on Close()
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called.
//
// Returns:
//   - *Server: Configured server ready to start
//   - error: If required dependencies are missing
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Zone == nil {
		return nil, fmt.Errorf("zone service is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("pattern store is required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("pattern catalog is required")
	}

	return &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WS,
		logger:  deps.Logger,
		zone:    deps.Zone,
		store:   deps.Store,
		catalog: deps.Catalog,
		version: deps.Version,
	}, nil
}

// Start begins listening for HTTP connections.
//
// It sets up the router, starts the WebSocket hub, and launches the
// HTTP listener in a background goroutine. The server can be stopped
// with Close().
//
// Returns:
//   - error: If the server fails to start (port in use, etc.)
func (s *Server) Start(ctx context.Context) error {
	// Internal context so Close() can stop background goroutines
	// independently of the parent context.
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete,
// then forcefully closes remaining connections.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running and responsive.
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}

	return nil
}

// PublishZoneState broadcasts a zone state change to WebSocket clients
// subscribed to "zone.state". Implements zone.Sink.
func (s *Server) PublishZoneState(zoneNum int, st zone.State) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast("zone.state", map[string]any{
		"zone":  zoneNum,
		"state": st,
	})
}

package zone

import (
	"context"
	"sync"
	"time"

	"github.com/strandworks/strand-core/internal/catalog"
	"github.com/strandworks/strand-core/internal/controller"
	"github.com/strandworks/strand-core/internal/pattern"
	"github.com/strandworks/strand-core/internal/verify"
)

// Logger interface for zone service logging.
// Allows the service to log without depending on a specific logging implementation.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ControllerClient is the subset of the controller client the service
// needs. Satisfied by *controller.Client.
type ControllerClient interface {
	SendCommand(ctx context.Context, rawURL string) error
	FetchStatus(ctx context.Context) ([]controller.ZoneStatus, error)
	CommandURL(query string) string
}

// Config holds the zone service settings.
type Config struct {
	// Zone is the zone number this service controls (1-6).
	Zone int

	// PollInterval is the spacing between background status refreshes.
	PollInterval time.Duration

	// VerifyEnabled turns post-command verification on.
	VerifyEnabled bool

	// Verify is the retry policy used when verification is enabled.
	Verify verify.Config
}

// Service controls a single zone: it issues commands, verifies their
// effect, polls observable state, and fans updates out to sinks.
type Service struct {
	cfg     Config
	client  ControllerClient
	store   *pattern.Store
	catalog *catalog.Catalog
	runner  *verify.Runner
	logger  Logger

	mu         sync.RWMutex
	state      State
	lastParams *pattern.Params
	sinks      []Sink

	pollMu     sync.Mutex
	pollCancel context.CancelFunc
	pollDone   chan struct{}
}

// NewService creates a zone service. The verification runner is wired
// immediately so verified results propagate into observable state even
// between poll ticks.
func NewService(cfg Config, client ControllerClient, store *pattern.Store, cat *catalog.Catalog) *Service {
	s := &Service{
		cfg:     cfg,
		client:  client,
		store:   store,
		catalog: cat,
		logger:  noopLogger{},
	}
	s.runner = verify.NewRunner(cfg.Zone, cfg.Verify, client)
	s.runner.SetOnResult(s.handleVerification)
	return s
}

// SetLogger attaches a logger to the service and its verification runner.
func (s *Service) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
		s.runner.SetLogger(logger)
	}
}

// AddSink registers a sink for state updates.
func (s *Service) AddSink(sink Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Zone returns the zone number this service controls.
func (s *Service) Zone() int {
	return s.cfg.Zone
}

// State returns a snapshot of the zone's observable state.
func (s *Service) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetEffect resolves an effect name and issues it to the controller.
// Captured patterns shadow catalog entries of the same name.
//
// Returns ErrUnknownEffect when the name resolves against neither
// source, or the controller client's error when the command fails.
func (s *Service) SetEffect(ctx context.Context, name string) error {
	params, ok := s.resolveEffect(name)
	if !ok {
		return ErrUnknownEffect
	}
	return s.issue(ctx, params, name)
}

// Off turns the zone off. The command always carries an explicit black
// colour list alongside the off type.
func (s *Service) Off(ctx context.Context) error {
	return s.issue(ctx, pattern.OffParams(), "")
}

// On turns the zone back on by reissuing the last non-off command of
// this process, falling back to solid white when there is none.
func (s *Service) On(ctx context.Context) error {
	s.mu.RLock()
	last := s.lastParams
	s.mu.RUnlock()

	if last != nil {
		return s.issue(ctx, *last, "")
	}
	return s.issue(ctx, pattern.Params{Type: "custom", Colors: pattern.SolidWhite}, "")
}

// Capture reads the zone's currently running pattern and saves it in
// the store under a stable identity.
func (s *Service) Capture(ctx context.Context) (pattern.Pattern, error) {
	records, err := s.client.FetchStatus(ctx)
	if err != nil {
		return pattern.Pattern{}, err
	}
	rec, found := controller.FindZone(records, s.cfg.Zone)
	if !found {
		return pattern.Pattern{}, ErrZoneMissing
	}
	return s.store.Capture(rec)
}

// Poll fetches controller status once and refreshes observable state.
// A missing zone record leaves state unchanged.
func (s *Service) Poll(ctx context.Context) error {
	records, err := s.client.FetchStatus(ctx)
	if err != nil {
		return err
	}

	rec, found := controller.FindZone(records, s.cfg.Zone)
	if !found {
		s.logger.Warn("zone missing from controller status", "zone", s.cfg.Zone)
		return ErrZoneMissing
	}

	st := State{
		Switch:         SwitchOn,
		CurrentPattern: rec.Pattern,
		UpdatedAt:      time.Now(),
	}
	if rec.Off() {
		st.Switch = SwitchOff
		st.CurrentPattern = "off"
	} else {
		st.EffectName = s.effectNameFor(rec.Pattern)
	}

	s.mu.Lock()
	st.Verification = s.state.Verification
	s.state = st
	sinks := s.snapshotSinksLocked()
	s.mu.Unlock()

	s.publish(sinks, st)
	return nil
}

// StartPolling launches the background refresh loop. The loop runs
// until StopPolling is called or ctx is cancelled; a failed tick is
// logged and the loop reschedules unconditionally.
func (s *Service) StartPolling(ctx context.Context) error {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	if s.pollCancel != nil {
		return ErrPollingActive
	}

	pollCtx, cancel := context.WithCancel(ctx)
	s.pollCancel = cancel
	s.pollDone = make(chan struct{})

	go s.pollLoop(pollCtx, s.pollDone)
	s.logger.Info("polling started", "zone", s.cfg.Zone, "interval", s.cfg.PollInterval)
	return nil
}

// StopPolling halts the refresh loop and waits for it to exit. No
// reschedules survive the call.
func (s *Service) StopPolling() {
	s.pollMu.Lock()
	cancel, done := s.pollCancel, s.pollDone
	s.pollCancel, s.pollDone = nil, nil
	s.pollMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("polling stopped", "zone", s.cfg.Zone)
}

// EffectNames returns the selectable effect names: captured patterns
// first in capture order, then the catalog in its own order.
func (s *Service) EffectNames() []string {
	captured := s.store.Names()
	builtin := s.catalog.Names()

	out := make([]string, 0, len(captured)+len(builtin))
	out = append(out, captured...)
	out = append(out, builtin...)
	return out
}

// pollLoop runs Poll on a fixed interval until cancelled.
func (s *Service) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.PollInterval)
	defer ticker.Stop()

	// Prime state immediately rather than waiting a full interval.
	if err := s.Poll(ctx); err != nil {
		s.logger.Warn("poll failed", "zone", s.cfg.Zone, "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Poll(ctx); err != nil {
				s.logger.Warn("poll failed", "zone", s.cfg.Zone, "error", err)
			}
		}
	}
}

// issue sends a command and either starts verification or applies the
// optimistic state update.
func (s *Service) issue(ctx context.Context, params pattern.Params, effectName string) error {
	rawURL := s.client.CommandURL(params.Query(s.cfg.Zone))

	if err := s.client.SendCommand(ctx, rawURL); err != nil {
		s.logger.Error("command failed",
			"zone", s.cfg.Zone, "pattern_type", params.Type, "error", err)
		return err
	}

	s.logger.Info("command sent", "zone", s.cfg.Zone, "pattern_type", params.Type)

	s.mu.Lock()
	if params.Type != "off" {
		p := params
		s.lastParams = &p
	}
	s.mu.Unlock()

	if s.cfg.VerifyEnabled {
		// Command callers (HTTP handlers, MQTT intake) cancel their
		// context as soon as the call returns. The session runs on a
		// detached context so it can keep polling; its lifetime is
		// bounded by the runner's own retry and timeout policy.
		s.runner.Start(context.WithoutCancel(ctx), rawURL)
		return nil
	}

	// Without verification the observable state follows the command
	// optimistically.
	st := State{
		Switch:         SwitchOn,
		CurrentPattern: params.Type,
		EffectName:     effectName,
		UpdatedAt:      time.Now(),
	}
	if params.Type == "off" {
		st.Switch = SwitchOff
		st.CurrentPattern = "off"
		st.EffectName = ""
	}

	s.mu.Lock()
	s.state = st
	sinks := s.snapshotSinksLocked()
	s.mu.Unlock()

	s.publish(sinks, st)
	return nil
}

// handleVerification commits a terminal verification result into
// observable state. Verified sessions update switch and effect name
// immediately so observers do not wait for the next poll tick.
func (s *Service) handleVerification(res verify.Result) {
	s.mu.Lock()
	st := s.state
	st.Verification = res.Outcome
	st.UpdatedAt = time.Now()

	if res.Outcome == verify.OutcomeVerified {
		if res.IsOff {
			st.Switch = SwitchOff
			st.CurrentPattern = "off"
			st.EffectName = ""
		} else {
			st.Switch = SwitchOn
			st.CurrentPattern = res.Pattern
			st.EffectName = s.effectNameFor(res.Pattern)
		}
	}

	s.state = st
	sinks := s.snapshotSinksLocked()
	s.mu.Unlock()

	s.publish(sinks, st)

	for _, sink := range sinks {
		if vs, ok := sink.(VerificationSink); ok {
			vs.PublishVerification(s.cfg.Zone, res)
		}
	}
}

// resolveEffect looks a name up in the store first, then the catalog.
func (s *Service) resolveEffect(name string) (pattern.Params, bool) {
	if p, ok := s.store.Resolve(name); ok {
		return p.Params, true
	}
	return s.catalog.Resolve(name)
}

// effectNameFor reverse-looks-up an observed pattern type: captured
// patterns win over catalog entries.
func (s *Service) effectNameFor(patternType string) string {
	if p, ok := s.store.FindByType(patternType); ok {
		return p.Name
	}
	if name, ok := s.catalog.NameForType(patternType); ok {
		return name
	}
	return ""
}

func (s *Service) snapshotSinksLocked() []Sink {
	out := make([]Sink, len(s.sinks))
	copy(out, s.sinks)
	return out
}

func (s *Service) publish(sinks []Sink, st State) {
	for _, sink := range sinks {
		sink.PublishZoneState(s.cfg.Zone, st)
	}
}

package verify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/strandworks/strand-core/internal/controller"
)

// Logger interface for verification logging.
// Allows the runner to log without depending on a specific logging implementation.
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

// StatusSource fetches the controller's per-zone status records.
type StatusSource interface {
	FetchStatus(ctx context.Context) ([]controller.ZoneStatus, error)
}

// Config holds the retry policy for verification sessions.
type Config struct {
	// MaxRetries is the maximum number of polling attempts.
	MaxRetries int

	// RetryDelay is the fixed spacing between attempts.
	RetryDelay time.Duration

	// Timeout is the wall-clock bound measured from session start,
	// independent of attempt count. Whichever bound triggers first wins.
	Timeout time.Duration
}

// Result is the terminal record of a verification session.
type Result struct {
	// Outcome is the terminal outcome.
	Outcome Outcome `json:"outcome"`

	// Attempts is the number of polling attempts made.
	Attempts int `json:"attempts"`

	// Pattern is the observed pattern on success, empty otherwise.
	Pattern string `json:"pattern,omitempty"`

	// IsOff is the observed switch state on success.
	IsOff bool `json:"isOff"`

	// Elapsed is the session duration from start to terminal outcome.
	Elapsed time.Duration `json:"elapsed"`
}

// Runner runs verification sessions for a single zone.
//
// At most one session is active at a time. Start supersedes any
// in-flight session: sessions carry a generation token checked at
// commit time, so a superseded session's outcome is discarded rather
// than overwriting a newer session's result.
type Runner struct {
	zone   int
	cfg    Config
	source StatusSource
	logger Logger

	// injectable clocks for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool

	mu       sync.Mutex
	gen      uint64
	last     Result
	onResult func(Result)
}

// NewRunner creates a verification runner for the given zone.
func NewRunner(zone int, cfg Config, source StatusSource) *Runner {
	return &Runner{
		zone:   zone,
		cfg:    cfg,
		source: source,
		logger: noopLogger{},
		now:    time.Now,
		sleep:  sleepCtx,
	}
}

// SetLogger attaches a logger to the runner.
func (r *Runner) SetLogger(logger Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// SetOnResult registers a callback invoked with each committed terminal
// result. The callback runs outside the runner's lock. Superseded
// sessions never invoke it.
func (r *Runner) SetOnResult(fn func(Result)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onResult = fn
}

// Last returns the most recently committed result.
func (r *Runner) Last() Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Start begins verifying the effect of a just-sent command. Any
// in-flight session is superseded immediately.
//
// If the command is not verifiable for this zone (no patternType,
// unparseable query, or a zones selector naming another zone) the
// session commits OutcomeSkipped synchronously and no polling happens.
func (r *Runner) Start(ctx context.Context, commandURL string) {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	exp, ok := ParseExpectation(commandURL, r.zone)
	if !ok {
		r.logger.Debug("verification skipped", "zone", r.zone, "url", commandURL)
		r.commit(gen, Result{Outcome: OutcomeSkipped})
		return
	}

	r.logger.Debug("verification started",
		"zone", r.zone,
		"pattern_type", exp.PatternType,
		"expect_off", exp.IsOff)

	go r.run(ctx, gen, exp)
}

// run executes the polling loop for one session.
func (r *Runner) run(ctx context.Context, gen uint64, exp Expectation) {
	start := r.now()
	var lastTransportFailure bool

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			if !r.sleep(ctx, r.cfg.RetryDelay) {
				return // shutting down, nothing to commit
			}
		}
		if r.now().Sub(start) >= r.cfg.Timeout {
			r.commit(gen, Result{
				Outcome:  OutcomeTimeout,
				Attempts: attempt - 1,
				Elapsed:  r.now().Sub(start),
			})
			return
		}

		records, err := r.source.FetchStatus(ctx)
		if err != nil {
			lastTransportFailure = errors.Is(err, controller.ErrUnreachable)
			r.logger.Warn("verification attempt failed",
				"zone", r.zone, "attempt", attempt, "error", err)
			continue
		}
		lastTransportFailure = false

		rec, found := controller.FindZone(records, r.zone)
		if !found {
			r.logger.Warn("zone missing from status", "zone", r.zone, "attempt", attempt)
			continue
		}

		cur := Observed{Pattern: rec.Pattern, IsOff: rec.Off()}
		if exp.Matches(cur) {
			r.commit(gen, Result{
				Outcome:  OutcomeVerified,
				Attempts: attempt,
				Pattern:  cur.Pattern,
				IsOff:    cur.IsOff,
				Elapsed:  r.now().Sub(start),
			})
			return
		}

		r.logger.Debug("state not yet confirmed",
			"zone", r.zone, "attempt", attempt, "observed", cur.Pattern)
	}

	outcome := OutcomeFailed
	if lastTransportFailure {
		outcome = OutcomeError
	}
	r.commit(gen, Result{
		Outcome:  outcome,
		Attempts: r.cfg.MaxRetries,
		Elapsed:  r.now().Sub(start),
	})
}

// commit records a terminal result unless the session has been
// superseded by a newer Start.
func (r *Runner) commit(gen uint64, res Result) {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		r.logger.Debug("stale verification discarded",
			"zone", r.zone, "outcome", res.Outcome)
		return
	}
	r.last = res
	fn := r.onResult
	r.mu.Unlock()

	r.logger.Info("verification finished",
		"zone", r.zone,
		"outcome", res.Outcome,
		"attempts", res.Attempts,
		"elapsed", res.Elapsed)

	if fn != nil {
		fn(res)
	}
}

// sleepCtx sleeps for d or until ctx is cancelled. Returns false on
// cancellation.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

package verify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/strandworks/strand-core/internal/controller"
)

// fakeSource returns canned status responses and counts fetches.
type fakeSource struct {
	fetches atomic.Int64
	respond func(n int64) ([]controller.ZoneStatus, error)
}

func (f *fakeSource) FetchStatus(context.Context) ([]controller.ZoneStatus, error) {
	n := f.fetches.Add(1)
	return f.respond(n)
}

func runningZone(zone int, patternType string) controller.ZoneStatus {
	on := true
	return controller.ZoneStatus{Zone: zone, Pattern: patternType, IsOn: &on}
}

func offZone(zone int) controller.ZoneStatus {
	off := false
	return controller.ZoneStatus{Zone: zone, Pattern: "off", IsOn: &off}
}

// newTestRunner wires a runner with instant sleeps and a result channel.
func newTestRunner(t *testing.T, src StatusSource, cfg Config) (*Runner, chan Result) {
	t.Helper()
	r := NewRunner(1, cfg, src)
	r.sleep = func(context.Context, time.Duration) bool { return true }

	results := make(chan Result, 4)
	r.SetOnResult(func(res Result) { results <- res })
	return r, results
}

func waitResult(t *testing.T, ch chan Result) Result {
	t.Helper()
	select {
	case res := <-ch:
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("no verification result within 2s")
		return Result{}
	}
}

func TestRunner_Verified(t *testing.T) {
	src := &fakeSource{respond: func(int64) ([]controller.ZoneStatus, error) {
		return []controller.ZoneStatus{offZone(1)}, nil
	}}
	r, results := newTestRunner(t, src, Config{MaxRetries: 5, Timeout: time.Minute})

	r.Start(context.Background(), "http://c/setPattern?patternType=off&zones=1")

	res := waitResult(t, results)
	if res.Outcome != OutcomeVerified {
		t.Fatalf("Outcome = %s, want verified", res.Outcome)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
	if !res.IsOff || res.Pattern != "off" {
		t.Errorf("result = %+v, want observed off state", res)
	}
	if last := r.Last(); last.Outcome != OutcomeVerified {
		t.Errorf("Last().Outcome = %s, want verified", last.Outcome)
	}
}

func TestRunner_FailedAfterExactlyMaxRetries(t *testing.T) {
	// Zone never turns off, so an off expectation can never match.
	src := &fakeSource{respond: func(int64) ([]controller.ZoneStatus, error) {
		return []controller.ZoneStatus{runningZone(1, "river")}, nil
	}}
	r, results := newTestRunner(t, src, Config{MaxRetries: 4, Timeout: time.Minute})

	r.Start(context.Background(), "http://c/setPattern?patternType=off&zones=1")

	res := waitResult(t, results)
	if res.Outcome != OutcomeFailed {
		t.Fatalf("Outcome = %s, want failed", res.Outcome)
	}
	if res.Attempts != 4 {
		t.Errorf("Attempts = %d, want exactly maxRetries", res.Attempts)
	}
	if got := src.fetches.Load(); got != 4 {
		t.Errorf("fetch count = %d, want 4", got)
	}
}

func TestRunner_TimeoutBeatsRetries(t *testing.T) {
	src := &fakeSource{respond: func(int64) ([]controller.ZoneStatus, error) {
		return []controller.ZoneStatus{runningZone(1, "river")}, nil
	}}
	r, results := newTestRunner(t, src, Config{
		MaxRetries: 100,
		Timeout:    10 * time.Second,
	})

	// Injected clock advances 6s per reading, crossing the 10s bound
	// before the third attempt.
	base := time.Now()
	var ticks int
	r.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * 6 * time.Second)
	}

	r.Start(context.Background(), "http://c/setPattern?patternType=off&zones=1")

	res := waitResult(t, results)
	if res.Outcome != OutcomeTimeout {
		t.Fatalf("Outcome = %s, want timeout", res.Outcome)
	}
	if got := src.fetches.Load(); got >= 100 {
		t.Errorf("fetch count = %d, want far fewer than maxRetries", got)
	}
}

func TestRunner_ErrorOnTransportExhaustion(t *testing.T) {
	src := &fakeSource{respond: func(int64) ([]controller.ZoneStatus, error) {
		return nil, controller.ErrUnreachable
	}}
	_, results := func() (*Runner, chan Result) {
		r, ch := newTestRunner(t, src, Config{MaxRetries: 3, Timeout: time.Minute})
		r.Start(context.Background(), "http://c/setPattern?patternType=river&zones=1")
		return r, ch
	}()

	res := waitResult(t, results)
	if res.Outcome != OutcomeError {
		t.Fatalf("Outcome = %s, want error (unreachable on final attempt)", res.Outcome)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}
}

func TestRunner_MissingZoneIsRetryable(t *testing.T) {
	// First attempt lacks the zone record; second has it.
	src := &fakeSource{respond: func(n int64) ([]controller.ZoneStatus, error) {
		if n == 1 {
			return []controller.ZoneStatus{runningZone(2, "glow")}, nil
		}
		return []controller.ZoneStatus{runningZone(1, "river")}, nil
	}}
	r, results := newTestRunner(t, src, Config{MaxRetries: 5, Timeout: time.Minute})

	r.Start(context.Background(), "http://c/setPattern?patternType=river&zones=1")

	res := waitResult(t, results)
	if res.Outcome != OutcomeVerified {
		t.Fatalf("Outcome = %s, want verified", res.Outcome)
	}
	if res.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", res.Attempts)
	}
}

func TestRunner_SkippedSynchronously(t *testing.T) {
	src := &fakeSource{respond: func(int64) ([]controller.ZoneStatus, error) {
		t.Error("fetch called for a skipped session")
		return nil, nil
	}}
	r, results := newTestRunner(t, src, Config{MaxRetries: 5, Timeout: time.Minute})

	// Command targets zone 4; runner observes zone 1.
	r.Start(context.Background(), "http://c/setPattern?patternType=river&zones=4")

	res := waitResult(t, results)
	if res.Outcome != OutcomeSkipped {
		t.Fatalf("Outcome = %s, want skipped", res.Outcome)
	}
	if r.Last().Outcome != OutcomeSkipped {
		t.Error("Last() not updated for skipped session")
	}
}

func TestRunner_StaleSessionDiscarded(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	src := &fakeSource{respond: func(n int64) ([]controller.ZoneStatus, error) {
		if n == 1 {
			// First session blocks mid-attempt until the second finishes.
			close(entered)
			<-release
			return []controller.ZoneStatus{runningZone(1, "river")}, nil
		}
		return []controller.ZoneStatus{offZone(1)}, nil
	}}
	r, results := newTestRunner(t, src, Config{MaxRetries: 1, Timeout: time.Minute})

	r.Start(context.Background(), "http://c/setPattern?patternType=river&zones=1")
	<-entered
	r.Start(context.Background(), "http://c/setPattern?patternType=off&zones=1")

	res := waitResult(t, results)
	if res.Outcome != OutcomeVerified || !res.IsOff {
		t.Fatalf("result = %+v, want verified off from second session", res)
	}

	// Let the superseded session finish; its verified result for the
	// first command must not overwrite the newer one.
	close(release)
	select {
	case extra := <-results:
		t.Fatalf("stale session committed %+v", extra)
	case <-time.After(100 * time.Millisecond):
	}

	if last := r.Last(); !last.IsOff {
		t.Errorf("Last() = %+v, want second session's off result preserved", last)
	}
}

package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_TripsAfterThreshold(t *testing.T) {
	b := NewCircuitBreaker(3, time.Minute, 1)

	for i := 0; i < 2; i++ {
		b.RecordFailure()
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected closed breaker to allow, got %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after threshold, got %v", err)
	}
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("state = %s, want open", got)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	b := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	current := time.Now()
	b.clock = func() time.Time { return current }

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open breaker to reject, got %v", err)
	}

	current = current.Add(20 * time.Millisecond)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass after open window, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state after successful probe = %s, want closed", got)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("expected closed breaker to allow, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	b := NewCircuitBreaker(1, 10*time.Millisecond, 1)
	current := time.Now()
	b.clock = func() time.Time { return current }

	b.RecordFailure()
	current = current.Add(20 * time.Millisecond)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected probe to pass, got %v", err)
	}

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected reopened breaker to reject, got %v", err)
	}
}

func TestSingleFlight_SharesResult(t *testing.T) {
	var g SingleFlight

	calls := 0
	started := make(chan struct{})
	release := make(chan struct{})

	type outcome struct {
		val    any
		shared bool
	}
	results := make(chan outcome, 1)

	go func() {
		val, _, shared := g.Do("k", func() (any, error) {
			close(started)
			<-release
			calls++
			return "v", nil
		})
		results <- outcome{val: val, shared: shared}
	}()

	<-started
	done := make(chan outcome, 1)
	go func() {
		val, _, shared := g.Do("k", func() (any, error) {
			calls++
			return "other", nil
		})
		done <- outcome{val: val, shared: shared}
	}()

	close(release)
	first := <-results
	second := <-done

	if first.val != "v" || second.val != "v" {
		t.Fatalf("values = %v, %v, want both v", first.val, second.val)
	}
	if !second.shared {
		t.Fatal("expected the second caller to share the first result")
	}
	if calls != 1 {
		t.Fatalf("fn ran %d times, want 1", calls)
	}
}

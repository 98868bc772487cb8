package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

type breakerPhase uint8

const (
	phaseClosed breakerPhase = iota
	phaseOpen
	phaseHalfOpen
)

func (p breakerPhase) external() CircuitState {
	switch p {
	case phaseOpen:
		return CircuitStateOpen
	case phaseHalfOpen:
		return CircuitStateHalfOpen
	default:
		return CircuitStateClosed
	}
}

// CircuitBreaker trips after a run of consecutive failures and lets a
// bounded number of probe requests through once the open window expires.
type CircuitBreaker struct {
	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int

	mu       sync.Mutex
	phase    breakerPhase
	failures int
	// openUntil is the instant probing may begin; zero while closed.
	openUntil time.Time
	probes    int
	probeOK   int
	clock     func() time.Time
}

func NewCircuitBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		openTimeout:      openTimeout,
		halfOpenMaxReq:   halfOpenMaxReq,
		clock:            time.Now,
	}
}

// Allow reports whether a request may proceed. It returns ErrCircuitOpen
// while the breaker is open or the half-open probe quota is exhausted.
func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == phaseOpen {
		if b.clock().Before(b.openUntil) {
			return ErrCircuitOpen
		}
		b.phase = phaseHalfOpen
		b.probes = 0
		b.probeOK = 0
	}

	if b.phase == phaseHalfOpen {
		if b.probes >= b.halfOpenMaxReq {
			return ErrCircuitOpen
		}
		b.probes++
	}

	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.phase {
	case phaseClosed:
		b.failures = 0
	case phaseHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.probeOK++
		if b.probeOK >= b.halfOpenMaxReq && b.probes == 0 {
			b.reset()
		}
	}
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.phase {
	case phaseClosed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.trip()
		}
	case phaseHalfOpen:
		if b.probes > 0 {
			b.probes--
		}
		b.trip()
	case phaseOpen:
		b.openUntil = b.clock().Add(b.openTimeout)
	}
}

func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.phase == phaseOpen && !b.clock().Before(b.openUntil) {
		return CircuitStateHalfOpen
	}

	return b.phase.external()
}

func (b *CircuitBreaker) trip() {
	b.phase = phaseOpen
	b.openUntil = b.clock().Add(b.openTimeout)
	b.probes = 0
	b.probeOK = 0
}

func (b *CircuitBreaker) reset() {
	b.phase = phaseClosed
	b.failures = 0
	b.probes = 0
	b.probeOK = 0
	b.openUntil = time.Time{}
}

package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution. The third return value reports whether the result was shared
// from another caller's execution.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightResult
}

type flightResult struct {
	done chan struct{}
	val  any
	err  error
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flightResult)
	}

	if existing, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-existing.done
		return existing.val, existing.err, true
	}

	res := &flightResult{done: make(chan struct{})}
	g.inflight[key] = res
	g.mu.Unlock()

	res.val, res.err = fn()
	close(res.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return res.val, res.err, false
}

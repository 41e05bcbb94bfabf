package ui

import "sync"

// dispatchGate serializes queue submissions against window teardown.
// Once Close returns, no submission can reach the view anymore.
type dispatchGate struct {
	mu     sync.Mutex
	closed bool
}

// Do runs fn under the gate unless it is closed. fn must only queue work
// and return quickly.
func (g *dispatchGate) Do(fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return false
	}
	fn()
	return true
}

// Close marks the gate closed, waiting for any in-flight submission.
func (g *dispatchGate) Close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

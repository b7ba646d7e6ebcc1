// Package testutil provides deterministic helpers for harness runs:
// a resettable sequence clock for result ordering and a fixed run-token
// generator for reproducible reports.
package testutil

import "sync"

// SeqClock is a thread-safe monotonic logical clock. The harness stamps
// every recorded result with the next sequence number so the report
// order is explicit rather than implied by slice position.
//
// Unlike a production clock it can be reset, so the same scenario can
// run repeatedly with identical sequence numbers.
type SeqClock struct {
	mu  sync.Mutex
	seq int64
}

// NewSeqClock creates a clock starting at 0. The first call to Next()
// returns 1.
func NewSeqClock() *SeqClock {
	return &SeqClock{}
}

// Next increments and returns the next sequence number.
func (c *SeqClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *SeqClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock to 0 for reuse across runs.
func (c *SeqClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

package ledger

import "sync/atomic"

// Clock is the monotonic logical clock stamping every ledger event.
//
// All events carry a strictly increasing seq from this clock. This
// ensures deterministic ordering, replayable event logs, and explicit
// causality without wall-clock race conditions.
//
// Thread-safety: safe for concurrent use via atomics, though the
// store's single-writer transactions mean calls are effectively
// serialized anyway.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0; the first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock resuming from a specific sequence
// number, used at boot to continue from the highest stored event seq.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without advancing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

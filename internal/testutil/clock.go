package testutil

import (
	"sync"
	"time"
)

// FixedClock provides a thread-safe wall clock for tests.
//
// Now returns the configured instant until Advance moves it. This keeps
// ledger timestamps and journal rows byte-identical across runs.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// DefaultInstant is the instant NewFixedClock uses for a zero time.
var DefaultInstant = time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

// NewFixedClock creates a clock frozen at t.
//
// A zero t freezes the clock at DefaultInstant.
func NewFixedClock(t time.Time) *FixedClock {
	if t.IsZero() {
		t = DefaultInstant
	}
	return &FixedClock{now: t}
}

// Now returns the current frozen instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new instant.
func (c *FixedClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// FixedIDGenerator returns the same run id every time.
//
// Implements journal.IDGenerator.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator returning id.
//
// If id is empty, Generate() returns "test-run-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}

package host

import "time"

// Clock supplies the current time to the adapter. The program package
// never reads the wall clock itself (SPEC_FULL.md §4.6): every
// LifecycleEngine handler takes now as an explicit argument, and this
// interface is the single seam that value flows through before it
// does.
type Clock interface {
	Now() int64
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }

// FixedClock is a test Clock that always reports the same instant.
type FixedClock int64

func (c FixedClock) Now() int64 { return int64(c) }

// SlotClock advances by a fixed step every time it is read, modeling a
// deterministic test harness stepping through accounting days without
// a real timer.
type SlotClock struct {
	current int64
	step    int64
}

func NewSlotClock(start, step int64) *SlotClock {
	return &SlotClock{current: start, step: step}
}

func (c *SlotClock) Now() int64 {
	now := c.current
	c.current += c.step
	return now
}

// Advance moves the clock forward by delta without returning a reading.
func (c *SlotClock) Advance(delta int64) { c.current += delta }

package timex

import "time"

// Clock reports the current Unix time in whole seconds.
type Clock interface {
	Now() uint64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() uint64 {
	s := time.Now().Unix()
	if s < 0 {
		return 0
	}
	return uint64(s)
}

// FixedClock returns a settable instant. Tests use it to move time forward
// between instructions.
type FixedClock struct {
	T uint64
}

func (c *FixedClock) Now() uint64 { return c.T }

// Advance moves the clock forward by d seconds.
func (c *FixedClock) Advance(d uint64) { c.T += d }

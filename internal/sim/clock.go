package sim

import "time"

// Clock supplies the timestamps used to measure elapsed time between the
// start of motion and a confirmed stop.
type Clock interface {
	Now() float64
	Advance(dt float64)
	Reset()
}

// TickClock counts simulated time. It makes scoring deterministic.
type TickClock struct {
	t float64
}

func (c *TickClock) Now() float64       { return c.t }
func (c *TickClock) Advance(dt float64) { c.t += dt }
func (c *TickClock) Reset()             { c.t = 0 }

// WallClock reads the monotonic wall clock, so elapsed times match what the
// player experienced even when frames run late.
type WallClock struct {
	start time.Time
	now   func() time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now(), now: time.Now}
}

func (c *WallClock) Now() float64 {
	return c.now().Sub(c.start).Seconds()
}

func (c *WallClock) Advance(float64) {}

func (c *WallClock) Reset() {
	c.start = c.now()
}

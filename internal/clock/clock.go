package clock

import (
	"sync"
	"time"
)

// Clock reports the chart time in milliseconds.
type Clock interface {
	Now() float64
}

// FixedClock advances by a fixed step per frame. Autoplay and replays use
// it so a run is reproducible.
type FixedClock struct {
	frame int64
	start float64
	step  float64
}

func NewFixedClock(start, step float64) *FixedClock {
	return &FixedClock{start: start, step: step}
}

func (c *FixedClock) Now() float64 {
	return c.start + float64(c.frame)*c.step
}

// Advance moves to the next frame and returns its time and the frame delta.
func (c *FixedClock) Advance() (float64, float64) {
	c.frame++
	return c.Now(), c.step
}

// WallClock counts from a start delay on the system clock, for play
// without music.
type WallClock struct {
	mu      sync.Mutex
	started time.Time
	delay   time.Duration
}

func NewWallClock(delay time.Duration) *WallClock {
	return &WallClock{started: time.Now(), delay: delay}
}

func (c *WallClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return float64(time.Since(c.started)-c.delay) / float64(time.Millisecond)
}

func (c *WallClock) Restart(delay time.Duration) {
	c.mu.Lock()
	c.started = time.Now()
	c.delay = delay
	c.mu.Unlock()
}

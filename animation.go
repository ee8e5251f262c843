package deckrt

import "time"

// animationCounter tracks playback position through an animated ImageAsset's
// frames using wall-clock time since the counter's own start, modulo total
// duration, so the frame shown does not drift however late a tick runs
// (spec.md §4.5). Each counter has its own start instant; counters created
// at different times are not synchronized. Ported from the frame-advance
// rule used by the original's per-button animation driver.
type animationCounter struct {
	frames     []AnimationFrame
	start      time.Time
	wakeupTime float32 // seconds since start; next time advance must recompute
	index      int
	duration   float32
	newFrame   bool
}

// newAnimationCounter starts a counter over frames at the current instant.
// frames must be non-empty.
func newAnimationCounter(frames []AnimationFrame) *animationCounter {
	var duration float32
	for _, f := range frames {
		duration += f.Delay
	}
	return &animationCounter{
		frames:     frames,
		start:      time.Now(),
		duration:   duration,
		index:      0,
		wakeupTime: frames[0].Delay,
		newFrame:   true,
	}
}

// frame returns the currently selected AnimationFrame.
func (c *animationCounter) frame() AnimationFrame {
	return c.frames[c.index]
}

// frameIndex returns the currently selected frame's position, used as the
// cache-key discriminant (spec.md §4.3, §4.5).
func (c *animationCounter) frameIndex() int {
	return c.index
}

// consumeNewFrame reports whether the frame changed since the last call and
// clears the flag. The Render Pipeline uses this to skip re-encoding when an
// animated button's current frame hasn't changed since the last tick.
func (c *animationCounter) consumeNewFrame() bool {
	n := c.newFrame
	c.newFrame = false
	return n
}

// advance recomputes the current frame if enough wall-clock time has passed,
// mirroring the original's elapsed-time-modulo-duration rule: find the first
// cumulative-delay boundary the looped elapsed time falls under, rather than
// stepping frame-by-frame, so a scheduler that is woken late (GC pause, busy
// device thread) still lands on the correct frame instead of drifting.
func (c *animationCounter) advance() {
	elapsed := float32(time.Since(c.start).Seconds())
	if elapsed <= c.wakeupTime {
		return
	}
	looped := elapsed
	if c.duration > 0 {
		looped = float32(mod(float64(elapsed), float64(c.duration)))
	}
	var cumulative float32
	for i, f := range c.frames {
		cumulative += f.Delay
		if looped < cumulative {
			if i != c.index {
				c.index = i
				c.newFrame = true
			}
			c.wakeupTime = elapsed + f.Delay
			return
		}
	}
	// Looped time exceeds the last boundary due to float rounding; land on
	// the last frame and wake again next tick.
	last := len(c.frames) - 1
	if last != c.index {
		c.index = last
		c.newFrame = true
	}
	c.wakeupTime = elapsed
}

func mod(a, b float64) float64 {
	m := a - float64(int64(a/b))*b
	if m < 0 {
		m += b
	}
	return m
}

// AnimationScheduler owns one animationCounter per animated Button, keyed by
// ButtonID, and advances all of them once per device tick (spec.md §4.5).
// Owned exclusively by the Device Thread; no locking needed (spec.md §5).
type AnimationScheduler struct {
	counters map[ButtonID]*animationCounter
}

// NewAnimationScheduler creates an empty scheduler.
func NewAnimationScheduler() *AnimationScheduler {
	return &AnimationScheduler{counters: make(map[ButtonID]*animationCounter)}
}

// Ensure returns the counter tracking id's animation, creating one over
// frames if none exists yet.
func (s *AnimationScheduler) Ensure(id ButtonID, frames []AnimationFrame) *animationCounter {
	c, ok := s.counters[id]
	if !ok {
		c = newAnimationCounter(frames)
		s.counters[id] = c
	}
	return c
}

// Forget drops the counter for id. The Render Pipeline calls it when the
// Button's edit version changes, so the next Redraw re-classifies it; a
// counter whose Button merely leaves the screen is kept.
func (s *AnimationScheduler) Forget(id ButtonID) {
	delete(s.counters, id)
}

// Tick advances every tracked counter by one step.
func (s *AnimationScheduler) Tick() {
	for _, c := range s.counters {
		c.advance()
	}
}

// Active reports whether any animation is currently tracked.
func (s *AnimationScheduler) Active() bool {
	return len(s.counters) > 0
}

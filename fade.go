package deckrt

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// BrightnessFader smooths a panel brightness change over time instead of
// jumping straight to the target percentage, grounded on the teacher's
// TweenGroup (animation.go) but driving a single scalar instead of Node
// fields. Stepped once per Device Thread tick, i.e. at the runtime's
// poolRate; the concept follows muesli-streamdeck's fade timer.
type BrightnessFader struct {
	tween *gween.Tween
}

// NewBrightnessFader starts a fade from cur to target percent over duration
// seconds, linear in brightness.
func NewBrightnessFader(cur, target uint8, duration float32) *BrightnessFader {
	return &BrightnessFader{tween: gween.New(float32(cur), float32(target), duration, ease.Linear)}
}

// Step advances the fade by dt seconds and returns the brightness percentage
// to apply this tick, and whether the fade has completed.
func (f *BrightnessFader) Step(dt float32) (pct uint8, done bool) {
	val, finished := f.tween.Update(dt)
	if val < 0 {
		val = 0
	}
	if val > 100 {
		val = 100
	}
	return uint8(val + 0.5), finished
}

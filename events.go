package deckrt

import "sync"

// InputEventKind discriminates the InputEvent payload variants (spec.md §6).
type InputEventKind uint8

const (
	EventButtonPressed InputEventKind = iota
	EventButtonReleased
	EventEndlessKnob
	EventXYPanelPress
	EventXYPanelRelease
	EventXYPanelSwipe
)

// InputEvent is the typed payload delivered to Event Dispatcher listeners.
// Only the fields relevant to Kind are populated.
type InputEvent struct {
	Kind InputEventKind

	InputID int // ButtonPressed/Released/EndlessKnob: the key/encoder id

	Delta int16 // EndlessKnob

	Position Point   // XYPanelPress/Release
	TimeHeld float32 // XYPanelRelease: 0.2 for a short press, 1.1 for a long press

	Start, End Point // XYPanelSwipe
}

// listenerHandle identifies a registered listener for removal.
type listenerHandle struct {
	id uint64
	fn func(InputEvent)
}

// CallbackHandle allows removing a registered Dispatcher listener, mirroring
// the teacher's handler-registry id/removal pattern (willow's input.go).
type CallbackHandle struct {
	id uint64
}

// Dispatcher fans InputEvents out to registered listeners. Shared across
// devices; interactions happen only by fire-and-forget sends (spec.md §5).
type Dispatcher struct {
	mu        sync.RWMutex
	listeners []listenerHandle
	nextID    uint64
}

// NewDispatcher creates an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Listen registers fn to receive every dispatched InputEvent and returns a
// handle that can later be passed to Remove.
func (d *Dispatcher) Listen(fn func(InputEvent)) CallbackHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, listenerHandle{id: id, fn: fn})
	return CallbackHandle{id: id}
}

// Remove unregisters a listener previously returned by Listen.
func (d *Dispatcher) Remove(h CallbackHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, l := range d.listeners {
		if l.id == h.id {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
			return
		}
	}
}

// Dispatch delivers ev to every current listener, in registration order.
func (d *Dispatcher) Dispatch(ev InputEvent) {
	d.mu.RLock()
	listeners := make([]listenerHandle, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.RUnlock()

	for _, l := range listeners {
		l.fn(ev)
	}
}

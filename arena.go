package deckrt

import "sync"

// ButtonID is a stable identifier for a Button stored in an Arena. Screens
// hold ButtonIDs rather than direct Button references (see DESIGN.md,
// "Shared mutable buttons across screens" / spec.md §9).
type ButtonID uint64

// Arena owns every live Button for one device, keyed by ButtonID. Multiple
// Screens may reference the same ButtonID; edits through any one of them
// are visible to all (shared ownership via the arena, not via reference
// cycles between Screens).
type Arena struct {
	mu      sync.RWMutex
	buttons map[ButtonID]*Button
	nextID  ButtonID
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	return &Arena{buttons: make(map[ButtonID]*Button)}
}

// Put registers a Button and returns its stable id.
func (a *Arena) Put(b *Button) ButtonID {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	id := a.nextID
	a.buttons[id] = b
	return id
}

// Get returns the Button for id, or nil if it is not (or no longer) registered.
func (a *Arena) Get(id ButtonID) *Button {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.buttons[id]
}

// Delete removes a Button from the arena. Safe to call even if other
// Screens still reference the id; Get on those screens will subsequently
// observe a nil Button, which the Render Pipeline treats as "no Button"
// (black clear).
func (a *Arena) Delete(id ButtonID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.buttons, id)
}

// Len reports how many buttons are currently registered.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.buttons)
}

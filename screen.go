package deckrt

import "sync"

// Screen is a mapping from key index to a shared Button's stable id.
type Screen struct {
	buttons map[uint8]ButtonID
}

// NewScreen creates an empty Screen.
func NewScreen() *Screen {
	return &Screen{buttons: make(map[uint8]ButtonID)}
}

// Get returns the ButtonID at key, or false if the key is unset.
func (s *Screen) Get(key uint8) (ButtonID, bool) {
	id, ok := s.buttons[key]
	return id, ok
}

// Set assigns a ButtonID to key.
func (s *Screen) Set(key uint8, id ButtonID) {
	s.buttons[key] = id
}

// Clear removes key from the screen.
func (s *Screen) Clear(key uint8) {
	delete(s.buttons, key)
}

// Keys returns a snapshot of all set key indices.
func (s *Screen) Keys() []uint8 {
	keys := make([]uint8, 0, len(s.buttons))
	for k := range s.buttons {
		keys = append(keys, k)
	}
	return keys
}

// ScreenStack is the authoritative, non-empty ordered sequence of Screens;
// the last element is the "current" screen (spec.md §3, §4.1). It is
// guarded by a single exclusive lock: readers in the render path hold it
// only long enough to clone ButtonIDs and release before compositing
// (spec.md §5 — never hold this lock across I/O or compositing).
type ScreenStack struct {
	mu     sync.Mutex
	arena  *Arena
	stack  []*Screen
	notify func() // invoked after any mutation that could change pixels
}

// NewScreenStack creates a stack containing one empty screen, as required
// by the "never empty" invariant.
func NewScreenStack(arena *Arena, notify func()) *ScreenStack {
	return &ScreenStack{
		arena:  arena,
		stack:  []*Screen{NewScreen()},
		notify: notify,
	}
}

func (s *ScreenStack) fire() {
	if s.notify != nil {
		s.notify()
	}
}

// Current returns the top screen. The stack is never empty during normal
// operation, so this never returns nil.
func (s *ScreenStack) Current() *Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stack[len(s.stack)-1]
}

// Push appends a new screen, which becomes current.
func (s *ScreenStack) Push(screen *Screen) {
	s.mu.Lock()
	s.stack = append(s.stack, screen)
	s.mu.Unlock()
	s.fire()
}

// Pop removes the top screen if more than one remains; otherwise it fails
// with ErrLastScreen and leaves the stack unchanged.
func (s *ScreenStack) Pop() error {
	s.mu.Lock()
	if len(s.stack) <= 1 {
		s.mu.Unlock()
		return ErrLastScreen
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.mu.Unlock()
	s.fire()
	return nil
}

// ForciblyPop removes the top screen unconditionally. If that would empty
// the stack, a fresh empty screen is pushed so the invariant holds.
func (s *ScreenStack) ForciblyPop() {
	s.mu.Lock()
	if len(s.stack) <= 1 {
		s.stack = []*Screen{NewScreen()}
	} else {
		s.stack = s.stack[:len(s.stack)-1]
	}
	s.mu.Unlock()
	s.fire()
}

// Replace swaps out the top screen for a new one.
func (s *ScreenStack) Replace(screen *Screen) {
	s.mu.Lock()
	s.stack[len(s.stack)-1] = screen
	s.mu.Unlock()
	s.fire()
}

// Reset empties the stack and pushes the given screen.
func (s *ScreenStack) Reset(screen *Screen) {
	s.mu.Lock()
	s.stack = []*Screen{screen}
	s.mu.Unlock()
	s.fire()
}

// SetButton registers button in the arena under a new ButtonID and assigns
// it to key on the top screen. Every call allocates a fresh id, even for a
// Button that is already registered.
func (s *ScreenStack) SetButton(key uint8, button *Button) ButtonID {
	id := s.arena.Put(button)
	s.mu.Lock()
	s.stack[len(s.stack)-1].Set(key, id)
	s.mu.Unlock()
	s.fire()
	return id
}

// ClearButton removes key from the top screen.
func (s *ScreenStack) ClearButton(key uint8) {
	s.mu.Lock()
	s.stack[len(s.stack)-1].Clear(key)
	s.mu.Unlock()
	s.fire()
}

// GetButton returns the Button at key on the top screen, or nil.
func (s *ScreenStack) GetButton(key uint8) *Button {
	s.mu.Lock()
	id, ok := s.stack[len(s.stack)-1].Get(key)
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return s.arena.Get(id)
}

// Commit is opaque to the core: it signals external persistence. The core
// itself does nothing but invoke the listener, if any.
func (s *ScreenStack) Commit() {
	s.fire()
}

// Depth returns the number of screens currently on the stack.
func (s *ScreenStack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stack)
}

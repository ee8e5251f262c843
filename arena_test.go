package deckrt

import "testing"

func TestArenaPutGet(t *testing.T) {
	a := NewArena()
	b := NewButton()
	id := a.Put(b)

	if got := a.Get(id); got != b {
		t.Errorf("Get(%d) = %v, want %v", id, got, b)
	}
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1", a.Len())
	}
}

func TestArenaSharedMutation(t *testing.T) {
	a := NewArena()
	b := NewButtonWithRenderer(DefaultRendererComponent())
	id := a.Put(b)

	// Two "screens" holding the same id observe the same edits.
	viaA := a.Get(id)
	viaB := a.Get(id)

	viaA.SetComponent(RendererComponent{Background: SolidBackground(Color{R: 1, G: 2, B: 3, A: 255}), ToCache: true})

	r, ok := viaB.Renderer()
	if !ok {
		t.Fatal("Renderer() ok = false, want true")
	}
	if r.Background.Start != (Color{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("edit via one reference not observed via the other: got %v", r.Background.Start)
	}
}

func TestArenaDeleteYieldsNil(t *testing.T) {
	a := NewArena()
	id := a.Put(NewButton())
	a.Delete(id)

	if got := a.Get(id); got != nil {
		t.Errorf("Get(%d) after Delete = %v, want nil", id, got)
	}
	if a.Len() != 0 {
		t.Errorf("Len() after Delete = %d, want 0", a.Len())
	}
}

func TestArenaDistinctIDs(t *testing.T) {
	a := NewArena()
	id1 := a.Put(NewButton())
	id2 := a.Put(NewButton())
	if id1 == id2 {
		t.Errorf("two Put calls returned the same id %d", id1)
	}
}

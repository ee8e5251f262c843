package deckrt

import "testing"

func TestScreenStackNeverEmpty(t *testing.T) {
	arena := NewArena()
	ss := NewScreenStack(arena, nil)

	if ss.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1 on a fresh stack", ss.Depth())
	}

	ss.Push(NewScreen())
	ss.Push(NewScreen())
	if ss.Depth() != 3 {
		t.Fatalf("Depth() = %d, want 3", ss.Depth())
	}

	if err := ss.Pop(); err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if err := ss.Pop(); err != nil {
		t.Fatalf("Pop() error = %v", err)
	}
	if ss.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1 after popping back to the last screen", ss.Depth())
	}

	if err := ss.Pop(); err != ErrLastScreen {
		t.Errorf("Pop() on last screen error = %v, want ErrLastScreen", err)
	}
	if ss.Depth() != 1 {
		t.Errorf("Depth() after failed Pop = %d, want 1", ss.Depth())
	}
}

func TestScreenStackForciblyPopOnLastScreen(t *testing.T) {
	arena := NewArena()
	ss := NewScreenStack(arena, nil)
	original := ss.Current()

	ss.ForciblyPop()

	if ss.Depth() != 1 {
		t.Fatalf("Depth() = %d, want 1", ss.Depth())
	}
	if ss.Current() == original {
		t.Errorf("ForciblyPop() on the last screen kept the original screen instead of a fresh one")
	}
}

func TestScreenStackSetGetClearButton(t *testing.T) {
	arena := NewArena()
	ss := NewScreenStack(arena, nil)
	btn := NewButtonWithRenderer(DefaultRendererComponent())

	ss.SetButton(3, btn)
	if got := ss.GetButton(3); got != btn {
		t.Errorf("GetButton(3) = %v, want %v", got, btn)
	}

	ss.ClearButton(3)
	if got := ss.GetButton(3); got != nil {
		t.Errorf("GetButton(3) after ClearButton = %v, want nil", got)
	}
}

func TestScreenStackNotifiesOnMutation(t *testing.T) {
	arena := NewArena()
	calls := 0
	ss := NewScreenStack(arena, func() { calls++ })

	ss.SetButton(0, NewButton())
	ss.ClearButton(0)
	ss.Push(NewScreen())
	ss.Pop()
	ss.Replace(NewScreen())
	ss.Reset(NewScreen())
	ss.Commit()

	if calls != 7 {
		t.Errorf("notify called %d times, want 7", calls)
	}
}

func TestScreenStackReplaceAndReset(t *testing.T) {
	arena := NewArena()
	ss := NewScreenStack(arena, nil)
	ss.Push(NewScreen())

	replacement := NewScreen()
	ss.Replace(replacement)
	if ss.Current() != replacement {
		t.Errorf("Current() after Replace = %v, want %v", ss.Current(), replacement)
	}
	if ss.Depth() != 2 {
		t.Errorf("Depth() after Replace = %d, want 2 (Replace must not change depth)", ss.Depth())
	}

	fresh := NewScreen()
	ss.Reset(fresh)
	if ss.Depth() != 1 || ss.Current() != fresh {
		t.Errorf("Reset() left Depth=%d Current=%v, want Depth=1 Current=%v", ss.Depth(), ss.Current(), fresh)
	}
}

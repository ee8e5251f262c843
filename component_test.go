package deckrt

import "testing"

func TestButtonVersionBumpsOnEdit(t *testing.T) {
	b := NewButton()
	v0 := b.Version()

	b.SetComponent(DefaultRendererComponent())
	v1 := b.Version()
	if v1 == v0 {
		t.Errorf("Version() unchanged after SetComponent: %d", v1)
	}

	b.SetComponent(DefaultRendererComponent())
	v2 := b.Version()
	if v2 == v1 {
		t.Errorf("Version() unchanged after second SetComponent: %d", v2)
	}
}

func TestButtonRemoveComponentOnlyBumpsWhenPresent(t *testing.T) {
	b := NewButton()
	v0 := b.Version()

	b.RemoveComponent("renderer") // not present
	if b.Version() != v0 {
		t.Errorf("Version() changed on no-op RemoveComponent")
	}

	b.SetComponent(DefaultRendererComponent())
	v1 := b.Version()
	b.RemoveComponent("renderer")
	if b.Version() == v1 {
		t.Errorf("Version() unchanged after removing a present component")
	}
	if _, ok := b.Renderer(); ok {
		t.Errorf("Renderer() ok = true after RemoveComponent")
	}
}

func TestButtonRendererMissingByDefault(t *testing.T) {
	b := NewButton()
	if _, ok := b.Renderer(); ok {
		t.Errorf("Renderer() ok = true on a fresh Button, want false")
	}
}

func TestButtonComponentNames(t *testing.T) {
	b := NewButtonWithRenderer(DefaultRendererComponent())
	names := b.ComponentNames()
	if len(names) != 1 || names[0] != "renderer" {
		t.Errorf("ComponentNames() = %v, want [renderer]", names)
	}
}

package deckrt

import "github.com/hajimehoshi/ebiten/v2"

// RenderModule is the capability modules register to participate in per-key
// rendering (spec.md §4.3, §6). The core calls Render and RenderHash in
// registration order; the contract "RenderHash must mix into the hasher
// exactly the bytes that would change Render's output" is the module's
// correctness obligation — violating it causes stale cached pixels and is
// the only way to observe caching bugs (spec.md §9).
type RenderModule interface {
	// Render may mutate image in place. Must be deterministic given its
	// inputs (view, button, and the image as received).
	Render(view CoreView, button *Button, image *ebiten.Image)
	// RenderHash mixes exactly the bytes that affect Render's output into h.
	RenderHash(view CoreView, button *Button, h *hasher)
}

// CoreView is the narrow, read-only view of runtime state passed to module
// hooks. It deliberately exposes no mutation surface: modules may only
// change rendering output through the image they are handed, and may only
// change Button state through the same control channel external callers
// use (spec.md §3 invariants).
type CoreView struct {
	ImageW, ImageH int
	KeyCount       int
}

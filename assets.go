package deckrt

import "github.com/hajimehoshi/ebiten/v2"

// AnimationFrame is one frame of an animated ImageAsset: a decoded image
// plus how long it is shown, in seconds.
type AnimationFrame struct {
	Image *ebiten.Image
	Delay float32
}

// ImageAsset is either a single decoded frame or an animated sequence
// (spec.md §3). Exactly one of Single or Frames is populated.
type ImageAsset struct {
	Single *ebiten.Image // nil if animated
	Frames []AnimationFrame
}

// Animated reports whether this asset is a multi-frame animation.
func (a ImageAsset) Animated() bool { return a.Single == nil && len(a.Frames) > 0 }

// Duration returns the total playback duration of an animated asset (sum of
// delays), or 0 for a single-frame asset.
func (a ImageAsset) Duration() float32 {
	var d float32
	for _, f := range a.Frames {
		d += f.Delay
	}
	return d
}

// AssetStore is the narrow interface the Render Pipeline consumes to look
// up ExistingImage references. Asset loading itself (files, formats) is out
// of scope for the core (spec.md §1); callers provide any implementation,
// typically backed by an in-memory map populated by an external loader.
type AssetStore interface {
	// Asset returns the named asset and whether it was found.
	Asset(id string) (ImageAsset, bool)
}

// MapAssetStore is a trivial in-memory AssetStore, sufficient for tests and
// simple embedding scenarios.
type MapAssetStore struct {
	assets map[string]ImageAsset
}

// NewMapAssetStore creates an empty MapAssetStore.
func NewMapAssetStore() *MapAssetStore {
	return &MapAssetStore{assets: make(map[string]ImageAsset)}
}

// Put registers or replaces an asset.
func (s *MapAssetStore) Put(id string, asset ImageAsset) {
	s.assets[id] = asset
}

// Asset implements AssetStore.
func (s *MapAssetStore) Asset(id string) (ImageAsset, bool) {
	a, ok := s.assets[id]
	return a, ok
}

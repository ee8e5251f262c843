package deckrt

import "sync"

// Component is a named, typed attribute bag attached to a Button. The
// "renderer" component (RendererComponent) is load-bearing in the core;
// any other name is an arbitrary module-registered component consumed only
// by render hooks or input handlers (opaque to the core).
type Component interface {
	// ComponentName returns the stable key this component is stored under.
	ComponentName() string
}

// TextAlignment controls horizontal placement of a ButtonText within the
// key image.
type TextAlignment uint8

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
)

// TextShadow is an optional drop shadow drawn behind a ButtonText.
type TextShadow struct {
	OffsetX, OffsetY int
	Color            Color
}

// ButtonText is one text overlay drawn on top of a Button's background.
type ButtonText struct {
	Text      string
	FontID    string
	ScaleX    float32
	ScaleY    float32
	Alignment TextAlignment
	Padding   uint32
	OffsetX   float32
	OffsetY   float32
	Color     Color
	Shadow    *TextShadow
}

// BackgroundKind discriminates the ButtonBackground variant.
type BackgroundKind uint8

const (
	BackgroundSolid BackgroundKind = iota
	BackgroundHorizontalGradient
	BackgroundVerticalGradient
	BackgroundExistingImage
	BackgroundNewImage
)

// ButtonBackground is the tagged union of background variants a
// RendererComponent can specify.
type ButtonBackground struct {
	Kind BackgroundKind

	// Solid, HorizontalGradient (Start/End), VerticalGradient (Start/End).
	Start Color
	End   Color

	// ExistingImage: an asset id registered in the asset store.
	AssetID string

	// NewImage: a base64-encoded image blob.
	Blob string
}

// SolidBackground builds a Solid(Color) background.
func SolidBackground(c Color) ButtonBackground {
	return ButtonBackground{Kind: BackgroundSolid, Start: c}
}

// HorizontalGradientBackground builds a HorizontalGradient(start, end) background.
func HorizontalGradientBackground(start, end Color) ButtonBackground {
	return ButtonBackground{Kind: BackgroundHorizontalGradient, Start: start, End: end}
}

// VerticalGradientBackground builds a VerticalGradient(start, end) background.
func VerticalGradientBackground(start, end Color) ButtonBackground {
	return ButtonBackground{Kind: BackgroundVerticalGradient, Start: start, End: end}
}

// ExistingImageBackground builds an ExistingImage(id) background.
func ExistingImageBackground(assetID string) ButtonBackground {
	return ButtonBackground{Kind: BackgroundExistingImage, AssetID: assetID}
}

// NewImageBackground builds a NewImage(base64-blob) background.
func NewImageBackground(base64Blob string) ButtonBackground {
	return ButtonBackground{Kind: BackgroundNewImage, Blob: base64Blob}
}

// RendererComponent is the appearance component: background, text overlays,
// and whether rendered output may be cached.
type RendererComponent struct {
	Background ButtonBackground
	Text       []ButtonText
	// ToCache is true in DefaultRendererComponent (the Go zero value is
	// false); when false, neither cache map is written for this button's
	// renders.
	ToCache bool
}

// ComponentName implements Component.
func (RendererComponent) ComponentName() string { return "renderer" }

// DefaultRendererComponent mirrors the original default: solid white,
// no text, cached.
func DefaultRendererComponent() RendererComponent {
	return RendererComponent{
		Background: SolidBackground(Color{255, 255, 255, 255}),
		ToCache:    true,
	}
}

// Button is a composition of Components, shared across any Screens that
// reference it by ButtonID (see Arena). Compositors take a read lock;
// mutators take a write lock. Never hold a Button lock while holding the
// ScreenStack lock (spec.md §5).
type Button struct {
	mu         sync.RWMutex
	components map[string]Component
	// version increments on every SetComponent/RemoveComponent call. The
	// Render Pipeline's render-map compares against this to detect edits
	// that must invalidate cached renders for this button (see DESIGN.md,
	// "cache cross-invalidation").
	version uint64
}

// NewButton creates an empty Button.
func NewButton() *Button {
	return &Button{components: make(map[string]Component)}
}

// NewButtonWithRenderer creates a Button pre-populated with a renderer component.
func NewButtonWithRenderer(r RendererComponent) *Button {
	b := NewButton()
	b.SetComponent(r)
	return b
}

// Version returns the current edit version, for cache invalidation checks.
func (b *Button) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Component returns the named component and whether it is present.
func (b *Button) Component(name string) (Component, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.components[name]
	return c, ok
}

// Renderer is a convenience accessor for the load-bearing "renderer" component.
func (b *Button) Renderer() (RendererComponent, bool) {
	c, ok := b.Component("renderer")
	if !ok {
		return RendererComponent{}, false
	}
	r, ok := c.(RendererComponent)
	return r, ok
}

// SetComponent stores (or replaces) a component under its ComponentName and
// bumps the edit version.
func (b *Button) SetComponent(c Component) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.components[c.ComponentName()] = c
	b.version++
}

// RemoveComponent deletes a component by name and bumps the edit version if
// it was present.
func (b *Button) RemoveComponent(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.components[name]; ok {
		delete(b.components, name)
		b.version++
	}
}

// ComponentNames returns a snapshot of all component names on this Button.
func (b *Button) ComponentNames() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	names := make([]string, 0, len(b.components))
	for name := range b.components {
		names = append(names, name)
	}
	return names
}

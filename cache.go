package deckrt

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/hajimehoshi/ebiten/v2"
)

// ImageCache is the content-addressed cache keyed by a stable 64-bit hash
// of renderer inputs. It is owned exclusively by the Device Thread (the
// Render Pipeline); no locking is needed (spec.md §4.4, §5).
type ImageCache struct {
	decoded     map[uint64]*ebiten.Image
	deviceReady map[uint64][]byte
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		decoded:     make(map[uint64]*ebiten.Image),
		deviceReady: make(map[uint64][]byte),
	}
}

// Decoded looks up a previously composed, not-yet-encoded image (the
// idle-frame / static cache path).
func (c *ImageCache) Decoded(hash uint64) (*ebiten.Image, bool) {
	img, ok := c.decoded[hash]
	return img, ok
}

// PutDecoded stores img under hash.
func (c *ImageCache) PutDecoded(hash uint64, img *ebiten.Image) {
	c.decoded[hash] = img
}

// DeviceReady looks up previously encoded device-wire bytes (the
// per-animation-frame cache path).
func (c *ImageCache) DeviceReady(hash uint64) ([]byte, bool) {
	b, ok := c.deviceReady[hash]
	return b, ok
}

// PutDeviceReady stores encoded bytes under hash.
func (c *ImageCache) PutDeviceReady(hash uint64, encoded []byte) {
	c.deviceReady[hash] = encoded
}

// EvictHash removes hash from both maps, used when a Button edit
// invalidates a previously cached render (see DESIGN.md on the
// static/animated cross-invalidation fix).
func (c *ImageCache) EvictHash(hash uint64) {
	delete(c.decoded, hash)
	delete(c.deviceReady, hash)
}

// Len reports the combined entry count across both maps, exposed so a
// future LRU wrapper has something to act on (animated-frame cache growth
// is a documented limitation, not solved here — spec.md §9).
func (c *ImageCache) Len() int {
	return len(c.decoded) + len(c.deviceReady)
}

// --- Content hashing ---

// quantize mirrors the original's float hashing: values are quantized to
// hundredths before hashing so two floats that round to the same
// fixed-point value are treated as cache-equivalent (spec.md §9 "Float
// hashing"). A value exactly on the 0.005 boundary can hash on either side;
// that is accepted, documented behavior, not a bug.
func quantize(v float32) int32 {
	return int32(v*100 + 0.5*sign(v))
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// hasher is the minimal write surface renderHash and module RenderHash
// hooks mix bytes into; backed by FNV-1a 64, the same deterministic,
// dependency-free algorithm the standard library ships for exactly this
// purpose (no third-party hashing library appears anywhere in the
// retrieval pack to ground an alternative on).
type hasher struct {
	h   uint64
	buf [8]byte
}

func newHasher() *hasher {
	f := fnv.New64a()
	return &hasher{h: f.Sum64()}
}

func (h *hasher) writeUint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	h.mix(h.buf[:])
}

func (h *hasher) writeInt32(v int32) { h.writeUint64(uint64(uint32(v))) }
func (h *hasher) writeUint8(v uint8) { h.mix([]byte{v}) }
func (h *hasher) writeString(s string) {
	h.mix([]byte(s))
	h.writeUint64(uint64(len(s)))
}
func (h *hasher) writeColor(c Color) {
	h.mix([]byte{c.R, c.G, c.B, c.A})
}

// mix folds data into the running hash using FNV-1a's byte-at-a-time rule.
func (h *hasher) mix(data []byte) {
	const prime64 = 1099511628211
	hv := h.h
	for _, b := range data {
		hv ^= uint64(b)
		hv *= prime64
	}
	h.h = hv
}

func (h *hasher) sum() uint64 { return h.h }

// hashRendererComponent mixes the RendererComponent's content (background
// variant tag + payload, and ordered ButtonTexts with quantized floats)
// into h. ToCache is deliberately not hashed (spec.md §4.3).
func hashRendererComponent(h *hasher, r RendererComponent) {
	h.writeUint8(uint8(r.Background.Kind))
	switch r.Background.Kind {
	case BackgroundSolid:
		h.writeColor(r.Background.Start)
	case BackgroundHorizontalGradient, BackgroundVerticalGradient:
		h.writeColor(r.Background.Start)
		h.writeColor(r.Background.End)
	case BackgroundExistingImage:
		h.writeString(r.Background.AssetID)
	case BackgroundNewImage:
		h.writeString(r.Background.Blob)
	}

	h.writeUint64(uint64(len(r.Text)))
	for _, t := range r.Text {
		h.writeString(t.Text)
		h.writeString(t.FontID)
		h.writeInt32(quantize(t.ScaleX))
		h.writeInt32(quantize(t.ScaleY))
		h.writeUint8(uint8(t.Alignment))
		h.writeUint64(uint64(t.Padding))
		h.writeInt32(quantize(t.OffsetX))
		h.writeInt32(quantize(t.OffsetY))
		h.writeColor(t.Color)
		if t.Shadow != nil {
			h.writeUint8(1)
			h.writeInt32(int32(t.Shadow.OffsetX))
			h.writeInt32(int32(t.Shadow.OffsetY))
			h.writeColor(t.Shadow.Color)
		} else {
			h.writeUint8(0)
		}
	}
}

// StaticHash computes the cache key for static (non-animated) rendering:
// the RendererComponent content followed by each registered module's
// RenderHash contribution, in registration order (spec.md §4.3).
func StaticHash(r RendererComponent, button *Button, modules []RenderModule, view CoreView) uint64 {
	h := newHasher()
	hashRendererComponent(h, r)
	for _, m := range modules {
		m.RenderHash(view, button, h)
	}
	return h.sum()
}

// AnimatedHash additionally mixes the current animation frame index into
// the static hash (spec.md §4.3).
func AnimatedHash(r RendererComponent, button *Button, modules []RenderModule, view CoreView, frameIndex int) uint64 {
	h := newHasher()
	hashRendererComponent(h, r)
	h.writeUint64(uint64(frameIndex))
	for _, m := range modules {
		m.RenderHash(view, button, h)
	}
	return h.sum()
}

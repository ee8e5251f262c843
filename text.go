package deckrt

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// textFace is the glyph face type ButtonText rendering draws with. Aliased
// rather than re-wrapped so callers can hand in any face text/v2 can
// produce (truetype, opentype, bitmap) — adapted from the teacher's Font
// abstraction in text.go, narrowed to the single-string ButtonText case this
// core needs instead of the teacher's multi-paragraph TextBlock layout.
type textFace = text.Face

// Font is a loaded glyph face, registered in a FontStore under an id.
type Font struct {
	Face textFace
}

// FontStore resolves ButtonText.FontID to a loaded Font. A lookup miss is
// not fatal: the renderer skips that ButtonText and keeps the rest of the
// image (spec.md §7, ErrMissingFont).
type FontStore struct {
	fonts map[string]Font
}

// NewFontStore creates an empty store.
func NewFontStore() *FontStore {
	return &FontStore{fonts: make(map[string]Font)}
}

// Put registers or replaces a font under id.
func (s *FontStore) Put(id string, f Font) {
	s.fonts[id] = f
}

// Font returns the font registered under id.
func (s *FontStore) Font(id string) (Font, bool) {
	f, ok := s.fonts[id]
	return f, ok
}

// LoadTTFFont parses raw TTF/OTF bytes at the given point size into a Font,
// built on text/v2's GoTextFace the same way the teacher's TTFFont does.
func LoadTTFFont(ttfData []byte, size float64) (Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return Font{}, fmt.Errorf("deckrt: parse font: %w", err)
	}
	return Font{Face: &text.GoTextFace{Source: source, Size: size}}, nil
}

var fallbackFaceOnce sync.Once
var fallbackFace textFace

// fallbackLabelFace lazily loads the embedded Go Regular TTF (sourced from
// golang.org/x/image, no filesystem or network access needed) used to draw
// the missing-asset placeholder's labels — the one piece of text the core
// must be able to render even when the caller's FontStore is empty.
func fallbackLabelFace() textFace {
	fallbackFaceOnce.Do(func() {
		f, err := LoadTTFFont(goregular.TTF, 10)
		if err != nil {
			panic(err) // the embedded font is known-good; a parse failure means a build break
		}
		fallbackFace = f.Face
	})
	return fallbackFace
}

// drawAlignedString draws str on dst using face, anchored at (x, y) per
// align, optionally preceded by a shadow pass offset by shadow's delta. Left
// alignment anchors the string's left edge at x; Center and Right anchor the
// midpoint and right edge respectively. y is always the vertical center of
// the string, matching ButtonText's baseline-free layout model (spec.md §3).
func drawAlignedString(dst *ebiten.Image, face textFace, str string, align TextAlignment, x, y int, col Color, shadow *TextShadow) {
	w, h := text.Measure(str, face, 0)

	var originX float64
	switch align {
	case AlignLeft:
		originX = float64(x)
	case AlignCenter:
		originX = float64(x) - w/2
	case AlignRight:
		originX = float64(x) - w
	}
	originY := float64(y) - h/2

	draw := func(ox, oy float64, c Color) {
		op := &text.DrawOptions{}
		op.GeoM.Translate(ox, oy)
		op.ColorScale.ScaleWithColor(c.RGBA())
		text.Draw(dst, str, face, op)
	}

	if shadow != nil {
		draw(originX+float64(shadow.OffsetX), originY+float64(shadow.OffsetY), shadow.Color)
	}
	draw(originX, originY, col)
}

package deckrt

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

const placeholderTileSize = 16

// missingAssetPlaceholder renders the well-known "missing texture" tile — a
// 16x16 magenta/black checker tiled to fill w x h — used whenever an
// ExistingImage background names an asset the AssetStore doesn't have, or a
// NewImage blob fails to decode (spec.md §7, ErrMissingAsset /
// ErrDecodeImage: these are rendered, not fatal). A missing font does not
// use the placeholder; that ButtonText is simply skipped. Grounded
// on the teacher's magenta-placeholder convention for unresolved texture
// regions, generalized from a single region lookup to a tiled fill since
// here the "texture" is the entire key surface.
func missingAssetPlaceholder(w, h int) *ebiten.Image {
	img := ebiten.NewImage(w, h)
	magenta := color.RGBA{R: 255, G: 0, B: 255, A: 255}
	black := color.RGBA{A: 255}

	half := placeholderTileSize / 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tileX := (x / half) % 2
			tileY := (y / half) % 2
			if tileX == tileY {
				img.Set(x, y, magenta)
			} else {
				img.Set(x, y, black)
			}
		}
	}
	return img
}

// drawPlaceholderLabel overlays centered, shadowed text identifying what's
// missing onto an already-composed placeholder image. The two stacked
// labels, "ГДЕ" and "Where", are the literal bilingual marker the original
// hardcodes (spec.md §8 scenario 4), kept verbatim rather than translated.
func drawPlaceholderLabel(img *ebiten.Image) {
	face := fallbackLabelFace()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	labels := []string{"ГДЕ", "Where"}
	lineH := h / (len(labels) + 1)
	shadow := Color{R: 0, G: 0, B: 0, A: 200}
	fg := Color{R: 255, G: 255, B: 255, A: 255}
	for i, label := range labels {
		y := lineH * (i + 1)
		drawAlignedString(img, face, label, AlignCenter, w/2, y, fg, &TextShadow{OffsetX: 1, OffsetY: 1, Color: shadow})
	}
}

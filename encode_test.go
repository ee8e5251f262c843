package deckrt

import (
	"image"
	"image/color"
	"testing"
)

// tricolorSource builds a w x h image split into three equal vertical
// bands (red, green, blue), so a horizontal distortion (stretching a wide
// source across a narrow target instead of cropping it) shows up as the
// outer bands bleeding into the result.
func tricolorSource(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	third := w / 3
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := green
			switch {
			case x < third:
				c = red
			case x >= 2*third:
				c = blue
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// TestResizeToFillPreservesAspectRatio fits a 3:1 landscape source into a
// square target and checks the result is a centered crop-then-scale, not a
// non-uniform stretch. The square crop of a 3-wide source keeps only its
// middle third (pure green); a naive per-axis stretch would instead
// compress all three bands into the square, leaving red and blue visible
// at the edges.
func TestResizeToFillPreservesAspectRatio(t *testing.T) {
	src := tricolorSource(300, 100)
	dst := resizeToFill(src, 50, 50)

	if dst.Bounds().Dx() != 50 || dst.Bounds().Dy() != 50 {
		t.Fatalf("dst bounds = %v, want 50x50", dst.Bounds())
	}

	// A small tolerance absorbs Catmull-Rom's interpolation ringing near a
	// sharp color boundary; it would not absorb the gross red/blue bleed a
	// raw per-axis stretch produces at these sample points.
	const tolerance = 0x2000
	left := dst.RGBA64At(2, 25)
	right := dst.RGBA64At(47, 25)
	if left.R > tolerance || left.B > tolerance {
		t.Errorf("left edge pixel = %+v, want near-pure green (stretch would show red here)", left)
	}
	if right.R > tolerance || right.B > tolerance {
		t.Errorf("right edge pixel = %+v, want near-pure green (stretch would show blue here)", right)
	}
}

// TestResizeToFillCropsTallSourceVertically fits a tall, narrow source into
// a square target and checks rows outside the centered square crop are
// discarded rather than the whole source being squashed to fit.
func TestResizeToFillCropsTallSourceVertically(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 300))
	top := color.RGBA{G: 255, A: 255}
	mid := color.RGBA{R: 255, A: 255}
	bottom := color.RGBA{B: 255, A: 255}
	for y := 0; y < 300; y++ {
		c := mid
		switch {
		case y < 100:
			c = top
		case y >= 200:
			c = bottom
		}
		for x := 0; x < 100; x++ {
			src.Set(x, y, c)
		}
	}

	dst := resizeToFill(src, 40, 40)
	center := dst.RGBA64At(20, 20)
	if center.R == 0 {
		t.Errorf("center pixel = %+v, want the middle band's red to dominate after a centered vertical crop", center)
	}
	if center.G != 0 || center.B != 0 {
		t.Errorf("center pixel = %+v, want the top/bottom bands cropped away entirely", center)
	}
}

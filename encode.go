package deckrt

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"

	"github.com/hajimehoshi/ebiten/v2"
)

// rotate180 returns a copy of src rotated by 180 degrees, needed because
// several Stream-Deck-class panels mount their key matrix upside down
// relative to the wire image origin (spec.md §6, GLOSSARY "180-degree
// rotation").
func rotate180(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dst.Set(w-1-x, h-1-y, src.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return dst
}

// encodeDeviceImage converts img to the wire format the device expects
// (spec.md §4.4, §6): BMP or JPEG, as selected by mode, which comes from
// the device's Driver.ImageMode. rotated controls whether the 180-degree
// flip is applied first.
func encodeDeviceImage(img *ebiten.Image, mode ImageMode, rotated bool) ([]byte, error) {
	var src image.Image = img
	if rotated {
		src = rotate180(img)
	}

	var buf bytes.Buffer
	switch mode {
	case ImageBmp:
		if err := bmp.Encode(&buf, src); err != nil {
			return nil, fmt.Errorf("deckrt: encode bmp: %w", err)
		}
	case ImageJpeg:
		if err := jpeg.Encode(&buf, src, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("deckrt: encode jpeg: %w", err)
		}
	default:
		return nil, fmt.Errorf("deckrt: unknown image mode %d", mode)
	}
	return buf.Bytes(), nil
}

// decodeBlob decodes a base64-encoded image blob (a NewImage background's
// payload, spec.md §3) in whatever format it was supplied (PNG/JPEG/GIF),
// returning ErrDecodeImage on any failure so callers can fall back to the
// missing-asset placeholder instead of aborting the draw (spec.md §7).
func decodeBlob(b64 string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	return img, nil
}

// resizeToFill crops src to (w,h)'s aspect ratio around its center, then
// scales the crop to exactly w x h — "fill the key" without the distortion
// a plain per-axis scale introduces (spec.md §3). Grounded on
// streamduck-core's resize_to_fill (thread.rs), which crops before scaling
// for the same reason; the final resample uses x/image/draw's
// CatmullRom.Scale, the same package the retrieval pack's image-processing
// examples reach for.
func resizeToFill(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	sb := src.Bounds()
	sw, sh := sb.Dx(), sb.Dy()
	if sw == 0 || sh == 0 || w == 0 || h == 0 {
		return dst
	}

	srcAspect := float64(sw) / float64(sh)
	dstAspect := float64(w) / float64(h)

	cropRect := sb
	switch {
	case srcAspect > dstAspect:
		cropW := int(float64(sh) * dstAspect)
		offset := (sw - cropW) / 2
		cropRect = image.Rect(sb.Min.X+offset, sb.Min.Y, sb.Min.X+offset+cropW, sb.Max.Y)
	case srcAspect < dstAspect:
		cropH := int(float64(sw) / dstAspect)
		offset := (sh - cropH) / 2
		cropRect = image.Rect(sb.Min.X, sb.Min.Y+offset, sb.Max.X, sb.Min.Y+offset+cropH)
	}

	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, cropRect, xdraw.Over, nil)
	return dst
}

// fitToFill is resizeToFill's entry point for a freshly decoded NewImage
// blob.
func fitToFill(src image.Image, w, h int) *image.RGBA {
	return resizeToFill(src, w, h)
}

// ebitenResizeToFill fits an already-decoded ebiten image (typically a
// looked-up ExistingImage asset) to w x h, skipping the resample when it's
// already the right size.
func ebitenResizeToFill(img *ebiten.Image, w, h int) *ebiten.Image {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}
	return ebitenFromImage(resizeToFill(img, w, h))
}

// ebitenFromImage copies a standard library image.Image into a fresh
// ebiten.Image, the boundary every decoded asset crosses before it can
// participate in compositing.
func ebitenFromImage(src image.Image) *ebiten.Image {
	b := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	img := ebiten.NewImageFromImage(rgba)
	return img
}

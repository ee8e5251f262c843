// Package deckrt implements the per-device runtime for Stream-Deck-class
// USB HID control surfaces: input translation, per-key image composition,
// content-addressed render caching, animation timing, and the device-thread
// / key-handler-thread concurrency model that drives one connected device.
package deckrt

import "image/color"

// Color is an RGBA quadruple of 8-bit channels, fully opaque or not.
type Color struct {
	R, G, B, A uint8
}

// RGBA converts Color to the standard library's color.RGBA (premultiplied).
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(uint16(c.R) * uint16(c.A) / 255),
		G: uint8(uint16(c.G) * uint16(c.A) / 255),
		B: uint8(uint16(c.B) * uint16(c.A) / 255),
		A: c.A,
	}
}

// Point is an integer pixel offset.
type Point struct {
	X, Y int
}

// Rect is a pixel grid position and size, used by InputLayout slots.
type Rect struct {
	X, Y, W, H int
}

package deckrt

// InputType distinguishes the kind of control a layout slot represents.
type InputType uint8

const (
	InputButton     InputType = iota // a back-lit LCD key
	InputEndlessKnob                 // a rotary encoder (press + dial)
	InputXYPanel                     // a touch strip / touch panel region
)

// Input describes one addressable control on the device's surface. Key
// indices used throughout the core are positions in InputLayout.Slots.
type Input struct {
	// Pos is the slot's logical grid position and span.
	Pos Rect
	// Type selects button / encoder / touch-panel behavior.
	Type InputType
	// ImageW, ImageH are the pixel resolution for image-bearing inputs
	// (buttons). Zero for non-image-bearing inputs (encoders, touch panel).
	ImageW, ImageH int
}

// HasImage reports whether this slot accepts a pushed image.
func (in Input) HasImage() bool {
	return in.Type == InputButton && in.ImageW > 0 && in.ImageH > 0
}

// InputLayout describes a device's full control surface. It is immutable
// once the device is connected.
type InputLayout struct {
	Slots []Input
}

// KeyCount returns the number of InputButton slots, i.e. the key index range.
func (l InputLayout) KeyCount() int {
	n := 0
	for _, s := range l.Slots {
		if s.Type == InputButton {
			n++
		}
	}
	return n
}

// ImageSize returns the pixel resolution shared by all button slots. Panics
// is avoided: callers with a layout that has no button slots get (0, 0).
func (l InputLayout) ImageSize() (w, h int) {
	for _, s := range l.Slots {
		if s.HasImage() {
			return s.ImageW, s.ImageH
		}
	}
	return 0, 0
}

// EncoderBase returns the synthetic key-index offset for encoder press and
// release events: the number of InputButton slots, i.e. every encoder's
// input id lands right after the physical button range. This replaces the
// hard-coded "+9" constant from earlier device-kind-specific code (see
// DESIGN.md) by deriving the offset from the layout itself.
func (l InputLayout) EncoderBase() int {
	return l.KeyCount()
}

// TouchPanelInputID returns the synthetic input id used for touch strip
// events: the first slot of type InputXYPanel, offset past buttons and
// encoders. Returns -1 if the layout has no touch panel.
func (l InputLayout) TouchPanelInputID() int {
	base := l.KeyCount()
	knobs := 0
	for _, s := range l.Slots {
		if s.Type == InputEndlessKnob {
			knobs++
		}
	}
	for _, s := range l.Slots {
		if s.Type == InputXYPanel {
			return base + knobs
		}
	}
	return -1
}

// ImageMode selects the device's preferred wire image format.
type ImageMode uint8

const (
	ImageBmp ImageMode = iota
	ImageJpeg
)

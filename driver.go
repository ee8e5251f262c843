package deckrt

import (
	"errors"
	"time"
)

// DriverErrorKind classifies a Driver read failure.
type DriverErrorKind uint8

const (
	// ErrKindNoData means the read timed out with nothing to report; this
	// is the expected, frequent case for a non-blocking poll and is never
	// treated as a failure.
	ErrKindNoData DriverErrorKind = iota
	// ErrKindHid means the underlying HID connection itself failed (e.g.
	// the device was unplugged); the runtime closes cleanly.
	ErrKindHid
	// ErrKindOther is any other driver failure. Per DESIGN.md this is
	// surfaced as DeviceFatal and closes the runtime cleanly rather than
	// panicking (resolves a REDESIGN FLAG from spec.md §9).
	ErrKindOther
)

// DriverError wraps a classified driver failure.
type DriverError struct {
	Kind DriverErrorKind
	Err  error
}

func (e *DriverError) Error() string {
	if e.Err == nil {
		return "deckrt: driver error"
	}
	return "deckrt: driver error: " + e.Err.Error()
}

func (e *DriverError) Unwrap() error { return e.Err }

// EncoderEvent is a press/release or dial-turn update for an encoder slot.
type EncoderEvent struct {
	SlotIndex int  // index into InputLayout.Slots
	Pressed   bool // true=press, false=release; ignored when IsDial is true
	Delta     int16
	IsDial    bool // true if this event is a dial turn (use Delta), false if press/release (use Pressed)
}

// TouchKind distinguishes the three touch-strip gesture shapes.
type TouchKind uint8

const (
	TouchPress TouchKind = iota
	TouchLongPress
	TouchSwipe
)

// TouchEvent is a raw touch-panel gesture reported by the driver.
type TouchEvent struct {
	Kind             TouchKind
	Position         Point // valid for Press, LongPress
	StartEnd         [2]Point
}

// InputReport is one poll's worth of raw input from the device.
type InputReport struct {
	// Buttons is indexed by physical button position; nil/absent is not an
	// error (the translator treats a shorter slice as "data not present"
	// for indices beyond its length).
	Buttons []byte
	Encoders []EncoderEvent
	Touches  []TouchEvent
}

// Driver is the narrow interface the core consumes from a device driver.
// Driver enumeration and hot-plug, and the concrete HID transport, are out
// of scope for the core (see driver/hiddriver for one concrete backend);
// the core only ever talks to this interface.
type Driver interface {
	// ImageSize returns the per-key pixel resolution.
	ImageSize() (w, h int)
	// Layout returns the device's immutable input layout.
	Layout() InputLayout
	// ImageMode reports the device's preferred wire image format.
	ImageMode() ImageMode

	// ReadReport performs one non-blocking (timeout == 0) or blocking read
	// of the next input report.
	ReadReport(timeout time.Duration) (InputReport, error)

	// WriteButtonImage pushes pre-encoded device-ready bytes to one key.
	WriteButtonImage(key int, encoded []byte) error
	// SetButtonRGB clears a key to a flat color (used for the black-clear
	// fast path instead of encoding a full image).
	SetButtonRGB(key int, c Color) error
	// SetBrightness sets the overall panel brightness, 0-100.
	SetBrightness(pct uint8) error
	// SetBlocking toggles blocking mode on the underlying HID reads.
	SetBlocking(blocking bool) error
	// Close releases the underlying HID handle.
	Close() error
}

// Sentinel errors surfaced by the core, matched with errors.Is. Where a
// cause is attached (decodeBlob wraps ErrDecodeImage with fmt.Errorf's %w),
// errors.Is still matches the sentinel.
var (
	// ErrLostConnection is terminal for a runtime: the device went away.
	ErrLostConnection = errors.New("deckrt: lost connection")
	// ErrDeviceFatal is a non-Hid driver failure serious enough to close
	// the runtime (see DriverErrorKind.ErrKindOther).
	ErrDeviceFatal = errors.New("deckrt: fatal device error")
	// ErrLastScreen is returned by ScreenStack.Pop on a single-screen stack.
	ErrLastScreen = errors.New("deckrt: cannot pop the last screen")
	// ErrMissingAsset marks an ExistingImage reference not found in the
	// asset store (substituted with the placeholder, not propagated).
	ErrMissingAsset = errors.New("deckrt: missing asset")
	// ErrMissingFont marks a font id not found (text silently dropped).
	ErrMissingFont = errors.New("deckrt: missing font")
	// ErrDecodeImage marks an undecodable NewImage blob (substituted with
	// the placeholder, not propagated).
	ErrDecodeImage = errors.New("deckrt: failed to decode image")
)

// Package hiddriver implements deckrt.Driver over real Elgato Stream Deck
// hardware via github.com/karalabe/hid. Grounded on muesli-streamdeck's
// protocol framing (key-state offsets, paged image writes, feature
// reports) and SKAARHOJ-go-streamdeck's device enumeration pattern.
package hiddriver

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"time"

	"github.com/karalabe/hid"
	"golang.org/x/image/bmp"

	"github.com/phanxgames/deckrt"
)

// VendorElgato is Elgato's USB vendor id.
const VendorElgato = 0x0fd9

// Kind describes one Stream-Deck-class model's wire-protocol shape: report
// sizes, header layout, and key-index translation. Two concrete Kinds are
// provided (MK2, XL); more can be added without touching Driver.
type Kind struct {
	ProductID uint16
	Layout    deckrt.InputLayout
	ImageMode deckrt.ImageMode

	ReportSize      int
	KeyStateOffset  int
	Columns         int
	FlipImage       bool // some models store the key image column-major/mirrored

	ImagePageSize       int
	ImagePageHeaderSize int
	FeatureReportSize   int

	ResetCommand      []byte
	BrightnessCommand []byte

	// TranslateKeyIndex converts a logical key index (row-major, 0 top-left)
	// into the physical index the device firmware expects.
	TranslateKeyIndex func(index, columns int) int
}

func identityTranslate(index, columns int) int { return index }

func gridLayout(cols, rows, imgW, imgH int) deckrt.InputLayout {
	slots := make([]deckrt.Input, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			slots = append(slots, deckrt.Input{
				Pos:    deckrt.Rect{X: x, Y: y, W: 1, H: 1},
				Type:   deckrt.InputButton,
				ImageW: imgW,
				ImageH: imgH,
			})
		}
	}
	return deckrt.InputLayout{Slots: slots}
}

// StreamDeckMK2 describes the 15-key Stream Deck MK.2 (96x96 JPEG keys).
var StreamDeckMK2 = Kind{
	ProductID:           0x0080,
	Layout:              gridLayout(5, 3, 96, 96),
	ImageMode:           deckrt.ImageJpeg,
	ReportSize:          512,
	KeyStateOffset:      4,
	Columns:             5,
	ImagePageSize:       1024,
	ImagePageHeaderSize: 8,
	FeatureReportSize:   32,
	ResetCommand:        []byte{0x03, 0x02},
	BrightnessCommand:   []byte{0x03, 0x08},
	TranslateKeyIndex:   identityTranslate,
}

// StreamDeckXL describes the 32-key Stream Deck XL (96x96 JPEG keys).
var StreamDeckXL = Kind{
	ProductID:           0x006c,
	Layout:              gridLayout(8, 4, 96, 96),
	ImageMode:           deckrt.ImageJpeg,
	ReportSize:          512,
	KeyStateOffset:      4,
	Columns:             8,
	ImagePageSize:       1024,
	ImagePageHeaderSize: 8,
	FeatureReportSize:   32,
	ResetCommand:        []byte{0x03, 0x02},
	BrightnessCommand:   []byte{0x03, 0x08},
	TranslateKeyIndex:   identityTranslate,
}

// Driver implements deckrt.Driver over one opened HID handle.
type Driver struct {
	dev      *hid.Device
	kind     Kind
	keyState []byte
	blocking bool
}

// Open enumerates and opens the first device matching kind's product id
// under the Elgato vendor id.
func Open(kind Kind) (*Driver, error) {
	infos := hid.Enumerate(VendorElgato, kind.ProductID)
	if len(infos) == 0 {
		return nil, fmt.Errorf("hiddriver: no device found for product %#04x", kind.ProductID)
	}
	dev, err := infos[0].Open()
	if err != nil {
		return nil, fmt.Errorf("hiddriver: open: %w", err)
	}
	return &Driver{
		dev:      dev,
		kind:     kind,
		keyState: make([]byte, kind.Layout.KeyCount()),
	}, nil
}

// ImageSize implements deckrt.Driver.
func (d *Driver) ImageSize() (w, h int) { return d.kind.Layout.ImageSize() }

// Layout implements deckrt.Driver.
func (d *Driver) Layout() deckrt.InputLayout { return d.kind.Layout }

// ImageMode implements deckrt.Driver.
func (d *Driver) ImageMode() deckrt.ImageMode { return d.kind.ImageMode }

// ReadReport implements deckrt.Driver. timeout is not used: each call does
// one Read on the hid.Device as opened (SetBlocking does not change it). A
// read error is reported as ErrKindHid; a read that returns 0 bytes is
// reported as ErrKindNoData, which the core treats as "nothing to do".
func (d *Driver) ReadReport(timeout time.Duration) (deckrt.InputReport, error) {
	buf := make([]byte, d.kind.ReportSize)
	n, err := d.dev.Read(buf)
	if err != nil {
		return deckrt.InputReport{}, &deckrt.DriverError{Kind: deckrt.ErrKindHid, Err: err}
	}
	if n == 0 {
		return deckrt.InputReport{}, &deckrt.DriverError{Kind: deckrt.ErrKindNoData}
	}

	keyCount := len(d.keyState)
	buttons := make([]byte, keyCount)
	end := d.kind.KeyStateOffset + keyCount
	if end > n {
		end = n
	}
	copy(buttons, buf[d.kind.KeyStateOffset:end])
	copy(d.keyState, buttons)

	return deckrt.InputReport{Buttons: buttons}, nil
}

// WriteButtonImage implements deckrt.Driver, paging encoded into
// ImagePageSize-sized HID reports, each carrying a small header the
// firmware uses to address the page to a physical key (muesli-streamdeck's
// imageData.Page / imagePageHeader framing).
func (d *Driver) WriteButtonImage(key int, encoded []byte) error {
	payloadSize := d.kind.ImagePageSize - d.kind.ImagePageHeaderSize
	if payloadSize <= 0 {
		return fmt.Errorf("hiddriver: invalid image page size")
	}
	physicalKey := d.kind.TranslateKeyIndex(key, d.kind.Columns)

	page := 0
	for offset := 0; ; {
		end := offset + payloadSize
		last := false
		if end >= len(encoded) {
			end = len(encoded)
			last = true
		}
		payload := encoded[offset:end]

		data := make([]byte, d.kind.ImagePageSize)
		header := imagePageHeader(page, physicalKey, len(payload), last)
		copy(data, header)
		copy(data[len(header):], payload)

		if _, err := d.dev.Write(data); err != nil {
			return fmt.Errorf("hiddriver: write image page %d: %w", page, err)
		}

		if last {
			return nil
		}
		offset = end
		page++
	}
}

// imagePageHeader builds the 8-byte per-page header, in this order: report
// id (0x02), image command (0x07), key index, last-page flag, payload length
// (little-endian uint16), and page index (little-endian uint16), following
// muesli-streamdeck's Stream Deck v2-family header.
func imagePageHeader(page, key, payloadLen int, last bool) []byte {
	h := make([]byte, 8)
	h[0] = 0x02
	h[1] = 0x07
	h[2] = byte(key)
	if last {
		h[3] = 1
	}
	h[4] = byte(payloadLen)
	h[5] = byte(payloadLen >> 8)
	h[6] = byte(page)
	h[7] = byte(page >> 8)
	return h
}

// SetButtonRGB implements deckrt.Driver by encoding a solid-color image at
// the device's key resolution, in the Kind's ImageMode (BMP or JPEG), and
// writing it through the same paged path as any other image (the
// black-clear fast path still goes through the wire format the firmware
// expects).
func (d *Driver) SetButtonRGB(key int, c deckrt.Color) error {
	w, h := d.ImageSize()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.RGBA()), image.Point{}, draw.Src)

	var buf bytes.Buffer
	var err error
	if d.kind.ImageMode == deckrt.ImageJpeg {
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	} else {
		err = bmp.Encode(&buf, img)
	}
	if err != nil {
		return fmt.Errorf("hiddriver: encode clear color: %w", err)
	}
	return d.WriteButtonImage(key, buf.Bytes())
}

// SetBrightness implements deckrt.Driver via a feature report.
func (d *Driver) SetBrightness(pct uint8) error {
	report := make([]byte, len(d.kind.BrightnessCommand)+1)
	copy(report, d.kind.BrightnessCommand)
	report[len(report)-1] = pct
	return d.sendFeatureReport(report)
}

func (d *Driver) sendFeatureReport(payload []byte) error {
	b := make([]byte, d.kind.FeatureReportSize)
	copy(b, payload)
	_, err := d.dev.SendFeatureReport(b)
	return err
}

// SetBlocking implements deckrt.Driver. The flag is stored for interface
// parity only: ReadReport does not consult it and the hid.Device is not
// reconfigured.
func (d *Driver) SetBlocking(blocking bool) error {
	d.blocking = blocking
	return nil
}

// Close implements deckrt.Driver.
func (d *Driver) Close() error {
	return d.dev.Close()
}

package deckrt

import (
	"sync"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

func ebitenSolid(w, h int, c Color) *ebiten.Image {
	img := ebiten.NewImage(w, h)
	img.Fill(c.RGBA())
	return img
}

// fakeDriver is an in-memory Driver used by render_test.go and
// runtime_test.go, modeled on the teacher's synthetic-event-injection test
// fixtures: it records every write instead of touching real hardware.
type fakeDriver struct {
	mu sync.Mutex

	layout    InputLayout
	mode      ImageMode
	w, h      int
	reports   []InputReport
	reportIdx int

	images     map[int][]byte
	clears     map[int]Color
	brightness uint8
	closed     bool
}

func newFakeDriver(keyCount, w, h int) *fakeDriver {
	slots := make([]Input, keyCount)
	for i := range slots {
		slots[i] = Input{Type: InputButton, ImageW: w, ImageH: h}
	}
	return &fakeDriver{
		layout: InputLayout{Slots: slots},
		mode:   ImageJpeg,
		w:      w,
		h:      h,
		images: make(map[int][]byte),
		clears: make(map[int]Color),
	}
}

func (d *fakeDriver) ImageSize() (int, int)  { return d.w, d.h }
func (d *fakeDriver) Layout() InputLayout    { return d.layout }
func (d *fakeDriver) ImageMode() ImageMode   { return d.mode }
func (d *fakeDriver) SetBlocking(bool) error { return nil }
func (d *fakeDriver) Close() error           { d.closed = true; return nil }

func (d *fakeDriver) queueReport(r InputReport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports = append(d.reports, r)
}

func (d *fakeDriver) ReadReport(timeout time.Duration) (InputReport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.reportIdx >= len(d.reports) {
		return InputReport{}, &DriverError{Kind: ErrKindNoData}
	}
	r := d.reports[d.reportIdx]
	d.reportIdx++
	return r, nil
}

func (d *fakeDriver) WriteButtonImage(key int, encoded []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	buf := make([]byte, len(encoded))
	copy(buf, encoded)
	d.images[key] = buf
	delete(d.clears, key)
	return nil
}

func (d *fakeDriver) SetButtonRGB(key int, c Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.clears[key] = c
	delete(d.images, key)
	return nil
}

func (d *fakeDriver) SetBrightness(pct uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.brightness = pct
	return nil
}

func (d *fakeDriver) writeCount(key int) (hasImage, hasClear bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, hasImage = d.images[key]
	_, hasClear = d.clears[key]
	return
}

func TestRenderPipelineSolidBackgroundWritesImage(t *testing.T) {
	driver := newFakeDriver(6, 72, 72)
	pipeline := NewRenderPipeline(driver, NewMapAssetStore(), NewFontStore())
	arena := NewArena()
	screen := NewScreen()

	btn := NewButtonWithRenderer(RendererComponent{
		Background: SolidBackground(Color{R: 255, A: 255}),
		ToCache:    true,
	})
	id := arena.Put(btn)
	screen.Set(0, id)

	if err := pipeline.Redraw(screen, arena); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}

	hasImage, _ := driver.writeCount(0)
	if !hasImage {
		t.Errorf("key 0 has no written image after Redraw with a solid background")
	}
}

func TestRenderPipelineEmptyKeyClearsToBlack(t *testing.T) {
	driver := newFakeDriver(6, 72, 72)
	pipeline := NewRenderPipeline(driver, NewMapAssetStore(), NewFontStore())
	arena := NewArena()
	screen := NewScreen() // nothing assigned to any key

	if err := pipeline.Redraw(screen, arena); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}

	_, hasClear := driver.writeCount(0)
	if !hasClear {
		t.Errorf("key 0 was not cleared when no Button is assigned")
	}
	if driver.clears[0] != blackClear {
		t.Errorf("clear color = %v, want opaque black", driver.clears[0])
	}
}

func TestRenderPipelineMissingAssetUsesPlaceholder(t *testing.T) {
	driver := newFakeDriver(6, 72, 72)
	pipeline := NewRenderPipeline(driver, NewMapAssetStore(), NewFontStore())
	arena := NewArena()
	screen := NewScreen()

	btn := NewButtonWithRenderer(RendererComponent{
		Background: ExistingImageBackground("does-not-exist"),
		ToCache:    true,
	})
	id := arena.Put(btn)
	screen.Set(0, id)

	if err := pipeline.Redraw(screen, arena); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}

	hasImage, _ := driver.writeCount(0)
	if !hasImage {
		t.Errorf("key 0 has no written image for a missing asset (placeholder expected)")
	}
}

func TestRenderPipelineCachesDecodedImage(t *testing.T) {
	driver := newFakeDriver(6, 72, 72)
	pipeline := NewRenderPipeline(driver, NewMapAssetStore(), NewFontStore())
	arena := NewArena()
	screen := NewScreen()

	r := RendererComponent{Background: SolidBackground(Color{G: 255, A: 255}), ToCache: true}
	btn := NewButtonWithRenderer(r)
	id := arena.Put(btn)
	screen.Set(0, id)

	if err := pipeline.Redraw(screen, arena); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}

	view := CoreView{ImageW: 72, ImageH: 72, KeyCount: 6}
	hash := StaticHash(r, btn, nil, view)
	if _, ok := pipeline.cache.Decoded(hash); !ok {
		t.Errorf("Decoded(hash) ok = false after a cached Redraw, want true — the static path caches composed images, not encoded bytes")
	}
	if _, ok := pipeline.cache.DeviceReady(hash); ok {
		t.Errorf("DeviceReady(hash) ok = true after a static Redraw, want false — that tier is for the animated path only")
	}
	hasImage, _ := driver.writeCount(0)
	if !hasImage {
		t.Errorf("key 0 has no written image after Redraw")
	}
}

func TestRenderPipelineEditEvictsStaleCacheEntry(t *testing.T) {
	driver := newFakeDriver(6, 72, 72)
	pipeline := NewRenderPipeline(driver, NewMapAssetStore(), NewFontStore())
	arena := NewArena()
	screen := NewScreen()

	r1 := RendererComponent{Background: SolidBackground(Color{R: 255, A: 255}), ToCache: true}
	btn := NewButtonWithRenderer(r1)
	id := arena.Put(btn)
	screen.Set(0, id)

	if err := pipeline.Redraw(screen, arena); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	view := CoreView{ImageW: 72, ImageH: 72, KeyCount: 6}
	oldHash := StaticHash(r1, btn, nil, view)
	if _, ok := pipeline.cache.Decoded(oldHash); !ok {
		t.Fatalf("Decoded(oldHash) ok = false after the first Redraw, want true")
	}

	r2 := RendererComponent{Background: SolidBackground(Color{B: 255, A: 255}), ToCache: true}
	btn.SetComponent(r2)

	if err := pipeline.Redraw(screen, arena); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}
	if _, ok := pipeline.cache.Decoded(oldHash); ok {
		t.Errorf("Decoded(oldHash) ok = true after editing the Button, want the stale entry evicted")
	}
}

func TestRenderPipelineAnimatedBackgroundDeferredToAdvance(t *testing.T) {
	driver := newFakeDriver(6, 72, 72)
	assets := NewMapAssetStore()
	frames := []AnimationFrame{
		{Image: ebitenSolid(72, 72, Color{R: 1, A: 255}), Delay: 5},
		{Image: ebitenSolid(72, 72, Color{R: 2, A: 255}), Delay: 5},
	}
	assets.Put("anim", ImageAsset{Frames: frames})
	pipeline := NewRenderPipeline(driver, assets, NewFontStore())
	arena := NewArena()
	screen := NewScreen()

	btn := NewButtonWithRenderer(RendererComponent{
		Background: ExistingImageBackground("anim"),
		ToCache:    true,
	})
	id := arena.Put(btn)
	screen.Set(0, id)

	if err := pipeline.Redraw(screen, arena); err != nil {
		t.Fatalf("Redraw() error = %v", err)
	}

	if _, ok := pipeline.renderMap[0]; !ok {
		t.Errorf("renderMap has no entry for an animated key after Redraw")
	}
	if !pipeline.sched.Active() {
		t.Errorf("AnimationScheduler has nothing tracked after registering an animated key")
	}
}

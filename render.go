package deckrt

import (
	"github.com/hajimehoshi/ebiten/v2"
)

var blackClear = Color{R: 0, G: 0, B: 0, A: 255}

var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(1, 1)
	img.Fill(Color{R: 255, G: 255, B: 255, A: 255}.RGBA())
	return img
}()

// renderMapEntry tracks one key currently showing an animated background,
// so the Animation Scheduler step knows which keys to revisit each tick
// without walking the whole screen (spec.md §4.3, §4.5).
type renderMapEntry struct {
	id     ButtonID
	button *Button
}

// RenderPipeline composes a Button's current state into a device-ready image
// and keeps it cached by content hash, so redrawing a screen that hasn't
// changed costs a handful of map lookups rather than a re-composite
// (spec.md §4.3, §4.4). One pipeline per device; owned exclusively by the
// Device Thread, so none of its state is locked (spec.md §5).
type RenderPipeline struct {
	driver  Driver
	cache   *ImageCache
	sched   *AnimationScheduler
	modules []RenderModule
	assets  AssetStore
	fonts   *FontStore
	view    CoreView
	mode    ImageMode
	rotated bool

	renderMap   map[uint8]renderMapEntry
	seenVersion map[ButtonID]uint64 // last Button.Version() observed per id
	lastHash    map[ButtonID]uint64 // last render hash used for id, for edit-time eviction
}

// NewRenderPipeline wires a pipeline against a device's driver and the
// stores it resolves asset/font references against.
func NewRenderPipeline(driver Driver, assets AssetStore, fonts *FontStore) *RenderPipeline {
	layout := driver.Layout()
	w, h := layout.ImageSize()
	return &RenderPipeline{
		driver:      driver,
		cache:       NewImageCache(),
		sched:       NewAnimationScheduler(),
		assets:      assets,
		fonts:       fonts,
		mode:        driver.ImageMode(),
		rotated:     true,
		view:        CoreView{ImageW: w, ImageH: h, KeyCount: layout.KeyCount()},
		renderMap:   make(map[uint8]renderMapEntry),
		seenVersion: make(map[ButtonID]uint64),
		lastHash:    make(map[ButtonID]uint64),
	}
}

// Use registers modules that participate in every subsequent render, in
// the order given (spec.md §4.3, §6).
func (p *RenderPipeline) Use(modules ...RenderModule) {
	p.modules = append(p.modules, modules...)
}

// invalidateIfEdited evicts any animation tracking and cached render keyed
// to a stale Button version: a Button edited while animated (or vice versa)
// leaves behind scheduler/cache state nothing will look up again under the
// new version, so the fix is to drop it eagerly on the version bump
// (spec.md §9, §4.4: "on edit, invalidate both caches for the affected
// key").
func (p *RenderPipeline) invalidateIfEdited(id ButtonID, b *Button) {
	v := b.Version()
	if last, ok := p.seenVersion[id]; ok && last != v {
		p.sched.Forget(id)
		if hash, ok := p.lastHash[id]; ok {
			p.cache.EvictHash(hash)
			delete(p.lastHash, id)
		}
	}
	p.seenVersion[id] = v
}

// Redraw implements the full-screen redraw algorithm (spec.md §4.3): every
// key index gets either a black clear, a cache-hit write, or a freshly
// composed-and-written image; animated keys are registered into the
// render-map and left for the next AdvanceAnimations call instead of being
// written eagerly.
func (p *RenderPipeline) Redraw(screen *Screen, arena *Arena) error {
	for k := 0; k < p.view.KeyCount; k++ {
		key := uint8(k)
		id, ok := screen.Get(key)
		var button *Button
		if ok {
			button = arena.Get(id)
		}
		if button == nil {
			delete(p.renderMap, key)
			if err := p.driver.SetButtonRGB(k, blackClear); err != nil {
				debugLog("clear key %d: %v", k, err)
			}
			continue
		}

		p.invalidateIfEdited(id, button)
		r, hasRenderer := button.Renderer()
		if !hasRenderer {
			delete(p.renderMap, key)
			if err := p.driver.SetButtonRGB(k, blackClear); err != nil {
				debugLog("clear key %d: %v", k, err)
			}
			continue
		}

		asset, hasAsset := p.backgroundAsset(r)
		if hasAsset && asset.Animated() {
			p.renderMap[key] = renderMapEntry{id: id, button: button}
			p.sched.Ensure(id, asset.Frames)
			// The scheduler's counter starts with new_frame=true, so the
			// first write happens on the next AdvanceAnimations call; the
			// redraw itself never writes an animated key eagerly.
			continue
		}
		delete(p.renderMap, key)

		hash := StaticHash(r, button, p.modules, p.view)
		p.lastHash[id] = hash

		img, ok := p.cache.Decoded(hash)
		if !ok {
			var base *ebiten.Image
			if hasAsset {
				base = asset.Single
			}
			img = p.compose(r, button, base)
			if r.ToCache {
				p.cache.PutDecoded(hash, img)
			}
		}

		out, err := encodeDeviceImage(img, p.mode, p.rotated)
		if err != nil {
			debugLog("encode key %d: %v", k, err)
			continue
		}
		if err := p.driver.WriteButtonImage(k, out); err != nil {
			debugLog("write key %d: %v", k, err)
		}
	}
	return nil
}

// AdvanceAnimations implements the animated-frame step (spec.md §4.5): every
// tracked counter advances once; any that landed on a new frame gets
// re-encoded (or served from the device-ready cache) and written.
func (p *RenderPipeline) AdvanceAnimations() {
	if !p.sched.Active() {
		return
	}
	p.sched.Tick()

	for key, entry := range p.renderMap {
		r, hasRenderer := entry.button.Renderer()
		if !hasRenderer {
			continue
		}
		asset, hasAsset := p.backgroundAsset(r)
		if !hasAsset || !asset.Animated() {
			continue
		}
		counter := p.sched.Ensure(entry.id, asset.Frames)
		if !counter.consumeNewFrame() {
			continue
		}

		hash := AnimatedHash(r, entry.button, p.modules, p.view, counter.frameIndex())
		p.lastHash[entry.id] = hash
		if r.ToCache {
			if cached, ok := p.cache.DeviceReady(hash); ok {
				if err := p.driver.WriteButtonImage(int(key), cached); err != nil {
					debugLog("write key %d: %v", key, err)
				}
				continue
			}
		}

		frameImg := asset.Frames[counter.frameIndex()].Image
		img := p.compose(r, entry.button, frameImg)
		out, err := encodeDeviceImage(img, p.mode, p.rotated)
		if err != nil {
			debugLog("encode key %d: %v", key, err)
			continue
		}
		if r.ToCache {
			p.cache.PutDeviceReady(hash, out)
		}
		if err := p.driver.WriteButtonImage(int(key), out); err != nil {
			debugLog("write key %d: %v", key, err)
		}
	}
}

// backgroundAsset resolves a RendererComponent's background to an
// ImageAsset, when its Kind needs one (ExistingImage looks the AssetStore
// up, NewImage decodes its inline blob). Solid and gradient backgrounds need
// no asset and report hasAsset=false. A missing asset or decode failure
// substitutes the placeholder rather than failing the render (spec.md §7).
func (p *RenderPipeline) backgroundAsset(r RendererComponent) (ImageAsset, bool) {
	switch r.Background.Kind {
	case BackgroundExistingImage:
		if p.assets != nil {
			if a, ok := p.assets.Asset(r.Background.AssetID); ok {
				return p.resizeAsset(a), true
			}
		}
		return ImageAsset{Single: p.placeholder()}, true
	case BackgroundNewImage:
		decoded, err := decodeBlob(r.Background.Blob)
		if err != nil {
			return ImageAsset{Single: p.placeholder()}, true
		}
		fitted := fitToFill(decoded, p.view.ImageW, p.view.ImageH)
		return ImageAsset{Single: ebitenFromImage(fitted)}, true
	default:
		return ImageAsset{}, false
	}
}

// resizeAsset fits every frame of a looked-up ExistingImage asset to the
// key's image size, so it gets the same fill treatment a decoded NewImage
// blob gets regardless of the resolution the AssetStore holds it at.
func (p *RenderPipeline) resizeAsset(a ImageAsset) ImageAsset {
	w, h := p.view.ImageW, p.view.ImageH
	if a.Single != nil {
		return ImageAsset{Single: ebitenResizeToFill(a.Single, w, h)}
	}
	frames := make([]AnimationFrame, len(a.Frames))
	for i, f := range a.Frames {
		frames[i] = AnimationFrame{Image: ebitenResizeToFill(f.Image, w, h), Delay: f.Delay}
	}
	return ImageAsset{Frames: frames}
}

func (p *RenderPipeline) placeholder() *ebiten.Image {
	img := missingAssetPlaceholder(p.view.ImageW, p.view.ImageH)
	drawPlaceholderLabel(img)
	return img
}

// compose draws background then foreground (modules, then text) onto a
// fresh key-sized image, mirroring the original's draw_background /
// draw_foreground split (spec.md §4.3).
func (p *RenderPipeline) compose(r RendererComponent, b *Button, bg *ebiten.Image) *ebiten.Image {
	img := ebiten.NewImage(p.view.ImageW, p.view.ImageH)
	p.drawBackground(img, r, bg)
	p.drawForeground(img, r, b)
	return img
}

func (p *RenderPipeline) drawBackground(dst *ebiten.Image, r RendererComponent, bg *ebiten.Image) {
	switch r.Background.Kind {
	case BackgroundSolid:
		dst.Fill(r.Background.Start.RGBA())
	case BackgroundHorizontalGradient:
		drawGradientQuad(dst, r.Background.Start, r.Background.End, true)
	case BackgroundVerticalGradient:
		drawGradientQuad(dst, r.Background.Start, r.Background.End, false)
	case BackgroundExistingImage, BackgroundNewImage:
		if bg != nil {
			op := &ebiten.DrawImageOptions{}
			drawScaledToFill(dst, bg, op)
		}
	}
}

func (p *RenderPipeline) drawForeground(dst *ebiten.Image, r RendererComponent, b *Button) {
	for _, m := range p.modules {
		m.Render(p.view, b, dst)
	}
	for _, t := range r.Text {
		p.drawText(dst, t)
	}
}

func (p *RenderPipeline) drawText(dst *ebiten.Image, t ButtonText) {
	font, ok := p.fonts.lookup(t.FontID)
	if !ok {
		// Missing fonts silently drop the text (spec.md §7, ErrMissingFont);
		// the background composed above this call stays visible.
		return
	}
	x := t.OffsetX + anchorX(t.Alignment, p.view.ImageW, t.Padding)
	y := t.OffsetY + float32(p.view.ImageH)/2
	drawAlignedString(dst, font.Face, t.Text, t.Alignment, int(x), int(y), t.Color, t.Shadow)
}

func anchorX(align TextAlignment, width int, padding uint32) float32 {
	switch align {
	case AlignLeft:
		return float32(padding)
	case AlignRight:
		return float32(width) - float32(padding)
	default:
		return float32(width) / 2
	}
}

// lookup is a nil-safe convenience so drawText doesn't need a nil check on
// an unset FontStore.
func (s *FontStore) lookup(id string) (Font, bool) {
	if s == nil {
		return Font{}, false
	}
	return s.Font(id)
}

// drawGradientQuad fills dst with a two-color gradient using a single
// vertex-colored quad, the same technique the teacher's mesh helpers use for
// untextured fills (mesh_helpers.go's polygon fan, specialized here to a
// 4-vertex rectangle so the GPU interpolates the color linearly across the
// key instead of the CPU stepping pixel-by-pixel).
func drawGradientQuad(dst *ebiten.Image, start, end Color, horizontal bool) {
	w, h := float32(dst.Bounds().Dx()), float32(dst.Bounds().Dy())
	sr, sg, sb, sa := colorScale(start)
	er, eg, eb, ea := colorScale(end)

	var verts [4]ebiten.Vertex
	if horizontal {
		verts[0] = ebiten.Vertex{DstX: 0, DstY: 0, SrcX: 0, SrcY: 0, ColorR: sr, ColorG: sg, ColorB: sb, ColorA: sa}
		verts[1] = ebiten.Vertex{DstX: w, DstY: 0, SrcX: 0, SrcY: 0, ColorR: er, ColorG: eg, ColorB: eb, ColorA: ea}
		verts[2] = ebiten.Vertex{DstX: 0, DstY: h, SrcX: 0, SrcY: 0, ColorR: sr, ColorG: sg, ColorB: sb, ColorA: sa}
		verts[3] = ebiten.Vertex{DstX: w, DstY: h, SrcX: 0, SrcY: 0, ColorR: er, ColorG: eg, ColorB: eb, ColorA: ea}
	} else {
		verts[0] = ebiten.Vertex{DstX: 0, DstY: 0, SrcX: 0, SrcY: 0, ColorR: sr, ColorG: sg, ColorB: sb, ColorA: sa}
		verts[1] = ebiten.Vertex{DstX: w, DstY: 0, SrcX: 0, SrcY: 0, ColorR: sr, ColorG: sg, ColorB: sb, ColorA: sa}
		verts[2] = ebiten.Vertex{DstX: 0, DstY: h, SrcX: 0, SrcY: 0, ColorR: er, ColorG: eg, ColorB: eb, ColorA: ea}
		verts[3] = ebiten.Vertex{DstX: w, DstY: h, SrcX: 0, SrcY: 0, ColorR: er, ColorG: eg, ColorB: eb, ColorA: ea}
	}
	indices := []uint16{0, 1, 2, 1, 3, 2}

	op := &ebiten.DrawTrianglesOptions{}
	dst.DrawTriangles(verts[:], indices, whitePixel, op)
}

func colorScale(c Color) (r, g, b, a float32) {
	rgba := c.RGBA()
	return float32(rgba.R) / 0xff, float32(rgba.G) / 0xff, float32(rgba.B) / 0xff, float32(rgba.A) / 0xff
}

// drawScaledToFill draws src into dst so it fills dst's full bounds without
// distorting src's aspect ratio: it scales uniformly by the larger of the
// two axis ratios and centers the result, so the overflow on the other axis
// falls outside dst's bounds and is clipped there — the same outcome as
// cropping src to dst's aspect ratio before scaling, without needing a
// separate crop step at draw time (spec.md §4.3's fit-to-fill; grounded on
// streamduck-core's resize_to_fill, thread.rs). backgroundAsset resizes
// assets ahead of time via the same crop-then-scale logic, so this is
// usually a no-op identity scale; it stays aspect-correct even when a
// caller hands it a mismatched size directly.
func drawScaledToFill(dst, src *ebiten.Image, op *ebiten.DrawImageOptions) {
	db := dst.Bounds()
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return
	}
	sx := float64(db.Dx()) / float64(sb.Dx())
	sy := float64(db.Dy()) / float64(sb.Dy())
	scale := sx
	if sy > scale {
		scale = sy
	}
	scaledW := float64(sb.Dx()) * scale
	scaledH := float64(sb.Dy()) * scale
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((float64(db.Dx())-scaledW)/2, (float64(db.Dy())-scaledH)/2)
	dst.DrawImage(src, op)
}

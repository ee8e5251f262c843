package deckrt

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// CommandKind discriminates the Command variants accepted on a device's
// control channel (spec.md §4.6).
type CommandKind uint8

const (
	CmdRedraw CommandKind = iota
	CmdSetBrightness
	CmdSetBrightnessFaded
	CmdSetButtonImage
	CmdSetButtonImageRaw
	CmdClearButtonImage
)

// Command is one control-channel message. Only the fields relevant to Kind
// are populated.
type Command struct {
	Kind        CommandKind
	Brightness  uint8
	FadeSeconds float32
	Key         int
	Image       *ebiten.Image
	Raw         []byte
}

// RedrawCommand requests a full-screen redraw.
func RedrawCommand() Command { return Command{Kind: CmdRedraw} }

// SetBrightnessCommand requests a panel brightness change, 0-100.
func SetBrightnessCommand(pct uint8) Command {
	return Command{Kind: CmdSetBrightness, Brightness: pct}
}

// SetBrightnessFadedCommand requests a smooth brightness transition to pct
// over duration (spec.md §4.7 supplement), stepped once per device tick
// instead of jumping straight to the target.
func SetBrightnessFadedCommand(pct uint8, duration float32) Command {
	return Command{Kind: CmdSetBrightnessFaded, Brightness: pct, FadeSeconds: duration}
}

// SetButtonImageCommand pushes a decoded image to key; the runtime encodes
// it to the device's wire format before writing.
func SetButtonImageCommand(key int, img *ebiten.Image) Command {
	return Command{Kind: CmdSetButtonImage, Key: key, Image: img}
}

// SetButtonImageRawCommand pushes already-encoded bytes to key, bypassing
// composition and encoding entirely.
func SetButtonImageRawCommand(key int, encoded []byte) Command {
	return Command{Kind: CmdSetButtonImageRaw, Key: key, Raw: encoded}
}

// ClearButtonImageCommand clears key to a black fill.
func ClearButtonImageCommand(key int) Command {
	return Command{Kind: CmdClearButtonImage, Key: key}
}

// KeyEdge is a raw (key_index, is_down) transition handed from the Device
// Thread to the Key Handler Thread over a dedicated SPSC channel (spec.md
// §5) — deliberately narrower than InputEvent, since the Key Handler only
// ever needs to dispatch button behaviors, not encoder/touch detail.
type KeyEdge struct {
	Key  int
	Down bool
}

// DeviceRuntime drives one connected device: it owns the HID handle via
// Driver, runs the Device Thread loop (spec.md §4.6), and feeds a separate
// Key Handler Thread with edge events. One DeviceRuntime per physical
// device (spec.md §5).
type DeviceRuntime struct {
	driver     Driver
	layout     InputLayout
	arena      *Arena
	screens    *ScreenStack
	pipeline   *RenderPipeline
	translator *InputTranslator
	dispatcher *Dispatcher

	poolRate time.Duration // target tick period, e.g. time.Second/100

	commands chan Command
	edges    chan KeyEdge

	closed        atomic.Bool
	pendingRedraw atomic.Bool

	closeOnce sync.Once

	curBrightness uint8
	fader         *BrightnessFader
}

// NewDeviceRuntime creates a runtime for driver. dispatcher may be shared
// across multiple devices (spec.md §5); assets/fonts resolve the renderer's
// asset/font references.
func NewDeviceRuntime(driver Driver, dispatcher *Dispatcher, assets AssetStore, fonts *FontStore, poolRate time.Duration) *DeviceRuntime {
	arena := NewArena()
	rt := &DeviceRuntime{
		driver:     driver,
		layout:     driver.Layout(),
		arena:      arena,
		pipeline:   NewRenderPipeline(driver, assets, fonts),
		translator: NewInputTranslator(driver.Layout()),
		dispatcher: dispatcher,
		poolRate:   poolRate,
		commands:   make(chan Command, 64),
		edges:      make(chan KeyEdge, 64),
	}
	rt.screens = NewScreenStack(arena, rt.scheduleRedraw)
	return rt
}

// scheduleRedraw is the ScreenStack notify hook: it marks a redraw pending
// rather than sending a channel message per mutation, so bulk ScreenStack
// edits within one tick coalesce into a single Redraw command (spec.md
// §4.1 "Bulk mutations coalesce to a single redraw").
func (rt *DeviceRuntime) scheduleRedraw() {
	rt.pendingRedraw.Store(true)
}

// Screens returns the device's ScreenStack, the entry point external
// callers use to mutate UI state.
func (rt *DeviceRuntime) Screens() *ScreenStack { return rt.screens }

// Arena returns the device's Button arena.
func (rt *DeviceRuntime) Arena() *Arena { return rt.arena }

// Layout returns the device's InputLayout.
func (rt *DeviceRuntime) Layout() InputLayout { return rt.layout }

// UseModules registers rendering modules with the pipeline, in order.
func (rt *DeviceRuntime) UseModules(modules ...RenderModule) {
	rt.pipeline.Use(modules...)
}

// Send enqueues a control command. Safe to call concurrently; commands are
// processed in arrival order (spec.md §5).
func (rt *DeviceRuntime) Send(cmd Command) {
	if rt.closed.Load() {
		return
	}
	rt.commands <- cmd
}

// Edges returns the channel the Key Handler Thread should range over.
func (rt *DeviceRuntime) Edges() <-chan KeyEdge { return rt.edges }

// Close requests the runtime to stop. It is safe to call more than once and
// from any goroutine. The loop observes the flag at the top of its next
// iteration, at most one tick later. Close also enqueues a Redraw command
// when the control channel has room; the loop exits without processing it.
func (rt *DeviceRuntime) Close() {
	rt.closeOnce.Do(func() {
		rt.closed.Store(true)
		select {
		case rt.commands <- RedrawCommand():
		default:
		}
	})
}

// Run executes the Device Thread loop until Close is called or the driver
// reports a fatal/lost-connection error (spec.md §4.6). It owns the HID
// handle exclusively for its lifetime; callers must not use driver directly
// while Run is executing.
func (rt *DeviceRuntime) Run() error {
	defer close(rt.edges)

	tick := rt.poolRate
	if tick <= 0 {
		tick = time.Second / 100
	}

	for {
		start := time.Now()

		if rt.closed.Load() {
			return nil
		}

		if err := rt.readInput(); err != nil {
			if errors.Is(err, ErrLostConnection) {
				rt.closed.Store(true)
				return err
			}
			if errors.Is(err, ErrDeviceFatal) {
				rt.closed.Store(true)
				return err
			}
			// ErrKindNoData is not surfaced as an error by readInput.
		}

		rt.drainCommands()

		if rt.pendingRedraw.CompareAndSwap(true, false) {
			// Copy the top screen's ButtonIDs under the stack lock and
			// composite from the copy, so concurrent ScreenStack edits never
			// touch the map the redraw is reading.
			rt.screens.mu.Lock()
			top := rt.screens.stack[len(rt.screens.stack)-1]
			current := NewScreen()
			for k, id := range top.buttons {
				current.buttons[k] = id
			}
			rt.screens.mu.Unlock()
			if err := rt.pipeline.Redraw(current, rt.arena); err != nil {
				debugLog("redraw: %v", err)
			}
		}
		rt.pipeline.AdvanceAnimations()
		rt.stepFade(tick)

		elapsed := time.Since(start)
		if toWait := tick - elapsed; toWait > 0 {
			time.Sleep(toWait)
		}
	}
}

// stepFade advances any in-progress brightness fade by one tick (spec.md
// §4.7 supplement), issuing the incremental SetBrightness write and clearing
// the fader once it completes.
func (rt *DeviceRuntime) stepFade(tick time.Duration) {
	if rt.fader == nil {
		return
	}
	pct, done := rt.fader.Step(float32(tick.Seconds()))
	if err := rt.driver.SetBrightness(pct); err != nil {
		debugLog("set brightness (fade): %v", err)
	}
	rt.curBrightness = pct
	if done {
		rt.fader = nil
	}
}

// readInput performs one non-blocking poll, translates the report into
// InputEvents (dispatched to listeners) and KeyEdges (sent to the Key
// Handler Thread), in the order observed on the HID report (spec.md §4.2,
// §5).
func (rt *DeviceRuntime) readInput() error {
	report, err := rt.driver.ReadReport(0)
	if err != nil {
		var derr *DriverError
		if errors.As(err, &derr) {
			switch derr.Kind {
			case ErrKindNoData:
				return nil
			case ErrKindHid:
				return ErrLostConnection
			default:
				return ErrDeviceFatal
			}
		}
		return ErrDeviceFatal
	}

	events := rt.translator.Translate(report)
	for _, ev := range events {
		if ev.Kind == EventButtonPressed || ev.Kind == EventButtonReleased {
			select {
			case rt.edges <- KeyEdge{Key: ev.InputID, Down: ev.Kind == EventButtonPressed}:
			default:
				debugLog("edge channel full, dropping key %d event", ev.InputID)
			}
		}
		rt.dispatcher.Dispatch(ev)
	}
	return nil
}

// drainCommands processes every currently-queued control command, in
// arrival order (spec.md §4.6 step 3).
func (rt *DeviceRuntime) drainCommands() {
	for {
		select {
		case cmd := <-rt.commands:
			rt.applyCommand(cmd)
		default:
			return
		}
	}
}

func (rt *DeviceRuntime) applyCommand(cmd Command) {
	switch cmd.Kind {
	case CmdRedraw:
		rt.pendingRedraw.Store(true)
	case CmdSetBrightness:
		rt.fader = nil
		if err := rt.driver.SetBrightness(cmd.Brightness); err != nil {
			debugLog("set brightness: %v", err)
		}
		rt.curBrightness = cmd.Brightness
	case CmdSetBrightnessFaded:
		rt.fader = NewBrightnessFader(rt.curBrightness, cmd.Brightness, cmd.FadeSeconds)
	case CmdSetButtonImage:
		out, err := encodeDeviceImage(cmd.Image, rt.driver.ImageMode(), true)
		if err != nil {
			debugLog("encode set-button-image key %d: %v", cmd.Key, err)
			return
		}
		if err := rt.driver.WriteButtonImage(cmd.Key, out); err != nil {
			debugLog("write key %d: %v", cmd.Key, err)
		}
	case CmdSetButtonImageRaw:
		if err := rt.driver.WriteButtonImage(cmd.Key, cmd.Raw); err != nil {
			debugLog("write key %d: %v", cmd.Key, err)
		}
	case CmdClearButtonImage:
		if err := rt.driver.SetButtonRGB(cmd.Key, blackClear); err != nil {
			debugLog("clear key %d: %v", cmd.Key, err)
		}
	}
}

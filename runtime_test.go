package deckrt

import (
	"testing"
	"time"
)

func newTestRuntime(driver *fakeDriver) *DeviceRuntime {
	return NewDeviceRuntime(driver, NewDispatcher(), NewMapAssetStore(), NewFontStore(), time.Millisecond)
}

func TestDeviceRuntimeSetButtonTriggersRedraw(t *testing.T) {
	driver := newFakeDriver(6, 72, 72)
	rt := newTestRuntime(driver)

	rt.Screens().SetButton(2, NewButtonWithRenderer(RendererComponent{
		Background: SolidBackground(Color{B: 255, A: 255}),
		ToCache:    true,
	}))

	done := make(chan error, 1)
	go func() { done <- rt.Run() }()

	time.Sleep(20 * time.Millisecond)
	rt.Close()

	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	hasImage, _ := driver.writeCount(2)
	if !hasImage {
		t.Errorf("key 2 has no written image after SetButton + a few ticks")
	}
}

func TestDeviceRuntimeBrightnessCommandDoesNotForceRedraw(t *testing.T) {
	driver := newFakeDriver(6, 72, 72)
	rt := newTestRuntime(driver)

	done := make(chan error, 1)
	go func() { done <- rt.Run() }()

	rt.Send(SetBrightnessCommand(42))
	time.Sleep(20 * time.Millisecond)
	rt.Close()
	<-done

	if driver.brightness != 42 {
		t.Errorf("driver.brightness = %d, want 42", driver.brightness)
	}
	if _, hasImage := driver.images[0]; hasImage {
		t.Errorf("key 0 has a written image though no button was ever set")
	}
}

func TestDeviceRuntimeButtonPressEdgeAndDispatch(t *testing.T) {
	driver := newFakeDriver(6, 72, 72)
	rt := newTestRuntime(driver)

	var dispatched []InputEvent
	rt.dispatcher.Listen(func(ev InputEvent) { dispatched = append(dispatched, ev) })

	driver.queueReport(InputReport{Buttons: []byte{1, 0, 0, 0, 0, 0}})

	done := make(chan error, 1)
	go func() { done <- rt.Run() }()

	var edge KeyEdge
	select {
	case edge = <-rt.Edges():
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a KeyEdge")
	}
	rt.Close()
	<-done

	if !edge.Down || edge.Key != 0 {
		t.Errorf("edge = %+v, want {Key:0 Down:true}", edge)
	}
	if len(dispatched) == 0 || dispatched[0].Kind != EventButtonPressed {
		t.Errorf("dispatched = %v, want a leading ButtonPressed event", dispatched)
	}
}

func TestDeviceRuntimeCloseIsIdempotent(t *testing.T) {
	driver := newFakeDriver(2, 72, 72)
	rt := newTestRuntime(driver)

	done := make(chan error, 1)
	go func() { done <- rt.Run() }()

	rt.Close()
	rt.Close() // must not panic or double-close channels
	if err := <-done; err != nil {
		t.Fatalf("Run() error = %v", err)
	}
}

func TestDeviceRuntimeBrightnessFadeReachesTarget(t *testing.T) {
	driver := newFakeDriver(2, 72, 72)
	rt := newTestRuntime(driver)

	done := make(chan error, 1)
	go func() { done <- rt.Run() }()

	rt.Send(SetBrightnessFadedCommand(80, 0.02))
	time.Sleep(50 * time.Millisecond)
	rt.Close()
	<-done

	if driver.brightness != 80 {
		t.Errorf("driver.brightness = %d, want 80 after the fade completes", driver.brightness)
	}
}

func TestDeviceRuntimeCloseStopsLoop(t *testing.T) {
	driver := newFakeDriver(2, 72, 72)
	rt := newTestRuntime(driver)

	done := make(chan error, 1)
	go func() { done <- rt.Run() }()

	time.Sleep(5 * time.Millisecond)
	rt.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after Close()")
	}
}

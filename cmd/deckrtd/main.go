// deckrtd is a minimal daemon wiring a single Elgato Stream Deck to deckrt:
// it pushes a solid-color grid on startup and logs key presses. No external
// assets are required.
package main

import (
	"log"
	"time"

	"github.com/phanxgames/deckrt"
	"github.com/phanxgames/deckrt/driver/hiddriver"
)

func main() {
	drv, err := hiddriver.Open(hiddriver.StreamDeckMK2)
	if err != nil {
		log.Fatalf("open device: %v", err)
	}

	dispatcher := deckrt.NewDispatcher()
	fonts := deckrt.NewFontStore()
	assets := deckrt.NewMapAssetStore()

	rt := deckrt.NewDeviceRuntime(drv, dispatcher, assets, fonts, time.Second/100)

	palette := []deckrt.Color{
		{R: 220, G: 50, B: 47, A: 255},
		{R: 38, G: 139, B: 210, A: 255},
		{R: 133, G: 153, B: 0, A: 255},
		{R: 181, G: 137, B: 0, A: 255},
		{R: 108, G: 113, B: 196, A: 255},
	}
	for key := 0; key < rt.Layout().KeyCount(); key++ {
		c := palette[key%len(palette)]
		rt.Screens().SetButton(uint8(key), deckrt.NewButtonWithRenderer(deckrt.RendererComponent{
			Background: deckrt.SolidBackground(c),
			ToCache:    true,
		}))
	}

	dispatcher.Listen(func(ev deckrt.InputEvent) {
		switch ev.Kind {
		case deckrt.EventButtonPressed:
			log.Printf("key %d pressed", ev.InputID)
		case deckrt.EventButtonReleased:
			log.Printf("key %d released", ev.InputID)
		}
	})

	go func() {
		for edge := range rt.Edges() {
			log.Printf("edge key=%d down=%v", edge.Key, edge.Down)
		}
	}()

	if err := rt.Run(); err != nil {
		log.Printf("runtime stopped: %v", err)
	}
}

package deckrt

// InputTranslator turns raw, edge-triggered Driver reports into the typed
// InputEvent stream the Event Dispatcher fans out (spec.md §4.2). It keeps
// only the last observed button state; every other input kind (encoders,
// touch) the Driver already reports edge-triggered, so no extra state is
// needed there — grounded on muesli-streamdeck's sendButtonKeyEventsToChannel
// comparing against a retained keyState buffer, generalized from one
// hard-coded device shape to any InputLayout.
type InputTranslator struct {
	layout      InputLayout
	lastButtons []byte
}

// NewInputTranslator creates a translator for layout.
func NewInputTranslator(layout InputLayout) *InputTranslator {
	return &InputTranslator{
		layout:      layout,
		lastButtons: make([]byte, layout.KeyCount()),
	}
}

// Translate converts one InputReport into zero or more InputEvents, in a
// stable order: button edges first (in index order), then encoder events,
// then touch events — the same ordering the device wire protocol reports
// them in, preserved rather than reshuffled.
func (t *InputTranslator) Translate(report InputReport) []InputEvent {
	var events []InputEvent

	for i := 0; i < len(report.Buttons) && i < len(t.lastButtons); i++ {
		cur := report.Buttons[i]
		if cur == t.lastButtons[i] {
			continue
		}
		t.lastButtons[i] = cur
		kind := EventButtonReleased
		if cur != 0 {
			kind = EventButtonPressed
		}
		events = append(events, InputEvent{Kind: kind, InputID: i})
	}

	encBase := t.layout.EncoderBase()
	for _, e := range report.Encoders {
		if e.IsDial {
			events = append(events, InputEvent{
				Kind:    EventEndlessKnob,
				InputID: encBase + e.SlotIndex,
				Delta:   e.Delta,
			})
			continue
		}
		kind := EventButtonReleased
		if e.Pressed {
			kind = EventButtonPressed
		}
		events = append(events, InputEvent{Kind: kind, InputID: encBase + e.SlotIndex})
	}

	touchID := t.layout.TouchPanelInputID()
	if touchID >= 0 {
		for _, te := range report.Touches {
			events = append(events, t.translateTouch(touchID, te)...)
		}
	}

	return events
}

// shortTouchTimeHeld/longTouchTimeHeld are the fixed dwell times a short tap
// and a long press report on their paired release event (spec.md §4.2, §8;
// streamdeck.rs's on_touchscreen_event reports 0.2s for a short press and
// 1.1s for a long one rather than measuring an actual hold duration).
const (
	shortTouchTimeHeld = 0.2
	longTouchTimeHeld  = 1.1
)

// translateTouch expands one TouchEvent into the InputEvent(s) it reports. A
// press or long-press is a single physical touch-and-release on the panel,
// but the wire protocol (and every listener downstream) expects a Press
// event followed by a Release carrying how long the touch was held, so both
// TouchPress and TouchLongPress translate to a two-event pair rather than
// the one-shot event a naive reading of their names would suggest.
func (t *InputTranslator) translateTouch(touchID int, te TouchEvent) []InputEvent {
	switch te.Kind {
	case TouchPress:
		return []InputEvent{
			{Kind: EventXYPanelPress, InputID: touchID, Position: te.Position},
			{Kind: EventXYPanelRelease, InputID: touchID, Position: te.Position, TimeHeld: shortTouchTimeHeld},
		}
	case TouchLongPress:
		return []InputEvent{
			{Kind: EventXYPanelPress, InputID: touchID, Position: te.Position},
			{Kind: EventXYPanelRelease, InputID: touchID, Position: te.Position, TimeHeld: longTouchTimeHeld},
		}
	case TouchSwipe:
		return []InputEvent{{Kind: EventXYPanelSwipe, InputID: touchID, Start: te.StartEnd[0], End: te.StartEnd[1]}}
	default:
		return []InputEvent{{Kind: EventXYPanelPress, InputID: touchID, Position: te.Position}}
	}
}

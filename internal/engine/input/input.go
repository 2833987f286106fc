// Package input translates SDL2 events into application events.
package input

import (
	"unicode"

	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Mouse buttons.
const (
	ButtonLeft   = sdl.BUTTON_LEFT
	ButtonMiddle = sdl.BUTTON_MIDDLE
	ButtonRight  = sdl.BUTTON_RIGHT
)

// KeyScreenshot is the keycode that requests a screenshot.
const KeyScreenshot = sdl.K_F12

// Event is a processed input event.
type Event struct {
	Type    EventType
	Keycode sdl.Keycode
	Char    rune // Printable ASCII key character, 0 otherwise
	Repeat  bool // Key event generated by auto-repeat
	Width   int
	Height  int
	MouseX  int
	MouseY  int
	DeltaX  int
	DeltaY  int
	Wheel   float32 // Positive scrolls away from the user
	Button  uint8
}

// IsEscape reports whether the event is an Escape key press.
func (e Event) IsEscape() bool {
	return e.Type == EventKeyDown && e.Keycode == sdl.K_ESCAPE
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls pending SDL events.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		ev, ok := translate(event)
		if !ok {
			continue
		}
		i.events = append(i.events, ev)
		if ev.Type == EventQuit {
			return true
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// translate converts one SDL event. Shift and Caps Lock are folded into Char.
func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		}

	case *sdl.KeyboardEvent:
		ev := Event{
			Keycode: e.Keysym.Sym,
			Char:    keyChar(e.Keysym.Sym, uint32(e.Keysym.Mod)),
			Repeat:  e.Repeat != 0,
		}
		switch e.Type {
		case sdl.KEYDOWN:
			ev.Type = EventKeyDown
			return ev, true
		case sdl.KEYUP:
			ev.Type = EventKeyUp
			return ev, true
		}

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		ev := Event{
			MouseX: int(e.X),
			MouseY: int(e.Y),
			Button: e.Button,
		}
		switch e.Type {
		case sdl.MOUSEBUTTONDOWN:
			ev.Type = EventMouseDown
			return ev, true
		case sdl.MOUSEBUTTONUP:
			ev.Type = EventMouseUp
			return ev, true
		}

	case *sdl.MouseWheelEvent:
		dy := float32(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dy = -dy
		}
		return Event{Type: EventMouseWheel, Wheel: dy}, true
	}

	return Event{}, false
}

// keyChar maps SDL keycodes in the printable ASCII range to their rune.
// SDL keycodes for these keys are the unshifted character itself, so
// letters are upper-cased when exactly one of Shift and Caps Lock is active.
// Shifted symbols depend on the keyboard layout and are left unshifted.
func keyChar(sym sdl.Keycode, mod uint32) rune {
	if sym < 0x20 || sym >= 0x7f {
		return 0
	}
	r := rune(sym)
	shift := mod&uint32(sdl.KMOD_SHIFT) != 0
	caps := mod&uint32(sdl.KMOD_CAPS) != 0
	if shift != caps && r >= 'a' && r <= 'z' {
		r = unicode.ToUpper(r)
	}
	return r
}

// Package sdlinput connects SDL2 keyboard and window events to the input package.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/my3d/internal/input"
)

// DefaultBindings maps SDL scancodes to logical keys.
var DefaultBindings = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_ESCAPE: input.KeyExit,
	sdl.SCANCODE_LALT:   input.KeyCursor,
	sdl.SCANCODE_W:      input.KeyCameraForward,
	sdl.SCANCODE_S:      input.KeyCameraBackward,
	sdl.SCANCODE_A:      input.KeyCameraLeft,
	sdl.SCANCODE_D:      input.KeyCameraRight,
	sdl.SCANCODE_SPACE:  input.KeyCameraUp,
	sdl.SCANCODE_LCTRL:  input.KeyCameraDown,
	sdl.SCANCODE_UP:     input.KeyBodyForward,
	sdl.SCANCODE_DOWN:   input.KeyBodyBackward,
	sdl.SCANCODE_LEFT:   input.KeyBodyLeft,
	sdl.SCANCODE_RIGHT:  input.KeyBodyRight,
	sdl.SCANCODE_KP_0:   input.KeyBodyUp,
	sdl.SCANCODE_RCTRL:  input.KeyBodyDown,
	sdl.SCANCODE_F12:    input.KeyScreenshot,
	sdl.SCANCODE_F1:     input.KeyOverlay,
}

// Source reads SDL's keyboard state array. SDL updates the array while the
// main thread pumps events; Poll only reads it, so it may run on the
// poller goroutine.
type Source struct {
	bindings map[sdl.Scancode]input.Key
}

// NewSource creates a source with the given bindings, or DefaultBindings if nil.
func NewSource(bindings map[sdl.Scancode]input.Key) *Source {
	if bindings == nil {
		bindings = DefaultBindings
	}
	return &Source{bindings: bindings}
}

// Poll copies the bound keys' state into state.
func (s *Source) Poll(state *input.KeyState) {
	keys := sdl.GetKeyboardState()
	for code, key := range s.bindings {
		if int(code) < len(keys) {
			state.Set(key, keys[code] != 0)
		}
	}
}

// EventType classifies a window event.
type EventType int

// Window event types.
const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventMouseMove
	EventMouseWheel
)

// Event is a processed window or mouse event.
type Event struct {
	Type   EventType
	Width  int
	Height int
	DX     int
	DY     int
	Wheel  int
}

// Pump drains SDL's event queue on the main thread. Keyboard events only
// refresh SDL's internal state array; window and mouse events are returned.
type Pump struct {
	events []Event
}

// NewPump creates a new event pump.
func NewPump() *Pump {
	return &Pump{events: make([]Event, 0, 16)}
}

// Update polls SDL events. Returns true if the window was closed.
func (p *Pump) Update() bool {
	p.events = p.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			p.events = append(p.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				p.events = append(p.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.MouseMotionEvent:
			p.events = append(p.events, Event{
				Type: EventMouseMove,
				DX:   int(e.XRel),
				DY:   int(e.YRel),
			})

		case *sdl.MouseWheelEvent:
			p.events = append(p.events, Event{Type: EventMouseWheel, Wheel: int(e.Y)})
		}
	}

	return quit
}

// Events returns the events from the last Update.
func (p *Pump) Events() []Event {
	return p.events
}

// SetRelativeMouse captures or releases the mouse cursor.
func SetRelativeMouse(captured bool) {
	sdl.SetRelativeMouseMode(captured)
}

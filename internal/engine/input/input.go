// Package input handles SDL2 input events and maps pointer positions onto
// the logical canvas.
package input

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/avg-player/pkg/geom"
)

// EventType identifies a processed input event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventMouseDown
	EventTouchDown
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	Button uint8

	// Touch position normalized to [0, 1], origin top-left.
	TouchX float32
	TouchY float32
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

// Update polls SDL events and converts them to player events.
// Returns true if the player should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			return true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				i.events = append(i.events, Event{
					Type: EventKeyDown,
					Key:  e.Keysym.Scancode,
				})
			}

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				i.events = append(i.events, Event{
					Type:   EventMouseDown,
					MouseX: int(e.X),
					MouseY: int(e.Y),
					Button: e.Button,
				})
			}

		case *sdl.TouchFingerEvent:
			if e.Type == sdl.FINGERDOWN {
				i.events = append(i.events, Event{
					Type:   EventTouchDown,
					TouchX: e.X,
					TouchY: e.Y,
				})
			}
		}
	}

	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// Activation returns the first left click or touch of the frame in canvas
// coordinates, or nil.
func Activation(events []Event, m *CanvasMapper) *geom.Point {
	for _, e := range events {
		switch {
		case e.Type == EventMouseDown && e.Button == sdl.BUTTON_LEFT:
			p := m.FromWindow(e.MouseX, e.MouseY)
			return &p
		case e.Type == EventTouchDown:
			p := m.FromNormalized(e.TouchX, e.TouchY)
			return &p
		}
	}
	return nil
}

// CanvasMapper converts window positions (origin top-left, y down) to the
// logical canvas (origin bottom-left, y up). The canvas is stretched over
// the whole window.
type CanvasMapper struct {
	canvas        geom.Rect
	width, height int
}

// NewCanvasMapper creates a mapper for a window of the given size.
func NewCanvasMapper(canvas geom.Rect, width, height int) *CanvasMapper {
	m := &CanvasMapper{canvas: canvas}
	m.Resize(width, height)
	return m
}

// Resize updates the window size.
func (m *CanvasMapper) Resize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 1)
}

// FromWindow maps a window position in screen coordinates.
func (m *CanvasMapper) FromWindow(x, y int) geom.Point {
	c := m.canvas
	return geom.Point{
		X: c.X + float32(x)*c.W/float32(m.width),
		Y: c.Y + c.H - float32(y)*c.H/float32(m.height),
	}
}

// FromNormalized maps a position given as a fraction of the window.
func (m *CanvasMapper) FromNormalized(nx, ny float32) geom.Point {
	c := m.canvas
	return geom.Point{
		X: c.X + nx*c.W,
		Y: c.Y + c.H - ny*c.H,
	}
}

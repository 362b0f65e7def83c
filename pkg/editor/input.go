package editor

import "github.com/matzehuels/novelgraph/pkg/geom"

// Button is a pointer button.
type Button uint8

const (
	ButtonLeft Button = 1 << iota
	ButtonMiddle
	ButtonRight
)

// Buttons is the set of pointer buttons held down.
type Buttons uint8

// Has reports whether b is held.
func (s Buttons) Has(b Button) bool { return s&Buttons(b) != 0 }

// Key is a keyboard key the editor reacts to.
type Key uint8

const (
	KeyLeft Key = 1 << iota
	KeyRight
	KeyUp
	KeyDown
)

// Keys is the set of keys held down.
type Keys uint8

// Has reports whether k is held.
func (s Keys) Has(k Key) bool { return s&Keys(k) != 0 }

// EventKind tells what happened.
type EventKind int

const (
	PointerDown EventKind = iota + 1
	PointerUp
	PointerMotion
	Wheel
	KeyPress
)

// Event is one discrete input event.
type Event struct {
	Kind   EventKind
	Button Button
	// Rel is the pointer movement of a PointerMotion event.
	Rel geom.Point
	// DY is the wheel movement; positive zooms in.
	DY  float64
	Key Key
}

// changesState reports whether the event dismisses an open menu.
func (e Event) changesState() bool {
	return e.Kind != PointerMotion && e.Kind != PointerUp
}

// Snapshot is the input state polled once per frame.
type Snapshot struct {
	Pointer geom.Point
	Buttons Buttons
	Shift   bool
	Keys    Keys
	// Focused is false while the pointer is outside the window.
	Focused bool
	Events  []Event
}

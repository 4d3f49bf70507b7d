// Package model contains domain models passed between layers.
package model

// Kind discriminates the six input event variants.
type Kind string

// Event kinds as stored in the persisted "type" field.
const (
	KindMouseMove   Kind = "mouse_move"
	KindMouseDown   Kind = "mouse_down"
	KindMouseUp     Kind = "mouse_up"
	KindMouseScroll Kind = "mouse_scroll"
	KindKeyDown     Kind = "key_down"
	KindKeyUp       Kind = "key_up"
)

// Button identifies a mouse button.
type Button string

// Supported mouse buttons.
const (
	ButtonLeft   Button = "left"
	ButtonRight  Button = "right"
	ButtonMiddle Button = "middle"
)

// Payload is the sealed set of event variants. Each variant carries
// exactly the fields its kind requires; consumers switch exhaustively
// so a new kind is a compile-time-visible change everywhere.
type Payload interface {
	Kind() Kind
}

// MouseMove moves the pointer to absolute screen coordinates.
type MouseMove struct {
	X int
	Y int
}

// MouseDown presses a mouse button at the current pointer position.
type MouseDown struct {
	Button Button
}

// MouseUp releases a mouse button at the current pointer position.
type MouseUp struct {
	Button Button
}

// MouseScroll emits a scroll delta.
type MouseScroll struct {
	DX int
	DY int
}

// KeyDown presses a key identified by a symbolic token.
type KeyDown struct {
	Key string
}

// KeyUp releases a key identified by a symbolic token.
type KeyUp struct {
	Key string
}

func (MouseMove) Kind() Kind   { return KindMouseMove }
func (MouseDown) Kind() Kind   { return KindMouseDown }
func (MouseUp) Kind() Kind     { return KindMouseUp }
func (MouseScroll) Kind() Kind { return KindMouseScroll }
func (KeyDown) Kind() Kind     { return KindKeyDown }
func (KeyUp) Kind() Kind       { return KindKeyUp }

// Event is one timestamped input occurrence. Timestamp is seconds
// elapsed since recording start and is non-decreasing across a
// recorded sequence.
type Event struct {
	Timestamp float64
	Payload   Payload
}

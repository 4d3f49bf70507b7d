package model

import (
	"encoding/json"
	"fmt"
)

// wireEvent is the flat JSON form of Event. Pointer fields distinguish
// absent from zero so decode can verify each kind carries exactly the
// payload it requires.
type wireEvent struct {
	Type      string   `json:"type"`
	Timestamp *float64 `json:"timestamp"`
	X         *int     `json:"x,omitempty"`
	Y         *int     `json:"y,omitempty"`
	Button    *string  `json:"button,omitempty"`
	DX        *int     `json:"dx,omitempty"`
	DY        *int     `json:"dy,omitempty"`
	Key       *string  `json:"key,omitempty"`
}

// MarshalJSON encodes the event as {type, timestamp, <payload fields>}.
func (e Event) MarshalJSON() ([]byte, error) {
	if e.Payload == nil {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformedEvent)
	}

	w := wireEvent{
		Type:      string(e.Payload.Kind()),
		Timestamp: &e.Timestamp,
	}

	switch p := e.Payload.(type) {
	case MouseMove:
		w.X, w.Y = &p.X, &p.Y
	case MouseDown:
		b := string(p.Button)
		w.Button = &b
	case MouseUp:
		b := string(p.Button)
		w.Button = &b
	case MouseScroll:
		w.DX, w.DY = &p.DX, &p.DY
	case KeyDown:
		w.Key = &p.Key
	case KeyUp:
		w.Key = &p.Key
	default:
		return nil, fmt.Errorf("%w: unknown payload %T", ErrMalformedEvent, e.Payload)
	}

	return json.Marshal(w)
}

// UnmarshalJSON decodes the flat JSON form, validating that the kind is
// recognized and that exactly the required payload fields are present.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if w.Timestamp == nil {
		return fmt.Errorf("%w: missing timestamp", ErrMalformedEvent)
	}
	if *w.Timestamp < 0 {
		return fmt.Errorf("%w: negative timestamp %v", ErrMalformedEvent, *w.Timestamp)
	}

	payload, err := w.payload()
	if err != nil {
		return err
	}

	e.Timestamp = *w.Timestamp
	e.Payload = payload
	return nil
}

// payload reconstructs the variant for the wire kind.
func (w *wireEvent) payload() (Payload, error) {
	switch Kind(w.Type) {
	case KindMouseMove:
		if w.X == nil || w.Y == nil {
			return nil, fmt.Errorf("%w: %s requires x and y", ErrMalformedEvent, w.Type)
		}
		if err := w.rejectExtra(w.Button != nil || w.DX != nil || w.DY != nil || w.Key != nil); err != nil {
			return nil, err
		}
		return MouseMove{X: *w.X, Y: *w.Y}, nil

	case KindMouseDown, KindMouseUp:
		if w.Button == nil {
			return nil, fmt.Errorf("%w: %s requires button", ErrMalformedEvent, w.Type)
		}
		if err := w.rejectExtra(w.X != nil || w.Y != nil || w.DX != nil || w.DY != nil || w.Key != nil); err != nil {
			return nil, err
		}
		button, err := parseButton(*w.Button)
		if err != nil {
			return nil, err
		}
		if Kind(w.Type) == KindMouseDown {
			return MouseDown{Button: button}, nil
		}
		return MouseUp{Button: button}, nil

	case KindMouseScroll:
		if w.DX == nil || w.DY == nil {
			return nil, fmt.Errorf("%w: %s requires dx and dy", ErrMalformedEvent, w.Type)
		}
		if err := w.rejectExtra(w.X != nil || w.Y != nil || w.Button != nil || w.Key != nil); err != nil {
			return nil, err
		}
		return MouseScroll{DX: *w.DX, DY: *w.DY}, nil

	case KindKeyDown, KindKeyUp:
		if w.Key == nil || *w.Key == "" {
			return nil, fmt.Errorf("%w: %s requires key", ErrMalformedEvent, w.Type)
		}
		if err := w.rejectExtra(w.X != nil || w.Y != nil || w.Button != nil || w.DX != nil || w.DY != nil); err != nil {
			return nil, err
		}
		if Kind(w.Type) == KindKeyDown {
			return KeyDown{Key: *w.Key}, nil
		}
		return KeyUp{Key: *w.Key}, nil

	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, w.Type)
	}
}

func (w *wireEvent) rejectExtra(extra bool) error {
	if extra {
		return fmt.Errorf("%w: %s carries fields of another kind", ErrMalformedEvent, w.Type)
	}
	return nil
}

func parseButton(s string) (Button, error) {
	switch Button(s) {
	case ButtonLeft, ButtonRight, ButtonMiddle:
		return Button(s), nil
	default:
		return "", fmt.Errorf("%w: unknown button %q", ErrMalformedEvent, s)
	}
}

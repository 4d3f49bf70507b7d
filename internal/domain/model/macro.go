package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// Macro is a named, persisted, ordered sequence of timestamped input
// events. Events are sorted non-decreasing by timestamp; insertion
// order is preserved for ties.
type Macro struct {
	Name      string
	CreatedAt time.Time
	Events    []Event
}

// Duration returns the timestamp of the last event, in seconds.
func (m Macro) Duration() float64 {
	if len(m.Events) == 0 {
		return 0
	}
	return m.Events[len(m.Events)-1].Timestamp
}

// Validate checks the macro invariants: non-empty name and
// non-decreasing, non-negative event timestamps.
func (m Macro) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: empty name", ErrMalformedMacro)
	}
	prev := 0.0
	for i, e := range m.Events {
		if e.Payload == nil {
			return fmt.Errorf("%w: event [%d] has no payload", ErrMalformedMacro, i)
		}
		if e.Timestamp < 0 {
			return fmt.Errorf("%w: event [%d] has negative timestamp", ErrMalformedMacro, i)
		}
		if e.Timestamp < prev {
			return fmt.Errorf("%w: event [%d] timestamp decreases", ErrMalformedMacro, i)
		}
		prev = e.Timestamp
	}
	return nil
}

// wireMacro is the persisted JSON form of Macro.
type wireMacro struct {
	Name      string            `json:"name"`
	CreatedAt string            `json:"created_at"`
	Events    []json.RawMessage `json:"events"`
}

// MarshalJSON encodes the macro as {name, created_at, events}.
// created_at uses RFC 3339 with nanoseconds so a round trip preserves
// the instant exactly.
func (m Macro) MarshalJSON() ([]byte, error) {
	events := make([]json.RawMessage, len(m.Events))
	for i, e := range m.Events {
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("event [%d]: %w", i, err)
		}
		events[i] = raw
	}
	return json.Marshal(wireMacro{
		Name:      m.Name,
		CreatedAt: m.CreatedAt.Format(time.RFC3339Nano),
		Events:    events,
	})
}

// UnmarshalJSON decodes and validates the persisted form. A single
// invalid event fails the whole macro; no partial result is produced.
func (m *Macro) UnmarshalJSON(data []byte) error {
	var w wireMacro
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedMacro, err)
	}
	if w.Name == "" {
		return fmt.Errorf("%w: missing name", ErrMalformedMacro)
	}
	if w.Events == nil {
		return fmt.Errorf("%w: missing events", ErrMalformedMacro)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: bad created_at: %v", ErrMalformedMacro, err)
	}

	events := make([]Event, len(w.Events))
	for i, raw := range w.Events {
		if err := json.Unmarshal(raw, &events[i]); err != nil {
			return fmt.Errorf("event [%d]: %w", i, err)
		}
	}

	decoded := Macro{Name: w.Name, CreatedAt: createdAt, Events: events}
	if err := decoded.Validate(); err != nil {
		return err
	}

	*m = decoded
	return nil
}

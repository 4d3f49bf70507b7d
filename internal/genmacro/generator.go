// Package genmacro produces synthetic but valid macros. They exercise
// the codec, the store and the playback engine without touching the OS
// input hook.
package genmacro

import (
	"fmt"
	"math"
	"strings"
	"time"

	model "github.com/iam74k4/eventplayback/internal/domain/model"
)

// Geometry of the synthetic pointer path.
const (
	pathOriginX   = 100
	pathOriginY   = 100
	pathAmplitude = 80
	pathStride    = 4
)

// ErrInvalidConfig is returned when a generation request makes no sense.
var ErrInvalidConfig = fmt.Errorf("invalid generator config")

// Config controls what the synthetic macro contains.
type Config struct {
	// Name of the produced macro.
	Name string

	// Moves is the number of mouse-move samples on the pointer path.
	Moves int

	// Scrolls is the number of wheel steps appended after the path.
	Scrolls int

	// Text is typed as key_down/key_up pairs, one pair per rune.
	Text string

	// Cadence is the gap between consecutive events.
	Cadence time.Duration
}

// Generate builds a macro whose timestamps increase strictly at the
// configured cadence: a smooth pointer sweep, a left click, wheel
// steps, then the text typed key by key.
func Generate(cfg Config) (model.Macro, error) {
	if cfg.Name == "" {
		cfg.Name = "Synthetic Macro"
	}
	if cfg.Cadence <= 0 {
		cfg.Cadence = 10 * time.Millisecond
	}
	if cfg.Moves < 0 || cfg.Scrolls < 0 {
		return model.Macro{}, fmt.Errorf("%w: negative event counts", ErrInvalidConfig)
	}
	if cfg.Moves == 0 && cfg.Scrolls == 0 && cfg.Text == "" {
		return model.Macro{}, fmt.Errorf("%w: nothing to generate", ErrInvalidConfig)
	}

	step := cfg.Cadence.Seconds()
	var (
		events []model.Event
		now    float64
	)
	push := func(p model.Payload) {
		events = append(events, model.Event{Timestamp: now, Payload: p})
		now += step
	}

	// Pointer sweep along a sine arc.
	for i := 0; i < cfg.Moves; i++ {
		angle := float64(i) / math.Max(float64(cfg.Moves), 1) * math.Pi
		push(model.MouseMove{
			X: pathOriginX + i*pathStride,
			Y: pathOriginY + int(math.Sin(angle)*pathAmplitude),
		})
	}

	if cfg.Moves > 0 {
		push(model.MouseDown{Button: model.ButtonLeft})
		push(model.MouseUp{Button: model.ButtonLeft})
	}

	for i := 0; i < cfg.Scrolls; i++ {
		dy := 1
		if i%2 == 1 {
			dy = -1
		}
		push(model.MouseScroll{DY: dy})
	}

	for _, r := range cfg.Text {
		key := strings.ToLower(string(r))
		if r == ' ' {
			key = "space"
		}
		push(model.KeyDown{Key: key})
		push(model.KeyUp{Key: key})
	}

	m := model.Macro{
		Name:      cfg.Name,
		CreatedAt: time.Now().UTC(),
		Events:    events,
	}
	if err := m.Validate(); err != nil {
		return model.Macro{}, err
	}
	return m, nil
}

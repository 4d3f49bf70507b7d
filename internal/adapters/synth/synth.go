// Package synth injects recorded events back into the OS input
// streams. It is the playback engine's Synthesizer implementation.
package synth

import (
	"context"
	"fmt"

	"github.com/go-vgo/robotgo"

	model "github.com/iam74k4/eventplayback/internal/domain/model"
	logger "github.com/iam74k4/eventplayback/pkg/logger"
)

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithLogger sets the logger used by the synthesizer.
func WithLogger(l logger.Logger) Option {
	return func(s *Synthesizer) {
		s.logger = l
	}
}

// Synthesizer drives the OS pointer and keyboard.
type Synthesizer struct {
	logger logger.Logger
}

// NewSynthesizer creates an OS-backed synthesizer.
func NewSynthesizer(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		logger: logger.Named("synth"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// MouseMove places the pointer at absolute screen coordinates.
func (s *Synthesizer) MouseMove(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	robotgo.Move(x, y)
	return nil
}

// MouseDown presses a mouse button without releasing it.
func (s *Synthesizer) MouseDown(ctx context.Context, button model.Button) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return robotgo.Toggle(osButton(button), "down")
}

// MouseUp releases a previously pressed mouse button.
func (s *Synthesizer) MouseUp(ctx context.Context, button model.Button) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return robotgo.Toggle(osButton(button), "up")
}

// Scroll turns the wheel by the given horizontal and vertical steps.
func (s *Synthesizer) Scroll(ctx context.Context, dx, dy int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	robotgo.Scroll(dx, dy)
	return nil
}

// KeyDown presses a key without releasing it.
func (s *Synthesizer) KeyDown(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := robotgo.KeyToggle(key, "down"); err != nil {
		return fmt.Errorf("key %q down: %w", key, err)
	}
	return nil
}

// KeyUp releases a previously pressed key.
func (s *Synthesizer) KeyUp(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := robotgo.KeyToggle(key, "up"); err != nil {
		return fmt.Errorf("key %q up: %w", key, err)
	}
	return nil
}

// osButton maps domain button names onto the names the OS layer
// expects, which calls the middle button "center".
func osButton(b model.Button) string {
	if b == model.ButtonMiddle {
		return "center"
	}
	return string(b)
}

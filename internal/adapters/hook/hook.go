// Package hook adapts the global OS input hook into the capture
// engine's Source contract. It owns the single process-wide hook and
// translates raw hook events into domain payloads.
package hook

import (
	"context"
	"errors"
	"sync"
	"unicode"

	gohook "github.com/robotn/gohook"

	model "github.com/iam74k4/eventplayback/internal/domain/model"
	logger "github.com/iam74k4/eventplayback/pkg/logger"
)

// ErrAlreadyStarted is returned when Start is called on a source whose
// hook is still installed.
var ErrAlreadyStarted = errors.New("input hook already started")

// Wheel event directions reported by the OS hook.
const (
	wheelVertical   = 3
	wheelHorizontal = 4
)

// Option configures a Source.
type Option func(*Source)

// WithLogger sets the logger used by the source.
func WithLogger(l logger.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// Source captures global mouse and keyboard activity. The zero value
// is not usable; construct with NewSource.
type Source struct {
	logger logger.Logger

	mu      sync.Mutex
	running bool
	out     chan model.Payload
	done    chan struct{}
}

// NewSource creates a hook-backed capture source.
func NewSource(opts ...Option) *Source {
	s := &Source{
		logger: logger.Named("hook"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start installs the global input hook and returns the channel of
// translated payloads. The channel is closed once the hook is removed
// and its backlog has drained.
func (s *Source) Start(ctx context.Context) (<-chan model.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil, ErrAlreadyStarted
	}

	raw := gohook.Start()
	if raw == nil {
		return nil, errors.New("hook channel unavailable")
	}

	s.running = true
	s.out = make(chan model.Payload, 128)
	s.done = make(chan struct{})

	go s.translateLoop(raw, s.out, s.done)

	s.logger.Info(ctx, "input hook installed")
	return s.out, nil
}

// Stop removes the hook and waits for the translation loop to finish.
func (s *Source) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	gohook.End()
	<-s.done

	s.running = false
	s.out = nil
	s.done = nil

	s.logger.Info(context.Background(), "input hook removed")
	return nil
}

// translateLoop drains the raw hook channel until gohook.End closes
// it, forwarding every event it can express as a domain payload.
func (s *Source) translateLoop(raw chan gohook.Event, out chan<- model.Payload, done chan<- struct{}) {
	defer close(done)
	defer close(out)

	for ev := range raw {
		p, ok := s.translate(ev)
		if !ok {
			continue
		}
		out <- p
	}
}

// translate maps a raw hook event onto a domain payload. Events the
// model has no representation for (hook lifecycle notices, unknown
// buttons, untranslatable keys) are skipped.
func (s *Source) translate(ev gohook.Event) (model.Payload, bool) {
	switch ev.Kind {
	case gohook.MouseMove, gohook.MouseDrag:
		return model.MouseMove{X: int(ev.X), Y: int(ev.Y)}, true

	case gohook.MouseDown:
		b, ok := buttonFor(ev.Button)
		if !ok {
			s.logger.Debug(context.Background(), "skipping unknown mouse button", logger.Int("button", int(ev.Button)))
			return nil, false
		}
		return model.MouseDown{Button: b}, true

	case gohook.MouseUp:
		b, ok := buttonFor(ev.Button)
		if !ok {
			s.logger.Debug(context.Background(), "skipping unknown mouse button", logger.Int("button", int(ev.Button)))
			return nil, false
		}
		return model.MouseUp{Button: b}, true

	case gohook.MouseWheel:
		if ev.Direction == wheelHorizontal {
			return model.MouseScroll{DX: int(ev.Rotation)}, true
		}
		return model.MouseScroll{DY: int(ev.Rotation)}, true

	case gohook.KeyDown:
		key, ok := keyFor(ev)
		if !ok {
			s.logger.Debug(context.Background(), "skipping untranslatable key", logger.Int("rawcode", int(ev.Rawcode)))
			return nil, false
		}
		return model.KeyDown{Key: key}, true

	case gohook.KeyUp:
		key, ok := keyFor(ev)
		if !ok {
			s.logger.Debug(context.Background(), "skipping untranslatable key", logger.Int("rawcode", int(ev.Rawcode)))
			return nil, false
		}
		return model.KeyUp{Key: key}, true
	}

	return nil, false
}

// buttonFor maps the hook's numeric button codes onto domain buttons.
func buttonFor(code uint16) (model.Button, bool) {
	switch code {
	case 1:
		return model.ButtonLeft, true
	case 2:
		return model.ButtonRight, true
	case 3:
		return model.ButtonMiddle, true
	}
	return "", false
}

// keyFor derives the stable key token for a raw keyboard event. Named
// keys resolve through the rawcode table; printable characters fall
// back to the event's keychar.
func keyFor(ev gohook.Event) (string, bool) {
	if name := gohook.RawcodetoKeychar(ev.Rawcode); name != "" {
		return name, true
	}
	if ev.Keychar != 0 && unicode.IsPrint(ev.Keychar) {
		return string(ev.Keychar), true
	}
	return "", false
}

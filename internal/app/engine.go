// Package app exposes the engine facade consumed by control surfaces.
// It composes the capture and playback engines with a macro store and
// enforces that recording and playback are never active at once.
package app

import (
	"context"
	"fmt"
	"sync"

	hookadapter "github.com/iam74k4/eventplayback/internal/adapters/hook"
	"github.com/iam74k4/eventplayback/internal/adapters/repository"
	synthadapter "github.com/iam74k4/eventplayback/internal/adapters/synth"
	"github.com/iam74k4/eventplayback/internal/domain/capture"
	model "github.com/iam74k4/eventplayback/internal/domain/model"
	"github.com/iam74k4/eventplayback/internal/domain/playback"
	logger "github.com/iam74k4/eventplayback/pkg/logger"
)

// State is the engine's externally visible mode.
type State int

const (
	StateIdle State = iota
	StateRecording
	StatePlaying
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StatePlaying:
		return "playing"
	default:
		return "idle"
	}
}

// Engine is the single entry point for recording, replaying and
// persisting macros.
type Engine struct {
	logger   logger.Logger
	recorder *capture.Engine
	player   *playback.Engine
	store    repository.Store

	mu sync.Mutex
}

// New builds an engine. By default it records through the OS input
// hook, replays through the OS synthesizer and persists to JSON files;
// options substitute any of the three.
func New(opts ...Option) *Engine {
	s := settings{
		logger: logger.Named("engine"),
	}

	for _, opt := range opts {
		opt(&s)
	}

	if s.source == nil {
		s.source = hookadapter.NewSource()
	}
	if s.synth == nil {
		s.synth = synthadapter.NewSynthesizer()
	}
	if s.store == nil {
		s.store = repository.NewFileStore()
	}

	captureOpts := []capture.Option{capture.WithLogger(s.logger.Named("capture"))}
	if s.queueSize > 0 {
		captureOpts = append(captureOpts, capture.WithQueueSize(s.queueSize))
	}
	if s.excludedKeys != nil {
		captureOpts = append(captureOpts, capture.WithExcludedKeys(s.excludedKeys))
	}
	if s.defaultName != "" {
		captureOpts = append(captureOpts, capture.WithMacroName(s.defaultName))
	}

	return &Engine{
		logger:   s.logger,
		recorder: capture.NewEngine(s.source, captureOpts...),
		player:   playback.NewEngine(s.synth, playback.WithLogger(s.logger.Named("playback"))),
		store:    s.store,
	}
}

// BeginRecording starts capturing input into a fresh session.
func (e *Engine) BeginRecording(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.player.IsPlaying() {
		return fmt.Errorf("cannot record: %w", playback.ErrAlreadyPlaying)
	}

	return e.recorder.Start(ctx)
}

// EndRecording stops the active capture session and returns the
// finalized macro.
func (e *Engine) EndRecording(ctx context.Context) (model.Macro, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.recorder.Stop(ctx)
}

// BeginPlayback starts replaying the macro. A loopCount of zero loops
// until EndPlayback.
func (e *Engine) BeginPlayback(ctx context.Context, macro model.Macro, loopCount int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recorder.IsRecording() {
		return fmt.Errorf("cannot play: %w", capture.ErrAlreadyRecording)
	}

	return e.player.Start(ctx, macro, loopCount)
}

// EndPlayback cancels the active playback and waits for it to halt.
func (e *Engine) EndPlayback() error {
	return e.player.Stop()
}

// PlaybackDone returns a channel closed when the current playback
// finishes for any reason. It is closed already when nothing plays.
func (e *Engine) PlaybackDone() <-chan struct{} {
	return e.player.Done()
}

// PlaybackErr reports why the last playback aborted, nil after a clean
// finish or cancellation.
func (e *Engine) PlaybackErr() error {
	return e.player.Err()
}

// LoadMacro reads a macro from the store.
func (e *Engine) LoadMacro(ctx context.Context, path string) (model.Macro, error) {
	return e.store.Load(ctx, path)
}

// SaveMacro persists a macro through the store.
func (e *Engine) SaveMacro(ctx context.Context, macro model.Macro, path string) error {
	return e.store.Save(ctx, macro, path)
}

// EventCount reports how many events the active recording has captured.
func (e *Engine) EventCount() int {
	return e.recorder.EventCount()
}

// CurrentState reports the engine's mode, derived from the underlying
// engines so asynchronous playback completion is reflected immediately.
func (e *Engine) CurrentState() State {
	if e.recorder.IsRecording() {
		return StateRecording
	}
	if e.player.IsPlaying() {
		return StatePlaying
	}
	return StateIdle
}

package capture

import (
	"time"

	"github.com/iam74k4/eventplayback/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithQueueSize sets the capacity of the capture queue.
func WithQueueSize(size int) Option {
	return func(e *Engine) {
		if size > 0 {
			e.queueSize = size
		}
	}
}

// WithMoveCoalescing overrides the mouse-move coalescing interval.
// A zero interval disables coalescing. Intended for tests.
func WithMoveCoalescing(interval time.Duration) Option {
	return func(e *Engine) {
		if interval >= 0 {
			e.moveInterval = interval
		}
	}
}

// WithExcludedKeys sets key tokens that are never recorded, typically
// the control surface's own hotkeys.
func WithExcludedKeys(keys []string) Option {
	return func(e *Engine) {
		e.excludedKeys = make(map[string]struct{}, len(keys))
		for _, k := range keys {
			e.excludedKeys[k] = struct{}{}
		}
	}
}

// WithMacroName sets the name given to macros produced by this engine.
func WithMacroName(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.macroName = name
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

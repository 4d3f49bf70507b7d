package app

import (
	"github.com/iam74k4/eventplayback/internal/adapters/repository"
	"github.com/iam74k4/eventplayback/internal/domain/capture"
	"github.com/iam74k4/eventplayback/internal/domain/playback"
	logger "github.com/iam74k4/eventplayback/pkg/logger"
)

type settings struct {
	logger       logger.Logger
	queueSize    int
	source       capture.Source
	synth        playback.Synthesizer
	store        repository.Store
	excludedKeys []string
	defaultName  string
}

// Option configures the engine facade.
type Option func(*settings)

// WithLogger sets the logger; sub-engines derive named loggers from it.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		s.logger = l
	}
}

// WithQueueSize bounds the capture notification queue.
func WithQueueSize(size int) Option {
	return func(s *settings) {
		s.queueSize = size
	}
}

// WithSource substitutes the capture source.
func WithSource(src capture.Source) Option {
	return func(s *settings) {
		s.source = src
	}
}

// WithSynthesizer substitutes the playback synthesizer.
func WithSynthesizer(sy playback.Synthesizer) Option {
	return func(s *settings) {
		s.synth = sy
	}
}

// WithStore substitutes the macro store.
func WithStore(st repository.Store) Option {
	return func(s *settings) {
		s.store = st
	}
}

// WithExcludedKeys sets the key tokens dropped during capture.
func WithExcludedKeys(keys []string) Option {
	return func(s *settings) {
		s.excludedKeys = keys
	}
}

// WithDefaultName sets the name given to newly recorded macros.
func WithDefaultName(name string) Option {
	return func(s *settings) {
		s.defaultName = name
	}
}

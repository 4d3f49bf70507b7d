package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if EVENTPLAYBACK_CONFIG is set
//  3. env (prefix EVENTPLAYBACK_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("EVENTPLAYBACK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: EVENTPLAYBACK_QUEUE_SIZE, ...
	// Map env keys like EVENTPLAYBACK_QUEUE_SIZE -> queue_size (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("EVENTPLAYBACK_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "eventplayback_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if cfg.QueueSize <= 0 {
		return nil, fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if cfg.DefaultMacroName == "" {
		return nil, fmt.Errorf("%w: default_macro_name must not be empty", ErrInvalidConfig)
	}
	if cfg.DefaultLoopCount < 0 {
		return nil, fmt.Errorf("%w: default_loop_count must not be negative", ErrInvalidConfig)
	}
	return &cfg, nil
}

// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the debug HTTP listen address, e.g.
	// ":9216". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// QueueSize bounds the in-memory capture notification queue.
	QueueSize int `koanf:"queue_size"`

	// DefaultMacroName names newly recorded macros.
	DefaultMacroName string `koanf:"default_macro_name"`

	// ExcludedKeys lists key tokens never written into a recording.
	ExcludedKeys []string `koanf:"excluded_keys"`

	// DefaultLoopCount is the pass count used when playback is not
	// given one explicitly. Zero means loop until stopped.
	DefaultLoopCount int `koanf:"default_loop_count"`
}

// New creates a Config carrying the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		MetricsAddr:      "",
		QueueSize:        4096,
		DefaultMacroName: "New Macro",
		ExcludedKeys:     []string{"f9", "f10", "escape"},
		DefaultLoopCount: 1,
	}
}

// Package config holds global application settings.
package config

import "time"

const VERSION = "0.3.0"

// Config holds global application settings.
type Config struct {
	Debug   bool
	Quiet   bool
	Version string

	// BinDir is the directory holding the Grid Engine frontend
	// commands (qstat, qacct, qhost, qdel). Empty resolves via PATH.
	BinDir string

	// PollInterval is the pause between job monitor rounds.
	PollInterval time.Duration

	// CommandTimeout bounds each individual scheduler invocation.
	// Zero disables the per-call budget.
	CommandTimeout time.Duration

	// MaxRetries and RetryDelay control the retry-tolerant runner
	// used for list queries under scheduler load.
	MaxRetries int
	RetryDelay time.Duration
}

// Global holds the singleton configuration instance.
var Global Config

// LoadDefaults populates Global with built-in defaults. Viper values
// and command-line flags are layered on top afterwards.
func LoadDefaults() {
	Global = Config{
		Debug:          false,
		Quiet:          false,
		Version:        VERSION,
		BinDir:         "",
		PollInterval:   30 * time.Second,
		CommandTimeout: 60 * time.Second,
		MaxRetries:     3,
		RetryDelay:     5 * time.Second,
	}
}

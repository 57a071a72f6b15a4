// Package config provides configuration management for the motif CLI.
//
// Configuration is layered: defaults, then motif.yaml, then MOTIF_* env
// vars, then command-line flags, each overriding the previous.
package config

// Config holds all CLI configuration options.
type Config struct {
	// Program is the default program file to load when a command is not
	// given one as an argument.
	Program      string `koanf:"program"`
	EnrichDir    string `koanf:"enrich_dir"`
	StatePath    string `koanf:"state_path"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	// NoState disables run-history recording entirely.
	NoState bool `koanf:"no_state"`
}

// Default configuration values.
const (
	DefaultEnrichDir = "enrichments"
	DefaultStateFile = ".motif/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

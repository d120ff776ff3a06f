// Package config defines service configuration structures and loading.
//
// Conventions:
// - Defaults live in New; Load layers an optional file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir holds the candidate snapshot files written by the
	// acquisition layer.
	DataDir string `koanf:"data_dir"`

	// StateFile is the draft ledger's persistence path.
	StateFile string `koanf:"state_file"`

	// DefaultParty is the roster a reset ledger starts with.
	DefaultParty string `koanf:"default_party"`

	// MaxRecommendations caps GET /recommendations?n.
	MaxRecommendations int `koanf:"max_recommendations"`

	// CORSOrigins lists allowed origins for browser clients.
	CORSOrigins []string `koanf:"cors_origins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		DataDir:            "data",
		StateFile:          "data/draft_state.json",
		DefaultParty:       "Team 1",
		MaxRecommendations: 50,
		CORSOrigins:        []string{"*"},
	}
}

// Package config defines service configuration structures and loading hooks.
//
// New() builds a Config with defaults; Load layers an optional YAML file
// and PODIUM_-prefixed environment variables on top.
package config

// Store backend names accepted by Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Backend selects the score store: memory, file or sqlite.
	Backend string `koanf:"backend"`

	// DataDir is the flat-file backend's document directory.
	DataDir string `koanf:"data_dir"`

	// DBPath is the sqlite backend's database file.
	DBPath string `koanf:"db_path"`

	// TopN sets the size of the post-submission projection.
	TopN int `koanf:"top_n"`

	// MaxRetries bounds the optimistic-concurrency retry loop.
	MaxRetries int `koanf:"max_retries"`

	// AllowedIPs restricts API access; empty means everyone.
	AllowedIPs []string `koanf:"allowed_ips"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		Addr:       ":9080",
		Backend:    BackendMemory,
		DataDir:    "data",
		DBPath:     "scores.db",
		TopN:       10,
		MaxRetries: 5,
	}
}

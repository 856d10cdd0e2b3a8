package app

import (
	"os"
	"path/filepath"
	"time"
)

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	APIBaseURL string
	APITimeout time.Duration

	// StatePath is the SQLite file holding credentials and cached records.
	StatePath string

	LogLevel  string
	LogFormat string

	// MetricsAddr enables the local debug listener (/metrics, /healthz)
	// when non-empty.
	MetricsAddr string

	// Security policy:
	// If true, TRACKER_VAULT_PASSPHRASE MUST be set and credentials are
	// stored encrypted at rest.
	RequireSealedStore bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		APIBaseURL: EnvString("TRACKER_API_BASE_URL", "http://127.0.0.1:8000/api"),
		APITimeout: EnvDuration("TRACKER_API_TIMEOUT", 10*time.Second),

		StatePath: EnvString("TRACKER_STATE_PATH", defaultStatePath()),

		LogLevel:  EnvString("TRACKER_LOG_LEVEL", "info"),
		LogFormat: EnvString("TRACKER_LOG_FORMAT", "pretty"),

		MetricsAddr: EnvString("TRACKER_METRICS_ADDR", ""),

		RequireSealedStore: EnvBool("TRACKER_REQUIRE_SEALED_STORE", false),
	}
}

// defaultStatePath resolves to the per-user state directory, falling back
// to the working directory when the platform offers none.
func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tracker.db"
	}
	return filepath.Join(dir, "tracker", "state.db")
}

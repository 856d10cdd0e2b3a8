package vault

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
)

// PassphraseEnvKey is the env var name for the vault passphrase.
// #nosec G101 -- not a credential; it's an environment variable name.
const PassphraseEnvKey = "TRACKER_VAULT_PASSPHRASE"

// Argon2idParams controls the cost of deriving the sealing key from the
// passphrase. MemoryKiB is in KiB as required by argon2.IDKey.
type Argon2idParams struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// Config is the single configuration surface for this package.
type Config struct {
	Params Argon2idParams
}

// DefaultConfig returns a baseline tuned for a single interactive derivation
// at process start, not per-request hashing.
func DefaultConfig() Config {
	// Clamp parallelism to [1..4] to keep resource usage predictable
	// in containers.
	threads := runtime.NumCPU()
	if threads <= 0 {
		threads = 1
	}
	if threads > 4 {
		threads = 4
	}

	return Config{
		Params: Argon2idParams{
			MemoryKiB:   64 * 1024, // 64 MiB
			Iterations:  3,
			Parallelism: uint8(threads), // #nosec G115 -- clamped to [1..4] above; safe conversion.
			SaltLength:  16,
			KeyLength:   32, // XChaCha20-Poly1305 key size
		},
	}
}

// FromEnv loads config from environment variables.
//
// Env surface:
// - TRACKER_VAULT_ARGON2_MEMORY_KIB
// - TRACKER_VAULT_ARGON2_ITERATIONS
// - TRACKER_VAULT_ARGON2_PARALLELISM
func FromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v, ok := os.LookupEnv("TRACKER_VAULT_ARGON2_MEMORY_KIB"); ok {
		n, err := atoiBounded(v, 8*1024, 1024*1024)
		if err != nil {
			return Config{}, fmt.Errorf("TRACKER_VAULT_ARGON2_MEMORY_KIB: %w", err)
		}
		cfg.Params.MemoryKiB = uint32(n)
	}

	if v, ok := os.LookupEnv("TRACKER_VAULT_ARGON2_ITERATIONS"); ok {
		n, err := atoiBounded(v, 1, 32)
		if err != nil {
			return Config{}, fmt.Errorf("TRACKER_VAULT_ARGON2_ITERATIONS: %w", err)
		}
		cfg.Params.Iterations = uint32(n)
	}

	if v, ok := os.LookupEnv("TRACKER_VAULT_ARGON2_PARALLELISM"); ok {
		n, err := atoiBounded(v, 1, 8)
		if err != nil {
			return Config{}, fmt.Errorf("TRACKER_VAULT_ARGON2_PARALLELISM: %w", err)
		}
		cfg.Params.Parallelism = uint8(n) // #nosec G115 -- bounded to [1..8] above.
	}

	return cfg, nil
}

// PassphraseFromEnv returns the configured passphrase, or
// ErrPassphraseMissing when sealed mode is not enabled.
func PassphraseFromEnv() (string, error) {
	p := os.Getenv(PassphraseEnvKey)
	if p == "" {
		return "", ErrPassphraseMissing
	}
	return p, nil
}

// Enabled reports whether a passphrase is configured.
func Enabled() bool {
	return os.Getenv(PassphraseEnvKey) != ""
}

func atoiBounded(v string, min, max int) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ErrConfig
	}
	if n < min || n > max {
		return 0, ErrConfig
	}
	return n, nil
}

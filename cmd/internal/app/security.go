package app

import (
	"errors"
	"fmt"

	"tracker/cmd/security/vault"
)

// ValidateSecurityConfig enforces the credential storage policy at startup.
//
// Fail-fast is intentional: silently writing tokens to disk in plaintext
// when the operator asked for sealing is unacceptable.
func ValidateSecurityConfig(cfg Config) error {
	if !cfg.RequireSealedStore {
		return nil
	}

	if _, err := vault.PassphraseFromEnv(); err != nil {
		if errors.Is(err, vault.ErrPassphraseMissing) {
			return fmt.Errorf("security policy: TRACKER_REQUIRE_SEALED_STORE=true but %s is not set", vault.PassphraseEnvKey)
		}
		return err
	}

	if _, err := vault.FromEnv(); err != nil {
		return fmt.Errorf("security policy: %w", err)
	}

	return nil
}

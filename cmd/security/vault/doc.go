// Package vault provides at-rest sealing for locally persisted credentials.
//
// It is the single source of truth for how token values are encrypted before
// they reach the state database.
//
// Design goals:
//   - Default mode: plaintext persistence when no passphrase is configured,
//     matching the plaintext storage the hosted web client uses.
//   - Sealed mode: Argon2id key derivation from a passphrase plus
//     XChaCha20-Poly1305 AEAD when TRACKER_VAULT_PASSPHRASE is set.
//   - Stable "v1$" framed output so sealed and plaintext values can coexist
//     during migration.
//
// Environment:
//   - TRACKER_VAULT_PASSPHRASE: when set, enables sealed mode.
//   - TRACKER_VAULT_ARGON2_*: cost overrides, see FromEnv.
package vault

package vault

import (
	"crypto/rand"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// sealedPrefix frames sealed values so plaintext and sealed entries can be
// told apart in the state database.
const sealedPrefix = "v1$"

// Vault seals and opens credential values with a key derived once from the
// passphrase. The salt is owned by the credential store and must be stable
// for the lifetime of the state database.
type Vault struct {
	key []byte
}

// NewSalt returns a fresh random salt sized per cfg.
func NewSalt(cfg Config) ([]byte, error) {
	salt := make([]byte, cfg.Params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// New derives the sealing key from passphrase and salt.
func New(cfg Config, passphrase string, salt []byte) (*Vault, error) {
	if passphrase == "" {
		return nil, ErrPassphraseMissing
	}
	if len(salt) == 0 {
		return nil, ErrConfig
	}

	key := argon2.IDKey(
		[]byte(passphrase),
		salt,
		cfg.Params.Iterations,
		cfg.Params.MemoryKiB,
		cfg.Params.Parallelism,
		cfg.Params.KeyLength,
	)

	return &Vault{key: key}, nil
}

// Seal encrypts plaintext and returns a framed, storable string:
// v1$<nonce_b64>$<ciphertext_b64>.
func (v *Vault) Seal(plaintext string) (string, error) {
	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", ErrConfig
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ct := aead.Seal(nil, nonce, []byte(plaintext), nil)

	b64 := base64.RawStdEncoding
	return sealedPrefix + b64.EncodeToString(nonce) + "$" + b64.EncodeToString(ct), nil
}

// Open decrypts a value produced by Seal. Returns ErrSealedFormat for
// malformed framing and ErrDecrypt for authentication failures (wrong
// passphrase or tampered value).
func (v *Vault) Open(sealed string) (string, error) {
	rest, ok := strings.CutPrefix(sealed, sealedPrefix)
	if !ok {
		return "", ErrSealedFormat
	}

	nonceB64, ctB64, ok := strings.Cut(rest, "$")
	if !ok {
		return "", ErrSealedFormat
	}

	b64 := base64.RawStdEncoding
	nonce, err := b64.DecodeString(nonceB64)
	if err != nil {
		return "", ErrSealedFormat
	}
	ct, err := b64.DecodeString(ctB64)
	if err != nil {
		return "", ErrSealedFormat
	}

	aead, err := chacha20poly1305.NewX(v.key)
	if err != nil {
		return "", ErrConfig
	}
	if len(nonce) != aead.NonceSize() {
		return "", ErrSealedFormat
	}

	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(pt), nil
}

// IsSealed reports whether s carries the sealed framing.
func IsSealed(s string) bool {
	return strings.HasPrefix(s, sealedPrefix)
}

// Package cryptography implements PHI column encryption for the
// persistence layer.
package cryptography

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/auradentalai/agentic-dentist-api/internal/domain/phi"
	"github.com/auradentalai/agentic-dentist-api/internal/pkg/logger"
)

// phiCipher implements phi.Cipher with AES-256-GCM. The key is derived from
// the configured secret; a random nonce is prepended to each ciphertext so
// equal plaintexts never produce equal stored values.
type phiCipher struct {
	aead      cipher.AEAD
	digestKey []byte
	logger    logger.Logger
}

// NewPHICipher creates a phi.Cipher from the configured encryption secret.
func NewPHICipher(secret string, logger logger.Logger) (phi.Cipher, error) {
	if secret == "" {
		return nil, errors.New("PHI encryption secret must not be empty")
	}

	key := sha256.Sum256([]byte(secret))
	// Separate key for lookup digests so the encryption key never doubles
	// as a MAC key.
	digestKey := sha256.Sum256([]byte("lookup:" + secret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &phiCipher{aead: aead, digestKey: digestKey[:], logger: logger}, nil
}

// EncryptString encrypts a plaintext value for storage.
func (c *phiCipher) EncryptString(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString recovers the plaintext of a stored value.
func (c *phiCipher) DecryptString(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	nonceSize := c.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", errors.New("ciphertext shorter than nonce")
	}

	plaintext, err := c.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}

// Digest produces a deterministic HMAC-SHA256 digest for equality lookups
// over encrypted columns.
func (c *phiCipher) Digest(value string) string {
	mac := hmac.New(sha256.New, c.digestKey)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

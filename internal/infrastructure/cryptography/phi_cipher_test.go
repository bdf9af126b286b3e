//go:build unit
// +build unit

package cryptography

import (
	"testing"

	"github.com/auradentalai/agentic-dentist-api/internal/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPHICipher_RoundTrip(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	cipher, err := NewPHICipher("test-secret", log)
	require.NoError(t, err)

	plaintext := "Jane Doe"

	encrypted, err := cipher.EncryptString(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, encrypted)

	decrypted, err := cipher.DecryptString(encrypted)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestPHICipher_NonDeterministic(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	cipher, err := NewPHICipher("test-secret", log)
	require.NoError(t, err)

	first, err := cipher.EncryptString("Jane Doe")
	require.NoError(t, err)
	second, err := cipher.EncryptString("Jane Doe")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "equal plaintexts must not produce equal ciphertexts")
}

func TestPHICipher_WrongKeyFails(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	cipher, err := NewPHICipher("secret-a", log)
	require.NoError(t, err)
	other, err := NewPHICipher("secret-b", log)
	require.NoError(t, err)

	encrypted, err := cipher.EncryptString("Jane Doe")
	require.NoError(t, err)

	_, err = other.DecryptString(encrypted)
	assert.Error(t, err)
}

func TestPHICipher_Digest_DeterministicAndKeyed(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	cipher, err := NewPHICipher("secret-a", log)
	require.NoError(t, err)
	other, err := NewPHICipher("secret-b", log)
	require.NoError(t, err)

	first := cipher.Digest("ws-1:jane doe")
	second := cipher.Digest("ws-1:jane doe")
	assert.Equal(t, first, second, "equality lookups need a stable digest")
	assert.Len(t, first, 64)

	assert.NotEqual(t, first, cipher.Digest("ws-2:jane doe"))
	assert.NotEqual(t, first, other.Digest("ws-1:jane doe"),
		"digest must depend on the secret, not just the value")
}

func TestPHICipher_EmptySecret(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	_, err := NewPHICipher("", log)
	assert.Error(t, err)
}

func TestPHICipher_InvalidCiphertext(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	cipher, err := NewPHICipher("test-secret", log)
	require.NoError(t, err)

	_, err = cipher.DecryptString("not base64!!")
	assert.Error(t, err)

	_, err = cipher.DecryptString("c2hvcnQ=")
	assert.Error(t, err)
}

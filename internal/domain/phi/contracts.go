// Package phi defines contracts for protecting patient health information:
// encryption of identifying columns at rest and masking of free text before
// it reaches an agent context.
package phi

// Cipher encrypts and decrypts PHI column values. Implementations must be
// authenticated (tamper-evident) and produce non-deterministic ciphertext.
type Cipher interface {
	// EncryptString encrypts a plaintext value for storage.
	EncryptString(plaintext string) (string, error)

	// DecryptString recovers the plaintext of a stored value.
	DecryptString(ciphertext string) (string, error)

	// Digest produces a deterministic keyed digest of a value for equality
	// lookups. Keyed so that database access alone does not allow
	// dictionary recovery of low-entropy values such as names.
	Digest(value string) string
}

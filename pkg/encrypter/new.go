package encrypter

// Encrypter protects caregiver contact endpoints at rest using AES-GCM.
// Phone numbers and email addresses are encrypted before they reach the
// audit store and decrypted only when handed to a channel transport.
type Encrypter interface {
	// Encrypt encrypts a plaintext string and returns a base64-encoded ciphertext.
	Encrypt(plaintext string) (string, error)
	// Decrypt decrypts a base64-encoded ciphertext string and returns the plaintext.
	Decrypt(ciphertext string) (string, error)
}

type implEncrypter struct {
	key string
}

// New creates a new Encrypter instance with the provided key.
// The key must be 16, 24, or 32 bytes long for AES-128, AES-192, or AES-256.
func New(key string) Encrypter {
	return implEncrypter{key: key}
}

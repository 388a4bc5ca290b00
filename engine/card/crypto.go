package card

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Payload framing: base64(nonce || ciphertext), ChaCha20-Poly1305 keyed by
// the SHA-256 of the instance's license key. Two instances created with the
// same license key can exchange payloads.

// DecryptionData decrypts a payload produced by EncryptData under the same
// license key.
func (a *Analyzer) DecryptionData(input string) (string, error) {
	if a.closed {
		return "", fmt.Errorf("card: analyzer is closed")
	}
	raw, err := base64.StdEncoding.DecodeString(input)
	if err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	aead, err := chacha20poly1305.New(a.key[:])
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	if len(raw) < aead.NonceSize() {
		return "", fmt.Errorf("payload too short: %d bytes", len(raw))
	}
	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("open payload: %w", err)
	}
	return string(plaintext), nil
}

// EncryptData is the counterpart of DecryptionData, used to produce payloads
// and test fixtures.
func (a *Analyzer) EncryptData(plaintext string) (string, error) {
	aead, err := chacha20poly1305.New(a.key[:])
	if err != nil {
		return "", fmt.Errorf("init cipher: %w", err)
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

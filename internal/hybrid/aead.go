package hybrid

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	AlgorithmAESGCM            = "AES-256-GCM"
	AlgorithmXChaCha20Poly1305 = "XChaCha20-Poly1305"

	// KeySize is the symmetric key length for every supported algorithm.
	KeySize = 32

	gcmNonceSize = 16
	tagSize      = 16
)

// SupportedAlgorithms lists the AEAD tags accepted in payload envelopes.
func SupportedAlgorithms() []string {
	return []string{AlgorithmAESGCM, AlgorithmXChaCha20Poly1305}
}

// newAEAD returns the AEAD for algorithm keyed with key.
func newAEAD(algorithm string, key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("symmetric key must be %d bytes, got %d", KeySize, len(key))
	}
	switch algorithm {
	case AlgorithmAESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		// 128-bit IV keeps the envelope compatible with browser clients.
		return cipher.NewGCMWithNonceSize(block, gcmNonceSize)
	case AlgorithmXChaCha20Poly1305:
		return chacha20poly1305.NewX(key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
}

// IsSupported reports whether algorithm can be used for Encrypt.
func IsSupported(algorithm string) bool {
	switch algorithm {
	case AlgorithmAESGCM, AlgorithmXChaCha20Poly1305:
		return true
	}
	return false
}

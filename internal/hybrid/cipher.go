// Package hybrid implements the report encryption protocol: a fresh
// symmetric key per report seals the body with an AEAD, and the key itself is
// wrapped with the bounty owner's RSA public key using OAEP/SHA-256.
package hybrid

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Sealed is the only output of Encrypt. Both fields are safe to store and
// relay; neither can be opened without the recipient's private key.
type Sealed struct {
	EncryptedPayload string
	EncryptedKey     string
	Algorithm        string
}

type options struct {
	algorithm string
}

type Option func(*options)

// WithAlgorithm selects the AEAD used for the report body.
func WithAlgorithm(algorithm string) Option {
	return func(o *options) {
		if algorithm != "" {
			o.algorithm = algorithm
		}
	}
}

// Encrypt seals plaintext for the holder of the private key matching pub.
func Encrypt(plaintext []byte, pub *rsa.PublicKey, opts ...Option) (*Sealed, error) {
	if pub == nil {
		return nil, ErrInvalidKey
	}
	o := options{algorithm: AlgorithmAESGCM}
	for _, opt := range opts {
		opt(&o)
	}

	key := make([]byte, KeySize)
	defer clear(key)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate symmetric key: %w", err)
	}

	aead, err := newAEAD(o.algorithm, key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - aead.Overhead()
	payload, err := encodeEnvelope(o.algorithm, nonce, sealed[:split], sealed[split:])
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, key, nil)
	if err != nil {
		return nil, fmt.Errorf("wrap symmetric key: %w", err)
	}

	return &Sealed{
		EncryptedPayload: payload,
		EncryptedKey:     base64.StdEncoding.EncodeToString(wrapped),
		Algorithm:        o.algorithm,
	}, nil
}

// Decrypt reverses Encrypt. All failures match ErrDecryption; plaintext is
// returned only when the authentication tag verifies.
func Decrypt(encryptedPayload, encryptedKey string, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, ErrInvalidKey
	}

	wrapped, err := decodeBase64(encryptedKey)
	if err != nil {
		return nil, ErrUnwrap
	}
	key, err := rsa.DecryptOAEP(sha256.New(), nil, priv, wrapped, nil)
	if err != nil {
		return nil, ErrUnwrap
	}
	defer clear(key)
	if len(key) != KeySize {
		return nil, ErrUnwrap
	}

	env, err := decodeEnvelope(encryptedPayload)
	if err != nil {
		return nil, err
	}
	aead, err := newAEAD(env.algorithm, key)
	if err != nil {
		return nil, ErrMalformedPayload
	}
	if len(env.nonce) != aead.NonceSize() {
		return nil, ErrMalformedPayload
	}

	sealed := make([]byte, 0, len(env.ciphertext)+len(env.tag))
	sealed = append(sealed, env.ciphertext...)
	sealed = append(sealed, env.tag...)

	plaintext, err := aead.Open(nil, env.nonce, sealed, nil)
	if err != nil {
		return nil, ErrIntegrity
	}
	return plaintext, nil
}

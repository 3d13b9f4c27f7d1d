package hybrid

import "errors"

// ErrDecryption is the only failure callers outside this package should
// surface. Every decryption error matches it with errors.Is.
var ErrDecryption = errors.New("decryption failed")

var (
	// ErrUnwrap reports that the wrapped symmetric key could not be recovered
	// with the given private key.
	ErrUnwrap = &CryptoError{Stage: "unwrap"}
	// ErrIntegrity reports an authentication tag mismatch.
	ErrIntegrity = &CryptoError{Stage: "integrity"}
	// ErrMalformedPayload reports a payload envelope that cannot be parsed.
	ErrMalformedPayload = &CryptoError{Stage: "payload"}

	ErrUnsupportedAlgorithm = errors.New("unsupported encryption algorithm")
	ErrInvalidKey           = errors.New("invalid RSA key")
	ErrWeakKey              = errors.New("RSA key must be at least 2048 bits")
)

// CryptoError identifies the failing decryption stage for logs and tests.
// Its message is deliberately the same for every stage.
type CryptoError struct {
	Stage string
}

func (e *CryptoError) Error() string { return ErrDecryption.Error() }

func (e *CryptoError) Is(target error) bool { return target == ErrDecryption }

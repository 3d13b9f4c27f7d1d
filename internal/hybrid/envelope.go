package hybrid

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var errNonCanonical = errors.New("non-canonical base64")

// decodeBase64 accepts only the exact encoding EncodeToString produces:
// padding bits must be zero and line breaks are not skipped.
func decodeBase64(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n") {
		return nil, errNonCanonical
	}
	return base64.StdEncoding.Strict().DecodeString(s)
}

// envelope is the JSON document carried, base64 encoded, in encryptedPayload.
// Binary fields are standard base64.
type envelope struct {
	Encrypted string `json:"encrypted"`
	IV        string `json:"iv"`
	AuthTag   string `json:"authTag"`
	Algorithm string `json:"algorithm"`
}

type parsedEnvelope struct {
	ciphertext []byte
	nonce      []byte
	tag        []byte
	algorithm  string
}

func encodeEnvelope(algorithm string, nonce, ciphertext, tag []byte) (string, error) {
	raw, err := json.Marshal(envelope{
		Encrypted: base64.StdEncoding.EncodeToString(ciphertext),
		IV:        base64.StdEncoding.EncodeToString(nonce),
		AuthTag:   base64.StdEncoding.EncodeToString(tag),
		Algorithm: algorithm,
	})
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func decodeEnvelope(payload string) (*parsedEnvelope, error) {
	raw, err := decodeBase64(payload)
	if err != nil {
		return nil, ErrMalformedPayload
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, ErrMalformedPayload
	}
	if env.Algorithm == "" {
		return nil, ErrMalformedPayload
	}
	// json.Unmarshal folds key case and skips unknown keys and whitespace;
	// only the byte-exact document Encrypt writes is accepted.
	canonical, err := json.Marshal(env)
	if err != nil || !bytes.Equal(raw, canonical) {
		return nil, ErrMalformedPayload
	}

	out := &parsedEnvelope{algorithm: env.Algorithm}
	if out.ciphertext, err = decodeBase64(env.Encrypted); err != nil {
		return nil, ErrMalformedPayload
	}
	if out.nonce, err = decodeBase64(env.IV); err != nil {
		return nil, ErrMalformedPayload
	}
	if out.tag, err = decodeBase64(env.AuthTag); err != nil {
		return nil, ErrMalformedPayload
	}
	if len(out.tag) != tagSize {
		return nil, ErrMalformedPayload
	}
	return out, nil
}

// PayloadAlgorithm returns the algorithm tag of an encrypted payload without
// decrypting it.
func PayloadAlgorithm(payload string) (string, error) {
	env, err := decodeEnvelope(payload)
	if err != nil {
		return "", err
	}
	return env.algorithm, nil
}

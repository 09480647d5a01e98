package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrEmptySecret is returned when the HMAC key is empty.
var ErrEmptySecret = errors.New("hash: hmac secret is required")

// HMACSHA256 implements Hash with a server-side key.
type HMACSHA256 struct {
	secret []byte
}

// NewHMACSHA256 creates a new hasher keyed with secret.
func NewHMACSHA256(secret string) (*HMACSHA256, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &HMACSHA256{secret: []byte(secret)}, nil
}

// Hash returns the hex encoded HMAC-SHA256 of str.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	sum := s.sum(str)
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)

	return out, nil
}

// Verify checks whether str matches the hex encoded digest.
func (s *HMACSHA256) Verify(hashed, str string) bool {
	raw, err := hex.DecodeString(hashed)
	if err != nil {
		return false
	}

	return hmac.Equal(raw, s.sum(str))
}

func (s *HMACSHA256) sum(str string) []byte {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(str))

	return h.Sum(nil)
}

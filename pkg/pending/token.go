package pending

import (
	"crypto/rand"
	"encoding/hex"
)

// tokenBytes gives tokens of 64 bits, 16 hex characters.
const tokenBytes = 8

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

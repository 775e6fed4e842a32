package token

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"
)

// Size is the number of random bytes behind a token; tokens are twice as long in hex.
const Size = 16

var hexRegex = regexp.MustCompile(`^[a-f0-9]{32}$`)

// New returns 128 random bits as 32 lowercase hex digits.
func New() (string, error) {
	b := make([]byte, Size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// WellFormed reports whether s looks like a token issued by New.
func WellFormed(s string) bool {
	return hexRegex.MatchString(s)
}

// Equal compares a stored token with a supplied one in constant time.
func Equal(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

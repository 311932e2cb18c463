// Package idgen implements random identifier generation for moth issues.
//
// Identifiers are short lowercase base36 strings like "x7k2m". The first
// character is always a letter so an identifier can never be mistaken for
// the numeric order prefix of a filename ("003-x7k2m-high-...").
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	// MinLength is the minimum number of characters in a generated ID.
	MinLength = 3
	// MaxLength is the maximum number of characters in a generated ID.
	MaxLength = 10
	// DefaultLength is used when configuration does not specify a length.
	DefaultLength = 5
)

const (
	letters  = "abcdefghijklmnopqrstuvwxyz"
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// RandomID generates a random ID of exactly length characters.
// It uses crypto/rand; the first character is drawn from [a-z] and the rest
// from [a-z0-9]. Returns an error if length is outside [MinLength, MaxLength].
//
// RandomID does not check for collisions; callers compare against the IDs
// already in use.
func RandomID(length int) (string, error) {
	if length < MinLength || length > MaxLength {
		return "", fmt.Errorf("idgen: length %d out of range [%d, %d]", length, MinLength, MaxLength)
	}

	buf := make([]byte, length)
	for i := range buf {
		charset := alphabet
		if i == 0 {
			charset = letters
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", fmt.Errorf("idgen: crypto/rand: %w", err)
		}
		buf[i] = charset[n.Int64()]
	}
	return string(buf), nil
}

// IsValid reports whether id has the shape of a moth ID: non-empty,
// lowercase alphanumeric, starting with a letter.
func IsValid(id string) bool {
	if id == "" {
		return false
	}
	if id[0] < 'a' || id[0] > 'z' {
		return false
	}
	return isAlnum(id[1:])
}

func isAlnum(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return true
}

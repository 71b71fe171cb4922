// Package idgen provides short, URL-safe fallback map IDs backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for generated IDs.
var Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Length is the default number of characters in a generated ID.
var Length = 6

// Generate returns a new random ID of the default length.
func Generate() (string, error) {
	return GenerateLength(Length)
}

// GenerateLength returns a new random ID with n characters.
// Collisions between generated IDs are possible and not detected.
func GenerateLength(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("idgen: invalid length %d", n)
	}
	id, err := nanoid.Generate(Alphabet, n)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return id, nil
}

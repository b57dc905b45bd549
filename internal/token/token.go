// Package token generates random short tokens that are easy to read and
// unlikely to spell words.
//
// Every third character (positions 3, 6, 9, ... counted from 1) is a digit from
// Digits; the remaining positions come from Alphanumeric. Characters that are
// easy to confuse with each other (0, 1, l, o, O) never appear.
package token

import (
	"errors"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// Digits is the restricted alphabet used for every third position.
	Digits = "23456789"
	// Letters holds a-z without l and o, and A-Z without O.
	Letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHIJKLMNPQRSTUVWXYZ"
	// Alphanumeric is the full alphabet used for all other positions.
	Alphanumeric = Digits + Letters
	// Excluded lists the ambiguous characters that neither alphabet contains.
	Excluded = "01loO"
)

var (
	ErrInvalidLength = errors.New("token length must be positive")
	ErrEmptyAlphabet = errors.New("alphabet must not be empty")
)

// New returns a random token of the given length using the fixed alphabets.
func New(length int) (string, error) {
	return Generate(length, Alphanumeric, Digits)
}

// Generate returns a random token of exactly length characters. Positions
// divisible by three (1-indexed) are drawn from restricted, all others from full.
func Generate(length int, full, restricted string) (string, error) {
	const op = "token.Generate"

	if length < 1 {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidLength)
	}
	if full == "" || restricted == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyAlphabet)
	}

	nRestricted := length / 3

	free, err := gonanoid.Generate(full, length-nRestricted)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate characters: %w", op, err)
	}

	var digits string
	if nRestricted > 0 {
		digits, err = gonanoid.Generate(restricted, nRestricted)
		if err != nil {
			return "", fmt.Errorf("%s: failed to generate digits: %w", op, err)
		}
	}

	freeRunes, digitRunes := []rune(free), []rune(digits)
	out := make([]rune, 0, length)

	for pos := 1; pos <= length; pos++ {
		if pos%3 == 0 {
			out = append(out, digitRunes[0])
			digitRunes = digitRunes[1:]
			continue
		}

		out = append(out, freeRunes[0])
		freeRunes = freeRunes[1:]
	}

	return string(out), nil
}

// IsValid reports whether s could have been produced by New.
func IsValid(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range []rune(s) {
		alphabet := Alphanumeric
		if (i+1)%3 == 0 {
			alphabet = Digits
		}

		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}

	return true
}

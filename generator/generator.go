// Package generator provides cryptographically secure password synthesis
// and strength scoring.
package generator

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// MinLength is the smallest password Generate will produce.
	MinLength = 4
)

var (
	ErrLengthTooShort = errors.New("password length must be at least 4")
	ErrNoCharClasses  = errors.New("at least one character class must be enabled")
)

// Options controls password generation. ExcludeSimilar removes visually
// ambiguous glyphs (l/o, I/O, 0/1) from the eligible pools.
type Options struct {
	Length         int
	UseLower       bool
	UseUpper       bool
	UseDigits      bool
	UseSpecial     bool
	ExcludeSimilar bool
}

// DefaultOptions mirror the generator's defaults in the UI.
func DefaultOptions() Options {
	return Options{
		Length:         16,
		UseLower:       true,
		UseUpper:       true,
		UseDigits:      true,
		UseSpecial:     true,
		ExcludeSimilar: true,
	}
}

// Generate synthesizes a random password. Every enabled character class
// contributes at least one character: one is seeded per class, the rest
// of the length is filled from the combined pool, and the whole sequence
// is shuffled so the seeded characters land at unpredictable positions.
// All randomness comes from crypto/rand.
func Generate(opts Options) (string, error) {
	if opts.Length < MinLength {
		return "", ErrLengthTooShort
	}

	classes := enabledClasses(opts)
	if len(classes) == 0 {
		return "", ErrNoCharClasses
	}

	password := make([]byte, 0, opts.Length)
	for _, class := range classes {
		ch, err := pickRandomChar(class)
		if err != nil {
			return "", err
		}
		password = append(password, ch)
	}

	pool := strings.Join(classes, "")
	for len(password) < opts.Length {
		ch, err := pickRandomChar(pool)
		if err != nil {
			return "", err
		}
		password = append(password, ch)
	}

	if err := shuffleBytes(password); err != nil {
		return "", err
	}
	return string(password), nil
}

// enabledClasses returns the eligible character set for each enabled
// class, with similar glyphs stripped when requested.
func enabledClasses(opts Options) []string {
	var classes []string
	if opts.UseLower {
		chars := lowerChars
		if opts.ExcludeSimilar {
			chars = stripChars(chars, "lo")
		}
		classes = append(classes, chars)
	}
	if opts.UseUpper {
		chars := upperChars
		if opts.ExcludeSimilar {
			chars = stripChars(chars, "IO")
		}
		classes = append(classes, chars)
	}
	if opts.UseDigits {
		chars := digitChars
		if opts.ExcludeSimilar {
			chars = stripChars(chars, "01")
		}
		classes = append(classes, chars)
	}
	if opts.UseSpecial {
		classes = append(classes, specialChars)
	}
	return classes
}

func stripChars(input, toRemove string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if !strings.ContainsRune(toRemove, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pickRandomChar(set string) (byte, error) {
	idx, err := cryptoRandInt(len(set))
	if err != nil {
		return 0, err
	}
	return set[idx], nil
}

// shuffleBytes performs a Fisher-Yates shuffle with crypto/rand indices.
func shuffleBytes(data []byte) error {
	for i := len(data) - 1; i > 0; i-- {
		j, err := cryptoRandInt(i + 1)
		if err != nil {
			return err
		}
		data[i], data[j] = data[j], data[i]
	}
	return nil
}

func cryptoRandInt(max int) (int, error) {
	if max <= 0 {
		return 0, errors.New("max must be > 0")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random index: %w", err)
	}
	return int(n.Int64()), nil
}

// Package randstr draws unbiased random strings over an arbitrary alphabet.
package randstr

import (
	"errors"
	"fmt"
	"io"
)

// ErrAlphabet is returned when the alphabet is empty or longer than 256 bytes.
var ErrAlphabet = errors.New("alphabet must hold between 1 and 256 characters")

// Digits is the alphabet of decimal digits.
const Digits = "0123456789"

// Generate produces an n-character string by reading random bytes from r.
// It uses rejection sampling so every alphabet character is equally
// likely: bytes at or above the largest multiple of len(alphabet) are
// discarded and re-read.
func Generate(r io.Reader, alphabet string, n int) (string, error) {
	size := len(alphabet)
	if size == 0 || size > 256 {
		return "", ErrAlphabet
	}
	threshold := size * (256 / size)

	var buf [1]byte
	result := make([]byte, 0, n)

	for len(result) < n {
		_, err := r.Read(buf[:])
		if err != nil {
			return "", fmt.Errorf("reading random byte: %w", err)
		}
		b := int(buf[0])
		if b >= threshold {
			continue
		}
		result = append(result, alphabet[b%size])
	}

	return string(result), nil
}

// Intn abstracts the index source used by FromIndex.
type Intn interface {
	IntN(n int) int
}

// FromIndex produces an n-character string by drawing alphabet indexes
// from r. It is the infallible counterpart of Generate.
func FromIndex(r Intn, alphabet string, n int) string {
	if alphabet == "" || n <= 0 {
		return ""
	}
	result := make([]byte, n)
	for i := range result {
		result[i] = alphabet[r.IntN(len(alphabet))]
	}
	return string(result)
}

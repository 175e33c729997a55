// Package mfakey generates the human-copyable key that binds an e-mail to
// the external Auth App.
package mfakey

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
)

const (
	// Alphabet leaves out 0 and 1 so the key survives being retyped.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ23456789"

	Length       = 16
	PrefixLength = 4
	RandomLength = Length - PrefixLength

	filler         = 'X'
	fallbackPrefix = "USER"
)

// Generate returns a key for email using crypto/rand.
func Generate(email string) (string, error) {
	return GenerateFrom(rand.Reader, email)
}

// GenerateFrom is Generate with an explicit randomness source.
func GenerateFrom(r io.Reader, email string) (string, error) {
	random, err := randomPart(r, RandomLength)
	if err != nil {
		return "", fmt.Errorf("mfa key: %w", err)
	}
	return Prefix(email) + random, nil
}

// Prefix derives the four-character prefix from the local part of email:
// alphanumerics only, upper-cased, padded with 'X'.
func Prefix(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		local = fallbackPrefix
	}

	var b strings.Builder
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
		if b.Len() == PrefixLength {
			return b.String()
		}
	}
	for b.Len() < PrefixLength {
		b.WriteByte(filler)
	}
	return b.String()
}

// randomPart draws n symbols from Alphabet. Bytes at or above the largest
// multiple of len(Alphabet) are rejected so every symbol is equally likely.
func randomPart(r io.Reader, n int) (string, error) {
	const limit = 256 - 256%len(Alphabet)

	out := make([]byte, 0, n)
	for len(out) < n {
		buf := make([]byte, n-len(out))
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, c := range buf {
			if int(c) >= limit {
				continue
			}
			out = append(out, Alphabet[int(c)%len(Alphabet)])
		}
	}
	return string(out), nil
}

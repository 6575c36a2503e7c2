package util

import (
	"crypto/rand"
	"math/big"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
)

// UIDMatcher restricts usernames to letters, numbers and a few separators.
var UIDMatcher = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ConvertStringToInt32 converts a string to int32.
func ConvertStringToInt32(src string) (int32, error) {
	parsed, err := strconv.ParseInt(src, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(parsed), nil
}

// HasPrefixes returns true if the string s has any of the given prefixes.
func HasPrefixes(src string, prefixes ...string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(src, prefix) {
			return true
		}
	}
	return false
}

// ValidateEmail validates the email.
func ValidateEmail(email string) bool {
	if _, err := mail.ParseAddress(email); err != nil {
		return false
	}
	return true
}

var letters = []rune("0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// RandomString returns a random string with length n.
func RandomString(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		// crypto/rand rather than math/rand: the secret this feeds must not
		// be guessable from a seeded generator.
		randNum, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		if _, err := sb.WriteRune(letters[randNum.Uint64()]); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// CleanISBN strips everything but digits and a trailing X check digit.
func CleanISBN(isbn string) string {
	var sb strings.Builder
	for _, r := range isbn {
		if (r >= '0' && r <= '9') || r == 'X' || r == 'x' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

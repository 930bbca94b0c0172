// Package validate holds the form validation rules shared by the browser
// client and the dev API, so a payload rejected on one side is rejected on
// the other too.
package validate

import (
	"errors"
	"net/url"
	"strings"
)

const passwordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

var (
	ErrPasswordComplexity = errors.New("Password must contain at least one uppercase letter, one lowercase letter, one number, and one symbol")
	ErrPasswordLength     = errors.New("Password must be at least 8 characters long")
	ErrInvalidURL         = errors.New("Please enter a valid URL")
)

// Password enforces the upstream complexity rule: uppercase, lowercase,
// digit and symbol, minimum 8 characters. Complexity is reported before
// length, matching the order users see the messages in.
func Password(password string) error {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return ErrPasswordComplexity
	}
	if len(password) < 8 {
		return ErrPasswordLength
	}
	return nil
}

// URL accepts absolute URLs with an explicit host. Tighter than the
// browser's URL constructor, which also takes scheme-only forms like
// mailto: and tel:; the referral links these fields hold are always
// http(s), so those forms are rejected on purpose.
func URL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

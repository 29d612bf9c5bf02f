// Package validate implements the pure credential checks that run before any
// database interaction. Rejections here never create partial state.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

// Validation errors. Both are decided entirely in-process.
var (
	// ErrEmailFormat indicates the email does not match the accepted grammar.
	ErrEmailFormat = errors.New("invalid email format")
	// ErrPasswordFormat indicates the password misses a required character class.
	ErrPasswordFormat = errors.New("invalid password format")
)

// emailPattern accepts ASCII addresses only: dot-separated atoms in the
// local part, an @, and a domain of at least two dot-separated labels.
// Internationalized addresses are out of scope.
var emailPattern = regexp.MustCompile(
	"^[a-z0-9!#$%&'*+/=?^_`{|}~-]+(\\.[a-z0-9!#$%&'*+/=?^_`{|}~-]+)*" +
		"@[a-z0-9]+([a-z0-9-]*[a-z0-9])?(\\.[a-z0-9]+([a-z0-9-]*[a-z0-9])?)+$")

// specialChars is the fixed set of accepted password special characters.
const specialChars = "@$!%*?&#"

// Email reports whether the address matches the accepted ASCII grammar.
func Email(email string) bool {
	return emailPattern.MatchString(email)
}

// Password reports whether the password is at least 8 characters long and
// contains an uppercase letter, a lowercase letter, a digit, and one of
// @$!%*?&#. Other characters are allowed but count toward no class.
// Single pass with early exit once all four classes are observed.
func Password(password string) bool {
	if len(password) < 8 {
		return false
	}

	var upper, lower, digit, special bool
	for i := 0; i < len(password); i++ {
		switch c := password[i]; {
		case c >= 'A' && c <= 'Z':
			upper = true
		case c >= 'a' && c <= 'z':
			lower = true
		case c >= '0' && c <= '9':
			digit = true
		case strings.IndexByte(specialChars, c) >= 0:
			special = true
		}
		if upper && lower && digit && special {
			return true
		}
	}
	return false
}

// Signup checks both signup credentials, reporting the first failure.
func Signup(email, password string) error {
	if !Email(email) {
		return ErrEmailFormat
	}
	if !Password(password) {
		return ErrPasswordFormat
	}
	return nil
}

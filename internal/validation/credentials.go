// Package validation contains input validation helpers shared by handlers
// and services.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

const (
	passwordMinLength = 12
	passwordMaxLength = 128
	usernameMinLength = 3
	usernameMaxLength = 32
	emailMaxLength    = 254
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*[a-zA-Z0-9]$`)

// ValidatePassword enforces the password policy: length bounds and at least
// one uppercase letter, lowercase letter, digit and special character.
func ValidatePassword(password string) error {
	runes := []rune(password)
	if len(runes) < passwordMinLength {
		return fmt.Errorf("password must be at least %d characters", passwordMinLength)
	}
	if len(runes) > passwordMaxLength {
		return fmt.Errorf("password must be at most %d characters", passwordMaxLength)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain an uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain a lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain a digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain a special character")
	}

	return nil
}

// ValidateUsername enforces the username policy: 3-32 characters of letters,
// digits, underscores and hyphens, not starting or ending with a separator.
func ValidateUsername(username string) error {
	if len(username) < usernameMinLength {
		return fmt.Errorf("username must be at least %d characters", usernameMinLength)
	}
	if len(username) > usernameMaxLength {
		return fmt.Errorf("username must be at most %d characters", usernameMaxLength)
	}
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username may only contain letters, numbers, underscores and hyphens, and must start and end with a letter or number")
	}
	return nil
}

// ValidateEmail checks address format and the RFC 5321 overall length limit.
func ValidateEmail(email string) error {
	if len(email) > emailMaxLength {
		return fmt.Errorf("email must be at most %d characters", emailMaxLength)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	if strings.HasSuffix(email, ".") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

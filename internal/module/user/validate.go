package user

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const (
	minPasswordLength = 8
	minFullNameLength = 2
	maxFullNameLength = 100
	passwordSpecials  = "@$!%*?&_.#^()-"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return errors.New("please enter a valid email address")
	}
	return nil
}

func validateFullName(name string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < minFullNameLength {
		return errors.New("full name must be at least 2 characters")
	}
	if n > maxFullNameLength {
		return errors.New("full name is too long")
	}
	return nil
}

// validatePasswordStrength 至少 8 位，包含大小写字母、数字和特殊字符，且不允许其他字符
func validatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case ch >= 'a' && ch <= 'z':
			hasLower = true
		case ch >= 'A' && ch <= 'Z':
			hasUpper = true
		case ch >= '0' && ch <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSpecials, ch):
			hasSpecial = true
		default:
			return errors.New("password may only contain letters, digits and " + passwordSpecials)
		}
	}

	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return errors.New("password must include an uppercase letter, lowercase letter, number, and special character")
	}
	return nil
}

package user

import (
	"fmt"
	"strings"
	"unicode"

	"collection-crm/internal/pkg/apperrors"
)

// commonPasswords is the blocklist checked case-insensitively during password
// resets. Small on purpose; the real defence is the composition rule.
var commonPasswords = map[string]struct{}{
	"password":   {},
	"password1":  {},
	"password123": {},
	"12345678":   {},
	"123456789":  {},
	"qwerty123":  {},
	"admin123":   {},
	"letmein123": {},
	"welcome1":   {},
	"iloveyou1":  {},
}

// ValidatePassword enforces the reset-password policy: at least 8 characters
// containing upper case, lower case and a digit, and not on the blocklist.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters", apperrors.ErrWeakPassword)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: must contain upper case, lower case and a digit", apperrors.ErrWeakPassword)
	}

	if _, blocked := commonPasswords[strings.ToLower(password)]; blocked {
		return fmt.Errorf("%w: password is too common", apperrors.ErrWeakPassword)
	}
	return nil
}

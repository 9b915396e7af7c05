package apperrors

import (
	"errors"
	"strings"
)

// friendlySubstrings maps fragments of raw backend errors to messages safe to
// show a user. Checked only after the sentinel matches fail, so schema details
// in constraint names never reach the client.
var friendlySubstrings = []struct {
	fragment string
	message  string
}{
	{"duplicate key", "This record already exists."},
	{"violates foreign key", "A linked record is missing or was removed."},
	{"violates check constraint", "One of the values is out of the allowed range."},
	{"connection refused", "The service is temporarily unavailable. Please try again."},
	{"context deadline exceeded", "The request took too long. Please try again."},
}

// FriendlyMessage translates any error into user-facing text. Authorization
// failures deliberately collapse to a generic message.
func FriendlyMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthorized):
		return "You are not permitted to perform this action."
	case errors.Is(err, ErrLoanAlreadyActive):
		return "This customer already has an active loan. Close it before creating a new one."
	case errors.Is(err, ErrInsufficientFunds):
		return "Fund balance is not sufficient for this disbursal."
	case errors.Is(err, ErrOutstandingRemaining):
		return "The loan still has an outstanding balance and cannot be closed."
	case errors.Is(err, ErrWeakPassword):
		return "Password must be at least 8 characters with upper case, lower case and a digit."
	case errors.Is(err, ErrRateLimited):
		return "Too many attempts. Please wait before trying again."
	case errors.Is(err, ErrNotFound):
		return "The requested record was not found."
	case errors.Is(err, ErrAlreadyExists):
		return "This record already exists."
	}

	raw := err.Error()
	for _, m := range friendlySubstrings {
		if strings.Contains(raw, m.fragment) {
			return m.message
		}
	}
	return "Something went wrong. Please try again."
}

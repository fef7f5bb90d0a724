package entity

import (
	"errors"
	"fmt"
)

// ErrUnknownAdminFlag is returned when a stored admin flag is neither "true" nor "false"
var ErrUnknownAdminFlag = errors.New("unknown admin flag")

// Caller is the authenticated user making a request
type Caller struct {
	ID      int64 `json:"id"`
	IsAdmin bool  `json:"is_admin"`
}

// ParseAdminFlag converts the stored string flag into a boolean. Only the
// literals "true" and "false" are accepted.
func ParseAdminFlag(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownAdminFlag, raw)
	}
}

// FormatAdminFlag is the inverse of ParseAdminFlag
func FormatAdminFlag(isAdmin bool) string {
	if isAdmin {
		return "true"
	}
	return "false"
}

// Package store persists users and cafes through gorm. Callers match the
// sentinel errors below with errors.Is.
package store

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateName  = errors.New("a cafe with that name already exists")
	ErrDuplicateEmail = errors.New("email already registered")
)

// isUniqueViolation reports whether err comes from a unique index. gorm
// translates it when the dialector supports it; the message check covers
// drivers that do not.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

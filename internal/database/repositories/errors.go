package repositories

import (
	"errors"
	"strings"
)

// Common repository errors
var (
	ErrNotFound          = errors.New("entity not found")
	ErrDuplicateKey      = errors.New("duplicate key violation")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// isDuplicateKeyError recognizes unique violations of postgres and sqlite
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

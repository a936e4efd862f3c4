package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// BatchError records one failed item of a batch operation. The rest of the
// batch keeps going; the caller reports 207 when this list is non-empty.
type BatchError struct {
	Item    interface{} `json:"item"`
	Message string      `json:"message"`
}

// isDuplicateKey matches unique-constraint violations across the drivers we
// run against (pgx in production, sqlite in tests).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

package postgres

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes surfaced through pgconn error messages.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	// Only reported when the dialector translates errors.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, pgUniqueViolation) ||
		strings.Contains(errMsg, "duplicate key value")
}

func isNotNullConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, pgNotNullViolation) ||
		strings.Contains(errMsg, "null value in column")
}

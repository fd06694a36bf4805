// Package repository provides the data access layer over GORM.
package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicate reports whether err is a unique-constraint violation. GORM's
// error translation covers the MySQL driver; the string checks cover
// dialects without translation support (sqlite in tests).
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

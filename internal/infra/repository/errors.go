package repository

import (
	"errors"
	"strings"

	repo "github.com/zeinnaushad/elevate/internal/repository"

	"gorm.io/gorm"
)

// duplicateOr maps a unique index violation to repo.ErrDuplicate and passes anything else through.
// The message check covers drivers that do not implement gorm's error translation.
func duplicateOr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return repo.ErrDuplicate
	}
	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "SQLSTATE 23505") {
		return repo.ErrDuplicate
	}
	return err
}

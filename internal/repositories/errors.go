package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/apperrors"

	"gorm.io/gorm"
)

// translate classifies a store error. Errors that are already classified pass
// through untouched; anything unrecognised is an infrastructure failure.
func translate(err error, action string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.Wrap(apperrors.NotFound, err, "%s: record not found", action)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Wrap(apperrors.Conflict, err, "%s: record already exists", action)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Wrap(apperrors.NotFound, err, "%s: referenced record not found", action)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

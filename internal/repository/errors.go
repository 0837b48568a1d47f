package repository

import (
	"errors"

	"gorm.io/gorm"

	"sink_quoter/internal/apperr"
)

// notFound translates gorm's missing-row error into the engine's NotFound kind.
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return err
}

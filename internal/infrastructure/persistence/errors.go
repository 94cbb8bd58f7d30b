package persistence

import (
	"errors"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/domain/shared"
	"gorm.io/gorm"
)

// likeEscape is appended to LIKE conditions built from containsPattern
const likeEscape = ` ESCAPE '\'`

// translateError maps GORM errors onto domain errors. The database must be
// opened with TranslateError for dialect specific key violations to surface
// as gorm errors.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrConflict
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return shared.ErrInvalidInput
	default:
		return err
	}
}

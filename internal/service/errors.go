package service

import (
	"github.com/noah-isme/school-results-api/internal/models"
	"github.com/noah-isme/school-results-api/pkg/database"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
)

// storeError maps a repository failure to an application error.
func storeError(err error, message string) error {
	if database.IsUnavailable(err) {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, message)
	}
	return appErrors.Internal(err, message)
}

// writeError additionally maps unique and foreign key violations raised by a write.
func writeError(err error, message, conflictMessage string) error {
	switch {
	case database.IsUniqueViolation(err):
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, conflictMessage)
	case database.IsForeignKeyViolation(err):
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "referenced record does not exist")
	default:
		return storeError(err, message)
	}
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func pagination(page, size, total int) *models.Pagination {
	page, size = models.Normalize(page, size)
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

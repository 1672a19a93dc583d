package employee

import (
	"errors"

	"go-staffdir/internal/shared/apperror"
)

// mapStoreError folds raw store failures into the shared taxonomy. AppErrors
// pass through untouched so not-found and conflict keep their status.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	return apperror.Wrap(
		err,
		apperror.CodeStoreUnavailable,
		"Record store request failed",
		apperror.ErrStoreUnavailable.HTTPStatus,
	)
}

package employeeerrors

import (
	"net/http"

	"go-staffdir/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrConfirmationDeclined = apperror.New(
		apperror.CodeAborted,
		"Operation cancelled by user",
		http.StatusConflict,
	)
	ErrOperationPending = apperror.New(
		apperror.CodeInvalidState,
		"Another operation is already in progress for this target",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Status must be Active or Inactive",
		http.StatusBadRequest,
	)
)

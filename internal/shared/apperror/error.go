package apperror

import "fmt"

// AppError is the one error shape that crosses layer boundaries. Code is the
// stable machine-readable identifier from codes.go, Message is safe to show
// to clients, HTTPStatus is what the transport writes, and Err keeps the
// underlying cause reachable for errors.Is/As.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New builds an AppError with no underlying cause; use it for the sentinel
// error values modules declare up front.
func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap attaches the taxonomy to a lower-level failure, keeping the cause in
// the chain. A nil err yields nil so call sites can wrap unconditionally.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

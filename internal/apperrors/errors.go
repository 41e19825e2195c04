package apperrors

import (
	"errors"
	"net/http"
)

// ErrUnauthenticated indicates that no principal could be resolved for the request.
var ErrUnauthenticated = errors.New("not authenticated")

// ErrUnauthorized indicates that the principal lacks the role or tenant required for an action.
var ErrUnauthorized = errors.New("not authorized")

// ErrNotFound indicates that a requested resource could not be found within the caller's tenant.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrReferentialConflict indicates that a delete or update is blocked by dependent records.
var ErrReferentialConflict = errors.New("referential conflict")

// ErrPersistence indicates an unexpected storage failure.
var ErrPersistence = errors.New("persistence error")

// ErrRefreshTokenExpired is returned when a stored refresh token is past its expiry.
var ErrRefreshTokenExpired = errors.New("refresh token expired")

// AppError carries an HTTP status, a user-safe message and optional field messages.
// It unwraps to both its kind sentinel and the underlying cause.
type AppError struct {
	Code    int               `json:"-"`
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
	kind    error
	Err     error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.kind != nil {
		errs = append(errs, e.kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewAppError builds an error whose kind is derived from the status code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, kind: kindForCode(code), Err: err}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, kind: ErrNotFound}
}

func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, kind: ErrValidation}
}

// NewFieldValidationError keeps per-field messages so forms can re-render them.
func NewFieldValidationError(fields map[string]string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: "validation failed", Fields: fields, kind: ErrValidation}
}

func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, kind: ErrDuplicate}
}

func NewReferentialConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, kind: ErrReferentialConflict}
}

func NewUnauthenticatedError() *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: "authentication required", kind: ErrUnauthenticated}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, kind: ErrUnauthorized}
}

func NewPersistenceError(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, kind: ErrPersistence, Err: err}
}

func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, kind: ErrValidation}
}

func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, kind: ErrPersistence}
}

func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: http.StatusGatewayTimeout, Message: message}
}

func kindForCode(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrValidation
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrDuplicate
	case http.StatusInternalServerError:
		return ErrPersistence
	default:
		return nil
	}
}

// StatusCode maps any error to the HTTP status a handler should answer with.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrReferentialConflict), errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

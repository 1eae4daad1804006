package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
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

// Is matches AppErrors by code so wrapped copies produced by WithError
// still compare equal to their sentinel under errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing credentials",
		StatusCode: 401,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Access denied",
		StatusCode: 403,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrInvalidCredentials = &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Email or password is incorrect",
		StatusCode: 401,
	}

	ErrEmailTaken = &AppError{
		Code:       "EMAIL_TAKEN",
		Message:    "An account with this email already exists",
		StatusCode: 409,
	}

	ErrUserNotFound = &AppError{
		Code:       "USER_NOT_FOUND",
		Message:    "User not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrInvalidFile = &AppError{
		Code:       "INVALID_FILE",
		Message:    "Invalid or empty certificate file",
		StatusCode: 422,
	}

	ErrFileTooLarge = &AppError{
		Code:       "FILE_TOO_LARGE",
		Message:    "Certificate file exceeds the maximum allowed size",
		StatusCode: 413,
	}

	ErrCertificateNotFound = &AppError{
		Code:       "CERTIFICATE_NOT_FOUND",
		Message:    "Certificate not found",
		StatusCode: 404,
	}

	ErrBackendUnavailable = &AppError{
		Code:       "BACKEND_UNAVAILABLE",
		Message:    "Verification backend is unreachable",
		StatusCode: 502,
	}

	ErrBackendRejected = &AppError{
		Code:       "BACKEND_REJECTED",
		Message:    "Verification backend rejected the request",
		StatusCode: 502,
	}

	ErrShapeMismatch = &AppError{
		Code:       "SHAPE_MISMATCH",
		Message:    "Verification backend returned an unexpected response shape",
		StatusCode: 502,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded, please try again later",
		StatusCode: 429,
	}
)

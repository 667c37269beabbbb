package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// AppError is the application error type. Business rules return these;
// the handler boundary maps them to HTTP responses.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// WithDetails returns a copy carrying extra detail payload, so the
// predeclared sentinels are never mutated.
func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// WithMessage returns a copy with a different user-facing message.
func (e *AppError) WithMessage(message string) *AppError {
	clone := *e
	clone.Message = message
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

// Is wraps the standard errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As wraps the standard errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predeclared errors. The external contract maps conflicts to 400;
// the code field keeps them distinguishable.
var (
	// Authentication. Inactive-account failures all answer 401 with a
	// descriptive message; the code preserves the internal reason.
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
	ErrAccountUnverified  = New(CodeAccountUnverified, "Please verify your email address", http.StatusUnauthorized)
	ErrAccountDeactivated = New(CodeAccountDeactivated, "Account is deactivated", http.StatusUnauthorized)
	ErrVerificationFailed = New(CodeVerificationFailed, "Account verification failed", http.StatusUnauthorized)

	// Users
	ErrUserNotFound       = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists = New(CodeEmailAlreadyExists, "Email already exists", http.StatusBadRequest)
	ErrWeakPassword       = New(CodeWeakPassword, "Password must be at least 8 characters", http.StatusBadRequest)

	// Email verification
	ErrInvalidCodeFormat       = New(CodeInvalidCodeFormat, "Verification code must be 32 lowercase hex characters", http.StatusBadRequest)
	ErrVerificationCodeUnknown = New(CodeVerificationCodeUnknown, "Verification code not found", http.StatusNotFound)
	ErrVerificationCodeExpired = New(CodeVerificationCodeExpired, "Verification code has expired", http.StatusBadRequest)
	ErrVerificationCodeUsed    = New(CodeVerificationCodeUsed, "Verification code has already been used", http.StatusBadRequest)
	ErrAlreadyVerified         = New(CodeAlreadyVerified, "Email is already verified", http.StatusBadRequest)

	// Roles and resources
	ErrRoleNotFound       = New(CodeRoleNotFound, "Role not found", http.StatusNotFound)
	ErrResourceNotFound   = New(CodeResourceNotFound, "Resource not found", http.StatusNotFound)
	ErrAssignmentNotFound = New(CodeAssignmentNotFound, "Role assignment not found", http.StatusNotFound)

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)
)

func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}

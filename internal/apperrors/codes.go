package apperrors

// Machine-readable error codes returned in the `code` field of error
// responses. Clients and log queries key off these, not the messages.
const (
	// Authentication
	CodeInvalidCredentials  ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	CodeForbidden           ErrorCode = "FORBIDDEN"
	CodeInvalidToken        ErrorCode = "INVALID_TOKEN"
	CodeAccountUnverified   ErrorCode = "ACCOUNT_UNVERIFIED"
	CodeAccountDeactivated  ErrorCode = "ACCOUNT_DEACTIVATED"
	CodeVerificationFailed  ErrorCode = "VERIFICATION_FAILED"

	// Users
	CodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeWeakPassword       ErrorCode = "WEAK_PASSWORD"

	// Email verification
	CodeInvalidCodeFormat       ErrorCode = "INVALID_CODE_FORMAT"
	CodeVerificationCodeUnknown ErrorCode = "VERIFICATION_CODE_UNKNOWN"
	CodeVerificationCodeExpired ErrorCode = "VERIFICATION_CODE_EXPIRED"
	CodeVerificationCodeUsed    ErrorCode = "VERIFICATION_CODE_USED"
	CodeAlreadyVerified         ErrorCode = "ALREADY_VERIFIED"

	// Roles and resources
	CodeRoleNotFound       ErrorCode = "ROLE_NOT_FOUND"
	CodeResourceNotFound   ErrorCode = "RESOURCE_NOT_FOUND"
	CodeAssignmentNotFound ErrorCode = "ASSIGNMENT_NOT_FOUND"

	// Generic
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

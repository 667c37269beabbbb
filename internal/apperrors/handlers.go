package apperrors

import (
	"net/http"

	"windbooks_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error body. Stack traces and wrapped
// causes stay server-side; clients get code + message only.
type ErrorResponse struct {
	Error *AppError `json:"error"`
}

// HandleError writes an AppError to the gin response. Unknown error
// types are wrapped as internal errors with the cause hidden.
func HandleError(c *gin.Context, err error) {
	var appErr *AppError
	if !As(err, &appErr) {
		appErr = New(CodeInternalError, "Internal server error", http.StatusInternalServerError)
	}

	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.CtxWithError(c.Request.Context(), "server error", err, "path", c.Request.URL.Path)
	}

	c.JSON(appErr.HTTPCode, ErrorResponse{Error: appErr})
}

// HandleValidationError converts gin binding failures to the standard
// validation error shape.
func HandleValidationError(c *gin.Context, err error) {
	HandleError(c, ErrValidationFailed.WithDetails(gin.H{"details": err.Error()}))
}

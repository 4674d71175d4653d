// internal/api/response_helpers.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/lingualife/lingualife/internal/errors"
)

// APIResponse is the envelope for every JSON response.
type APIResponse struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *APIError `json:"error,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError carries a stable error code alongside the message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ResponseHelper builds uniform API responses.
type ResponseHelper struct{}

func NewResponseHelper() *ResponseHelper {
	return &ResponseHelper{}
}

// Success writes a 200 response.
func (rh *ResponseHelper) Success(c *gin.Context, data any, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}

	if len(message) > 0 {
		response.Message = message[0]
	}

	c.JSON(http.StatusOK, response)
}

// Created writes a 201 response.
func (rh *ResponseHelper) Created(c *gin.Context, data any, message ...string) {
	response := &APIResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}

	if len(message) > 0 {
		response.Message = message[0]
	} else {
		response.Message = "resource created"
	}

	c.JSON(http.StatusCreated, response)
}

// Error writes an error response with the given status and code.
func (rh *ResponseHelper) Error(c *gin.Context, statusCode int, errorCode, message string, details ...string) {
	apiError := &APIError{
		Code:    errorCode,
		Message: message,
	}

	if len(details) > 0 {
		apiError.Details = details[0]
	}

	response := &APIResponse{
		Success:   false,
		Error:     apiError,
		Timestamp: time.Now(),
		RequestID: rh.getRequestID(c),
	}

	c.JSON(statusCode, response)
}

// BadRequest writes a 400 response.
func (rh *ResponseHelper) BadRequest(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusBadRequest, ErrorBadRequest, message, details...)
}

// NotFound writes a 404 response.
func (rh *ResponseHelper) NotFound(c *gin.Context, code, message string, details ...string) {
	if code == "" {
		code = ErrorNotFound
	}
	rh.Error(c, http.StatusNotFound, code, message, details...)
}

// Forbidden writes a 403 response.
func (rh *ResponseHelper) Forbidden(c *gin.Context, code, message string, details ...string) {
	if code == "" {
		code = ErrorForbidden
	}
	rh.Error(c, http.StatusForbidden, code, message, details...)
}

// InternalError writes a 500 response.
func (rh *ResponseHelper) InternalError(c *gin.Context, message string, details ...string) {
	rh.Error(c, http.StatusInternalServerError, ErrorInternalError, message, details...)
}

// FromError maps a classified application error onto an HTTP response.
func (rh *ResponseHelper) FromError(c *gin.Context, err error) {
	var appError *apperrors.AppError
	switch {
	case apperrors.IsNotFoundError(err):
		appError = asAppError(err)
		rh.Error(c, http.StatusNotFound, appError.Code, appError.Message)
	case apperrors.IsForbiddenError(err):
		appError = asAppError(err)
		rh.Error(c, http.StatusForbidden, appError.Code, appError.Message)
	case apperrors.IsValidationError(err):
		appError = asAppError(err)
		rh.Error(c, http.StatusBadRequest, appError.Code, appError.Message)
	default:
		rh.InternalError(c, err.Error())
	}
}

func asAppError(err error) *apperrors.AppError {
	var appError *apperrors.AppError
	if errors.As(err, &appError) {
		return appError
	}
	return apperrors.NewProcessingError(err.Error(), err)
}

func (rh *ResponseHelper) getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

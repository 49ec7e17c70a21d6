package utils

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/threatflux/secureReviewGo/internal/models"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

// maxRequestBody bounds JSON request bodies
const maxRequestBody = 1 << 20

// ErrorResponse writes the standard error envelope. The message is also
// copied to the top-level "detail" field.
func ErrorResponse(c *gin.Context, statusCode int, code, message string, details interface{}) {
	entry := logrus.WithFields(logrus.Fields{
		"status_code": statusCode,
		"error_code":  code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"request_id":  c.GetString(RequestIDKey),
	})

	// Don't log 4xx errors as errors, they're client errors
	if statusCode >= 500 {
		entry.Error("API error response")
	} else {
		entry.Debug("API client error response")
	}

	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{
		Success: false,
		Error: models.ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
		Detail: message,
		Meta:   meta(c),
	})
}

// SuccessResponse writes data as a bare JSON payload. The analysis contract
// answers without an envelope.
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func meta(c *gin.Context) models.MetadataResponse {
	return models.MetadataResponse{
		Timestamp: time.Now().UTC(),
		RequestID: c.GetString(RequestIDKey),
	}
}

// BadRequest returns a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

// NotFound returns a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "The requested resource was not found"
	}
	ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", message, nil)
}

// UnprocessableEntity returns a 422 response carrying validation details
func UnprocessableEntity(c *gin.Context, message string, details interface{}) {
	ErrorResponse(c, http.StatusUnprocessableEntity, "UNPROCESSABLE_ENTITY", message, details)
}

// TooManyRequests returns a 429 Too Many Requests response
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Too many requests, please try again later"
	}
	ErrorResponse(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", message, nil)
}

// InternalServerError returns a 500 Internal Server Error response
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "An internal server error occurred"
	}
	ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", message, nil)
}

// BindJSON binds a size-limited request body, answering 400 on failure
func BindJSON(c *gin.Context, obj interface{}) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody)

	if err := c.ShouldBindJSON(obj); err != nil {
		BadRequest(c, "Invalid JSON format: "+err.Error())
		return false
	}
	return true
}

// GenerateRequestID returns a new random request id
func GenerateRequestID() string {
	return uuid.NewString()
}

// GetRequestID retrieves the request ID from the context
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return GenerateRequestID()
}

package middleware

import (
	"github.com/freshline/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequestIDKey is where logger.GinMiddleware stores the request id
const RequestIDKey = "request_id"

// RequestID returns the id assigned to the current request
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Abort stops the chain with an error body in the standard envelope
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, RequestID(c)))
}

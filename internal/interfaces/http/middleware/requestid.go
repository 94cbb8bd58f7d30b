package middleware

import (
	"github.com/IndraniBorra/InvoiceManagementStore/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader    = "X-Request-ID"
	MaxRequestIDLength = 128
)

// RequestID tags the request with the client's X-Request-ID, truncated to
// MaxRequestIDLength, or a fresh UUID, and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		switch {
		case id == "":
			id = uuid.NewString()
		case len(id) > MaxRequestIDLength:
			id = id[:MaxRequestIDLength]
		}
		c.Set(logger.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the ID assigned by RequestID, falling back to the raw header.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(logger.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDHeader)
}

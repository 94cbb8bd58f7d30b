package middleware

import (
	"net/http"

	"github.com/IndraniBorra/InvoiceManagementStore/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit answers 413 when Content-Length exceeds limit. Bodies without a
// declared length are wrapped in http.MaxBytesReader, so decoding stops at
// limit and the handler reports PAYLOAD_TOO_LARGE.
func BodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if declared := c.Request.ContentLength; declared > limit {
			resp := dto.NewErrorResponseWithRequestID(dto.ErrCodePayloadTooLarge, "Request body exceeds maximum allowed size", GetRequestID(c))
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, resp)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}

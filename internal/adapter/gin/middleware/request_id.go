package middleware

import (
	"user-record-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// RequestID returns a Gin middleware that propagates the caller's X-Request-ID
// or generates a new one, and stores it in the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = logger.NewRequestID()
		}

		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Set(string(logger.RequestIDKey), id)
		c.Header(HeaderRequestID, id)

		c.Next()
	}
}

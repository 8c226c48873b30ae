package middleware

import (
	"crypto/rand"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"maternal-health-backend/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with the caller's X-Request-ID or a fresh ULID,
// on the gin context, the request context and the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = newRequestID(time.Now())
		}

		c.Set(logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))
		c.Header(RequestIDHeader, requestID)

		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "unknown".
func GetRequestID(c *gin.Context) string {
	requestID := c.GetString(logger.RequestIDKey)
	if requestID == "" {
		return "unknown"
	}
	return requestID
}

func newRequestID(t time.Time) string {
	id, err := ulid.New(ulid.Timestamp(t), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return ulid.Make().String()
	}
	return id.String()
}

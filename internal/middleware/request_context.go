package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/club-admin/internal/audit"
)

const RequestIDHeader = "X-Request-ID"

// RequestContext stores the request metadata the audit ledger stamps on
// entries. Register it before anything that may write to the ledger.
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		info := audit.RequestInfo{
			Route:     c.FullPath(),
			Method:    c.Request.Method,
			URL:       fullURL(c),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RequestID: requestID,
		}
		c.Request = c.Request.WithContext(audit.WithRequest(c.Request.Context(), info))

		c.Next()
	}
}

func fullURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()
}

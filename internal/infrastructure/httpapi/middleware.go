package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bnema/comet/internal/infrastructure/messaging"
	"github.com/bnema/comet/internal/infrastructure/metrics"
	"github.com/bnema/comet/internal/logging"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// requestContext tags each request with an ID and a request-scoped logger.
// A caller-supplied ID is kept when it parses as a UUID.
func requestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		ctx := logging.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		logging.FromContext(ctx).Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	}
}

// metricsMiddleware records request counts and latency by route template.
func metricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// extensionSchemes are the origin schemes browsers give extension pages.
var extensionSchemes = []string{"chrome-extension://", "moz-extension://", "safari-web-extension://"}

func isExtensionOrigin(origin string) bool {
	for _, scheme := range extensionSchemes {
		if strings.HasPrefix(origin, scheme) && len(origin) > len(scheme) {
			return true
		}
	}
	return false
}

// corsMiddleware allows the configured origins. With none configured only
// browser extension origins are allowed. Requests from any other origin are
// rejected with 403, simple requests included.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:           []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:           []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders:          []string{RequestIDHeader},
		AllowBrowserExtensions: true,
		MaxAge:                 12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOriginFunc = isExtensionOrigin
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// requireJSON rejects bodies that are not declared as JSON. Pages cannot
// send application/json cross-origin without a preflight.
func requireJSON() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.ContentType() != gin.MIMEJSON {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, messaging.ErrorResponse{
				Error: "content type must be " + gin.MIMEJSON,
			})
			return
		}
		c.Next()
	}
}

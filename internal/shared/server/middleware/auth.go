package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"policy-backend/internal/shared/server/respond"
)

// Paths reachable without a key so probes and dashboards keep working.
var openPaths = map[string]struct{}{
	"/":              {},
	"/metrics":       {},
	"/api/v1/health": {},
}

// APIKey validates the X-API-Key shared secret on every request. When no
// token is configured the middleware allows all traffic, which is only
// intended for local development.
func APIKey(token string) gin.HandlerFunc {
	token = strings.TrimSpace(token)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if _, ok := openPaths[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		if token == "" {
			c.Next()
			return
		}

		provided := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if provided == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid or missing API key", nil)
			return
		}

		c.Next()
	}
}

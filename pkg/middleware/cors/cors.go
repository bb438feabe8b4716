// Package cors implements the origin policy for the browser front-end.
package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const defaultAllowedHeaders = "Authorization, Content-Type, X-Requested-With, X-Request-ID"

// New returns a CORS middleware restricted to the configured origins. An
// empty list allows every origin, which is how local development runs.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		origin := c.GetHeader("Origin")

		switch {
		case origin != "":
			if _, ok := originSet[strings.TrimRight(origin, "/")]; ok || allowAll {
				h.Set("Access-Control-Allow-Origin", origin)
			}
		case allowAll:
			h.Set("Access-Control-Allow-Origin", "*")
		}

		h.Set("Vary", "Origin")
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Max-Age", "600")

		// Preflights may ask for extra headers; reflect them rather than
		// maintaining a second list.
		if requested := c.GetHeader("Access-Control-Request-Headers"); requested != "" {
			h.Set("Access-Control-Allow-Headers", requested)
		} else {
			h.Set("Access-Control-Allow-Headers", defaultAllowedHeaders)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

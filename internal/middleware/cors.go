package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// CORSConfig contains configuration for CORS middleware
type CORSConfig struct {
	// AllowOrigins lists permitted origins; "*" allows any and "*.example.com" any subdomain
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig returns the default CORS configuration. The analysis
// API only serves GET and POST.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
}

// CORS returns the middleware allowing origins, with the remaining defaults
func CORS(origins ...string) gin.HandlerFunc {
	cfg := DefaultCORSConfig()
	if len(origins) > 0 {
		cfg.AllowOrigins = origins
	}
	return CORSWithConfig(cfg)
}

// CORSWithConfig returns the CORS middleware with custom configuration
func CORSWithConfig(config CORSConfig) gin.HandlerFunc {
	origins := normalizeOrigins(config.AllowOrigins)
	methods := strings.Join(config.AllowMethods, ", ")
	headers := strings.Join(config.AllowHeaders, ", ")
	expose := strings.Join(config.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(int(config.MaxAge.Seconds()))

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" || !isOriginAllowed(origins, origin) {
			c.Next()
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Vary", "Origin")
		if config.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if expose != "" {
			c.Header("Access-Control-Expose-Headers", expose)
		}
		c.Next()
	}
}

// normalizeOrigins lower-cases a copy of origins; empty means any
func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	out := make([]string, len(origins))
	for i, o := range origins {
		out[i] = strings.ToLower(strings.TrimSpace(o))
	}
	return out
}

// isOriginAllowed checks if the origin is allowed
func isOriginAllowed(allowed []string, origin string) bool {
	origin = strings.ToLower(origin)
	for _, a := range allowed {
		switch {
		case a == "*", a == origin:
			return true
		case strings.HasPrefix(a, "*.") && strings.HasSuffix(origin, a[1:]):
			return true
		}
	}
	return false
}

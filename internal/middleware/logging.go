package middleware

import (
	"bytes"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/threatflux/secureReviewGo/internal/utils"
)

// bodyRecorder tees the response body into a bounded buffer
type bodyRecorder struct {
	gin.ResponseWriter
	body  *bytes.Buffer
	limit int
}

// Write records at most limit bytes and forwards everything
func (w *bodyRecorder) Write(b []byte) (int, error) {
	if room := w.limit - w.body.Len(); room > 0 {
		if len(b) > room {
			w.body.Write(b[:room])
		} else {
			w.body.Write(b)
		}
	}
	return w.ResponseWriter.Write(b)
}

// WriteString records at most limit bytes and forwards everything
func (w *bodyRecorder) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// LoggingMiddleware logs one entry per request. Request bodies carry
// submitted source code and are never logged.
type LoggingMiddleware struct {
	logger          *logrus.Logger
	logResponseBody bool
	logHeaders      bool
	maxBodyLogSize  int
	skipPrefixes    []string
}

// LoggingOption configures the logging middleware
type LoggingOption func(*LoggingMiddleware)

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger *logrus.Logger, opts ...LoggingOption) *LoggingMiddleware {
	if logger == nil {
		logger = logrus.New()
	}
	m := &LoggingMiddleware{
		logger:         logger,
		maxBodyLogSize: 1024,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithResponseBodyLogging enables logging of (truncated) response bodies
func WithResponseBodyLogging(enabled bool) LoggingOption {
	return func(m *LoggingMiddleware) {
		m.logResponseBody = enabled
	}
}

// WithHeaderLogging enables logging of request headers
func WithHeaderLogging(enabled bool) LoggingOption {
	return func(m *LoggingMiddleware) {
		m.logHeaders = enabled
	}
}

// WithMaxBodyLogSize sets the maximum number of response bytes logged
func WithMaxBodyLogSize(sizeBytes int) LoggingOption {
	return func(m *LoggingMiddleware) {
		m.maxBodyLogSize = sizeBytes
	}
}

// WithSkipPaths disables logging for requests under the given path prefixes
func WithSkipPaths(prefixes ...string) LoggingOption {
	return func(m *LoggingMiddleware) {
		m.skipPrefixes = append(m.skipPrefixes, prefixes...)
	}
}

func (m *LoggingMiddleware) skipped(path string) bool {
	for _, p := range m.skipPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// redactHeaders copies h with credential-bearing values masked
func redactHeaders(h map[string][]string) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		switch strings.ToLower(k) {
		case "authorization", "cookie", "proxy-authorization", "x-api-key":
			out[k] = []string{"[REDACTED]"}
		default:
			out[k] = v
		}
	}
	return out
}

// Logger returns a gin middleware function for logging requests
func (m *LoggingMiddleware) Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if m.skipped(path) {
			c.Next()
			return
		}

		start := time.Now()
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		var recorder *bodyRecorder
		if m.logResponseBody {
			recorder = &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}, limit: m.maxBodyLogSize}
			c.Writer = recorder
		}

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"status":     status,
			"latency":    time.Since(start).String(),
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       path,
			"route":      c.FullPath(),
			"request_id": c.GetString(utils.RequestIDKey),
			"user_agent": c.Request.UserAgent(),
			"bytes":      c.Writer.Size(),
		}
		if m.logHeaders {
			fields["request_headers"] = redactHeaders(c.Request.Header)
		}
		if recorder != nil {
			fields["response_body"] = recorder.body.String()
		}
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			fields["error"] = msg
		}

		entry := m.logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("Request processed with error")
		case status >= 400:
			entry.Warn("Request processed with warning")
		default:
			entry.Info("Request processed")
		}
	}
}

// RequestIDMiddleware propagates X-Request-ID, generating one when absent
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = utils.GenerateRequestID()
		}
		c.Set(utils.RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

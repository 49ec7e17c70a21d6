package middleware

import (
	"errors"
	"net"
	"net/http/httputil"
	"os"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/threatflux/secureReviewGo/internal/utils"
)

// RecoveryMiddleware turns handler panics into 500 error envelopes
type RecoveryMiddleware struct {
	logger *logrus.Logger
}

// NewRecoveryMiddleware creates a new recovery middleware
func NewRecoveryMiddleware(logger *logrus.Logger) *RecoveryMiddleware {
	if logger == nil {
		logger = logrus.New()
	}
	return &RecoveryMiddleware{logger: logger}
}

// brokenConnection reports whether the panic value is a dead client socket
func brokenConnection(v interface{}) bool {
	err, ok := v.(error)
	if !ok {
		return false
	}
	var ne *net.OpError
	if !errors.As(err, &ne) {
		return false
	}
	var se *os.SyscallError
	if !errors.As(ne.Err, &se) {
		return false
	}
	msg := strings.ToLower(se.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}

// Recovery returns a middleware that recovers from panics
func (m *RecoveryMiddleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}

			dump, _ := httputil.DumpRequest(c.Request, false)
			m.logger.WithFields(logrus.Fields{
				"panic":      v,
				"request":    string(dump),
				"stack":      string(debug.Stack()),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"request_id": c.GetString(utils.RequestIDKey),
			}).Error("[Recovery] Panic recovered")

			if brokenConnection(v) {
				c.Abort()
				return
			}
			utils.InternalServerError(c, "")
		}()
		c.Next()
	}
}

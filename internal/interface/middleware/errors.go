package middleware

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rkrajat/fullstack-monorpo-starter/pkg/apperr"
	"github.com/rkrajat/fullstack-monorpo-starter/pkg/response"
)

// ErrorHandler is the single boundary converting errors recorded on the
// context into HTTP responses. Handlers and middleware call c.Error(err) and
// return; nothing below the routing layer writes error bodies itself.
func ErrorHandler(logger *logrus.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, logger, production, c.Errors.Last().Err, nil)
	}
}

// Recovery converts panics into the same error path as ErrorHandler, with the
// goroutine stack captured at the panic site.
func Recovery(logger *logrus.Logger, production bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		writeError(c, logger, production, fmt.Errorf("panic: %v", rec), debug.Stack())
		c.Abort()
	})
}

func writeError(c *gin.Context, logger *logrus.Logger, production bool, err error, stack []byte) {
	fields := logrus.Fields{
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("request_id"),
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Details != nil {
			fields["details"] = appErr.Details
		}
		if appErr.Operational {
			logger.WithFields(fields).Warn(appErr.Message)
		} else {
			if cause := appErr.Unwrap(); cause != nil {
				fields["error"] = cause.Error()
			}
			logger.WithFields(fields).Error(appErr.Message)
		}
		response.Error(c, appErr.Status, appErr.Message, appErr.Details)
		return
	}

	// Unclassified: generic client message, full detail server-side only.
	if stack == nil {
		stack = debug.Stack()
	}
	fields["error"] = err.Error()
	fields["stack"] = string(stack)
	logger.WithFields(fields).Error("unhandled error")

	var details any
	if !production {
		details = gin.H{"stack": string(stack)}
	}
	response.Error(c, http.StatusInternalServerError, "Internal server error", details)
}

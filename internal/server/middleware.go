package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samujjwal/rental-sub006/ctxutil"
	"github.com/samujjwal/rental-sub006/ecode"
	"github.com/samujjwal/rental-sub006/logging/logger"
	"github.com/samujjwal/rental-sub006/logging/observes"
	"github.com/samujjwal/rental-sub006/net/resp"
)

// traceMiddleware propagates or assigns the request trace ID.
func traceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(ctxutil.TraceHeader); id != "" {
			ctx = ctxutil.SetTraceID(ctx, id)
		}
		ctx, traceID := ctxutil.EnsureTraceID(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Header(ctxutil.TraceHeader, traceID)
		c.Next()
	}
}

// loggerMiddleware creates request logging middleware.
func loggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		keyvals := []any{
			"method", method,
			"path", path,
			"status", status,
			"duration", time.Since(start).String(),
			"ip", c.ClientIP(),
		}
		switch {
		case status >= http.StatusInternalServerError:
			l.Error(c.Request.Context(), "HTTP request", keyvals...)
		case status >= http.StatusBadRequest:
			l.Warn(c.Request.Context(), "HTTP request", keyvals...)
		default:
			l.Info(c.Request.Context(), "HTTP request", keyvals...)
		}
	}
}

// recoveryMiddleware turns panics into a ServerErr envelope.
func recoveryMiddleware(l *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		l.Error(c.Request.Context(), "panic recovered", "panic", recovered, "path", c.Request.URL.Path)
		observes.CaptureError(c.Request.Context(), ecode.New(ecode.ServerErr, "panic recovered"))
		resp.Fail(c.Writer, nil)
		c.Abort()
	})
}

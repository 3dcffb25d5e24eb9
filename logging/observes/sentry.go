package observes

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/samujjwal/rental-sub006/config"
	"github.com/samujjwal/rental-sub006/ctxutil"
)

// NewSentry initializes sentry; without an endpoint it does nothing.
func NewSentry(opt *config.Sentry, name string) error {
	if opt == nil || opt.Endpoint == "" {
		return nil
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              opt.Endpoint,
		AttachStacktrace: true,
		SampleRate:       opt.SampleRate,
		ServerName:       name,
		Release:          opt.Release,
		Environment:      opt.Environment,
	})
}

// CaptureError reports err with the trace id of ctx. It is safe to call
// when sentry is not initialized.
func CaptureError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	if traceID := ctxutil.GetTraceID(ctx); traceID != "" {
		hub.Scope().SetTag(ctxutil.TraceIDKey, traceID)
	}
	hub.CaptureException(err)
}

// FlushSentry waits for buffered events.
func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}

// Package ctxutil carries request scoped values through context.Context.
//
// Every request entering the HTTP layer or the event subscribers gets a
// trace ID that the logger attaches to each entry:
//
//	ctx, traceID := ctxutil.EnsureTraceID(ctx)
//
// Work that must outlive the request, such as indexing triggered by an
// event, derives a detached context that keeps the trace ID:
//
//	ctx, cancel := ctxutil.WithAsyncContext(parent, 10*time.Second)
//	defer cancel()
package ctxutil

/*
Package tracing provides lightweight request tracing for the mailslot
service.

Each HTTP request gets a span carrying a ULID-based trace ID. Trace
context propagates via the X-Trace-ID and X-Span-ID headers, so a
client can stitch its own calls into one trace. Completed spans are
logged asynchronously through zap; the span buffer drops rather than
blocking the request path.

Usage:

	tracer := tracing.New("mailslot", logger)
	router.Use(tracing.HTTPMiddleware(tracer))
*/
package tracing

package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("fixture-difficulty/internal/interfaces/httpapi")

// passthroughSpan is a non-recording span whose End is a no-op, handed out
// when a handler should not open a span of its own.
var passthroughSpan = trace.SpanFromContext(context.Background())

// startSpan opens a child span for a handler method. Requests on filtered
// routes such as /healthz carry no recording parent; those keep the
// passthrough span instead of minting standalone roots.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, passthroughSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, passthroughSpan
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

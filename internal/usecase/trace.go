package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("fixture-difficulty/internal/usecase")

// usecasePassthroughSpan is a non-recording span with a no-op End, used
// when a service call should not open a span of its own.
var usecasePassthroughSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan opens a child span for a service method when the
// request already carries a recording parent; background jobs and tests
// without one keep the passthrough span.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecasePassthroughSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, usecasePassthroughSpan
	}
	return usecaseTracer.Start(ctx, name)
}

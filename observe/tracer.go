package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanName returns the span name used for fingerprint computations of a cache.
// Format: etag.fingerprint.<cache>
func SpanName(cache string) string {
	return "etag.fingerprint." + cache
}

func startFingerprintSpan(ctx context.Context, tracer trace.Tracer, cache, subject string) (context.Context, trace.Span) {
	return tracer.Start(ctx, SpanName(cache),
		trace.WithAttributes(
			attribute.String(AttrCacheName, cache),
			attribute.String(AttrSubject, subject),
			attribute.Bool(AttrError, false),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func endFingerprintSpan(span trace.Span, n int64, err error) {
	span.SetAttributes(attribute.Int64(AttrBytes, n))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool(AttrError, true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

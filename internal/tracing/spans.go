package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Span names.
const (
	SpanPageHighlight = "page.highlight"
	SpanBlockProcess  = "blocks.process"
	SpanHTTPPrefix    = "http."
)

// Span attribute keys.
const (
	AttrBlockID       = "block.id"
	AttrBlockLanguage = "block.language"
	AttrBlockBytes    = "block.bytes"
	AttrBlockResult   = "block.result"
	AttrSegments      = "block.segments"
	AttrFingerprint   = "rules.fingerprint"
	AttrPageBlocks    = "page.blocks"
	AttrPageChanged   = "page.changed"
	AttrHTTPRoute     = "http.route"
	AttrHTTPStatus    = "http.status_code"
)

// Start opens an internal span on tracer. A nil tracer falls back to no-op.
func Start(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("noop")
	}
	return tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// End records err (if any) as the span status and ends the span.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

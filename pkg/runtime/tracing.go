package runtime

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for commit passes.
const defaultTracerName = "vcommit"

// startPass opens the span that covers one commit pass.
func (r *Runtime) startPass(ctx context.Context, pass uint64, deletions int) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "vcommit.pass",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int64("vcommit.pass", int64(pass)),
			attribute.Int("vcommit.deletions", deletions),
		),
		trace.WithTimestamp(time.Now()),
	)
}

// endPass records the pass outcome on span and ends it.
func endPass(span trace.Span, res *Result) {
	span.SetAttributes(
		attribute.Int("vcommit.mutations", len(res.Mutations)),
		attribute.Int("vcommit.tasks", res.Tasks),
		attribute.Int("vcommit.effects", res.Effects),
	)
	if len(res.Errors) > 0 {
		for _, err := range res.Errors {
			span.RecordError(err)
		}
		span.SetStatus(codes.Error, res.Errors[0].Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}

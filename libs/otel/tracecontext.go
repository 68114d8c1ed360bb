package otelx

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// TraceContext is a detached copy of the W3C trace headers of a context.
// It lets work queued past the end of a request keep its parent span.
type TraceContext struct {
	Traceparent string
	Tracestate  string
}

func CaptureTraceContext(ctx context.Context) TraceContext {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return TraceContext{Traceparent: carrier["traceparent"], Tracestate: carrier["tracestate"]}
}

// Attach returns ctx carrying the captured trace context. An empty capture returns ctx unchanged.
func (tc TraceContext) Attach(ctx context.Context) context.Context {
	if tc.Traceparent == "" && tc.Tracestate == "" {
		return ctx
	}
	carrier := propagation.MapCarrier{
		"traceparent": tc.Traceparent,
		"tracestate":  tc.Tracestate,
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

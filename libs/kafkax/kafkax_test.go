package kafkax

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestSplitBrokers(t *testing.T) {
	got := SplitBrokers(" kafka-1:9092, ,kafka-2:9092 ")
	if len(got) != 2 || got[0] != "kafka-1:9092" || got[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers: %#v", got)
	}
	if SplitBrokers("") != nil {
		t.Fatal("expected nil for empty input")
	}
}

func TestEventMetaHeaders(t *testing.T) {
	meta := EventMeta{EventID: "evt-1", EventType: "booking.appointment.booked.v1"}
	msg := kafka.Message{Topic: "ignored", Headers: meta.Headers()}
	if got := ExtractEventMeta(msg); got != meta {
		t.Fatalf("round trip mismatch: %#v", got)
	}

	fallback := ExtractEventMeta(kafka.Message{Topic: "topic-a", Key: []byte("key-a")})
	if fallback.EventID != "key-a" || fallback.EventType != "topic-a" {
		t.Fatalf("unexpected fallback meta: %#v", fallback)
	}
}

func TestTraceHeadersRoundTrip(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	headers := InjectTraceHeaders(ctx, EventMeta{EventID: "e", EventType: "t"}.Headers())
	if HeaderValue(headers, "traceparent") == "" {
		t.Fatalf("traceparent not injected: %#v", headers)
	}
	if HeaderValue(headers, HeaderEventID) != "e" {
		t.Fatal("existing headers must be kept")
	}

	out := ExtractTraceContext(context.Background(), kafka.Message{Headers: headers})
	if trace.SpanContextFromContext(out).TraceID() != traceID {
		t.Fatal("trace id lost in round trip")
	}
}

func TestReadyCheckWithoutBrokers(t *testing.T) {
	if err := ReadyCheck(nil)(context.Background()); err == nil {
		t.Fatal("expected error when no brokers are configured")
	}
}

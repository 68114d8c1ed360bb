package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/md-rashed-zaman/apptbook/libs/kafkax"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Booked is a decoded booked event.
type Booked struct {
	EventID       string
	AppointmentID string
	Name          string
	Email         string
	Date          string
	Time          string
	CreatedAt     string
}

// BookedHandler receives each booked event once.
type BookedHandler func(ctx context.Context, evt Booked) error

// MessageReader is the subset of *kafka.Reader the subscriber needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type SubscriberConfig struct {
	Brokers []string
	GroupID string
}

// Subscriber reads booked events and skips redeliveries by event id.
type Subscriber struct {
	reader MessageReader
	logger *slog.Logger
	seen   map[string]struct{}
}

func NewSubscriber(logger *slog.Logger, cfg SubscriberConfig) *Subscriber {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    TypeAppointmentBooked,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return newSubscriber(logger, reader)
}

func newSubscriber(logger *slog.Logger, reader MessageReader) *Subscriber {
	return &Subscriber{reader: reader, logger: logger, seen: make(map[string]struct{})}
}

// Run hands every new booked event to handle until ctx is cancelled.
// Handler errors are logged; the event is not retried.
func (s *Subscriber) Run(ctx context.Context, handle BookedHandler) {
	defer func() {
		if err := s.reader.Close(); err != nil {
			s.logger.Error("kafka reader close failed", "err", err)
		}
	}()

	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("kafka read error", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		s.consume(ctx, msg, handle)
	}
}

func (s *Subscriber) consume(ctx context.Context, msg kafka.Message, handle BookedHandler) {
	ctx, span := otel.Tracer("events").Start(kafkax.ExtractTraceContext(ctx, msg), "kafka.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
		),
	)
	defer span.End()

	meta := kafkax.ExtractEventMeta(msg)
	if meta.EventType != TypeAppointmentBooked {
		s.logger.Debug("ignoring event", "event_type", meta.EventType)
		return
	}
	if _, dup := s.seen[meta.EventID]; dup {
		s.logger.Info("duplicate event ignored", "event_id", meta.EventID)
		return
	}

	var p bookedPayload
	if err := json.Unmarshal(msg.Value, &p); err != nil || p.AppointmentID == "" {
		s.logger.Error("invalid booked event payload", "err", err, "event_id", meta.EventID)
		span.SetStatus(codes.Error, "invalid payload")
		return
	}
	s.seen[meta.EventID] = struct{}{}

	evt := Booked{
		EventID:       meta.EventID,
		AppointmentID: p.AppointmentID,
		Name:          p.Name,
		Email:         p.Email,
		Date:          p.Date,
		Time:          p.Time,
		CreatedAt:     p.CreatedAt,
	}
	if err := handle(ctx, evt); err != nil {
		s.logger.Error("booked event handler error", "err", err, "event_id", meta.EventID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "handler failed")
	}
}

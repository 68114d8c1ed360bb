package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/apptbook/libs/kafkax"
	otelx "github.com/md-rashed-zaman/apptbook/libs/otel"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TypeAppointmentBooked is both the event type and the Kafka topic.
const TypeAppointmentBooked = "booking.appointment.booked.v1"

// Event is a message waiting in the publish queue.
type Event struct {
	ID      string
	Type    string
	Key     string
	Payload []byte
	Trace   otelx.TraceContext
}

type bookedPayload struct {
	AppointmentID string `json:"appointment_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	CreatedAt     string `json:"created_at"`
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type PublisherConfig struct {
	Brokers      []string
	QueueSize    int
	WriteTimeout time.Duration
}

// Publisher ships events to Kafka from a bounded queue so request handlers never wait on the broker.
type Publisher struct {
	logger       *slog.Logger
	writer       MessageWriter
	queue        chan Event
	writeTimeout time.Duration
}

// NewPublisher returns a disabled publisher when no brokers are configured.
func NewPublisher(logger *slog.Logger, cfg PublisherConfig) *Publisher {
	var writer MessageWriter
	if len(cfg.Brokers) > 0 {
		writer = &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		}
	}
	return newPublisher(logger, writer, cfg)
}

func newPublisher(logger *slog.Logger, writer MessageWriter, cfg PublisherConfig) *Publisher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	p := &Publisher{logger: logger, writer: writer, writeTimeout: cfg.WriteTimeout}
	if writer != nil {
		p.queue = make(chan Event, cfg.QueueSize)
	}
	return p
}

func (p *Publisher) Enabled() bool { return p.writer != nil }

// AppointmentBooked queues a booked event for appt. It never blocks; a full queue drops the event.
func (p *Publisher) AppointmentBooked(ctx context.Context, appt model.Appointment) {
	if !p.Enabled() {
		return
	}
	payload, err := json.Marshal(bookedPayload{
		AppointmentID: appt.ID,
		Name:          appt.Name,
		Email:         appt.Email,
		Date:          appt.Date,
		Time:          appt.Time,
		CreatedAt:     appt.CreatedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Error("failed to build booked event payload", "err", err)
		return
	}
	evt := Event{
		ID:      uuid.NewString(),
		Type:    TypeAppointmentBooked,
		Key:     appt.ID,
		Payload: payload,
		Trace:   otelx.CaptureTraceContext(ctx),
	}
	select {
	case p.queue <- evt:
	default:
		p.logger.Warn("event queue full; dropping event", "event_type", evt.Type, "appointment_id", appt.ID)
	}
}

// Run drains the queue until ctx is cancelled, then flushes what is left and closes the writer.
func (p *Publisher) Run(ctx context.Context) {
	if !p.Enabled() {
		p.logger.Warn("event publisher disabled (no kafka brokers configured)")
		return
	}
	defer func() {
		if err := p.writer.Close(); err != nil {
			p.logger.Error("kafka writer close failed", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			p.flush()
			return
		case evt := <-p.queue:
			p.publish(context.Background(), evt)
		}
	}
}

func (p *Publisher) flush() {
	for {
		select {
		case evt := <-p.queue:
			p.publish(context.Background(), evt)
		default:
			return
		}
	}
}

func (p *Publisher) publish(base context.Context, evt Event) {
	ctx, cancel := context.WithTimeout(evt.Trace.Attach(base), p.writeTimeout)
	defer cancel()

	ctx, span := otel.Tracer("events").Start(ctx, "kafka.produce",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", evt.Type),
		),
	)
	defer span.End()

	msg := kafka.Message{
		Topic:   evt.Type,
		Key:     []byte(evt.Key),
		Value:   evt.Payload,
		Headers: kafkax.EventMeta{EventID: evt.ID, EventType: evt.Type}.Headers(),
	}
	msg.Headers = kafkax.InjectTraceHeaders(ctx, msg.Headers)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		p.logger.Error("event publish failed", "err", err, "event_id", evt.ID, "event_type", evt.Type)
		return
	}
	p.logger.Debug("event published", "event_id", evt.ID, "event_type", evt.Type)
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/md-rashed-zaman/apptbook/libs/kafkax"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	fail   error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail != nil {
		return w.fail
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) snapshot() ([]kafka.Message, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.msgs...), w.closed
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bookedAppointment() model.Appointment {
	return model.Appointment{
		ID:        "appt-1",
		Name:      "Jane Doe",
		Email:     "jane@x.com",
		Date:      "2099-06-01",
		Time:      "09:00",
		CreatedAt: time.Date(2099, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPublisher_DisabledWithoutBrokers(t *testing.T) {
	p := NewPublisher(testLogger(), PublisherConfig{})
	if p.Enabled() {
		t.Fatal("expected publisher to be disabled")
	}
	p.AppointmentBooked(context.Background(), bookedAppointment())

	done := make(chan struct{})
	go func() {
		p.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately when disabled")
	}
}

func TestPublisher_WritesBookedEvent(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(testLogger(), w, PublisherConfig{QueueSize: 4})

	p.AppointmentBooked(context.Background(), bookedAppointment())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	msgs, closed := w.snapshot()
	if !closed {
		t.Fatal("writer should be closed after Run returns")
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	msg := msgs[0]
	if msg.Topic != TypeAppointmentBooked {
		t.Fatalf("unexpected topic %q", msg.Topic)
	}
	if string(msg.Key) != "appt-1" {
		t.Fatalf("unexpected key %q", msg.Key)
	}
	meta := kafkax.ExtractEventMeta(msg)
	if meta.EventID == "" || meta.EventType != TypeAppointmentBooked {
		t.Fatalf("unexpected meta %#v", meta)
	}

	var payload map[string]string
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["appointment_id"] != "appt-1" || payload["date"] != "2099-06-01" || payload["time"] != "09:00" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if payload["created_at"] != "2099-05-01T12:00:00Z" {
		t.Fatalf("unexpected created_at %q", payload["created_at"])
	}
}

func TestPublisher_DropsWhenQueueFull(t *testing.T) {
	w := &fakeWriter{}
	p := newPublisher(testLogger(), w, PublisherConfig{QueueSize: 1})

	p.AppointmentBooked(context.Background(), bookedAppointment())
	p.AppointmentBooked(context.Background(), bookedAppointment())

	if got := len(p.queue); got != 1 {
		t.Fatalf("expected 1 queued event, got %d", got)
	}
}

func TestPublisher_WriteErrorDoesNotStopWorker(t *testing.T) {
	w := &fakeWriter{fail: errors.New("broker down")}
	p := newPublisher(testLogger(), w, PublisherConfig{QueueSize: 4})
	p.AppointmentBooked(context.Background(), bookedAppointment())
	p.AppointmentBooked(context.Background(), bookedAppointment())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.Run(ctx)

	if len(p.queue) != 0 {
		t.Fatalf("expected queue to be drained, %d left", len(p.queue))
	}
}

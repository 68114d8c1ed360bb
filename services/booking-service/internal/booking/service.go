package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const confirmationMessage = "Appointment booked successfully!"

var tracer = otel.Tracer("booking")

// Repository is the appointment store the service owns.
type Repository interface {
	Insert(ctx context.Context, appt model.Appointment) error
	BookedTimes(ctx context.Context, date string) ([]string, error)
}

// Notifier is told about every accepted booking.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt model.Appointment)
}

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Service)

// WithClock replaces time.Now. "Today" is derived from the clock's location.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slots returns the fixed slot universe for date annotated with availability.
func (s *Service) Slots(ctx context.Context, date string) ([]model.TimeSlot, error) {
	ctx, span := tracer.Start(ctx, "booking.slots")
	defer span.End()
	span.SetAttributes(attribute.String("booking.date", date))

	if date == "" {
		return nil, invalid(msgDateRequired)
	}
	if !validDate(date, s.now()) {
		return nil, invalid(msgDateInvalid)
	}

	booked, err := s.repo.BookedTimes(ctx, date)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load booked times")
		return nil, fmt.Errorf("load booked times: %w", err)
	}

	annotated := availability.Annotate(booked)
	out := make([]model.TimeSlot, 0, len(annotated))
	for _, slot := range annotated {
		out = append(out, model.TimeSlot{Time: slot.Time, Available: slot.Available})
	}
	return out, nil
}

// Create validates req, rejects a taken slot and stores the new appointment.
func (s *Service) Create(ctx context.Context, req model.BookingRequest) (model.Confirmation, error) {
	ctx, span := tracer.Start(ctx, "booking.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("booking.date", req.Date),
		attribute.String("booking.time", req.Time),
	)

	now := s.now()
	if err := validateRequest(req, now); err != nil {
		span.SetStatus(codes.Error, "validation")
		return model.Confirmation{}, err
	}

	appt := model.Appointment{
		ID:        s.newID(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Date:      req.Date,
		Time:      req.Time,
		CreatedAt: now,
	}

	if err := s.repo.Insert(ctx, appt); err != nil {
		if storage.IsConflict(err) {
			s.logger.Info("booking conflict", "date", req.Date, "time", req.Time)
			span.SetStatus(codes.Error, "conflict")
			return model.Confirmation{}, &ConflictError{Date: req.Date, Time: req.Time}
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert")
		return model.Confirmation{}, fmt.Errorf("store appointment: %w", err)
	}

	span.SetAttributes(attribute.String("booking.appointment_id", appt.ID))
	s.logger.Info("appointment booked", "appointment_id", appt.ID, "date", appt.Date, "time", appt.Time)
	if s.notifier != nil {
		s.notifier.AppointmentBooked(ctx, appt)
	}

	return model.Confirmation{
		Message:     confirmationMessage,
		Appointment: appt.Public(),
	}, nil
}

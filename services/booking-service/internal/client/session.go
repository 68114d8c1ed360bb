package client

import (
	"context"
	"errors"

	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
)

const (
	fallbackSlotsError = "Failed to fetch time slots"
	fallbackBookError  = "Failed to book appointment"
)

// API is the booking endpoint surface a Session drives.
type API interface {
	Slots(ctx context.Context, date string) ([]model.TimeSlot, error)
	Book(ctx context.Context, req model.BookingRequest) (model.Confirmation, error)
}

// Session pairs a View with the API calls its transitions imply.
type Session struct {
	api  API
	view View
}

func NewSession(api API) *Session {
	return &Session{api: api, view: NewView()}
}

func (s *Session) View() View { return s.view }

// ChooseDate selects date and loads its slots.
func (s *Session) ChooseDate(ctx context.Context, date string) View {
	s.view = s.view.SelectDate(date)
	if s.view.Date == "" {
		return s.view
	}
	return s.refresh(ctx)
}

func (s *Session) ChooseTime(t string) (View, error) {
	next, err := s.view.SelectTime(t)
	if err != nil {
		return s.view, err
	}
	s.view = next
	return s.view, nil
}

// Book submits the form with the given contact details. On success the slot list is
// re-fetched for the same date.
func (s *Session) Book(ctx context.Context, name, email string) View {
	next, req, ok := s.view.SetContact(name, email).Submit()
	s.view = next
	if !ok {
		return s.view
	}

	conf, err := s.api.Book(ctx, req)
	if err != nil {
		s.view = s.view.BookFailed(messageOf(err, fallbackBookError))
		return s.view
	}
	s.view = s.view.Booked(conf)
	return s.refresh(ctx)
}

// Retry returns to date-selected and reloads the slots.
func (s *Session) Retry(ctx context.Context) View {
	s.view = s.view.Retry()
	if s.view.Date == "" {
		return s.view
	}
	return s.refresh(ctx)
}

func (s *Session) Dismiss() View {
	s.view = s.view.Dismiss()
	return s.view
}

func (s *Session) refresh(ctx context.Context) View {
	slots, err := s.api.Slots(ctx, s.view.Date)
	if err != nil {
		s.view = s.view.SlotsFailed(messageOf(err, fallbackSlotsError))
		return s.view
	}
	s.view = s.view.SlotsLoaded(slots)
	return s.view
}

// messageOf returns the server's error text verbatim, or fallback for transport failures.
func messageOf(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
)

type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseDateSelected Phase = "date-selected"
	PhaseSlotsLoaded  Phase = "slots-loaded"
	PhaseTimeSelected Phase = "time-selected"
	PhaseSubmitting   Phase = "submitting"
	PhaseConfirmed    Phase = "confirmed"
	PhaseError        Phase = "error-shown"
)

const msgIncompleteForm = "Please fill in all fields and select a time slot"

var (
	ErrNoDate          = errors.New("no date selected")
	ErrSlotUnavailable = errors.New("time slot is not available")
)

// View is the booking form state. Transitions are value methods returning the next View,
// so a View can be tested without any I/O.
type View struct {
	Phase        Phase
	Date         string
	Slots        []model.TimeSlot
	Time         string
	Name         string
	Email        string
	Loading      bool
	Error        string
	Confirmation *model.Confirmation
}

func NewView() View {
	return View{Phase: PhaseIdle}
}

// SelectDate starts over on date. A non-empty date leaves the view waiting for slots.
func (v View) SelectDate(date string) View {
	date = strings.TrimSpace(date)
	next := View{Phase: PhaseIdle, Date: date, Name: v.Name, Email: v.Email}
	if date != "" {
		next.Phase = PhaseDateSelected
		next.Loading = true
	}
	return next
}

// SlotsLoaded stores the slot list. A shown confirmation stays on screen.
func (v View) SlotsLoaded(slots []model.TimeSlot) View {
	v.Slots = slots
	v.Loading = false
	v.Error = ""
	if v.Phase != PhaseConfirmed {
		v.Phase = PhaseSlotsLoaded
	}
	return v
}

func (v View) SlotsFailed(msg string) View {
	v.Slots = nil
	v.Loading = false
	v.Error = msg
	v.Phase = PhaseError
	return v
}

// SelectTime picks one of the loaded, available slots.
func (v View) SelectTime(t string) (View, error) {
	if v.Date == "" {
		return v, ErrNoDate
	}
	for _, s := range v.Slots {
		if s.Time == t {
			if !s.Available {
				return v, ErrSlotUnavailable
			}
			v.Time = t
			v.Error = ""
			v.Phase = PhaseTimeSelected
			return v, nil
		}
	}
	return v, ErrSlotUnavailable
}

func (v View) SetContact(name, email string) View {
	v.Name = name
	v.Email = email
	return v
}

// Submit moves to submitting and returns the request to send. An incomplete form
// stays local: ok is false and the view shows the error.
func (v View) Submit() (next View, req model.BookingRequest, ok bool) {
	name := strings.TrimSpace(v.Name)
	email := strings.TrimSpace(v.Email)
	if name == "" || email == "" || v.Date == "" || v.Time == "" {
		v.Error = msgIncompleteForm
		v.Phase = PhaseError
		return v, model.BookingRequest{}, false
	}
	v.Loading = true
	v.Error = ""
	v.Phase = PhaseSubmitting
	return v, model.BookingRequest{Name: name, Email: email, Date: v.Date, Time: v.Time}, true
}

// Booked shows the confirmation and clears the form. The date is kept; the caller
// re-fetches its slots so the booked one shows as taken.
func (v View) Booked(conf model.Confirmation) View {
	v.Confirmation = &conf
	v.Phase = PhaseConfirmed
	v.Time = ""
	v.Name = ""
	v.Email = ""
	v.Error = ""
	v.Loading = true
	return v
}

// BookFailed keeps what the user typed and shows msg.
func (v View) BookFailed(msg string) View {
	v.Loading = false
	v.Error = msg
	v.Phase = PhaseError
	return v
}

// Retry clears the error and goes back to date-selected, waiting for a fresh slot list.
func (v View) Retry() View {
	if v.Date == "" {
		return NewView()
	}
	v.Error = ""
	v.Time = ""
	v.Phase = PhaseDateSelected
	v.Loading = true
	return v
}

// Dismiss hides the confirmation ("book another appointment").
func (v View) Dismiss() View {
	v.Confirmation = nil
	switch {
	case v.Date == "":
		v.Phase = PhaseIdle
	case v.Slots != nil:
		v.Phase = PhaseSlotsLoaded
	default:
		v.Phase = PhaseDateSelected
	}
	return v
}

// AvailableSlots is the subset the form offers as buttons.
func (v View) AvailableSlots() []model.TimeSlot {
	var out []model.TimeSlot
	for _, s := range v.Slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

// FormatTime renders HH:MM in 12-hour form, e.g. "13:30" -> "1:30 PM".
func FormatTime(t string) string {
	hh, mm, found := strings.Cut(t, ":")
	if !found {
		return t
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return t
	}
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	switch {
	case hour == 0:
		hour = 12
	case hour > 12:
		hour -= 12
	}
	return fmt.Sprintf("%d:%s %s", hour, mm, suffix)
}

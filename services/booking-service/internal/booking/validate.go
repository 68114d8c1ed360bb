package booking

import (
	"regexp"
	"strings"
	"time"

	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
)

const dateLayout = "2006-01-02"

const (
	msgDateRequired   = "Date parameter is required (YYYY-MM-DD format)"
	msgDateInvalid    = "Invalid date format or date in the past"
	msgFieldsRequired = "All fields are required: name, email, date, time"
	msgNameTooShort   = "Name must be at least 2 characters long"
	msgEmailInvalid   = "Invalid email format"
	msgTimeInvalid    = "Invalid time format"
	msgTimeNotOffered = "Time must be one of the offered slots"
)

const minNameLen = 2

var (
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// validDate reports whether date is a real YYYY-MM-DD calendar date on or after the
// local midnight of now.
func validDate(date string, now time.Time) bool {
	if !datePattern.MatchString(date) {
		return false
	}
	loc := now.Location()
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return !day.Before(today)
}

// validateRequest applies the booking rules in order and returns the first failure.
func validateRequest(req model.BookingRequest, now time.Time) error {
	if req.Name == "" || req.Email == "" || req.Date == "" || req.Time == "" {
		return invalid(msgFieldsRequired)
	}
	if len([]rune(strings.TrimSpace(req.Name))) < minNameLen {
		return invalid(msgNameTooShort)
	}
	if !emailPattern.MatchString(req.Email) {
		return invalid(msgEmailInvalid)
	}
	if !validDate(req.Date, now) {
		return invalid(msgDateInvalid)
	}
	if !timePattern.MatchString(req.Time) {
		return invalid(msgTimeInvalid)
	}
	if !availability.IsSlot(req.Time) {
		return invalid(msgTimeNotOffered)
	}
	return nil
}

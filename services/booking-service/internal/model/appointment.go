package model

import "time"

// Appointment is a booked slot. Date is YYYY-MM-DD, Time is HH:MM.
type Appointment struct {
	ID        string
	Name      string
	Email     string
	Date      string
	Time      string
	CreatedAt time.Time
}

// TimeSlot is one bookable start time on a date.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// BookingRequest is the payload of a booking attempt.
type BookingRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
	Time  string `json:"time"`
}

// BookedAppointment is the public view of an Appointment. It never carries the email.
type BookedAppointment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Date string `json:"date"`
	Time string `json:"time"`
}

// Confirmation is returned after a booking is accepted.
type Confirmation struct {
	Message     string            `json:"message"`
	Appointment BookedAppointment `json:"appointment"`
}

func (a Appointment) Public() BookedAppointment {
	return BookedAppointment{ID: a.ID, Name: a.Name, Date: a.Date, Time: a.Time}
}

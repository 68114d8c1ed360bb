package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
)

// ErrSlotTaken is returned by Insert when an appointment already holds the (date, time) pair.
var ErrSlotTaken = errors.New("slot already booked")

// BookingRepository keeps appointments in process memory. Contents are lost on restart.
type BookingRepository struct {
	mu     sync.RWMutex
	appts  []model.Appointment
	bySlot map[slotKey]int
}

type slotKey struct {
	date string
	time string
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bySlot: map[slotKey]int{}}
}

// Insert appends appt unless its slot is already held. Check and append happen under one lock,
// so concurrent inserts for the same slot yield exactly one success.
func (r *BookingRepository) Insert(ctx context.Context, appt model.Appointment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := slotKey{date: appt.Date, time: appt.Time}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.bySlot[key]; taken {
		return ErrSlotTaken
	}
	r.appts = append(r.appts, appt)
	r.bySlot[key] = len(r.appts) - 1
	return nil
}

// FindBySlot returns the appointment holding (date, time), if any.
func (r *BookingRepository) FindBySlot(ctx context.Context, date, time string) (model.Appointment, bool, error) {
	if err := ctx.Err(); err != nil {
		return model.Appointment{}, false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.bySlot[slotKey{date: date, time: time}]
	if !ok {
		return model.Appointment{}, false, nil
	}
	return r.appts[i], true, nil
}

// BookedTimes lists the HH:MM times taken on date in ascending order.
func (r *BookingRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	var times []string
	for _, a := range r.appts {
		if a.Date == date {
			times = append(times, a.Time)
		}
	}
	r.mu.RUnlock()
	sort.Strings(times)
	return times, nil
}

// Count is the number of stored appointments.
func (r *BookingRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.appts)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrSlotTaken)
}

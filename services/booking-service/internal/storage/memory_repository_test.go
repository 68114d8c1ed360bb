package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/md-rashed-zaman/apptbook/services/booking-service/internal/model"
)

func appt(id, date, clock string) model.Appointment {
	return model.Appointment{ID: id, Name: "Jane Doe", Email: "jane@x.com", Date: date, Time: clock, CreatedAt: time.Now()}
}

func TestInsertAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	if err := repo.Insert(ctx, appt("a1", "2099-06-01", "09:00")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, ok, err := repo.FindBySlot(ctx, "2099-06-01", "09:00")
	if err != nil || !ok {
		t.Fatalf("expected appointment, ok=%v err=%v", ok, err)
	}
	if got.ID != "a1" {
		t.Fatalf("unexpected id %s", got.ID)
	}
	if _, ok, _ := repo.FindBySlot(ctx, "2099-06-02", "09:00"); ok {
		t.Fatal("different date must not match")
	}
}

func TestInsertRejectsTakenSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	_ = repo.Insert(ctx, appt("a1", "2099-06-01", "09:00"))

	err := repo.Insert(ctx, appt("a2", "2099-06-01", "09:00"))
	if !IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.Count() != 1 {
		t.Fatalf("expected 1 stored appointment, got %d", repo.Count())
	}
	if err := repo.Insert(ctx, appt("a3", "2099-06-01", "09:30")); err != nil {
		t.Fatalf("neighbouring slot should be free: %v", err)
	}
}

func TestBookedTimesSortedPerDate(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()
	_ = repo.Insert(ctx, appt("a1", "2099-06-01", "15:00"))
	_ = repo.Insert(ctx, appt("a2", "2099-06-02", "10:00"))
	_ = repo.Insert(ctx, appt("a3", "2099-06-01", "09:30"))

	times, err := repo.BookedTimes(ctx, "2099-06-01")
	if err != nil {
		t.Fatalf("booked times: %v", err)
	}
	if len(times) != 2 || times[0] != "09:30" || times[1] != "15:00" {
		t.Fatalf("unexpected times %v", times)
	}
}

func TestConcurrentInsertSameSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Insert(ctx, appt(fmt.Sprintf("a%d", i), "2099-06-01", "11:00"))
		}(i)
	}
	wg.Wait()
	close(errs)

	successes, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case IsConflict(err):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != n-1 {
		t.Fatalf("expected 1 success and %d conflicts, got %d and %d", n-1, successes, conflicts)
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := NewBookingRepository()
	if err := repo.Insert(ctx, appt("a1", "2099-06-01", "09:00")); err == nil {
		t.Fatal("expected context error")
	}
}

package availability

import (
	"sort"
	"testing"
)

func TestSlotTimes_Universe(t *testing.T) {
	slots := SlotTimes()
	if len(slots) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(slots))
	}
	if slots[0] != "09:00" {
		t.Fatalf("expected first slot 09:00, got %s", slots[0])
	}
	if slots[1] != "09:30" {
		t.Fatalf("expected second slot 09:30, got %s", slots[1])
	}
	if slots[len(slots)-1] != "17:00" {
		t.Fatalf("expected last slot 17:00, got %s", slots[len(slots)-1])
	}
	if !sort.StringsAreSorted(slots) {
		t.Fatalf("slots not ascending: %v", slots)
	}
}

func TestSlotTimes_ReturnsCopy(t *testing.T) {
	a := SlotTimes()
	a[0] = "00:00"
	if SlotTimes()[0] != "09:00" {
		t.Fatal("mutating the result must not affect the universe")
	}
}

func TestIsSlot(t *testing.T) {
	for _, ok := range []string{"09:00", "12:30", "17:00"} {
		if !IsSlot(ok) {
			t.Fatalf("expected %s to be a slot", ok)
		}
	}
	for _, bad := range []string{"08:30", "17:30", "9:00", "10:15", ""} {
		if IsSlot(bad) {
			t.Fatalf("expected %s not to be a slot", bad)
		}
	}
}

func TestAnnotate(t *testing.T) {
	slots := Annotate([]string{"09:00", "13:30", "18:00"})
	if len(slots) != SlotCount {
		t.Fatalf("expected %d slots, got %d", SlotCount, len(slots))
	}
	for _, s := range slots {
		want := s.Time != "09:00" && s.Time != "13:30"
		if s.Available != want {
			t.Fatalf("slot %s: available=%v, want %v", s.Time, s.Available, want)
		}
	}
}

func TestAnnotate_NothingBooked(t *testing.T) {
	for _, s := range Annotate(nil) {
		if !s.Available {
			t.Fatalf("slot %s should be available", s.Time)
		}
	}
}

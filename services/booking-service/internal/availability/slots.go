package availability

import (
	"fmt"
	"time"
)

const (
	FirstSlot = 9 * time.Hour
	LastSlot  = 17 * time.Hour
	Step      = 30 * time.Minute
)

// SlotCount is the number of start times between FirstSlot and LastSlot inclusive.
const SlotCount = int((LastSlot-FirstSlot)/Step) + 1

var slotTimes = buildSlotTimes()

func buildSlotTimes() []string {
	out := make([]string, 0, SlotCount)
	for offset := FirstSlot; offset <= LastSlot; offset += Step {
		h := int(offset / time.Hour)
		m := int((offset % time.Hour) / time.Minute)
		out = append(out, fmt.Sprintf("%02d:%02d", h, m))
	}
	return out
}

// SlotTimes returns the fixed, ascending slot universe (09:00 ... 17:00). The result is a copy.
func SlotTimes() []string {
	out := make([]string, len(slotTimes))
	copy(out, slotTimes)
	return out
}

// IsSlot reports whether t is one of the offered start times.
func IsSlot(t string) bool {
	for _, s := range slotTimes {
		if s == t {
			return true
		}
	}
	return false
}

// Slot is a start time with its availability on a particular date.
type Slot struct {
	Time      string
	Available bool
}

// Annotate marks every slot of the universe as unavailable when its time appears in booked.
// booked holds the HH:MM times already taken on one date.
func Annotate(booked []string) []Slot {
	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}
	out := make([]Slot, 0, len(slotTimes))
	for _, t := range slotTimes {
		_, isTaken := taken[t]
		out = append(out, Slot{Time: t, Available: !isTaken})
	}
	return out
}

package booking

import (
	"fmt"
	"time"
)

const (
	firstSlotHour = 8
	lastSlotHour  = 22

	dateLayout = "2006-01-02"
)

// SlotLabels is the fixed daily roster of hourly slot starts, "08:00" to "22:00".
var SlotLabels = func() []string {
	labels := make([]string, 0, lastSlotHour-firstSlotHour+1)
	for h := firstSlotHour; h <= lastSlotHour; h++ {
		labels = append(labels, fmt.Sprintf("%02d:00", h))
	}
	return labels
}()

// ParseDay interprets a YYYY-MM-DD date in loc and returns the start of that
// day and of the next one.
func ParseDay(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return day, day.AddDate(0, 0, 1), nil
}

// SlotStart is the instant a slot label denotes on the given day.
func SlotStart(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
}

// SlotFree reports whether no active booking holds instant t, treating each
// booking as [start, end).
func SlotFree(t time.Time, bookings []Booking) bool {
	for _, b := range bookings {
		if !b.Status.Active() {
			continue
		}
		if !t.Before(b.StartTime) && t.Before(b.EndTime) {
			return false
		}
	}
	return true
}

// Availability evaluates every roster slot of day against bookings. The
// order of bookings does not matter.
func Availability(day time.Time, bookings []Booking) []SlotAvailability {
	slots := make([]SlotAvailability, 0, len(SlotLabels))
	for i, label := range SlotLabels {
		slots = append(slots, SlotAvailability{
			Slot:      label,
			Available: SlotFree(SlotStart(day, firstSlotHour+i), bookings),
		})
	}
	return slots
}

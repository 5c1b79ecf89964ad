package booking

import "time"

// Interval is a half-open time range [Start, End).
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Overlaps reports whether i and o share any instant. Touching intervals
// (one ends exactly when the other starts) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	startsInside := !i.Start.Before(o.Start) && i.Start.Before(o.End)
	endsInside := i.End.After(o.Start) && !i.End.After(o.End)
	covers := !i.Start.After(o.Start) && !i.End.Before(o.End)
	return startsInside || endsInside || covers
}

// FindConflicts returns the active bookings whose interval overlaps p.
func FindConflicts(p Interval, existing []Booking) []Booking {
	var conflicts []Booking
	for _, b := range existing {
		if !b.Status.Active() {
			continue
		}
		if p.Overlaps(b.Interval()) {
			conflicts = append(conflicts, b)
		}
	}
	return conflicts
}

func HasConflict(p Interval, existing []Booking) bool {
	return len(FindConflicts(p, existing)) > 0
}

// Without drops the booking with the given id, so a booking being moved
// never conflicts with itself. An id of 0 drops nothing.
func Without(existing []Booking, id int) []Booking {
	if id == 0 {
		return existing
	}
	kept := make([]Booking, 0, len(existing))
	for _, b := range existing {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	return kept
}

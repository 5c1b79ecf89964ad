package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func span(fromH, fromM, toH, toM int) Interval {
	return Interval{Start: at(fromH, fromM), End: at(toH, toM)}
}

func booked(iv Interval, status Status) Booking {
	return Booking{StartTime: iv.Start, EndTime: iv.End, Status: status}
}

func TestInterval_Overlaps(t *testing.T) {
	existing := span(10, 0, 11, 0)

	tests := []struct {
		name     string
		proposed Interval
		want     bool
	}{
		{"starts before, ends inside", span(9, 30, 10, 30), true},
		{"starts inside, ends after", span(10, 30, 11, 30), true},
		{"inside", span(10, 15, 10, 45), true},
		{"covers", span(9, 0, 12, 0), true},
		{"identical", span(10, 0, 11, 0), true},
		{"ends at start", span(9, 0, 10, 0), false},
		{"starts at end", span(11, 0, 12, 0), false},
		{"well before", span(7, 0, 8, 0), false},
		{"well after", span(13, 0, 14, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.proposed.Overlaps(existing))
		})
	}
}

func TestInterval_OverlapsIsSymmetric(t *testing.T) {
	var intervals []Interval
	for start := 0; start < 8; start++ {
		for length := 1; length <= 4; length++ {
			s := at(8, 0).Add(time.Duration(start) * 30 * time.Minute)
			intervals = append(intervals, Interval{Start: s, End: s.Add(time.Duration(length) * 30 * time.Minute)})
		}
	}

	for _, a := range intervals {
		for _, b := range intervals {
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "%v / %v", a, b)

			halfOpen := a.Start.Before(b.End) && b.Start.Before(a.End)
			assert.Equal(t, halfOpen, a.Overlaps(b), "%v / %v", a, b)
		}
	}
}

func TestFindConflicts_IgnoresInactive(t *testing.T) {
	proposed := span(9, 30, 10, 30)
	existing := []Booking{
		booked(span(10, 0, 11, 0), StatusCancelled),
		booked(span(10, 0, 11, 0), StatusCompleted),
		booked(span(12, 0, 13, 0), StatusConfirmed),
	}
	assert.False(t, HasConflict(proposed, existing))

	existing = append(existing, booked(span(10, 0, 11, 0), StatusPending))
	conflicts := FindConflicts(proposed, existing)
	assert.Len(t, conflicts, 1)
	assert.Equal(t, StatusPending, conflicts[0].Status)
}

func TestInterval_Valid(t *testing.T) {
	assert.True(t, span(10, 0, 11, 0).Valid())
	assert.False(t, span(10, 0, 10, 0).Valid())
	assert.False(t, span(11, 0, 10, 0).Valid())
	assert.Equal(t, 90*time.Minute, span(10, 0, 11, 30).Duration())
}

func TestWithout(t *testing.T) {
	a := booked(span(10, 0, 11, 0), StatusPending)
	a.ID = 1
	b := booked(span(12, 0, 13, 0), StatusConfirmed)
	b.ID = 2
	all := []Booking{a, b}

	assert.Equal(t, []Booking{b}, Without(all, 1))
	assert.Equal(t, all, Without(all, 0))
	assert.Equal(t, all, Without(all, 99))
	assert.False(t, HasConflict(span(10, 30, 11, 30), Without(all, 1)))
}

package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanCancel(t *testing.T) {
	now := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		at      time.Time
		status  Status
		allowed bool
	}{
		{"90 minutes ahead", now.Add(90 * time.Minute), now, StatusConfirmed, false},
		{"130 minutes ahead, asked 10 minutes early", now.Add(130 * time.Minute), now.Add(-10 * time.Minute), StatusConfirmed, true},
		{"exactly two hours ahead", now.Add(2 * time.Hour), now, StatusConfirmed, false},
		{"one second past the buffer", now.Add(2*time.Hour + time.Second), now, StatusPending, true},
		{"already started", now.Add(-time.Minute), now, StatusConfirmed, false},
		{"already cancelled", now.Add(48 * time.Hour), now, StatusCancelled, false},
		{"completed", now.Add(48 * time.Hour), now, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Booking{StartTime: tt.start, EndTime: tt.start.Add(time.Hour), Status: tt.status}
			assert.Equal(t, tt.allowed, CanCancel(b, tt.at))
		})
	}
}

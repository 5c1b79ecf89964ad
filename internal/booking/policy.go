package booking

import "time"

// CancellationBuffer is how long before its start a booking stops being
// cancellable.
const CancellationBuffer = 2 * time.Hour

// CanCancel reports whether b may be cancelled at now: it must still hold its
// interval and now+CancellationBuffer must be strictly before its start.
func CanCancel(b Booking, now time.Time) bool {
	return b.Status.Active() && now.Add(CancellationBuffer).Before(b.StartTime)
}

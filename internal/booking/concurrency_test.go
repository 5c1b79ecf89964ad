package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memRepository keeps bookings in memory. CreateExclusive re-checks overlaps
// under the same lock that guards the insert, like the facility row lock.
// Snapshot reads wait at a barrier so that concurrent callers all observe the
// same stale state before any of them commits.
type memRepository struct {
	MockRepository

	mu       sync.Mutex
	bookings []Booking
	barrier  *sync.WaitGroup
}

func (r *memRepository) ListActiveInRange(_ context.Context, facilityID int, from, to time.Time) ([]Booking, error) {
	r.mu.Lock()
	var snapshot []Booking
	for _, b := range r.bookings {
		if b.FacilityID == facilityID && b.Status.Active() && b.StartTime.Before(to) && b.EndTime.After(from) {
			snapshot = append(snapshot, b)
		}
	}
	r.mu.Unlock()

	r.barrier.Done()
	r.barrier.Wait()
	return snapshot, nil
}

func (r *memRepository) CreateExclusive(_ context.Context, b *Booking) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.bookings {
		if existing.FacilityID == b.FacilityID && existing.Status.Active() && b.Interval().Overlaps(existing.Interval()) {
			return nil, ErrSlotUnavailable
		}
	}

	created := *b
	created.ID = len(r.bookings) + 1
	r.bookings = append(r.bookings, created)
	return &created, nil
}

func TestService_ConcurrentBookingsCommitOnce(t *testing.T) {
	const callers = 2

	barrier := &sync.WaitGroup{}
	barrier.Add(callers)
	repo := &memRepository{barrier: barrier}

	facilities := new(MockFacilities)
	facilities.On("Get", mock.Anything, 3).Return(futsalCourt, nil)
	users := new(MockUsers)
	users.On("GetByID", mock.Anything, mock.Anything).Return(profile, nil)

	svc := NewService(repo, facilities, users, nil, nil, Options{Now: func() time.Time { return testNow }})

	requests := []CreateBookingRequest{
		{FacilityID: 3, StartTime: at(10, 0), EndTime: at(11, 0)},
		{FacilityID: 3, StartTime: at(10, 30), EndTime: at(11, 30)},
	}

	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateBooking(context.Background(), student, requests[i])
		}(i)
	}
	wg.Wait()

	var committed, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			committed++
		case errors.Is(err, ErrSlotUnavailable):
			rejected++
		default:
			require.NoError(t, err)
		}
	}

	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, rejected)
	assert.Len(t, repo.bookings, 1)
}

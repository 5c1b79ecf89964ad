package booking

import (
	"context"
	"time"
)

type Repository interface {
	// CreateExclusive inserts b unless an active booking of the same facility
	// overlaps it in committed state, in which case it returns ErrSlotUnavailable.
	CreateExclusive(ctx context.Context, b *Booking) (*Booking, error)
	// RescheduleExclusive moves a pending booking to b's interval, purpose and
	// cost under the same facility lock. The booking itself is ignored by the
	// overlap check. A booking that is no longer pending yields
	// ErrInvalidTransition.
	RescheduleExclusive(ctx context.Context, b *Booking) (*Booking, error)
	GetByID(ctx context.Context, id int) (*Booking, error)
	ListActiveInRange(ctx context.Context, facilityID int, from, to time.Time) ([]Booking, error)
	Cancel(ctx context.Context, id int) (*Booking, error)
	UpdateStatus(ctx context.Context, id int, from, to Status) (*Booking, error)
	ListByUser(ctx context.Context, userID int) ([]Booking, error)
	ListByFacility(ctx context.Context, facilityID int) ([]Booking, error)
	ListByStatus(ctx context.Context, status Status) ([]Booking, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]Booking, error)
}

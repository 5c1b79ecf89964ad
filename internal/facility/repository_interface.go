package facility

import "context"

type Repository interface {
	Create(ctx context.Context, f *Facility) (*Facility, error)
	Update(ctx context.Context, f *Facility) (*Facility, error)
	Delete(ctx context.Context, id int) error
	GetByID(ctx context.Context, id int) (*Facility, error)
	ListAll(ctx context.Context) ([]Facility, error)
	ListActive(ctx context.Context) ([]Facility, error)
	ListActiveByType(ctx context.Context, facilityType string) ([]Facility, error)
	NameExists(ctx context.Context, name string) (bool, error)
	HasBookings(ctx context.Context, id int) (bool, error)
}

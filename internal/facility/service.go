package facility

import (
	"context"
	"errors"
	"fmt"

	"github.com/heinthant2k4/sports-arena-booking/internal/logger"
	"github.com/heinthant2k4/sports-arena-booking/internal/metrics"
)

var (
	ErrFacilityNotFound = errors.New("facility not found")
	ErrFacilityExists   = errors.New("facility with this name already exists")
	ErrFacilityInUse    = errors.New("facility has bookings and cannot be deleted")
	ErrInvalidType      = errors.New("facility type must be futsal or badminton")
)

type Service interface {
	List(ctx context.Context, facilityType string) ([]Facility, error)
	ListAll(ctx context.Context) ([]Facility, error)
	Get(ctx context.Context, id int) (*Facility, error)
	Create(ctx context.Context, req FacilityRequest) (*Facility, error)
	Update(ctx context.Context, id int, req FacilityRequest) (*Facility, error)
	Delete(ctx context.Context, id int) error
	Seed(ctx context.Context) ([]Facility, error)
}

type service struct {
	repo  Repository
	cache Cache
}

func NewService(repo Repository, cache Cache) Service {
	if cache == nil {
		cache = NopCache()
	}
	return &service{repo: repo, cache: cache}
}

// List returns active facilities, optionally narrowed to one type. The
// unfiltered catalogue is served from cache when possible.
func (s *service) List(ctx context.Context, facilityType string) ([]Facility, error) {
	if facilityType != "" {
		if !ValidType(facilityType) {
			return nil, ErrInvalidType
		}
		return s.repo.ListActiveByType(ctx, facilityType)
	}

	cached, err := s.cache.Active(ctx)
	if err == nil {
		metrics.RecordCatalogueCache(true)
		logger.Debug("Catalogue served from cache", "count", len(cached))
		return cached, nil
	}
	metrics.RecordCatalogueCache(false)
	if !errors.Is(err, ErrCacheMiss) {
		logger.Warn("Catalogue cache unavailable", "error", err)
	}

	facilities, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active facilities: %w", err)
	}

	if err := s.cache.StoreActive(ctx, facilities); err != nil {
		logger.Warn("Failed to store catalogue cache", "error", err)
	}
	return facilities, nil
}

func (s *service) ListAll(ctx context.Context) ([]Facility, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) Get(ctx context.Context, id int) (*Facility, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, req FacilityRequest) (*Facility, error) {
	exists, err := s.repo.NameExists(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrFacilityExists
	}

	f := Facility{IsActive: true}
	req.apply(&f)

	created, err := s.repo.Create(ctx, &f)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.Info("Facility created", "facility_id", created.ID, "name", created.Name)
	return created, nil
}

func (s *service) Update(ctx context.Context, id int, req FacilityRequest) (*Facility, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != existing.Name {
		exists, err := s.repo.NameExists(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrFacilityExists
		}
	}

	req.apply(existing)
	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	logger.Info("Facility updated", "facility_id", updated.ID, "active", updated.IsActive)
	return updated, nil
}

// Delete removes a facility that has never been booked. Booked facilities
// keep their history and can only be deactivated.
func (s *service) Delete(ctx context.Context, id int) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.repo.HasBookings(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return ErrFacilityInUse
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	logger.Info("Facility deleted", "facility_id", id)
	return nil
}

// Seed inserts the sample courts whose names are not taken yet and returns
// the ones it created.
func (s *service) Seed(ctx context.Context) ([]Facility, error) {
	created := []Facility{}
	for _, sample := range sampleFacilities() {
		exists, err := s.repo.NameExists(ctx, sample.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		f := sample
		saved, err := s.repo.Create(ctx, &f)
		if err != nil {
			if errors.Is(err, ErrFacilityExists) {
				continue
			}
			return nil, err
		}
		created = append(created, *saved)
	}

	if len(created) > 0 {
		s.invalidate(ctx)
	}
	logger.Info("Seeded sample facilities", "created", len(created))
	return created, nil
}

func (s *service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		logger.Warn("Failed to invalidate catalogue cache", "error", err)
	}
}

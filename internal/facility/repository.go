package facility

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/heinthant2k4/sports-arena-booking/internal/db"
)

const facilityColumns = `id, name, type, capacity, hourly_rate, equipment, is_active,
	description, image_url, location, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, f *Facility) (*Facility, error) {
	query := `
		INSERT INTO facilities (name, type, capacity, hourly_rate, equipment, is_active, description, image_url, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + facilityColumns

	var created Facility
	err := r.db.GetContext(ctx, &created, query,
		f.Name, f.Type, f.Capacity, f.HourlyRate, f.Equipment, f.IsActive, f.Description, f.ImageURL, f.Location)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrFacilityExists
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) Update(ctx context.Context, f *Facility) (*Facility, error) {
	query := `
		UPDATE facilities
		SET name = $2, type = $3, capacity = $4, hourly_rate = $5, equipment = $6,
			is_active = $7, description = $8, image_url = $9, location = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + facilityColumns

	var updated Facility
	err := r.db.GetContext(ctx, &updated, query,
		f.ID, f.Name, f.Type, f.Capacity, f.HourlyRate, f.Equipment, f.IsActive, f.Description, f.ImageURL, f.Location)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrFacilityNotFound
		case db.IsUniqueViolation(err):
			return nil, ErrFacilityExists
		}
		return nil, err
	}

	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return ErrFacilityInUse
		}
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrFacilityNotFound
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE id = $1`

	var f Facility
	if err := r.db.GetContext(ctx, &f, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}

	return &f, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities ORDER BY type, name`

	facilities := []Facility{}
	if err := r.db.SelectContext(ctx, &facilities, query); err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE is_active = TRUE ORDER BY type, name`

	facilities := []Facility{}
	if err := r.db.SelectContext(ctx, &facilities, query); err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *repository) ListActiveByType(ctx context.Context, facilityType string) ([]Facility, error) {
	query := `SELECT ` + facilityColumns + ` FROM facilities WHERE is_active = TRUE AND type = $1 ORDER BY name`

	facilities := []Facility{}
	if err := r.db.SelectContext(ctx, &facilities, query, facilityType); err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *repository) NameExists(ctx context.Context, name string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM facilities WHERE name = $1)`, name)
}

func (r *repository) HasBookings(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM bookings WHERE facility_id = $1)`, id)
}

package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/heinthant2k4/sports-arena-booking/internal/db"
)

const bookingColumns = `id, user_id, facility_id, start_time, end_time, status, purpose,
	user_name, facility_name, total_cost, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// lockAndCheck serialises writers for a facility until the transaction ends
// and reports ErrSlotUnavailable when an active booking other than exclude
// overlaps [start, end).
func lockAndCheck(ctx context.Context, tx *sqlx.Tx, facilityID int, start, end time.Time, exclude int) error {
	var locked int
	err := tx.GetContext(ctx, &locked, `SELECT id FROM facilities WHERE id = $1 FOR UPDATE`, facilityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFacilityNotFound
		}
		return fmt.Errorf("lock facility: %w", err)
	}

	var taken bool
	err = tx.GetContext(ctx, &taken, `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE facility_id = $1
			  AND status IN ('pending', 'confirmed')
			  AND start_time < $3
			  AND end_time > $2
			  AND id <> $4
		)`, facilityID, start, end, exclude)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if taken {
		return ErrSlotUnavailable
	}
	return nil
}

func (r *repository) CreateExclusive(ctx context.Context, b *Booking) (*Booking, error) {
	var created Booking

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockAndCheck(ctx, tx, b.FacilityID, b.StartTime, b.EndTime, 0); err != nil {
			return err
		}

		query := `
			INSERT INTO bookings (user_id, facility_id, start_time, end_time, status, purpose,
				user_name, facility_name, total_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING ` + bookingColumns

		err := tx.GetContext(ctx, &created, query,
			b.UserID, b.FacilityID, b.StartTime, b.EndTime, b.Status, b.Purpose,
			b.UserName, b.FacilityName, b.TotalCost)
		if err != nil {
			if db.IsExclusionViolation(err) {
				return ErrSlotUnavailable
			}
			return fmt.Errorf("insert booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) RescheduleExclusive(ctx context.Context, b *Booking) (*Booking, error) {
	var moved Booking

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := lockAndCheck(ctx, tx, b.FacilityID, b.StartTime, b.EndTime, b.ID); err != nil {
			return err
		}

		query := `
			UPDATE bookings
			SET start_time = $2, end_time = $3, purpose = $4, total_cost = $5, updated_at = NOW()
			WHERE id = $1 AND status = 'pending'
			RETURNING ` + bookingColumns

		err := tx.GetContext(ctx, &moved, query, b.ID, b.StartTime, b.EndTime, b.Purpose, b.TotalCost)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				return ErrInvalidTransition
			case db.IsExclusionViolation(err):
				return ErrSlotUnavailable
			}
			return fmt.Errorf("reschedule booking %d: %w", b.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &moved, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	return &b, nil
}

// ListActiveInRange returns the pending and confirmed bookings of a facility
// whose interval intersects [from, to).
func (r *repository) ListActiveInRange(ctx context.Context, facilityID int, from, to time.Time) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE facility_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_time < $3
		  AND end_time > $2
		ORDER BY start_time`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, facilityID, from, to); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) Cancel(ctx context.Context, id int) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
		RETURNING ` + bookingColumns

	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCancellationNotAllowed
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, from, to Status) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	var b Booking
	if err := r.db.GetContext(ctx, &b, query, id, from, to); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY start_time DESC`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByFacility(ctx context.Context, facilityID int) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE facility_id = $1 ORDER BY start_time DESC`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, facilityID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByStatus(ctx context.Context, status Status) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1 ORDER BY start_time DESC`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, status); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListInRange(ctx context.Context, from, to time.Time) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE start_time >= $1 AND start_time < $2
		ORDER BY start_time`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, from, to); err != nil {
		return nil, err
	}
	return bookings, nil
}

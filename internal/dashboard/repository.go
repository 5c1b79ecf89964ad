package dashboard

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	FacilitySummary(ctx context.Context) (FacilitySummary, error)
	StatusCounts(ctx context.Context) (StatusCounts, error)
	RangeTotals(ctx context.Context, from, to time.Time) (RangeTotals, error)
	PopularHours(ctx context.Context, from, to time.Time, timezone string, limit int) ([]HourCount, error)
	FacilityUsage(ctx context.Context, from, to time.Time, limit int) ([]FacilityUsage, error)
	MonthlyTrend(ctx context.Context, from, to time.Time, timezone string) ([]MonthTrend, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FacilitySummary(ctx context.Context) (FacilitySummary, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE is_active) AS active,
			COUNT(*) FILTER (WHERE NOT is_active) AS inactive,
			COALESCE(ROUND(AVG(hourly_rate) FILTER (WHERE is_active)), 0)::BIGINT AS average_hourly_rate
		FROM facilities`

	var s FacilitySummary
	err := r.db.GetContext(ctx, &s, query)
	return s, err
}

func (r *repository) StatusCounts(ctx context.Context) (StatusCounts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed
		FROM bookings`

	var c StatusCounts
	err := r.db.GetContext(ctx, &c, query)
	return c, err
}

// RangeTotals counts bookings starting in [from, to) and sums the cost of
// those that were confirmed or completed.
func (r *repository) RangeTotals(ctx context.Context, from, to time.Time) (RangeTotals, error) {
	query := `
		SELECT
			COUNT(*) AS bookings,
			COALESCE(SUM(total_cost) FILTER (WHERE status IN ('confirmed', 'completed')), 0) AS revenue
		FROM bookings
		WHERE start_time >= $1 AND start_time < $2`

	var t RangeTotals
	err := r.db.GetContext(ctx, &t, query, from, to)
	return t, err
}

func (r *repository) PopularHours(ctx context.Context, from, to time.Time, timezone string, limit int) ([]HourCount, error) {
	query := `
		SELECT EXTRACT(HOUR FROM start_time AT TIME ZONE $3)::INT AS hour, COUNT(*) AS bookings
		FROM bookings
		WHERE status <> 'cancelled' AND start_time >= $1 AND start_time < $2
		GROUP BY hour
		ORDER BY bookings DESC, hour
		LIMIT $4`

	hours := []HourCount{}
	if err := r.db.SelectContext(ctx, &hours, query, from, to, timezone, limit); err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *repository) FacilityUsage(ctx context.Context, from, to time.Time, limit int) ([]FacilityUsage, error) {
	query := `
		SELECT
			f.id AS facility_id,
			f.name,
			COUNT(b.id) AS bookings,
			COALESCE(SUM(b.total_cost) FILTER (WHERE b.status IN ('confirmed', 'completed')), 0) AS revenue
		FROM facilities f
		JOIN bookings b ON b.facility_id = f.id
		WHERE b.status <> 'cancelled' AND b.start_time >= $1 AND b.start_time < $2
		GROUP BY f.id, f.name
		ORDER BY bookings DESC, f.name
		LIMIT $3`

	usage := []FacilityUsage{}
	if err := r.db.SelectContext(ctx, &usage, query, from, to, limit); err != nil {
		return nil, err
	}
	return usage, nil
}

// MonthlyTrend groups bookings starting in [from, to) by calendar month in
// timezone. Months without bookings are absent.
func (r *repository) MonthlyTrend(ctx context.Context, from, to time.Time, timezone string) ([]MonthTrend, error) {
	query := `
		SELECT
			to_char(date_trunc('month', start_time AT TIME ZONE $3), 'YYYY-MM') AS month,
			COUNT(*) AS bookings,
			COALESCE(SUM(total_cost) FILTER (WHERE status IN ('confirmed', 'completed')), 0) AS revenue
		FROM bookings
		WHERE start_time >= $1 AND start_time < $2
		GROUP BY month
		ORDER BY month`

	trend := []MonthTrend{}
	if err := r.db.SelectContext(ctx, &trend, query, from, to, timezone); err != nil {
		return nil, err
	}
	return trend, nil
}

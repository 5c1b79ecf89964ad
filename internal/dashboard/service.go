package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	topN        = 5
	trendMonths = 6
)

var ErrInvalidRange = errors.New("range end must be after its start")

type Service interface {
	Stats(ctx context.Context, from, to time.Time) (*Stats, error)
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

func NewService(repo Repository, loc *time.Location, now func() time.Time) Service {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, loc: loc, now: now}
}

// monthOf returns the calendar month containing t in loc.
func monthOf(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// fillMonths returns one entry per month starting at first, with zero
// figures for months missing from rows.
func fillMonths(first time.Time, months int, rows []MonthTrend) []MonthTrend {
	byMonth := make(map[string]MonthTrend, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}

	trend := make([]MonthTrend, 0, months)
	for i := 0; i < months; i++ {
		key := first.AddDate(0, i, 0).Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = MonthTrend{Month: key}
		}
		trend = append(trend, m)
	}
	return trend
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// Stats builds the overview for [from, to). Zero bounds default to the
// current month in the booking time zone.
func (s *service) Stats(ctx context.Context, from, to time.Time) (*Stats, error) {
	now := s.now()
	monthStart, monthEnd := monthOf(now, s.loc)
	if from.IsZero() || to.IsZero() {
		if from.IsZero() {
			from = monthStart
		}
		if to.IsZero() {
			to = monthEnd
		}
	}
	if !to.After(from) {
		return nil, ErrInvalidRange
	}

	facilities, err := s.repo.FacilitySummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("facility summary: %w", err)
	}

	statuses, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}

	totals, err := s.repo.RangeTotals(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("range totals: %w", err)
	}

	hours, err := s.repo.PopularHours(ctx, from, to, s.loc.String(), topN)
	if err != nil {
		return nil, fmt.Errorf("popular hours: %w", err)
	}

	usage, err := s.repo.FacilityUsage(ctx, from, to, topN)
	if err != nil {
		return nil, fmt.Errorf("facility usage: %w", err)
	}

	local := now.In(s.loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	today, err := s.repo.RangeTotals(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("today totals: %w", err)
	}

	week, err := s.repo.RangeTotals(ctx, dayStart.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, fmt.Errorf("weekly totals: %w", err)
	}

	trendStart := monthStart.AddDate(0, -(trendMonths - 1), 0)
	months, err := s.repo.MonthlyTrend(ctx, trendStart, monthEnd, s.loc.String())
	if err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}

	stats := &Stats{
		From:             from,
		To:               to,
		Facilities:       facilities,
		Statuses:         statuses,
		TotalBookings:    statuses.Total(),
		ConfirmationRate: percent(statuses.Confirmed+statuses.Completed, statuses.Total()),
		CancellationRate: percent(statuses.Cancelled, statuses.Total()),
		BookingsInRange:  totals.Bookings,
		RevenueInRange:   totals.Revenue,
		PopularHours:     hours,
		FacilityUsage:    usage,
		Today:            today,
		LastSevenDays:    week,
		MonthlyTrend:     fillMonths(trendStart, trendMonths, months),
	}
	if totals.Bookings > 0 {
		stats.AverageBookingValue = totals.Revenue / totals.Bookings
	}

	return stats, nil
}

package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FacilitySummary(ctx context.Context) (FacilitySummary, error) {
	args := m.Called(ctx)
	return args.Get(0).(FacilitySummary), args.Error(1)
}

func (m *MockRepository) StatusCounts(ctx context.Context) (StatusCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(StatusCounts), args.Error(1)
}

func (m *MockRepository) RangeTotals(ctx context.Context, from, to time.Time) (RangeTotals, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(RangeTotals), args.Error(1)
}

func (m *MockRepository) PopularHours(ctx context.Context, from, to time.Time, timezone string, limit int) ([]HourCount, error) {
	args := m.Called(ctx, from, to, timezone, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]HourCount), args.Error(1)
}

func (m *MockRepository) FacilityUsage(ctx context.Context, from, to time.Time, limit int) ([]FacilityUsage, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FacilityUsage), args.Error(1)
}

func (m *MockRepository) MonthlyTrend(ctx context.Context, from, to time.Time, timezone string) ([]MonthTrend, error) {
	args := m.Called(ctx, from, to, timezone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MonthTrend), args.Error(1)
}

func TestService_StatsDefaultsToCurrentMonth(t *testing.T) {
	yangon, err := time.LoadLocation("Asia/Yangon")
	require.NoError(t, err)

	now := time.Date(2025, 3, 14, 15, 0, 0, 0, yangon)
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, yangon)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, yangon)

	repo := new(MockRepository)
	repo.On("FacilitySummary", mock.Anything).Return(FacilitySummary{Active: 5}, nil)
	repo.On("StatusCounts", mock.Anything).Return(StatusCounts{Pending: 2, Confirmed: 10, Cancelled: 4, Completed: 4}, nil)
	repo.On("RangeTotals", mock.Anything, from, to).Return(RangeTotals{Bookings: 8, Revenue: 400001}, nil)
	repo.On("PopularHours", mock.Anything, from, to, "Asia/Yangon", 5).Return([]HourCount{{Hour: 18, Bookings: 5}}, nil)
	repo.On("FacilityUsage", mock.Anything, from, to, 5).Return([]FacilityUsage{{FacilityID: 1, Name: "Futsal Court A", Bookings: 5}}, nil)

	dayStart := time.Date(2025, 3, 14, 0, 0, 0, 0, yangon)
	repo.On("RangeTotals", mock.Anything, dayStart, time.Date(2025, 3, 15, 0, 0, 0, 0, yangon)).Return(RangeTotals{Bookings: 2, Revenue: 60000}, nil)
	repo.On("RangeTotals", mock.Anything, time.Date(2025, 3, 7, 0, 0, 0, 0, yangon), now).Return(RangeTotals{Bookings: 6, Revenue: 250000}, nil)
	repo.On("MonthlyTrend", mock.Anything, time.Date(2024, 10, 1, 0, 0, 0, 0, yangon), to, "Asia/Yangon").Return([]MonthTrend{
		{Month: "2025-01", Bookings: 12, Revenue: 540000},
		{Month: "2025-03", Bookings: 8, Revenue: 400001},
	}, nil)

	svc := NewService(repo, yangon, func() time.Time { return now })
	stats, err := svc.Stats(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, from, stats.From)
	assert.Equal(t, to, stats.To)
	assert.Equal(t, int64(20), stats.TotalBookings)
	assert.InDelta(t, 70.0, stats.ConfirmationRate, 0.001)
	assert.InDelta(t, 20.0, stats.CancellationRate, 0.001)
	assert.Equal(t, int64(50000), stats.AverageBookingValue)
	assert.Len(t, stats.PopularHours, 1)
	assert.Equal(t, RangeTotals{Bookings: 2, Revenue: 60000}, stats.Today)
	assert.Equal(t, RangeTotals{Bookings: 6, Revenue: 250000}, stats.LastSevenDays)
	assert.Equal(t, []MonthTrend{
		{Month: "2024-10"},
		{Month: "2024-11"},
		{Month: "2024-12"},
		{Month: "2025-01", Bookings: 12, Revenue: 540000},
		{Month: "2025-02"},
		{Month: "2025-03", Bookings: 8, Revenue: 400001},
	}, stats.MonthlyTrend)
	repo.AssertExpectations(t)
}

func TestService_StatsErrors(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	repo := new(MockRepository)
	repo.On("FacilitySummary", mock.Anything).Return(FacilitySummary{}, nil)
	repo.On("StatusCounts", mock.Anything).Return(StatusCounts{}, assert.AnError)
	svc := NewService(repo, nil, nil)

	_, err := svc.Stats(context.Background(), to, from)
	assert.ErrorIs(t, err, ErrInvalidRange)

	stats, err := svc.Stats(context.Background(), from, to)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, stats)
	repo.AssertNotCalled(t, "RangeTotals", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_StatsEmpty(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FacilitySummary", mock.Anything).Return(FacilitySummary{}, nil)
	repo.On("StatusCounts", mock.Anything).Return(StatusCounts{}, nil)
	repo.On("RangeTotals", mock.Anything, mock.Anything, mock.Anything).Return(RangeTotals{}, nil)
	repo.On("PopularHours", mock.Anything, mock.Anything, mock.Anything, "UTC", 5).Return([]HourCount{}, nil)
	repo.On("FacilityUsage", mock.Anything, mock.Anything, mock.Anything, 5).Return([]FacilityUsage{}, nil)
	repo.On("MonthlyTrend", mock.Anything, mock.Anything, mock.Anything, "UTC").Return([]MonthTrend{}, nil)

	stats, err := NewService(repo, time.UTC, nil).Stats(context.Background(), time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Zero(t, stats.ConfirmationRate)
	assert.Zero(t, stats.AverageBookingValue)
	assert.Zero(t, stats.Today.Bookings)
	require.Len(t, stats.MonthlyTrend, 6)
	for _, m := range stats.MonthlyTrend {
		assert.Zero(t, m.Bookings)
	}
	assert.Equal(t, time.Now().UTC().Format("2006-01"), stats.MonthlyTrend[5].Month)
}

func TestService_StatsTrendError(t *testing.T) {
	repo := new(MockRepository)
	repo.On("FacilitySummary", mock.Anything).Return(FacilitySummary{}, nil)
	repo.On("StatusCounts", mock.Anything).Return(StatusCounts{}, nil)
	repo.On("RangeTotals", mock.Anything, mock.Anything, mock.Anything).Return(RangeTotals{}, nil)
	repo.On("PopularHours", mock.Anything, mock.Anything, mock.Anything, "UTC", 5).Return([]HourCount{}, nil)
	repo.On("FacilityUsage", mock.Anything, mock.Anything, mock.Anything, 5).Return([]FacilityUsage{}, nil)
	repo.On("MonthlyTrend", mock.Anything, mock.Anything, mock.Anything, "UTC").Return(nil, assert.AnError)

	stats, err := NewService(repo, time.UTC, nil).Stats(context.Background(), time.Time{}, time.Time{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorContains(t, err, "monthly trend")
	assert.Nil(t, stats)
}

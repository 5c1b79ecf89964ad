package booking

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingRowColumns = []string{
	"id", "user_id", "facility_id", "start_time", "end_time", "status", "purpose",
	"user_name", "facility_name", "total_cost", "created_at", "updated_at",
}

func setupBookingMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(sqlDB, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return NewRepository(sqlxDB), mock
}

func bookingRow(rows *sqlmock.Rows, id int, iv Interval, status string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, 7, 3, iv.Start, iv.End, status, DefaultPurpose, "Su Su", "Futsal Court A", 100000, now, now)
}

func pendingInsert() *Booking {
	iv := span(10, 0, 12, 0)
	return &Booking{
		UserID: 7, FacilityID: 3, StartTime: iv.Start, EndTime: iv.End, Status: StatusConfirmed,
		Purpose: DefaultPurpose, UserName: "Su Su", FacilityName: "Futsal Court A", TotalCost: 100000,
	}
}

func TestRepository_CreateExclusive(t *testing.T) {
	repo, mock := setupBookingMock(t)
	b := pendingInsert()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM facilities WHERE id = $1 FOR UPDATE")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings")).
		WithArgs(3, b.StartTime, b.EndTime, 0).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(7, 3, b.StartTime, b.EndTime, "confirmed", DefaultPurpose, "Su Su", "Futsal Court A", 100000).
		WillReturnRows(bookingRow(sqlmock.NewRows(bookingRowColumns), 11, b.Interval(), "confirmed"))
	mock.ExpectCommit()

	created, err := repo.CreateExclusive(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 11, created.ID)
	assert.Equal(t, StatusConfirmed, created.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateExclusive_OverlapRollsBack(t *testing.T) {
	repo, mock := setupBookingMock(t)
	b := pendingInsert()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, err := repo.CreateExclusive(context.Background(), b)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateExclusive_ExclusionViolation(t *testing.T) {
	repo, mock := setupBookingMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM bookings")).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WillReturnError(&pq.Error{Code: "23P01", Constraint: "bookings_no_overlap"})
	mock.ExpectRollback()

	_, err := repo.CreateExclusive(context.Background(), pendingInsert())
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateExclusive_UnknownFacility(t *testing.T) {
	repo, mock := setupBookingMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreateExclusive(context.Background(), pendingInsert())
	assert.ErrorIs(t, err, ErrFacilityNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func movedBooking() *Booking {
	iv := span(14, 0, 15, 30)
	return &Booking{
		ID: 21, UserID: 7, FacilityID: 3, StartTime: iv.Start, EndTime: iv.End, Status: StatusPending,
		Purpose: "Match", TotalCost: 75000,
	}
}

func TestRepository_RescheduleExclusive(t *testing.T) {
	repo, mock := setupBookingMock(t)
	b := movedBooking()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM facilities WHERE id = $1 FOR UPDATE")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta("AND id <> $4")).
		WithArgs(3, b.StartTime, b.EndTime, 21).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND status = 'pending'")).
		WithArgs(21, b.StartTime, b.EndTime, "Match", 75000).
		WillReturnRows(bookingRow(sqlmock.NewRows(bookingRowColumns), 21, b.Interval(), "pending"))
	mock.ExpectCommit()

	moved, err := repo.RescheduleExclusive(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, 21, moved.ID)
	assert.Equal(t, at(14, 0), moved.StartTime)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_RescheduleExclusive_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		taken   bool
		update  error
		wantErr error
	}{
		{"overlaps another booking", true, nil, ErrSlotUnavailable},
		{"exclusion constraint", false, &pq.Error{Code: "23P01"}, ErrSlotUnavailable},
		{"no longer pending", false, sql.ErrNoRows, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupBookingMock(t)

			mock.ExpectBegin()
			mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
			mock.ExpectQuery(regexp.QuoteMeta("AND id <> $4")).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.taken))
			if !tt.taken {
				mock.ExpectQuery(regexp.QuoteMeta("UPDATE bookings")).
					WillReturnError(tt.update)
			}
			mock.ExpectRollback()

			_, err := repo.RescheduleExclusive(context.Background(), movedBooking())
			assert.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_ListActiveInRange(t *testing.T) {
	repo, mock := setupBookingMock(t)
	from, to := at(0, 0), at(24, 0)

	mock.ExpectQuery(regexp.QuoteMeta("AND status IN ('pending', 'confirmed')")).
		WithArgs(3, from, to).
		WillReturnRows(bookingRow(sqlmock.NewRows(bookingRowColumns), 1, span(10, 0, 11, 0), "confirmed"))

	bookings, err := repo.ListActiveInRange(context.Background(), 3, from, to)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, at(10, 0), bookings[0].StartTime)
}

func TestRepository_ListActiveInRange_ErrorIsReturned(t *testing.T) {
	repo, mock := setupBookingMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WillReturnError(sql.ErrConnDone)

	bookings, err := repo.ListActiveInRange(context.Background(), 3, at(0, 0), at(24, 0))
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.Nil(t, bookings)
}

func TestRepository_Cancel(t *testing.T) {
	repo, mock := setupBookingMock(t)
	query := regexp.QuoteMeta("SET status = 'cancelled', updated_at = NOW() WHERE id = $1 AND status IN ('pending', 'confirmed')")

	mock.ExpectQuery(query).
		WithArgs(5).
		WillReturnRows(bookingRow(sqlmock.NewRows(bookingRowColumns), 5, span(10, 0, 11, 0), "cancelled"))
	mock.ExpectQuery(query).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	b, err := repo.Cancel(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, b.Status)

	_, err = repo.Cancel(context.Background(), 5)
	assert.ErrorIs(t, err, ErrCancellationNotAllowed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	repo, mock := setupBookingMock(t)
	query := regexp.QuoteMeta("SET status = $3, updated_at = NOW() WHERE id = $1 AND status = $2")

	mock.ExpectQuery(query).
		WithArgs(5, "pending", "confirmed").
		WillReturnRows(bookingRow(sqlmock.NewRows(bookingRowColumns), 5, span(10, 0, 11, 0), "confirmed"))
	mock.ExpectQuery(query).
		WithArgs(6, "pending", "confirmed").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	b, err := repo.UpdateStatus(context.Background(), 5, StatusPending, StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, b.Status)

	_, err = repo.UpdateStatus(context.Background(), 6, StatusPending, StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := setupBookingMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = $1")).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_Lists(t *testing.T) {
	repo, mock := setupBookingMock(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).WithArgs(7).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE facility_id = $1 ORDER BY")).WithArgs(3).
		WillReturnRows(bookingRow(sqlmock.NewRows(bookingRowColumns), 1, span(10, 0, 11, 0), "confirmed"))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE status = $1")).WithArgs("pending").
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE start_time >= $1 AND start_time < $2")).WithArgs(at(0, 0), at(24, 0)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns))

	mine, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	assert.NotNil(t, mine)
	assert.Empty(t, mine)

	byFacility, err := repo.ListByFacility(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, byFacility, 1)

	_, err = repo.ListByStatus(ctx, StatusPending)
	require.NoError(t, err)

	_, err = repo.ListInRange(ctx, at(0, 0), at(24, 0))
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/heinthant2k4/sports-arena-booking/internal/auth"
	"github.com/heinthant2k4/sports-arena-booking/internal/events"
	"github.com/heinthant2k4/sports-arena-booking/internal/facility"
	"github.com/heinthant2k4/sports-arena-booking/internal/logger"
	"github.com/heinthant2k4/sports-arena-booking/internal/metrics"
	"github.com/heinthant2k4/sports-arena-booking/internal/user"
)

const (
	minBookingDuration = time.Hour
	maxBookingDuration = 8 * time.Hour
	maxAdvanceBooking  = 30 * 24 * time.Hour
	maxPurposeLength   = 200
)

var (
	ErrFacilityNotFound       = facility.ErrFacilityNotFound
	ErrBookingNotFound        = errors.New("booking not found")
	ErrSlotUnavailable        = errors.New("slot no longer available")
	ErrCancellationNotAllowed = errors.New("booking can no longer be cancelled")
	ErrInvalidTransition      = errors.New("booking status does not allow this change")
	ErrForbidden              = errors.New("booking belongs to another user")
	ErrInvalidBookingTime     = errors.New("invalid booking time")
	ErrFacilityInactive       = errors.New("facility is not accepting bookings")
	ErrInvalidDate            = errors.New("date must be formatted as YYYY-MM-DD")
	ErrInvalidFilter          = errors.New("unknown booking filter")
)

// FacilityLookup resolves the facility a booking is made against.
type FacilityLookup interface {
	Get(ctx context.Context, id int) (*facility.Facility, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, userID int) (*user.User, error)
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, to, name, facilityName string, start, end time.Time) error
}

type Service interface {
	CheckAvailability(ctx context.Context, facilityID int, date string) (*AvailabilityResponse, error)
	CheckInterval(ctx context.Context, facilityID int, start, end time.Time, exclude int) (*IntervalCheck, error)
	CreateBooking(ctx context.Context, session auth.Session, req CreateBookingRequest) (*Booking, error)
	UpdateBooking(ctx context.Context, session auth.Session, bookingID int, req UpdateBookingRequest) (*Booking, error)
	CancelBooking(ctx context.Context, session auth.Session, bookingID int) (*Booking, error)
	ConfirmBooking(ctx context.Context, bookingID int) (*Booking, error)
	CompleteBooking(ctx context.Context, bookingID int) (*Booking, error)
	GetBooking(ctx context.Context, session auth.Session, bookingID int) (*BookingView, error)
	ListMyBookings(ctx context.Context, session auth.Session, filter ListFilter) ([]BookingView, error)
	ListByFacility(ctx context.Context, facilityID int) ([]Booking, error)
	ListByStatus(ctx context.Context, status Status) ([]Booking, error)
	ListInRange(ctx context.Context, from, to time.Time) ([]Booking, error)
}

type Options struct {
	// Location is the zone calendar dates and slot labels refer to.
	Location *time.Location
	// RequireApproval makes new bookings pending until an admin confirms them.
	RequireApproval bool
	Now             func() time.Time
}

type service struct {
	repo       Repository
	facilities FacilityLookup
	users      UserLookup
	notifier   Notifier
	publisher  events.Publisher
	loc        *time.Location
	approval   bool
	now        func() time.Time
}

func NewService(
	repo Repository,
	facilities FacilityLookup,
	users UserLookup,
	notifier Notifier,
	publisher events.Publisher,
	opts Options,
) Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:       repo,
		facilities: facilities,
		users:      users,
		notifier:   notifier,
		publisher:  publisher,
		loc:        opts.Location,
		approval:   opts.RequireApproval,
		now:        opts.Now,
	}
}

// CheckAvailability reports, for every roster slot of date, whether the
// facility is free at the slot's start. A failed lookup is returned as an
// error and never as an all-free day.
func (s *service) CheckAvailability(ctx context.Context, facilityID int, date string) (*AvailabilityResponse, error) {
	dayStart, dayEnd, err := ParseDay(date, s.loc)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if _, err := s.facilities.Get(ctx, facilityID); err != nil {
		metrics.RecordAvailabilityCheck("error")
		return nil, err
	}

	bookings, err := s.repo.ListActiveInRange(ctx, facilityID, dayStart, dayEnd)
	if err != nil {
		metrics.RecordAvailabilityCheck("error")
		return nil, fmt.Errorf("fetch bookings for facility %d on %s: %w", facilityID, date, err)
	}

	metrics.RecordAvailabilityCheck("ok")
	return &AvailabilityResponse{
		FacilityID: facilityID,
		Date:       date,
		Timezone:   s.loc.String(),
		Slots:      Availability(dayStart, bookings),
	}, nil
}

// CheckInterval reports whether [start, end) is free. A non-zero exclude
// ignores that booking, for checking where an existing booking could move.
func (s *service) CheckInterval(ctx context.Context, facilityID int, start, end time.Time, exclude int) (*IntervalCheck, error) {
	proposed := Interval{Start: start, End: end}
	if !proposed.Valid() {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidBookingTime)
	}

	if _, err := s.facilities.Get(ctx, facilityID); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListActiveInRange(ctx, facilityID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch bookings for facility %d: %w", facilityID, err)
	}

	conflicts := []Interval{}
	for _, b := range FindConflicts(proposed, Without(existing, exclude)) {
		conflicts = append(conflicts, b.Interval())
	}

	return &IntervalCheck{
		FacilityID: facilityID,
		StartTime:  start,
		EndTime:    end,
		Available:  len(conflicts) == 0,
		Conflicts:  conflicts,
	}, nil
}

func (s *service) validateTimes(start, end time.Time) error {
	now := s.now()
	switch {
	case !end.After(start):
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidBookingTime)
	case !start.After(now):
		return fmt.Errorf("%w: start time must be in the future", ErrInvalidBookingTime)
	case end.Sub(start) < minBookingDuration:
		return fmt.Errorf("%w: booking must last at least 1 hour", ErrInvalidBookingTime)
	case end.Sub(start) > maxBookingDuration:
		return fmt.Errorf("%w: booking cannot exceed 8 hours", ErrInvalidBookingTime)
	case start.After(now.Add(maxAdvanceBooking)):
		return fmt.Errorf("%w: bookings open at most 30 days ahead", ErrInvalidBookingTime)
	}
	return nil
}

// totalCost charges the hourly rate pro rata by minute.
func totalCost(hourlyRate int64, d time.Duration) int64 {
	return hourlyRate * int64(d/time.Minute) / 60
}

// CreateBooking validates the request, rejects it early against a snapshot of
// the facility's bookings and then commits it through the repository, which
// re-checks for overlaps under a facility lock.
func (s *service) CreateBooking(ctx context.Context, session auth.Session, req CreateBookingRequest) (*Booking, error) {
	if err := s.validateTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if len([]rune(req.Purpose)) > maxPurposeLength {
		return nil, fmt.Errorf("%w: purpose is limited to 200 characters", ErrInvalidBookingTime)
	}
	if req.Purpose == "" {
		req.Purpose = DefaultPurpose
	}

	f, err := s.facilities.Get(ctx, req.FacilityID)
	if err != nil {
		return nil, err
	}
	if !f.IsActive {
		return nil, ErrFacilityInactive
	}

	u, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("load profile of user %d: %w", session.UserID, err)
	}

	proposed := Interval{Start: req.StartTime, End: req.EndTime}
	existing, err := s.repo.ListActiveInRange(ctx, f.ID, proposed.Start, proposed.End)
	if err != nil {
		return nil, fmt.Errorf("fetch bookings for facility %d: %w", f.ID, err)
	}
	if HasConflict(proposed, existing) {
		metrics.RecordBookingConflict(metrics.StagePrecheck)
		return nil, ErrSlotUnavailable
	}

	status := StatusConfirmed
	if s.approval {
		status = StatusPending
	}

	created, err := s.repo.CreateExclusive(ctx, &Booking{
		UserID:       session.UserID,
		FacilityID:   f.ID,
		StartTime:    proposed.Start,
		EndTime:      proposed.End,
		Status:       status,
		Purpose:      req.Purpose,
		UserName:     u.Name,
		FacilityName: f.Name,
		TotalCost:    totalCost(f.HourlyRate, proposed.Duration()),
	})
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			metrics.RecordBookingConflict(metrics.StageCommit)
		}
		return nil, err
	}

	metrics.RecordBooking(f.Type, string(created.Status))
	logger.Info("Booking created",
		"booking_id", created.ID,
		"facility_id", created.FacilityID,
		"user_id", created.UserID,
		"status", created.Status,
	)

	s.publish(ctx, events.RoutingBookingCreated, created)
	if created.Status == StatusConfirmed {
		s.notifyConfirmed(ctx, u.Email, created)
	}

	return created, nil
}

// UpdateBooking moves a pending booking to a new range and recomputes its
// cost. Only the owner or an admin may move it.
func (s *service) UpdateBooking(ctx context.Context, session auth.Session, bookingID int, req UpdateBookingRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !session.CanActOn(b.UserID) {
		return nil, ErrForbidden
	}
	if b.Status != StatusPending {
		return nil, fmt.Errorf("%w: only pending bookings can be changed, this one is %s", ErrInvalidTransition, b.Status)
	}
	if err := s.validateTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if len([]rune(req.Purpose)) > maxPurposeLength {
		return nil, fmt.Errorf("%w: purpose is limited to 200 characters", ErrInvalidBookingTime)
	}

	f, err := s.facilities.Get(ctx, b.FacilityID)
	if err != nil {
		return nil, err
	}
	if !f.IsActive {
		return nil, ErrFacilityInactive
	}

	proposed := Interval{Start: req.StartTime, End: req.EndTime}
	existing, err := s.repo.ListActiveInRange(ctx, f.ID, proposed.Start, proposed.End)
	if err != nil {
		return nil, fmt.Errorf("fetch bookings for facility %d: %w", f.ID, err)
	}
	if HasConflict(proposed, Without(existing, b.ID)) {
		metrics.RecordBookingConflict(metrics.StagePrecheck)
		return nil, ErrSlotUnavailable
	}

	moved := *b
	moved.StartTime = proposed.Start
	moved.EndTime = proposed.End
	moved.TotalCost = totalCost(f.HourlyRate, proposed.Duration())
	if req.Purpose != "" {
		moved.Purpose = req.Purpose
	}

	updated, err := s.repo.RescheduleExclusive(ctx, &moved)
	if err != nil {
		if errors.Is(err, ErrSlotUnavailable) {
			metrics.RecordBookingConflict(metrics.StageCommit)
		}
		return nil, err
	}

	logger.Info("Booking rescheduled",
		"booking_id", updated.ID,
		"facility_id", updated.FacilityID,
		"by_user", session.UserID,
		"start", updated.StartTime,
		"end", updated.EndTime,
	)
	s.publish(ctx, events.RoutingBookingMoved, updated)

	return updated, nil
}

// CancelBooking applies the cancellation policy. Cancelling a booking that is
// already cancelled or completed is a policy violation, not a no-op.
func (s *service) CancelBooking(ctx context.Context, session auth.Session, bookingID int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !session.CanActOn(b.UserID) {
		return nil, ErrForbidden
	}

	if !CanCancel(*b, s.now()) {
		metrics.RecordCancellationRejected()
		return nil, ErrCancellationNotAllowed
	}

	cancelled, err := s.repo.Cancel(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrCancellationNotAllowed) {
			metrics.RecordCancellationRejected()
		}
		return nil, err
	}

	metrics.RecordBookingCancellation()
	logger.Info("Booking cancelled", "booking_id", bookingID, "by_user", session.UserID)
	return cancelled, nil
}

func (s *service) ConfirmBooking(ctx context.Context, bookingID int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	confirmed, err := s.repo.UpdateStatus(ctx, bookingID, StatusPending, StatusConfirmed)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingTransition(string(StatusConfirmed))
	s.publish(ctx, events.RoutingBookingConfirmed, confirmed)

	if u, err := s.users.GetByID(ctx, confirmed.UserID); err == nil {
		s.notifyConfirmed(ctx, u.Email, confirmed)
	} else {
		logger.Warn("Skipping confirmation email", "booking_id", bookingID, "error", err)
	}

	return confirmed, nil
}

// CompleteBooking closes a confirmed booking once its interval has ended.
func (s *service) CompleteBooking(ctx context.Context, bookingID int) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusConfirmed || s.now().Before(b.EndTime) {
		return nil, ErrInvalidTransition
	}

	completed, err := s.repo.UpdateStatus(ctx, bookingID, StatusConfirmed, StatusCompleted)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingTransition(string(StatusCompleted))
	s.publish(ctx, events.RoutingBookingCompleted, completed)
	return completed, nil
}

func (s *service) GetBooking(ctx context.Context, session auth.Session, bookingID int) (*BookingView, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !session.CanActOn(b.UserID) {
		return nil, ErrForbidden
	}

	return &BookingView{Booking: *b, CanCancel: CanCancel(*b, s.now())}, nil
}

func (s *service) ListMyBookings(ctx context.Context, session auth.Session, filter ListFilter) ([]BookingView, error) {
	if filter == "" {
		filter = FilterAll
	}
	keep, ok := s.filterFunc(filter)
	if !ok {
		return nil, ErrInvalidFilter
	}

	bookings, err := s.repo.ListByUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := []BookingView{}
	for _, b := range bookings {
		if keep(b) {
			views = append(views, BookingView{Booking: b, CanCancel: CanCancel(b, now)})
		}
	}
	return views, nil
}

func (s *service) filterFunc(filter ListFilter) (func(Booking) bool, bool) {
	now := s.now()
	switch filter {
	case FilterAll:
		return func(Booking) bool { return true }, true
	case FilterUpcoming:
		return func(b Booking) bool { return b.Status != StatusCancelled && b.StartTime.After(now) }, true
	case FilterPast:
		return func(b Booking) bool { return b.Status != StatusCancelled && b.EndTime.Before(now) }, true
	case FilterCancelled:
		return func(b Booking) bool { return b.Status == StatusCancelled }, true
	case FilterCancellable:
		return func(b Booking) bool { return CanCancel(b, now) }, true
	}
	return nil, false
}

func (s *service) ListByFacility(ctx context.Context, facilityID int) ([]Booking, error) {
	if _, err := s.facilities.Get(ctx, facilityID); err != nil {
		return nil, err
	}
	return s.repo.ListByFacility(ctx, facilityID)
}

func (s *service) ListByStatus(ctx context.Context, status Status) ([]Booking, error) {
	return s.repo.ListByStatus(ctx, status)
}

func (s *service) ListInRange(ctx context.Context, from, to time.Time) ([]Booking, error) {
	if !to.After(from) {
		return nil, fmt.Errorf("%w: range end must be after its start", ErrInvalidBookingTime)
	}
	return s.repo.ListInRange(ctx, from, to)
}

func (s *service) publish(ctx context.Context, routingKey string, b *Booking) {
	evt := events.NewBookingEvent(routingKey, b.ID, b.UserID, b.FacilityID, string(b.Status), b.StartTime, b.EndTime)
	if err := s.publisher.Publish(ctx, routingKey, evt); err != nil {
		metrics.RecordEvent(routingKey, "error")
		logger.Error("Failed to publish booking event", "routing_key", routingKey, "booking_id", b.ID, "error", err)
		return
	}
	metrics.RecordEvent(routingKey, "ok")
}

func (s *service) notifyConfirmed(ctx context.Context, email string, b *Booking) {
	if s.notifier == nil {
		return
	}
	start := b.StartTime.In(s.loc)
	end := b.EndTime.In(s.loc)
	if err := s.notifier.SendBookingConfirmation(ctx, email, b.UserName, b.FacilityName, start, end); err != nil {
		metrics.RecordEmail("booking_confirmation", "failed")
		logger.Error("Failed to queue confirmation email", "booking_id", b.ID, "error", err)
		return
	}
	metrics.RecordEmail("booking_confirmation", "queued")
}

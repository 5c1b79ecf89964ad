package booking

import "time"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Active statuses hold their interval; only they take part in conflict and
// availability checks.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

const DefaultPurpose = "General use"

type Booking struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	FacilityID   int       `db:"facility_id" json:"facility_id"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	EndTime      time.Time `db:"end_time" json:"end_time"`
	Status       Status    `db:"status" json:"status"`
	Purpose      string    `db:"purpose" json:"purpose"`
	UserName     string    `db:"user_name" json:"user_name"`
	FacilityName string    `db:"facility_name" json:"facility_name"`
	TotalCost    int64     `db:"total_cost" json:"total_cost"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

func (b Booking) Interval() Interval {
	return Interval{Start: b.StartTime, End: b.EndTime}
}

// BookingView is a booking as shown to its owner, with the cancel affordance
// evaluated at request time.
type BookingView struct {
	Booking
	CanCancel bool `json:"can_cancel"`
}

// UpdateBookingRequest moves a pending booking. An empty purpose keeps the
// current one.
type UpdateBookingRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Purpose   string    `json:"purpose" binding:"max=200"`
}

type CreateBookingRequest struct {
	FacilityID int       `json:"facility_id" binding:"required,min=1"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Purpose    string    `json:"purpose" binding:"max=200"`
}

type SlotAvailability struct {
	Slot      string `json:"slot" example:"08:00"`
	Available bool   `json:"available"`
}

type AvailabilityResponse struct {
	FacilityID int                `json:"facility_id"`
	Date       string             `json:"date" example:"2025-03-14"`
	Timezone   string             `json:"timezone" example:"Asia/Yangon"`
	Slots      []SlotAvailability `json:"slots"`
}

type IntervalCheck struct {
	FacilityID int        `json:"facility_id"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    time.Time  `json:"end_time"`
	Available  bool       `json:"available"`
	Conflicts  []Interval `json:"conflicts"`
}

type ListFilter string

const (
	FilterAll         ListFilter = "all"
	FilterUpcoming    ListFilter = "upcoming"
	FilterPast        ListFilter = "past"
	FilterCancelled   ListFilter = "cancelled"
	FilterCancellable ListFilter = "cancellable"
)

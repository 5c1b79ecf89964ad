package dashboard

import "time"

type FacilitySummary struct {
	Active            int64 `db:"active" json:"active"`
	Inactive          int64 `db:"inactive" json:"inactive"`
	AverageHourlyRate int64 `db:"average_hourly_rate" json:"average_hourly_rate"`
}

type StatusCounts struct {
	Pending   int64 `db:"pending" json:"pending"`
	Confirmed int64 `db:"confirmed" json:"confirmed"`
	Cancelled int64 `db:"cancelled" json:"cancelled"`
	Completed int64 `db:"completed" json:"completed"`
}

func (c StatusCounts) Total() int64 {
	return c.Pending + c.Confirmed + c.Cancelled + c.Completed
}

type RangeTotals struct {
	Bookings int64 `db:"bookings" json:"bookings"`
	Revenue  int64 `db:"revenue" json:"revenue"`
}

type HourCount struct {
	Hour     int   `db:"hour" json:"hour"`
	Bookings int64 `db:"bookings" json:"bookings"`
}

type FacilityUsage struct {
	FacilityID int    `db:"facility_id" json:"facility_id"`
	Name       string `db:"name" json:"name"`
	Bookings   int64  `db:"bookings" json:"bookings"`
	Revenue    int64  `db:"revenue" json:"revenue"`
}

// MonthTrend is one calendar month, keyed "YYYY-MM" in the booking time zone.
type MonthTrend struct {
	Month    string `db:"month" json:"month" example:"2025-03"`
	Bookings int64  `db:"bookings" json:"bookings"`
	Revenue  int64  `db:"revenue" json:"revenue"`
}

// Stats is the admin overview. Counts by status cover all bookings; every
// other booking figure is limited to bookings starting in [From, To), except
// Today, LastSevenDays and MonthlyTrend, which are anchored on the current time.
type Stats struct {
	From                time.Time       `json:"from"`
	To                  time.Time       `json:"to"`
	Facilities          FacilitySummary `json:"facilities"`
	Statuses            StatusCounts    `json:"statuses"`
	TotalBookings       int64           `json:"total_bookings"`
	ConfirmationRate    float64         `json:"confirmation_rate"`
	CancellationRate    float64         `json:"cancellation_rate"`
	BookingsInRange     int64           `json:"bookings_in_range"`
	RevenueInRange      int64           `json:"revenue_in_range"`
	AverageBookingValue int64           `json:"average_booking_value"`
	PopularHours        []HourCount     `json:"popular_hours"`
	FacilityUsage       []FacilityUsage `json:"facility_usage"`
	Today               RangeTotals     `json:"today"`
	LastSevenDays       RangeTotals     `json:"last_7_days"`
	MonthlyTrend        []MonthTrend    `json:"monthly_trend"`
}

package facility

import (
	"time"

	"github.com/lib/pq"
)

const (
	TypeFutsal    = "futsal"
	TypeBadminton = "badminton"
)

type Facility struct {
	ID          int            `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Type        string         `db:"type" json:"type"`
	Capacity    int            `db:"capacity" json:"capacity"`
	HourlyRate  int64          `db:"hourly_rate" json:"hourly_rate"`
	Equipment   pq.StringArray `db:"equipment" json:"equipment"`
	IsActive    bool           `db:"is_active" json:"is_active"`
	Description string         `db:"description" json:"description"`
	ImageURL    string         `db:"image_url" json:"image_url"`
	Location    string         `db:"location" json:"location"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// FacilityRequest is the admin payload for both create and full update.
// A nil IsActive leaves the current flag alone; new facilities start active.
type FacilityRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=100"`
	Type        string   `json:"type" binding:"required,oneof=futsal badminton"`
	Capacity    int      `json:"capacity" binding:"required,min=1,max=100"`
	HourlyRate  int64    `json:"hourly_rate" binding:"required,gt=0,lte=1000000"`
	Equipment   []string `json:"equipment" binding:"omitempty,dive,min=1,max=100"`
	IsActive    *bool    `json:"is_active"`
	Description string   `json:"description" binding:"max=500"`
	ImageURL    string   `json:"image_url" binding:"omitempty,url"`
	Location    string   `json:"location" binding:"max=200"`
}

func (r FacilityRequest) apply(f *Facility) {
	f.Name = r.Name
	f.Type = r.Type
	f.Capacity = r.Capacity
	f.HourlyRate = r.HourlyRate
	f.Equipment = pq.StringArray(r.Equipment)
	if f.Equipment == nil {
		f.Equipment = pq.StringArray{}
	}
	if r.IsActive != nil {
		f.IsActive = *r.IsActive
	}
	f.Description = r.Description
	f.ImageURL = r.ImageURL
	f.Location = r.Location
}

func ValidType(t string) bool {
	return t == TypeFutsal || t == TypeBadminton
}

func sampleFacilities() []Facility {
	return []Facility{
		{
			Name:        "Futsal Court A",
			Type:        TypeFutsal,
			Capacity:    14,
			HourlyRate:  50000,
			Equipment:   pq.StringArray{"Goals", "Balls", "Bibs", "Cones"},
			IsActive:    true,
			Description: "Premium indoor futsal court with artificial turf and pro lighting. Perfect for 5v5 matches.",
			ImageURL:    "https://source.unsplash.com/800x600/?futsal,court,indoor",
			Location:    "Ground Floor, Main Building",
		},
		{
			Name:        "Futsal Court B",
			Type:        TypeFutsal,
			Capacity:    14,
			HourlyRate:  45000,
			Equipment:   pq.StringArray{"Goals", "Balls", "Bibs"},
			IsActive:    true,
			Description: "Standard futsal court suitable for training and casual games.",
			ImageURL:    "https://source.unsplash.com/800x600/?futsal,stadium",
			Location:    "Ground Floor, Main Building",
		},
		{
			Name:        "Badminton Court 1",
			Type:        TypeBadminton,
			Capacity:    4,
			HourlyRate:  25000,
			Equipment:   pq.StringArray{"Nets", "Shuttlecocks", "Rackets (rental available)"},
			IsActive:    true,
			Description: "Professional badminton court with wooden flooring and ventilation.",
			ImageURL:    "https://source.unsplash.com/800x600/?badminton,court,indoor",
			Location:    "First Floor, Sports Complex",
		},
		{
			Name:        "Badminton Court 2",
			Type:        TypeBadminton,
			Capacity:    4,
			HourlyRate:  25000,
			Equipment:   pq.StringArray{"Nets", "Shuttlecocks"},
			IsActive:    true,
			Description: "Standard badminton court perfect for doubles and training.",
			ImageURL:    "https://source.unsplash.com/800x600/?badminton,shuttlecock",
			Location:    "First Floor, Sports Complex",
		},
		{
			Name:        "Badminton Court 3",
			Type:        TypeBadminton,
			Capacity:    4,
			HourlyRate:  20000,
			Equipment:   pq.StringArray{"Nets", "Shuttlecocks"},
			IsActive:    true,
			Description: "Budget-friendly badminton court for casual play and practice.",
			ImageURL:    "https://source.unsplash.com/800x600/?badminton,sports-hall",
			Location:    "First Floor, Sports Complex",
		},
	}
}

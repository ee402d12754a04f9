package model

import "time"

// DateLayout is the wire and storage format of trip dates.
const DateLayout = "2006-01-02"

type Trip struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Title       string          `json:"title"`
	Destination string          `json:"destination"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Itinerary   []ItineraryItem `json:"itinerary,omitempty"`
}

type ItineraryItem struct {
	ID        int64     `json:"id"`
	TripID    int64     `json:"trip_id"`
	Day       int       `json:"day"`
	Time      string    `json:"time"`
	Activity  string    `json:"activity"`
	Location  string    `json:"location"`
	Notes     string    `json:"notes"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package model

import "time"

// Weather is the forecast snapshot a list was generated with. TempC is nil
// when only a description is known.
type Weather struct {
	TempC       *float64 `json:"temp_c"`
	Description string   `json:"description"`
}

type PackingList struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	TripID      *int64        `json:"trip_id"`
	Destination string        `json:"destination"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	TripType    string        `json:"trip_type"`
	Activities  []string      `json:"activities"`
	PackingPref string        `json:"packing_pref"`
	Weather     *Weather      `json:"weather"`
	CreatedAt   time.Time     `json:"created_at"`
	Items       []PackingItem `json:"items"`
}

type PackingItem struct {
	ID        int64      `json:"id"`
	ListID    int64      `json:"list_id"`
	Label     string     `json:"label"`
	Packed    bool       `json:"packed"`
	PackedAt  *time.Time `json:"packed_at"`
	SortOrder int        `json:"sort_order"`
	CreatedAt time.Time  `json:"created_at"`
}

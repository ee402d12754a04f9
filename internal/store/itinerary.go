package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/wanderpack/internal/model"
)

type ItineraryStore struct {
	db *sql.DB
}

func NewItineraryStore(db *sql.DB) *ItineraryStore {
	return &ItineraryStore{db: db}
}

const itineraryCols = `id, trip_id, day, time, activity, location, notes, completed, created_at, updated_at`

func scanItineraryItem(s scanner) (*model.ItineraryItem, error) {
	var it model.ItineraryItem
	var completed int
	err := s.Scan(&it.ID, &it.TripID, &it.Day, &it.Time, &it.Activity, &it.Location, &it.Notes, &completed, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.Completed = completed != 0
	return &it, nil
}

func (s *ItineraryStore) Create(tripID int64, day int, clock, activity, location, notes string) (*model.ItineraryItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO itinerary_items (trip_id, day, time, activity, location, notes) VALUES (?, ?, ?, ?, ?, ?)`,
		tripID, day, clock, activity, location, notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert itinerary item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItineraryStore) GetByID(id int64) (*model.ItineraryItem, error) {
	row := s.db.QueryRow(`SELECT `+itineraryCols+` FROM itinerary_items WHERE id = ?`, id)
	it, err := scanItineraryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get itinerary item: %w", err)
	}
	return it, nil
}

// GetForUser returns the item only when its trip belongs to userID.
func (s *ItineraryStore) GetForUser(userID, id int64) (*model.ItineraryItem, error) {
	row := s.db.QueryRow(
		`SELECT `+itineraryCols+` FROM itinerary_items
		 WHERE id = ? AND trip_id IN (SELECT id FROM trips WHERE user_id = ?)`,
		id, userID,
	)
	it, err := scanItineraryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get itinerary item: %w", err)
	}
	return it, nil
}

// ListByTrip returns the trip's items ordered by day then time.
func (s *ItineraryStore) ListByTrip(tripID int64) ([]model.ItineraryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+itineraryCols+` FROM itinerary_items WHERE trip_id = ? ORDER BY day ASC, time ASC, id ASC`,
		tripID,
	)
	if err != nil {
		return nil, fmt.Errorf("list itinerary: %w", err)
	}
	defer rows.Close()

	var items []model.ItineraryItem
	for rows.Next() {
		it, err := scanItineraryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan itinerary item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// MaxDay returns the highest day number used by the trip's items, 0 if none.
func (s *ItineraryStore) MaxDay(tripID int64) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(day) FROM itinerary_items WHERE trip_id = ?`, tripID).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max itinerary day: %w", err)
	}
	return int(max.Int64), nil
}

func (s *ItineraryStore) Update(id int64, day int, clock, activity, location, notes string) (*model.ItineraryItem, error) {
	_, err := s.db.Exec(
		`UPDATE itinerary_items SET day = ?, time = ?, activity = ?, location = ?, notes = ?, updated_at = ? WHERE id = ?`,
		day, clock, activity, location, notes, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update itinerary item: %w", err)
	}
	return s.GetByID(id)
}

func (s *ItineraryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM itinerary_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete itinerary item: %w", err)
	}
	return nil
}

func (s *ItineraryStore) ToggleCompleted(id int64) (*model.ItineraryItem, error) {
	result, err := s.db.Exec(
		`UPDATE itinerary_items SET completed = 1 - completed, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle completed: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, nil
	}
	return s.GetByID(id)
}

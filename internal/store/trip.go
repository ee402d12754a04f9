package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/dukerupert/wanderpack/internal/model"
)

type TripStore struct {
	db *sql.DB
}

func NewTripStore(db *sql.DB) *TripStore {
	return &TripStore{db: db}
}

const tripCols = `id, user_id, title, destination, start_date, end_date, created_at, updated_at`

func scanTrip(s scanner) (*model.Trip, error) {
	var t model.Trip
	err := s.Scan(&t.ID, &t.UserID, &t.Title, &t.Destination, &t.StartDate, &t.EndDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TripFilter narrows List. Status is matched against Today, a YYYY-MM-DD date.
// likeEscaper makes LIKE wildcards in a search term match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type TripFilter struct {
	Status string
	Query  string
	Today  string
	Limit  uint64
	Offset uint64
}

func (s *TripStore) Create(userID int64, title, destination, startDate, endDate string) (*model.Trip, error) {
	result, err := s.db.Exec(
		`INSERT INTO trips (user_id, title, destination, start_date, end_date) VALUES (?, ?, ?, ?, ?)`,
		userID, title, destination, startDate, endDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert trip: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(userID, id)
}

// GetByID returns the trip only when it belongs to userID.
func (s *TripStore) GetByID(userID, id int64) (*model.Trip, error) {
	row := s.db.QueryRow(`SELECT `+tripCols+` FROM trips WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTrip(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return t, nil
}

func (s *TripStore) List(userID int64, f TripFilter) ([]model.Trip, error) {
	q := sq.Select(tripCols).From("trips").Where(sq.Eq{"user_id": userID})

	switch f.Status {
	case "upcoming":
		q = q.Where(sq.Gt{"start_date": f.Today})
	case "past":
		q = q.Where(sq.Lt{"end_date": f.Today})
	case "ongoing":
		q = q.Where(sq.LtOrEq{"start_date": f.Today}).Where(sq.GtOrEq{"end_date": f.Today})
	}

	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + likeEscaper.Replace(term) + "%"
		q = q.Where(sq.Or{
			sq.Expr(`title LIKE ? ESCAPE '\'`, like),
			sq.Expr(`destination LIKE ? ESCAPE '\'`, like),
		})
	}

	q = q.OrderBy("start_date DESC", "id DESC")
	switch {
	case f.Limit > 0:
		q = q.Limit(f.Limit)
		if f.Offset > 0 {
			q = q.Offset(f.Offset)
		}
	case f.Offset > 0:
		// SQLite only accepts OFFSET after LIMIT; -1 means no limit.
		q = q.Suffix("LIMIT -1 OFFSET ?", f.Offset)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build trip query: %w", err)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	var trips []model.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, *t)
	}
	return trips, rows.Err()
}

func (s *TripStore) Update(userID, id int64, title, destination, startDate, endDate string) (*model.Trip, error) {
	_, err := s.db.Exec(
		`UPDATE trips SET title = ?, destination = ?, start_date = ?, end_date = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		title, destination, startDate, endDate, time.Now().UTC(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update trip: %w", err)
	}
	return s.GetByID(userID, id)
}

// Delete removes the trip and its itinerary. Reports whether a row was deleted.
func (s *TripStore) Delete(userID, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM trips WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete trip: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

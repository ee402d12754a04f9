package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/wanderpack/internal/model"
)

type PackingStore struct {
	db *sql.DB
}

func NewPackingStore(db *sql.DB) *PackingStore {
	return &PackingStore{db: db}
}

// --- List methods ---

const packingListCols = `id, user_id, trip_id, destination, start_date, end_date, trip_type, activities, packing_pref, weather_temp_c, weather_description, created_at`

func scanPackingList(s scanner) (*model.PackingList, error) {
	var l model.PackingList
	var tripID sql.NullInt64
	var activities string
	var tempC sql.NullFloat64
	var weatherDesc sql.NullString

	err := s.Scan(
		&l.ID, &l.UserID, &tripID, &l.Destination, &l.StartDate, &l.EndDate,
		&l.TripType, &activities, &l.PackingPref, &tempC, &weatherDesc, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tripID.Valid {
		l.TripID = &tripID.Int64
	}
	if err := json.Unmarshal([]byte(activities), &l.Activities); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	if tempC.Valid || weatherDesc.Valid {
		l.Weather = &model.Weather{Description: weatherDesc.String}
		if tempC.Valid {
			l.Weather.TempC = &tempC.Float64
		}
	}
	return &l, nil
}

// CreateList stores the list header and its items in one transaction.
// Repeated labels are stored once, at their first position.
func (s *PackingStore) CreateList(l model.PackingList, labels []string) (*model.PackingList, error) {
	activities := l.Activities
	if activities == nil {
		activities = []string{}
	}
	encoded, err := json.Marshal(activities)
	if err != nil {
		return nil, fmt.Errorf("encode activities: %w", err)
	}

	var tripID sql.NullInt64
	if l.TripID != nil {
		tripID = sql.NullInt64{Int64: *l.TripID, Valid: true}
	}
	var tempC sql.NullFloat64
	var weatherDesc sql.NullString
	if l.Weather != nil {
		if l.Weather.TempC != nil {
			tempC = sql.NullFloat64{Float64: *l.Weather.TempC, Valid: true}
		}
		weatherDesc = sql.NullString{String: l.Weather.Description, Valid: true}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO packing_lists (user_id, trip_id, destination, start_date, end_date, trip_type, activities, packing_pref, weather_temp_c, weather_description)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.UserID, tripID, l.Destination, l.StartDate, l.EndDate, l.TripType, string(encoded), l.PackingPref, tempC, weatherDesc,
	)
	if err != nil {
		return nil, fmt.Errorf("insert packing list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for i, label := range labels {
		if _, err := tx.Exec(
			`INSERT OR IGNORE INTO packing_items (list_id, label, sort_order) VALUES (?, ?, ?)`,
			id, label, i,
		); err != nil {
			return nil, fmt.Errorf("insert packing item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit packing list: %w", err)
	}
	return s.GetList(l.UserID, id)
}

// GetList returns the list with its items, or nil if it does not belong to userID.
func (s *PackingStore) GetList(userID, id int64) (*model.PackingList, error) {
	row := s.db.QueryRow(`SELECT `+packingListCols+` FROM packing_lists WHERE id = ? AND user_id = ?`, id, userID)
	l, err := scanPackingList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get packing list: %w", err)
	}
	items, err := s.ListItems(l.ID)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return l, nil
}

// ListLists returns the user's lists, newest first, each with its items.
func (s *PackingStore) ListLists(userID int64) ([]model.PackingList, error) {
	rows, err := s.db.Query(
		`SELECT `+packingListCols+` FROM packing_lists WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list packing lists: %w", err)
	}

	var lists []model.PackingList
	for rows.Next() {
		l, err := scanPackingList(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan packing list: %w", err)
		}
		lists = append(lists, *l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range lists {
		items, err := s.ListItems(lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}
	return lists, nil
}

func (s *PackingStore) DeleteList(userID, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM packing_lists WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete packing list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// --- Item methods ---

const packingItemCols = `id, list_id, label, packed, packed_at, sort_order, created_at`

func scanPackingItem(s scanner) (*model.PackingItem, error) {
	var it model.PackingItem
	var packed int
	var packedAt sql.NullTime
	err := s.Scan(&it.ID, &it.ListID, &it.Label, &packed, &packedAt, &it.SortOrder, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	it.Packed = packed != 0
	if packedAt.Valid {
		it.PackedAt = &packedAt.Time
	}
	return &it, nil
}

func (s *PackingStore) ListItems(listID int64) ([]model.PackingItem, error) {
	rows, err := s.db.Query(
		`SELECT `+packingItemCols+` FROM packing_items WHERE list_id = ? ORDER BY sort_order ASC, id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list packing items: %w", err)
	}
	defer rows.Close()

	items := []model.PackingItem{}
	for rows.Next() {
		it, err := scanPackingItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan packing item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *PackingStore) GetItem(listID, id int64) (*model.PackingItem, error) {
	row := s.db.QueryRow(`SELECT `+packingItemCols+` FROM packing_items WHERE id = ? AND list_id = ?`, id, listID)
	it, err := scanPackingItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get packing item: %w", err)
	}
	return it, nil
}

// AddItem appends a label to the list. Returns ErrDuplicate if the label exists.
func (s *PackingStore) AddItem(listID int64, label string) (*model.PackingItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO packing_items (list_id, label, sort_order)
		 VALUES (?, ?, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM packing_items WHERE list_id = ?))`,
		listID, label, listID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert packing item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(listID, id)
}

func (s *PackingStore) DeleteItem(listID, id int64) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM packing_items WHERE id = ? AND list_id = ?`, id, listID)
	if err != nil {
		return false, fmt.Errorf("delete packing item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *PackingStore) TogglePacked(listID, id int64) (*model.PackingItem, error) {
	item, err := s.GetItem(listID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	if item.Packed {
		_, err = s.db.Exec(`UPDATE packing_items SET packed = 0, packed_at = NULL WHERE id = ?`, id)
	} else {
		_, err = s.db.Exec(`UPDATE packing_items SET packed = 1, packed_at = ? WHERE id = ?`, time.Now().UTC(), id)
	}
	if err != nil {
		return nil, fmt.Errorf("toggle packed: %w", err)
	}
	return s.GetItem(listID, id)
}

// CountUnpacked returns how many items on the list are still unpacked.
func (s *PackingStore) CountUnpacked(listID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM packing_items WHERE list_id = ? AND packed = 0`, listID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unpacked: %w", err)
	}
	return count, nil
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/wanderpack/internal/model"
)

type ContentStore struct {
	db *sql.DB
}

func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// GetPage returns the page's blocks keyed by block key. Unknown pages yield an empty map.
func (s *ContentStore) GetPage(page string) (map[string]string, error) {
	rows, err := s.db.Query(`SELECT key, value FROM content_blocks WHERE page = ? ORDER BY key`, page)
	if err != nil {
		return nil, fmt.Errorf("get page %q: %w", page, err)
	}
	defer rows.Close()

	blocks := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan content block: %w", err)
		}
		blocks[key] = value
	}
	return blocks, rows.Err()
}

func (s *ContentStore) Get(page, key string) (*model.ContentBlock, error) {
	var b model.ContentBlock
	err := s.db.QueryRow(
		`SELECT page, key, value, updated_at FROM content_blocks WHERE page = ? AND key = ?`, page, key,
	).Scan(&b.Page, &b.Key, &b.Value, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content block %s/%s: %w", page, key, err)
	}
	return &b, nil
}

func (s *ContentStore) Set(page, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO content_blocks (page, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(page, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		page, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set content block %s/%s: %w", page, key, err)
	}
	return nil
}

func (s *ContentStore) ListCountries() ([]model.Country, error) {
	rows, err := s.db.Query(`SELECT id, name FROM countries ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	var countries []model.Country
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

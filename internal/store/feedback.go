package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/wanderpack/internal/model"
)

type FeedbackStore struct {
	db *sql.DB
}

func NewFeedbackStore(db *sql.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// --- Ratings ---

func (s *FeedbackStore) CreateRating(userID int64, rating int, feedback string) (*model.Rating, error) {
	result, err := s.db.Exec(
		`INSERT INTO ratings (user_id, rating, feedback) VALUES (?, ?, ?)`,
		userID, rating, feedback,
	)
	if err != nil {
		return nil, fmt.Errorf("insert rating: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var r model.Rating
	err = s.db.QueryRow(
		`SELECT r.id, r.user_id, u.firstname, r.rating, r.feedback, r.created_at
		 FROM ratings r JOIN users u ON u.id = r.user_id WHERE r.id = ?`, id,
	).Scan(&r.ID, &r.UserID, &r.Firstname, &r.Rating, &r.Feedback, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &r, nil
}

// ListRatings returns the most recent ratings with their author's first name.
func (s *FeedbackStore) ListRatings(limit int) ([]model.Rating, error) {
	rows, err := s.db.Query(
		`SELECT r.id, r.user_id, u.firstname, r.rating, r.feedback, r.created_at
		 FROM ratings r JOIN users u ON u.id = r.user_id
		 ORDER BY r.created_at DESC, r.id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(&r.ID, &r.UserID, &r.Firstname, &r.Rating, &r.Feedback, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

// --- Contact messages ---

func (s *FeedbackStore) CreateContactMessage(userID *int64, name, email, subject, message string) (*model.ContactMessage, error) {
	var uid sql.NullInt64
	if userID != nil {
		uid = sql.NullInt64{Int64: *userID, Valid: true}
	}
	result, err := s.db.Exec(
		`INSERT INTO contact_messages (user_id, name, email, subject, message) VALUES (?, ?, ?, ?, ?)`,
		uid, name, email, subject, message,
	)
	if err != nil {
		return nil, fmt.Errorf("insert contact message: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	var m model.ContactMessage
	err = s.db.QueryRow(
		`SELECT id, user_id, name, email, subject, message, created_at FROM contact_messages WHERE id = ?`, id,
	).Scan(&m.ID, &uid, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get contact message: %w", err)
	}
	if uid.Valid {
		m.UserID = &uid.Int64
	}
	return &m, nil
}

// --- Newsletter ---

// Subscribe records email for the newsletter. created is false when the
// address was already subscribed by the same user, in which case the existing
// row is returned. An address held by another user yields ErrDuplicate.
func (s *FeedbackStore) Subscribe(userID int64, email string) (sub *model.Subscriber, created bool, err error) {
	email = NormalizeEmail(email)
	result, err := s.db.Exec(
		`INSERT INTO subscribers (user_id, email) VALUES (?, ?) ON CONFLICT(email) DO NOTHING`,
		userID, email,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert subscriber: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("rows affected: %w", err)
	}

	var sb model.Subscriber
	err = s.db.QueryRow(
		`SELECT id, user_id, email, created_at FROM subscribers WHERE email = ?`, email,
	).Scan(&sb.ID, &sb.UserID, &sb.Email, &sb.CreatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("get subscriber: %w", err)
	}
	if sb.UserID != userID {
		return nil, false, ErrDuplicate
	}
	return &sb, n > 0, nil
}

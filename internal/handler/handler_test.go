package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dukerupert/wanderpack/internal/auth"
	"github.com/dukerupert/wanderpack/internal/database"
	"github.com/dukerupert/wanderpack/internal/model"
	"github.com/dukerupert/wanderpack/internal/store"
	"github.com/dukerupert/wanderpack/internal/websocket"
)

const testSecret = "test-secret-that-is-at-least-32-chars-long"

type fixture struct {
	db        *sql.DB
	users     *store.UserStore
	sessions  *store.SessionStore
	trips     *store.TripStore
	itinerary *store.ItineraryStore
	packing   *store.PackingStore
	feedback  *store.FeedbackStore
	content   *store.ContentStore
	hub       *websocket.Hub
	logger    *slog.Logger
	user      *model.User
}

func setup(t *testing.T) *fixture {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		db:        db,
		users:     store.NewUserStore(db),
		sessions:  store.NewSessionStore(db),
		trips:     store.NewTripStore(db),
		itinerary: store.NewItineraryStore(db),
		packing:   store.NewPackingStore(db),
		feedback:  store.NewFeedbackStore(db),
		content:   store.NewContentStore(db),
		hub:       websocket.NewHub(logger),
		logger:    logger,
	}
	f.user = f.createUser(t, "alice@example.com")
	return f
}

func (f *fixture) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	u, err := f.users.Create("Alice", "Smith", email, "hash")
	require.NoError(t, err)
	return u
}

func (f *fixture) createTrip(t *testing.T, userID int64, start, end string) *model.Trip {
	t.Helper()
	tr, err := f.trips.Create(userID, "Summer in Lisbon", "Lisbon", start, end)
	require.NoError(t, err)
	return tr
}

// newRequest builds a request authenticated as userID (0 for anonymous)
// with the given path values set.
func newRequest(t *testing.T, method, target string, body any, userID int64, pathValues ...string) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, r)
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	if userID != 0 {
		req = req.WithContext(auth.WithAuth(req.Context(), auth.AuthContext{UserID: userID, SessionID: "test-session"}))
	}
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func fixedNow(day string) func() time.Time {
	return func() time.Time {
		tm, _ := time.Parse(model.DateLayout, day)
		return tm.Add(12 * time.Hour)
	}
}

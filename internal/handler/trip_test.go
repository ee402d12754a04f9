package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/wanderpack/internal/trip"
)

func newTripHandler(f *fixture) *TripHandler {
	h := NewTripHandler(f.trips, f.itinerary, f.hub, f.logger)
	h.now = fixedNow("2025-07-03")
	return h
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestTripCreate(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)

	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(t, "POST", "/api/trips", map[string]string{
		"title": "  Alps  ", "destination": "Chamonix", "start_date": "2025-08-01", "end_date": "2025-08-05",
	}, f.user.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"title":"Alps"`)
}

func TestTripCreateValidation(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)

	tests := []struct {
		name string
		body map[string]string
		want string
	}{
		{"short title", map[string]string{"title": "AB", "destination": "X", "start_date": "2025-08-01", "end_date": "2025-08-02"}, trip.ErrTitleTooShort.Error()},
		{"no destination", map[string]string{"title": "Trip", "start_date": "2025-08-01", "end_date": "2025-08-02"}, trip.ErrDestinationRequired.Error()},
		{"bad date", map[string]string{"title": "Trip", "destination": "X", "start_date": "08/01/2025", "end_date": "2025-08-02"}, trip.ErrInvalidDate.Error()},
		{"end before start", map[string]string{"title": "Trip", "destination": "X", "start_date": "2025-08-05", "end_date": "2025-08-01"}, trip.ErrDateOrder.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, newRequest(t, "POST", "/api/trips", tt.body, f.user.ID))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rec.Body.String())
		})
	}
}

func TestTripList(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)

	f.createTrip(t, f.user.ID, "2025-06-01", "2025-06-10")
	f.createTrip(t, f.user.ID, "2025-07-01", "2025-07-10")
	f.createTrip(t, f.user.ID, "2025-09-01", "2025-09-03")
	other := f.createUser(t, "bob@example.com")
	f.createTrip(t, other.ID, "2025-07-01", "2025-07-10")

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(t, "GET", "/api/trips", nil, f.user.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody[[]tripView](t, rec)
	require.Len(t, all, 3)
	assert.Equal(t, "2025-09-01", all[0].StartDate)
	assert.Equal(t, trip.StatusUpcoming, all[0].Status)
	assert.Equal(t, 3, all[0].DurationDays)
	assert.Equal(t, trip.StatusOngoing, all[1].Status)
	assert.Equal(t, trip.StatusPast, all[2].Status)

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(t, "GET", "/api/trips?status=ongoing", nil, f.user.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]tripView](t, rec), 1)

	rec = httptest.NewRecorder()
	h.List(rec, newRequest(t, "GET", "/api/trips?limit=1&offset=1", nil, f.user.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[[]tripView](t, rec)
	require.Len(t, page, 1)
	assert.Equal(t, "2025-07-01", page[0].StartDate)
}

func TestTripListEmpty(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(t, "GET", "/api/trips", nil, f.user.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestTripListBadParams(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)

	for _, q := range []string{"status=someday", "limit=abc", "offset=-1"} {
		rec := httptest.NewRecorder()
		h.List(rec, newRequest(t, "GET", "/api/trips?"+q, nil, f.user.ID))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestTripGetWithSummary(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)
	tr := f.createTrip(t, f.user.ID, "2025-07-01", "2025-07-04")

	_, err := f.itinerary.Create(tr.ID, 1, "09:00", "Tram 28", "", "")
	require.NoError(t, err)
	it, err := f.itinerary.Create(tr.ID, 2, "10:00", "Belém", "", "")
	require.NoError(t, err)
	_, err = f.itinerary.ToggleCompleted(it.ID)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(t, "GET", "/api/trips/x", nil, f.user.ID, "id", idString(tr.ID)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	detail := decodeBody[tripDetail](t, rec)
	assert.Len(t, detail.Itinerary, 2)
	assert.Equal(t, trip.Summary{
		Status:           trip.StatusOngoing,
		DurationDays:     4,
		ItemCount:        2,
		CompletedCount:   1,
		CompletedPercent: 50,
	}, detail.Summary)
}

func TestTripGetNotOwned(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)
	other := f.createUser(t, "bob@example.com")
	tr := f.createTrip(t, other.ID, "2025-07-01", "2025-07-04")

	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(t, "GET", "/api/trips/x", nil, f.user.ID, "id", idString(tr.ID)))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Get(rec, newRequest(t, "GET", "/api/trips/x", nil, f.user.ID, "id", "abc"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTripUpdate(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)
	tr := f.createTrip(t, f.user.ID, "2025-07-01", "2025-07-05")
	_, err := f.itinerary.Create(tr.ID, 4, "09:00", "Sintra", "", "")
	require.NoError(t, err)

	t.Run("shrinking below itinerary is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Update(rec, newRequest(t, "PUT", "/api/trips/x", map[string]string{
			"title": "Lisbon", "destination": "Lisbon", "start_date": "2025-07-01", "end_date": "2025-07-03",
		}, f.user.ID, "id", idString(tr.ID)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid update", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Update(rec, newRequest(t, "PUT", "/api/trips/x", map[string]string{
			"title": "Lisbon and Porto", "destination": "Portugal", "start_date": "2025-07-01", "end_date": "2025-07-08",
		}, f.user.ID, "id", idString(tr.ID)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"end_date":"2025-07-08"`)
	})
}

func TestTripDelete(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)
	tr := f.createTrip(t, f.user.ID, "2025-07-01", "2025-07-05")
	it, err := f.itinerary.Create(tr.ID, 1, "09:00", "Tram 28", "", "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Delete(rec, newRequest(t, "DELETE", "/api/trips/x", nil, f.user.ID, "id", idString(tr.ID)))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	got, err := f.itinerary.GetByID(it.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(t, "DELETE", "/api/trips/x", nil, f.user.ID, "id", idString(tr.ID)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTripDays(t *testing.T) {
	f := setup(t)
	h := newTripHandler(f)
	tr := f.createTrip(t, f.user.ID, "2025-07-01", "2025-07-03")
	_, err := f.itinerary.Create(tr.ID, 2, "14:30", "Lunch", "", "")
	require.NoError(t, err)
	_, err = f.itinerary.Create(tr.ID, 2, "09:00", "Museum", "", "")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Days(rec, newRequest(t, "GET", "/api/trips/x/days", nil, f.user.ID, "id", idString(tr.ID)))
	require.Equal(t, http.StatusOK, rec.Code)

	days := decodeBody[[]dayView](t, rec)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-07-02", days[1].Date)
	assert.Empty(t, days[0].Activities)
	require.Len(t, days[1].Activities, 2)
	assert.Equal(t, "Museum", days[1].Activities[0].Activity)
	assert.Equal(t, "2:30 PM", days[1].Activities[1].DisplayTime)
}

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/wanderpack/internal/model"
	"github.com/dukerupert/wanderpack/internal/packing"
)

func newPackingHandler(f *fixture) *PackingHandler {
	return NewPackingHandler(packing.NewEngine(nil), f.packing, f.trips, f.hub, f.logger)
}

func TestPackingOptions(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)

	rec := httptest.NewRecorder()
	h.Options(rec, newRequest(t, "GET", "/api/packing/options", nil, 0))
	require.Equal(t, http.StatusOK, rec.Code)

	opts := decodeBody[packing.Options](t, rec)
	assert.Contains(t, opts.TripTypes, "Business")
	assert.Contains(t, opts.Activities, "Hiking")
	assert.Equal(t, []string{"light", "normal", "heavy"}, opts.Packs)
}

func TestPackingGenerate(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)

	rec := httptest.NewRecorder()
	h.Generate(rec, newRequest(t, "POST", "/api/packing/generate", map[string]any{
		"trip_type":    "Business",
		"packing_pref": "normal",
		"weather":      map[string]any{"temp_c": 5, "description": "snow"},
	}, 0))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[map[string][]string](t, rec)
	assert.Equal(t, []string{"👔 Formal Clothes", "💼 Laptop", "🧥 Warm Jacket"}, resp["items"])
}

func TestPackingGenerateWeatherWithoutTemperature(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)

	rec := httptest.NewRecorder()
	h.Generate(rec, newRequest(t, "POST", "/api/packing/generate", map[string]any{
		"trip_type": "Leisure",
		"weather":   map[string]any{"description": "clear sky"},
	}, 0))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[map[string][]string](t, rec)
	assert.Equal(t, []string{"👕 Casual Wear", "📱 Phone Charger"}, resp["items"])
}

func TestCreateListWeatherWithoutTemperature(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)

	rec := httptest.NewRecorder()
	h.CreateList(rec, newRequest(t, "POST", "/api/packing-lists", map[string]any{
		"destination": "Lisbon",
		"trip_type":   "Leisure",
		"weather":     map[string]any{"description": "clear sky"},
	}, f.user.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	list := decodeBody[model.PackingList](t, rec)
	require.NotNil(t, list.Weather)
	assert.Nil(t, list.Weather.TempC)
	assert.Len(t, list.Items, 2)
}

func TestPackingGenerateInvalid(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)

	for _, body := range []map[string]any{
		{"trip_type": "Cruise"},
		{"activities": []string{"Skydiving"}},
		{"packing_pref": "enormous"},
		{"start_date": "2025-07-10", "end_date": "2025-07-01"},
	} {
		rec := httptest.NewRecorder()
		h.Generate(rec, newRequest(t, "POST", "/api/packing/generate", body, 0))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestCreateListGeneratesItems(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)
	tr := f.createTrip(t, f.user.ID, "2025-07-01", "2025-07-03")

	rec := httptest.NewRecorder()
	h.CreateList(rec, newRequest(t, "POST", "/api/packing-lists", map[string]any{
		"destination":  "Lisbon",
		"trip_type":    "Leisure",
		"activities":   []string{"Beach"},
		"packing_pref": "normal",
		"trip_id":      tr.ID,
	}, f.user.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	list := decodeBody[model.PackingList](t, rec)
	require.NotNil(t, list.TripID)
	assert.Equal(t, tr.ID, *list.TripID)
	assert.Equal(t, []string{"Beach"}, list.Activities)

	labels := make([]string, len(list.Items))
	for i, it := range list.Items {
		labels[i] = it.Label
	}
	assert.Equal(t, []string{"👕 Casual Wear", "📱 Phone Charger", "🏖️ Swimwear", "🧴 Sunscreen"}, labels)
}

func TestCreateListExplicitItems(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)

	rec := httptest.NewRecorder()
	h.CreateList(rec, newRequest(t, "POST", "/api/packing-lists", map[string]any{
		"destination": "Oslo",
		"items":       []string{"Passport", " ", "Passport", "Wool socks"},
	}, f.user.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	list := decodeBody[model.PackingList](t, rec)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Passport", list.Items[0].Label)
	assert.Equal(t, "Wool socks", list.Items[1].Label)
}

func TestCreateListForeignTrip(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)
	other := f.createUser(t, "bob@example.com")
	tr := f.createTrip(t, other.ID, "2025-07-01", "2025-07-03")

	rec := httptest.NewRecorder()
	h.CreateList(rec, newRequest(t, "POST", "/api/packing-lists", map[string]any{
		"destination": "Lisbon", "trip_id": tr.ID,
	}, f.user.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPackingListLifecycle(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)

	list, err := f.packing.CreateList(model.PackingList{UserID: f.user.ID, Destination: "Rome"}, []string{"Passport", "Hat"})
	require.NoError(t, err)
	listPath := []string{"list_id", idString(list.ID)}

	t.Run("list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ListLists(rec, newRequest(t, "GET", "/api/packing-lists", nil, f.user.ID))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, decodeBody[[]model.PackingList](t, rec), 1)
	})

	t.Run("add duplicate", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.AddItem(rec, newRequest(t, "POST", "/x", map[string]string{"label": "Hat"}, f.user.ID, listPath...))
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("add empty", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.AddItem(rec, newRequest(t, "POST", "/x", map[string]string{"label": "  "}, f.user.ID, listPath...))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	var added model.PackingItem
	t.Run("add", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.AddItem(rec, newRequest(t, "POST", "/x", map[string]string{"label": "Umbrella"}, f.user.ID, listPath...))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		added = decodeBody[model.PackingItem](t, rec)
		assert.Equal(t, 2, added.SortOrder)
	})

	t.Run("toggle", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.TogglePacked(rec, newRequest(t, "POST", "/x", nil, f.user.ID, append(listPath, "id", idString(added.ID))...))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		resp := decodeBody[toggleResponse](t, rec)
		assert.True(t, resp.Item.Packed)
		assert.NotNil(t, resp.Item.PackedAt)
		assert.Equal(t, 2, resp.Remaining)
	})

	t.Run("delete item", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.DeleteItem(rec, newRequest(t, "DELETE", "/x", nil, f.user.ID, append(listPath, "id", idString(added.ID))...))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		h.DeleteItem(rec, newRequest(t, "DELETE", "/x", nil, f.user.ID, append(listPath, "id", idString(added.ID))...))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("foreign user", func(t *testing.T) {
		other := f.createUser(t, "bob@example.com")
		rec := httptest.NewRecorder()
		h.AddItem(rec, newRequest(t, "POST", "/x", map[string]string{"label": "Map"}, other.ID, listPath...))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = httptest.NewRecorder()
		h.GetList(rec, newRequest(t, "GET", "/x", nil, other.ID, "id", idString(list.ID)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete list", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.DeleteList(rec, newRequest(t, "DELETE", "/x", nil, f.user.ID, "id", idString(list.ID)))
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = httptest.NewRecorder()
		h.GetList(rec, newRequest(t, "GET", "/x", nil, f.user.ID, "id", idString(list.ID)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestItemLabelLengthCountsCharacters(t *testing.T) {
	f := setup(t)
	h := newPackingHandler(f)

	// 60 characters, 240 bytes.
	socks := strings.Repeat("🧦", 60)
	tooLong := strings.Repeat("é", maxLabelLen+1)

	rec := httptest.NewRecorder()
	h.CreateList(rec, newRequest(t, "POST", "/api/packing-lists", map[string]any{
		"destination": "Oslo",
		"items":       []string{socks},
	}, f.user.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	list := decodeBody[model.PackingList](t, rec)
	require.Len(t, list.Items, 1)
	assert.Equal(t, socks, list.Items[0].Label)

	rec = httptest.NewRecorder()
	h.CreateList(rec, newRequest(t, "POST", "/api/packing-lists", map[string]any{
		"destination": "Oslo",
		"items":       []string{tooLong},
	}, f.user.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	listPath := []string{"list_id", idString(list.ID)}
	rec = httptest.NewRecorder()
	h.AddItem(rec, newRequest(t, "POST", "/x", map[string]string{"label": strings.Repeat("🧤", maxLabelLen)}, f.user.ID, listPath...))
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	h.AddItem(rec, newRequest(t, "POST", "/x", map[string]string{"label": tooLong}, f.user.ID, listPath...))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/wanderpack/internal/auth"
	"github.com/dukerupert/wanderpack/internal/model"
	"github.com/dukerupert/wanderpack/internal/store"
	"github.com/dukerupert/wanderpack/internal/trip"
	"github.com/dukerupert/wanderpack/internal/websocket"
)

const maxTripPageSize = 100

type TripHandler struct {
	tripStore      *store.TripStore
	itineraryStore *store.ItineraryStore
	hub            *websocket.Hub
	logger         *slog.Logger
	now            func() time.Time
}

func NewTripHandler(ts *store.TripStore, is *store.ItineraryStore, hub *websocket.Hub, logger *slog.Logger) *TripHandler {
	return &TripHandler{
		tripStore:      ts,
		itineraryStore: is,
		hub:            hub,
		logger:         logger,
		now:            time.Now,
	}
}

type tripRequest struct {
	Title       string `json:"title"`
	Destination string `json:"destination"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

func (req *tripRequest) normalize() {
	req.Title = strings.TrimSpace(req.Title)
	req.Destination = strings.TrimSpace(req.Destination)
	req.StartDate = strings.TrimSpace(req.StartDate)
	req.EndDate = strings.TrimSpace(req.EndDate)
}

type tripView struct {
	model.Trip
	Status       trip.Status `json:"status"`
	DurationDays int         `json:"duration_days"`
}

type tripDetail struct {
	model.Trip
	Summary trip.Summary `json:"summary"`
}

type itemView struct {
	model.ItineraryItem
	DisplayTime string `json:"display_time"`
}

type dayView struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	Activities []itemView `json:"activities"`
}

func (h *TripHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && !trip.ValidStatus(status) {
		writeError(w, http.StatusBadRequest, "status must be upcoming, ongoing or past")
		return
	}
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	if limit > maxTripPageSize {
		limit = maxTripPageSize
	}

	today := h.now()
	trips, err := h.tripStore.List(auth.UserID(r.Context()), store.TripFilter{
		Status: status,
		Query:  strings.TrimSpace(q.Get("q")),
		Today:  today.Format(model.DateLayout),
		Limit:  uint64(limit),
		Offset: uint64(offset),
	})
	if err != nil {
		h.logger.Error("list trips", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list trips")
		return
	}

	out := make([]tripView, 0, len(trips))
	for _, t := range trips {
		out = append(out, tripView{
			Trip:         t,
			Status:       trip.ComputeStatus(t, today),
			DurationDays: trip.DurationDays(t),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TripHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tripRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.normalize()
	if err := trip.Validate(req.Title, req.Destination, req.StartDate, req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := auth.UserID(r.Context())
	t, err := h.tripStore.Create(userID, req.Title, req.Destination, req.StartDate, req.EndDate)
	if err != nil {
		h.logger.Error("create trip", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create trip")
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("trip", "created", t.ID, nil))
	writeJSON(w, http.StatusCreated, t)
}

func (h *TripHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	items, err := h.itineraryStore.ListByTrip(t.ID)
	if err != nil {
		h.logger.Error("list itinerary", "trip_id", t.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get trip")
		return
	}
	t.Itinerary = items

	writeJSON(w, http.StatusOK, tripDetail{
		Trip:    *t,
		Summary: trip.Summarize(*t, items, h.now()),
	})
}

func (h *TripHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	var req tripRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.normalize()
	if err := trip.Validate(req.Title, req.Destination, req.StartDate, req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	maxDay, err := h.itineraryStore.MaxDay(existing.ID)
	if err != nil {
		h.logger.Error("itinerary max day", "trip_id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update trip")
		return
	}
	resized := model.Trip{StartDate: req.StartDate, EndDate: req.EndDate}
	if maxDay > trip.DurationDays(resized) {
		writeError(w, http.StatusBadRequest, "itinerary has activities beyond the new end date")
		return
	}

	userID := auth.UserID(r.Context())
	t, err := h.tripStore.Update(userID, existing.ID, req.Title, req.Destination, req.StartDate, req.EndDate)
	if err != nil {
		h.logger.Error("update trip", "trip_id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update trip")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "trip not found")
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("trip", "updated", t.ID, nil))
	writeJSON(w, http.StatusOK, t)
}

func (h *TripHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	userID := auth.UserID(r.Context())
	deleted, err := h.tripStore.Delete(userID, id)
	if err != nil {
		h.logger.Error("delete trip", "trip_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete trip")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "trip not found")
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("trip", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *TripHandler) Days(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	items, err := h.itineraryStore.ListByTrip(t.ID)
	if err != nil {
		h.logger.Error("list itinerary", "trip_id", t.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get trip days")
		return
	}

	days := trip.Schedule(*t, items)
	out := make([]dayView, 0, len(days))
	for _, d := range days {
		acts := make([]itemView, 0, len(d.Activities))
		for _, it := range d.Activities {
			acts = append(acts, itemView{ItineraryItem: it, DisplayTime: trip.FormatTime(it.Time)})
		}
		out = append(out, dayView{Day: d.Day, Date: d.Date, Activities: acts})
	}
	writeJSON(w, http.StatusOK, out)
}

// loadTrip resolves the {id} path value to one of the caller's trips,
// writing the error response itself when it cannot.
func (h *TripHandler) loadTrip(w http.ResponseWriter, r *http.Request) (*model.Trip, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}

	t, err := h.tripStore.GetByID(auth.UserID(r.Context()), id)
	if err != nil {
		h.logger.Error("get trip", "trip_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get trip")
		return nil, false
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "trip not found")
		return nil, false
	}
	return t, true
}

package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dukerupert/wanderpack/internal/auth"
	"github.com/dukerupert/wanderpack/internal/model"
	"github.com/dukerupert/wanderpack/internal/trip"
	"github.com/dukerupert/wanderpack/internal/websocket"
)

// itineraryRequest places an item either by day number or by calendar
// date. Day wins when both are given.
type itineraryRequest struct {
	Day      *int   `json:"day"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Activity string `json:"activity"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

var errDayRequired = errors.New("day or date is required")

// resolveDay returns the trip day the request targets, or fallback when
// the request names none. A fallback of 0 means the day is required.
func (req *itineraryRequest) resolveDay(t model.Trip, fallback int) (int, error) {
	if req.Day != nil {
		return *req.Day, nil
	}
	if date := strings.TrimSpace(req.Date); date != "" {
		return trip.DayForDate(t, date)
	}
	if fallback == 0 {
		return 0, errDayRequired
	}
	return fallback, nil
}

func (h *TripHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadTrip(w, r)
	if !ok {
		return
	}

	var req itineraryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	day, err := req.resolveDay(*t, 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Time = strings.TrimSpace(req.Time)
	req.Activity = strings.TrimSpace(req.Activity)
	if err := trip.ValidateItem(*t, day, req.Time, req.Activity); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.itineraryStore.Create(t.ID, day, req.Time, req.Activity, strings.TrimSpace(req.Location), strings.TrimSpace(req.Notes))
	if err != nil {
		h.logger.Error("create itinerary item", "trip_id", t.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create itinerary item")
		return
	}

	h.notifyItem(r, "created", item.ID, t.ID)
	writeJSON(w, http.StatusCreated, item)
}

func (h *TripHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	existing, t, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	var req itineraryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	day, err := req.resolveDay(*t, existing.Day)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	req.Time = strings.TrimSpace(req.Time)
	req.Activity = strings.TrimSpace(req.Activity)
	if err := trip.ValidateItem(*t, day, req.Time, req.Activity); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.itineraryStore.Update(existing.ID, day, req.Time, req.Activity, strings.TrimSpace(req.Location), strings.TrimSpace(req.Notes))
	if err != nil {
		h.logger.Error("update itinerary item", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update itinerary item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "itinerary item not found")
		return
	}

	h.notifyItem(r, "updated", item.ID, t.ID)
	writeJSON(w, http.StatusOK, item)
}

func (h *TripHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.itineraryStore.GetForUser(auth.UserID(r.Context()), id)
	if err != nil {
		h.logger.Error("get itinerary item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete itinerary item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "itinerary item not found")
		return
	}

	if err := h.itineraryStore.Delete(id); err != nil {
		h.logger.Error("delete itinerary item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete itinerary item")
		return
	}

	h.notifyItem(r, "deleted", id, item.TripID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *TripHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.itineraryStore.GetForUser(auth.UserID(r.Context()), id)
	if err != nil {
		h.logger.Error("get itinerary item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle itinerary item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "itinerary item not found")
		return
	}

	item, err = h.itineraryStore.ToggleCompleted(id)
	if err != nil {
		h.logger.Error("toggle itinerary item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle itinerary item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "itinerary item not found")
		return
	}

	h.notifyItem(r, "updated", item.ID, item.TripID)
	writeJSON(w, http.StatusOK, item)
}

func (h *TripHandler) loadItem(w http.ResponseWriter, r *http.Request) (*model.ItineraryItem, *model.Trip, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, nil, false
	}

	userID := auth.UserID(r.Context())
	item, err := h.itineraryStore.GetForUser(userID, id)
	if err != nil {
		h.logger.Error("get itinerary item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get itinerary item")
		return nil, nil, false
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "itinerary item not found")
		return nil, nil, false
	}

	t, err := h.tripStore.GetByID(userID, item.TripID)
	if err != nil || t == nil {
		h.logger.Error("get trip for itinerary item", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get itinerary item")
		return nil, nil, false
	}
	return item, t, true
}

func (h *TripHandler) notifyItem(r *http.Request, action string, id, tripID int64) {
	h.hub.SendToUser(auth.UserID(r.Context()),
		websocket.NewMessage("itinerary_item", action, id, map[string]any{"trip_id": tripID}))
}

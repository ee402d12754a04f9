package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/wanderpack/internal/auth"
	"github.com/dukerupert/wanderpack/internal/model"
	"github.com/dukerupert/wanderpack/internal/packing"
	"github.com/dukerupert/wanderpack/internal/store"
	"github.com/dukerupert/wanderpack/internal/websocket"
)

const maxLabelLen = 100

type PackingHandler struct {
	engine       *packing.Engine
	packingStore *store.PackingStore
	tripStore    *store.TripStore
	hub          *websocket.Hub
	logger       *slog.Logger
}

func NewPackingHandler(engine *packing.Engine, ps *store.PackingStore, ts *store.TripStore, hub *websocket.Hub, logger *slog.Logger) *PackingHandler {
	return &PackingHandler{
		engine:       engine,
		packingStore: ps,
		tripStore:    ts,
		hub:          hub,
		logger:       logger,
	}
}

type generateRequest struct {
	Destination string         `json:"destination"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	TripType    string         `json:"trip_type"`
	Activities  []string       `json:"activities"`
	PackingPref string         `json:"packing_pref"`
	Weather     *model.Weather `json:"weather"`
}

func (req generateRequest) engineRequest() packing.Request {
	pr := packing.Request{
		TripType:   strings.TrimSpace(req.TripType),
		Activities: req.Activities,
		Pack:       strings.TrimSpace(req.PackingPref),
		StartDate:  strings.TrimSpace(req.StartDate),
		EndDate:    strings.TrimSpace(req.EndDate),
	}
	if req.Weather != nil && req.Weather.TempC != nil {
		temp := *req.Weather.TempC
		pr.TempC = &temp
	}
	return pr
}

type createListRequest struct {
	generateRequest
	TripID *int64    `json:"trip_id"`
	Items  *[]string `json:"items"`
}

type toggleResponse struct {
	Item      *model.PackingItem `json:"item"`
	Remaining int                `json:"remaining"`
}

func (h *PackingHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Options())
}

func (h *PackingHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pr := req.engineRequest()
	if err := h.engine.Validate(pr); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"items": h.engine.Generate(pr)})
}

func (h *PackingHandler) CreateList(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pr := req.engineRequest()
	if err := h.engine.Validate(pr); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := auth.UserID(r.Context())
	if req.TripID != nil {
		t, err := h.tripStore.GetByID(userID, *req.TripID)
		if err != nil {
			h.logger.Error("get trip", "trip_id", *req.TripID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create packing list")
			return
		}
		if t == nil {
			writeError(w, http.StatusBadRequest, "trip not found")
			return
		}
	}

	var labels []string
	if req.Items == nil {
		labels = h.engine.Generate(pr)
	} else {
		for _, l := range *req.Items {
			l = strings.TrimSpace(l)
			if l == "" {
				continue
			}
			if utf8.RuneCountInString(l) > maxLabelLen {
				writeError(w, http.StatusBadRequest, "item label too long")
				return
			}
			labels = append(labels, l)
		}
		labels = packing.Dedupe(labels)
	}

	activities := pr.Activities
	if activities == nil {
		activities = []string{}
	}
	list, err := h.packingStore.CreateList(model.PackingList{
		UserID:      userID,
		TripID:      req.TripID,
		Destination: strings.TrimSpace(req.Destination),
		StartDate:   pr.StartDate,
		EndDate:     pr.EndDate,
		TripType:    pr.TripType,
		Activities:  activities,
		PackingPref: pr.Pack,
		Weather:     req.Weather,
	}, labels)
	if err != nil {
		h.logger.Error("create packing list", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create packing list")
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("packing_list", "created", list.ID, nil))
	writeJSON(w, http.StatusCreated, list)
}

func (h *PackingHandler) ListLists(w http.ResponseWriter, r *http.Request) {
	lists, err := h.packingStore.ListLists(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("list packing lists", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list packing lists")
		return
	}
	if lists == nil {
		lists = []model.PackingList{}
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *PackingHandler) GetList(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	list, err := h.packingStore.GetList(auth.UserID(r.Context()), id)
	if err != nil {
		h.logger.Error("get packing list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get packing list")
		return
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "packing list not found")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *PackingHandler) DeleteList(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	userID := auth.UserID(r.Context())
	deleted, err := h.packingStore.DeleteList(userID, id)
	if err != nil {
		h.logger.Error("delete packing list", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete packing list")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "packing list not found")
		return
	}

	h.hub.SendToUser(userID, websocket.NewMessage("packing_list", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

func (h *PackingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.ownedListID(w, r)
	if !ok {
		return
	}

	var req struct {
		Label string `json:"label"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Label = strings.TrimSpace(req.Label)
	if req.Label == "" {
		writeError(w, http.StatusBadRequest, "label is required")
		return
	}
	if utf8.RuneCountInString(req.Label) > maxLabelLen {
		writeError(w, http.StatusBadRequest, "item label too long")
		return
	}

	item, err := h.packingStore.AddItem(listID, req.Label)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "item already on the list")
		return
	}
	if err != nil {
		h.logger.Error("add packing item", "list_id", listID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to add item")
		return
	}

	h.notifyItem(r, "created", item.ID, listID)
	writeJSON(w, http.StatusCreated, item)
}

func (h *PackingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.ownedListID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	deleted, err := h.packingStore.DeleteItem(listID, id)
	if err != nil {
		h.logger.Error("delete packing item", "list_id", listID, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	h.notifyItem(r, "deleted", id, listID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PackingHandler) TogglePacked(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.ownedListID(w, r)
	if !ok {
		return
	}
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	item, err := h.packingStore.TogglePacked(listID, id)
	if err != nil {
		h.logger.Error("toggle packing item", "list_id", listID, "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	remaining, err := h.packingStore.CountUnpacked(listID)
	if err != nil {
		h.logger.Error("count unpacked", "list_id", listID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle item")
		return
	}

	h.notifyItem(r, "updated", item.ID, listID)
	writeJSON(w, http.StatusOK, toggleResponse{Item: item, Remaining: remaining})
}

// ownedListID checks that {list_id} names one of the caller's lists.
func (h *PackingHandler) ownedListID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	listID, err := parsePathID(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid list id")
		return 0, false
	}

	list, err := h.packingStore.GetList(auth.UserID(r.Context()), listID)
	if err != nil {
		h.logger.Error("get packing list", "id", listID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get packing list")
		return 0, false
	}
	if list == nil {
		writeError(w, http.StatusNotFound, "packing list not found")
		return 0, false
	}
	return listID, true
}

func (h *PackingHandler) notifyItem(r *http.Request, action string, id, listID int64) {
	h.hub.SendToUser(auth.UserID(r.Context()),
		websocket.NewMessage("packing_item", action, id, map[string]any{"list_id": listID}))
}

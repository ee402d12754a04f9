package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/wanderpack/internal/store"
)

type ContentHandler struct {
	contentStore *store.ContentStore
	logger       *slog.Logger
}

func NewContentHandler(cs *store.ContentStore, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{contentStore: cs, logger: logger}
}

// GetPage returns a page's content blocks as one flat object keyed by block.
func (h *ContentHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")
	blocks, err := h.contentStore.GetPage(page)
	if err != nil {
		h.logger.Error("get page content", "page", page, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get content")
		return
	}
	if len(blocks) == 0 {
		writeError(w, http.StatusNotFound, "page not found")
		return
	}
	writeJSON(w, http.StatusOK, blocks)
}

func (h *ContentHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.contentStore.ListCountries()
	if err != nil {
		h.logger.Error("list countries", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list countries")
		return
	}

	names := make([]string, 0, len(countries))
	for _, c := range countries {
		names = append(names, c.Name)
	}
	writeJSON(w, http.StatusOK, names)
}

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dukerupert/wanderpack/internal/auth"
	"github.com/dukerupert/wanderpack/internal/model"
	"github.com/dukerupert/wanderpack/internal/store"
	"github.com/dukerupert/wanderpack/internal/websocket"
)

const (
	defaultRatingsLimit = 20
	maxRatingsLimit     = 100
	maxFeedbackLen      = 1000
	maxMessageLen       = 5000
	mailTimeout         = 10 * time.Second
)

// Mailer sends the transactional emails triggered by feedback endpoints.
type Mailer interface {
	Configured() bool
	SendContactNotification(ctx context.Context, ownerEmail string, msg model.ContactMessage) error
	SendWelcome(ctx context.Context, toEmail, firstname string) error
}

type FeedbackHandler struct {
	feedbackStore *store.FeedbackStore
	userStore     *store.UserStore
	mailer        Mailer
	ownerEmail    string
	hub           *websocket.Hub
	logger        *slog.Logger
}

func NewFeedbackHandler(fs *store.FeedbackStore, us *store.UserStore, mailer Mailer, ownerEmail string, hub *websocket.Hub, logger *slog.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackStore: fs,
		userStore:     us,
		mailer:        mailer,
		ownerEmail:    ownerEmail,
		hub:           hub,
		logger:        logger,
	}
}

type ratingRequest struct {
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *FeedbackHandler) ListRatings(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", defaultRatingsLimit)
	if !ok || limit == 0 {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit > maxRatingsLimit {
		limit = maxRatingsLimit
	}

	ratings, err := h.feedbackStore.ListRatings(limit)
	if err != nil {
		h.logger.Error("list ratings", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list ratings")
		return
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}
	writeJSON(w, http.StatusOK, ratings)
}

func (h *FeedbackHandler) CreateRating(w http.ResponseWriter, r *http.Request) {
	var req ratingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	req.Feedback = strings.TrimSpace(req.Feedback)
	if utf8.RuneCountInString(req.Feedback) > maxFeedbackLen {
		writeError(w, http.StatusBadRequest, "feedback too long")
		return
	}

	rating, err := h.feedbackStore.CreateRating(auth.UserID(r.Context()), req.Rating, req.Feedback)
	if err != nil {
		h.logger.Error("create rating", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save rating")
		return
	}

	h.hub.Broadcast(websocket.NewMessage("rating", "created", rating.ID, nil))
	writeJSON(w, http.StatusCreated, rating)
}

// Contact accepts messages from anonymous and signed-in visitors alike.
func (h *FeedbackHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "name, email, subject and message are required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}
	if utf8.RuneCountInString(req.Message) > maxMessageLen {
		writeError(w, http.StatusBadRequest, "message too long")
		return
	}

	var userID *int64
	if ac, ok := auth.FromContext(r.Context()); ok {
		userID = &ac.UserID
	}

	msg, err := h.feedbackStore.CreateContactMessage(userID, req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		h.logger.Error("create contact message", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	if h.mailer != nil && h.mailer.Configured() && h.ownerEmail != "" {
		ctx, cancel := context.WithTimeout(r.Context(), mailTimeout)
		defer cancel()
		if err := h.mailer.SendContactNotification(ctx, h.ownerEmail, *msg); err != nil {
			h.logger.Error("send contact notification", "message_id", msg.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, msg)
}

// Subscribe adds an address to the newsletter. The address defaults to
// the account email.
func (h *FeedbackHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	userID := auth.UserID(r.Context())
	user, err := h.userStore.GetByID(userID)
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	addr := strings.TrimSpace(req.Email)
	if addr == "" {
		addr = user.Email
	}
	if !emailPattern.MatchString(addr) {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}

	sub, created, err := h.feedbackStore.Subscribe(userID, addr)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "email already subscribed")
		return
	}
	if err != nil {
		h.logger.Error("subscribe", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}
	if !created {
		writeJSON(w, http.StatusOK, sub)
		return
	}

	if h.mailer != nil && h.mailer.Configured() {
		ctx, cancel := context.WithTimeout(r.Context(), mailTimeout)
		defer cancel()
		if err := h.mailer.SendWelcome(ctx, sub.Email, user.Firstname); err != nil {
			h.logger.Error("send welcome email", "subscriber_id", sub.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusCreated, sub)
}

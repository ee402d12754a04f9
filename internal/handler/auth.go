package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/wanderpack/internal/auth"
	"github.com/dukerupert/wanderpack/internal/middleware"
	"github.com/dukerupert/wanderpack/internal/model"
	"github.com/dukerupert/wanderpack/internal/store"
)

type AuthHandler struct {
	userStore    *store.UserStore
	sessionStore *store.SessionStore
	tokens       *auth.TokenManager
	hasher       *auth.PasswordHasher
	sessionTTL   time.Duration
	secureCookie bool
	logger       *slog.Logger
}

func NewAuthHandler(
	us *store.UserStore,
	ss *store.SessionStore,
	tokens *auth.TokenManager,
	hasher *auth.PasswordHasher,
	sessionTTL time.Duration,
	secureCookie bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		userStore:    us,
		sessionStore: ss,
		tokens:       tokens,
		hasher:       hasher,
		sessionTTL:   sessionTTL,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

type registerRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Firstname = strings.TrimSpace(req.Firstname)
	req.Email = strings.TrimSpace(req.Email)
	if req.Firstname == "" {
		writeError(w, http.StatusBadRequest, "firstname is required")
		return
	}
	if !emailPattern.MatchString(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email")
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if errors.Is(err, auth.ErrPasswordTooShort) || errors.Is(err, auth.ErrPasswordTooLong) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	user, err := h.userStore.Create(req.Firstname, req.Lastname, req.Email, hash)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		h.logger.Error("create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	h.startSession(w, user, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userStore.GetByEmail(req.Email)
	if err != nil {
		h.logger.Error("login lookup", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	ok, err := h.hasher.Verify(user.PasswordHash, req.Password)
	if err != nil {
		h.logger.Error("verify password", "user_id", user.ID, "error", err)
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	h.startSession(w, user, http.StatusOK)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.Delete(auth.SessionID(r.Context())); err != nil {
		h.logger.Error("delete session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	h.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// LogoutAll ends every session the caller holds, including the current one.
func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if err := h.sessionStore.DeleteByUser(userID); err != nil {
		h.logger.Error("delete user sessions", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	h.logger.Info("all sessions ended", "user_id", userID)
	h.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userStore.GetByID(auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("get user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

type updateMeRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Firstname) == "" {
		writeError(w, http.StatusBadRequest, "firstname is required")
		return
	}

	user, err := h.userStore.UpdateName(auth.UserID(r.Context()), req.Firstname, req.Lastname)
	if err != nil {
		h.logger.Error("update user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteMe removes the caller's account. Trips, lists, sessions and
// subscriptions go with it through foreign key cascades.
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if err := h.userStore.Delete(userID); err != nil {
		h.logger.Error("delete user", "user_id", userID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	h.logger.Info("user deleted", "user_id", userID)
	h.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) startSession(w http.ResponseWriter, user *model.User, status int) {
	sess, err := h.sessionStore.Create(user.ID, h.sessionTTL)
	if err != nil {
		h.logger.Error("create session", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	token, err := h.tokens.Issue(user.ID, sess.ID, sess.ExpiresAt)
	if err != nil {
		h.logger.Error("issue token", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, status, authResponse{User: user, Token: token, ExpiresAt: sess.ExpiresAt})
}

package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/wanderpack/internal/auth"
	"github.com/dukerupert/wanderpack/internal/config"
	"github.com/dukerupert/wanderpack/internal/handler"
	"github.com/dukerupert/wanderpack/internal/middleware"
	"github.com/dukerupert/wanderpack/internal/packing"
	"github.com/dukerupert/wanderpack/internal/store"
	ws "github.com/dukerupert/wanderpack/internal/websocket"
)

type Server struct {
	db           *sql.DB
	cfg          config.Config
	hub          *ws.Hub
	tokens       *auth.TokenManager
	authH        *handler.AuthHandler
	contentH     *handler.ContentHandler
	tripH        *handler.TripHandler
	packingH     *handler.PackingHandler
	feedbackH    *handler.FeedbackHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg config.Config, engine *packing.Engine, mailer handler.Mailer, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	tripStore := store.NewTripStore(db)
	itineraryStore := store.NewItineraryStore(db)
	packingStore := store.NewPackingStore(db)
	feedbackStore := store.NewFeedbackStore(db)
	contentStore := store.NewContentStore(db)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	return &Server{
		db:     db,
		cfg:    cfg,
		hub:    hub,
		tokens: tokens,
		authH: handler.NewAuthHandler(userStore, sessionStore, tokens, hasher,
			cfg.Auth.SessionTTL, cfg.Auth.SecureCookie, logger.With("component", "auth")),
		contentH:     handler.NewContentHandler(contentStore, logger.With("component", "content")),
		tripH:        handler.NewTripHandler(tripStore, itineraryStore, hub, logger.With("component", "trip")),
		packingH:     handler.NewPackingHandler(engine, packingStore, tripStore, hub, logger.With("component", "packing")),
		feedbackH:    handler.NewFeedbackHandler(feedbackStore, userStore, mailer, cfg.Email.OwnerEmail, hub, logger.With("component", "feedback")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(s.tokens, s.sessionStore)
	optionalAuth := middleware.OptionalAuth(s.tokens, s.sessionStore)
	authLimit := s.rateLimit("auth", s.cfg.RateLimit.AuthLimit, s.cfg.RateLimit.AuthWindow)
	publicLimit := s.rateLimit("public", s.cfg.RateLimit.PublicLimit, s.cfg.RateLimit.PublicWindow)

	protected := func(h http.HandlerFunc) http.Handler {
		return requireAuth(h)
	}

	// Public routes
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.Handle("POST /api/auth/register", authLimit(http.HandlerFunc(s.authH.Register)))
	mux.Handle("POST /api/auth/login", authLimit(http.HandlerFunc(s.authH.Login)))
	mux.HandleFunc("GET /api/content/{page}", s.contentH.GetPage)
	mux.HandleFunc("GET /api/countries", s.contentH.Countries)
	mux.HandleFunc("GET /api/ratings", s.feedbackH.ListRatings)
	mux.HandleFunc("GET /api/packing/options", s.packingH.Options)
	mux.Handle("POST /api/packing/generate", publicLimit(http.HandlerFunc(s.packingH.Generate)))
	mux.Handle("POST /api/contact", middleware.Chain(publicLimit, optionalAuth)(http.HandlerFunc(s.feedbackH.Contact)))

	// Auth
	mux.Handle("POST /api/auth/logout", protected(s.authH.Logout))
	mux.Handle("POST /api/auth/logout-all", protected(s.authH.LogoutAll))
	mux.Handle("GET /api/auth/me", protected(s.authH.Me))
	mux.Handle("PUT /api/auth/me", protected(s.authH.UpdateMe))
	mux.Handle("DELETE /api/auth/me", protected(s.authH.DeleteMe))

	// Trips and itinerary
	mux.Handle("GET /api/trips", protected(s.tripH.List))
	mux.Handle("POST /api/trips", protected(s.tripH.Create))
	mux.Handle("GET /api/trips/{id}", protected(s.tripH.Get))
	mux.Handle("PUT /api/trips/{id}", protected(s.tripH.Update))
	mux.Handle("DELETE /api/trips/{id}", protected(s.tripH.Delete))
	mux.Handle("GET /api/trips/{id}/days", protected(s.tripH.Days))
	mux.Handle("POST /api/trips/{id}/itinerary", protected(s.tripH.CreateItem))
	mux.Handle("PUT /api/itinerary/{id}", protected(s.tripH.UpdateItem))
	mux.Handle("DELETE /api/itinerary/{id}", protected(s.tripH.DeleteItem))
	mux.Handle("POST /api/itinerary/{id}/complete", protected(s.tripH.ToggleItem))

	// Packing lists
	mux.Handle("POST /api/packing-lists", protected(s.packingH.CreateList))
	mux.Handle("GET /api/packing-lists", protected(s.packingH.ListLists))
	mux.Handle("GET /api/packing-lists/{id}", protected(s.packingH.GetList))
	mux.Handle("DELETE /api/packing-lists/{id}", protected(s.packingH.DeleteList))
	mux.Handle("POST /api/packing-lists/{list_id}/items", protected(s.packingH.AddItem))
	mux.Handle("DELETE /api/packing-lists/{list_id}/items/{id}", protected(s.packingH.DeleteItem))
	mux.Handle("POST /api/packing-lists/{list_id}/items/{id}/pack", protected(s.packingH.TogglePacked))

	// Feedback
	mux.Handle("POST /api/ratings", protected(s.feedbackH.CreateRating))
	mux.Handle("POST /api/subscribe", protected(s.feedbackH.Subscribe))

	// WebSocket
	mux.Handle("GET /ws", protected(ws.HandleWebSocket(s.hub,
		config.SplitList(s.cfg.CORS.AllowedOrigins), s.logger.With("component", "websocket"))))

	return middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(s.logger.With("component", "recovery")),
		middleware.RequestLogger(s.logger.With("component", "http")),
		middleware.CORS(s.cfg.CORS),
	)(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok", "clients": s.hub.ClientCount(), "users": s.hub.UserCount()}
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check ping", "error", err)
		status["status"] = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

// rateLimit limits by client IP. Each scope counts separately.
func (s *Server) rateLimit(scope string, limit int, window time.Duration) middleware.Middleware {
	keyFunc := func(r *http.Request) string {
		return scope + ":" + middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, limit, window)
}

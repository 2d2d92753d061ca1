package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pantryledger/pantryledger/internal/auth"
	"github.com/pantryledger/pantryledger/internal/service"
)

type tokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type Server struct {
	pantry  *service.PantryService
	recipes *service.RecipeService
	users   *service.AuthService
	tokens  tokenVerifier
	mux     *http.ServeMux
	logger  *slog.Logger
}

func NewServer(
	pantry *service.PantryService,
	recipes *service.RecipeService,
	users *service.AuthService,
	tokens tokenVerifier,
	logger *slog.Logger,
) *Server {
	s := &Server{
		pantry:  pantry,
		recipes: recipes,
		users:   users,
		tokens:  tokens,
		mux:     http.NewServeMux(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.authed("GET /api/auth/me", s.handleMe)

	s.authed("GET /api/pantry", s.handleListPantry)
	s.authed("POST /api/pantry", s.handleAddPantryItem)
	s.authed("GET /api/pantry/stats", s.handlePantryStats)
	s.authed("POST /api/pantry/use-ingredients", s.handleUseIngredients)
	s.authed("GET /api/pantry/{id}", s.handleGetPantryItem)
	s.authed("PATCH /api/pantry/{id}", s.handlePatchPantryItem)
	s.authed("DELETE /api/pantry/{id}", s.handleDeletePantryItem)
	s.authed("POST /api/pantry/{id}/consume", s.handleConsume)

	s.authed("POST /api/recipes/generate", s.handleGenerateRecipes)
	s.authed("GET /api/recipes", s.handleListRecipes)
	s.authed("GET /api/recipes/favorites", s.handleListFavorites)
	s.authed("GET /api/recipes/{id}", s.handleGetRecipe)
	s.authed("DELETE /api/recipes/{id}", s.handleDeleteRecipe)
	s.authed("PUT /api/recipes/{id}/favorite", s.handleFavorite(true))
	s.authed("DELETE /api/recipes/{id}/favorite", s.handleFavorite(false))
	s.authed("POST /api/recipes/{id}/image", s.handleRecipeImage)
	s.authed("POST /api/recipes/{id}/cook", s.handleCook)

	s.authed("GET /api/cooking-sessions", s.handleListSessions)
}

func (s *Server) authed(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.requireAuth(h))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// securityHeaders sets the fixed response headers for a JSON-only API.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:    addr,
		Handler: s,
		// Recipe generation waits on an LLM, so writes get a generous budget.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// Package http is the JSON API surface. Handlers decode and validate wire
// DTOs, resolve the caller from the bearer token and delegate to the
// services; all domain rules live below this layer.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/upload"
)

type ctxKey string

const claimsKey ctxKey = "auth_claims"

// Server wires the API routes over the service layer.
type Server struct {
	http.Server

	commitments *services.CommitmentService
	ledger      *services.LedgerService
	expenses    *services.ExpenseService
	dashboard   *services.DashboardService
	household   *services.HouseholdService
	users       services.UserStore

	tokens   *auth.TokenIssuer
	uploads  *upload.Store
	validate *validator.Validate

	rateLimiter *rateLimiter

	// summaryCache fronts the dashboard aggregation per user; ledger and
	// expense mutations invalidate the caller's entry.
	summaryCache *cache.LRUCache[core.DashboardSummary]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

type Deps struct {
	Commitments *services.CommitmentService
	Ledger      *services.LedgerService
	Expenses    *services.ExpenseService
	Dashboard   *services.DashboardService
	Household   *services.HouseholdService
	Users       services.UserStore
	Tokens      *auth.TokenIssuer
	Uploads     *upload.Store
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		commitments:      deps.Commitments,
		ledger:           deps.Ledger,
		expenses:         deps.Expenses,
		dashboard:        deps.Dashboard,
		household:        deps.Household,
		users:            deps.Users,
		tokens:           deps.Tokens,
		uploads:          deps.Uploads,
		validate:         validator.New(),
		rateLimiter:      newRateLimiter(),
		summaryCache:     cache.NewLRUCache[core.DashboardSummary](100, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/register", s.wrap(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.wrap(s.handleLogin))
	mux.HandleFunc("GET /api/auth/details", s.wrapAuth(s.handleUserDetails))

	mux.HandleFunc("GET /api/dashboard", s.wrapAuth(s.handleDashboard))

	mux.HandleFunc("GET /api/commitments", s.wrapAuth(s.handleListCommitments))
	mux.HandleFunc("POST /api/commitments", s.wrapAuth(s.handleCreateCommitment))
	mux.HandleFunc("GET /api/commitments/{id}", s.wrapAuth(s.handleGetCommitment))
	mux.HandleFunc("PUT /api/commitments/{id}", s.wrapAuth(s.handleUpdateCommitment))
	mux.HandleFunc("DELETE /api/commitments/{id}", s.wrapAuth(s.handleDeleteCommitment))

	mux.HandleFunc("GET /api/commitments/{id}/events", s.wrapAuth(s.handleListEvents))
	mux.HandleFunc("POST /api/events", s.wrapAuth(s.handleAddEvent))
	mux.HandleFunc("GET /api/events/{id}", s.wrapAuth(s.handleGetEvent))
	mux.HandleFunc("PUT /api/events/{id}", s.wrapAuth(s.handleEditEvent))
	mux.HandleFunc("DELETE /api/events/{id}", s.wrapAuth(s.handleDeleteEvent))

	mux.HandleFunc("GET /api/expenses", s.wrapAuth(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.wrapAuth(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/{id}", s.wrapAuth(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.wrapAuth(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.wrapAuth(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/notes", s.wrapAuth(s.handleListNotes))
	mux.HandleFunc("POST /api/notes", s.wrapAuth(s.handleCreateNote))
	mux.HandleFunc("PUT /api/notes/{id}", s.wrapAuth(s.handleUpdateNote))
	mux.HandleFunc("DELETE /api/notes/{id}", s.wrapAuth(s.handleDeleteNote))

	mux.HandleFunc("GET /api/house-savings", s.wrapAuth(s.handleListHouseSavings))
	mux.HandleFunc("POST /api/house-savings", s.wrapAuth(s.handleAddHouseSaving))
	mux.HandleFunc("DELETE /api/house-savings/{id}", s.wrapAuth(s.handleDeleteHouseSaving))

	mux.HandleFunc("POST /api/attachments", s.wrapAuth(s.handleUploadAttachment))
	mux.HandleFunc("GET /api/attachments/{path...}", s.wrapAuth(s.handleGetAttachment))

	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.summaryCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// wrap adds security headers, request ids, rate limiting on mutations and
// request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), ctxKey("request_id"), requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, envelope{
				Status: "error", Code: http.StatusTooManyRequests,
				Message: "rate limit exceeded",
			})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// wrapAuth additionally requires a valid bearer token and puts the claims in
// the request context.
func (s *Server) wrapAuth(next http.HandlerFunc) http.HandlerFunc {
	return s.wrap(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, envelope{
				Status: "error", Code: http.StatusUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims, err := s.tokens.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, envelope{
				Status: "error", Code: http.StatusUnauthorized,
				Message: "invalid or expired token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next(w, r.WithContext(ctx))
	})
}

// callerClaims returns the authenticated caller's claims. Handlers behind
// wrapAuth can rely on them being present.
func callerClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(claimsKey).(*auth.Claims)
	return claims
}

// invalidateSummary drops the caller's cached dashboard after a mutation.
func (s *Server) invalidateSummary(userID int64) {
	s.summaryCache.Delete(summaryKey(userID))
}

func summaryKey(userID int64) string {
	return "dashboard:" + strconv.FormatInt(userID, 10)
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

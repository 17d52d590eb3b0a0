// Package http exposes the ledger as a JSON API. Mutating routes sit behind
// the PIN gate; read routes stay open so a locked device can still render
// balances.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"daftar/internal/gate"
	"daftar/internal/log"
	"daftar/internal/services"
)

type Server struct {
	http.Server

	ledger     *services.LedgerService
	stats      *services.StatsService
	search     *services.SearchService
	statements *services.StatementService
	gate       *gate.Gate
	logger     *log.Logger
	started    time.Time
}

func NewServer(addr string,
	ledger *services.LedgerService,
	stats *services.StatsService,
	search *services.SearchService,
	statements *services.StatementService,
	g *gate.Gate,
	logger *log.Logger,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		ledger:     ledger,
		stats:      stats,
		search:     search,
		statements: statements,
		gate:       g,
		logger:     logger.WithComponent(log.ComponentHTTP),
		started:    time.Now(),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/unlock", s.handleUnlock)
	mux.HandleFunc("POST /api/lock", s.handleLock)
	mux.HandleFunc("GET /api/gate", s.handleGateStatus)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.guarded(s.handleCreateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.guarded(s.handleDeleteCategory))
	mux.HandleFunc("GET /api/categories/{id}/accounts", s.handleListAccounts)

	mux.HandleFunc("POST /api/accounts", s.guarded(s.handleCreateAccount))
	mux.HandleFunc("GET /api/accounts/{id}", s.handleGetAccount)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.guarded(s.handleDeleteAccount))
	mux.HandleFunc("GET /api/accounts/{id}/transactions", s.handleAccountTransactions)
	mux.HandleFunc("GET /api/accounts/{id}/statement", s.handleStatement)

	mux.HandleFunc("POST /api/transactions", s.guarded(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.guarded(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/stats/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/stats/categories", s.handleCategoryStats)
	mux.HandleFunc("GET /api/stats/top", s.handleTopAccounts)
	mux.HandleFunc("GET /api/search", s.handleSearch)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.guarded(s.handleUpdateSettings))
	mux.HandleFunc("POST /api/settings/pin", s.guarded(s.handleSetPin))

	s.Server.Handler = s.withRequestLogging(s.withTraceID(mux))
	return s
}

// guarded rejects the request until the PIN gate has been opened.
func (s *Server) guarded(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.gate.Unlocked() {
			writeError(w, r, http.StatusForbidden, gate.ErrGateClosed)
			return
		}
		next(w, r)
	}
}

// withTraceID stamps a request ID on the context logger and the response.
func (s *Server) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := s.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger := log.FromContext(r.Context())
		args := []any{
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rec.status,
			log.FieldDuration, time.Since(start).Milliseconds(),
		}
		switch {
		case rec.status >= 500:
			logger.Error("Request failed", args...)
		case rec.status >= 400:
			logger.Warn("Request rejected", args...)
		default:
			logger.Info("Request completed", args...)
		}
	})
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.Server.Shutdown(ctx)
}

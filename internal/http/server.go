package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dominh-hy/TaxViet/internal/cache"
	"github.com/dominh-hy/TaxViet/internal/core"
	applog "github.com/dominh-hy/TaxViet/internal/log"
	"github.com/dominh-hy/TaxViet/internal/services"
)

// Server exposes the assistant over a JSON API.
type Server struct {
	http.Server

	assistant *services.Assistant
	logger    *applog.StructuredLogger

	rateLimiter *rateLimiter
	metrics     *securityMetrics

	// Per-account read caches, invalidated on every mutation.
	profileCache *cache.LRUCache[core.Profile]
	recordsCache *cache.LRUCache[[]core.TaxRecord]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, assistant *services.Assistant, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		assistant:    assistant,
		logger:       applog.NewStructuredLogger(logger),
		rateLimiter:  newRateLimiter(),
		metrics:      &securityMetrics{},
		profileCache: cache.NewLRUCache[core.Profile](100, 5*time.Minute),
		recordsCache: cache.NewLRUCache[[]core.TaxRecord](200, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.profileCache)
	s.cacheManager.Register(s.recordsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/register", s.wrap(s.handleRegister))
	mux.HandleFunc("POST /api/auth/login", s.wrap(s.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", s.wrap(s.handleLogout))
	mux.HandleFunc("GET /api/session", s.wrap(s.handleSession))

	mux.HandleFunc("GET /api/profile", s.wrap(s.handleGetProfile))
	mux.HandleFunc("PUT /api/profile", s.wrap(s.handleUpdateProfile))

	mux.HandleFunc("GET /api/categories", s.wrap(s.handleCategories))
	mux.HandleFunc("POST /api/tax/compute", s.wrap(s.handleCompute))

	mux.HandleFunc("GET /api/records", s.wrap(s.handleListRecords))
	mux.HandleFunc("POST /api/records", s.wrap(s.handleSaveRecord))
	mux.HandleFunc("DELETE /api/records/{id}", s.wrap(s.handleDeleteRecord))
	mux.HandleFunc("POST /api/records/{id}/toggle", s.wrap(s.handleToggleRecord))

	mux.HandleFunc("GET /api/preferences/{name}", s.wrap(s.handleGetPreference))
	mux.HandleFunc("PUT /api/preferences/{name}", s.wrap(s.handleSetPreference))

	return s
}

// wrap adds security headers, rate limiting, request IDs, and request
// logging around a handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logger.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			slog.WarnContext(ctx, "Suspicious request pattern",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
		}

		// Mutating requests are rate limited per client IP.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, s.metrics) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: errorBody{
				Code:    "rate_limited",
				Message: "too many requests, retry later",
			}})
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the cleanup goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

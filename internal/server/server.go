package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/skillmatch/internal/builder"
	"github.com/jonathan/skillmatch/internal/config"
	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/pipeline"
	"github.com/jonathan/skillmatch/internal/server/middleware"
	"github.com/jonathan/skillmatch/internal/server/ratelimit"
)

// Store is everything the HTTP API reads and writes. *db.DB implements it.
type Store interface {
	pipeline.Store
	builder.Store
	AdminStore
	Ping(ctx context.Context) error
	GetDashboardStats(ctx context.Context, recent int) (*db.DashboardStats, error)
	ListResumes(ctx context.Context, filters db.ResumeFilters) ([]db.Resume, error)
	GetResumeDetail(ctx context.Context, id uuid.UUID) (*db.ResumeDetail, error)
	DeleteResume(ctx context.Context, id uuid.UUID) error
	CreateFeedback(ctx context.Context, f *db.Feedback) (uuid.UUID, error)
	ListFeedback(ctx context.Context, limit int) ([]db.Feedback, error)
	ListAdminLogs(ctx context.Context, limit int) ([]db.AdminLog, error)
}

var _ Store = (*db.DB)(nil)

// Options configures a Server. Pipeline is required. A nil Store disables
// persistence, feedback and the admin API; a nil JWT or Passwords disables
// the admin API only.
type Options struct {
	Port     int
	Pipeline *pipeline.Pipeline
	Builder  *builder.Builder
	// LaTeXTemplate overrides the embedded LaTeX export template when set.
	LaTeXTemplate  string
	Store          Store
	JWT            *JWTService
	Passwords      *config.PasswordConfig
	RateLimit      *ratelimit.Config
	MaxUploadBytes int64
}

// Server represents the HTTP server
type Server struct {
	httpServer     *http.Server
	handler        http.Handler
	pipeline       *pipeline.Pipeline
	builder        *builder.Builder
	latexTemplate  string
	store          Store
	admins         *AdminService
	jwtService     *JWTService
	rateLimiter    *ratelimit.Limiter
	maxUploadBytes int64
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Pipeline == nil {
		return nil, fmt.Errorf("a pipeline is required")
	}
	if opts.Builder == nil {
		opts.Builder = builder.New(nil, false)
	}
	if opts.RateLimit == nil {
		opts.RateLimit = ratelimit.LoadConfig()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = int64(config.DefaultMaxUploadMB) << 20
	}

	s := &Server{
		pipeline:       opts.Pipeline,
		builder:        opts.Builder,
		latexTemplate:  opts.LaTeXTemplate,
		store:          opts.Store,
		jwtService:     opts.JWT,
		rateLimiter:    ratelimit.NewLimiter(opts.RateLimit),
		maxUploadBytes: opts.MaxUploadBytes,
	}
	if opts.Store != nil && opts.JWT != nil && opts.Passwords != nil {
		s.admins = NewAdminService(opts.Store, opts.Passwords, opts.JWT)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /roles", s.handleListRoles)
	mux.HandleFunc("GET /roles/{category}", s.handleGetCategory)
	mux.HandleFunc("GET /templates", s.handleListTemplates)

	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /analyze/stream", s.handleAnalyzeStream)
	mux.HandleFunc("POST /resumes/build", s.handleBuildResume)
	mux.HandleFunc("POST /feedback", s.handleCreateFeedback)

	// Admin dashboard
	mux.HandleFunc("POST /admin/login", s.handleAdminLogin)
	mux.Handle("GET /admin/dashboard", s.requireAdmin(s.handleDashboard))
	mux.Handle("GET /admin/resumes", s.requireAdmin(s.handleListResumes))
	mux.Handle("GET /admin/resumes/{id}", s.requireAdmin(s.handleGetResume))
	mux.Handle("DELETE /admin/resumes/{id}", s.requireAdmin(s.handleDeleteResume))
	mux.Handle("GET /admin/logs", s.requireAdmin(s.handleListAdminLogs))
	mux.Handle("GET /admin/feedback", s.requireAdmin(s.handleListFeedback))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // job posting fetches and AI critiques are slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped request handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return nil
}

// Close releases background resources without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// requireAdmin wraps an admin handler with bearer token authentication.
func (s *Server) requireAdmin(h http.HandlerFunc) http.Handler {
	if s.admins == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			s.errorResponse(w, http.StatusServiceUnavailable, "admin API is not configured")
		})
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Resume-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status code and writes it as JSON. Internal
// errors are logged and their details withheld.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[server] %v", err)
	}
	s.jsonResponse(w, status, newErrorBody(err))
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := max(int(info.RetryAfter.Seconds()), 1)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

package mockapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"csvdesk/internal/api"
	"csvdesk/internal/logging"
)

// SampleSize is how many rows an upload echoes back as data.
const SampleSize = 5

// maxUploadBytes caps multipart bodies held in memory.
const maxUploadBytes = 32 << 20

// Account is the one set of credentials the mock accepts.
type Account struct {
	Email    string
	Password string
	Name     string
}

// Server is the mock backend.
type Server struct {
	account Account
	uploads *uploadStore
	log     *slog.Logger
	now     func() time.Time

	mu        sync.RWMutex
	tokens    map[string]api.User
	feedbacks []api.Feedback
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the time source used for upload timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a mock backend accepting account's credentials.
func New(account Account, opts ...Option) *Server {
	s := &Server{
		account: account,
		uploads: newUploadStore(),
		log:     logging.New("mockapi"),
		now:     time.Now,
		tokens:  make(map[string]api.User),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the router with every endpoint mounted under /api.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter().UseEncodedPath()
	r.Use(s.logRequests)

	a := r.PathPrefix("/api").Subrouter()
	a.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	a.HandleFunc("/upload", s.handleUpload).Methods(http.MethodPost)
	a.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	a.HandleFunc("/validate", s.handleValidate).Methods(http.MethodPost)
	a.HandleFunc("/download", s.handleDownload).Methods(http.MethodPost)
	a.HandleFunc("/feedback", s.handleFeedback).Methods(http.MethodPost)
	a.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	a.HandleFunc("/verify-token", s.handleVerifyToken).Methods(http.MethodPost)
	a.HandleFunc("/files", s.handleListFiles).Methods(http.MethodGet)
	a.HandleFunc("/files/{filename}", s.handleFileInfo).Methods(http.MethodGet)
	return r
}

// Feedbacks returns every feedback form received so far.
func (s *Server) Feedbacks() []api.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Feedback(nil), s.feedbacks...)
}

func (s *Server) issueToken(u api.User) string {
	tok := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tok] = u
	return tok
}

func (s *Server) lookupToken(tok string) (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.tokens[tok]
	return u, ok
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", r.Header.Get("X-Request-ID"),
			"elapsed", time.Since(start),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

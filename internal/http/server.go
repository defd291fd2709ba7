package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"compta/internal/backend"
	"compta/internal/log"
)

const (
	requestTimeout = 10 * time.Second
	readyTimeout   = 2 * time.Second

	defaultWriteLimit = 120 // writes per client per minute
)

// Options configures a Server. The zero value is usable.
type Options struct {
	// Password enables the Basic-auth gate on /api/ when non-empty.
	Password string
	Logger   *log.Logger
	// WriteLimit caps POST and DELETE requests per client per minute.
	WriteLimit int
	// Now is used for default year/month parameters (default: time.Now).
	Now func() time.Time
}

type Server struct {
	http.Server
	backend     backend.Backend
	logger      *log.Logger
	errLog      *log.StructuredLogger
	rateLimiter *rateLimiter
	now         func() time.Time
	startedAt   time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, b backend.Backend, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.WriteLimit <= 0 {
		opts.WriteLimit = defaultWriteLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		backend:     b,
		logger:      logger,
		errLog:      log.NewStructuredLogger(logger),
		rateLimiter: newRateLimiter(opts.WriteLimit, time.Minute),
		now:         opts.Now,
		startedAt:   time.Now(),
	}

	api := http.NewServeMux()
	api.HandleFunc("GET /api/accounts", s.handleListAccounts)
	api.HandleFunc("GET /api/accounts/{code}", s.handleGetAccount)
	api.HandleFunc("GET /api/transactions", s.handleListTransactions)
	api.HandleFunc("POST /api/transactions", s.handleRecordTransaction)
	api.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	api.HandleFunc("DELETE /api/transactions/{id}", s.handleReverseTransaction)
	api.HandleFunc("GET /api/summary", s.handleSummary)
	api.HandleFunc("GET /api/stats", s.handleStats)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("/api/", requirePassword(opts.Password, s.rateLimiter.limitWrites(api)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           log.Middleware(opts.Logger)(withSecurityHeaders(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

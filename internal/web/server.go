// Package web serves the recon HTTP API.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/buemura/recon/internal/logging"
	"github.com/buemura/recon/internal/scanner"
	"github.com/buemura/recon/internal/web/jobs"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server is the HTTP server for the recon API.
type Server struct {
	router  chi.Router
	addr    string
	scanner scanner.Scanner
	manager *jobs.Manager
	logger  *zap.Logger
	http    *http.Server
}

// NewServer builds a new Server with middleware and routes configured.
// requestTimeout bounds every request and must exceed the scan deadline.
func NewServer(addr string, s scanner.Scanner, requestTimeout time.Duration, logger *zap.Logger) *Server {
	logger = logging.OrNop(logger)
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}

	srv := &Server{
		router:  chi.NewRouter(),
		addr:    addr,
		scanner: s,
		manager: jobs.NewManager(s, logger),
		logger:  logging.Component(logger, "web"),
	}

	srv.router.Use(middleware.RequestID)
	srv.router.Use(requestLogger(srv.logger))
	srv.router.Use(middleware.Recoverer)
	srv.router.Use(cors)
	srv.router.Use(middleware.Timeout(requestTimeout))

	srv.registerRoutes()

	srv.http = &http.Server{
		Addr:              addr,
		Handler:           srv.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("listening", zap.String("addr", s.addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, drains in-flight ones and waits for
// background scan jobs.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		s.manager.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

// Router exposes the chi.Router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

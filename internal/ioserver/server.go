// Package ioserver exposes the record store as a JSON HTTP API.
package ioserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gnames/gncat/pkg/config"
	"github.com/gnames/gncat/pkg/groups"
	"github.com/gnames/gncat/pkg/store"
)

// maxUpload limits the size of imported files.
const maxUpload = 32 << 20

// Server serves the record store.
type Server struct {
	store     *store.Store
	groups    groups.Table
	pageSize  int
	topN      int
	saveMode  func(config.StorageMode) error
	mux       *http.ServeMux
	startedAt time.Time
}

// Option configures a Server.
type Option func(*Server)

// OptPageSize sets the default page size of listings.
func OptPageSize(i int) Option {
	return func(s *Server) {
		if i > 0 {
			s.pageSize = i
		}
	}
}

// OptTopN sets the default number of chart buckets.
func OptTopN(i int) Option {
	return func(s *Server) {
		if i > 0 {
			s.topN = i
		}
	}
}

// OptModeSaver persists a storage mode changed through the API.
func OptModeSaver(f func(config.StorageMode) error) Option {
	return func(s *Server) {
		s.saveMode = f
	}
}

// New creates a Server with its routes.
func New(st *store.Store, tbl groups.Table, opts ...Option) *Server {
	res := &Server{
		store:     st,
		groups:    tbl.Index(),
		pageSize:  25,
		topN:      10,
		mux:       http.NewServeMux(),
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(res)
	}
	res.routes()
	return res
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/records", s.handleList)
	s.mux.HandleFunc("POST /api/records", s.handleAdd)
	s.mux.HandleFunc("PATCH /api/records", s.handleUpdateMany)
	s.mux.HandleFunc("GET /api/recent", s.handleRecent)
	s.mux.HandleFunc("GET /api/records/{catalog}", s.handleShow)
	s.mux.HandleFunc("PATCH /api/records/{catalog}", s.handleUpdate)
	s.mux.HandleFunc("DELETE /api/records/{catalog}", s.handleDelete)
	s.mux.HandleFunc("GET /api/incomplete", s.handleIncomplete)
	s.mux.HandleFunc("GET /api/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/values/{field}", s.handleValues)
	s.mux.HandleFunc("GET /api/charts", s.handleCharts)
	s.mux.HandleFunc("POST /api/import", s.handleImport)
	s.mux.HandleFunc("GET /api/export", s.handleExport)
	s.mux.HandleFunc("GET /api/mode", s.handleGetMode)
	s.mux.HandleFunc("PUT /api/mode", s.handleSetMode)
	s.mux.HandleFunc("GET /api/sync", s.handleSync)
	s.mux.HandleFunc("POST /api/sync/{op}", s.handleSyncOp)
}

// Handler returns the HTTP handler with request logging.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		s.mux.ServeHTTP(w, r)
		slog.Debug("HTTP request",
			"method", r.Method, "path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP API started", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return ServeError(addr, err)
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		slog.Info("HTTP API stopping", "addr", addr)
		return srv.Shutdown(shutCtx)
	}
}

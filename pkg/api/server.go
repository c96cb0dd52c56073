// Package api serves decoded client tables and exported snapshots over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/index"
	"github.com/ssargent/wowformats/pkg/metrics"
	"github.com/ssargent/wowformats/pkg/query"
	"github.com/ssargent/wowformats/pkg/storage"
)

const (
	shutdownTimeout = 5 * time.Second
	defaultRowLimit = 100
)

// Server holds the API server state
type Server struct {
	tables    TableSource
	snapshots SnapshotSource
	config    ServerConfig
	metrics   *metrics.Metrics
	logger    logrus.FieldLogger
	queries   *query.Engine
}

// NewServer creates a new API server. snapshots and m may be nil.
func NewServer(tables TableSource, snapshots SnapshotSource, config ServerConfig, m *metrics.Metrics, logger logrus.FieldLogger) *Server {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Server{
		tables:    tables,
		snapshots: snapshots,
		config:    config,
		metrics:   m,
		logger:    logger,
		queries:   query.NewEngine(index.NewManager()),
	}
}

// Router builds the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Unprotected for scraping
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		r.Get("/tables", s.metrics.InstrumentHandler("GET", "/api/v1/tables", s.handleListTables))
		r.Get("/tables/{table}/layout", s.metrics.InstrumentHandler("GET", "/api/v1/tables/{table}/layout", s.handleLayout))
		r.Get("/tables/{table}/rows", s.metrics.InstrumentHandler("GET", "/api/v1/tables/{table}/rows", s.handleQueryRows))
		r.Get("/tables/{table}/rows/{index}", s.metrics.InstrumentHandler("GET", "/api/v1/tables/{table}/rows/{index}", s.handleRow))
		r.Get("/tables/{table}/ids/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/tables/{table}/ids/{id}", s.handleRowByID))

		r.Get("/snapshots", s.metrics.InstrumentHandler("GET", "/api/v1/snapshots", s.handleListSnapshots))
		r.Get("/snapshots/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/snapshots/{id}", s.handleSnapshot))
		r.Get("/snapshots/{id}/tables/{table}", s.metrics.InstrumentHandler("GET", "/api/v1/snapshots/{id}/tables/{table}", s.handleSnapshotRows))
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.config.Addr).Info("starting wowfmt API server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{
		"status":  "healthy",
		"version": s.config.Version.String(),
	})
}

func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	names := s.tables.Names()
	summaries := make([]TableSummary, 0, len(names))
	for _, name := range names {
		f, ok := s.tables.File(name)
		if !ok {
			continue
		}
		l := f.Layout()
		summaries = append(summaries, TableSummary{
			Name:       name,
			Rows:       f.Len(),
			RecordSize: l.Size,
			FieldCount: l.FieldCount,
			Header:     f.Header,
		})
	}
	sendSuccess(w, summaries)
}

func (s *Server) file(w http.ResponseWriter, r *http.Request) (*dbc.File, bool) {
	name := chi.URLParam(r, "table")
	f, ok := s.tables.File(name)
	if !ok {
		sendError(w, "Table not found: "+name, http.StatusNotFound)
		return nil, false
	}
	return f, true
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	f, ok := s.file(w, r)
	if !ok {
		return
	}
	sendSuccess(w, newLayoutResponse(f.Layout()))
}

func (s *Server) sendRow(w http.ResponseWriter, f *dbc.File, index int) {
	row, err := f.Row(index)
	if err != nil {
		s.logger.WithError(err).WithField("table", f.Layout().Schema.Table).Warn("failed to decode row")
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, RowResponse{Table: f.Layout().Schema.Table, Index: index, Values: row.JSONMap()})
}

func (s *Server) handleRow(w http.ResponseWriter, r *http.Request) {
	f, ok := s.file(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= f.Len() {
		sendError(w, "Row index out of range", http.StatusNotFound)
		return
	}
	s.sendRow(w, f, index)
}

// handleQueryRows returns the rows matching every where=Field<op>Value
// parameter, paged by offset and limit.
func (s *Server) handleQueryRows(w http.ResponseWriter, r *http.Request) {
	f, ok := s.file(w, r)
	if !ok {
		return
	}
	params := r.URL.Query()

	conditions := make([]query.FieldQuery, 0, len(params["where"]))
	for _, expr := range params["where"] {
		q, err := query.Parse(expr)
		if err != nil {
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		conditions = append(conditions, q)
	}
	offset, err := intParam(params.Get("offset"), 0)
	if err != nil {
		sendError(w, "Invalid offset", http.StatusBadRequest)
		return
	}
	limit, err := intParam(params.Get("limit"), defaultRowLimit)
	if err != nil {
		sendError(w, "Invalid limit", http.StatusBadRequest)
		return
	}

	matches, err := s.queries.Execute(r.Context(), f, conditions...)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if offset > len(matches) {
		offset = len(matches)
	}
	matches = matches[offset:]
	if len(matches) > limit {
		matches = matches[:limit]
	}

	rows := make([]RowResponse, 0, len(matches))
	for _, i := range matches {
		row, err := f.Row(i)
		if err != nil {
			sendError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		rows = append(rows, RowResponse{Table: f.Layout().Schema.Table, Index: i, Values: row.JSONMap()})
	}
	sendSuccess(w, rows)
}

func intParam(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, errors.New("must be a non-negative integer")
	}
	return v, nil
}

func (s *Server) handleRowByID(w http.ResponseWriter, r *http.Request) {
	f, ok := s.file(w, r)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		sendError(w, "Invalid record id", http.StatusBadRequest)
		return
	}
	index, err := f.Find(uint32(id))
	if err != nil {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}
	s.sendRow(w, f, index)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		sendError(w, "Snapshot store not configured", http.StatusNotFound)
		return
	}
	snapshots, err := s.snapshots.Snapshots()
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if snapshots == nil {
		snapshots = []storage.Snapshot{}
	}
	sendSuccess(w, snapshots)
}

func (s *Server) snapshotID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	if s.snapshots == nil {
		sendError(w, "Snapshot store not configured", http.StatusNotFound)
		return ksuid.Nil, false
	}
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid snapshot id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := s.snapshotID(w, r)
	if !ok {
		return
	}
	snap, err := s.snapshots.Snapshot(id)
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, snap)
}

func (s *Server) handleSnapshotRows(w http.ResponseWriter, r *http.Request) {
	id, ok := s.snapshotID(w, r)
	if !ok {
		return
	}
	rows, err := s.snapshots.Rows(id, chi.URLParam(r, "table"))
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, rows)
}

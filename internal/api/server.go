// Package api exposes the journal over HTTP with JSON bodies. Field names
// on the wire match the persisted data format.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/moodlog/internal/journal"
	"github.com/mesh-intelligence/moodlog/internal/log"
	"github.com/mesh-intelligence/moodlog/pkg/types"
)

// DefaultWeeks is the calendar span used when a request gives none.
const DefaultWeeks = 52

// MaxWeeks bounds the calendar span a request may ask for.
const MaxWeeks = 520

// Catalog lists the known feelings.
type Catalog interface {
	List() (types.Catalog, error)
}

// Journal is the record store the server reads and writes.
type Journal interface {
	GetAll() (types.Store, error)
	GetDay(date string) (types.DayRecord, error)
	GetYear(year int) (types.Store, error)
	AddEntry(in journal.AddEntryInput) (types.DatedEntry, error)
	DeleteEntry(date, timeOfDay string) (journal.DeleteResult, error)
}

// Server serves the JSON API.
type Server struct {
	http.Server
	catalog Catalog
	journal Journal
	clock   types.Clock
	logger  *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l.WithComponent(log.ComponentHTTP) }
}

// WithClock sets the clock used for the health timestamp and calendar end.
func WithClock(c types.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// NewServer wires routes and middleware for addr.
func NewServer(addr string, cat Catalog, j Journal, opts ...Option) *Server {
	s := &Server{
		catalog: cat,
		journal: j,
		clock:   types.SystemClock,
		logger:  log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("GET /api/sentimentos", s.listFeelings)
	mux.HandleFunc("GET /api/registro", s.getAll)
	mux.HandleFunc("GET /api/registro/{data}", s.getDay)
	mux.HandleFunc("POST /api/registro", s.addEntry)
	mux.HandleFunc("DELETE /api/registro/{data}", s.deleteEntry)
	mux.HandleFunc("GET /api/estatisticas", s.feelingCounts)
	mux.HandleFunc("GET /api/ano/{ano}", s.getYear)
	mux.HandleFunc("GET /api/calendario", s.calendar)
	mux.HandleFunc("GET /grafico.svg", s.heatmap)

	s.Addr = addr
	s.Handler = log.Middleware(s.logger, newRequestID)(withCORS(withRecover(mux)))
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 10 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 16
	return s
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", log.FieldAddr, s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.logger.Info("shutting down", log.FieldOperation, log.OpShutdown)
		return s.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// withCORS allows any origin, as the browser front end is served apart.
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+log.RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// withRecover turns a handler panic into a 500.
func withRecover(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.FromContext(r.Context()).Error("handler panic", "panic", rec, log.FieldPath, r.URL.Path)
				writeError(w, http.StatusInternalServerError, "erro interno")
			}
		}()
		h.ServeHTTP(w, r)
	})
}

// newRequestID returns a UUID v7, falling back to v4.
func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/meur/skyatlas/internal/catalog"
	"github.com/meur/skyatlas/internal/dataset"
	"github.com/meur/skyatlas/internal/session"
)

// Options tune the HTTP server
type Options struct {
	AllowedOrigins []string
	SpriteBaseURL  string
}

// Server holds the HTTP server dependencies
type Server struct {
	loader   *dataset.Loader
	sessions *session.Manager
	logger   *zap.Logger
	opts     Options
	router   chi.Router

	indexOnce sync.Once
	index     *catalog.Index
}

// New creates a new API server
func New(loader *dataset.Loader, sessions *session.Manager, logger *zap.Logger, opts Options) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		loader:   loader,
		sessions: sessions,
		logger:   logger,
		opts:     opts,
		router:   chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Router exposes the chi router so callers can mount extra handlers
func (s *Server) Router() chi.Router {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleGetStatus)

		r.Group(func(r chi.Router) {
			r.Use(s.requireDataset)
			r.Use(s.withSession)

			// Tables
			r.Get("/tables", s.handleGetTables)
			r.Get("/tables/{tableID}", s.handleGetTable)
			r.Post("/tables/{tableID}/ordering", s.handleToggleOrdering)

			// Ship filter
			r.Get("/filters", s.handleGetFilters)
			r.Post("/filters/visibility", s.handleToggleFiltersVisibility)
			r.Post("/filters/{dimension}", s.handleToggleFilter)

			// Detail pages
			r.Get("/ships/{slug}", s.handleGetShip)
			r.Get("/ships/{slug}/{modification}", s.handleGetShip)
			r.Get("/outfits/{slug}", s.handleGetOutfit)
		})
	})

	// Health check
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

// catalogIndex builds the slug index the first time the dataset is available
func (s *Server) catalogIndex() (*catalog.Index, error) {
	d, err := s.loader.Dataset()
	if err != nil {
		return nil, err
	}
	s.indexOnce.Do(func() {
		s.index = catalog.NewIndex(d, s.opts.SpriteBaseURL)
	})
	return s.index, nil
}

// --- Response helpers ---

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

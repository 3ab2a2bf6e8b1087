package api

import (
	"fmt"
	"net/http"

	"github.com/Ansarikaif/movie/internal/config"
	"github.com/Ansarikaif/movie/internal/crawler"
	"github.com/Ansarikaif/movie/internal/db"
	"github.com/Ansarikaif/movie/internal/httputil"
	"github.com/Ansarikaif/movie/internal/jobs"
	"github.com/Ansarikaif/movie/internal/metadata"
	"github.com/Ansarikaif/movie/internal/repository"
	"github.com/Ansarikaif/movie/internal/search"
	"github.com/Ansarikaif/movie/internal/shortener"
	"github.com/Ansarikaif/movie/internal/stats"
	"github.com/Ansarikaif/movie/internal/version"
)

type Server struct {
	cfg         *config.Config
	movieRepo   *repository.MovieRepository
	seriesRepo  *repository.SeriesRepository
	browseRepo  *repository.BrowseRepository
	requestRepo *repository.RequestRepository
	userRepo    *repository.UserRepository
	index       *search.Index
	resolver    *metadata.Resolver
	shortener   *shortener.Shortener
	crawler     *crawler.Crawler
	tracker     *stats.Tracker
	queue       *jobs.Queue
	router      *http.ServeMux
}

func NewServer(cfg *config.Config, database *db.DB, queue *jobs.Queue, cr *crawler.Crawler, resolver *metadata.Resolver, short *shortener.Shortener, tracker *stats.Tracker) *Server {
	movieRepo := repository.NewMovieRepository(database.DB)
	seriesRepo := repository.NewSeriesRepository(database.DB)

	s := &Server{
		cfg:         cfg,
		movieRepo:   movieRepo,
		seriesRepo:  seriesRepo,
		browseRepo:  repository.NewBrowseRepository(database.DB),
		requestRepo: repository.NewRequestRepository(database.DB),
		userRepo:    repository.NewUserRepository(database.DB),
		index:       search.NewIndex(movieRepo, seriesRepo),
		resolver:    resolver,
		shortener:   short,
		crawler:     cr,
		tracker:     tracker,
		queue:       queue,
		router:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)

	s.router.HandleFunc("GET /api/v1/search", s.handleSearch)
	s.router.HandleFunc("GET /api/v1/items/{name}", s.handleGetItem)
	s.router.HandleFunc("GET /api/v1/browse/{category}", s.handleBrowse)
	s.router.HandleFunc("GET /api/v1/categories", s.handleCategories)

	s.router.HandleFunc("POST /api/v1/requests", s.handleCreateRequest)
	s.router.HandleFunc("GET /api/v1/requests", s.operatorOnly(s.handleListRequests))

	s.router.HandleFunc("POST /api/v1/movies", s.operatorOnly(s.handleAddMovie))
	s.router.HandleFunc("POST /api/v1/series", s.operatorOnly(s.handleAddSeries))
	s.router.HandleFunc("POST /api/v1/refresh", s.operatorOnly(s.handleRefresh))
	s.router.HandleFunc("GET /api/v1/stats", s.operatorOnly(s.handleStats))
}

// operatorOnly gates endpoints behind the configured operator ID list,
// checked against the X-Operator-ID header.
func (s *Server) operatorOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Operator-ID")
		if id == "" || !s.cfg.IsOperator(id) {
			httputil.WriteError(w, http.StatusForbidden, "forbidden", "operator access required")
			return
		}
		next(w, r)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Addr() string {
	return fmt.Sprintf(":%d", s.cfg.Port)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": version.Version,
	})
}

package api

import (
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/Ansarikaif/movie/internal/crawler"
	"github.com/Ansarikaif/movie/internal/httputil"
	"github.com/Ansarikaif/movie/internal/metadata"
	"github.com/Ansarikaif/movie/internal/models"
)

const searchLimit = 25

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "missing query parameter q")
		return
	}

	s.trackUser(r)
	s.tracker.RecordSearch(query)

	results, err := s.index.Search(query, searchLimit)
	if err != nil {
		log.Printf("api: search %q: %v", query, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "search failed")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": results,
	})
}

type itemDetails struct {
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Kind     string            `json:"kind"`
	Metadata *metadata.Info    `json:"metadata,omitempty"`
	Links    []models.FileLink `json:"links"`
	Page     int               `json:"page"`
	Pages    int               `json:"pages"`
	Total    int               `json:"total"`
}

type seriesDetails struct {
	Name      string            `json:"name"`
	Category  string            `json:"category"`
	PosterURL string            `json:"poster_url,omitempty"`
	Plot      string            `json:"plot,omitempty"`
	Episodes  []models.Episode  `json:"episodes"`
	Page      int               `json:"page"`
	Pages     int               `json:"pages"`
	Total     int               `json:"total"`
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	page := pageParam(r)

	movie, err := s.movieRepo.GetByName(name)
	if err != nil {
		log.Printf("api: get item %q: %v", name, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}
	if movie != nil {
		s.trackUser(r)
		s.tracker.RecordSelection(name)
		s.respondMovieDetails(w, r, movie, page)
		return
	}

	series, err := s.seriesRepo.GetByName(name)
	if err != nil {
		log.Printf("api: get item %q: %v", name, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}
	if series == nil {
		httputil.WriteError(w, http.StatusNotFound, "not_found", "no catalog entry named "+name)
		return
	}

	s.trackUser(r)
	s.tracker.RecordSelection(name)
	s.respondSeriesDetails(w, r, series, page)
}

func (s *Server) respondMovieDetails(w http.ResponseWriter, r *http.Request, movie *models.Movie, page int) {
	ctx := r.Context()

	var links []models.FileLink
	if movie.Kind == models.KindDirectory {
		links = s.crawler.CrawlFiles(ctx, movie.URL, movie.Category)
		sort.Slice(links, func(i, j int) bool { return links[i].DisplayName < links[j].DisplayName })
	} else {
		links = []models.FileLink{s.crawler.ProbeFile(ctx, movie.URL, movie.Name, movie.Category)}
	}

	total := len(links)
	pages := pageCount(total, s.cfg.PageSize)
	links = pageSlice(links, page, s.cfg.PageSize)
	for i := range links {
		links[i].URL = s.shortener.Shorten(ctx, links[i].URL)
	}

	details := itemDetails{
		Name:     movie.Name,
		Category: movie.Category,
		Kind:     string(movie.Kind),
		Links:    links,
		Page:     page,
		Pages:    pages,
		Total:    total,
	}

	if s.resolver.Enabled() {
		info, err := s.resolver.Resolve(ctx, movie.Name)
		if err == nil {
			details.Metadata = info
		} else if !errors.Is(err, metadata.ErrNotFound) {
			log.Printf("api: metadata for %q: %v", movie.Name, err)
		}
	}

	httputil.WriteJSON(w, http.StatusOK, details)
}

func (s *Server) respondSeriesDetails(w http.ResponseWriter, r *http.Request, series *models.Series, page int) {
	episodes, err := s.seriesRepo.ListEpisodes(series.ID)
	if err != nil {
		log.Printf("api: episodes for %q: %v", series.Name, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}

	total := len(episodes)
	pages := pageCount(total, s.cfg.PageSize)
	episodes = pageSlice(episodes, page, s.cfg.PageSize)
	for i := range episodes {
		episodes[i].URL = s.shortener.Shorten(r.Context(), episodes[i].URL)
	}

	httputil.WriteJSON(w, http.StatusOK, seriesDetails{
		Name:      series.Name,
		Category:  series.Category,
		PosterURL: series.PosterURL,
		Plot:      series.Plot,
		Episodes:  episodes,
		Page:      page,
		Pages:     pages,
		Total:     total,
	})
}

// handleBrowse serves one alphabetical page of a category, movies and
// series merged in SQL.
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	category := r.PathValue("category")
	page := pageParam(r)

	names, err := s.browseRepo.ListNames(category, (page-1)*s.cfg.PageSize, s.cfg.PageSize)
	if err != nil {
		log.Printf("api: browse %q: %v", category, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "browse failed")
		return
	}

	movieTotal, err := s.movieRepo.CountByCategory(category)
	if err != nil {
		log.Printf("api: browse count %q: %v", category, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "browse failed")
		return
	}
	seriesTotal, err := s.seriesRepo.CountByCategory(category)
	if err != nil {
		log.Printf("api: browse count %q: %v", category, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "browse failed")
		return
	}

	total := movieTotal + seriesTotal
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"items":    names,
		"page":     page,
		"pages":    pageCount(total, s.cfg.PageSize),
		"total":    total,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	categories := append([]string{}, s.cfg.CategoryKeywords...)
	categories = append(categories, crawler.Uncategorized)
	httputil.WriteJSON(w, http.StatusOK, categories)
}

// trackUser upserts the calling user when the request identifies one.
func (s *Server) trackUser(r *http.Request) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return
	}
	if err := s.userRepo.Upsert(id); err != nil {
		log.Printf("api: track user %s: %v", id, err)
	}
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func pageCount(total, pageSize int) int {
	if total == 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func pageSlice[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

package api

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/Ansarikaif/movie/internal/httputil"
	"github.com/Ansarikaif/movie/internal/models"
	"github.com/Ansarikaif/movie/internal/normalize"
	"github.com/google/uuid"
)

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "missing X-User-ID header")
		return
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := httputil.ReadJSON(r, &body); err != nil || strings.TrimSpace(body.Title) == "" {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "title is required")
		return
	}

	if err := s.userRepo.Upsert(userID); err != nil {
		log.Printf("api: track user %s: %v", userID, err)
	}
	if err := s.requestRepo.Insert(userID, strings.TrimSpace(body.Title)); err != nil {
		log.Printf("api: insert request: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not record request")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"title": body.Title})
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	grouped, err := s.requestRepo.ListGrouped(50)
	if err != nil {
		log.Printf("api: list requests: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not list requests")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, grouped)
}

// handleAddMovie creates a manually curated catalog entry. The first link
// becomes the stored URL; every link is size-probed for the response. An
// entry whose normalized name already exists is rejected so manual rows
// cannot shadow each other.
func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string   `json:"name"`
		Category string   `json:"category"`
		Links    []string `json:"links"`
	}
	if err := httputil.ReadJSON(r, &body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" || len(body.Links) == 0 {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "name and at least one link are required")
		return
	}

	key := normalize.Normalize(body.Name)
	if key == "" {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "name normalizes to nothing")
		return
	}
	existing, err := s.movieRepo.GetByNormalizedName(key)
	if err != nil {
		log.Printf("api: add movie %q: %v", body.Name, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}
	if existing != nil {
		httputil.WriteError(w, http.StatusConflict, "conflict", "an entry with this title already exists: "+existing.Name)
		return
	}

	category := body.Category
	if category == "" {
		category = s.crawler.Categorize(body.Links[0])
	}

	kind := models.KindFile
	if strings.HasSuffix(body.Links[0], "/") {
		kind = models.KindDirectory
	}
	movie := &models.Movie{
		Name:           body.Name,
		URL:            body.Links[0],
		Kind:           kind,
		NormalizedName: key,
		Category:       category,
		Source:         models.SourceManual,
	}
	if err := s.movieRepo.Add(movie); err != nil {
		log.Printf("api: add movie %q: %v", body.Name, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not store entry")
		return
	}

	links := make([]models.FileLink, 0, len(body.Links))
	for _, raw := range body.Links {
		links = append(links, s.crawler.ProbeFile(r.Context(), raw, body.Name, category))
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"name":     movie.Name,
		"category": movie.Category,
		"links":    links,
	})
}

var episodeSpec = regexp.MustCompile(`^[Ss](\d+)[Ee](\d+)$`)

// handleAddSeries creates or extends a series. Episodes arrive as
// "SxEy:url" specs separated by semicolons or newlines; an episode with no
// explicit name defaults to "<series> SxEy".
func (s *Server) handleAddSeries(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string `json:"name"`
		Category  string `json:"category"`
		PosterURL string `json:"poster_url"`
		Plot      string `json:"plot"`
		Episodes  string `json:"episodes"`
	}
	if err := httputil.ReadJSON(r, &body); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	body.Name = strings.TrimSpace(body.Name)
	if body.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}

	series, err := s.seriesRepo.GetByName(body.Name)
	if err != nil {
		log.Printf("api: add series %q: %v", body.Name, err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "lookup failed")
		return
	}
	if series == nil {
		series = &models.Series{
			ID:             uuid.New(),
			Name:           body.Name,
			Category:       body.Category,
			PosterURL:      body.PosterURL,
			Plot:           body.Plot,
			NormalizedName: normalize.Normalize(body.Name),
		}
		if err := s.seriesRepo.Create(series); err != nil {
			log.Printf("api: add series %q: %v", body.Name, err)
			httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not store series")
			return
		}
	}

	episodes, bad := parseEpisodeSpecs(body.Episodes, series)
	if len(bad) > 0 {
		httputil.WriteError(w, http.StatusBadRequest, "bad_request", "invalid episode specs: "+strings.Join(bad, ", "))
		return
	}
	for i := range episodes {
		if err := s.seriesRepo.UpsertEpisode(&episodes[i]); err != nil {
			log.Printf("api: upsert episode %s S%dE%d: %v", series.Name, episodes[i].Season, episodes[i].Episode, err)
			httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not store episodes")
			return
		}
	}

	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id":       series.ID,
		"name":     series.Name,
		"episodes": len(episodes),
	})
}

// parseEpisodeSpecs splits "S1E1:url;S1E2:url" style input. Returns the
// parsed episodes and any specs that did not parse.
func parseEpisodeSpecs(raw string, series *models.Series) ([]models.Episode, []string) {
	var episodes []models.Episode
	var bad []string

	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ';' || r == '\n' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		marker, url, ok := strings.Cut(part, ":")
		m := episodeSpec.FindStringSubmatch(strings.TrimSpace(marker))
		if !ok || m == nil || strings.TrimSpace(url) == "" {
			bad = append(bad, part)
			continue
		}
		season, _ := strconv.Atoi(m[1])
		episode, _ := strconv.Atoi(m[2])
		episodes = append(episodes, models.Episode{
			SeriesID: series.ID,
			Season:   season,
			Episode:  episode,
			URL:      strings.TrimSpace(url),
			Name:     fmt.Sprintf("%s S%dE%d", series.Name, season, episode),
		})
	}
	return episodes, bad
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.queue.EnqueueRefresh("manual"); err != nil {
		log.Printf("api: enqueue refresh: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not enqueue refresh")
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "refresh enqueued"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	movieCount, err := s.movieRepo.Count()
	if err != nil {
		log.Printf("api: stats: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not gather stats")
		return
	}
	seriesCount, err := s.seriesRepo.Count()
	if err != nil {
		log.Printf("api: stats: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not gather stats")
		return
	}
	userCount, err := s.userRepo.Count()
	if err != nil {
		log.Printf("api: stats: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not gather stats")
		return
	}
	requests, err := s.requestRepo.ListGrouped(10)
	if err != nil {
		log.Printf("api: stats: %v", err)
		httputil.WriteError(w, http.StatusInternalServerError, "internal", "could not gather stats")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"movies":         movieCount,
		"series":         seriesCount,
		"users":          userCount,
		"top_requests":   requests,
		"top_searches":   s.tracker.TopSearches(10),
		"top_selections": s.tracker.TopSelections(10),
	})
}

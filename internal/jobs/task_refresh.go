package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Ansarikaif/movie/internal/crawler"
	"github.com/Ansarikaif/movie/internal/models"
	"github.com/Ansarikaif/movie/internal/repository"
)

type RefreshPayload struct {
	Reason string `json:"reason"`
}

// RefreshHandler crawls every configured root and replaces the scraped
// catalog with what it found.
type RefreshHandler struct {
	crawler   *crawler.Crawler
	movieRepo *repository.MovieRepository
}

func NewRefreshHandler(c *crawler.Crawler, movieRepo *repository.MovieRepository) *RefreshHandler {
	return &RefreshHandler{crawler: c, movieRepo: movieRepo}
}

func (h *RefreshHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p RefreshPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	log.Printf("Job: catalog refresh starting (%s)", p.Reason)
	start := time.Now()

	candidates, failed, err := h.crawler.CrawlRoots(ctx)
	if err != nil {
		return fmt.Errorf("crawl roots: %w", err)
	}

	stored, err := h.movieRepo.Refresh(candidates)
	if err != nil {
		return fmt.Errorf("refresh catalog: %w", err)
	}

	result := models.RefreshResult{
		Candidates:  len(candidates),
		RootsFailed: failed,
		ItemsStored: stored,
		Duration:    time.Since(start),
	}
	log.Printf("Job: catalog refresh done: %d candidates, %d roots failed, %d stored in %s",
		result.Candidates, result.RootsFailed, result.ItemsStored, result.Duration.Round(time.Millisecond))
	return nil
}

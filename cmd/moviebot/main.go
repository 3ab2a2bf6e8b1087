package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ansarikaif/movie/internal/api"
	"github.com/Ansarikaif/movie/internal/config"
	"github.com/Ansarikaif/movie/internal/crawler"
	"github.com/Ansarikaif/movie/internal/db"
	"github.com/Ansarikaif/movie/internal/fetch"
	"github.com/Ansarikaif/movie/internal/jobs"
	"github.com/Ansarikaif/movie/internal/metadata"
	"github.com/Ansarikaif/movie/internal/repository"
	"github.com/Ansarikaif/movie/internal/scheduler"
	"github.com/Ansarikaif/movie/internal/shortener"
	"github.com/Ansarikaif/movie/internal/stats"
	"github.com/Ansarikaif/movie/internal/version"
)

func main() {
	log.Printf("moviebot %s starting...", version.Version)

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	fetcher := fetch.New(cfg.MaxRetries, cfg.RequestTimeout)
	cr := crawler.New(fetcher, cfg.CrawlRoots, cfg.CategoryKeywords, cfg.VideoExtensions, cfg.CrawlConcurrency)

	movieRepo := repository.NewMovieRepository(database.DB)

	queue := jobs.NewQueue(cfg.RedisAddr)
	queue.RegisterHandler(jobs.TaskRefreshCatalog, jobs.NewRefreshHandler(cr, movieRepo))
	if err := queue.Start(); err != nil {
		log.Fatalf("job queue failed: %v", err)
	}
	defer queue.Stop()

	// First boot with an empty catalog: crawl right away instead of
	// waiting for the schedule.
	if count, err := movieRepo.Count(); err != nil {
		log.Printf("initial catalog count failed: %v", err)
	} else if count == 0 && len(cfg.CrawlRoots) > 0 {
		log.Println("catalog is empty, enqueueing initial refresh")
		if err := queue.EnqueueRefresh("initial"); err != nil {
			log.Printf("initial refresh enqueue failed: %v", err)
		}
	}

	var sched *scheduler.Scheduler
	if cfg.RefreshSchedule != "" {
		sched = scheduler.New(cfg.RefreshSchedule, func() {
			if err := queue.EnqueueRefresh("scheduled"); err != nil {
				log.Printf("scheduled refresh enqueue failed: %v", err)
			}
		})
		if err := sched.Start(); err != nil {
			log.Fatalf("scheduler failed: %v", err)
		}
		defer sched.Stop()
	}

	resolver := metadata.NewResolver(metadata.NewClient(cfg.MetadataTimeout), cfg.OMDbAPIKeys)
	short := shortener.New(cfg.ShortenerAPIKey, cfg.RequestTimeout)
	tracker := stats.NewTracker()

	srv := api.NewServer(cfg, database, queue, cr, resolver, short, tracker)

	httpServer := &http.Server{
		Addr:         srv.Addr(),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}

// Package crawler walks configured source roots and turns their directory
// listings into catalog candidates and downloadable file links.
package crawler

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Ansarikaif/movie/internal/fetch"
	"github.com/Ansarikaif/movie/internal/listing"
	"github.com/Ansarikaif/movie/internal/models"
	"github.com/Ansarikaif/movie/internal/normalize"
)

const Uncategorized = "Uncategorized"

type Crawler struct {
	fetcher     *fetch.Fetcher
	roots       []string
	categories  []string
	videoExts   map[string]bool
	concurrency int64
}

func New(fetcher *fetch.Fetcher, roots, categories []string, videoExts map[string]bool, concurrency int) *Crawler {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Crawler{
		fetcher:     fetcher,
		roots:       roots,
		categories:  categories,
		videoExts:   videoExts,
		concurrency: int64(concurrency),
	}
}

// Categorize derives a category from a root URL by matching the decoded URL
// against the configured keyword list, case-insensitively. The first keyword
// that occurs anywhere in the URL wins.
func (c *Crawler) Categorize(rawURL string) string {
	decoded := rawURL
	if d, err := url.PathUnescape(rawURL); err == nil {
		decoded = d
	}
	lower := strings.ToLower(decoded)
	for _, keyword := range c.categories {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return keyword
		}
	}
	return Uncategorized
}

// CrawlRoots fetches one listing level per configured root, concurrently
// across roots, and emits a candidate per visible entry. A root that fails
// to fetch contributes nothing and does not abort the others; failed reports
// how many roots were skipped that way.
func (c *Crawler) CrawlRoots(ctx context.Context) (candidates []models.Candidate, failed int, err error) {
	if len(c.roots) == 0 {
		return nil, 0, fmt.Errorf("no crawl roots configured")
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(int(c.concurrency))

	for _, root := range c.roots {
		g.Go(func() error {
			found, rootErr := c.crawlRoot(ctx, root)
			mu.Lock()
			defer mu.Unlock()
			if rootErr != nil {
				log.Printf("crawler: root %s skipped: %v", root, rootErr)
				failed++
				return nil
			}
			candidates = append(candidates, found...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, failed, err
	}
	return candidates, failed, nil
}

func (c *Crawler) crawlRoot(ctx context.Context, root string) ([]models.Candidate, error) {
	body, err := c.fetcher.Fetch(ctx, root)
	if err != nil {
		return nil, err
	}
	entries, err := listing.Parse(body, root)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	category := c.Categorize(root)
	var out []models.Candidate
	for _, e := range entries {
		normalized := normalize.Normalize(e.Name)
		if normalized == "" {
			continue
		}
		kind := models.KindFile
		if e.IsDir {
			kind = models.KindDirectory
		}
		out = append(out, models.Candidate{
			Name:           e.Name,
			URL:            e.URL,
			Kind:           kind,
			NormalizedName: normalized,
			Category:       category,
		})
	}
	return out, nil
}

// CrawlFiles walks a directory tree and collects every video file below it.
// The walk is an explicit fan-out over a shared bounded semaphore rather
// than call-stack recursion, and a visited set guards against
// self-referential listings. A node that fails to fetch yields nothing for
// that subtree; its siblings are unaffected.
func (c *Crawler) CrawlFiles(ctx context.Context, dirURL, category string) []models.FileLink {
	var (
		mu      sync.Mutex
		files   []models.FileLink
		visited = map[string]bool{dirURL: true}
		wg      sync.WaitGroup
		sem     = semaphore.NewWeighted(c.concurrency)
	)

	var walk func(u string)
	walk = func(u string) {
		defer wg.Done()

		if err := sem.Acquire(ctx, 1); err != nil {
			return
		}
		body, err := c.fetcher.Fetch(ctx, u)
		if err != nil {
			sem.Release(1)
			return
		}
		entries, err := listing.Parse(body, u)
		if err != nil {
			sem.Release(1)
			log.Printf("crawler: bad listing at %s: %v", u, err)
			return
		}

		var found []models.FileLink
		var dirs []string
		for _, e := range entries {
			if e.IsDir {
				dirs = append(dirs, e.URL)
				continue
			}
			if !c.isVideo(e.URL) {
				continue
			}
			found = append(found, models.FileLink{
				URL:         e.URL,
				DisplayName: DisplayName(category, e.Name),
				Size:        c.fetcher.HeadSize(ctx, e.URL),
			})
		}
		sem.Release(1)

		mu.Lock()
		files = append(files, found...)
		var next []string
		for _, d := range dirs {
			if !visited[d] {
				visited[d] = true
				next = append(next, d)
			}
		}
		mu.Unlock()

		for _, d := range next {
			wg.Add(1)
			go walk(d)
		}
	}

	wg.Add(1)
	go walk(dirURL)
	wg.Wait()
	return files
}

// ProbeFile builds the FileLink for a direct file URL, including the HEAD
// size probe.
func (c *Crawler) ProbeFile(ctx context.Context, fileURL, name, category string) models.FileLink {
	return models.FileLink{
		URL:         fileURL,
		DisplayName: DisplayName(category, name),
		Size:        c.fetcher.HeadSize(ctx, fileURL),
	}
}

func (c *Crawler) isVideo(fileURL string) bool {
	ext := strings.ToLower(path.Ext(fileURL))
	return c.videoExts[ext]
}

// DisplayName prefixes a file name with its category tag when one is set.
func DisplayName(category, name string) string {
	if category == "" {
		return name
	}
	return fmt.Sprintf("[%s] %s", category, name)
}

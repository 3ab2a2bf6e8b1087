// Package fetch wraps outbound HTTP with the retry and backoff policy used
// by the crawler, plus the HEAD-based size probe for file links.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	SizeUnknown      = "Size unknown"
	SizeNotAvailable = "Size N/A"
)

type Fetcher struct {
	client     *http.Client
	maxRetries int
	// sleep is swapped out in tests so backoff assertions don't take seconds.
	sleep func(time.Duration)
}

func New(maxRetries int, timeout time.Duration) *Fetcher {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &Fetcher{
		client:     &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		sleep:      time.Sleep,
	}
}

// Fetch GETs url, retrying up to the configured attempt count with
// exponential backoff (1s, 2s, 4s, ...) between attempts. Any transport
// error or non-2xx status counts as a failed attempt. The last error is
// returned once attempts are exhausted.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		body, err := f.get(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Printf("fetch: attempt %d/%d failed for %s: %v", attempt+1, f.maxRetries, url, err)
		if attempt < f.maxRetries-1 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			default:
			}
			f.sleep(time.Duration(1<<attempt) * time.Second)
		}
	}
	return "", fmt.Errorf("fetch %s: %w", url, lastErr)
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// HeadSize issues a single HEAD request (no retries) and formats the
// Content-Length header for display. It returns SizeUnknown when the header
// is absent and SizeNotAvailable on any error.
func (f *Fetcher) HeadSize(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return SizeNotAvailable
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return SizeNotAvailable
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SizeNotAvailable
	}
	if resp.ContentLength < 0 {
		return SizeUnknown
	}
	return HumanSize(resp.ContentLength)
}

// HumanSize renders a byte count as B/KB/MB/GB with two decimal places.
func HumanSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	case n < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/(1024*1024*1024))
	}
}

// Package shortener wraps the shrinkme.io link shortener. It degrades
// gracefully: without a key, or on any service failure, the original URL
// is returned unchanged.
package shortener

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	defaultEndpoint  = "https://shrinkme.io/api"
	defaultCacheSize = 4096
)

type apiResponse struct {
	Status       string `json:"status"`
	ShortenedURL string `json:"shortenedUrl"`
}

type Shortener struct {
	endpoint string
	apiKey   string
	client   *http.Client

	mu      sync.Mutex
	cache   map[string]string
	order   []string
	maxSize int
}

func New(apiKey string, timeout time.Duration) *Shortener {
	return &Shortener{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		cache:    make(map[string]string),
		maxSize:  defaultCacheSize,
	}
}

// Shorten returns a short link for raw, or raw itself when shortening is
// disabled or fails. It never returns an error; a broken shortener must
// not break link delivery.
func (s *Shortener) Shorten(ctx context.Context, raw string) string {
	if s.apiKey == "" {
		return raw
	}

	s.mu.Lock()
	if short, ok := s.cache[raw]; ok {
		s.mu.Unlock()
		return short
	}
	s.mu.Unlock()

	short, err := s.request(ctx, raw)
	if err != nil {
		log.Printf("shortener: %v", err)
		return raw
	}

	s.mu.Lock()
	if len(s.order) >= s.maxSize {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.cache, oldest)
	}
	s.cache[raw] = short
	s.order = append(s.order, raw)
	s.mu.Unlock()

	return short
}

func (s *Shortener) request(ctx context.Context, raw string) (string, error) {
	q := url.Values{}
	q.Set("api", s.apiKey)
	q.Set("url", raw)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("shorten %s: %w", raw, err)
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if body.Status != "success" || body.ShortenedURL == "" {
		return "", fmt.Errorf("shorten %s: service returned status %q", raw, body.Status)
	}
	return body.ShortenedURL, nil
}

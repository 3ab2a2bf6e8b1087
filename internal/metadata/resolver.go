package metadata

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/Ansarikaif/movie/internal/normalize"
)

const defaultCacheSize = 1024

// Lookuper is the provider call the resolver drives. *Client satisfies it.
type Lookuper interface {
	Lookup(ctx context.Context, apiKey, title, year string) (*Info, error)
}

// Resolver answers metadata queries with key rotation and a bounded cache.
//
// A raw title is cleaned of its trailing year and queried in up to two
// shapes: title plus year (when a year was present), then title alone.
// Within a shape every configured key is tried in order; a rate-limited
// key advances to the next key, any other failure abandons the shape.
// Successful lookups are cached under the raw title. Misses are not
// cached so a later retry can succeed once quotas reset.
type Resolver struct {
	client Lookuper
	keys   []string

	mu      sync.Mutex
	cache   map[string]*Info
	order   []string
	maxSize int
}

func NewResolver(client Lookuper, keys []string) *Resolver {
	return &Resolver{
		client:  client,
		keys:    keys,
		cache:   make(map[string]*Info),
		maxSize: defaultCacheSize,
	}
}

// Enabled reports whether at least one API key is configured.
func (r *Resolver) Enabled() bool {
	return len(r.keys) > 0
}

func (r *Resolver) Resolve(ctx context.Context, rawTitle string) (*Info, error) {
	if !r.Enabled() {
		return nil, ErrNotFound
	}

	r.mu.Lock()
	if info, ok := r.cache[rawTitle]; ok {
		r.mu.Unlock()
		return info, nil
	}
	r.mu.Unlock()

	cleaned, year := normalize.SplitYear(rawTitle)

	var shapes [][2]string
	if year != "" {
		shapes = append(shapes, [2]string{cleaned, year})
	}
	shapes = append(shapes, [2]string{cleaned, ""})

	for _, shape := range shapes {
		for i, key := range r.keys {
			info, err := r.client.Lookup(ctx, key, shape[0], shape[1])
			if err == nil {
				r.store(rawTitle, info)
				return info, nil
			}
			if errors.Is(err, ErrRateLimited) {
				log.Printf("metadata: key #%d rate limited, trying next key", i)
				continue
			}
			// Not-found, timeout or transport failure: this shape is a
			// dead end, fall back to the next one.
			log.Printf("metadata: lookup %q failed: %v", shape[0], err)
			break
		}
	}
	return nil, ErrNotFound
}

func (r *Resolver) store(title string, info *Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cache[title]; ok {
		return
	}
	if len(r.order) >= r.maxSize {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.cache, oldest)
	}
	r.cache[title] = info
	r.order = append(r.order, title)
}

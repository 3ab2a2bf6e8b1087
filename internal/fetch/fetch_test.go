package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(maxRetries int) (*Fetcher, *[]time.Duration) {
	f := New(maxRetries, 2*time.Second)
	var slept []time.Duration
	f.sleep = func(d time.Duration) { slept = append(slept, d) }
	return f, &slept
}

func TestFetchRetriesWithBackoff(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f, slept := newTestFetcher(3)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Equal(t, 3, hits)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *slept)
}

func TestFetchSucceedsAfterFailure(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 2 {
			http.Error(w, "boom", http.StatusBadGateway)
			return
		}
		w.Write([]byte("listing"))
	}))
	defer srv.Close()

	f, slept := newTestFetcher(3)
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "listing", body)
	assert.Equal(t, []time.Duration{1 * time.Second}, *slept)
}

func TestHeadSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/small":
			w.Header().Set("Content-Length", "512")
		case "/big":
			w.Header().Set("Content-Length", "1572864")
		case "/unknown":
			// Raw response without a Content-Length header.
			conn, buf, err := w.(http.Hijacker).Hijack()
			if err != nil {
				return
			}
			buf.WriteString("HTTP/1.1 200 OK\r\nConnection: close\r\n\r\n")
			buf.Flush()
			conn.Close()
			return
		case "/gone":
			w.WriteHeader(http.StatusNotFound)
			return
		}
	}))
	defer srv.Close()

	f, _ := newTestFetcher(1)
	ctx := context.Background()
	assert.Equal(t, "512 B", f.HeadSize(ctx, srv.URL+"/small"))
	assert.Equal(t, "1.50 MB", f.HeadSize(ctx, srv.URL+"/big"))
	assert.Equal(t, SizeUnknown, f.HeadSize(ctx, srv.URL+"/unknown"))
	assert.Equal(t, SizeNotAvailable, f.HeadSize(ctx, srv.URL+"/gone"))
	assert.Equal(t, SizeNotAvailable, f.HeadSize(ctx, "http://127.0.0.1:1/nope"))
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0 B", HumanSize(0))
	assert.Equal(t, "1023 B", HumanSize(1023))
	assert.Equal(t, "1.00 KB", HumanSize(1024))
	assert.Equal(t, "2.50 MB", HumanSize(2621440))
	assert.Equal(t, "1.00 GB", HumanSize(1073741824))
}

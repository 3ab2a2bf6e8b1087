package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ansarikaif/movie/internal/fetch"
	"github.com/Ansarikaif/movie/internal/models"
)

var testExts = map[string]bool{".mkv": true, ".mp4": true}

func newTestCrawler(roots []string) *Crawler {
	return New(fetch.New(1, 2*time.Second), roots, []string{"Bollywood", "Hollywood"}, testExts, 4)
}

func TestCategorize(t *testing.T) {
	c := newTestCrawler(nil)
	assert.Equal(t, "Hollywood", c.Categorize("http://files.example.com/Hollywood%20Movies/"))
	assert.Equal(t, "Bollywood", c.Categorize("http://files.example.com/bollywood/"))
	assert.Equal(t, Uncategorized, c.Categorize("http://files.example.com/other/"))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "[Hollywood] Dune.mkv", DisplayName("Hollywood", "Dune.mkv"))
	assert.Equal(t, "Dune.mkv", DisplayName("", "Dune.mkv"))
}

// serveTree maps request paths to listing pages.
func serveTree(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", "2048")
			return
		}
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, page)
	}))
}

func TestCrawlRoots(t *testing.T) {
	srv := serveTree(t, map[string]string{
		"/Hollywood/": `
			<a href="../">Parent Directory</a>
			<a href="Dune%20(2021)/">Dune%20(2021)/</a>
			<a href="Tenet.2020.mkv">Tenet.2020.mkv</a>`,
	})
	defer srv.Close()

	c := newTestCrawler([]string{srv.URL + "/Hollywood/", srv.URL + "/missing/"})
	candidates, failed, err := c.CrawlRoots(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	require.Len(t, candidates, 2)

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	assert.Equal(t, "Dune (2021)", candidates[0].Name)
	assert.Equal(t, models.KindDirectory, candidates[0].Kind)
	assert.Equal(t, "dune", candidates[0].NormalizedName)
	assert.Equal(t, "Hollywood", candidates[0].Category)

	assert.Equal(t, "Tenet.2020.mkv", candidates[1].Name)
	assert.Equal(t, models.KindFile, candidates[1].Kind)
}

func TestCrawlRootsNoRoots(t *testing.T) {
	c := newTestCrawler(nil)
	_, _, err := c.CrawlRoots(context.Background())
	assert.Error(t, err)
}

func TestCrawlFilesWalksSubdirectories(t *testing.T) {
	srv := serveTree(t, map[string]string{
		"/movies/": `
			<a href="../">Parent Directory</a>
			<a href="A.mkv">A.mkv</a>
			<a href="sub/">sub/</a>
			<a href="readme.txt">readme.txt</a>`,
		"/movies/sub/": `
			<a href="../">Parent Directory</a>
			<a href="B.mp4">B.mp4</a>`,
	})
	defer srv.Close()

	c := newTestCrawler(nil)
	files := c.CrawlFiles(context.Background(), srv.URL+"/movies/", "Hollywood")

	require.Len(t, files, 2)
	sort.Slice(files, func(i, j int) bool { return files[i].DisplayName < files[j].DisplayName })
	assert.Equal(t, "[Hollywood] A.mkv", files[0].DisplayName)
	assert.Equal(t, "2.00 KB", files[0].Size)
	assert.Equal(t, "[Hollywood] B.mp4", files[1].DisplayName)
}

// A listing that links back to itself must not loop the crawl.
func TestCrawlFilesCycleSafe(t *testing.T) {
	srv := serveTree(t, map[string]string{
		"/loop/": `
			<a href="/loop/">loop/</a>
			<a href="sub/">sub/</a>
			<a href="C.mkv">C.mkv</a>`,
		"/loop/sub/": `
			<a href="/loop/">back/</a>
			<a href="D.mkv">D.mkv</a>`,
	})
	defer srv.Close()

	c := newTestCrawler(nil)
	done := make(chan []models.FileLink, 1)
	go func() { done <- c.CrawlFiles(context.Background(), srv.URL+"/loop/", "") }()

	select {
	case files := <-done:
		assert.Len(t, files, 2)
	case <-time.After(10 * time.Second):
		t.Fatal("crawl did not terminate")
	}
}

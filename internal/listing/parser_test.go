package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `
<html><body>
<a href="?C=N;O=D">Name</a>
<a href="#top">Top</a>
<a href="javascript:void(0)">Void</a>
<a href="../">Parent Directory</a>
<a href="mailto:admin@example.com">Admin</a>
<a href="Sub%20Folder/">Sub%20Folder/</a>
<a href="The.Matrix.1999.mkv">The.Matrix.1999.mkv</a>
<a href="notes.txt">  notes.txt  </a>
<a href="">empty</a>
</body></html>`

func TestParse(t *testing.T) {
	entries, err := Parse(listingPage, "http://files.example.com/movies/")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "Sub Folder", entries[0].Name)
	assert.Equal(t, "http://files.example.com/movies/Sub%20Folder/", entries[0].URL)
	assert.True(t, entries[0].IsDir)

	assert.Equal(t, "The.Matrix.1999.mkv", entries[1].Name)
	assert.Equal(t, "http://files.example.com/movies/The.Matrix.1999.mkv", entries[1].URL)
	assert.False(t, entries[1].IsDir)

	assert.Equal(t, "notes.txt", entries[2].Name)
}

func TestParseDropsParentLabel(t *testing.T) {
	page := `<a href="/movies/">Parent Directory</a><a href="a.mkv">a.mkv</a>`
	entries, err := Parse(page, "http://files.example.com/movies/sub/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.mkv", entries[0].Name)
}

func TestParseKeepsLiteralPlus(t *testing.T) {
	page := `<a href="C%2B%2B%20Tutorial.mkv">C%2B%2B Tutorial.mkv</a>`
	entries, err := Parse(page, "http://files.example.com/courses/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "C++ Tutorial.mkv", entries[0].Name)
}

func TestParseResolvesAbsoluteHrefs(t *testing.T) {
	page := `<a href="http://mirror.example.com/x.mp4">x.mp4</a>`
	entries, err := Parse(page, "http://files.example.com/movies/")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "http://mirror.example.com/x.mp4", entries[0].URL)
}

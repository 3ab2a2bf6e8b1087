package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ansarikaif/movie/internal/repository"
)

func TestContainsWholeWord(t *testing.T) {
	assert.True(t, ContainsWholeWord("man", "man"))
	assert.True(t, ContainsWholeWord("the man returns", "man"))
	assert.True(t, ContainsWholeWord("man utd", "man"))
	assert.True(t, ContainsWholeWord("the man", "man"))
	assert.False(t, ContainsWholeWord("superman", "man"))
	assert.False(t, ContainsWholeWord("manhunt", "man"))
	assert.False(t, ContainsWholeWord("a human story", "man"))
}

func TestMatchesAllWords(t *testing.T) {
	assert.True(t, MatchesAllWords("the dark knight rises", []string{"dark", "knight"}))
	assert.False(t, MatchesAllWords("the dark knight rises", []string{"dark", "night"}))
	assert.False(t, MatchesAllWords("anything", nil))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 100, Score("The Matrix (1999) 1080p", "the matrix"))
	assert.Equal(t, 90, Score("Return of the Matrix Reloaded", "matrix"))
	assert.Equal(t, 80, Score("Matrix Reloaded", "matrix r"))
	// a leading word is still a whole word, so it outranks a bare prefix
	assert.Equal(t, 90, Score("Matrix Revolutions", "matrix"))
	// loose match: 50 minus normalized candidate length
	assert.Equal(t, 50-len("matrixx"), Score("Matrixx", "matrix"))
}

type stubSearcher struct {
	rows []repository.SearchRow
}

func (s stubSearcher) SearchByWords(words []string, limit int) ([]repository.SearchRow, error) {
	return s.rows, nil
}

func TestSearchWordBoundaryAndRanking(t *testing.T) {
	movies := stubSearcher{rows: []repository.SearchRow{
		{Name: "Superman (1978)", NormalizedName: "superman", Category: "Hollywood"},
		{Name: "The Man (2005)", NormalizedName: "the man", Category: "Hollywood"},
		{Name: "Man Utd Story", NormalizedName: "man utd story", Category: "Hollywood"},
	}}
	series := stubSearcher{rows: []repository.SearchRow{
		{Name: "The Man (2005)", NormalizedName: "the man", Category: "tvseries"},
		{Name: "Man", NormalizedName: "man", Category: "tvseries"},
	}}

	ix := NewIndex(movies, series)
	results, err := ix.Search("Man", 10)
	require.NoError(t, err)

	names := make([]string, len(results))
	for i, r := range results {
		names[i] = r.Name
	}
	// superman is substring-only and must be filtered; exact match first,
	// then whole-word hits in store order; the duplicate series row is
	// deduplicated with the movie occurrence winning.
	assert.Equal(t, []string{"Man", "The Man (2005)", "Man Utd Story"}, names)
	assert.Equal(t, 100, results[0].Score)
	assert.Equal(t, "Hollywood", results[1].Category)
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := NewIndex(stubSearcher{}, stubSearcher{})
	results, err := ix.Search("  !!  ", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchLimit(t *testing.T) {
	movies := stubSearcher{rows: []repository.SearchRow{
		{Name: "A War", NormalizedName: "a war"},
		{Name: "B War", NormalizedName: "b war"},
		{Name: "C War", NormalizedName: "c war"},
	}}
	ix := NewIndex(movies, stubSearcher{})
	results, err := ix.Search("war", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

// Package search implements word-boundary title matching and relevance
// ranking over the movie and series catalogs.
package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ansarikaif/movie/internal/normalize"
	"github.com/Ansarikaif/movie/internal/repository"
)

// Result is one ranked search hit.
type Result struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Kind     string `json:"kind"`
	Score    int    `json:"score"`
}

// ContainsWholeWord reports whether word occurs in text delimited by
// spaces or the string edges. Both arguments must already be normalized.
// "man" matches "the man returns" but not "superman".
func ContainsWholeWord(text, word string) bool {
	if text == word {
		return true
	}
	return strings.HasPrefix(text, word+" ") ||
		strings.HasSuffix(text, " "+word) ||
		strings.Contains(text, " "+word+" ")
}

// MatchesAllWords reports whether every query word is a whole word of the
// normalized name.
func MatchesAllWords(normalizedName string, words []string) bool {
	for _, w := range words {
		if !ContainsWholeWord(normalizedName, w) {
			return false
		}
	}
	return len(words) > 0
}

// Score ranks a candidate display name against a normalized query.
// Higher is better. Rules, first match wins: exact normalized equality
// scores 100, the whole query as a whole word scores 90, a prefix match
// scores 80, and anything else scores 50 minus the candidate length so
// shorter loose matches come first.
func Score(displayName, normalizedQuery string) int {
	cand := normalize.Normalize(displayName)
	switch {
	case cand == normalizedQuery:
		return 100
	case ContainsWholeWord(cand, normalizedQuery):
		return 90
	case strings.HasPrefix(cand, normalizedQuery):
		return 80
	default:
		return 50 - len(cand)
	}
}

// rowSearcher is the slice of a repository the index needs. Both the
// movie and series repositories satisfy it.
type rowSearcher interface {
	SearchByWords(words []string, limit int) ([]repository.SearchRow, error)
}

// Index answers free-text queries against both catalogs.
type Index struct {
	movies rowSearcher
	series rowSearcher
}

func NewIndex(movies, series rowSearcher) *Index {
	return &Index{movies: movies, series: series}
}

// sql prefilter limit, generous because the whole-word filter below
// discards substring-only hits.
const prefilterLimit = 200

// Search returns ranked matches for a raw query. Every query word must
// occur whole in a candidate's normalized name. Movies and series are
// unioned and deduplicated by name, first occurrence wins, and the sort
// is stable so equal scores keep store order.
func (ix *Index) Search(rawQuery string, limit int) ([]Result, error) {
	query := normalize.Normalize(rawQuery)
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil, nil
	}

	movieRows, err := ix.movies.SearchByWords(words, prefilterLimit)
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	seriesRows, err := ix.series.SearchByWords(words, prefilterLimit)
	if err != nil {
		return nil, fmt.Errorf("search series: %w", err)
	}

	seen := make(map[string]bool)
	var results []Result
	collect := func(rows []repository.SearchRow, kind string) {
		for _, row := range rows {
			if seen[row.Name] || !MatchesAllWords(row.NormalizedName, words) {
				continue
			}
			seen[row.Name] = true
			results = append(results, Result{
				Name:     row.Name,
				Category: row.Category,
				Kind:     kind,
				Score:    Score(row.Name, query),
			})
		}
	}
	collect(movieRows, "movie")
	collect(seriesRows, "series")

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

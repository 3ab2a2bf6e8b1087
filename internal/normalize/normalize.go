// Package normalize canonicalizes release titles into comparable keys.
// "The Matrix (1999) 1080p BluRay x264" and "the matrix" normalize to the
// same string, which is what the catalog indexes and search matches on.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// Parenthesized release year plus the usual quality/codec/container noise.
	releaseNoise = regexp.MustCompile(`(?i)\s*\(\d{4}\)\s*|\b\d{3,4}p\b|\b(hdrip|bluray|web-dl|brrip|hdcam|dvdscr|x264|x265|aac|ac3|5\.1|7\.1)\b`)
	// Quality tokens that only become word-bounded after punctuation is
	// stripped (e.g. "x-264" -> "x264"). A second pass keeps Normalize
	// idempotent.
	qualityToken = regexp.MustCompile(`\b\d{3,4}p\b|\b(hdrip|bluray|webdl|brrip|hdcam|dvdscr|x264|x265|aac|ac3)\b`)
	nonAlnum     = regexp.MustCompile(`[^a-z0-9\s]`)

	trailingYear = regexp.MustCompile(`\s*\(\d{4}\).*`)
	yearPattern  = regexp.MustCompile(`\((\d{4})\)`)
)

// Normalize returns the canonical lower-cased key for a title: release noise
// stripped, everything outside [a-z0-9 ] removed, whitespace collapsed.
// Normalize(Normalize(x)) == Normalize(x) for all x.
func Normalize(title string) string {
	s := releaseNoise.ReplaceAllString(title, "")
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "")
	s = qualityToken.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// SplitYear extracts a release year from a trailing "(YYYY)" marker and
// returns the title with that suffix removed. year is "" when no marker is
// present.
func SplitYear(title string) (cleaned, year string) {
	if m := yearPattern.FindStringSubmatch(title); m != nil {
		year = m[1]
	}
	cleaned = strings.TrimSpace(trailingYear.ReplaceAllString(title, ""))
	return cleaned, year
}

// Words splits a normalized key into its space-delimited words.
func Words(normalized string) []string {
	return strings.Fields(normalized)
}

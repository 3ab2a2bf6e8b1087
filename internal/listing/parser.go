// Package listing parses the anchor-per-entry HTML pages that plain file
// servers emit for directory indexes.
package listing

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Entry is one navigable row of a directory listing. URL is absolute.
type Entry struct {
	Name  string
	URL   string
	IsDir bool
}

// Parse extracts the usable entries from a listing page. Anchors pointing at
// query strings, fragments, script links, mail links, or the parent
// directory are dropped, as is the "Parent Directory" label itself. Hrefs
// are resolved against baseURL; display text is URL-decoded. A trailing
// slash on the href marks a directory.
func Parse(html, baseURL string) ([]Entry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || !usableHref(href) {
			return
		}

		name := decodeText(sel.Text())
		name = strings.TrimSuffix(name, "/")
		if name == "" || name == "Parent Directory" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}

		entries = append(entries, Entry{
			Name:  name,
			URL:   base.ResolveReference(ref).String(),
			IsDir: strings.HasSuffix(href, "/"),
		})
	})
	return entries, nil
}

func usableHref(href string) bool {
	if href == "" {
		return false
	}
	for _, prefix := range []string{"?", "#", "javascript:", "../", "mailto:"} {
		if strings.HasPrefix(href, prefix) {
			return false
		}
	}
	return true
}

// decodeText undoes percent escapes only; a literal "+" in a name must
// survive, so this is not query unescaping.
func decodeText(s string) string {
	s = strings.TrimSpace(s)
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

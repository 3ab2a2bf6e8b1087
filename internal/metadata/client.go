package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "http://www.omdbapi.com/"

// ErrRateLimited is returned when the provider rejects a key for exceeding
// its daily quota. Callers rotate to the next key on this error.
var ErrRateLimited = errors.New("metadata: api key rate limited")

// ErrNotFound is returned when the provider has no record for the query.
var ErrNotFound = errors.New("metadata: title not found")

// Info holds the subset of provider fields the catalog surfaces.
type Info struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	IMDBRating string `json:"imdbRating"`
	IMDBID     string `json:"imdbID"`
	Type       string `json:"Type"`
}

type apiResponse struct {
	Info
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Client queries the OMDb HTTP API with a single key per call.
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Lookup fetches metadata for a title, optionally pinned to a year.
// Year is ignored when empty.
func (c *Client) Lookup(ctx context.Context, apiKey, title, year string) (*Info, error) {
	q := url.Values{}
	q.Set("apikey", apiKey)
	q.Set("t", title)
	if year != "" {
		q.Set("y", year)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build metadata request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metadata request: %w", err)
	}
	defer resp.Body.Close()

	var body apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode metadata response: %w", err)
	}

	if body.Response != "True" {
		if strings.Contains(strings.ToLower(body.Error), "limit reached") {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, body.Error)
	}
	info := body.Info
	return &info, nil
}

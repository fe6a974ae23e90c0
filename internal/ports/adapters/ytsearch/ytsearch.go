// Package ytsearch scrapes the YouTube search results page. The page embeds
// its data as a ytInitialData JSON blob; everything about that blob is an
// undocumented format, so all knowledge of it is kept inside this package.
package ytsearch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
)

const (
	baseURL        = "https://www.youtube.com/results"
	userAgent      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptLanguage = "en-US,en;q=0.9"

	maxBodyBytes   = 8 << 20
	requestTimeout = 15 * time.Second

	defaultMaxResults = 10
)

// sp parameter values for YouTube's duration filter.
var durationParams = map[ports.DurationFilter]string{
	ports.DurationShort:  "EgIYAQ%3D%3D",
	ports.DurationMedium: "EgIYAw%3D%3D",
	ports.DurationLong:   "EgIYAg%3D%3D",
}

type Adapter struct {
	endpoint string
	client   *http.Client
}

func New() *Adapter {
	return &Adapter{
		endpoint: baseURL,
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// NewWithEndpoint points the adapter at a different results endpoint.
// Used by tests.
func NewWithEndpoint(endpoint string, client *http.Client) *Adapter {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Adapter{endpoint: endpoint, client: client}
}

func (a *Adapter) Search(ctx context.Context, query string, opts ports.SearchOptions) ([]types.VideoSummary, error) {
	max := opts.MaxResults
	if max <= 0 {
		max = defaultMaxResults
	}

	searchURL := a.endpoint + "?search_query=" + url.QueryEscape(query)
	if sp, ok := durationParams[opts.DurationFilter]; ok {
		searchURL += "&sp=" + sp
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}
	// A browser-like identity is required or the page serves a consent shell.
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &ports.RequestError{URL: searchURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ports.RequestError{URL: searchURL, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &ports.RequestError{URL: searchURL, Err: err}
	}

	videos, err := parseResultsPage(body, max)
	if err != nil {
		return nil, err
	}
	return FilterByDuration(videos, opts.DurationFilter), nil
}

// FilterByDuration keeps videos matching the duration category. The scraped
// sp parameter already narrows results server-side; this is the client-side
// safety net. When filtering would empty the set, the unfiltered set is
// returned so the user still sees something.
func FilterByDuration(videos []types.VideoSummary, f ports.DurationFilter) []types.VideoSummary {
	if f == ports.DurationAny {
		return videos
	}
	out := make([]types.VideoSummary, 0, len(videos))
	for _, v := range videos {
		switch f {
		case ports.DurationShort:
			if v.Duration < 240 {
				out = append(out, v)
			}
		case ports.DurationMedium:
			if v.Duration >= 240 && v.Duration <= 1200 {
				out = append(out, v)
			}
		case ports.DurationLong:
			if v.Duration > 1200 {
				out = append(out, v)
			}
		}
	}
	if len(out) == 0 {
		return videos
	}
	return out
}

package ytsearch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
)

const fixturePage = `<!DOCTYPE html><html><head><title>results</title></head><body>
<script>var something = 1;</script>
<script>var ytInitialData = {"contents":{"twoColumnSearchResultsRenderer":{"primaryContents":{"sectionListRenderer":{"contents":[{"itemSectionRenderer":{"contents":[{"videoRenderer":{"videoId":"abc123XYZ_-","title":{"runs":[{"text":"Best "},{"text":"Standup Bits"}]},"lengthText":{"simpleText":"12:34"},"ownerText":{"runs":[{"text":"Comedy Central"}]},"viewCountText":{"simpleText":"1.2M views"},"thumbnail":{"thumbnails":[{"url":"https://i.ytimg.com/lo.jpg"},{"url":"https://i.ytimg.com/hi.jpg"}]},"detailedMetadataSnippets":[{"snippetText":{"runs":[{"text":"A very funny "},{"text":"set"}]}}]}},{"shelfRenderer":{}},{"videoRenderer":{"videoId":"short0001","title":{"runs":[{"text":"Quick Laugh"}]},"lengthText":{"simpleText":"1:02"},"ownerText":{"runs":[{"text":"Clips Channel"}]},"viewCountText":{"simpleText":"3,456 views"}}}]}}]}}}}};</script>
</body></html>`

func TestSearch_ParsesEmbeddedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" || got == "Go-http-client/1.1" {
			t.Errorf("expected browser-like User-Agent, got %q", got)
		}
		if r.URL.Query().Get("search_query") != "stand up comedy" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	a := NewWithEndpoint(srv.URL, srv.Client())
	videos, err := a.Search(context.Background(), "stand up comedy", ports.SearchOptions{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(videos) != 2 {
		t.Fatalf("expected 2 videos, got %d", len(videos))
	}
	first := videos[0]
	if first.ID != "abc123XYZ_-" || first.Title != "Best Standup Bits" {
		t.Fatalf("unexpected first video: %+v", first)
	}
	if first.Duration != 12*60+34 {
		t.Fatalf("unexpected duration: %d", first.Duration)
	}
	if first.ViewCount != 1_200_000 {
		t.Fatalf("unexpected view count: %d", first.ViewCount)
	}
	if first.Channel != "Comedy Central" {
		t.Fatalf("unexpected channel: %q", first.Channel)
	}
	if first.ThumbnailURL != "https://i.ytimg.com/hi.jpg" {
		t.Fatalf("expected highest-quality thumbnail, got %q", first.ThumbnailURL)
	}
	if first.URL != "https://www.youtube.com/watch?v=abc123XYZ_-" {
		t.Fatalf("unexpected url: %q", first.URL)
	}
	if first.Description != "A very funny set" {
		t.Fatalf("unexpected description: %q", first.Description)
	}
	for _, v := range videos {
		if v.ID == "" || v.Title == "" || v.Duration < 0 {
			t.Fatalf("summary missing required fields: %+v", v)
		}
	}
}

func TestSearch_MaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	a := NewWithEndpoint(srv.URL, srv.Client())
	videos, err := a.Search(context.Background(), "q", ports.SearchOptions{MaxResults: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected 1 video, got %d", len(videos))
	}
}

func TestSearch_MissingPayloadIsParseError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body>consent wall</body></html>"))
	}))
	defer srv.Close()

	a := NewWithEndpoint(srv.URL, srv.Client())
	_, err := a.Search(context.Background(), "q", ports.SearchOptions{})

	var pe *ports.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestSearch_HTTPFailureIsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	a := NewWithEndpoint(srv.URL, srv.Client())
	_, err := a.Search(context.Background(), "q", ports.SearchOptions{})

	var re *ports.RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected RequestError, got %v", err)
	}
}

func TestSearch_DurationFilterParam(t *testing.T) {
	var gotSP string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSP = r.URL.Query().Get("sp")
		w.Write([]byte(fixturePage))
	}))
	defer srv.Close()

	a := NewWithEndpoint(srv.URL, srv.Client())
	if _, err := a.Search(context.Background(), "q", ports.SearchOptions{DurationFilter: ports.DurationShort}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotSP != "EgIYAQ==" {
		t.Fatalf("unexpected sp param: %q", gotSP)
	}
}

func TestParseDuration(t *testing.T) {
	tests := map[string]int{
		"5:30":    330,
		"1:23:45": 5025,
		"0:59":    59,
		"LIVE":    0,
		"":        0,
	}
	for in, want := range tests {
		if got := ParseDuration(in); got != want {
			t.Fatalf("ParseDuration(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseViewCount(t *testing.T) {
	tests := map[string]int64{
		"1.2M views":  1_200_000,
		"500K views":  500_000,
		"1,234 views": 1234,
		"views":       0,
		"":            0,
	}
	for in, want := range tests {
		if got := ParseViewCount(in); got != want {
			t.Fatalf("ParseViewCount(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestFilterByDuration(t *testing.T) {
	videos := []types.VideoSummary{
		{ID: "a", Duration: 100},
		{ID: "b", Duration: 600},
		{ID: "c", Duration: 2400},
	}

	short := FilterByDuration(videos, ports.DurationShort)
	if len(short) != 1 || short[0].ID != "a" {
		t.Fatalf("unexpected short filter result: %+v", short)
	}
	medium := FilterByDuration(videos, ports.DurationMedium)
	if len(medium) != 1 || medium[0].ID != "b" {
		t.Fatalf("unexpected medium filter result: %+v", medium)
	}
	long := FilterByDuration(videos, ports.DurationLong)
	if len(long) != 1 || long[0].ID != "c" {
		t.Fatalf("unexpected long filter result: %+v", long)
	}

	// A filter that matches nothing falls back to the full set.
	none := FilterByDuration([]types.VideoSummary{{ID: "a", Duration: 100}}, ports.DurationLong)
	if len(none) != 1 {
		t.Fatalf("expected fallback to unfiltered set, got %+v", none)
	}
	if got := FilterByDuration(videos, ports.DurationAny); len(got) != 3 {
		t.Fatalf("expected passthrough for any, got %d", len(got))
	}
}

package ytsearch

import (
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
)

var initialDataRE = regexp.MustCompile(`(?s)(?:var\s+)?ytInitialData\s*=\s*(\{.*?\});`)

// Structures mirror only the slice of ytInitialData we navigate; unknown
// fields are ignored by encoding/json.
type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer struct {
			PrimaryContents struct {
				SectionListRenderer struct {
					Contents []struct {
						ItemSectionRenderer *struct {
							Contents []struct {
								VideoRenderer *videoRenderer `json:"videoRenderer"`
							} `json:"contents"`
						} `json:"itemSectionRenderer"`
					} `json:"contents"`
				} `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`
	} `json:"contents"`
}

type videoRenderer struct {
	VideoID    string   `json:"videoId"`
	Title      textRuns `json:"title"`
	LengthText struct {
		SimpleText string `json:"simpleText"`
	} `json:"lengthText"`
	OwnerText     textRuns `json:"ownerText"`
	ViewCountText struct {
		SimpleText string `json:"simpleText"`
	} `json:"viewCountText"`
	Thumbnail struct {
		Thumbnails []struct {
			URL string `json:"url"`
		} `json:"thumbnails"`
	} `json:"thumbnail"`
	DetailedMetadataSnippets []struct {
		SnippetText textRuns `json:"snippetText"`
	} `json:"detailedMetadataSnippets"`
}

type textRuns struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
}

func (t textRuns) String() string {
	var b strings.Builder
	for _, r := range t.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func parseResultsPage(body []byte, max int) ([]types.VideoSummary, error) {
	raw, err := extractInitialData(body)
	if err != nil {
		return nil, &ports.ParseError{Source: "youtube search page", Err: err}
	}

	var data initialData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &ports.ParseError{Source: "ytInitialData", Err: err}
	}

	var videos []types.VideoSummary
	for _, section := range data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer.Contents {
		if section.ItemSectionRenderer == nil {
			continue
		}
		for _, item := range section.ItemSectionRenderer.Contents {
			v := item.VideoRenderer
			if v == nil || v.VideoID == "" {
				continue
			}
			videos = append(videos, summarize(v))
			if len(videos) >= max {
				return videos, nil
			}
		}
	}
	if videos == nil {
		return nil, &ports.ParseError{Source: "ytInitialData", Err: errors.New("no video results in payload")}
	}
	return videos, nil
}

// extractInitialData finds the script tag defining ytInitialData and returns
// the raw JSON object. goquery narrows the haystack to script bodies before
// the regex runs, which keeps the regex from matching inside page text.
func extractInitialData(body []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var raw []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if m := initialDataRE.FindStringSubmatch(s.Text()); m != nil {
			raw = []byte(m[1])
			return false
		}
		return true
	})
	if raw == nil {
		// Some serving paths inline the blob without a closing script match.
		if m := initialDataRE.FindSubmatch(body); m != nil {
			raw = m[1]
		}
	}
	if raw == nil {
		return nil, errors.New("ytInitialData not found (page layout changed?)")
	}
	return raw, nil
}

func summarize(v *videoRenderer) types.VideoSummary {
	title := v.Title.String()
	if title == "" {
		title = "Unknown"
	}
	channel := v.OwnerText.String()
	if channel == "" {
		channel = "Unknown"
	}

	var thumb string
	if n := len(v.Thumbnail.Thumbnails); n > 0 {
		thumb = v.Thumbnail.Thumbnails[n-1].URL // last entry is highest quality
	}

	var desc string
	if len(v.DetailedMetadataSnippets) > 0 {
		desc = v.DetailedMetadataSnippets[0].SnippetText.String()
		if len(desc) > 500 {
			desc = desc[:500]
		}
	}

	return types.VideoSummary{
		ID:           v.VideoID,
		Title:        title,
		URL:          "https://www.youtube.com/watch?v=" + v.VideoID,
		Duration:     ParseDuration(v.LengthText.SimpleText),
		Channel:      channel,
		ViewCount:    ParseViewCount(v.ViewCountText.SimpleText),
		Description:  desc,
		ThumbnailURL: thumb,
	}
}

// ParseDuration converts "5:30" or "1:23:45" to seconds. Unparseable input
// (live streams show "LIVE") maps to 0.
func ParseDuration(text string) int {
	parts := strings.Split(strings.TrimSpace(text), ":")
	total := 0
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return 0
		}
		total = total*60 + v
	}
	if len(parts) < 2 || len(parts) > 3 {
		return 0
	}
	return total
}

// ParseViewCount parses "1.2M views", "500K views" or "1,234 views".
func ParseViewCount(text string) int64 {
	s := strings.ToLower(strings.TrimSpace(text))
	s = strings.TrimSuffix(s, "views")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "b"):
		mult, s = 1_000_000_000, strings.TrimSuffix(s, "b")
	case strings.HasSuffix(s, "m"):
		mult, s = 1_000_000, strings.TrimSuffix(s, "m")
	case strings.HasSuffix(s, "k"):
		mult, s = 1_000, strings.TrimSuffix(s, "k")
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int64(v * float64(mult))
}

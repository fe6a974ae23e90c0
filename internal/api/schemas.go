package api

import (
	"time"

	"github.com/clipforge/clipforge/internal/types"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
}

type SearchRequest struct {
	Query          string `json:"query"`
	DurationFilter string `json:"duration_filter,omitempty"`
	MaxResults     int    `json:"max_results,omitempty"`
}

type VideoResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	DurationS    int    `json:"duration_s"`
	Channel      string `json:"channel"`
	ViewCount    int64  `json:"view_count"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

type SearchResponse struct {
	Videos []VideoResponse `json:"videos"`
}

type SelectRequest struct {
	VideoID string `json:"video_id"`
}

type SuggestionResponse struct {
	Start       float64 `json:"start"`
	End         float64 `json:"end"`
	Description string  `json:"description"`
	Caption     string  `json:"caption,omitempty"`
	Manual      bool    `json:"manual,omitempty"`
}

type SuggestionsResponse struct {
	Suggestions []SuggestionResponse `json:"suggestions"`
}

type DownloadRequest struct {
	Ranges []RangeRequest `json:"ranges"`
	TikTok bool           `json:"tiktok,omitempty"`
}

type RangeRequest struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type ClipResponse struct {
	ID              string  `json:"id"`
	SourceVideoID   string  `json:"source_video_id"`
	Start           float64 `json:"start"`
	End             float64 `json:"end"`
	FilePath        string  `json:"file_path"`
	TikTokFormatted bool    `json:"tiktok_formatted"`
	CreatedAt       string  `json:"created_at"`
}

type ClipsResponse struct {
	Clips []ClipResponse `json:"clips"`
}

type SessionStateResponse struct {
	SessionID   string               `json:"session_id"`
	CreatedAt   string               `json:"created_at"`
	Query       string               `json:"query,omitempty"`
	Videos      []VideoResponse      `json:"videos,omitempty"`
	Selected    *VideoResponse       `json:"selected,omitempty"`
	Suggestions []SuggestionResponse `json:"suggestions,omitempty"`
	Clips       []ClipResponse       `json:"clips,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func VideoToResponse(v types.VideoSummary) VideoResponse {
	return VideoResponse{
		ID:           v.ID,
		Title:        v.Title,
		URL:          v.URL,
		DurationS:    v.Duration,
		Channel:      v.Channel,
		ViewCount:    v.ViewCount,
		Description:  v.Description,
		ThumbnailURL: v.ThumbnailURL,
	}
}

func SuggestionToResponse(s types.ClipSuggestion) SuggestionResponse {
	return SuggestionResponse{
		Start:       s.Start,
		End:         s.End,
		Description: s.Description,
		Caption:     s.Caption,
		Manual:      s.Manual,
	}
}

func ClipToResponse(c types.DownloadedClip) ClipResponse {
	return ClipResponse{
		ID:              c.ID,
		SourceVideoID:   c.SourceVideoID,
		Start:           c.Start,
		End:             c.End,
		FilePath:        c.FilePath,
		TikTokFormatted: c.TikTokFormatted,
		CreatedAt:       c.CreatedAt.Format(time.RFC3339),
	}
}

package types

import "time"

// VideoSummary is a single search hit from the YouTube results page.
// It is read-only downstream of discovery and lives for one result set.
type VideoSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Duration     int    `json:"duration"`
	Channel      string `json:"channel"`
	ViewCount    int64  `json:"view_count"`
	Description  string `json:"description,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

// ClipSuggestion is a proposed time range within a source video.
// Start/End may be edited by the user before download; the invariant
// 0 <= Start < End <= source duration is re-checked at download time.
type ClipSuggestion struct {
	Start       float64 `json:"start_seconds"`
	End         float64 `json:"end_seconds"`
	Description string  `json:"description"`
	Caption     string  `json:"suggested_caption"`
	Manual      bool    `json:"manual,omitempty"`
}

func (s ClipSuggestion) Range() ClipRange {
	return ClipRange{Start: s.Start, End: s.End}
}

// ClipRange is the (start,end) pair actually handed to the download stage.
type ClipRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (r ClipRange) Seconds() float64 { return r.End - r.Start }

// DownloadedClip is the terminal artifact written under the output directory.
type DownloadedClip struct {
	ID              string    `json:"id"`
	SourceVideoID   string    `json:"source_video_id"`
	Start           float64   `json:"start"`
	End             float64   `json:"end"`
	FilePath        string    `json:"file_path"`
	TikTokFormatted bool      `json:"tiktok_formatted"`
	CreatedAt       time.Time `json:"created_at"`
}

// Transcript is the parsed auto-subtitle track of one video.
type Transcript struct {
	Lines []TranscriptLine `json:"lines"`
}

// TranscriptLine is one caption cue with its start offset.
type TranscriptLine struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func (t Transcript) Empty() bool { return len(t.Lines) == 0 }

// Manifest describes one completed pipeline run.
type Manifest struct {
	VideoID string         `json:"video_id"`
	Title   string         `json:"title"`
	Clips   []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	StartSec float64 `json:"start_sec"`
	EndSec   float64 `json:"end_sec"`
	File     string  `json:"file"`
	Caption  string  `json:"caption,omitempty"`
	TikTok   bool    `json:"tiktok"`
}

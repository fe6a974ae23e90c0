package ports

import (
	"context"

	"github.com/clipforge/clipforge/internal/types"
)

// SearchOptions narrows a discovery query. Zero value means first-page
// results with no duration constraint.
type SearchOptions struct {
	MaxResults     int
	DurationFilter DurationFilter
}

type DurationFilter string

const (
	DurationAny    DurationFilter = ""
	DurationShort  DurationFilter = "short"  // under 4 minutes
	DurationMedium DurationFilter = "medium" // 4-20 minutes
	DurationLong   DurationFilter = "long"   // over 20 minutes
)

type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) ([]types.VideoSummary, error)
}

// VideoFetcher covers everything delegated to the external downloader:
// metadata probing, auto-subtitle extraction and the two download modes.
type VideoFetcher interface {
	Metadata(ctx context.Context, videoID string) (types.VideoSummary, error)

	// Subtitles fetches auto-generated captions and returns the parsed
	// transcript. Returns ErrTranscriptUnavailable when the video has none.
	Subtitles(ctx context.Context, videoID, workDir string) (types.Transcript, error)

	// DownloadSection fetches only the requested time range.
	DownloadSection(ctx context.Context, videoID string, r types.ClipRange, outFile string) error

	// DownloadFull fetches the whole video once, for local trimming.
	DownloadFull(ctx context.Context, videoID, outFile string) error
}

// ClipSuggester asks a language model for clip-worthy ranges.
type ClipSuggester interface {
	SuggestClips(ctx context.Context, req SuggestRequest) ([]types.ClipSuggestion, error)
}

type SuggestRequest struct {
	VideoTitle    string
	VideoDuration int // seconds
	Transcript    string
	MinClipSec    int
	MaxClipSec    int
	MaxClips      int
}

// Transcoder is the local ffmpeg surface: trims and the vertical reformat.
type Transcoder interface {
	Trim(ctx context.Context, inFile string, r types.ClipRange, outFile string) error
	PadToVertical(ctx context.Context, inFile, outFile string) error
	ProbeDuration(ctx context.Context, file string) (float64, error)
}

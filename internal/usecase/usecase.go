// Package usecase wires the discovery, analysis and download stages over
// the port interfaces. All work is sequential; one stage's output is the
// next stage's input.
package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/domain/suggest"
	"github.com/clipforge/clipforge/internal/domain/transcript"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
)

// maxTranscriptChars bounds the prompt size handed to the model.
const maxTranscriptChars = 8000

// Recorder persists finished clips. Satisfied by the sqlite library; may be
// nil when history is disabled.
type Recorder interface {
	Record(ctx context.Context, clip types.DownloadedClip) error
}

type Deps struct {
	Search  ports.Searcher
	Fetcher ports.VideoFetcher
	LLM     ports.ClipSuggester
	Video   ports.Transcoder
	Library Recorder
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

func (u Usecase) Search(ctx context.Context, query string, opts ports.SearchOptions) ([]types.VideoSummary, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	return u.d.Search.Search(ctx, query, opts)
}

// Lookup resolves a single video id to its metadata via the downloader.
func (u Usecase) Lookup(ctx context.Context, videoID string) (types.VideoSummary, error) {
	return u.d.Fetcher.Metadata(ctx, videoID)
}

type AnalyzeInput struct {
	Video          types.VideoSummary
	MinClipSec     int
	MaxClipSec     int
	MaxSuggestions int
	WorkDir        string
}

// Analyze fetches the auto-generated transcript and asks the model for clip
// suggestions. ErrTranscriptUnavailable passes through untouched so callers
// can route to manual clip entry.
func (u Usecase) Analyze(ctx context.Context, in AnalyzeInput) ([]types.ClipSuggestion, error) {
	workDir := in.WorkDir
	if workDir == "" {
		workDir = os.TempDir()
	}
	tr, err := u.d.Fetcher.Subtitles(ctx, in.Video.ID, workDir)
	if err != nil {
		return nil, err
	}

	raw, err := u.d.LLM.SuggestClips(ctx, ports.SuggestRequest{
		VideoTitle:    in.Video.Title,
		VideoDuration: in.Video.Duration,
		Transcript:    transcript.PlainText(tr, maxTranscriptChars),
		MinClipSec:    in.MinClipSec,
		MaxClipSec:    in.MaxClipSec,
		MaxClips:      in.MaxSuggestions,
	})
	if err != nil {
		return nil, err
	}

	out := suggest.Sanitize(raw, in.Video.Duration, in.MaxSuggestions)
	if len(out) == 0 {
		return nil, &ports.AnalysisParseError{Err: fmt.Errorf("model returned %d suggestions, none usable", len(raw))}
	}
	return out, nil
}

type DownloadInput struct {
	Video    types.VideoSummary
	Ranges   []types.ClipRange
	OutDir   string
	CacheDir string
	TikTok   bool
}

// Download produces one artifact per range. Primary path is the downloader's
// section mode; the first section failure switches the whole run to a single
// full download trimmed locally, which amortizes the transfer across the
// remaining ranges.
func (u Usecase) Download(ctx context.Context, in DownloadInput) ([]types.DownloadedClip, error) {
	for _, r := range in.Ranges {
		if err := suggest.ValidateRange(r, in.Video.Duration); err != nil {
			return nil, fmt.Errorf("range %.1f-%.1f: %w", r.Start, r.End, err)
		}
	}
	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return nil, err
	}
	cacheDir := in.CacheDir
	if cacheDir == "" {
		cacheDir = in.OutDir
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, err
	}

	var (
		clips    []types.DownloadedClip
		fullFile string
	)
	for _, r := range in.Ranges {
		rawPath := uniquePath(in.OutDir, suggest.ClipFileName(in.Video.ID, r, false))

		if fullFile == "" {
			if err := u.d.Fetcher.DownloadSection(ctx, in.Video.ID, r, rawPath); err != nil {
				full, ferr := u.downloadFullOnce(ctx, in.Video.ID, cacheDir)
				if ferr != nil {
					return clips, ferr
				}
				fullFile = full
			}
		}
		if fullFile != "" {
			if err := u.d.Video.Trim(ctx, fullFile, r, rawPath); err != nil {
				return clips, err
			}
		}

		finalPath := rawPath
		if in.TikTok {
			finalPath = uniquePath(in.OutDir, suggest.ClipFileName(in.Video.ID, r, true))
			if err := u.d.Video.PadToVertical(ctx, rawPath, finalPath); err != nil {
				// The plain clip at rawPath stays available.
				return clips, err
			}
			_ = os.Remove(rawPath)
		}

		clip := types.DownloadedClip{
			ID:              uuid.NewString(),
			SourceVideoID:   in.Video.ID,
			Start:           r.Start,
			End:             r.End,
			FilePath:        finalPath,
			TikTokFormatted: in.TikTok,
			CreatedAt:       time.Now().UTC(),
		}
		if u.d.Library != nil {
			if err := u.d.Library.Record(ctx, clip); err != nil {
				return clips, fmt.Errorf("record clip: %w", err)
			}
		}
		clips = append(clips, clip)
	}
	return clips, nil
}

func (u Usecase) downloadFullOnce(ctx context.Context, videoID, cacheDir string) (string, error) {
	full := filepath.Join(cacheDir, suggest.SourceFileName(videoID))
	if _, err := os.Stat(full); err == nil {
		return full, nil
	}
	if err := u.d.Fetcher.DownloadFull(ctx, videoID, full); err != nil {
		return "", err
	}
	return full, nil
}

// uniquePath appends _2, _3, ... before the extension until the name is
// free, so identical repeat downloads never overwrite earlier artifacts.
func uniquePath(dir, name string) string {
	p := filepath.Join(dir, name)
	if _, err := os.Stat(p); err != nil {
		return p
	}
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 2; ; i++ {
		p = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, i, ext))
		if _, err := os.Stat(p); err != nil {
			return p
		}
	}
}

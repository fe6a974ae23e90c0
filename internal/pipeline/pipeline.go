// Package pipeline wires the adapters into the one-shot CLI flow: find a
// video, ask the model for clip ranges, download and cut them.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clipforge/clipforge/internal/library"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/ports/adapters/ffmpeg"
	"github.com/clipforge/clipforge/internal/ports/adapters/openrouter"
	"github.com/clipforge/clipforge/internal/ports/adapters/ytdlp"
	"github.com/clipforge/clipforge/internal/ports/adapters/ytsearch"
	"github.com/clipforge/clipforge/internal/types"
	"github.com/clipforge/clipforge/internal/usecase"
)

type Config struct {
	// Exactly one of Query or VideoID selects the source video. With a
	// Query the top search hit is used.
	Query   string
	VideoID string

	OutDir         string
	CacheDir       string
	MinClipSec     int
	MaxClipSec     int
	MaxSuggestions int
	TikTok         bool
	DurationFilter ports.DurationFilter

	// ManualRanges skips the analysis stage entirely when non-empty.
	ManualRanges []types.ClipRange

	// DBPath enables clip history when non-empty.
	DBPath string

	Logf func(format string, args ...any)

	YtdlpPath   string
	FFmpegPath  string
	FFprobePath string

	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string
}

func (c Config) Validate() error {
	if (c.Query == "") == (c.VideoID == "") {
		return errors.New("exactly one of query or video id is required")
	}
	if c.MinClipSec <= 0 || c.MaxClipSec <= 0 {
		return errors.New("clip bounds must be > 0")
	}
	if c.MinClipSec > c.MaxClipSec {
		return errors.New("min clip must be <= max clip")
	}
	if c.MaxSuggestions <= 0 && len(c.ManualRanges) == 0 {
		return errors.New("suggestions must be > 0")
	}
	if len(c.ManualRanges) == 0 && c.OpenRouterAPIKey == "" {
		return errors.New("OPENROUTER_API_KEY is required for analysis")
	}
	if len(c.ManualRanges) == 0 {
		return openrouter.ValidateBaseURL(c.OpenRouterBaseURL, c.OpenRouterAllowedHosts)
	}
	return nil
}

type Result struct {
	Video types.VideoSummary
	Clips []types.DownloadedClip
}

func Run(ctx context.Context, cfg Config) (Result, error) {
	// adapters
	search := ytsearch.New()
	fetcher := ytdlp.New(cfg.YtdlpPath)
	video := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	llm := openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL)

	deps := usecase.Deps{
		Search:  search,
		Fetcher: fetcher,
		LLM:     llm,
		Video:   video,
	}

	if cfg.DBPath != "" {
		lib, err := library.Open(cfg.DBPath)
		if err != nil {
			return Result{}, fmt.Errorf("open clip history: %w", err)
		}
		defer lib.Close()
		deps.Library = lib
	}

	uc := usecase.New(deps)
	return run(ctx, cfg, uc, cfg.Logf)
}

// run carries the flow after wiring so tests can drive it with fake ports.
func run(ctx context.Context, cfg Config, uc usecase.Usecase, logf func(string, ...any)) (Result, error) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = ".cache"
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Result{}, err
	}
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "./output"
	}

	video, err := pickVideo(ctx, cfg, uc, logf)
	if err != nil {
		return Result{}, err
	}
	logf("video: %s (%s, %ds)", video.Title, video.ID, video.Duration)

	ranges := cfg.ManualRanges
	var suggestions []types.ClipSuggestion
	if len(ranges) == 0 {
		logf("fetching transcript and asking %s for clips", cfg.OpenRouterModel)
		suggestions, err = uc.Analyze(ctx, usecase.AnalyzeInput{
			Video:          video,
			MinClipSec:     cfg.MinClipSec,
			MaxClipSec:     cfg.MaxClipSec,
			MaxSuggestions: cfg.MaxSuggestions,
			WorkDir:        cacheDir,
		})
		if errors.Is(err, ports.ErrTranscriptUnavailable) {
			return Result{}, fmt.Errorf("no english auto-generated transcript for %s; pass explicit ranges instead: %w", video.ID, err)
		}
		if err != nil {
			return Result{}, err
		}
		for _, s := range suggestions {
			logf("suggestion %.1f-%.1f: %s", s.Start, s.End, s.Description)
			ranges = append(ranges, s.Range())
		}
	}

	clips, err := uc.Download(ctx, usecase.DownloadInput{
		Video:    video,
		Ranges:   ranges,
		OutDir:   outDir,
		CacheDir: cacheDir,
		TikTok:   cfg.TikTok,
	})
	if err != nil {
		return Result{Video: video, Clips: clips}, err
	}
	for _, c := range clips {
		logf("clip: %s", c.FilePath)
	}

	if err := writeManifest(outDir, video, suggestions, clips); err != nil {
		return Result{Video: video, Clips: clips}, err
	}
	return Result{Video: video, Clips: clips}, nil
}

func pickVideo(ctx context.Context, cfg Config, uc usecase.Usecase, logf func(string, ...any)) (types.VideoSummary, error) {
	if cfg.VideoID != "" {
		return uc.Lookup(ctx, cfg.VideoID)
	}
	logf("searching for %q", cfg.Query)
	videos, err := uc.Search(ctx, cfg.Query, ports.SearchOptions{
		MaxResults:     10,
		DurationFilter: cfg.DurationFilter,
	})
	if err != nil {
		return types.VideoSummary{}, err
	}
	if len(videos) == 0 {
		return types.VideoSummary{}, fmt.Errorf("no results for %q", cfg.Query)
	}
	return videos[0], nil
}

func writeManifest(outDir string, video types.VideoSummary, suggestions []types.ClipSuggestion, clips []types.DownloadedClip) error {
	m := types.Manifest{
		VideoID: video.ID,
		Title:   video.Title,
		Clips:   make([]types.ManifestClip, 0, len(clips)),
	}
	for i, c := range clips {
		mc := types.ManifestClip{
			StartSec: c.Start,
			EndSec:   c.End,
			File:     filepath.Base(c.FilePath),
			TikTok:   c.TikTokFormatted,
		}
		if i < len(suggestions) {
			mc.Caption = suggestions[i].Caption
		}
		m.Clips = append(m.Clips, mc)
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	name := fmt.Sprintf("manifest-%s-%s.json", video.ID, time.Now().UTC().Format("20060102-150405Z"))
	return os.WriteFile(filepath.Join(outDir, name), b, 0o644)
}

// ensure adapters implement ports
var _ ports.Searcher = (*ytsearch.Adapter)(nil)
var _ ports.VideoFetcher = (*ytdlp.Adapter)(nil)
var _ ports.Transcoder = (*ffmpeg.Adapter)(nil)
var _ ports.ClipSuggester = (*openrouter.Adapter)(nil)

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
)

func newClipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clip [query]",
		Short: "One-shot: search, analyze and download clips",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			return runClip(cmd, query)
		},
	}

	cmd.Flags().String("video", "", "Video id to clip directly, instead of a search query")
	cmd.Flags().String("out", "", "Output directory")
	cmd.Flags().String("duration", "any", "Search duration filter: any, short, medium or long")
	cmd.Flags().StringSlice("range", nil, "Manual clip range as start-end seconds (repeatable), skips analysis")
	cmd.Flags().Bool("tiktok", false, "Letterbox clips to 1080x1920")
	cmd.Flags().Int("clips", 0, "Number of suggestions to request")

	return cmd
}

func runClip(cmd *cobra.Command, query string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	videoID, _ := cmd.Flags().GetString("video")
	outDir, _ := cmd.Flags().GetString("out")
	duration, _ := cmd.Flags().GetString("duration")
	rawRanges, _ := cmd.Flags().GetStringSlice("range")
	tiktok, _ := cmd.Flags().GetBool("tiktok")
	clipsN, _ := cmd.Flags().GetInt("clips")

	if outDir == "" {
		outDir = cfg.OutputDir
	}
	if clipsN == 0 {
		clipsN = cfg.MaxSuggestions
	}
	filter, err := parseDurationFilter(duration)
	if err != nil {
		return err
	}
	ranges, err := parseRanges(rawRanges)
	if err != nil {
		return err
	}

	pcfg := pipeline.Config{
		Query:          query,
		VideoID:        videoID,
		OutDir:         outDir,
		CacheDir:       cfg.CacheDir(),
		MinClipSec:     cfg.MinClipSec,
		MaxClipSec:     cfg.MaxClipSec,
		MaxSuggestions: clipsN,
		TikTok:         tiktok,
		DurationFilter: filter,
		ManualRanges:   ranges,
		DBPath:         cfg.DBPath(),

		Logf: func(format string, args ...any) {
			cmd.Printf(format+"\n", args...)
		},

		YtdlpPath:   cfg.YtdlpPath,
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,

		OpenRouterAPIKey:  cfg.OpenRouterAPIKey,
		OpenRouterModel:   cfg.OpenRouterModel,
		OpenRouterBaseURL: cfg.OpenRouterBaseURL,
	}

	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Hour)
	defer cancel()

	res, err := pipeline.Run(ctx, pcfg)
	if err != nil {
		return err
	}
	cmd.Printf("done: %d clips from %s\n", len(res.Clips), res.Video.ID)
	return nil
}

func parseDurationFilter(s string) (ports.DurationFilter, error) {
	switch strings.ToLower(s) {
	case "", "any":
		return ports.DurationAny, nil
	case "short":
		return ports.DurationShort, nil
	case "medium":
		return ports.DurationMedium, nil
	case "long":
		return ports.DurationLong, nil
	default:
		return ports.DurationAny, fmt.Errorf("unknown duration filter %q", s)
	}
}

// parseRanges reads "start-end" pairs in seconds, e.g. "45-72" or "45.5-72.25".
func parseRanges(raw []string) ([]types.ClipRange, error) {
	var out []types.ClipRange
	for _, s := range raw {
		start, end, ok := strings.Cut(s, "-")
		if !ok {
			return nil, fmt.Errorf("range %q: want start-end seconds", s)
		}
		a, err := strconv.ParseFloat(strings.TrimSpace(start), 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", s, err)
		}
		b, err := strconv.ParseFloat(strings.TrimSpace(end), 64)
		if err != nil {
			return nil, fmt.Errorf("range %q: %w", s, err)
		}
		if a < 0 || a >= b {
			return nil, fmt.Errorf("range %q: start must be >= 0 and before end", s)
		}
		out = append(out, types.ClipRange{Start: a, End: b})
	}
	return out, nil
}

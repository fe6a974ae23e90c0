// Package ffmpeg wraps the local ffmpeg/ffprobe binaries for trimming and
// the vertical (9:16) reformat.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
)

// verticalFilter scales the source into a 1080x1920 frame preserving aspect
// ratio and pads the rest (letterboxing). Fixed on purpose: no content loss,
// no per-clip knobs.
const verticalFilter = "scale=1080:1920:force_original_aspect_ratio=decrease,pad=1080:1920:(ow-iw)/2:(oh-ih)/2"

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// Trim re-encodes the requested range out of a local file. -ss sits before
// -i for fast seeking; -t carries the duration.
func (a *Adapter) Trim(ctx context.Context, inFile string, r types.ClipRange, outFile string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, trimArgs(inFile, r, outFile)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return &ports.DownloadError{Stage: "trim", Err: fmt.Errorf("ffmpeg trim: %w\n%s", err, string(b))}
	}
	return nil
}

func (a *Adapter) PadToVertical(ctx context.Context, inFile, outFile string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, padArgs(inFile, outFile)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return &ports.TranscodeError{File: inFile, Err: fmt.Errorf("ffmpeg pad: %w\n%s", err, string(b))}
	}
	return nil
}

func (a *Adapter) ProbeDuration(ctx context.Context, file string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		file,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func trimArgs(inFile string, r types.ClipRange, outFile string) []string {
	return []string{
		"-y",
		"-ss", fmtSeconds(r.Start),
		"-i", inFile,
		"-t", fmtSeconds(r.Seconds()),
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		"-crf", "23",
		"-movflags", "+faststart",
		"-loglevel", "error",
		outFile,
	}
}

func padArgs(inFile, outFile string) []string {
	return []string{
		"-y",
		"-i", inFile,
		"-vf", verticalFilter,
		"-c:v", "libx264",
		"-c:a", "aac",
		"-preset", "fast",
		"-crf", "23",
		"-loglevel", "error",
		outFile,
	}
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

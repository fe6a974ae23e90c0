// Package ytdlp shells out to the yt-dlp binary for video metadata,
// auto-generated subtitles and the two download modes (section and full).
package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/domain/transcript"
	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
)

// formatSelector caps quality at 720p; clips headed for vertical reformat
// gain nothing from larger sources.
const formatSelector = "bestvideo[height<=720]+bestaudio/best[height<=720]"

type Adapter struct {
	bin string
}

func New(binPath string) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath}
}

func (a *Adapter) Metadata(ctx context.Context, videoID string) (types.VideoSummary, error) {
	cmd := exec.CommandContext(ctx, a.bin,
		watchURL(videoID),
		"--dump-json",
		"--no-download",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return types.VideoSummary{}, fmt.Errorf("yt-dlp metadata: %w\n%s", err, stderr.String())
	}

	var meta struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Duration    float64 `json:"duration"`
		Channel     string  `json:"channel"`
		Uploader    string  `json:"uploader"`
		ViewCount   int64   `json:"view_count"`
		Description string  `json:"description"`
		Thumbnail   string  `json:"thumbnail"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &meta); err != nil {
		return types.VideoSummary{}, &ports.ParseError{Source: "yt-dlp metadata", Err: err}
	}

	channel := meta.Channel
	if channel == "" {
		channel = meta.Uploader
	}
	return types.VideoSummary{
		ID:           meta.ID,
		Title:        meta.Title,
		URL:          watchURL(meta.ID),
		Duration:     int(meta.Duration),
		Channel:      channel,
		ViewCount:    meta.ViewCount,
		Description:  meta.Description,
		ThumbnailURL: meta.Thumbnail,
	}, nil
}

// Subtitles asks yt-dlp for auto-generated English captions converted to SRT
// and parses whichever subtitle file shows up. yt-dlp exits zero when a video
// simply has no captions, so absence of output is the signal.
func (a *Adapter) Subtitles(ctx context.Context, videoID, workDir string) (types.Transcript, error) {
	outPrefix := filepath.Join(workDir, "subs")
	cmd := exec.CommandContext(ctx, a.bin,
		watchURL(videoID),
		"--write-auto-sub",
		"--sub-lang", "en",
		"--skip-download",
		"--convert-subs", "srt",
		"-o", outPrefix,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return types.Transcript{}, fmt.Errorf("yt-dlp subtitles: %w\n%s", err, truncateOutput(b))
	}

	path := findSubtitleFile(outPrefix)
	if path == "" {
		return types.Transcript{}, ports.ErrTranscriptUnavailable
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, err
	}
	tr := transcript.ParseSRT(string(content))
	if tr.Empty() {
		return types.Transcript{}, ports.ErrTranscriptUnavailable
	}
	return tr, nil
}

func (a *Adapter) DownloadSection(ctx context.Context, videoID string, r types.ClipRange, outFile string) error {
	cmd := exec.CommandContext(ctx, a.bin,
		watchURL(videoID),
		"-f", formatSelector,
		"--merge-output-format", "mp4",
		"--download-sections", sectionArg(r),
		"--force-keyframes-at-cuts",
		"-o", outFile,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return &ports.DownloadError{VideoID: videoID, Stage: "section", Err: fmt.Errorf("%w\n%s", err, truncateOutput(b))}
	}
	if _, err := os.Stat(outFile); err != nil {
		return &ports.DownloadError{VideoID: videoID, Stage: "section", Err: fmt.Errorf("no output file: %w", err)}
	}
	return nil
}

func (a *Adapter) DownloadFull(ctx context.Context, videoID, outFile string) error {
	cmd := exec.CommandContext(ctx, a.bin,
		watchURL(videoID),
		"-f", formatSelector,
		"--merge-output-format", "mp4",
		"-o", outFile,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		return &ports.DownloadError{VideoID: videoID, Stage: "full", Err: fmt.Errorf("%w\n%s", err, truncateOutput(b))}
	}
	if _, err := os.Stat(outFile); err != nil {
		return &ports.DownloadError{VideoID: videoID, Stage: "full", Err: fmt.Errorf("no output file: %w", err)}
	}
	return nil
}

// sectionArg renders yt-dlp's --download-sections value: "*start-end".
func sectionArg(r types.ClipRange) string {
	return "*" + fmtSec(r.Start) + "-" + fmtSec(r.End)
}

func fmtSec(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func watchURL(videoID string) string {
	if strings.HasPrefix(videoID, "http://") || strings.HasPrefix(videoID, "https://") {
		return videoID
	}
	return "https://www.youtube.com/watch?v=" + videoID
}

// findSubtitleFile probes the extensions yt-dlp may produce for the
// requested language, most specific first.
func findSubtitleFile(outPrefix string) string {
	for _, ext := range []string{".en.srt", ".en.vtt", ".srt", ".vtt"} {
		p := outPrefix + ext
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func truncateOutput(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 2000 {
		s = s[len(s)-2000:]
	}
	return s
}

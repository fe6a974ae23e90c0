package ffmpeg

import (
	"strings"
	"testing"

	"github.com/clipforge/clipforge/internal/types"
)

func TestTrimArgs(t *testing.T) {
	args := trimArgs("in.mp4", types.ClipRange{Start: 10, End: 25}, "out.mp4")

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "-ss 10.000 -i in.mp4 -t 15.000") {
		t.Fatalf("unexpected seek/duration args: %s", joined)
	}
	if !strings.Contains(joined, "-movflags +faststart") {
		t.Fatalf("expected faststart flag: %s", joined)
	}
	if args[len(args)-1] != "out.mp4" {
		t.Fatalf("output must be the final arg: %s", joined)
	}
}

func TestPadArgs_FixedVerticalFilter(t *testing.T) {
	args := padArgs("clip.mp4", "clip_tiktok.mp4")

	var filter string
	for i, a := range args {
		if a == "-vf" && i+1 < len(args) {
			filter = args[i+1]
		}
	}
	if !strings.Contains(filter, "scale=1080:1920:force_original_aspect_ratio=decrease") {
		t.Fatalf("expected aspect-preserving scale, got %q", filter)
	}
	if !strings.Contains(filter, "pad=1080:1920") {
		t.Fatalf("expected letterbox pad, got %q", filter)
	}
	if strings.Contains(filter, "crop") {
		t.Fatalf("content must not be cropped: %q", filter)
	}
}

func TestFmtSeconds(t *testing.T) {
	if got := fmtSeconds(12.5); got != "12.500" {
		t.Fatalf("fmtSeconds(12.5) = %q", got)
	}
	if got := fmtSeconds(0); got != "0.000" {
		t.Fatalf("fmtSeconds(0) = %q", got)
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New("", "")
	if a.ffmpeg != "ffmpeg" || a.ffprobe != "ffprobe" {
		t.Fatalf("expected PATH defaults, got %q / %q", a.ffmpeg, a.ffprobe)
	}
}

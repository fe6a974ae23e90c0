//go:build integration

package itest

import (
	"context"
	"math"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/clipforge/clipforge/internal/ports/adapters/ffmpeg"
	"github.com/clipforge/clipforge/internal/types"
)

// makeFixture builds a 60s 1280x720 mp4 with a tone track.
func makeFixture(t *testing.T, dir string) string {
	t.Helper()
	out := filepath.Join(dir, "source.mp4")
	cmd := exec.Command("ffmpeg",
		"-y",
		"-f", "lavfi",
		"-i", "testsrc=size=1280x720:rate=25:duration=60",
		"-f", "lavfi",
		"-i", "sine=frequency=440:duration=60",
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		out,
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg fixture failed: %v\n%s", err, string(b))
	}
	return out
}

func TestTrim(t *testing.T) {
	tmp := t.TempDir()
	src := makeFixture(t, tmp)
	adapter := ffmpeg.New("ffmpeg", "ffprobe")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	out := filepath.Join(tmp, "clip.mp4")
	if err := adapter.Trim(ctx, src, types.ClipRange{Start: 10, End: 25}, out); err != nil {
		t.Fatalf("trim: %v", err)
	}

	dur, err := probeDurationSeconds(out)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(dur-15) > 1 {
		t.Fatalf("trimmed duration %.2fs, want 15s +/- 1s", dur)
	}
}

func TestPadToVertical(t *testing.T) {
	tmp := t.TempDir()
	src := makeFixture(t, tmp)
	adapter := ffmpeg.New("ffmpeg", "ffprobe")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	clip := filepath.Join(tmp, "clip.mp4")
	if err := adapter.Trim(ctx, src, types.ClipRange{Start: 0, End: 10}, clip); err != nil {
		t.Fatalf("trim: %v", err)
	}

	vertical := filepath.Join(tmp, "clip_tiktok.mp4")
	if err := adapter.PadToVertical(ctx, clip, vertical); err != nil {
		t.Fatalf("pad: %v", err)
	}

	w, h, err := probeDimensions(vertical)
	if err != nil {
		t.Fatal(err)
	}
	if w != 1080 || h != 1920 {
		t.Fatalf("got %dx%d, want 1080x1920", w, h)
	}

	// Letterbox must not change the clip length.
	dur, err := probeDurationSeconds(vertical)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(dur-10) > 1 {
		t.Fatalf("vertical duration %.2fs, want 10s +/- 1s", dur)
	}
}

func TestProbeDuration(t *testing.T) {
	tmp := t.TempDir()
	src := makeFixture(t, tmp)
	adapter := ffmpeg.New("ffmpeg", "ffprobe")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	dur, err := adapter.ProbeDuration(ctx, src)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if math.Abs(dur-60) > 1 {
		t.Fatalf("probed %.2fs, want 60s +/- 1s", dur)
	}
}

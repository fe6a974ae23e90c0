// Package suggest holds the pure rules applied to model-proposed and
// user-edited clip ranges before anything is downloaded.
package suggest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/clipforge/clipforge/internal/types"
)

// Sanitize clamps raw suggestions into the valid window and drops the ones
// that cannot be salvaged. The result honours 0 <= start < end <= duration
// and is capped at maxClips when positive.
func Sanitize(raw []types.ClipSuggestion, videoDuration int, maxClips int) []types.ClipSuggestion {
	out := make([]types.ClipSuggestion, 0, len(raw))
	for _, s := range raw {
		if s.Start < 0 {
			s.Start = 0
		}
		if videoDuration > 0 && s.End > float64(videoDuration) {
			s.End = float64(videoDuration)
		}
		if s.End <= s.Start {
			continue
		}
		s.Description = strings.TrimSpace(s.Description)
		s.Caption = strings.TrimSpace(s.Caption)
		out = append(out, s)
		if maxClips > 0 && len(out) >= maxClips {
			break
		}
	}
	return out
}

// ValidateRange rejects a range the user is about to download.
func ValidateRange(r types.ClipRange, videoDuration int) error {
	if r.Start < 0 {
		return fmt.Errorf("start %.1fs is negative", r.Start)
	}
	if r.End <= r.Start {
		return fmt.Errorf("end %.1fs must be after start %.1fs", r.End, r.Start)
	}
	if videoDuration > 0 && r.End > float64(videoDuration) {
		return fmt.Errorf("end %.1fs exceeds video duration %ds", r.End, videoDuration)
	}
	return nil
}

// Manual builds a user-entered suggestion, clamped the same way as model
// output so the manual fallback path cannot bypass the invariant.
func Manual(video types.VideoSummary, start, end float64) (types.ClipSuggestion, error) {
	s := types.ClipSuggestion{
		Start:       start,
		End:         end,
		Description: "Manual selection",
		Manual:      true,
	}
	if err := ValidateRange(s.Range(), video.Duration); err != nil {
		return types.ClipSuggestion{}, err
	}
	return s, nil
}

// ClipFileName builds the base output name for one clip:
// <video_id>_<start>s-<end>s[_tiktok].mp4. Collision handling is the
// caller's job since it depends on the target directory.
func ClipFileName(videoID string, r types.ClipRange, tiktok bool) string {
	name := fmt.Sprintf("%s_%ss-%ss", sanitizeID(videoID), fmtSec(r.Start), fmtSec(r.End))
	if tiktok {
		name += "_tiktok"
	}
	return name + ".mp4"
}

// SourceFileName names the cached full-video download used by the local
// trim fallback.
func SourceFileName(videoID string) string {
	return sanitizeID(videoID) + "_full.mp4"
}

func fmtSec(v float64) string {
	if v == float64(int(v)) {
		return fmt.Sprintf("%d", int(v))
	}
	s := strings.TrimRight(fmt.Sprintf("%.2f", v), "0")
	return strings.TrimSuffix(s, ".")
}

func sanitizeID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "video"
	}
	return b.String()
}

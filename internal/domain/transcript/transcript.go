// Package transcript parses subtitle files produced by the external
// downloader (SRT, and WebVTT as a fallback) into timed lines and renders
// them as prompt-ready plain text.
package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/types"
)

var (
	timingRE = regexp.MustCompile(`(\d{1,2}:)?\d{2}:\d{2}[,.]\d{3}`)
	tagRE    = regexp.MustCompile(`<[^>]+>`)
)

// ParseSRT converts SRT or WebVTT content into a Transcript. Cue indexes,
// headers and styling tags are dropped; consecutive duplicate lines (common
// in auto-generated captions) are collapsed.
func ParseSRT(content string) types.Transcript {
	var tr types.Transcript

	var (
		curStart, curEnd float64
		haveCue          bool
		lastText         string
	)
	flushText := func(text string) {
		text = strings.TrimSpace(tagRE.ReplaceAllString(text, ""))
		if text == "" || !haveCue {
			return
		}
		if text == lastText {
			return
		}
		tr.Lines = append(tr.Lines, types.TranscriptLine{Start: curStart, End: curEnd, Text: text})
		lastText = text
	}

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(strings.TrimPrefix(raw, "\uFEFF"))
		switch {
		case line == "" || line == "WEBVTT" || strings.HasPrefix(line, "NOTE"):
			continue
		case strings.Contains(line, "-->"):
			parts := strings.SplitN(line, "-->", 2)
			start, okS := parseTimestamp(strings.TrimSpace(parts[0]))
			// VTT may append cue settings after the end timestamp.
			endField := strings.Fields(strings.TrimSpace(parts[1]))
			var end float64
			okE := false
			if len(endField) > 0 {
				end, okE = parseTimestamp(endField[0])
			}
			if okS && okE {
				curStart, curEnd = start, end
				haveCue = true
			}
		case isCueIndex(line):
			continue
		default:
			flushText(line)
		}
	}
	return tr
}

// PlainText renders the transcript as "[MM:SS] text" lines, truncated to
// maxChars when positive. This is the exact shape handed to the model.
func PlainText(tr types.Transcript, maxChars int) string {
	var b strings.Builder
	for _, l := range tr.Lines {
		fmt.Fprintf(&b, "[%s] %s\n", FormatTimestamp(int(l.Start)), l.Text)
	}
	s := strings.TrimRight(b.String(), "\n")
	if maxChars > 0 && len(s) > maxChars {
		s = s[:maxChars]
	}
	return s
}

// FormatTimestamp renders seconds as MM:SS, or HH:MM:SS past the hour.
func FormatTimestamp(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func parseTimestamp(s string) (float64, bool) {
	if !timingRE.MatchString(s) {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ":")
	var sec float64
	for _, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return 0, false
		}
		sec = sec*60 + v
	}
	return sec, true
}

func isCueIndex(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

package ports

import (
	"errors"
	"fmt"
)

// ErrTranscriptUnavailable means the video has no auto-generated captions.
// Callers route this to manual clip entry instead of failing the session.
var ErrTranscriptUnavailable = errors.New("transcript unavailable")

// RequestError is a failed outbound HTTP request (search or download page).
// Not retried automatically.
type RequestError struct {
	URL string
	Err error
}

func (e *RequestError) Error() string { return fmt.Sprintf("request %s: %v", e.URL, e.Err) }
func (e *RequestError) Unwrap() error { return e.Err }

// ParseError means an expected page or JSON structure was absent, which
// implies an upstream format change rather than a transient fault.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Source, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// AnalysisParseError means the model response was not the expected JSON
// array of suggestions. The caller may re-run the analysis manually.
type AnalysisParseError struct {
	Err error
}

func (e *AnalysisParseError) Error() string { return fmt.Sprintf("analysis response: %v", e.Err) }
func (e *AnalysisParseError) Unwrap() error { return e.Err }

// DownloadError is a failed fetch. Section-download failures trigger the
// full-download-plus-trim fallback; a DownloadError from that stage is fatal.
type DownloadError struct {
	VideoID string
	Stage   string // "section", "full" or "trim"
	Err     error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s (%s): %v", e.VideoID, e.Stage, e.Err)
}
func (e *DownloadError) Unwrap() error { return e.Err }

// TranscodeError is a failed vertical reformat. The source clip, if any,
// remains on disk.
type TranscodeError struct {
	File string
	Err  error
}

func (e *TranscodeError) Error() string { return fmt.Sprintf("transcode %s: %v", e.File, e.Err) }
func (e *TranscodeError) Unwrap() error { return e.Err }

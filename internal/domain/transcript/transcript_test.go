package transcript

import (
	"strings"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:03,500
<i>Hello</i> everyone

2
00:00:03,500 --> 00:00:06,000
welcome to the show

3
00:00:06,000 --> 00:00:08,000
welcome to the show

4
00:01:02,250 --> 00:01:04,000
here is the punchline
`

func TestParseSRT(t *testing.T) {
	tr := ParseSRT(sampleSRT)

	if len(tr.Lines) != 3 {
		t.Fatalf("expected 3 lines (duplicate collapsed), got %d", len(tr.Lines))
	}
	if tr.Lines[0].Text != "Hello everyone" {
		t.Fatalf("expected tags stripped, got %q", tr.Lines[0].Text)
	}
	if tr.Lines[0].Start != 1.0 || tr.Lines[0].End != 3.5 {
		t.Fatalf("unexpected cue timing: %v -> %v", tr.Lines[0].Start, tr.Lines[0].End)
	}
	if tr.Lines[2].Start != 62.25 {
		t.Fatalf("unexpected minute timing: %v", tr.Lines[2].Start)
	}
}

func TestParseSRT_WebVTT(t *testing.T) {
	vtt := "WEBVTT\n\n00:00:00.500 --> 00:00:02.000 align:start\nfirst cue\n\n00:00:02.000 --> 00:00:04.000\nsecond cue\n"
	tr := ParseSRT(vtt)
	if len(tr.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(tr.Lines))
	}
	if tr.Lines[0].Start != 0.5 || tr.Lines[0].Text != "first cue" {
		t.Fatalf("unexpected vtt line: %+v", tr.Lines[0])
	}
}

func TestParseSRT_ByteOrderMark(t *testing.T) {
	tr := ParseSRT("\uFEFFWEBVTT\n\n00:00:00.500 --> 00:00:02.000\nfirst cue\n")
	if len(tr.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(tr.Lines))
	}
	if tr.Lines[0].Text != "first cue" {
		t.Fatalf("unexpected line: %+v", tr.Lines[0])
	}
}

func TestParseSRT_Garbage(t *testing.T) {
	tr := ParseSRT("no cues here\njust text\n")
	if !tr.Empty() {
		t.Fatalf("expected empty transcript, got %d lines", len(tr.Lines))
	}
}

func TestPlainText(t *testing.T) {
	tr := ParseSRT(sampleSRT)
	got := PlainText(tr, 0)

	if !strings.HasPrefix(got, "[00:01] Hello everyone") {
		t.Fatalf("unexpected first line: %q", got)
	}
	if !strings.Contains(got, "[01:02] here is the punchline") {
		t.Fatalf("expected minute timestamp, got:\n%s", got)
	}
}

func TestPlainText_Truncates(t *testing.T) {
	tr := ParseSRT(sampleSRT)
	got := PlainText(tr, 10)
	if len(got) != 10 {
		t.Fatalf("expected truncation to 10 chars, got %d", len(got))
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := map[int]string{
		0:    "00:00",
		75:   "01:15",
		3600: "01:00:00",
		3725: "01:02:05",
		-5:   "00:00",
	}
	for in, want := range tests {
		if got := FormatTimestamp(in); got != want {
			t.Fatalf("FormatTimestamp(%d) = %q, want %q", in, got, want)
		}
	}
}

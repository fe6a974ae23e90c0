package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
	"github.com/clipforge/clipforge/internal/usecase"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		Query:             "standup comedy",
		MinClipSec:        15,
		MaxClipSec:        60,
		MaxSuggestions:    3,
		OpenRouterAPIKey:  "sk-or-test",
		OpenRouterBaseURL: "https://openrouter.ai",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no source", func(c *Config) { c.Query = "" }},
		{"both sources", func(c *Config) { c.VideoID = "abc123" }},
		{"zero min", func(c *Config) { c.MinClipSec = 0 }},
		{"inverted bounds", func(c *Config) { c.MinClipSec = 90 }},
		{"no api key", func(c *Config) { c.OpenRouterAPIKey = "" }},
		{"bad base url", func(c *Config) { c.OpenRouterBaseURL = "https://evil.example.com" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestConfigValidate_ManualRangesSkipLLMChecks(t *testing.T) {
	cfg := Config{
		VideoID:      "abc123",
		MinClipSec:   15,
		MaxClipSec:   60,
		ManualRanges: []types.ClipRange{{Start: 5, End: 30}},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("manual range config rejected: %v", err)
	}
}

type runFetcher struct{}

func (runFetcher) Metadata(_ context.Context, videoID string) (types.VideoSummary, error) {
	return types.VideoSummary{ID: videoID, Title: "Standup Night", Duration: 600}, nil
}

func (runFetcher) Subtitles(_ context.Context, _, _ string) (types.Transcript, error) {
	return types.Transcript{Lines: []types.TranscriptLine{{Start: 0, End: 2, Text: "hello"}}}, nil
}

func (runFetcher) DownloadSection(_ context.Context, _ string, _ types.ClipRange, outFile string) error {
	return os.WriteFile(outFile, []byte("clip"), 0o644)
}

func (runFetcher) DownloadFull(_ context.Context, _ string, outFile string) error {
	return os.WriteFile(outFile, []byte("full"), 0o644)
}

type runLLM struct{}

func (runLLM) SuggestClips(_ context.Context, _ ports.SuggestRequest) ([]types.ClipSuggestion, error) {
	return []types.ClipSuggestion{{Start: 45, End: 72, Description: "big laugh", Caption: "wait for it"}}, nil
}

type runTranscoder struct{}

func (runTranscoder) Trim(_ context.Context, _ string, _ types.ClipRange, outFile string) error {
	return os.WriteFile(outFile, []byte("trim"), 0o644)
}

func (runTranscoder) PadToVertical(_ context.Context, _ string, outFile string) error {
	return os.WriteFile(outFile, []byte("pad"), 0o644)
}

func (runTranscoder) ProbeDuration(_ context.Context, _ string) (float64, error) { return 600, nil }

func TestRunWritesManifest(t *testing.T) {
	outDir := t.TempDir()
	cfg := Config{
		VideoID:        "abc123",
		OutDir:         outDir,
		CacheDir:       t.TempDir(),
		MinClipSec:     15,
		MaxClipSec:     60,
		MaxSuggestions: 3,
	}
	uc := usecase.New(usecase.Deps{
		Fetcher: runFetcher{},
		LLM:     runLLM{},
		Video:   runTranscoder{},
	})

	res, err := run(context.Background(), cfg, uc, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Video.ID != "abc123" || len(res.Clips) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	var manifestPath string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "manifest-abc123-") && strings.HasSuffix(e.Name(), ".json") {
			manifestPath = filepath.Join(outDir, e.Name())
		}
	}
	if manifestPath == "" {
		t.Fatalf("no manifest written, entries: %v", entries)
	}

	b, err := os.ReadFile(manifestPath)
	if err != nil {
		t.Fatal(err)
	}
	var m types.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("manifest not valid json: %v", err)
	}
	if m.VideoID != "abc123" || len(m.Clips) != 1 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Clips[0].Caption != "wait for it" {
		t.Fatalf("caption lost: %+v", m.Clips[0])
	}
}

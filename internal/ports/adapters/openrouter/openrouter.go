// Package openrouter asks a hosted language model for clip-worthy time
// ranges given a video transcript.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/types"
)

const (
	defaultModel   = "anthropic/claude-3.5-sonnet"
	requestTimeout = 90 * time.Second

	// Low temperature keeps the range selection close to deterministic.
	temperature = 0.2
	maxTokens   = 1500
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: normalizeBaseURL(baseURL),
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

func (a *Adapter) SuggestClips(ctx context.Context, req ports.SuggestRequest) ([]types.ClipSuggestion, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return nil, &ports.AnalysisParseError{Err: errors.New("empty transcript")}
	}

	payload := map[string]any{
		"model":       a.model,
		"stream":      false,
		"temperature": temperature,
		"max_tokens":  maxTokens,
		"messages": []map[string]any{
			{"role": "user", "content": buildPrompt(req)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	url := a.baseURL + "/api/v1/chat/completions"

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.key)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("openrouter timeout after %s (model=%s)", requestTimeout, a.model)
		}
		return nil, &ports.RequestError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("openrouter status %d and read body failed: %v", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("openrouter status %d: %s", resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, &ports.AnalysisParseError{Err: err}
	}
	if len(raw.Choices) == 0 {
		return nil, &ports.AnalysisParseError{Err: errors.New("no choices in response")}
	}

	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return nil, &ports.AnalysisParseError{Err: err}
	}

	clean, err := extractJSONArray(content)
	if err != nil {
		return nil, &ports.AnalysisParseError{Err: err}
	}

	var out []types.ClipSuggestion
	if err := json.Unmarshal([]byte(clean), &out); err != nil {
		return nil, &ports.AnalysisParseError{Err: err}
	}
	return out, nil
}

func buildPrompt(req ports.SuggestRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Analyze this video transcript and identify the %d best moments that would make engaging short clips for TikTok/social media.\n\n",
		req.MaxClips,
	)
	fmt.Fprintf(&b, "VIDEO TITLE: %s\n", req.VideoTitle)
	fmt.Fprintf(&b, "TOTAL DURATION: %d seconds\n", req.VideoDuration)
	fmt.Fprintf(&b, "TARGET CLIP LENGTH: %d-%d seconds\n\n", req.MinClipSec, req.MaxClipSec)
	fmt.Fprintf(&b, "TRANSCRIPT:\n%s\n\n", req.Transcript)
	b.WriteString(`For each suggested clip, provide:
1. Start timestamp (in seconds)
2. End timestamp (in seconds)
3. A brief description of why this moment is clip-worthy
4. Suggested caption/hook for TikTok

Return your response as a JSON array with this structure:
[
  {
    "start_seconds": 45,
    "end_seconds": 72,
    "description": "Speaker delivers perfect punchline about...",
    "suggested_caption": "When your mom says..."
  }
]

Focus on:
- Complete thoughts (don't cut mid-sentence or mid-punchline)
- Moments with strong reactions or payoffs
- Self-contained segments that make sense without full context
- Engaging openings that hook viewers

Return ONLY the JSON array, no other text.`)
	return b.String()
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("unexpected content type %T", v)
	}
}

// extractJSONArray strips markdown fences and prose around the first JSON
// array in the model output.
func extractJSONArray(s string) (string, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return "", errors.New("empty content")
	}

	if strings.HasPrefix(t, "```") {
		if i := strings.Index(t, "\n"); i >= 0 {
			t = t[i+1:]
		}
		if j := strings.LastIndex(t, "```"); j >= 0 {
			t = t[:j]
		}
		t = strings.TrimSpace(t)
	}

	start := strings.Index(t, "[")
	end := strings.LastIndex(t, "]")
	if start >= 0 && end > start {
		return t[start : end+1], nil
	}
	return "", fmt.Errorf("could not locate JSON array in: %q", truncate(t, 200))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}

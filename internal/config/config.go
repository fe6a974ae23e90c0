// Package config loads application settings from environment variables
// with sensible defaults. A .env file, when present, is loaded by the CLI
// layer before this package reads the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultPort           = 8690
	DefaultLogLevel       = "info"
	DefaultDataDir        = ".clipforge"
	DefaultOutputDir      = "./output"
	DefaultMinClipSec     = 15
	DefaultMaxClipSec     = 60
	DefaultMaxSuggestions = 3
	DefaultModel          = "anthropic/claude-3.5-sonnet"
	DefaultBaseURL        = "https://openrouter.ai"

	EnvPort           = "CLIPFORGE_PORT"
	EnvLogLevel       = "CLIPFORGE_LOG_LEVEL"
	EnvDataDir        = "CLIPFORGE_DATA_DIR"
	EnvOutputDir      = "CLIPFORGE_OUTPUT_DIR"
	EnvMinClipSec     = "CLIPFORGE_MIN_CLIP_SEC"
	EnvMaxClipSec     = "CLIPFORGE_MAX_CLIP_SEC"
	EnvMaxSuggestions = "CLIPFORGE_MAX_SUGGESTIONS"
	EnvYtdlpPath      = "CLIPFORGE_YTDLP_PATH"
	EnvFFmpegPath     = "CLIPFORGE_FFMPEG_PATH"
	EnvFFprobePath    = "CLIPFORGE_FFPROBE_PATH"

	EnvAPIKey  = "OPENROUTER_API_KEY"
	EnvModel   = "OPENROUTER_MODEL"
	EnvBaseURL = "OPENROUTER_BASE_URL"

	// Database filename under the data directory.
	DBFilename = "clipforge.db"
)

type Config struct {
	Port           int
	LogLevel       string
	DataDir        string
	OutputDir      string
	MinClipSec     int
	MaxClipSec     int
	MaxSuggestions int

	YtdlpPath   string
	FFmpegPath  string
	FFprobePath string

	OpenRouterAPIKey  string
	OpenRouterModel   string
	OpenRouterBaseURL string
}

// Load builds a Config from environment variables over defaults. It does
// not require the API key to be set; commands that need it check for it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           DefaultPort,
		LogLevel:       DefaultLogLevel,
		DataDir:        defaultDataDir(),
		OutputDir:      DefaultOutputDir,
		MinClipSec:     DefaultMinClipSec,
		MaxClipSec:     DefaultMaxClipSec,
		MaxSuggestions: DefaultMaxSuggestions,

		YtdlpPath:   "yt-dlp",
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",

		OpenRouterAPIKey:  os.Getenv(EnvAPIKey),
		OpenRouterModel:   getenvDefault(EnvModel, DefaultModel),
		OpenRouterBaseURL: getenvDefault(EnvBaseURL, DefaultBaseURL),
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.Port = port
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}

	var err error
	if cfg.MinClipSec, err = getenvInt(EnvMinClipSec, cfg.MinClipSec); err != nil {
		return nil, err
	}
	if cfg.MaxClipSec, err = getenvInt(EnvMaxClipSec, cfg.MaxClipSec); err != nil {
		return nil, err
	}
	if cfg.MaxSuggestions, err = getenvInt(EnvMaxSuggestions, cfg.MaxSuggestions); err != nil {
		return nil, err
	}
	if cfg.MinClipSec <= 0 || cfg.MaxClipSec <= 0 || cfg.MinClipSec > cfg.MaxClipSec {
		return nil, fmt.Errorf("clip bounds must satisfy 0 < min <= max, got %d..%d", cfg.MinClipSec, cfg.MaxClipSec)
	}
	if cfg.MaxSuggestions <= 0 {
		return nil, fmt.Errorf("%s must be > 0", EnvMaxSuggestions)
	}

	if v := os.Getenv(EnvYtdlpPath); v != "" {
		cfg.YtdlpPath = v
	}
	if v := os.Getenv(EnvFFmpegPath); v != "" {
		cfg.FFmpegPath = v
	}
	if v := os.Getenv(EnvFFprobePath); v != "" {
		cfg.FFprobePath = v
	}

	return cfg, nil
}

// DBPath is the full path to the sqlite clip history file.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, DBFilename)
}

// CacheDir holds full-video downloads and fetched subtitle files.
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

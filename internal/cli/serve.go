package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipforge/clipforge/internal/api"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/library"
	"github.com/clipforge/clipforge/internal/logging"
	"github.com/clipforge/clipforge/internal/ports/adapters/ffmpeg"
	"github.com/clipforge/clipforge/internal/ports/adapters/openrouter"
	"github.com/clipforge/clipforge/internal/ports/adapters/ytdlp"
	"github.com/clipforge/clipforge/internal/ports/adapters/ytsearch"
	"github.com/clipforge/clipforge/internal/session"
	"github.com/clipforge/clipforge/internal/usecase"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local wizard HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().Int("port", 0, "Listen port (loopback only)")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cfg.OpenRouterAPIKey == "" {
		return fmt.Errorf("OPENROUTER_API_KEY is required (set it in .env)")
	}
	if err := openrouter.ValidateBaseURL(cfg.OpenRouterBaseURL, nil); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Port = port
	}

	logger := logging.NewLogger(cfg.LogLevel)

	lib, err := library.Open(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("open clip history: %w", err)
	}
	defer lib.Close()

	uc := usecase.New(usecase.Deps{
		Search:  ytsearch.New(),
		Fetcher: ytdlp.New(cfg.YtdlpPath),
		LLM:     openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL),
		Video:   ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Library: lib,
	})

	server := api.NewServer(api.ServerConfig{
		Port:     cfg.Port,
		Pipeline: uc,
		Sessions: session.NewStore(session.DefaultTTL),
		Clips:    lib,
		Logger:   logger,

		OutDir:         cfg.OutputDir,
		CacheDir:       cfg.CacheDir(),
		MinClipSec:     cfg.MinClipSec,
		MaxClipSec:     cfg.MaxClipSec,
		MaxSuggestions: cfg.MaxSuggestions,

		StartTime: time.Now(),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("received signal", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

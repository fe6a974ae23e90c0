// Package api exposes the clip wizard over a loopback-only HTTP server.
// Each step of the wizard maps to one route; state between steps lives in
// the session store.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/clipforge/clipforge/internal/ports"
	"github.com/clipforge/clipforge/internal/session"
	"github.com/clipforge/clipforge/internal/types"
	"github.com/clipforge/clipforge/internal/usecase"
)

// Pipeline is the slice of the usecase the handlers need. Satisfied by
// usecase.Usecase.
type Pipeline interface {
	Search(ctx context.Context, query string, opts ports.SearchOptions) ([]types.VideoSummary, error)
	Lookup(ctx context.Context, videoID string) (types.VideoSummary, error)
	Analyze(ctx context.Context, in usecase.AnalyzeInput) ([]types.ClipSuggestion, error)
	Download(ctx context.Context, in usecase.DownloadInput) ([]types.DownloadedClip, error)
}

// ClipLister reads the stored clip history. Satisfied by library.Library;
// may be nil when history is disabled.
type ClipLister interface {
	List(ctx context.Context) ([]types.DownloadedClip, error)
	ListBySource(ctx context.Context, videoID string) ([]types.DownloadedClip, error)
}

type ServerConfig struct {
	Port     int
	Pipeline Pipeline
	Sessions *session.Store
	Clips    ClipLister
	Logger   *slog.Logger

	OutDir         string
	CacheDir       string
	MinClipSec     int
	MaxClipSec     int
	MaxSuggestions int

	StartTime time.Time
}

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

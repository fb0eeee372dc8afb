package cli

import (
	"github.com/ytget/yt-studio/internal/app"
	"github.com/ytget/yt-studio/internal/catalog"
	"github.com/ytget/yt-studio/internal/download"
	"github.com/ytget/yt-studio/internal/history"
	"github.com/ytget/yt-studio/internal/platform"
	"github.com/ytget/yt-studio/internal/supervisor"
	"github.com/ytget/yt-studio/internal/transcode"
	"github.com/ytget/yt-studio/internal/transcribe"
)

// services holds the gateways built from the tool configuration
type services struct {
	history     *history.Store
	fetcher     *download.YTDLP
	transcoder  *transcode.Service
	transcriber *transcribe.Service
}

func newServices(e *env) *services {
	t := e.tools
	s := &services{
		fetcher:    download.NewYTDLP(t.YTDLPPath, e.logger),
		transcoder: transcode.NewService(t.FFmpegPath, t.FFprobePath, e.logger),
	}
	engine := &transcribe.WhisperCLI{
		Binary:   t.WhisperPath,
		Model:    t.WhisperModel,
		VADModel: t.WhisperVADModel,
		Threads:  t.WhisperThreads,
	}
	s.transcriber = transcribe.NewService(s.transcoder, engine, e.logger)

	if err := platform.CreateDirectoryIfNotExists(t.ConfigDir); err != nil {
		e.logger.WithError(err).Warn("config directory unavailable, history disabled")
		return s
	}
	store, err := history.Open(t.HistoryDB)
	if err != nil {
		e.logger.WithError(err).Warn("history disabled")
		return s
	}
	s.history = store
	return s
}

// studioConfig returns the studio wiring without UI callbacks
func (s *services) studioConfig(e *env, dispatch supervisor.Dispatcher) app.Config {
	cfg := app.Config{
		Dispatch:      dispatch,
		Fetcher:       s.fetcher,
		Transcoder:    s.transcoder,
		Transcriber:   s.transcriber,
		Logger:        e.logger,
		PruneSchedule: e.tools.PruneSchedule,
	}
	if s.history != nil {
		cfg.History = s.history
	}
	return cfg
}

// urlResolver returns the store, or a nil interface when history is disabled
func (s *services) urlResolver() catalog.URLResolver {
	if s.history == nil {
		return nil
	}
	return s.history
}

func (s *services) close(e *env) {
	if s.history == nil {
		return
	}
	if err := s.history.Close(); err != nil {
		e.logger.WithError(err).Warn("failed to close history")
	}
}

// downloadDir returns the flag/env override or fallback
func downloadDir(e *env, fallback func() string) string {
	if e.tools.DownloadDir != "" {
		return e.tools.DownloadDir
	}
	return fallback()
}

func homeDownloads() string {
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		return "."
	}
	return dir
}

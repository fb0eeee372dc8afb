package app

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-studio/internal/catalog"
	"github.com/ytget/yt-studio/internal/download"
	"github.com/ytget/yt-studio/internal/model"
	"github.com/ytget/yt-studio/internal/platform"
	"github.com/ytget/yt-studio/internal/supervisor"
	"github.com/ytget/yt-studio/internal/transcode"
	"github.com/ytget/yt-studio/internal/transcribe"
	"github.com/ytget/yt-studio/internal/worker"
)

// History records download sources
type History interface {
	Record(url, path string, quality model.Quality) error
	Forget(paths ...string) error
	URLFor(path string) string
}

// Checker is implemented by collaborators that can report a missing tool
type Checker interface {
	CheckAvailable() error
}

// Config collects the studio collaborators. Zero-valued optional fields get
// no-op defaults.
type Config struct {
	Dispatch    supervisor.Dispatcher
	Fetcher     download.Fetcher
	Transcoder  transcode.Transcoder
	Transcriber *transcribe.Service
	History     History
	Logger      *logrus.Logger

	// DownloadDir returns the current destination directory
	DownloadDir func() string
	// Language returns the transcription language hint
	Language func() string
	// AutoReveal reports whether finished downloads are shown in the file manager
	AutoReveal func() bool

	// Notify shows a transient status message
	Notify func(msg string)
	Open   func(path string) error
	Reveal func(path string) error
	// OpenDir shows a directory in the file manager
	OpenDir func(dir string) error

	PruneSchedule string
}

// Studio is the application core behind the interface
type Studio struct {
	cfg     Config
	catalog *catalog.Controller
	sup     *supervisor.Supervisor
	thumbs  *platform.ThumbnailResolver
	logger  *logrus.Logger
	cron    *cron.Cron
}

// New creates a studio and registers the task builders
func New(cfg Config) *Studio {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	if cfg.Notify == nil {
		cfg.Notify = func(string) {}
	}
	if cfg.Language == nil {
		cfg.Language = func() string { return "" }
	}
	if cfg.AutoReveal == nil {
		cfg.AutoReveal = func() bool { return false }
	}
	if cfg.Open == nil {
		cfg.Open = platform.OpenFileWithDefaultApp
	}
	if cfg.Reveal == nil {
		cfg.Reveal = platform.OpenFileInManager
	}
	if cfg.OpenDir == nil {
		cfg.OpenDir = platform.OpenDirectory
	}
	if cfg.PruneSchedule == "" {
		cfg.PruneSchedule = "@every 1m"
	}

	s := &Studio{cfg: cfg, logger: cfg.Logger}

	var urls catalog.URLResolver
	if cfg.History != nil {
		urls = cfg.History
	}
	s.catalog = catalog.NewController(urls)

	var extractor platform.FrameExtractor
	if cfg.Transcoder != nil {
		extractor = cfg.Transcoder
	}
	s.thumbs = platform.NewThumbnailResolver(extractor, cfg.Logger)

	s.sup = supervisor.New(cfg.Dispatch, s, cfg.Logger)
	s.sup.Register(model.TaskDownload, s.buildDownload)
	s.sup.Register(model.TaskTranscode, s.buildTranscode)
	s.sup.Register(model.TaskTranscribe, s.buildTranscribe)
	return s
}

// Catalog returns the row model
func (s *Studio) Catalog() *catalog.Controller {
	return s.catalog
}

// Supervisor returns the task supervisor
func (s *Studio) Supervisor() *supervisor.Supervisor {
	return s.sup
}

// SetDownloadsEnabledCallback sets the function enabling or disabling the
// download controls. It runs on the interactive goroutine.
func (s *Studio) SetDownloadsEnabledCallback(fn func(enabled bool)) {
	s.sup.SetSlotCallback(func(active bool) { fn(!active) })
}

// Start rescans the download directory and schedules the stale-row prune job
func (s *Studio) Start() error {
	if err := s.Rescan(); err != nil {
		s.logger.WithError(err).Warn("initial rescan failed")
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.cfg.PruneSchedule, func() {
		s.cfg.Dispatch(func() { s.Prune() })
	})
	if err != nil {
		return fmt.Errorf("failed to add prune job: %w", err)
	}
	s.cron.Start()
	return nil
}

// Close stops background jobs and cancels running tasks
func (s *Studio) Close() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.sup.Shutdown()
}

// Download starts fetching rawURL into the download directory
func (s *Studio) Download(rawURL string, quality model.Quality) (model.CatalogRow, error) {
	rawURL = strings.TrimSpace(rawURL)
	if err := ValidateURL(rawURL); err != nil {
		s.cfg.Notify(err.Error())
		return model.CatalogRow{}, err
	}
	if s.sup.DownloadActive() {
		s.cfg.Notify(model.ErrDownloadActive.Error())
		return model.CatalogRow{}, model.ErrDownloadActive
	}

	row := s.catalog.AddDownloading(rawURL, quality)
	task, err := s.sup.StartDownload(row.ID, rawURL, quality, s.downloadDir())
	if err != nil {
		s.catalog.RemoveRow(row.ID)
		s.cfg.Notify(err.Error())
		return model.CatalogRow{}, err
	}
	s.catalog.AttachTask(row.ID, task.ID)
	s.cfg.Notify("Downloading " + rawURL)

	row, _ = s.catalog.Row(row.ID)
	return row, nil
}

// Pause suspends the download of a row; Resume restarts it from scratch
func (s *Studio) Pause(rowID string) error {
	row, ok := s.catalog.Row(rowID)
	if !ok {
		return model.ErrRowNotFound
	}
	if row.TaskID == "" {
		return supervisor.ErrUnknownTask
	}
	return s.sup.Pause(row.TaskID)
}

// Resume re-runs the paused or failed download of a row
func (s *Studio) Resume(rowID string) error {
	task, err := s.sup.Resume(rowID)
	if err != nil {
		s.cfg.Notify(err.Error())
		return err
	}
	return s.catalog.MarkDownloading(rowID, task.ID)
}

// Stop cancels the download of a row and removes the row. Paused and failed
// rows are dismissed directly.
func (s *Studio) Stop(rowID string) error {
	row, ok := s.catalog.Row(rowID)
	if !ok {
		return model.ErrRowNotFound
	}
	if row.TaskID != "" {
		return s.sup.Stop(row.TaskID)
	}
	s.sup.Forget(rowID)
	s.catalog.RemoveRow(rowID)
	return nil
}

// ExtractMP3 starts MP3 extraction for a completed row
func (s *Studio) ExtractMP3(rowID string) error {
	return s.startDerived(model.TaskTranscode, rowID)
}

// Transcribe starts speech-to-text for a completed row
func (s *Studio) Transcribe(rowID string) error {
	return s.startDerived(model.TaskTranscribe, rowID)
}

// CancelDerived stops every derived task running for the row's file
func (s *Studio) CancelDerived(rowID string) int {
	row, ok := s.catalog.Row(rowID)
	if !ok || row.Path == "" {
		return 0
	}
	n := 0
	for _, task := range s.sup.Tasks() {
		if task.Kind != model.TaskDownload && task.Target == row.Path {
			if err := s.sup.Stop(task.ID); err == nil {
				n++
			}
		}
	}
	return n
}

// DeleteGroup deletes a completed row's file with all its sidecars. Transient
// rows are stopped instead.
func (s *Studio) DeleteGroup(rowID string) error {
	row, ok := s.catalog.Row(rowID)
	if !ok {
		return model.ErrRowNotFound
	}
	if row.State.IsTransient() {
		return s.Stop(rowID)
	}

	// Jobs still writing sidecars would recreate them after the delete
	if n := s.CancelDerived(rowID); n > 0 {
		s.logger.WithFields(logrus.Fields{"file": row.Path, "tasks": n}).Debug("canceled derived tasks before delete")
	}

	removed, err := s.catalog.RemoveGroup(row.Path)
	s.afterDelete(row.Path, removed)
	if err != nil {
		s.cfg.Notify(err.Error())
		return err
	}
	s.cfg.Notify(fmt.Sprintf("Deleted %d file(s)", len(removed)))
	return nil
}

// DeleteAsset deletes only the row's own file
func (s *Studio) DeleteAsset(rowID string) error {
	row, ok := s.catalog.Row(rowID)
	if !ok {
		return model.ErrRowNotFound
	}
	if row.Path == "" {
		return s.Stop(rowID)
	}

	err := s.catalog.RemoveSingle(row.Path)
	if err != nil {
		s.cfg.Notify(err.Error())
		return err
	}
	s.afterDelete(row.Path, []string{row.Path})
	s.cfg.Notify("Deleted " + filepath.Base(row.Path))
	return nil
}

// Open opens a row's file with the default application
func (s *Studio) Open(rowID string) error {
	return s.withFile(rowID, s.cfg.Open)
}

// Reveal shows a row's file in the file manager
func (s *Studio) Reveal(rowID string) error {
	return s.withFile(rowID, s.cfg.Reveal)
}

// OpenDownloads shows the download directory in the file manager, creating
// it first when needed
func (s *Studio) OpenDownloads() error {
	dir := s.downloadDir()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		s.cfg.Notify(err.Error())
		return err
	}
	if err := s.cfg.OpenDir(dir); err != nil {
		s.cfg.Notify(err.Error())
		return err
	}
	return nil
}

// Thumbnail returns a preview image for a row, or "". It may run ffmpeg and
// should be called off the interactive goroutine.
func (s *Studio) Thumbnail(ctx context.Context, rowID string) string {
	row, ok := s.catalog.Row(rowID)
	if !ok || row.Path == "" {
		return ""
	}
	return s.thumbs.Resolve(ctx, row.Path)
}

// Rescan rebuilds completed rows from the download directory
func (s *Studio) Rescan() error {
	dir := s.downloadDir()
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return err
	}
	return s.catalog.Rescan(dir)
}

// Prune drops rows whose files were removed outside the app
func (s *Studio) Prune() int {
	n := s.catalog.Prune()
	if n > 0 {
		s.logger.WithField("rows", n).Debug("pruned stale rows")
	}
	return n
}

// ValidateURL accepts absolute http and https URLs only
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return model.ErrInvalidURL
	}
	return nil
}

func (s *Studio) startDerived(kind model.TaskKind, rowID string) error {
	row, err := s.catalog.Resolve(rowID)
	if err != nil {
		s.reportStale(rowID, err)
		s.cfg.Notify(err.Error())
		return err
	}
	if row.State != model.RowCompleted {
		return fmt.Errorf("%s is not finished yet", row.DisplayName())
	}
	if kind == model.TaskTranscode && row.Kind != model.KindVideo {
		err := fmt.Errorf("MP3 extraction needs a video file")
		s.cfg.Notify(err.Error())
		return err
	}
	if kind == model.TaskTranscribe && row.Kind == model.KindText {
		err := fmt.Errorf("cannot transcribe a text file")
		s.cfg.Notify(err.Error())
		return err
	}

	if _, err := s.sup.StartDerived(kind, row.ID, row.Path, s.cfg.Language()); err != nil {
		s.reportStale(rowID, err)
		s.cfg.Notify(err.Error())
		return err
	}
	s.catalog.SetBusy(row.Path, true)
	return nil
}

func (s *Studio) withFile(rowID string, fn func(string) error) error {
	row, err := s.catalog.Resolve(rowID)
	if err != nil {
		s.reportStale(rowID, err)
		s.cfg.Notify(err.Error())
		return err
	}
	if row.Path == "" {
		return fmt.Errorf("%s has no file yet", row.DisplayName())
	}
	if err := fn(row.Path); err != nil {
		s.cfg.Notify(err.Error())
		return err
	}
	return nil
}

// reportStale drops the row when err says its file is gone
func (s *Studio) reportStale(rowID string, err error) {
	if errors.Is(err, model.ErrStaleRow) {
		s.catalog.RemoveRow(rowID)
	}
}

func (s *Studio) afterDelete(path string, removed []string) {
	s.thumbs.Invalidate(path)
	if s.cfg.History != nil && len(removed) > 0 {
		if err := s.cfg.History.Forget(removed...); err != nil {
			s.logger.WithError(err).Warn("failed to update history")
		}
	}
}

func (s *Studio) downloadDir() string {
	if s.cfg.DownloadDir != nil {
		if dir := s.cfg.DownloadDir(); dir != "" {
			return dir
		}
	}
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		return "."
	}
	return dir
}

func (s *Studio) buildDownload(task model.Task) (worker.Job, error) {
	if s.cfg.Fetcher == nil {
		return nil, &model.ToolUnavailableError{Tool: download.DefaultBinary}
	}
	if c, ok := s.cfg.Fetcher.(Checker); ok {
		if err := c.CheckAvailable(); err != nil {
			return nil, err
		}
	}
	req := download.Request{URL: task.Target, Dir: task.Dir, Quality: task.Quality}
	return download.NewJob(s.cfg.Fetcher, req, s.logger), nil
}

func (s *Studio) buildTranscode(task model.Task) (worker.Job, error) {
	if s.cfg.Transcoder == nil {
		return nil, &model.ToolUnavailableError{Tool: transcode.FFmpegCommand}
	}
	if err := s.cfg.Transcoder.CheckAvailable(); err != nil {
		return nil, err
	}
	return transcode.NewMP3Job(s.cfg.Transcoder, task.Target, s.logger), nil
}

func (s *Studio) buildTranscribe(task model.Task) (worker.Job, error) {
	if s.cfg.Transcriber == nil {
		return nil, &model.ToolUnavailableError{Tool: transcribe.DefaultWhisperBinary}
	}
	if err := s.cfg.Transcriber.CheckAvailable(); err != nil {
		return nil, err
	}
	if s.cfg.Transcoder != nil {
		if err := s.cfg.Transcoder.CheckAvailable(); err != nil {
			return nil, err
		}
	}
	return transcribe.NewJob(s.cfg.Transcriber, task.Target, transcribe.Options{Language: task.Language}), nil
}

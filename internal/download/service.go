package download

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-studio/internal/model"
)

// Defaults for the yt-dlp backed fetcher
const (
	DefaultBinary           = "yt-dlp"
	DefaultProgressInterval = 250 * time.Millisecond
)

// YTDLP is a Fetcher backed by the yt-dlp executable
type YTDLP struct {
	binary   string
	interval time.Duration
	logger   *logrus.Logger
}

// NewYTDLP creates a fetcher. An empty binary means "yt-dlp" from PATH.
func NewYTDLP(binary string, logger *logrus.Logger) *YTDLP {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &YTDLP{
		binary:   binary,
		interval: DefaultProgressInterval,
		logger:   logger,
	}
}

// CheckAvailable verifies the yt-dlp executable can be found
func (y *YTDLP) CheckAvailable() error {
	if _, err := exec.LookPath(y.binary); err != nil {
		return &model.ToolUnavailableError{Tool: y.binary}
	}
	return nil
}

// Fetch implements Fetcher
func (y *YTDLP) Fetch(ctx context.Context, req Request, onProgress func(Progress)) (string, error) {
	if err := y.CheckAvailable(); err != nil {
		return "", err
	}

	profile, err := ProfileFor(req.Quality)
	if err != nil {
		return "", err
	}

	dl := y.command(req, profile)
	dl.ProgressFunc(y.interval, func(update ytdlp.ProgressUpdate) {
		if onProgress != nil {
			onProgress(fromUpdate(update))
		}
	})

	log := y.logger.WithFields(logrus.Fields{"url": req.URL, "quality": req.Quality})
	log.Info("download started")

	result, err := dl.Run(ctx, req.URL)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		log.WithError(err).Warn("download failed")
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	path := resultPath(result)
	log.WithField("path", path).Info("download finished")
	return path, nil
}

// command builds the yt-dlp invocation for req
func (y *YTDLP) command(req Request, profile Profile) *ytdlp.Command {
	dl := ytdlp.New().
		SetExecutable(y.binary).
		NoPlaylist().
		Output(filepath.Join(req.Dir, OutputTemplate)).
		Format(profile.Format).
		ConcurrentFragments(ConcurrentFragments).
		WriteThumbnail().
		ConvertThumbnails(ThumbnailFormat)

	if profile.ExtractAudio {
		dl = dl.ExtractAudio().
			AudioFormat(profile.AudioFormat).
			AudioQuality(profile.AudioQuality)
	}
	return dl
}

// resultPath returns the first filename reported by yt-dlp
func resultPath(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	info, err := result.GetExtractedInfo()
	if err != nil {
		return ""
	}
	for _, item := range info {
		if item != nil && item.Filename != nil && *item.Filename != "" {
			return *item.Filename
		}
	}
	return ""
}

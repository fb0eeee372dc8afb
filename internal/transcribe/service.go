package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-studio/internal/platform"
	"github.com/ytget/yt-studio/internal/worker"
)

// Progress split between waveform extraction and recognition
const (
	waveformShare = 10
	tempDirPrefix = "yt-studio-stt-"
	waveformName  = "audio.wav"
)

// Service runs the media -> waveform -> transcript pipeline
type Service struct {
	waveform WaveformExtractor
	engine   Engine
	logger   *logrus.Logger
}

// NewService creates a transcription service
func NewService(waveform WaveformExtractor, engine Engine, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{waveform: waveform, engine: engine, logger: logger}
}

// CheckAvailable reports whether the engine can run
func (s *Service) CheckAvailable() error {
	return s.engine.CheckAvailable()
}

// Run transcribes media and returns the transcript path
func (s *Service) Run(ctx context.Context, media string, opts Options, report func(int)) (string, error) {
	if report == nil {
		report = func(int) {}
	}

	tmpDir, err := os.MkdirTemp("", tempDirPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	wav := filepath.Join(tmpDir, waveformName)
	err = s.waveform.ExtractWaveform(ctx, media, wav, func(p int) {
		report(p * waveformShare / 100)
	})
	if err != nil {
		return "", err
	}

	segments, err := s.engine.Transcribe(ctx, wav, opts, func(p int) {
		report(waveformShare + p*(100-waveformShare)/100)
	})
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	out := platform.TranscriptPath(media)
	if err := os.WriteFile(out, []byte(JoinSegments(segments)), platform.DefaultFilePermissions); err != nil {
		return "", fmt.Errorf("failed to write transcript: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"media": media, "segments": len(segments)}).Info("transcript written")
	return out, nil
}

// JoinSegments concatenates non-empty segment texts with newlines
func JoinSegments(segments []Segment) string {
	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			lines = append(lines, text)
		}
	}
	return strings.Join(lines, "\n")
}

// NewJob returns a worker job transcribing media
func NewJob(s *Service, media string, opts Options) worker.Job {
	return func(ctx context.Context, report func(int)) (string, error) {
		return s.Run(ctx, media, opts, report)
	}
}

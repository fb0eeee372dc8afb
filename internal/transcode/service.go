package transcode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-studio/internal/model"
)

// FFmpeg settings
const (
	// MP3 extraction
	MP3Codec   = "libmp3lame"
	MP3Quality = "2"

	// Waveform for speech recognition
	WaveformChannels   = "1"
	WaveformSampleRate = "16000"
	WaveformFormat     = "wav"

	// Thumbnail frame
	FrameOffset  = "3"
	FrameCount   = "1"
	FrameQuality = "2"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="
	StderrTailLines     = 8
)

// Service runs ffmpeg and ffprobe
type Service struct {
	ffmpeg  string
	ffprobe string
	logger  *logrus.Logger
}

// NewService creates a transcoder. Empty binaries default to the names on PATH.
func NewService(ffmpeg, ffprobe string, logger *logrus.Logger) *Service {
	if ffmpeg == "" {
		ffmpeg = FFmpegCommand
	}
	if ffprobe == "" {
		ffprobe = FFprobeCommand
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{ffmpeg: ffmpeg, ffprobe: ffprobe, logger: logger}
}

// CheckAvailable verifies ffmpeg can be found. ffprobe is optional; without
// it progress is not reported.
func (s *Service) CheckAvailable() error {
	if _, err := exec.LookPath(s.ffmpeg); err != nil {
		return &model.ToolUnavailableError{Tool: s.ffmpeg}
	}
	return nil
}

// ExtractFrame writes one JPEG frame of video to out
func (s *Service) ExtractFrame(ctx context.Context, video, out string) error {
	if err := s.CheckAvailable(); err != nil {
		return err
	}
	return s.run(ctx, BuildFrameArgs(video, out), out, 0, nil)
}

// ExtractMP3 converts the audio track of in into an MP3 at out
func (s *Service) ExtractMP3(ctx context.Context, in, out string, report func(int)) error {
	if err := s.CheckAvailable(); err != nil {
		return err
	}
	return s.run(ctx, BuildMP3Args(in, out), out, s.duration(ctx, in), report)
}

// ExtractWaveform converts in into a mono 16 kHz WAV at out
func (s *Service) ExtractWaveform(ctx context.Context, in, out string, report func(int)) error {
	if err := s.CheckAvailable(); err != nil {
		return err
	}
	return s.run(ctx, BuildWaveformArgs(in, out), out, s.duration(ctx, in), report)
}

// BuildMP3Args builds the ffmpeg arguments for MP3 extraction
func BuildMP3Args(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", MP3Codec,
		"-q:a", MP3Quality,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	}
}

// BuildWaveformArgs builds the ffmpeg arguments for speech recognition input
func BuildWaveformArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-ac", WaveformChannels,
		"-ar", WaveformSampleRate,
		"-f", WaveformFormat,
		"-progress", ProgressPipeTarget,
		"-nostats",
		outputPath,
	}
}

// BuildFrameArgs builds the ffmpeg arguments for a thumbnail frame
func BuildFrameArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",
		"-ss", FrameOffset,
		"-i", inputPath,
		"-frames:v", FrameCount,
		"-q:v", FrameQuality,
		outputPath,
	}
}

// duration probes the media duration in seconds; 0 when unknown
func (s *Service) duration(ctx context.Context, filePath string) float64 {
	cmd := exec.CommandContext(ctx, s.ffprobe, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		s.logger.WithError(err).WithField("file", filePath).Debug("ffprobe failed, progress disabled")
		return 0
	}
	duration, err := ParseDuration(string(output))
	if err != nil {
		s.logger.WithError(err).WithField("file", filePath).Debug("unparsable duration")
		return 0
	}
	return duration
}

// ParseDuration parses ffprobe's csv duration output
func ParseDuration(output string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// run executes ffmpeg and removes out unless it succeeds
func (s *Service) run(ctx context.Context, args []string, out string, duration float64, report func(int)) error {
	log := s.logger.WithField("output", out)
	cmd := exec.CommandContext(ctx, s.ffmpeg, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// Drain stderr before Wait closes the pipe
	tail := &tailBuffer{max: StderrTailLines}
	monitorProgress(stderr, duration, report, tail)
	err = cmd.Wait()

	switch {
	case ctx.Err() != nil:
		os.Remove(out)
		log.Debug("ffmpeg canceled")
		return ctx.Err()
	case err != nil:
		os.Remove(out)
		log.WithError(err).Warn("ffmpeg failed")
		if msg := tail.String(); msg != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, msg)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// monitorProgress parses ffmpeg -progress lines and keeps other lines as the error tail
func monitorProgress(stderr io.Reader, totalDuration float64, report func(int), tail *tailBuffer) {
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Parse progress line: out_time_us=123456
		if strings.HasPrefix(line, ProgressTimePrefix) {
			if report == nil || totalDuration <= 0 {
				continue
			}
			timeMicroseconds, err := strconv.ParseInt(strings.TrimPrefix(line, ProgressTimePrefix), 10, 64)
			if err != nil {
				continue
			}
			progress := float64(timeMicroseconds) / 1000000.0 / totalDuration
			if progress > 1.0 {
				progress = 1.0
			}
			report(int(progress * 100))
			continue
		}

		if line != "" && !strings.Contains(line, "=") {
			tail.add(line)
		}
	}
}

// tailBuffer keeps the last max lines
type tailBuffer struct {
	max   int
	lines []string
}

func (t *tailBuffer) add(line string) {
	t.lines = append(t.lines, line)
	if len(t.lines) > t.max {
		t.lines = t.lines[len(t.lines)-t.max:]
	}
}

func (t *tailBuffer) String() string {
	return strings.Join(t.lines, "; ")
}

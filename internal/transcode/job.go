package transcode

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-studio/internal/platform"
	"github.com/ytget/yt-studio/internal/worker"
)

// NewMP3Job returns a worker job that extracts <stem>.mp3 next to media and
// tags it. Tagging failures are logged and do not fail the job.
func NewMP3Job(t Transcoder, media string, logger *logrus.Logger) worker.Job {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(ctx context.Context, report func(int)) (string, error) {
		out := platform.MP3Path(media)
		if strings.EqualFold(out, media) {
			return "", fmt.Errorf("%s is already an MP3", media)
		}

		if err := t.ExtractMP3(ctx, media, out, report); err != nil {
			return "", err
		}

		if err := TagMP3(out, platform.Stem(media)); err != nil {
			logger.WithError(err).WithField("file", out).Warn("failed to write id3 tags")
		}
		return out, nil
	}
}

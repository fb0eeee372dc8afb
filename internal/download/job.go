package download

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-studio/internal/model"
	"github.com/ytget/yt-studio/internal/platform"
	"github.com/ytget/yt-studio/internal/worker"
)

// NewJob adapts a Fetcher call into a worker job. The job reports integer
// percentages and returns the resolved output path, or "" when the file
// cannot be located. An unknown path is not a failure.
func NewJob(fetcher Fetcher, req Request, logger *logrus.Logger) worker.Job {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return func(ctx context.Context, report func(int)) (string, error) {
		if err := platform.CreateDirectoryIfNotExists(req.Dir); err != nil {
			return "", err
		}

		before := platform.Snapshot(req.Dir)
		var tracker pathTracker
		path, err := fetcher.Fetch(ctx, req, func(p Progress) {
			tracker.observe(p)
			if p.HasPercent {
				report(int(p.Percent))
			}
		})
		if err != nil {
			return "", err
		}

		profile, _ := ProfileFor(req.Quality)
		resolved := ResolveOutput(tracker.candidates(path), profile.ExpectedExt, req.Dir, before)
		if resolved == "" {
			logger.WithField("url", req.URL).Warn("download finished but output file was not found")
		}
		return resolved, nil
	}
}

// ResolveOutput picks the produced file: the first existing candidate, then a
// candidate's stem with expectedExt, then the newest media file that appeared
// in dir since before was taken.
func ResolveOutput(candidates []string, expectedExt, dir string, before map[string]time.Time) string {
	for _, c := range candidates {
		if platform.IsRegularFile(c) && !platform.IsTempFile(c) {
			return c
		}
	}

	if expectedExt != "" {
		for _, c := range candidates {
			alt := platform.StemPath(trimTempSuffix(c)) + expectedExt
			if platform.IsRegularFile(alt) {
				return alt
			}
		}
	}

	after := platform.Snapshot(dir)
	for path := range after {
		kind := platform.Classify(path)
		if kind != model.KindVideo && kind != model.KindMusic {
			delete(after, path)
		}
	}
	return platform.NewestAdded(before, after)
}

// trimTempSuffix strips trailing temporary suffixes such as ".part"
func trimTempSuffix(path string) string {
	for platform.IsTempFile(path) {
		ext := filepath.Ext(path)
		if ext == "" {
			break
		}
		path = strings.TrimSuffix(path, ext)
	}
	return path
}

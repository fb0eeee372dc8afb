package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ytget/yt-studio/internal/model"
)

// fakeFetcher simulates a backend writing files and reporting progress
type fakeFetcher struct {
	writes   []string
	updates  []Progress
	result   string
	err      error
	blockCtx bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, req Request, onProgress func(Progress)) (string, error) {
	for _, name := range f.writes {
		if err := os.WriteFile(filepath.Join(req.Dir, name), []byte(name), 0644); err != nil {
			return "", err
		}
	}
	for _, u := range f.updates {
		onProgress(u)
	}
	if f.blockCtx {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.result, f.err
}

func runJob(t *testing.T, f Fetcher, req Request) (string, []int, error) {
	t.Helper()
	var reported []int
	job := NewJob(f, req, nil)
	path, err := job(context.Background(), func(p int) { reported = append(reported, p) })
	return path, reported, err
}

func TestJob_UsesPostProcessedPath(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{
		writes: []string{"Song.mp3", "Song.jpg"},
		updates: []Progress{
			{Stage: StageDownloading, Percent: 40.7, HasPercent: true, Paths: []string{filepath.Join(dir, "Song.webm")}},
			{Stage: StageFinished, Percent: 100, HasPercent: true, Paths: []string{filepath.Join(dir, "Song.webm")}},
			{Stage: StagePostProcessing, Paths: []string{filepath.Join(dir, "Song.mp3")}},
		},
	}

	path, reported, err := runJob(t, f, Request{URL: "https://x/y", Dir: dir, Quality: model.QualityMP3})
	if err != nil {
		t.Fatalf("job failed: %v", err)
	}
	if path != filepath.Join(dir, "Song.mp3") {
		t.Errorf("path = %q, expected Song.mp3", path)
	}
	if len(reported) != 2 || reported[0] != 40 || reported[1] != 100 {
		t.Errorf("reported = %v, expected [40 100]", reported)
	}
}

func TestJob_ExpectedExtensionOnStem(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{
		writes: []string{"Clip.mp4"},
		result: filepath.Join(dir, "Clip.webm.part"),
	}

	path, _, err := runJob(t, f, Request{URL: "https://x/y", Dir: dir, Quality: model.QualityMP4})
	if err != nil {
		t.Fatalf("job failed: %v", err)
	}
	if path != filepath.Join(dir, "Clip.mp4") {
		t.Errorf("path = %q, expected Clip.mp4", path)
	}
}

func TestJob_DirectoryDiffFallback(t *testing.T) {
	dir := t.TempDir()
	old := filepath.Join(dir, "Old.mp4")
	if err := os.WriteFile(old, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-time.Hour)
	_ = os.Chtimes(old, past, past)

	f := &fakeFetcher{writes: []string{"New Video.mkv", "New Video.jpg"}}

	path, _, err := runJob(t, f, Request{URL: "https://x/y", Dir: dir, Quality: model.QualityBest})
	if err != nil {
		t.Fatalf("job failed: %v", err)
	}
	if path != filepath.Join(dir, "New Video.mkv") {
		t.Errorf("path = %q, expected New Video.mkv", path)
	}
}

func TestJob_UnknownPathIsNotFailure(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{result: filepath.Join(dir, "ghost.mp4")}

	path, _, err := runJob(t, f, Request{URL: "https://x/y", Dir: dir, Quality: model.QualityBest})
	if err != nil {
		t.Fatalf("job failed: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, expected empty", path)
	}
}

func TestJob_FetchErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	f := &fakeFetcher{err: errors.New("Unsupported URL")}

	_, _, err := runJob(t, f, Request{URL: "https://x/y", Dir: dir})
	if err == nil || err.Error() != "Unsupported URL" {
		t.Errorf("err = %v, expected Unsupported URL", err)
	}
}

func TestJob_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	f := &fakeFetcher{writes: []string{"a.mp4"}}

	path, _, err := runJob(t, f, Request{URL: "https://x/y", Dir: dir})
	if err != nil {
		t.Fatalf("job failed: %v", err)
	}
	if path != filepath.Join(dir, "a.mp4") {
		t.Errorf("path = %q", path)
	}
}

func TestJob_Canceled(t *testing.T) {
	dir := t.TempDir()
	job := NewJob(&fakeFetcher{blockCtx: true}, Request{URL: "https://x/y", Dir: dir}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := job(ctx, func(int) {}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, expected context.Canceled", err)
	}
}

func TestTrimTempSuffix(t *testing.T) {
	tests := map[string]string{
		"/d/a.mp4.part":     "/d/a.mp4",
		"/d/a.mp4.part.tmp": "/d/a.mp4",
		"/d/a.mp4":          "/d/a.mp4",
	}
	for in, expected := range tests {
		if got := trimTempSuffix(in); got != expected {
			t.Errorf("trimTempSuffix(%q) = %q, expected %q", in, got, expected)
		}
	}
}

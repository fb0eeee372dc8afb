package download

import (
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// Stage is the downloader phase a progress update belongs to
type Stage int

const (
	StageUnknown Stage = iota
	StageDownloading
	StageFinished
	StagePostProcessing
)

// String returns string representation of stage
func (s Stage) String() string {
	switch s {
	case StageDownloading:
		return "downloading"
	case StageFinished:
		return "finished"
	case StagePostProcessing:
		return "post_processing"
	default:
		return "unknown"
	}
}

// Progress is a normalized progress update. Any field may be missing; check
// HasPercent before using Percent.
type Progress struct {
	Stage      Stage
	Percent    float64
	HasPercent bool
	// Paths holds candidate output paths in preference order
	Paths []string
}

// Path returns the first candidate path or ""
func (p Progress) Path() string {
	if len(p.Paths) == 0 {
		return ""
	}
	return p.Paths[0]
}

// parseStage maps a yt-dlp status string to a Stage
func parseStage(status string) Stage {
	switch strings.ToLower(strings.ReplaceAll(status, "-", "_")) {
	case "downloading", "starting":
		return StageDownloading
	case "finished":
		return StageFinished
	case "post_processing", "postprocessing", "processing":
		return StagePostProcessing
	default:
		return StageUnknown
	}
}

// fromUpdate normalizes a go-ytdlp progress update
func fromUpdate(u ytdlp.ProgressUpdate) Progress {
	p := Progress{Stage: parseStage(string(u.Status))}

	switch {
	case u.TotalBytes > 0:
		p.Percent = float64(u.DownloadedBytes) / float64(u.TotalBytes) * 100
		p.HasPercent = true
	case u.FragmentCount > 0:
		p.Percent = float64(u.FragmentIndex) / float64(u.FragmentCount) * 100
		p.HasPercent = true
	}
	if p.HasPercent {
		p.Percent = clampPercent(p.Percent)
	}

	if u.Filename != "" {
		p.Paths = append(p.Paths, u.Filename)
	}
	if u.Info != nil && u.Info.Filename != nil && *u.Info.Filename != "" && *u.Info.Filename != u.Filename {
		p.Paths = append(p.Paths, *u.Info.Filename)
	}
	return p
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// pathTracker remembers the most reliable output path seen in progress updates.
// Post-processing paths beat finished paths, which beat anything else.
type pathTracker struct {
	postProcessed string
	finished      string
	any           string
}

func (t *pathTracker) observe(p Progress) {
	path := p.Path()
	if path == "" {
		return
	}
	switch p.Stage {
	case StagePostProcessing:
		t.postProcessed = path
	case StageFinished:
		t.finished = path
	default:
		t.any = path
	}
}

// candidates returns tracked paths followed by fallback, best first, deduplicated
func (t *pathTracker) candidates(fallback string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range []string{t.postProcessed, t.finished, fallback, t.any} {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

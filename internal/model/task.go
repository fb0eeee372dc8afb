package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TaskKind identifies which external collaborator a task drives
type TaskKind string

const (
	TaskDownload   TaskKind = "download"
	TaskTranscode  TaskKind = "transcode"
	TaskTranscribe TaskKind = "transcribe"
)

// Quality is the downloader quality profile
type Quality string

const (
	QualityBest Quality = "best"
	QualityMP4  Quality = "mp4"
	QualityMP3  Quality = "mp3"
)

// Qualities lists the supported download profiles in menu order
func Qualities() []Quality {
	return []Quality{QualityBest, QualityMP4, QualityMP3}
}

// Valid reports whether q is a known profile
func (q Quality) Valid() bool {
	return q == QualityBest || q == QualityMP4 || q == QualityMP3
}

// TaskKey identifies at most one in-flight task per (target, kind) pair
type TaskKey struct {
	Target string
	Kind   TaskKind
}

// Task represents one background unit of work
type Task struct {
	ID         string
	Kind       TaskKind
	Target     string // URL for downloads, source file path otherwise
	Quality    Quality
	Language   string // transcription language hint, empty for auto-detect
	Dir        string // destination directory for downloads
	RowID      string // catalog row the task reports to
	Status     TaskStatus
	Intent     Intent
	Percent    int // 0 to 100, non-decreasing within one run
	LastError  string
	OutputPath string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewTask creates an idle task with a fresh ID
func NewTask(kind TaskKind, target, rowID string) *Task {
	return &Task{
		ID:        generateTaskID(kind),
		Kind:      kind,
		Target:    target,
		RowID:     rowID,
		Status:    TaskStatusIdle,
		StartedAt: time.Now(),
	}
}

// Key returns the dedupe key for the task
func (t *Task) Key() TaskKey {
	return TaskKey{Target: t.Target, Kind: t.Kind}
}

// SetPercent records progress, ignoring regressions and clamping to 0..100.
// It returns true when the stored value changed.
func (t *Task) SetPercent(percent int) bool {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent <= t.Percent {
		return false
	}
	t.Percent = percent
	return true
}

// Retry returns a fresh idle task for the same request. Progress restarts at zero.
func (t *Task) Retry() *Task {
	next := NewTask(t.Kind, t.Target, t.RowID)
	next.Quality = t.Quality
	next.Language = t.Language
	next.Dir = t.Dir
	return next
}

// GetDisplayTitle returns the output file name, or the target when unknown
func (t *Task) GetDisplayTitle() string {
	if t.OutputPath != "" {
		parts := strings.FieldsFunc(t.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}
	return t.Target
}

// generateTaskID generates a unique, time-ordered task ID prefixed by kind
func generateTaskID(kind TaskKind) string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%s-%d", kind, time.Now().UnixNano())
	}
	return string(kind) + "-" + id.String()
}

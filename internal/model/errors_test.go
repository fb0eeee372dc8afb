package model

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

func TestPartialDeletionError_NamesOnlyFailures(t *testing.T) {
	err := &PartialDeletionError{Failures: []FileError{
		{Path: "/d/trip.mp3", Err: &fs.PathError{Op: "remove", Path: "/d/trip.mp3", Err: fs.ErrPermission}},
	}}

	msg := err.Error()
	if !strings.Contains(msg, "trip.mp3") {
		t.Errorf("Expected message to name trip.mp3, got: %s", msg)
	}
	if !strings.Contains(msg, "permission denied") {
		t.Errorf("Expected cause in message, got: %s", msg)
	}
	if strings.Count(msg, "/d/") != 0 {
		t.Errorf("Expected base names only, got: %s", msg)
	}
	if paths := err.Paths(); len(paths) != 1 || paths[0] != "/d/trip.mp3" {
		t.Errorf("Unexpected paths: %v", paths)
	}
}

func TestStaleRowError_Is(t *testing.T) {
	var err error = &StaleRowError{Path: "/d/gone.mp4"}
	if !errors.Is(err, ErrStaleRow) {
		t.Error("Expected StaleRowError to match ErrStaleRow")
	}
	if !strings.HasPrefix(err.Error(), "gone.mp4") {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestToolUnavailableError(t *testing.T) {
	var err error = &ToolUnavailableError{Tool: "ffmpeg"}
	var target *ToolUnavailableError
	if !errors.As(err, &target) || target.Tool != "ffmpeg" {
		t.Errorf("Expected errors.As to find tool ffmpeg, got %v", err)
	}
}

func TestKindFilter_Matches(t *testing.T) {
	tests := []struct {
		filter   KindFilter
		kind     ArtifactKind
		expected bool
	}{
		{FilterAll, KindVideo, true},
		{FilterAll, KindText, true},
		{FilterMusic, KindMusic, true},
		{FilterMusic, KindVideo, false},
		{FilterText, KindText, true},
		{"", KindMusic, true},
	}

	for _, test := range tests {
		if got := test.filter.Matches(test.kind); got != test.expected {
			t.Errorf("KindFilter(%s).Matches(%s) = %v, expected %v", test.filter, test.kind, got, test.expected)
		}
	}
}

func TestCatalogRow_DisplayName(t *testing.T) {
	row := CatalogRow{URL: "https://example.com/v"}
	if row.DisplayName() != "https://example.com/v" {
		t.Errorf("Expected URL for downloading row, got %s", row.DisplayName())
	}
	row.Path = "/d/my trip.mp4"
	if row.DisplayName() != "my trip.mp4" {
		t.Errorf("Expected base name, got %s", row.DisplayName())
	}
}

func TestArtifactGroup_Paths(t *testing.T) {
	g := ArtifactGroup{Media: "/d/a.mp4", Transcript: "/d/a.transcript.txt"}
	paths := g.Paths()
	if len(paths) != 2 || paths[0] != "/d/a.mp4" {
		t.Errorf("Unexpected paths: %v", paths)
	}
	if (ArtifactGroup{}).IsEmpty() != true {
		t.Error("Expected empty group")
	}
}

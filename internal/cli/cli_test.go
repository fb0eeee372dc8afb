package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ytget/yt-studio/internal/model"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config-dir", t.TempDir(), "--log-level", "error"))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name string, mod time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("Failed to set times: %v", err)
	}
}

func TestScan_ListsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, dir, "old.mp4", now.Add(-2*time.Hour))
	writeFile(t, dir, "new.mp3", now.Add(-time.Minute))
	writeFile(t, dir, "new.transcript.txt", now)
	writeFile(t, dir, "clip.part", now)

	out, err := execute(t, "scan", dir)
	if err != nil {
		t.Fatalf("scan error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("scan printed %d lines, expected header and 3 rows:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "KIND") {
		t.Errorf("header = %q", lines[0])
	}
	expected := []string{"new.transcript.txt", "new.mp3", "old.mp4"}
	for i, name := range expected {
		if !strings.Contains(lines[i+1], name) {
			t.Errorf("line %d = %q, expected %s", i+1, lines[i+1], name)
		}
	}
}

func TestScan_FiltersByKindAndQuery(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	writeFile(t, dir, "Talk.mp4", now)
	writeFile(t, dir, "talk.mp3", now)
	writeFile(t, dir, "other.mp4", now)

	out, err := execute(t, "scan", dir, "--kind", "video", "--query", "TALK")
	if err != nil {
		t.Fatalf("scan error = %v", err)
	}
	if !strings.Contains(out, "Talk.mp4") || strings.Contains(out, "talk.mp3") || strings.Contains(out, "other.mp4") {
		t.Errorf("unexpected scan output:\n%s", out)
	}
}

func TestScan_UnknownKind(t *testing.T) {
	if _, err := execute(t, "scan", t.TempDir(), "--kind", "images"); err == nil {
		t.Error("scan with an unknown kind succeeded")
	}
}

func TestFetch_ValidatesInput(t *testing.T) {
	if _, err := execute(t, "fetch", "not a url"); !errors.Is(err, model.ErrInvalidURL) {
		t.Errorf("fetch error = %v, expected ErrInvalidURL", err)
	}
	if _, err := execute(t, "fetch", "https://example.com/v", "--quality", "8k"); err == nil {
		t.Error("fetch with an unknown quality succeeded")
	}
}

func TestParseFilter(t *testing.T) {
	tests := map[string]model.KindFilter{
		"":      model.FilterAll,
		"all":   model.FilterAll,
		"Music": model.FilterMusic,
		"TEXT":  model.FilterText,
	}
	for in, expected := range tests {
		got, err := parseFilter(in)
		if err != nil || got != expected {
			t.Errorf("parseFilter(%q) = %q, %v, expected %q", in, got, err, expected)
		}
	}
}

func TestHistory_EmptyStore(t *testing.T) {
	out, err := execute(t, "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if strings.TrimSpace(out) != "WHEN  QUALITY  PATH  URL" {
		t.Errorf("history output = %q", out)
	}
}

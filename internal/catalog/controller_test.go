package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ytget/yt-studio/internal/model"
)

type staticURLs map[string]string

func (s staticURLs) URLFor(path string) string {
	return s[path]
}

func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0644); err != nil {
		t.Fatalf("Failed to create %s: %v", name, err)
	}
	if !mod.IsZero() {
		if err := os.Chtimes(path, mod, mod); err != nil {
			t.Fatalf("Failed to set times: %v", err)
		}
	}
	return path
}

func names(rows []model.CatalogRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.DisplayName())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddDownloading_InsertsAtTop(t *testing.T) {
	dir := t.TempDir()
	c := NewController(nil)
	c.AddCompleted("", touch(t, dir, "old.mp4", time.Time{}))

	row := c.AddDownloading("https://example.com/v", model.QualityBest)
	if row.State != model.RowDownloading || row.URL != "https://example.com/v" || !row.Visible {
		t.Errorf("row = %+v", row)
	}

	rows := c.Rows()
	if len(rows) != 2 || rows[0].ID != row.ID {
		t.Errorf("rows = %v, expected the download first", names(rows))
	}
}

func TestSetProgress_Monotonic(t *testing.T) {
	c := NewController(nil)
	row := c.AddDownloading("https://a", model.QualityBest)

	for _, p := range []int{10, 5, 40, 40, 150} {
		if err := c.SetProgress(row.ID, p); err != nil {
			t.Fatalf("SetProgress failed: %v", err)
		}
	}
	got, _ := c.Row(row.ID)
	if got.Percent != 100 {
		t.Errorf("Percent = %d, expected 100", got.Percent)
	}

	if err := c.SetProgress("row-missing", 10); !errors.Is(err, model.ErrRowNotFound) {
		t.Errorf("SetProgress on missing row = %v, expected ErrRowNotFound", err)
	}
}

func TestPauseAndResumeResetsProgress(t *testing.T) {
	c := NewController(nil)
	row := c.AddDownloading("https://a", model.QualityMP3)
	c.AttachTask(row.ID, "download-1")
	c.SetProgress(row.ID, 63)

	c.MarkPaused(row.ID)
	paused, _ := c.Row(row.ID)
	if paused.State != model.RowPaused || paused.TaskID != "" || paused.Percent != 63 {
		t.Errorf("paused row = %+v", paused)
	}
	// Progress is ignored while paused
	c.SetProgress(row.ID, 80)

	c.MarkDownloading(row.ID, "download-2")
	resumed, _ := c.Row(row.ID)
	if resumed.State != model.RowDownloading || resumed.Percent != 0 || resumed.TaskID != "download-2" {
		t.Errorf("resumed row = %+v", resumed)
	}
}

func TestOwnedBy(t *testing.T) {
	c := NewController(nil)
	row := c.AddDownloading("https://a", model.QualityBest)
	if c.OwnedBy(row.ID, "") {
		t.Error("row without a task reported as owned by empty id")
	}

	c.AttachTask(row.ID, "download-1")
	if !c.OwnedBy(row.ID, "download-1") {
		t.Error("OwnedBy(download-1) = false after AttachTask")
	}

	c.MarkPaused(row.ID)
	c.MarkDownloading(row.ID, "download-2")
	if c.OwnedBy(row.ID, "download-1") {
		t.Error("replaced task still owns the row")
	}
	if c.OwnedBy("row-missing", "download-2") {
		t.Error("OwnedBy on a missing row = true")
	}
}

func TestFinalize_ReplacesInPlace(t *testing.T) {
	dir := t.TempDir()
	c := NewController(nil)
	c.AddCompleted("", touch(t, dir, "old.mp4", time.Time{}))
	row := c.AddDownloading("https://a", model.QualityBest)

	path := touch(t, dir, "new.mp4", time.Time{})
	done, ok := c.Finalize(row.ID, "https://a", path)
	if !ok {
		t.Fatal("Finalize returned false")
	}
	if done.ID != row.ID || done.State != model.RowCompleted || done.Kind != model.KindVideo || done.URL != "https://a" {
		t.Errorf("finalized = %+v", done)
	}
	if done.Size == 0 {
		t.Error("Size not filled")
	}

	rows := c.Rows()
	if !equalStrings(names(rows), []string{"new.mp4", "old.mp4"}) {
		t.Errorf("rows = %v", names(rows))
	}
}

func TestFinalize_MissingPathRemovesRow(t *testing.T) {
	c := NewController(nil)
	row := c.AddDownloading("https://a", model.QualityBest)

	if _, ok := c.Finalize(row.ID, "https://a", ""); ok {
		t.Error("Finalize with empty path returned true")
	}
	if len(c.Rows()) != 0 {
		t.Errorf("rows = %v, expected none", names(c.Rows()))
	}
}

func TestFinalize_MergesExistingPath(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "same.mp4", time.Time{})
	c := NewController(nil)
	c.AddCompleted("", path)
	row := c.AddDownloading("https://a", model.QualityBest)

	c.Finalize(row.ID, "https://a", path)
	rows := c.Rows()
	if len(rows) != 1 || rows[0].ID != row.ID {
		t.Errorf("rows = %+v, expected one merged row", rows)
	}
}

func TestAddCompleted_NoOpForMissingOrUnlisted(t *testing.T) {
	dir := t.TempDir()
	c := NewController(nil)

	if _, ok := c.AddCompleted("", ""); ok {
		t.Error("AddCompleted(\"\") returned true")
	}
	if _, ok := c.AddCompleted("", filepath.Join(dir, "missing.mp4")); ok {
		t.Error("AddCompleted for missing file returned true")
	}
	if _, ok := c.AddCompleted("", dir); ok {
		t.Error("AddCompleted for directory returned true")
	}
	if _, ok := c.AddCompleted("", touch(t, dir, "cover.jpg", time.Time{})); ok {
		t.Error("AddCompleted for thumbnail returned true")
	}
	if len(c.Rows()) != 0 {
		t.Errorf("rows = %v, expected none", names(c.Rows()))
	}
}

func TestAddDerivedAsset_InsertOrUpdate(t *testing.T) {
	dir := t.TempDir()
	c := NewController(nil)
	mp3 := touch(t, dir, "a.mp3", time.Time{})

	first, ok := c.AddDerivedAsset(mp3)
	if !ok || first.Kind != model.KindMusic {
		t.Fatalf("AddDerivedAsset = %+v, %v", first, ok)
	}
	second, _ := c.AddDerivedAsset(mp3)
	if second.ID != first.ID || len(c.Rows()) != 1 {
		t.Errorf("second AddDerivedAsset created a new row")
	}

	txt, ok := c.AddDerivedAsset(touch(t, dir, "a.transcript.txt", time.Time{}))
	if !ok || txt.Kind != model.KindText {
		t.Errorf("transcript row = %+v", txt)
	}
}

func TestResolve_StaleRow(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "a.mp4", time.Time{})
	c := NewController(nil)
	row, _ := c.AddCompleted("", path)

	if _, err := c.Resolve(row.ID); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	os.Remove(path)
	_, err := c.Resolve(row.ID)
	var stale *model.StaleRowError
	if !errors.As(err, &stale) || stale.Path != path {
		t.Errorf("Resolve = %v, expected StaleRowError", err)
	}

	if _, err := c.Resolve("row-404"); !errors.Is(err, model.ErrRowNotFound) {
		t.Errorf("Resolve unknown = %v, expected ErrRowNotFound", err)
	}
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	c := NewController(nil)
	gone := touch(t, dir, "gone.mp4", time.Time{})
	c.AddCompleted("", gone)
	c.AddCompleted("", touch(t, dir, "kept.mp4", time.Time{}))
	c.AddDownloading("https://a", model.QualityBest)

	os.Remove(gone)
	if n := c.Prune(); n != 1 {
		t.Errorf("Prune = %d, expected 1", n)
	}
	if len(c.Rows()) != 2 {
		t.Errorf("rows = %v, expected download and kept.mp4", names(c.Rows()))
	}
}

func TestSetBusy(t *testing.T) {
	dir := t.TempDir()
	path := touch(t, dir, "a.mp4", time.Time{})
	c := NewController(nil)
	c.AddCompleted("", path)

	calls := 0
	c.SetOnChange(func() { calls++ })

	c.SetBusy(path, true)
	c.SetBusy(path, true)
	row, _ := c.RowByPath(path)
	if !row.Busy {
		t.Error("Busy = false, expected true")
	}
	if calls != 1 {
		t.Errorf("change callbacks = %d, expected 1", calls)
	}
}

func TestGroup_UsesRowURL(t *testing.T) {
	dir := t.TempDir()
	media := touch(t, dir, "a.mp4", time.Time{})
	touch(t, dir, "a.mp3", time.Time{})
	c := NewController(staticURLs{})
	c.AddCompleted("https://example.com/a", media)

	group, err := c.Group(media)
	if err != nil {
		t.Fatalf("Group failed: %v", err)
	}
	if group.URL != "https://example.com/a" || group.Audio == "" || group.Media != media {
		t.Errorf("group = %+v", group)
	}
}

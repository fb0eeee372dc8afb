package catalog

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/ytget/yt-studio/internal/model"
	"github.com/ytget/yt-studio/internal/platform"
)

// RemoveGroup deletes the file at stemPath together with every sidecar that
// shares its stem, and drops the matching rows. Missing files count as
// deleted. Failures do not roll back files that were removed; they are
// returned together as a *model.PartialDeletionError and their rows stay.
func (c *Controller) RemoveGroup(stemPath string) ([]string, error) {
	files, err := platform.GroupFiles(stemPath)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	files = c.withGroupRowsLocked(stemPath, files)
	removed, failures := c.deleteFilesLocked(files)
	c.mu.Unlock()

	c.changed()
	if len(failures) > 0 {
		return removed, &model.PartialDeletionError{Failures: failures}
	}
	return removed, nil
}

// RemoveSingle deletes one file and its row, leaving its sidecars alone
func (c *Controller) RemoveSingle(path string) error {
	c.mu.Lock()
	_, failures := c.deleteFilesLocked([]string{path})
	c.mu.Unlock()

	c.changed()
	if len(failures) > 0 {
		return &model.PartialDeletionError{Failures: failures}
	}
	return nil
}

// withGroupRowsLocked adds paths of rows in the group that are no longer on disk
func (c *Controller) withGroupRowsLocked(stemPath string, files []string) []string {
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f] = true
	}
	dir := filepath.Dir(stemPath)
	stem := platform.Stem(stemPath)
	primary := filepath.Base(stemPath)
	for _, r := range c.rows {
		if r.Path == "" || seen[r.Path] || filepath.Dir(r.Path) != dir {
			continue
		}
		name := filepath.Base(r.Path)
		if name == primary || platform.IsSidecarName(name, stem) {
			files = append(files, r.Path)
			seen[r.Path] = true
		}
	}
	return files
}

// deleteFilesLocked removes files and the rows of those that are gone afterwards
func (c *Controller) deleteFilesLocked(files []string) ([]string, []model.FileError) {
	var (
		removed  []string
		failures []model.FileError
	)
	gone := make(map[string]bool, len(files))
	for _, f := range files {
		if err := c.remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			failures = append(failures, model.FileError{Path: f, Err: err})
			continue
		}
		removed = append(removed, f)
		gone[f] = true
	}

	kept := c.rows[:0]
	for _, r := range c.rows {
		if r.Path != "" && gone[r.Path] {
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(c.rows); i++ {
		c.rows[i] = nil
	}
	c.rows = kept
	return removed, failures
}

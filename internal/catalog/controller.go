package catalog

import (
	"fmt"
	"os"
	"sync"

	"github.com/ytget/yt-studio/internal/model"
	"github.com/ytget/yt-studio/internal/platform"
)

// URLResolver looks up the source URL recorded for a downloaded file
type URLResolver interface {
	URLFor(path string) string
}

// Controller is the UI-facing model of all rows. It is safe for concurrent
// use; the change callback runs on the goroutine that made the change.
type Controller struct {
	mu       sync.Mutex
	rows     []*model.CatalogRow
	query    string
	filter   model.KindFilter
	nextID   uint64
	urls     URLResolver
	onChange func()

	// remove deletes one file; replaced in tests
	remove func(path string) error
}

// NewController creates an empty catalog. urls may be nil.
func NewController(urls URLResolver) *Controller {
	return &Controller{
		filter: model.FilterAll,
		urls:   urls,
		remove: os.Remove,
	}
}

// SetOnChange sets the callback invoked after every mutation
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Rows returns copies of all rows in display order
func (c *Controller) Rows() []model.CatalogRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CatalogRow, 0, len(c.rows))
	for _, r := range c.rows {
		out = append(out, *r)
	}
	return out
}

// Visible returns copies of the rows passing the current filter
func (c *Controller) Visible() []model.CatalogRow {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CatalogRow, 0, len(c.rows))
	for _, r := range c.rows {
		if r.Visible {
			out = append(out, *r)
		}
	}
	return out
}

// Row returns a copy of the row with id
func (c *Controller) Row(id string) (model.CatalogRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r := c.findLocked(id); r != nil {
		return *r, true
	}
	return model.CatalogRow{}, false
}

// RowByPath returns a copy of the completed row for path
func (c *Controller) RowByPath(path string) (model.CatalogRow, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r := c.findPathLocked(path); r != nil {
		return *r, true
	}
	return model.CatalogRow{}, false
}

// OwnedBy reports whether taskID is the task currently bound to rowID
func (c *Controller) OwnedBy(rowID, taskID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.findLocked(rowID)
	return r != nil && taskID != "" && r.TaskID == taskID
}

// Resolve returns the row for an action on its file. Completed rows whose
// file disappeared yield a *model.StaleRowError.
func (c *Controller) Resolve(id string) (model.CatalogRow, error) {
	row, ok := c.Row(id)
	if !ok {
		return model.CatalogRow{}, model.ErrRowNotFound
	}
	if row.Path != "" && !platform.IsRegularFile(row.Path) {
		return row, &model.StaleRowError{Path: row.Path}
	}
	return row, nil
}

// AddDownloading inserts a transient row at the top for a new download
func (c *Controller) AddDownloading(url string, quality model.Quality) model.CatalogRow {
	c.mu.Lock()
	row := &model.CatalogRow{
		ID:      c.newIDLocked(),
		State:   model.RowDownloading,
		URL:     url,
		Quality: quality,
	}
	c.applyFilterLocked(row)
	c.rows = append([]*model.CatalogRow{row}, c.rows...)
	snap := *row
	c.mu.Unlock()

	c.changed()
	return snap
}

// AttachTask binds the running task to a transient row
func (c *Controller) AttachTask(rowID, taskID string) error {
	return c.updateRow(rowID, func(r *model.CatalogRow) bool {
		r.TaskID = taskID
		return true
	})
}

// SetProgress records download progress. Values lower than the current one
// are ignored.
func (c *Controller) SetProgress(rowID string, percent int) error {
	return c.updateRow(rowID, func(r *model.CatalogRow) bool {
		if percent <= r.Percent || r.State != model.RowDownloading {
			return false
		}
		if percent > 100 {
			percent = 100
		}
		r.Percent = percent
		return true
	})
}

// MarkDownloading puts a paused or failed row back into the downloading state
// for a fresh task; progress restarts at zero.
func (c *Controller) MarkDownloading(rowID, taskID string) error {
	return c.updateRow(rowID, func(r *model.CatalogRow) bool {
		r.State = model.RowDownloading
		r.TaskID = taskID
		r.Percent = 0
		return true
	})
}

// MarkPaused flags a transient row as paused
func (c *Controller) MarkPaused(rowID string) error {
	return c.updateRow(rowID, func(r *model.CatalogRow) bool {
		r.State = model.RowPaused
		r.TaskID = ""
		return true
	})
}

// MarkFailed flags a transient row as failed
func (c *Controller) MarkFailed(rowID string) error {
	return c.updateRow(rowID, func(r *model.CatalogRow) bool {
		r.State = model.RowFailed
		r.TaskID = ""
		return true
	})
}

// Finalize replaces the transient row of a finished download with a
// completed row for path. When path is not an existing regular file the
// transient row is removed and false is returned. An existing row for the
// same path is merged into the finalized one.
func (c *Controller) Finalize(rowID, url, path string) (model.CatalogRow, bool) {
	c.mu.Lock()
	idx := c.indexLocked(rowID)
	if idx < 0 {
		c.mu.Unlock()
		return model.CatalogRow{}, false
	}
	if !platform.IsRegularFile(path) || !platform.Classify(path).IsListable() {
		c.rows = append(c.rows[:idx], c.rows[idx+1:]...)
		c.mu.Unlock()
		c.changed()
		return model.CatalogRow{}, false
	}

	if dup := c.findPathLocked(path); dup != nil {
		c.deleteLocked(dup.ID)
		idx = c.indexLocked(rowID)
	}

	row := c.rows[idx]
	row.State = model.RowCompleted
	row.Path = path
	row.URL = url
	row.Kind = platform.Classify(path)
	row.Percent = 100
	row.TaskID = ""
	fillStat(row)
	c.applyFilterLocked(row)
	snap := *row
	c.mu.Unlock()

	c.changed()
	return snap, true
}

// RemoveRow drops a row without touching the filesystem
func (c *Controller) RemoveRow(rowID string) bool {
	c.mu.Lock()
	ok := c.deleteLocked(rowID)
	c.mu.Unlock()
	if ok {
		c.changed()
	}
	return ok
}

// AddCompleted inserts a completed row for path at the top. It is a no-op
// when path is empty, not a regular file or not a listable kind. An existing
// row for path is updated instead.
func (c *Controller) AddCompleted(url, path string) (model.CatalogRow, bool) {
	return c.upsertPath(url, path)
}

// AddDerivedAsset inserts or updates the row for a produced sidecar such as
// an extracted MP3 or a transcript.
func (c *Controller) AddDerivedAsset(path string) (model.CatalogRow, bool) {
	return c.upsertPath("", path)
}

// SetBusy flags the completed row for path while a derived task targets it
func (c *Controller) SetBusy(path string, busy bool) {
	c.mu.Lock()
	r := c.findPathLocked(path)
	changed := r != nil && r.Busy != busy
	if changed {
		r.Busy = busy
	}
	c.mu.Unlock()
	if changed {
		c.changed()
	}
}

// Prune removes completed rows whose file no longer exists
func (c *Controller) Prune() int {
	c.mu.Lock()
	kept := c.rows[:0]
	removed := 0
	for _, r := range c.rows {
		if r.State == model.RowCompleted && !platform.IsRegularFile(r.Path) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(c.rows); i++ {
		c.rows[i] = nil
	}
	c.rows = kept
	c.mu.Unlock()

	if removed > 0 {
		c.changed()
	}
	return removed
}

// Group returns the artifact group around path with its known URL
func (c *Controller) Group(path string) (model.ArtifactGroup, error) {
	group, err := platform.BuildGroup(path)
	if err != nil {
		return group, err
	}
	group.URL = c.urlFor(path)
	return group, nil
}

func (c *Controller) upsertPath(url, path string) (model.CatalogRow, bool) {
	if !platform.IsRegularFile(path) {
		return model.CatalogRow{}, false
	}
	kind := platform.Classify(path)
	if !kind.IsListable() {
		return model.CatalogRow{}, false
	}

	c.mu.Lock()
	row := c.findPathLocked(path)
	if row == nil {
		row = &model.CatalogRow{
			ID:    c.newIDLocked(),
			State: model.RowCompleted,
			Path:  path,
		}
		c.rows = append([]*model.CatalogRow{row}, c.rows...)
	}
	row.Kind = kind
	row.Percent = 100
	if url != "" {
		row.URL = url
	}
	fillStat(row)
	c.applyFilterLocked(row)
	snap := *row
	c.mu.Unlock()

	c.changed()
	return snap, true
}

func (c *Controller) updateRow(rowID string, fn func(r *model.CatalogRow) bool) error {
	c.mu.Lock()
	r := c.findLocked(rowID)
	if r == nil {
		c.mu.Unlock()
		return model.ErrRowNotFound
	}
	changed := fn(r)
	if changed {
		c.applyFilterLocked(r)
	}
	c.mu.Unlock()

	if changed {
		c.changed()
	}
	return nil
}

func (c *Controller) changed() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Controller) urlFor(path string) string {
	if row, ok := c.RowByPath(path); ok && row.URL != "" {
		return row.URL
	}
	if c.urls != nil {
		return c.urls.URLFor(path)
	}
	return ""
}

func (c *Controller) newIDLocked() string {
	c.nextID++
	return fmt.Sprintf("row-%d", c.nextID)
}

func (c *Controller) indexLocked(id string) int {
	for i, r := range c.rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) findLocked(id string) *model.CatalogRow {
	if i := c.indexLocked(id); i >= 0 {
		return c.rows[i]
	}
	return nil
}

func (c *Controller) findPathLocked(path string) *model.CatalogRow {
	if path == "" {
		return nil
	}
	for _, r := range c.rows {
		if r.Path == path {
			return r
		}
	}
	return nil
}

func (c *Controller) deleteLocked(id string) bool {
	i := c.indexLocked(id)
	if i < 0 {
		return false
	}
	c.rows = append(c.rows[:i], c.rows[i+1:]...)
	return true
}

// fillStat refreshes size and modification time from disk
func fillStat(r *model.CatalogRow) {
	info, err := os.Stat(r.Path)
	if err != nil {
		return
	}
	r.Size = info.Size()
	r.ModTime = info.ModTime()
}

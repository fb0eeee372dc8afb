package catalog

import (
	"github.com/ytget/yt-studio/internal/model"
	"github.com/ytget/yt-studio/internal/platform"
)

// Rescan rebuilds the completed rows from the files in root, newest first.
// Transient rows stay on top; completed rows keep their IDs, URLs and busy
// flags when their file is still present.
func (c *Controller) Rescan(root string) error {
	entries, err := platform.ScanDirectory(root)
	if err != nil {
		return err
	}

	c.mu.Lock()
	existing := make(map[string]*model.CatalogRow)
	rows := make([]*model.CatalogRow, 0, len(entries)+len(c.rows))
	for _, r := range c.rows {
		if r.State.IsTransient() {
			rows = append(rows, r)
		} else if r.Path != "" {
			existing[r.Path] = r
		}
	}

	for _, e := range entries {
		row, ok := existing[e.Path]
		if !ok {
			row = &model.CatalogRow{
				ID:    c.newIDLocked(),
				State: model.RowCompleted,
				Path:  e.Path,
			}
		}
		row.Kind = e.Kind
		row.Percent = 100
		row.Size = e.Size
		row.ModTime = e.ModTime
		if row.URL == "" && c.urls != nil {
			row.URL = c.urls.URLFor(e.Path)
		}
		c.applyFilterLocked(row)
		rows = append(rows, row)
	}
	c.rows = rows
	c.mu.Unlock()

	c.changed()
	return nil
}

package catalog

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/ytget/yt-studio/internal/model"
)

// Filter sets the text query and kind filter and recomputes visibility.
// Rows are never added or removed by filtering.
func (c *Controller) Filter(query string, kind model.KindFilter) {
	c.mu.Lock()
	c.query = strings.TrimSpace(query)
	if kind == "" {
		kind = model.FilterAll
	}
	c.filter = kind
	for _, r := range c.rows {
		c.applyFilterLocked(r)
	}
	c.mu.Unlock()

	c.changed()
}

// CurrentFilter returns the active query and kind filter
func (c *Controller) CurrentFilter() (string, model.KindFilter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query, c.filter
}

// applyFilterLocked sets r.Visible; the caller holds mu.
// Transient rows ignore the kind filter since their kind is not known yet.
func (c *Controller) applyFilterLocked(r *model.CatalogRow) {
	r.Visible = Matches(*r, c.query, c.filter)
}

// Matches reports whether row passes a text query and kind filter. The text
// test is a case-insensitive substring match on the display name.
func Matches(row model.CatalogRow, query string, kind model.KindFilter) bool {
	if row.State == model.RowCompleted && !kind.Matches(row.Kind) {
		return false
	}
	if query == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(row.DisplayName()), fold.String(query))
}

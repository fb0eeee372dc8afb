package model

import (
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// CatalogRow is one entry of the downloads list
type CatalogRow struct {
	ID      string
	State   RowState
	Kind    ArtifactKind
	Path    string // empty while downloading
	URL     string // empty when unknown, e.g. discovered on disk
	Quality Quality
	Percent int
	TaskID  string // active task for transient rows
	Busy    bool   // a derived-asset task targets this row
	Visible bool
	Size    int64
	ModTime time.Time
}

// DisplayName returns the file name, or the URL for rows without a file yet
func (r CatalogRow) DisplayName() string {
	if r.Path != "" {
		return filepath.Base(r.Path)
	}
	return r.URL
}

// SizeLabel returns a human readable size, or "" when unknown
func (r CatalogRow) SizeLabel() string {
	if r.Size <= 0 {
		return ""
	}
	return humanize.Bytes(uint64(r.Size))
}

// AgeLabel returns a relative modification time, or "" when unknown
func (r CatalogRow) AgeLabel() string {
	if r.ModTime.IsZero() {
		return ""
	}
	return humanize.Time(r.ModTime)
}

package history

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/ytget/yt-studio/internal/model"
	"github.com/ytget/yt-studio/internal/platform"
)

// Entry is one recorded download
type Entry struct {
	ID        uint          `gorm:"primaryKey"`
	URL       string        `gorm:"not null"`
	Path      string        `gorm:"not null;uniqueIndex"`
	StemKey   string        `gorm:"not null;index"`
	Quality   model.Quality `gorm:"type:text"`
	CreatedAt time.Time     `gorm:"index"`
}

// TableName overrides the gorm default
func (Entry) TableName() string { return "downloads" }

// Store is a sqlite-backed download history
type Store struct {
	db *gorm.DB
}

// Open opens or creates the history database at path. ":memory:" is accepted.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := platform.CreateDirectoryIfNotExists(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return &Store{db: db}, nil
}

// Record stores url as the source of path, replacing an earlier record
func (s *Store) Record(url, path string, quality model.Quality) error {
	if url == "" || path == "" {
		return nil
	}
	entry := Entry{
		URL:       url,
		Path:      path,
		StemKey:   platform.StemPath(path),
		Quality:   quality,
		CreatedAt: time.Now(),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "stem_key", "quality", "created_at"}),
	}).Create(&entry).Error
}

// URLFor returns the recorded URL for path, falling back to any record with
// the same directory and stem. Returns "" when unknown.
func (s *Store) URLFor(path string) string {
	var entry Entry
	err := s.db.Where("path = ?", path).Take(&entry).Error
	if err == nil {
		return entry.URL
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return ""
	}

	err = s.db.Where("stem_key = ?", platform.StemPath(path)).Order("created_at desc").Take(&entry).Error
	if err != nil {
		return ""
	}
	return entry.URL
}

// Forget removes records for the given paths
func (s *Store) Forget(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	return s.db.Where("path IN ?", paths).Delete(&Entry{}).Error
}

// Recent returns the newest entries first
func (s *Store) Recent(limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.Order("created_at desc").Limit(limit).Find(&entries).Error
	return entries, err
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

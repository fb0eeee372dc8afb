package platform

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Thumbnail cache settings
const (
	ThumbnailCacheTTL     = 10 * time.Minute
	ThumbnailCacheCleanup = 15 * time.Minute
)

// FrameExtractor grabs a single still frame from a video
type FrameExtractor interface {
	ExtractFrame(ctx context.Context, video, out string) error
}

// ThumbnailResolver finds or produces a preview image for a media file.
// Lookups are cached per media path; misses are cached too so a failing
// extraction is not retried on every redraw.
type ThumbnailResolver struct {
	extractor FrameExtractor
	cache     *cache.Cache
	logger    *logrus.Logger
}

// NewThumbnailResolver creates a resolver. extractor may be nil, in which case
// only existing images are returned.
func NewThumbnailResolver(extractor FrameExtractor, logger *logrus.Logger) *ThumbnailResolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ThumbnailResolver{
		extractor: extractor,
		cache:     cache.New(ThumbnailCacheTTL, ThumbnailCacheCleanup),
		logger:    logger,
	}
}

// Resolve returns an image path for media, or "" when none is available.
func (r *ThumbnailResolver) Resolve(ctx context.Context, media string) string {
	if cached, ok := r.cache.Get(media); ok {
		path := cached.(string)
		if path == "" || IsRegularFile(path) {
			return path
		}
		r.cache.Delete(media)
	}

	path := r.lookup(ctx, media)
	r.cache.SetDefault(media, path)
	return path
}

// Invalidate drops cached entries for media
func (r *ThumbnailResolver) Invalidate(media string) {
	r.cache.Delete(media)
}

func (r *ThumbnailResolver) lookup(ctx context.Context, media string) string {
	if media == "" {
		return ""
	}
	if existing := FindSiblingImage(media); existing != "" {
		return existing
	}
	if r.extractor == nil || !IsVideoFile(media) {
		return ""
	}

	out := ThumbnailPath(media)
	if err := r.extractor.ExtractFrame(ctx, media, out); err != nil {
		r.logger.WithError(err).WithField("media", media).Debug("thumbnail extraction failed")
		return ""
	}
	if !IsRegularFile(out) {
		return ""
	}
	return out
}

// FindSiblingImage returns an image next to media whose name starts with the
// media stem, preferring the extracted-frame name.
func FindSiblingImage(media string) string {
	preferred := ThumbnailPath(media)
	if IsRegularFile(preferred) {
		return preferred
	}

	dir := filepath.Dir(media)
	stem := Stem(media)
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasPrefix(name, stem) {
			continue
		}
		if contains(ThumbnailExtensions, strings.ToLower(filepath.Ext(name))) {
			return filepath.Join(dir, name)
		}
	}
	return ""
}

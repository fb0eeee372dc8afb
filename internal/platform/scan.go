package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ytget/yt-studio/internal/model"
)

// Entry is a classified file found in a download directory
type Entry struct {
	Path    string
	Name    string
	Kind    model.ArtifactKind
	ModTime time.Time
	Size    int64
}

// ScanDirectory lists listable artifacts directly under root, newest first.
// Temporary files, thumbnails and unknown kinds are skipped.
func ScanDirectory(root string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		name := de.Name()
		if IsTempFile(name) {
			continue
		}
		kind := Classify(name)
		if !kind.IsListable() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		entries = append(entries, Entry{
			Path:    filepath.Join(root, name),
			Name:    name,
			Kind:    kind,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].ModTime.Equal(entries[j].ModTime) {
			return entries[i].ModTime.After(entries[j].ModTime)
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// GroupFiles returns the files that share the stem of stemPath: the primary
// file if it exists and every sibling named "<stem>.<sidecar suffix>".
// The result is sorted and contains no duplicates.
func GroupFiles(stemPath string) ([]string, error) {
	dir := filepath.Dir(stemPath)
	stem := Stem(stemPath)

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	primary := filepath.Base(stemPath)
	var files []string
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if name == primary || IsSidecarName(name, stem) {
			files = append(files, filepath.Join(dir, name))
		}
	}
	sort.Strings(files)
	return files, nil
}

// BuildGroup classifies the members of a stem group into an ArtifactGroup
func BuildGroup(stemPath string) (model.ArtifactGroup, error) {
	group := model.ArtifactGroup{
		Dir:  filepath.Dir(stemPath),
		Stem: Stem(stemPath),
	}
	files, err := GroupFiles(stemPath)
	if err != nil {
		return group, err
	}
	for _, file := range files {
		switch Classify(file) {
		case model.KindVideo:
			group.Media = file
		case model.KindMusic:
			group.Audio = file
		case model.KindText:
			if group.Transcript == "" || filepath.Base(file) == group.Stem+TranscriptSuffix {
				group.Transcript = file
			}
		case model.KindThumbnail:
			if group.Thumbnail == "" || filepath.Base(file) == group.Stem+ThumbnailSuffix {
				group.Thumbnail = file
			}
		}
	}
	return group, nil
}

// Snapshot records the regular files in dir with their modification times.
// A missing directory yields an empty snapshot.
func Snapshot(dir string) map[string]time.Time {
	snap := make(map[string]time.Time)
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return snap
	}
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		snap[filepath.Join(dir, de.Name())] = info.ModTime()
	}
	return snap
}

// NewestAdded returns the most recently modified file present in after but not
// in before, ignoring temporary files. Returns "" when nothing was added.
func NewestAdded(before, after map[string]time.Time) string {
	var (
		newest     string
		newestTime time.Time
	)
	for path, mod := range after {
		if _, seen := before[path]; seen {
			continue
		}
		if IsTempFile(path) {
			continue
		}
		if newest == "" || mod.After(newestTime) || (mod.Equal(newestTime) && path < newest) {
			newest = path
			newestTime = mod
		}
	}
	return newest
}

package platform

import (
	"path/filepath"
	"strings"

	"github.com/ytget/yt-studio/internal/model"
)

// Compound suffixes written next to media files
const (
	TranscriptSuffix = ".transcript.txt"
	ThumbnailSuffix  = ".thumb.jpg"
	MP3Extension     = ".mp3"
)

// Extension sets used for classification (lowercase, with dot)
var (
	VideoExtensions     = []string{".mp4", ".mkv", ".webm", ".mov", ".avi", ".flv", ".m4v"}
	MusicExtensions     = []string{MP3Extension}
	TextExtensions      = []string{".srt", ".vtt", ".txt"}
	ThumbnailExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// TempSuffixes mark partial or in-progress files
var (
	TempSuffixes = []string{".part", ".temp", ".tmp", ".ytdl"}
)

// SidecarSuffixes are deleted together with their media file
var (
	SidecarSuffixes = []string{MP3Extension, TranscriptSuffix, ".srt", ".vtt", ".jpg", ".jpeg", ".png", ".webp", ThumbnailSuffix}
)

// Classify maps a file name to its artifact kind
func Classify(name string) model.ArtifactKind {
	lower := strings.ToLower(filepath.Base(name))
	if strings.HasSuffix(lower, TranscriptSuffix) {
		return model.KindText
	}

	ext := filepath.Ext(lower)
	switch {
	case contains(VideoExtensions, ext):
		return model.KindVideo
	case contains(MusicExtensions, ext):
		return model.KindMusic
	case contains(TextExtensions, ext):
		return model.KindText
	case contains(ThumbnailExtensions, ext):
		return model.KindThumbnail
	default:
		return model.KindUnknown
	}
}

// IsVideoFile reports whether name has a video extension
func IsVideoFile(name string) bool {
	return Classify(name) == model.KindVideo
}

// IsTempFile reports whether name is a partial/temporary download artifact
func IsTempFile(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range TempSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// Stem returns the base name without its classification suffix.
// "a.transcript.txt" and "a.thumb.jpg" both yield "a".
func Stem(path string) string {
	base := filepath.Base(path)
	lower := strings.ToLower(base)
	for _, compound := range []string{TranscriptSuffix, ThumbnailSuffix} {
		if strings.HasSuffix(lower, compound) && len(base) > len(compound) {
			return base[:len(base)-len(compound)]
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// StemPath returns dir/stem for path, the key shared by a group
func StemPath(path string) string {
	return filepath.Join(filepath.Dir(path), Stem(path))
}

// TranscriptPath returns <stem>.transcript.txt next to media
func TranscriptPath(media string) string {
	return StemPath(media) + TranscriptSuffix
}

// ThumbnailPath returns the deterministic extracted-frame path <stem>.thumb.jpg
func ThumbnailPath(media string) string {
	return StemPath(media) + ThumbnailSuffix
}

// MP3Path returns <stem>.mp3 next to media
func MP3Path(media string) string {
	return StemPath(media) + MP3Extension
}

// IsSidecarName reports whether name belongs to the group of stem:
// it must start with "<stem>." and end with a known sidecar suffix.
func IsSidecarName(name, stem string) bool {
	if stem == "" || !strings.HasPrefix(name, stem+".") {
		return false
	}
	lower := strings.ToLower(name)
	for _, suffix := range SidecarSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

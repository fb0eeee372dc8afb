package download

import (
	"fmt"

	"github.com/ytget/yt-studio/internal/model"
)

// Common yt-dlp options
const (
	OutputTemplate       = "%(title)s.%(ext)s"
	ConcurrentFragments  = 4
	ThumbnailFormat      = "jpg"
	DefaultAudioFormat   = "mp3"
	DefaultAudioQuality  = "192"
	FormatBest           = "bestvideo+bestaudio/best"
	FormatMP4            = "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	FormatBestAudio      = "bestaudio/best"
	expectedExtensionMP4 = ".mp4"
	expectedExtensionMP3 = ".mp3"
)

// Profile is the set of yt-dlp options for a quality
type Profile struct {
	Format       string
	ExtractAudio bool
	AudioFormat  string
	AudioQuality string
	// ExpectedExt is the extension the final file should carry, "" when the
	// container is chosen by yt-dlp
	ExpectedExt string
}

// ProfileFor returns the download profile for quality
func ProfileFor(quality model.Quality) (Profile, error) {
	switch quality {
	case model.QualityBest, "":
		return Profile{Format: FormatBest}, nil
	case model.QualityMP4:
		return Profile{Format: FormatMP4, ExpectedExt: expectedExtensionMP4}, nil
	case model.QualityMP3:
		return Profile{
			Format:       FormatBestAudio,
			ExtractAudio: true,
			AudioFormat:  DefaultAudioFormat,
			AudioQuality: DefaultAudioQuality,
			ExpectedExt:  expectedExtensionMP3,
		}, nil
	default:
		return Profile{}, fmt.Errorf("unknown quality: %q", quality)
	}
}

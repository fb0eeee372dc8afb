package transcode

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"

	"github.com/ytget/yt-studio/internal/platform"
)

// TagMP3 writes the title tag of an extracted MP3 and embeds the sibling
// thumbnail as front cover when one exists.
func TagMP3(mp3Path, title string) error {
	tag, err := id3v2.Open(mp3Path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("id3 open error: %w", err)
	}
	defer tag.Close()

	tag.SetVersion(3)
	if title != "" {
		tag.SetTitle(title)
	}

	if cover := platform.FindSiblingImage(mp3Path); cover != "" {
		if imgBytes, err := os.ReadFile(cover); err == nil {
			tag.AddAttachedPicture(id3v2.PictureFrame{
				Encoding:    id3v2.EncodingUTF8,
				MimeType:    mimeTypeFor(cover),
				PictureType: id3v2.PTFrontCover,
				Picture:     imgBytes,
			})
		}
	}

	return tag.Save()
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

package config

import (
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/yt-studio/internal/model"
	"github.com/ytget/yt-studio/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyQuality            = "default_quality"
	KeyTranscriptLanguage = "transcript_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
	KeyLanguage           = "language"
)

// Default values
const (
	DefaultQuality            = model.QualityBest
	DefaultTranscriptLanguage = ""
	DefaultAutoRevealComplete = false
	DefaultLanguage           = "system"
	fallbackDownloadDir       = "downloads"
)

// Settings manages user preferences persisted by Fyne
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = filepath.Join(".", fallbackDownloadDir)
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetQuality returns the quality preselected in the download bar
func (s *Settings) GetQuality() model.Quality {
	q := model.Quality(s.app.Preferences().String(KeyQuality))
	if !q.Valid() {
		return DefaultQuality
	}
	return q
}

// SetQuality stores the preferred quality; unknown values reset to the default
func (s *Settings) SetQuality(q model.Quality) {
	if !q.Valid() {
		q = DefaultQuality
	}
	s.app.Preferences().SetString(KeyQuality, string(q))
}

// GetTranscriptLanguage returns the speech recognition hint, "" for auto-detect
func (s *Settings) GetTranscriptLanguage() string {
	return s.app.Preferences().StringWithFallback(KeyTranscriptLanguage, DefaultTranscriptLanguage)
}

// SetTranscriptLanguage sets the speech recognition hint
func (s *Settings) SetTranscriptLanguage(lang string) {
	s.app.Preferences().SetString(KeyTranscriptLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to reveal completed downloads in the file manager
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to reveal completed downloads
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetTranscriptLanguageOptions returns the language hints offered in settings
func (s *Settings) GetTranscriptLanguageOptions() map[string]string {
	return map[string]string{
		"":   "Auto-detect",
		"en": "English",
		"de": "Deutsch",
		"es": "Español",
		"fr": "Français",
		"pt": "Português",
		"ru": "Русский",
	}
}

// GetLanguage returns the interface language code or "system"
func (s *Settings) GetLanguage() string {
	return s.app.Preferences().StringWithFallback(KeyLanguage, DefaultLanguage)
}

// SetLanguage sets the interface language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns the interface languages
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System",
		"en":     "English",
		"ru":     "Русский",
	}
}

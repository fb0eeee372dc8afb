package ui

import (
	"fyne.io/fyne/v2/lang"
	"golang.org/x/text/language"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle           = "app_title"
	KeyFile               = "file"
	KeyLanguage           = "language"
	KeySettings           = "settings"
	KeyRescan             = "rescan"
	KeyEnterURL           = "enter_url"
	KeySearch             = "search"
	KeyBest               = "best"
	KeyMP4                = "mp4"
	KeyMP3                = "mp3"
	KeyKindAll            = "kind_all"
	KeyKindVideo          = "kind_video"
	KeyKindMusic          = "kind_music"
	KeyKindText           = "kind_text"
	KeyPause              = "pause"
	KeyResume             = "resume"
	KeyRetry              = "retry"
	KeyStop               = "stop"
	KeyDismiss            = "dismiss"
	KeyOpen               = "open"
	KeyReveal             = "reveal"
	KeyCopyPath           = "copy_path"
	KeyExtractMP3         = "extract_mp3"
	KeyTranscribe         = "transcribe"
	KeyDelete             = "delete"
	KeyDeleteTitle        = "delete_title"
	KeyDeleteConfirm      = "delete_confirm"
	KeyPathCopied         = "path_copied"
	KeyDownloading        = "downloading"
	KeyPaused             = "paused"
	KeyFailed             = "failed"
	KeyWorking            = "working"
	KeyEmptyList          = "empty_list"
	KeyDownloadDirectory  = "download_directory"
	KeyQuality            = "quality"
	KeyTranscriptLanguage = "transcript_language"
	KeyAutoReveal         = "auto_reveal"
	KeySave               = "save"
	KeyCancel             = "cancel"
	KeyBrowse             = "browse"
	KeySettingsSaved      = "settings_saved"
	KeyOpenFolder         = "open_folder"
	KeyPaste              = "paste"
	KeyClipboardEmpty     = "clipboard_empty"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language. "system" picks the OS locale when
// it is supported.
func (l *Localization) SetLanguage(code string) {
	if code == "system" {
		code = baseLanguage(string(lang.SystemLocale()))
	}

	if _, exists := l.texts[code]; exists {
		l.currentLanguage = code
	} else {
		l.currentLanguage = "en"
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if text, found := l.texts["en"][key]; found {
		return text
	}
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// baseLanguage reduces a locale such as "ru-RU" to its base language
func baseLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return "en"
	}
	base, _ := tag.Base()
	return base.String()
}

func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:           "YT Studio",
		KeyFile:               "File",
		KeyLanguage:           "Language",
		KeySettings:           "Settings",
		KeyRescan:             "Rescan folder",
		KeyOpenFolder:         "Open downloads folder",
		KeyPaste:              "Paste URL",
		KeyClipboardEmpty:     "Clipboard is empty",
		KeyEnterURL:           "Paste a video URL (https://...)",
		KeySearch:             "Search files",
		KeyBest:               "Best",
		KeyMP4:                "MP4",
		KeyMP3:                "MP3",
		KeyKindAll:            "All",
		KeyKindVideo:          "Video",
		KeyKindMusic:          "Music",
		KeyKindText:           "Text",
		KeyPause:              "Pause",
		KeyResume:             "Resume",
		KeyRetry:              "Retry",
		KeyStop:               "Stop",
		KeyDismiss:            "Dismiss",
		KeyOpen:               "Open",
		KeyReveal:             "Show",
		KeyCopyPath:           "Path",
		KeyExtractMP3:         "MP3",
		KeyTranscribe:         "Text",
		KeyDelete:             "Delete",
		KeyDeleteTitle:        "Delete files",
		KeyDeleteConfirm:      "Delete %s and its related files?",
		KeyPathCopied:         "Path copied to clipboard",
		KeyDownloading:        "Downloading",
		KeyPaused:             "Paused",
		KeyFailed:             "Failed",
		KeyWorking:            "Working...",
		KeyEmptyList:          "No files yet",
		KeyDownloadDirectory:  "Download Directory",
		KeyQuality:            "Default Quality",
		KeyTranscriptLanguage: "Transcript Language",
		KeyAutoReveal:         "Show file when download completes",
		KeySave:               "Save",
		KeyCancel:             "Cancel",
		KeyBrowse:             "Browse",
		KeySettingsSaved:      "Settings saved",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:           "YT Студия",
		KeyFile:               "Файл",
		KeyLanguage:           "Язык",
		KeySettings:           "Настройки",
		KeyRescan:             "Обновить папку",
		KeyOpenFolder:         "Открыть папку загрузок",
		KeyPaste:              "Вставить ссылку",
		KeyClipboardEmpty:     "Буфер обмена пуст",
		KeyEnterURL:           "Вставьте ссылку на видео (https://...)",
		KeySearch:             "Поиск файлов",
		KeyBest:               "Лучшее",
		KeyKindAll:            "Все",
		KeyKindVideo:          "Видео",
		KeyKindMusic:          "Музыка",
		KeyKindText:           "Текст",
		KeyPause:              "Пауза",
		KeyResume:             "Продолжить",
		KeyRetry:              "Повторить",
		KeyStop:               "Стоп",
		KeyDismiss:            "Убрать",
		KeyOpen:               "Открыть",
		KeyReveal:             "Показать",
		KeyCopyPath:           "Путь",
		KeyTranscribe:         "Текст",
		KeyDelete:             "Удалить",
		KeyDeleteTitle:        "Удаление файлов",
		KeyDeleteConfirm:      "Удалить %s и связанные файлы?",
		KeyPathCopied:         "Путь скопирован",
		KeyDownloading:        "Загрузка",
		KeyPaused:             "Пауза",
		KeyFailed:             "Ошибка",
		KeyWorking:            "Обработка...",
		KeyEmptyList:          "Файлов пока нет",
		KeyDownloadDirectory:  "Папка загрузки",
		KeyQuality:            "Качество по умолчанию",
		KeyTranscriptLanguage: "Язык расшифровки",
		KeyAutoReveal:         "Показывать файл после загрузки",
		KeySave:               "Сохранить",
		KeyCancel:             "Отмена",
		KeyBrowse:             "Обзор",
		KeySettingsSaved:      "Настройки сохранены",
	}
}

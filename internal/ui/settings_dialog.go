package ui

import (
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-studio/internal/config"
	"github.com/ytget/yt-studio/internal/model"
)

// SettingsDialog edits the persisted preferences
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	downloadDirEntry *widget.Entry
	qualitySelect    *widget.Select
	languageSelect   *widget.Select
	autoRevealCheck  *widget.Check

	// languageCodes maps select labels back to transcript language codes
	languageCodes map[string]string
}

// NewSettingsDialog creates a new settings dialog; onSaved runs after a save
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *SettingsDialog) createUI() {
	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(sd.localization.GetText(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	var qualities []string
	for _, q := range model.Qualities() {
		qualities = append(qualities, string(q))
	}
	sd.qualitySelect = widget.NewSelect(qualities, nil)

	sd.languageCodes = make(map[string]string)
	var labels []string
	for code, label := range sd.settings.GetTranscriptLanguageOptions() {
		sd.languageCodes[label] = code
		labels = append(labels, label)
	}
	sort.Strings(labels)
	sd.languageSelect = widget.NewSelect(labels, nil)

	sd.autoRevealCheck = widget.NewCheck(sd.localization.GetText(KeyAutoReveal), nil)

	form := widget.NewForm(
		widget.NewFormItem(sd.localization.GetText(KeyDownloadDirectory), downloadDirRow),
		widget.NewFormItem(sd.localization.GetText(KeyQuality), sd.qualitySelect),
		widget.NewFormItem(sd.localization.GetText(KeyTranscriptLanguage), sd.languageSelect),
		widget.NewFormItem("", sd.autoRevealCheck),
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)
	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

func (sd *SettingsDialog) loadCurrentSettings() {
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.qualitySelect.SetSelected(string(sd.settings.GetQuality()))
	sd.languageSelect.SetSelected(sd.settings.GetTranscriptLanguageOptions()[sd.settings.GetTranscriptLanguage()])
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnComplete())
}

func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}
	if sd.qualitySelect.Selected != "" {
		sd.settings.SetQuality(model.Quality(sd.qualitySelect.Selected))
	}
	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetTranscriptLanguage(code)
	}
	sd.settings.SetAutoRevealOnComplete(sd.autoRevealCheck.Checked)

	if sd.onSaved != nil {
		sd.onSaved()
	}
}

package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-studio/internal/app"
	"github.com/ytget/yt-studio/internal/config"
	"github.com/ytget/yt-studio/internal/model"
)

// RootUI represents the main window content
type RootUI struct {
	window       fyne.Window
	studio       *app.Studio
	settings     *config.Settings
	localization *Localization
	logger       *logrus.Logger

	urlEntry    *widget.Entry
	qualityBtns map[model.Quality]*widget.Button
	searchEntry *widget.Entry
	kindSelect  *widget.Select
	kindByLabel map[string]model.KindFilter
	list        *widget.List
	emptyLabel  *widget.Label
	statusLabel *widget.Label

	// rows is the visible snapshot rendered by list; UI goroutine only
	rows []model.CatalogRow

	// thumbnails maps media paths to preview images; "" caches a miss
	thumbnails map[string]string
	loading    map[string]bool

	statusMu    sync.Mutex
	statusToken int

	refreshMu      sync.Mutex
	refreshPending bool
}

// NewRootUI builds the window content around studio
func NewRootUI(window fyne.Window, studio *app.Studio, settings *config.Settings, logger *logrus.Logger) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		studio:       studio,
		settings:     settings,
		localization: localization,
		logger:       logger,
		qualityBtns:  make(map[model.Quality]*widget.Button),
		thumbnails:   make(map[string]string),
		loading:      make(map[string]bool),
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()

	studio.Catalog().SetOnChange(ui.scheduleRefresh)
	studio.SetDownloadsEnabledCallback(ui.setDownloadsEnabled)
	ui.reloadRows()
	return ui
}

// Notify shows a transient message in the status bar. Safe from any goroutine.
func (ui *RootUI) Notify(message string) {
	fyne.Do(func() { ui.showStatus(message) })
}

func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.Validator = func(s string) error {
		if s == "" {
			return nil
		}
		return app.ValidateURL(s)
	}
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownload(ui.settings.GetQuality())
	}

	buttons := container.NewHBox()
	for _, q := range model.Qualities() {
		quality := q
		btn := widget.NewButton(ui.qualityText(quality), func() { ui.onDownload(quality) })
		if quality == ui.settings.GetQuality() {
			btn.Importance = widget.HighImportance
		}
		ui.qualityBtns[quality] = btn
		buttons.Add(btn)
	}

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance
	pasteBtn := widget.NewButton(IconPaste, ui.onPaste)
	pasteBtn.Importance = widget.LowImportance
	topPanel := container.NewBorder(nil, nil, container.NewHBox(settingsBtn, pasteBtn), buttons, ui.urlEntry)

	// Keep the active filter across rebuilds
	query, active := ui.studio.Catalog().CurrentFilter()

	ui.searchEntry = widget.NewEntry()
	ui.searchEntry.SetPlaceHolder(ui.localization.GetText(KeySearch))
	ui.searchEntry.SetText(query)
	ui.searchEntry.OnChanged = func(string) { ui.applyFilter() }

	ui.kindByLabel = make(map[string]model.KindFilter)
	var labels []string
	selected := ""
	for _, f := range model.KindFilters() {
		label := ui.filterText(f)
		ui.kindByLabel[label] = f
		labels = append(labels, label)
		if f == active {
			selected = label
		}
	}
	if selected == "" {
		selected = labels[0]
	}
	ui.kindSelect = widget.NewSelect(labels, func(string) { ui.applyFilter() })
	ui.kindSelect.SetSelected(selected)
	openBtn := widget.NewButton(IconFolder, ui.onOpenDownloads)
	openBtn.Importance = widget.LowImportance
	filterPanel := container.NewBorder(nil, nil, nil, container.NewHBox(ui.kindSelect, openBtn), ui.searchEntry)

	ui.list = widget.NewList(
		func() int { return len(ui.rows) },
		func() fyne.CanvasObject { return NewCatalogRowWidget(ui.rowActions(), ui.localization) },
		ui.updateItem,
	)

	ui.emptyLabel = widget.NewLabel(ui.localization.GetText(KeyEmptyList))
	ui.emptyLabel.Alignment = fyne.TextAlignCenter

	ui.statusLabel = widget.NewLabel("")
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis

	content := container.NewBorder(
		container.NewVBox(topPanel, filterPanel),
		ui.statusLabel,
		nil,
		nil,
		container.NewStack(ui.list, container.NewCenter(ui.emptyLabel)),
	)
	ui.window.SetContent(content)
}

func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	rescanItem := fyne.NewMenuItem(ui.localization.GetText(KeyRescan), ui.onRescan)
	openItem := fyne.NewMenuItem(ui.localization.GetText(KeyOpenFolder), ui.onOpenDownloads)
	pasteItem := fyne.NewMenuItem(ui.localization.GetText(KeyPaste), ui.onPaste)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	current := ui.settings.GetLanguage()
	for _, code := range []string{"system", "en", "ru"} {
		langCode := code
		item := fyne.NewMenuItem(ui.settings.GetLanguageOptions()[code], func() {
			ui.onLanguageChange(langCode)
		})
		item.Checked = code == current
		languageMenu.Items = append(languageMenu.Items, item)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), pasteItem, openItem, rescanItem, fyne.NewMenuItemSeparator(), settingsItem),
		languageMenu,
	))
}

func (ui *RootUI) onLanguageChange(code string) {
	ui.settings.SetLanguage(code)
	ui.localization.SetLanguage(code)

	// Widgets read their texts on creation
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.setupUI()
	ui.setDownloadsEnabled(!ui.studio.Supervisor().DownloadActive())
	ui.reloadRows()
}

func (ui *RootUI) qualityText(q model.Quality) string {
	switch q {
	case model.QualityMP4:
		return ui.localization.GetText(KeyMP4)
	case model.QualityMP3:
		return ui.localization.GetText(KeyMP3)
	}
	return ui.localization.GetText(KeyBest)
}

func (ui *RootUI) filterText(f model.KindFilter) string {
	switch f {
	case model.FilterVideo:
		return ui.localization.GetText(KeyKindVideo)
	case model.FilterMusic:
		return ui.localization.GetText(KeyKindMusic)
	case model.FilterText:
		return ui.localization.GetText(KeyKindText)
	}
	return ui.localization.GetText(KeyKindAll)
}

func (ui *RootUI) onDownload(quality model.Quality) {
	if _, err := ui.studio.Download(ui.urlEntry.Text, quality); err != nil {
		ui.logger.WithError(err).Debug("download not started")
		return
	}
	ui.urlEntry.SetText("")
}

func (ui *RootUI) setDownloadsEnabled(enabled bool) {
	for _, btn := range ui.qualityBtns {
		setEnabled(btn, enabled)
	}
}

func (ui *RootUI) applyFilter() {
	kind := ui.kindByLabel[ui.kindSelect.Selected]
	ui.studio.Catalog().Filter(ui.searchEntry.Text, kind)
}

func (ui *RootUI) rowActions() RowActions {
	// Errors are reported through Notify by the studio
	ignore := func(fn func(string) error) func(string) {
		return func(id string) { _ = fn(id) }
	}
	return RowActions{
		Pause:      ignore(ui.studio.Pause),
		Resume:     ignore(ui.studio.Resume),
		Stop:       ignore(ui.studio.Stop),
		Open:       ignore(ui.studio.Open),
		Reveal:     ignore(ui.studio.Reveal),
		CopyPath:   ui.onCopyPath,
		ExtractMP3: ignore(ui.studio.ExtractMP3),
		Transcribe: ignore(ui.studio.Transcribe),
		Delete:     ui.onDelete,
	}
}

func (ui *RootUI) onCopyPath(rowID string) {
	row, ok := ui.studio.Catalog().Row(rowID)
	if !ok || row.Path == "" {
		return
	}
	fyne.CurrentApp().Clipboard().SetContent(row.Path)
	ui.showStatus(ui.localization.GetText(KeyPathCopied))
}

func (ui *RootUI) onDelete(rowID string) {
	row, ok := ui.studio.Catalog().Row(rowID)
	if !ok {
		return
	}
	message := fmt.Sprintf(ui.localization.GetText(KeyDeleteConfirm), row.DisplayName())
	dialog.ShowConfirm(ui.localization.GetText(KeyDeleteTitle), message, func(confirmed bool) {
		if confirmed {
			_ = ui.studio.DeleteGroup(rowID)
		}
	}, ui.window)
}

func (ui *RootUI) onRescan() {
	if err := ui.studio.Rescan(); err != nil {
		ui.showStatus(err.Error())
	}
}

func (ui *RootUI) onOpenDownloads() {
	if err := ui.studio.OpenDownloads(); err != nil {
		ui.logger.WithError(err).Debug("failed to open downloads folder")
	}
}

func (ui *RootUI) onPaste() {
	text := clipboardURL(fyne.CurrentApp().Clipboard().Content())
	if text == "" {
		ui.showStatus(ui.localization.GetText(KeyClipboardEmpty))
		return
	}
	ui.urlEntry.SetText(text)
	ui.window.Canvas().Focus(ui.urlEntry)
}

// clipboardURL returns the first non-blank line of clipboard text
func clipboardURL(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		ui.showStatus(ui.localization.GetText(KeySettingsSaved))
		ui.onRescan()
	}).Show()
}

// scheduleRefresh coalesces catalog change notifications into one reload
func (ui *RootUI) scheduleRefresh() {
	ui.refreshMu.Lock()
	if ui.refreshPending {
		ui.refreshMu.Unlock()
		return
	}
	ui.refreshPending = true
	ui.refreshMu.Unlock()

	time.AfterFunc(UIUpdateDebounce, func() {
		ui.refreshMu.Lock()
		ui.refreshPending = false
		ui.refreshMu.Unlock()
		fyne.Do(ui.reloadRows)
	})
}

func (ui *RootUI) reloadRows() {
	ui.rows = ui.studio.Catalog().Visible()

	listed := make(map[string]bool, len(ui.rows))
	for _, r := range ui.rows {
		listed[r.Path] = true
	}
	for path := range ui.thumbnails {
		if !listed[path] {
			delete(ui.thumbnails, path)
		}
	}

	setVisible(ui.emptyLabel, len(ui.rows) == 0)
	ui.list.Refresh()
}

func (ui *RootUI) updateItem(id widget.ListItemID, item fyne.CanvasObject) {
	if id < 0 || id >= len(ui.rows) {
		return
	}
	rowWidget, ok := item.(*CatalogRowWidget)
	if !ok {
		return
	}
	row := ui.rows[id]
	rowWidget.Update(row, ui.thumbnailFor(row))
}

// thumbnailFor returns a cached preview or starts loading one
func (ui *RootUI) thumbnailFor(row model.CatalogRow) string {
	if row.Path == "" || row.Kind == model.KindText {
		return ""
	}
	if thumb, ok := ui.thumbnails[row.Path]; ok {
		return thumb
	}
	if ui.loading[row.Path] {
		return ""
	}
	ui.loading[row.Path] = true

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ThumbnailTimeout)
		defer cancel()
		thumb := ui.studio.Thumbnail(ctx, row.ID)
		fyne.Do(func() {
			delete(ui.loading, row.Path)
			ui.thumbnails[row.Path] = thumb
			if thumb != "" {
				ui.list.Refresh()
			}
		})
	}()
	return ""
}

func (ui *RootUI) showStatus(message string) {
	ui.statusMu.Lock()
	ui.statusToken++
	token := ui.statusToken
	ui.statusMu.Unlock()

	ui.statusLabel.SetText(message)
	time.AfterFunc(StatusAutoHide, func() {
		ui.statusMu.Lock()
		current := ui.statusToken == token
		ui.statusMu.Unlock()
		if current {
			fyne.Do(func() { ui.statusLabel.SetText("") })
		}
	})
}

package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-studio/internal/model"
)

// RowActions are the callbacks behind the row buttons. Every callback gets
// the row ID.
type RowActions struct {
	Pause      func(rowID string)
	Resume     func(rowID string)
	Stop       func(rowID string)
	Open       func(rowID string)
	Reveal     func(rowID string)
	CopyPath   func(rowID string)
	ExtractMP3 func(rowID string)
	Transcribe func(rowID string)
	Delete     func(rowID string)
}

// CatalogRowWidget renders one catalog row
type CatalogRowWidget struct {
	widget.BaseWidget

	row          model.CatalogRow
	actions      RowActions
	localization *Localization

	thumb       *canvas.Image
	titleLabel  *widget.Label
	metaLabel   *widget.Label
	statusLabel *widget.Label
	progress    *widget.ProgressBar

	// transient rows
	pauseBtn *widget.Button
	stopBtn  *widget.Button

	// completed rows
	openBtn       *widget.Button
	revealBtn     *widget.Button
	copyBtn       *widget.Button
	mp3Btn        *widget.Button
	transcribeBtn *widget.Button
	deleteBtn     *widget.Button
}

// NewCatalogRowWidget creates an empty row widget for list recycling
func NewCatalogRowWidget(actions RowActions, localization *Localization) *CatalogRowWidget {
	w := &CatalogRowWidget{
		actions:      actions,
		localization: localization,
	}
	w.ExtendBaseWidget(w)
	w.createUI()
	return w
}

// Update shows row; thumbnail is an image path or ""
func (w *CatalogRowWidget) Update(row model.CatalogRow, thumbnail string) {
	w.row = row
	w.updateThumbnail(thumbnail)
	w.updateLabels()
	w.updateButtons()
	w.Refresh()
}

// Row returns the row currently shown
func (w *CatalogRowWidget) Row() model.CatalogRow {
	return w.row
}

func (w *CatalogRowWidget) createUI() {
	w.thumb = canvas.NewImageFromResource(nil)
	w.thumb.FillMode = canvas.ImageFillContain
	w.thumb.SetMinSize(fyne.NewSize(ThumbnailWidth, ThumbnailHeight))

	w.titleLabel = widget.NewLabel("")
	w.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	w.titleLabel.Truncation = fyne.TextTruncateEllipsis

	w.metaLabel = widget.NewLabel("")
	w.metaLabel.TextStyle = fyne.TextStyle{Monospace: true}

	w.statusLabel = widget.NewLabel("")
	w.statusLabel.Alignment = fyne.TextAlignTrailing

	w.progress = widget.NewProgressBar()
	w.progress.Max = 100

	w.pauseBtn = w.button(KeyPause, func(id string) {
		if w.row.State == model.RowDownloading {
			call(w.actions.Pause, id)
			return
		}
		call(w.actions.Resume, id)
	})
	w.stopBtn = w.button(KeyStop, func(id string) { call(w.actions.Stop, id) })

	w.openBtn = w.button(KeyOpen, func(id string) { call(w.actions.Open, id) })
	w.revealBtn = w.button(KeyReveal, func(id string) { call(w.actions.Reveal, id) })
	w.copyBtn = w.button(KeyCopyPath, func(id string) { call(w.actions.CopyPath, id) })
	w.mp3Btn = w.button(KeyExtractMP3, func(id string) { call(w.actions.ExtractMP3, id) })
	w.transcribeBtn = w.button(KeyTranscribe, func(id string) { call(w.actions.Transcribe, id) })
	w.deleteBtn = w.button(KeyDelete, func(id string) { call(w.actions.Delete, id) })
	w.deleteBtn.Importance = widget.DangerImportance
}

func (w *CatalogRowWidget) button(key string, fn func(rowID string)) *widget.Button {
	b := widget.NewButton(w.localization.GetText(key), func() {
		// Read the row at click time; list items are recycled
		if w.row.ID != "" {
			fn(w.row.ID)
		}
	})
	b.Importance = widget.MediumImportance
	return b
}

func call(fn func(string), id string) {
	if fn != nil {
		fn(id)
	}
}

func (w *CatalogRowWidget) updateThumbnail(path string) {
	if path == "" {
		w.thumb.File = ""
		w.thumb.Resource = nil
		w.thumb.Hide()
		return
	}
	if w.thumb.File != path {
		w.thumb.Resource = nil
		w.thumb.File = path
	}
	w.thumb.Show()
}

func (w *CatalogRowWidget) updateLabels() {
	r := w.row
	w.titleLabel.SetText(cleanText(r.DisplayName()))

	switch r.State {
	case model.RowDownloading:
		w.statusLabel.Importance = widget.HighImportance
		w.statusLabel.SetText(IconPlay + " " + w.localization.GetText(KeyDownloading))
		w.metaLabel.SetText(fmt.Sprintf(ProgressLabelFormat, r.Percent) + MiddleDotSeparator + strings.ToUpper(string(r.Quality)))
		w.progress.SetValue(float64(r.Percent))
		w.progress.Show()
	case model.RowPaused:
		w.statusLabel.Importance = widget.MediumImportance
		w.statusLabel.SetText(IconPause + " " + w.localization.GetText(KeyPaused))
		w.metaLabel.SetText(fmt.Sprintf(ProgressLabelFormat, r.Percent))
		w.progress.SetValue(float64(r.Percent))
		w.progress.Show()
	case model.RowFailed:
		w.statusLabel.Importance = widget.DangerImportance
		w.statusLabel.SetText(IconError + " " + w.localization.GetText(KeyFailed))
		w.metaLabel.SetText("")
		w.progress.Hide()
	default:
		w.statusLabel.Importance = widget.MediumImportance
		if r.Busy {
			w.statusLabel.SetText(IconBusy + " " + w.localization.GetText(KeyWorking))
		} else {
			w.statusLabel.SetText(w.kindLabel(r.Kind))
		}
		w.metaLabel.SetText(joinNonEmpty(MiddleDotSeparator, r.SizeLabel(), r.AgeLabel()))
		w.progress.Hide()
	}
}

func (w *CatalogRowWidget) kindLabel(kind model.ArtifactKind) string {
	switch kind {
	case model.KindVideo:
		return w.localization.GetText(KeyKindVideo)
	case model.KindMusic:
		return w.localization.GetText(KeyKindMusic)
	case model.KindText:
		return w.localization.GetText(KeyKindText)
	}
	return ""
}

func (w *CatalogRowWidget) updateButtons() {
	r := w.row
	transient := r.State.IsTransient()

	for _, b := range []*widget.Button{w.pauseBtn, w.stopBtn} {
		setVisible(b, transient)
	}
	for _, b := range []*widget.Button{w.openBtn, w.revealBtn, w.copyBtn, w.mp3Btn, w.transcribeBtn, w.deleteBtn} {
		setVisible(b, !transient)
	}

	if transient {
		switch r.State {
		case model.RowDownloading:
			w.pauseBtn.SetText(w.localization.GetText(KeyPause))
			w.stopBtn.SetText(w.localization.GetText(KeyStop))
		case model.RowPaused:
			w.pauseBtn.SetText(w.localization.GetText(KeyResume))
			w.stopBtn.SetText(w.localization.GetText(KeyDismiss))
		case model.RowFailed:
			w.pauseBtn.SetText(w.localization.GetText(KeyRetry))
			w.stopBtn.SetText(w.localization.GetText(KeyDismiss))
		}
		return
	}

	setEnabled(w.mp3Btn, r.Kind == model.KindVideo && !r.Busy)
	setEnabled(w.transcribeBtn, r.Kind != model.KindText && !r.Busy)
	setEnabled(w.deleteBtn, !r.Busy)
}

func setVisible(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.TrimSpace(s)
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// CreateRenderer creates the widget renderer
func (w *CatalogRowWidget) CreateRenderer() fyne.WidgetRenderer {
	// Fixed-width spacer keeps the status column aligned across rows
	spacer := canvas.NewRectangle(color.Transparent)
	spacer.SetMinSize(fyne.NewSize(StatusWidth, 0))
	status := container.NewStack(spacer, w.statusLabel)

	actions := container.NewHBox(
		w.pauseBtn, w.stopBtn,
		w.openBtn, w.revealBtn, w.copyBtn, w.mp3Btn, w.transcribeBtn, w.deleteBtn,
	)
	text := container.NewVBox(w.titleLabel, container.NewBorder(nil, nil, nil, status, w.metaLabel), w.progress)
	main := container.NewBorder(nil, nil, w.thumb, actions, text)

	return widget.NewSimpleRenderer(container.NewVBox(main, widget.NewSeparator()))
}

// MinSize keeps rows from collapsing in narrow windows
func (w *CatalogRowWidget) MinSize() fyne.Size {
	size := w.BaseWidget.MinSize()
	if size.Width < RowMinWidth {
		size.Width = RowMinWidth
	}
	if size.Height < RowMinHeight {
		size.Height = RowMinHeight
	}
	return size
}

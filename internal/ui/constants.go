package ui

import "time"

// Icons
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPause    = "⏸"
	IconError    = "❌"
	IconBusy     = "⏳"
	IconPaste    = "📋"
	IconFolder   = "📂"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	ProgressLabelFormat = "%d%%"
)

// Layout sizing
const (
	ThumbnailWidth  float32 = 96
	ThumbnailHeight float32 = 54
	StatusWidth     float32 = 120
	RowMinWidth     float32 = 480
	RowMinHeight    float32 = 64

	WindowWidth  float32 = 960
	WindowHeight float32 = 640

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 360
)

// Timing
const (
	StatusAutoHide   = 5 * time.Second
	ThumbnailTimeout = 20 * time.Second
	UIUpdateDebounce = 100 * time.Millisecond
)

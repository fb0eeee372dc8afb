package ui

// Package ui contains the Fyne desktop interface: the download bar, the
// searchable file list with per-row actions, and the settings dialog. All
// state lives in app.Studio; widgets only render catalog snapshots and
// forward clicks. UI strings are localized via Localization.

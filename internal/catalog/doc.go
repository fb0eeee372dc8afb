package catalog

// Package catalog holds the in-memory list behind the downloads view:
// transient rows for running, paused or failed downloads and completed rows
// backed by files on disk. It owns filtering, startup rescans and group
// deletion of a media file together with its sidecars.

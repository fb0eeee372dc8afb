package history

// Package history persists which URL produced which downloaded file so rows
// rebuilt by a directory rescan can show their source again. Records are
// keyed by absolute path and also indexed by directory+stem, letting
// sidecars such as an extracted MP3 inherit the URL of their media file.

package download

// Package download wraps yt-dlp (via github.com/lrstanley/go-ytdlp) behind a
// small Fetcher contract. It maps quality profiles to yt-dlp options, turns the
// loosely shaped progress callbacks into a typed Progress value, and resolves
// the final output path from progress hints, the expected extension and, as a
// last resort, a before/after listing of the target directory.

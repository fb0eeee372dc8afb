package download

import (
	"context"

	"github.com/ytget/yt-studio/internal/model"
)

// Request describes one download
type Request struct {
	URL     string
	Dir     string
	Quality model.Quality
}

// Fetcher downloads a URL into a directory. It returns the output path when
// the backend knows it, or "" otherwise. onProgress may be invoked from any
// goroutine.
type Fetcher interface {
	Fetch(ctx context.Context, req Request, onProgress func(Progress)) (string, error)
}

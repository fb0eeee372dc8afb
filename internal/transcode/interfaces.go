package transcode

import "context"

// Transcoder defines the ffmpeg operations used by the studio
type Transcoder interface {
	CheckAvailable() error
	ExtractFrame(ctx context.Context, video, out string) error
	ExtractMP3(ctx context.Context, in, out string, report func(int)) error
	ExtractWaveform(ctx context.Context, in, out string, report func(int)) error
}

package transcribe

import (
	"context"
	"time"
)

// Segment is one recognized span of speech
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Options configures a recognition run
type Options struct {
	// Language is an ISO code hint; empty means auto-detect
	Language string
}

// Engine converts a mono 16 kHz waveform into ordered text segments with
// voice activity filtering enabled.
type Engine interface {
	CheckAvailable() error
	Transcribe(ctx context.Context, wavPath string, opts Options, report func(int)) ([]Segment, error)
}

// WaveformExtractor produces the engine input from arbitrary media
type WaveformExtractor interface {
	ExtractWaveform(ctx context.Context, in, out string, report func(int)) error
}

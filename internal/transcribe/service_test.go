package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeWaveform struct {
	err error
}

func (f *fakeWaveform) ExtractWaveform(ctx context.Context, in, out string, report func(int)) error {
	if f.err != nil {
		return f.err
	}
	report(100)
	return os.WriteFile(out, []byte("RIFF"), 0644)
}

type fakeEngine struct {
	segments []Segment
	err      error
	gotLang  string
	gotWav   string
}

func (f *fakeEngine) CheckAvailable() error { return nil }

func (f *fakeEngine) Transcribe(ctx context.Context, wavPath string, opts Options, report func(int)) ([]Segment, error) {
	f.gotLang = opts.Language
	f.gotWav = wavPath
	if _, err := os.Stat(wavPath); err != nil {
		return nil, err
	}
	report(50)
	report(100)
	return f.segments, f.err
}

func TestServiceRun_WritesTranscript(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "talk.mp4")
	engine := &fakeEngine{segments: []Segment{{Text: " first "}, {Text: ""}, {Text: "second"}}}
	svc := NewService(&fakeWaveform{}, engine, nil)

	var reported []int
	out, err := svc.Run(context.Background(), media, Options{Language: "de"}, func(p int) { reported = append(reported, p) })
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if out != filepath.Join(dir, "talk.transcript.txt") {
		t.Errorf("out = %q", out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("transcript missing: %v", err)
	}
	if string(data) != "first\nsecond" {
		t.Errorf("transcript = %q, expected %q", data, "first\nsecond")
	}
	if engine.gotLang != "de" {
		t.Errorf("language = %q, expected de", engine.gotLang)
	}
	if _, err := os.Stat(engine.gotWav); !os.IsNotExist(err) {
		t.Errorf("temporary waveform %s was not removed", engine.gotWav)
	}

	expected := []int{10, 55, 100}
	if len(reported) != len(expected) {
		t.Fatalf("reported = %v, expected %v", reported, expected)
	}
	for i := range expected {
		if reported[i] != expected[i] {
			t.Errorf("reported = %v, expected %v", reported, expected)
			break
		}
	}
}

func TestServiceRun_WaveformError(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(&fakeWaveform{err: errors.New("no audio stream")}, &fakeEngine{}, nil)

	if _, err := svc.Run(context.Background(), filepath.Join(dir, "a.mp4"), Options{}, nil); err == nil {
		t.Error("Expected error, got nil")
	}
	if _, err := os.Stat(filepath.Join(dir, "a.transcript.txt")); !os.IsNotExist(err) {
		t.Error("transcript must not be written on failure")
	}
}

func TestServiceRun_EngineError(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(&fakeWaveform{}, &fakeEngine{err: errors.New("model load failed")}, nil)

	if _, err := svc.Run(context.Background(), filepath.Join(dir, "a.mp4"), Options{}, nil); err == nil {
		t.Error("Expected error, got nil")
	}
}

func TestJoinSegments_Empty(t *testing.T) {
	if got := JoinSegments(nil); got != "" {
		t.Errorf("JoinSegments(nil) = %q, expected empty", got)
	}
}

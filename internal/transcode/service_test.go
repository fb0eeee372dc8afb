package transcode

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ytget/yt-studio/internal/model"
)

func TestBuildMP3Args(t *testing.T) {
	args := BuildMP3Args("/input.mp4", "/output.mp3")

	expectedArgs := []string{
		"-y",
		"-i", "/input.mp4",
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-progress", "pipe:2",
		"-nostats",
		"/output.mp3",
	}

	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("BuildMP3Args = %v, expected %v", args, expectedArgs)
	}
}

func TestBuildWaveformArgs(t *testing.T) {
	args := BuildWaveformArgs("/input.mp4", "/audio.wav")

	expectedArgs := []string{
		"-y",
		"-i", "/input.mp4",
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		"-progress", "pipe:2",
		"-nostats",
		"/audio.wav",
	}

	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("BuildWaveformArgs = %v, expected %v", args, expectedArgs)
	}
}

func TestBuildFrameArgs(t *testing.T) {
	args := BuildFrameArgs("/input.mp4", "/input.thumb.jpg")

	expectedArgs := []string{
		"-y",
		"-ss", "3",
		"-i", "/input.mp4",
		"-frames:v", "1",
		"-q:v", "2",
		"/input.thumb.jpg",
	}

	if !reflect.DeepEqual(args, expectedArgs) {
		t.Errorf("BuildFrameArgs = %v, expected %v", args, expectedArgs)
	}
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("212.436000\n")
	if err != nil {
		t.Fatalf("ParseDuration failed: %v", err)
	}
	if d != 212.436 {
		t.Errorf("ParseDuration = %v, expected 212.436", d)
	}

	if _, err := ParseDuration("N/A"); err == nil {
		t.Error("Expected error for N/A, got nil")
	}
}

func TestMonitorProgress(t *testing.T) {
	stderr := strings.Join([]string{
		"frame=0",
		"out_time_us=0",
		"out_time_us=5000000",
		"out_time_us=bogus",
		"out_time_us=10000000",
		"out_time_us=12000000",
		"progress=end",
		"Conversion failed!",
	}, "\n")

	var reported []int
	tail := &tailBuffer{max: StderrTailLines}
	monitorProgress(strings.NewReader(stderr), 10, func(p int) { reported = append(reported, p) }, tail)

	expected := []int{0, 50, 100, 100}
	if !reflect.DeepEqual(reported, expected) {
		t.Errorf("reported = %v, expected %v", reported, expected)
	}
	if tail.String() != "Conversion failed!" {
		t.Errorf("tail = %q, expected only the non-progress line", tail.String())
	}
}

func TestMonitorProgress_UnknownDuration(t *testing.T) {
	called := false
	monitorProgress(strings.NewReader("out_time_us=5000000\n"), 0, func(int) { called = true }, &tailBuffer{max: 1})
	if called {
		t.Error("report called without a known duration")
	}
}

func TestTailBuffer(t *testing.T) {
	tail := &tailBuffer{max: 2}
	for _, l := range []string{"a", "b", "c"} {
		tail.add(l)
	}
	if tail.String() != "b; c" {
		t.Errorf("tail = %q, expected %q", tail.String(), "b; c")
	}
}

func TestCheckAvailable_Missing(t *testing.T) {
	svc := NewService("/nonexistent/ffmpeg", "", nil)

	err := svc.CheckAvailable()
	var toolErr *model.ToolUnavailableError
	if !errors.As(err, &toolErr) {
		t.Fatalf("CheckAvailable = %v, expected ToolUnavailableError", err)
	}
	if toolErr.Tool != "/nonexistent/ffmpeg" {
		t.Errorf("Tool = %q", toolErr.Tool)
	}

	if err := svc.ExtractMP3(context.Background(), "/in.mp4", "/out.mp3", nil); !errors.As(err, &toolErr) {
		t.Errorf("ExtractMP3 = %v, expected ToolUnavailableError", err)
	}
}

package transcribe

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ytget/yt-studio/internal/model"
)

// whisper.cpp CLI defaults
const (
	DefaultWhisperBinary = "whisper-cli"
	AutoLanguage         = "auto"
	jsonSuffix           = ".json"
)

var progressPattern = regexp.MustCompile(`progress\s*=\s*(\d+)%`)

// WhisperCLI runs the whisper.cpp command line tool
type WhisperCLI struct {
	Binary   string
	Model    string
	VADModel string
	Threads  int
}

// CheckAvailable verifies the binary and both models are present
func (w *WhisperCLI) CheckAvailable() error {
	if _, err := exec.LookPath(w.binary()); err != nil {
		return &model.ToolUnavailableError{Tool: w.binary()}
	}
	if w.Model == "" {
		return fmt.Errorf("whisper model is not configured")
	}
	if _, err := os.Stat(w.Model); err != nil {
		return fmt.Errorf("whisper model not found: %s", w.Model)
	}
	if w.VADModel == "" {
		return fmt.Errorf("whisper VAD model is not configured")
	}
	if _, err := os.Stat(w.VADModel); err != nil {
		return fmt.Errorf("whisper VAD model not found: %s", w.VADModel)
	}
	return nil
}

// Transcribe implements Engine
func (w *WhisperCLI) Transcribe(ctx context.Context, wavPath string, opts Options, report func(int)) ([]Segment, error) {
	if err := w.CheckAvailable(); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(wavPath, ".wav")
	cmd := exec.CommandContext(ctx, w.binary(), w.Args(wavPath, base, opts)...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start whisper: %w", err)
	}

	// Read stderr to EOF before Wait closes the pipe
	lastErr := scanProgress(stderr, report)

	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if lastErr != "" {
			return nil, fmt.Errorf("whisper: %w: %s", err, lastErr)
		}
		return nil, fmt.Errorf("whisper: %w", err)
	}

	jsonPath := base + jsonSuffix
	defer os.Remove(jsonPath)
	f, err := os.Open(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisper produced no output: %w", err)
	}
	defer f.Close()
	return ParseOutput(f)
}

// Args builds the whisper.cpp arguments. Output goes to <base>.json.
func (w *WhisperCLI) Args(wavPath, base string, opts Options) []string {
	lang := opts.Language
	if lang == "" {
		lang = AutoLanguage
	}
	args := []string{
		"-m", w.Model,
		"-f", wavPath,
		"-l", lang,
		"-oj",
		"-of", base,
		"-pp",
	}
	if w.Threads > 0 {
		args = append(args, "-t", strconv.Itoa(w.Threads))
	}
	return append(args, "--vad", "-vm", w.VADModel)
}

func (w *WhisperCLI) binary() string {
	if w.Binary == "" {
		return DefaultWhisperBinary
	}
	return w.Binary
}

// scanProgress reports "progress = N%" lines and returns the last other line
func scanProgress(r io.Reader, report func(int)) string {
	var last string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if m := progressPattern.FindStringSubmatch(line); m != nil {
			if pct, err := strconv.Atoi(m[1]); err == nil && report != nil {
				report(pct)
			}
			continue
		}
		if line != "" {
			last = line
		}
	}
	return last
}

type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// ParseOutput decodes whisper.cpp JSON output into segments
func ParseOutput(r io.Reader) ([]Segment, error) {
	var out whisperOutput
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to parse whisper output: %w", err)
	}
	segments := make([]Segment, 0, len(out.Transcription))
	for _, item := range out.Transcription {
		segments = append(segments, Segment{
			Start: time.Duration(item.Offsets.From) * time.Millisecond,
			End:   time.Duration(item.Offsets.To) * time.Millisecond,
			Text:  item.Text,
		})
	}
	return segments, nil
}

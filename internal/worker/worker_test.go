package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// collect drains the worker events until the channel closes
func collect(t *testing.T, w *Worker) []Event {
	t.Helper()
	var events []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return events
			}
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", events)
		}
	}
}

func percents(events []Event) []int {
	var out []int
	for _, ev := range events {
		if ev.Type == EventProgress {
			out = append(out, ev.Percent)
		}
	}
	return out
}

func TestWorker_SuccessEmitsMonotonicProgressAndFinal100(t *testing.T) {
	w := New("t1", func(ctx context.Context, report func(int)) (string, error) {
		for _, p := range []int{0, 10, 10, 5, 50, 42, 99} {
			report(p)
		}
		return "/d/a.mp4", nil
	})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	events := collect(t, w)
	got := percents(events)
	expected := []int{0, 10, 50, 99, 100}
	if len(got) != len(expected) {
		t.Fatalf("progress = %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("progress = %v, expected %v", got, expected)
		}
	}

	last := events[len(events)-1]
	if last.Type != EventSucceeded || last.Path != "/d/a.mp4" || last.TaskID != "t1" {
		t.Errorf("terminal = %+v, expected success with path", last)
	}
}

func TestWorker_NoDuplicate100(t *testing.T) {
	w := New("t1", func(ctx context.Context, report func(int)) (string, error) {
		report(100)
		report(130)
		return "", nil
	})
	_ = w.Start(context.Background())

	events := collect(t, w)
	got := percents(events)
	if len(got) != 1 || got[0] != 100 {
		t.Errorf("progress = %v, expected [100]", got)
	}
	if events[len(events)-1].Type != EventSucceeded {
		t.Errorf("terminal = %v, expected succeeded", events[len(events)-1].Type)
	}
}

func TestWorker_FailureCarriesMessage(t *testing.T) {
	w := New("t1", func(ctx context.Context, report func(int)) (string, error) {
		report(30)
		return "", errors.New("HTTP Error 403: Forbidden")
	})
	_ = w.Start(context.Background())

	events := collect(t, w)
	last := events[len(events)-1]
	if last.Type != EventFailed || last.Message != "HTTP Error 403: Forbidden" {
		t.Errorf("terminal = %+v, expected failure", last)
	}
	for _, p := range percents(events) {
		if p == 100 {
			t.Error("failed job must not report 100")
		}
	}
}

func TestWorker_PanicBecomesFailure(t *testing.T) {
	w := New("t1", func(ctx context.Context, report func(int)) (string, error) {
		panic("boom")
	})
	_ = w.Start(context.Background())

	events := collect(t, w)
	if len(events) != 1 || events[0].Type != EventFailed {
		t.Fatalf("events = %+v, expected single failure", events)
	}
}

func TestWorker_CancelWinsOverResult(t *testing.T) {
	started := make(chan struct{})
	w := New("t1", func(ctx context.Context, report func(int)) (string, error) {
		report(20)
		close(started)
		<-ctx.Done()
		// Progress after cancel is suppressed
		report(90)
		return "/d/partial.mp4", nil
	})
	_ = w.Start(context.Background())
	<-started
	w.Cancel()
	w.Cancel()

	events := collect(t, w)
	last := events[len(events)-1]
	if last.Type != EventCanceled {
		t.Errorf("terminal = %v, expected canceled", last.Type)
	}
	for _, p := range percents(events) {
		if p > 20 {
			t.Errorf("progress %d emitted after cancel", p)
		}
	}
	if !w.CancelRequested() {
		t.Error("CancelRequested = false, expected true")
	}
}

func TestWorker_LateCancelKeepsFinal100(t *testing.T) {
	w := New("t1", nil)
	w.report(60)
	// Cancel arrives after the job returned successfully
	w.Cancel()
	w.succeed("/d/a.mp4")

	events := collect(t, w)
	if len(events) != 3 {
		t.Fatalf("events = %v, expected progress 60, 100 and success", events)
	}
	if last := events[1]; last.Type != EventProgress || last.Percent != 100 {
		t.Errorf("event before success = %+v, expected progress 100", last)
	}
	if events[2].Type != EventSucceeded || events[2].Path != "/d/a.mp4" {
		t.Errorf("terminal event = %+v", events[2])
	}
}

func TestWorker_CancelBeforeStart(t *testing.T) {
	w := New("t1", func(ctx context.Context, report func(int)) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	w.Cancel()
	_ = w.Start(context.Background())

	events := collect(t, w)
	if len(events) != 1 || events[0].Type != EventCanceled {
		t.Errorf("events = %+v, expected single cancel", events)
	}
}

func TestWorker_StartTwice(t *testing.T) {
	w := New("t1", func(ctx context.Context, report func(int)) (string, error) {
		return "", nil
	})
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := w.Start(context.Background()); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start = %v, expected ErrAlreadyStarted", err)
	}
	collect(t, w)
	w.Wait()
}

func TestWorker_ConcurrentReports(t *testing.T) {
	w := New("t1", func(ctx context.Context, report func(int)) (string, error) {
		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for p := 0; p <= 100; p++ {
					report(p)
				}
			}()
		}
		wg.Wait()
		return "", nil
	})
	_ = w.Start(context.Background())

	events := collect(t, w)
	prev := -1
	for _, p := range percents(events) {
		if p <= prev {
			t.Fatalf("progress not strictly increasing: %d after %d", p, prev)
		}
		prev = p
	}
	if prev != 100 {
		t.Errorf("last progress = %d, expected 100", prev)
	}
}

func TestEventType(t *testing.T) {
	if EventProgress.IsTerminal() {
		t.Error("progress must not be terminal")
	}
	for _, et := range []EventType{EventSucceeded, EventFailed, EventCanceled} {
		if !et.IsTerminal() {
			t.Errorf("%s must be terminal", et)
		}
	}
	if EventCanceled.String() != "canceled" {
		t.Errorf("String() = %q, expected %q", EventCanceled.String(), "canceled")
	}
}

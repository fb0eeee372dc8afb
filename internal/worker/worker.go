package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// EventBufferSize is the capacity of the worker events channel
const EventBufferSize = 32

// ErrAlreadyStarted is returned by Start on a second call
var ErrAlreadyStarted = errors.New("worker already started")

// Job is the blocking unit of work. It must return promptly after ctx is
// canceled and may call report from any goroutine.
type Job func(ctx context.Context, report func(percent int)) (string, error)

// Worker executes a Job on a dedicated goroutine
type Worker struct {
	id  string
	job Job

	started         atomic.Bool
	cancelRequested atomic.Bool

	cancelMu sync.Mutex
	cancel   context.CancelFunc

	mu          sync.Mutex
	lastPercent int
	closed      bool

	events chan Event
	done   chan struct{}
}

// New creates a worker for job identified by id
func New(id string, job Job) *Worker {
	return &Worker{
		id:          id,
		job:         job,
		lastPercent: -1,
		events:      make(chan Event, EventBufferSize),
		done:        make(chan struct{}),
	}
}

// ID returns the task identifier the worker reports under
func (w *Worker) ID() string {
	return w.id
}

// Events returns the channel of worker events. It is closed after the
// terminal event.
func (w *Worker) Events() <-chan Event {
	return w.events
}

// Done is closed when the job goroutine has exited
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Start launches the job goroutine
func (w *Worker) Start(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelMu.Lock()
	w.cancel = cancel
	w.cancelMu.Unlock()

	// Cancel may have raced ahead of Start
	if w.cancelRequested.Load() {
		cancel()
	}

	go w.run(runCtx, cancel)
	return nil
}

// Cancel requests cooperative cancellation. Safe to call more than once and
// before Start.
func (w *Worker) Cancel() {
	w.cancelRequested.Store(true)
	w.cancelMu.Lock()
	cancel := w.cancel
	w.cancelMu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// CancelRequested reports whether Cancel was called
func (w *Worker) CancelRequested() bool {
	return w.cancelRequested.Load()
}

// Wait blocks until the job goroutine has exited
func (w *Worker) Wait() {
	<-w.done
}

func (w *Worker) run(ctx context.Context, cancel context.CancelFunc) {
	defer close(w.done)
	defer cancel()

	path, err := w.execute(ctx)

	switch {
	case w.cancelRequested.Load():
		w.finish(Event{Type: EventCanceled})
	case err != nil:
		w.finish(Event{Type: EventFailed, Message: err.Error()})
	default:
		w.succeed(path)
	}
}

// succeed emits the closing progress of 100 and the success event together.
// A Cancel landing after the outcome was decided cannot split them.
func (w *Worker) succeed(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.lastPercent < 100 {
		w.lastPercent = 100
		w.send(Event{TaskID: w.id, Type: EventProgress, Percent: 100})
	}
	w.send(Event{TaskID: w.id, Type: EventSucceeded, Percent: 100, Path: path})
	w.closed = true
	close(w.events)
}

// execute runs the job and converts a panic into an error
func (w *Worker) execute(ctx context.Context) (path string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	return w.job(ctx, w.report)
}

// report emits a progress event when percent exceeds the last emitted value
func (w *Worker) report(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.cancelRequested.Load() || percent <= w.lastPercent {
		return
	}
	w.lastPercent = percent
	w.send(Event{TaskID: w.id, Type: EventProgress, Percent: percent})
}

// finish emits the terminal event and closes the channel
func (w *Worker) finish(ev Event) {
	ev.TaskID = w.id
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.send(ev)
	w.closed = true
	close(w.events)
}

// send delivers ev; the caller holds mu so events keep their order
func (w *Worker) send(ev Event) {
	w.events <- ev
}

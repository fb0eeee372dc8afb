package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-studio/internal/model"
	"github.com/ytget/yt-studio/internal/platform"
	"github.com/ytget/yt-studio/internal/worker"
)

// ErrUnknownTask is returned for task IDs that are not running
var ErrUnknownTask = errors.New("task not found")

// Listener receives task outcomes on the interactive goroutine. Task values
// are snapshots taken when the event was processed.
type Listener interface {
	TaskProgress(task model.Task, percent int)
	TaskSucceeded(task model.Task, path string)
	TaskFailed(task model.Task, message string)
	TaskCanceled(task model.Task)
}

// JobBuilder turns a task into a worker job. Returning an error aborts the
// start before any state changes, e.g. when a tool is missing.
type JobBuilder func(task model.Task) (worker.Job, error)

// entry binds a task to its worker
type entry struct {
	task   *model.Task
	worker *worker.Worker
}

// Supervisor launches and tracks tasks
type Supervisor struct {
	dispatch Dispatcher
	listener Listener
	logger   *logrus.Logger

	ctx    context.Context
	cancel context.CancelFunc
	pumps  sync.WaitGroup

	mu        sync.Mutex
	builders  map[model.TaskKind]JobBuilder
	running   map[string]*entry
	inflight  map[model.TaskKey]string
	slot      string
	resumable map[string]*model.Task
	onSlot    func(active bool)
}

// New creates a supervisor. dispatch must deliver functions on the
// goroutine that owns the listener state.
func New(dispatch Dispatcher, listener Listener, logger *logrus.Logger) *Supervisor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		dispatch:  dispatch,
		listener:  listener,
		logger:    logger,
		ctx:       ctx,
		cancel:    cancel,
		builders:  make(map[model.TaskKind]JobBuilder),
		running:   make(map[string]*entry),
		inflight:  make(map[model.TaskKey]string),
		resumable: make(map[string]*model.Task),
	}
}

// Register sets the job builder for a task kind
func (s *Supervisor) Register(kind model.TaskKind, builder JobBuilder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builders[kind] = builder
}

// SetSlotCallback sets the function told when the download slot is taken or
// freed. It runs on the interactive goroutine.
func (s *Supervisor) SetSlotCallback(fn func(active bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSlot = fn
}

// StartDownload launches a download reporting to rowID. Only one download
// may run at a time.
func (s *Supervisor) StartDownload(rowID, url string, quality model.Quality, dir string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slot != "" {
		return model.Task{}, model.ErrDownloadActive
	}

	task := model.NewTask(model.TaskDownload, url, rowID)
	task.Quality = quality
	task.Dir = dir
	return s.launchLocked(task)
}

// StartDerived launches a transcode or transcribe task for the file at path.
// A second task of the same kind for the same file is rejected.
func (s *Supervisor) StartDerived(kind model.TaskKind, rowID, path, language string) (model.Task, error) {
	if kind == model.TaskDownload {
		return model.Task{}, fmt.Errorf("use StartDownload for downloads")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.inflight[model.TaskKey{Target: path, Kind: kind}]; busy {
		return model.Task{}, model.ErrTaskInFlight
	}
	if !platform.IsRegularFile(path) {
		return model.Task{}, &model.StaleRowError{Path: path}
	}

	task := model.NewTask(kind, path, rowID)
	task.Language = language
	return s.launchLocked(task)
}

// Pause cancels a running download and keeps it resumable
func (s *Supervisor) Pause(taskID string) error {
	return s.requestCancel(taskID, model.IntentPause)
}

// Stop cancels a running task for good
func (s *Supervisor) Stop(taskID string) error {
	return s.requestCancel(taskID, model.IntentStop)
}

// Resume restarts the paused or failed download of rowID from scratch with
// a fresh task.
func (s *Supervisor) Resume(rowID string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.resumable[rowID]
	if !ok {
		return model.Task{}, model.ErrNotResumable
	}
	if s.slot != "" {
		return model.Task{}, model.ErrDownloadActive
	}

	task, err := s.launchLocked(prev.Retry())
	if err != nil {
		return model.Task{}, err
	}
	delete(s.resumable, rowID)
	return task, nil
}

// Forget drops resumable state for rowID
func (s *Supervisor) Forget(rowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resumable, rowID)
}

// CanResume reports whether rowID has a paused or failed download
func (s *Supervisor) CanResume(rowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.resumable[rowID]
	return ok
}

// DownloadActive reports whether the download slot is held
func (s *Supervisor) DownloadActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slot != ""
}

// InFlight reports whether a task of kind runs for target
func (s *Supervisor) InFlight(target string, kind model.TaskKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight[model.TaskKey{Target: target, Kind: kind}]
	return ok
}

// Task returns a snapshot of a running task
func (s *Supervisor) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.running[id]
	if !ok {
		return model.Task{}, false
	}
	return *e.task, true
}

// Tasks returns snapshots of all running tasks
func (s *Supervisor) Tasks() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	tasks := make([]model.Task, 0, len(s.running))
	for _, e := range s.running {
		tasks = append(tasks, *e.task)
	}
	return tasks
}

// Shutdown stops every task and waits for their teardown to be scheduled
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	for _, e := range s.running {
		e.task.Intent = model.IntentStop
		e.worker.Cancel()
	}
	s.mu.Unlock()

	s.cancel()
	s.pumps.Wait()
}

// launchLocked starts a worker for task; the caller holds mu
func (s *Supervisor) launchLocked(task *model.Task) (model.Task, error) {
	builder, ok := s.builders[task.Kind]
	if !ok {
		return model.Task{}, fmt.Errorf("no job builder registered for %s", task.Kind)
	}
	job, err := builder(*task)
	if err != nil {
		return model.Task{}, err
	}

	w := worker.New(task.ID, job)
	e := &entry{task: task, worker: w}

	task.Status = model.TaskStatusRunning
	task.StartedAt = time.Now()
	s.running[task.ID] = e
	s.inflight[task.Key()] = task.ID
	if task.Kind == model.TaskDownload {
		s.slot = task.ID
		s.notifySlotLocked(true)
	}

	if err := w.Start(s.ctx); err != nil {
		s.releaseLocked(e)
		return model.Task{}, err
	}

	s.logger.WithFields(logrus.Fields{"task": task.ID, "kind": task.Kind, "target": task.Target}).Info("task started")

	s.pumps.Add(1)
	go s.pump(e)
	return *task, nil
}

func (s *Supervisor) requestCancel(taskID string, intent model.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.running[taskID]
	if !ok {
		return ErrUnknownTask
	}
	if intent == model.IntentPause && e.task.Kind != model.TaskDownload {
		return fmt.Errorf("only downloads can be paused")
	}
	if e.task.Intent == model.IntentNone {
		e.task.Intent = intent
	}
	e.worker.Cancel()
	return nil
}

// pump forwards worker events until the terminal one
func (s *Supervisor) pump(e *entry) {
	defer s.pumps.Done()

	for ev := range e.worker.Events() {
		if ev.Type == worker.EventProgress {
			s.mu.Lock()
			e.task.SetPercent(ev.Percent)
			snap := *e.task
			s.mu.Unlock()

			percent := ev.Percent
			s.dispatch(func() { s.listener.TaskProgress(snap, percent) })
			continue
		}

		// Join, release, then forward
		e.worker.Wait()
		snap := s.finish(e, ev)
		s.forward(snap, ev)
	}
}

// finish records the outcome and frees the task's registry entries
func (s *Supervisor) finish(e *entry, ev worker.Event) model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := e.task
	task.FinishedAt = time.Now()
	switch ev.Type {
	case worker.EventSucceeded:
		task.Status = model.TaskStatusCompleted
		task.OutputPath = ev.Path
	case worker.EventFailed:
		task.Status = model.TaskStatusFailed
		task.LastError = ev.Message
		if task.Kind == model.TaskDownload {
			s.resumable[task.RowID] = task
		}
	case worker.EventCanceled:
		task.Status = model.TaskStatusCanceled
		if task.Kind == model.TaskDownload && task.Intent == model.IntentPause {
			s.resumable[task.RowID] = task
		}
	}

	s.releaseLocked(e)

	s.logger.WithFields(logrus.Fields{
		"task":   task.ID,
		"status": task.Status,
		"intent": task.Intent,
	}).Info("task finished")
	return *task
}

// releaseLocked drops the worker reference and frees the slot; the caller holds mu
func (s *Supervisor) releaseLocked(e *entry) {
	id := e.task.ID
	delete(s.running, id)
	if s.inflight[e.task.Key()] == id {
		delete(s.inflight, e.task.Key())
	}
	if s.slot == id {
		s.slot = ""
		s.notifySlotLocked(false)
	}
}

func (s *Supervisor) forward(task model.Task, ev worker.Event) {
	s.dispatch(func() {
		switch ev.Type {
		case worker.EventSucceeded:
			s.listener.TaskSucceeded(task, ev.Path)
		case worker.EventFailed:
			s.listener.TaskFailed(task, ev.Message)
		case worker.EventCanceled:
			s.listener.TaskCanceled(task)
		}
	})
}

// notifySlotLocked schedules the slot callback; the caller holds mu
func (s *Supervisor) notifySlotLocked(active bool) {
	if fn := s.onSlot; fn != nil {
		s.dispatch(func() { fn(active) })
	}
}

package app

import (
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/ytget/yt-studio/internal/model"
)

// TaskProgress implements supervisor.Listener
func (s *Studio) TaskProgress(task model.Task, percent int) {
	if task.Kind == model.TaskDownload && s.catalog.OwnedBy(task.RowID, task.ID) {
		s.catalog.SetProgress(task.RowID, percent)
	}
}

// superseded reports whether a download signal comes from a task that no
// longer owns its row, e.g. one replaced by Resume before its outcome arrived.
func (s *Studio) superseded(task model.Task) bool {
	if s.catalog.OwnedBy(task.RowID, task.ID) {
		return false
	}
	s.logger.WithFields(logrus.Fields{"task": task.ID, "row": task.RowID}).Debug("ignoring signal from superseded task")
	return true
}

// TaskSucceeded implements supervisor.Listener
func (s *Studio) TaskSucceeded(task model.Task, path string) {
	log := s.logger.WithField("task", task.ID)

	if task.Kind != model.TaskDownload {
		s.catalog.SetBusy(task.Target, false)
		if _, ok := s.catalog.AddDerivedAsset(path); ok {
			s.cfg.Notify("Created " + filepath.Base(path))
		}
		return
	}

	if s.superseded(task) {
		return
	}

	row, ok := s.catalog.Finalize(task.RowID, task.Target, path)
	if !ok {
		// Output not located; pick up whatever landed in the directory
		log.Warn("download output not found, rescanning")
		if err := s.catalog.Rescan(task.Dir); err != nil {
			log.WithError(err).Warn("rescan failed")
		}
		s.cfg.Notify("Download finished")
		return
	}

	if s.cfg.History != nil {
		if err := s.cfg.History.Record(task.Target, row.Path, task.Quality); err != nil {
			log.WithError(err).Warn("failed to record history")
		}
	}
	s.cfg.Notify("Downloaded " + row.DisplayName())

	if s.cfg.AutoReveal() {
		if err := s.cfg.Reveal(row.Path); err != nil {
			log.WithError(err).Debug("reveal failed")
		}
	}
}

// TaskFailed implements supervisor.Listener
func (s *Studio) TaskFailed(task model.Task, message string) {
	s.logger.WithFields(logrus.Fields{"task": task.ID, "error": message}).Warn("task failed")

	if task.Kind == model.TaskDownload {
		if s.superseded(task) {
			return
		}
		s.catalog.MarkFailed(task.RowID)
		s.cfg.Notify("Download failed: " + message)
		return
	}
	s.catalog.SetBusy(task.Target, false)
	s.cfg.Notify(filepath.Base(task.Target) + ": " + message)
}

// TaskCanceled implements supervisor.Listener
func (s *Studio) TaskCanceled(task model.Task) {
	if task.Kind != model.TaskDownload {
		s.catalog.SetBusy(task.Target, false)
		s.cfg.Notify("Canceled")
		return
	}

	if s.superseded(task) {
		return
	}
	if task.Intent == model.IntentPause {
		s.catalog.MarkPaused(task.RowID)
		s.cfg.Notify("Paused")
		return
	}
	s.catalog.RemoveRow(task.RowID)
	s.cfg.Notify("Download stopped")
}

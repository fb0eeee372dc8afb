package model

// TaskStatus represents the lifecycle state of a background task
type TaskStatus string

const (
	// TaskStatusIdle means the task was created but its worker has not started
	TaskStatusIdle TaskStatus = "Idle"

	// TaskStatusRunning means the worker goroutine is executing the external call
	TaskStatusRunning TaskStatus = "Running"

	// TaskStatusCompleted means the task finished successfully
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusCanceled means the task honored a pause or stop request
	TaskStatusCanceled TaskStatus = "Canceled"

	// TaskStatusFailed means the external call failed
	TaskStatusFailed TaskStatus = "Failed"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsActive returns true if the task still owns a worker
func (ts TaskStatus) IsActive() bool {
	return ts == TaskStatusIdle || ts == TaskStatusRunning
}

// IsFinished returns true if the task is in a terminal state
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusCanceled || ts == TaskStatusFailed
}

// Intent records why a running task was asked to cancel.
type Intent string

const (
	IntentNone  Intent = ""
	IntentPause Intent = "pause"
	IntentStop  Intent = "stop"
)

// RowState is the display state of a catalog row
type RowState string

const (
	RowDownloading RowState = "Downloading"
	RowPaused      RowState = "Paused"
	RowFailed      RowState = "Failed"
	RowCompleted   RowState = "Completed"
)

// IsTransient reports whether rows in this state live only in memory.
func (rs RowState) IsTransient() bool {
	return rs != RowCompleted
}

package model

import "testing"

func TestTaskStatus_IsActive(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusIdle, true},
		{TaskStatusRunning, true},
		{TaskStatusCompleted, false},
		{TaskStatusCanceled, false},
		{TaskStatusFailed, false},
	}

	for _, test := range tests {
		result := test.status.IsActive()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsActive() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_IsFinished(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		expected bool
	}{
		{TaskStatusIdle, false},
		{TaskStatusRunning, false},
		{TaskStatusCompleted, true},
		{TaskStatusCanceled, true},
		{TaskStatusFailed, true},
	}

	for _, test := range tests {
		result := test.status.IsFinished()
		if result != test.expected {
			t.Errorf("TaskStatus(%s).IsFinished() = %v, expected %v", test.status, result, test.expected)
		}
	}
}

func TestTaskStatus_String(t *testing.T) {
	if got := TaskStatusRunning.String(); got != "Running" {
		t.Errorf("TaskStatus.String() = %s, expected Running", got)
	}
}

func TestRowState_IsTransient(t *testing.T) {
	tests := []struct {
		state    RowState
		expected bool
	}{
		{RowDownloading, true},
		{RowPaused, true},
		{RowFailed, true},
		{RowCompleted, false},
	}

	for _, test := range tests {
		if got := test.state.IsTransient(); got != test.expected {
			t.Errorf("RowState(%s).IsTransient() = %v, expected %v", test.state, got, test.expected)
		}
	}
}

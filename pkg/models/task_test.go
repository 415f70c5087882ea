package models

import (
	"testing"
	"time"
)

func TestTaskStatusValid(t *testing.T) {
	valid := []TaskStatus{
		TaskStatusPlanning,
		TaskStatusExecuting,
		TaskStatusCompleted,
		TaskStatusFailed,
		TaskStatusPaused,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	if TaskStatus("unknown").Valid() {
		t.Error("expected unknown status to be invalid")
	}
	if TaskStatus("").Valid() {
		t.Error("expected empty status to be invalid")
	}
}

func TestTaskStatusTerminal(t *testing.T) {
	tests := []struct {
		status   TaskStatus
		terminal bool
	}{
		{TaskStatusPlanning, false},
		{TaskStatusExecuting, false},
		{TaskStatusPaused, false},
		{TaskStatusCompleted, true},
		{TaskStatusFailed, true},
	}

	for _, tt := range tests {
		if got := tt.status.Terminal(); got != tt.terminal {
			t.Errorf("%s.Terminal() = %v, want %v", tt.status, got, tt.terminal)
		}
	}
}

func TestTaskPriorityValid(t *testing.T) {
	for _, p := range []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent} {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if TaskPriority("critical").Valid() {
		t.Error("expected unknown priority to be invalid")
	}
}

func TestClampConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{-0.5, 0},
		{0, 0},
		{0.7, 0.7},
		{1, 1},
		{1.5, 1},
	}

	for _, tt := range tests {
		if got := ClampConfidence(tt.in); got != tt.want {
			t.Errorf("ClampConfidence(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTaskCloneIsDeep(t *testing.T) {
	task := &Task{
		ID:      "task-1",
		Status:  TaskStatusExecuting,
		Plan:    []string{"research", "analysis"},
		Records: []ExecutionRecord{{Agent: "research", Output: "findings"}},
		Errors:  []string{"transient"},
		Result:  &TaskResult{FinalResult: "done", OverallConfidence: 0.8},
	}

	snap := task.Clone()

	task.Plan[0] = "mutated"
	task.Records[0].Output = "mutated"
	task.Errors[0] = "mutated"
	task.Result.FinalResult = "mutated"

	if snap.Plan[0] != "research" {
		t.Error("Clone shares Plan with original")
	}
	if snap.Records[0].Output != "findings" {
		t.Error("Clone shares Records with original")
	}
	if snap.Errors[0] != "transient" {
		t.Error("Clone shares Errors with original")
	}
	if snap.Result.FinalResult != "done" {
		t.Error("Clone shares Result with original")
	}
}

func TestExecutionRecordFailed(t *testing.T) {
	rec := ExecutionRecord{Agent: "analysis", Timestamp: time.Now()}
	if rec.Failed() {
		t.Error("expected record without error to not be failed")
	}

	rec.Err = "provider timeout"
	if !rec.Failed() {
		t.Error("expected record with error to be failed")
	}
}

package models

// ProgressEventType is the kind of a progress stream event.
type ProgressEventType string

const (
	// ProgressStatusUpdate reports a phase or progress change.
	ProgressStatusUpdate ProgressEventType = "status_update"
	// ProgressCompletion carries the final result and terminates the stream.
	ProgressCompletion ProgressEventType = "completion"
	// ProgressError reports a fatal task error and terminates the stream.
	ProgressError ProgressEventType = "error"
)

// ProgressEvent is one element of a task's progress stream.
// Events are emitted in phase order with non-decreasing progress, and
// the stream ends on the first completion or error event.
type ProgressEvent struct {
	// Type is the event kind.
	Type ProgressEventType `json:"type"`
	// TaskID identifies the task.
	TaskID string `json:"task_id"`
	// Status is the task status at emission time.
	Status TaskStatus `json:"status"`
	// Progress is the task progress at emission time.
	Progress float64 `json:"progress"`
	// Message is an optional human-readable note.
	Message string `json:"message,omitempty"`
	// Result carries the final result on completion events.
	Result *TaskResult `json:"result,omitempty"`
}

// Terminal returns true if this event ends the stream.
func (e ProgressEvent) Terminal() bool {
	return e.Type == ProgressCompletion || e.Type == ProgressError
}

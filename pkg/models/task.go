package models

import "time"

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	// TaskStatusPlanning indicates the task is being planned.
	TaskStatusPlanning TaskStatus = "planning"
	// TaskStatusExecuting indicates agents are running for this task.
	TaskStatusExecuting TaskStatus = "executing"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task failed.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusPaused indicates execution is suspended.
	TaskStatusPaused TaskStatus = "paused"
)

// Valid returns true if the status is a known value.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPlanning, TaskStatusExecuting, TaskStatusCompleted,
		TaskStatusFailed, TaskStatusPaused:
		return true
	default:
		return false
	}
}

// Terminal returns true if no further transitions are possible.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// TaskPriority indicates how urgent a task is.
type TaskPriority string

const (
	// PriorityLow is for background work.
	PriorityLow TaskPriority = "low"
	// PriorityMedium is the default priority.
	PriorityMedium TaskPriority = "medium"
	// PriorityHigh is for time-sensitive work.
	PriorityHigh TaskPriority = "high"
	// PriorityUrgent is for work that should preempt everything else.
	PriorityUrgent TaskPriority = "urgent"
)

// Valid returns true if the priority is a known value.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Task represents a unit of orchestrated work.
// A Task is exclusively owned by the orchestrator; callers only ever
// see snapshots produced by Clone.
type Task struct {
	// ID is the unique identifier for this task.
	ID string `json:"id"`
	// Description is the free-text task description submitted by the caller.
	Description string `json:"description"`
	// Priority is the submitted priority.
	Priority TaskPriority `json:"priority"`
	// Status is the current lifecycle state.
	Status TaskStatus `json:"status"`
	// Progress is in [0,1], non-decreasing, and reaches exactly 1.0
	// only when Status is completed.
	Progress float64 `json:"progress"`
	// CreatedAt is when the task was submitted.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the task last changed.
	UpdatedAt time.Time `json:"updated_at"`
	// Plan is the ordered list of agent names selected during planning.
	Plan []string `json:"plan,omitempty"`
	// Records holds one ExecutionRecord per agent invocation, in order.
	Records []ExecutionRecord `json:"records,omitempty"`
	// Result is the synthesized final result, set once completed.
	Result *TaskResult `json:"result,omitempty"`
	// Errors collects task-level error messages.
	Errors []string `json:"errors,omitempty"`
}

// Clone returns a deep copy of the task, safe to hand to callers
// while the orchestrator keeps mutating the original.
func (t *Task) Clone() Task {
	cp := *t
	cp.Plan = append([]string(nil), t.Plan...)
	cp.Records = append([]ExecutionRecord(nil), t.Records...)
	cp.Errors = append([]string(nil), t.Errors...)
	if t.Result != nil {
		r := t.Result.Clone()
		cp.Result = &r
	}
	return cp
}

// ConfidenceTier is the validation engine's coarse trust level.
type ConfidenceTier string

const (
	// TierLow indicates the output has little or no supporting evidence.
	TierLow ConfidenceTier = "low"
	// TierMedium indicates the output is partially supported by evidence.
	TierMedium ConfidenceTier = "medium"
	// TierHigh indicates the output is well supported (tool use or fact-check).
	TierHigh ConfidenceTier = "high"
)

// Verdict is the validation engine's judgment on an agent output.
type Verdict struct {
	// Valid indicates whether the output is adequately supported.
	Valid bool `json:"valid"`
	// Reason explains the verdict.
	Reason string `json:"reason"`
	// Tier is the coarse confidence level.
	Tier ConfidenceTier `json:"tier"`
}

// ExecutionRecord is one agent invocation within a task.
// Records are immutable once appended to a task, with the single
// exception of the validation confidence penalty applied right after
// the record is produced.
type ExecutionRecord struct {
	// Agent is the name of the agent that produced this record.
	Agent string `json:"agent"`
	// Output is the agent's textual output.
	Output string `json:"output"`
	// Confidence is the agent's self-reported confidence, clamped to [0,1].
	Confidence float64 `json:"confidence"`
	// ToolsUsed lists tool names invoked during execution.
	ToolsUsed []string `json:"tools_used,omitempty"`
	// Verdict is the validation engine's judgment.
	Verdict Verdict `json:"verdict"`
	// Err holds the error message if the invocation failed.
	Err string `json:"error,omitempty"`
	// Timestamp is when the record was produced.
	Timestamp time.Time `json:"timestamp"`
}

// Failed returns true if the invocation errored.
func (r *ExecutionRecord) Failed() bool {
	return r.Err != ""
}

// AgentSummary is the per-agent slice of a task result.
type AgentSummary struct {
	// Agent is the agent name.
	Agent string `json:"agent"`
	// Output is the agent's validated output.
	Output string `json:"output"`
	// Confidence is the post-validation confidence.
	Confidence float64 `json:"confidence"`
	// ToolsUsed lists tools the agent invoked.
	ToolsUsed []string `json:"tools_used,omitempty"`
}

// Completeness describes how well the knowledge base covered a task.
type Completeness string

const (
	// CompletenessComplete means the context fully covered the task.
	CompletenessComplete Completeness = "complete"
	// CompletenessPartial means some supporting context was found.
	CompletenessPartial Completeness = "partial"
	// CompletenessIncomplete means little or no supporting context existed.
	CompletenessIncomplete Completeness = "incomplete"
)

// TaskResult is the synthesized outcome of a completed task.
type TaskResult struct {
	// FinalResult is the synthesized answer.
	FinalResult string `json:"final_result"`
	// Agents summarizes each surviving agent execution.
	Agents []AgentSummary `json:"agents"`
	// OverallConfidence is the mean of per-agent confidences, in [0,1].
	OverallConfidence float64 `json:"overall_confidence"`
	// Completeness reflects knowledge-base coverage of the task.
	Completeness Completeness `json:"completeness"`
	// KnowledgeGaps suggests how to enrich the knowledge base.
	KnowledgeGaps []EnrichmentSuggestion `json:"knowledge_gaps,omitempty"`
	// ExecutionTime is the wall-clock duration of the task.
	ExecutionTime time.Duration `json:"execution_time"`
}

// Clone returns a deep copy of the result.
func (r *TaskResult) Clone() TaskResult {
	cp := *r
	cp.Agents = append([]AgentSummary(nil), r.Agents...)
	cp.KnowledgeGaps = append([]EnrichmentSuggestion(nil), r.KnowledgeGaps...)
	return cp
}

// ClampConfidence forces a confidence value into [0,1].
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

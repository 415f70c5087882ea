package orchestrator

import "github.com/dverbeek/cogent/pkg/models"

// Stats summarizes the orchestrator's task population.
type Stats struct {
	// Submitted is the total number of tasks ever submitted.
	Submitted int `json:"submitted"`
	// Active counts tasks in a non-terminal status.
	Active int `json:"active"`
	// Paused counts tasks currently paused.
	Paused int `json:"paused"`
	// Completed counts tasks that finished successfully.
	Completed int `json:"completed"`
	// Failed counts tasks that failed or were cancelled.
	Failed int `json:"failed"`
	// DroppedEvents is the total number of progress events dropped on
	// full subscriber channels.
	DroppedEvents uint64 `json:"dropped_events"`
}

// Stats returns current counters across all known tasks.
func (o *Orchestrator) Stats() Stats {
	var s Stats
	for _, h := range o.tasks.all() {
		s.Submitted++
		snap := h.snapshot()
		switch snap.Status {
		case models.TaskStatusCompleted:
			s.Completed++
		case models.TaskStatusFailed:
			s.Failed++
		case models.TaskStatusPaused:
			s.Paused++
			s.Active++
		default:
			s.Active++
		}
		s.DroppedEvents += h.hub.droppedCount()
	}
	return s
}

package models

import "time"

// AgentDescriptor describes a named, capability-tagged agent.
// Agents are stateless with respect to task data. Stats is only
// populated on snapshots; the live rolling statistics are owned by the
// agent registry.
type AgentDescriptor struct {
	// Name is the unique agent name (e.g. "research").
	Name string `json:"name"`
	// Role is a human-readable description of what the agent does.
	Role string `json:"role"`
	// Capabilities are the tags used for keyword-based selection.
	Capabilities []string `json:"capabilities"`
	// Tools lists the tool names this agent is allowed to invoke.
	Tools []string `json:"tools,omitempty"`
	// Stats holds rolling performance statistics.
	Stats AgentStats `json:"stats"`
}

// Clone returns a deep copy of the descriptor.
func (d *AgentDescriptor) Clone() AgentDescriptor {
	cp := *d
	cp.Capabilities = append([]string(nil), d.Capabilities...)
	cp.Tools = append([]string(nil), d.Tools...)
	return cp
}

// AgentStats holds rolling performance statistics for one agent.
type AgentStats struct {
	// ExecutionCount is the total number of invocations.
	ExecutionCount int `json:"execution_count"`
	// SuccessRate is the rolling fraction of successful invocations.
	SuccessRate float64 `json:"success_rate"`
	// AvgExecutionTime is the rolling mean invocation duration.
	AvgExecutionTime time.Duration `json:"avg_execution_time"`
	// LastExecution is when the agent last ran, zero if never.
	LastExecution time.Time `json:"last_execution,omitzero"`
}

// Record folds one invocation into the rolling statistics.
func (s *AgentStats) Record(success bool, elapsed time.Duration, at time.Time) {
	n := float64(s.ExecutionCount)
	if success {
		s.SuccessRate = (s.SuccessRate*n + 1.0) / (n + 1)
	} else {
		s.SuccessRate = (s.SuccessRate * n) / (n + 1)
	}
	s.AvgExecutionTime = time.Duration((float64(s.AvgExecutionTime)*n + float64(elapsed)) / (n + 1))
	s.ExecutionCount++
	s.LastExecution = at
}

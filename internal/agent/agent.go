// Package agent defines the execution contract for specialized agents
// and the keyword heuristic that selects them for a task.
//
// The closed set of variants (planner, research, analysis, creator,
// coordinator) all share the same invocation shape: consume a task
// description plus filtered shared context, produce one
// ExecutionRecord.
package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dverbeek/cogent/internal/provider"
	"github.com/dverbeek/cogent/internal/tools"
	"github.com/dverbeek/cogent/pkg/models"
)

// Canonical agent names.
const (
	Planner     = "planner"
	Research    = "research"
	Analysis    = "analysis"
	Creator     = "creator"
	Coordinator = "coordinator"
)

// Agent is a named, capability-tagged worker.
type Agent interface {
	// Descriptor returns the agent's static descriptor. Execution
	// statistics are tracked by the registry, not on the descriptor.
	Descriptor() *models.AgentDescriptor
	// Execute runs the agent against a task description and the
	// shared context assembled for it, producing one record.
	Execute(ctx context.Context, taskDescription, sharedContext string) (*models.ExecutionRecord, error)
}

// defaultConfidence is the self-reported confidence of a plain
// completion with no tool evidence behind it.
const defaultConfidence = 0.7

// toolConfidence is the self-reported confidence when the output is
// grounded in at least one tool result.
const toolConfidence = 0.85

// base carries the shared machinery of all agent variants.
type base struct {
	desc        *models.AgentDescriptor
	provider    provider.CompletionProvider
	registry    *tools.Registry
	system      string
	maxTokens   int
	temperature float64
}

// Descriptor implements Agent.
func (b *base) Descriptor() *models.AgentDescriptor {
	return b.desc
}

// complete invokes the completion provider with the agent's system prompt.
func (b *base) complete(ctx context.Context, userPrompt string) (string, error) {
	out, err := b.provider.Complete(ctx, b.system, userPrompt, b.maxTokens, b.temperature)
	if err != nil {
		return "", fmt.Errorf("agent %s: %w", b.desc.Name, err)
	}
	return out, nil
}

// record wraps an output in a fresh ExecutionRecord.
func (b *base) record(output string, toolsUsed []string) *models.ExecutionRecord {
	confidence := defaultConfidence
	if len(toolsUsed) > 0 {
		confidence = toolConfidence
	}
	return &models.ExecutionRecord{
		Agent:      b.desc.Name,
		Output:     output,
		Confidence: models.ClampConfidence(confidence),
		ToolsUsed:  toolsUsed,
		Timestamp:  time.Now(),
	}
}

// buildPrompt assembles the user prompt from the task and any shared context.
func buildPrompt(taskDescription, sharedContext string) string {
	var sb strings.Builder
	sb.WriteString("Task: ")
	sb.WriteString(taskDescription)
	if strings.TrimSpace(sharedContext) != "" {
		sb.WriteString("\n\nShared context from earlier agents and documents:\n")
		sb.WriteString(sharedContext)
	}
	return sb.String()
}

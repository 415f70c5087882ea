package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/dverbeek/cogent/internal/provider"
	"github.com/dverbeek/cogent/internal/tools"
	"github.com/dverbeek/cogent/pkg/models"
)

// Options carries the shared dependencies and tuning for every agent
// variant. Registry may be nil for agents that use no tools.
type Options struct {
	Provider    provider.CompletionProvider
	Registry    *tools.Registry
	MaxTokens   int
	Temperature float64
}

func (o Options) withDefaults() Options {
	if o.MaxTokens <= 0 {
		o.MaxTokens = 1024
	}
	return o
}

// PlannerAgent decomposes a task into ordered steps.
type PlannerAgent struct {
	base
}

// NewPlanner creates the planning agent.
func NewPlanner(opts Options) *PlannerAgent {
	opts = opts.withDefaults()
	return &PlannerAgent{base: base{
		desc: &models.AgentDescriptor{
			Name:         Planner,
			Role:         "Task planner",
			Capabilities: []string{"plan", "planning", "organize", "strategy"},
		},
		provider:    opts.Provider,
		registry:    opts.Registry,
		system:      "You are a planning specialist. Break the task into a short numbered list of concrete steps. Output only the steps, one per line.",
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}}
}

// Execute implements Agent.
func (a *PlannerAgent) Execute(ctx context.Context, taskDescription, sharedContext string) (*models.ExecutionRecord, error) {
	out, err := a.complete(ctx, buildPrompt(taskDescription, sharedContext))
	if err != nil {
		return nil, err
	}
	return a.record(out, nil), nil
}

// ParsePlan extracts ordered step lines from a planner output. Lines
// are stripped of list numbering and bullets; when nothing usable
// survives, a generic fallback plan is returned so that planning always
// yields a usable plan.
func ParsePlan(output string) []string {
	var steps []string
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "0123456789")
		line = strings.TrimLeft(line, ".)- ")
		line = strings.TrimPrefix(line, "* ")
		if line == "" {
			continue
		}
		steps = append(steps, line)
	}
	if len(steps) == 0 {
		steps = []string{
			"Gather relevant information",
			"Analyze the gathered information",
			"Produce the requested output",
		}
	}
	return steps
}

// ResearchAgent gathers information, querying the knowledge store
// through the search_documents tool before asking the provider.
type ResearchAgent struct {
	base
}

// NewResearch creates the research agent.
func NewResearch(opts Options) *ResearchAgent {
	opts = opts.withDefaults()
	return &ResearchAgent{base: base{
		desc: &models.AgentDescriptor{
			Name:         Research,
			Role:         "Information researcher",
			Capabilities: []string{"research", "find", "gather", "search"},
			Tools:        []string{tools.SearchDocuments},
		},
		provider:    opts.Provider,
		registry:    opts.Registry,
		system:      "You are a research specialist. Gather the facts relevant to the task from the provided material. Cite which context each fact came from. Do not invent facts.",
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}}
}

// Execute implements Agent.
func (a *ResearchAgent) Execute(ctx context.Context, taskDescription, sharedContext string) (*models.ExecutionRecord, error) {
	var toolsUsed []string
	if a.registry != nil && a.registry.Exists(tools.SearchDocuments) {
		res := a.registry.Execute(ctx, tools.SearchDocuments, map[string]string{"query": taskDescription})
		if res.Success {
			toolsUsed = append(toolsUsed, tools.SearchDocuments)
			if sharedContext == "" {
				sharedContext = res.Output
			} else {
				sharedContext = sharedContext + "\n\n" + res.Output
			}
		}
	}

	out, err := a.complete(ctx, buildPrompt(taskDescription, sharedContext))
	if err != nil {
		return nil, err
	}
	return a.record(out, toolsUsed), nil
}

// AnalysisAgent interprets gathered material and extracts findings.
type AnalysisAgent struct {
	base
}

// NewAnalysis creates the analysis agent.
func NewAnalysis(opts Options) *AnalysisAgent {
	opts = opts.withDefaults()
	return &AnalysisAgent{base: base{
		desc: &models.AgentDescriptor{
			Name:         Analysis,
			Role:         "Data analyst",
			Capabilities: []string{"analysis", "analyze", "data", "trend", "pattern"},
		},
		provider:    opts.Provider,
		registry:    opts.Registry,
		system:      "You are an analysis specialist. Examine the available material, identify trends and patterns, and state your findings with the evidence behind each one.",
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}}
}

// Execute implements Agent.
func (a *AnalysisAgent) Execute(ctx context.Context, taskDescription, sharedContext string) (*models.ExecutionRecord, error) {
	out, err := a.complete(ctx, buildPrompt(taskDescription, sharedContext))
	if err != nil {
		return nil, err
	}
	return a.record(out, nil), nil
}

// CreatorAgent produces deliverables such as reports or summaries.
type CreatorAgent struct {
	base
}

// NewCreator creates the content-creation agent.
func NewCreator(opts Options) *CreatorAgent {
	opts = opts.withDefaults()
	return &CreatorAgent{base: base{
		desc: &models.AgentDescriptor{
			Name:         Creator,
			Role:         "Content creator",
			Capabilities: []string{"create", "generate", "build", "chart", "report"},
		},
		provider:    opts.Provider,
		registry:    opts.Registry,
		system:      "You are a content creation specialist. Produce the requested deliverable using only the material provided. Keep it structured and complete.",
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}}
}

// Execute implements Agent.
func (a *CreatorAgent) Execute(ctx context.Context, taskDescription, sharedContext string) (*models.ExecutionRecord, error) {
	out, err := a.complete(ctx, buildPrompt(taskDescription, sharedContext))
	if err != nil {
		return nil, err
	}
	return a.record(out, nil), nil
}

// CoordinatorAgent merges the outputs of the other agents into one
// coherent result.
type CoordinatorAgent struct {
	base
}

// NewCoordinator creates the coordination agent.
func NewCoordinator(opts Options) *CoordinatorAgent {
	opts = opts.withDefaults()
	return &CoordinatorAgent{base: base{
		desc: &models.AgentDescriptor{
			Name:         Coordinator,
			Role:         "Result coordinator",
			Capabilities: []string{"coordinate", "synthesize", "combine"},
		},
		provider:    opts.Provider,
		registry:    opts.Registry,
		system:      "You are a coordination specialist. Combine the contributions from the other agents into a single coherent answer to the task. Resolve contradictions explicitly.",
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}}
}

// Execute implements Agent.
func (a *CoordinatorAgent) Execute(ctx context.Context, taskDescription, sharedContext string) (*models.ExecutionRecord, error) {
	out, err := a.complete(ctx, buildPrompt(taskDescription, sharedContext))
	if err != nil {
		return nil, err
	}
	return a.record(out, nil), nil
}

// Synthesize merges prior execution records into a final result text.
// On provider failure it falls back to a labeled concatenation so that
// aggregation always has something to return.
func (a *CoordinatorAgent) Synthesize(ctx context.Context, taskDescription string, records []models.ExecutionRecord) string {
	var sb strings.Builder
	for _, r := range records {
		fmt.Fprintf(&sb, "[%s] (confidence %.2f)\n%s\n\n", r.Agent, r.Confidence, r.Output)
	}
	contributions := sb.String()

	prompt := fmt.Sprintf("Task: %s\n\nAgent contributions:\n%s\nSynthesize these into a single final answer.", taskDescription, contributions)
	out, err := a.complete(ctx, prompt)
	if err != nil || strings.TrimSpace(out) == "" {
		return strings.TrimSpace(contributions)
	}
	return out
}

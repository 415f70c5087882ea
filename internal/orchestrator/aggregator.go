package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dverbeek/cogent/internal/agent"
	"github.com/dverbeek/cogent/internal/knowledge"
	"github.com/dverbeek/cogent/pkg/models"
)

// errNoSurvivors is the aggregation failure for a task where every
// agent invocation errored.
var errNoSurvivors = errors.New("no successful agent executions")

// aggregator synthesizes a task's execution records into a final
// result, with knowledge-base coverage and enrichment analysis.
type aggregator struct {
	agents    *agent.Registry
	threshold float64
}

// aggregate discards errored records, synthesizes the survivors and
// attaches coverage and gap analysis based on the knowledge search
// results that fed the task.
func (a *aggregator) aggregate(ctx context.Context, task models.Task, searchResults []knowledge.SearchResult, elapsed time.Duration) (*models.TaskResult, error) {
	var survivors []models.ExecutionRecord
	for _, rec := range task.Records {
		if !rec.Failed() {
			survivors = append(survivors, rec)
		}
	}
	if len(survivors) == 0 {
		return nil, errNoSurvivors
	}

	sum := 0.0
	summaries := make([]models.AgentSummary, 0, len(survivors))
	for _, rec := range survivors {
		sum += rec.Confidence
		summaries = append(summaries, models.AgentSummary{
			Agent:      rec.Agent,
			Output:     rec.Output,
			Confidence: rec.Confidence,
			ToolsUsed:  rec.ToolsUsed,
		})
	}
	overall := models.ClampConfidence(sum / float64(len(survivors)))

	completeness, _ := knowledge.Coverage(searchResults, a.threshold)
	gaps := knowledge.AnalyzeGaps(searchResults, overall)

	return &models.TaskResult{
		FinalResult:       a.synthesize(ctx, task.Description, survivors),
		Agents:            summaries,
		OverallConfidence: overall,
		Completeness:      completeness,
		KnowledgeGaps:     gaps,
		ExecutionTime:     elapsed,
	}, nil
}

// synthesize delegates to the coordinator agent when one is registered,
// otherwise falls back to a labeled concatenation.
func (a *aggregator) synthesize(ctx context.Context, description string, records []models.ExecutionRecord) string {
	if a.agents != nil {
		if c, ok := a.agents.Get(agent.Coordinator).(*agent.CoordinatorAgent); ok {
			return c.Synthesize(ctx, description, records)
		}
	}
	return labeledConcat(records)
}

// labeledConcat joins agent outputs, each labeled with its confidence.
func labeledConcat(records []models.ExecutionRecord) string {
	var sb strings.Builder
	for _, r := range records {
		fmt.Fprintf(&sb, "[%s] (confidence %.2f)\n%s\n\n", r.Agent, r.Confidence, r.Output)
	}
	return strings.TrimSpace(sb.String())
}

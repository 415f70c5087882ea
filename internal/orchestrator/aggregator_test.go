package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dverbeek/cogent/internal/agent"
	"github.com/dverbeek/cogent/internal/knowledge"
	"github.com/dverbeek/cogent/internal/provider"
	"github.com/dverbeek/cogent/pkg/models"
)

func taskWithRecords(records ...models.ExecutionRecord) models.Task {
	return models.Task{
		ID:          "t1",
		Description: "analyze data",
		Records:     records,
	}
}

func TestAggregateDropsFailedRecords(t *testing.T) {
	agg := &aggregator{threshold: 0.7}
	task := taskWithRecords(
		models.ExecutionRecord{Agent: "research", Output: "facts", Confidence: 0.8},
		models.ExecutionRecord{Agent: "analysis", Err: "timeout"},
		models.ExecutionRecord{Agent: "creator", Output: "report", Confidence: 0.6},
	)

	result, err := agg.aggregate(context.Background(), task, nil, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Agents) != 2 {
		t.Fatalf("got %d agent summaries, want 2", len(result.Agents))
	}
	want := (0.8 + 0.6) / 2
	if result.OverallConfidence != want {
		t.Errorf("overall confidence = %v, want %v", result.OverallConfidence, want)
	}
	if result.ExecutionTime != time.Second {
		t.Errorf("execution time = %v", result.ExecutionTime)
	}
}

func TestAggregateNoSurvivors(t *testing.T) {
	agg := &aggregator{threshold: 0.7}
	task := taskWithRecords(
		models.ExecutionRecord{Agent: "research", Err: "down"},
		models.ExecutionRecord{Agent: "analysis", Err: "down"},
	)

	_, err := agg.aggregate(context.Background(), task, nil, time.Second)
	if !errors.Is(err, errNoSurvivors) {
		t.Errorf("err = %v, want errNoSurvivors", err)
	}
}

func TestAggregateCoverage(t *testing.T) {
	agg := &aggregator{threshold: 0.7}
	task := taskWithRecords(models.ExecutionRecord{Agent: "research", Output: "facts", Confidence: 0.8})

	results := []knowledge.SearchResult{
		{DocumentID: "a", Content: "x", Relevance: 0.9},
		{DocumentID: "b", Content: "y", Relevance: 0.8},
		{DocumentID: "c", Content: "z", Relevance: 0.8},
	}
	result, err := agg.aggregate(context.Background(), task, results, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if result.Completeness != models.CompletenessComplete {
		t.Errorf("completeness = %s, want complete", result.Completeness)
	}

	result, err = agg.aggregate(context.Background(), task, nil, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if result.Completeness != models.CompletenessIncomplete {
		t.Errorf("completeness = %s, want incomplete", result.Completeness)
	}
}

func TestSynthesizeFallbackWithoutCoordinator(t *testing.T) {
	reg := agent.NewRegistry()
	reg.Register(agent.NewResearch(agent.Options{Provider: okProvider()}))
	agg := &aggregator{agents: reg, threshold: 0.7}

	task := taskWithRecords(
		models.ExecutionRecord{Agent: "research", Output: "facts", Confidence: 0.8},
		models.ExecutionRecord{Agent: "analysis", Output: "findings", Confidence: 0.6},
	)

	result, err := agg.aggregate(context.Background(), task, nil, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.FinalResult, "[research] (confidence 0.80)") {
		t.Errorf("expected labeled concatenation, got %q", result.FinalResult)
	}
	if !strings.Contains(result.FinalResult, "findings") {
		t.Errorf("expected analysis output in fallback, got %q", result.FinalResult)
	}
}

func TestSynthesizeDelegatesToCoordinator(t *testing.T) {
	p := provider.Func(func(_ context.Context, _, _ string, _ int, _ float64) (string, error) {
		return "one coherent answer", nil
	})
	reg := agent.NewRegistry()
	reg.Register(agent.NewCoordinator(agent.Options{Provider: p}))
	agg := &aggregator{agents: reg, threshold: 0.7}

	task := taskWithRecords(models.ExecutionRecord{Agent: "research", Output: "facts", Confidence: 0.8})
	result, err := agg.aggregate(context.Background(), task, nil, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if result.FinalResult != "one coherent answer" {
		t.Errorf("final result = %q", result.FinalResult)
	}
}

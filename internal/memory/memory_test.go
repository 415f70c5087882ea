package memory

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/dverbeek/cogent/pkg/models"
)

func TestRelevanceBounds(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name  string
		entry models.ContextEntry
		agent string
		task  string
	}{
		{
			"full match",
			models.ContextEntry{Agent: "research", Output: "quarterly revenue trend", Timestamp: now},
			"research",
			"quarterly revenue trend",
		},
		{
			"empty everything",
			models.ContextEntry{},
			"",
			"",
		},
		{
			"empty task description",
			models.ContextEntry{Agent: "analysis", Output: "findings", Timestamp: now},
			"analysis",
			"",
		},
		{
			"empty entry output",
			models.ContextEntry{Agent: "analysis", Timestamp: now},
			"research",
			"analyze the data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := relevance(tt.entry, tt.agent, tt.task, now)
			if score < 0 || score > 1 {
				t.Errorf("relevance = %v, outside [0,1]", score)
			}
		})
	}
}

func TestRelevanceNewerEntryScoresHigher(t *testing.T) {
	now := time.Now()
	task := "analyze quarterly revenue"
	newer := models.ContextEntry{Agent: "analysis", Output: "revenue analysis", Timestamp: now.Add(-time.Minute)}
	older := models.ContextEntry{Agent: "analysis", Output: "revenue analysis", Timestamp: now.Add(-59 * time.Minute)}

	newScore := relevance(newer, "analysis", task, now)
	oldScore := relevance(older, "analysis", task, now)

	if newScore <= oldScore {
		t.Errorf("expected newer entry to score strictly higher: newer=%v older=%v", newScore, oldScore)
	}
}

func TestRelatedAgents(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"planner", "coordinator", true},
		{"research", "analysis", true},
		{"research", "creator", true},
		{"research", "planner", false},
		{"Research", "ANALYSIS", true},
		{"unknown", "analysis", false},
	}

	for _, tt := range tests {
		if got := related(tt.a, tt.b); got != tt.want {
			t.Errorf("related(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "a b c", "a b c", 1.0},
		{"disjoint", "a b", "c d", 0.0},
		{"empty left", "", "a b", 0.0},
		{"empty right", "a b", "", 0.0},
		{"both empty", "", "", 0.0},
		{"half overlap", "a b", "a c", 1.0 / 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jaccard(tt.a, tt.b); got != tt.want {
				t.Errorf("jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestContextForFiltersAndRanks(t *testing.T) {
	m := NewManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	task := "analyze quarterly revenue trend"

	// Highly relevant: same agent, strong overlap, fresh.
	m.Add("t1", models.ContextEntry{
		Agent:     "analysis",
		Output:    "quarterly revenue trend shows growth",
		Timestamp: now.Add(-time.Minute),
	})
	// Irrelevant: unrelated agent, no overlap, stale.
	m.Add("t1", models.ContextEntry{
		Agent:     "unrelated",
		Output:    "completely different subject matter entirely",
		Timestamp: now.Add(-2 * time.Hour),
	})

	ctx := m.ContextFor("analysis", task, 2000)

	if !strings.Contains(ctx, "quarterly revenue trend shows growth") {
		t.Error("expected relevant entry in context")
	}
	if strings.Contains(ctx, "different subject") {
		t.Error("expected irrelevant entry to be filtered out")
	}
	if !strings.Contains(ctx, "[analysis - relevance") {
		t.Error("expected agent and relevance prefix on retained entries")
	}
}

func TestContextForEmpty(t *testing.T) {
	m := NewManager()
	if got := m.ContextFor("research", "any task", 2000); got != "" {
		t.Errorf("expected empty context from empty manager, got %q", got)
	}
}

func TestContextForCapsRetainedEntries(t *testing.T) {
	m := NewManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	task := "shared keywords alpha beta gamma"
	for i := 0; i < 8; i++ {
		m.Add("t1", models.ContextEntry{
			Agent:     "research",
			Output:    "shared keywords alpha beta gamma",
			Timestamp: now,
		})
	}

	ctx := m.ContextFor("research", task, 100000)
	if got := strings.Count(ctx, "[research - relevance"); got != maxRetainedEntries {
		t.Errorf("expected %d retained entries, got %d", maxRetainedEntries, got)
	}
}

func TestContextForTruncation(t *testing.T) {
	m := NewManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Add("t1", models.ContextEntry{
		Agent:     "research",
		Output:    strings.Repeat("alpha beta gamma ", 200),
		Timestamp: now,
	})

	maxSize := 500
	ctx := m.ContextFor("research", "alpha beta gamma", maxSize)

	if !strings.HasSuffix(ctx, truncationMarker) {
		t.Error("expected truncation marker at end of truncated context")
	}
	if len(ctx) > maxSize {
		t.Errorf("expected context length <= %d, got %d", maxSize, len(ctx))
	}
}

func TestContextForTruncatesOnRuneBoundary(t *testing.T) {
	m := NewManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Add("t1", models.ContextEntry{
		Agent:     "research",
		Output:    strings.Repeat("データ分析の結果 ", 100),
		Timestamp: now,
	})

	// Sweep the cut point across several offsets so it lands inside a
	// multi-byte rune at least once.
	for maxSize := 490; maxSize <= 510; maxSize++ {
		ctx := m.ContextFor("research", "データ分析", maxSize)
		if !utf8.ValidString(ctx) {
			t.Fatalf("context for maxSize=%d is not valid UTF-8", maxSize)
		}
		if !strings.HasSuffix(ctx, truncationMarker) {
			t.Errorf("expected truncation marker for maxSize=%d", maxSize)
		}
		if len(ctx) > maxSize {
			t.Errorf("context length %d exceeds maxSize %d", len(ctx), maxSize)
		}
	}
}

func TestAgeOut(t *testing.T) {
	m := NewManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Add("t1", models.ContextEntry{Agent: "research", Output: "old", Timestamp: now.Add(-3 * time.Hour)})
	m.Add("t1", models.ContextEntry{Agent: "research", Output: "fresh", Timestamp: now.Add(-time.Minute)})

	removed := m.AgeOut(2 * time.Hour)
	if removed != 1 {
		t.Errorf("expected 1 removed entry, got %d", removed)
	}

	entries := m.Entries("t1")
	if len(entries) != 1 || entries[0].Output != "fresh" {
		t.Errorf("expected only the fresh entry to survive, got %v", entries)
	}
}

func TestAgeOutEverything(t *testing.T) {
	m := NewManager()
	now := time.Now()
	m.now = func() time.Time { return now }

	m.Add("t1", models.ContextEntry{Agent: "research", Output: "old", Timestamp: now.Add(-3 * time.Hour)})
	m.AgeOut(time.Hour)

	if got := m.ContextFor("research", "old", 2000); got != "" {
		t.Errorf("expected no context after full age-out, got %q", got)
	}
}

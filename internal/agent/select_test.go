package agent

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/dverbeek/cogent/internal/provider"
)

func echoProvider() provider.CompletionProvider {
	return provider.Func(func(_ context.Context, _, user string, _ int, _ float64) (string, error) {
		return "response to: " + user, nil
	})
}

func testRegistry() *Registry {
	return DefaultRegistry(Options{Provider: echoProvider()})
}

func TestSelectAlwaysReturnsAtLeastTwo(t *testing.T) {
	reg := testRegistry()
	s := NewSelector(nil)

	descriptions := []string{
		"",
		"hello",
		"do the thing",
		"analyze quarterly revenue trend",
		"research competitors and create a report with charts",
		"plan a strategy to research the market, analyze the data, and generate a final report",
	}

	for _, desc := range descriptions {
		selected := s.Select(desc, reg)
		if len(selected) < 2 {
			t.Errorf("Select(%q) returned %d agents, want >= 2", desc, len(selected))
		}
	}
}

func TestSelectKeywordMatching(t *testing.T) {
	reg := testRegistry()
	s := NewSelector(nil)

	tests := []struct {
		desc string
		want []string
	}{
		{
			"analyze quarterly revenue trend",
			[]string{Analysis, Research, Coordinator},
		},
		{
			"research competitors and create a comparison chart",
			[]string{Research, Creator, Coordinator},
		},
		{
			"say hi",
			[]string{Research, Analysis, Coordinator},
		},
	}

	for _, tt := range tests {
		got := s.Select(tt.desc, reg)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Select(%q) = %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestSelectMinimumPaddedWithDefaults(t *testing.T) {
	reg := testRegistry()
	s := NewSelector(nil)

	// Matches only analysis; research is appended to reach the minimum.
	got := s.Select("trend", reg)
	if len(got) < 2 {
		t.Fatalf("expected at least 2 agents, got %v", got)
	}
	if got[0] != Analysis {
		t.Errorf("expected analysis first, got %v", got)
	}
	found := false
	for _, name := range got {
		if name == Research {
			found = true
		}
	}
	if !found {
		t.Errorf("expected research padding in %v", got)
	}
}

func TestSelectCoordinatorAppendedLast(t *testing.T) {
	reg := testRegistry()
	s := NewSelector(nil)

	got := s.Select("research the market and analyze the data", reg)
	if got[len(got)-1] != Coordinator {
		t.Errorf("expected coordinator last, got %v", got)
	}
	for _, name := range got[:len(got)-1] {
		if name == Coordinator {
			t.Errorf("coordinator appeared before the end in %v", got)
		}
	}
}

func TestSelectPlannerForLongDescriptions(t *testing.T) {
	reg := testRegistry()
	s := NewSelector(nil)

	long := "please look into the recent numbers we received and tell me what they mean for us"
	got := s.Select(long, reg)
	if got[0] != Planner {
		t.Errorf("expected planner first for a long description, got %v", got)
	}

	short := "check the numbers"
	for _, name := range s.Select(short, reg) {
		if name == Planner {
			t.Errorf("did not expect planner for a short keyword-free description, got %v", s.Select(short, reg))
		}
	}
}

func TestSelectSkipsUnregisteredAgents(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewResearch(Options{Provider: echoProvider()}))
	reg.Register(NewAnalysis(Options{Provider: echoProvider()}))
	s := NewSelector(nil)

	got := s.Select("create a chart", reg)
	for _, name := range got {
		if name == Creator || name == Coordinator {
			t.Errorf("selected unregistered agent %q in %v", name, got)
		}
	}
	if len(got) < 2 {
		t.Errorf("minimum guarantee broken with reduced registry: %v", got)
	}
}

func TestMergeRules(t *testing.T) {
	overrides := []Rule{
		{Agent: Research, Keywords: []string{"investigate"}},
		{Agent: "", Keywords: []string{"ignored"}},
	}

	merged := MergeRules(overrides, DefaultRules())

	if merged[0].Agent != Research || merged[0].Keywords[0] != "investigate" {
		t.Errorf("expected override first, got %+v", merged[0])
	}
	for _, r := range merged[1:] {
		if r.Agent == Research {
			t.Errorf("default research rule should have been dropped: %+v", merged)
		}
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RulesFileName)
	content := "selection:\n  rules:\n    - agent: creator\n      keywords: [draft, compose]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if rules[0].Agent != Creator || rules[0].Keywords[1] != "compose" {
		t.Errorf("unexpected first rule: %+v", rules[0])
	}

	reg := testRegistry()
	s := NewSelector(rules)
	got := s.Select("compose a summary", reg)
	if got[0] != Creator {
		t.Errorf("expected override keyword to select creator, got %v", got)
	}
}

func TestFindRulesFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, RulesFileName)
	if err := os.WriteFile(path, []byte("selection: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if got := FindRulesFile(nested); got != path {
		t.Errorf("FindRulesFile = %q, want %q", got, path)
	}
	if got := FindRulesFile(t.TempDir()); got != "" {
		t.Errorf("expected empty result for a directory tree without the file, got %q", got)
	}
}

package tools

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRegistryExecute(t *testing.T) {
	r := NewRegistry()
	r.Register(Tool{
		Name:   "echo",
		Params: []string{"text"},
		Fn: func(_ context.Context, params map[string]string) (string, float64, error) {
			return params["text"], 1, nil
		},
	})

	res := r.Execute(context.Background(), "echo", map[string]string{"text": "hello"})

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Err)
	}
	if res.Output != "hello" {
		t.Errorf("expected output hello, got %q", res.Output)
	}
	if res.Confidence != 1 {
		t.Errorf("expected confidence 1, got %v", res.Confidence)
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	r := NewRegistry()

	res := r.Execute(context.Background(), "missing", nil)

	if res.Success {
		t.Error("expected failure for unknown tool")
	}
	if !strings.Contains(res.Err, "not found") {
		t.Errorf("expected not-found error, got %q", res.Err)
	}
}

func TestRegistryExecuteMissingParam(t *testing.T) {
	r := NewRegistry()
	r.Register(Tool{
		Name:   "echo",
		Params: []string{"text"},
		Fn: func(_ context.Context, params map[string]string) (string, float64, error) {
			return params["text"], 1, nil
		},
	})

	res := r.Execute(context.Background(), "echo", map[string]string{})

	if res.Success {
		t.Error("expected failure for missing parameter")
	}
	if !strings.Contains(res.Err, "text") {
		t.Errorf("expected error naming the missing parameter, got %q", res.Err)
	}
}

func TestRegistryExecuteToolError(t *testing.T) {
	r := NewRegistry()
	r.Register(Tool{
		Name: "broken",
		Fn: func(_ context.Context, _ map[string]string) (string, float64, error) {
			return "", 0, errors.New("boom")
		},
	})

	res := r.Execute(context.Background(), "broken", nil)

	if res.Success {
		t.Error("expected failure")
	}
	if res.Err != "boom" {
		t.Errorf("expected error boom, got %q", res.Err)
	}

	// Failed executions do not count as usage.
	if r.Usage()["broken"] != 0 {
		t.Error("expected no usage recorded for failed execution")
	}
}

func TestRegistryUsageCounts(t *testing.T) {
	r := NewRegistry()
	r.Register(Tool{
		Name: "noop",
		Fn: func(_ context.Context, _ map[string]string) (string, float64, error) {
			return "", 1, nil
		},
	})

	for i := 0; i < 3; i++ {
		r.Execute(context.Background(), "noop", nil)
	}

	if got := r.Usage()["noop"]; got != 3 {
		t.Errorf("expected usage 3, got %d", got)
	}
}

func TestRegistryExists(t *testing.T) {
	r := NewRegistry()
	if r.Exists("anything") {
		t.Error("expected empty registry to have no tools")
	}

	r.Register(Tool{Name: "anything"})
	if !r.Exists("anything") {
		t.Error("expected registered tool to exist")
	}
}

func TestClaimSupport(t *testing.T) {
	tests := []struct {
		name   string
		claim  string
		source string
		want   float64
	}{
		{"full support", "revenue grew", "revenue grew in the last quarter", 1.0},
		{"no support", "revenue grew", "unrelated words entirely", 0.0},
		{"empty claim", "", "anything", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := claimSupport(tt.claim, tt.source); got != tt.want {
				t.Errorf("claimSupport() = %v, want %v", got, tt.want)
			}
		})
	}
}

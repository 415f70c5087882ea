package validate

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dverbeek/cogent/internal/tools"
	"github.com/dverbeek/cogent/pkg/models"
)

// factCheckRegistry returns a registry whose fact_checker always
// reports the given confidence.
func factCheckRegistry(confidence float64, fail bool) *tools.Registry {
	r := tools.NewRegistry()
	r.Register(tools.Tool{
		Name:   tools.FactChecker,
		Params: []string{"claim", "context"},
		Fn: func(_ context.Context, _ map[string]string) (string, float64, error) {
			if fail {
				return "", 0, errors.New("provider unavailable")
			}
			return "checked", confidence, nil
		},
	})
	return r
}

func TestValidateToolUseAlwaysValid(t *testing.T) {
	e := NewEngine(nil)

	// Even with empty output and no context, tool use wins.
	rec := &models.ExecutionRecord{Agent: "research", ToolsUsed: []string{"search_documents"}}
	v := e.Validate(context.Background(), rec, "")

	if !v.Valid {
		t.Error("expected tool-using record to be valid")
	}
	if v.Tier != models.TierHigh {
		t.Errorf("expected high tier, got %v", v.Tier)
	}
}

func TestValidateEmptyOutput(t *testing.T) {
	e := NewEngine(nil)

	rec := &models.ExecutionRecord{Agent: "analysis", Output: "   "}
	v := e.Validate(context.Background(), rec, "plenty of source material here")

	if v.Valid {
		t.Error("expected empty output to be invalid")
	}
	if v.Tier != models.TierLow {
		t.Errorf("expected low tier, got %v", v.Tier)
	}
}

func TestValidateFactCheck(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
		wantValid  bool
		wantTier   models.ConfidenceTier
	}{
		{"passes above threshold", 0.8, true, models.TierHigh},
		{"fails below threshold", 0.4, false, models.TierMedium},
		{"fails at threshold", 0.6, false, models.TierMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEngine(factCheckRegistry(tt.confidence, false))
			rec := &models.ExecutionRecord{Agent: "analysis", Output: "some claim"}

			v := e.Validate(context.Background(), rec, "source text")

			if v.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v", v.Valid, tt.wantValid)
			}
			if v.Tier != tt.wantTier {
				t.Errorf("Tier = %v, want %v", v.Tier, tt.wantTier)
			}
		})
	}
}

func TestValidateClaimExcerptKeepsRunesIntact(t *testing.T) {
	var gotClaim string
	r := tools.NewRegistry()
	r.Register(tools.Tool{
		Name:   tools.FactChecker,
		Params: []string{"claim", "context"},
		Fn: func(_ context.Context, params map[string]string) (string, float64, error) {
			gotClaim = params["claim"]
			return "checked", 0.9, nil
		},
	})
	e := NewEngine(r)

	// The one-byte prefix keeps every rune off a multiple of three, so
	// a byte-index cut at the claim limit would split a rune.
	rec := &models.ExecutionRecord{Agent: "analysis", Output: "x" + strings.Repeat("日", 300)}
	e.Validate(context.Background(), rec, "source text")

	if gotClaim == "" {
		t.Fatal("fact checker was not invoked")
	}
	if len(gotClaim) > claimLimit {
		t.Errorf("claim length %d exceeds limit %d", len(gotClaim), claimLimit)
	}
	if !utf8.ValidString(gotClaim) {
		t.Error("truncated claim is not valid UTF-8")
	}
}

func TestValidateFactCheckFailureFallsBack(t *testing.T) {
	e := NewEngine(factCheckRegistry(0, true))

	source := strings.Repeat("revenue growth trend data ", 10)
	rec := &models.ExecutionRecord{Agent: "analysis", Output: "revenue growth trend"}

	v := e.Validate(context.Background(), rec, source)

	if !v.Valid {
		t.Error("expected overlap fallback to validate matching output")
	}
	if v.Tier != models.TierMedium {
		t.Errorf("expected medium tier from overlap check, got %v", v.Tier)
	}
}

func TestValidateOverlap(t *testing.T) {
	e := NewEngine(nil)
	source := strings.Repeat("quarterly revenue increased over the prior period ", 5)

	t.Run("good overlap", func(t *testing.T) {
		rec := &models.ExecutionRecord{Agent: "analysis", Output: "revenue increased over the quarterly period"}
		v := e.Validate(context.Background(), rec, source)
		if !v.Valid {
			t.Error("expected good overlap to be valid")
		}
		if v.Tier != models.TierMedium {
			t.Errorf("expected medium tier, got %v", v.Tier)
		}
	})

	t.Run("low overlap", func(t *testing.T) {
		rec := &models.ExecutionRecord{Agent: "analysis", Output: "unrelated fabricated statement about nothing"}
		v := e.Validate(context.Background(), rec, source)
		if v.Valid {
			t.Error("expected low overlap to be invalid")
		}
		if v.Tier != models.TierLow {
			t.Errorf("expected low tier, got %v", v.Tier)
		}
	})
}

func TestValidateNoContextFallback(t *testing.T) {
	e := NewEngine(nil)

	rec := &models.ExecutionRecord{Agent: "creator", Output: "a generated report"}
	v := e.Validate(context.Background(), rec, "")

	if !v.Valid {
		t.Error("expected no-context fallback to be valid")
	}
	if v.Tier != models.TierLow {
		t.Errorf("expected low tier, got %v", v.Tier)
	}
}

func TestOverlapFraction(t *testing.T) {
	tests := []struct {
		name   string
		output string
		source string
		want   float64
	}{
		{"all matched", "a b", "a b c", 1.0},
		{"half matched", "a b", "a c", 0.5},
		{"none matched", "a b", "c d", 0.0},
		{"empty output", "", "a b", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := overlapFraction(tt.output, tt.source); got != tt.want {
				t.Errorf("overlapFraction = %v, want %v", got, tt.want)
			}
		})
	}
}

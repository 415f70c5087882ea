package knowledge

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dverbeek/cogent/pkg/models"
)

func hasSuggestion(suggestions []models.EnrichmentSuggestion, typ models.EnrichmentType) bool {
	for _, s := range suggestions {
		if s.Type == typ {
			return true
		}
	}
	return false
}

func TestAnalyzeGapsNoResults(t *testing.T) {
	suggestions := AnalyzeGaps(nil, 0.9)

	if !hasSuggestion(suggestions, models.EnrichmentDocumentGap) {
		t.Error("expected a document_gap suggestion with zero results")
	}

	for _, s := range suggestions {
		if s.Type == models.EnrichmentDocumentGap && s.Priority != "high" {
			t.Errorf("expected document_gap priority high, got %q", s.Priority)
		}
	}
}

func TestAnalyzeGapsLowConfidence(t *testing.T) {
	results := []SearchResult{
		{DocumentID: "a", Relevance: 0.5, Metadata: map[string]string{"document_type": "text"}},
		{DocumentID: "b", Relevance: 0.9, Metadata: map[string]string{"document_type": "markdown"}},
	}

	suggestions := AnalyzeGaps(results, 0.9)

	if !hasSuggestion(suggestions, models.EnrichmentLowConfidenceSources) {
		t.Error("expected a low_confidence_sources suggestion")
	}
	if hasSuggestion(suggestions, models.EnrichmentDocumentGap) {
		t.Error("did not expect document_gap with results present")
	}
	if hasSuggestion(suggestions, models.EnrichmentSourceDiversity) {
		t.Error("did not expect source_diversity with two document types")
	}
}

func TestAnalyzeGapsSingleDocumentType(t *testing.T) {
	results := []SearchResult{
		{DocumentID: "a", Relevance: 0.9, Metadata: map[string]string{"document_type": "text"}},
		{DocumentID: "b", Relevance: 0.8, Metadata: map[string]string{"document_type": "text"}},
	}

	suggestions := AnalyzeGaps(results, 0.9)

	if !hasSuggestion(suggestions, models.EnrichmentSourceDiversity) {
		t.Error("expected a source_diversity suggestion for a single document type")
	}
}

func TestAnalyzeGapsStandingSuggestions(t *testing.T) {
	suggestions := AnalyzeGaps(nil, 1.0)

	if !hasSuggestion(suggestions, models.EnrichmentExternalIntegration) {
		t.Error("expected external_integration to always be suggested")
	}
	if !hasSuggestion(suggestions, models.EnrichmentUserFeedback) {
		t.Error("expected user_feedback to always be suggested")
	}
}

func TestCoverage(t *testing.T) {
	tests := []struct {
		name    string
		results []SearchResult
		want    models.Completeness
	}{
		{"no results", nil, models.CompletenessIncomplete},
		{
			"strong coverage",
			[]SearchResult{{Relevance: 0.9}, {Relevance: 0.8}, {Relevance: 0.85}},
			models.CompletenessComplete,
		},
		{
			"weak coverage",
			[]SearchResult{{Relevance: 0.4}},
			models.CompletenessPartial,
		},
		{
			"near-zero coverage",
			[]SearchResult{{Relevance: 0.1}},
			models.CompletenessIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, score := Coverage(tt.results, 0.7)
			if level != tt.want {
				t.Errorf("Coverage() = %v, want %v", level, tt.want)
			}
			if score < 0 || score > 1 {
				t.Errorf("Coverage() score %v outside [0,1]", score)
			}
		})
	}
}

func TestFormatContextLimitsResults(t *testing.T) {
	results := []SearchResult{
		{Content: "first"},
		{Content: "second"},
		{Content: "third"},
		{Content: "fourth"},
	}

	text := FormatContext(results)
	if text == "" {
		t.Fatal("expected non-empty context")
	}

	for _, want := range []string{"Context 1: first", "Context 3: third"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in context", want)
		}
	}
	if strings.Contains(text, "fourth") {
		t.Error("expected only the top three results to be included")
	}
}

func TestFormatContextTruncatesOnRuneBoundary(t *testing.T) {
	// The one-byte prefix shifts every rune off a multiple of three, so
	// a byte-index cut at the snippet limit would split a rune.
	content := "x" + strings.Repeat("日", 200)
	text := FormatContext([]SearchResult{{Content: content}})

	if !utf8.ValidString(text) {
		t.Fatal("truncated context is not valid UTF-8")
	}
	if !strings.HasSuffix(text, "...") {
		t.Error("expected ellipsis on truncated content")
	}
}

func TestFormatContextEmpty(t *testing.T) {
	if got := FormatContext(nil); got != "" {
		t.Errorf("expected empty context for no results, got %q", got)
	}
}

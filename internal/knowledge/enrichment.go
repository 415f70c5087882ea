package knowledge

import (
	"fmt"

	"github.com/dverbeek/cogent/pkg/models"
)

// lowConfidenceThreshold marks a search result as weakly supported.
const lowConfidenceThreshold = 0.7

// AnalyzeGaps inspects the context a task executed with and proposes
// enrichment suggestions, ordered roughly by priority. The last two
// suggestions are always present: external integration and user
// feedback are standing recommendations, not gap-driven ones.
func AnalyzeGaps(results []SearchResult, overallConfidence float64) []models.EnrichmentSuggestion {
	var suggestions []models.EnrichmentSuggestion

	if len(results) == 0 {
		suggestions = append(suggestions, models.EnrichmentSuggestion{
			Type:           models.EnrichmentDocumentGap,
			Description:    "No relevant documents were found. Upload materials related to this task.",
			Priority:       "high",
			ExpectedImpact: "high",
		})
	}

	lowConfidence := 0
	for _, r := range results {
		if r.Relevance < lowConfidenceThreshold {
			lowConfidence++
		}
	}
	if lowConfidence > 0 || overallConfidence < lowConfidenceThreshold {
		desc := "Overall confidence is low. Include more diverse sources for better coverage."
		if lowConfidence > 0 {
			desc = fmt.Sprintf("%d low-confidence sources were used. Additional sources are needed.", lowConfidence)
		}
		suggestions = append(suggestions, models.EnrichmentSuggestion{
			Type:           models.EnrichmentLowConfidenceSources,
			Description:    desc,
			Priority:       "medium",
			ExpectedImpact: "medium",
		})
	}

	if len(results) > 0 {
		types := make(map[string]struct{})
		for _, r := range results {
			t := r.Metadata["document_type"]
			if t == "" {
				t = "unknown"
			}
			types[t] = struct{}{}
		}
		if len(types) < 2 {
			suggestions = append(suggestions, models.EnrichmentSuggestion{
				Type:           models.EnrichmentSourceDiversity,
				Description:    "All sources share one document type. Add reports, data files, or articles.",
				Priority:       "medium",
				ExpectedImpact: "medium",
			})
		}
	}

	suggestions = append(suggestions,
		models.EnrichmentSuggestion{
			Type:           models.EnrichmentExternalIntegration,
			Description:    "Integrate external APIs for real-time data.",
			Priority:       "low",
			ExpectedImpact: "high",
		},
		models.EnrichmentSuggestion{
			Type:           models.EnrichmentUserFeedback,
			Description:    "Collect user ratings to improve answer quality.",
			Priority:       "low",
			ExpectedImpact: "medium",
		},
	)

	return suggestions
}

package models

// EnrichmentType classifies a knowledge-gap suggestion.
type EnrichmentType string

const (
	// EnrichmentDocumentGap means no relevant documents were found.
	EnrichmentDocumentGap EnrichmentType = "document_gap"
	// EnrichmentLowConfidenceSources means retrieved sources scored poorly.
	EnrichmentLowConfidenceSources EnrichmentType = "low_confidence_sources"
	// EnrichmentSourceDiversity means the sources lack variety.
	EnrichmentSourceDiversity EnrichmentType = "source_diversity"
	// EnrichmentExternalIntegration suggests wiring external data sources.
	EnrichmentExternalIntegration EnrichmentType = "external_integration"
	// EnrichmentUserFeedback suggests collecting user ratings.
	EnrichmentUserFeedback EnrichmentType = "user_feedback"
)

// EnrichmentSuggestion proposes a way to improve knowledge-base coverage.
type EnrichmentSuggestion struct {
	// Type classifies the suggestion.
	Type EnrichmentType `json:"type"`
	// Description explains the suggestion.
	Description string `json:"description"`
	// Priority is "low", "medium", or "high".
	Priority string `json:"priority"`
	// ExpectedImpact is "low", "medium", or "high".
	ExpectedImpact string `json:"expected_impact"`
}

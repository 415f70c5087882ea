// Package knowledge provides the vector knowledge store consumed by the
// orchestration engine: similarity search over ingested documents,
// coverage scoring, and enrichment analysis. The engine depends only on
// the Store interface; the chromem-backed implementation is the default.
package knowledge

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dverbeek/cogent/pkg/models"
)

// SearchResult is one ranked document chunk returned by a search.
type SearchResult struct {
	// DocumentID identifies the source document.
	DocumentID string `json:"document_id"`
	// Content is the matched text.
	Content string `json:"content"`
	// Metadata carries document annotations (e.g. document_type).
	Metadata map[string]string `json:"metadata,omitempty"`
	// Relevance is the similarity score in [0,1].
	Relevance float64 `json:"relevance"`
}

// Store is the similarity-search contract the orchestrator consumes.
type Store interface {
	// Search returns up to limit results ranked by relevance,
	// discarding results scoring below threshold.
	Search(ctx context.Context, query string, limit int, threshold float64) ([]SearchResult, error)
}

// maxContextResults bounds how many results are folded into a prompt.
const maxContextResults = 3

// maxContextSnippet bounds the per-result excerpt length.
const maxContextSnippet = 300

// FormatContext renders search results as prompt context text.
// Only the top results are included, each truncated to a short excerpt.
func FormatContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var parts []string
	for i, r := range results {
		if i >= maxContextResults {
			break
		}
		content := r.Content
		if len(content) > maxContextSnippet {
			cut := maxContextSnippet
			for cut > 0 && !utf8.RuneStart(content[cut]) {
				cut--
			}
			content = content[:cut] + "..."
		}
		parts = append(parts, fmt.Sprintf("Context %d: %s", i+1, content))
	}

	return strings.Join(parts, "\n\n")
}

// Coverage scores how completely a result set covers a query.
// Zero results is always incomplete with zero confidence.
func Coverage(results []SearchResult, threshold float64) (models.Completeness, float64) {
	if len(results) == 0 {
		return models.CompletenessIncomplete, 0
	}

	var sum float64
	for _, r := range results {
		sum += r.Relevance
	}
	mean := sum / float64(len(results))

	switch {
	case mean >= threshold && len(results) >= 3:
		return models.CompletenessComplete, mean
	case mean >= threshold/2:
		return models.CompletenessPartial, mean
	default:
		return models.CompletenessIncomplete, mean
	}
}

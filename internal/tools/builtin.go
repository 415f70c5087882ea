package tools

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dverbeek/cogent/internal/knowledge"
	"github.com/dverbeek/cogent/internal/provider"
)

// Built-in tool names.
const (
	// SearchDocuments queries the vector knowledge store.
	SearchDocuments = "search_documents"
	// FactChecker verifies a claim against source text.
	FactChecker = "fact_checker"
)

// RegisterBuiltins wires the standard tools. Tools whose dependency is
// nil are skipped, so a registry without a knowledge store simply has
// no search_documents tool.
func RegisterBuiltins(r *Registry, store knowledge.Store, p provider.CompletionProvider) {
	if store != nil {
		r.Register(Tool{
			Name:        SearchDocuments,
			Description: "Search the knowledge base for documents relevant to a query",
			Params:      []string{"query"},
			Fn:          searchDocumentsFunc(store),
		})
	}
	if p != nil {
		r.Register(Tool{
			Name:        FactChecker,
			Description: "Verify a claim against source text and report confidence",
			Params:      []string{"claim", "context"},
			Fn:          factCheckerFunc(p),
		})
	}
}

func searchDocumentsFunc(store knowledge.Store) Func {
	return func(ctx context.Context, params map[string]string) (string, float64, error) {
		results, err := store.Search(ctx, params["query"], 5, 0)
		if err != nil {
			return "", 0, fmt.Errorf("search failed: %w", err)
		}
		if len(results) == 0 {
			return "No matching documents found.", 0, nil
		}
		return knowledge.FormatContext(results), results[0].Relevance, nil
	}
}

// factCheckClaimLimit bounds the claim excerpt sent for checking.
const factCheckClaimLimit = 500

func factCheckerFunc(p provider.CompletionProvider) Func {
	return func(ctx context.Context, params map[string]string) (string, float64, error) {
		claim := params["claim"]
		if len(claim) > factCheckClaimLimit {
			cut := factCheckClaimLimit
			for cut > 0 && !utf8.RuneStart(claim[cut]) {
				cut--
			}
			claim = claim[:cut]
		}
		source := params["context"]

		prompt := fmt.Sprintf(
			"Fact-check the following claim against the provided context.\n\nClaim: %s\n\nContext: %s\n\nState whether the claim is supported, contradicted, or unverifiable, citing the context.",
			claim, source,
		)
		assessment, err := p.Complete(ctx, "You are a careful fact checker.", prompt, 300, 0.0)
		if err != nil {
			return "", 0, fmt.Errorf("fact check failed: %w", err)
		}

		return assessment, claimSupport(claim, source), nil
	}
}

// claimSupport scores how much of the claim's vocabulary appears in the
// source text. This is the numeric confidence the validation engine
// compares against its threshold; the model's prose is evidence for the
// reader, not for the gate.
func claimSupport(claim, source string) float64 {
	claimWords := wordSet(claim)
	if len(claimWords) == 0 {
		return 0
	}
	sourceWords := wordSet(source)

	matched := 0
	for w := range claimWords {
		if _, ok := sourceWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(claimWords))
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

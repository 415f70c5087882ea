// Package validate implements the anti-hallucination gate: each agent
// output is judged against the evidence that was available to it, and
// weakly supported outputs have their confidence degraded. Validation
// never halts a task.
package validate

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/dverbeek/cogent/internal/tools"
	"github.com/dverbeek/cogent/pkg/models"
)

// PenaltyFactor is applied to a record's confidence on an invalid verdict.
const PenaltyFactor = 0.5

// LowTierCap bounds the confidence of an output that validated at the
// low tier, so evidence-free output can never reach the coverage
// threshold on self-reported confidence alone.
const LowTierCap = 0.6

// factCheckThreshold is the minimum fact-check confidence for validity.
const factCheckThreshold = 0.6

// overlapRatio is the minimum fraction of output words that must appear
// in the source text for the overlap fallback to pass.
const overlapRatio = 0.3

// minSourceLength is the smallest source text worth overlap-checking.
const minSourceLength = 100

// claimLimit bounds the excerpt sent to the fact-check tool.
const claimLimit = 500

// Engine judges agent outputs against supporting evidence.
type Engine struct {
	registry *tools.Registry
}

// NewEngine creates a validation engine. The registry may be nil, in
// which case the fact-check step is skipped.
func NewEngine(registry *tools.Registry) *Engine {
	return &Engine{registry: registry}
}

// Validate applies the validation policy in order, first match wins:
// tool use is trusted outright; empty output is rejected; a fact-check
// tool arbitrates when available; otherwise word overlap with the
// source text decides; with no evidence at all the output passes at
// low confidence.
func (e *Engine) Validate(ctx context.Context, rec *models.ExecutionRecord, sourceText string) models.Verdict {
	if len(rec.ToolsUsed) > 0 {
		return models.Verdict{Valid: true, Reason: "tools were used", Tier: models.TierHigh}
	}

	output := strings.TrimSpace(rec.Output)
	if output == "" {
		return models.Verdict{Valid: false, Reason: "no output generated", Tier: models.TierLow}
	}

	if e.registry != nil && e.registry.Exists(tools.FactChecker) {
		claim := output
		if len(claim) > claimLimit {
			cut := claimLimit
			for cut > 0 && !utf8.RuneStart(claim[cut]) {
				cut--
			}
			claim = claim[:cut]
		}
		res := e.registry.Execute(ctx, tools.FactChecker, map[string]string{
			"claim":   claim,
			"context": sourceText,
		})
		if res.Success {
			if res.Confidence > factCheckThreshold {
				return models.Verdict{Valid: true, Reason: "fact check passed", Tier: models.TierHigh}
			}
			return models.Verdict{Valid: false, Reason: "fact check below threshold", Tier: models.TierMedium}
		}
		// Tool failure falls through to the overlap check.
	}

	if len(sourceText) > minSourceLength {
		if overlapFraction(output, sourceText) >= overlapRatio {
			return models.Verdict{Valid: true, Reason: "good context overlap", Tier: models.TierMedium}
		}
		return models.Verdict{Valid: false, Reason: "low context overlap", Tier: models.TierLow}
	}

	// Absence of evidence is not evidence of invalidity, but the
	// confidence tier must reflect the uncertainty.
	return models.Verdict{Valid: true, Reason: "no supporting context available", Tier: models.TierLow}
}

// overlapFraction is the fraction of the output's distinct words that
// also appear in the source text.
func overlapFraction(output, source string) float64 {
	outputWords := wordSet(output)
	if len(outputWords) == 0 {
		return 0
	}
	sourceWords := wordSet(source)

	matched := 0
	for w := range outputWords {
		if _, ok := sourceWords[w]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(outputWords))
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

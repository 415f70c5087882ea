package memory

import (
	"strings"
	"time"

	"github.com/dverbeek/cogent/pkg/models"
)

// Relevance weights. Keyword overlap dominates; same-agent affinity,
// agent relatedness, and recency refine the ordering.
const (
	sameAgentWeight    = 0.3
	relatedAgentWeight = 0.2
	keywordWeight      = 0.5
	recencyWeight      = 0.2
)

// recencyWindow is the linear decay window: an entry this old or older
// contributes nothing from recency.
const recencyWindow = time.Hour

// relatedGroups defines which agents are considered related in the
// workflow. Agents sharing any group get the related-agent bonus.
var relatedGroups = [][]string{
	{"planner", "coordinator"},
	{"research", "analysis", "creator"},
	{"coordinator", "planner"},
}

// relevance scores a context entry for a requesting agent and task
// description. The result is always in [0,1]; empty inputs score the
// components they can and never panic.
func relevance(entry models.ContextEntry, agentName, taskDescription string, now time.Time) float64 {
	var score float64

	if entry.Agent == agentName {
		score += sameAgentWeight
	} else if related(entry.Agent, agentName) {
		score += relatedAgentWeight
	}

	score += keywordWeight * jaccard(taskDescription, entry.Output)
	score += recencyWeight * recencyDecay(entry.Timestamp, now)

	return models.ClampConfidence(score)
}

// related reports whether two agents share a workflow group.
func related(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	for _, group := range relatedGroups {
		foundA, foundB := false, false
		for _, name := range group {
			if name == a {
				foundA = true
			}
			if name == b {
				foundB = true
			}
		}
		if foundA && foundB {
			return true
		}
	}
	return false
}

// jaccard is the Jaccard similarity of the whitespace-tokenized,
// lower-cased word sets of two texts. Either side empty yields 0.
func jaccard(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// recencyDecay decays linearly from 1.0 at now to 0.0 at the window
// edge, floored at 0. Future timestamps score 1.
func recencyDecay(ts, now time.Time) float64 {
	age := now.Sub(ts)
	if age <= 0 {
		return 1
	}
	if age >= recencyWindow {
		return 0
	}
	return 1 - float64(age)/float64(recencyWindow)
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}

package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/dverbeek/cogent/internal/provider"
)

// maxClarifyingQuestions bounds how many questions are surfaced.
const maxClarifyingQuestions = 3

// fallbackQuestions is used when the provider fails or returns nothing.
var fallbackQuestions = []string{
	"What is the primary goal or deliverable you expect from this task?",
	"Are there specific documents or data sources that should be consulted?",
	"What level of detail do you need in the final result?",
}

// ClarifyingQuestions asks the provider for questions that would sharpen
// a vague task description. It always returns at least one question.
func ClarifyingQuestions(ctx context.Context, p provider.CompletionProvider, description string) []string {
	if p == nil {
		return fallbackQuestions
	}

	prompt := fmt.Sprintf(
		"A user submitted this task: %q\n\nList up to %d short clarifying questions that would most improve the result. One question per line, no numbering.",
		description, maxClarifyingQuestions,
	)
	out, err := p.Complete(ctx, "You help scope ambiguous tasks.", prompt, 256, 0.3)
	if err != nil {
		return fallbackQuestions
	}

	var questions []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "0123456789.-) "))
		if line == "" {
			continue
		}
		questions = append(questions, line)
		if len(questions) == maxClarifyingQuestions {
			break
		}
	}
	if len(questions) == 0 {
		return fallbackQuestions
	}
	return questions
}

package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cogent",
	Short: "Multi-agent task orchestration engine",
	Long: `Cogent orchestrates specialized agents over free-text tasks.

A submitted task is planned into an ordered agent list, executed
sequentially with shared context, validated against supporting evidence
to reduce fabricated content, and synthesized into a final result with
a confidence score and enrichment suggestions.

Core capabilities:
- Keyword-based agent selection with a guaranteed minimum plan
- Shared context store with relevance-scored retrieval
- Anti-hallucination validation with confidence gating
- Document-backed answers via an embedded vector store
- Live progress streaming (plain or TUI)`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(resultCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

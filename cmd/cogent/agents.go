package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dverbeek/cogent/internal/agent"
	"github.com/dverbeek/cogent/internal/state"
	"github.com/dverbeek/cogent/pkg/models"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List available agents and their statistics",
	Long: `Show every registered agent with its role, selection capabilities,
tools, and performance statistics accumulated across runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The registry with nil options is enough for listing; no
		// provider calls are made here.
		agents := agent.DefaultRegistry(agent.Options{})

		persisted := loadPersistedStats()

		bold := color.New(color.Bold)
		for _, desc := range agents.Descriptors() {
			stats, ok := persisted[desc.Name]
			if !ok {
				stats = desc.Stats
			}

			bold.Println(desc.Name)
			fmt.Printf("  role:         %s\n", desc.Role)
			fmt.Printf("  capabilities: %s\n", strings.Join(desc.Capabilities, ", "))
			if len(desc.Tools) > 0 {
				fmt.Printf("  tools:        %s\n", strings.Join(desc.Tools, ", "))
			}
			printAgentStats(stats)
			fmt.Println()
		}
		return nil
	},
}

// loadPersistedStats reads stats from the project state database.
// A missing database just means no history yet.
func loadPersistedStats() map[string]models.AgentStats {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	db, err := state.OpenProject(cwd)
	if err != nil {
		return nil
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return nil
	}
	stats, err := db.LoadAgentStats()
	if err != nil {
		return nil
	}
	return stats
}

func printAgentStats(stats models.AgentStats) {
	if stats.ExecutionCount == 0 {
		fmt.Println("  executions:   none yet")
		return
	}
	fmt.Printf("  executions:   %d (success rate %.0f%%, avg %s)\n",
		stats.ExecutionCount, stats.SuccessRate*100,
		stats.AvgExecutionTime.Round(time.Millisecond))
	fmt.Printf("  last run:     %s\n", stats.LastExecution.Local().Format(time.DateTime))
}

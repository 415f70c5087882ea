package main

import (
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dverbeek/cogent/internal/state"
	"github.com/dverbeek/cogent/pkg/models"
)

var statusLimit int

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recent task history",
	Long:  `List recently submitted tasks from the project state database, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		db, err := state.OpenProject(cwd)
		if err != nil {
			return fmt.Errorf("open state database: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("migrate state database: %w", err)
		}

		records, err := db.RecentTasks(statusLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No tasks recorded yet.")
			return nil
		}

		for _, r := range records {
			printTaskRecord(r)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVarP(&statusLimit, "limit", "n", 10, "maximum number of tasks to show")
}

func printTaskRecord(r state.TaskRecord) {
	status := color.YellowString(string(r.Status))
	switch r.Status {
	case models.TaskStatusCompleted:
		status = color.GreenString(string(r.Status))
	case models.TaskStatusFailed:
		status = color.RedString(string(r.Status))
	}

	desc := r.Description
	if len(desc) > 60 {
		cut := 57
		for cut > 0 && !utf8.RuneStart(desc[cut]) {
			cut--
		}
		desc = desc[:cut] + "..."
	}

	fmt.Printf("%s  %-9s  %s\n", r.ID, status, desc)
	fmt.Printf("  priority %-6s  agents %d  created %s\n",
		r.Priority, r.AgentCount, r.CreatedAt.Local().Format(time.DateTime))
	if r.Status == models.TaskStatusCompleted {
		fmt.Printf("  confidence %.2f  completeness %s\n", r.Confidence, r.Completeness)
	}
	if r.Error != "" {
		fmt.Printf("  error: %s\n", r.Error)
	}
	fmt.Println()
}

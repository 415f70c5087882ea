package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dverbeek/cogent/internal/state"
	"github.com/dverbeek/cogent/pkg/models"
)

var resultCmd = &cobra.Command{
	Use:   "result <task-id>",
	Short: "Show the stored result of a completed task",
	Args:  cobra.ExactArgs(1),
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

		rec, err := db.TaskByID(args[0])
		if err != nil {
			return err
		}
		if rec.Status != models.TaskStatusCompleted {
			return fmt.Errorf("task %s is %s, no result available", rec.ID, rec.Status)
		}

		bold := color.New(color.Bold)
		bold.Println(rec.Description)
		fmt.Println()
		fmt.Println(rec.Result)
		fmt.Println()
		fmt.Printf("confidence:   %.2f\n", rec.Confidence)
		fmt.Printf("completeness: %s\n", rec.Completeness)
		fmt.Printf("agents:       %d\n", rec.AgentCount)
		fmt.Printf("finished:     %s\n", rec.FinishedAt.Local().Format(time.DateTime))
		return nil
	},
}

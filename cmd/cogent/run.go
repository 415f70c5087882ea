package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dverbeek/cogent/internal/agent"
	"github.com/dverbeek/cogent/internal/config"
	"github.com/dverbeek/cogent/internal/provider"
	"github.com/dverbeek/cogent/internal/tui"
	"github.com/dverbeek/cogent/pkg/models"
)

var (
	runPriority string
	runDocs     []string
	runTUI      bool
	runClarify  bool
)

var runCmd = &cobra.Command{
	Use:   "run <task description>",
	Short: "Submit a task and stream its progress",
	Long: `Submit a free-text task to the orchestrator and stream progress
until it completes or fails.

Context documents passed with --doc are ingested into the knowledge
store before planning, so agents can ground their answers in them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTask(strings.Join(args, " "))
	},
}

func init() {
	runCmd.Flags().StringVarP(&runPriority, "priority", "p", "medium", "task priority (low, medium, high, urgent)")
	runCmd.Flags().StringArrayVarP(&runDocs, "doc", "d", nil, "context document file to ingest (repeatable)")
	runCmd.Flags().BoolVar(&runTUI, "tui", false, "show an interactive progress view")
	runCmd.Flags().BoolVar(&runClarify, "clarify", false, "print clarifying questions instead of running")
}

func runTask(description string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if runClarify {
		return printClarifyingQuestions(cfg, description)
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}
	defer eng.close()

	docs := make([]string, 0, len(runDocs))
	for _, path := range runDocs {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read context document %s: %w", path, err)
		}
		docs = append(docs, string(content))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	taskID, err := eng.orch.Submit(ctx, description, models.TaskPriority(runPriority), docs)
	if err != nil {
		return err
	}

	events, err := eng.orch.StreamProgress(taskID)
	if err != nil {
		return err
	}

	// Cancel the task on interrupt so it lands in a terminal state and
	// the stream closes.
	go func() {
		<-ctx.Done()
		eng.orch.Cancel(taskID)
	}()

	var result *models.TaskResult
	if runTUI {
		result, err = tui.Run(taskID, events)
		if err != nil {
			return err
		}
	} else {
		result = streamPlain(taskID, events)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	eng.orch.Shutdown(shutdownCtx)
	eng.orch.Memory().AgeOut(cfg.Memory.MaxAge)

	if result == nil {
		task, serr := eng.orch.Status(taskID)
		if serr == nil && len(task.Errors) > 0 {
			color.Red("task failed: %s", task.Errors[len(task.Errors)-1])
		} else {
			color.Red("task did not complete")
		}
		os.Exit(1)
	}

	if !runTUI {
		printResult(result)
		in, out := eng.provider.Tracker().Total()
		fmt.Printf("tokens:       %d in / %d out over %d calls\n", in, out, eng.provider.Tracker().Calls())
	}
	return nil
}

// printClarifyingQuestions asks the provider what would sharpen the
// task description. A missing provider still yields the fallback set.
func printClarifyingQuestions(cfg *config.Config, description string) error {
	p, err := provider.NewAnthropic(provider.AnthropicConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	var cp provider.CompletionProvider
	if err == nil {
		cp = p
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.Call)
	defer cancel()

	for i, q := range agent.ClarifyingQuestions(ctx, cp, description) {
		fmt.Printf("%d. %s\n", i+1, q)
	}
	return nil
}

// streamPlain prints progress events line by line and returns the final
// result, or nil if the task did not complete.
func streamPlain(taskID string, events <-chan models.ProgressEvent) *models.TaskResult {
	fmt.Printf("task %s\n", taskID)

	for ev := range events {
		switch ev.Type {
		case models.ProgressError:
			color.Red("[%3.0f%%] %s", ev.Progress*100, ev.Message)
		case models.ProgressCompletion:
			color.Green("[%3.0f%%] %s", ev.Progress*100, ev.Message)
			if ev.Result != nil {
				r := ev.Result.Clone()
				return &r
			}
		default:
			if ev.Status == models.TaskStatusPaused {
				color.Yellow("[%3.0f%%] %s", ev.Progress*100, ev.Message)
			} else {
				fmt.Printf("[%3.0f%%] %s\n", ev.Progress*100, ev.Message)
			}
		}
	}
	return nil
}

func printResult(result *models.TaskResult) {
	bold := color.New(color.Bold)

	fmt.Println()
	bold.Println("Result")
	fmt.Println(result.FinalResult)
	fmt.Println()
	fmt.Printf("confidence:   %.2f\n", result.OverallConfidence)
	fmt.Printf("completeness: %s\n", result.Completeness)
	fmt.Printf("elapsed:      %s\n", result.ExecutionTime.Round(10*time.Millisecond))

	if len(result.Agents) > 0 {
		fmt.Println()
		bold.Println("Agents")
		for _, a := range result.Agents {
			line := fmt.Sprintf("  %-12s confidence %.2f", a.Agent, a.Confidence)
			if len(a.ToolsUsed) > 0 {
				line += "  tools: " + strings.Join(a.ToolsUsed, ", ")
			}
			fmt.Println(line)
		}
	}

	if len(result.KnowledgeGaps) > 0 {
		fmt.Println()
		bold.Println("Knowledge gaps")
		for _, g := range result.KnowledgeGaps {
			fmt.Printf("  [%s/%s] %s\n", g.Priority, g.Type, g.Description)
		}
	}
}

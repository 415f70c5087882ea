package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dverbeek/cogent/internal/config"
	"github.com/dverbeek/cogent/internal/knowledge"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <file or directory>...",
	Short: "Ingest documents into the knowledge store",
	Long: `Ingest text documents into the vector knowledge store so agents can
ground their answers in them.

With --watch, the given directory is watched and new or changed
documents are ingested as they appear, until interrupted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("open knowledge store: %w", err)
		}

		if ingestWatch {
			return watchAndIngest(store, args[0])
		}

		ctx := context.Background()
		for _, path := range args {
			if err := store.IngestFile(ctx, path); err != nil {
				return fmt.Errorf("ingest %s: %w", path, err)
			}
			fmt.Printf("ingested %s\n", path)
		}
		color.Green("%d documents in store", store.Count())
		return nil
	},
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "watch a directory and ingest new documents")
}

func watchAndIngest(store *knowledge.ChromemStore, dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("--watch requires a directory, got %s", dir)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("watching %s (ctrl+c to stop)\n", dir)
	if err := knowledge.NewWatcher(store).Watch(ctx, dir); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

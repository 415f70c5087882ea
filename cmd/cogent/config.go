package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dverbeek/cogent/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default user config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GetUserConfigPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s", path)
		}
		if err := config.Save(config.Default()); err != nil {
			return err
		}
		color.Green("wrote default config to %s", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold)

	bold.Println("Config files")
	fmt.Printf("  user:    %s\n", config.GetUserConfigPath())
	if project := config.GetProjectConfigPath(); project != "" {
		fmt.Printf("  project: %s\n", project)
	} else {
		fmt.Println("  project: (none)")
	}

	fmt.Println()
	bold.Println("Anthropic")
	fmt.Printf("  model:           %s\n", cfg.Anthropic.Model)
	fmt.Printf("  api key:         %s\n", maskKey(cfg.Anthropic.APIKey))
	fmt.Printf("  aws bedrock:     %v\n", cfg.Anthropic.UseAWSBedrock)
	if cfg.Anthropic.UseAWSBedrock {
		fmt.Printf("  aws region:      %s\n", cfg.Anthropic.AWSRegion)
		fmt.Printf("  aws profile:     %s\n", cfg.Anthropic.AWSProfile)
	}

	fmt.Println()
	bold.Println("Agents")
	fmt.Printf("  max tokens:      %d\n", cfg.Agents.MaxTokens)
	fmt.Printf("  temperature:     %.2f\n", cfg.Agents.Temperature)

	fmt.Println()
	bold.Println("Memory")
	fmt.Printf("  max context:     %d\n", cfg.Memory.MaxContextSize)
	fmt.Printf("  max age:         %s\n", cfg.Memory.MaxAge)

	fmt.Println()
	bold.Println("Knowledge")
	if cfg.Knowledge.Path != "" {
		fmt.Printf("  path:            %s\n", cfg.Knowledge.Path)
	} else {
		fmt.Println("  path:            (in-memory)")
	}
	fmt.Printf("  collection:      %s\n", cfg.Knowledge.Collection)
	fmt.Printf("  coverage:        %.2f\n", cfg.Knowledge.CoverageThreshold)

	fmt.Println()
	bold.Println("Validation")
	fmt.Printf("  fact check:      %v\n", cfg.Validation.FactCheck)

	fmt.Println()
	bold.Println("Timeouts")
	fmt.Printf("  call:            %s\n", cfg.Timeouts.Call)

	return nil
}

// maskKey hides all but the tail of an API key.
func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 8 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

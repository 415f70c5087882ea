package main

import (
	"fmt"
	"log"
	"os"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/dverbeek/cogent/internal/agent"
	"github.com/dverbeek/cogent/internal/config"
	"github.com/dverbeek/cogent/internal/knowledge"
	"github.com/dverbeek/cogent/internal/orchestrator"
	"github.com/dverbeek/cogent/internal/provider"
	"github.com/dverbeek/cogent/internal/state"
	"github.com/dverbeek/cogent/internal/tools"
	"github.com/dverbeek/cogent/internal/validate"
)

// engine bundles the wired components behind one run of the CLI.
type engine struct {
	orch     *orchestrator.Orchestrator
	store    *knowledge.ChromemStore
	provider *provider.Anthropic
	db       *state.DB
}

func (e *engine) close() {
	if e.db != nil {
		e.db.Close()
	}
}

// openStore opens the chromem store configured for this project.
func openStore(cfg *config.Config) (*knowledge.ChromemStore, error) {
	return knowledge.NewChromemStore(knowledge.ChromemConfig{
		Path:       cfg.Knowledge.Path,
		Collection: cfg.Knowledge.Collection,
	})
}

// buildEngine wires provider, knowledge store, tools, agents, state and
// orchestrator from configuration.
func buildEngine(cfg *config.Config) (*engine, error) {
	p, err := provider.NewAnthropic(provider.AnthropicConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("create completion provider: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open knowledge store: %w", err)
	}

	registry := tools.NewRegistry()
	if cfg.Validation.FactCheck {
		tools.RegisterBuiltins(registry, store, p)
	} else {
		tools.RegisterBuiltins(registry, store, nil)
	}

	agents := agent.DefaultRegistry(agent.Options{
		Provider:    p,
		Registry:    registry,
		MaxTokens:   cfg.Agents.MaxTokens,
		Temperature: cfg.Agents.Temperature,
	})

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	db, err := state.OpenProject(cwd)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state database: %w", err)
	}

	// Seed the registry with stats accumulated by earlier runs.
	if persisted, err := db.LoadAgentStats(); err == nil {
		for name, stats := range persisted {
			agents.SeedStats(name, stats)
		}
	} else {
		log.Printf("[cogent] load agent stats: %v", err)
	}

	selector := agent.NewSelector(nil)
	if path := agent.FindRulesFile(cwd); path != "" {
		if rules, err := agent.LoadRules(path); err == nil {
			selector = agent.NewSelector(rules)
		} else {
			log.Printf("[cogent] load selection rules from %s: %v", path, err)
		}
	}

	orch := orchestrator.New(agents,
		orchestrator.WithSelector(selector),
		orchestrator.WithValidator(validate.NewEngine(registry)),
		orchestrator.WithKnowledgeStore(store),
		orchestrator.WithRecorder(db),
		orchestrator.WithLogger(orchestrator.NewDebugLoggerAt(cwd)),
		orchestrator.WithCallTimeout(cfg.Timeouts.Call),
		orchestrator.WithMaxContextSize(cfg.Memory.MaxContextSize),
		orchestrator.WithCoverageThreshold(cfg.Knowledge.CoverageThreshold),
	)

	return &engine{orch: orch, store: store, provider: p, db: db}, nil
}

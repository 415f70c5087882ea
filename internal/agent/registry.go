package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dverbeek/cogent/pkg/models"
)

// Registry holds the available agent variants by name, along with each
// agent's rolling execution statistics. Stats live in the registry
// rather than on the shared descriptors so concurrently running tasks
// record through one lock instead of racing on descriptor fields.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]Agent
	stats  map[string]*models.AgentStats
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]Agent),
		stats:  make(map[string]*models.AgentStats),
	}
}

// Register adds an agent, replacing any existing agent with the same
// name. Statistics already recorded under that name are kept.
func (r *Registry) Register(a Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := a.Descriptor().Name
	r.agents[name] = a
	if _, ok := r.stats[name]; !ok {
		r.stats[name] = &models.AgentStats{}
	}
}

// Get returns the named agent, or nil if not registered.
func (r *Registry) Get(name string) Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[name]
}

// Has reports whether the named agent is registered.
func (r *Registry) Has(name string) bool {
	return r.Get(name) != nil
}

// Names returns the registered agent names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns snapshots of every registered agent's descriptor
// with current statistics folded in, ordered by name.
func (r *Registry) Descriptors() []models.AgentDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)

	descs := make([]models.AgentDescriptor, 0, len(names))
	for _, name := range names {
		cp := r.agents[name].Descriptor().Clone()
		if s, ok := r.stats[name]; ok {
			cp.Stats = *s
		}
		descs = append(descs, cp)
	}
	return descs
}

// RecordExecution folds one invocation outcome into an agent's rolling
// statistics. Unknown names are ignored.
func (r *Registry) RecordExecution(name string, success bool, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stats[name]; ok {
		s.Record(success, elapsed, time.Now())
	}
}

// StatsFor returns a snapshot of an agent's rolling statistics.
func (r *Registry) StatsFor(name string) (models.AgentStats, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stats[name]
	if !ok {
		return models.AgentStats{}, false
	}
	return *s, true
}

// SeedStats replaces an agent's statistics, typically with values
// persisted by an earlier run. Unknown names are ignored.
func (r *Registry) SeedStats(name string, stats models.AgentStats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stats[name]; ok {
		r.stats[name] = &stats
	}
}

// Timed runs the named agent, folding elapsed time and success into the
// registry's rolling statistics.
func (r *Registry) Timed(ctx context.Context, name, taskDescription, sharedContext string) (*models.ExecutionRecord, error) {
	ag := r.Get(name)
	if ag == nil {
		return nil, fmt.Errorf("agent %s not registered", name)
	}
	start := time.Now()
	rec, err := ag.Execute(ctx, taskDescription, sharedContext)
	r.RecordExecution(name, err == nil, time.Since(start))
	return rec, err
}

// DefaultRegistry builds a registry with all five standard variants.
func DefaultRegistry(opts Options) *Registry {
	r := NewRegistry()
	r.Register(NewPlanner(opts))
	r.Register(NewResearch(opts))
	r.Register(NewAnalysis(opts))
	r.Register(NewCreator(opts))
	r.Register(NewCoordinator(opts))
	return r
}

// Package memory implements the shared context store: an append-only
// log of agent outputs filtered by a relevance heuristic when a later
// agent asks for context.
package memory

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dverbeek/cogent/pkg/models"
)

// relevanceThreshold discards entries scoring below it.
const relevanceThreshold = 0.3

// maxRetainedEntries caps how many entries feed one context request.
const maxRetainedEntries = 5

// truncationMargin is reserved below maxSize when truncating.
const truncationMargin = 100

// truncationMarker is always appended when context is cut short.
const truncationMarker = "\n\n[context truncated for length]"

// defaultMaxSize applies when the caller passes a non-positive size.
const defaultMaxSize = 2000

// Manager maintains the per-task context log plus a global per-agent
// output history. Entries are appended only; the only removal path is
// the bulk AgeOut sweep.
type Manager struct {
	mu sync.RWMutex
	// taskLog holds the ordered entries per task.
	taskLog map[string][]models.ContextEntry
	// agentHistory holds every entry per producing agent, across tasks.
	agentHistory map[string][]models.ContextEntry
	// now is replaceable for tests.
	now func() time.Time
}

// NewManager creates an empty context manager.
func NewManager() *Manager {
	return &Manager{
		taskLog:      make(map[string][]models.ContextEntry),
		agentHistory: make(map[string][]models.ContextEntry),
		now:          time.Now,
	}
}

// Add appends an entry to a task's log and the producing agent's history.
func (m *Manager) Add(taskID string, entry models.ContextEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = m.now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskLog[taskID] = append(m.taskLog[taskID], entry)
	m.agentHistory[entry.Agent] = append(m.agentHistory[entry.Agent], entry)
}

// Entries returns a copy of a task's context log.
func (m *Manager) Entries(taskID string) []models.ContextEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.ContextEntry(nil), m.taskLog[taskID]...)
}

// ContextFor assembles the most relevant prior outputs for an agent
// about to work on a task. Entries are scored against the requesting
// agent and the task description, filtered, ranked, and concatenated;
// the result never exceeds maxSize and a truncation is always marked.
func (m *Manager) ContextFor(agentName, taskDescription string, maxSize int) string {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	now := m.now()

	type scored struct {
		entry models.ContextEntry
		score float64
	}

	m.mu.RLock()
	var candidates []scored
	for _, entries := range m.agentHistory {
		for _, e := range entries {
			if s := relevance(e, agentName, taskDescription, now); s >= relevanceThreshold {
				candidates = append(candidates, scored{entry: e, score: s})
			}
		}
	}
	m.mu.RUnlock()

	if len(candidates) == 0 {
		return ""
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > maxRetainedEntries {
		candidates = candidates[:maxRetainedEntries]
	}

	blocks := make([]string, len(candidates))
	for i, c := range candidates {
		blocks[i] = fmt.Sprintf("[%s - relevance %.2f]\n%s", c.entry.Agent, c.score, c.entry.Output)
	}
	combined := strings.Join(blocks, "\n---\n")

	if len(combined) > maxSize {
		cut := maxSize - truncationMargin
		if cut < 0 {
			cut = 0
		}
		// Never split a multi-byte rune.
		for cut > 0 && !utf8.RuneStart(combined[cut]) {
			cut--
		}
		combined = combined[:cut] + truncationMarker
	}
	return combined
}

// AgeOut removes entries older than maxAge from both the task logs and
// the agent histories, returning the number of entries removed.
func (m *Manager) AgeOut(maxAge time.Duration) int {
	cutoff := m.now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for taskID, entries := range m.taskLog {
		kept := entries[:0]
		for _, e := range entries {
			if e.Timestamp.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) == 0 {
			delete(m.taskLog, taskID)
		} else {
			m.taskLog[taskID] = kept
		}
	}

	for agent, entries := range m.agentHistory {
		kept := entries[:0]
		for _, e := range entries {
			if !e.Timestamp.Before(cutoff) {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(m.agentHistory, agent)
		} else {
			m.agentHistory[agent] = kept
		}
	}

	if removed > 0 {
		log.Printf("[memory] aged out %d context entries older than %s", removed, maxAge)
	}
	return removed
}

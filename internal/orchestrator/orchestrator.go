package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dverbeek/cogent/internal/agent"
	"github.com/dverbeek/cogent/internal/knowledge"
	"github.com/dverbeek/cogent/internal/memory"
	"github.com/dverbeek/cogent/internal/validate"
	"github.com/dverbeek/cogent/pkg/models"
)

// Progress values per phase. Execution interpolates between the base
// and the aggregation mark; the final stretch is reserved for
// aggregation and gap analysis.
const (
	progressPlanning    = 0.1
	progressExecuteBase = 0.3
	progressExecuteSpan = 0.5
	progressAggregation = 0.8
)

// defaultCallTimeout bounds each external call (provider, tool, store).
const defaultCallTimeout = 2 * time.Minute

// defaultMaxContextSize bounds the shared context handed to one agent.
const defaultMaxContextSize = 2000

// defaultCoverageThreshold is the relevance mean required for full
// knowledge coverage.
const defaultCoverageThreshold = 0.7

// searchLimit is how many knowledge results back one task.
const searchLimit = 5

// ErrNotReady is returned by Result for a task that has not completed.
var ErrNotReady = errors.New("task has not completed")

// now is replaceable for tests.
var now = time.Now

// Ingestor is the optional document-ingestion side of a knowledge
// store, used for context documents supplied at submission.
type Ingestor interface {
	Ingest(ctx context.Context, id, content string, metadata map[string]string) error
}

// StatsRecorder persists agent statistics and task history.
type StatsRecorder interface {
	SaveAgentStats(name string, stats models.AgentStats) error
	RecordTask(task models.Task) error
}

// Orchestrator owns the task lifecycle: planning, sequential agent
// execution with shared context, validation, aggregation and progress
// streaming. Each submitted task runs on its own goroutine; tasks never
// block one another.
type Orchestrator struct {
	agents    *agent.Registry
	selector  *agent.Selector
	memory    *memory.Manager
	validator *validate.Engine
	store     knowledge.Store
	ingestor  Ingestor
	recorder  StatsRecorder
	logger    *DebugLogger

	callTimeout       time.Duration
	maxContextSize    int
	coverageThreshold float64

	tasks *taskStore
	wg    sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithSelector overrides the default selection rule table.
func WithSelector(s *agent.Selector) Option {
	return func(o *Orchestrator) { o.selector = s }
}

// WithMemory overrides the shared context manager.
func WithMemory(m *memory.Manager) Option {
	return func(o *Orchestrator) { o.memory = m }
}

// WithValidator overrides the validation engine.
func WithValidator(v *validate.Engine) Option {
	return func(o *Orchestrator) { o.validator = v }
}

// WithKnowledgeStore wires a knowledge store for document context. If
// the store also implements Ingestor, context documents supplied at
// submission are ingested into it.
func WithKnowledgeStore(s knowledge.Store) Option {
	return func(o *Orchestrator) {
		o.store = s
		if ing, ok := s.(Ingestor); ok {
			o.ingestor = ing
		}
	}
}

// WithRecorder wires persistence for agent stats and task history.
func WithRecorder(r StatsRecorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithLogger wires a debug logger.
func WithLogger(l *DebugLogger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithCallTimeout bounds each external call made during execution.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithMaxContextSize bounds the shared context handed to one agent.
func WithMaxContextSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxContextSize = n
		}
	}
}

// WithCoverageThreshold sets the relevance mean required for full
// knowledge coverage.
func WithCoverageThreshold(t float64) Option {
	return func(o *Orchestrator) {
		if t > 0 {
			o.coverageThreshold = t
		}
	}
}

// New creates an orchestrator over the given agent registry.
func New(agents *agent.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		agents:            agents,
		selector:          agent.NewSelector(nil),
		memory:            memory.NewManager(),
		validator:         validate.NewEngine(nil),
		logger:            NopLogger(),
		callTimeout:       defaultCallTimeout,
		maxContextSize:    defaultMaxContextSize,
		coverageThreshold: defaultCoverageThreshold,
		tasks:             newTaskStore(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit creates a task and starts executing it on its own goroutine.
// Context documents, if any, are ingested into the knowledge store
// before planning begins. The returned ID is immediately queryable.
func (o *Orchestrator) Submit(ctx context.Context, description string, priority models.TaskPriority, contextDocuments []string) (string, error) {
	if description == "" {
		return "", fmt.Errorf("task description cannot be empty")
	}
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return "", fmt.Errorf("unknown priority %q", priority)
	}

	taskID := uuid.NewString()

	if o.ingestor != nil {
		for i, doc := range contextDocuments {
			id := fmt.Sprintf("%s-doc-%d", taskID, i)
			if err := o.ingestor.Ingest(ctx, id, doc, map[string]string{"document_type": "submitted"}); err != nil {
				log.Printf("[orchestrator] ingest context document %s: %v", id, err)
			}
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	h := &taskHandle{
		task: &models.Task{
			ID:          taskID,
			Description: description,
			Priority:    priority,
			Status:      models.TaskStatusPlanning,
			Progress:    0,
			CreatedAt:   now(),
			UpdatedAt:   now(),
		},
		pause:  newPauseController(),
		hub:    newEventHub(),
		cancel: cancel,
	}
	o.tasks.add(h)

	o.logger.Log("submit task=%s priority=%s description=%q", taskID, priority, description)

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer cancel()
		o.run(runCtx, h)
	}()

	return taskID, nil
}

// Status returns a snapshot of the task, or ErrNotFound.
func (o *Orchestrator) Status(taskID string) (models.Task, error) {
	h, ok := o.tasks.get(taskID)
	if !ok {
		return models.Task{}, ErrNotFound
	}
	return h.snapshot(), nil
}

// Result returns the final result of a completed task. ErrNotReady is
// returned while the task is still running or after it failed.
func (o *Orchestrator) Result(taskID string) (models.TaskResult, error) {
	h, ok := o.tasks.get(taskID)
	if !ok {
		return models.TaskResult{}, ErrNotFound
	}
	snap := h.snapshot()
	if snap.Status != models.TaskStatusCompleted || snap.Result == nil {
		return models.TaskResult{}, ErrNotReady
	}
	return *snap.Result, nil
}

// Pause suspends an executing task at its next agent boundary. Returns
// false for unknown tasks and for any status other than executing.
func (o *Orchestrator) Pause(taskID string) bool {
	h, ok := o.tasks.get(taskID)
	if !ok {
		return false
	}

	paused := false
	snap := h.update(func(t *models.Task) {
		if t.Status != models.TaskStatusExecuting {
			return
		}
		t.Status = models.TaskStatusPaused
		paused = true
	})
	if !paused {
		return false
	}

	h.pause.pause(taskID)
	h.hub.publish(models.ProgressEvent{
		Type:     models.ProgressStatusUpdate,
		TaskID:   taskID,
		Status:   snap.Status,
		Progress: snap.Progress,
		Message:  "task paused",
	})
	return true
}

// Resume lifts a pause. Returns false unless the task is paused.
func (o *Orchestrator) Resume(taskID string) bool {
	h, ok := o.tasks.get(taskID)
	if !ok {
		return false
	}

	resumed := false
	snap := h.update(func(t *models.Task) {
		if t.Status != models.TaskStatusPaused {
			return
		}
		t.Status = models.TaskStatusExecuting
		resumed = true
	})
	if !resumed {
		return false
	}

	h.pause.resume(taskID)
	h.hub.publish(models.ProgressEvent{
		Type:     models.ProgressStatusUpdate,
		TaskID:   taskID,
		Status:   snap.Status,
		Progress: snap.Progress,
		Message:  "task resumed",
	})
	return true
}

// Cancel stops an executing or paused task. Already-produced execution
// records are retained. Returns false from any other status.
func (o *Orchestrator) Cancel(taskID string) bool {
	h, ok := o.tasks.get(taskID)
	if !ok {
		return false
	}

	cancelled := false
	h.update(func(t *models.Task) {
		if t.Status != models.TaskStatusExecuting && t.Status != models.TaskStatusPaused {
			return
		}
		cancelled = true
	})
	if !cancelled {
		return false
	}

	o.logger.Log("cancel task=%s", taskID)
	h.pause.stop()
	h.cancel()
	return true
}

// StreamProgress subscribes to a task's progress events. The stream
// replays the current state, then follows the task until its terminal
// event, after which the channel closes.
func (o *Orchestrator) StreamProgress(taskID string) (<-chan models.ProgressEvent, error) {
	h, ok := o.tasks.get(taskID)
	if !ok {
		return nil, ErrNotFound
	}
	return h.hub.subscribe(), nil
}

// AgentStatuses returns descriptor snapshots for every registered agent.
func (o *Orchestrator) AgentStatuses() []models.AgentDescriptor {
	return o.agents.Descriptors()
}

// Memory exposes the shared context manager, for retention sweeps.
func (o *Orchestrator) Memory() *memory.Manager {
	return o.memory
}

// Shutdown cancels all running tasks and waits for their goroutines to
// finish, or for ctx to expire.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	for _, h := range o.tasks.all() {
		h.pause.stop()
		h.cancel()
	}

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run drives one task through planning, execution and aggregation.
func (o *Orchestrator) run(ctx context.Context, h *taskHandle) {
	taskID := h.task.ID
	started := now()

	snap := h.update(func(t *models.Task) {
		t.Progress = progressPlanning
	})
	h.hub.publish(statusEvent(snap, "planning"))

	selected := o.selector.Select(snap.Description, o.agents)
	if len(selected) == 0 {
		o.fail(h, "planning failed: no viable plan produced")
		return
	}
	o.logger.Log("task=%s plan=%v", taskID, selected)

	snap = h.update(func(t *models.Task) {
		t.Plan = append([]string(nil), selected...)
		t.Status = models.TaskStatusExecuting
		t.Progress = progressExecuteBase
	})
	h.hub.publish(statusEvent(snap, fmt.Sprintf("executing %d agents", len(selected))))

	searchResults := o.searchKnowledge(ctx, snap.Description)
	sourceText := concatResults(searchResults)
	docsContext := knowledge.FormatContext(searchResults)

	total := len(selected)
	for i, name := range selected {
		if err := h.pause.waitIfPaused(ctx); err != nil {
			o.fail(h, "task cancelled")
			return
		}
		if ctx.Err() != nil || h.pause.isStopped() {
			o.fail(h, "task cancelled")
			return
		}

		rec := o.invoke(ctx, name, snap.Description, docsContext, sourceText)
		o.memory.Add(taskID, models.ContextEntry{
			Agent:  name,
			Output: rec.Output,
			Metadata: map[string]string{
				"confidence": fmt.Sprintf("%.2f", rec.Confidence),
			},
			Timestamp: rec.Timestamp,
		})

		progress := progressExecuteBase + float64(i+1)/float64(total)*progressExecuteSpan
		snap = h.update(func(t *models.Task) {
			t.Records = append(t.Records, *rec)
			t.Progress = progress
		})
		h.hub.publish(statusEvent(snap, fmt.Sprintf("agent %s finished (%d/%d)", name, i+1, total)))
	}

	if ctx.Err() != nil || h.pause.isStopped() {
		o.fail(h, "task cancelled")
		return
	}

	snap = h.update(func(t *models.Task) {
		t.Progress = progressAggregation
	})
	h.hub.publish(statusEvent(snap, "aggregating results"))

	agg := &aggregator{agents: o.agents, threshold: o.coverageThreshold}
	result, err := agg.aggregate(ctx, snap, searchResults, now().Sub(started))
	if err != nil {
		o.fail(h, err.Error())
		return
	}

	snap = h.update(func(t *models.Task) {
		t.Status = models.TaskStatusCompleted
		t.Progress = 1.0
		t.Result = result
	})
	h.hub.publish(models.ProgressEvent{
		Type:     models.ProgressCompletion,
		TaskID:   taskID,
		Status:   snap.Status,
		Progress: snap.Progress,
		Message:  "task completed",
		Result:   snap.Result,
	})
	o.logger.Log("task=%s completed confidence=%.2f completeness=%s", taskID, result.OverallConfidence, result.Completeness)
	o.persist(snap)
}

// invoke runs one agent with a bounded call timeout, returning a failed
// record instead of an error: per-agent failures never abort the plan.
func (o *Orchestrator) invoke(ctx context.Context, name, description, docsContext, sourceText string) *models.ExecutionRecord {
	ag := o.agents.Get(name)
	if ag == nil {
		return &models.ExecutionRecord{
			Agent:     name,
			Err:       fmt.Sprintf("agent %s not registered", name),
			Timestamp: now(),
		}
	}

	shared := o.memory.ContextFor(name, description, o.maxContextSize)
	if docsContext != "" {
		if shared == "" {
			shared = docsContext
		} else {
			shared = docsContext + "\n---\n" + shared
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	rec, err := o.agents.Timed(callCtx, name, description, shared)
	if err != nil {
		o.logger.Log("agent=%s failed: %v", name, err)
		return &models.ExecutionRecord{
			Agent:     name,
			Err:       err.Error(),
			Timestamp: now(),
		}
	}

	verdict := o.validator.Validate(callCtx, rec, sourceText)
	rec.Verdict = verdict
	if !verdict.Valid {
		rec.Confidence = models.ClampConfidence(rec.Confidence * validate.PenaltyFactor)
		o.logger.Log("agent=%s verdict=invalid reason=%q confidence=%.2f", name, verdict.Reason, rec.Confidence)
	} else if verdict.Tier == models.TierLow && rec.Confidence > validate.LowTierCap {
		rec.Confidence = validate.LowTierCap
	}
	return rec
}

// fail marks the task failed, keeping whatever records were produced.
func (o *Orchestrator) fail(h *taskHandle, reason string) {
	snap := h.update(func(t *models.Task) {
		t.Status = models.TaskStatusFailed
		t.Errors = append(t.Errors, reason)
	})
	h.hub.publish(models.ProgressEvent{
		Type:     models.ProgressError,
		TaskID:   snap.ID,
		Status:   snap.Status,
		Progress: snap.Progress,
		Message:  reason,
	})
	o.logger.Log("task=%s failed: %s", snap.ID, reason)
	o.persist(snap)
}

// searchKnowledge queries the store for task context. A missing store
// or a failed search yields no results, not an error.
func (o *Orchestrator) searchKnowledge(ctx context.Context, query string) []knowledge.SearchResult {
	if o.store == nil {
		return nil
	}
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	results, err := o.store.Search(callCtx, query, searchLimit, 0)
	if err != nil {
		log.Printf("[orchestrator] knowledge search failed: %v", err)
		return nil
	}
	return results
}

// persist writes agent stats and task history, best effort.
func (o *Orchestrator) persist(task models.Task) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordTask(task); err != nil {
		log.Printf("[orchestrator] record task %s: %v", task.ID, err)
	}
	seen := make(map[string]bool)
	for _, rec := range task.Records {
		if seen[rec.Agent] {
			continue
		}
		seen[rec.Agent] = true
		if stats, ok := o.agents.StatsFor(rec.Agent); ok {
			if err := o.recorder.SaveAgentStats(rec.Agent, stats); err != nil {
				log.Printf("[orchestrator] save stats for %s: %v", rec.Agent, err)
			}
		}
	}
}

func statusEvent(snap models.Task, message string) models.ProgressEvent {
	return models.ProgressEvent{
		Type:     models.ProgressStatusUpdate,
		TaskID:   snap.ID,
		Status:   snap.Status,
		Progress: snap.Progress,
		Message:  message,
	}
}

// concatResults joins search result contents as validation source text.
func concatResults(results []knowledge.SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		if r.Content != "" {
			parts = append(parts, r.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

package orchestrator

import (
	"context"
	"errors"
	"sync"

	"github.com/dverbeek/cogent/pkg/models"
)

// ErrNotFound is returned for operations on an unknown task ID.
var ErrNotFound = errors.New("task not found")

// taskHandle owns one task's record and control surfaces. The task
// record is only touched under mu; the run loop is the single writer,
// while status and streaming queries read concurrently.
type taskHandle struct {
	mu    sync.RWMutex
	task  *models.Task
	pause *pauseController
	hub   *eventHub
	// cancel aborts the run loop's context.
	cancel context.CancelFunc
}

// snapshot returns a deep copy of the task record.
func (h *taskHandle) snapshot() models.Task {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.task.Clone()
}

// update applies fn to the task under the write lock and stamps
// UpdatedAt. Progress is never allowed to move backwards.
func (h *taskHandle) update(fn func(t *models.Task)) models.Task {
	h.mu.Lock()
	defer h.mu.Unlock()

	before := h.task.Progress
	fn(h.task)
	if h.task.Progress < before {
		h.task.Progress = before
	}
	h.task.UpdatedAt = now()
	return h.task.Clone()
}

// taskStore is the concurrency-safe task registry.
type taskStore struct {
	mu      sync.RWMutex
	handles map[string]*taskHandle
}

func newTaskStore() *taskStore {
	return &taskStore{handles: make(map[string]*taskHandle)}
}

// add registers a handle for a new task.
func (s *taskStore) add(h *taskHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[h.task.ID] = h
}

// get returns the handle for a task ID.
func (s *taskStore) get(taskID string) (*taskHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handles[taskID]
	return h, ok
}

// all returns every registered handle.
func (s *taskStore) all() []*taskHandle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	handles := make([]*taskHandle, 0, len(s.handles))
	for _, h := range s.handles {
		handles = append(handles, h)
	}
	return handles
}

package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// pauseController manages pause/resume/stop state for one task's
// execution flow. The run loop calls waitIfPaused between agent
// invocations; pause takes effect at the next such boundary.
type pauseController struct {
	// paused indicates whether the task is paused.
	paused bool
	// stopped indicates the task was cancelled; waiters unblock with an error.
	stopped bool
	// mu protects all fields.
	mu sync.RWMutex
	// cond signals when the task is unpaused or stopped.
	cond *sync.Cond
}

func newPauseController() *pauseController {
	p := &pauseController{}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// pause suspends execution at the next agent boundary.
func (p *pauseController) pause(taskID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		p.paused = true
		log.Printf("[orchestrator] task %s paused - no further agents will run until resume", taskID)
	}
}

// resume lifts a pause.
func (p *pauseController) resume(taskID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		p.paused = false
		log.Printf("[orchestrator] task %s resumed", taskID)
		p.cond.Broadcast()
	}
}

// stop signals cancellation. This unblocks any waitIfPaused calls.
func (p *pauseController) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.stopped {
		p.stopped = true
		p.cond.Broadcast()
	}
}

// isStopped returns whether the controller has been stopped.
func (p *pauseController) isStopped() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.stopped
}

// waitIfPaused blocks until the task is unpaused or stopped.
// Returns an error if the context is cancelled or the controller is stopped.
func (p *pauseController) waitIfPaused(ctx context.Context) error {
	p.mu.Lock()
	if p.paused && !p.stopped {
		// One goroutine to signal the condition on context cancellation.
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				p.mu.Lock()
				p.cond.Broadcast()
				p.mu.Unlock()
			case <-done:
			}
		}()

		// Wait loop - no new goroutines spawned on spurious wakeups
		for p.paused && !p.stopped {
			p.cond.Wait()
			if ctx.Err() != nil {
				close(done)
				p.mu.Unlock()
				return ctx.Err()
			}
		}
		close(done)
	}
	if p.stopped {
		p.mu.Unlock()
		return fmt.Errorf("task cancelled")
	}
	p.mu.Unlock()
	return nil
}

package orchestrator

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dverbeek/cogent/pkg/models"
)

// subscriberBuffer is the per-subscriber channel capacity.
const subscriberBuffer = 16

// sendTimeout is how long publish waits on a full subscriber before
// dropping the event for that subscriber.
const sendTimeout = 100 * time.Millisecond

// eventHub fans one task's progress events out to any number of
// subscribers. Every subscriber first receives the most recent event so
// late joiners see the current state, and all channels are closed when
// a terminal event is published.
type eventHub struct {
	mu       sync.Mutex
	subs     []chan models.ProgressEvent
	last     models.ProgressEvent
	haveLast bool
	closed   bool
	dropped  atomic.Uint64
}

func newEventHub() *eventHub {
	return &eventHub{}
}

// publish delivers an event to every subscriber, closing the hub after
// a terminal event. Delivery happens under the hub lock: sends are
// bounded, and a racing publish can neither hit a closed channel nor
// slip its event in after the terminal one.
func (h *eventHub) publish(ev models.ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.last = ev
	h.haveLast = true

	for _, ch := range h.subs {
		h.send(ch, ev)
	}

	if ev.Terminal() {
		h.closed = true
		for _, ch := range h.subs {
			close(ch)
		}
		h.subs = nil
	}
}

// send tries an immediate delivery, then a bounded wait, then drops.
func (h *eventHub) send(ch chan models.ProgressEvent, ev models.ProgressEvent) {
	select {
	case ch <- ev:
		return
	default:
	}

	select {
	case ch <- ev:
	case <-time.After(sendTimeout):
		count := h.dropped.Add(1)
		if count%10 == 1 { // Log every 10th drop to avoid spam
			log.Printf("[orchestrator] WARNING: subscriber full, dropped event (total dropped: %d): type=%s task=%s", count, ev.Type, ev.TaskID)
		}
	}
}

// subscribe registers a new subscriber channel. The current state is
// replayed immediately; a hub that already closed yields the terminal
// event and a closed channel.
func (h *eventHub) subscribe() <-chan models.ProgressEvent {
	ch := make(chan models.ProgressEvent, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		if h.haveLast {
			ch <- h.last
		}
		close(ch)
		h.mu.Unlock()
		return ch
	}
	if h.haveLast {
		ch <- h.last
	}
	h.subs = append(h.subs, ch)
	h.mu.Unlock()
	return ch
}

// droppedCount returns the total number of events dropped on full
// subscriber channels.
func (h *eventHub) droppedCount() uint64 {
	return h.dropped.Load()
}

package effects

import (
	"sync"

	"github.com/google/uuid"

	"github.com/swu-engine/swu-server-go/internal/game/rules"
)

// DelayedEffect is a closure queued to run once at a timing boundary.
type DelayedEffect struct {
	ID          string
	Timing      rules.Timing
	SourceID    string
	Description string
	Apply       func()
}

// Queue holds delayed effects until their timing is dispatched.
type Queue struct {
	mu      sync.Mutex
	pending []*DelayedEffect
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Register queues fn for timing and returns the effect ID.
func (q *Queue) Register(timing rules.Timing, sourceID, description string, fn func()) string {
	effect := &DelayedEffect{
		ID:          uuid.NewString(),
		Timing:      timing,
		SourceID:    sourceID,
		Description: description,
		Apply:       fn,
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, effect)
	return effect.ID
}

// Cancel drops a pending effect without running it.
func (q *Queue) Cancel(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.pending {
		if e.ID == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return true
		}
	}
	return false
}

// CancelSource drops every pending effect registered by sourceID and returns
// how many were dropped.
func (q *Queue) CancelSource(sourceID string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	kept := q.pending[:0]
	for _, e := range q.pending {
		if e.SourceID != sourceID {
			kept = append(kept, e)
		}
	}
	n := len(q.pending) - len(kept)
	clear(q.pending[len(kept):])
	q.pending = kept
	return n
}

// Expire removes every effect queued for timing and then runs them in
// registration order. Effects registered while expiring wait for the next dispatch.
func (q *Queue) Expire(timing rules.Timing) []*DelayedEffect {
	q.mu.Lock()
	var due []*DelayedEffect
	kept := make([]*DelayedEffect, 0, len(q.pending))
	for _, e := range q.pending {
		if e.Timing == timing {
			due = append(due, e)
		} else {
			kept = append(kept, e)
		}
	}
	q.pending = kept
	q.mu.Unlock()

	for _, e := range due {
		if e.Apply != nil {
			e.Apply()
		}
	}
	return due
}

// Pending returns the queued effects for timing.
func (q *Queue) Pending(timing rules.Timing) []*DelayedEffect {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []*DelayedEffect
	for _, e := range q.pending {
		if e.Timing == timing {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of pending effects.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

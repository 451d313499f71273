package rules

import (
	"sync"

	"github.com/google/uuid"
)

// AbilityTrigger reacts to a specific event type and resolves when its condition holds.
type AbilityTrigger struct {
	ID         string
	SourceID   string
	Controller string
	EventType  EventType
	Condition  func(Event) bool
	Resolve    func(Event)
	Once       bool
}

// TriggerManager stores and evaluates ability triggers against events.
// Triggers matching the same event resolve in registration order.
type TriggerManager struct {
	mu       sync.Mutex
	triggers []AbilityTrigger
}

// NewTriggerManager creates an empty trigger manager.
func NewTriggerManager() *TriggerManager {
	return &TriggerManager{}
}

// Register adds a new trigger to the manager and returns its ID.
func (tm *TriggerManager) Register(trigger AbilityTrigger) string {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	if trigger.ID == "" {
		trigger.ID = uuid.NewString()
	}
	tm.triggers = append(tm.triggers, trigger)
	return trigger.ID
}

// Unregister removes a trigger by ID.
func (tm *TriggerManager) Unregister(id string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	for i, t := range tm.triggers {
		if t.ID == id {
			tm.triggers = append(tm.triggers[:i], tm.triggers[i+1:]...)
			return
		}
	}
}

// UnregisterSource removes every trigger attached to sourceID.
func (tm *TriggerManager) UnregisterSource(sourceID string) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	kept := tm.triggers[:0]
	for _, t := range tm.triggers {
		if t.SourceID != sourceID {
			kept = append(kept, t)
		}
	}
	tm.triggers = kept
}

// Len returns the number of registered triggers.
func (tm *TriggerManager) Len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.triggers)
}

// Handle evaluates the event against all registered triggers and resolves the
// ones that match. Matching is done before any trigger resolves, so triggers
// registered while resolving do not see this event.
func (tm *TriggerManager) Handle(event Event) int {
	tm.mu.Lock()
	var (
		matched []AbilityTrigger
		kept    = make([]AbilityTrigger, 0, len(tm.triggers))
	)
	for _, trigger := range tm.triggers {
		hit := trigger.EventType == event.Type &&
			(trigger.Condition == nil || trigger.Condition(event)) &&
			trigger.Resolve != nil
		if hit {
			matched = append(matched, trigger)
		}
		if !hit || !trigger.Once {
			kept = append(kept, trigger)
		}
	}
	tm.triggers = kept
	tm.mu.Unlock()

	for _, trigger := range matched {
		trigger.Resolve(event)
	}
	return len(matched)
}

package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Turn structure
	EventPhaseChanged  EventType = "PHASE_CHANGED"
	EventTurnStarted   EventType = "TURN_STARTED"
	EventTurnEnded     EventType = "TURN_ENDED"
	EventRoundStarted  EventType = "ROUND_STARTED"
	EventRoundEnded    EventType = "ROUND_ENDED"
	EventPriorityOpen  EventType = "PRIORITY_WINDOW_OPENED"
	EventHookFired     EventType = "HOOK_FIRED"
	EventEffectExpired EventType = "DELAYED_EFFECT_EXPIRED"

	// Zones and cards
	EventZoneChange   EventType = "ZONE_CHANGE"
	EventCardPlayed   EventType = "CARD_PLAYED"
	EventDrewCard     EventType = "DREW_CARD"
	EventDiscarded    EventType = "DISCARDED_CARD"
	EventMilledCard   EventType = "MILLED_CARD"
	EventExiled       EventType = "EXILED_CARD"
	EventReturnedHand EventType = "RETURNED_TO_HAND"
	EventDeckShuffled EventType = "DECK_SHUFFLED"
	EventCardRevealed EventType = "CARD_REVEALED"
	EventPeekGranted  EventType = "PEEK_GRANTED"
	EventMulligan     EventType = "MULLIGAN"

	// Units and combat
	EventAttackDeclared   EventType = "ATTACK_DECLARED"
	EventCombatResolved   EventType = "COMBAT_RESOLVED"
	EventDamageDealt      EventType = "DAMAGE_DEALT"
	EventDamagePrevented  EventType = "DAMAGE_PREVENTED"
	EventHealed           EventType = "HEALED"
	EventUnitDefeated     EventType = "UNIT_DEFEATED"
	EventUnitExhausted    EventType = "UNIT_EXHAUSTED"
	EventUnitReadied      EventType = "UNIT_READIED"
	EventTokenCreated     EventType = "TOKEN_CREATED"
	EventUpgradeAttached  EventType = "UPGRADE_ATTACHED"
	EventUpgradeDetached  EventType = "UPGRADE_DETACHED"
	EventStatsModified    EventType = "STATS_MODIFIED"
	EventKeywordGranted   EventType = "KEYWORD_GRANTED"
	EventKeywordRemoved   EventType = "KEYWORD_REMOVED"
	EventCounterAdded     EventType = "COUNTER_ADDED"
	EventCounterRemoved   EventType = "COUNTER_REMOVED"
	EventResourcesPaid    EventType = "RESOURCES_PAID"
	EventResourceRemoved  EventType = "RESOURCE_REMOVED"
	EventResourcesRefresh EventType = "RESOURCES_REFRESHED"

	// Bases
	EventBaseDamaged  EventType = "BASE_DAMAGED"
	EventBaseHealed   EventType = "BASE_HEALED"
	EventBaseDefeated EventType = "BASE_DEFEATED"
)

// Event represents a state change that other subsystems may react to.
type Event struct {
	Type        EventType
	ID          string            // Unique event ID
	TargetID    string            // ID of the target (card instance or player)
	SourceID    string            // ID of the source card instance
	Controller  string            // Player ID of the controller
	PlayerID    string            // Player ID (often same as Controller)
	Amount      int               // Numeric value (damage, healing, cards drawn)
	Flag        bool              // Boolean flag (combat damage, etc.)
	Data        string            // Additional string data
	Zone        string            // Zone the event relates to
	FromZone    string            // Source zone for zone changes
	Timestamp   time.Time         // When the event occurred
	Metadata    map[string]string // Additional metadata
	Description string            // Human-readable description
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType // empty for listeners of every event
	callback  Listener
}

// EventBus provides a synchronous publish/subscribe implementation with type filtering.
// Listeners are invoked in subscription order.
type EventBus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.add("", listener)
}

// SubscribeTyped registers a listener for a specific event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback Listener) int {
	return bus.add(eventType, callback)
}

func (bus *EventBus) add(eventType EventType, callback Listener) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, eventType: eventType, callback: callback})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, s := range bus.subs {
		if s.handle == handle {
			bus.subs = append(bus.subs[:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all matching listeners synchronously.
// Listeners may publish further events or subscribe new listeners; those
// only see subsequent events.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := make([]subscription, len(bus.subs))
	copy(subs, bus.subs)
	bus.mu.RUnlock()

	for _, s := range subs {
		if s.eventType == "" || s.eventType == event.Type {
			s.callback(event)
		}
	}
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, targetID, sourceID, controllerID string) Event {
	return Event{
		Type:       eventType,
		ID:         uuid.NewString(),
		TargetID:   targetID,
		SourceID:   sourceID,
		Controller: controllerID,
		PlayerID:   controllerID,
		Timestamp:  time.Now(),
		Metadata:   make(map[string]string),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, targetID, sourceID, controllerID string, amount int) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Amount = amount
	return evt
}

// NewEventWithFlag creates a new event with a flag value.
func NewEventWithFlag(eventType EventType, targetID, sourceID, controllerID string, flag bool) Event {
	evt := NewEvent(eventType, targetID, sourceID, controllerID)
	evt.Flag = flag
	return evt
}

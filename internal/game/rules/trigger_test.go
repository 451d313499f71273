package rules

import "testing"

func TestTriggerManagerHandle(t *testing.T) {
	manager := NewTriggerManager()

	var resolved []string
	manager.Register(AbilityTrigger{
		EventType: EventCardPlayed,
		Condition: func(e Event) bool {
			return e.Metadata["card_name"] == "Blaster Shot"
		},
		Resolve: func(e Event) {
			resolved = append(resolved, e.Controller)
		},
	})

	evt := NewEvent(EventCardPlayed, "card1", "card1", "alice")
	evt.Metadata["card_name"] = "Blaster Shot"
	if n := manager.Handle(evt); n != 1 {
		t.Fatalf("expected 1 trigger, got %d", n)
	}
	if len(resolved) != 1 || resolved[0] != "alice" {
		t.Fatalf("expected alice to resolve, got %v", resolved)
	}

	other := NewEvent(EventCardPlayed, "card2", "card2", "alice")
	other.Metadata["card_name"] = "Other"
	if n := manager.Handle(other); n != 0 {
		t.Fatalf("condition should filter, got %d", n)
	}
}

func TestTriggerManagerOnceAndOrder(t *testing.T) {
	manager := NewTriggerManager()
	var order []int
	manager.Register(AbilityTrigger{EventType: EventUnitDefeated, Once: true, Resolve: func(Event) { order = append(order, 1) }})
	manager.Register(AbilityTrigger{EventType: EventUnitDefeated, SourceID: "u2", Resolve: func(Event) { order = append(order, 2) }})

	manager.Handle(NewEvent(EventUnitDefeated, "x", "x", "p"))
	manager.Handle(NewEvent(EventUnitDefeated, "x", "x", "p"))
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 2 {
		t.Fatalf("unexpected resolution order %v", order)
	}

	manager.UnregisterSource("u2")
	if manager.Len() != 0 {
		t.Fatalf("expected no triggers left, got %d", manager.Len())
	}
}

package rules

import "testing"

type testWatcherImpl struct {
	*BaseWatcher
	seen int
}

func (w *testWatcherImpl) Watch(event Event) {
	if event.Type == EventCardPlayed {
		w.seen++
		w.SetCondition(true)
	}
}

func (w *testWatcherImpl) Reset() {
	w.BaseWatcher.Reset()
	w.seen = 0
}

func TestWatcherRegistry(t *testing.T) {
	registry := NewWatcherRegistry()

	turnWatcher := &testWatcherImpl{BaseWatcher: NewBaseWatcher(TimingEndOfTurn, "TurnWatcher")}
	roundWatcher := &testWatcherImpl{BaseWatcher: NewBaseWatcher(TimingEndOfRound, "RoundWatcher")}
	registry.AddWatcher(turnWatcher)
	registry.AddWatcher(roundWatcher)

	if registry.GetWatcher("TurnWatcher") == nil {
		t.Fatal("should retrieve TurnWatcher")
	}

	registry.NotifyWatchers(NewEvent(EventCardPlayed, "card1", "card1", "player1"))
	if !turnWatcher.ConditionMet() || !roundWatcher.ConditionMet() {
		t.Fatal("both watchers should have condition met")
	}

	registry.ResetWatchers(TimingEndOfTurn)
	if turnWatcher.ConditionMet() {
		t.Fatal("turn watcher should be reset")
	}
	if !roundWatcher.ConditionMet() || roundWatcher.seen != 1 {
		t.Fatal("round watcher should keep its state until end of round")
	}

	registry.RemoveWatcher("TurnWatcher")
	if registry.GetWatcher("TurnWatcher") != nil {
		t.Fatal("watcher should be removed")
	}
}

package watchers

import (
	"github.com/swu-engine/swu-server-go/internal/game/rules"
)

// CardsPlayedWatcher tracks cards played by each player this turn.
type CardsPlayedWatcher struct {
	*rules.BaseWatcher
	played map[string][]string // playerID -> instance IDs
}

// NewCardsPlayedWatcher creates a new cards played watcher.
func NewCardsPlayedWatcher() *CardsPlayedWatcher {
	return &CardsPlayedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.TimingEndOfTurn, "CardsPlayedWatcher"),
		played:      make(map[string][]string),
	}
}

// Watch implements the Watcher interface.
func (w *CardsPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCardPlayed {
		return
	}
	playerID := event.PlayerID
	if playerID == "" {
		playerID = event.Controller
	}
	if playerID == "" || event.TargetID == "" {
		return
	}
	w.played[playerID] = append(w.played[playerID], event.TargetID)
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *CardsPlayedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.played = make(map[string][]string)
}

// GetCount returns the number of cards played by a player.
func (w *CardsPlayedWatcher) GetCount(playerID string) int {
	return len(w.played[playerID])
}

// AttackedWatcher tracks which units attacked this round.
type AttackedWatcher struct {
	*rules.BaseWatcher
	attackers map[string]int // attacker instance ID -> attacks declared
}

// NewAttackedWatcher creates a new attacked-this-round watcher.
func NewAttackedWatcher() *AttackedWatcher {
	return &AttackedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.TimingEndOfRound, "AttackedWatcher"),
		attackers:   make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *AttackedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventAttackDeclared || event.SourceID == "" {
		return
	}
	w.attackers[event.SourceID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *AttackedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.attackers = make(map[string]int)
}

// Attacked reports whether the unit declared an attack this round.
func (w *AttackedWatcher) Attacked(instanceID string) bool {
	return w.attackers[instanceID] > 0
}

// DefeatedWatcher tracks units defeated this round, per owner.
type DefeatedWatcher struct {
	*rules.BaseWatcher
	defeated map[string]int // owner -> count
}

// NewDefeatedWatcher creates a new defeated-this-round watcher.
func NewDefeatedWatcher() *DefeatedWatcher {
	return &DefeatedWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.TimingEndOfRound, "DefeatedWatcher"),
		defeated:    make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *DefeatedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventUnitDefeated {
		return
	}
	w.defeated[event.PlayerID]++
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *DefeatedWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.defeated = make(map[string]int)
}

// GetCount returns how many of the player's units were defeated this round.
func (w *DefeatedWatcher) GetCount(playerID string) int {
	return w.defeated[playerID]
}

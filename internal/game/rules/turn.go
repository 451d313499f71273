package rules

import (
	"fmt"
	"strings"
)

// Phase is one of the fixed phases of a player-turn.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseMain
	PhaseCombat
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseStart:  "Start",
	PhaseMain:   "Main",
	PhaseCombat: "Combat",
	PhaseEnd:    "End",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// OpensPriority reports whether entering the phase opens a priority window.
func (p Phase) OpensPriority() bool {
	return p == PhaseMain || p == PhaseCombat
}

// phaseSequence is the per-turn cycle.
var phaseSequence = []Phase{PhaseStart, PhaseMain, PhaseCombat, PhaseEnd}

// Phases returns the phase cycle in order.
func Phases() []Phase {
	return append([]Phase(nil), phaseSequence...)
}

// Timing tags when a hook or delayed effect fires.
type Timing string

const (
	TimingStartOfRound Timing = "start_of_round"
	TimingEndOfRound   Timing = "end_of_round"
	TimingStartOfTurn  Timing = "start_of_turn"
	TimingEndOfTurn    Timing = "end_of_turn"
)

var timings = []Timing{TimingStartOfRound, TimingEndOfRound, TimingStartOfTurn, TimingEndOfTurn}

// ParseTiming validates a timing name.
func ParseTiming(raw string) (Timing, error) {
	key := Timing(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range timings {
		if t == key {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown timing %q", raw)
}

// IsRoundTiming reports whether the timing is dispatched once per round rather than per player.
func (t Timing) IsRoundTiming() bool {
	return t == TimingStartOfRound || t == TimingEndOfRound
}

// Dispatcher is notified by the turn manager at every timing boundary.
// playerID is empty for round timings.
type Dispatcher interface {
	Dispatch(timing Timing, playerID string)
	OpenPriorityWindow(phase Phase, activePlayer string)
}

// TurnManager tracks phase, current player, initiative and round progression.
type TurnManager struct {
	players    []string
	phaseIndex int
	current    int
	initiative int
	round      int
	turnNumber int
	dispatcher Dispatcher
}

// NewTurnManager creates a turn manager at phase Start of round 1.
func NewTurnManager(dispatcher Dispatcher) *TurnManager {
	return &TurnManager{
		round:      1,
		turnNumber: 1,
		dispatcher: dispatcher,
	}
}

// AddPlayer appends a player to the seat order. The first player added holds initiative.
func (tm *TurnManager) AddPlayer(playerID string) {
	tm.players = append(tm.players, strings.TrimSpace(playerID))
}

// Players returns the seat order.
func (tm *TurnManager) Players() []string {
	return append([]string(nil), tm.players...)
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return phaseSequence[tm.phaseIndex]
}

// Round returns the 1-based round number.
func (tm *TurnManager) Round() int {
	return tm.round
}

// TurnNumber returns the 1-based count of player-turns taken so far.
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// CurrentPlayer returns the player whose turn it is.
func (tm *TurnManager) CurrentPlayer() string {
	if len(tm.players) == 0 {
		return ""
	}
	return tm.players[tm.current]
}

// InitiativePlayer returns the player holding initiative.
func (tm *TurnManager) InitiativePlayer() string {
	if len(tm.players) == 0 {
		return ""
	}
	return tm.players[tm.initiative]
}

// SetPhase jumps to phase without firing any hooks. Used to restore or set up state.
func (tm *TurnManager) SetPhase(phase Phase) {
	for i, p := range phaseSequence {
		if p == phase {
			tm.phaseIndex = i
			return
		}
	}
}

// Advance moves to the next phase. Wrapping past End fires end_of_turn for the
// player whose turn ended and moves to the next seat; returning to the initiative
// holder closes the round (end_of_round, initiative flips, round increments,
// start_of_round). start_of_turn then fires for the current player. Entering
// Main or Combat opens a priority window.
func (tm *TurnManager) Advance() Phase {
	tm.phaseIndex++
	if tm.phaseIndex >= len(phaseSequence) {
		tm.phaseIndex = 0
		tm.endTurn()
	}

	phase := tm.CurrentPhase()
	if phase.OpensPriority() && tm.dispatcher != nil {
		tm.dispatcher.OpenPriorityWindow(phase, tm.CurrentPlayer())
	}
	return phase
}

func (tm *TurnManager) endTurn() {
	if len(tm.players) == 0 {
		return
	}
	tm.dispatch(TimingEndOfTurn, tm.CurrentPlayer())

	tm.current = (tm.current + 1) % len(tm.players)
	tm.turnNumber++

	if tm.current == tm.initiative {
		tm.dispatch(TimingEndOfRound, "")
		tm.initiative = (tm.initiative + 1) % len(tm.players)
		tm.current = tm.initiative
		tm.round++
		tm.dispatch(TimingStartOfRound, "")
	}

	tm.dispatch(TimingStartOfTurn, tm.CurrentPlayer())
}

func (tm *TurnManager) dispatch(timing Timing, playerID string) {
	if tm.dispatcher != nil {
		tm.dispatcher.Dispatch(timing, playerID)
	}
}

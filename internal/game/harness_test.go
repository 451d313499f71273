package game

import (
	"fmt"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
)

// tableHarness sets up a two-player game for Alice and Bob, each with a
// leader and a 30 HP base, sitting in Alice's Start phase.
type tableHarness struct {
	t     *testing.T
	g     *Game
	alice *Player
	bob   *Player
	seq   int
}

func newTableHarness(t *testing.T, opts ...Option) *tableHarness {
	t.Helper()
	g := New(zaptest.NewLogger(t), append([]Option{WithSeed(7)}, opts...)...)
	h := &tableHarness{t: t, g: g}
	h.alice = h.seat("alice", "Alice")
	h.bob = h.seat("bob", "Bob")
	return h
}

func (h *tableHarness) seat(id, name string) *Player {
	p, err := h.g.AddPlayer(id, name)
	if err != nil {
		h.t.Fatalf("failed to add %s: %v", id, err)
	}
	leader := &cards.Template{ID: "L-" + id, Name: name + " Leader", Type: cards.TypeLeader, Attack: 3, Health: 6}
	if _, err := h.g.SetLeader(p, leader); err != nil {
		h.t.Fatalf("failed to set leader: %v", err)
	}
	h.g.SetBaseNamed(p, name+" Base", 30)
	return p
}

func (h *tableHarness) nextID(prefix string) string {
	h.seq++
	return fmt.Sprintf("%s-%03d", prefix, h.seq)
}

func (h *tableHarness) unit(name string, attack, health int, keywords ...string) *cards.Template {
	return &cards.Template{
		ID:       h.nextID("U"),
		Name:     name,
		Type:     cards.TypeUnit,
		Cost:     2,
		Attack:   attack,
		Health:   health,
		Keywords: keywords,
		Arenas:   []cards.Arena{cards.ArenaGround},
	}
}

func (h *tableHarness) spaceUnit(name string, attack, health int, keywords ...string) *cards.Template {
	tpl := h.unit(name, attack, health, keywords...)
	tpl.Arenas = []cards.Arena{cards.ArenaSpace}
	return tpl
}

func (h *tableHarness) event(name string, cost int) *cards.Template {
	return &cards.Template{ID: h.nextID("E"), Name: name, Type: cards.TypeEvent, Cost: cost}
}

func (h *tableHarness) upgrade(name string, attack, health int, keywords ...string) *cards.Template {
	return &cards.Template{
		ID:       h.nextID("G"),
		Name:     name,
		Type:     cards.TypeUpgrade,
		Cost:     1,
		Attack:   attack,
		Health:   health,
		Keywords: keywords,
	}
}

// inPlay puts a ready unit into p's arena.
func (h *tableHarness) inPlay(p *Player, tpl *cards.Template) *cards.Instance {
	return h.g.PutIntoPlay(p, tpl)
}

// toHand puts a fresh copy of tpl into p's hand.
func (h *tableHarness) toHand(p *Player, tpl *cards.Template) *cards.Instance {
	inst := cards.NewInstance(p.ID, tpl)
	p.Zone(board.ZoneHand).Add(inst)
	return inst
}

// toDeck puts a fresh copy of tpl at the bottom of p's deck.
func (h *tableHarness) toDeck(p *Player, tpl *cards.Template) *cards.Instance {
	inst := cards.NewInstance(p.ID, tpl)
	p.Zone(board.ZoneDeck).Add(inst)
	return inst
}

// resources gives p n ready resources.
func (h *tableHarness) resources(p *Player, n int) {
	for range n {
		h.g.AddResource(p, &cards.Template{ID: h.nextID("R"), Name: "Resource", Type: cards.TypeResource})
	}
}

// advanceTo advances until it is p's turn in phase.
func (h *tableHarness) advanceTo(p *Player, phase rules.Phase) {
	h.t.Helper()
	for i := 0; i < 64; i++ {
		if h.g.CurrentPlayer() == p && h.g.Phase() == phase {
			return
		}
		h.g.Advance()
	}
	h.t.Fatalf("never reached %s's %s phase", p.ID, phase)
}

func (h *tableHarness) mustExecute(a *Action, targets Targets) {
	h.t.Helper()
	if err := h.g.Execute(a, targets); err != nil {
		h.t.Fatalf("execute %q: %v", a.Description, err)
	}
}

func one(t Target) Targets {
	return Targets{DefaultTargetKey: {t}}
}

func defender(t Target) Targets {
	return Targets{"defender": {t}}
}

func findAction(actions []*Action, sourceID string) *Action {
	for _, a := range actions {
		if a.SourceID == sourceID {
			return a
		}
	}
	return nil
}

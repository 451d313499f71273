package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/deck"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
	"github.com/swu-engine/swu-server-go/internal/game/targeting"
)

func TestBlasterShotScenario(t *testing.T) {
	h := newTableHarness(t)
	blaster := h.event("Blaster Shot", 1)
	h.g.RegisterCardEffect(blaster.ID, DamageEffect{Amount: 2, Kind: targeting.TargetTypeBase})
	shot := h.toHand(h.alice, blaster)
	h.resources(h.alice, 1)

	require.Equal(t, rules.PhaseMain, h.g.Advance())

	actions := h.g.LegalActions(h.alice)
	require.Len(t, actions, 1)
	require.NoError(t, h.g.Execute(actions[0], one(h.bob.Base)))

	assert.Equal(t, 28, h.bob.Base.Health)
	assert.Equal(t, 30, h.bob.Base.MaxHealth)
	assert.Equal(t, []*cards.Instance{shot}, h.alice.Discard())
	assert.Empty(t, h.alice.Hand())
	assert.Equal(t, 0, h.alice.ReadyResources())
	assert.Equal(t, 1, h.g.CardsPlayedThisTurn(h.alice))
}

func TestAddPlayerRejectsDuplicates(t *testing.T) {
	g := New(zaptest.NewLogger(t))
	_, err := g.AddPlayer("alice", "Alice")
	require.NoError(t, err)

	_, err = g.AddPlayer("alice", "Alice again")
	assert.Error(t, err)
	_, err = g.AddPlayer("  ", "Nobody")
	assert.Error(t, err)
	assert.Len(t, g.Players(), 1)
}

func TestNewPlayerBoardHasEmptyLeaderZone(t *testing.T) {
	g := New(nil)
	p, err := g.AddPlayer("alice", "Alice")
	require.NoError(t, err)

	zone, ok := board.FindZone(p.Board, "leader")
	require.True(t, ok)
	assert.Equal(t, 0, zone.Len())
	assert.Nil(t, p.Leader())
}

func TestSecondLeaderIsInvariantViolation(t *testing.T) {
	h := newTableHarness(t)
	extra := &cards.Template{ID: "L-extra", Name: "Extra Leader", Type: cards.TypeLeader}

	_, err := h.g.SetLeader(h.alice, extra)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.Equal(t, 1, h.alice.Zone(board.ZoneLeader).Len())
}

func TestStartRequiresLeaders(t *testing.T) {
	g := New(zaptest.NewLogger(t))
	_, err := g.AddPlayer("alice", "Alice")
	require.NoError(t, err)
	_, err = g.AddPlayer("bob", "Bob")
	require.NoError(t, err)

	err = g.Start()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.False(t, g.Started())
}

func testCatalog() deck.Catalog {
	catalog := deck.Catalog{
		"SOR-001": {ID: "SOR-001", Name: "Test Leader", Type: cards.TypeLeader, Attack: 4, Health: 7},
		"SOR-019": {ID: "SOR-019", Name: "Test Base", Type: cards.TypeBase, Health: 28},
	}
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("SOR-%03d", 100+i)
		catalog[id] = &cards.Template{ID: id, Name: "Trooper " + id, Type: cards.TypeUnit, Cost: 1, Attack: 1, Health: 1}
	}
	return catalog
}

func testDecklist() deck.Decklist {
	list := deck.Decklist{"SOR-001": 1, "SOR-019": 1}
	for i := 0; i < 17; i++ {
		list[fmt.Sprintf("SOR-%03d", 100+i)] = 3
	}
	return list
}

func TestLoadDeckAndStart(t *testing.T) {
	g := New(zaptest.NewLogger(t), WithSeed(3))
	catalog := testCatalog()
	for _, id := range []string{"alice", "bob"} {
		p, err := g.AddPlayer(id, id)
		require.NoError(t, err)
		d, err := deck.Build(catalog, testDecklist())
		require.NoError(t, err)
		require.NoError(t, g.LoadDeck(p, d))
	}

	require.NoError(t, g.Start())
	for _, p := range g.Players() {
		assert.Equal(t, "Test Leader", p.Leader().Name())
		assert.Equal(t, 28, p.Base.MaxHealth)
		assert.Len(t, p.Hand(), 6)
		assert.Len(t, p.Deck(), 45)
	}
	assert.Equal(t, "alice", g.InitiativePlayer().ID)
	assert.Error(t, g.Start())
}

func TestLoadDeckRejectsInvalidDeck(t *testing.T) {
	g := New(zaptest.NewLogger(t))
	p, err := g.AddPlayer("alice", "Alice")
	require.NoError(t, err)

	d := &deck.Deck{Bases: []*cards.Template{{ID: "B", Name: "Base", Type: cards.TypeBase}}}
	err = g.LoadDeck(p, d)
	require.Error(t, err)
	assert.ErrorIs(t, err, deck.ErrLeaderCount)
	assert.Empty(t, p.Deck())
	assert.Nil(t, p.Leader())
}

func TestRoundAndInitiativeRotation(t *testing.T) {
	h := newTableHarness(t)
	roundsEnded := 0
	h.g.Subscribe(rules.EventRoundEnded, func(rules.Event) { roundsEnded++ })

	const cycles = 3
	initiative := []string{}
	for i := 0; i < cycles; i++ {
		for j := 0; j < len(rules.Phases())*2; j++ {
			h.g.Advance()
		}
		initiative = append(initiative, h.g.InitiativePlayer().ID)
	}

	assert.Equal(t, 1+cycles, h.g.Round())
	assert.Equal(t, cycles, roundsEnded)
	assert.Equal(t, []string{"bob", "alice", "bob"}, initiative)
	assert.Equal(t, rules.PhaseStart, h.g.Phase())
	assert.Equal(t, h.g.InitiativePlayer(), h.g.CurrentPlayer())
}

func TestPriorityWindowsOpenInMainAndCombat(t *testing.T) {
	h := newTableHarness(t)
	var windows []rules.PriorityWindow
	h.g.SetPriorityHandler(func(_ *Game, w rules.PriorityWindow) {
		windows = append(windows, w)
	})

	for i := 0; i < 4; i++ {
		h.g.Advance()
	}

	require.Len(t, windows, 2)
	assert.Equal(t, rules.PhaseMain, windows[0].Phase)
	assert.Equal(t, rules.PhaseCombat, windows[1].Phase)
	assert.Equal(t, "alice", windows[0].ActivePlayer)
	assert.Equal(t, []string{"bob"}, windows[0].Responders)

	last, ok := h.g.LastPriorityWindow()
	require.True(t, ok)
	assert.Equal(t, windows[1].ID, last.ID)
}

func TestBaseDefeatIsPublished(t *testing.T) {
	h := newTableHarness(t)
	var defeated []string
	h.g.Subscribe(rules.EventBaseDefeated, func(e rules.Event) {
		defeated = append(defeated, e.PlayerID)
	})

	dealt, err := h.g.DealDamage("test", h.bob.Base, 35)
	require.NoError(t, err)
	assert.Equal(t, 30, dealt)
	assert.Equal(t, 0, h.bob.Base.Health)

	_, err = h.g.DealDamage("test", h.bob.Base, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, defeated)
	assert.Equal(t, []string{"bob"}, h.g.DefeatedBases())
}

package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swu-engine/swu-server-go/internal/game/board"
)

func zoneOf(t *testing.T, v BoardView, playerID, zone string) ZoneView {
	t.Helper()
	for _, p := range v.Players {
		if p.ID != playerID {
			continue
		}
		z, ok := p.Zone(zone)
		require.True(t, ok, "zone %s missing", zone)
		return z
	}
	t.Fatalf("player %s missing from view", playerID)
	return ZoneView{}
}

func TestViewHidesOwnerOnlyAndHiddenZones(t *testing.T) {
	h := newTableHarness(t)
	h.toHand(h.alice, h.unit("Trooper", 1, 1))
	h.toHand(h.alice, h.event("Blaster Shot", 1))
	h.toDeck(h.alice, h.unit("Deck Card", 1, 1))
	h.resources(h.alice, 2)
	h.inPlay(h.alice, h.unit("Sentry", 2, 3))

	own := h.g.View("alice")
	hand := zoneOf(t, own, "alice", board.ZoneHand)
	assert.Len(t, hand.Cards, 2)
	assert.Equal(t, 0, hand.Hidden)
	assert.Equal(t, 1, zoneOf(t, own, "alice", board.ZoneDeck).Hidden, "owners cannot see their own deck")
	assert.Equal(t, 2, zoneOf(t, own, "alice", board.ZoneResources).Hidden)

	opp := h.g.View("bob")
	hand = zoneOf(t, opp, "alice", board.ZoneHand)
	assert.Empty(t, hand.Cards)
	assert.Equal(t, 2, hand.Total())
	ground := zoneOf(t, opp, "alice", board.ZoneGroundArena)
	require.Len(t, ground.Cards, 1)
	assert.Equal(t, "Sentry", ground.Cards[0].Name)
	assert.Equal(t, board.VisibilityPublic, ground.Visibility)
}

func TestPeekRevealsSingleInstance(t *testing.T) {
	h := newTableHarness(t)
	first := h.toDeck(h.alice, h.unit("First", 1, 1))
	h.toDeck(h.alice, h.unit("Second", 1, 1))

	h.mustExecute(h.g.PeekAction(h.bob), one(first))

	assert.True(t, h.g.CanSee("bob", first))
	assert.False(t, h.g.CanSee("alice", first))
	deck := zoneOf(t, h.g.View("bob"), "alice", board.ZoneDeck)
	require.Len(t, deck.Cards, 1)
	assert.Equal(t, "First", deck.Cards[0].Name)
	assert.Equal(t, 1, deck.Hidden)
}

func TestRevealedTopOfDeckIsVisible(t *testing.T) {
	h := newTableHarness(t)
	h.toDeck(h.alice, h.unit("Top", 1, 1))
	h.toDeck(h.alice, h.unit("Under", 1, 1))
	h.g.RevealTopOfDeck(h.alice)

	deck := zoneOf(t, h.g.View("bob"), "alice", board.ZoneDeck)
	require.Len(t, deck.Cards, 1)
	assert.Equal(t, "Top", deck.Cards[0].Name)

	h.g.DrawCards(h.alice, 1)
	deck = zoneOf(t, h.g.View("bob"), "alice", board.ZoneDeck)
	assert.Empty(t, deck.Cards)
}

func TestFormatBoard(t *testing.T) {
	h := newTableHarness(t)
	trooper := h.inPlay(h.alice, h.unit("Trooper", 3, 4, "Sentinel"))
	trooper.Damage = 1
	trooper.Exhaust()
	h.toHand(h.alice, h.unit("Secret", 1, 1))
	h.g.DealDamage("test", h.bob.Base, 5)

	out := h.g.Format("bob")
	assert.True(t, strings.HasPrefix(out, "=== Board State ===\n"))
	assert.Contains(t, out, "Round 1 - Initiative: Alice - Phase: Start")
	assert.Contains(t, out, "  Base: Bob Base (HP 25/30, DMG 5)")
	assert.Contains(t, out, "  Leader: Alice Leader (ATK 3, HP 6, DMG 0) [Ready]")
	assert.Contains(t, out, "    - Trooper (ATK 3, HP 4, DMG 1) [Exhausted] Keywords: Sentinel")
	assert.Contains(t, out, "  Hand: 1 cards (hidden)")
	assert.Contains(t, out, "  Space Arena:\n    (empty)")
	assert.NotContains(t, out, "Secret")

	assert.Contains(t, h.g.Format("alice"), "    - Secret")
}

func TestChecksum(t *testing.T) {
	h := newTableHarness(t)
	unit := h.inPlay(h.alice, h.unit("Trooper", 2, 4))
	before := h.g.Checksum()
	assert.Len(t, before, 64)

	h.g.View("bob")
	h.g.Format("alice")
	h.g.LegalActions(h.alice)
	assert.Equal(t, before, h.g.Checksum(), "reads must not change state")

	_, err := h.g.DealDamage("test", unit, 1)
	require.NoError(t, err)
	assert.NotEqual(t, before, h.g.Checksum())
}

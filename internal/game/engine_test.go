package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
	"github.com/swu-engine/swu-server-go/internal/game/targeting"
)

func TestLegalActionsEnumerateOptimistically(t *testing.T) {
	h := newTableHarness(t)
	cheap := h.toHand(h.alice, h.event("Cheap Trick", 0))
	pricey := h.toHand(h.alice, h.event("Orbital Strike", 9))

	assert.Empty(t, h.g.LegalActions(h.alice), "nothing to play in the Start phase")

	h.advanceTo(h.alice, rules.PhaseMain)
	actions := h.g.LegalActions(h.alice)
	require.Len(t, actions, 2, "affordability is not checked when enumerating")
	assert.NotNil(t, findAction(actions, cheap.ID))
	assert.NotNil(t, findAction(actions, pricey.ID))
	assert.Empty(t, h.g.LegalActions(h.bob))

	before := h.g.Checksum()
	err := h.g.Execute(findAction(actions, pricey.ID), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientResources)
	assert.ErrorIs(t, err, ErrIllegalAction)
	assert.Equal(t, before, h.g.Checksum(), "a rejected play leaves state untouched")

	require.NoError(t, h.g.Execute(findAction(actions, cheap.ID), nil))
	assert.Contains(t, h.alice.Discard(), cheap)
}

func TestCostCheckedAtExecution(t *testing.T) {
	h := newTableHarness(t)
	unit := h.toHand(h.alice, h.unit("Trooper", 2, 2))
	h.advanceTo(h.alice, rules.PhaseMain)
	action := h.g.LegalActions(h.alice)[0]

	assert.ErrorIs(t, h.g.Execute(action, nil), ErrInsufficientResources)

	h.resources(h.alice, 3)
	require.NoError(t, h.g.Execute(action, nil))
	assert.Contains(t, h.alice.Zone(board.ZoneGroundArena).Cards(), unit)
	assert.Equal(t, 1, h.alice.ReadyResources(), "exactly cost resources are exhausted")
	assert.True(t, unit.IsReady(), "units enter ready")

	assert.ErrorIs(t, h.g.Execute(action, nil), ErrNotInZone, "the card already left the hand")
}

func TestPlayResolutionByType(t *testing.T) {
	h := newTableHarness(t)
	h.resources(h.alice, 10)
	fighter := h.toHand(h.alice, h.spaceUnit("X-Wing Pilot", 2, 2))
	upgrade := h.toHand(h.alice, h.upgrade("Vibroblade", 2, 0))
	resource := h.toHand(h.alice, &cards.Template{ID: "RES", Name: "Supply Cache", Type: cards.TypeResource})
	h.advanceTo(h.alice, rules.PhaseMain)

	for _, inst := range []*cards.Instance{fighter, upgrade, resource} {
		require.NoError(t, h.g.Execute(h.g.PlayAction(h.alice, inst), nil), inst.Name())
	}

	assert.Contains(t, h.alice.Zone(board.ZoneSpaceArena).Cards(), fighter)
	assert.Contains(t, h.alice.Zone(board.ZoneGroundArena).Cards(), upgrade)
	assert.NotContains(t, h.alice.Units(), upgrade, "unattached upgrades are not units")
	assert.Contains(t, h.alice.Resources(), resource)
	assert.Empty(t, h.alice.Hand())
}

func TestPlayRejectedForWrongPlayerOrPhase(t *testing.T) {
	h := newTableHarness(t)
	h.resources(h.alice, 2)
	h.resources(h.bob, 2)
	card := h.toHand(h.alice, h.unit("Trooper", 1, 1))
	bobs := h.toHand(h.bob, h.unit("Trooper", 1, 1))

	assert.ErrorIs(t, h.g.Execute(h.g.PlayAction(h.alice, card), nil), ErrWrongPhase)

	h.advanceTo(h.alice, rules.PhaseMain)
	assert.ErrorIs(t, h.g.Execute(h.g.PlayAction(h.bob, bobs), nil), ErrWrongPlayer)
	assert.ErrorIs(t, h.g.Execute(h.g.PlayAction(h.alice, bobs), nil), ErrNotInZone)
}

func TestEventRequirementValidation(t *testing.T) {
	h := newTableHarness(t)
	shot := h.event("Blaster Shot", 0)
	h.g.RegisterCardEffect(shot.ID, DamageEffect{Amount: 2, Kind: targeting.TargetTypeBase})
	card := h.toHand(h.alice, shot)
	unit := h.inPlay(h.bob, h.unit("Trooper", 1, 3))
	h.advanceTo(h.alice, rules.PhaseMain)
	action := h.g.PlayAction(h.alice, card)
	before := h.g.Checksum()

	err := h.g.Execute(action, nil)
	assert.ErrorIs(t, err, ErrRequirementUnmet)
	assert.ErrorIs(t, err, targeting.ErrInvalidSelection)

	err = h.g.Execute(action, one(unit))
	assert.ErrorIs(t, err, ErrRequirementUnmet)

	err = h.g.Execute(action, Targets{DefaultTargetKey: {h.bob.Base, h.alice.Base}})
	assert.ErrorIs(t, err, ErrRequirementUnmet)
	assert.Equal(t, before, h.g.Checksum())

	require.NoError(t, h.g.Execute(action, one(h.bob.Base)))
	assert.Equal(t, 28, h.bob.Base.Health)
}

func TestEventWithUnknownTokenRejectedBeforePayment(t *testing.T) {
	h := newTableHarness(t)
	h.resources(h.alice, 1)
	raid := h.event("Botched Raid", 1)
	h.g.RegisterCardEffect(raid.ID, Sequence{
		DamageEffect{Amount: 2, Kind: targeting.TargetTypeBase},
		TokenEffect{Token: "No Such Token"},
	})
	card := h.toHand(h.alice, raid)
	h.advanceTo(h.alice, rules.PhaseMain)
	before := h.g.Checksum()

	err := h.g.Execute(h.g.PlayAction(h.alice, card), one(h.bob.Base))
	assert.ErrorIs(t, err, ErrRequirementUnmet)
	assert.Equal(t, 30, h.bob.Base.Health)
	assert.Contains(t, h.alice.Hand(), card)
	assert.Equal(t, 1, h.alice.ReadyResources())
	assert.Equal(t, before, h.g.Checksum())

	shield := h.event("Misprinted Shield", 0)
	h.g.RegisterCardEffect(shield.ID, TokenEffect{Token: "Shield"})
	err = h.g.Execute(h.g.PlayAction(h.alice, h.toHand(h.alice, shield)), nil)
	assert.ErrorIs(t, err, ErrRequirementUnmet, "counter tokens are not put into play")
}

// brokenEffect passes validation but fails while resolving.
type brokenEffect struct{}

func (brokenEffect) Requirements() []*Requirement          { return nil }
func (brokenEffect) Resolve(*Game, *Player, Targets) error { return errors.New("resolver failed") }
func (brokenEffect) String() string                        { return "break" }

func TestEventResolutionFailureIsReported(t *testing.T) {
	h := newTableHarness(t)
	shot := h.event("Overloaded Shot", 0)
	h.g.RegisterCardEffect(shot.ID, Sequence{DamageEffect{Amount: 2, Kind: targeting.TargetTypeBase}, brokenEffect{}})
	card := h.toHand(h.alice, shot)
	h.advanceTo(h.alice, rules.PhaseMain)

	err := h.g.Execute(h.g.PlayAction(h.alice, card), one(h.bob.Base))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvariant)
	assert.False(t, errors.Is(err, ErrIllegalAction), "a partial resolution is not a clean rejection")
	assert.Equal(t, 28, h.bob.Base.Health)
	assert.Contains(t, h.alice.Discard(), card)
}

func TestOffAspectPlayIsNotYetSupported(t *testing.T) {
	h := newTableHarness(t)
	h.g.SetBase(h.alice, &cards.Template{ID: "B-alice", Name: "Command Center", Type: cards.TypeBase, Health: 30, Aspects: []string{"Villainy"}})
	h.resources(h.alice, 4)
	onAspect := h.unit("Stormtrooper", 2, 2)
	onAspect.Aspects = []string{"Villainy"}
	offAspect := h.unit("Rebel Pathfinder", 2, 2)
	offAspect.Aspects = []string{"Heroism"}
	allowed := h.toHand(h.alice, onAspect)
	blocked := h.toHand(h.alice, offAspect)
	h.advanceTo(h.alice, rules.PhaseMain)

	err := h.g.Execute(h.g.PlayAction(h.alice, blocked), nil)
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.False(t, errors.Is(err, ErrIllegalAction), "unsupported rules are not illegal actions")
	assert.Contains(t, h.alice.Hand(), blocked)
	assert.Equal(t, 4, h.alice.ReadyResources())

	h.mustExecute(h.g.PlayAction(h.alice, allowed), nil)
	assert.Contains(t, h.alice.Units(), allowed)
}

func TestResourceOncePerTurn(t *testing.T) {
	h := newTableHarness(t)
	first := h.toHand(h.alice, h.unit("Trooper", 1, 1))
	h.toHand(h.alice, h.unit("Trooper", 1, 1))
	h.advanceTo(h.alice, rules.PhaseMain)

	actions := h.g.ResourceActions(h.alice)
	require.Len(t, actions, 2)
	require.NoError(t, h.g.Execute(findAction(actions, first.ID), nil))
	assert.Contains(t, h.alice.Resources(), first)
	assert.Empty(t, h.g.ResourceActions(h.alice))

	err := h.g.Execute(actions[1], nil)
	assert.True(t, errors.Is(err, ErrIllegalAction))
}

func TestCardTriggers(t *testing.T) {
	h := newTableHarness(t)
	scout := h.unit("Scout Trooper", 1, 1)
	require.NoError(t, h.g.RegisterCardTrigger(scout.ID, WhenPlayed, DrawEffect{Count: 1}))
	medic := h.unit("Medic", 1, 1)
	require.NoError(t, h.g.RegisterCardTrigger(medic.ID, WhenDefeated, HealBaseEffect{Amount: 3}))
	assert.Error(t, h.g.RegisterCardTrigger(medic.ID, TriggerWhen("on_attack"), DrawEffect{Count: 1}))

	drawn := h.toDeck(h.alice, h.unit("Top Card", 1, 1))
	card := h.toHand(h.alice, scout)
	h.resources(h.alice, 2)
	h.advanceTo(h.alice, rules.PhaseMain)
	require.NoError(t, h.g.Execute(h.g.PlayAction(h.alice, card), nil))
	assert.Equal(t, []*cards.Instance{drawn}, h.alice.Hand())

	unit := h.inPlay(h.alice, medic)
	_, err := h.g.DealDamage("test", h.alice.Base, 5)
	require.NoError(t, err)
	require.NoError(t, h.g.DefeatUnit(unit))
	assert.Equal(t, 28, h.alice.Base.Health)
	assert.Equal(t, 0, h.g.triggers.Len(), "triggers are dropped once the unit left play")
}

func TestTriggeredDamageUsesChooser(t *testing.T) {
	h := newTableHarness(t)
	bomber := h.unit("Bomber", 1, 1)
	require.NoError(t, h.g.RegisterCardTrigger(bomber.ID, WhenPlayed, DamageEffect{Amount: 1, Kind: targeting.TargetTypeUnit}))
	victim := h.inPlay(h.bob, h.unit("Jawa", 1, 3))
	var offered []Target
	h.g.SetTargetChooser(func(_ *Game, _ *Player, req *Requirement, candidates []Target) []Target {
		offered = candidates
		return candidates[len(candidates)-1:]
	})

	card := h.toHand(h.alice, bomber)
	h.resources(h.alice, 2)
	h.advanceTo(h.alice, rules.PhaseMain)
	require.NoError(t, h.g.Execute(h.g.PlayAction(h.alice, card), nil))

	require.Len(t, offered, 2)
	assert.Equal(t, 1, victim.Damage)
	assert.Equal(t, 0, card.Damage)
}

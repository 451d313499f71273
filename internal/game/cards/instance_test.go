package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swu-engine/swu-server-go/internal/game/counters"
)

func unitTemplate(attack, health int, keywords ...string) *Template {
	return &Template{ID: "T-1", Name: "Trooper", Type: TypeUnit, Cost: 2, Attack: attack, Health: health, Keywords: keywords}
}

func TestEffectiveStatsIncludeModsUpgradesAndCounters(t *testing.T) {
	unit := NewInstance("alice", unitTemplate(3, 4))
	unit.AttackMod = -1
	upgrade := NewInstance("alice", &Template{ID: "U-1", Name: "Armor", Type: TypeUpgrade, Attack: 1, Health: 2, Keywords: []string{"Sentinel"}})
	unit.Upgrades = append(unit.Upgrades, upgrade)
	unit.Counters.Add(counters.CounterExperience, 1)

	assert.Equal(t, 4, unit.Attack())
	assert.Equal(t, 7, unit.Health())
	assert.True(t, unit.HasKeyword("sentinel"))

	require.True(t, unit.DetachUpgrade(upgrade))
	assert.Equal(t, 3, unit.Attack())
	assert.False(t, unit.HasKeyword("Sentinel"))
	assert.False(t, unit.DetachUpgrade(upgrade))
}

func TestDisplayStatsFloorAtZeroButHealthDoesNot(t *testing.T) {
	unit := NewInstance("alice", unitTemplate(1, 1))
	unit.AttackMod = -3
	unit.HealthMod = -2
	assert.Equal(t, -2, unit.Attack())
	assert.Equal(t, 0, unit.DisplayAttack())
	assert.Equal(t, 0, unit.DisplayHealth())
	assert.True(t, unit.IsDefeated())
}

func TestTempKeywords(t *testing.T) {
	unit := NewInstance("alice", unitTemplate(1, 1))
	assert.True(t, unit.AddTempKeyword("Sentinel"))
	assert.False(t, unit.AddTempKeyword("sentinel"))
	assert.True(t, unit.HasKeyword("Sentinel"))
	assert.True(t, unit.RemoveTempKeyword("Sentinel"))
	assert.False(t, unit.RemoveTempKeyword("Sentinel"))
	assert.False(t, unit.HasKeyword("Sentinel"))
}

func TestKeywordValue(t *testing.T) {
	unit := NewInstance("alice", unitTemplate(1, 1, "Restore 2", "Raid 1"))
	unit.AddTempKeyword("Restore 3")
	v, ok := unit.KeywordValue("Restore")
	require.True(t, ok)
	assert.Equal(t, 3, v)
	_, ok = unit.KeywordValue("Overwhelm")
	assert.False(t, ok)
}

func TestArenaAffinity(t *testing.T) {
	ground := NewInstance("a", unitTemplate(1, 1))
	assert.Equal(t, ArenaGround, ground.DefaultArena())

	space := NewInstance("a", &Template{Name: "Wing", Type: TypeUnit, Arenas: NormalizeArenas([]string{"space", "Space Arena"})})
	assert.Equal(t, []Arena{ArenaSpace}, space.Arenas())
	assert.False(t, ground.SharesArena(space))

	both := NewInstance("a", &Template{Name: "Walker", Type: TypeUnit, Subtype: "ground/space"})
	assert.True(t, both.SharesArena(space))
	assert.True(t, both.SharesArena(ground))

	tie := NewTokenInstance("a", TIEFighterToken)
	assert.Equal(t, ArenaSpace, tie.DefaultArena())
	assert.True(t, tie.IsUnit())
	assert.Equal(t, TypeToken, tie.Type())
}

func TestPeekGrants(t *testing.T) {
	card := NewInstance("alice", unitTemplate(1, 1))
	assert.False(t, card.CanPeek("bob"))
	card.GrantPeek("bob")
	assert.True(t, card.CanPeek("bob"))
	assert.Equal(t, []string{"bob"}, card.Peekers())
	card.RevokePeek("bob")
	assert.False(t, card.CanPeek("bob"))
}

func TestParseHelpers(t *testing.T) {
	name, v := ParseKeyword("Raid 2")
	assert.Equal(t, "Raid", name)
	assert.Equal(t, 2, v)
	name, v = ParseKeyword("Sentinel")
	assert.Equal(t, "Sentinel", name)
	assert.Equal(t, 0, v)

	typ, err := ParseType(" Unit ")
	require.NoError(t, err)
	assert.Equal(t, TypeUnit, typ)
	typ, err = ParseType("Token Unit")
	require.NoError(t, err)
	assert.Equal(t, TypeToken, typ)
	_, err = ParseType("planeswalker")
	assert.Error(t, err)

	tok, ok := LookupToken("battle droid")
	require.True(t, ok)
	assert.Equal(t, BattleDroidToken, tok)
}

func TestResetState(t *testing.T) {
	unit := NewInstance("alice", unitTemplate(2, 2))
	unit.Damage = 1
	unit.AttackMod = 2
	unit.Exhaust()
	unit.AddTempKeyword("Ambush")
	unit.Counters.Add(counters.CounterShield, 1)
	unit.ResetState()
	assert.Zero(t, unit.Damage)
	assert.Zero(t, unit.AttackMod)
	assert.True(t, unit.IsReady())
	assert.Empty(t, unit.TempKeywords())
	assert.False(t, unit.Counters.HasCounter("Shield"))
}

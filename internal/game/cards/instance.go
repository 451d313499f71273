package cards

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/swu-engine/swu-server-go/internal/game/counters"
)

// Instance is one physical copy of a card or token in the game.
// Exactly one of Template and Token is set.
type Instance struct {
	ID        string
	Owner     string
	Template  *Template
	Token     *Token
	Damage    int
	AttackMod int
	HealthMod int
	Exhausted bool
	Upgrades  []*Instance
	Counters  *counters.Counters

	tempKeywords []string
	peekers      map[string]struct{}
}

// NewInstance creates a fresh ready copy of tpl owned by owner.
func NewInstance(owner string, tpl *Template) *Instance {
	return &Instance{
		ID:       uuid.NewString(),
		Owner:    owner,
		Template: tpl,
		Counters: counters.NewCounters(),
		peekers:  make(map[string]struct{}),
	}
}

// NewTokenInstance creates a fresh ready token owned by owner.
func NewTokenInstance(owner string, tok *Token) *Instance {
	return &Instance{
		ID:       uuid.NewString(),
		Owner:    owner,
		Token:    tok,
		Counters: counters.NewCounters(),
		peekers:  make(map[string]struct{}),
	}
}

// Name returns the printed or token name.
func (c *Instance) Name() string {
	if c.Token != nil {
		return c.Token.Name
	}
	if c.Template != nil {
		return c.Template.Name
	}
	return ""
}

// Type returns the printed type; token instances report TypeToken.
func (c *Instance) Type() Type {
	if c.Token != nil {
		return TypeToken
	}
	if c.Template != nil {
		return c.Template.Type
	}
	return ""
}

// IsToken reports whether the instance has no printed template.
func (c *Instance) IsToken() bool {
	return c.Token != nil
}

// IsUnit reports whether the instance fights as a unit: printed units and unit tokens.
func (c *Instance) IsUnit() bool {
	if c.Token != nil {
		return c.Token.Kind == TokenUnit
	}
	return c.Template != nil && c.Template.Type == TypeUnit
}

// Cost is the printed cost; tokens cost nothing.
func (c *Instance) Cost() int {
	if c.Template != nil {
		return c.Template.Cost
	}
	return 0
}

// Subtype returns the printed subtype.
func (c *Instance) Subtype() string {
	if c.Template != nil {
		return c.Template.Subtype
	}
	return ""
}

// Arenas returns the arenas this instance may fight in. A "ground" or "space"
// subtype takes precedence over the declared arena list.
func (c *Instance) Arenas() []Arena {
	sub := strings.ToLower(c.Subtype())
	switch {
	case strings.Contains(sub, "ground") && strings.Contains(sub, "space"):
		return []Arena{ArenaGround, ArenaSpace}
	case strings.Contains(sub, "ground"):
		return []Arena{ArenaGround}
	case strings.Contains(sub, "space"):
		return []Arena{ArenaSpace}
	}
	if c.Token != nil && len(c.Token.Arenas) > 0 {
		return c.Token.Arenas
	}
	if c.Template != nil && len(c.Template.Arenas) > 0 {
		return c.Template.Arenas
	}
	return []Arena{ArenaGround}
}

// DefaultArena is where the instance is placed when it enters play.
func (c *Instance) DefaultArena() Arena {
	return c.Arenas()[0]
}

// SharesArena reports whether both instances can fight in a common arena.
func (c *Instance) SharesArena(other *Instance) bool {
	for _, a := range c.Arenas() {
		for _, b := range other.Arenas() {
			if a == b {
				return true
			}
		}
	}
	return false
}

func (c *Instance) baseStats() (int, int) {
	if c.Token != nil {
		return c.Token.Attack, c.Token.Health
	}
	if c.Template != nil {
		return c.Template.Attack, c.Template.Health
	}
	return 0, 0
}

// Attack is the effective attack: base plus modifiers, upgrades and counters.
// It can be negative; use DisplayAttack for presentation.
func (c *Instance) Attack() int {
	atk, _ := c.baseStats()
	atk += c.AttackMod
	for _, u := range c.Upgrades {
		upAtk, _ := u.baseStats()
		atk += upAtk + u.AttackMod
	}
	boost, _ := c.Counters.StatBoost()
	return atk + boost
}

// Health is the effective health: base plus modifiers, upgrades and counters.
func (c *Instance) Health() int {
	_, hp := c.baseStats()
	hp += c.HealthMod
	for _, u := range c.Upgrades {
		_, upHP := u.baseStats()
		hp += upHP + u.HealthMod
	}
	_, boost := c.Counters.StatBoost()
	return hp + boost
}

// DisplayAttack floors Attack at zero.
func (c *Instance) DisplayAttack() int {
	return max(c.Attack(), 0)
}

// DisplayHealth floors Health at zero.
func (c *Instance) DisplayHealth() int {
	return max(c.Health(), 0)
}

// RemainingHealth is effective health minus accumulated damage.
func (c *Instance) RemainingHealth() int {
	return c.Health() - c.Damage
}

// IsDefeated reports whether accumulated damage has reached effective health.
func (c *Instance) IsDefeated() bool {
	return c.Damage >= c.Health()
}

// Keywords returns printed, token, upgrade-granted and temporary keywords in that order.
func (c *Instance) Keywords() []string {
	var out []string
	if c.Template != nil {
		out = append(out, c.Template.Keywords...)
	}
	if c.Token != nil {
		out = append(out, c.Token.Keywords...)
	}
	for _, u := range c.Upgrades {
		out = append(out, u.Keywords()...)
	}
	return append(out, c.tempKeywords...)
}

// HasKeyword reports whether any keyword source grants name.
func (c *Instance) HasKeyword(name string) bool {
	return containsKeyword(c.Keywords(), name)
}

// KeywordValue returns the numeric value of a keyword such as "Restore 2".
func (c *Instance) KeywordValue(name string) (int, bool) {
	return keywordValue(c.Keywords(), name)
}

// TempKeywords returns a copy of the temporary keyword set.
func (c *Instance) TempKeywords() []string {
	return append([]string(nil), c.tempKeywords...)
}

// AddTempKeyword adds kw to the temporary set. Returns false when already present.
func (c *Instance) AddTempKeyword(kw string) bool {
	for _, k := range c.tempKeywords {
		if strings.EqualFold(k, kw) {
			return false
		}
	}
	c.tempKeywords = append(c.tempKeywords, kw)
	return true
}

// RemoveTempKeyword removes kw from the temporary set. Returns false when absent.
func (c *Instance) RemoveTempKeyword(kw string) bool {
	for i, k := range c.tempKeywords {
		if strings.EqualFold(k, kw) {
			c.tempKeywords = append(c.tempKeywords[:i], c.tempKeywords[i+1:]...)
			return true
		}
	}
	return false
}

// GrantPeek lets viewer inspect this instance while it sits in a hidden zone.
func (c *Instance) GrantPeek(viewer string) {
	c.peekers[viewer] = struct{}{}
}

// RevokePeek removes a previously granted peek.
func (c *Instance) RevokePeek(viewer string) {
	delete(c.peekers, viewer)
}

// CanPeek reports whether viewer was granted peek permission.
func (c *Instance) CanPeek(viewer string) bool {
	_, ok := c.peekers[viewer]
	return ok
}

// Peekers returns the granted viewers in sorted order.
func (c *Instance) Peekers() []string {
	out := make([]string, 0, len(c.peekers))
	for p := range c.peekers {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// IsReady reports whether the instance is not exhausted.
func (c *Instance) IsReady() bool {
	return !c.Exhausted
}

// Exhaust marks the instance exhausted.
func (c *Instance) Exhaust() {
	c.Exhausted = true
}

// Ready marks the instance ready.
func (c *Instance) Ready() {
	c.Exhausted = false
}

// ResetState clears everything accumulated while in play. Upgrades are left to the caller.
func (c *Instance) ResetState() {
	c.Damage = 0
	c.AttackMod = 0
	c.HealthMod = 0
	c.Exhausted = false
	c.tempKeywords = nil
	c.Counters.Clear()
}

// DetachUpgrade removes upgrade from this host. Returns false when it is not attached.
func (c *Instance) DetachUpgrade(upgrade *Instance) bool {
	for i, u := range c.Upgrades {
		if u == upgrade {
			c.Upgrades = append(c.Upgrades[:i], c.Upgrades[i+1:]...)
			return true
		}
	}
	return false
}

// TargetID identifies the instance in target selections.
func (c *Instance) TargetID() string {
	return c.ID
}

// TargetName names the instance in target selections.
func (c *Instance) TargetName() string {
	return c.Name()
}

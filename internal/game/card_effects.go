package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
	"github.com/swu-engine/swu-server-go/internal/game/targeting"
)

// CardEffect produces state changes for the acting player given resolved
// targets. Implementations are plain tagged structs so effects stay
// comparable and printable.
type CardEffect interface {
	Requirements() []*Requirement
	Resolve(g *Game, p *Player, targets Targets) error
	String() string
}

// EffectValidator is implemented by effects with preconditions beyond their
// target requirements. Validate runs before any cost is paid.
type EffectValidator interface {
	Validate(g *Game, p *Player, targets Targets) error
}

// validateEffect runs effect's Validate when it has one.
func validateEffect(g *Game, p *Player, effect CardEffect, targets Targets) error {
	if v, ok := effect.(EffectValidator); ok {
		return v.Validate(g, p, targets)
	}
	return nil
}

// DefaultTargetKey is the requirement key used by single-target effects.
const DefaultTargetKey = "target"

func keyOr(key string) string {
	if key == "" {
		return DefaultTargetKey
	}
	return key
}

// DamageEffect deals Amount damage to a chosen target of kind Kind
// (unit, base, or either).
type DamageEffect struct {
	Key    string
	Amount int
	Kind   targeting.TargetType
}

func (e DamageEffect) Requirements() []*Requirement {
	kind := e.Kind
	if kind == "" {
		kind = targeting.TargetTypeAttackable
	}
	desc := fmt.Sprintf("Deal %d damage", e.Amount)
	return []*Requirement{NewRequirement(keyOr(e.Key), kind, desc, damageTargetOK(kind))}
}

func (e DamageEffect) Resolve(g *Game, p *Player, targets Targets) error {
	t, ok := targets.First(keyOr(e.Key))
	if !ok {
		return ErrRequirementUnmet
	}
	_, err := g.DealDamage(p.ID, t, e.Amount)
	return err
}

func (e DamageEffect) String() string { return fmt.Sprintf("deal %d damage", e.Amount) }

func damageTargetOK(kind targeting.TargetType) Predicate {
	return func(g *Game, p *Player, t Target) bool {
		if _, ok := asBase(t); ok {
			return kind != targeting.TargetTypeUnit
		}
		return kind != targeting.TargetTypeBase && isUnitInPlay(g, p, t)
	}
}

// HealEffect removes up to Amount damage from a damaged unit.
type HealEffect struct {
	Key    string
	Amount int
}

func (e HealEffect) Requirements() []*Requirement {
	return []*Requirement{NewRequirement(keyOr(e.Key), targeting.TargetTypeUnit,
		fmt.Sprintf("Heal %d damage", e.Amount), damagedUnit)}
}

func (e HealEffect) Resolve(g *Game, _ *Player, targets Targets) error {
	t, _ := targets.First(keyOr(e.Key))
	inst, ok := asInstance(t)
	if !ok {
		return ErrRequirementUnmet
	}
	g.Heal(inst, e.Amount)
	return nil
}

func (e HealEffect) String() string { return fmt.Sprintf("heal %d", e.Amount) }

func damagedUnit(g *Game, p *Player, t Target) bool {
	inst, ok := asInstance(t)
	return ok && inst.Damage > 0 && isUnitInPlay(g, p, t)
}

// HealBaseEffect heals the acting player's base.
type HealBaseEffect struct {
	Amount int
}

func (e HealBaseEffect) Requirements() []*Requirement { return nil }

func (e HealBaseEffect) Resolve(g *Game, p *Player, _ Targets) error {
	g.HealBase(p, e.Amount)
	return nil
}

func (e HealBaseEffect) String() string { return fmt.Sprintf("heal %d from your base", e.Amount) }

// DrawEffect draws Count cards for the acting player.
type DrawEffect struct {
	Count int
}

func (e DrawEffect) Requirements() []*Requirement { return nil }

func (e DrawEffect) Resolve(g *Game, p *Player, _ Targets) error {
	g.DrawCards(p, e.Count)
	return nil
}

func (e DrawEffect) String() string { return fmt.Sprintf("draw %d", e.Count) }

// BuffEffect changes a unit's stats and optionally grants a keyword, until Until
// when it is set.
type BuffEffect struct {
	Key     string
	Attack  int
	Health  int
	Keyword string
	Until   rules.Timing
}

func (e BuffEffect) Requirements() []*Requirement {
	return []*Requirement{NewRequirement(keyOr(e.Key), targeting.TargetTypeUnit, e.String(), isUnitInPlay)}
}

func (e BuffEffect) Resolve(g *Game, _ *Player, targets Targets) error {
	t, _ := targets.First(keyOr(e.Key))
	inst, ok := asInstance(t)
	if !ok {
		return ErrRequirementUnmet
	}
	if e.Keyword != "" {
		g.GrantKeyword(inst, e.Keyword, e.Until)
	}
	if e.Attack != 0 || e.Health != 0 {
		g.ModifyStats(inst, e.Attack, e.Health, e.Until)
	}
	return nil
}

func (e BuffEffect) String() string {
	s := fmt.Sprintf("give a unit %+d/%+d", e.Attack, e.Health)
	if e.Keyword != "" {
		s += " and " + e.Keyword
	}
	if e.Until != "" {
		s += " until " + string(e.Until)
	}
	return s
}

// TokenEffect puts Count unit tokens named Token into play.
type TokenEffect struct {
	Token string
	Count int
}

func (e TokenEffect) Requirements() []*Requirement { return nil }

// Validate rejects names that are not unit tokens.
func (e TokenEffect) Validate(*Game, *Player, Targets) error {
	tok, ok := cards.LookupToken(e.Token)
	if !ok {
		return fmt.Errorf("%w: unknown token %q", ErrRequirementUnmet, e.Token)
	}
	if tok.Kind != cards.TokenUnit {
		return fmt.Errorf("%w: %s is a counter token", ErrRequirementUnmet, tok.Name)
	}
	return nil
}

func (e TokenEffect) Resolve(g *Game, p *Player, targets Targets) error {
	if err := e.Validate(g, p, targets); err != nil {
		return err
	}
	for range max(e.Count, 1) {
		if _, err := g.CreateToken(p, e.Token); err != nil {
			return err
		}
	}
	return nil
}

func (e TokenEffect) String() string { return fmt.Sprintf("create %d %s", max(e.Count, 1), e.Token) }

// Sequence resolves several effects in order. Requirement keys must differ.
type Sequence []CardEffect

func (s Sequence) Requirements() []*Requirement {
	var out []*Requirement
	for _, e := range s {
		out = append(out, e.Requirements()...)
	}
	return out
}

// Validate checks every step before the first one resolves.
func (s Sequence) Validate(g *Game, p *Player, targets Targets) error {
	for _, e := range s {
		if err := validateEffect(g, p, e, targets); err != nil {
			return err
		}
	}
	return nil
}

func (s Sequence) Resolve(g *Game, p *Player, targets Targets) error {
	for _, e := range s {
		if err := e.Resolve(g, p, targets); err != nil {
			return err
		}
	}
	return nil
}

func (s Sequence) String() string {
	out := ""
	for i, e := range s {
		if i > 0 {
			out += ", then "
		}
		out += e.String()
	}
	return out
}

// TriggerWhen names the moment a card ability fires.
type TriggerWhen string

const (
	WhenPlayed   TriggerWhen = "when_played"
	WhenDefeated TriggerWhen = "when_defeated"
)

type cardTrigger struct {
	when   TriggerWhen
	effect CardEffect
}

// EffectRegistry maps card IDs to the effect of playing the card and to
// the triggered abilities of units in play.
type EffectRegistry struct {
	mu       sync.RWMutex
	effects  map[string]CardEffect
	triggers map[string][]cardTrigger
}

// NewEffectRegistry creates an empty registry.
func NewEffectRegistry() *EffectRegistry {
	return &EffectRegistry{
		effects:  make(map[string]CardEffect),
		triggers: make(map[string][]cardTrigger),
	}
}

// Register sets the on-play effect for a card ID, replacing any previous one.
func (r *EffectRegistry) Register(cardID string, effect CardEffect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects[cardID] = effect
}

// Effect returns the on-play effect for a card ID.
func (r *EffectRegistry) Effect(cardID string) (CardEffect, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.effects[cardID]
	return e, ok
}

// RegisterTrigger adds a triggered ability to every copy of cardID.
func (r *EffectRegistry) RegisterTrigger(cardID string, when TriggerWhen, effect CardEffect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers[cardID] = append(r.triggers[cardID], cardTrigger{when: when, effect: effect})
}

func (r *EffectRegistry) triggersFor(cardID string) []cardTrigger {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]cardTrigger(nil), r.triggers[cardID]...)
}

// RegisterCardEffect sets what playing the card with cardID does.
func (g *Game) RegisterCardEffect(cardID string, effect CardEffect) {
	g.abilities.Register(cardID, effect)
}

// RegisterCardTrigger adds a When Played or When Defeated ability to cardID.
func (g *Game) RegisterCardTrigger(cardID string, when TriggerWhen, effect CardEffect) error {
	if when != WhenPlayed && when != WhenDefeated {
		return fmt.Errorf("unknown trigger %q", when)
	}
	g.abilities.RegisterTrigger(cardID, when, effect)
	return nil
}

// armTriggers subscribes the triggered abilities of inst while it is in play.
func (g *Game) armTriggers(p *Player, inst *cards.Instance) {
	if inst.Template == nil {
		return
	}
	for _, trig := range g.abilities.triggersFor(inst.Template.ID) {
		eventType := rules.EventCardPlayed
		if trig.when == WhenDefeated {
			eventType = rules.EventUnitDefeated
		}
		effect := trig.effect
		g.triggers.Register(rules.AbilityTrigger{
			SourceID:   inst.ID,
			Controller: p.ID,
			EventType:  eventType,
			Once:       true,
			Condition:  func(e rules.Event) bool { return e.SourceID == inst.ID },
			Resolve:    func(rules.Event) { g.resolveTriggered(p, inst, effect) },
		})
	}
}

// resolveTriggered runs a triggered effect with targets from the chooser.
func (g *Game) resolveTriggered(p *Player, source *cards.Instance, effect CardEffect) {
	action := NewAction(p, fmt.Sprintf("%s: %s", source.Name(), effect), effect.Requirements(), effect.Resolve)
	action.SourceID = source.ID
	targets, ok := g.AutoTargets(action)
	if !ok {
		g.logger.Debug("triggered ability has no legal targets", zap.String("card", source.Name()))
		return
	}
	if err := g.Execute(action, targets); err != nil {
		g.logger.Warn("triggered ability failed", zap.String("card", source.Name()), zap.Error(err))
	}
}

package game

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
	"github.com/swu-engine/swu-server-go/internal/game/targeting"
)

// CombatResult summarizes one resolved attack.
type CombatResult struct {
	AttackerID       string
	DefenderID       string
	AttackerDamage   int
	DefenderDamage   int
	BaseDamage       int
	AttackerDefeated bool
	DefenderDefeated bool
}

// CanAttack reports whether attacker may attack defender right now. The error
// wraps ErrIllegalAttack and names the failed rule.
func (g *Game) CanAttack(attacker *cards.Instance, defender Target) error {
	if attacker == nil || !attacker.IsUnit() {
		return fmt.Errorf("%w: attacker is not a unit", ErrIllegalAttack)
	}
	if !g.inPlay(attacker) {
		return fmt.Errorf("%w: %s is not in play", ErrIllegalAttack, attacker.Name())
	}
	if !attacker.IsReady() {
		return fmt.Errorf("%w: %s is exhausted", ErrIllegalAttack, attacker.Name())
	}

	var defending *Player
	switch d := defender.(type) {
	case *cards.Instance:
		if d == nil || !d.IsUnit() || !g.inPlay(d) {
			return fmt.Errorf("%w: defender is not a unit in play", ErrIllegalAttack)
		}
		if !attacker.SharesArena(d) {
			return fmt.Errorf("%w: %s cannot reach %s", ErrIllegalAttack, attacker.Name(), d.Name())
		}
		defending, _ = g.owner(d)
	case *Base:
		if d == nil {
			return fmt.Errorf("%w: defender is not a base", ErrIllegalAttack)
		}
		if len(attacker.Arenas()) == 0 {
			return fmt.Errorf("%w: %s has no arena", ErrIllegalAttack, attacker.Name())
		}
		defending, _ = g.Player(d.Owner)
	default:
		return fmt.Errorf("%w: defender must be a unit or a base", ErrIllegalAttack)
	}
	if defending == nil || defending.ID == attacker.Owner {
		return fmt.Errorf("%w: %s cannot attack its own side", ErrIllegalAttack, attacker.Name())
	}

	for _, h := range g.keywords.Handlers() {
		if r, ok := h.(AttackRestrictor); ok {
			if err := r.RestrictAttack(g, attacker, defender, defending); err != nil {
				return err
			}
		}
	}
	return nil
}

// LegalDefenders lists every unit and base attacker may attack.
func (g *Game) LegalDefenders(attacker *cards.Instance) []Target {
	var out []Target
	for _, p := range g.players {
		for _, u := range p.Units() {
			if g.CanAttack(attacker, u) == nil {
				out = append(out, u)
			}
		}
		if p.Base != nil && g.CanAttack(attacker, p.Base) == nil {
			out = append(out, p.Base)
		}
	}
	return out
}

// AttackAction offers an attack with attacker during p's Combat phase.
func (g *Game) AttackAction(p *Player, attacker *cards.Instance) *Action {
	return g.attackAction(p, attacker, true)
}

func (g *Game) attackAction(p *Player, attacker *cards.Instance, combatOnly bool) *Action {
	req := &Requirement{
		TargetRequirement: targeting.TargetRequirement{
			Key:         "defender",
			Type:        targeting.TargetTypeAttackable,
			MinTargets:  1,
			MaxTargets:  1,
			Description: fmt.Sprintf("Choose a target for %s", attacker.Name()),
		},
		Predicate: func(g *Game, _ *Player, t Target) bool {
			return g.CanAttack(attacker, t) == nil
		},
	}
	action := &Action{
		ID:           uuid.NewString(),
		Kind:         ActionAttack,
		PlayerID:     p.ID,
		SourceID:     attacker.ID,
		Description:  fmt.Sprintf("Attack with %s", attacker.Name()),
		Requirements: []*Requirement{req},
		execute: func(g *Game, _ *Player, targets Targets) error {
			defender, _ := targets.First("defender")
			_, err := g.ResolveAttack(attacker, defender)
			return err
		},
	}
	action.check = func(g *Game, p *Player) error {
		if attacker.Owner != p.ID {
			return fmt.Errorf("%w: %s does not control %s", ErrWrongPlayer, p.ID, attacker.Name())
		}
		if !combatOnly {
			return nil
		}
		if g.turns.CurrentPlayer() != p.ID {
			return fmt.Errorf("%w: it is %s's turn", ErrWrongPlayer, g.turns.CurrentPlayer())
		}
		if g.Phase() != rules.PhaseCombat {
			return fmt.Errorf("%w: attacks need the Combat phase, now %s", ErrWrongPhase, g.Phase())
		}
		return nil
	}
	return action
}

// ResolveAttack exhausts attacker and resolves combat against defender.
// Unit combat damage is simultaneous and each unit is checked for defeat once afterwards.
func (g *Game) ResolveAttack(attacker *cards.Instance, defender Target) (*CombatResult, error) {
	if err := g.CanAttack(attacker, defender); err != nil {
		return nil, err
	}
	bindings := g.instanceHandlers(attacker)

	g.ExhaustUnit(attacker)
	declared := rules.NewEvent(rules.EventAttackDeclared, defender.TargetID(), attacker.ID, attacker.Owner)
	g.publish(declared)
	g.logger.Debug("attack declared", zap.String("attacker", attacker.Name()), zap.String("defender", defender.TargetName()))

	power := max(attacker.Attack(), 0)
	for _, b := range bindings {
		if h, ok := b.handler.(AttackHandler); ok {
			h.OnAttack(g, attacker, b.value)
		}
		if m, ok := b.handler.(AttackModifier); ok {
			power += m.AttackBonus(g, attacker, b.value)
		}
	}
	power = max(power, 0)

	result := &CombatResult{AttackerID: attacker.ID, DefenderID: defender.TargetID()}
	switch d := defender.(type) {
	case *Base:
		result.BaseDamage = g.damageBase(attacker.ID, d, power)
	case *cards.Instance:
		defending, _ := g.owner(d)
		counter := max(d.Attack(), 0)
		remaining := max(d.RemainingHealth(), 0)

		result.DefenderDamage = g.damageUnit(attacker.ID, d, power)
		result.AttackerDamage = g.damageUnit(d.ID, attacker, counter)

		if excess := result.DefenderDamage - remaining; excess > 0 {
			for _, b := range bindings {
				if h, ok := b.handler.(ExcessDamageHandler); ok {
					h.OnExcessDamage(g, attacker, defending, excess)
				}
			}
		}
		result.DefenderDefeated = g.checkDefeat(d)
		result.AttackerDefeated = g.checkDefeat(attacker)
	}

	evt := rules.NewEventWithAmount(rules.EventCombatResolved, defender.TargetID(), attacker.ID, attacker.Owner, power)
	evt.Metadata["defender_damage"] = strconv.Itoa(result.DefenderDamage)
	evt.Metadata["attacker_damage"] = strconv.Itoa(result.AttackerDamage)
	evt.Metadata["base_damage"] = strconv.Itoa(result.BaseDamage)
	g.publish(evt)
	return result, nil
}

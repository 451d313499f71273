package game

import (
	"fmt"
	"strings"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
	"github.com/swu-engine/swu-server-go/internal/game/targeting"
)

// Action factories build effect actions for abilities and scripted play.
// Each targets through a single requirement keyed DefaultTargetKey.

func singleTarget(kind targeting.TargetType, description string, pred Predicate) []*Requirement {
	return []*Requirement{NewRequirement(DefaultTargetKey, kind, description, pred)}
}

func targetInstance(targets Targets) (*cards.Instance, error) {
	t, _ := targets.First(DefaultTargetKey)
	inst, ok := asInstance(t)
	if !ok {
		return nil, ErrRequirementUnmet
	}
	return inst, nil
}

// DamageAction deals amount damage to a unit or a base.
func (g *Game) DamageAction(p *Player, amount int) *Action {
	effect := DamageEffect{Amount: amount, Kind: targeting.TargetTypeAttackable}
	desc := fmt.Sprintf("Deal %d damage", amount)
	return NewAction(p, desc, effect.Requirements(), effect.Resolve)
}

// HealAction heals amount damage from a damaged unit.
func (g *Game) HealAction(p *Player, amount int) *Action {
	effect := HealEffect{Amount: amount}
	return NewAction(p, fmt.Sprintf("Heal %d damage", amount), effect.Requirements(), effect.Resolve)
}

// DiscardAction discards a chosen card from p's own hand.
func (g *Game) DiscardAction(p *Player) *Action {
	reqs := singleTarget(targeting.TargetTypeCard, "Discard a card from hand", func(_ *Game, p *Player, t Target) bool {
		inst, ok := asInstance(t)
		return ok && p.Zone(board.ZoneHand).Contains(inst)
	})
	return NewAction(p, "Discard a card from hand", reqs, func(g *Game, p *Player, targets Targets) error {
		inst, err := targetInstance(targets)
		if err != nil {
			return err
		}
		return g.Discard(p, inst)
	})
}

// DrawAction draws n cards.
func (g *Game) DrawAction(p *Player, n int) *Action {
	return NewAction(p, fmt.Sprintf("Draw %d card(s)", n), nil, DrawEffect{Count: n}.Resolve)
}

// TokenAction creates a unit token in p's arena for it.
func (g *Game) TokenAction(p *Player, name string) *Action {
	desc := fmt.Sprintf("Create token (%s)", name)
	if tok, ok := cards.LookupToken(name); ok {
		desc = fmt.Sprintf("Create token (%s %d/%d)", tok.Name, tok.Attack, tok.Health)
		if len(tok.Keywords) > 0 {
			desc = strings.TrimSuffix(desc, ")") + " " + strings.Join(tok.Keywords, ", ") + ")"
		}
	}
	return NewAction(p, desc, nil, TokenEffect{Token: name, Count: 1}.Resolve)
}

// BuffAction gives a unit +attack/+health and keywords, reverted at until when set.
func (g *Game) BuffAction(p *Player, attack, health int, keywords []string, until rules.Timing) *Action {
	desc := fmt.Sprintf("Buff a unit +%d/+%d", attack, health)
	return NewAction(p, desc, singleTarget(targeting.TargetTypeUnit, desc, isUnitInPlay),
		func(g *Game, _ *Player, targets Targets) error {
			inst, err := targetInstance(targets)
			if err != nil {
				return err
			}
			for _, kw := range keywords {
				g.GrantKeyword(inst, kw, until)
			}
			g.ModifyStats(inst, attack, health, until)
			return nil
		})
}

// DebuffAction gives a unit -attack/-health and strips temporary keywords,
// reverted at until when set.
func (g *Game) DebuffAction(p *Player, attack, health int, removeKeywords []string, until rules.Timing) *Action {
	desc := fmt.Sprintf("Debuff a unit -%d/-%d", attack, health)
	return NewAction(p, desc, singleTarget(targeting.TargetTypeUnit, desc, isUnitInPlay),
		func(g *Game, _ *Player, targets Targets) error {
			inst, err := targetInstance(targets)
			if err != nil {
				return err
			}
			for _, kw := range removeKeywords {
				g.RemoveKeyword(inst, kw, until)
			}
			g.ModifyStats(inst, -attack, -health, until)
			return nil
		})
}

// AddKeywordAction grants keyword to a unit.
func (g *Game) AddKeywordAction(p *Player, keyword string, until rules.Timing) *Action {
	desc := fmt.Sprintf("Give unit %s", keyword)
	return NewAction(p, desc, singleTarget(targeting.TargetTypeUnit, desc, isUnitInPlay),
		func(g *Game, _ *Player, targets Targets) error {
			inst, err := targetInstance(targets)
			if err != nil {
				return err
			}
			g.GrantKeyword(inst, keyword, until)
			return nil
		})
}

// RemoveKeywordAction removes a temporary keyword from a unit.
func (g *Game) RemoveKeywordAction(p *Player, keyword string, until rules.Timing) *Action {
	desc := fmt.Sprintf("Remove keyword %s", keyword)
	return NewAction(p, desc, singleTarget(targeting.TargetTypeUnit, desc, isUnitInPlay),
		func(g *Game, _ *Player, targets Targets) error {
			inst, err := targetInstance(targets)
			if err != nil {
				return err
			}
			g.RemoveKeyword(inst, keyword, until)
			return nil
		})
}

// ShuffleAction shuffles p's deck.
func (g *Game) ShuffleAction(p *Player) *Action {
	return NewAction(p, "Shuffle your deck", nil, func(g *Game, p *Player, _ Targets) error {
		g.ShuffleDeck(p)
		return nil
	})
}

// RevealAction reveals any card.
func (g *Game) RevealAction(p *Player) *Action {
	reqs := singleTarget(targeting.TargetTypeCard, "Reveal a card", func(_ *Game, _ *Player, t Target) bool {
		_, ok := asInstance(t)
		return ok
	})
	return NewAction(p, "Reveal a card", reqs, func(g *Game, _ *Player, targets Targets) error {
		inst, err := targetInstance(targets)
		if err != nil {
			return err
		}
		g.RevealCard(inst)
		return nil
	})
}

// PeekAction lets p look at one card.
func (g *Game) PeekAction(p *Player) *Action {
	reqs := singleTarget(targeting.TargetTypeCard, "Peek at a card", func(_ *Game, _ *Player, t Target) bool {
		_, ok := asInstance(t)
		return ok
	})
	return NewAction(p, "Peek at a card", reqs, func(g *Game, p *Player, targets Targets) error {
		inst, err := targetInstance(targets)
		if err != nil {
			return err
		}
		g.GrantPeek(p, inst)
		return nil
	})
}

// SearchAction puts between 1 and maxTargets matching cards from p's deck into p's hand.
func (g *Game) SearchAction(p *Player, match func(*cards.Instance) bool, maxTargets int) *Action {
	req := NewRequirement(DefaultTargetKey, targeting.TargetTypeCard, "Search your deck",
		func(_ *Game, p *Player, t Target) bool {
			inst, ok := asInstance(t)
			return ok && p.Zone(board.ZoneDeck).Contains(inst) && (match == nil || match(inst))
		})
	req.MaxTargets = max(maxTargets, 1)
	return NewAction(p, "Search your deck", []*Requirement{req}, func(g *Game, p *Player, targets Targets) error {
		var found []*cards.Instance
		for _, t := range targets[DefaultTargetKey] {
			if inst, ok := asInstance(t); ok {
				found = append(found, inst)
			}
		}
		g.SearchDeck(p, found)
		return nil
	})
}

// MillAction mills n cards from p's deck.
func (g *Game) MillAction(p *Player, n int, followUp FollowUpFunc) *Action {
	a := NewAction(p, fmt.Sprintf("Mill %d cards", n), nil, func(g *Game, p *Player, _ Targets) error {
		g.MillCards(p, n)
		return nil
	})
	a.FollowUp = followUp
	return a
}

// MillAndRevealAction mills and reveals n cards, running followUp for each one matching cond.
func (g *Game) MillAndRevealAction(p *Player, n int, cond func(*cards.Instance) bool, followUp func(*Game, *Player, *cards.Instance)) *Action {
	return NewAction(p, fmt.Sprintf("Mill and reveal top %d card(s)", n), nil, func(g *Game, p *Player, _ Targets) error {
		g.MillAndReveal(p, n, cond, followUp)
		return nil
	})
}

// AttachUpgradeAction attaches upgrade to one of p's units.
func (g *Game) AttachUpgradeAction(p *Player, upgrade *cards.Instance) *Action {
	desc := fmt.Sprintf("Attach %s", upgrade.Name())
	reqs := singleTarget(targeting.TargetTypeUnit, desc, func(g *Game, p *Player, t Target) bool {
		inst, ok := asInstance(t)
		return ok && inst.Owner == p.ID && isUnitInPlay(g, p, t)
	})
	return NewAction(p, desc, reqs, func(g *Game, _ *Player, targets Targets) error {
		host, err := targetInstance(targets)
		if err != nil {
			return err
		}
		return g.AttachUpgrade(upgrade, host)
	})
}

// DetachUpgradeAction discards a chosen upgrade from host.
func (g *Game) DetachUpgradeAction(p *Player, host *cards.Instance) *Action {
	desc := fmt.Sprintf("Detach an upgrade from %s", host.Name())
	reqs := singleTarget(targeting.TargetTypeCard, desc, func(_ *Game, _ *Player, t Target) bool {
		inst, ok := asInstance(t)
		if !ok {
			return false
		}
		for _, u := range host.Upgrades {
			if u == inst {
				return true
			}
		}
		return false
	})
	return NewAction(p, desc, reqs, func(g *Game, _ *Player, targets Targets) error {
		up, _ := asInstance(targets[DefaultTargetKey][0])
		return g.DetachUpgrade(host, up)
	})
}

// ReturnToHandAction returns a unit in play to its owner's hand.
func (g *Game) ReturnToHandAction(p *Player) *Action {
	return g.unitAction(p, "Return a unit to its owner's hand", g.ReturnToHand)
}

// ExileAction exiles a unit in play.
func (g *Game) ExileAction(p *Player) *Action {
	return g.unitAction(p, "Exile a unit", g.Exile)
}

// DefeatAction defeats a unit in play.
func (g *Game) DefeatAction(p *Player) *Action {
	return g.unitAction(p, "Defeat a unit", g.DefeatUnit)
}

func (g *Game) unitAction(p *Player, desc string, fn func(*cards.Instance) error) *Action {
	return NewAction(p, desc, singleTarget(targeting.TargetTypeUnit, desc, isUnitInPlay),
		func(_ *Game, _ *Player, targets Targets) error {
			inst, err := targetInstance(targets)
			if err != nil {
				return err
			}
			return fn(inst)
		})
}

// RemoveResourceAction moves one of p's resources to toZone, discard when empty.
func (g *Game) RemoveResourceAction(p *Player, toZone string) *Action {
	desc := "Remove a resource"
	reqs := singleTarget(targeting.TargetTypeCard, desc, func(_ *Game, p *Player, t Target) bool {
		inst, ok := asInstance(t)
		return ok && p.Zone(board.ZoneResources).Contains(inst)
	})
	return NewAction(p, desc, reqs, func(g *Game, p *Player, targets Targets) error {
		inst, err := targetInstance(targets)
		if err != nil {
			return err
		}
		return g.RemoveResource(p, inst, toZone)
	})
}

package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/targeting"
)

// Target is anything an action can point at: a card instance, a base or a player.
type Target = targeting.Target

// Targets maps requirement keys to the targets chosen for them.
type Targets map[string][]Target

// First returns the first target assigned to key.
func (t Targets) First(key string) (Target, bool) {
	if len(t[key]) == 0 {
		return nil, false
	}
	return t[key][0], true
}

// Predicate decides whether a single candidate satisfies a requirement.
type Predicate func(g *Game, p *Player, t Target) bool

// Requirement is a targeting constraint: a count range plus a predicate
// every chosen target must pass.
type Requirement struct {
	targeting.TargetRequirement
	Predicate Predicate
}

// NewRequirement builds a requirement for exactly one target.
func NewRequirement(key string, kind targeting.TargetType, description string, pred Predicate) *Requirement {
	return &Requirement{
		TargetRequirement: targeting.TargetRequirement{
			Key:         key,
			Type:        kind,
			MinTargets:  1,
			MaxTargets:  1,
			Description: description,
		},
		Predicate: pred,
	}
}

// Accepts runs the predicate for one candidate.
func (r *Requirement) Accepts(g *Game, p *Player, t Target) bool {
	if t == nil {
		return false
	}
	if r.Predicate == nil {
		return true
	}
	return r.Predicate(g, p, t)
}

// ActionKind groups actions by how they become available.
type ActionKind string

const (
	ActionPlay     ActionKind = "play"
	ActionResponse ActionKind = "response"
	ActionAttack   ActionKind = "attack"
	ActionEffect   ActionKind = "effect"
)

// ExecuteFunc mutates state once every requirement is satisfied. It must check
// any remaining preconditions before its first mutation.
type ExecuteFunc func(g *Game, p *Player, targets Targets) error

// FollowUpFunc runs after a successful execution.
type FollowUpFunc func(g *Game, p *Player, targets Targets)

// Action is an executable unit of play tied to one acting player.
type Action struct {
	ID           string
	Kind         ActionKind
	PlayerID     string
	SourceID     string
	Description  string
	Requirements []*Requirement
	FollowUp     FollowUpFunc

	check   func(g *Game, p *Player) error
	execute ExecuteFunc
}

// NewAction creates an action for p. Most callers use the factories instead.
func NewAction(p *Player, description string, reqs []*Requirement, fn ExecuteFunc) *Action {
	return &Action{
		ID:           uuid.NewString(),
		Kind:         ActionEffect,
		PlayerID:     p.ID,
		Description:  description,
		Requirements: reqs,
		execute:      fn,
	}
}

// Requirement returns the requirement with key.
func (a *Action) Requirement(key string) (*Requirement, bool) {
	for _, r := range a.Requirements {
		if r.Key == key {
			return r, true
		}
	}
	return nil, false
}

func (a *Action) String() string {
	return a.Description
}

// Execute validates targets against every requirement and runs the action.
// A failed precondition leaves the game untouched.
func (g *Game) Execute(a *Action, targets Targets) error {
	if a == nil || a.execute == nil {
		return illegal(fmt.Errorf("action is not executable"))
	}
	p, ok := g.Player(a.PlayerID)
	if !ok {
		return fmt.Errorf("%w: unknown player %s", ErrWrongPlayer, a.PlayerID)
	}
	if a.check != nil {
		if err := a.check(g, p); err != nil {
			return illegal(err)
		}
	}
	if err := g.ValidateTargets(a, targets); err != nil {
		return err
	}
	if err := a.execute(g, p, targets); err != nil {
		return illegal(err)
	}
	if a.FollowUp != nil {
		a.FollowUp(g, p, targets)
	}
	return nil
}

// ValidateTargets checks target counts and predicates for every requirement.
func (g *Game) ValidateTargets(a *Action, targets Targets) error {
	p, ok := g.Player(a.PlayerID)
	if !ok {
		return fmt.Errorf("%w: unknown player %s", ErrWrongPlayer, a.PlayerID)
	}
	for _, req := range a.Requirements {
		sel := targeting.TargetSelection{Targets: targets[req.Key], Requirement: req.TargetRequirement}
		if err := sel.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrRequirementUnmet, err)
		}
		err := sel.ValidateEach(func(t Target) bool { return req.Accepts(g, p, t) })
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrRequirementUnmet, req.Description, err)
		}
	}
	return nil
}

// Candidates lists every target on the table that satisfies req for p.
func (g *Game) Candidates(p *Player, req *Requirement) []Target {
	var out []Target
	add := func(t Target) {
		if req.Accepts(g, p, t) {
			out = append(out, t)
		}
	}
	for _, owner := range g.players {
		switch req.Type {
		case targeting.TargetTypeUnit:
			for _, u := range owner.Units() {
				add(u)
			}
		case targeting.TargetTypeBase:
			if owner.Base != nil {
				add(owner.Base)
			}
		case targeting.TargetTypeAttackable:
			for _, u := range owner.Units() {
				add(u)
			}
			if owner.Base != nil {
				add(owner.Base)
			}
		case targeting.TargetTypePlayer:
			add(owner)
		default:
			for _, z := range owner.Board.Zones() {
				for _, c := range z.Cards() {
					add(c)
					for _, up := range c.Upgrades {
						add(up)
					}
				}
			}
		}
	}
	return out
}

// AutoTargets fills every requirement using the game's target chooser.
// It reports false when some requirement cannot reach its minimum.
func (g *Game) AutoTargets(a *Action) (Targets, bool) {
	p, ok := g.Player(a.PlayerID)
	if !ok {
		return nil, false
	}
	targets := Targets{}
	for _, req := range a.Requirements {
		chosen := g.chooser(g, p, req, g.Candidates(p, req))
		if len(chosen) < req.MinTargets {
			return nil, false
		}
		targets[req.Key] = chosen
	}
	return targets, true
}

// firstCandidates picks the first legal targets in table order.
func firstCandidates(_ *Game, _ *Player, req *Requirement, candidates []Target) []Target {
	n := min(req.MinTargets, len(candidates))
	return candidates[:n]
}

// asInstance narrows a target to a card instance.
func asInstance(t Target) (*cards.Instance, bool) {
	inst, ok := t.(*cards.Instance)
	return inst, ok && inst != nil
}

// asBase narrows a target to a base.
func asBase(t Target) (*Base, bool) {
	b, ok := t.(*Base)
	return b, ok && b != nil
}

// inPlay reports whether inst sits in one of its owner's arenas.
func (g *Game) inPlay(inst *cards.Instance) bool {
	_, z, ok := g.Locate(inst)
	return ok && board.IsArena(z.ID)
}

// isUnitInPlay is the predicate shared by unit-targeting factories.
func isUnitInPlay(g *Game, _ *Player, t Target) bool {
	inst, ok := asInstance(t)
	return ok && inst.IsUnit() && g.inPlay(inst)
}

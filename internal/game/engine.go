package game

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/resources"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
)

// LegalActions returns the actions p may take right now. During p's Main
// phase that is one play action per card in hand; during p's Combat phase
// one attack per ready unit. Costs are checked when an action executes, not
// here, because resources can change inside a priority window.
func (g *Game) LegalActions(p *Player) []*Action {
	if p == nil || g.turns.CurrentPlayer() != p.ID {
		return nil
	}
	var actions []*Action
	switch g.Phase() {
	case rules.PhaseMain:
		for _, inst := range p.Hand() {
			actions = append(actions, g.PlayAction(p, inst))
		}
	case rules.PhaseCombat:
		for _, u := range p.Units() {
			if u.IsReady() {
				actions = append(actions, g.AttackAction(p, u))
			}
		}
	}
	return actions
}

// ResponseActions returns the cards p may play inside a priority window,
// which is any card whose keywords allow response play.
func (g *Game) ResponseActions(p *Player) []*Action {
	if p == nil || !g.Phase().OpensPriority() {
		return nil
	}
	var actions []*Action
	for _, inst := range p.Hand() {
		if g.playableAsResponse(inst) {
			actions = append(actions, g.ResponseAction(p, inst))
		}
	}
	return actions
}

// ResourceActions returns one action per hand card to place it face down as a
// resource. A player may resource once per turn, during their Main phase.
func (g *Game) ResourceActions(p *Player) []*Action {
	if p == nil || g.turns.CurrentPlayer() != p.ID || g.Phase() != rules.PhaseMain {
		return nil
	}
	if p.resourcedTurn == g.turns.TurnNumber() {
		return nil
	}
	var actions []*Action
	for _, inst := range p.Hand() {
		actions = append(actions, g.ResourceAction(p, inst))
	}
	return actions
}

// PlayAction plays inst from p's hand during p's Main phase.
func (g *Game) PlayAction(p *Player, inst *cards.Instance) *Action {
	a := g.playAction(p, inst, ActionPlay)
	a.check = func(g *Game, p *Player) error {
		if err := g.checkInHand(p, inst); err != nil {
			return err
		}
		if g.turns.CurrentPlayer() != p.ID {
			return fmt.Errorf("%w: it is %s's turn", ErrWrongPlayer, g.turns.CurrentPlayer())
		}
		if g.Phase() != rules.PhaseMain {
			return fmt.Errorf("%w: cards are played in the Main phase, now %s", ErrWrongPhase, g.Phase())
		}
		return g.checkCost(p, inst)
	}
	return a
}

// ResponseAction plays inst from p's hand inside an open priority window.
func (g *Game) ResponseAction(p *Player, inst *cards.Instance) *Action {
	a := g.playAction(p, inst, ActionResponse)
	a.Description = fmt.Sprintf("Respond with %s (cost %d)", inst.Name(), inst.Cost())
	a.check = func(g *Game, p *Player) error {
		if err := g.checkInHand(p, inst); err != nil {
			return err
		}
		if !g.Phase().OpensPriority() {
			return fmt.Errorf("%w: no priority window in %s", ErrWrongPhase, g.Phase())
		}
		if !g.playableAsResponse(inst) {
			return fmt.Errorf("%w: %s cannot be played as a response", ErrIllegalAction, inst.Name())
		}
		return g.checkCost(p, inst)
	}
	return a
}

// ResourceAction moves inst from p's hand to p's resources.
func (g *Game) ResourceAction(p *Player, inst *cards.Instance) *Action {
	return &Action{
		ID:          uuid.NewString(),
		Kind:        ActionPlay,
		PlayerID:    p.ID,
		SourceID:    inst.ID,
		Description: fmt.Sprintf("Resource %s", inst.Name()),
		check: func(g *Game, p *Player) error {
			if err := g.checkInHand(p, inst); err != nil {
				return err
			}
			if g.turns.CurrentPlayer() != p.ID || g.Phase() != rules.PhaseMain {
				return fmt.Errorf("%w: resources are placed in your Main phase", ErrWrongPhase)
			}
			if p.resourcedTurn == g.turns.TurnNumber() {
				return fmt.Errorf("%w: %s already placed a resource this turn", ErrIllegalAction, p.ID)
			}
			return nil
		},
		execute: func(g *Game, p *Player, _ Targets) error {
			g.moveCard(inst, p.Zone(board.ZoneHand), p.Zone(board.ZoneResources))
			p.resourcedTurn = g.turns.TurnNumber()
			return nil
		},
	}
}

func (g *Game) playAction(p *Player, inst *cards.Instance, kind ActionKind) *Action {
	var reqs []*Requirement
	effect, hasEffect := g.abilities.Effect(templateID(inst))
	if hasEffect && inst.Type() == cards.TypeEvent {
		reqs = effect.Requirements()
	}
	return &Action{
		ID:           uuid.NewString(),
		Kind:         kind,
		PlayerID:     p.ID,
		SourceID:     inst.ID,
		Description:  fmt.Sprintf("Play %s (cost %d, type %s)", inst.Name(), inst.Cost(), inst.Type()),
		Requirements: reqs,
		execute: func(g *Game, p *Player, targets Targets) error {
			return g.playCard(p, inst, targets)
		},
	}
}

func (g *Game) checkInHand(p *Player, inst *cards.Instance) error {
	if inst == nil || !p.Zone(board.ZoneHand).Contains(inst) {
		return fmt.Errorf("%w: %s is not in %s's hand", ErrNotInZone, instName(inst), p.ID)
	}
	return nil
}

func (g *Game) checkCost(p *Player, inst *cards.Instance) error {
	if _, err := resources.AspectPenalty(inst.Template, p.Aspects()); err != nil {
		return err
	}
	res := resources.CalculatePayment(inst.Cost(), p.Resources())
	if !res.Success {
		return fmt.Errorf("%w: %s: %s", ErrInsufficientResources, inst.Name(), res.Reason)
	}
	return nil
}

// playCard pays for inst and resolves it by card type.
func (g *Game) playCard(p *Player, inst *cards.Instance, targets Targets) error {
	effect, hasEffect := g.abilities.Effect(templateID(inst))
	hasEffect = hasEffect && inst.Type() == cards.TypeEvent
	if hasEffect {
		if err := validateEffect(g, p, effect, targets); err != nil {
			return fmt.Errorf("%s: %w", inst.Name(), err)
		}
	}
	plan, err := resources.Pay(inst.Cost(), p.Resources())
	if err != nil {
		return err
	}
	if plan.Cost > 0 {
		g.publish(rules.NewEventWithAmount(rules.EventResourcesPaid, inst.ID, inst.ID, p.ID, plan.Cost))
	}

	hand := p.Zone(board.ZoneHand)
	var entered bool
	switch inst.Type() {
	case cards.TypeUnit:
		g.moveCard(inst, hand, p.Board.ArenaZone(inst.DefaultArena()))
		entered = true
	case cards.TypeEvent:
		var resolveErr error
		if hasEffect {
			resolveErr = effect.Resolve(g, p, targets)
		}
		g.moveCard(inst, hand, p.Zone(board.ZoneDiscard))
		if resolveErr != nil {
			g.logger.Error("event effect failed after payment", zap.String("card", inst.Name()), zap.Error(resolveErr))
			return fmt.Errorf("%w: %s resolved partially: %w", ErrInvariant, inst.Name(), resolveErr)
		}
	case cards.TypeUpgrade:
		// Attachment is a separate action; until then the upgrade waits in the arena.
		g.moveCard(inst, hand, p.Board.ArenaZone(cards.ArenaGround))
	case cards.TypeResource:
		g.moveCard(inst, hand, p.Zone(board.ZoneResources))
	default:
		return fmt.Errorf("%w: %s cards cannot be played from hand", ErrIllegalAction, inst.Type())
	}

	g.logger.Info("card played",
		zap.String("player_id", p.ID),
		zap.String("card", inst.Name()),
		zap.String("type", string(inst.Type())),
		zap.Int("cost", inst.Cost()),
	)
	if entered {
		g.enterPlay(p, inst)
	}
	evt := rules.NewEvent(rules.EventCardPlayed, inst.ID, inst.ID, p.ID)
	evt.Metadata["card_name"] = inst.Name()
	evt.Metadata["card_type"] = string(inst.Type())
	g.publish(evt)
	if entered {
		g.runEntryKeywords(p, inst)
	}
	return nil
}

// enterPlay resets a unit arriving in an arena and arms its triggers.
func (g *Game) enterPlay(p *Player, inst *cards.Instance) {
	inst.ResetState()
	g.armTriggers(p, inst)
}

func (g *Game) runEntryKeywords(p *Player, inst *cards.Instance) {
	for _, b := range g.instanceHandlers(inst) {
		if h, ok := b.handler.(EntryHandler); ok {
			h.OnEnterPlay(g, p, inst)
		}
	}
}

func templateID(inst *cards.Instance) string {
	if inst == nil || inst.Template == nil {
		return ""
	}
	return inst.Template.ID
}

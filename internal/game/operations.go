package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/counters"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
)

// DealDamage damages a unit or a base and runs the defeat check once.
// It returns the damage actually applied.
func (g *Game) DealDamage(sourceID string, target Target, amount int) (int, error) {
	if amount < 0 {
		return 0, fmt.Errorf("%w: negative damage %d", ErrIllegalAction, amount)
	}
	if b, ok := asBase(target); ok {
		return g.damageBase(sourceID, b, amount), nil
	}
	inst, ok := asInstance(target)
	if !ok || !inst.IsUnit() || !g.inPlay(inst) {
		return 0, fmt.Errorf("%w: %v cannot be damaged", ErrRequirementUnmet, targetName(target))
	}
	dealt := g.damageUnit(sourceID, inst, amount)
	g.checkDefeat(inst)
	return dealt, nil
}

// damageUnit applies damage without checking defeat. A Shield counter
// absorbs the whole event and is spent.
func (g *Game) damageUnit(sourceID string, inst *cards.Instance, amount int) int {
	if amount <= 0 {
		return 0
	}
	if inst.Counters.RemoveCounter(string(counters.CounterShield), 1) {
		evt := rules.NewEventWithAmount(rules.EventDamagePrevented, inst.ID, sourceID, inst.Owner, amount)
		evt.Data = string(counters.CounterShield)
		g.publish(evt)
		g.logger.Debug("damage prevented by shield", zap.String("card", inst.Name()), zap.Int("amount", amount))
		return 0
	}
	inst.Damage += amount
	g.publish(rules.NewEventWithAmount(rules.EventDamageDealt, inst.ID, sourceID, inst.Owner, amount))
	g.logger.Debug("damage dealt",
		zap.String("card", inst.Name()),
		zap.Int("amount", amount),
		zap.Int("damage", inst.Damage),
	)
	return amount
}

func (g *Game) damageBase(sourceID string, b *Base, amount int) int {
	taken := b.TakeDamage(amount)
	evt := rules.NewEventWithAmount(rules.EventBaseDamaged, b.TargetID(), sourceID, b.Owner, taken)
	evt.PlayerID = b.Owner
	g.publish(evt)
	g.logger.Debug("base damaged", zap.String("base", b.Name), zap.Int("amount", taken), zap.Int("health", b.Health))
	g.checkBase(b)
	return taken
}

// checkBase publishes EventBaseDefeated the first time a base reaches zero.
// Ending the game is left to subscribers.
func (g *Game) checkBase(b *Base) {
	if !b.Defeated() {
		return
	}
	for _, id := range g.baseDefeats {
		if id == b.Owner {
			return
		}
	}
	g.baseDefeats = append(g.baseDefeats, b.Owner)
	evt := rules.NewEvent(rules.EventBaseDefeated, b.TargetID(), "", b.Owner)
	evt.PlayerID = b.Owner
	g.publish(evt)
	g.logger.Info("base defeated", zap.String("player_id", b.Owner), zap.String("base", b.Name))
}

// checkDefeat defeats inst if its damage reached its effective health.
func (g *Game) checkDefeat(inst *cards.Instance) bool {
	if !inst.IsDefeated() || !g.inPlay(inst) {
		return false
	}
	return g.DefeatUnit(inst) == nil
}

// Heal removes up to amount damage from a unit and returns how much was removed.
func (g *Game) Heal(inst *cards.Instance, amount int) int {
	healed := min(max(amount, 0), inst.Damage)
	if healed == 0 {
		return 0
	}
	inst.Damage -= healed
	g.publish(rules.NewEventWithAmount(rules.EventHealed, inst.ID, "", inst.Owner, healed))
	return healed
}

// HealBase restores health to p's base, never above its maximum.
func (g *Game) HealBase(p *Player, amount int) int {
	if p.Base == nil {
		return 0
	}
	healed := p.Base.Heal(amount)
	if healed > 0 {
		g.publish(rules.NewEventWithAmount(rules.EventBaseHealed, p.Base.TargetID(), "", p.ID, healed))
	}
	return healed
}

// DrawCards moves up to n cards from the top of the deck to the hand.
// Drawing from an empty deck stops without error.
func (g *Game) DrawCards(p *Player, n int) int {
	deck, hand := p.Zone(board.ZoneDeck), p.Zone(board.ZoneHand)
	drawn := 0
	for ; drawn < n; drawn++ {
		top, ok := deck.Top()
		if !ok {
			g.logger.Debug("deck empty", zap.String("player_id", p.ID))
			break
		}
		g.moveCard(top, deck, hand)
		g.publish(rules.NewEvent(rules.EventDrewCard, top.ID, top.ID, p.ID))
	}
	return drawn
}

// MillCards moves up to n cards from the top of the deck to the discard pile.
func (g *Game) MillCards(p *Player, n int) []*cards.Instance {
	deck, discard := p.Zone(board.ZoneDeck), p.Zone(board.ZoneDiscard)
	var milled []*cards.Instance
	for len(milled) < n {
		top, ok := deck.Top()
		if !ok {
			break
		}
		g.moveCard(top, deck, discard)
		g.publish(rules.NewEvent(rules.EventMilledCard, top.ID, top.ID, p.ID))
		milled = append(milled, top)
	}
	return milled
}

// MillAndReveal mills n cards, revealing each. followUp runs for every milled
// card that satisfies cond.
func (g *Game) MillAndReveal(p *Player, n int, cond func(*cards.Instance) bool, followUp func(g *Game, p *Player, inst *cards.Instance)) []*cards.Instance {
	milled := g.MillCards(p, n)
	for _, inst := range milled {
		g.RevealCard(inst)
		if cond != nil && cond(inst) && followUp != nil {
			followUp(g, p, inst)
		}
	}
	return milled
}

// Discard moves a card from p's hand to p's discard pile.
func (g *Game) Discard(p *Player, inst *cards.Instance) error {
	hand := p.Zone(board.ZoneHand)
	if inst == nil || !hand.Contains(inst) {
		return fmt.Errorf("%w: %s is not in %s's hand", ErrNotInZone, instName(inst), p.ID)
	}
	g.moveCard(inst, hand, p.Zone(board.ZoneDiscard))
	g.publish(rules.NewEvent(rules.EventDiscarded, inst.ID, inst.ID, p.ID))
	return nil
}

// Exile moves a card from wherever its owner holds it to the owner's exile zone.
func (g *Game) Exile(inst *cards.Instance) error {
	owner, from, ok := g.Locate(inst)
	if !ok {
		return fmt.Errorf("%w: %s is not on the board", ErrNotInZone, instName(inst))
	}
	exile := owner.Zone(board.ZoneExile)
	if from == exile {
		return nil
	}
	if board.IsArena(from.ID) {
		g.leavePlay(inst)
		g.triggers.UnregisterSource(inst.ID)
		if inst.IsToken() {
			g.removeFromGame(inst, from)
			return nil
		}
	}
	g.moveCard(inst, from, exile)
	g.publish(rules.NewEvent(rules.EventExiled, inst.ID, inst.ID, owner.ID))
	return nil
}

// ReturnToHand returns a unit in play, or a card in the discard pile, to its
// owner's hand. Units leaving play lose damage, modifiers and exhaustion.
func (g *Game) ReturnToHand(inst *cards.Instance) error {
	owner, from, ok := g.Locate(inst)
	if !ok {
		return fmt.Errorf("%w: %s is not on the board", ErrNotInZone, instName(inst))
	}
	switch {
	case board.IsArena(from.ID):
		g.leavePlay(inst)
		g.triggers.UnregisterSource(inst.ID)
		inst.ResetState()
		if inst.IsToken() {
			g.removeFromGame(inst, from)
			return nil
		}
	case from.ID == board.ZoneDiscard:
	default:
		return fmt.Errorf("%w: %s cannot return to hand from %s", ErrNotInZone, inst.Name(), from.ID)
	}
	g.moveCard(inst, from, owner.Zone(board.ZoneHand))
	g.publish(rules.NewEvent(rules.EventReturnedHand, inst.ID, inst.ID, owner.ID))
	return nil
}

// DefeatUnit moves a unit in play to its owner's discard pile. Unit tokens
// leave the game instead.
func (g *Game) DefeatUnit(inst *cards.Instance) error {
	owner, from, ok := g.Locate(inst)
	if !ok || !board.IsArena(from.ID) {
		return fmt.Errorf("%w: %s is not in play", ErrNotInZone, instName(inst))
	}
	g.leavePlay(inst)
	if inst.IsToken() {
		g.removeFromGame(inst, from)
	} else {
		g.moveCard(inst, from, owner.Zone(board.ZoneDiscard))
	}
	evt := rules.NewEvent(rules.EventUnitDefeated, inst.ID, inst.ID, owner.ID)
	evt.PlayerID = owner.ID
	g.publish(evt)
	g.triggers.UnregisterSource(inst.ID)
	g.logger.Info("unit defeated", zap.String("card", inst.Name()), zap.String("player_id", owner.ID))
	return nil
}

// leavePlay drops the delayed effects keyed to inst, then sends attached
// upgrades to their owners' discard piles.
func (g *Game) leavePlay(inst *cards.Instance) {
	if n := g.delayed.CancelSource(inst.ID); n > 0 {
		g.logger.Debug("delayed effects cancelled", zap.String("card", inst.Name()), zap.Int("count", n))
	}
	for _, up := range append([]*cards.Instance(nil), inst.Upgrades...) {
		if err := g.DetachUpgrade(inst, up); err != nil {
			g.logger.Warn("detach on leave play failed", zap.String("upgrade", up.Name()), zap.Error(err))
		}
	}
}

func (g *Game) removeFromGame(inst *cards.Instance, from *board.Zone) {
	if !from.Remove(inst) {
		return
	}
	evt := rules.NewEvent(rules.EventZoneChange, inst.ID, inst.ID, inst.Owner)
	evt.FromZone = from.ID
	evt.Description = fmt.Sprintf("%s left the game", inst.Name())
	g.publish(evt)
}

// CreateToken puts a unit token into p's default arena for that token.
// Counter tokens go through GiveCounter.
func (g *Game) CreateToken(p *Player, name string) (*cards.Instance, error) {
	tok, ok := cards.LookupToken(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown token %q", ErrIllegalAction, name)
	}
	if tok.Kind != cards.TokenUnit {
		return nil, fmt.Errorf("%w: %s is a counter token", ErrIllegalAction, tok.Name)
	}
	inst := cards.NewTokenInstance(p.ID, tok)
	p.Board.ArenaZone(inst.DefaultArena()).Add(inst)
	evt := rules.NewEvent(rules.EventTokenCreated, inst.ID, inst.ID, p.ID)
	evt.Zone = string(inst.DefaultArena())
	evt.Data = tok.Name
	g.publish(evt)
	g.logger.Debug("token created", zap.String("token", tok.Name), zap.String("player_id", p.ID))
	return inst, nil
}

// GiveCounter places n counters of ct on a unit.
func (g *Game) GiveCounter(inst *cards.Instance, ct counters.CounterType, n int) {
	if n <= 0 {
		return
	}
	inst.Counters.Add(ct, n)
	evt := rules.NewEventWithAmount(rules.EventCounterAdded, inst.ID, "", inst.Owner, n)
	evt.Data = string(ct)
	g.publish(evt)
}

// AttachUpgrade attaches an unattached upgrade in play to a unit in play.
func (g *Game) AttachUpgrade(upgrade, host *cards.Instance) error {
	if upgrade == nil || upgrade.Type() != cards.TypeUpgrade {
		return fmt.Errorf("%w: %s is not an upgrade", ErrRequirementUnmet, instName(upgrade))
	}
	if host == nil || !host.IsUnit() || !g.inPlay(host) {
		return fmt.Errorf("%w: %s is not a unit in play", ErrRequirementUnmet, instName(host))
	}
	_, from, ok := g.Locate(upgrade)
	if !ok || !board.IsArena(from.ID) {
		return fmt.Errorf("%w: %s is not waiting in play", ErrNotInZone, upgrade.Name())
	}
	from.Remove(upgrade)
	host.Upgrades = append(host.Upgrades, upgrade)
	evt := rules.NewEvent(rules.EventUpgradeAttached, host.ID, upgrade.ID, upgrade.Owner)
	evt.FromZone = from.ID
	g.publish(evt)
	g.checkDefeat(host)
	return nil
}

// DetachUpgrade removes an upgrade from its host and discards it to its owner's discard pile.
func (g *Game) DetachUpgrade(host, upgrade *cards.Instance) error {
	if host == nil || !host.DetachUpgrade(upgrade) {
		return fmt.Errorf("%w: %s is not attached to %s", ErrNotInZone, instName(upgrade), instName(host))
	}
	owner, ok := g.owner(upgrade)
	if !ok {
		return fmt.Errorf("%w: upgrade owner %s is not seated", ErrInvariant, upgrade.Owner)
	}
	owner.Zone(board.ZoneDiscard).Add(upgrade)
	evt := rules.NewEvent(rules.EventUpgradeDetached, host.ID, upgrade.ID, owner.ID)
	evt.Zone = board.ZoneDiscard
	g.publish(evt)
	if g.inPlay(host) {
		g.checkDefeat(host)
	}
	return nil
}

// ModifyStats adjusts a unit's attack and health modifiers. With a non-empty
// expiry the exact reverse is queued for that timing.
func (g *Game) ModifyStats(inst *cards.Instance, attack, health int, expiry rules.Timing) {
	inst.AttackMod += attack
	inst.HealthMod += health
	evt := rules.NewEventWithAmount(rules.EventStatsModified, inst.ID, "", inst.Owner, attack)
	evt.Data = fmt.Sprintf("%+d/%+d", attack, health)
	g.publish(evt)
	if expiry != "" {
		g.delayed.Register(expiry, inst.ID, fmt.Sprintf("%s %+d/%+d expires", inst.Name(), attack, health), func() {
			inst.AttackMod -= attack
			inst.HealthMod -= health
			if g.inPlay(inst) {
				g.checkDefeat(inst)
			}
		})
	}
	if g.inPlay(inst) {
		g.checkDefeat(inst)
	}
}

// GrantKeyword adds a temporary keyword, removed again at expiry when set.
func (g *Game) GrantKeyword(inst *cards.Instance, keyword string, expiry rules.Timing) bool {
	if !inst.AddTempKeyword(keyword) {
		return false
	}
	evt := rules.NewEvent(rules.EventKeywordGranted, inst.ID, "", inst.Owner)
	evt.Data = keyword
	g.publish(evt)
	if expiry != "" {
		g.delayed.Register(expiry, inst.ID, fmt.Sprintf("%s loses %s", inst.Name(), keyword), func() {
			inst.RemoveTempKeyword(keyword)
		})
	}
	return true
}

// RemoveKeyword strips a temporary keyword, restoring it at expiry when set.
// Printed keywords cannot be removed.
func (g *Game) RemoveKeyword(inst *cards.Instance, keyword string, expiry rules.Timing) bool {
	if !inst.RemoveTempKeyword(keyword) {
		return false
	}
	evt := rules.NewEvent(rules.EventKeywordRemoved, inst.ID, "", inst.Owner)
	evt.Data = keyword
	g.publish(evt)
	if expiry != "" {
		g.delayed.Register(expiry, inst.ID, fmt.Sprintf("%s regains %s", inst.Name(), keyword), func() {
			inst.AddTempKeyword(keyword)
		})
	}
	return true
}

// ExhaustUnit exhausts a ready instance.
func (g *Game) ExhaustUnit(inst *cards.Instance) {
	if inst.IsReady() {
		inst.Exhaust()
		g.publish(rules.NewEvent(rules.EventUnitExhausted, inst.ID, inst.ID, inst.Owner))
	}
}

// ReadyUnit readies an exhausted instance.
func (g *Game) ReadyUnit(inst *cards.Instance) {
	g.readyInstance(inst)
}

// GrantPeek lets viewer inspect one instance in a hidden zone.
func (g *Game) GrantPeek(viewer *Player, inst *cards.Instance) {
	inst.GrantPeek(viewer.ID)
	evt := rules.NewEvent(rules.EventPeekGranted, inst.ID, inst.ID, viewer.ID)
	evt.PlayerID = viewer.ID
	g.publish(evt)
}

// CanSee resolves visibility of inst for viewerID. Instances outside every
// zone, such as attached upgrades, are visible.
func (g *Game) CanSee(viewerID string, inst *cards.Instance) bool {
	_, z, ok := g.Locate(inst)
	if !ok {
		return true
	}
	return board.CanSee(viewerID, z, inst)
}

// RevealCard shows a card to every player. Revealing the top card of a deck
// keeps it face up until it leaves the top.
func (g *Game) RevealCard(inst *cards.Instance) {
	if owner, z, ok := g.Locate(inst); ok && z.ID == board.ZoneDeck {
		if top, _ := z.Top(); top == inst {
			owner.topDeckRevealed = true
		}
	}
	g.publish(rules.NewEvent(rules.EventCardRevealed, inst.ID, inst.ID, inst.Owner))
	g.logger.Debug("card revealed", zap.String("card", inst.Name()))
}

// RevealTopOfDeck reveals the top card of p's deck, if any.
func (g *Game) RevealTopOfDeck(p *Player) (*cards.Instance, bool) {
	top, ok := p.Zone(board.ZoneDeck).Top()
	if !ok {
		return nil, false
	}
	g.RevealCard(top)
	return top, true
}

// ShuffleDeck randomizes p's deck with the game's seeded source.
func (g *Game) ShuffleDeck(p *Player) {
	p.Zone(board.ZoneDeck).Shuffle(g.rng)
	p.topDeckRevealed = false
	g.publish(rules.NewEvent(rules.EventDeckShuffled, p.ID, "", p.ID))
}

// SearchDeck moves the found cards that are still in p's deck to p's hand.
func (g *Game) SearchDeck(p *Player, found []*cards.Instance) int {
	deck, hand := p.Zone(board.ZoneDeck), p.Zone(board.ZoneHand)
	moved := 0
	for _, inst := range found {
		if g.moveCard(inst, deck, hand) {
			moved++
		}
	}
	return moved
}

// Mulligan shuffles p's hand into the deck and draws the same number of cards.
// Each player may mulligan once.
func (g *Game) Mulligan(p *Player) error {
	if p.mulliganed {
		return fmt.Errorf("%w: %s already took a mulligan", ErrIllegalAction, p.ID)
	}
	hand, deck := p.Zone(board.ZoneHand), p.Zone(board.ZoneDeck)
	n := hand.Len()
	for _, inst := range hand.Cards() {
		g.moveCard(inst, hand, deck)
	}
	g.ShuffleDeck(p)
	g.DrawCards(p, n)
	p.mulliganed = true
	g.publish(rules.NewEventWithAmount(rules.EventMulligan, p.ID, "", p.ID, n))
	return nil
}

// RemoveResource moves one of p's resources to another of p's zones, discard by default.
func (g *Game) RemoveResource(p *Player, inst *cards.Instance, toZone string) error {
	res := p.Zone(board.ZoneResources)
	if inst == nil || !res.Contains(inst) {
		return fmt.Errorf("%w: %s is not among %s's resources", ErrNotInZone, instName(inst), p.ID)
	}
	if toZone == "" {
		toZone = board.ZoneDiscard
	}
	to, ok := board.FindZone(p.Board, toZone)
	if !ok {
		return fmt.Errorf("%w: zone %q not found", ErrNotInZone, toZone)
	}
	g.moveCard(inst, res, to)
	evt := rules.NewEvent(rules.EventResourceRemoved, inst.ID, inst.ID, p.ID)
	evt.Zone = to.ID
	g.publish(evt)
	return nil
}

// PutIntoPlay places a unit from outside the game directly into its arena,
// ready, without entry abilities. Used for setup and scenarios.
func (g *Game) PutIntoPlay(p *Player, tpl *cards.Template) *cards.Instance {
	inst := cards.NewInstance(p.ID, tpl)
	p.Board.ArenaZone(inst.DefaultArena()).Add(inst)
	g.enterPlay(p, inst)
	return inst
}

// AddResource places a ready resource from outside the game.
func (g *Game) AddResource(p *Player, tpl *cards.Template) *cards.Instance {
	inst := cards.NewInstance(p.ID, tpl)
	p.Zone(board.ZoneResources).Add(inst)
	return inst
}

func instName(inst *cards.Instance) string {
	if inst == nil {
		return "<nil>"
	}
	return inst.Name()
}

func targetName(t Target) string {
	if t == nil {
		return "<nil>"
	}
	return t.TargetName()
}

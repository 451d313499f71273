package game

import (
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/deck"
	"github.com/swu-engine/swu-server-go/internal/game/effects"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
	"github.com/swu-engine/swu-server-go/internal/game/watchers"
)

// PriorityHandler is invoked whenever a priority window opens. It may execute
// response actions before returning; the phase proceeds once it returns.
type PriorityHandler func(g *Game, window rules.PriorityWindow)

// TargetChooser picks targets when the engine has to resolve a requirement on
// a player's behalf (forced attacks, triggered abilities).
type TargetChooser func(g *Game, p *Player, req *Requirement, candidates []Target) []Target

// Game aggregates players and board state and exposes the mutation API used by
// the rules engine and hooks. It is not safe for concurrent use.
type Game struct {
	logger *zap.Logger
	opts   Options
	rng    *rand.Rand

	players []*Player
	turns   *rules.TurnManager
	hooks   *HookRegistry
	delayed *effects.Queue
	bus     *rules.EventBus

	triggers  *rules.TriggerManager
	watchers  *rules.WatcherRegistry
	played    *watchers.CardsPlayedWatcher
	attacked  *watchers.AttackedWatcher
	defeated  *watchers.DefeatedWatcher
	keywords  *KeywordRegistry
	abilities *EffectRegistry

	priority    PriorityHandler
	chooser     TargetChooser
	lastWindow  *rules.PriorityWindow
	started     bool
	baseDefeats []string
}

// New creates a game at phase Start of round 1 with the built-in hooks and keywords.
func New(logger *zap.Logger, opts ...Option) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	g := &Game{
		logger:    logger,
		opts:      o,
		rng:       rand.New(rand.NewSource(o.seed())),
		hooks:     DefaultHooks().Clone(),
		delayed:   effects.NewQueue(),
		bus:       rules.NewEventBus(),
		triggers:  rules.NewTriggerManager(),
		watchers:  rules.NewWatcherRegistry(),
		played:    watchers.NewCardsPlayedWatcher(),
		attacked:  watchers.NewAttackedWatcher(),
		defeated:  watchers.NewDefeatedWatcher(),
		keywords:  DefaultKeywords(),
		abilities: NewEffectRegistry(),
		chooser:   firstCandidates,
	}
	g.turns = rules.NewTurnManager(turnDispatcher{g})
	g.watchers.AddWatcher(g.played)
	g.watchers.AddWatcher(g.attacked)
	g.watchers.AddWatcher(g.defeated)
	g.bus.Subscribe(g.watchers.NotifyWatchers)
	g.bus.Subscribe(func(e rules.Event) { g.triggers.Handle(e) })
	return g
}

// Options returns the rules settings in effect.
func (g *Game) Options() Options {
	return g.opts
}

// Logger returns the game's logger.
func (g *Game) Logger() *zap.Logger {
	return g.logger
}

// AddPlayer seats a new player with a fresh board.
func (g *Game) AddPlayer(id, name string) (*Player, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("player id is required")
	}
	if _, exists := g.Player(id); exists {
		return nil, fmt.Errorf("player %s already seated", id)
	}
	if g.started {
		return nil, fmt.Errorf("cannot add player %s after the game started", id)
	}
	p := newPlayer(id, name)
	g.players = append(g.players, p)
	g.turns.AddPlayer(id)
	g.logger.Debug("player added", zap.String("player_id", id), zap.String("name", name))
	return p, nil
}

// Player looks a player up by ID.
func (g *Game) Player(id string) (*Player, bool) {
	for _, p := range g.players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Players returns the players in seat order.
func (g *Game) Players() []*Player {
	return append([]*Player(nil), g.players...)
}

// Opponents returns every other player in seat order.
func (g *Game) Opponents(p *Player) []*Player {
	var out []*Player
	for _, o := range g.players {
		if o.ID != p.ID {
			out = append(out, o)
		}
	}
	return out
}

// SetLeader places a leader instance in the player's Leader zone. A second
// leader is an invariant violation.
func (g *Game) SetLeader(p *Player, tpl *cards.Template) (*cards.Instance, error) {
	if tpl == nil || tpl.Type != cards.TypeLeader {
		return nil, fmt.Errorf("%w: %v is not a leader", ErrInvariant, tpl)
	}
	zone := p.Zone(board.ZoneLeader)
	if zone.Len() > 0 {
		return nil, fmt.Errorf("%w: player %s already has leader %s", ErrInvariant, p.ID, p.Leader().Name())
	}
	inst := cards.NewInstance(p.ID, tpl)
	zone.Add(inst)
	g.logger.Debug("leader set", zap.String("player_id", p.ID), zap.String("leader", tpl.Name))
	return inst, nil
}

// SetBase assigns a base from a template. Templates without health use the
// configured default.
func (g *Game) SetBase(p *Player, tpl *cards.Template) *Base {
	health := g.opts.BaseHealth
	if tpl.Health > 0 {
		health = tpl.Health
	}
	b := NewBase(p.ID, tpl.Name, health)
	b.Template = tpl
	p.Base = b
	return b
}

// SetBaseNamed assigns a base without a template.
func (g *Game) SetBaseNamed(p *Player, name string, health int) *Base {
	if health <= 0 {
		health = g.opts.BaseHealth
	}
	p.Base = NewBase(p.ID, name, health)
	return p.Base
}

// LoadDeck assigns the deck's leader and base and fills the Deck zone.
// The deck is validated first; an invalid deck changes nothing.
func (g *Game) LoadDeck(p *Player, d *deck.Deck) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("deck for %s: %w", p.ID, err)
	}
	if p.Zone(board.ZoneDeck).Len() > 0 {
		return fmt.Errorf("%w: player %s already has a deck", ErrInvariant, p.ID)
	}
	if _, err := g.SetLeader(p, d.Leader()); err != nil {
		return err
	}
	g.SetBase(p, d.Base())
	zone := p.Zone(board.ZoneDeck)
	for _, tpl := range d.Main {
		zone.Add(cards.NewInstance(p.ID, tpl))
	}
	g.logger.Info("deck loaded", zap.String("player_id", p.ID), zap.Int("cards", len(d.Main)))
	return nil
}

// Start checks that every player has exactly one leader and a base, shuffles
// decks and draws opening hands.
func (g *Game) Start() error {
	if g.started {
		return fmt.Errorf("game already started")
	}
	if len(g.players) < 2 {
		return fmt.Errorf("need at least 2 players, have %d", len(g.players))
	}
	for _, p := range g.players {
		if n := p.Zone(board.ZoneLeader).Len(); n != 1 {
			return fmt.Errorf("%w: player %s has %d leaders", ErrInvariant, p.ID, n)
		}
		if p.Base == nil {
			g.SetBaseNamed(p, "Base", g.opts.BaseHealth)
		}
	}
	for _, p := range g.players {
		g.ShuffleDeck(p)
		g.DrawCards(p, g.opts.OpeningHand)
	}
	g.started = true
	g.logger.Info("game started",
		zap.Int("players", len(g.players)),
		zap.String("initiative", g.turns.InitiativePlayer()),
	)
	return nil
}

// Started reports whether Start succeeded.
func (g *Game) Started() bool {
	return g.started
}

// Advance moves to the next phase and returns it.
func (g *Game) Advance() rules.Phase {
	phase := g.turns.Advance()
	evt := rules.NewEvent(rules.EventPhaseChanged, "", "", g.turns.CurrentPlayer())
	evt.Data = phase.String()
	evt.Amount = g.turns.Round()
	g.publish(evt)
	return phase
}

// Phase returns the current phase.
func (g *Game) Phase() rules.Phase {
	return g.turns.CurrentPhase()
}

// SetPhase jumps to a phase without firing hooks.
func (g *Game) SetPhase(phase rules.Phase) {
	g.turns.SetPhase(phase)
}

// Round returns the round number.
func (g *Game) Round() int {
	return g.turns.Round()
}

// CurrentPlayer returns the player whose turn it is.
func (g *Game) CurrentPlayer() *Player {
	p, _ := g.Player(g.turns.CurrentPlayer())
	return p
}

// InitiativePlayer returns the player holding initiative.
func (g *Game) InitiativePlayer() *Player {
	p, _ := g.Player(g.turns.InitiativePlayer())
	return p
}

// RegisterHook adds a hook to this game only.
func (g *Game) RegisterHook(name string, timing rules.Timing, fn HookFunc) error {
	return g.hooks.Register(name, timing, fn)
}

// Hooks exposes the per-game hook registry.
func (g *Game) Hooks() *HookRegistry {
	return g.hooks
}

// Subscribe registers a listener for one event type, or every event when eventType is empty.
func (g *Game) Subscribe(eventType rules.EventType, fn rules.Listener) int {
	if eventType == "" {
		return g.bus.Subscribe(fn)
	}
	return g.bus.SubscribeTyped(eventType, fn)
}

// Unsubscribe removes a listener.
func (g *Game) Unsubscribe(handle int) {
	g.bus.Unsubscribe(handle)
}

// SetPriorityHandler installs the callback run when a priority window opens.
func (g *Game) SetPriorityHandler(h PriorityHandler) {
	g.priority = h
}

// SetTargetChooser replaces the default first-legal-target chooser.
func (g *Game) SetTargetChooser(c TargetChooser) {
	if c == nil {
		c = firstCandidates
	}
	g.chooser = c
}

// LastPriorityWindow returns the most recently opened window.
func (g *Game) LastPriorityWindow() (rules.PriorityWindow, bool) {
	if g.lastWindow == nil {
		return rules.PriorityWindow{}, false
	}
	return *g.lastWindow, true
}

// DefeatedBases lists players whose base reached zero, in the order it happened.
func (g *Game) DefeatedBases() []string {
	return append([]string(nil), g.baseDefeats...)
}

// RegisterDelayedEffect queues fn to run once at timing.
func (g *Game) RegisterDelayedEffect(timing rules.Timing, sourceID, description string, fn func()) string {
	return g.delayed.Register(timing, sourceID, description, fn)
}

// PendingDelayedEffects returns how many delayed effects are queued.
func (g *Game) PendingDelayedEffects() int {
	return g.delayed.Len()
}

// CardsPlayedThisTurn counts the cards p played during the current turn.
func (g *Game) CardsPlayedThisTurn(p *Player) int {
	return g.played.GetCount(p.ID)
}

// AttackedThisRound reports whether u declared an attack this round.
func (g *Game) AttackedThisRound(u *cards.Instance) bool {
	return g.attacked.Attacked(u.ID)
}

// DefeatedThisRound counts p's units defeated this round.
func (g *Game) DefeatedThisRound(p *Player) int {
	return g.defeated.GetCount(p.ID)
}

func (g *Game) publish(evt rules.Event) {
	g.bus.Publish(evt)
}

// owner returns the player owning inst.
func (g *Game) owner(inst *cards.Instance) (*Player, bool) {
	return g.Player(inst.Owner)
}

// Locate finds the player and zone holding inst.
func (g *Game) Locate(inst *cards.Instance) (*Player, *board.Zone, bool) {
	if inst == nil {
		return nil, nil, false
	}
	if p, ok := g.owner(inst); ok {
		if z, ok := p.Board.Locate(inst); ok {
			return p, z, true
		}
	}
	for _, p := range g.players {
		if z, ok := p.Board.Locate(inst); ok {
			return p, z, true
		}
	}
	return nil, nil, false
}

// FindInstance looks an instance up by ID across every board.
func (g *Game) FindInstance(id string) (*cards.Instance, bool) {
	for _, p := range g.players {
		for _, z := range p.Board.Zones() {
			if inst, ok := z.FindByID(id); ok {
				return inst, true
			}
		}
		for _, u := range p.Units() {
			for _, up := range u.Upgrades {
				if up.ID == id {
					return up, true
				}
			}
		}
	}
	return nil, false
}

// moveCard is the single zone-change path. It publishes EventZoneChange.
func (g *Game) moveCard(inst *cards.Instance, from, to *board.Zone) bool {
	if !board.Move(inst, from, to) {
		return false
	}
	if from.ID == board.ZoneDeck {
		g.refreshTopDeckReveal(from.Owner)
	}
	evt := rules.NewEvent(rules.EventZoneChange, inst.ID, inst.ID, inst.Owner)
	evt.FromZone = from.ID
	evt.Zone = to.ID
	evt.Description = fmt.Sprintf("%s moved from %s to %s", inst.Name(), from.ID, to.ID)
	g.publish(evt)
	g.logger.Debug("card moved",
		zap.String("card", inst.Name()),
		zap.String("card_id", inst.ID),
		zap.String("from", from.ID),
		zap.String("to", to.ID),
	)
	return true
}

func (g *Game) refreshTopDeckReveal(playerID string) {
	if p, ok := g.Player(playerID); ok && p.topDeckRevealed {
		p.topDeckRevealed = false
	}
}

func (g *Game) readyInstance(inst *cards.Instance) {
	if inst.Exhausted {
		inst.Ready()
		g.publish(rules.NewEvent(rules.EventUnitReadied, inst.ID, inst.ID, inst.Owner))
	}
}

// turnDispatcher adapts the game to rules.Dispatcher.
type turnDispatcher struct {
	g *Game
}

// Dispatch runs hooks for timing in registration order, then expires the
// delayed effects queued for it, then resets watchers scoped to it.
func (d turnDispatcher) Dispatch(timing rules.Timing, playerID string) {
	g := d.g
	switch timing {
	case rules.TimingStartOfRound:
		g.logger.Info("round started", zap.Int("round", g.turns.Round()), zap.String("initiative", g.turns.InitiativePlayer()))
		g.publish(rules.NewEventWithAmount(rules.EventRoundStarted, "", "", g.turns.InitiativePlayer(), g.turns.Round()))
	case rules.TimingStartOfTurn:
		g.publish(rules.NewEventWithAmount(rules.EventTurnStarted, playerID, "", playerID, g.turns.TurnNumber()))
	}

	for _, h := range g.hooks.ByTiming(timing) {
		g.logger.Debug("hook fired", zap.String("hook", h.Name), zap.String("timing", string(timing)), zap.String("player_id", playerID))
		h.Fn(g, playerID)
		evt := rules.NewEvent(rules.EventHookFired, playerID, "", playerID)
		evt.Data = h.Name
		g.publish(evt)
	}

	for _, e := range g.delayed.Expire(timing) {
		evt := rules.NewEvent(rules.EventEffectExpired, e.SourceID, e.SourceID, playerID)
		evt.Description = e.Description
		g.publish(evt)
	}
	g.watchers.ResetWatchers(timing)

	switch timing {
	case rules.TimingEndOfRound:
		g.publish(rules.NewEventWithAmount(rules.EventRoundEnded, "", "", "", g.turns.Round()))
	case rules.TimingEndOfTurn:
		g.publish(rules.NewEvent(rules.EventTurnEnded, playerID, "", playerID))
	}
}

// OpenPriorityWindow records the window and hands control to the priority handler.
func (d turnDispatcher) OpenPriorityWindow(phase rules.Phase, activePlayer string) {
	g := d.g
	w := rules.NewPriorityWindow(phase, g.turns.Round(), activePlayer, g.turns.Players())
	g.lastWindow = &w
	evt := rules.NewEvent(rules.EventPriorityOpen, activePlayer, "", activePlayer)
	evt.Data = phase.String()
	g.publish(evt)
	if g.priority != nil {
		g.priority(g, w)
	}
}

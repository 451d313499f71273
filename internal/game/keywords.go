package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/counters"
)

// Keyword names handled by the built-in registry.
const (
	KeywordSentinel  = "Sentinel"
	KeywordAmbush    = "Ambush"
	KeywordOverwhelm = "Overwhelm"
	KeywordRestore   = "Restore"
	KeywordShielded  = "Shielded"
	KeywordRaid      = "Raid"
)

// KeywordHandler is the behavior behind one keyword. Handlers opt into the
// hooks they need by implementing the capability interfaces below.
type KeywordHandler interface {
	Keyword() string
}

// AttackRestrictor narrows which defenders are legal for an attack.
type AttackRestrictor interface {
	RestrictAttack(g *Game, attacker *cards.Instance, defender Target, defending *Player) error
}

// EntryHandler runs when an instance carrying the keyword enters play.
type EntryHandler interface {
	OnEnterPlay(g *Game, p *Player, inst *cards.Instance)
}

// ResponsePlayable marks keywords that let a card be played in a priority window.
type ResponsePlayable interface {
	PlayableAsResponse() bool
}

// AttackModifier changes the attacker's power while it attacks.
type AttackModifier interface {
	AttackBonus(g *Game, attacker *cards.Instance, value int) int
}

// AttackHandler runs when the attack is declared, before damage.
type AttackHandler interface {
	OnAttack(g *Game, attacker *cards.Instance, value int)
}

// ExcessDamageHandler receives combat damage beyond what the defending unit could take.
type ExcessDamageHandler interface {
	OnExcessDamage(g *Game, attacker *cards.Instance, defending *Player, excess int)
}

// KeywordRegistry maps keyword names, compared case-insensitively, to handlers.
type KeywordRegistry struct {
	mu       sync.RWMutex
	order    []string
	handlers map[string]KeywordHandler
}

// NewKeywordRegistry creates an empty registry.
func NewKeywordRegistry() *KeywordRegistry {
	return &KeywordRegistry{handlers: make(map[string]KeywordHandler)}
}

// DefaultKeywords returns a registry with every built-in keyword.
func DefaultKeywords() *KeywordRegistry {
	r := NewKeywordRegistry()
	for _, h := range []KeywordHandler{
		sentinelKeyword{},
		ambushKeyword{},
		overwhelmKeyword{},
		restoreKeyword{},
		shieldedKeyword{},
		raidKeyword{},
	} {
		if err := r.Register(h); err != nil {
			panic(err)
		}
	}
	return r
}

func foldKeyword(name string) string {
	return cases.Fold().String(name)
}

// Register adds a handler. Registering a keyword twice is an error.
func (r *KeywordRegistry) Register(h KeywordHandler) error {
	key := foldKeyword(h.Keyword())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[key]; exists {
		return fmt.Errorf("keyword %q already registered", h.Keyword())
	}
	r.handlers[key] = h
	r.order = append(r.order, key)
	return nil
}

// Lookup finds the handler for a keyword name.
func (r *KeywordRegistry) Lookup(name string) (KeywordHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[foldKeyword(name)]
	return h, ok
}

// Handlers returns every handler in registration order.
func (r *KeywordRegistry) Handlers() []KeywordHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]KeywordHandler, len(r.order))
	for i, key := range r.order {
		out[i] = r.handlers[key]
	}
	return out
}

// RegisterKeyword adds a keyword handler to this game.
func (g *Game) RegisterKeyword(h KeywordHandler) error {
	return g.keywords.Register(h)
}

// Keywords exposes the game's keyword registry.
func (g *Game) Keywords() *KeywordRegistry {
	return g.keywords
}

// instanceHandlers returns the handlers for the keywords inst currently has,
// with each keyword's numeric value.
func (g *Game) instanceHandlers(inst *cards.Instance) []keywordBinding {
	var out []keywordBinding
	seen := map[string]bool{}
	for _, kw := range inst.Keywords() {
		name, _ := cards.ParseKeyword(kw)
		key := foldKeyword(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if h, ok := g.keywords.Lookup(name); ok {
			value, _ := inst.KeywordValue(name)
			out = append(out, keywordBinding{handler: h, value: value})
		}
	}
	return out
}

type keywordBinding struct {
	handler KeywordHandler
	value   int
}

// playableAsResponse reports whether any keyword on inst allows response play.
func (g *Game) playableAsResponse(inst *cards.Instance) bool {
	for _, b := range g.instanceHandlers(inst) {
		if rp, ok := b.handler.(ResponsePlayable); ok && rp.PlayableAsResponse() {
			return true
		}
	}
	return false
}

// sentinelKeyword forces attackers to pick a ready Sentinel while the
// defending player controls one.
type sentinelKeyword struct{}

func (sentinelKeyword) Keyword() string { return KeywordSentinel }

func (sentinelKeyword) RestrictAttack(_ *Game, _ *cards.Instance, defender Target, defending *Player) error {
	guarded := false
	for _, u := range defending.Units() {
		if u.IsReady() && u.HasKeyword(KeywordSentinel) {
			guarded = true
			break
		}
	}
	if !guarded {
		return nil
	}
	if inst, ok := asInstance(defender); ok && inst.HasKeyword(KeywordSentinel) {
		return nil
	}
	return fmt.Errorf("%w: %s must attack a Sentinel first", ErrIllegalAttack, defending.ID)
}

// ambushKeyword allows response play and attacks as soon as the unit enters play.
type ambushKeyword struct{}

func (ambushKeyword) Keyword() string          { return KeywordAmbush }
func (ambushKeyword) PlayableAsResponse() bool { return true }

func (ambushKeyword) OnEnterPlay(g *Game, p *Player, inst *cards.Instance) {
	if !inst.IsUnit() {
		return
	}
	action := g.attackAction(p, inst, false)
	targets, ok := g.AutoTargets(action)
	if !ok {
		g.logger.Debug("ambush has no legal defender", zap.String("card", inst.Name()))
		return
	}
	if err := g.Execute(action, targets); err != nil {
		g.logger.Warn("ambush attack failed", zap.String("card", inst.Name()), zap.Error(err))
	}
}

// overwhelmKeyword carries excess combat damage to the defending base.
type overwhelmKeyword struct{}

func (overwhelmKeyword) Keyword() string { return KeywordOverwhelm }

func (overwhelmKeyword) OnExcessDamage(g *Game, attacker *cards.Instance, defending *Player, excess int) {
	if defending.Base != nil && excess > 0 {
		g.damageBase(attacker.ID, defending.Base, excess)
	}
}

// restoreKeyword heals the attacker's base when it attacks.
type restoreKeyword struct{}

func (restoreKeyword) Keyword() string { return KeywordRestore }

func (restoreKeyword) OnAttack(g *Game, attacker *cards.Instance, value int) {
	if p, ok := g.owner(attacker); ok {
		g.HealBase(p, value)
	}
}

// shieldedKeyword gives the unit a Shield when it enters play.
type shieldedKeyword struct{}

func (shieldedKeyword) Keyword() string { return KeywordShielded }

func (shieldedKeyword) OnEnterPlay(g *Game, _ *Player, inst *cards.Instance) {
	g.GiveCounter(inst, counters.CounterShield, 1)
}

// raidKeyword adds its value to the attacker's power.
type raidKeyword struct{}

func (raidKeyword) Keyword() string { return KeywordRaid }

func (raidKeyword) AttackBonus(_ *Game, _ *cards.Instance, value int) int {
	return value
}

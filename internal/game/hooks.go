package game

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/resources"
	"github.com/swu-engine/swu-server-go/internal/game/rules"
)

// HookFunc runs at a timing boundary. playerID is the player whose turn is
// starting or ending, and empty for round timings.
type HookFunc func(g *Game, playerID string)

// Hook is a named callback tagged with exactly one timing.
type Hook struct {
	Name   string
	Timing rules.Timing
	Fn     HookFunc
}

// HookRegistry stores hooks in registration order.
type HookRegistry struct {
	mu    sync.RWMutex
	hooks []Hook
}

// NewHookRegistry creates an empty registry.
func NewHookRegistry() *HookRegistry {
	return &HookRegistry{}
}

// Register adds a hook. Names must be unique within the registry.
func (r *HookRegistry) Register(name string, timing rules.Timing, fn HookFunc) error {
	if fn == nil {
		return fmt.Errorf("hook %q has no function", name)
	}
	if _, err := rules.ParseTiming(string(timing)); err != nil {
		return fmt.Errorf("hook %q: %w", name, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.hooks {
		if h.Name == name {
			return fmt.Errorf("hook %q already registered", name)
		}
	}
	r.hooks = append(r.hooks, Hook{Name: name, Timing: timing, Fn: fn})
	return nil
}

// Unregister removes a hook by name.
func (r *HookRegistry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range r.hooks {
		if h.Name == name {
			r.hooks = append(r.hooks[:i], r.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// ByTiming returns the hooks for timing in registration order.
func (r *HookRegistry) ByTiming(timing rules.Timing) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Hook
	for _, h := range r.hooks {
		if h.Timing == timing {
			out = append(out, h)
		}
	}
	return out
}

// Names returns every hook name in registration order.
func (r *HookRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.hooks))
	for i, h := range r.hooks {
		out[i] = h.Name
	}
	return out
}

// Clone copies the registry so per-game registrations stay local to that game.
func (r *HookRegistry) Clone() *HookRegistry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &HookRegistry{hooks: append([]Hook(nil), r.hooks...)}
}

var (
	defaultHooks     *HookRegistry
	defaultHooksOnce sync.Once
)

// DefaultHooks returns the process-wide registry, registering the built-in
// rules on first use. Games copy it when they are created.
func DefaultHooks() *HookRegistry {
	defaultHooksOnce.Do(func() {
		defaultHooks = NewHookRegistry()
		registerBuiltinHooks(defaultHooks)
	})
	return defaultHooks
}

// RegisterHook adds a hook to the process-wide registry. Games created
// afterwards pick it up.
func RegisterHook(name string, timing rules.Timing, fn HookFunc) error {
	return DefaultHooks().Register(name, timing, fn)
}

func registerBuiltinHooks(r *HookRegistry) {
	builtins := []Hook{
		{"refresh_resources", rules.TimingStartOfRound, refreshResources},
		{"ready_all_units", rules.TimingStartOfRound, readyAllUnits},
		{"ready_leaders", rules.TimingStartOfRound, readyLeaders},
		{"draw_at_start_of_turn", rules.TimingStartOfTurn, drawAtStartOfTurn},
		{"enforce_hand_limit", rules.TimingEndOfTurn, enforceHandLimit},
	}
	for _, h := range builtins {
		if err := r.Register(h.Name, h.Timing, h.Fn); err != nil {
			panic(err)
		}
	}
}

func refreshResources(g *Game, _ string) {
	for _, p := range g.players {
		if n := resources.Refresh(p.Resources()); n > 0 {
			g.publish(rules.NewEventWithAmount(rules.EventResourcesRefresh, p.ID, "", p.ID, n))
		}
	}
}

func readyAllUnits(g *Game, _ string) {
	for _, p := range g.players {
		for _, u := range p.Units() {
			g.readyInstance(u)
		}
	}
}

func readyLeaders(g *Game, _ string) {
	for _, p := range g.players {
		for _, l := range p.Zone(board.ZoneLeader).Cards() {
			g.readyInstance(l)
		}
	}
}

func drawAtStartOfTurn(g *Game, playerID string) {
	if p, ok := g.Player(playerID); ok {
		g.DrawCards(p, g.opts.DrawPerTurn)
	}
}

// enforceHandLimit applies to every player, discarding from the front of the hand.
func enforceHandLimit(g *Game, _ string) {
	for _, p := range g.players {
		for p.Zone(board.ZoneHand).Len() > g.opts.HandLimit {
			first, _ := p.Zone(board.ZoneHand).Top()
			if err := g.Discard(p, first); err != nil {
				g.logger.Warn("hand limit discard failed", zap.String("player_id", p.ID), zap.Error(err))
				break
			}
		}
	}
}

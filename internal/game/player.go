package game

import (
	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
	"github.com/swu-engine/swu-server-go/internal/game/resources"
)

// Base is a player's health pool. Health never exceeds MaxHealth and is floored at 0.
type Base struct {
	Name      string
	Owner     string
	Template  *cards.Template
	MaxHealth int
	Health    int
}

// NewBase creates a base at full health.
func NewBase(owner, name string, maxHealth int) *Base {
	return &Base{Name: name, Owner: owner, MaxHealth: maxHealth, Health: maxHealth}
}

// TakeDamage reduces health, floored at zero, and returns the damage actually taken.
func (b *Base) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	taken := min(amount, b.Health)
	b.Health -= taken
	return taken
}

// Heal restores health up to MaxHealth and returns the amount healed.
func (b *Base) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	healed := min(amount, b.MaxHealth-b.Health)
	b.Health += healed
	return healed
}

// Damage is the missing health.
func (b *Base) Damage() int {
	return b.MaxHealth - b.Health
}

// Defeated reports whether the base has no health left.
func (b *Base) Defeated() bool {
	return b.Health <= 0
}

// TargetID identifies the base in target selections.
func (b *Base) TargetID() string {
	return "base:" + b.Owner
}

// TargetName names the base in target selections.
func (b *Base) TargetName() string {
	return b.Name
}

// Player is a seat at the table. Every card list is read straight from the
// board, so there is no second copy of zone contents to keep in sync.
type Player struct {
	ID    string
	Name  string
	Board *board.Board
	Base  *Base

	mulliganed      bool
	topDeckRevealed bool
	resourcedTurn   int
}

func newPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name, Board: board.NewStandard(id)}
}

// TargetID identifies the player in target selections.
func (p *Player) TargetID() string {
	return p.ID
}

// TargetName names the player in target selections.
func (p *Player) TargetName() string {
	return p.Name
}

// Zone returns the named zone of the player's board.
func (p *Player) Zone(name string) *board.Zone {
	return p.Board.MustZone(name)
}

func (p *Player) Hand() []*cards.Instance      { return p.Zone(board.ZoneHand).Cards() }
func (p *Player) Deck() []*cards.Instance      { return p.Zone(board.ZoneDeck).Cards() }
func (p *Player) Discard() []*cards.Instance   { return p.Zone(board.ZoneDiscard).Cards() }
func (p *Player) Exile() []*cards.Instance     { return p.Zone(board.ZoneExile).Cards() }
func (p *Player) Resources() []*cards.Instance { return p.Zone(board.ZoneResources).Cards() }

// Leader returns the instance in the Leader zone.
func (p *Player) Leader() *cards.Instance {
	top, _ := p.Zone(board.ZoneLeader).Top()
	return top
}

// Aspects lists the aspect icons of the leader and base templates.
func (p *Player) Aspects() []string {
	var out []string
	if l := p.Leader(); l != nil && l.Template != nil {
		out = append(out, l.Template.Aspects...)
	}
	if p.Base != nil && p.Base.Template != nil {
		out = append(out, p.Base.Template.Aspects...)
	}
	return out
}

// Units returns every unit in both arenas, ground first.
func (p *Player) Units() []*cards.Instance {
	var out []*cards.Instance
	for _, name := range []string{board.ZoneGroundArena, board.ZoneSpaceArena} {
		for _, c := range p.Zone(name).Cards() {
			if c.IsUnit() {
				out = append(out, c)
			}
		}
	}
	return out
}

// ReadyResources counts resources that can pay costs.
func (p *Player) ReadyResources() int {
	return resources.CountReady(p.Resources())
}

// TopDeckRevealed reports whether the top card of the deck is face up.
func (p *Player) TopDeckRevealed() bool {
	return p.topDeckRevealed
}

// Mulliganed reports whether the player already took their mulligan.
func (p *Player) Mulliganed() bool {
	return p.mulliganed
}

// arenaOf returns the arena zone holding inst, if any.
func (p *Player) arenaOf(inst *cards.Instance) (*board.Zone, bool) {
	z, ok := p.Board.Locate(inst)
	if !ok || !board.IsArena(z.ID) {
		return nil, false
	}
	return z, true
}

package board

import (
	"fmt"
	"math/rand"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
)

// Visibility classifies who may inspect a zone's contents.
type Visibility int

const (
	// VisibilityPublic zones are visible to every viewer.
	VisibilityPublic Visibility = iota
	// VisibilityOwnerOnly zones are visible to their owner; others see a count.
	VisibilityOwnerOnly
	// VisibilityHidden zones are visible to nobody except per-instance peek grants.
	VisibilityHidden
)

var visibilityNames = map[Visibility]string{
	VisibilityPublic:    "public",
	VisibilityOwnerOnly: "owner-only",
	VisibilityHidden:    "fully-hidden",
}

func (v Visibility) String() string {
	if name, ok := visibilityNames[v]; ok {
		return name
	}
	return fmt.Sprintf("VISIBILITY_%d", int(v))
}

// Standard zone names.
const (
	ZoneLeader      = "Leader"
	ZoneHand        = "Hand"
	ZoneDeck        = "Deck"
	ZoneDiscard     = "Discard"
	ZoneExile       = "Exile"
	ZoneResources   = "Resources"
	ZoneGroundArena = string(cards.ArenaGround)
	ZoneSpaceArena  = string(cards.ArenaSpace)
)

// IsArena reports whether name is one of the two arena zones.
func IsArena(name string) bool {
	return name == ZoneGroundArena || name == ZoneSpaceArena
}

// Pile is an ordered sequence of card instances. Index 0 is the top.
type Pile struct {
	ID    string
	Cards []*cards.Instance
}

// Len returns the number of instances in the pile.
func (p *Pile) Len() int {
	return len(p.Cards)
}

func (p *Pile) indexOf(inst *cards.Instance) int {
	for i, c := range p.Cards {
		if c == inst {
			return i
		}
	}
	return -1
}

func (p *Pile) remove(inst *cards.Instance) bool {
	idx := p.indexOf(inst)
	if idx < 0 {
		return false
	}
	p.Cards = append(p.Cards[:idx], p.Cards[idx+1:]...)
	return true
}

// Zone is a named, visibility-tagged container of piles owned by one player.
type Zone struct {
	ID         string
	Owner      string
	Visibility Visibility
	Piles      []*Pile
}

// NewZone creates an empty zone.
func NewZone(id, owner string, visibility Visibility) *Zone {
	return &Zone{ID: id, Owner: owner, Visibility: visibility}
}

// EffectiveVisibility applies the arena override: arenas are always public.
func (z *Zone) EffectiveVisibility() Visibility {
	if IsArena(z.ID) {
		return VisibilityPublic
	}
	return z.Visibility
}

// Cards returns every instance in pile order. The slice is a copy.
func (z *Zone) Cards() []*cards.Instance {
	out := make([]*cards.Instance, 0, z.Len())
	for _, p := range z.Piles {
		out = append(out, p.Cards...)
	}
	return out
}

// Len returns the number of instances across all piles.
func (z *Zone) Len() int {
	n := 0
	for _, p := range z.Piles {
		n += p.Len()
	}
	return n
}

// Top returns the first instance of the first non-empty pile.
func (z *Zone) Top() (*cards.Instance, bool) {
	for _, p := range z.Piles {
		if p.Len() > 0 {
			return p.Cards[0], true
		}
	}
	return nil, false
}

// Contains reports whether inst is held by any pile of the zone.
func (z *Zone) Contains(inst *cards.Instance) bool {
	for _, p := range z.Piles {
		if p.indexOf(inst) >= 0 {
			return true
		}
	}
	return false
}

// FindByID locates an instance by its ID.
func (z *Zone) FindByID(id string) (*cards.Instance, bool) {
	for _, p := range z.Piles {
		for _, c := range p.Cards {
			if c.ID == id {
				return c, true
			}
		}
	}
	return nil, false
}

// firstPile returns the first pile, creating "<zone>_pile" when none exists.
func (z *Zone) firstPile() *Pile {
	if len(z.Piles) == 0 {
		z.Piles = append(z.Piles, &Pile{ID: z.ID + "_pile"})
	}
	return z.Piles[0]
}

// Add appends inst to the bottom of the first pile.
func (z *Zone) Add(inst *cards.Instance) {
	p := z.firstPile()
	p.Cards = append(p.Cards, inst)
}

// AddTop inserts inst at the top of the first pile.
func (z *Zone) AddTop(inst *cards.Instance) {
	p := z.firstPile()
	p.Cards = append([]*cards.Instance{inst}, p.Cards...)
}

// Remove takes inst out of whichever pile holds it.
func (z *Zone) Remove(inst *cards.Instance) bool {
	for _, p := range z.Piles {
		if p.remove(inst) {
			return true
		}
	}
	return false
}

// Shuffle randomizes the order within each pile.
func (z *Zone) Shuffle(rng *rand.Rand) {
	for _, p := range z.Piles {
		rng.Shuffle(len(p.Cards), func(i, j int) {
			p.Cards[i], p.Cards[j] = p.Cards[j], p.Cards[i]
		})
	}
}

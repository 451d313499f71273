package board

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
)

// Board holds every zone belonging to one player, in creation order.
type Board struct {
	Owner string
	zones []*Zone
}

// New creates a board seeded with an empty Leader zone.
func New(owner string) *Board {
	b := &Board{Owner: owner}
	b.AddZone(ZoneLeader, VisibilityPublic)
	return b
}

// NewStandard creates a board with every zone a player needs during a game.
func NewStandard(owner string) *Board {
	b := New(owner)
	b.AddZone(ZoneHand, VisibilityOwnerOnly)
	b.AddZone(ZoneDeck, VisibilityHidden)
	b.AddZone(ZoneDiscard, VisibilityPublic)
	b.AddZone(ZoneExile, VisibilityPublic)
	b.AddZone(ZoneResources, VisibilityHidden)
	b.AddZone(ZoneGroundArena, VisibilityPublic)
	b.AddZone(ZoneSpaceArena, VisibilityPublic)
	return b
}

// AddZone creates a zone, or returns the existing one when the name is taken.
func (b *Board) AddZone(id string, visibility Visibility) *Zone {
	if z, ok := FindZone(b, id); ok {
		return z
	}
	z := NewZone(id, b.Owner, visibility)
	b.zones = append(b.zones, z)
	return z
}

// Zones returns the zones in creation order.
func (b *Board) Zones() []*Zone {
	return append([]*Zone(nil), b.zones...)
}

// Zone is shorthand for FindZone(b, name).
func (b *Board) Zone(name string) (*Zone, bool) {
	return FindZone(b, name)
}

// MustZone returns the named zone or an empty detached zone when absent,
// so read-only callers never need a nil check.
func (b *Board) MustZone(name string) *Zone {
	if z, ok := FindZone(b, name); ok {
		return z
	}
	return NewZone(name, b.Owner, VisibilityPublic)
}

// Locate finds the zone currently holding inst.
func (b *Board) Locate(inst *cards.Instance) (*Zone, bool) {
	for _, z := range b.zones {
		if z.Contains(inst) {
			return z, true
		}
	}
	return nil, false
}

// ArenaZone returns the zone for a canonical arena.
func (b *Board) ArenaZone(a cards.Arena) *Zone {
	return b.AddZone(string(a), VisibilityPublic)
}

// FindZone looks a zone up by name, ignoring case. Absence is not an error.
func FindZone(b *Board, name string) (*Zone, bool) {
	if b == nil {
		return nil, false
	}
	fold := cases.Fold()
	key := fold.String(strings.TrimSpace(name))
	for _, z := range b.zones {
		if fold.String(z.ID) == key {
			return z, true
		}
	}
	return nil, false
}

// Move takes inst out of from and appends it to the first pile of to.
// Returns false without touching either zone when inst is not in from.
func Move(inst *cards.Instance, from, to *Zone) bool {
	if inst == nil || from == nil || to == nil {
		return false
	}
	if !from.Remove(inst) {
		return false
	}
	to.Add(inst)
	return true
}

// CanSee resolves visibility of inst inside z for viewer.
func CanSee(viewer string, z *Zone, inst *cards.Instance) bool {
	switch z.EffectiveVisibility() {
	case VisibilityPublic:
		return true
	case VisibilityOwnerOnly:
		return viewer == z.Owner
	default:
		return inst != nil && inst.CanPeek(viewer)
	}
}

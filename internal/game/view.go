package game

import (
	"fmt"
	"strings"

	"github.com/swu-engine/swu-server-go/internal/game/board"
	"github.com/swu-engine/swu-server-go/internal/game/cards"
)

// CardView is what a viewer can see of one instance.
type CardView struct {
	ID        string
	Name      string
	Type      cards.Type
	Attack    int
	Health    int
	Damage    int
	Exhausted bool
	Keywords  []string
	Counters  map[string]int
	Upgrades  []CardView
}

// ZoneView lists the visible cards of a zone. Hidden counts the cards the
// viewer may not inspect.
type ZoneView struct {
	Name       string
	Visibility board.Visibility
	Cards      []CardView
	Hidden     int
}

// Total is the number of cards in the zone.
func (z ZoneView) Total() int {
	return len(z.Cards) + z.Hidden
}

// BaseView is a base's health pool.
type BaseView struct {
	Name      string
	Health    int
	MaxHealth int
}

// PlayerView is one player's board as seen by a viewer.
type PlayerView struct {
	ID     string
	Name   string
	Base   *BaseView
	Leader *CardView
	Zones  []ZoneView
}

// Zone returns the view of the named zone.
func (p PlayerView) Zone(name string) (ZoneView, bool) {
	for _, z := range p.Zones {
		if strings.EqualFold(z.Name, name) {
			return z, true
		}
	}
	return ZoneView{}, false
}

// BoardView is the whole table from one viewer's seat.
type BoardView struct {
	Viewer     string
	Round      int
	Phase      string
	Current    string
	Initiative string
	Players    []PlayerView
}

// View returns every player's zones as visible to viewerID.
func (g *Game) View(viewerID string) BoardView {
	v := BoardView{
		Viewer:     viewerID,
		Round:      g.turns.Round(),
		Phase:      g.Phase().String(),
		Current:    g.turns.CurrentPlayer(),
		Initiative: g.turns.InitiativePlayer(),
	}
	for _, p := range g.players {
		v.Players = append(v.Players, g.playerView(viewerID, p))
	}
	return v
}

func (g *Game) playerView(viewerID string, p *Player) PlayerView {
	pv := PlayerView{ID: p.ID, Name: p.Name}
	if p.Base != nil {
		pv.Base = &BaseView{Name: p.Base.Name, Health: p.Base.Health, MaxHealth: p.Base.MaxHealth}
	}
	if l := p.Leader(); l != nil {
		cv := cardView(l)
		pv.Leader = &cv
	}
	for _, z := range p.Board.Zones() {
		zv := ZoneView{Name: z.ID, Visibility: z.EffectiveVisibility()}
		for i, inst := range z.Cards() {
			visible := board.CanSee(viewerID, z, inst)
			if z.ID == board.ZoneDeck && i == 0 && p.topDeckRevealed {
				visible = true
			}
			if visible {
				zv.Cards = append(zv.Cards, cardView(inst))
			} else {
				zv.Hidden++
			}
		}
		pv.Zones = append(pv.Zones, zv)
	}
	return pv
}

func cardView(inst *cards.Instance) CardView {
	cv := CardView{
		ID:        inst.ID,
		Name:      inst.Name(),
		Type:      inst.Type(),
		Attack:    inst.DisplayAttack(),
		Health:    inst.DisplayHealth(),
		Damage:    inst.Damage,
		Exhausted: inst.Exhausted,
		Keywords:  inst.Keywords(),
	}
	if names := inst.Counters.Names(); len(names) > 0 {
		cv.Counters = make(map[string]int, len(names))
		for _, n := range names {
			cv.Counters[n] = inst.Counters.GetCount(n)
		}
	}
	for _, up := range inst.Upgrades {
		cv.Upgrades = append(cv.Upgrades, cardView(up))
	}
	return cv
}

// Format renders the board for viewerID as plain text.
func (g *Game) Format(viewerID string) string {
	v := g.View(viewerID)
	var sb strings.Builder
	sb.WriteString("=== Board State ===\n")
	if holder, ok := g.Player(v.Initiative); ok {
		fmt.Fprintf(&sb, "Round %d - Initiative: %s - Phase: %s\n", v.Round, holder.Name, v.Phase)
	}
	for _, p := range v.Players {
		fmt.Fprintf(&sb, "\n%s:\n", p.Name)
		if p.Base != nil {
			fmt.Fprintf(&sb, "  Base: %s (HP %d/%d, DMG %d)\n", p.Base.Name, p.Base.Health, p.Base.MaxHealth, p.Base.MaxHealth-p.Base.Health)
		} else {
			sb.WriteString("  Base: None\n")
		}
		if p.Leader != nil {
			fmt.Fprintf(&sb, "  Leader: %s\n", formatUnit(*p.Leader))
		} else {
			sb.WriteString("  Leader: (none)\n")
		}
		for _, z := range p.Zones {
			if z.Name == board.ZoneLeader {
				continue
			}
			formatZone(&sb, z)
		}
	}
	return sb.String()
}

func formatZone(sb *strings.Builder, z ZoneView) {
	if board.IsArena(z.Name) {
		fmt.Fprintf(sb, "  %s:\n", z.Name)
		if len(z.Cards) == 0 {
			sb.WriteString("    (empty)\n")
		}
		for _, c := range z.Cards {
			fmt.Fprintf(sb, "    - %s\n", formatUnit(c))
		}
		return
	}
	switch {
	case z.Total() == 0:
		fmt.Fprintf(sb, "  %s: (empty)\n", z.Name)
	case len(z.Cards) == 0:
		fmt.Fprintf(sb, "  %s: %d cards (hidden)\n", z.Name, z.Hidden)
	default:
		fmt.Fprintf(sb, "  %s:\n", z.Name)
		for _, c := range z.Cards {
			fmt.Fprintf(sb, "    - %s\n", c.Name)
		}
		if z.Hidden > 0 {
			fmt.Fprintf(sb, "    + %d hidden\n", z.Hidden)
		}
	}
}

func formatUnit(c CardView) string {
	status := "Ready"
	if c.Exhausted {
		status = "Exhausted"
	}
	s := fmt.Sprintf("%s (ATK %d, HP %d, DMG %d) [%s]", c.Name, c.Attack, c.Health, c.Damage, status)
	if len(c.Keywords) > 0 {
		s += " Keywords: " + strings.Join(c.Keywords, ", ")
	}
	for _, up := range c.Upgrades {
		s += " +" + up.Name
	}
	return s
}

package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
)

// Checksum returns a SHA-256 over a canonical rendering of the game state.
// Instance IDs are included, timestamps and event history are not, so two
// calls with no mutation in between always agree.
func (g *Game) Checksum() string {
	sum := sha256.Sum256([]byte(g.canonicalState()))
	return hex.EncodeToString(sum[:])
}

func (g *Game) canonicalState() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "GAME:%d|%d|%s|%s|%s\n",
		g.turns.Round(),
		g.turns.TurnNumber(),
		g.Phase(),
		g.turns.CurrentPlayer(),
		g.turns.InitiativePlayer(),
	)

	for _, p := range g.players {
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%t|%t|%d\n", p.ID, p.Name, p.mulliganed, p.topDeckRevealed, p.resourcedTurn)
		if p.Base != nil {
			fmt.Fprintf(&buf, "BASE:%s|%d/%d\n", p.Base.Name, p.Base.Health, p.Base.MaxHealth)
		}
		for _, z := range p.Board.Zones() {
			fmt.Fprintf(&buf, "ZONE:%s|%s|%d\n", z.ID, z.Visibility, z.Len())
			for _, inst := range z.Cards() {
				writeInstance(&buf, inst, "  ")
			}
		}
	}

	pending := g.delayed.Len()
	fmt.Fprintf(&buf, "DELAYED:%d\nTRIGGERS:%d\nDEFEATED:%s\n", pending, g.triggers.Len(), strings.Join(g.baseDefeats, ","))
	return buf.String()
}

func writeInstance(buf *bytes.Buffer, inst *cards.Instance, indent string) {
	temp := inst.TempKeywords()
	sort.Strings(temp)
	peekers := inst.Peekers()
	counterParts := make([]string, 0)
	for _, name := range inst.Counters.Names() {
		counterParts = append(counterParts, fmt.Sprintf("%s=%d", name, inst.Counters.GetCount(name)))
	}
	fmt.Fprintf(buf, "%sCARD:%s|%s|%s|%d|%d|%d|%t|%s|%s|%s\n",
		indent,
		inst.ID,
		inst.Name(),
		inst.Owner,
		inst.Damage,
		inst.AttackMod,
		inst.HealthMod,
		inst.Exhausted,
		strings.Join(temp, ","),
		strings.Join(peekers, ","),
		strings.Join(counterParts, ","),
	)
	for _, up := range inst.Upgrades {
		writeInstance(buf, up, indent+"  ")
	}
}

package rules

import (
	"time"

	"github.com/google/uuid"
)

// PriorityWindow is a logical suspension point where players other than the
// active one may respond before the phase proceeds.
type PriorityWindow struct {
	ID           string
	Phase        Phase
	Round        int
	ActivePlayer string
	Responders   []string // seat order starting after the active player
	OpenedAt     time.Time
}

// NewPriorityWindow builds a window for phase with responders taken from seats.
func NewPriorityWindow(phase Phase, round int, active string, seats []string) PriorityWindow {
	w := PriorityWindow{
		ID:           uuid.NewString(),
		Phase:        phase,
		Round:        round,
		ActivePlayer: active,
		OpenedAt:     time.Now(),
	}
	start := 0
	for i, s := range seats {
		if s == active {
			start = i
			break
		}
	}
	for i := 1; i < len(seats); i++ {
		w.Responders = append(w.Responders, seats[(start+i)%len(seats)])
	}
	return w
}

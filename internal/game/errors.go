package game

import (
	"errors"
	"fmt"

	"github.com/swu-engine/swu-server-go/internal/game/resources"
)

var (
	// ErrIllegalAction is wrapped by every precondition violation. State is
	// never mutated when an action fails with it.
	ErrIllegalAction = errors.New("illegal action")

	ErrRequirementUnmet = fmt.Errorf("%w: requirement unmet", ErrIllegalAction)
	ErrIllegalAttack    = fmt.Errorf("%w: illegal attack", ErrIllegalAction)
	ErrWrongPlayer      = fmt.Errorf("%w: not this player's action", ErrIllegalAction)
	ErrWrongPhase       = fmt.Errorf("%w: not allowed in this phase", ErrIllegalAction)
	ErrNotInZone        = fmt.Errorf("%w: card is not where the action expects it", ErrIllegalAction)

	// ErrInvariant reports an operation that would break a board invariant.
	ErrInvariant = errors.New("invariant violation")

	// ErrInsufficientResources is resources.ErrInsufficientResources.
	ErrInsufficientResources = resources.ErrInsufficientResources

	// ErrNotImplemented marks recognised but unsupported rules. It is not an ErrIllegalAction.
	ErrNotImplemented = resources.ErrNotImplemented
)

// illegal wraps cause so it matches both ErrIllegalAction and cause.
// Invariant violations and unsupported rules pass through unchanged.
func illegal(cause error) error {
	if errors.Is(cause, ErrIllegalAction) || errors.Is(cause, ErrInvariant) || errors.Is(cause, ErrNotImplemented) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrIllegalAction, cause)
}

package targeting

import (
	"errors"
	"fmt"
)

// TargetType describes what kind of object a requirement accepts.
type TargetType string

const (
	// TargetTypeUnit targets units in an arena
	TargetTypeUnit TargetType = "UNIT"
	// TargetTypeBase targets a player's base
	TargetTypeBase TargetType = "BASE"
	// TargetTypeAttackable targets a unit or a base
	TargetTypeAttackable TargetType = "UNIT_OR_BASE"
	// TargetTypePlayer targets players
	TargetTypePlayer TargetType = "PLAYER"
	// TargetTypeCard targets a card instance in any zone
	TargetTypeCard TargetType = "CARD"
)

// Target is anything a requirement can be satisfied by.
type Target interface {
	TargetID() string
	TargetName() string
}

// ErrInvalidSelection is wrapped by every selection validation failure.
var ErrInvalidSelection = errors.New("invalid target selection")

// TargetRequirement defines how many targets of which kind an action needs.
type TargetRequirement struct {
	// Key identifies the requirement inside an action's target map
	Key string
	// Type specifies what kind of target is required
	Type TargetType
	// MinTargets is the minimum number of targets required
	MinTargets int
	// MaxTargets is the maximum number of targets allowed
	MaxTargets int
	// Description is a human-readable description of the target requirement
	Description string
}

// TargetSelection represents a player's target selection for one requirement.
type TargetSelection struct {
	Targets     []Target
	Requirement TargetRequirement
}

// IsComplete checks if the target count fits the requirement.
func (ts *TargetSelection) IsComplete() bool {
	if ts == nil {
		return false
	}
	count := len(ts.Targets)
	return count >= ts.Requirement.MinTargets && count <= ts.Requirement.MaxTargets
}

// Validate checks target count and rejects duplicate or nil targets.
func (ts *TargetSelection) Validate() error {
	if ts == nil {
		return fmt.Errorf("%w: target selection is nil", ErrInvalidSelection)
	}
	count := len(ts.Targets)
	if count < ts.Requirement.MinTargets {
		return fmt.Errorf("%w: not enough targets for %q: need at least %d, got %d",
			ErrInvalidSelection, ts.Requirement.Key, ts.Requirement.MinTargets, count)
	}
	if count > ts.Requirement.MaxTargets {
		return fmt.Errorf("%w: too many targets for %q: need at most %d, got %d",
			ErrInvalidSelection, ts.Requirement.Key, ts.Requirement.MaxTargets, count)
	}
	seen := make(map[string]bool, count)
	for _, t := range ts.Targets {
		if t == nil {
			return fmt.Errorf("%w: nil target for %q", ErrInvalidSelection, ts.Requirement.Key)
		}
		if seen[t.TargetID()] {
			return fmt.Errorf("%w: duplicate target: %s", ErrInvalidSelection, t.TargetName())
		}
		seen[t.TargetID()] = true
	}
	return nil
}

// ValidateEach runs check against every selected target and reports the first rejection.
func (ts *TargetSelection) ValidateEach(check func(Target) bool) error {
	if err := ts.Validate(); err != nil {
		return err
	}
	for _, t := range ts.Targets {
		if !check(t) {
			return fmt.Errorf("%w: %s is not a legal target for %q",
				ErrInvalidSelection, t.TargetName(), ts.Requirement.Description)
		}
	}
	return nil
}

package cards

import (
	"fmt"
	"strings"
)

// Type is the printed card type.
type Type string

const (
	TypeUnit     Type = "unit"
	TypeEvent    Type = "event"
	TypeUpgrade  Type = "upgrade"
	TypeResource Type = "resource"
	TypeLeader   Type = "leader"
	TypeBase     Type = "base"
	TypeToken    Type = "token"
)

var typeNames = map[string]Type{
	"unit":     TypeUnit,
	"event":    TypeEvent,
	"upgrade":  TypeUpgrade,
	"resource": TypeResource,
	"leader":   TypeLeader,
	"base":     TypeBase,
	"token":    TypeToken,
}

// ParseType converts a catalog type column ("Unit", "token unit", ...) into a Type.
func ParseType(raw string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if t, ok := typeNames[key]; ok {
		return t, nil
	}
	if strings.HasPrefix(key, "token") {
		return TypeToken, nil
	}
	return "", fmt.Errorf("unknown card type %q", raw)
}

// Arena is one of the two shared battlefields.
type Arena string

const (
	ArenaGround Arena = "Ground Arena"
	ArenaSpace  Arena = "Space Arena"
)

// NormalizeArena maps loose arena spellings ("ground", "Space", "space arena") onto
// the two canonical arena names. Anything that is not recognisably space is ground.
func NormalizeArena(raw string) Arena {
	if strings.Contains(strings.ToLower(raw), "space") {
		return ArenaSpace
	}
	return ArenaGround
}

// NormalizeArenas normalizes a list of arena names, dropping blanks and duplicates.
func NormalizeArenas(raw []string) []Arena {
	out := make([]Arena, 0, len(raw))
	seen := make(map[Arena]bool, 2)
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		a := NormalizeArena(r)
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

// Template is the immutable printed definition of a card.
type Template struct {
	ID        string
	Set       string
	Number    string
	Name      string
	Type      Type
	Subtype   string
	Cost      int
	Attack    int
	Health    int
	Aspects   []string
	Keywords  []string
	Arenas    []Arena
	BackInfo  string
	TokenInfo string
}

// DefaultArena is the first declared arena, or ground when none is declared.
func (t *Template) DefaultArena() Arena {
	if len(t.Arenas) == 0 {
		return ArenaGround
	}
	return t.Arenas[0]
}

// HasKeyword reports whether the printed keyword set contains name.
func (t *Template) HasKeyword(name string) bool {
	return containsKeyword(t.Keywords, name)
}

// IsUnitLike reports whether instances of this template fight in an arena.
func (t *Template) IsUnitLike() bool {
	return t.Type == TypeUnit || t.Type == TypeLeader
}

func (t *Template) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.ID)
}

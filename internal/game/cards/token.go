package cards

import "strings"

// TokenKind distinguishes tokens that enter play as units from tokens that sit on a host.
type TokenKind string

const (
	TokenUnit    TokenKind = "unit"
	TokenCounter TokenKind = "counter"
)

// Token is a card-less game object definition.
type Token struct {
	Name     string
	Kind     TokenKind
	Attack   int
	Health   int
	Keywords []string
	Arenas   []Arena
}

// DefaultArena is the first declared arena, or ground when none is declared.
func (t *Token) DefaultArena() Arena {
	if len(t.Arenas) == 0 {
		return ArenaGround
	}
	return t.Arenas[0]
}

var (
	ShieldToken      = &Token{Name: "Shield", Kind: TokenCounter}
	ExperienceToken  = &Token{Name: "Experience", Kind: TokenCounter}
	BattleDroidToken = &Token{Name: "Battle Droid", Kind: TokenUnit, Attack: 1, Health: 1, Arenas: []Arena{ArenaGround}}
	CloneTrooper     = &Token{Name: "Clone Trooper", Kind: TokenUnit, Attack: 2, Health: 2, Arenas: []Arena{ArenaGround}}
	TIEFighterToken  = &Token{Name: "TIE Fighter", Kind: TokenUnit, Attack: 1, Health: 1, Arenas: []Arena{ArenaSpace}}
	XWingToken       = &Token{Name: "X-Wing", Kind: TokenUnit, Attack: 2, Health: 2, Arenas: []Arena{ArenaSpace}}
)

var knownTokens = []*Token{ShieldToken, ExperienceToken, BattleDroidToken, CloneTrooper, TIEFighterToken, XWingToken}

// LookupToken finds a built-in token definition by name, ignoring case.
func LookupToken(name string) (*Token, bool) {
	for _, t := range knownTokens {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, true
		}
	}
	return nil, false
}

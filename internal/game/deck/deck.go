package deck

import (
	"errors"
	"fmt"
	"sort"

	"github.com/swu-engine/swu-server-go/internal/game/cards"
)

const (
	// MinMainDeck is the minimum number of cards besides leader and base.
	MinMainDeck = 50
	// MaxCopies is the copy limit for any card that is not a leader or base.
	MaxCopies = 3
)

var (
	ErrLeaderCount = errors.New("deck must include exactly 1 leader")
	ErrBaseCount   = errors.New("deck must include exactly 1 base")
	ErrDeckSize    = errors.New("deck is below the minimum size")
	ErrCopyCount   = errors.New("too many copies of a card")
	ErrTokenInDeck = errors.New("tokens are not allowed in a deck")
	ErrUnknownCard = errors.New("card is not in the catalog")
)

// ValidationError identifies the rule a deck broke and the offending card.
type ValidationError struct {
	Rule  error
	Card  string
	Count int
}

func (e *ValidationError) Error() string {
	if e.Card == "" {
		return fmt.Sprintf("%v (found %d)", e.Rule, e.Count)
	}
	return fmt.Sprintf("%v: %s (found %d)", e.Rule, e.Card, e.Count)
}

func (e *ValidationError) Unwrap() error {
	return e.Rule
}

// Catalog maps card identifiers to templates.
type Catalog map[string]*cards.Template

// Decklist maps card identifiers to copy counts.
type Decklist map[string]int

// Deck is a constructed list of templates.
type Deck struct {
	Leaders []*cards.Template
	Bases   []*cards.Template
	Main    []*cards.Template
	Tokens  []*cards.Template
}

// Build resolves list against catalog and validates the result. Card IDs are
// resolved in sorted order so the main deck is deterministic.
func Build(catalog Catalog, list Decklist) (*Deck, error) {
	ids := make([]string, 0, len(list))
	for id := range list {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	d := &Deck{}
	for _, id := range ids {
		tpl, ok := catalog[id]
		if !ok {
			return nil, &ValidationError{Rule: ErrUnknownCard, Card: id, Count: list[id]}
		}
		for i := 0; i < list[id]; i++ {
			d.add(tpl)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Deck) add(tpl *cards.Template) {
	switch tpl.Type {
	case cards.TypeLeader:
		d.Leaders = append(d.Leaders, tpl)
	case cards.TypeBase:
		d.Bases = append(d.Bases, tpl)
	case cards.TypeToken:
		d.Tokens = append(d.Tokens, tpl)
	default:
		d.Main = append(d.Main, tpl)
	}
}

// Leader returns the single leader of a valid deck.
func (d *Deck) Leader() *cards.Template {
	if len(d.Leaders) == 0 {
		return nil
	}
	return d.Leaders[0]
}

// Base returns the single base of a valid deck.
func (d *Deck) Base() *cards.Template {
	if len(d.Bases) == 0 {
		return nil
	}
	return d.Bases[0]
}

// Validate checks deck legality. The first broken rule is reported, checked in
// the order tokens, leader count, base count, size, copy limit.
func (d *Deck) Validate() error {
	if len(d.Tokens) > 0 {
		return &ValidationError{Rule: ErrTokenInDeck, Card: d.Tokens[0].Name, Count: len(d.Tokens)}
	}
	if len(d.Leaders) != 1 {
		return &ValidationError{Rule: ErrLeaderCount, Count: len(d.Leaders)}
	}
	if len(d.Bases) != 1 {
		return &ValidationError{Rule: ErrBaseCount, Count: len(d.Bases)}
	}
	if len(d.Main) < MinMainDeck {
		return &ValidationError{Rule: ErrDeckSize, Count: len(d.Main)}
	}

	counts := make(map[string]int)
	var order []string
	for _, tpl := range d.Main {
		if counts[tpl.Name] == 0 {
			order = append(order, tpl.Name)
		}
		counts[tpl.Name]++
	}
	for _, name := range order {
		if counts[name] > MaxCopies {
			return &ValidationError{Rule: ErrCopyCount, Card: name, Count: counts[name]}
		}
	}
	return nil
}

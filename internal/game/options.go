package game

import "time"

// Options tune the built-in rules of a game.
type Options struct {
	HandLimit   int
	OpeningHand int
	DrawPerTurn int
	BaseHealth  int
	Seed        int64
}

// DefaultOptions returns the standard rules settings.
func DefaultOptions() Options {
	return Options{
		HandLimit:   7,
		OpeningHand: 6,
		DrawPerTurn: 1,
		BaseHealth:  30,
	}
}

// Option mutates Options.
type Option func(*Options)

// WithOptions replaces every setting at once.
func WithOptions(o Options) Option {
	return func(opts *Options) { *opts = o }
}

// WithSeed fixes the shuffle seed.
func WithSeed(seed int64) Option {
	return func(opts *Options) { opts.Seed = seed }
}

// WithHandLimit overrides the end-of-turn hand limit.
func WithHandLimit(n int) Option {
	return func(opts *Options) { opts.HandLimit = n }
}

func (o Options) seed() int64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return time.Now().UnixNano()
}

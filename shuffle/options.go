package shuffle

import "github.com/lox/lazyshuffle/rng"

// Option configures a Generator.
type Option func(*Generator)

// WithSource makes the generator draw indices from src. The generator takes
// ownership: src must not be shared with another generator or goroutine.
// A nil src leaves the default source in place.
func WithSource(src rng.Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithSeed uses a Xorshf96 source derived from seed.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.src = rng.NewXorshf96Seeded(seed)
	}
}

// Package rng provides small, fast pseudo-random bit sources used to drive
// index selection in the shuffle package.
//
// None of the sources here are cryptographically secure. They exist for
// non-adversarial shuffling where throughput matters more than statistical
// quality. Use with caution.
//
// Sources are owned values and are not safe for concurrent use. Give every
// goroutine that shuffles its own source:
//
//	src := rng.NewXorshf96Seeded(int64(worker))
//	gen, _ := shuffle.New(n, shuffle.WithSource(src))
//
// Two sources constructed the same way (same constructor, same seed) produce
// identical streams, which is what makes shuffles reproducible in tests.
package rng

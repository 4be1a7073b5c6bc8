package rng

import "github.com/lox/lazyshuffle/internal/randutil"

// Default register values for Xorshf96.
const (
	defaultX = 123456789
	defaultY = 362436069
	defaultZ = 521288629
)

// Xorshf96 is Marsaglia's three-register xorshift generator with a 96-bit
// period. It is very fast and statistically weak; see
// https://github.com/raylee/xorshf96 for its known shortcomings.
type Xorshf96 struct {
	x, y, z uint32
}

// NewXorshf96 returns a generator in the fixed default state. Every value
// returned by NewXorshf96 produces the same stream.
func NewXorshf96() *Xorshf96 {
	return &Xorshf96{x: defaultX, y: defaultY, z: defaultZ}
}

// NewXorshf96Seeded returns a generator whose registers are derived from seed.
func NewXorshf96Seeded(seed int64) *Xorshf96 {
	w := randutil.Words32(seed, 3)
	return newXorshf96(w[0], w[1], w[2])
}

func newXorshf96(x, y, z uint32) *Xorshf96 {
	// All-zero is a fixed point of the transform.
	if x == 0 && y == 0 && z == 0 {
		return NewXorshf96()
	}
	return &Xorshf96{x: x, y: y, z: z}
}

// Uint32 advances the registers and returns the new z.
func (r *Xorshf96) Uint32() uint32 {
	r.x ^= r.x << 16
	r.x ^= r.x >> 5
	r.x ^= r.x << 1

	t := r.x
	r.x = r.y
	r.y = r.z
	r.z = t ^ r.x ^ r.y

	return r.z
}

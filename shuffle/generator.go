package shuffle

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/lox/lazyshuffle/rng"
)

// MaxSize is the largest range a Generator accepts. Values are stored as
// uint32, so every produced value is at most MaxSize-1.
const MaxSize = math.MaxUint32

// ErrInvalidSize is returned by New when n is negative or exceeds MaxSize.
var ErrInvalidSize = errors.New("invalid shuffle size")

// Generator incrementally produces a random permutation of [0, n).
//
// backing[i] holds value+1 for slots that have been written and 0 for slots
// that still hold their own index. Positions below cursor are final.
type Generator struct {
	backing []uint32
	cursor  uint32
	n       uint32
	src     rng.Source
}

// New creates a Generator over [0, n). n == 0 is allowed and yields a
// generator that is exhausted from the start.
func New(n int, opts ...Option) (*Generator, error) {
	if n < 0 || uint64(n) > MaxSize {
		return nil, fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidSize, n, uint64(MaxSize))
	}

	g := &Generator{
		backing: make([]uint32, n),
		n:       uint32(n),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = rng.NewXorshf96()
	}
	return g, nil
}

// Next returns the next value of the permutation. ok is false once all n
// values have been produced; the generator then stays exhausted.
func (g *Generator) Next() (value uint32, ok bool) {
	if g.cursor >= g.n {
		return 0, false
	}

	cur := g.cursor
	pick := cur + g.src.Uint32()%(g.n-cur)

	a := g.slot(cur)
	b := g.slot(pick)

	g.backing[cur] = b + 1
	g.backing[pick] = a + 1
	g.cursor++

	return b, true
}

// slot returns the logical value at i, treating unset slots as identity.
func (g *Generator) slot(i uint32) uint32 {
	if v := g.backing[i]; v != 0 {
		return v - 1
	}
	return i
}

// NextBatch returns up to k values. If fewer than k remain the result is
// silently truncated to the remaining count, so callers that need exactly k
// values must check len of the result. k <= 0 returns an empty slice.
func (g *Generator) NextBatch(k int) []uint32 {
	values := make([]uint32, g.batchSize(k))
	g.Fill(values)
	return values
}

// Fill writes the next values into dst and returns how many were written.
// Fewer than len(dst) are written only when the generator runs out.
func (g *Generator) Fill(dst []uint32) int {
	n := g.batchSize(len(dst))
	for i := range n {
		dst[i], _ = g.Next()
	}
	return n
}

func (g *Generator) batchSize(k int) int {
	if k <= 0 {
		return 0
	}
	return min(k, g.Remaining())
}

// All returns an iterator over the remaining values. Values consumed by the
// iterator are gone from the generator, and breaking out early leaves the
// rest available to later calls.
func (g *Generator) All() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for {
			v, ok := g.Next()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Len returns n, the size of the range.
func (g *Generator) Len() int {
	return int(g.n)
}

// Cursor returns how many values have been produced so far.
func (g *Generator) Cursor() int {
	return int(g.cursor)
}

// Remaining returns how many values are left.
func (g *Generator) Remaining() int {
	return int(g.n - g.cursor)
}

// Exhausted reports whether every value has been produced.
func (g *Generator) Exhausted() bool {
	return g.cursor >= g.n
}

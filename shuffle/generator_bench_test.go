package shuffle

import (
	"testing"

	"github.com/lox/lazyshuffle/rng"
)

func BenchmarkNext(b *testing.B) {
	g, _ := New(b.N)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.Next()
	}
}

// Drawing a small prefix from a large range should not scale with the range.
func BenchmarkPartialDraw(b *testing.B) {
	const n, k = 20_000_000, 1000
	dst := make([]uint32, k)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g, _ := New(n)
		g.Fill(dst)
	}
}

func BenchmarkFullShuffle(b *testing.B) {
	const n = 1 << 20
	dst := make([]uint32, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g, _ := New(n)
		g.Fill(dst)
	}
}

// Baseline: eager permutation from math/rand/v2 over the same source.
func BenchmarkEagerPerm(b *testing.B) {
	const n = 1 << 20
	r := rng.Rand(rng.NewXorshf96())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Perm(n)
	}
}

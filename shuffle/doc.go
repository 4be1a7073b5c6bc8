// Package shuffle generates uniformly random permutations of [0, n)
// incrementally.
//
// The main type is Generator, which performs one step of the Fisher-Yates
// shuffle per value requested. Nothing is precomputed: drawing k values from a
// range of n costs O(k) time, and the only O(n) cost is the zeroed backing
// array allocated by New.
//
// # Basic Usage
//
//	gen, err := shuffle.New(20_000_000)
//	if err != nil {
//	    return err
//	}
//	first, ok := gen.Next()      // ok is false once all n values are produced
//	batch := gen.NextBatch(1000) // may be shorter than 1000 near the end
//
// # Deterministic Testing
//
// Every Generator owns its random source. Without options that source starts
// from fixed constants, so two generators of the same size produce the same
// sequence. Use WithSeed or WithSource to pick a different stream:
//
//	gen, _ := shuffle.New(n, shuffle.WithSeed(42))
//	gen, _ = shuffle.New(n, shuffle.WithSource(rng.NewPCG32(42)))
//
// # Known Limitations
//
// Indices are chosen with a plain modulo reduction, so ranges that are not a
// power of two carry a slight bias toward low offsets. The bias is kept
// because changing the reduction would change every output sequence.
//
// A Generator is not safe for concurrent use. Run one Generator with its own
// source per goroutine instead.
package shuffle

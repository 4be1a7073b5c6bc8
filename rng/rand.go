package rng

import rand "math/rand/v2"

// wrapperSource adapts a Source to the rand/v2 Source interface.
type wrapperSource struct {
	src Source
}

func (w *wrapperSource) Uint64() uint64 {
	hi := uint64(w.src.Uint32())
	lo := uint64(w.src.Uint32())
	return hi<<32 | lo
}

// Rand wraps src in a *rand.Rand so callers get the full math/rand/v2 API
// (Float64, Perm, Shuffle, ...) on top of the same stream.
func Rand(src Source) *rand.Rand {
	return rand.New(&wrapperSource{src: src})
}

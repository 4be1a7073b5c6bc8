package rng

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSource is returned by New for an unrecognised source name.
var ErrUnknownSource = errors.New("unknown random source")

// Source produces a stream of 32-bit pseudo-random values.
type Source interface {
	Uint32() uint32
}

const (
	NameXorshf96 = "xorshf96"
	NamePCG32    = "pcg32"
)

var constructors = map[string]func(seed int64) Source{
	NameXorshf96: func(seed int64) Source { return NewXorshf96Seeded(seed) },
	NamePCG32:    func(seed int64) Source { return NewPCG32(seed) },
}

// New builds the named source from seed.
func New(name string, seed int64) (Source, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %v)", ErrUnknownSource, name, Names())
	}
	return ctor(seed), nil
}

// Names lists the source names accepted by New, sorted.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

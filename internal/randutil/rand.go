package randutil

const (
	goldenRatio64 = 0x9e3779b97f4a7c15
)

// Words32 derives n 32-bit register values from a single int64 seed.
// Every caller that turns a user-supplied seed into generator state goes
// through here so that equal seeds always yield equal streams.
func Words32(seed int64, n int) []uint32 {
	words := make([]uint32, n)
	u := uint64(seed)
	for i := range words {
		u += goldenRatio64
		words[i] = uint32(Mix(u) >> 32)
	}
	return words
}

// Word64 derives a single 64-bit state word from seed.
func Word64(seed int64) uint64 {
	return Mix(uint64(seed) + goldenRatio64)
}

// Mix is the splitmix64 finalizer.
func Mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

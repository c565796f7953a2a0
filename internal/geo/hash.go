package geo

const (
	fnvOffsetBasis uint64 = 0xcbf29ce484222325
	fnvPrime       uint64 = 0x100000001b3
)

// Hash is 64-bit FNV-1a. The output is stable across processes and platforms,
// fallback region assignment relies on that.
func Hash(b []byte) uint64 {
	h := fnvOffsetBasis
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime
	}
	return h
}

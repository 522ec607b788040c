package hashtable

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"
)

// seededHasher hashes byte strings with xxhash under a per-table seed. It
// reuses one digest, so a table's hash function must not be shared across
// goroutines.
type seededHasher struct {
	seed   uint64
	digest *xxhash.Digest
}

func newSeededHasher() *seededHasher {
	seed := rand.Uint64()
	return &seededHasher{seed: seed, digest: xxhash.NewWithSeed(seed)}
}

func (h *seededHasher) sum(s string) uint64 {
	h.digest.ResetWithSeed(h.seed)
	_, _ = h.digest.WriteString(s)
	return h.digest.Sum64()
}

func stringsEqual(a, b string) bool {
	return a == b
}

// NewStringTable creates a table keyed by variable-length byte strings.
// Keys are compared by length and content.
func NewStringTable[V any](capacity int) (*Table[string, V], error) {
	h := newSeededHasher()
	return newTable[string, V]("hashtable.NewStringTable", capacity, h.sum, stringsEqual)
}

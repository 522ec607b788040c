// Package hashtable implements the bucketed, open-chaining hash table used for
// symbol interning and dictionary storage.
//
// One algorithm backs three key flavors:
//   - string keys (NewStringTable), hashed with a per-table seeded xxhash
//   - fixed-length byte keys (NewFixedTable), compared bytewise
//   - pluggable keys (NewPluggableTable), with caller-supplied hash and equality
//
// Each bucket is a dynamic array of (hash, key, value) entries. After an
// insertion leaves count/capacity at or above Settings.MaxLoad the bucket
// array is rebuilt at capacity*TableGrowthFactor and every entry is
// reinserted. A failed growth leaves the table exactly as it was before the
// insertion that triggered it.
//
// Tables are not safe for concurrent use.
package hashtable

import (
	"github.com/tliron/commonlog"

	"github.com/chazu/segment/segerr"
)

var log = commonlog.GetLogger("segment.hashtable")

// HashFunc computes the hash of a key.
type HashFunc[K any] func(key K) uint64

// EqualFunc reports whether two keys are equal. Keys that are equal must hash
// to the same value.
type EqualFunc[K any] func(a, b K) bool

type entry[K, V any] struct {
	hash  uint64
	key   K
	value V
}

type bucket[K, V any] struct {
	entries []entry[K, V]
}

// Table is a resizable hash table from K to V.
type Table[K, V any] struct {
	hash     HashFunc[K]
	equal    EqualFunc[K]
	count    int
	buckets  []bucket[K, V]
	settings Settings
}

// NewPluggableTable creates a table with the given bucket capacity that hashes
// and compares keys with the supplied functions.
func NewPluggableTable[K, V any](capacity int, hash HashFunc[K], equal EqualFunc[K]) (*Table[K, V], error) {
	const op = "hashtable.NewPluggableTable"
	if hash == nil || equal == nil {
		return nil, segerr.New(segerr.Invalid, op, "hash and equality functions are required")
	}
	return newTable[K, V](op, capacity, hash, equal)
}

func newTable[K, V any](op string, capacity int, hash HashFunc[K], equal EqualFunc[K]) (*Table[K, V], error) {
	buckets, err := allocBuckets[K, V](op, capacity)
	if err != nil {
		return nil, err
	}
	return &Table[K, V]{
		hash:     hash,
		equal:    equal,
		buckets:  buckets,
		settings: DefaultSettings(),
	}, nil
}

func allocBuckets[K, V any](op string, capacity int) ([]bucket[K, V], error) {
	if capacity < 1 {
		return nil, segerr.Newf(segerr.Range, op, "capacity %d must be at least 1", capacity)
	}
	if capacity > MaxCapacity {
		return nil, segerr.Newf(segerr.Memory, op, "cannot allocate %d buckets", capacity)
	}
	return make([]bucket[K, V], capacity), nil
}

// Count returns the number of entries in the table.
func (t *Table[K, V]) Count() int {
	return t.count
}

// Capacity returns the number of buckets.
func (t *Table[K, V]) Capacity() int {
	return len(t.buckets)
}

// Settings returns the table's growth settings for reading or modification.
func (t *Table[K, V]) Settings() *Settings {
	return &t.settings
}

// Get returns the value stored under key. It never resizes the table.
func (t *Table[K, V]) Get(key K) (V, bool) {
	h := t.hash(key)
	b := &t.buckets[h%uint64(len(t.buckets))]
	for i := range b.entries {
		e := &b.entries[i]
		if e.hash == h && t.equal(e.key, key) {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// Put stores value under key. When key was already present its previous value
// is returned with replaced set.
func (t *Table[K, V]) Put(key K, value V) (prior V, replaced bool, err error) {
	h := t.hash(key)
	e, created, err := t.findOrCreate("hashtable.Put", t.buckets, h, key)
	if err != nil {
		return prior, false, err
	}
	if !created {
		prior = e.value
		e.value = value
		return prior, true, nil
	}

	e.value = value
	t.count++
	if err := t.afterInsert("hashtable.Put", h); err != nil {
		return prior, false, err
	}
	return prior, false, nil
}

// PutIfAbsent stores value under key only if key is unassigned. It returns the
// value now mapped to key and whether this call inserted it.
func (t *Table[K, V]) PutIfAbsent(key K, value V) (actual V, inserted bool, err error) {
	h := t.hash(key)
	e, created, err := t.findOrCreate("hashtable.PutIfAbsent", t.buckets, h, key)
	if err != nil {
		return actual, false, err
	}
	if !created {
		return e.value, false, nil
	}

	e.value = value
	t.count++
	if err := t.afterInsert("hashtable.PutIfAbsent", h); err != nil {
		return actual, false, err
	}
	return value, true, nil
}

// Each calls fn for every entry in bucket order, stopping at the first error.
// The table must not be modified during iteration.
func (t *Table[K, V]) Each(fn func(key K, value V) error) error {
	for bi := range t.buckets {
		for _, e := range t.buckets[bi].entries {
			if err := fn(e.key, e.value); err != nil {
				return err
			}
		}
	}
	return nil
}

// Resize rebuilds the table with the given number of buckets. The capacity may
// be smaller or larger than the current one; a smaller capacity is not
// corrected for load until the next insertion.
func (t *Table[K, V]) Resize(capacity int) error {
	return t.resize("hashtable.Resize", capacity)
}

// findOrCreate locates key in buckets, appending a fresh entry when absent.
// The returned entry pointer is valid until its bucket grows.
func (t *Table[K, V]) findOrCreate(op string, buckets []bucket[K, V], h uint64, key K) (*entry[K, V], bool, error) {
	b := &buckets[h%uint64(len(buckets))]
	for i := range b.entries {
		e := &b.entries[i]
		if e.hash == h && t.equal(e.key, key) {
			return e, false, nil
		}
	}

	if len(b.entries) == cap(b.entries) {
		if err := t.growBucket(op, b); err != nil {
			return nil, false, err
		}
	}
	b.entries = append(b.entries, entry[K, V]{hash: h, key: key})
	return &b.entries[len(b.entries)-1], true, nil
}

func (t *Table[K, V]) growBucket(op string, b *bucket[K, V]) error {
	if err := t.settings.Validate(); err != nil {
		return err
	}

	n := t.settings.InitBucketCapacity
	if c := cap(b.entries); c > 0 {
		var ok bool
		if n, ok = scale(c, t.settings.BucketGrowthFactor, maxBucketEntries); !ok {
			return segerr.Newf(segerr.Memory, op, "cannot grow bucket past %d entries", c)
		}
	}

	grown := make([]entry[K, V], len(b.entries), n)
	copy(grown, b.entries)
	b.entries = grown
	return nil
}

// afterInsert restores the load invariant after a new entry hashed to h was
// added. If growth fails the entry is removed again.
func (t *Table[K, V]) afterInsert(op string, h uint64) error {
	if !t.overloaded(t.count, len(t.buckets)) {
		return nil
	}

	target, err := t.growthTarget(op)
	if err == nil {
		err = t.resize(op, target)
	}
	if err != nil {
		t.unlinkLast(h)
		return err
	}
	return nil
}

func (t *Table[K, V]) overloaded(count, capacity int) bool {
	return float64(count)/float64(capacity) >= t.settings.MaxLoad
}

// growthTarget returns the first capacity*TableGrowthFactor^k that brings the
// load under MaxLoad.
func (t *Table[K, V]) growthTarget(op string) (int, error) {
	if err := t.settings.Validate(); err != nil {
		return 0, err
	}

	capacity := len(t.buckets)
	for t.overloaded(t.count, capacity) {
		next, ok := scale(capacity, t.settings.TableGrowthFactor, MaxCapacity)
		if !ok {
			return 0, segerr.Newf(segerr.Memory, op, "cannot grow %d buckets by a factor of %d",
				capacity, t.settings.TableGrowthFactor)
		}
		capacity = next
	}
	return capacity, nil
}

// unlinkLast removes the most recently appended entry of the bucket for h.
func (t *Table[K, V]) unlinkLast(h uint64) {
	b := &t.buckets[h%uint64(len(t.buckets))]
	last := len(b.entries) - 1
	b.entries[last] = entry[K, V]{}
	b.entries = b.entries[:last]
	t.count--
}

func (t *Table[K, V]) resize(op string, capacity int) error {
	if capacity == len(t.buckets) {
		return nil
	}
	fresh, err := allocBuckets[K, V](op, capacity)
	if err != nil {
		return err
	}

	for bi := range t.buckets {
		for _, e := range t.buckets[bi].entries {
			ne, created, err := t.findOrCreate(op, fresh, e.hash, e.key)
			if err != nil {
				return err
			}
			if !created {
				return segerr.Newf(segerr.Collision, op, "distinct entries collided while rehashing into %d buckets", capacity)
			}
			ne.value = e.value
		}
	}

	log.Debugf("resized table from %d to %d buckets holding %d entries", len(t.buckets), capacity, t.count)
	t.buckets = fresh
	return nil
}

package hashtable

import (
	"unsafe"

	"github.com/chazu/segment/segerr"
)

// FixedTable is a table whose keys are opaque byte strings of one fixed
// length, such as encoded object identities or packed structs.
type FixedTable[V any] struct {
	keyLength int
	table     *Table[string, V]
}

// NewFixedTable creates a table with the given bucket capacity whose keys are
// exactly keyLength bytes long.
func NewFixedTable[V any](capacity, keyLength int) (*FixedTable[V], error) {
	const op = "hashtable.NewFixedTable"
	if keyLength < 1 {
		return nil, segerr.Newf(segerr.Range, op, "key length %d must be at least 1", keyLength)
	}
	h := newSeededHasher()
	t, err := newTable[string, V](op, capacity, h.sum, stringsEqual)
	if err != nil {
		return nil, err
	}
	return &FixedTable[V]{keyLength: keyLength, table: t}, nil
}

// KeyLength returns the length every key must have.
func (f *FixedTable[V]) KeyLength() int { return f.keyLength }

// Count returns the number of entries in the table.
func (f *FixedTable[V]) Count() int { return f.table.Count() }

// Capacity returns the number of buckets.
func (f *FixedTable[V]) Capacity() int { return f.table.Capacity() }

// Settings returns the table's growth settings for reading or modification.
func (f *FixedTable[V]) Settings() *Settings { return f.table.Settings() }

// Resize rebuilds the table with the given number of buckets.
func (f *FixedTable[V]) Resize(capacity int) error { return f.table.Resize(capacity) }

// Put stores value under key, returning the value it replaced, if any.
func (f *FixedTable[V]) Put(key []byte, value V) (prior V, replaced bool, err error) {
	if err := f.check("hashtable.FixedTable.Put", key); err != nil {
		return prior, false, err
	}
	return f.table.Put(string(key), value)
}

// PutIfAbsent stores value under key only if key is unassigned.
func (f *FixedTable[V]) PutIfAbsent(key []byte, value V) (actual V, inserted bool, err error) {
	if err := f.check("hashtable.FixedTable.PutIfAbsent", key); err != nil {
		return actual, false, err
	}
	return f.table.PutIfAbsent(string(key), value)
}

// Get returns the value stored under key. A key of the wrong length is never
// present.
func (f *FixedTable[V]) Get(key []byte) (V, bool) {
	if len(key) != f.keyLength {
		var zero V
		return zero, false
	}
	// The lookup does not retain the key, so it may alias the caller's buffer.
	return f.table.Get(unsafe.String(unsafe.SliceData(key), len(key)))
}

// Each calls fn for every entry. key aliases internal storage and must not be
// modified or retained.
func (f *FixedTable[V]) Each(fn func(key []byte, value V) error) error {
	return f.table.Each(func(key string, value V) error {
		return fn(unsafe.Slice(unsafe.StringData(key), len(key)), value)
	})
}

func (f *FixedTable[V]) check(op string, key []byte) error {
	if len(key) != f.keyLength {
		return segerr.Newf(segerr.Range, op, "key is %d bytes, table requires %d", len(key), f.keyLength)
	}
	return nil
}

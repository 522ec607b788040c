package vm

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"

	"github.com/chazu/segment/hashtable"
)

// ---------------------------------------------------------------------------
// Dictionary: value-keyed
// ---------------------------------------------------------------------------

// Dictionary maps Objects to Objects by value. Integers are equal when their
// values are and floats when their IEEE bits are, so 0.0 and -0.0 are distinct
// keys and a NaN matches a NaN with the same payload. Strings and symbols are
// equal when their class and bytes are; any other key matches only itself.
type Dictionary struct {
	table *hashtable.Table[Object, Object]
}

// NewDictionary creates a dictionary with the given initial bucket capacity.
func NewDictionary(capacity int) (*Dictionary, error) {
	t, err := hashtable.NewPluggableTable[Object, Object](capacity, hashValue, equalValue)
	if err != nil {
		return nil, err
	}
	return &Dictionary{table: t}, nil
}

// hashValue is consistent with equalValue: an immediate and a heap object can
// never be equal, because every value has exactly one encoding.
func hashValue(o Object) uint64 {
	if b, ok := o.buffer(); ok {
		return xxhash.Sum64(b.bytes) ^ uint64(b.kind)
	}
	return hashIdentity(o)
}

func equalValue(a, b Object) bool {
	if a == b {
		return true
	}
	ab, ok := a.buffer()
	if !ok {
		return false
	}
	bb, ok := b.buffer()
	return ok && ab.kind == bb.kind && ab.class == bb.class && bytes.Equal(ab.bytes, bb.bytes)
}

// At returns the value stored under key.
func (d *Dictionary) At(key Object) (Object, bool) {
	return d.table.Get(key)
}

// AtPut stores value under key.
func (d *Dictionary) AtPut(key, value Object) error {
	_, _, err := d.table.Put(key, value)
	return err
}

// AtIfAbsentPut stores value under key unless key is present, and returns the
// value now stored under key.
func (d *Dictionary) AtIfAbsentPut(key, value Object) (Object, error) {
	actual, _, err := d.table.PutIfAbsent(key, value)
	return actual, err
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return d.table.Count()
}

// Each calls fn for every entry until fn returns an error.
func (d *Dictionary) Each(fn func(key, value Object) error) error {
	return d.table.Each(fn)
}

// ---------------------------------------------------------------------------
// IdentityDictionary: identity-keyed
// ---------------------------------------------------------------------------

// identityKeyLength is the size of an encoded identity: the Object bits
// followed by the heap address.
const identityKeyLength = 16

type association struct {
	key   Object
	value Object
}

// IdentityDictionary maps Objects to Objects by identity.
type IdentityDictionary struct {
	table *hashtable.FixedTable[association]
}

// NewIdentityDictionary creates an identity dictionary with the given initial
// bucket capacity.
func NewIdentityDictionary(capacity int) (*IdentityDictionary, error) {
	t, err := hashtable.NewFixedTable[association](capacity, identityKeyLength)
	if err != nil {
		return nil, err
	}
	return &IdentityDictionary{table: t}, nil
}

func identityKey(o Object) [identityKeyLength]byte {
	var k [identityKeyLength]byte
	binary.LittleEndian.PutUint64(k[:8], o.bits)
	binary.LittleEndian.PutUint64(k[8:], uint64(uintptr(unsafe.Pointer(o.ref))))
	return k
}

func hashIdentity(o Object) uint64 {
	k := identityKey(o)
	return xxhash.Sum64(k[:])
}

// At returns the value stored under key.
func (d *IdentityDictionary) At(key Object) (Object, bool) {
	k := identityKey(key)
	a, ok := d.table.Get(k[:])
	return a.value, ok
}

// AtPut stores value under key.
func (d *IdentityDictionary) AtPut(key, value Object) error {
	k := identityKey(key)
	_, _, err := d.table.Put(k[:], association{key: key, value: value})
	return err
}

// AtIfAbsentPut stores value under key unless key is present, and returns the
// value now stored under key.
func (d *IdentityDictionary) AtIfAbsentPut(key, value Object) (Object, error) {
	k := identityKey(key)
	actual, _, err := d.table.PutIfAbsent(k[:], association{key: key, value: value})
	return actual.value, err
}

// Len returns the number of entries.
func (d *IdentityDictionary) Len() int {
	return d.table.Count()
}

// Each calls fn for every entry until fn returns an error.
func (d *IdentityDictionary) Each(fn func(key, value Object) error) error {
	return d.table.Each(func(_ []byte, a association) error {
		return fn(a.key, a.value)
	})
}

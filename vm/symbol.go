package vm

import (
	"unsafe"

	"github.com/chazu/segment/hashtable"
	"github.com/chazu/segment/manifest"
)

// ---------------------------------------------------------------------------
// SymbolTable: Interned symbols
// ---------------------------------------------------------------------------

// SymbolTable interns symbol names so that equal names yield the same Object.
//
// Names of up to ImmediateBytes bytes are immediate symbols, identical by
// value, and never enter the table. Longer names map to a single heap symbol.
// Entries are never removed.
type SymbolTable struct {
	table *hashtable.Table[string, Object]
	boot  *Bootstrap
}

func newSymbolTable(boot *Bootstrap, cfg manifest.SymbolTable) (*SymbolTable, error) {
	table, err := hashtable.NewStringTable[Object](cfg.InitialCapacity)
	if err != nil {
		return nil, err
	}
	*table.Settings() = cfg.Settings()
	return &SymbolTable{table: table, boot: boot}, nil
}

// Intern returns the symbol named name, creating it on first use.
func (st *SymbolTable) Intern(name []byte) (Object, error) {
	if len(name) <= ImmediateBytes {
		return immediate(kindSymbol, len(name), pack(name)), nil
	}
	if sym, ok := st.table.Get(bytesView(name)); ok {
		return sym, nil
	}
	return st.insert(string(name))
}

// InternString is Intern for a Go string.
func (st *SymbolTable) InternString(name string) (Object, error) {
	if len(name) <= ImmediateBytes {
		return immediate(kindSymbol, len(name), pack(name)), nil
	}
	if sym, ok := st.table.Get(name); ok {
		return sym, nil
	}
	return st.insert(name)
}

func (st *SymbolTable) insert(name string) (Object, error) {
	sym := newBuffer(st.boot.SymbolClass, kindSymbol, unsafe.Slice(unsafe.StringData(name), len(name)))
	if _, _, err := st.table.Put(name, sym); err != nil {
		return Null, err
	}
	return sym, nil
}

// Get returns the symbol named name without creating it. A long name that has
// never been interned yields NoSymbol.
func (st *SymbolTable) Get(name []byte) Object {
	if len(name) <= ImmediateBytes {
		return immediate(kindSymbol, len(name), pack(name))
	}
	sym, ok := st.table.Get(bytesView(name))
	if !ok {
		return NoSymbol
	}
	return sym
}

// GetString is Get for a Go string.
func (st *SymbolTable) GetString(name string) Object {
	if len(name) <= ImmediateBytes {
		return immediate(kindSymbol, len(name), pack(name))
	}
	sym, ok := st.table.Get(name)
	if !ok {
		return NoSymbol
	}
	return sym
}

// Count returns the number of heap symbols in the table.
func (st *SymbolTable) Count() int {
	return st.table.Count()
}

// Capacity returns the number of buckets in the table.
func (st *SymbolTable) Capacity() int {
	return st.table.Capacity()
}

// Settings returns the growth settings of the underlying table.
func (st *SymbolTable) Settings() *hashtable.Settings {
	return st.table.Settings()
}

// Each calls fn for every interned heap symbol.
func (st *SymbolTable) Each(fn func(sym Object) error) error {
	return st.table.Each(func(_ string, sym Object) error {
		return fn(sym)
	})
}

// bytesView returns b as a string without copying. The result must not outlive
// b or be retained by the callee.
func bytesView(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

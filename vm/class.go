package vm

import (
	"github.com/chazu/segment/segerr"
)

// Classes are slotted instances of the Class class with these fields.
const (
	ClassSlotName    = iota // symbol naming the class
	ClassSlotStorage        // integer Storage of its instances
	ClassSlotLength         // integer preferred field count
	ClassSlotFields         // Array of field-name symbols
	ClassSlotCount
)

// IsClass reports whether o is a class: a live slotted instance of the
// Class class.
func (rt *Runtime) IsClass(o Object) bool {
	s, ok := o.slotted()
	return ok && !s.abandoned &&
		s.class == rt.boot.ClassClass &&
		len(s.slots) >= ClassSlotCount
}

func (rt *Runtime) classSlots(op string, class Object) ([]Object, error) {
	if !rt.IsClass(class) {
		return nil, segerr.New(segerr.Type, op, "not a class")
	}
	s, _ := class.slotted()
	return s.slots, nil
}

// Class creates and registers a class named name whose instances use the
// given storage. The new class declares no fields.
func (rt *Runtime) Class(name string, storage Storage) (Object, error) {
	const op = "vm.Class"
	if !storage.valid() {
		return Null, segerr.Newf(segerr.Invalid, op, "unknown storage kind %d", storage)
	}
	if name == "" {
		return Null, segerr.New(segerr.Range, op, "class name is empty")
	}
	if _, exists := rt.classes.Get(name); exists {
		return Null, segerr.Newf(segerr.Invalid, op, "class %s already exists", name)
	}

	sym, err := rt.symbols.InternString(name)
	if err != nil {
		return Null, err
	}
	c := newSlotted(rt.boot.ClassClass, ClassSlotCount, rt.boot.None)
	c.slots[ClassSlotName] = sym
	c.slots[ClassSlotStorage] = smallInteger(int(storage))
	c.slots[ClassSlotLength] = smallInteger(0)
	c.slots[ClassSlotFields] = rt.boot.EmptyArray

	class := c.object()
	if _, _, err := rt.classes.Put(name, class); err != nil {
		return Null, err
	}
	return class, nil
}

// DeclareFields sets the instance field names of class, and with them its
// preferred length. Declaring the same names again leaves the class unchanged.
func (rt *Runtime) DeclareFields(class Object, names ...string) error {
	const op = "vm.DeclareFields"
	slots, err := rt.classSlots(op, class)
	if err != nil {
		return err
	}

	syms := make([]Object, len(names))
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if _, dup := seen[name]; dup {
			return segerr.Newf(segerr.Invalid, op, "duplicate field name %q", name)
		}
		seen[name] = struct{}{}
		if syms[i], err = rt.symbols.InternString(name); err != nil {
			return err
		}
	}

	if current, err := rt.ArrayItems(slots[ClassSlotFields]); err == nil && sameObjects(current, syms) {
		return nil
	}
	slots[ClassSlotLength] = smallInteger(len(syms))
	if len(syms) == 0 {
		slots[ClassSlotFields] = rt.boot.EmptyArray
	} else {
		slots[ClassSlotFields] = rt.Array(syms...)
	}
	return nil
}

func sameObjects(a, b []Object) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// ClassName returns the name of class.
func (rt *Runtime) ClassName(class Object) (string, error) {
	slots, err := rt.classSlots("vm.ClassName", class)
	if err != nil {
		return "", err
	}
	name, err := BufferContents(slots[ClassSlotName])
	if err != nil {
		return "", err
	}
	return string(name), nil
}

// ClassStorage returns the storage kind declared by class. For Float this is
// the immediate encoding; floats that need all 64 bits are boxed buffers,
// which StorageOf reports per value.
func (rt *Runtime) ClassStorage(class Object) (Storage, error) {
	const op = "vm.ClassStorage"
	slots, err := rt.classSlots(op, class)
	if err != nil {
		return 0, err
	}
	v, err := IntegerValue(slots[ClassSlotStorage])
	if err != nil || v < int64(StorageImmediate) || v > int64(StorageSlotted) {
		return 0, segerr.New(segerr.Invalid, op, "class has no valid storage kind")
	}
	return Storage(v), nil
}

// ClassPreferredLength returns the number of fields a new instance of class
// receives.
func (rt *Runtime) ClassPreferredLength(class Object) (int, error) {
	const op = "vm.ClassPreferredLength"
	slots, err := rt.classSlots(op, class)
	if err != nil {
		return 0, err
	}
	v, err := IntegerValue(slots[ClassSlotLength])
	if err != nil {
		return 0, segerr.New(segerr.Invalid, op, "class preferred length is not an integer")
	}
	return int(v), nil
}

// ClassFields returns the declared field names of class in slot order.
func (rt *Runtime) ClassFields(class Object) ([]string, error) {
	slots, err := rt.classSlots("vm.ClassFields", class)
	if err != nil {
		return nil, err
	}
	items, err := rt.ArrayItems(slots[ClassSlotFields])
	if err != nil {
		return nil, err
	}
	names := make([]string, len(items))
	for i, sym := range items {
		b, err := BufferContents(sym)
		if err != nil {
			return nil, err
		}
		names[i] = string(b)
	}
	return names, nil
}

// FieldIndex returns the slot index of the field called name, or -1 if class
// declares no such field.
func (rt *Runtime) FieldIndex(class Object, name string) (int, error) {
	slots, err := rt.classSlots("vm.FieldIndex", class)
	if err != nil {
		return -1, err
	}
	sym := rt.symbols.GetString(name)
	if sym.IsNull() {
		return -1, nil
	}
	items, err := rt.ArrayItems(slots[ClassSlotFields])
	if err != nil {
		return -1, err
	}
	for i, field := range items {
		if field == sym {
			return i, nil
		}
	}
	return -1, nil
}

// ClassNamed returns the registered class called name.
func (rt *Runtime) ClassNamed(name string) (Object, bool) {
	return rt.classes.Get(name)
}

// ClassCount returns the number of registered classes.
func (rt *Runtime) ClassCount() int {
	return rt.classes.Count()
}

// EachClass calls fn for every registered class, in no particular order.
func (rt *Runtime) EachClass(fn func(class Object) error) error {
	return rt.classes.Each(func(_ string, class Object) error {
		return fn(class)
	})
}

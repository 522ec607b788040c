package vm

import (
	"unsafe"

	"github.com/chazu/segment/segerr"
)

// Storage describes how the instances of a class are represented.
type Storage uint8

const (
	// StorageImmediate instances live entirely in the Object word.
	StorageImmediate Storage = iota + 1

	// StorageBuffer instances hold an immutable byte payload.
	StorageBuffer

	// StorageSlotted instances hold an array of Object fields.
	StorageSlotted
)

func (s Storage) String() string {
	switch s {
	case StorageImmediate:
		return "immediate"
	case StorageBuffer:
		return "buffer"
	case StorageSlotted:
		return "slotted"
	}
	return "unknown"
}

func (s Storage) valid() bool {
	return s >= StorageImmediate && s <= StorageSlotted
}

// ---------------------------------------------------------------------------
// Heap layout
// ---------------------------------------------------------------------------

// header is the first field of every heap allocation. An Object's ref points
// at it, and the concrete allocation is recovered from the storage kind.
type header struct {
	class   Object
	storage Storage
}

// bufferObject backs heap strings, symbols and boxed floats. Its bytes never
// change after construction.
type bufferObject struct {
	header
	kind  immediateKind
	bytes []byte
}

// slottedObject backs class instances, arrays and classes themselves.
type slottedObject struct {
	header
	abandoned bool
	slots     []Object
}

func newBuffer(class Object, kind immediateKind, contents []byte) Object {
	b := &bufferObject{
		header: header{class: class, storage: StorageBuffer},
		kind:   kind,
		bytes:  append([]byte(nil), contents...),
	}
	return Object{ref: &b.header}
}

func newSlotted(class Object, length int, fill Object) *slottedObject {
	s := &slottedObject{
		header: header{class: class, storage: StorageSlotted},
		slots:  make([]Object, length),
	}
	for i := range s.slots {
		s.slots[i] = fill
	}
	return s
}

func (s *slottedObject) object() Object {
	return Object{ref: &s.header}
}

func (o Object) buffer() (*bufferObject, bool) {
	if o.ref == nil || o.ref.storage != StorageBuffer {
		return nil, false
	}
	return (*bufferObject)(unsafe.Pointer(o.ref)), true
}

func (o Object) slotted() (*slottedObject, bool) {
	if o.ref == nil || o.ref.storage != StorageSlotted {
		return nil, false
	}
	return (*slottedObject)(unsafe.Pointer(o.ref)), true
}

// live returns the slotted allocation behind o, rejecting other
// representations and abandoned allocations.
func (o Object) live(op string) (*slottedObject, error) {
	s, ok := o.slotted()
	if !ok {
		return nil, segerr.New(segerr.Type, op, "not a slotted object")
	}
	if s.abandoned {
		return nil, segerr.New(segerr.Invalid, op, "slotted object was abandoned by a grow")
	}
	return s, nil
}

// ---------------------------------------------------------------------------
// Slotted instances
// ---------------------------------------------------------------------------

// Slotted returns a new instance of class with every field set to the none
// singleton. class must be a Class that declares slotted storage.
func (rt *Runtime) Slotted(class Object) (Object, error) {
	const op = "vm.Slotted"
	if class.IsImmediate() {
		return Null, segerr.New(segerr.Type, op, "class is an immediate")
	}
	if !rt.IsClass(class) {
		return Null, segerr.New(segerr.Type, op, "not an instance of Class")
	}
	c, _ := class.slotted()
	storage, err := rt.ClassStorage(class)
	if err != nil {
		return Null, err
	}
	if storage != StorageSlotted {
		return Null, segerr.Newf(segerr.Type, op, "class declares %s storage", storage)
	}
	n, err := IntegerValue(c.slots[ClassSlotLength])
	if err != nil {
		return Null, segerr.New(segerr.Invalid, op, "class preferred length is not an integer")
	}
	if n < 0 || n > maxSlots {
		return Null, segerr.Newf(segerr.Memory, op, "cannot allocate %d fields", n)
	}
	return newSlotted(class, int(n), rt.boot.None).object(), nil
}

// maxSlots bounds a single slotted allocation.
const maxSlots = 1 << 30

// SlottedLength returns the number of fields in a slotted object.
func SlottedLength(o Object) (int, error) {
	s, err := o.live("vm.SlottedLength")
	if err != nil {
		return 0, err
	}
	return len(s.slots), nil
}

// SlotAt returns field i of a slotted object. Valid indices are
// 0 <= i < length.
func SlotAt(o Object, i int) (Object, error) {
	const op = "vm.SlotAt"
	s, err := o.live(op)
	if err != nil {
		return Null, err
	}
	if i < 0 || i >= len(s.slots) {
		return Null, segerr.Newf(segerr.Range, op, "index %d out of range [0, %d)", i, len(s.slots))
	}
	return s.slots[i], nil
}

// SlotAtPut stores v in field i of a slotted object.
func SlotAtPut(o Object, i int, v Object) error {
	const op = "vm.SlotAtPut"
	s, err := o.live(op)
	if err != nil {
		return err
	}
	if i < 0 || i >= len(s.slots) {
		return segerr.Newf(segerr.Range, op, "index %d out of range [0, %d)", i, len(s.slots))
	}
	s.slots[i] = v
	return nil
}

// Grow returns a slotted object with at least length fields. If o is already
// long enough it is returned unchanged. Otherwise a new allocation of the same
// class receives o's fields in order, the remaining fields are set to the none
// singleton, and o is abandoned: every later access through o fails.
//
// Classes and the none and empty-array singletons cannot be grown.
func (rt *Runtime) Grow(o Object, length int) (Object, error) {
	const op = "vm.Grow"
	s, err := o.live(op)
	if err != nil {
		return Null, err
	}
	if rt.IsClass(o) || o == rt.boot.None || o == rt.boot.EmptyArray {
		return Null, segerr.New(segerr.Type, op, "classes and bootstrap singletons cannot be grown")
	}
	if length < 0 || length > maxSlots {
		return Null, segerr.Newf(segerr.Range, op, "length %d out of range", length)
	}
	if len(s.slots) >= length {
		return o, nil
	}

	grown := newSlotted(s.class, length, rt.boot.None)
	copy(grown.slots, s.slots)
	s.abandoned = true
	s.slots = nil
	return grown.object(), nil
}

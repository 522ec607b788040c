package vm

import (
	"github.com/chazu/segment/segerr"
)

// Array returns a new Array holding items.
func (rt *Runtime) Array(items ...Object) Object {
	a := newSlotted(rt.boot.ArrayClass, len(items), Null)
	copy(a.slots, items)
	return a.object()
}

func (rt *Runtime) array(op string, o Object) (*slottedObject, error) {
	s, err := o.live(op)
	if err != nil {
		return nil, err
	}
	if s.class != rt.boot.ArrayClass {
		return nil, segerr.New(segerr.Type, op, "not an Array")
	}
	return s, nil
}

// ArrayLength returns the number of elements of an Array.
func (rt *Runtime) ArrayLength(o Object) (int, error) {
	a, err := rt.array("vm.ArrayLength", o)
	if err != nil {
		return 0, err
	}
	return len(a.slots), nil
}

// ArrayAt returns element i of an Array.
func (rt *Runtime) ArrayAt(o Object, i int) (Object, error) {
	if _, err := rt.array("vm.ArrayAt", o); err != nil {
		return Null, err
	}
	return SlotAt(o, i)
}

// ArrayAtPut stores v as element i of an Array.
func (rt *Runtime) ArrayAtPut(o Object, i int, v Object) error {
	if _, err := rt.array("vm.ArrayAtPut", o); err != nil {
		return err
	}
	return SlotAtPut(o, i, v)
}

// ArrayItems returns a copy of the elements of an Array.
func (rt *Runtime) ArrayItems(o Object) ([]Object, error) {
	a, err := rt.array("vm.ArrayItems", o)
	if err != nil {
		return nil, err
	}
	return append([]Object(nil), a.slots...), nil
}

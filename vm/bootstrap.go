package vm

import (
	"fmt"
)

// Bootstrap holds the well-known classes and singletons of a runtime. It is
// filled in once by NewRuntime and never changes afterwards.
type Bootstrap struct {
	ClassClass   Object
	NoneClass    Object
	IntegerClass Object
	FloatClass   Object
	StringClass  Object
	SymbolClass  Object
	ArrayClass   Object
	BlockClass   Object

	None       Object // canonical instance of NoneClass
	EmptyArray Object // shared zero-length Array
}

// Field names of every class, in ClassSlot order.
var classFieldNames = []string{"name", "storage", "preferred_length", "instance_variables"}

// Field names of Block instances.
var blockFieldNames = []string{"name", "version", "literal_pool", "entry_block"}

// bootstrap builds the class graph. Class metadata is itself described by a
// class, so the steps below must run in this order.
func (rt *Runtime) bootstrap() error {
	b := &rt.boot

	// Phase 1: Intern the metadata symbols. Heap symbols created here have no
	// class until Symbol exists.
	for _, name := range classFieldNames {
		if _, err := rt.symbols.InternString(name); err != nil {
			return fmt.Errorf("interning %s: %w", name, err)
		}
	}

	// Phase 2: Hand-build Class, whose class is itself.
	classClass := newSlotted(Null, ClassSlotCount, Null)
	classClass.class = classClass.object()
	b.ClassClass = classClass.object()
	name, err := rt.symbols.InternString("Class")
	if err != nil {
		return err
	}
	classClass.slots[ClassSlotName] = name
	classClass.slots[ClassSlotStorage] = smallInteger(int(StorageSlotted))
	classClass.slots[ClassSlotLength] = smallInteger(ClassSlotCount)
	if _, _, err := rt.classes.Put("Class", b.ClassClass); err != nil {
		return err
	}

	// Phase 3: None and its canonical instance. The instance has no fields,
	// so it can exist before it is available as a fill value.
	if b.NoneClass, err = rt.Class("None", StorageSlotted); err != nil {
		return err
	}
	if b.None, err = rt.Slotted(b.NoneClass); err != nil {
		return err
	}

	// Phase 4: Array and the empty array.
	if b.ArrayClass, err = rt.Class("Array", StorageSlotted); err != nil {
		return err
	}
	b.EmptyArray = newSlotted(b.ArrayClass, 0, b.None).object()

	// Phase 5: Backfill the field-name arrays of the classes created before
	// Array existed.
	if err := rt.EachClass(func(class Object) error {
		c, _ := class.slotted()
		if c.slots[ClassSlotFields].IsNull() {
			c.slots[ClassSlotFields] = b.EmptyArray
		}
		return nil
	}); err != nil {
		return err
	}

	// Phase 6: Ordinary classes.
	for _, def := range []struct {
		dst     *Object
		name    string
		storage Storage
	}{
		{&b.IntegerClass, "Integer", StorageImmediate},
		{&b.FloatClass, "Float", StorageImmediate},
		{&b.StringClass, "String", StorageBuffer},
		{&b.SymbolClass, "Symbol", StorageBuffer},
		{&b.BlockClass, "Block", StorageSlotted},
	} {
		if *def.dst, err = rt.Class(def.name, def.storage); err != nil {
			return err
		}
	}

	// Phase 7: Give the symbols interned in phase 1 their class.
	if err := rt.symbols.Each(func(sym Object) error {
		if sym.ref.class.IsNull() {
			sym.ref.class = b.SymbolClass
		}
		return nil
	}); err != nil {
		return err
	}

	// Phase 8: Field declarations.
	if err := rt.DeclareFields(b.ClassClass, classFieldNames...); err != nil {
		return fmt.Errorf("declaring Class fields: %w", err)
	}
	if err := rt.DeclareFields(b.BlockClass, blockFieldNames...); err != nil {
		return fmt.Errorf("declaring Block fields: %w", err)
	}
	return nil
}

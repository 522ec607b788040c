package vm

import (
	"encoding/binary"
	"math"

	"github.com/chazu/segment/segerr"
)

// Object is a tagged reference to a runtime value.
//
// An Object is either an immediate, whose whole value lives in bits, or a
// reference to a heap allocation whose first field is the common header.
//
// Immediate word layout (bit 0 least significant):
//   - bit 0: immediate flag
//   - bits 1-4: kind (integer, float, string, symbol)
//   - bits 5-7: byte length of a packed string or symbol
//   - bits 8-63: 56-bit body
//
// Objects are comparable; == is identity.
type Object struct {
	bits uint64
	ref  *header
}

// Immediate layout constants
const (
	immediateFlag uint64 = 1

	kindShift         = 1
	kindBits          = 4
	kindMask   uint64 = (1<<kindBits - 1) << kindShift
	lengthShift       = kindShift + kindBits
	lengthBits        = 3
	lengthMask uint64 = (1<<lengthBits - 1) << lengthShift
	bodyShift         = lengthShift + lengthBits
	bodyBits          = 64 - bodyShift

	// Integers keep two guard bits of the body clear so that every immediate
	// integer is exactly representable as a float64.
	integerBits = bodyBits - 2
)

// ImmediateBytes is the longest string or symbol packed into an immediate.
const ImmediateBytes = bodyBits / 8

// Immediate integer range
const (
	MaxImmediateInt int64 = 1<<(integerBits-1) - 1 // 9,007,199,254,740,991
	MinImmediateInt int64 = -(1 << (integerBits - 1))
)

type immediateKind uint8

const (
	kindInteger immediateKind = iota + 1
	kindFloat
	kindString
	kindSymbol
)

// Null is the zero Object. It refers to nothing and has no class.
var Null Object

// NoSymbol is returned by symbol lookups that find nothing.
var NoSymbol = Null

// ---------------------------------------------------------------------------
// Predicates
// ---------------------------------------------------------------------------

// IsImmediate reports whether o is encoded entirely in its own bits.
func (o Object) IsImmediate() bool {
	return o.bits&immediateFlag != 0
}

// IsHeap reports whether o refers to a heap allocation.
func (o Object) IsHeap() bool {
	return o.ref != nil
}

// IsNull reports whether o is the zero Object.
func (o Object) IsNull() bool {
	return o == Null
}

func (o Object) kind() immediateKind {
	return immediateKind((o.bits & kindMask) >> kindShift)
}

func (o Object) length() int {
	return int((o.bits & lengthMask) >> lengthShift)
}

func (o Object) body() uint64 {
	return o.bits >> bodyShift
}

// is reports whether o is an immediate of kind k or a buffer built as one.
func (o Object) is(k immediateKind) bool {
	if o.IsImmediate() {
		return o.kind() == k
	}
	b, ok := o.buffer()
	return ok && b.kind == k
}

// IsInteger reports whether o is an integer.
func (o Object) IsInteger() bool {
	return o.IsImmediate() && o.kind() == kindInteger
}

// IsFloat reports whether o is a float, immediate or boxed.
func (o Object) IsFloat() bool { return o.is(kindFloat) }

// IsString reports whether o is a string, immediate or heap.
func (o Object) IsString() bool { return o.is(kindString) }

// IsSymbol reports whether o is a symbol, immediate or heap.
func (o Object) IsSymbol() bool { return o.is(kindSymbol) }

// Same reports whether a and b are the same instance. Immediates are the same
// when their payloads are identical; heap objects only when they share an
// allocation.
func Same(a, b Object) bool {
	return a == b
}

func immediate(k immediateKind, length int, body uint64) Object {
	return Object{bits: immediateFlag |
		uint64(k)<<kindShift |
		uint64(length)<<lengthShift |
		body<<bodyShift}
}

// ---------------------------------------------------------------------------
// Integers
// ---------------------------------------------------------------------------

// Integer returns the immediate integer v. Values outside
// [MinImmediateInt, MaxImmediateInt] are a Range error.
func Integer(v int64) (Object, error) {
	if v < MinImmediateInt || v > MaxImmediateInt {
		return Null, segerr.Newf(segerr.Range, "vm.Integer", "%d does not fit an immediate integer", v)
	}
	return Object{bits: immediateFlag | uint64(kindInteger)<<kindShift | uint64(v)<<bodyShift}, nil
}

// smallInteger encodes a value known to be in range.
func smallInteger(v int) Object {
	o, _ := Integer(int64(v))
	return o
}

// IntegerValue returns the value of an integer Object.
func IntegerValue(o Object) (int64, error) {
	if !o.IsInteger() {
		return 0, segerr.New(segerr.Type, "vm.IntegerValue", "not an integer")
	}
	// Arithmetic shift sign-extends the body.
	return int64(o.bits) >> bodyShift, nil
}

// ---------------------------------------------------------------------------
// Floats
// ---------------------------------------------------------------------------

// floatDropBits are the low IEEE bits an immediate float cannot hold.
const floatDropBits = bodyShift

// Float returns f as an Object. Floats whose low mantissa bits are zero are
// immediate; the rest are boxed in an 8-byte buffer of class Float.
func (rt *Runtime) Float(f float64) Object {
	bits := math.Float64bits(f)
	if bits&(1<<floatDropBits-1) == 0 {
		return immediate(kindFloat, 0, bits>>floatDropBits)
	}
	var raw [8]byte
	binary.LittleEndian.PutUint64(raw[:], bits)
	return newBuffer(rt.boot.FloatClass, kindFloat, raw[:])
}

// FloatValue returns the value of a float Object.
func FloatValue(o Object) (float64, error) {
	if o.IsImmediate() && o.kind() == kindFloat {
		return math.Float64frombits(o.body() << floatDropBits), nil
	}
	if b, ok := o.buffer(); ok && b.kind == kindFloat {
		return math.Float64frombits(binary.LittleEndian.Uint64(b.bytes)), nil
	}
	return 0, segerr.New(segerr.Type, "vm.FloatValue", "not a float")
}

// ---------------------------------------------------------------------------
// Strings and symbols
// ---------------------------------------------------------------------------

type byteString interface {
	~string | ~[]byte
}

// pack stores up to ImmediateBytes bytes little-endian in an immediate body.
func pack[T byteString](s T) uint64 {
	var body uint64
	for i := 0; i < len(s); i++ {
		body |= uint64(s[i]) << (8 * i)
	}
	return body
}

func appendPacked(dst []byte, o Object) []byte {
	body := o.body()
	for i := 0; i < o.length(); i++ {
		dst = append(dst, byte(body>>(8*i)))
	}
	return dst
}

func makeString[T byteString](rt *Runtime, s T) Object {
	if len(s) <= ImmediateBytes {
		return immediate(kindString, len(s), pack(s))
	}
	return newBuffer(rt.boot.StringClass, kindString, []byte(s))
}

// String returns a string Object holding a copy of s. Strings of up to
// ImmediateBytes bytes are immediate and do not allocate.
func (rt *Runtime) String(s []byte) Object {
	return makeString(rt, s)
}

// CString is String for a Go string.
func (rt *Runtime) CString(s string) Object {
	return makeString(rt, s)
}

// Symbol returns the interned symbol named name.
func (rt *Runtime) Symbol(name []byte) (Object, error) {
	return rt.symbols.Intern(name)
}

// CSymbol is Symbol for a Go string.
func (rt *Runtime) CSymbol(name string) (Object, error) {
	return rt.symbols.InternString(name)
}

// BufferContents returns a copy of the bytes of a string or symbol.
func BufferContents(o Object) ([]byte, error) {
	return AppendBufferContents(nil, o)
}

// AppendBufferContents appends the bytes of a string or symbol to dst.
func AppendBufferContents(dst []byte, o Object) ([]byte, error) {
	if o.IsImmediate() {
		if k := o.kind(); k == kindString || k == kindSymbol {
			return appendPacked(dst, o), nil
		}
	} else if b, ok := o.buffer(); ok && (b.kind == kindString || b.kind == kindSymbol) {
		return append(dst, b.bytes...), nil
	}
	return dst, segerr.New(segerr.Type, "vm.BufferContents", "not a string or symbol")
}

// ---------------------------------------------------------------------------
// Class and storage queries
// ---------------------------------------------------------------------------

// ClassOf returns the class of o. Immediates map to the bootstrap class for
// their kind.
func (rt *Runtime) ClassOf(o Object) (Object, error) {
	const op = "vm.ClassOf"
	if o.IsImmediate() {
		switch o.kind() {
		case kindInteger:
			return rt.boot.IntegerClass, nil
		case kindFloat:
			return rt.boot.FloatClass, nil
		case kindString:
			return rt.boot.StringClass, nil
		case kindSymbol:
			return rt.boot.SymbolClass, nil
		}
		return Null, segerr.Newf(segerr.Invalid, op, "unknown immediate kind %d", o.kind())
	}
	if o.ref == nil {
		return Null, segerr.New(segerr.Invalid, op, "null object has no class")
	}
	return o.ref.class, nil
}

// StorageOf returns how o is represented. It can differ from the storage its
// class declares: a boxed Float is a buffer.
func StorageOf(o Object) (Storage, error) {
	const op = "vm.StorageOf"
	if o.IsImmediate() {
		switch o.kind() {
		case kindInteger, kindFloat, kindString, kindSymbol:
			return StorageImmediate, nil
		}
		return 0, segerr.Newf(segerr.Invalid, op, "unknown immediate kind %d", o.kind())
	}
	if o.ref == nil {
		return 0, segerr.New(segerr.Invalid, op, "null object has no storage")
	}
	return o.ref.storage, nil
}

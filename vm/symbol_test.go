package vm

import (
	"fmt"
	"testing"

	"github.com/chazu/segment/manifest"
)

func TestInternImmediate(t *testing.T) {
	rt := newTestRuntime(t)
	st := rt.Symbols()
	count := st.Count()

	abc1, err := st.InternString("abc")
	if err != nil {
		t.Fatal(err)
	}
	abc2, err := st.Intern([]byte("abc"))
	if err != nil {
		t.Fatal(err)
	}
	bcd, err := st.InternString("bcd")
	if err != nil {
		t.Fatal(err)
	}

	if !abc1.IsImmediate() || !bcd.IsImmediate() {
		t.Error("3-byte symbols should be immediate")
	}
	if !Same(abc1, abc2) {
		t.Error("intern(abc) twice should give the same symbol")
	}
	if Same(abc1, bcd) {
		t.Error("intern(abc) and intern(bcd) should differ")
	}
	if !Same(st.GetString("abc"), abc1) {
		t.Error("get(abc) should match intern(abc)")
	}
	if st.Count() != count {
		t.Errorf("immediate symbols entered the table: count %d -> %d", count, st.Count())
	}
}

func TestInternHeap(t *testing.T) {
	rt := newTestRuntime(t)
	st := rt.Symbols()
	count := st.Count()
	name := []byte("twelve bytes")

	a, err := st.Intern(name)
	if err != nil {
		t.Fatal(err)
	}
	name[0] = 'T'
	b, err := st.InternString("twelve bytes")
	if err != nil {
		t.Fatal(err)
	}

	if !a.IsHeap() || !a.IsSymbol() {
		t.Fatal("12-byte symbol should be a heap symbol")
	}
	if !Same(a, b) {
		t.Error("interning the same 12-byte name twice should give the same symbol")
	}
	if st.Count() != count+1 {
		t.Errorf("Count = %d, want %d", st.Count(), count+1)
	}
	if got := st.Get([]byte("twelve bytes")); !Same(got, a) {
		t.Error("Get should return the interned symbol")
	}
	contents, _ := BufferContents(a)
	if string(contents) != "twelve bytes" {
		t.Errorf("BufferContents = %q", contents)
	}
	if class, _ := rt.ClassOf(a); class != rt.boot.SymbolClass {
		t.Errorf("ClassOf(symbol) = %v, want Symbol", class)
	}
}

func TestSymbolGetMissing(t *testing.T) {
	rt := newTestRuntime(t)
	st := rt.Symbols()
	count := st.Count()

	if got := st.GetString("never interned"); got != NoSymbol || !got.IsNull() {
		t.Errorf("GetString(missing) = %v, want NoSymbol", got)
	}
	if got := st.Get([]byte("never interned")); got != NoSymbol {
		t.Errorf("Get(missing) = %v, want NoSymbol", got)
	}
	if st.Count() != count {
		t.Error("Get inserted into the table")
	}
}

func TestSymbolsAndStringsDiffer(t *testing.T) {
	rt := newTestRuntime(t)

	for _, name := range []string{"abc", "a much longer name"} {
		sym, err := rt.CSymbol(name)
		if err != nil {
			t.Fatal(err)
		}
		str := rt.CString(name)
		if Same(sym, str) {
			t.Errorf("symbol and string %q are the same", name)
		}
		if !sym.IsSymbol() || sym.IsString() {
			t.Errorf("symbol %q has the wrong kind", name)
		}
		if !str.IsString() || str.IsSymbol() {
			t.Errorf("string %q has the wrong kind", name)
		}
	}
}

// The scenario a client sees: short names are distinct immediates, a long name
// interns to one heap object, and an oversized integer is rejected.
func TestInternScenario(t *testing.T) {
	rt := newTestRuntime(t)

	abc, _ := rt.CSymbol("abc")
	bcd, _ := rt.CSymbol("bcd")
	if !abc.IsImmediate() || !bcd.IsImmediate() || Same(abc, bcd) {
		t.Error("abc and bcd should be two distinct immediate symbols")
	}

	first, _ := rt.Symbol([]byte("hello, world"))
	second, _ := rt.Symbol([]byte("hello, world"))
	if !first.IsHeap() || !Same(first, second) {
		t.Error("a 12-byte name should intern to one heap symbol")
	}

	if _, err := Integer(9007199254740992); err == nil {
		t.Error("Integer(9007199254740992) should fail")
	}
}

func TestSymbolTableGrowth(t *testing.T) {
	cfg := manifest.DefaultSymbolTable()
	cfg.InitialCapacity = 4
	rt, err := NewRuntimeWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	st := rt.Symbols()

	syms := make(map[string]Object)
	for i := 0; i < 500; i++ {
		name := fmt.Sprintf("symbol-%04d", i)
		sym, err := st.InternString(name)
		if err != nil {
			t.Fatalf("InternString(%s): %v", name, err)
		}
		syms[name] = sym
	}

	if st.Capacity() <= 4 {
		t.Errorf("Capacity = %d, want growth past 4", st.Capacity())
	}
	if load := float64(st.Count()) / float64(st.Capacity()); load >= st.Settings().MaxLoad {
		t.Errorf("load %v >= max load %v", load, st.Settings().MaxLoad)
	}
	for name, want := range syms {
		if got := st.GetString(name); !Same(got, want) {
			t.Errorf("GetString(%s) lost its symbol after growth", name)
		}
	}

	seen := 0
	if err := st.Each(func(Object) error { seen++; return nil }); err != nil {
		t.Fatal(err)
	}
	if seen != st.Count() {
		t.Errorf("Each visited %d symbols, Count = %d", seen, st.Count())
	}
}

func TestSymbolTableFromEnvironment(t *testing.T) {
	t.Setenv(manifest.EnvInitCap, "16")
	t.Setenv(manifest.EnvMaxLoad, "not a number")
	t.Setenv(manifest.EnvGrowth, "3")

	rt, err := NewRuntime()
	if err != nil {
		t.Fatal(err)
	}
	st := rt.Symbols()
	if st.Capacity() != 16 {
		t.Errorf("Capacity = %d, want 16", st.Capacity())
	}
	if st.Settings().MaxLoad != manifest.DefaultSymbolTable().MaxLoad {
		t.Errorf("MaxLoad = %v, want the default", st.Settings().MaxLoad)
	}
	if st.Settings().TableGrowthFactor != 3 {
		t.Errorf("TableGrowthFactor = %d, want 3", st.Settings().TableGrowthFactor)
	}
}

func TestNewRuntimeRejectsBadConfig(t *testing.T) {
	cfg := manifest.DefaultSymbolTable()
	cfg.InitialCapacity = 0
	if _, err := NewRuntimeWithConfig(cfg); err == nil {
		t.Error("expected error for zero capacity")
	}
}

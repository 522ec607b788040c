package vm

import (
	"math"
	"testing"
)

func TestDictionaryValueKeys(t *testing.T) {
	rt := newTestRuntime(t)
	d, err := NewDictionary(4)
	if err != nil {
		t.Fatal(err)
	}
	one, _ := Integer(1)
	also, _ := Integer(1)

	if err := d.AtPut(rt.CString("a long string key"), one); err != nil {
		t.Fatal(err)
	}
	if got, ok := d.At(rt.CString("a long string key")); !ok || got != one {
		t.Errorf("At(equal heap string) = %v, %v, want 1", got, ok)
	}

	sym, _ := rt.CSymbol("a long string key")
	if _, ok := d.At(sym); ok {
		t.Error("a symbol should not match a string with the same bytes")
	}

	if err := d.AtPut(one, rt.CString("one")); err != nil {
		t.Fatal(err)
	}
	if got, ok := d.At(also); !ok || got != rt.CString("one") {
		t.Errorf("At(1) = %v, %v", got, ok)
	}

	if err := d.AtPut(rt.Float(math.Pi), one); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.At(rt.Float(math.Pi)); !ok {
		t.Error("boxed floats with equal values should match")
	}

	p1, _ := rt.Slotted(rt.boot.BlockClass)
	p2, _ := rt.Slotted(rt.boot.BlockClass)
	if err := d.AtPut(p1, one); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.At(p2); ok {
		t.Error("distinct instances should not match")
	}
	if d.Len() != 4 {
		t.Errorf("Len = %d, want 4", d.Len())
	}
}

func TestDictionaryFloatKeysCompareBits(t *testing.T) {
	rt := newTestRuntime(t)
	d, err := NewDictionary(4)
	if err != nil {
		t.Fatal(err)
	}
	one, _ := Integer(1)
	two, _ := Integer(2)

	if err := d.AtPut(rt.Float(0), one); err != nil {
		t.Fatal(err)
	}
	if err := d.AtPut(rt.Float(math.Copysign(0, -1)), two); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 0.0 and -0.0 as separate keys", d.Len())
	}
	if got, _ := d.At(rt.Float(0)); got != one {
		t.Errorf("At(0.0) = %v, want 1", got)
	}

	nan := rt.Float(math.NaN())
	if err := d.AtPut(nan, one); err != nil {
		t.Fatal(err)
	}
	if _, ok := d.At(rt.Float(math.NaN())); !ok {
		t.Error("a NaN with the same bits should match")
	}
}

func TestDictionaryAtIfAbsentPut(t *testing.T) {
	rt := newTestRuntime(t)
	d, err := NewDictionary(8)
	if err != nil {
		t.Fatal(err)
	}
	first, _ := Integer(1)
	second, _ := Integer(2)
	key := rt.CString("key")

	got, err := d.AtIfAbsentPut(key, first)
	if err != nil || got != first {
		t.Fatalf("AtIfAbsentPut = %v, %v, want 1", got, err)
	}
	got, err = d.AtIfAbsentPut(key, second)
	if err != nil || got != first {
		t.Errorf("AtIfAbsentPut on present key = %v, %v, want 1", got, err)
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
}

func TestDictionaryGrowth(t *testing.T) {
	d, err := NewDictionary(1)
	if err != nil {
		t.Fatal(err)
	}

	const n = 1000
	for i := int64(0); i < n; i++ {
		k, _ := Integer(i)
		v, _ := Integer(i * i)
		if err := d.AtPut(k, v); err != nil {
			t.Fatalf("AtPut(%d): %v", i, err)
		}
	}
	if d.Len() != n {
		t.Fatalf("Len = %d, want %d", d.Len(), n)
	}

	var sum int64
	err = d.Each(func(k, v Object) error {
		key, _ := IntegerValue(k)
		value, _ := IntegerValue(v)
		if value != key*key {
			t.Errorf("entry %d = %d", key, value)
		}
		sum += key
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if sum != n*(n-1)/2 {
		t.Errorf("sum of keys = %d, want %d", sum, n*(n-1)/2)
	}
}

func TestIdentityDictionary(t *testing.T) {
	rt := newTestRuntime(t)
	d, err := NewIdentityDictionary(4)
	if err != nil {
		t.Fatal(err)
	}
	one, _ := Integer(1)
	two, _ := Integer(2)

	a := rt.CString("same bytes, two objects")
	b := rt.CString("same bytes, two objects")
	if err := d.AtPut(a, one); err != nil {
		t.Fatal(err)
	}
	if err := d.AtPut(b, two); err != nil {
		t.Fatal(err)
	}
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
	if got, ok := d.At(a); !ok || got != one {
		t.Errorf("At(a) = %v, %v, want 1", got, ok)
	}
	if got, ok := d.At(b); !ok || got != two {
		t.Errorf("At(b) = %v, %v, want 2", got, ok)
	}

	// Immediates are identical by value.
	if err := d.AtPut(rt.CString("short"), one); err != nil {
		t.Fatal(err)
	}
	if got, err := d.AtIfAbsentPut(rt.CString("short"), two); err != nil || got != one {
		t.Errorf("AtIfAbsentPut(short) = %v, %v, want 1", got, err)
	}
	if _, ok := d.At(rt.None()); ok {
		t.Error("At(none) found an entry that was never stored")
	}

	keys := 0
	err = d.Each(func(k, v Object) error {
		if got, ok := d.At(k); !ok || got != v {
			t.Errorf("Each key %v does not map back to its value", k)
		}
		keys++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if keys != 3 {
		t.Errorf("Each visited %d entries, want 3", keys)
	}
}

func TestIdentityDictionaryGrowth(t *testing.T) {
	rt := newTestRuntime(t)
	d, err := NewIdentityDictionary(2)
	if err != nil {
		t.Fatal(err)
	}

	instances := make([]Object, 300)
	for i := range instances {
		instances[i], err = rt.Slotted(rt.boot.BlockClass)
		if err != nil {
			t.Fatal(err)
		}
		v, _ := Integer(int64(i))
		if err := d.AtPut(instances[i], v); err != nil {
			t.Fatal(err)
		}
	}
	for i, inst := range instances {
		got, ok := d.At(inst)
		if !ok {
			t.Fatalf("instance %d missing", i)
		}
		if v, _ := IntegerValue(got); v != int64(i) {
			t.Errorf("instance %d maps to %d", i, v)
		}
	}
}

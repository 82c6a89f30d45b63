package rtarray

import (
	"testing"

	"sn/internal/rtarena"
)

func TestAllocZeroLength(t *testing.T) {
	a := rtarena.Create(nil)
	arr := AllocLong(a, 0, 0)
	if Length(arr) != 0 {
		t.Fatalf("expected length 0, got %d", Length(arr))
	}
}

func TestPushGrowsAndPreservesOrder(t *testing.T) {
	a := rtarena.Create(nil)
	arr := AllocLong(a, 0, 0)
	for i := int64(0); i < 5; i++ {
		arr = Push(arr, i*10)
	}
	if Length(arr) != 5 {
		t.Fatalf("expected length 5, got %d", Length(arr))
	}
	for i, v := range Elements(arr) {
		if v != int64(i)*10 {
			t.Fatalf("element %d: got %d want %d", i, v, int64(i)*10)
		}
	}
}

func TestPopReducesLength(t *testing.T) {
	a := rtarena.Create(nil)
	arr := Create(a, []int64{1, 2, 3})
	v := Pop(arr)
	if v != 3 || Length(arr) != 2 {
		t.Fatalf("pop should return 3 and leave length 2, got v=%d len=%d", v, Length(arr))
	}
}

func TestConcatLeavesInputsUnchanged(t *testing.T) {
	a := rtarena.Create(nil)
	x := Create(a, []int64{1, 2})
	y := Create(a, []int64{3, 4})
	z := Concat(a, x, y)
	if Length(x) != 2 || Length(y) != 2 {
		t.Fatalf("inputs should be unchanged")
	}
	if Length(z) != 4 {
		t.Fatalf("expected concat length 4, got %d", Length(z))
	}
}

func TestSliceNegativeIndices(t *testing.T) {
	a := rtarena.Create(nil)
	arr := Create(a, []int64{0, 1, 2, 3, 4})
	s := Slice(a, arr, -3, -1, 1)
	got := Elements(s)
	want := []int64{2, 3}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestRevAndRemAndIns(t *testing.T) {
	a := rtarena.Create(nil)
	arr := Create(a, []int64{1, 2, 3})
	r := Rev(a, arr)
	if Elements(r)[0] != 3 || Elements(r)[2] != 1 {
		t.Fatalf("reverse mismatch: %v", Elements(r))
	}
	rem := Rem(a, arr, 1)
	if Length(rem) != 2 || Elements(rem)[1] != 3 {
		t.Fatalf("rem mismatch: %v", Elements(rem))
	}
	ins := Ins(a, arr, 99, 1)
	if Elements(ins)[1] != 99 || Length(ins) != 4 {
		t.Fatalf("ins mismatch: %v", Elements(ins))
	}
}

func TestIndexOfAndContains(t *testing.T) {
	a := rtarena.Create(nil)
	arr := Create(a, []int64{5, 6, 7})
	if IndexOf(arr, 6) != 1 {
		t.Fatalf("expected index 1")
	}
	if IndexOf(arr, 100) != -1 {
		t.Fatalf("expected -1 for absent value")
	}
	if !Contains(arr, 7) || Contains(arr, 100) {
		t.Fatalf("contains mismatch")
	}
}

func TestCloneIsDeepCopy(t *testing.T) {
	a := rtarena.Create(nil)
	arr := Create(a, []int64{1, 2, 3})
	clone := Clone(a, arr)
	Elements(clone)[0] = 999
	if Elements(arr)[0] == 999 {
		t.Fatalf("mutating clone should not affect original")
	}
}

func TestJoinEmptyArrayIsEmptyString(t *testing.T) {
	a := rtarena.Create(nil)
	arr := AllocString(a, 0, "")
	if Join(arr, ",") != "" {
		t.Fatalf("expected empty string for empty array")
	}
	full := Create(a, []string{"a", "b", "c"})
	if Join(full, "-") != "a-b-c" {
		t.Fatalf("got %q", Join(full, "-"))
	}
}

func TestEqSemantics(t *testing.T) {
	a := rtarena.Create(nil)
	x := Create(a, []int64{1, 2})
	y := Create(a, []int64{1, 2})
	z := Create(a, []int64{1, 3})
	if !Eq(x, y) {
		t.Fatalf("expected equal arrays to compare equal")
	}
	if Eq(x, z) {
		t.Fatalf("expected different arrays to compare unequal")
	}
	var nilA, nilB *LongArray
	if !Eq(nilA, nilB) {
		t.Fatalf("nil vs nil should be equal")
	}
	if Eq(nilA, x) {
		t.Fatalf("nil vs non-nil should not be equal")
	}
}

func TestRange(t *testing.T) {
	a := rtarena.Create(nil)
	r := Range(a, 2, 5)
	want := []int64{2, 3, 4}
	got := Elements(r)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
	if Length(Range(a, 5, 2)) != 0 {
		t.Fatalf("start >= end should yield empty array")
	}
}

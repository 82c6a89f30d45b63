package rtstring

import (
	"strings"
	"testing"

	"sn/internal/rtarena"
)

func TestWithCapacityStartsEmpty(t *testing.T) {
	a := rtarena.Create(nil)
	s := WithCapacity(a, 10)
	if Length(s) != 0 || Capacity(s) != 10 {
		t.Fatalf("got length=%d capacity=%d, want 0/10", Length(s), Capacity(s))
	}
}

func TestAppendNoOpOnEmpty(t *testing.T) {
	a := rtarena.Create(nil)
	s := From(a, "hello")
	same := Append(s, "")
	if same.String() != "hello" {
		t.Fatalf("appending empty should be a no-op, got %q", same.String())
	}
}

func TestAppendGrowsAndPreservesContent(t *testing.T) {
	a := rtarena.Create(nil)
	s := WithCapacity(a, 2)
	s = Append(s, "hello world, this is longer than two bytes")
	if s.String() != "hello world, this is longer than two bytes" {
		t.Fatalf("got %q", s.String())
	}
}

func TestAppendAmortizedGrowth(t *testing.T) {
	a := rtarena.Create(nil)
	s := From(a, "")
	var want strings.Builder
	for i := 0; i < 100; i++ {
		s = Append(s, "x")
		want.WriteByte('x')
	}
	if s.String() != want.String() {
		t.Fatalf("got length %d want %d", len(s.String()), want.Len())
	}
}

func TestFromAndEnsureMutable(t *testing.T) {
	a := rtarena.Create(nil)
	s := From(a, "abc")
	if Length(s) != 3 || Capacity(s) != 3 {
		t.Fatalf("From should size capacity to length exactly, got len=%d cap=%d", Length(s), Capacity(s))
	}
	m := EnsureMutable(a, "xyz")
	if m.String() != "xyz" {
		t.Fatalf("got %q", m.String())
	}
}

func TestNilStringLength(t *testing.T) {
	if Length(nil) != 0 || Capacity(nil) != 0 {
		t.Fatalf("nil string should report 0/0")
	}
}

package symtab

import (
	"sync"
	"testing"

	"sn/internal/types"
)

func TestDeclareAndLookup(t *testing.T) {
	st := New()
	if err := st.Declare("x", &Symbol{Name: "x", DeclaredType: types.NewPrimitive(types.Int), Kind: VarKind}); err != nil {
		t.Fatalf("declare failed: %v", err)
	}
	sym, ok := st.Lookup("x")
	if !ok || sym.Name != "x" {
		t.Fatalf("lookup failed")
	}
}

func TestRedeclarationInInnermostScopeFails(t *testing.T) {
	st := New()
	_ = st.Declare("x", &Symbol{Name: "x"})
	if err := st.Declare("x", &Symbol{Name: "x"}); err == nil {
		t.Fatalf("expected redeclaration error")
	}
}

func TestInnerScopeShadowsOuter(t *testing.T) {
	st := New()
	_ = st.Declare("x", &Symbol{Name: "x", DeclaredType: types.NewPrimitive(types.Int)})
	st.OpenScope()
	_ = st.Declare("x", &Symbol{Name: "x", DeclaredType: types.NewPrimitive(types.String)})
	sym, _ := st.Lookup("x")
	if sym.DeclaredType.Kind != types.String {
		t.Fatalf("inner declaration should shadow outer")
	}
	st.CloseScope()
	sym, _ = st.Lookup("x")
	if sym.DeclaredType.Kind != types.Int {
		t.Fatalf("closing inner scope should restore outer binding")
	}
}

func TestCloseScopeDoesNotTouchParent(t *testing.T) {
	st := New()
	_ = st.Declare("outer", &Symbol{Name: "outer"})
	st.OpenScope()
	_ = st.Declare("inner", &Symbol{Name: "inner"})
	st.CloseScope()
	if _, ok := st.Lookup("inner"); ok {
		t.Fatalf("inner symbol should not survive CloseScope")
	}
	if _, ok := st.Lookup("outer"); !ok {
		t.Fatalf("outer symbol should survive child CloseScope")
	}
}

func TestNamespaceResolution(t *testing.T) {
	st := New()
	sub := New()
	_ = sub.Declare("helper", &Symbol{Name: "helper", Kind: FnKind})
	if err := st.DeclareNamespace("strings", sub); err != nil {
		t.Fatalf("declare namespace: %v", err)
	}
	sym, ok := st.Resolve("strings", "helper")
	if !ok || sym.Name != "helper" {
		t.Fatalf("qualified lookup failed")
	}
}

func TestNamespaceAliasShadowing(t *testing.T) {
	st := New()
	outer := New()
	_ = outer.Declare("f", &Symbol{Name: "f"})
	_ = st.DeclareNamespace("ns", outer)

	st.OpenScope()
	inner := New()
	_ = inner.Declare("g", &Symbol{Name: "g"})
	_ = st.DeclareNamespace("ns", inner)

	if _, ok := st.Resolve("ns", "g"); !ok {
		t.Fatalf("inner alias should shadow outer within its scope")
	}
	st.CloseScope()
	if _, ok := st.Resolve("ns", "f"); !ok {
		t.Fatalf("outer alias should be visible again after CloseScope")
	}
}

func TestReservedKeywordCannotBeDeclaredOrAliased(t *testing.T) {
	st := New()
	if err := st.Declare("var", &Symbol{Name: "var"}); err == nil {
		t.Fatalf("expected reserved-keyword error for identifier")
	}
	if err := st.DeclareNamespace("int", New()); err == nil {
		t.Fatalf("expected reserved-keyword error for namespace alias")
	}
}

func TestConcurrentModeSerializesAccess(t *testing.T) {
	st := NewConcurrent()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := "v"
			_ = st.Declare(name, &Symbol{Name: name})
			st.Lookup(name)
		}(i)
	}
	wg.Wait()
	if _, ok := st.Lookup("v"); !ok {
		t.Fatalf("expected v to be declared by one of the goroutines")
	}
}

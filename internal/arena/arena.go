// Package arena is the compile-time allocator that backs every AST,
// parser and type-checker node: nodes live until the arena is
// released, with no individual deallocation.
//
// Go's garbage collector already reclaims unreachable memory, so this
// is not a byte-level bump allocator the way internal/rtarena is for
// compiled-program values — it is the compile-time counterpart: a
// single long-lived owner that
// every front-end node is allocated through, so the whole front end
// shares one releasable lifetime and allocation count is observable for
// diagnostics.
package arena

// Arena owns every node allocated through it during one compile.
type Arena struct {
	allocations int
}

// New creates an empty compile-time arena.
func New() *Arena {
	return &Arena{}
}

// Alloc allocates one T, returning a pointer the arena is considered to
// own for the rest of the compile.
func Alloc[T any](a *Arena, v T) *T {
	a.allocations++
	n := new(T)
	*n = v
	return n
}

// Allocations reports how many nodes have been allocated through a.
func (a *Arena) Allocations() int {
	return a.allocations
}

// Release drops the arena's bookkeeping. It does not free Go memory —
// the garbage collector does that once the nodes become unreachable —
// but it keeps the released-at-once lifecycle at the API boundary so
// callers don't need per-node cleanup.
func (a *Arena) Release() {
	a.allocations = 0
}

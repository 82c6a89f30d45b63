// Package rtarena is the runtime block-list arena compiled SN programs
// allocate their data from — distinct from internal/arena, which only
// ever backs compile-time AST nodes. RtArena
// is parent-linked and supports lifting ("promoting") a value from a
// short-lived child arena into a longer-lived parent.
//
// Go has no raw pointer arithmetic without unsafe, so an allocation
// here is a []byte slice into one of the arena's blocks rather than a
// bare pointer; identity and aliasing work exactly the same way a C
// pointer into the block would, which is all RtArray/RtString/RtBytes
// actually need from it.
package rtarena

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// DefaultBlockSize is the block size used when none is requested.
const DefaultBlockSize = 8192

type block struct {
	buf  []byte
	used int
}

// Arena is a list of fixed-size blocks bump-allocated from, optionally
// chained to a longer-lived parent.
type Arena struct {
	parent      *Arena
	blocks      []*block
	defaultSize int
	total       int
}

// Create builds an arena with one default-size block, optionally
// chained to parent.
func Create(parent *Arena) *Arena {
	return CreateSized(parent, DefaultBlockSize)
}

// CreateSized builds an arena whose blocks are at least size bytes; a
// zero size falls back to DefaultBlockSize.
func CreateSized(parent *Arena, size int) *Arena {
	if size <= 0 {
		size = DefaultBlockSize
	}
	a := &Arena{parent: parent, defaultSize: size}
	a.blocks = []*block{{buf: make([]byte, size)}}
	return a
}

// Parent returns the arena's parent, or nil if it has none.
func (a *Arena) Parent() *Arena { return a.parent }

func alignUp(n, align int) int {
	if align <= 1 {
		return n
	}
	rem := n % align
	if rem == 0 {
		return n
	}
	return n + (align - rem)
}

// Alloc allocates size bytes aligned to 8, bump-allocating within the
// current block and linking a new one on exhaustion. A zero size
// produces no allocation.
func (a *Arena) Alloc(size int) []byte {
	return a.AllocAligned(size, 8)
}

// AllocAligned is Alloc with a caller-chosen power-of-two alignment.
func (a *Arena) AllocAligned(size, align int) []byte {
	if a == nil || size <= 0 {
		return nil
	}
	cur := a.blocks[len(a.blocks)-1]
	start := alignUp(cur.used, align)
	if start+size > len(cur.buf) {
		blockSize := a.defaultSize
		if size > blockSize {
			blockSize = size
		}
		cur = &block{buf: make([]byte, blockSize)}
		a.blocks = append(a.blocks, cur)
		start = 0
	}
	cur.used = start + size
	a.total += size
	return cur.buf[start : start+size : start+size]
}

// Calloc allocates n*size bytes and zeroes them. Go's make already
// zero-fills, so this is just Alloc of the product.
func (a *Arena) Calloc(n, size int) []byte {
	return a.Alloc(n * size)
}

// Strdup copies a NUL-terminated byte string into the arena. A nil
// input returns nil.
func (a *Arena) Strdup(s []byte) []byte {
	if a == nil || s == nil {
		return nil
	}
	return a.Strndup(s, len(s))
}

// Strndup copies at most n bytes of s into the arena, always
// NUL-terminating the result.
func (a *Arena) Strndup(s []byte, n int) []byte {
	if a == nil || s == nil {
		return nil
	}
	if n > len(s) {
		n = len(s)
	}
	out := a.Alloc(n + 1)
	copy(out, s[:n])
	out[n] = 0
	return out
}

// Reset frees every block after the first and zeroes the first block's
// used counter, without touching the parent.
func (a *Arena) Reset() {
	if a == nil || len(a.blocks) == 0 {
		return
	}
	first := a.blocks[0]
	for i := range first.buf {
		first.buf[i] = 0
	}
	first.used = 0
	a.blocks = a.blocks[:1]
	a.total = 0
}

// Promote copies n bytes from src into a fresh allocation in dest,
// lifting a value from a short-lived arena (often a child of dest) into
// a longer-lived one. It fails (returns nil) if dest or src is absent
// or n is zero.
func Promote(dest *Arena, src []byte, n int) []byte {
	if dest == nil || src == nil || n <= 0 {
		return nil
	}
	if n > len(src) {
		n = len(src)
	}
	out := dest.Alloc(n)
	copy(out, src[:n])
	return out
}

// PromoteString copies a NUL-terminated byte string into dest; it is
// Strdup aimed at a longer-lived arena.
func PromoteString(dest *Arena, s []byte) []byte {
	if dest == nil {
		return nil
	}
	return dest.Strdup(s)
}

// Destroy releases every block. It is idempotent — destroying an
// already-destroyed or nil arena is a no-op.
func (a *Arena) Destroy() {
	if a == nil {
		return
	}
	a.blocks = nil
	a.total = 0
}

// TotalAllocated reports the number of bytes handed out across the
// arena's lifetime, for debug/stats reporting.
func (a *Arena) TotalAllocated() int {
	if a == nil {
		return 0
	}
	return a.total
}

// Stats renders a human-readable allocation summary, e.g. "3 block(s),
// 12 kB allocated", via go-humanize.
func (a *Arena) Stats() string {
	if a == nil {
		return "nil arena"
	}
	return fmt.Sprintf("%d block(s), %s allocated", len(a.blocks), humanize.Bytes(uint64(a.total)))
}

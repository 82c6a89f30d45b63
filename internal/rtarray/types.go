package rtarray

import "sn/internal/rtarena"

// These named instantiations give each element type a direct entry
// point without re-implementing the generic core for each one.
type (
	LongArray   = Array[int64]
	DoubleArray = Array[float64]
	CharArray   = Array[int32]
	BoolArray   = Array[bool]
	ByteArray   = Array[byte]
	StringArray = Array[string]
)

func AllocLong(a *rtarena.Arena, count int, def int64) *LongArray { return Alloc(a, count, def) }

func AllocDouble(a *rtarena.Arena, count int, def float64) *DoubleArray { return Alloc(a, count, def) }

func AllocChar(a *rtarena.Arena, count int, def int32) *CharArray { return Alloc(a, count, def) }

func AllocBool(a *rtarena.Arena, count int, def bool) *BoolArray { return Alloc(a, count, def) }

func AllocByte(a *rtarena.Arena, count int, def byte) *ByteArray { return Alloc(a, count, def) }

// AllocString allocates a string array. Each slot holds either the
// empty string (Go strings have no NULL) or a copy of def; since Go
// strings are immutable, copying is just assignment with no separate
// arena duplication.
func AllocString(a *rtarena.Arena, count int, def string) *StringArray { return Alloc(a, count, def) }

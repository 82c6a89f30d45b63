// Package types implements the SN type system: a small closed sum of
// primitive, array and function types, with structural equality, deep
// cloning and canonical string rendering.
package types

import "strings"

// Kind tags the payload a Type carries.
type Kind int

const (
	Int Kind = iota
	Long
	Double
	Char
	String
	Bool
	Void
	Nil
	Any
	ArrayKind
	FunctionKind
)

var primitiveNames = map[Kind]string{
	Int:    "int",
	Long:   "long",
	Double: "double",
	Char:   "char",
	String: "string",
	Bool:   "bool",
	Void:   "void",
	Nil:    "nil",
	Any:    "any",
}

// Type is the SN type sum: a primitive, an array of
// an (possibly not-yet-resolved) element type, or a function signature.
type Type struct {
	Kind   Kind
	Elem   *Type   // ArrayKind only; may be nil only before the checker resolves it
	Return *Type   // FunctionKind only
	Params []*Type // FunctionKind only
}

// NewPrimitive builds a primitive type. Passing a non-primitive Kind is a
// programmer error and panics, the same constructor-precondition posture
// the AST node constructors take.
func NewPrimitive(k Kind) *Type {
	if _, ok := primitiveNames[k]; !ok {
		panic("types: NewPrimitive called with non-primitive kind")
	}
	return &Type{Kind: k}
}

// NewArray builds an array-of-elem type. elem may be nil only while the
// type checker has not yet resolved the element; the checker, not the
// constructor, enforces that every checked array type owns its element,
// since arrays may be constructed speculatively before their element is
// known.
func NewArray(elem *Type) *Type {
	return &Type{Kind: ArrayKind, Elem: elem}
}

// NewFunction builds a function type. A
// function with a positive parameter count must carry a non-nil
// parameter vector. Violating that is a contract violation and
// NewFunction returns nil rather than producing a malformed node.
func NewFunction(ret *Type, paramCount int, params []*Type) *Type {
	if paramCount > 0 && params == nil {
		return nil
	}
	return &Type{Kind: FunctionKind, Return: ret, Params: params}
}

// IsPrimitive reports whether t is one of the primitive kinds.
func (t *Type) IsPrimitive() bool {
	if t == nil {
		return false
	}
	_, ok := primitiveNames[t.Kind]
	return ok
}

// IsNumeric reports whether t is int, long or double.
func (t *Type) IsNumeric() bool {
	if t == nil {
		return false
	}
	return t.Kind == Int || t.Kind == Long || t.Kind == Double
}

// Clone produces a structurally distinct deep copy of t.
func (t *Type) Clone() *Type {
	if t == nil {
		return nil
	}
	out := &Type{Kind: t.Kind}
	if t.Elem != nil {
		out.Elem = t.Elem.Clone()
	}
	if t.Return != nil {
		out.Return = t.Return.Clone()
	}
	if t.Params != nil {
		out.Params = make([]*Type, len(t.Params))
		for i, p := range t.Params {
			out.Params[i] = p.Clone()
		}
	}
	return out
}

// Equals reports structural equality: same kind and, recursively, the
// same payloads.
func Equals(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case ArrayKind:
		return Equals(a.Elem, b.Elem)
	case FunctionKind:
		if !Equals(a.Return, b.Return) {
			return false
		}
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equals(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders the canonical form: primitives by their lowercase
// name, "array of <elem>", and "function(<params>) -> <ret>".
func (t *Type) String() string {
	if t == nil {
		return "<unresolved>"
	}
	switch t.Kind {
	case ArrayKind:
		return "array of " + t.Elem.String()
	case FunctionKind:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return "function(" + strings.Join(parts, ", ") + ") -> " + t.Return.String()
	default:
		if name, ok := primitiveNames[t.Kind]; ok {
			return name
		}
		return "<invalid>"
	}
}

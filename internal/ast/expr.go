// Package ast is the typed syntax tree the parser builds and the type
// checker annotates: the Expr/Stmt sum types, Module and Parameter,
// plus cloning and structural equality over both.
//
// Uses an Accept(visitor)-per-node shape and a "constructor with a
// required-field precondition returns no node" posture, shaped around
// SN's node set and the resolved-type annotation the front end adds.
package ast

import (
	"sn/internal/arena"
	"sn/internal/token"
	"sn/internal/types"
)

// Expr is any expression node. Every Expr carries an optional source
// token and a resolved type filled in by the type checker.
type Expr interface {
	Accept(v ExprVisitor) any
	Token() *token.Token
	Type() *types.Type
	SetType(*types.Type)
}

type exprBase struct {
	tok      *token.Token
	exprType *types.Type
}

func (e *exprBase) Token() *token.Token   { return e.tok }
func (e *exprBase) Type() *types.Type     { return e.exprType }
func (e *exprBase) SetType(t *types.Type) { e.exprType = t }

// Literal is a literal int/long/double/char/string/bool value.
type Literal struct {
	exprBase
	Value        any
	Interpolated bool
}

func NewLiteral(a *arena.Arena, tok *token.Token, value any, ty *types.Type) *Literal {
	return arena.Alloc(a, Literal{exprBase: exprBase{tok: tok, exprType: ty}, Value: value})
}

func (l *Literal) Accept(v ExprVisitor) any { return v.VisitLiteral(l) }

// Variable is a bare identifier reference.
type Variable struct {
	exprBase
	Name token.Token
}

func NewVariable(a *arena.Arena, name token.Token) *Variable {
	return arena.Alloc(a, Variable{exprBase: exprBase{tok: &name}, Name: name})
}

func (v *Variable) Accept(vis ExprVisitor) any { return vis.VisitVariable(v) }

// Assign is `name = value`.
type Assign struct {
	exprBase
	Name  token.Token
	Value Expr
}

// NewAssign returns nil when value is absent (constructor precondition).
func NewAssign(a *arena.Arena, name token.Token, value Expr) *Assign {
	if value == nil {
		return nil
	}
	return arena.Alloc(a, Assign{exprBase: exprBase{tok: &name}, Name: name, Value: value})
}

func (e *Assign) Accept(v ExprVisitor) any { return v.VisitAssign(e) }

// Binary is a binary arithmetic/comparison expression.
type Binary struct {
	exprBase
	Left  Expr
	Op    token.Kind
	Right Expr
}

// NewBinary returns nil when either operand is absent.
func NewBinary(a *arena.Arena, left Expr, op token.Token, right Expr) *Binary {
	if left == nil || right == nil {
		return nil
	}
	return arena.Alloc(a, Binary{exprBase: exprBase{tok: &op}, Left: left, Op: op.Kind, Right: right})
}

func (b *Binary) Accept(v ExprVisitor) any { return v.VisitBinary(b) }

// NewComparison is an alias for NewBinary: comparisons are ordinary
// binary expressions and are not modeled as a separate kind.
func NewComparison(a *arena.Arena, left Expr, op token.Token, right Expr) *Binary {
	return NewBinary(a, left, op, right)
}

// Unary is `!x` or `-x`.
type Unary struct {
	exprBase
	Op      token.Kind
	Operand Expr
}

// NewUnary returns nil when operand is absent.
func NewUnary(a *arena.Arena, op token.Token, operand Expr) *Unary {
	if operand == nil {
		return nil
	}
	return arena.Alloc(a, Unary{exprBase: exprBase{tok: &op}, Op: op.Kind, Operand: operand})
}

func (u *Unary) Accept(v ExprVisitor) any { return v.VisitUnary(u) }

// Call is `callee(arguments...)`.
type Call struct {
	exprBase
	Callee    Expr
	Arguments []Expr
}

// NewCall returns nil when callee is absent.
func NewCall(a *arena.Arena, tok token.Token, callee Expr, args []Expr) *Call {
	if callee == nil {
		return nil
	}
	return arena.Alloc(a, Call{exprBase: exprBase{tok: &tok}, Callee: callee, Arguments: args})
}

func (c *Call) Accept(v ExprVisitor) any { return v.VisitCall(c) }

// Array is an `[elem, elem, ...]` literal.
type Array struct {
	exprBase
	Elements []Expr
}

func NewArray(a *arena.Arena, tok token.Token, elements []Expr) *Array {
	return arena.Alloc(a, Array{exprBase: exprBase{tok: &tok}, Elements: elements})
}

func (ar *Array) Accept(v ExprVisitor) any { return v.VisitArray(ar) }

// ArrayAccess is `array[index]`.
type ArrayAccess struct {
	exprBase
	Array Expr
	Index Expr
}

// NewArrayAccess returns nil when array or index is missing.
func NewArrayAccess(a *arena.Arena, tok token.Token, array, index Expr) *ArrayAccess {
	if array == nil || index == nil {
		return nil
	}
	return arena.Alloc(a, ArrayAccess{exprBase: exprBase{tok: &tok}, Array: array, Index: index})
}

func (aa *ArrayAccess) Accept(v ExprVisitor) any { return v.VisitArrayAccess(aa) }

// Member is `object.member`.
type Member struct {
	exprBase
	Object Expr
	Member token.Token
}

// NewMember returns nil when object is absent.
func NewMember(a *arena.Arena, object Expr, member token.Token) *Member {
	if object == nil {
		return nil
	}
	return arena.Alloc(a, Member{exprBase: exprBase{tok: &member}, Object: object, Member: member})
}

func (m *Member) Accept(v ExprVisitor) any { return v.VisitMember(m) }

// Increment is `operand++`.
type Increment struct {
	exprBase
	Operand Expr
}

func NewIncrement(a *arena.Arena, tok token.Token, operand Expr) *Increment {
	if operand == nil {
		return nil
	}
	return arena.Alloc(a, Increment{exprBase: exprBase{tok: &tok}, Operand: operand})
}

func (i *Increment) Accept(v ExprVisitor) any { return v.VisitIncrement(i) }

// Decrement is `operand--`.
type Decrement struct {
	exprBase
	Operand Expr
}

func NewDecrement(a *arena.Arena, tok token.Token, operand Expr) *Decrement {
	if operand == nil {
		return nil
	}
	return arena.Alloc(a, Decrement{exprBase: exprBase{tok: &tok}, Operand: operand})
}

func (d *Decrement) Accept(v ExprVisitor) any { return v.VisitDecrement(d) }

// Interpolated is a string built from literal fragments and embedded
// expressions.
type Interpolated struct {
	exprBase
	Parts []Expr
}

func NewInterpolated(a *arena.Arena, tok token.Token, parts []Expr) *Interpolated {
	return arena.Alloc(a, Interpolated{exprBase: exprBase{tok: &tok}, Parts: parts})
}

func (i *Interpolated) Accept(v ExprVisitor) any { return v.VisitInterpolated(i) }

// ExprVisitor dispatches over every Expr kind.
type ExprVisitor interface {
	VisitLiteral(*Literal) any
	VisitVariable(*Variable) any
	VisitAssign(*Assign) any
	VisitBinary(*Binary) any
	VisitUnary(*Unary) any
	VisitCall(*Call) any
	VisitArray(*Array) any
	VisitArrayAccess(*ArrayAccess) any
	VisitMember(*Member) any
	VisitIncrement(*Increment) any
	VisitDecrement(*Decrement) any
	VisitInterpolated(*Interpolated) any
}

package ast

import (
	"sn/internal/arena"
	"sn/internal/types"
)

// CloneExpr produces a structurally distinct deep copy of e in arena
// a. The source token is shared (tokens are immutable value records),
// but every child node and the resolved type are copied fresh.
func CloneExpr(a *arena.Arena, e Expr) Expr {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *Literal:
		out := NewLiteral(a, n.tok, n.Value, n.exprType.Clone())
		out.Interpolated = n.Interpolated
		return out
	case *Variable:
		out := NewVariable(a, n.Name)
		out.SetType(n.exprType.Clone())
		return out
	case *Assign:
		out := NewAssign(a, n.Name, CloneExpr(a, n.Value))
		out.SetType(n.exprType.Clone())
		return out
	case *Binary:
		out := NewBinary(a, CloneExpr(a, n.Left), *n.tok, CloneExpr(a, n.Right))
		out.SetType(n.exprType.Clone())
		return out
	case *Unary:
		out := NewUnary(a, *n.tok, CloneExpr(a, n.Operand))
		out.SetType(n.exprType.Clone())
		return out
	case *Call:
		args := make([]Expr, len(n.Arguments))
		for i, arg := range n.Arguments {
			args[i] = CloneExpr(a, arg)
		}
		out := NewCall(a, *n.tok, CloneExpr(a, n.Callee), args)
		out.SetType(n.exprType.Clone())
		return out
	case *Array:
		elems := make([]Expr, len(n.Elements))
		for i, el := range n.Elements {
			elems[i] = CloneExpr(a, el)
		}
		out := NewArray(a, *n.tok, elems)
		out.SetType(n.exprType.Clone())
		return out
	case *ArrayAccess:
		out := NewArrayAccess(a, *n.tok, CloneExpr(a, n.Array), CloneExpr(a, n.Index))
		out.SetType(n.exprType.Clone())
		return out
	case *Member:
		out := NewMember(a, CloneExpr(a, n.Object), n.Member)
		out.SetType(n.exprType.Clone())
		return out
	case *Increment:
		out := NewIncrement(a, *n.tok, CloneExpr(a, n.Operand))
		out.SetType(n.exprType.Clone())
		return out
	case *Decrement:
		out := NewDecrement(a, *n.tok, CloneExpr(a, n.Operand))
		out.SetType(n.exprType.Clone())
		return out
	case *Interpolated:
		parts := make([]Expr, len(n.Parts))
		for i, p := range n.Parts {
			parts[i] = CloneExpr(a, p)
		}
		out := NewInterpolated(a, *n.tok, parts)
		out.SetType(n.exprType.Clone())
		return out
	default:
		return nil
	}
}

// EqualsExpr reports structural equality between two expression trees:
// same kind, same operator/member tokens by lexeme, recursively equal
// children, and equal resolved types. Source token position is not
// part of the comparison — two expressions parsed from different
// locations but with the same shape are equal.
func EqualsExpr(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !types.Equals(a.Type(), b.Type()) {
		return false
	}
	switch x := a.(type) {
	case *Literal:
		y, ok := b.(*Literal)
		return ok && x.Value == y.Value && x.Interpolated == y.Interpolated && types.Equals(x.exprType, y.exprType)
	case *Variable:
		y, ok := b.(*Variable)
		return ok && x.Name.Lexeme == y.Name.Lexeme
	case *Assign:
		y, ok := b.(*Assign)
		return ok && x.Name.Lexeme == y.Name.Lexeme && EqualsExpr(x.Value, y.Value)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && EqualsExpr(x.Left, y.Left) && EqualsExpr(x.Right, y.Right)
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && EqualsExpr(x.Operand, y.Operand)
	case *Call:
		y, ok := b.(*Call)
		if !ok || !EqualsExpr(x.Callee, y.Callee) || len(x.Arguments) != len(y.Arguments) {
			return false
		}
		for i := range x.Arguments {
			if !EqualsExpr(x.Arguments[i], y.Arguments[i]) {
				return false
			}
		}
		return true
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elements) != len(y.Elements) {
			return false
		}
		for i := range x.Elements {
			if !EqualsExpr(x.Elements[i], y.Elements[i]) {
				return false
			}
		}
		return true
	case *ArrayAccess:
		y, ok := b.(*ArrayAccess)
		return ok && EqualsExpr(x.Array, y.Array) && EqualsExpr(x.Index, y.Index)
	case *Member:
		y, ok := b.(*Member)
		return ok && x.Member.Lexeme == y.Member.Lexeme && EqualsExpr(x.Object, y.Object)
	case *Increment:
		y, ok := b.(*Increment)
		return ok && EqualsExpr(x.Operand, y.Operand)
	case *Decrement:
		y, ok := b.(*Decrement)
		return ok && EqualsExpr(x.Operand, y.Operand)
	case *Interpolated:
		y, ok := b.(*Interpolated)
		if !ok || len(x.Parts) != len(y.Parts) {
			return false
		}
		for i := range x.Parts {
			if !EqualsExpr(x.Parts[i], y.Parts[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

package ast

import (
	"sn/internal/arena"
	"sn/internal/token"
	"sn/internal/types"
)

// CloneStmt produces a structurally distinct deep copy of s in arena a,
// the statement-level counterpart to CloneExpr.
func CloneStmt(a *arena.Arena, s Stmt) Stmt {
	if s == nil {
		return nil
	}
	switch n := s.(type) {
	case *ExprStmt:
		return &ExprStmt{Expr: CloneExpr(a, n.Expr)}
	case *VarDecl:
		return NewVarDecl(a, n.Name, n.Type.Clone(), CloneExpr(a, n.Init))
	case *Function:
		params := make([]Parameter, len(n.Params))
		for i, p := range n.Params {
			params[i] = Parameter{Name: p.Name, Type: p.Type.Clone()}
		}
		return NewFunction(a, n.Name, params, n.ReturnType.Clone(), cloneStmts(a, n.Body))
	case *Return:
		return NewReturn(a, n.Keyword, CloneExpr(a, n.Value))
	case *Block:
		return NewBlock(a, cloneStmts(a, n.Stmts))
	case *If:
		return NewIf(a, CloneExpr(a, n.Cond), CloneStmt(a, n.Then), CloneStmt(a, n.Else))
	case *While:
		return NewWhile(a, CloneExpr(a, n.Cond), CloneStmt(a, n.Body))
	case *For:
		return NewFor(a, CloneStmt(a, n.Init), CloneExpr(a, n.Cond), CloneExpr(a, n.Step), CloneStmt(a, n.Body))
	case *Import:
		var ns *token.Token
		if n.Namespace != nil {
			t := *n.Namespace
			ns = &t
		}
		return NewImport(a, n.ModuleName, ns)
	default:
		return nil
	}
}

func cloneStmts(a *arena.Arena, stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}
	out := make([]Stmt, len(stmts))
	for i, st := range stmts {
		out[i] = CloneStmt(a, st)
	}
	return out
}

// CloneModule deep-copies every statement of m into a fresh Module
// backed by arena a.
func CloneModule(a *arena.Arena, m *Module) *Module {
	if m == nil {
		return nil
	}
	out := NewModule(m.Filename)
	for _, s := range m.Statements {
		out.Append(CloneStmt(a, s))
	}
	return out
}

// EqualsStmt reports structural equality between two statement trees.
func EqualsStmt(a, b Stmt) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *ExprStmt:
		y, ok := b.(*ExprStmt)
		return ok && EqualsExpr(x.Expr, y.Expr)
	case *VarDecl:
		y, ok := b.(*VarDecl)
		return ok && x.Name.Lexeme == y.Name.Lexeme && types.Equals(x.Type, y.Type) && EqualsExpr(x.Init, y.Init)
	case *Function:
		y, ok := b.(*Function)
		if !ok || x.Name.Lexeme != y.Name.Lexeme || len(x.Params) != len(y.Params) || !types.Equals(x.ReturnType, y.ReturnType) {
			return false
		}
		for i := range x.Params {
			if x.Params[i].Name.Lexeme != y.Params[i].Name.Lexeme || !types.Equals(x.Params[i].Type, y.Params[i].Type) {
				return false
			}
		}
		return equalsStmts(x.Body, y.Body)
	case *Return:
		y, ok := b.(*Return)
		return ok && EqualsExpr(x.Value, y.Value)
	case *Block:
		y, ok := b.(*Block)
		return ok && equalsStmts(x.Stmts, y.Stmts)
	case *If:
		y, ok := b.(*If)
		return ok && EqualsExpr(x.Cond, y.Cond) && EqualsStmt(x.Then, y.Then) && EqualsStmt(x.Else, y.Else)
	case *While:
		y, ok := b.(*While)
		return ok && EqualsExpr(x.Cond, y.Cond) && EqualsStmt(x.Body, y.Body)
	case *For:
		y, ok := b.(*For)
		return ok && EqualsStmt(x.Init, y.Init) && EqualsExpr(x.Cond, y.Cond) && EqualsExpr(x.Step, y.Step) && EqualsStmt(x.Body, y.Body)
	case *Import:
		y, ok := b.(*Import)
		if !ok || x.ModuleName.Lexeme != y.ModuleName.Lexeme {
			return false
		}
		if (x.Namespace == nil) != (y.Namespace == nil) {
			return false
		}
		return x.Namespace == nil || x.Namespace.Lexeme == y.Namespace.Lexeme
	default:
		return false
	}
}

func equalsStmts(a, b []Stmt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualsStmt(a[i], b[i]) {
			return false
		}
	}
	return true
}

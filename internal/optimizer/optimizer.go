// Package optimizer applies semantics-preserving AST rewrites to a
// typed Module until none more apply: constant folding,
// dead-branch elimination and removal of no-effect expression
// statements. Loop bodies are rewritten in place; no expression is
// hoisted out of a loop.
//
// Uses a small worklist of independent rewrite rules, each re-run
// until a full pass makes no further change, operating over the typed
// ast.Stmt/Expr tree.
package optimizer

import (
	"sn/internal/arena"
	"sn/internal/ast"
	"sn/internal/token"
	"sn/internal/types"
)

// optimizer owns the arena that folded replacement nodes are allocated
// from, mirroring the parser's own arena-owning receiver.
type optimizer struct {
	arena *arena.Arena
	// folded marks expression statements whose expression was rewritten
	// by folding, so a literal they end up holding is kept.
	folded map[*ast.ExprStmt]bool
}

// Optimize rewrites every statement in mod in place, iterating to a
// fixed point. It never changes the program's observable effects:
// prints, assignments and calls are never removed or reordered across
// each other.
func Optimize(mod *ast.Module) {
	o := &optimizer{arena: arena.New(), folded: map[*ast.ExprStmt]bool{}}
	for {
		stmts, changed := o.optimizeStmts(mod.Statements)
		mod.Statements = stmts
		if !changed {
			return
		}
	}
}

func (o *optimizer) optimizeStmts(stmts []ast.Stmt) ([]ast.Stmt, bool) {
	changed := false
	out := make([]ast.Stmt, 0, len(stmts))
	for _, s := range stmts {
		rewritten, ch := o.optimizeStmt(s)
		if ch {
			changed = true
		}
		if rewritten == nil {
			// No-effect statement removed.
			changed = true
			continue
		}
		out = append(out, rewritten)
	}
	return out, changed
}

// optimizeStmt returns the rewritten statement and whether anything
// changed. A nil return means the statement was eliminated entirely.
func (o *optimizer) optimizeStmt(s ast.Stmt) (ast.Stmt, bool) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		// Only a statement that was a bare variable or literal before any
		// folding is dropped; a folded result stays as a statement.
		if isNoEffect(st.Expr) && !o.folded[st] {
			return nil, true
		}
		folded, ch := o.foldExpr(st.Expr)
		st.Expr = folded
		if ch {
			o.folded[st] = true
		}
		return st, ch
	case *ast.VarDecl:
		if st.Init != nil {
			folded, ch := o.foldExpr(st.Init)
			st.Init = folded
			return st, ch
		}
		return st, false
	case *ast.Return:
		if st.Value != nil {
			folded, ch := o.foldExpr(st.Value)
			st.Value = folded
			return st, ch
		}
		return st, false
	case *ast.Block:
		body, ch := o.optimizeStmts(st.Stmts)
		st.Stmts = body
		return st, ch
	case *ast.Function:
		body, ch := o.optimizeStmts(st.Body)
		st.Body = body
		return st, ch
	case *ast.If:
		changed := false
		cond, ch := o.foldExpr(st.Cond)
		st.Cond = cond
		changed = changed || ch
		then, ch2 := o.optimizeStmt(st.Then)
		changed = changed || ch2
		var els ast.Stmt
		if st.Else != nil {
			els, ch2 = o.optimizeStmt(st.Else)
			changed = changed || ch2
		}
		// Dead-branch elimination when the condition is a literal bool.
		if lit, ok := cond.(*ast.Literal); ok {
			if b, ok := lit.Value.(bool); ok {
				if b {
					return then, true
				}
				if els != nil {
					return els, true
				}
				return nil, true
			}
		}
		st.Then = then
		st.Else = els
		return st, changed
	case *ast.While:
		changed := false
		cond, ch := o.foldExpr(st.Cond)
		st.Cond = cond
		changed = changed || ch
		body, ch2 := o.optimizeStmt(st.Body)
		changed = changed || ch2
		st.Body = body
		return st, changed
	case *ast.For:
		changed := false
		if st.Init != nil {
			init, ch := o.optimizeStmt(st.Init)
			changed = changed || ch
			st.Init = init
		}
		if st.Cond != nil {
			cond, ch := o.foldExpr(st.Cond)
			changed = changed || ch
			st.Cond = cond
		}
		if st.Step != nil {
			step, ch := o.foldExpr(st.Step)
			changed = changed || ch
			st.Step = step
		}
		body, ch := o.optimizeStmt(st.Body)
		changed = changed || ch
		st.Body = body
		return st, changed
	default:
		return s, false
	}
}

// foldExpr folds constant arithmetic and comparisons over literals.
// It recurses bottom-up so nested constant subexpressions
// fold before their parent is examined.
func (o *optimizer) foldExpr(e ast.Expr) (ast.Expr, bool) {
	switch ex := e.(type) {
	case *ast.Binary:
		changed := false
		left, ch := o.foldExpr(ex.Left)
		changed = changed || ch
		right, ch2 := o.foldExpr(ex.Right)
		changed = changed || ch2
		ex.Left, ex.Right = left, right
		if folded, ok := o.tryFoldBinary(ex); ok {
			return folded, true
		}
		return ex, changed
	case *ast.Unary:
		operand, ch := o.foldExpr(ex.Operand)
		ex.Operand = operand
		if folded, ok := o.tryFoldUnary(ex); ok {
			return folded, true
		}
		return ex, ch
	case *ast.Call:
		changed := false
		for i, arg := range ex.Arguments {
			folded, ch := o.foldExpr(arg)
			if ch {
				changed = true
			}
			ex.Arguments[i] = folded
		}
		return ex, changed
	case *ast.Array:
		changed := false
		for i, elem := range ex.Elements {
			folded, ch := o.foldExpr(elem)
			if ch {
				changed = true
			}
			ex.Elements[i] = folded
		}
		return ex, changed
	case *ast.ArrayAccess:
		changed := false
		arr, ch := o.foldExpr(ex.Array)
		changed = changed || ch
		idx, ch2 := o.foldExpr(ex.Index)
		changed = changed || ch2
		ex.Array, ex.Index = arr, idx
		return ex, changed
	case *ast.Assign:
		val, ch := o.foldExpr(ex.Value)
		ex.Value = val
		return ex, ch
	default:
		return e, false
	}
}

func (o *optimizer) tryFoldBinary(b *ast.Binary) (ast.Expr, bool) {
	left, ok1 := b.Left.(*ast.Literal)
	right, ok2 := b.Right.(*ast.Literal)
	if !ok1 || !ok2 {
		return nil, false
	}

	switch b.Op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		return o.foldArithmetic(b, left, right)
	case token.EqualEqual, token.NotEqual, token.Less, token.LessEq, token.Greater, token.GreaterEq:
		return o.foldComparison(b, left, right)
	case token.AndAnd, token.OrOr:
		lb, ok1 := left.Value.(bool)
		rb, ok2 := right.Value.(bool)
		if !ok1 || !ok2 {
			return nil, false
		}
		var result bool
		if b.Op == token.AndAnd {
			result = lb && rb
		} else {
			result = lb || rb
		}
		return ast.NewLiteral(o.arena, b.Token(), result, types.NewPrimitive(types.Bool)), true
	default:
		return nil, false
	}
}

func (o *optimizer) foldArithmetic(b *ast.Binary, left, right *ast.Literal) (ast.Expr, bool) {
	if ls, ok := left.Value.(string); ok && b.Op == token.Plus {
		if rs, ok := right.Value.(string); ok {
			return ast.NewLiteral(o.arena, b.Token(), ls+rs, types.NewPrimitive(types.String)), true
		}
		return nil, false
	}

	lf, ok1 := numericValue(left.Value)
	rf, ok2 := numericValue(right.Value)
	if !ok1 || !ok2 {
		return nil, false
	}

	var result float64
	switch b.Op {
	case token.Plus:
		result = lf + rf
	case token.Minus:
		result = lf - rf
	case token.Star:
		result = lf * rf
	case token.Slash:
		if rf == 0 {
			return nil, false
		}
		result = lf / rf
	case token.Percent:
		if int64(rf) == 0 {
			return nil, false
		}
		result = float64(int64(lf) % int64(rf))
	}

	ty := left.Type()
	return ast.NewLiteral(o.arena, b.Token(), castTo(result, ty), ty), true
}

func (o *optimizer) foldComparison(b *ast.Binary, left, right *ast.Literal) (ast.Expr, bool) {
	lf, ok1 := numericValue(left.Value)
	rf, ok2 := numericValue(right.Value)
	var result bool
	if ok1 && ok2 {
		switch b.Op {
		case token.EqualEqual:
			result = lf == rf
		case token.NotEqual:
			result = lf != rf
		case token.Less:
			result = lf < rf
		case token.LessEq:
			result = lf <= rf
		case token.Greater:
			result = lf > rf
		case token.GreaterEq:
			result = lf >= rf
		}
		return ast.NewLiteral(o.arena, b.Token(), result, types.NewPrimitive(types.Bool)), true
	}
	if ls, ok := left.Value.(string); ok {
		if rs, ok := right.Value.(string); ok {
			switch b.Op {
			case token.EqualEqual:
				result = ls == rs
			case token.NotEqual:
				result = ls != rs
			default:
				return nil, false
			}
			return ast.NewLiteral(o.arena, b.Token(), result, types.NewPrimitive(types.Bool)), true
		}
	}
	return nil, false
}

func (o *optimizer) tryFoldUnary(u *ast.Unary) (ast.Expr, bool) {
	lit, ok := u.Operand.(*ast.Literal)
	if !ok {
		return nil, false
	}
	switch u.Op {
	case token.Bang:
		if b, ok := lit.Value.(bool); ok {
			return ast.NewLiteral(o.arena, u.Token(), !b, types.NewPrimitive(types.Bool)), true
		}
	case token.Minus:
		if f, ok := numericValue(lit.Value); ok {
			return ast.NewLiteral(o.arena, u.Token(), castTo(-f, lit.Type()), lit.Type()), true
		}
	}
	return nil, false
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case int32:
		return float64(n), true
	default:
		return 0, false
	}
}

func castTo(f float64, ty *types.Type) any {
	if ty == nil {
		return f
	}
	switch ty.Kind {
	case types.Int, types.Long:
		return int64(f)
	case types.Char:
		return int32(f)
	default:
		return f
	}
}

// isNoEffect reports whether an expression statement has no observable
// effect and can be dropped entirely: a bare variable reference or
// literal with nothing else attached. Calls, assignments
// and increment/decrement always carry an effect and are kept.
func isNoEffect(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Variable, *ast.Literal:
		return true
	default:
		return false
	}
}

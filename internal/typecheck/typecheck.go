// Package typecheck walks a parsed Module and fills every expression's
// resolved type, diagnosing violations as it goes.
//
// Dispatches on node kind with type switches rather than the AST's
// Expr/Stmt Accept methods. The checker never panics — like the
// parser it records a diag.Diagnostic and keeps going, so one pass can
// surface every violation instead of just the first.
package typecheck

import (
	"fmt"

	"sn/internal/ast"
	"sn/internal/diag"
	"sn/internal/symtab"
	"sn/internal/token"
	"sn/internal/types"
)

// The small fixed set of member capabilities per receiver kind. Array
// push is resolved per-receiver since its parameter type depends on
// the element type; see checkMember.
var stringMembers = map[string]*types.Type{
	"length": types.NewPrimitive(types.Int),
}

// builtins are the functions every SN program can call without
// declaring them. print takes one argument of any type and returns
// void; the code generator declares the rt_print_* externs but emits
// no calls to them.
var builtins = map[string]*types.Type{
	"print": types.NewFunction(types.NewPrimitive(types.Void), 1, []*types.Type{types.NewPrimitive(types.Any)}),
}

// Checker annotates a Module in place, consulting a SymbolTable for
// variable/function resolution (the same table the parser populated).
type Checker struct {
	symtab      *symtab.SymbolTable
	reporter    *diag.Reporter
	currentFunc *types.Type // return type of the function currently being checked
}

// New builds a Checker over st (already populated by the parser) and
// rep for diagnostic collection. The builtins are bound into the
// global scope here; a user-defined function of the same name wins.
func New(st *symtab.SymbolTable, rep *diag.Reporter) *Checker {
	for name, ty := range builtins {
		_ = st.Declare(name, &symtab.Symbol{Name: name, DeclaredType: ty, Kind: symtab.FnKind})
	}
	return &Checker{symtab: st, reporter: rep}
}

// declare binds a symbol while walking, tolerating names the parser
// already bound at its own pass (top-level declarations live in the
// global scope both passes share).
func (c *Checker) declare(name string, sym *symtab.Symbol) {
	_ = c.symtab.Declare(name, sym)
}

// Check annotates every statement in mod. It returns false if any
// diagnostic was recorded, meaning the module is rejected overall.
func (c *Checker) Check(mod *ast.Module) bool {
	for _, stmt := range mod.Statements {
		c.checkStmt(stmt)
	}
	return !c.reporter.HasErrors()
}

func (c *Checker) diagTok(tok *token.Token, format string, args ...any) {
	var t token.Token
	if tok != nil {
		t = *tok
	}
	c.reporter.Report(diag.TypeOrigin, fmt.Sprintf(format, args...), t)
}

// --- statements ---

func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		c.checkExpr(st.Expr)
	case *ast.VarDecl:
		c.checkVarDecl(st)
	case *ast.Function:
		c.checkFunction(st)
	case *ast.Return:
		c.checkReturn(st)
	case *ast.Block:
		c.symtab.OpenScope()
		for _, inner := range st.Stmts {
			c.checkStmt(inner)
		}
		c.symtab.CloseScope()
	case *ast.If:
		cond := c.checkExpr(st.Cond)
		if cond != nil && cond.Kind != types.Bool && cond.Kind != types.Any {
			c.diagTok(st.Cond.Token(), "if condition must be bool, got %s", cond)
		}
		c.checkStmt(st.Then)
		if st.Else != nil {
			c.checkStmt(st.Else)
		}
	case *ast.While:
		cond := c.checkExpr(st.Cond)
		if cond != nil && cond.Kind != types.Bool && cond.Kind != types.Any {
			c.diagTok(st.Cond.Token(), "while condition must be bool, got %s", cond)
		}
		c.checkStmt(st.Body)
	case *ast.For:
		c.symtab.OpenScope()
		if st.Init != nil {
			c.checkStmt(st.Init)
		}
		if st.Cond != nil {
			cond := c.checkExpr(st.Cond)
			if cond != nil && cond.Kind != types.Bool && cond.Kind != types.Any {
				c.diagTok(st.Cond.Token(), "for condition must be bool, got %s", cond)
			}
		}
		if st.Step != nil {
			c.checkExpr(st.Step)
		}
		c.checkStmt(st.Body)
		c.symtab.CloseScope()
	case *ast.Import:
		// Resolved at parse time; nothing further to type-check.
	}
}

func (c *Checker) checkVarDecl(v *ast.VarDecl) {
	c.declare(v.Name.Lexeme, &symtab.Symbol{Name: v.Name.Lexeme, DeclaredType: v.Type, Kind: symtab.VarKind, Source: v.Name})
	if v.Init == nil {
		return
	}
	initType := c.checkExpr(v.Init)
	if initType == nil {
		return
	}
	if v.Type.Kind == types.Any {
		// No explicit annotation: adopt the initializer's type.
		*v.Type = *initType.Clone()
		if sym, ok := c.symtab.Lookup(v.Name.Lexeme); ok {
			sym.DeclaredType = v.Type
		}
		return
	}
	if !types.Equals(v.Type, initType) {
		c.diagTok(&v.Name, "cannot initialize %s with a value of type %s", v.Type, initType)
	}
}

func (c *Checker) checkFunction(fn *ast.Function) {
	prevFunc := c.currentFunc
	c.currentFunc = fn.ReturnType
	c.symtab.OpenScope()
	for _, p := range fn.Params {
		c.declare(p.Name.Lexeme, &symtab.Symbol{Name: p.Name.Lexeme, DeclaredType: p.Type, Kind: symtab.ParamKind, Source: p.Name})
	}
	for _, stmt := range fn.Body {
		c.checkStmt(stmt)
	}
	c.symtab.CloseScope()
	c.currentFunc = prevFunc
}

func (c *Checker) checkReturn(r *ast.Return) {
	if c.currentFunc == nil {
		return
	}
	if r.Value == nil {
		if c.currentFunc.Kind != types.Void {
			c.diagTok(&r.Keyword, "missing return value; enclosing function returns %s", c.currentFunc)
		}
		return
	}
	valType := c.checkExpr(r.Value)
	if valType == nil {
		return
	}
	if c.currentFunc.Kind == types.Void {
		c.diagTok(&r.Keyword, "function returns void but a value was returned")
		return
	}
	if !types.Equals(c.currentFunc, valType) {
		c.diagTok(&r.Keyword, "return type mismatch: expected %s, got %s", c.currentFunc, valType)
	}
}

// --- expressions ---

func (c *Checker) checkExpr(e ast.Expr) *types.Type {
	if e == nil {
		return nil
	}
	var result *types.Type
	switch ex := e.(type) {
	case *ast.Literal:
		result = ex.Type()
	case *ast.Variable:
		result = c.checkVariable(ex)
	case *ast.Assign:
		result = c.checkAssign(ex)
	case *ast.Binary:
		result = c.checkBinary(ex)
	case *ast.Unary:
		result = c.checkUnary(ex)
	case *ast.Call:
		result = c.checkCall(ex)
	case *ast.Array:
		result = c.checkArray(ex)
	case *ast.ArrayAccess:
		result = c.checkArrayAccess(ex)
	case *ast.Member:
		result = c.checkMember(ex)
	case *ast.Increment:
		result = c.checkIncDec(ex.Operand)
	case *ast.Decrement:
		result = c.checkIncDec(ex.Operand)
	case *ast.Interpolated:
		for _, part := range ex.Parts {
			c.checkExpr(part)
		}
		result = types.NewPrimitive(types.String)
	}
	if result != nil {
		e.SetType(result)
	}
	return result
}

func (c *Checker) checkVariable(v *ast.Variable) *types.Type {
	sym, ok := c.symtab.Lookup(v.Name.Lexeme)
	if !ok {
		c.diagTok(&v.Name, "undeclared identifier %q", v.Name.Lexeme)
		return nil
	}
	return sym.DeclaredType
}

func (c *Checker) checkAssign(a *ast.Assign) *types.Type {
	sym, ok := c.symtab.Lookup(a.Name.Lexeme)
	if !ok {
		c.diagTok(&a.Name, "undeclared identifier %q", a.Name.Lexeme)
		return nil
	}
	valType := c.checkExpr(a.Value)
	if valType == nil {
		return sym.DeclaredType
	}
	if sym.DeclaredType != nil && sym.DeclaredType.Kind != types.Any && !types.Equals(sym.DeclaredType, valType) {
		c.diagTok(&a.Name, "cannot assign %s to %q of type %s", valType, a.Name.Lexeme, sym.DeclaredType)
	}
	return sym.DeclaredType
}

func (c *Checker) checkBinary(b *ast.Binary) *types.Type {
	left := c.checkExpr(b.Left)
	right := c.checkExpr(b.Right)
	if left == nil || right == nil {
		return nil
	}

	switch b.Op {
	case token.Plus, token.Minus, token.Star, token.Slash, token.Percent:
		if b.Op == token.Plus && left.Kind == types.String && right.Kind == types.String {
			return types.NewPrimitive(types.String)
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			c.diagTok(b.Token(), "arithmetic operator %s requires numeric operands, got %s and %s", b.Op, left, right)
			return nil
		}
		if left.Kind != right.Kind {
			c.diagTok(b.Token(), "mixed numeric types in arithmetic (%s and %s); an explicit cast is required", left, right)
			return nil
		}
		return left
	case token.EqualEqual, token.NotEqual, token.Less, token.LessEq, token.Greater, token.GreaterEq:
		if left.Kind != right.Kind {
			c.diagTok(b.Token(), "comparison operands must be the same kind, got %s and %s", left, right)
		}
		return types.NewPrimitive(types.Bool)
	case token.AndAnd, token.OrOr:
		if left.Kind != types.Bool || right.Kind != types.Bool {
			c.diagTok(b.Token(), "logical operator %s requires bool operands", b.Op)
		}
		return types.NewPrimitive(types.Bool)
	default:
		return nil
	}
}

func (c *Checker) checkUnary(u *ast.Unary) *types.Type {
	operand := c.checkExpr(u.Operand)
	if operand == nil {
		return nil
	}
	switch u.Op {
	case token.Bang:
		if operand.Kind != types.Bool {
			c.diagTok(u.Token(), "unary ! requires a bool operand, got %s", operand)
		}
		return types.NewPrimitive(types.Bool)
	case token.Minus:
		if !operand.IsNumeric() {
			c.diagTok(u.Token(), "unary - requires a numeric operand, got %s", operand)
		}
		return operand
	default:
		return operand
	}
}

func (c *Checker) checkIncDec(operand ast.Expr) *types.Type {
	ty := c.checkExpr(operand)
	if ty != nil && ty.Kind != types.Int && ty.Kind != types.Long {
		c.diagTok(operand.Token(), "increment/decrement applies only to int or long variables, got %s", ty)
	}
	return ty
}

func (c *Checker) checkCall(call *ast.Call) *types.Type {
	calleeType := c.checkExpr(call.Callee)
	argTypes := make([]*types.Type, len(call.Arguments))
	for i, arg := range call.Arguments {
		argTypes[i] = c.checkExpr(arg)
	}
	if calleeType == nil {
		return nil
	}
	if calleeType.Kind != types.FunctionKind {
		if calleeType.Kind == types.Any {
			return types.NewPrimitive(types.Any)
		}
		c.diagTok(call.Token(), "attempt to call a non-function value of type %s", calleeType)
		return nil
	}
	if len(calleeType.Params) != len(call.Arguments) {
		c.diagTok(call.Token(), "expected %d arguments, got %d", len(calleeType.Params), len(call.Arguments))
		return calleeType.Return
	}
	for i, want := range calleeType.Params {
		if want != nil && want.Kind == types.Any {
			continue
		}
		if argTypes[i] != nil && !types.Equals(want, argTypes[i]) {
			c.diagTok(call.Arguments[i].Token(), "argument %d: expected %s, got %s", i+1, want, argTypes[i])
		}
	}
	return calleeType.Return
}

func (c *Checker) checkArray(arr *ast.Array) *types.Type {
	var elem *types.Type
	for _, e := range arr.Elements {
		t := c.checkExpr(e)
		if t != nil && elem == nil {
			elem = t
		}
	}
	return types.NewArray(elem)
}

func (c *Checker) checkArrayAccess(aa *ast.ArrayAccess) *types.Type {
	arrType := c.checkExpr(aa.Array)
	idxType := c.checkExpr(aa.Index)
	if idxType != nil && idxType.Kind != types.Int && idxType.Kind != types.Long {
		c.diagTok(aa.Token(), "array index must be int or long, got %s", idxType)
	}
	if arrType == nil {
		return nil
	}
	if arrType.Kind == types.Any {
		return types.NewPrimitive(types.Any)
	}
	if arrType.Kind != types.ArrayKind {
		c.diagTok(aa.Token(), "cannot index a value of type %s", arrType)
		return nil
	}
	return arrType.Elem
}

func (c *Checker) checkMember(m *ast.Member) *types.Type {
	objType := c.checkExpr(m.Object)
	if objType == nil {
		return nil
	}
	switch objType.Kind {
	case types.ArrayKind:
		switch m.Member.Lexeme {
		case "length":
			return types.NewPrimitive(types.Int)
		case "push":
			elem := objType.Elem
			if elem == nil {
				elem = types.NewPrimitive(types.Any)
			}
			return types.NewFunction(types.NewPrimitive(types.Void), 1, []*types.Type{elem})
		}
	case types.String:
		if ty, ok := stringMembers[m.Member.Lexeme]; ok {
			return ty
		}
	case types.Any:
		return types.NewPrimitive(types.Any)
	default:
		c.diagTok(&m.Member, "type %s has no members", objType)
		return nil
	}
	c.diagTok(&m.Member, "%s has no member %q", objType, m.Member.Lexeme)
	return nil
}

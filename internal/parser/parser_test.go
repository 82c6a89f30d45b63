package parser

import (
	"testing"

	"sn/internal/ast"
	"sn/internal/diag"
	"sn/internal/lexer"
	"sn/internal/symtab"
	"sn/internal/token"
)

func parseSource(input string) (*ast.Module, *diag.Reporter) {
	toks := lexer.New(input, "t.sn").ScanTokens()
	rep := &diag.Reporter{}
	p := New(toks, symtab.New(), rep)
	return p.Execute("t.sn"), rep
}

func assertParseSuccess(t *testing.T, input, description string) *ast.Module {
	t.Helper()
	mod, rep := parseSource(input)
	if rep.HasErrors() {
		t.Fatalf("%s: parsing failed: %s", description, rep.Summary())
	}
	if mod == nil {
		t.Fatalf("%s: parsing returned a nil module with no reported errors", description)
	}
	return mod
}

func assertParseError(t *testing.T, input, description string) {
	t.Helper()
	mod, rep := parseSource(input)
	if !rep.HasErrors() || mod != nil {
		t.Fatalf("%s: expected a parse error, got none", description)
	}
}

func TestVarDeclWithExplicitType(t *testing.T) {
	mod := assertParseSuccess(t, `var x: int = 5`, "explicit int var decl")
	if len(mod.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(mod.Statements))
	}
	vd, ok := mod.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", mod.Statements[0])
	}
	if vd.Name.Lexeme != "x" {
		t.Fatalf("got name %q, want x", vd.Name.Lexeme)
	}
}

func TestVarDeclWithoutTypeInfersPlaceholder(t *testing.T) {
	mod := assertParseSuccess(t, `var y = 10`, "inferred var decl")
	vd := mod.Statements[0].(*ast.VarDecl)
	if vd.Type == nil {
		t.Fatalf("VarDecl.Type must never be nil, even before inference")
	}
}

func TestFunctionWithArrowBody(t *testing.T) {
	mod := assertParseSuccess(t, `fn add(a: int, b: int): int => a + b`, "arrow-bodied function")
	fn := mod.Statements[0].(*ast.Function)
	if len(fn.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(fn.Params))
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected arrow body to desugar to a single return statement")
	}
	if _, ok := fn.Body[0].(*ast.Return); !ok {
		t.Fatalf("expected *ast.Return, got %T", fn.Body[0])
	}
}

func TestFunctionWithBlockBody(t *testing.T) {
	mod := assertParseSuccess(t, `fn main(): void { var x: int = 1 return }`, "block-bodied function")
	fn := mod.Statements[0].(*ast.Function)
	if len(fn.Body) != 2 {
		t.Fatalf("got %d body statements, want 2", len(fn.Body))
	}
}

func TestFunctionDefaultsToVoidReturn(t *testing.T) {
	mod := assertParseSuccess(t, `fn noop() { }`, "function with no return type")
	fn := mod.Statements[0].(*ast.Function)
	if fn.ReturnType == nil || fn.ReturnType.String() != "void" {
		t.Fatalf("expected functions with no ':' clause to default to void, got %v", fn.ReturnType)
	}
}

func TestImportWithNamespaceAlias(t *testing.T) {
	mod := assertParseSuccess(t, `import "strings" as str`, "namespaced import")
	imp := mod.Statements[0].(*ast.Import)
	if imp.Namespace == nil || imp.Namespace.Lexeme != "str" {
		t.Fatalf("expected namespace alias 'str'")
	}
}

func TestImportAliasCannotBeReservedKeyword(t *testing.T) {
	assertParseError(t, `import "strings" as var`, "reserved keyword used as import alias")
}

func TestImportMalformedPathIsReported(t *testing.T) {
	assertParseError(t, `import "" `, "empty import path should fail module path validation")
}

func TestIfElseIf(t *testing.T) {
	mod := assertParseSuccess(t, `
fn classify(n: int): string {
	if n < 0 { return "negative" } else if n == 0 { return "zero" } else { return "positive" }
}`, "if/else-if/else chain")
	fn := mod.Statements[0].(*ast.Function)
	ifStmt := fn.Body[0].(*ast.If)
	if ifStmt.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestWhileLoop(t *testing.T) {
	mod := assertParseSuccess(t, `fn loopy() { while true { } }`, "while loop")
	fn := mod.Statements[0].(*ast.Function)
	if _, ok := fn.Body[0].(*ast.While); !ok {
		t.Fatalf("expected *ast.While, got %T", fn.Body[0])
	}
}

func TestCStyleForLoop(t *testing.T) {
	mod := assertParseSuccess(t, `fn loopy() { for (var i: int = 0; i < 10; i = i + 1) { } }`, "C-style for loop")
	fn := mod.Statements[0].(*ast.Function)
	forStmt, ok := fn.Body[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", fn.Body[0])
	}
	if forStmt.Init == nil || forStmt.Cond == nil || forStmt.Step == nil {
		t.Fatalf("expected all three for-loop clauses to be present")
	}
}

func TestForLoopAllClausesOptional(t *testing.T) {
	mod := assertParseSuccess(t, `fn loopy() { for (;;) { } }`, "bare for loop")
	fn := mod.Statements[0].(*ast.Function)
	forStmt := fn.Body[0].(*ast.For)
	if forStmt.Init != nil || forStmt.Cond != nil || forStmt.Step != nil {
		t.Fatalf("expected every clause to be omitted")
	}
}

func TestBinaryPrecedence(t *testing.T) {
	mod := assertParseSuccess(t, `fn f() { var r = 1 + 2 * 3 }`, "precedence of * over +")
	fn := mod.Statements[0].(*ast.Function)
	vd := fn.Body[0].(*ast.VarDecl)
	bin, ok := vd.Init.(*ast.Binary)
	if !ok {
		t.Fatalf("expected top-level *ast.Binary, got %T", vd.Init)
	}
	if bin.Op != token.Plus {
		t.Fatalf("expected '+' at the top since '*' binds tighter, got %s", bin.Op)
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("expected the right operand to itself be a Binary ('2 * 3')")
	}
}

func TestArrayLiteralAndIndexing(t *testing.T) {
	mod := assertParseSuccess(t, `fn f() { var a = [1, 2, 3] var b = a[0] }`, "array literal and indexing")
	fn := mod.Statements[0].(*ast.Function)
	arrDecl := fn.Body[0].(*ast.VarDecl)
	if _, ok := arrDecl.Init.(*ast.Array); !ok {
		t.Fatalf("expected *ast.Array, got %T", arrDecl.Init)
	}
	idxDecl := fn.Body[1].(*ast.VarDecl)
	if _, ok := idxDecl.Init.(*ast.ArrayAccess); !ok {
		t.Fatalf("expected *ast.ArrayAccess, got %T", idxDecl.Init)
	}
}

func TestArrayTypeAnnotation(t *testing.T) {
	mod := assertParseSuccess(t, `var xs: int[] = [1, 2]`, "array-of-int type annotation")
	vd := mod.Statements[0].(*ast.VarDecl)
	if vd.Type.String() != "array of int" {
		t.Fatalf("got type %s, want array of int", vd.Type)
	}
}

func TestMemberAccessAndCall(t *testing.T) {
	mod := assertParseSuccess(t, `fn f() { str.upper("hi") }`, "namespaced call via member access")
	fn := mod.Statements[0].(*ast.Function)
	exprStmt := fn.Body[0].(*ast.ExprStmt)
	call, ok := exprStmt.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("expected *ast.Call, got %T", exprStmt.Expr)
	}
	if _, ok := call.Callee.(*ast.Member); !ok {
		t.Fatalf("expected call target to be *ast.Member, got %T", call.Callee)
	}
}

func TestIncrementDecrement(t *testing.T) {
	mod := assertParseSuccess(t, `fn f() { var i: int = 0 i++ i-- }`, "postfix increment/decrement")
	fn := mod.Statements[0].(*ast.Function)
	if _, ok := fn.Body[1].(*ast.ExprStmt).Expr.(*ast.Increment); !ok {
		t.Fatalf("expected *ast.Increment")
	}
	if _, ok := fn.Body[2].(*ast.ExprStmt).Expr.(*ast.Decrement); !ok {
		t.Fatalf("expected *ast.Decrement")
	}
}

func TestInterpolatedStringLiteral(t *testing.T) {
	mod := assertParseSuccess(t, `fn f() { var name: string = "world" var greeting = "hi ${name}!" }`, "interpolated string")
	fn := mod.Statements[0].(*ast.Function)
	vd := fn.Body[1].(*ast.VarDecl)
	if _, ok := vd.Init.(*ast.Interpolated); !ok {
		t.Fatalf("expected *ast.Interpolated, got %T", vd.Init)
	}
}

func TestAssignmentToUndeclaredTargetStillParses(t *testing.T) {
	// Assignment targets are resolved by the type checker, not the
	// parser; the grammar only requires an identifier on the left.
	assertParseSuccess(t, `fn f() { x = 1 }`, "assignment statement")
}

func TestAssignmentToNonVariableIsAParseError(t *testing.T) {
	assertParseError(t, `fn f() { 1 = 2 }`, "numeric literal is not a valid assignment target")
}

func TestDuplicateVariableInSameScopeIsRejected(t *testing.T) {
	assertParseError(t, `fn f() { var x: int = 1 var x: int = 2 }`, "redeclaration in the innermost scope")
}

func TestForLoopVariableScopedToLoop(t *testing.T) {
	assertParseSuccess(t, `
fn f() {
	for (var i: int = 0; i < 2; i++) { }
	for (var i: int = 0; i < 2; i++) { }
}`, "each for loop owns its own header scope")
}

func TestMultipleErrorsCollectedInOnePass(t *testing.T) {
	_, rep := parseSource(`
fn broken1() { var }
fn broken2() { var }
`)
	if len(rep.Diagnostics()) < 2 {
		t.Fatalf("expected panic-mode recovery to surface more than one diagnostic, got %d", len(rep.Diagnostics()))
	}
}

func TestEmptyProgramParsesToEmptyModule(t *testing.T) {
	mod := assertParseSuccess(t, ``, "empty source")
	if len(mod.Statements) != 0 {
		t.Fatalf("expected zero statements")
	}
}

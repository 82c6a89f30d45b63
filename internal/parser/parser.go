// Package parser is a predictive recursive-descent parser with
// panic-mode recovery at statement boundaries.
//
// Uses the same match/check/consume/advance utility set, the same
// precedence-climbing expression parser, and the same "consume panics
// on mismatch, the caller recovers and reports" error shape as the
// rest of this front end, generalized to SN's grammar (typed var/fn
// declarations, namespaced imports, braces-based control flow).
package parser

import (
	"fmt"

	"golang.org/x/mod/module"

	"sn/internal/arena"
	"sn/internal/ast"
	"sn/internal/diag"
	"sn/internal/symtab"
	"sn/internal/token"
	"sn/internal/types"
)

var precedence = map[token.Kind]int{
	token.OrOr:       1,
	token.AndAnd:     2,
	token.EqualEqual: 3,
	token.NotEqual:   3,
	token.Less:       3,
	token.LessEq:     3,
	token.Greater:    3,
	token.GreaterEq:  3,
	token.Plus:       4,
	token.Minus:      4,
	token.Star:       5,
	token.Slash:      5,
	token.Percent:    5,
}

// parseError is panicked by errorAt and recovered at the nearest
// statement boundary, a panic-mode recovery shape.
type parseError struct {
	diag.Diagnostic
}

// Parser turns a token stream into a Module, consulting a SymbolTable
// for import/namespace resolution as it goes.
type Parser struct {
	tokens   []token.Token
	current  int
	arena    *arena.Arena
	symtab   *symtab.SymbolTable
	reporter *diag.Reporter
	hadError bool
}

// New builds a parser over tokens, using st for namespace declarations
// and rep to collect diagnostics.
func New(tokens []token.Token, st *symtab.SymbolTable, rep *diag.Reporter) *Parser {
	return &Parser{tokens: tokens, arena: arena.New(), symtab: st, reporter: rep}
}

// Execute parses top-level statements until EOF. The
// returned Module is withheld (nil) when any error occurred during the
// pass; the parser still consumes every token, surfacing every error it
// can before giving up on producing a module.
func (p *Parser) Execute(filename string) *ast.Module {
	mod := ast.NewModule(filename)
	for !p.isAtEnd() {
		stmt := p.topLevelDecl()
		if stmt != nil {
			mod.Append(stmt)
		}
	}
	if p.hadError {
		return nil
	}
	return mod
}

func (p *Parser) topLevelDecl() (result ast.Stmt) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			p.hadError = true
			p.reporter.Report(pe.Origin, pe.Message, pe.Tok)
			p.synchronize()
			result = nil
		}
	}()
	return p.statement()
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.Import):
		return p.importStatement()
	case p.match(token.Fn):
		return p.function()
	case p.match(token.Var):
		return p.varDecl()
	case p.match(token.Return):
		return p.returnStatement()
	case p.match(token.If):
		return p.ifStatement()
	case p.match(token.While):
		return p.whileStatement()
	case p.match(token.For):
		return p.forStatement()
	case p.check(token.LBrace):
		return p.block()
	default:
		expr := p.expression()
		p.consumeStatementEnd()
		return &ast.ExprStmt{Expr: expr}
	}
}

func (p *Parser) importStatement() ast.Stmt {
	path := p.consume(token.StringLit, "expect a module path string after 'import'")
	if err := module.CheckImportPath(path.Lexeme); err != nil {
		p.errorAt(diag.ParseOrigin, fmt.Sprintf("malformed import path %q: %v", path.Lexeme, err), path)
	}
	var alias *token.Token
	if p.match(token.As) {
		name := p.consume(token.Ident, "expect an identifier after 'as'")
		alias = &name
		if p.symtab != nil {
			sub := symtab.New()
			if err := p.symtab.DeclareNamespace(name.Lexeme, sub); err != nil {
				p.errorAt(diag.ParseOrigin, err.Error(), name)
			}
		}
	}
	p.consumeStatementEnd()
	return ast.NewImport(p.arena, path, alias)
}

func (p *Parser) varDecl() ast.Stmt {
	name := p.consume(token.Ident, "expect a variable name after 'var'")
	var ty *types.Type
	if p.match(token.Colon) {
		ty = p.parseType()
	}
	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	if ty == nil {
		// No explicit annotation: construct with a placeholder the type
		// checker replaces once it has inferred the initializer's type.
		// The constructor still requires a non-nil type.
		ty = types.NewPrimitive(types.Any)
	}
	p.consumeStatementEnd()
	decl := ast.NewVarDecl(p.arena, name, ty, init)
	p.declare(name, &symtab.Symbol{Name: name.Lexeme, DeclaredType: ty, Kind: symtab.VarKind, Source: name})
	return decl
}

// declare binds a symbol in the innermost scope and reports a
// resolution diagnostic on redeclaration, without abandoning the
// statement: the node is still built so later errors keep surfacing.
func (p *Parser) declare(name token.Token, sym *symtab.Symbol) {
	if p.symtab == nil {
		return
	}
	if err := p.symtab.Declare(name.Lexeme, sym); err != nil {
		p.hadError = true
		p.reporter.Report(diag.ResolutionOrigin, err.Error(), name)
	}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.RBrace) && !p.check(token.Semicolon) && !p.isAtEnd() {
		value = p.expression()
	}
	p.consumeStatementEnd()
	return ast.NewReturn(p.arena, keyword, value)
}

func (p *Parser) ifStatement() ast.Stmt {
	cond := p.expression()
	then := p.block()
	var els ast.Stmt
	if p.match(token.Else) {
		if p.match(token.If) {
			els = p.ifStatement()
		} else {
			els = p.block()
		}
	}
	return ast.NewIf(p.arena, cond, then, els)
}

func (p *Parser) whileStatement() ast.Stmt {
	cond := p.expression()
	body := p.block()
	return ast.NewWhile(p.arena, cond, body)
}

func (p *Parser) forStatement() ast.Stmt {
	p.consume(token.LParen, "expect '(' after 'for'")
	if p.symtab != nil {
		p.symtab.OpenScope()
	}

	var init ast.Stmt
	if !p.check(token.Semicolon) {
		if p.match(token.Var) {
			init = p.varDeclNoTerminator()
		} else {
			init = &ast.ExprStmt{Expr: p.expression()}
		}
	}
	p.consume(token.Semicolon, "expect ';' after for loop initializer")

	var cond ast.Expr
	if !p.check(token.Semicolon) {
		cond = p.expression()
	}
	p.consume(token.Semicolon, "expect ';' after for loop condition")

	var step ast.Expr
	if !p.check(token.RParen) {
		step = p.expression()
	}
	p.consume(token.RParen, "expect ')' after for clauses")

	body := p.block()
	if p.symtab != nil {
		p.symtab.CloseScope()
	}
	return ast.NewFor(p.arena, init, cond, step, body)
}

// varDeclNoTerminator parses a `var name: type = init` clause without
// consuming a trailing statement terminator, for use in a for-loop header.
func (p *Parser) varDeclNoTerminator() ast.Stmt {
	name := p.consume(token.Ident, "expect a variable name after 'var'")
	var ty *types.Type
	if p.match(token.Colon) {
		ty = p.parseType()
	}
	var init ast.Expr
	if p.match(token.Equal) {
		init = p.expression()
	}
	if ty == nil {
		ty = types.NewPrimitive(types.Any)
	}
	p.declare(name, &symtab.Symbol{Name: name.Lexeme, DeclaredType: ty, Kind: symtab.VarKind, Source: name})
	return ast.NewVarDecl(p.arena, name, ty, init)
}

func (p *Parser) block() ast.Stmt {
	p.consume(token.LBrace, "expect '{'")
	if p.symtab != nil {
		p.symtab.OpenScope()
	}
	var stmts []ast.Stmt
	for !p.check(token.RBrace) && !p.isAtEnd() {
		stmts = append(stmts, p.statement())
	}
	p.consume(token.RBrace, "expect '}'")
	if p.symtab != nil {
		p.symtab.CloseScope()
	}
	return ast.NewBlock(p.arena, stmts)
}

func (p *Parser) function() ast.Stmt {
	name := p.consume(token.Ident, "expect a function name after 'fn'")
	p.consume(token.LParen, "expect '(' after function name")

	if p.symtab != nil {
		p.symtab.OpenScope()
	}

	var params []ast.Parameter
	if !p.check(token.RParen) {
		params = append(params, p.parameter())
		for p.match(token.Comma) {
			params = append(params, p.parameter())
		}
	}
	p.consume(token.RParen, "expect ')' after parameters")

	var ret *types.Type
	if p.match(token.Colon) {
		ret = p.parseType()
	} else {
		ret = types.NewPrimitive(types.Void)
	}

	var body []ast.Stmt
	if p.match(token.Arrow) {
		expr := p.expression()
		p.consumeStatementEnd()
		if ret.Kind == types.Void {
			// A void function's arrow body is a bare expression
			// statement; wrapping it in a return would make the checker
			// reject `fn main(): void => print("hi")`.
			body = []ast.Stmt{&ast.ExprStmt{Expr: expr}}
		} else {
			body = []ast.Stmt{ast.NewReturn(p.arena, name, expr)}
		}
	} else {
		blk := p.block().(*ast.Block)
		body = blk.Stmts
	}

	if p.symtab != nil {
		p.symtab.CloseScope()
	}

	fn := ast.NewFunction(p.arena, name, params, ret, body)
	paramTypes := make([]*types.Type, len(params))
	for i, prm := range params {
		paramTypes[i] = prm.Type
	}
	fnType := types.NewFunction(ret, len(paramTypes), paramTypes)
	p.declare(name, &symtab.Symbol{Name: name.Lexeme, DeclaredType: fnType, Kind: symtab.FnKind, Source: name})
	return fn
}

func (p *Parser) parameter() ast.Parameter {
	name := p.consume(token.Ident, "expect a parameter name")
	p.consume(token.Colon, "expect ':' after parameter name")
	ty := p.parseType()
	p.declare(name, &symtab.Symbol{Name: name.Lexeme, DeclaredType: ty, Kind: symtab.ParamKind, Source: name})
	return ast.Parameter{Name: name, Type: ty}
}

// parseType reads a base type keyword (or an identifier, treated as
// ANY since SN's CORE has no user-defined nominal types) followed by any
// number of `[]` suffixes building nested array types.
func (p *Parser) parseType() *types.Type {
	var base *types.Type
	switch {
	case p.match(token.IntType):
		base = types.NewPrimitive(types.Int)
	case p.match(token.LongType):
		base = types.NewPrimitive(types.Long)
	case p.match(token.DoubleType):
		base = types.NewPrimitive(types.Double)
	case p.match(token.CharType):
		base = types.NewPrimitive(types.Char)
	case p.match(token.StringType):
		base = types.NewPrimitive(types.String)
	case p.match(token.BoolType):
		base = types.NewPrimitive(types.Bool)
	case p.match(token.VoidType):
		base = types.NewPrimitive(types.Void)
	case p.match(token.AnyType):
		base = types.NewPrimitive(types.Any)
	case p.check(token.Ident):
		p.advance()
		base = types.NewPrimitive(types.Any)
	default:
		p.errorAt(diag.ParseOrigin, "expect a type", p.peek())
		base = types.NewPrimitive(types.Any)
	}
	for p.check(token.LBracket) && p.peekNextKind() == token.RBracket {
		p.advance()
		p.advance()
		base = types.NewArray(base)
	}
	return base
}

// --- expressions, by ascending precedence ---

func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expr {
	expr := p.binary(0)
	if p.match(token.Equal) {
		eq := p.previous()
		value := p.assignment()
		switch target := expr.(type) {
		case *ast.Variable:
			if a := ast.NewAssign(p.arena, target.Name, value); a != nil {
				return a
			}
		default:
			p.errorAt(diag.ParseOrigin, "invalid assignment target", eq)
		}
	}
	return expr
}

func (p *Parser) binary(minPrec int) ast.Expr {
	left := p.unary()
	for {
		tok := p.peek()
		prec, ok := precedence[tok.Kind]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		right := p.binary(prec + 1)
		left = ast.NewBinary(p.arena, left, tok, right)
	}
	return left
}

func (p *Parser) unary() ast.Expr {
	if p.check(token.Bang) || p.check(token.Minus) {
		op := p.advance()
		operand := p.unary()
		return ast.NewUnary(p.arena, op, operand)
	}
	if p.check(token.PlusPlus) {
		op := p.advance()
		operand := p.unary()
		return ast.NewIncrement(p.arena, op, operand)
	}
	if p.check(token.MinusMinus) {
		op := p.advance()
		operand := p.unary()
		return ast.NewDecrement(p.arena, op, operand)
	}
	return p.callMemberIndex()
}

func (p *Parser) callMemberIndex() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.LParen):
			expr = p.finishCall(expr)
		case p.match(token.LBracket):
			idxTok := p.previous()
			index := p.expression()
			p.consume(token.RBracket, "expect ']' after index")
			expr = ast.NewArrayAccess(p.arena, idxTok, expr, index)
		case p.match(token.Dot):
			member := p.consume(token.Ident, "expect a member name after '.'")
			expr = ast.NewMember(p.arena, expr, member)
		case p.check(token.PlusPlus):
			op := p.advance()
			expr = ast.NewIncrement(p.arena, op, expr)
		case p.check(token.MinusMinus):
			op := p.advance()
			expr = ast.NewDecrement(p.arena, op, expr)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	tok := p.previous()
	var args []ast.Expr
	if !p.check(token.RParen) {
		args = append(args, p.expression())
		for p.match(token.Comma) {
			args = append(args, p.expression())
		}
	}
	p.consume(token.RParen, "expect ')' after arguments")
	return ast.NewCall(p.arena, tok, callee, args)
}

func (p *Parser) primary() ast.Expr {
	tok := p.advance()
	switch tok.Kind {
	case token.NumberLit:
		return p.numberLiteral(tok)
	case token.CharLit:
		var v int32
		if len(tok.Lexeme) > 0 {
			v = int32(tok.Lexeme[0])
		}
		return ast.NewLiteral(p.arena, &tok, v, types.NewPrimitive(types.Char))
	case token.StringLit:
		return ast.NewLiteral(p.arena, &tok, tok.Lexeme, types.NewPrimitive(types.String))
	case token.InterpPart:
		return p.interpolated(tok)
	case token.TrueKw:
		return ast.NewLiteral(p.arena, &tok, true, types.NewPrimitive(types.Bool))
	case token.FalseKw:
		return ast.NewLiteral(p.arena, &tok, false, types.NewPrimitive(types.Bool))
	case token.NilKw:
		return ast.NewLiteral(p.arena, &tok, nil, types.NewPrimitive(types.Nil))
	case token.Ident:
		return ast.NewVariable(p.arena, tok)
	case token.LBracket:
		return p.arrayLiteral(tok)
	case token.LParen:
		expr := p.expression()
		p.consume(token.RParen, "expect ')' after expression")
		return expr
	default:
		p.errorAt(diag.ParseOrigin, fmt.Sprintf("unexpected token in expression: %q", tok.Lexeme), tok)
		return ast.NewLiteral(p.arena, &tok, nil, types.NewPrimitive(types.Nil))
	}
}

func (p *Parser) numberLiteral(tok token.Token) ast.Expr {
	isDouble := false
	for _, c := range tok.Lexeme {
		if c == '.' || c == 'e' || c == 'E' {
			isDouble = true
			break
		}
	}
	if isDouble {
		var f float64
		fmt.Sscanf(tok.Lexeme, "%g", &f)
		return ast.NewLiteral(p.arena, &tok, f, types.NewPrimitive(types.Double))
	}
	var n int64
	fmt.Sscanf(tok.Lexeme, "%d", &n)
	return ast.NewLiteral(p.arena, &tok, n, types.NewPrimitive(types.Int))
}

func (p *Parser) interpolated(first token.Token) ast.Expr {
	var parts []ast.Expr
	parts = append(parts, ast.NewLiteral(p.arena, &first, first.Lexeme, types.NewPrimitive(types.String)))
	for !p.check(token.InterpEnd) {
		parts = append(parts, p.expression())
		if p.check(token.InterpPart) {
			frag := p.advance()
			parts = append(parts, ast.NewLiteral(p.arena, &frag, frag.Lexeme, types.NewPrimitive(types.String)))
		}
	}
	end := p.consume(token.InterpEnd, "expect end of interpolated string")
	return ast.NewInterpolated(p.arena, end, parts)
}

func (p *Parser) arrayLiteral(tok token.Token) ast.Expr {
	var elements []ast.Expr
	for !p.check(token.RBracket) && !p.isAtEnd() {
		elements = append(elements, p.expression())
		if !p.match(token.Comma) {
			break
		}
	}
	p.consume(token.RBracket, "expect ']' after array elements")
	return ast.NewArray(p.arena, tok, elements)
}

// --- token stream utilities ---

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) check(k token.Kind) bool {
	return !p.isAtEnd() && p.peek().Kind == k
}

func (p *Parser) peekNextKind() token.Kind {
	if p.current+1 >= len(p.tokens) {
		return token.EOF
	}
	return p.tokens[p.current+1].Kind
}

func (p *Parser) consume(k token.Kind, msg string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	p.errorAt(diag.ParseOrigin, fmt.Sprintf("%s (got %q)", msg, p.peek().Lexeme), p.peek())
	return p.peek()
}

// consumeStatementEnd swallows an optional statement-terminating
// semicolon; SN statements are also separated by newlines, which the
// lexer does not turn into tokens, so a semicolon is never required.
func (p *Parser) consumeStatementEnd() {
	p.match(token.Semicolon)
}

func (p *Parser) advance() token.Token {
	tok := p.tokens[p.current]
	if !p.isAtEnd() {
		p.current++
	}
	if tok.Kind == token.Error {
		p.errorAt(diag.LexOrigin, tok.Lexeme, tok)
	}
	return tok
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.tokens[p.current].Kind == token.EOF
}

func (p *Parser) errorAt(origin diag.Origin, message string, tok token.Token) {
	panic(parseError{diag.Diagnostic{Origin: origin, Message: message, Tok: tok}})
}

// synchronize discards tokens until a likely statement boundary, so one
// pass can surface more than one diagnostic.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Fn, token.Var, token.Return, token.If, token.While, token.For, token.Import, token.RBrace:
			return
		}
		p.advance()
	}
}

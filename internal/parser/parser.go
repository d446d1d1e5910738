// Package parser implements Drift's recursive-descent, operator-precedence
// parser. Its helper shape (match/check/consume/advance/previous/current)
// follows the teacher's codecrafters/cmd/parser.go line for line; the
// precedence ladder and statement grammar come from spec.md §4.2.
package parser

import (
	"fmt"

	"github.com/drift-lang/drift/internal/ast"
	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/lexer"
	"github.com/drift-lang/drift/internal/token"
	"github.com/drift-lang/drift/internal/types"
)

// Parser consumes a token slice and builds an ast.Program.
type Parser struct {
	toks []token.Token
	idx  int
}

// New creates a Parser over a pre-scanned token slice.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse runs the parser to completion.
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*exception.Exception); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	prog = &ast.Program{}
	for !p.atEnd() {
		prog.Stmts = append(prog.Stmts, p.declaration())
	}
	return prog, nil
}

// ---------------------------------------------------------------- helpers

func (p *Parser) current() token.Token {
	return p.toks[p.idx]
}

func (p *Parser) previous() token.Token {
	if p.idx > 0 {
		return p.toks[p.idx-1]
	}
	return p.current()
}

func (p *Parser) atEnd() bool { return p.current().Kind == token.EOF }

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.atEnd() {
		p.idx++
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool {
	return !p.atEnd() && p.current().Kind == k
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(k token.Kind, msg string) token.Token {
	if !p.check(k) {
		p.fail(exception.Unexpected, msg)
	}
	return p.advance()
}

func (p *Parser) fail(kind exception.Kind, msg string) {
	tok := p.current()
	panic(exception.New(kind, fmt.Sprintf("%s (found %q)", msg, tok.Literal), tok.Line))
}

// ---------------------------------------------------------------- statements

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.check(token.DEF):
		return p.defStmt()
	default:
		return p.statement()
	}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.IF):
		return p.ifStmt()
	case p.match(token.FOR):
		return p.forStmt()
	case p.match(token.DO):
		return p.doStmt()
	case p.match(token.OUT):
		return p.outStmt()
	case p.match(token.TIN):
		return p.tinStmt()
	case p.match(token.AND):
		return p.andStmt()
	case p.match(token.MOD):
		return p.modStmt()
	case p.match(token.USE):
		return p.useStmt()
	case p.match(token.RET):
		return p.retStmt()
	case p.match(token.PUB):
		return &ast.PubStmt{Inner: p.declaration()}
	case p.match(token.L_ARROW):
		return p.inheritStmt()
	case p.check(token.IDENT) && p.peekIsDel():
		return p.delStmt()
	default:
		return p.exprStmt()
	}
}

// `del` is not a reserved word in spec.md's keyword list, so it is
// recognized positionally: an identifier literally spelled "del" at
// statement position, per spec.md's Open Questions note that Del parses
// but lowers to nothing.
func (p *Parser) peekIsDel() bool {
	return p.current().Literal == "del"
}

func (p *Parser) delStmt() ast.Stmt {
	p.advance() // "del"
	name := p.consume(token.IDENT, "expected a name after 'del'")
	return &ast.DelStmt{Name: name.Literal}
}

// defStmt disambiguates variable / function / interface / whole
// declarations, all of which start with `def` (spec.md §4.2).
func (p *Parser) defStmt() ast.Stmt {
	p.advance() // consume 'def'

	if p.check(token.L_PAREN) {
		return p.funcOrInterfaceStmt()
	}

	name := p.consume(token.IDENT, "expected a name after 'def'")

	if p.check(token.COLON) {
		p.advance()
		typ := p.parseType()
		var init ast.Expr
		if p.match(token.EQ) {
			init = p.expression()
		}
		return &ast.VarStmt{Name: name.Literal, Type: typ, Init: init}
	}

	// whole declaration: def Name [<- Parent [+ Parent]*] body end
	var inherit []string
	if p.match(token.L_ARROW) {
		inherit = append(inherit, p.consume(token.IDENT, "expected parent name").Literal)
		for p.match(token.PLUS) {
			inherit = append(inherit, p.consume(token.IDENT, "expected parent name").Literal)
		}
	}
	body := p.blockUntilEnd()
	return &ast.WholeStmt{Name: name.Literal, Inherit: inherit, Body: body}
}

// funcOrInterfaceStmt parses `def ( args ) Name [-> Ret] body end` or the
// bodyless interface form `def ( typeList ) *Name [-> Ret]`.
func (p *Parser) funcOrInterfaceStmt() ast.Stmt {
	p.advance() // '('

	// Peek ahead: an interface's parenthesized list holds bare types, a
	// function's holds `name [+ name]* : type` groups. We look for the
	// '*' that marks an interface name to disambiguate without unbounded
	// backtracking: interfaces always look like `( T, T ) *name`.
	start := p.idx
	depth := 1
	i := p.idx
	for depth > 0 {
		switch p.toks[i].Kind {
		case token.L_PAREN:
			depth++
		case token.R_PAREN:
			depth--
		}
		i++
	}
	isInterface := i < len(p.toks) && p.toks[i].Kind == token.STAR
	p.idx = start

	if isInterface {
		return p.interfaceStmt()
	}
	return p.funcStmt()
}

func (p *Parser) funcStmt() ast.Stmt {
	var params []ast.Param
	if !p.check(token.R_PAREN) {
		params = append(params, p.paramGroup())
		for p.match(token.COMMA) {
			params = append(params, p.paramGroup())
		}
	}
	p.consume(token.R_PAREN, "expected ')' after parameters")

	name := p.consume(token.IDENT, "expected function name")

	var ret types.Type
	if p.match(token.R_ARROW) {
		ret = p.parseType()
	}

	body := p.blockUntilEnd()
	return &ast.FuncStmt{Name: name.Literal, Params: params, Ret: ret, Body: body}
}

// paramGroup parses "coalesced" names: `a + b + c : T` binds all three to
// T. A lone `self` with no following ':' is the implicit receiver
// parameter of a whole method and carries no explicit type.
func (p *Parser) paramGroup() ast.Param {
	var names []string
	names = append(names, p.consume(token.IDENT, "expected a parameter name").Literal)
	for p.match(token.PLUS) {
		names = append(names, p.consume(token.IDENT, "expected a parameter name").Literal)
	}
	if len(names) == 1 && names[0] == "self" && !p.check(token.COLON) {
		return ast.Param{Names: names, Type: types.UserRefType{Name: "Self"}}
	}
	p.consume(token.COLON, "expected ':' after parameter name")
	typ := p.parseType()
	return ast.Param{Names: names, Type: typ}
}

func (p *Parser) interfaceStmt() ast.Stmt {
	var args []types.Type
	if !p.check(token.R_PAREN) {
		args = append(args, p.parseType())
		for p.match(token.COMMA) {
			args = append(args, p.parseType())
		}
	}
	p.consume(token.R_PAREN, "expected ')' after interface argument types")
	p.consume(token.STAR, "expected '*' before interface name")
	name := p.consume(token.IDENT, "expected interface name")

	var ret types.Type
	if p.match(token.R_ARROW) {
		ret = p.parseType()
	}
	return &ast.InterfaceStmt{Name: name.Literal, Args: args, Ret: ret}
}

// blockUntilEnd parses statements up to (and consuming) a trailing `end`.
func (p *Parser) blockUntilEnd() *ast.Block {
	b := &ast.Block{}
	for !p.check(token.END) && !p.atEnd() {
		b.Stmts = append(b.Stmts, p.declaration())
	}
	p.consume(token.END, "expected 'end' to close block")
	return b
}

func (p *Parser) ifStmt() ast.Stmt {
	cond := p.expression()
	p.matchThen()
	then := p.ifBody()

	stmt := &ast.IfStmt{Cond: cond, Then: then}
	for p.match(token.EF) {
		efCond := p.expression()
		p.matchThen()
		efBody := p.ifBody()
		stmt.Efs = append(stmt.Efs, ast.CondBlock{Cond: efCond, Block: efBody})
	}
	if p.match(token.NF) {
		stmt.Else = p.ifBody()
	}
	p.consume(token.END, "expected 'end' to close 'if'")
	return stmt
}

// `then` is optional punctuation in Drift's `if cond then … end` grammar;
// it is recognized as the bare word if present but is not a reserved word.
func (p *Parser) matchThen() {
	if p.check(token.IDENT) && p.current().Literal == "then" {
		p.advance()
	}
}

func (p *Parser) ifBody() *ast.Block {
	b := &ast.Block{}
	for !p.check(token.EF) && !p.check(token.NF) && !p.check(token.END) && !p.atEnd() {
		b.Stmts = append(b.Stmts, p.declaration())
	}
	return b
}

// forStmt: `for [cond | ->] body end`; an arrow condition means infinite loop.
func (p *Parser) forStmt() ast.Stmt {
	var cond ast.Expr
	if !p.match(token.R_ARROW) {
		cond = p.expression()
	}
	body := p.blockUntilEnd()
	return &ast.ForStmt{Cond: cond, Body: body}
}

// doStmt: `do body for …` — executes body once, then the for-loop.
func (p *Parser) doStmt() ast.Stmt {
	body := &ast.Block{}
	for !p.check(token.FOR) && !p.atEnd() {
		body.Stmts = append(body.Stmts, p.declaration())
	}
	p.consume(token.FOR, "expected 'for' to close 'do' body")
	loop := p.forStmt().(*ast.ForStmt)
	return &ast.DoStmt{Body: body, Loop: loop}
}

func (p *Parser) outStmt() ast.Stmt {
	if p.match(token.R_ARROW) {
		return &ast.OutStmt{}
	}
	return &ast.OutStmt{Value: p.expression()}
}

func (p *Parser) tinStmt() ast.Stmt {
	if p.match(token.R_ARROW) {
		return &ast.TinStmt{}
	}
	return &ast.TinStmt{Value: p.expression()}
}

func (p *Parser) andStmt() ast.Stmt {
	p.consume(token.R_ARROW, "expected '->' after 'and'")
	alias := p.consume(token.IDENT, "expected alias name after 'and ->'")
	body := p.blockUntilEnd()
	return &ast.AndStmt{Alias: alias.Literal, Body: body}
}

func (p *Parser) modStmt() ast.Stmt {
	name := p.consume(token.IDENT, "expected module name after 'mod'")
	return &ast.ModStmt{Name: name.Literal}
}

func (p *Parser) useStmt() ast.Stmt {
	name := p.consume(token.IDENT, "expected module name after 'use'")
	stmt := &ast.UseStmt{Name: name.Literal}
	if p.match(token.AS) {
		alias := p.consume(token.IDENT, "expected alias after 'as'")
		stmt.Alias = alias.Literal
	}
	return stmt
}

func (p *Parser) retStmt() ast.Stmt {
	kw := p.previous()
	if p.match(token.R_ARROW) {
		return &ast.RetStmt{Keyword: kw}
	}
	return &ast.RetStmt{Keyword: kw, Inner: p.declaration()}
}

func (p *Parser) inheritStmt() ast.Stmt {
	var parents []string
	parents = append(parents, p.consume(token.IDENT, "expected parent name").Literal)
	for p.match(token.PLUS) {
		parents = append(parents, p.consume(token.IDENT, "expected parent name").Literal)
	}
	return &ast.InheritStmt{Parents: parents}
}

func (p *Parser) exprStmt() ast.Stmt {
	expr := p.expression()
	p.match(token.SEMI)
	return &ast.ExprStmt{Expr: expr}
}

// ---------------------------------------------------------------- expressions

func (p *Parser) expression() ast.Expr { return p.assignment() }

func (p *Parser) assignment() ast.Expr {
	expr := p.logicOr()

	if p.match(token.EQ) {
		value := p.assignment()

		switch t := expr.(type) {
		case *ast.NameExpr, *ast.IndexExpr:
			return &ast.AssignExpr{Target: expr, Value: value}
		case *ast.GetExpr:
			return &ast.SetExpr{Object: t.Object, Name: t.Name, Value: value}
		default:
			p.fail(exception.InvalidSyntax, "invalid assignment target")
		}
	}
	return expr
}

func (p *Parser) logicOr() ast.Expr {
	expr := p.logicAnd()
	for p.match(token.PIPE) {
		op := p.previous()
		right := p.logicAnd()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) logicAnd() ast.Expr {
	expr := p.equality()
	for p.match(token.AMP) {
		op := p.previous()
		right := p.equality()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EQ_EQ, token.BANG_EQ) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.additive()
	for p.match(token.GREATER, token.GREATER_EQ, token.LESS, token.LESS_EQ) {
		op := p.previous()
		right := p.additive()
		expr = &ast.BinaryExpr{Left: expr, Op: op, Right: right}
	}
	return expr
}

func (p *Parser) additive() ast.Expr {
	expr := p.multiplicative()
	for p.match(token.PLUS, token.MINUS, token.PLUS_EQ, token.MINUS_EQ) {
		op := p.previous()
		right := p.multiplicative()
		expr = p.maybeCompoundAssign(expr, op, right)
	}
	return expr
}

func (p *Parser) multiplicative() ast.Expr {
	expr := p.unary()
	for p.match(token.STAR, token.SLASH, token.STAR_EQ, token.SLASH_EQ, token.PERCENT, token.PERCENT_EQ) {
		op := p.previous()
		right := p.unary()
		expr = p.maybeCompoundAssign(expr, op, right)
	}
	return expr
}

// maybeCompoundAssign wraps compound-assignment operators (+= -= *= /= %=)
// as an Assign whose value is the plain binary op, matching the compiler's
// expectation (spec.md §4.4: "compound assignment additionally emits
// ASSIGN with the left name").
func (p *Parser) maybeCompoundAssign(left ast.Expr, op token.Token, right ast.Expr) ast.Expr {
	plain, compound := compoundToPlain(op.Kind)
	if !compound {
		return &ast.BinaryExpr{Left: left, Op: op, Right: right}
	}
	bin := &ast.BinaryExpr{Left: left, Op: token.Token{Kind: plain, Literal: plainLiteral(plain), Line: op.Line}, Right: right}
	return &ast.AssignExpr{Target: left, Value: bin}
}

func compoundToPlain(k token.Kind) (token.Kind, bool) {
	switch k {
	case token.PLUS_EQ:
		return token.PLUS, true
	case token.MINUS_EQ:
		return token.MINUS, true
	case token.STAR_EQ:
		return token.STAR, true
	case token.SLASH_EQ:
		return token.SLASH, true
	case token.PERCENT_EQ:
		return token.PERCENT, true
	default:
		return k, false
	}
}

func plainLiteral(k token.Kind) string {
	switch k {
	case token.PLUS:
		return "+"
	case token.MINUS:
		return "-"
	case token.STAR:
		return "*"
	case token.SLASH:
		return "/"
	case token.PERCENT:
		return "%"
	default:
		return ""
	}
}

func (p *Parser) unary() ast.Expr {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		operand := p.unary()
		return &ast.UnaryExpr{Op: op, Operand: operand}
	}
	return p.callChain()
}

func (p *Parser) callChain() ast.Expr {
	expr := p.primary()
	for {
		switch {
		case p.match(token.L_PAREN):
			expr = p.finishCall(expr)
		case p.match(token.DOT):
			name := p.consume(token.IDENT, "expected a property name after '.'")
			expr = &ast.GetExpr{Object: expr, Name: name}
		case p.match(token.L_BRACKET):
			idx := p.expression()
			p.consume(token.R_BRACKET, "expected ']' after index expression")
			expr = &ast.IndexExpr{Container: expr, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var args []ast.Expr
	if !p.check(token.R_PAREN) {
		args = append(args, p.expression())
		for p.match(token.COMMA) {
			args = append(args, p.expression())
		}
	}
	p.consume(token.R_PAREN, "expected ')' after arguments")
	return &ast.CallExpr{Callee: callee, Args: args}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.NUMBER, token.FLOAT, token.STRING, token.CHAR):
		tok := p.previous()
		lit := tok.Literal
		if tok.Kind == token.STRING {
			lit, _ = lexer.StripLongFlag(lit)
		}
		return &ast.LiteralExpr{Token: tok, Value: lit}
	case p.match(token.IDENT):
		if p.previous().Literal == "true" || p.previous().Literal == "false" {
			return &ast.LiteralExpr{Token: p.previous(), Value: p.previous().Literal}
		}
		return &ast.NameExpr{Token: p.previous()}
	case p.match(token.NEW):
		return p.newExpr()
	case p.match(token.L_PAREN):
		return p.groupOrTuple()
	case p.match(token.L_BRACKET):
		return p.arrayExpr()
	case p.match(token.L_BRACE):
		return p.mapExpr()
	default:
		p.fail(exception.InvalidSyntax, "expected an expression")
		return nil
	}
}

func (p *Parser) newExpr() ast.Expr {
	name := p.consume(token.IDENT, "expected a type name after 'new'")
	p.consume(token.L_BRACE, "expected '{' after new type name")

	n := &ast.NewExpr{TypeName: name}
	if !p.check(token.R_BRACE) {
		n.Fields = append(n.Fields, p.newField())
		for p.match(token.COMMA) {
			n.Fields = append(n.Fields, p.newField())
		}
	}
	p.consume(token.R_BRACE, "expected '}' to close 'new' construction")
	return n
}

func (p *Parser) newField() ast.NewField {
	name := p.consume(token.IDENT, "expected a field name")
	p.consume(token.COLON, "expected ':' after field name")
	return ast.NewField{Name: name.Literal, Value: p.expression()}
}

// groupOrTuple: empty parens or a comma-separated sequence make a Tuple; a
// single expression followed by ')' is a Group (spec.md §4.2).
func (p *Parser) groupOrTuple() ast.Expr {
	if p.match(token.R_PAREN) {
		return &ast.TupleExpr{}
	}
	first := p.expression()
	if p.match(token.COMMA) {
		elems := []ast.Expr{first}
		if !p.check(token.R_PAREN) {
			elems = append(elems, p.expression())
			for p.match(token.COMMA) {
				elems = append(elems, p.expression())
			}
		}
		p.consume(token.R_PAREN, "expected ')' to close tuple")
		return &ast.TupleExpr{Elems: elems}
	}
	p.consume(token.R_PAREN, "expected ')' after expression")
	return &ast.GroupExpr{Inner: first}
}

func (p *Parser) arrayExpr() ast.Expr {
	a := &ast.ArrayExpr{}
	if !p.check(token.R_BRACKET) {
		a.Elems = append(a.Elems, p.expression())
		for p.match(token.COMMA) {
			a.Elems = append(a.Elems, p.expression())
		}
	}
	p.consume(token.R_BRACKET, "expected ']' to close array literal")
	return a
}

func (p *Parser) mapExpr() ast.Expr {
	m := &ast.MapExpr{}
	if !p.check(token.R_BRACE) {
		m.Pairs = append(m.Pairs, p.mapPair())
		for p.match(token.COMMA) {
			m.Pairs = append(m.Pairs, p.mapPair())
		}
	}
	p.consume(token.R_BRACE, "expected '}' to close map literal")
	return m
}

func (p *Parser) mapPair() ast.MapPair {
	key := p.expression()
	p.consume(token.COLON, "expected ':' between map key and value")
	value := p.expression()
	return ast.MapPair{Key: key, Value: value}
}

// ---------------------------------------------------------------- types

func (p *Parser) parseType() types.Type {
	switch {
	case p.check(token.IDENT):
		switch p.current().Literal {
		case "int":
			p.advance()
			return types.IntType{}
		case "float":
			p.advance()
			return types.FloatType{}
		case "str":
			p.advance()
			return types.StrType{}
		case "char":
			p.advance()
			return types.CharType{}
		case "bool":
			p.advance()
			return types.BoolType{}
		default:
			name := p.advance()
			return types.UserRefType{Name: name.Literal}
		}
	case p.match(token.L_BRACKET):
		inner := p.parseType()
		p.consume(token.R_BRACKET, "expected ']' to close array type")
		return types.ArrayType{Elem: inner}
	case p.match(token.LESS):
		k := p.parseType()
		p.consume(token.COMMA, "expected ',' between map key and value types")
		v := p.parseType()
		p.consume(token.GREATER, "expected '>' to close map type")
		return types.MapType{Key: k, Value: v}
	case p.match(token.L_PAREN):
		inner := p.parseType()
		p.consume(token.R_PAREN, "expected ')' to close tuple type")
		return types.TupleType{Elem: inner}
	default:
		p.fail(exception.InvalidSyntax, "expected a type")
		return nil
	}
}

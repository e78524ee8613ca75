package parser

import (
	"strings"

	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/token"
)

// parseTypeExpr parses a type annotation: a primitive keyword (with an
// optional `{N}` bit-width suffix), `auto`, a named/qualified/templated
// reference, or either suffixed with `*` (pointer) / `[len?]` (array),
// per spec.md §3.4/§4.2. curToken is left on the last token consumed.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.curToken
	var base ast.TypeExpr

	switch p.curToken.Kind {
	case token.VOID_KW:
		n := &ast.VoidTypeExpr{}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.BOOL_KW:
		n := &ast.BoolTypeExpr{}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.CHAR_KW:
		n := &ast.CharTypeExpr{}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.STRING_KW:
		n := &ast.StringTypeExpr{}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.NULLKW:
		n := &ast.NullTypeExpr{}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.AUTO:
		n := &ast.AutoTypeExpr{}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.INT_KW:
		bits := p.curToken.Bits
		n := &ast.IntTypeExpr{Bits: bits, Signed: true}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.SIGNED:
		p.nextToken() // consume `signed`, land on `data` or `int`
		bits := p.curToken.Bits
		n := &ast.IntTypeExpr{Bits: bits, Signed: true}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.UNSIGNED:
		p.nextToken() // consume `unsigned`, land on `data`
		bits := p.curToken.Bits
		n := &ast.IntTypeExpr{Bits: bits, Signed: false}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.DATA:
		bits := p.curToken.Bits
		n := &ast.IntTypeExpr{Bits: bits, Signed: false}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.FLOAT_KW:
		bits := p.curToken.Bits
		n := &ast.FloatTypeExpr{Bits: bits}
		n.SetPos(start, p.rangeFrom(start))
		base = n
	case token.IDENT:
		base = p.parseNamedTypeExpr()
	default:
		p.errorAtCur("expected a type, got %v", p.curToken.Kind)
		n := &ast.VoidTypeExpr{}
		n.SetPos(start, p.rangeFrom(start))
		return n
	}

	for {
		if p.peekTokenIs(token.STAR) {
			p.nextToken()
			n := &ast.PointerTypeExpr{Elem: base}
			n.SetPos(start, p.rangeFrom(start))
			base = n
			continue
		}
		if p.peekTokenIs(token.LBRACKET) {
			p.nextToken() // [
			var length ast.Expression
			if !p.peekTokenIs(token.RBRACKET) {
				p.nextToken()
				length = p.parseExpression(token.LOWEST)
			}
			if !p.expectPeek(token.RBRACKET) {
				return base
			}
			n := &ast.ArrayTypeExpr{Elem: base, Len: length}
			n.SetPos(start, p.rangeFrom(start))
			base = n
			continue
		}
		break
	}
	return base
}

// parseNamedTypeExpr parses `Foo`, `A::B::Foo`, and `Foo<T1,T2>`.
func (p *Parser) parseNamedTypeExpr() ast.TypeExpr {
	start := p.curToken
	path := []string{p.curToken.Lexeme}
	for p.peekTokenIs(token.COLONCOLON) {
		p.nextToken() // ::
		if !p.expectPeek(token.IDENT) {
			break
		}
		path = append(path, p.curToken.Lexeme)
	}
	n := &ast.NamedTypeExpr{Path: path}
	if p.peekTokenIs(token.LT) {
		p.nextToken() // <
		p.nextToken()
		n.TypeArgs = append(n.TypeArgs, p.parseTypeExpr())
		for p.peekTokenIs(token.COMMA) {
			p.nextToken() // ,
			p.nextToken()
			n.TypeArgs = append(n.TypeArgs, p.parseTypeExpr())
		}
		p.expectPeek(token.GT)
	}
	n.SetPos(start, p.rangeFrom(start))
	// Register a forward reference so the type registry has an entry for
	// every name mentioned while parsing, not only the ones eventually
	// declared — a class/struct used before its own declaration resolves
	// to the same Named() handle its later DeclareNamed call completes,
	// per spec.md §4.2's "maintain ... the type registry while parsing".
	p.Types.Named(strings.Join(path, "::"))
	return n
}

// startsPrimitiveType reports whether curToken is one of the keywords
// that can only ever begin a type (never an expression), letting the
// common case skip the speculative-parse path entirely.
func (p *Parser) startsPrimitiveType() bool {
	switch p.curToken.Kind {
	case token.VOID_KW, token.BOOL_KW, token.CHAR_KW, token.STRING_KW,
		token.AUTO, token.INT_KW, token.FLOAT_KW,
		token.SIGNED, token.UNSIGNED, token.DATA:
		return true
	}
	return false
}

// tryParseTypeAndName speculatively parses a type expression followed
// by an identifier (the `Type name` prefix of a VariableDecl). Plain
// identifiers are ambiguous between a type reference (`Foo x`, `A::B* x`,
// `Foo<T> x`) and an expression statement (`Foo(x)`, `Foo = 1`), which a
// single token of lookahead cannot resolve — so this rolls back on
// failure rather than committing to a guess, per spec.md §4.2.
func (p *Parser) tryParseTypeAndName() (ast.TypeExpr, string, bool) {
	m := p.mark()
	ty := p.parseTypeExpr()
	if !p.peekTokenIs(token.IDENT) {
		p.reset(m)
		return nil, "", false
	}
	p.nextToken() // the variable name
	name := p.curToken.Lexeme
	return ty, name, true
}

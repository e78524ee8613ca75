package parser

import (
	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/symbols"
	"github.com/fluxlang/flux/internal/token"
	"github.com/fluxlang/flux/internal/types"
)

// parseDeclaration dispatches on curToken to the declaration form it
// starts. A token that opens none of them is assumed to start an
// ordinary statement appearing at namespace/top level (a bare
// VariableDecl or ExpressionStatement), wrapped in a TopLevelStatement,
// per ast.TopLevelStatement's doc comment. Concrete nil results are
// checked explicitly before converting to the Decl interface, since a
// typed nil pointer wrapped in an interface is non-nil and would panic
// the first time a Visitor dereferences it.
func (p *Parser) parseDeclaration() ast.Decl {
	switch p.curToken.Kind {
	case token.DEF, token.VOLATILE:
		if fn := p.parseFunctionDecl(); fn != nil {
			return fn
		}
		return nil
	case token.STRUCT:
		if sd := p.parseStructDecl(); sd != nil {
			return sd
		}
		return nil
	case token.UNION:
		if ud := p.parseUnionDecl(); ud != nil {
			return ud
		}
		return nil
	case token.OBJECT:
		if od := p.parseObjectDecl(); od != nil {
			return od
		}
		return nil
	case token.CLASS:
		if cd := p.parseClassDecl(); cd != nil {
			return cd
		}
		return nil
	case token.NAMESPACE:
		if nd := p.parseNamespaceDecl(); nd != nil {
			return nd
		}
		return nil
	case token.TYPEDEF:
		if td := p.parseTypedefDecl(); td != nil {
			return td
		}
		return nil
	case token.IMPORT:
		if id := p.parseImportDecl(); id != nil {
			return id
		}
		return nil
	case token.USING:
		if ud := p.parseUsingDirective(); ud != nil {
			return ud
		}
		return nil
	}

	start := p.curToken
	if ty, name, ok := p.tryParseTypeAndName(); ok {
		stmt := p.finishVariableDecl(ty, name, true)
		n := &ast.TopLevelStatement{Stmt: stmt}
		n.SetPos(start, p.rangeFrom(start))
		return n
	}
	stmt := p.parseStatement()
	if stmt == nil {
		return nil
	}
	n := &ast.TopLevelStatement{Stmt: stmt}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseParam parses one `Type name` pair, used by function parameter
// lists, struct fields, and union variants alike.
func (p *Parser) parseParam() ast.Param {
	ty := p.parseTypeExpr()
	name := ""
	if p.expectPeek(token.IDENT) {
		name = p.curToken.Lexeme
		p.define(name, symbols.ParameterSymbol, p.curToken.Range)
	}
	return ast.Param{Name: name, Type: ty}
}

// parseFunctionDecl parses `[volatile] def name[<T,...>](params) [-> ret] { body }`.
// A magic-method name (__init, __add, __eq, ...) carries no special
// grammar — the evaluator recognizes it by name alone, per
// ast.FunctionDecl's doc comment.
func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	start := p.curToken
	volatile := false
	if p.curTokenIs(token.VOLATILE) {
		volatile = true
		if !p.expectPeek(token.DEF) {
			return nil
		}
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.FunctionDecl{Name: p.curToken.Lexeme, Volatile: volatile}
	p.define(n.Name, symbols.FunctionSymbol, p.curToken.Range)
	p.pushScope(symbols.ScopeFunction, "")
	defer p.popScope()

	if p.peekTokenIs(token.LT) {
		p.nextToken() // <
		p.nextToken()
		n.TypeParams = append(n.TypeParams, p.curToken.Lexeme)
		for p.peekTokenIs(token.COMMA) {
			p.nextToken() // ,
			p.nextToken()
			n.TypeParams = append(n.TypeParams, p.curToken.Lexeme)
		}
		if !p.expectPeek(token.GT) {
			return n
		}
	}

	if !p.expectPeek(token.LPAREN) {
		return n
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		n.Params = append(n.Params, p.parseParam())
		for p.peekTokenIs(token.COMMA) {
			p.nextToken() // ,
			p.nextToken()
			n.Params = append(n.Params, p.parseParam())
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return n
	}

	if p.peekTokenIs(token.ARROW) {
		p.nextToken() // ->
		p.nextToken()
		n.Return = p.parseTypeExpr()
	} else {
		ret := &ast.VoidTypeExpr{}
		ret.SetPos(p.curToken, p.curToken.Range)
		n.Return = ret
	}

	if !p.expectPeek(token.LBRACE) {
		return n
	}
	n.Body = p.parseBlockStatement()
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseStructDecl parses `struct Name { Type field; ... }` — fields
// only, no methods, per ast.StructDecl's doc comment.
func (p *Parser) parseStructDecl() *ast.StructDecl {
	start := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.StructDecl{Name: p.curToken.Lexeme}
	p.define(n.Name, symbols.StructSymbol, p.curToken.Range)
	p.Types.DeclareNamed(n.Name, types.KindStruct, nil)
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	p.pushScope(symbols.ScopeBlock, "")
	defer p.popScope()
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		before := p.curToken
		n.Fields = append(n.Fields, p.parseParam())
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.curToken == before {
			p.synchronize()
			continue
		}
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseUnionDecl parses `union Name { Type variant; ... }`.
func (p *Parser) parseUnionDecl() *ast.UnionDecl {
	start := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.UnionDecl{Name: p.curToken.Lexeme}
	p.define(n.Name, symbols.UnionSymbol, p.curToken.Range)
	p.Types.DeclareNamed(n.Name, types.KindUnion, nil)
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	p.pushScope(symbols.ScopeBlock, "")
	defer p.popScope()
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		before := p.curToken
		n.Variants = append(n.Variants, p.parseParam())
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		if p.curToken == before {
			p.synchronize()
			continue
		}
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseObjectDecl parses `object Name [:Parent.Peer] { fields/methods }`.
// The optional `:`-prefixed dotted path names the parent peer object
// this one overrides, addressed afterwards as `X.Name.field`.
func (p *Parser) parseObjectDecl() *ast.ObjectDecl {
	start := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.ObjectDecl{Name: p.curToken.Lexeme}
	p.define(n.Name, symbols.ObjectSymbol, p.curToken.Range)
	p.Types.DeclareNamed(n.Name, types.KindObject, nil)

	if p.peekTokenIs(token.COLON) {
		p.nextToken() // :
		if p.expectPeek(token.IDENT) {
			n.Override = append(n.Override, p.curToken.Lexeme)
			for p.peekTokenIs(token.DOT) {
				p.nextToken() // .
				if !p.expectPeek(token.IDENT) {
					break
				}
				n.Override = append(n.Override, p.curToken.Lexeme)
			}
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return n
	}
	p.pushScope(symbols.ScopeClass, "")
	defer p.popScope()
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		before := p.curToken
		switch {
		case p.curTokenIs(token.DEF) || p.curTokenIs(token.VOLATILE):
			if fn := p.parseFunctionDecl(); fn != nil {
				n.Methods = append(n.Methods, fn)
			}
		default:
			if ty, name, ok := p.tryParseTypeAndName(); ok {
				vd := p.finishVariableDecl(ty, name, false).(*ast.VariableDecl)
				n.Fields = append(n.Fields, vd)
			} else {
				p.errorAtCur("expected field or method in object body, got %v", p.curToken.Kind)
			}
		}
		if p.curToken == before {
			p.synchronize()
			continue
		}
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseClassDecl parses `class Name[<T,...>][:Parent] { fields; methods;
// nested objects }` — single inheritance named after a `:`, mirroring
// ObjectDecl's override syntax, per ast.ClassDecl's doc comment.
func (p *Parser) parseClassDecl() *ast.ClassDecl {
	start := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.ClassDecl{Name: p.curToken.Lexeme}
	p.define(n.Name, symbols.ClassSymbol, p.curToken.Range)
	p.Types.DeclareNamed(n.Name, types.KindClass, nil)

	if p.peekTokenIs(token.LT) {
		p.nextToken() // <
		p.nextToken()
		n.TypeParams = append(n.TypeParams, p.curToken.Lexeme)
		for p.peekTokenIs(token.COMMA) {
			p.nextToken() // ,
			p.nextToken()
			n.TypeParams = append(n.TypeParams, p.curToken.Lexeme)
		}
		if !p.expectPeek(token.GT) {
			return n
		}
	}

	if p.peekTokenIs(token.COLON) {
		p.nextToken() // :
		if p.expectPeek(token.IDENT) {
			n.Parent = p.curToken.Lexeme
		}
	}

	if !p.expectPeek(token.LBRACE) {
		return n
	}
	p.pushScope(symbols.ScopeClass, "")
	defer p.popScope()
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		before := p.curToken
		switch {
		case p.curTokenIs(token.DEF) || p.curTokenIs(token.VOLATILE):
			if fn := p.parseFunctionDecl(); fn != nil {
				n.Methods = append(n.Methods, fn)
			}
		case p.curTokenIs(token.OBJECT):
			if ob := p.parseObjectDecl(); ob != nil {
				n.NestedObjects = append(n.NestedObjects, ob)
			}
		default:
			if ty, name, ok := p.tryParseTypeAndName(); ok {
				vd := p.finishVariableDecl(ty, name, false).(*ast.VariableDecl)
				n.Fields = append(n.Fields, vd)
			} else {
				p.errorAtCur("expected field, method, or nested object in class body, got %v", p.curToken.Kind)
			}
		}
		if p.curToken == before {
			p.synchronize()
			continue
		}
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseNamespaceDecl parses `namespace Name { decls }`, recursively
// dispatching through parseDeclaration for its body.
func (p *Parser) parseNamespaceDecl() *ast.NamespaceDecl {
	start := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.NamespaceDecl{Name: p.curToken.Lexeme}
	if !p.expectPeek(token.LBRACE) {
		return n
	}
	p.pushScope(symbols.ScopeNamespace, n.Name)
	defer p.popScope()
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		before := p.curToken
		decl := p.parseDeclaration()
		if decl != nil {
			n.Declarations = append(n.Declarations, decl)
		}
		if p.curToken == before {
			p.synchronize()
			continue
		}
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseTypedefDecl parses `typedef Target Alias;`.
func (p *Parser) parseTypedefDecl() *ast.TypedefDecl {
	start := p.curToken
	p.nextToken()
	target := p.parseTypeExpr()
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.TypedefDecl{Alias: p.curToken.Lexeme, Target: target}
	p.define(n.Alias, symbols.TypedefSymbol, p.curToken.Range)
	p.Types.DeclareNamed(n.Alias, types.KindNamed, nil)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseImportDecl parses `import "path" [as alias];`. Path resolution
// itself is an external collaborator — the parser only records the
// literal path and alias.
func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.curToken
	if !p.expectPeek(token.STRING) {
		return nil
	}
	n := &ast.ImportDecl{Path: p.curToken.Literal.(string)}
	if p.peekTokenIs(token.AS) {
		p.nextToken() // as
		if p.expectPeek(token.IDENT) {
			n.Alias = p.curToken.Lexeme
		}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseUsingDirective parses `using A::B::c;`.
func (p *Parser) parseUsingDirective() *ast.UsingDirective {
	start := p.curToken
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.UsingDirective{Path: []string{p.curToken.Lexeme}}
	for p.peekTokenIs(token.COLONCOLON) {
		p.nextToken() // ::
		if !p.expectPeek(token.IDENT) {
			break
		}
		n.Path = append(n.Path, p.curToken.Lexeme)
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

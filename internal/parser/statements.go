package parser

import (
	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/symbols"
	"github.com/fluxlang/flux/internal/token"
)

// parseStatement dispatches on curToken to the statement form it starts,
// falling back to the VariableDecl/ExpressionStatement disambiguation
// (tryParseTypeAndName) when no keyword applies, per spec.md §4.2.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.FOREACH:
		return p.parseForEachStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.TRY:
		return p.parseTryCatchStatement()
	case token.ASM:
		return p.parseAsmStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.ASSERT:
		return p.parseAssertStatement()
	}

	if ty, name, ok := p.tryParseTypeAndName(); ok {
		return p.finishVariableDecl(ty, name, false)
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	start := p.curToken // {
	n := &ast.BlockStatement{}
	p.pushScope(symbols.ScopeBlock, "")
	defer p.popScope()
	p.nextToken()
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		before := p.curToken
		stmt := p.parseStatement()
		if stmt != nil {
			n.Statements = append(n.Statements, stmt)
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

// finishVariableDecl consumes the optional `= init` and trailing `;`
// following a type+name already parsed by tryParseTypeAndName.
func (p *Parser) finishVariableDecl(ty ast.TypeExpr, name string, isGlobal bool) ast.Statement {
	start := p.curToken
	n := &ast.VariableDecl{Name: name, Type: ty, IsGlobal: isGlobal}
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken() // =
		p.nextToken()
		n.Init = p.parseExpression(token.LOWEST)
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	kind := symbols.VariableSymbol
	if isGlobal {
		kind = symbols.GlobalSymbol
	}
	p.define(name, kind, n.Range())
	return n
}

func (p *Parser) parseIfStatement() ast.Statement {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(token.LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	then := p.parseStatement()
	n := &ast.IfStatement{Cond: cond, Then: then}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken() // else
		p.nextToken()
		n.Else = p.parseStatement()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseWhileStatement() ast.Statement {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(token.LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()
	n := &ast.WhileStatement{Cond: cond, Body: body}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	start := p.curToken
	p.nextToken()
	body := p.parseStatement()
	if !p.expectPeek(token.WHILE) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(token.LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n := &ast.DoWhileStatement{Body: body, Cond: cond}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseForStatement parses both `for (init?; cond?; step?) body` and
// `for (name in iter) body`, distinguishing on whether `in` follows the
// first identifier, per spec.md §4.2's ForEach alias.
func (p *Parser) parseForStatement() ast.Statement {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if p.peekTokenIs(token.IDENT) {
		m := p.mark()
		p.nextToken() // name
		name := p.curToken.Lexeme
		if p.peekTokenIs(token.IN) {
			p.nextToken() // in
			p.nextToken()
			iter := p.parseExpression(token.LOWEST)
			if !p.expectPeek(token.RPAREN) {
				return nil
			}
			p.nextToken()
			body := p.parseStatement()
			n := &ast.ForEachStatement{VarName: name, Iter: iter, Body: body}
			n.SetPos(start, p.rangeFrom(start))
			return n
		}
		p.reset(m)
	}

	// init is a VariableDecl or ExpressionStatement, both of which consume
	// their own trailing ';' (landing curToken on it), or is omitted
	// entirely (curToken already on the ';').
	var init ast.Statement
	p.nextToken()
	if !p.curTokenIs(token.SEMICOLON) {
		init = p.parseStatement()
	}
	if !p.curTokenIs(token.SEMICOLON) {
		p.errorAtCur("expected ';' after for-loop initializer, got %v", p.curToken.Kind)
	}

	var cond ast.Expression
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		cond = p.parseExpression(token.LOWEST)
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}

	var step ast.Expression
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		step = p.parseExpression(token.LOWEST)
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()

	n := &ast.ForStatement{Init: init, Cond: cond, Step: step, Body: body}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseForEachStatement() ast.Statement {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	name := p.curToken.Lexeme
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	iter := p.parseExpression(token.LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseStatement()
	n := &ast.ForEachStatement{VarName: name, Iter: iter, Body: body}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := p.curToken
	n := &ast.ReturnStatement{}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		n.Value = p.parseExpression(token.LOWEST)
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseBreakStatement() ast.Statement {
	start := p.curToken
	n := &ast.BreakStatement{}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseContinueStatement() ast.Statement {
	start := p.curToken
	n := &ast.ContinueStatement{}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseThrowStatement() ast.Statement {
	start := p.curToken
	p.nextToken()
	value := p.parseExpression(token.LOWEST)
	n := &ast.ThrowStatement{Value: value}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseTryCatchStatement() ast.Statement {
	start := p.curToken
	p.nextToken()
	if !p.curTokenIs(token.LBRACE) {
		p.errorAtCur("expected '{' to start try block, got %v", p.curToken.Kind)
		return nil
	}
	tryBlock := p.parseBlockStatement()

	if !p.expectPeek(token.CATCH) {
		return nil
	}
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	catchType := p.parseTypeExpr()
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	catchVar := p.curToken.Lexeme
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	catchBlock := p.parseBlockStatement()

	n := &ast.TryCatchStatement{
		Try:       tryBlock,
		CatchVar:  catchVar,
		CatchType: catchType,
		Catch:     catchBlock,
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseAsmStatement captures the `asm { ... }` body verbatim as an opaque
// payload, tracking brace depth only to find the matching close, per
// spec.md §6.5 — inline-asm semantics are never interpreted.
func (p *Parser) parseAsmStatement() ast.Statement {
	start := p.curToken
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	bodyStart := p.peekToken.Range.Start
	depth := 1
	p.nextToken()
	for depth > 0 && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.LBRACE) {
			depth++
		} else if p.curTokenIs(token.RBRACE) {
			depth--
			if depth == 0 {
				break
			}
		}
		p.nextToken()
	}
	bodyEnd := p.curToken.Range.Start
	payload := ""
	if bodyEnd > bodyStart {
		payload = p.src.Text[bodyStart:bodyEnd]
	}
	n := &ast.AsmStatement{Payload: payload}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	scrutinee := p.parseExpression(token.LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	p.nextToken()

	n := &ast.SwitchStatement{Scrutinee: scrutinee}
	for !p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		switch p.curToken.Kind {
		case token.CASE:
			p.nextToken()
			val := p.parseExpression(token.LOWEST)
			if !p.expectPeek(token.COLON) {
				return n
			}
			p.nextToken()
			body := p.parseCaseBody()
			n.Cases = append(n.Cases, ast.SwitchCase{Value: val, Body: body})
		case token.DEFAULT:
			if !p.expectPeek(token.COLON) {
				return n
			}
			p.nextToken()
			n.Default = p.parseCaseBody()
		default:
			p.errorAtCur("expected case/default in switch body, got %v", p.curToken.Kind)
			p.synchronize()
		}
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseCaseBody reads statements up to (not including) the next case,
// default, or the closing brace — Flux switch arms don't fall through,
// so no explicit break terminator is required or consumed here.
func (p *Parser) parseCaseBody() []ast.Statement {
	var body []ast.Statement
	for !p.curTokenIs(token.CASE) && !p.curTokenIs(token.DEFAULT) &&
		!p.curTokenIs(token.RBRACE) && !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		before := p.curToken
		stmt := p.parseStatement()
		if stmt != nil {
			body = append(body, stmt)
		}
		if p.curToken == before {
			p.nextToken()
			continue
		}
		p.nextToken()
	}
	return body
}

func (p *Parser) parseAssertStatement() ast.Statement {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	n := &ast.AssertStatement{Cond: p.parseExpression(token.LOWEST)}
	if p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		n.Msg = p.parseExpression(token.LOWEST)
	}
	if !p.expectPeek(token.RPAREN) {
		return n
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.curToken
	expr := p.parseExpression(token.LOWEST)
	n := &ast.ExpressionStatement{Expr: expr}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

package parser

import (
	"strings"

	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/source"
	"github.com/fluxlang/flux/internal/token"
)

func (p *Parser) registerExpressionFns() {
	p.prefixParseFns[token.IDENT] = p.parseIdentifier
	p.prefixParseFns[token.INT] = p.parseIntegerLiteral
	p.prefixParseFns[token.FLOAT] = p.parseFloatLiteral
	p.prefixParseFns[token.STRING] = p.parseStringLiteral
	p.prefixParseFns[token.CHAR] = p.parseCharLiteral
	p.prefixParseFns[token.BOOL] = p.parseBoolLiteral
	p.prefixParseFns[token.NULL] = p.parseNullLiteral
	p.prefixParseFns[token.LBRACKET] = p.parseArrayLiteral
	p.prefixParseFns[token.ISTRING_START] = p.parseIStringLiteral
	p.prefixParseFns[token.LPAREN] = p.parseGroupedOrCast
	p.prefixParseFns[token.MINUS] = p.parsePrefixExpr
	p.prefixParseFns[token.BANG] = p.parsePrefixExpr
	p.prefixParseFns[token.TILDE] = p.parsePrefixExpr
	p.prefixParseFns[token.NOT] = p.parsePrefixExpr
	p.prefixParseFns[token.PLUS_PLUS] = p.parsePrefixIncDec
	p.prefixParseFns[token.MINUS_MINUS] = p.parsePrefixIncDec
	p.prefixParseFns[token.STAR] = p.parseDereference
	p.prefixParseFns[token.AT] = p.parseAddressOf
	p.prefixParseFns[token.SIZEOF] = p.parseSizeof
	p.prefixParseFns[token.TYPEOF] = p.parseTypeof

	p.infixParseFns[token.PLUS] = p.parseBinaryExpr
	p.infixParseFns[token.MINUS] = p.parseBinaryExpr
	p.infixParseFns[token.STAR] = p.parseBinaryExpr
	p.infixParseFns[token.SLASH] = p.parseBinaryExpr
	p.infixParseFns[token.PERCENT] = p.parseBinaryExpr
	p.infixParseFns[token.POWER] = p.parseBinaryExpr
	p.infixParseFns[token.EQ] = p.parseBinaryExpr
	p.infixParseFns[token.NOT_EQ] = p.parseBinaryExpr
	p.infixParseFns[token.LT] = p.parseBinaryExpr
	p.infixParseFns[token.GT] = p.parseBinaryExpr
	p.infixParseFns[token.LTE] = p.parseBinaryExpr
	p.infixParseFns[token.GTE] = p.parseBinaryExpr
	p.infixParseFns[token.AND] = p.parseBinaryExpr
	p.infixParseFns[token.AND_AND] = p.parseBinaryExpr
	p.infixParseFns[token.OR] = p.parseBinaryExpr
	p.infixParseFns[token.OR_OR] = p.parseBinaryExpr
	p.infixParseFns[token.XOR] = p.parseBinaryExpr
	p.infixParseFns[token.PIPE] = p.parseBinaryExpr
	p.infixParseFns[token.CARET] = p.parseBinaryExpr
	p.infixParseFns[token.AMP] = p.parseBinaryExpr
	p.infixParseFns[token.LSHIFT] = p.parseBinaryExpr
	p.infixParseFns[token.RSHIFT] = p.parseBinaryExpr
	p.infixParseFns[token.IS] = p.parseBinaryExpr
	p.infixParseFns[token.IN] = p.parseBinaryExpr

	p.infixParseFns[token.AS] = p.parseAsCast
	p.infixParseFns[token.QUESTION] = p.parseTernary
	p.infixParseFns[token.ASSIGN] = p.parseAssignExpr
	p.infixParseFns[token.PLUS_ASSIGN] = p.parseCompoundAssignExpr
	p.infixParseFns[token.MINUS_ASSIGN] = p.parseCompoundAssignExpr
	p.infixParseFns[token.STAR_ASSIGN] = p.parseCompoundAssignExpr
	p.infixParseFns[token.SLASH_ASSIGN] = p.parseCompoundAssignExpr
	p.infixParseFns[token.PERCENT_ASSIGN] = p.parseCompoundAssignExpr
	p.infixParseFns[token.AMP_ASSIGN] = p.parseCompoundAssignExpr
	p.infixParseFns[token.PIPE_ASSIGN] = p.parseCompoundAssignExpr
	p.infixParseFns[token.CARET_ASSIGN] = p.parseCompoundAssignExpr
	p.infixParseFns[token.LSHIFT_ASSIGN] = p.parseCompoundAssignExpr
	p.infixParseFns[token.RSHIFT_ASSIGN] = p.parseCompoundAssignExpr

	p.infixParseFns[token.LPAREN] = p.parseCallExpr
	p.infixParseFns[token.LBRACKET] = p.parseIndexExpr
	p.infixParseFns[token.DOT] = p.parseMemberExpr
	p.infixParseFns[token.ARROW] = p.parseArrowMemberExpr
	p.infixParseFns[token.COLONCOLON] = p.parseScopeResolveInfix
	p.infixParseFns[token.PLUS_PLUS] = p.parsePostfixIncDec
	p.infixParseFns[token.MINUS_MINUS] = p.parsePostfixIncDec
}

// parseExpression is the Pratt-parsing core: a prefix parse function
// builds the left operand, then infix parse functions fold in operators
// bound tighter than precedence, left to right (right-associative
// operators — assignment, ternary, `**` — recurse at one precedence
// lower in their own infix handler instead of looping here).
func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxRecursionDepth {
		p.errorAtCur("expression too complex: recursion depth limit exceeded")
		p.synchronize()
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Kind]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Kind)
		return nil
	}
	left := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Kind]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	n := &ast.Identifier{Value: p.curToken.Lexeme}
	n.SetPos(p.curToken, p.curToken.Range)
	return n
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	n := &ast.IntegerLiteral{Value: p.curToken.Literal.(int64), Signed: true, Bits: p.curToken.Bits}
	n.SetPos(p.curToken, p.curToken.Range)
	return n
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	n := &ast.FloatLiteral{Value: p.curToken.Literal.(float64)}
	n.SetPos(p.curToken, p.curToken.Range)
	return n
}

func (p *Parser) parseStringLiteral() ast.Expression {
	n := &ast.StringLiteral{Value: p.curToken.Literal.(string)}
	n.SetPos(p.curToken, p.curToken.Range)
	return n
}

func (p *Parser) parseCharLiteral() ast.Expression {
	n := &ast.CharLiteral{Value: p.curToken.Literal.(rune)}
	n.SetPos(p.curToken, p.curToken.Range)
	return n
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	n := &ast.BoolLiteral{Value: p.curToken.Literal.(bool)}
	n.SetPos(p.curToken, p.curToken.Range)
	return n
}

func (p *Parser) parseNullLiteral() ast.Expression {
	n := &ast.NullLiteral{}
	n.SetPos(p.curToken, p.curToken.Range)
	return n
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	start := p.curToken
	n := &ast.ArrayLiteral{}
	if p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		n.SetPos(start, p.rangeFrom(start))
		return n
	}
	p.nextToken()
	n.Elements = append(n.Elements, p.parseExpression(token.LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // ,
		p.nextToken()
		n.Elements = append(n.Elements, p.parseExpression(token.LOWEST))
	}
	if !p.expectPeek(token.RBRACKET) {
		return n
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

// parseIStringLiteral drives the lexer's i-string sub-state machine
// directly (bypassing the ordinary cur/peek token pump for the text
// portion, since ReadIStringText scans raw characters itself), then
// resumes ordinary tokenization — routed through NextIStringToken while
// the lexer's brace-depth stack is open — to parse the `;`-separated
// argument list, per spec.md §4.1.
func (p *Parser) parseIStringLiteral() ast.Expression {
	start := p.curToken // ISTRING_START
	n := &ast.IStringLiteral{}

	textTok := p.lex.ReadIStringText()
	if textTok.Kind == token.ERROR_TOKEN {
		p.errorAt(textTok.Range, "%v", textTok.Literal)
	}
	n.Format = strings.Split(textTok.Literal.(string), "{}")

	p.curToken = p.lexNext() // ISTRING_EXPR_START or ISTRING_END
	if p.curTokenIs(token.ISTRING_EXPR_START) {
		p.peekToken = p.lexNext()
		p.nextToken() // first token of the expression list, or ISTRING_EXPR_END if empty
		for !p.curTokenIs(token.ISTRING_EXPR_END) && !p.curTokenIs(token.EOF) {
			n.Args = append(n.Args, p.parseExpression(token.LOWEST))
			if p.peekTokenIs(token.SEMICOLON) {
				p.nextToken()
			}
			p.nextToken()
		}
	}
	n.SetPos(start, source.Range{Start: start.Range.Start, End: p.curToken.Range.End})

	// Resync peekToken: curToken now holds ISTRING_END/ISTRING_EXPR_END and
	// the lexer is back in (or one level back out of) NONE state, so
	// ordinary tokenization resumes for whatever follows the literal.
	p.peekToken = p.lexNext()
	return n
}

func (p *Parser) parseGroupedOrCast() ast.Expression {
	lparen := p.curToken
	if ty, ok := p.tryParseCastTarget(); ok {
		p.nextToken() // move onto the operand's first token
		operand := p.parseExpression(token.UNARY)
		n := &ast.CastExpr{Target: ty, Value: operand}
		n.SetPos(lparen, p.rangeFrom(lparen))
		return n
	}
	p.nextToken()
	expr := p.parseExpression(token.LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return expr
	}
	return expr
}

// tryParseCastTarget speculatively parses `(Type)` starting at '(' and
// reports whether it succeeded, leaving curToken on the closing ')' on
// success (ready for the caller to advance onto the operand) or
// restoring all state on failure.
func (p *Parser) tryParseCastTarget() (ast.TypeExpr, bool) {
	m := p.mark()
	p.nextToken() // past (
	if !p.startsPrimitiveType() && p.curToken.Kind != token.IDENT {
		p.reset(m)
		return nil, false
	}
	ty := p.parseTypeExpr()
	if !p.peekTokenIs(token.RPAREN) {
		p.reset(m)
		return nil, false
	}
	p.nextToken() // )
	return ty, true
}

func (p *Parser) parsePrefixExpr() ast.Expression {
	start := p.curToken
	op := p.curToken.Lexeme
	p.nextToken()
	operand := p.parseExpression(token.UNARY)
	n := &ast.UnaryExpr{Op: op, Operand: operand}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parsePrefixIncDec() ast.Expression {
	start := p.curToken
	op := p.curToken.Lexeme
	p.nextToken()
	operand := p.parseExpression(token.UNARY)
	n := &ast.UnaryExpr{Op: op, Operand: operand}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parsePostfixIncDec(left ast.Expression) ast.Expression {
	start := p.curToken
	n := &ast.UnaryExpr{Op: p.curToken.Lexeme, Operand: left, Postfix: true}
	n.SetPos(start, source.Range{Start: left.Range().Start, End: p.curToken.Range.End})
	return n
}

func (p *Parser) parseDereference() ast.Expression {
	start := p.curToken
	p.nextToken()
	operand := p.parseExpression(token.UNARY)
	n := &ast.DereferenceExpr{Operand: operand}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseAddressOf() ast.Expression {
	start := p.curToken
	p.nextToken()
	operand := p.parseExpression(token.UNARY)
	n := &ast.AddressOfExpr{Operand: operand}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseSizeof() ast.Expression {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	n := &ast.SizeofExpr{}
	if m := p.mark(); true {
		p.nextToken()
		if p.startsPrimitiveType() {
			ty := p.parseTypeExpr()
			if p.peekTokenIs(token.RPAREN) {
				n.TypeArg = ty
			} else {
				p.reset(m)
			}
		} else {
			p.reset(m)
		}
	}
	if n.TypeArg == nil {
		p.nextToken()
		n.Value = p.parseExpression(token.LOWEST)
	}
	if !p.expectPeek(token.RPAREN) {
		return n
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseTypeof() ast.Expression {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	value := p.parseExpression(token.LOWEST)
	n := &ast.TypeofExpr{Value: value}
	if !p.expectPeek(token.RPAREN) {
		return n
	}
	n.SetPos(start, p.rangeFrom(start))
	return n
}

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	start := p.curToken
	op := p.curToken.Lexeme
	precedence := p.curPrecedence()
	rightAssoc := p.curTokenIs(token.POWER)
	p.nextToken()
	var right ast.Expression
	if rightAssoc {
		right = p.parseExpression(precedence - 1)
	} else {
		right = p.parseExpression(precedence)
	}
	n := &ast.BinaryExpr{Op: op, Left: left, Right: right}
	n.SetPos(start, source.Range{Start: left.Range().Start, End: p.curToken.Range.End})
	return n
}

func (p *Parser) parseAsCast(left ast.Expression) ast.Expression {
	start := p.curToken
	p.nextToken()
	target := p.parseTypeExpr()
	n := &ast.CastExpr{Target: target, Value: left}
	n.SetPos(start, source.Range{Start: left.Range().Start, End: p.curToken.Range.End})
	return n
}

func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	start := p.curToken
	p.nextToken()
	then := p.parseExpression(token.LOWEST)
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	els := p.parseExpression(token.TERNARY - 1)
	n := &ast.TernaryExpr{Cond: cond, Then: then, Else: els}
	n.SetPos(start, source.Range{Start: cond.Range().Start, End: p.curToken.Range.End})
	return n
}

func (p *Parser) parseAssignExpr(left ast.Expression) ast.Expression {
	start := p.curToken
	p.nextToken()
	value := p.parseExpression(token.ASSIGNMENT - 1)
	n := &ast.AssignExpr{Target: left, Value: value}
	n.SetPos(start, source.Range{Start: left.Range().Start, End: p.curToken.Range.End})
	return n
}

// compoundOps maps each compound-assignment token to the binary
// operator it desugars into, per spec_full.md §3.9.
var compoundOps = map[token.Kind]string{
	token.PLUS_ASSIGN:    "+",
	token.MINUS_ASSIGN:   "-",
	token.STAR_ASSIGN:    "*",
	token.SLASH_ASSIGN:   "/",
	token.PERCENT_ASSIGN: "%",
	token.AMP_ASSIGN:     "&",
	token.PIPE_ASSIGN:    "|",
	token.CARET_ASSIGN:   "^",
	token.LSHIFT_ASSIGN:  "<<",
	token.RSHIFT_ASSIGN:  ">>",
}

// parseCompoundAssignExpr desugars `target op= value` into
// AssignExpr{Target: target, Value: BinaryExpr{op, target, value}}.
func (p *Parser) parseCompoundAssignExpr(left ast.Expression) ast.Expression {
	start := p.curToken
	op := compoundOps[p.curToken.Kind]
	p.nextToken()
	value := p.parseExpression(token.ASSIGNMENT - 1)
	bin := &ast.BinaryExpr{Op: op, Left: left, Right: value}
	bin.SetPos(start, source.Range{Start: left.Range().Start, End: p.curToken.Range.End})
	n := &ast.AssignExpr{Target: left, Value: bin}
	n.SetPos(start, bin.Range())
	return n
}

func (p *Parser) parseCallExpr(callee ast.Expression) ast.Expression {
	start := p.curToken // (
	n := &ast.CallExpr{Callee: callee}
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		n.SetPos(start, source.Range{Start: callee.Range().Start, End: p.curToken.Range.End})
		return n
	}
	p.nextToken()
	n.Args = append(n.Args, p.parseExpression(token.LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		n.Args = append(n.Args, p.parseExpression(token.LOWEST))
	}
	if !p.expectPeek(token.RPAREN) {
		return n
	}
	n.SetPos(start, source.Range{Start: callee.Range().Start, End: p.curToken.Range.End})
	return n
}

func (p *Parser) parseIndexExpr(arr ast.Expression) ast.Expression {
	start := p.curToken // [
	p.nextToken()
	idx := p.parseExpression(token.LOWEST)
	n := &ast.IndexExpr{Array: arr, Index: idx}
	if !p.expectPeek(token.RBRACKET) {
		return n
	}
	n.SetPos(start, source.Range{Start: arr.Range().Start, End: p.curToken.Range.End})
	return n
}

func (p *Parser) parseMemberExpr(obj ast.Expression) ast.Expression {
	start := p.curToken // .
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.MemberExpr{Object: obj, Name: p.curToken.Lexeme}
	n.SetPos(start, source.Range{Start: obj.Range().Start, End: p.curToken.Range.End})
	return n
}

func (p *Parser) parseArrowMemberExpr(ptr ast.Expression) ast.Expression {
	start := p.curToken // ->
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	n := &ast.ArrowMemberExpr{Pointer: ptr, Name: p.curToken.Lexeme}
	n.SetPos(start, source.Range{Start: ptr.Range().Start, End: p.curToken.Range.End})
	return n
}

func (p *Parser) parseScopeResolveInfix(left ast.Expression) ast.Expression {
	start := p.curToken // ::
	var path []string
	switch l := left.(type) {
	case *ast.Identifier:
		path = []string{l.Value}
	case *ast.ScopeResolveExpr:
		path = append(path, l.Path...)
	default:
		p.errorAt(left.Range(), "left of :: must be a name")
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	path = append(path, p.curToken.Lexeme)
	n := &ast.ScopeResolveExpr{Path: path}
	n.SetPos(start, source.Range{Start: left.Range().Start, End: p.curToken.Range.End})
	return n
}

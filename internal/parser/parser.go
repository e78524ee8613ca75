// Package parser implements Flux's recursive-descent, Pratt-style
// expression parser, producing an internal/ast.Program from a token
// stream. Errors are collected rather than panicking; panic-mode
// recovery resynchronizes at statement/declaration boundaries per
// spec.md §4.2.
package parser

import (
	"github.com/fluxlang/flux/internal/arena"
	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/lexer"
	"github.com/fluxlang/flux/internal/source"
	"github.com/fluxlang/flux/internal/symbols"
	"github.com/fluxlang/flux/internal/token"
	"github.com/fluxlang/flux/internal/types"
)

// MaxRecursionDepth guards against runaway left-recursive expression
// parsing on pathological input.
const MaxRecursionDepth = 512

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser walks a lexer.Lexer's token stream one token of lookahead
// ahead of the token currently being processed.
type Parser struct {
	lex   *lexer.Lexer
	src   *source.Source
	diags *source.Collector

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Kind]prefixParseFn
	infixParseFns  map[token.Kind]infixParseFn

	Symbols *symbols.Table
	Types   *types.Registry
	Arena   *arena.Arena

	depth int
}

// New returns a Parser ready to parse src's token stream, reporting
// diagnostics into diags. The Lexer and Parser share one Arena for the
// whole compilation unit (spec.md §5): the lexer writes interned
// lexemes into it as it scans, and the parser holds the same handle for
// whatever compile-time scratch data its own declarations need.
func New(src *source.Source, diags *source.Collector) *Parser {
	a := arena.New()
	p := &Parser{
		lex:     lexer.NewWithArena(src, a),
		src:     src,
		diags:   diags,
		Symbols: symbols.NewRoot(),
		Types:   types.NewRegistry(),
		Arena:   a,
	}
	p.prefixParseFns = make(map[token.Kind]prefixParseFn)
	p.infixParseFns = make(map[token.Kind]infixParseFn)
	p.registerExpressionFns()

	// Prime curToken/peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

// lexNext pulls the next raw token, routing through the i-string
// expression-list tokenizer whenever the lexer's brace-depth stack is
// non-empty (see internal/lexer's sub-state machine).
//
// Bit-width suffixes are folded into Token.Bits here, at the moment a
// type keyword or integer literal is fetched, rather than by a later
// call from parseTypeExpr/parseIntegerLiteral: the parser always runs
// one token ahead (curToken/peekToken), so by the time such a token
// becomes curToken its peekToken has already been pulled — and
// TryBitWidth reads the lexer's live character cursor, which would by
// then sit past any `{N}` suffix. lexNext is the single chokepoint
// every token passes through exactly once, immediately on production,
// so it's the only place this timing works.
func (p *Parser) lexNext() token.Token {
	var tok token.Token
	if p.lex.InIStringExpr() {
		tok = p.lex.NextIStringToken()
	} else {
		tok = p.lex.NextToken()
	}
	switch tok.Kind {
	case token.INT_KW, token.FLOAT_KW, token.SIGNED, token.UNSIGNED, token.DATA, token.INT:
		if bw, ok := p.lex.TryBitWidth(); ok {
			tok.Bits = bw.Literal.(int)
		}
	}
	return tok
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexNext()
}

func (p *Parser) curTokenIs(k token.Kind) bool  { return p.curToken.Kind == k }
func (p *Parser) peekTokenIs(k token.Kind) bool { return p.peekToken.Kind == k }

func (p *Parser) peekPrecedence() int {
	if prec, ok := token.Precedences[p.peekToken.Kind]; ok {
		return prec
	}
	return token.LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := token.Precedences[p.curToken.Kind]; ok {
		return prec
	}
	return token.LOWEST
}

// expectPeek advances past peekToken if it matches k, else records an
// error and leaves state unchanged.
func (p *Parser) expectPeek(k token.Kind) bool {
	if p.peekTokenIs(k) {
		p.nextToken()
		return true
	}
	p.errorAtPeek("expected next token to be %v, got %v instead", k, p.peekToken.Kind)
	return false
}

func (p *Parser) errorAtCur(format string, args ...interface{}) {
	p.diags.Add(source.Error, source.KindParse, p.curToken.Range, format, args...)
}

func (p *Parser) errorAtPeek(format string, args ...interface{}) {
	p.diags.Add(source.Error, source.KindParse, p.peekToken.Range, format, args...)
}

func (p *Parser) errorAt(r source.Range, format string, args ...interface{}) {
	p.diags.Add(source.Error, source.KindParse, r, format, args...)
}

func (p *Parser) noPrefixParseFnError(k token.Kind) {
	p.errorAtCur("no prefix parse function for %v found", k)
}

// pushScope enters a child symbol-table scope (global → namespace →
// class → function body → block, per spec.md §3.5) and makes it the
// current scope; popScope restores the parent.
func (p *Parser) pushScope(kind symbols.ScopeKind, qualifiedSegment string) {
	p.Symbols = p.Symbols.EnterScope(kind, qualifiedSegment)
}

// popScope restores the scope pushScope's caller was in.
func (p *Parser) popScope() {
	p.Symbols = p.Symbols.LeaveScope()
}

// define records name in the current scope, reporting a NameResolution
// diagnostic if it is already defined there: spec.md §3.5 makes
// redefining within the same scope an error rather than a silent
// shadow/overwrite.
func (p *Parser) define(name string, kind symbols.Kind, r source.Range) {
	if name == "" {
		return
	}
	if err := p.Symbols.Define(symbols.Symbol{Name: name, Kind: kind, Def: r}); err != nil {
		p.errorAt(r, "%s", err.Error())
	}
}

// syncPoints are the tokens panic-mode recovery resynchronizes at:
// statement/declaration boundaries, per spec.md §4.2.
func isSyncPoint(k token.Kind) bool {
	switch k {
	case token.SEMICOLON, token.RBRACE,
		token.DEF, token.CLASS, token.STRUCT, token.OBJECT, token.UNION,
		token.NAMESPACE, token.IMPORT, token.TYPEDEF,
		token.IF, token.WHILE, token.FOR, token.RETURN, token.EOF:
		return true
	}
	return false
}

// synchronize skips tokens until a syncPoint is reached, consuming a
// trailing SEMICOLON/RBRACE so the caller resumes cleanly after it.
func (p *Parser) synchronize() {
	for !isSyncPoint(p.curToken.Kind) {
		p.nextToken()
	}
	if p.curTokenIs(token.SEMICOLON) || p.curTokenIs(token.RBRACE) {
		p.nextToken()
	}
}

// ParseProgram parses the whole token stream into a Program, recovering
// from declaration-level errors via synchronize so one malformed
// top-level form does not abort the whole file.
func (p *Parser) ParseProgram(file string) *ast.Program {
	prog := &ast.Program{File: file}
	for !p.curTokenIs(token.EOF) {
		if p.curTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		before := p.curToken
		decl := p.parseDeclaration()
		if decl != nil {
			prog.Declarations = append(prog.Declarations, decl)
		}
		if p.curToken == before {
			// No progress was made (parse function bailed out without
			// consuming anything) — force an advance to avoid looping.
			p.synchronize()
			continue
		}
		// Step past the declaration's last token (its `;` or `}`).
		p.nextToken()
	}
	return prog
}

func (p *Parser) rangeFrom(start token.Token) source.Range {
	return source.Range{Start: start.Range.Start, End: p.curToken.Range.End}
}

// parserMark captures enough state to backtrack a speculative parse:
// the lexer (a plain value type, copied whole), the two lookahead
// tokens, and the diagnostic collector's length. Declaration-vs-
// expression disambiguation (e.g. `Foo::Bar* x` vs. a qualified call)
// needs unbounded lookahead that a single peekToken can't give, so the
// parser speculatively parses a type and rolls back on failure instead.
type parserMark struct {
	lex       lexer.Lexer
	curToken  token.Token
	peekToken token.Token
	diagsLen  int
}

func (p *Parser) mark() parserMark {
	return parserMark{
		lex:       *p.lex,
		curToken:  p.curToken,
		peekToken: p.peekToken,
		diagsLen:  len(p.diags.Diagnostics()),
	}
}

func (p *Parser) reset(m parserMark) {
	*p.lex = m.lex
	p.curToken = m.curToken
	p.peekToken = m.peekToken
	p.diags.Truncate(m.diagsLen)
}

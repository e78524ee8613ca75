// Package ast defines Flux's abstract syntax tree: a family of tagged
// variants for expressions, statements, declarations, and design-level
// types, per spec.md §3.4. Every node carries its SourceRange and, for
// error reporting, the token it starts at.
package ast

import (
	"github.com/fluxlang/flux/internal/source"
	"github.com/fluxlang/flux/internal/token"
)

// Node is satisfied by every AST node.
type Node interface {
	TokenLiteral() string
	Range() source.Range
	Accept(v Visitor)
}

// Statement is a Node that stands alone in a block.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node with a value.
type Expression interface {
	Node
	expressionNode()
}

// Decl is a top-level or namespace/class-nested declaration.
type Decl interface {
	Node
	declNode()
}

// Program is the root of every AST the parser produces.
type Program struct {
	File         string
	Declarations []Decl
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) TokenLiteral() string {
	if len(p.Declarations) > 0 {
		return p.Declarations[0].TokenLiteral()
	}
	return ""
}
func (p *Program) Range() source.Range {
	if len(p.Declarations) == 0 {
		return source.Range{}
	}
	return source.Range{Start: p.Declarations[0].Range().Start, End: p.Declarations[len(p.Declarations)-1].Range().End}
}

// base is embedded by every concrete node to supply the Tok/Range/
// TokenLiteral boilerplate, mirroring funvibe-funxy's per-node Token
// field + GetToken() accessor.
type base struct {
	Tok token.Token
	Rng source.Range
}

func (b base) TokenLiteral() string  { return b.Tok.Lexeme }
func (b base) Range() source.Range   { return b.Rng }
func (b base) GetToken() token.Token { return b.Tok }

// SetPos records the originating token and source range. Builders (the
// parser) call this once after constructing a node, since base's field
// is unexported and so cannot be set directly from outside this package
// via a composite literal.
func (b *base) SetPos(tok token.Token, rng source.Range) {
	b.Tok = tok
	b.Rng = rng
}

// TokenProvider is implemented by every node via base, giving diagnostics
// a uniform way to recover the originating token.
type TokenProvider interface {
	GetToken() token.Token
}

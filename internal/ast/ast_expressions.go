package ast

// Identifier is a bare name reference (spec.md's Variable expression).
// Resolution through the scope chain happens at evaluation time, not
// here.
type Identifier struct {
	base
	Value string
}

func (*Identifier) expressionNode() {}
func (n *Identifier) Accept(v Visitor) { v.VisitIdentifier(n) }

type IntegerLiteral struct {
	base
	Value  int64
	Bits   int // 0 = default width
	Signed bool
}

type FloatLiteral struct {
	base
	Value float64
	Bits  int
}

type BoolLiteral struct {
	base
	Value bool
}

type CharLiteral struct {
	base
	Value rune
}

type StringLiteral struct {
	base
	Value string
}

type NullLiteral struct{ base }

func (*IntegerLiteral) expressionNode() {}
func (*FloatLiteral) expressionNode()   {}
func (*BoolLiteral) expressionNode()    {}
func (*CharLiteral) expressionNode()    {}
func (*StringLiteral) expressionNode()  {}
func (*NullLiteral) expressionNode()    {}

func (n *IntegerLiteral) Accept(v Visitor) { v.VisitIntegerLiteral(n) }
func (n *FloatLiteral) Accept(v Visitor)   { v.VisitFloatLiteral(n) }
func (n *BoolLiteral) Accept(v Visitor)    { v.VisitBoolLiteral(n) }
func (n *CharLiteral) Accept(v Visitor)    { v.VisitCharLiteral(n) }
func (n *StringLiteral) Accept(v Visitor)  { v.VisitStringLiteral(n) }
func (n *NullLiteral) Accept(v Visitor)    { v.VisitNullLiteral(n) }

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	base
	Elements []Expression
}

func (*ArrayLiteral) expressionNode()    {}
func (n *ArrayLiteral) Accept(v Visitor) { v.VisitArrayLiteral(n) }

// IStringLiteral is `i"…{}…":{expr; expr;}` — format text already split
// from its ordered argument expressions by the lexer, per spec.md §4.1
// and §9 "Interpolated strings".
type IStringLiteral struct {
	base
	Format []string     // literal chunks; len(Format) == len(Args)+1
	Args   []Expression // ordered placeholder arguments
}

func (*IStringLiteral) expressionNode()    {}
func (n *IStringLiteral) Accept(v Visitor) { v.VisitIStringLiteral(n) }

// BinaryExpr is `l op r`.
type BinaryExpr struct {
	base
	Op    string
	Left  Expression
	Right Expression
}

func (*BinaryExpr) expressionNode()    {}
func (n *BinaryExpr) Accept(v Visitor) { v.VisitBinaryExpr(n) }

// UnaryExpr is a prefix operator applied to e: `-e`, `!e`, `~e`, `++e`, `--e`.
// (`*e` and `@e` have their own Dereference/AddressOf nodes since they
// carry l-value semantics distinct from the arithmetic unary operators.)
type UnaryExpr struct {
	base
	Op      string
	Operand Expression
	Postfix bool // true for postfix ++ / --
}

func (*UnaryExpr) expressionNode()    {}
func (n *UnaryExpr) Accept(v Visitor) { v.VisitUnaryExpr(n) }

// CallExpr is `callee(args...)`.
type CallExpr struct {
	base
	Callee Expression
	Args   []Expression
}

func (*CallExpr) expressionNode()    {}
func (n *CallExpr) Accept(v Visitor) { v.VisitCallExpr(n) }

// IndexExpr is `arr[idx]`.
type IndexExpr struct {
	base
	Array Expression
	Index Expression
}

func (*IndexExpr) expressionNode()    {}
func (n *IndexExpr) Accept(v Visitor) { v.VisitIndexExpr(n) }

// MemberExpr is `obj.name`. Resolution is deferred to evaluation.
type MemberExpr struct {
	base
	Object Expression
	Name   string
}

func (*MemberExpr) expressionNode()    {}
func (n *MemberExpr) Accept(v Visitor) { v.VisitMemberExpr(n) }

// ArrowMemberExpr is `ptr->name` (dereference then member access).
type ArrowMemberExpr struct {
	base
	Pointer Expression
	Name    string
}

func (*ArrowMemberExpr) expressionNode()    {}
func (n *ArrowMemberExpr) Accept(v Visitor) { v.VisitArrowMemberExpr(n) }

// ScopeResolveExpr is `A::B::c`.
type ScopeResolveExpr struct {
	base
	Path []string
}

func (*ScopeResolveExpr) expressionNode()    {}
func (n *ScopeResolveExpr) Accept(v Visitor) { v.VisitScopeResolveExpr(n) }

// CastExpr is `(Target)e` / `e as Target`.
type CastExpr struct {
	base
	Target TypeExpr
	Value  Expression
}

func (*CastExpr) expressionNode()    {}
func (n *CastExpr) Accept(v Visitor) { v.VisitCastExpr(n) }

// SizeofExpr is `sizeof(e)` or `sizeof(T)`; exactly one of Value/TypeArg
// is non-nil.
type SizeofExpr struct {
	base
	Value   Expression
	TypeArg TypeExpr
}

func (*SizeofExpr) expressionNode()    {}
func (n *SizeofExpr) Accept(v Visitor) { v.VisitSizeofExpr(n) }

// TypeofExpr is `typeof(e)`.
type TypeofExpr struct {
	base
	Value Expression
}

func (*TypeofExpr) expressionNode()    {}
func (n *TypeofExpr) Accept(v Visitor) { v.VisitTypeofExpr(n) }

// AssignExpr is `target = value` or a desugared compound assignment
// (spec_full.md §3.9): the parser rewrites `target += value` into
// AssignExpr{Target: target, Value: BinaryExpr{"+", target, value}}.
type AssignExpr struct {
	base
	Target Expression
	Value  Expression
}

func (*AssignExpr) expressionNode()    {}
func (n *AssignExpr) Accept(v Visitor) { v.VisitAssignExpr(n) }

// AddressOfExpr is `@e`.
type AddressOfExpr struct {
	base
	Operand Expression
}

func (*AddressOfExpr) expressionNode()    {}
func (n *AddressOfExpr) Accept(v Visitor) { v.VisitAddressOfExpr(n) }

// DereferenceExpr is `*e`.
type DereferenceExpr struct {
	base
	Operand Expression
}

func (*DereferenceExpr) expressionNode()    {}
func (n *DereferenceExpr) Accept(v Visitor) { v.VisitDereferenceExpr(n) }

// TernaryExpr is `cond ? then : else`.
type TernaryExpr struct {
	base
	Cond Expression
	Then Expression
	Else Expression
}

func (*TernaryExpr) expressionNode()    {}
func (n *TernaryExpr) Accept(v Visitor) { v.VisitTernaryExpr(n) }

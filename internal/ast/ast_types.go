package ast

// TypeExpr is the parsed (unresolved) surface syntax for a type
// annotation — the design-level tags of spec.md §3.4. The parser
// produces these; the evaluator/TypeRegistry resolve them to canonical
// types.Type handles at evaluation time.
type TypeExpr interface {
	Node
	typeExprNode()
}

type VoidTypeExpr struct{ base }
type BoolTypeExpr struct{ base }
type CharTypeExpr struct{ base }
type StringTypeExpr struct{ base }
type NullTypeExpr struct{ base }
type AutoTypeExpr struct{ base } // `auto` placeholder, e.g. catch(auto e)

type IntTypeExpr struct {
	base
	Bits   int // 0 means unspecified / default width
	Signed bool
}

type FloatTypeExpr struct {
	base
	Bits int
}

type PointerTypeExpr struct {
	base
	Elem TypeExpr
}

type ArrayTypeExpr struct {
	base
	Elem TypeExpr
	Len  Expression // nil when unspecified
}

type FunctionTypeExpr struct {
	base
	Params []TypeExpr
	Return TypeExpr
}

// NamedTypeExpr is a (possibly qualified, possibly template-instantiated)
// reference to a user type: `Foo`, `A::B::Foo`, `max<int>`.
type NamedTypeExpr struct {
	base
	Path     []string // qualified segments, e.g. ["A","B","Foo"]
	TypeArgs []TypeExpr
}

func (VoidTypeExpr) typeExprNode()     {}
func (BoolTypeExpr) typeExprNode()     {}
func (CharTypeExpr) typeExprNode()     {}
func (StringTypeExpr) typeExprNode()   {}
func (NullTypeExpr) typeExprNode()     {}
func (AutoTypeExpr) typeExprNode()     {}
func (IntTypeExpr) typeExprNode()      {}
func (FloatTypeExpr) typeExprNode()    {}
func (PointerTypeExpr) typeExprNode()  {}
func (ArrayTypeExpr) typeExprNode()    {}
func (FunctionTypeExpr) typeExprNode() {}
func (NamedTypeExpr) typeExprNode()    {}

func (n *VoidTypeExpr) Accept(v Visitor)     { v.VisitVoidTypeExpr(n) }
func (n *BoolTypeExpr) Accept(v Visitor)     { v.VisitBoolTypeExpr(n) }
func (n *CharTypeExpr) Accept(v Visitor)     { v.VisitCharTypeExpr(n) }
func (n *StringTypeExpr) Accept(v Visitor)   { v.VisitStringTypeExpr(n) }
func (n *NullTypeExpr) Accept(v Visitor)     { v.VisitNullTypeExpr(n) }
func (n *AutoTypeExpr) Accept(v Visitor)     { v.VisitAutoTypeExpr(n) }
func (n *IntTypeExpr) Accept(v Visitor)      { v.VisitIntTypeExpr(n) }
func (n *FloatTypeExpr) Accept(v Visitor)    { v.VisitFloatTypeExpr(n) }
func (n *PointerTypeExpr) Accept(v Visitor)  { v.VisitPointerTypeExpr(n) }
func (n *ArrayTypeExpr) Accept(v Visitor)    { v.VisitArrayTypeExpr(n) }
func (n *FunctionTypeExpr) Accept(v Visitor) { v.VisitFunctionTypeExpr(n) }
func (n *NamedTypeExpr) Accept(v Visitor)    { v.VisitNamedTypeExpr(n) }

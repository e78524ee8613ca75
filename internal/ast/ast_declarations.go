package ast

// Param is one function parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// FunctionDecl is `def name(params) -> retType { body }`. A function
// whose Name is one of the magic-method names (__init, __exit, __add,
// __sub, __mul, __div, __eq, __lt, __expr) is consulted by the evaluator
// ahead of the corresponding operator/lifecycle fallback per spec.md §4.4
// and §9 "Magic method dispatch" — there is no separate AST node for a
// magic method, only the reserved name.
type FunctionDecl struct {
	base
	Name       string
	TypeParams []string // template parameters, e.g. `def max<T>(...)`
	Params     []Param
	Return     TypeExpr
	Body       *BlockStatement
	Volatile   bool
}

func (*FunctionDecl) declNode()        {}
func (n *FunctionDecl) Accept(v Visitor) { v.VisitFunctionDecl(n) }

// StructDecl is `struct Name { fields };` — fields only, no methods.
type StructDecl struct {
	base
	Name   string
	Fields []Param
}

func (*StructDecl) declNode()        {}
func (n *StructDecl) Accept(v Visitor) { v.VisitStructDecl(n) }

// UnionDecl is `union Name { variants };`.
type UnionDecl struct {
	base
	Name     string
	Variants []Param
}

func (*UnionDecl) declNode()        {}
func (n *UnionDecl) Accept(v Visitor) { v.VisitUnionDecl(n) }

// ObjectDecl is a class member or a nested object group: `object Name
// [:Parent.Peer] { fields/methods }`, addressed afterwards as
// `X.Name.field` / `X.Name.method()` per spec.md §4.2.
type ObjectDecl struct {
	base
	Name       string
	Override   []string // qualified path of the parent peer this overrides, e.g. ["Animal","Actions"]; nil if none
	Fields     []*VariableDecl
	Methods    []*FunctionDecl
}

func (*ObjectDecl) declNode()        {}
func (n *ObjectDecl) Accept(v Visitor) { v.VisitObjectDecl(n) }

// ClassDecl is `class Name[<T,...>][:Parent] { fields; methods; nested
// objects };` per spec.md §3.4/§4.2/§9: single inheritance names the
// parent after a `:`, may contain nested ObjectDecls. Angle brackets
// after the class name always list type parameters; the `class X<Y>`
// form does not declare a parent.
type ClassDecl struct {
	base
	Name          string
	TypeParams    []string
	Parent        string // "" when no parent; set only by the `:Parent` form
	Fields        []*VariableDecl
	Methods       []*FunctionDecl
	NestedObjects []*ObjectDecl
}

func (*ClassDecl) declNode()        {}
func (n *ClassDecl) Accept(v Visitor) { v.VisitClassDecl(n) }

// NamespaceDecl is `namespace Name { decls };`.
type NamespaceDecl struct {
	base
	Name         string
	Declarations []Decl
}

func (*NamespaceDecl) declNode()        {}
func (n *NamespaceDecl) Accept(v Visitor) { v.VisitNamespaceDecl(n) }

// TypedefDecl is `typedef Target Alias;`.
type TypedefDecl struct {
	base
	Alias  string
	Target TypeExpr
}

func (*TypedefDecl) declNode()        {}
func (n *TypedefDecl) Accept(v Visitor) { v.VisitTypedefDecl(n) }

// ImportDecl is `import "path" [as alias];` — path resolution is an
// opaque external collaborator per spec.md §1.
type ImportDecl struct {
	base
	Path  string
	Alias string // "" when omitted
}

func (*ImportDecl) declNode()        {}
func (n *ImportDecl) Accept(v Visitor) { v.VisitImportDecl(n) }

// UsingDirective is `using ns::member;`, aliasing member into the current
// scope.
type UsingDirective struct {
	base
	Path []string
}

func (*UsingDirective) declNode()        {}
func (n *UsingDirective) Accept(v Visitor) { v.VisitUsingDirective(n) }

// TopLevelStatement lets an ordinary Statement (e.g. a top-level
// VariableDecl or ExpressionStatement) appear where Decl is expected,
// since Flux programs are not required to wrap every top-level form in a
// declaration keyword.
type TopLevelStatement struct {
	base
	Stmt Statement
}

func (*TopLevelStatement) declNode()        {}
func (n *TopLevelStatement) Accept(v Visitor) { v.VisitTopLevelStatement(n) }

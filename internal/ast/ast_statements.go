package ast

// ExpressionStatement wraps an expression evaluated for effect.
type ExpressionStatement struct {
	base
	Expr Expression
}

func (*ExpressionStatement) statementNode()    {}
func (n *ExpressionStatement) Accept(v Visitor) { v.VisitExpressionStatement(n) }

// BlockStatement is `{ stmt* }`; it introduces a child Environment frame
// at evaluation time, per spec.md §4.5.
type BlockStatement struct {
	base
	Statements []Statement
}

func (*BlockStatement) statementNode()    {}
func (n *BlockStatement) Accept(v Visitor) { v.VisitBlockStatement(n) }

// VariableDecl is `[global] Type name [= init];`.
type VariableDecl struct {
	base
	Name     string
	Type     TypeExpr
	Init     Expression // nil when uninitialized
	IsGlobal bool
}

func (*VariableDecl) statementNode()    {}
func (n *VariableDecl) Accept(v Visitor) { v.VisitVariableDecl(n) }

// IfStatement is `if (cond) then [else alt]`.
type IfStatement struct {
	base
	Cond Expression
	Then Statement
	Else Statement // nil when no else clause
}

func (*IfStatement) statementNode()    {}
func (n *IfStatement) Accept(v Visitor) { v.VisitIfStatement(n) }

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	base
	Cond Expression
	Body Statement
}

func (*WhileStatement) statementNode()    {}
func (n *WhileStatement) Accept(v Visitor) { v.VisitWhileStatement(n) }

// DoWhileStatement is `do body while (cond);`.
type DoWhileStatement struct {
	base
	Body Statement
	Cond Expression
}

func (*DoWhileStatement) statementNode()    {}
func (n *DoWhileStatement) Accept(v Visitor) { v.VisitDoWhileStatement(n) }

// ForStatement is `for (init?; cond?; step?) body`.
type ForStatement struct {
	base
	Init Statement  // nil when omitted
	Cond Expression // nil when omitted (infinite loop)
	Step Expression // nil when omitted
	Body Statement
}

func (*ForStatement) statementNode()    {}
func (n *ForStatement) Accept(v Visitor) { v.VisitForStatement(n) }

// ForEachStatement is `for (var in iter) body` / `foreach (...) body`.
type ForEachStatement struct {
	base
	VarName string
	Iter    Expression
	Body    Statement
}

func (*ForEachStatement) statementNode()    {}
func (n *ForEachStatement) Accept(v Visitor) { v.VisitForEachStatement(n) }

// ReturnStatement is `return [e];`.
type ReturnStatement struct {
	base
	Value Expression // nil for a bare `return;`
}

func (*ReturnStatement) statementNode()    {}
func (n *ReturnStatement) Accept(v Visitor) { v.VisitReturnStatement(n) }

// BreakStatement is `break;`.
type BreakStatement struct{ base }

func (*BreakStatement) statementNode()    {}
func (n *BreakStatement) Accept(v Visitor) { v.VisitBreakStatement(n) }

// ContinueStatement is `continue;`.
type ContinueStatement struct{ base }

func (*ContinueStatement) statementNode()    {}
func (n *ContinueStatement) Accept(v Visitor) { v.VisitContinueStatement(n) }

// ThrowStatement is `throw e;`.
type ThrowStatement struct {
	base
	Value Expression
}

func (*ThrowStatement) statementNode()    {}
func (n *ThrowStatement) Accept(v Visitor) { v.VisitThrowStatement(n) }

// TryCatchStatement is `try tryBlock catch(Type catchVar) catchBlock`.
type TryCatchStatement struct {
	base
	Try       *BlockStatement
	CatchVar  string
	CatchType TypeExpr // nil/AutoTypeExpr for `catch(auto e)`
	Catch     *BlockStatement
}

func (*TryCatchStatement) statementNode()    {}
func (n *TryCatchStatement) Accept(v Visitor) { v.VisitTryCatchStatement(n) }

// AsmStatement carries an opaque inline-assembly payload (spec.md §6.5 —
// never parsed beyond balanced braces).
type AsmStatement struct {
	base
	Payload string
}

func (*AsmStatement) statementNode()    {}
func (n *AsmStatement) Accept(v Visitor) { v.VisitAsmStatement(n) }

// SwitchCase is one `case expr: stmt*` arm of a SwitchStatement.
type SwitchCase struct {
	Value Expression
	Body  []Statement
}

// SwitchStatement is `switch (scrutinee) { case ...: ...; default: ...; }`.
// Cases do not fall through (spec_full.md §3.9).
type SwitchStatement struct {
	base
	Scrutinee Expression
	Cases     []SwitchCase
	Default   []Statement // nil when no default
}

func (*SwitchStatement) statementNode()    {}
func (n *SwitchStatement) Accept(v Visitor) { v.VisitSwitchStatement(n) }

// AssertStatement is `assert(cond[, msg]);` (spec_full.md §3.9).
type AssertStatement struct {
	base
	Cond Expression
	Msg  Expression // nil when omitted
}

func (*AssertStatement) statementNode()    {}
func (n *AssertStatement) Accept(v Visitor) { v.VisitAssertStatement(n) }

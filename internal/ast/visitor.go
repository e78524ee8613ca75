package ast

// Visitor is implemented by every AST consumer that walks the tree
// structurally (the pretty-printer, a future type-checker); the
// evaluator instead type-switches directly in its eval loop, the same
// split funvibe-funxy uses between its Visitor-based printer and its
// switch-based Eval.
type Visitor interface {
	VisitProgram(n *Program)

	VisitIdentifier(n *Identifier)
	VisitIntegerLiteral(n *IntegerLiteral)
	VisitFloatLiteral(n *FloatLiteral)
	VisitBoolLiteral(n *BoolLiteral)
	VisitCharLiteral(n *CharLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitNullLiteral(n *NullLiteral)
	VisitArrayLiteral(n *ArrayLiteral)
	VisitIStringLiteral(n *IStringLiteral)
	VisitBinaryExpr(n *BinaryExpr)
	VisitUnaryExpr(n *UnaryExpr)
	VisitCallExpr(n *CallExpr)
	VisitIndexExpr(n *IndexExpr)
	VisitMemberExpr(n *MemberExpr)
	VisitArrowMemberExpr(n *ArrowMemberExpr)
	VisitScopeResolveExpr(n *ScopeResolveExpr)
	VisitCastExpr(n *CastExpr)
	VisitSizeofExpr(n *SizeofExpr)
	VisitTypeofExpr(n *TypeofExpr)
	VisitAssignExpr(n *AssignExpr)
	VisitAddressOfExpr(n *AddressOfExpr)
	VisitDereferenceExpr(n *DereferenceExpr)
	VisitTernaryExpr(n *TernaryExpr)

	VisitExpressionStatement(n *ExpressionStatement)
	VisitBlockStatement(n *BlockStatement)
	VisitVariableDecl(n *VariableDecl)
	VisitIfStatement(n *IfStatement)
	VisitWhileStatement(n *WhileStatement)
	VisitDoWhileStatement(n *DoWhileStatement)
	VisitForStatement(n *ForStatement)
	VisitForEachStatement(n *ForEachStatement)
	VisitReturnStatement(n *ReturnStatement)
	VisitBreakStatement(n *BreakStatement)
	VisitContinueStatement(n *ContinueStatement)
	VisitThrowStatement(n *ThrowStatement)
	VisitTryCatchStatement(n *TryCatchStatement)
	VisitAsmStatement(n *AsmStatement)
	VisitSwitchStatement(n *SwitchStatement)
	VisitAssertStatement(n *AssertStatement)

	VisitFunctionDecl(n *FunctionDecl)
	VisitStructDecl(n *StructDecl)
	VisitUnionDecl(n *UnionDecl)
	VisitObjectDecl(n *ObjectDecl)
	VisitClassDecl(n *ClassDecl)
	VisitNamespaceDecl(n *NamespaceDecl)
	VisitTypedefDecl(n *TypedefDecl)
	VisitImportDecl(n *ImportDecl)
	VisitUsingDirective(n *UsingDirective)
	VisitTopLevelStatement(n *TopLevelStatement)

	VisitVoidTypeExpr(n *VoidTypeExpr)
	VisitBoolTypeExpr(n *BoolTypeExpr)
	VisitCharTypeExpr(n *CharTypeExpr)
	VisitStringTypeExpr(n *StringTypeExpr)
	VisitNullTypeExpr(n *NullTypeExpr)
	VisitAutoTypeExpr(n *AutoTypeExpr)
	VisitIntTypeExpr(n *IntTypeExpr)
	VisitFloatTypeExpr(n *FloatTypeExpr)
	VisitPointerTypeExpr(n *PointerTypeExpr)
	VisitArrayTypeExpr(n *ArrayTypeExpr)
	VisitFunctionTypeExpr(n *FunctionTypeExpr)
	VisitNamedTypeExpr(n *NamedTypeExpr)
}

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders a Program back to indentation-formatted Flux source,
// per spec_full.md §4.6. It exists to support the `-ast` CLI flag's
// pretty mode and the parse→print→parse round-trip property test.
type Printer struct {
	buf    strings.Builder
	indent int
}

// Print renders n (typically a *Program) and returns the resulting text.
func Print(n Node) string {
	p := &Printer{}
	n.Accept(p)
	return p.buf.String()
}

func (p *Printer) writeIndent() {
	p.buf.WriteString(strings.Repeat("    ", p.indent))
}

func (p *Printer) line(format string, args ...interface{}) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
}

func exprStr(e Expression) string {
	if e == nil {
		return ""
	}
	p := &Printer{}
	e.Accept(p)
	return strings.TrimRight(p.buf.String(), "\n")
}

func typeStr(t TypeExpr) string {
	if t == nil {
		return "auto"
	}
	p := &Printer{}
	t.Accept(p)
	return strings.TrimRight(p.buf.String(), "\n")
}

func (p *Printer) VisitProgram(n *Program) {
	for _, d := range n.Declarations {
		d.Accept(p)
	}
}

// --- expressions (rendered inline into buf without trailing newline) ---

func (p *Printer) VisitIdentifier(n *Identifier)     { p.buf.WriteString(n.Value) }
func (p *Printer) VisitIntegerLiteral(n *IntegerLiteral) { p.buf.WriteString(strconv.FormatInt(n.Value, 10)) }
func (p *Printer) VisitFloatLiteral(n *FloatLiteral) { p.buf.WriteString(strconv.FormatFloat(n.Value, 'g', -1, 64)) }
func (p *Printer) VisitBoolLiteral(n *BoolLiteral) {
	if n.Value {
		p.buf.WriteString("true")
	} else {
		p.buf.WriteString("false")
	}
}
func (p *Printer) VisitCharLiteral(n *CharLiteral)     { fmt.Fprintf(&p.buf, "'%c'", n.Value) }
func (p *Printer) VisitStringLiteral(n *StringLiteral) { fmt.Fprintf(&p.buf, "%q", n.Value) }
func (p *Printer) VisitNullLiteral(n *NullLiteral)     { p.buf.WriteString("null") }

func (p *Printer) VisitArrayLiteral(n *ArrayLiteral) {
	parts := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		parts[i] = exprStr(e)
	}
	p.buf.WriteString("[" + strings.Join(parts, ", ") + "]")
}

func (p *Printer) VisitIStringLiteral(n *IStringLiteral) {
	p.buf.WriteString(`i"`)
	for i, chunk := range n.Format {
		p.buf.WriteString(chunk)
		if i < len(n.Args) {
			p.buf.WriteString("{}")
		}
	}
	p.buf.WriteString(`":{`)
	for _, a := range n.Args {
		p.buf.WriteString(exprStr(a) + "; ")
	}
	p.buf.WriteString("}")
}

func (p *Printer) VisitBinaryExpr(n *BinaryExpr) {
	fmt.Fprintf(&p.buf, "(%s %s %s)", exprStr(n.Left), n.Op, exprStr(n.Right))
}

func (p *Printer) VisitUnaryExpr(n *UnaryExpr) {
	if n.Postfix {
		fmt.Fprintf(&p.buf, "(%s%s)", exprStr(n.Operand), n.Op)
	} else {
		fmt.Fprintf(&p.buf, "(%s%s)", n.Op, exprStr(n.Operand))
	}
}

func (p *Printer) VisitCallExpr(n *CallExpr) {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = exprStr(a)
	}
	fmt.Fprintf(&p.buf, "%s(%s)", exprStr(n.Callee), strings.Join(parts, ", "))
}

func (p *Printer) VisitIndexExpr(n *IndexExpr) {
	fmt.Fprintf(&p.buf, "%s[%s]", exprStr(n.Array), exprStr(n.Index))
}

func (p *Printer) VisitMemberExpr(n *MemberExpr) {
	fmt.Fprintf(&p.buf, "%s.%s", exprStr(n.Object), n.Name)
}

func (p *Printer) VisitArrowMemberExpr(n *ArrowMemberExpr) {
	fmt.Fprintf(&p.buf, "%s->%s", exprStr(n.Pointer), n.Name)
}

func (p *Printer) VisitScopeResolveExpr(n *ScopeResolveExpr) {
	p.buf.WriteString(strings.Join(n.Path, "::"))
}

func (p *Printer) VisitCastExpr(n *CastExpr) {
	fmt.Fprintf(&p.buf, "(%s)(%s)", typeStr(n.Target), exprStr(n.Value))
}

func (p *Printer) VisitSizeofExpr(n *SizeofExpr) {
	if n.Value != nil {
		fmt.Fprintf(&p.buf, "sizeof(%s)", exprStr(n.Value))
	} else {
		fmt.Fprintf(&p.buf, "sizeof(%s)", typeStr(n.TypeArg))
	}
}

func (p *Printer) VisitTypeofExpr(n *TypeofExpr) {
	fmt.Fprintf(&p.buf, "typeof(%s)", exprStr(n.Value))
}

func (p *Printer) VisitAssignExpr(n *AssignExpr) {
	fmt.Fprintf(&p.buf, "%s = %s", exprStr(n.Target), exprStr(n.Value))
}

func (p *Printer) VisitAddressOfExpr(n *AddressOfExpr) {
	fmt.Fprintf(&p.buf, "@%s", exprStr(n.Operand))
}

func (p *Printer) VisitDereferenceExpr(n *DereferenceExpr) {
	fmt.Fprintf(&p.buf, "*%s", exprStr(n.Operand))
}

func (p *Printer) VisitTernaryExpr(n *TernaryExpr) {
	fmt.Fprintf(&p.buf, "(%s ? %s : %s)", exprStr(n.Cond), exprStr(n.Then), exprStr(n.Else))
}

// --- statements ---

func (p *Printer) VisitExpressionStatement(n *ExpressionStatement) {
	p.line("%s;", exprStr(n.Expr))
}

func (p *Printer) VisitBlockStatement(n *BlockStatement) {
	p.writeIndent()
	p.buf.WriteString("{\n")
	p.indent++
	for _, s := range n.Statements {
		s.Accept(p)
	}
	p.indent--
	p.line("}")
}

func (p *Printer) VisitVariableDecl(n *VariableDecl) {
	prefix := ""
	if n.IsGlobal {
		prefix = "global "
	}
	if n.Init != nil {
		p.line("%s%s %s = %s;", prefix, typeStr(n.Type), n.Name, exprStr(n.Init))
	} else {
		p.line("%s%s %s;", prefix, typeStr(n.Type), n.Name)
	}
}

func (p *Printer) VisitIfStatement(n *IfStatement) {
	p.line("if (%s)", exprStr(n.Cond))
	n.Then.Accept(p)
	if n.Else != nil {
		p.line("else")
		n.Else.Accept(p)
	}
}

func (p *Printer) VisitWhileStatement(n *WhileStatement) {
	p.line("while (%s)", exprStr(n.Cond))
	n.Body.Accept(p)
}

func (p *Printer) VisitDoWhileStatement(n *DoWhileStatement) {
	p.line("do")
	n.Body.Accept(p)
	p.line("while (%s);", exprStr(n.Cond))
}

func (p *Printer) VisitForStatement(n *ForStatement) {
	init, cond, step := "", "", ""
	if n.Init != nil {
		if es, ok := n.Init.(*ExpressionStatement); ok {
			init = exprStr(es.Expr)
		} else if vd, ok := n.Init.(*VariableDecl); ok {
			init = fmt.Sprintf("%s %s", typeStr(vd.Type), vd.Name)
			if vd.Init != nil {
				init += " = " + exprStr(vd.Init)
			}
		}
	}
	if n.Cond != nil {
		cond = exprStr(n.Cond)
	}
	if n.Step != nil {
		step = exprStr(n.Step)
	}
	p.line("for (%s; %s; %s)", init, cond, step)
	n.Body.Accept(p)
}

func (p *Printer) VisitForEachStatement(n *ForEachStatement) {
	p.line("for (%s in %s)", n.VarName, exprStr(n.Iter))
	n.Body.Accept(p)
}

func (p *Printer) VisitReturnStatement(n *ReturnStatement) {
	if n.Value != nil {
		p.line("return %s;", exprStr(n.Value))
	} else {
		p.line("return;")
	}
}

func (p *Printer) VisitBreakStatement(n *BreakStatement)       { p.line("break;") }
func (p *Printer) VisitContinueStatement(n *ContinueStatement) { p.line("continue;") }

func (p *Printer) VisitThrowStatement(n *ThrowStatement) {
	p.line("throw %s;", exprStr(n.Value))
}

func (p *Printer) VisitTryCatchStatement(n *TryCatchStatement) {
	p.line("try")
	n.Try.Accept(p)
	p.line("catch (%s %s)", typeStr(n.CatchType), n.CatchVar)
	n.Catch.Accept(p)
}

func (p *Printer) VisitAsmStatement(n *AsmStatement) {
	p.line("asm { %s }", n.Payload)
}

func (p *Printer) VisitSwitchStatement(n *SwitchStatement) {
	p.line("switch (%s) {", exprStr(n.Scrutinee))
	p.indent++
	for _, c := range n.Cases {
		p.line("case %s:", exprStr(c.Value))
		p.indent++
		for _, s := range c.Body {
			s.Accept(p)
		}
		p.indent--
	}
	if n.Default != nil {
		p.line("default:")
		p.indent++
		for _, s := range n.Default {
			s.Accept(p)
		}
		p.indent--
	}
	p.indent--
	p.line("}")
}

func (p *Printer) VisitAssertStatement(n *AssertStatement) {
	if n.Msg != nil {
		p.line("assert(%s, %s);", exprStr(n.Cond), exprStr(n.Msg))
	} else {
		p.line("assert(%s);", exprStr(n.Cond))
	}
}

// --- declarations ---

func (p *Printer) VisitFunctionDecl(n *FunctionDecl) {
	name := n.Name
	if len(n.TypeParams) > 0 {
		name += "<" + strings.Join(n.TypeParams, ",") + ">"
	}
	prefix := ""
	if n.Volatile {
		prefix = "volatile "
	}
	params := make([]string, len(n.Params))
	for i, prm := range n.Params {
		params[i] = fmt.Sprintf("%s %s", typeStr(prm.Type), prm.Name)
	}
	p.line("%sdef %s(%s) -> %s", prefix, name, strings.Join(params, ", "), typeStr(n.Return))
	n.Body.Accept(p)
}

func (p *Printer) VisitStructDecl(n *StructDecl) {
	p.line("struct %s {", n.Name)
	p.indent++
	for _, f := range n.Fields {
		p.line("%s %s;", typeStr(f.Type), f.Name)
	}
	p.indent--
	p.line("};")
}

func (p *Printer) VisitUnionDecl(n *UnionDecl) {
	p.line("union %s {", n.Name)
	p.indent++
	for _, f := range n.Variants {
		p.line("%s %s;", typeStr(f.Type), f.Name)
	}
	p.indent--
	p.line("};")
}

func (p *Printer) VisitObjectDecl(n *ObjectDecl) {
	header := "object " + n.Name
	if len(n.Override) > 0 {
		header += " :" + strings.Join(n.Override, ".")
	}
	p.line("%s {", header)
	p.indent++
	for _, f := range n.Fields {
		f.Accept(p)
	}
	for _, m := range n.Methods {
		m.Accept(p)
	}
	p.indent--
	p.line("};")
}

func (p *Printer) VisitClassDecl(n *ClassDecl) {
	header := "class " + n.Name
	if len(n.TypeParams) > 0 {
		header += "<" + strings.Join(n.TypeParams, ",") + ">"
	}
	if n.Parent != "" {
		header += " :" + n.Parent
	}
	p.line("%s {", header)
	p.indent++
	for _, f := range n.Fields {
		f.Accept(p)
	}
	for _, m := range n.Methods {
		m.Accept(p)
	}
	for _, o := range n.NestedObjects {
		o.Accept(p)
	}
	p.indent--
	p.line("};")
}

func (p *Printer) VisitNamespaceDecl(n *NamespaceDecl) {
	p.line("namespace %s {", n.Name)
	p.indent++
	for _, d := range n.Declarations {
		d.Accept(p)
	}
	p.indent--
	p.line("}")
}

func (p *Printer) VisitTypedefDecl(n *TypedefDecl) {
	p.line("typedef %s %s;", typeStr(n.Target), n.Alias)
}

func (p *Printer) VisitImportDecl(n *ImportDecl) {
	if n.Alias != "" {
		p.line("import %q as %s;", n.Path, n.Alias)
	} else {
		p.line("import %q;", n.Path)
	}
}

func (p *Printer) VisitUsingDirective(n *UsingDirective) {
	p.line("using %s;", strings.Join(n.Path, "::"))
}

func (p *Printer) VisitTopLevelStatement(n *TopLevelStatement) {
	n.Stmt.Accept(p)
}

// --- type expressions ---

func (p *Printer) VisitVoidTypeExpr(n *VoidTypeExpr)     { p.buf.WriteString("void") }
func (p *Printer) VisitBoolTypeExpr(n *BoolTypeExpr)     { p.buf.WriteString("bool") }
func (p *Printer) VisitCharTypeExpr(n *CharTypeExpr)     { p.buf.WriteString("char") }
func (p *Printer) VisitStringTypeExpr(n *StringTypeExpr) { p.buf.WriteString("string") }
func (p *Printer) VisitNullTypeExpr(n *NullTypeExpr)     { p.buf.WriteString("null") }
func (p *Printer) VisitAutoTypeExpr(n *AutoTypeExpr)     { p.buf.WriteString("auto") }

func (p *Printer) VisitIntTypeExpr(n *IntTypeExpr) {
	if n.Signed {
		if n.Bits > 0 {
			fmt.Fprintf(&p.buf, "int{%d}", n.Bits)
		} else {
			p.buf.WriteString("int")
		}
	} else {
		fmt.Fprintf(&p.buf, "unsigned data{%d}", n.Bits)
	}
}

func (p *Printer) VisitFloatTypeExpr(n *FloatTypeExpr) {
	if n.Bits > 0 {
		fmt.Fprintf(&p.buf, "float{%d}", n.Bits)
	} else {
		p.buf.WriteString("float")
	}
}

func (p *Printer) VisitPointerTypeExpr(n *PointerTypeExpr) {
	p.buf.WriteString(typeStr(n.Elem) + "*")
}

func (p *Printer) VisitArrayTypeExpr(n *ArrayTypeExpr) {
	if n.Len != nil {
		fmt.Fprintf(&p.buf, "%s[%s]", typeStr(n.Elem), exprStr(n.Len))
	} else {
		fmt.Fprintf(&p.buf, "%s[]", typeStr(n.Elem))
	}
}

func (p *Printer) VisitFunctionTypeExpr(n *FunctionTypeExpr) {
	parts := make([]string, len(n.Params))
	for i, prm := range n.Params {
		parts[i] = typeStr(prm)
	}
	fmt.Fprintf(&p.buf, "(%s)->%s", strings.Join(parts, ","), typeStr(n.Return))
}

func (p *Printer) VisitNamedTypeExpr(n *NamedTypeExpr) {
	p.buf.WriteString(strings.Join(n.Path, "::"))
	if len(n.TypeArgs) > 0 {
		parts := make([]string, len(n.TypeArgs))
		for i, a := range n.TypeArgs {
			parts[i] = typeStr(a)
		}
		p.buf.WriteString("<" + strings.Join(parts, ",") + ">")
	}
}

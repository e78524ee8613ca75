package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/parser"
	"github.com/fluxlang/flux/internal/source"
)

func parseProgram(t *testing.T, text string) (*ast.Program, *source.Collector) {
	t.Helper()
	src := source.New("test.flux", text)
	diags := source.NewCollector()
	p := parser.New(src, diags)
	prog := p.ParseProgram("test.flux")
	return prog, diags
}

func requireNoErrors(t *testing.T, diags *source.Collector) {
	t.Helper()
	if diags.HadErrors() {
		for _, d := range diags.Diagnostics() {
			t.Logf("%s: %s", d.Level, d.Message)
		}
		t.Fatal("expected no parse errors")
	}
}

func TestParseVariableDeclWithInit(t *testing.T) {
	prog, diags := parseProgram(t, `int x = 42;`)
	requireNoErrors(t, diags)
	require.Len(t, prog.Declarations, 1)
	top, ok := prog.Declarations[0].(*ast.TopLevelStatement)
	require.True(t, ok)
	vd, ok := top.Stmt.(*ast.VariableDecl)
	require.True(t, ok)
	assert.Equal(t, "x", vd.Name)
	assert.True(t, vd.IsGlobal)
	require.NotNil(t, vd.Init)
	lit, ok := vd.Init.(*ast.IntegerLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(42), lit.Value)
}

func TestParseBitWidthIntType(t *testing.T) {
	prog, diags := parseProgram(t, `int{32} x;`)
	requireNoErrors(t, diags)
	top := prog.Declarations[0].(*ast.TopLevelStatement)
	vd := top.Stmt.(*ast.VariableDecl)
	it, ok := vd.Type.(*ast.IntTypeExpr)
	require.True(t, ok)
	assert.Equal(t, 32, it.Bits)
	assert.True(t, it.Signed)
}

func TestParsePointerAndArrayTypes(t *testing.T) {
	prog, diags := parseProgram(t, `int* p; int[10] a;`)
	requireNoErrors(t, diags)
	require.Len(t, prog.Declarations, 2)

	p1 := prog.Declarations[0].(*ast.TopLevelStatement).Stmt.(*ast.VariableDecl)
	_, ok := p1.Type.(*ast.PointerTypeExpr)
	assert.True(t, ok)

	p2 := prog.Declarations[1].(*ast.TopLevelStatement).Stmt.(*ast.VariableDecl)
	arr, ok := p2.Type.(*ast.ArrayTypeExpr)
	require.True(t, ok)
	require.NotNil(t, arr.Len)
	lit := arr.Len.(*ast.IntegerLiteral)
	assert.Equal(t, int64(10), lit.Value)
}

func TestParseExpressionPrecedence(t *testing.T) {
	prog, diags := parseProgram(t, `x = 1 + 2 * 3;`)
	requireNoErrors(t, diags)
	top := prog.Declarations[0].(*ast.TopLevelStatement)
	es, ok := top.Stmt.(*ast.ExpressionStatement)
	require.True(t, ok)
	assign, ok := es.Expr.(*ast.AssignExpr)
	require.True(t, ok)
	add, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", add.Op)
	_, ok = add.Left.(*ast.IntegerLiteral)
	assert.True(t, ok)
	mul, ok := add.Right.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseCompoundAssignDesugars(t *testing.T) {
	prog, diags := parseProgram(t, `x += 1;`)
	requireNoErrors(t, diags)
	es := prog.Declarations[0].(*ast.TopLevelStatement).Stmt.(*ast.ExpressionStatement)
	assign := es.Expr.(*ast.AssignExpr)
	bin, ok := assign.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "+", bin.Op)
	ident, ok := bin.Left.(*ast.Identifier)
	require.True(t, ok)
	assert.Equal(t, "x", ident.Value)
}

func TestParseGroupedExpressionVsCast(t *testing.T) {
	prog, diags := parseProgram(t, `(1 + 2); (int)x;`)
	requireNoErrors(t, diags)
	require.Len(t, prog.Declarations, 2)

	es1 := prog.Declarations[0].(*ast.TopLevelStatement).Stmt.(*ast.ExpressionStatement)
	_, ok := es1.Expr.(*ast.BinaryExpr)
	assert.True(t, ok, "grouped arithmetic expression should parse as a BinaryExpr")

	es2 := prog.Declarations[1].(*ast.TopLevelStatement).Stmt.(*ast.ExpressionStatement)
	cast, ok := es2.Expr.(*ast.CastExpr)
	require.True(t, ok, "(Type)operand should parse as a CastExpr")
	_, ok = cast.Target.(*ast.IntTypeExpr)
	assert.True(t, ok)
}

func TestParseAsCast(t *testing.T) {
	prog, diags := parseProgram(t, `x as int;`)
	requireNoErrors(t, diags)
	es := prog.Declarations[0].(*ast.TopLevelStatement).Stmt.(*ast.ExpressionStatement)
	cast, ok := es.Expr.(*ast.CastExpr)
	require.True(t, ok)
	_, ok = cast.Target.(*ast.IntTypeExpr)
	assert.True(t, ok)
}

func TestParseIfWhileFor(t *testing.T) {
	prog, diags := parseProgram(t, `
def main() -> int {
    if (x > 0) {
        return 1;
    } else {
        return 0;
    }
    while (x < 10) {
        x = x + 1;
    }
    for (int i = 0; i < 10; i = i + 1) {
        x = x + i;
    }
    for (item in items) {
        x = x + item;
    }
    return x;
}
`)
	requireNoErrors(t, diags)
	require.Len(t, prog.Declarations, 1)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	assert.Equal(t, "main", fn.Name)
	require.Len(t, fn.Body.Statements, 5)

	_, ok := fn.Body.Statements[0].(*ast.IfStatement)
	assert.True(t, ok)
	_, ok = fn.Body.Statements[1].(*ast.WhileStatement)
	assert.True(t, ok)
	forStmt, ok := fn.Body.Statements[2].(*ast.ForStatement)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	feStmt, ok := fn.Body.Statements[3].(*ast.ForEachStatement)
	require.True(t, ok)
	assert.Equal(t, "item", feStmt.VarName)
}

func TestParseIStringLiteral(t *testing.T) {
	prog, diags := parseProgram(t, `x = i"sum is {} and {}":{a; b + 1;};`)
	requireNoErrors(t, diags)
	es := prog.Declarations[0].(*ast.TopLevelStatement).Stmt.(*ast.ExpressionStatement)
	assign := es.Expr.(*ast.AssignExpr)
	istr, ok := assign.Value.(*ast.IStringLiteral)
	require.True(t, ok)
	require.Len(t, istr.Args, 2)
	assert.Equal(t, []string{"sum is ", " and ", ""}, istr.Format)
	_, ok = istr.Args[0].(*ast.Identifier)
	assert.True(t, ok)
	_, ok = istr.Args[1].(*ast.BinaryExpr)
	assert.True(t, ok)
}

func TestParseFunctionDeclWithGenericsAndParams(t *testing.T) {
	prog, diags := parseProgram(t, `
def max<T>(T a, T b) -> T {
    return a > b ? a : b;
}
`)
	requireNoErrors(t, diags)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	assert.Equal(t, "max", fn.Name)
	assert.Equal(t, []string{"T"}, fn.TypeParams)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	require.Len(t, fn.Body.Statements, 1)
	ret := fn.Body.Statements[0].(*ast.ReturnStatement)
	_, ok := ret.Value.(*ast.TernaryExpr)
	assert.True(t, ok)
}

func TestParseStructAndUnionDecl(t *testing.T) {
	prog, diags := parseProgram(t, `
struct Point { int x; int y; }
union Value { int i; float f; }
`)
	requireNoErrors(t, diags)
	require.Len(t, prog.Declarations, 2)
	sd := prog.Declarations[0].(*ast.StructDecl)
	assert.Equal(t, "Point", sd.Name)
	require.Len(t, sd.Fields, 2)
	ud := prog.Declarations[1].(*ast.UnionDecl)
	assert.Equal(t, "Value", ud.Name)
	require.Len(t, ud.Variants, 2)
}

func TestParseClassWithNestedObjectAndMagicMethod(t *testing.T) {
	prog, diags := parseProgram(t, `
class Animal {
    string name;

    def __init(string n) -> void {
        name = n;
    }

    object Actions {
        def speak() -> void {
            return;
        }
    }
}
`)
	requireNoErrors(t, diags)
	cd := prog.Declarations[0].(*ast.ClassDecl)
	assert.Equal(t, "Animal", cd.Name)
	require.Len(t, cd.Fields, 1)
	require.Len(t, cd.Methods, 1)
	assert.Equal(t, "__init", cd.Methods[0].Name)
	require.Len(t, cd.NestedObjects, 1)
	assert.Equal(t, "Actions", cd.NestedObjects[0].Name)
}

func TestParseClassInheritanceAndObjectOverride(t *testing.T) {
	prog, diags := parseProgram(t, `
class Dog :Animal {
    object Actions :Animal.Actions {
        def speak() -> void {
            return;
        }
    }
}
`)
	requireNoErrors(t, diags)
	cd := prog.Declarations[0].(*ast.ClassDecl)
	assert.Equal(t, "Animal", cd.Parent)
	require.Len(t, cd.NestedObjects, 1)
	assert.Equal(t, []string{"Animal", "Actions"}, cd.NestedObjects[0].Override)
}

func TestParseTryCatchThrow(t *testing.T) {
	prog, diags := parseProgram(t, `
def risky() -> void {
    try {
        throw "boom";
    } catch (auto e) {
        return;
    }
}
`)
	requireNoErrors(t, diags)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	tc := fn.Body.Statements[0].(*ast.TryCatchStatement)
	assert.Equal(t, "e", tc.CatchVar)
	require.Len(t, tc.Try.Statements, 1)
	_, ok := tc.Try.Statements[0].(*ast.ThrowStatement)
	assert.True(t, ok)
}

func TestParseSwitchStatementNoFallthrough(t *testing.T) {
	prog, diags := parseProgram(t, `
def f(int x) -> int {
    switch (x) {
    case 1:
        return 1;
    case 2:
        return 2;
    default:
        return 0;
    }
}
`)
	requireNoErrors(t, diags)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	sw := fn.Body.Statements[0].(*ast.SwitchStatement)
	require.Len(t, sw.Cases, 2)
	require.Len(t, sw.Default, 1)
}

func TestParseAsmOpaquePayload(t *testing.T) {
	prog, diags := parseProgram(t, `
def f() -> void {
    asm { mov eax, 1 }
}
`)
	requireNoErrors(t, diags)
	fn := prog.Declarations[0].(*ast.FunctionDecl)
	asm := fn.Body.Statements[0].(*ast.AsmStatement)
	assert.Contains(t, asm.Payload, "mov eax, 1")
}

func TestParseNamespaceAndUsing(t *testing.T) {
	prog, diags := parseProgram(t, `
namespace Geometry {
    struct Point { int x; int y; }
}
using Geometry::Point;
`)
	requireNoErrors(t, diags)
	require.Len(t, prog.Declarations, 2)
	ns := prog.Declarations[0].(*ast.NamespaceDecl)
	assert.Equal(t, "Geometry", ns.Name)
	require.Len(t, ns.Declarations, 1)
	using := prog.Declarations[1].(*ast.UsingDirective)
	assert.Equal(t, []string{"Geometry", "Point"}, using.Path)
}

func TestParseTypedefAndImport(t *testing.T) {
	prog, diags := parseProgram(t, `
typedef int{64} Long;
import "std/io" as io;
`)
	requireNoErrors(t, diags)
	td := prog.Declarations[0].(*ast.TypedefDecl)
	assert.Equal(t, "Long", td.Alias)
	imp := prog.Declarations[1].(*ast.ImportDecl)
	assert.Equal(t, "std/io", imp.Path)
	assert.Equal(t, "io", imp.Alias)
}

func TestParseScopeResolveExpr(t *testing.T) {
	prog, diags := parseProgram(t, `x = Geometry::Point::origin;`)
	requireNoErrors(t, diags)
	es := prog.Declarations[0].(*ast.TopLevelStatement).Stmt.(*ast.ExpressionStatement)
	assign := es.Expr.(*ast.AssignExpr)
	scope, ok := assign.Value.(*ast.ScopeResolveExpr)
	require.True(t, ok)
	assert.Equal(t, []string{"Geometry", "Point", "origin"}, scope.Path)
}

// TestMalformedDeclarationRecovers checks that a garbled top-level
// declaration still lets the parser resynchronize and continue past it
// rather than aborting the rest of the file.
func TestMalformedDeclarationRecovers(t *testing.T) {
	prog, diags := parseProgram(t, `
struct Broken { int; }
def ok() -> int {
    return 1;
}
`)
	assert.True(t, diags.HadErrors())
	require.Len(t, prog.Declarations, 2)
	fn, ok := prog.Declarations[1].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "ok", fn.Name)
}

// TestPrintRoundTripIsStable checks that pretty-printing a parsed program
// and reparsing the result is idempotent: printing twice yields the same
// text, which would catch a printer/parser disagreement about grammar.
func TestPrintRoundTripIsStable(t *testing.T) {
	text := `
def add(int a, int b) -> int {
    return a + b;
}
`
	prog, diags := parseProgram(t, text)
	requireNoErrors(t, diags)
	once := ast.Print(prog)

	reprog, diags2 := parseProgram(t, once)
	requireNoErrors(t, diags2)
	twice := ast.Print(reprog)

	assert.Equal(t, once, twice)
}

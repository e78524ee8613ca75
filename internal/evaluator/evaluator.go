// Package evaluator tree-walks a parsed Program, per spec.md §4.4: it
// registers top-level declarations into lexical/class scope, then calls
// `main()`, threading sentinel-value control flow (ReturnCarrier,
// BreakMark, ContinueMark, ExceptionCarrier) through every statement and
// expression form instead of Go-level panic/recover (grounded on
// funvibe-funxy/internal/evaluator's own sentinel-Object idiom — see
// statements_control.go's evalBlockStatement).
package evaluator

import (
	"io"

	"github.com/google/uuid"

	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/config"
	"github.com/fluxlang/flux/internal/source"
	"github.com/fluxlang/flux/internal/types"
)

// Exit codes, per spec.md §6.1.
const (
	ExitOK            = 0
	ExitNoEntryPoint  = -1
	ExitUncaught      = -2
)

// Evaluator holds everything one program run needs: the output sink,
// the diagnostic collector shared with the tokenizer/parser that
// produced this program, the type registry holding the canonical handles
// of declared structs, unions, classes and typedefs, and the registries of top-level declarations populated by Run before
// `main` is invoked.
type Evaluator struct {
	SessionID string
	Out       io.Writer
	In        io.Reader
	Diags     *source.Collector
	Types     *types.Registry
	Globals   *Environment

	Classes  map[string]*ClassDef
	Structs  map[string]*StructDef
	Unions   map[string]*UnionDef
	Typedefs map[string]ast.TypeExpr

	// Qualified holds every top-level declaration under its `::`-joined
	// namespace path, for ScopeResolveExpr (`A::B::c`) lookups per
	// spec.md §4.1/§4.2. Unqualified names are also bound directly into
	// Globals, so code inside the namespace and code outside it (via
	// `using`) can both see the bare name.
	Qualified map[string]Value

	intrinsics map[string]*IntrinsicValue
}

// New returns an Evaluator ready to Run a Program, writing program
// output to out, reading `input` intrinsic calls from in, and recording
// faults into diags.
func New(out io.Writer, in io.Reader, diags *source.Collector) *Evaluator {
	e := &Evaluator{
		SessionID: uuid.New().String(),
		Out:       out,
		In:        in,
		Diags:     diags,
		Types:     types.NewRegistry(),
		Globals:   NewEnvironment(),
		Classes:   make(map[string]*ClassDef),
		Structs:   make(map[string]*StructDef),
		Unions:    make(map[string]*UnionDef),
		Typedefs:  make(map[string]ast.TypeExpr),
		Qualified: make(map[string]Value),
		intrinsics: make(map[string]*IntrinsicValue),
	}
	e.registerIntrinsics()
	return e
}

// Run registers every top-level declaration, then invokes the entry
// point (config.EntryPointFuncName), per spec.md §4.4. The returned int
// is the process exit code: `main`'s integer return value (ExitOK when
// it returns no integer), ExitNoEntryPoint when no `main` function was
// declared, ExitUncaught when `main` exits via an uncaught
// ExceptionCarrier.
func (e *Evaluator) Run(prog *ast.Program) int {
	e.registerDeclarations(prog.Declarations, e.Globals)

	entry, ok := e.Globals.Get(config.EntryPointFuncName)
	if !ok {
		e.Diags.AddNoPos(source.Error, source.KindNameResolution, "no entry point: missing function %q", config.EntryPointFuncName)
		return ExitNoEntryPoint
	}
	fn, ok := entry.(*FunctionValue)
	if !ok {
		e.Diags.AddNoPos(source.Error, source.KindNameResolution, "%q is not a function", config.EntryPointFuncName)
		return ExitNoEntryPoint
	}

	result := e.callFunction(fn, nil, source.Range{})
	if ex, ok := result.(*ExceptionCarrier); ok {
		e.reportUncaught(ex)
		return ExitUncaught
	}
	if iv, ok := result.(*IntValue); ok {
		return int(iv.Value)
	}
	return ExitOK
}

func (e *Evaluator) reportUncaught(ex *ExceptionCarrier) {
	msg := ex.Value.Inspect()
	if errVal, ok := ex.Value.(*ErrorValue); ok {
		e.Diags.Add(source.Error, source.Kind(errVal.ErrKind), errVal.Range, "%s", errVal.Message)
		return
	}
	e.Diags.AddNoPos(source.Error, source.KindInternal, "uncaught exception: %s", msg)
}

// registerDeclarations walks top-level (and namespace-nested) Decls,
// defining functions, classes, structs, unions, typedefs, and global
// variables into env before `main` runs, per spec.md §4.2/§4.4.
// Two-pass: declarations are first defined with forward placeholders so
// mutually-referencing top-level functions/classes resolve regardless of
// textual order, then each class/global-variable initializer is
// evaluated.
func (e *Evaluator) registerDeclarations(decls []ast.Decl, env *Environment) {
	e.registerDeclarationsIn(decls, env, "")
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "::" + name
}

func (e *Evaluator) registerDeclarationsIn(decls []ast.Decl, env *Environment, prefix string) {
	for _, d := range decls {
		switch n := d.(type) {
		case *ast.FunctionDecl:
			fn := &FunctionValue{Decl: n, Closure: env}
			env.Define(n.Name, fn)
			e.Qualified[qualify(prefix, n.Name)] = fn
		case *ast.StructDecl:
			e.registerStruct(n)
		case *ast.UnionDecl:
			e.registerUnion(n)
		case *ast.ClassDecl:
			cd := e.predeclareClass(n)
			e.Qualified[qualify(prefix, n.Name)] = &ClassValue{Def: cd}
		case *ast.NamespaceDecl:
			e.registerDeclarationsIn(n.Declarations, env, qualify(prefix, n.Name))
		case *ast.TypedefDecl:
			// The alias resolves to the exact same canonical handle as
			// its target (getType("MyInt") == getType("int")), rather
			// than minting an independent Named type, per spec.md §3.6's
			// canonical-handle rule.
			e.Typedefs[n.Alias] = n.Target
			e.Types.DeclareAlias(n.Alias, e.resolveType(n.Target))
		case *ast.ImportDecl, *ast.UsingDirective:
			// Opaque external collaborators, per spec.md §1.
		case *ast.TopLevelStatement:
			// Evaluated after the class pass below.
		}
	}
	// Second pass: finish class bodies now that every class name is at
	// least predeclared, so a field/parent reference to a class declared
	// later in the file still resolves.
	for _, d := range decls {
		if n, ok := d.(*ast.ClassDecl); ok {
			e.finishClass(n, env)
		}
	}
	// Global variable initializers and other top-level statements run
	// last, in textual order, once every declaration above is in place.
	for _, d := range decls {
		if n, ok := d.(*ast.TopLevelStatement); ok {
			e.evalTopLevelStatement(n, env)
		}
	}
}

func (e *Evaluator) evalTopLevelStatement(n *ast.TopLevelStatement, env *Environment) {
	if vd, ok := n.Stmt.(*ast.VariableDecl); ok {
		e.evalVariableDecl(vd, env)
		return
	}
	e.execStatement(n.Stmt, env)
}

func (e *Evaluator) registerStruct(n *ast.StructDecl) {
	def := &StructDef{Name: n.Name, Fields: n.Fields}
	e.Structs[n.Name] = def
	fields := make([]types.Field, len(n.Fields))
	for i, f := range n.Fields {
		fields[i] = types.Field{Name: f.Name, Type: e.resolveType(f.Type)}
	}
	e.Types.DeclareNamed(n.Name, types.KindStruct, fields)
}

func (e *Evaluator) registerUnion(n *ast.UnionDecl) {
	def := &UnionDef{Name: n.Name, Variants: n.Variants}
	e.Unions[n.Name] = def
	e.Types.DeclareNamed(n.Name, types.KindUnion, nil)
}

// predeclareClass creates the ClassDef shell (name, methods, nested
// objects) without yet resolving Parent, so sibling classes can
// reference each other regardless of declaration order. A duplicate
// class name here is not a second, distinct redefinition slipping past
// enforcement: the parser's symbol table already raised a
// NameResolution diagnostic for it and evaluation never reaches this
// point when the parser reported an error, so returning the existing
// shell is just the forward-reference lookup this function exists for.
func (e *Evaluator) predeclareClass(n *ast.ClassDecl) *ClassDef {
	if cd, ok := e.Classes[n.Name]; ok {
		return cd
	}
	cd := &ClassDef{
		Name:          n.Name,
		TypeParams:    n.TypeParams,
		Fields:        n.Fields,
		Methods:       make(map[string]*ast.FunctionDecl),
		NestedObjects: make(map[string]*ObjectDef),
	}
	for _, m := range n.Methods {
		cd.Methods[m.Name] = m
	}
	for _, o := range n.NestedObjects {
		methods := make(map[string]*ast.FunctionDecl)
		for _, m := range o.Methods {
			methods[m.Name] = m
		}
		cd.NestedObjects[o.Name] = &ObjectDef{
			Name:     o.Name,
			Override: o.Override,
			Fields:   o.Fields,
			Methods:  methods,
		}
	}
	e.Classes[n.Name] = cd
	e.Globals.Define(n.Name, &ClassValue{Def: cd})
	return cd
}

func (e *Evaluator) finishClass(n *ast.ClassDecl, env *Environment) {
	cd := e.Classes[n.Name]
	if n.Parent != "" {
		parent, ok := e.Classes[n.Parent]
		if !ok {
			e.Diags.Add(source.Error, source.KindNameResolution, n.Range(), "unknown parent class %q", n.Parent)
		} else {
			cd.Parent = parent
		}
	}
	fields := make([]types.Field, 0, len(cd.Fields))
	for _, f := range cd.Fields {
		fields = append(fields, types.Field{Name: f.Name, Type: e.resolveType(f.Type)})
	}
	e.Types.DeclareNamed(n.Name, types.KindClass, fields)
}

// resolveType maps a parsed TypeExpr to its canonical Registry handle.
func (e *Evaluator) resolveType(te ast.TypeExpr) types.Type {
	switch t := te.(type) {
	case nil:
		return e.Types.Void()
	case *ast.VoidTypeExpr:
		return e.Types.Void()
	case *ast.BoolTypeExpr:
		return e.Types.Bool()
	case *ast.CharTypeExpr:
		return e.Types.Char()
	case *ast.StringTypeExpr:
		return e.Types.StringT()
	case *ast.NullTypeExpr:
		return e.Types.Null()
	case *ast.AutoTypeExpr:
		return e.Types.Void()
	case *ast.IntTypeExpr:
		return e.Types.Int(defaultBits(t.Bits), t.Signed)
	case *ast.FloatTypeExpr:
		return e.Types.Float(defaultFloatBits(t.Bits))
	case *ast.PointerTypeExpr:
		return e.Types.Pointer(e.resolveType(t.Elem))
	case *ast.ArrayTypeExpr:
		return e.Types.Array(e.resolveType(t.Elem), constArrayLen(t.Len))
	case *ast.FunctionTypeExpr:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = e.resolveType(p)
		}
		return e.Types.Function(params, e.resolveType(t.Return))
	case *ast.NamedTypeExpr:
		name := t.Path[len(t.Path)-1]
		return e.Types.GetType(name)
	}
	return e.Types.Void()
}

// constArrayLen reads a `T[n]` declaration's constant length, or -1 for
// an unspecified `T[]`. Only a literal integer length is supported, per
// SPEC_FULL.md §3.9's fixed-size array supplement — a non-literal
// bound (a variable, an expression) resolves as unspecified rather than
// being evaluated, since resolveType has no environment to evaluate an
// arbitrary expression in.
func constArrayLen(n ast.Expression) int {
	lit, ok := n.(*ast.IntegerLiteral)
	if !ok {
		return -1
	}
	return int(lit.Value)
}

func defaultBits(bits int) int {
	if bits == 0 {
		return 64
	}
	return bits
}

func defaultFloatBits(bits int) int {
	if bits == 0 {
		return 64
	}
	return bits
}

// zeroValue produces the default value for a declared-but-uninitialized
// binding, per spec.md §3.4's type table.
func (e *Evaluator) zeroValue(te ast.TypeExpr) Value {
	switch t := te.(type) {
	case nil:
		return NilValue{}
	case *ast.BoolTypeExpr:
		return &BoolValue{}
	case *ast.CharTypeExpr:
		return &CharValue{}
	case *ast.StringTypeExpr:
		return &StringValue{}
	case *ast.IntTypeExpr:
		return &IntValue{Bits: t.Bits, Signed: t.Signed}
	case *ast.FloatTypeExpr:
		return &FloatValue{Bits: t.Bits}
	case *ast.PointerTypeExpr:
		return &PointerValue{}
	case *ast.ArrayTypeExpr:
		n := constArrayLen(t.Len)
		if n <= 0 {
			return NewArray(nil)
		}
		elems := make([]Value, n)
		for i := range elems {
			elems[i] = e.zeroValue(t.Elem)
		}
		return NewArray(elems)
	case *ast.NamedTypeExpr:
		name := t.Path[len(t.Path)-1]
		if sd, ok := e.Structs[name]; ok {
			return e.zeroStruct(sd)
		}
		if cd, ok := e.Classes[name]; ok {
			return e.instantiate(cd, nil, source.Range{})
		}
		if target, ok := e.Typedefs[name]; ok {
			return e.zeroValue(target)
		}
		return NilValue{}
	default:
		return NilValue{}
	}
}

func (e *Evaluator) zeroStruct(sd *StructDef) *StructValue {
	fields := make(map[string]Value, len(sd.Fields))
	for _, f := range sd.Fields {
		fields[f.Name] = e.zeroValue(f.Type)
	}
	return &StructValue{Def: sd, Fields: fields}
}

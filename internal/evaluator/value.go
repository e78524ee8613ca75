package evaluator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/source"
)

// ValueKind tags the dynamic type of a runtime Value, per spec.md §3.7.
type ValueKind string

const (
	NilKind       ValueKind = "Nil"
	BoolKind      ValueKind = "Bool"
	IntKind       ValueKind = "Int"
	FloatKind     ValueKind = "Float"
	CharKind      ValueKind = "Char"
	StringKind    ValueKind = "String"
	ArrayKind     ValueKind = "Array"
	PointerKind   ValueKind = "Pointer"
	FunctionKind  ValueKind = "Function"
	IntrinsicKind ValueKind = "Intrinsic"
	StructKind    ValueKind = "Struct"
	ObjectKind    ValueKind = "Object"
	ClassKind     ValueKind = "Class"
	ErrorKind     ValueKind = "Error"

	// Sentinel kinds: carriers for non-local control flow, per spec.md
	// §3.7/§4.4. They never appear as the result of a user-visible
	// expression; each combinator strips them at the boundary it owns.
	ReturnKind   ValueKind = "ReturnCarrier"
	ExceptionKind ValueKind = "ExceptionCarrier"
	BreakKind    ValueKind = "BreakMark"
	ContinueKind ValueKind = "ContinueMark"
)

// Value is satisfied by every runtime value and every sentinel carrier.
type Value interface {
	Kind() ValueKind
	Inspect() string
}

type NilValue struct{}

func (NilValue) Kind() ValueKind  { return NilKind }
func (NilValue) Inspect() string { return "null" }

type BoolValue struct{ Value bool }

func (v *BoolValue) Kind() ValueKind { return BoolKind }
func (v *BoolValue) Inspect() string { return strconv.FormatBool(v.Value) }

// IntValue is an explicit bit-width integer, per spec.md §3.7. Bits==0
// means the default/unspecified width (treated as 64 for arithmetic).
type IntValue struct {
	Value  int64
	Bits   int
	Signed bool
}

func (v *IntValue) Kind() ValueKind { return IntKind }
func (v *IntValue) Inspect() string { return strconv.FormatInt(v.Value, 10) }
func (v *IntValue) bits() int {
	if v.Bits == 0 {
		return 64
	}
	return v.Bits
}

type FloatValue struct {
	Value float64
	Bits  int
}

func (v *FloatValue) Kind() ValueKind { return FloatKind }
func (v *FloatValue) Inspect() string { return strconv.FormatFloat(v.Value, 'g', -1, 64) }

type CharValue struct{ Value rune }

func (v *CharValue) Kind() ValueKind { return CharKind }
func (v *CharValue) Inspect() string { return string(v.Value) }

// StringValue wraps an immutable Go string. Go strings are themselves
// immutable value types, so ordinary copies already give the "shared"
// aliasing spec.md §3.7 asks for without a separate cell wrapper.
type StringValue struct{ Value string }

func (v *StringValue) Kind() ValueKind { return StringKind }
func (v *StringValue) Inspect() string { return v.Value }

// arrayCell is the shared mutable backing store behind every alias of
// an Array value, per spec.md §3.7's "Array(shared mutable sequence)".
type arrayCell struct {
	Elements []Value
}

type ArrayValue struct{ Cell *arrayCell }

func NewArray(elements []Value) *ArrayValue {
	return &ArrayValue{Cell: &arrayCell{Elements: elements}}
}

func (v *ArrayValue) Kind() ValueKind { return ArrayKind }
func (v *ArrayValue) Inspect() string {
	parts := make([]string, len(v.Cell.Elements))
	for i, e := range v.Cell.Elements {
		parts[i] = e.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// envCell is one variable binding's shared storage cell. `@x` in source
// produces a PointerValue bound to the cell naming x in the current
// Environment, per spec.md §4.4; the cell outlives the frame that
// declared it as long as any pointer value still references it (Go's GC
// keeps it alive — no manual lifetime tracking is needed).
type envCell struct{ Value Value }

// PointerValue is a reference to an envCell. A nil Cell is the null
// pointer.
type PointerValue struct{ Cell *envCell }

func (v *PointerValue) Kind() ValueKind { return PointerKind }
func (v *PointerValue) Inspect() string {
	if v.Cell == nil {
		return "nullptr"
	}
	return "&" + v.Cell.Value.Inspect()
}

// FunctionValue is a closure: a FunctionDecl plus the frame that was
// current when it was declared, per spec.md §3.7/§3.8. This is bound
// (Receiver != nil) when it is a method resolved off an Object/Nested
// value.
type FunctionValue struct {
	Decl     *ast.FunctionDecl
	Closure  *Environment
	Receiver Value     // *ObjectValue or *NestedValue, nil for free functions
	DefiningClass *ClassDef // the class level Decl was found at, when Receiver != nil
}

func (v *FunctionValue) Kind() ValueKind { return FunctionKind }
func (v *FunctionValue) Inspect() string { return "<function " + v.Decl.Name + ">" }

// IntrinsicValue is a host-registered builtin, per spec.md §6.4.
type IntrinsicValue struct {
	Name string
	// Arity is the required argument count, -1 for unchecked/variadic
	// (print), or ArityOptionalOne for a single optional argument (input's
	// `prompt?`): 0 or 1 arguments are accepted, 2+ is still an error.
	Arity int
	Fn    func(e *Evaluator, args []Value, call source.Range) Value
}

// ArityOptionalOne marks an intrinsic taking zero or one arguments.
const ArityOptionalOne = -2

func (v *IntrinsicValue) Kind() ValueKind { return IntrinsicKind }
func (v *IntrinsicValue) Inspect() string { return "<intrinsic " + v.Name + ">" }

// StructDef is a registered struct declaration's shape.
type StructDef struct {
	Name   string
	Fields []ast.Param
}

// StructValue's Fields map is itself a reference type, so copying a
// StructValue by value already shares the same backing storage — giving
// spec.md §3.7's "Struct values are shared" for free, without a wrapper
// cell.
type StructValue struct {
	Def    *StructDef
	Fields map[string]Value
}

func (v *StructValue) Kind() ValueKind { return StructKind }
func (v *StructValue) Inspect() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Def.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Name, v.Fields[f.Name].Inspect()))
	}
	return v.Def.Name + "{" + strings.Join(parts, ", ") + "}"
}

// UnionDef is a registered union declaration's shape.
type UnionDef struct {
	Name     string
	Variants []ast.Param
}

// UnionValue holds exactly one active variant.
type UnionValue struct {
	Def    *UnionDef
	Tag    string
	Stored Value
}

func (v *UnionValue) Kind() ValueKind { return StructKind }
func (v *UnionValue) Inspect() string {
	return fmt.Sprintf("%s::%s(%s)", v.Def.Name, v.Tag, v.Stored.Inspect())
}

// ObjectDef is a nested `object` block inside a class, per spec.md §3.4.
type ObjectDef struct {
	Name     string
	Override []string
	Fields   []*ast.VariableDecl
	Methods  map[string]*ast.FunctionDecl
}

// ClassDef is a registered class declaration: its field defaults, its
// method table, its nested object groups, and its parent (for single
// inheritance), per spec.md §3.4/§9.
type ClassDef struct {
	Name          string
	Parent        *ClassDef
	TypeParams    []string
	Fields        []*ast.VariableDecl
	Methods       map[string]*ast.FunctionDecl
	NestedObjects map[string]*ObjectDef
}

// lookupMethod walks cd, then its ancestors, per spec.md §9 "the
// declared class first ... then the parent transitively". The returned
// *ClassDef is the level the method was actually found at, needed to
// bind `super` relative to the method's own defining class rather than
// the receiver's dynamic (most-derived) class.
func (cd *ClassDef) lookupMethod(name string) (*ast.FunctionDecl, *ClassDef, bool) {
	for c := cd; c != nil; c = c.Parent {
		if m, ok := c.Methods[name]; ok {
			return m, c, true
		}
	}
	return nil, nil, false
}

// lookupNested walks cd, then its ancestors, for a nested object group
// named name — the most-derived override wins unless reached through an
// explicit `super` chain (see classes.go).
func (cd *ClassDef) lookupNested(name string) (*ObjectDef, *ClassDef, bool) {
	for c := cd; c != nil; c = c.Parent {
		if o, ok := c.NestedObjects[name]; ok {
			return o, c, true
		}
	}
	return nil, nil, false
}

// ClassValue is the constructor handle bound to a class's name in the
// global Environment, per spec.md §3.7 "Class(definition handle used as
// constructor)".
type ClassValue struct{ Def *ClassDef }

func (v *ClassValue) Kind() ValueKind { return ClassKind }
func (v *ClassValue) Inspect() string { return "<class " + v.Def.Name + ">" }

// ObjectValue is an instance of a class, or a plain top-level object.
// Fields is a reference type, so copies alias the same storage, per
// spec.md §3.7. RefCount implements the "simple reference counts" of
// spec.md §3.7/§9's supplemented reference-counting scheme: it reaches
// zero exactly when the last binding naming this instance leaves scope,
// at which point §5's `__exit` trigger fires.
type ObjectValue struct {
	Def         *ClassDef
	Fields      map[string]Value
	NestedState map[string]map[string]Value // nested object name -> its own field storage
	RefCount    *int
}

func (v *ObjectValue) Kind() ValueKind { return ObjectKind }
func (v *ObjectValue) Inspect() string {
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Def.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Name, v.Fields[f.Name].Inspect()))
	}
	return v.Def.Name + "{" + strings.Join(parts, ", ") + "}"
}

// NestedValue addresses a class instance through one of its nested
// object groups: `instance.Actions`. Def pins which ClassDef level the
// group was resolved at, so method calls off it dispatch to exactly
// that level (used to implement `super.Animal.Actions.speak()` — see
// classes.go's resolveMember).
type NestedValue struct {
	Owner *ObjectValue
	Name  string
	Def   *ObjectDef
}

func (v *NestedValue) Kind() ValueKind { return ObjectKind }
func (v *NestedValue) Inspect() string { return v.Owner.Def.Name + "." + v.Name }

func (v *NestedValue) fields() map[string]Value {
	if f, ok := v.Owner.NestedState[v.Name]; ok {
		return f
	}
	f := make(map[string]Value)
	v.Owner.NestedState[v.Name] = f
	return f
}

// superRef is bound as `super` inside a method body whose defining class
// has a parent; it is the first link of a `super.Parent.Nested.method()`
// navigation chain.
type superRef struct {
	owner *ObjectValue
	from  *ClassDef
}

func (v *superRef) Kind() ValueKind { return ObjectKind }
func (v *superRef) Inspect() string { return "<super>" }

// superClassRef is the second link: `super.Animal` resolved to the named
// ancestor class, ready for `.Nested` to pick a specific ancestor
// ObjectDef.
type superClassRef struct {
	owner *ObjectValue
	class *ClassDef
}

func (v *superClassRef) Kind() ValueKind { return ObjectKind }
func (v *superClassRef) Inspect() string { return "<super:" + v.class.Name + ">" }

// ErrorValue is the synthesized error record carried by an
// ExceptionCarrier for every runtime failure kind in spec.md §7.
type ErrorValue struct {
	ErrKind string
	Message string
	Range   source.Range
}

func (v *ErrorValue) Kind() ValueKind { return ErrorKind }
func (v *ErrorValue) Inspect() string { return v.ErrKind + ": " + v.Message }

// Sentinel carriers, per spec.md §3.7/§4.4.

type ReturnCarrier struct{ Value Value }

func (v *ReturnCarrier) Kind() ValueKind { return ReturnKind }
func (v *ReturnCarrier) Inspect() string { return "return " + v.Value.Inspect() }

type ExceptionCarrier struct{ Value Value }

func (v *ExceptionCarrier) Kind() ValueKind { return ExceptionKind }
func (v *ExceptionCarrier) Inspect() string { return "throw " + v.Value.Inspect() }

type BreakMark struct{}

func (BreakMark) Kind() ValueKind  { return BreakKind }
func (BreakMark) Inspect() string { return "break" }

type ContinueMark struct{}

func (ContinueMark) Kind() ValueKind  { return ContinueKind }
func (ContinueMark) Inspect() string { return "continue" }

// isCarrier reports whether v is one of the four sentinel kinds that
// must stop ordinary evaluation and propagate upward unexamined.
func isCarrier(v Value) bool {
	switch v.Kind() {
	case ReturnKind, ExceptionKind, BreakKind, ContinueKind:
		return true
	}
	return false
}

func truthy(v Value) bool {
	switch t := v.(type) {
	case NilValue:
		return false
	case *BoolValue:
		return t.Value
	case *IntValue:
		return t.Value != 0
	case *FloatValue:
		return t.Value != 0
	case *StringValue:
		return t.Value != ""
	default:
		return true
	}
}

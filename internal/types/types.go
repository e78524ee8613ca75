// Package types implements Flux's TypeRegistry: interning of named types
// (primitives with bit width, user-declared struct/class/object/union,
// pointer and function compositions) plus compatibility and
// widest-common-type queries, per spec.md §3.6 / §4.3.
package types

import (
	"fmt"
	"strings"
)

// Type is the interface every canonical type handle satisfies. Two Types
// describing the same shape are always the same Go value once interned
// through a Registry, so == can be used to test identity for anything
// obtained via Registry methods.
type Type interface {
	String() string
	isType()
}

// Void, Bool, Char, String, Null are the handle-less primitive singletons.
type (
	VoidType   struct{}
	BoolType   struct{}
	CharType   struct{}
	StringType struct{}
	NullType   struct{}
)

func (VoidType) isType()   {}
func (BoolType) isType()   {}
func (CharType) isType()   {}
func (StringType) isType() {}
func (NullType) isType()   {}

func (VoidType) String() string   { return "void" }
func (BoolType) String() string   { return "bool" }
func (CharType) String() string   { return "char" }
func (StringType) String() string { return "string" }
func (NullType) String() string   { return "null" }

// IntType is an explicit bit-width integer: int{32}, unsigned data{8}, ...
type IntType struct {
	Bits   int
	Signed bool
}

func (IntType) isType() {}
func (t IntType) String() string {
	if t.Signed {
		return fmt.Sprintf("int{%d}", t.Bits)
	}
	return fmt.Sprintf("unsigned data{%d}", t.Bits)
}

// FloatType is an explicit bit-width float: float{32}, float{64}.
type FloatType struct {
	Bits int
}

func (FloatType) isType()          {}
func (t FloatType) String() string { return fmt.Sprintf("float{%d}", t.Bits) }

// PointerType is `T*`.
type PointerType struct {
	Elem Type
}

func (PointerType) isType()          {}
func (t PointerType) String() string { return t.Elem.String() + "*" }

// ArrayType is `T[n]` or `T[]` (Len < 0 means unspecified length).
type ArrayType struct {
	Elem Type
	Len  int
}

func (ArrayType) isType() {}
func (t ArrayType) String() string {
	if t.Len < 0 {
		return t.Elem.String() + "[]"
	}
	return fmt.Sprintf("%s[%d]", t.Elem.String(), t.Len)
}

// FunctionType is a callable signature.
type FunctionType struct {
	Params []Type
	Return Type
}

func (FunctionType) isType() {}
func (t FunctionType) String() string {
	parts := make([]string, len(t.Params))
	for i, p := range t.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if t.Return != nil {
		ret = t.Return.String()
	}
	return fmt.Sprintf("(%s)->%s", strings.Join(parts, ","), ret)
}

// UserKind distinguishes the flavor of a user-declared named type.
type UserKind int

const (
	KindStruct UserKind = iota
	KindClass
	KindObject
	KindUnion
	KindNamed // forward reference not yet resolved to a declaration
)

// UserType is a struct/class/object/union, or an unresolved forward
// reference recorded under Named(qualified_name) per spec.md §3.4.
type UserType struct {
	Name   string // qualified name, e.g. "A::B::C"
	Kind   UserKind
	Fields []Field // struct/class/object field list (empty for Named/Union variant tags)
}

// Field is one struct/class/object field declaration.
type Field struct {
	Name string
	Type Type
}

func (UserType) isType()          {}
func (t UserType) String() string { return t.Name }

// Registry interns canonical type handles so that getType(name) and the
// structural constructors (pointer/array/function) return the same Go
// value across calls.
type Registry struct {
	primitives map[string]Type
	ints       map[string]*IntType
	floats     map[string]*FloatType
	pointers   map[Type]*PointerType
	arrays     map[string]*ArrayType
	functions  map[string]*FunctionType
	named      map[string]*UserType
	aliases    map[string]Type
}

// NewRegistry returns a Registry pre-populated with void/bool/char/string/null.
func NewRegistry() *Registry {
	r := &Registry{
		primitives: make(map[string]Type),
		ints:       make(map[string]*IntType),
		floats:     make(map[string]*FloatType),
		pointers:   make(map[Type]*PointerType),
		arrays:     make(map[string]*ArrayType),
		functions:  make(map[string]*FunctionType),
		named:      make(map[string]*UserType),
		aliases:    make(map[string]Type),
	}
	r.primitives["void"] = VoidType{}
	r.primitives["bool"] = BoolType{}
	r.primitives["char"] = CharType{}
	r.primitives["string"] = StringType{}
	r.primitives["null"] = NullType{}
	return r
}

// Int returns the canonical handle for an N-bit integer type.
func (r *Registry) Int(bits int, signed bool) *IntType {
	key := fmt.Sprintf("%d:%v", bits, signed)
	if t, ok := r.ints[key]; ok {
		return t
	}
	t := &IntType{Bits: bits, Signed: signed}
	r.ints[key] = t
	return t
}

// Float returns the canonical handle for an N-bit float type.
func (r *Registry) Float(bits int) *FloatType {
	key := fmt.Sprintf("%d", bits)
	if t, ok := r.floats[key]; ok {
		return t
	}
	t := &FloatType{Bits: bits}
	r.floats[key] = t
	return t
}

// Bool, Char, StringT, Void, Null return the singleton primitive handles.
func (r *Registry) Bool() Type   { return r.primitives["bool"] }
func (r *Registry) Char() Type   { return r.primitives["char"] }
func (r *Registry) StringT() Type { return r.primitives["string"] }
func (r *Registry) Void() Type   { return r.primitives["void"] }
func (r *Registry) Null() Type   { return r.primitives["null"] }

// Pointer returns the canonical wrapper for a pointer to elem.
func (r *Registry) Pointer(elem Type) *PointerType {
	if t, ok := r.pointers[elem]; ok {
		return t
	}
	t := &PointerType{Elem: elem}
	r.pointers[elem] = t
	return t
}

// Array returns the canonical handle for an array of elem with the given
// length (-1 for unspecified).
func (r *Registry) Array(elem Type, length int) *ArrayType {
	key := fmt.Sprintf("%s:%d", elem.String(), length)
	if t, ok := r.arrays[key]; ok {
		return t
	}
	t := &ArrayType{Elem: elem, Len: length}
	r.arrays[key] = t
	return t
}

// Function returns the canonical handle for a function signature.
func (r *Registry) Function(params []Type, ret Type) *FunctionType {
	t := &FunctionType{Params: params, Return: ret}
	key := t.String()
	if existing, ok := r.functions[key]; ok {
		return existing
	}
	r.functions[key] = t
	return t
}

// DeclareNamed registers (or updates) a user-declared struct/class/
// object/union under its qualified name, returning the canonical handle.
// A prior Named() forward reference for the same name is resolved in
// place: the same *UserType pointer is mutated, so earlier holders of the
// forward-reference handle observe the completed declaration.
func (r *Registry) DeclareNamed(name string, kind UserKind, fields []Field) *UserType {
	if existing, ok := r.named[name]; ok {
		existing.Kind = kind
		existing.Fields = fields
		return existing
	}
	t := &UserType{Name: name, Kind: kind, Fields: fields}
	r.named[name] = t
	return t
}

// DeclareAlias registers name (a typedef's alias) as resolving to
// target's own canonical handle, so GetType(name) == target afterwards —
// a typedef never mints an independent type identity of its own.
func (r *Registry) DeclareAlias(name string, target Type) Type {
	r.aliases[name] = target
	return target
}

// Named returns the handle for a (possibly still-forward) named type,
// creating an unresolved Named() placeholder if it has not been declared
// yet. Forward references resolve in place once DeclareNamed runs.
func (r *Registry) Named(name string) *UserType {
	if t, ok := r.named[name]; ok {
		return t
	}
	t := &UserType{Name: name, Kind: KindNamed}
	r.named[name] = t
	return t
}

// GetType resolves a name to its canonical handle: a typedef alias (in
// which case the aliased type's own handle comes back, not a distinct
// one), a primitive, a previously declared named type, or a still-forward
// Named() reference.
func (r *Registry) GetType(name string) Type {
	if t, ok := r.aliases[name]; ok {
		return t
	}
	if t, ok := r.primitives[name]; ok {
		return t
	}
	return r.Named(name)
}

// isNumeric reports whether t is an Int or Float type.
func isNumeric(t Type) bool {
	switch t.(type) {
	case *IntType, *FloatType:
		return true
	default:
		return false
	}
}

func bitsOf(t Type) int {
	switch v := t.(type) {
	case *IntType:
		return v.Bits
	case *FloatType:
		return v.Bits
	}
	return 0
}

// AreCompatible reports whether a and b may appear on either side of a
// binary numeric/comparison operator without an explicit cast: identical
// kind, or for numerics, convertible under integer-promotion rules
// (widening is always compatible; narrowing is compatible too — it is an
// explicit-cast concern enforced at evaluation time per spec.md §4.3, not
// a parse-time error).
func (r *Registry) AreCompatible(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	if sameKind(a, b) {
		return true
	}
	if isNumeric(a) && isNumeric(b) {
		return true
	}
	return false
}

func sameKind(a, b Type) bool {
	switch a.(type) {
	case VoidType:
		_, ok := b.(VoidType)
		return ok
	case BoolType:
		_, ok := b.(BoolType)
		return ok
	case CharType:
		_, ok := b.(CharType)
		return ok
	case StringType:
		_, ok := b.(StringType)
		return ok
	case NullType:
		_, ok := b.(NullType)
		return ok
	case *PointerType:
		bp, ok := b.(*PointerType)
		return ok && a.(*PointerType).Elem == bp.Elem
	case *UserType:
		bu, ok := b.(*UserType)
		return ok && a.(*UserType).Name == bu.Name
	}
	return false
}

// CommonType returns the wider of two numeric types (a float always wins
// over an int, whatever their bit widths; otherwise the wider bit width;
// ties prefer a). Returns (nil, false) when a and b are not both
// numeric.
func (r *Registry) CommonType(a, b Type) (Type, bool) {
	if !isNumeric(a) || !isNumeric(b) {
		return nil, false
	}
	_, aFloat := a.(*FloatType)
	_, bFloat := b.(*FloatType)
	switch {
	case aFloat && bFloat:
		if bitsOf(a) >= bitsOf(b) {
			return a, true
		}
		return b, true
	case aFloat:
		return a, true
	case bFloat:
		return b, true
	default:
		ai, bi := a.(*IntType), b.(*IntType)
		if ai.Bits >= bi.Bits {
			return ai, true
		}
		return bi, true
	}
}

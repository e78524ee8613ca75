package evaluator

import (
	"strings"

	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/config"
	"github.com/fluxlang/flux/internal/source"
)

// Eval dispatches one Expression node, mirroring funvibe-funxy's direct
// type-switch Eval (the Visitor interface is reserved for
// internal/ast/printer.go's pretty-printer).
func (e *Evaluator) Eval(expr ast.Expression, env *Environment) Value {
	switch n := expr.(type) {
	case *ast.Identifier:
		if v, ok := env.Get(n.Value); ok {
			return v
		}
		return e.throwf(n.Range(), source.KindNameResolution, "undefined name %q", n.Value)
	case *ast.IntegerLiteral:
		return &IntValue{Value: n.Value, Bits: n.Bits, Signed: n.Signed}
	case *ast.FloatLiteral:
		return &FloatValue{Value: n.Value, Bits: n.Bits}
	case *ast.BoolLiteral:
		return &BoolValue{Value: n.Value}
	case *ast.CharLiteral:
		return &CharValue{Value: n.Value}
	case *ast.StringLiteral:
		return &StringValue{Value: n.Value}
	case *ast.NullLiteral:
		return NilValue{}
	case *ast.ArrayLiteral:
		elems := make([]Value, len(n.Elements))
		for i, el := range n.Elements {
			v := e.Eval(el, env)
			if isCarrier(v) {
				return v
			}
			elems[i] = v
		}
		return NewArray(elems)
	case *ast.IStringLiteral:
		return e.evalIString(n, env)
	case *ast.BinaryExpr:
		return e.evalBinary(n, env)
	case *ast.UnaryExpr:
		return e.evalUnary(n, env)
	case *ast.CallExpr:
		return e.evalCall(n, env)
	case *ast.IndexExpr:
		return e.evalIndex(n, env)
	case *ast.MemberExpr:
		obj := e.Eval(n.Object, env)
		if isCarrier(obj) {
			return obj
		}
		return e.resolveMember(obj, n.Name, n.Range())
	case *ast.ArrowMemberExpr:
		ptr := e.Eval(n.Pointer, env)
		if isCarrier(ptr) {
			return ptr
		}
		pv, ok := ptr.(*PointerValue)
		if !ok || pv.Cell == nil {
			return e.throwf(n.Range(), source.KindNameResolution, "dereference of non-pointer or null pointer")
		}
		return e.resolveMember(pv.Cell.Value, n.Name, n.Range())
	case *ast.ScopeResolveExpr:
		key := strings.Join(n.Path, "::")
		if v, ok := e.Qualified[key]; ok {
			return v
		}
		if v, ok := env.Get(n.Path[len(n.Path)-1]); ok {
			return v
		}
		return e.throwf(n.Range(), source.KindNameResolution, "undefined name %q", key)
	case *ast.CastExpr:
		return e.evalCast(n, env)
	case *ast.SizeofExpr:
		return e.evalSizeof(n, env)
	case *ast.TypeofExpr:
		v := e.Eval(n.Value, env)
		if isCarrier(v) {
			return v
		}
		return &StringValue{Value: string(v.Kind())}
	case *ast.AssignExpr:
		return e.evalAssign(n, env)
	case *ast.AddressOfExpr:
		return e.evalAddressOf(n, env)
	case *ast.DereferenceExpr:
		v := e.Eval(n.Operand, env)
		if isCarrier(v) {
			return v
		}
		pv, ok := v.(*PointerValue)
		if !ok || pv.Cell == nil {
			return e.throwf(n.Range(), source.KindNameResolution, "dereference of null or non-pointer value")
		}
		return pv.Cell.Value
	case *ast.TernaryExpr:
		cond := e.Eval(n.Cond, env)
		if isCarrier(cond) {
			return cond
		}
		if truthy(cond) {
			return e.Eval(n.Then, env)
		}
		return e.Eval(n.Else, env)
	}
	return e.throwf(expr.Range(), source.KindUnimplemented, "unsupported expression %T", expr)
}

func (e *Evaluator) evalIString(n *ast.IStringLiteral, env *Environment) Value {
	var sb strings.Builder
	for i, chunk := range n.Format {
		sb.WriteString(chunk)
		if i < len(n.Args) {
			v := e.Eval(n.Args[i], env)
			if isCarrier(v) {
				return v
			}
			s := e.stringOf(v, n.Args[i].Range())
			if isCarrier(s) {
				return s
			}
			sb.WriteString(s.(*StringValue).Value)
		}
	}
	return &StringValue{Value: sb.String()}
}

// stringOf renders v for interpolation/to_string purposes, per spec.md
// §3.4/§4.1: an Object exposing __expr is consulted first, everything
// else falls back to its ordinary Inspect() text.
func (e *Evaluator) stringOf(v Value, call source.Range) Value {
	if obj, ok := v.(*ObjectValue); ok {
		if fn, cls, ok := obj.Def.lookupMethod(config.MagicExpr); ok {
			result := e.invokeMethod(obj, cls, fn, nil, call)
			if isCarrier(result) {
				return result
			}
			if s, ok := result.(*StringValue); ok {
				return s
			}
			return &StringValue{Value: result.Inspect()}
		}
	}
	return &StringValue{Value: v.Inspect()}
}

// evalCall dispatches a CallExpr per spec.md §4.2/§4.4: a ClassValue
// callee instantiates, a bound FunctionValue (method) dispatches through
// its receiver, an IntrinsicValue calls into the host, and a plain
// FunctionValue is an ordinary call.
func (e *Evaluator) evalCall(n *ast.CallExpr, env *Environment) Value {
	callee := e.Eval(n.Callee, env)
	if isCarrier(callee) {
		return callee
	}
	args := make([]Value, len(n.Args))
	for i, a := range n.Args {
		v := e.Eval(a, env)
		if isCarrier(v) {
			return v
		}
		args[i] = v
	}

	switch fn := callee.(type) {
	case *ClassValue:
		return e.instantiate(fn.Def, args, n.Range())
	case *IntrinsicValue:
		switch {
		case fn.Arity == ArityOptionalOne && len(args) > 1:
			return e.throwf(n.Range(), source.KindArity, "%s expects at most 1 argument, got %d", fn.Name, len(args))
		case fn.Arity >= 0 && len(args) != fn.Arity:
			return e.throwf(n.Range(), source.KindArity, "%s expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		return fn.Fn(e, args, n.Range())
	case *FunctionValue:
		if fn.Receiver != nil {
			switch recv := fn.Receiver.(type) {
			case *ObjectValue:
				definingClass := fn.DefiningClass
				if definingClass == nil {
					definingClass = recv.Def
				}
				return e.invokeMethod(recv, definingClass, fn.Decl, args, n.Range())
			case *NestedValue:
				return e.invokeNestedMethod(recv, fn.Decl, args, n.Range())
			}
		}
		return e.callFunction(fn, args, n.Range())
	}
	return e.throwf(n.Range(), source.KindType, "%s is not callable", callee.Kind())
}

// callFunction runs a free (unbound) function: a fresh frame enclosing
// its closure, parameters bound from args, executed to completion, per
// spec.md §4.4.
func (e *Evaluator) callFunction(fn *FunctionValue, args []Value, call source.Range) Value {
	frame := NewEnclosedEnvironment(fn.Closure)
	e.bindParams(frame, fn.Decl.Params, args, call)
	result := e.execBlock(fn.Decl.Body, frame)
	if rc, ok := result.(*ReturnCarrier); ok {
		return rc.Value
	}
	if isCarrier(result) {
		return result
	}
	return NilValue{}
}

func (e *Evaluator) evalIndex(n *ast.IndexExpr, env *Environment) Value {
	arr := e.Eval(n.Array, env)
	if isCarrier(arr) {
		return arr
	}
	idx := e.Eval(n.Index, env)
	if isCarrier(idx) {
		return idx
	}
	iv, ok := idx.(*IntValue)
	if !ok {
		return e.throwf(n.Range(), source.KindType, "array index must be an integer")
	}
	switch a := arr.(type) {
	case *ArrayValue:
		if iv.Value < 0 || int(iv.Value) >= len(a.Cell.Elements) {
			return e.throwf(n.Range(), source.KindIndex, "index %d out of range (length %d)", iv.Value, len(a.Cell.Elements))
		}
		return a.Cell.Elements[iv.Value]
	case *StringValue:
		runes := []rune(a.Value)
		if iv.Value < 0 || int(iv.Value) >= len(runes) {
			return e.throwf(n.Range(), source.KindIndex, "index %d out of range (length %d)", iv.Value, len(runes))
		}
		return &CharValue{Value: runes[iv.Value]}
	}
	return e.throwf(n.Range(), source.KindType, "cannot index a %s value", arr.Kind())
}

func (e *Evaluator) evalCast(n *ast.CastExpr, env *Environment) Value {
	v := e.Eval(n.Value, env)
	if isCarrier(v) {
		return v
	}
	return e.convert(v, n.Target, n.Range())
}

func (e *Evaluator) convert(v Value, target ast.TypeExpr, r source.Range) Value {
	switch t := target.(type) {
	case *ast.IntTypeExpr:
		bits := defaultBits(t.Bits)
		switch sv := v.(type) {
		case *IntValue:
			return &IntValue{Value: truncateTo(sv.Value, bits, t.Signed), Bits: t.Bits, Signed: t.Signed}
		case *FloatValue:
			return &IntValue{Value: truncateTo(int64(sv.Value), bits, t.Signed), Bits: t.Bits, Signed: t.Signed}
		case *CharValue:
			return &IntValue{Value: int64(sv.Value), Bits: t.Bits, Signed: t.Signed}
		case *BoolValue:
			if sv.Value {
				return &IntValue{Value: 1, Bits: t.Bits, Signed: t.Signed}
			}
			return &IntValue{Value: 0, Bits: t.Bits, Signed: t.Signed}
		}
	case *ast.FloatTypeExpr:
		switch sv := v.(type) {
		case *IntValue:
			return &FloatValue{Value: float64(sv.Value), Bits: t.Bits}
		case *FloatValue:
			return &FloatValue{Value: sv.Value, Bits: t.Bits}
		}
	case *ast.CharTypeExpr:
		if iv, ok := v.(*IntValue); ok {
			return &CharValue{Value: rune(iv.Value)}
		}
	case *ast.StringTypeExpr:
		return &StringValue{Value: v.Inspect()}
	case *ast.BoolTypeExpr:
		return &BoolValue{Value: truthy(v)}
	}
	return e.throwf(r, source.KindType, "cannot cast %s to %s", v.Kind(), target)
}

func truncateTo(v int64, bits int, signed bool) int64 {
	if bits <= 0 || bits >= 64 {
		return v
	}
	mask := int64(1)<<uint(bits) - 1
	v &= mask
	if signed && v&(int64(1)<<uint(bits-1)) != 0 {
		v -= int64(1) << uint(bits)
	}
	return v
}

func (e *Evaluator) evalSizeof(n *ast.SizeofExpr, env *Environment) Value {
	var t ast.TypeExpr
	if n.TypeArg != nil {
		t = n.TypeArg
	} else {
		v := e.Eval(n.Value, env)
		if isCarrier(v) {
			return v
		}
		return &IntValue{Value: int64(sizeofValue(v)), Bits: 64, Signed: true}
	}
	return &IntValue{Value: int64(sizeofType(t)), Bits: 64, Signed: true}
}

func sizeofValue(v Value) int {
	switch t := v.(type) {
	case *IntValue:
		return t.bits() / 8
	case *FloatValue:
		if t.Bits == 0 {
			return 8
		}
		return t.Bits / 8
	case *BoolValue:
		return 1
	case *CharValue:
		return 4
	case *PointerValue:
		return 8
	default:
		return 8
	}
}

func sizeofType(t ast.TypeExpr) int {
	switch n := t.(type) {
	case *ast.IntTypeExpr:
		return defaultBits(n.Bits) / 8
	case *ast.FloatTypeExpr:
		return defaultFloatBits(n.Bits) / 8
	case *ast.BoolTypeExpr:
		return 1
	case *ast.CharTypeExpr:
		return 4
	case *ast.PointerTypeExpr:
		return 8
	default:
		return 8
	}
}

func (e *Evaluator) evalAddressOf(n *ast.AddressOfExpr, env *Environment) Value {
	id, ok := n.Operand.(*ast.Identifier)
	if !ok {
		return e.throwf(n.Range(), source.KindType, "cannot take the address of this expression")
	}
	cell, ok := env.GetCell(id.Value)
	if !ok {
		return e.throwf(n.Range(), source.KindNameResolution, "undefined name %q", id.Value)
	}
	return &PointerValue{Cell: cell}
}

// evalAssign implements `target = value` and the parser's desugared
// compound-assignment BinaryExpr form, per spec_full.md §3.9. Four
// target shapes are supported: a bare identifier, a pointer
// dereference, an array index, and a MemberExpr field of an object,
// nested object group, or struct.
func (e *Evaluator) evalAssign(n *ast.AssignExpr, env *Environment) Value {
	v := e.Eval(n.Value, env)
	if isCarrier(v) {
		return v
	}
	switch target := n.Target.(type) {
	case *ast.Identifier:
		e.retain(v)
		old, hadOld := env.Get(target.Value)
		if !env.Assign(target.Value, v) {
			return e.throwf(n.Range(), source.KindNameResolution, "undefined name %q", target.Value)
		}
		if hadOld {
			e.release(old, n.Range())
		}
		return v
	case *ast.DereferenceExpr:
		ptr := e.Eval(target.Operand, env)
		if isCarrier(ptr) {
			return ptr
		}
		pv, ok := ptr.(*PointerValue)
		if !ok || pv.Cell == nil {
			return e.throwf(n.Range(), source.KindNameResolution, "assignment through null or non-pointer value")
		}
		pv.Cell.Value = v
		return v
	case *ast.IndexExpr:
		arr := e.Eval(target.Array, env)
		if isCarrier(arr) {
			return arr
		}
		idx := e.Eval(target.Index, env)
		if isCarrier(idx) {
			return idx
		}
		iv, ok := idx.(*IntValue)
		if !ok {
			return e.throwf(n.Range(), source.KindType, "array index must be an integer")
		}
		av, ok := arr.(*ArrayValue)
		if !ok {
			return e.throwf(n.Range(), source.KindType, "cannot index-assign a %s value", arr.Kind())
		}
		if iv.Value < 0 || int(iv.Value) >= len(av.Cell.Elements) {
			return e.throwf(n.Range(), source.KindIndex, "index %d out of range (length %d)", iv.Value, len(av.Cell.Elements))
		}
		av.Cell.Elements[iv.Value] = v
		return v
	case *ast.MemberExpr:
		obj := e.Eval(target.Object, env)
		if isCarrier(obj) {
			return obj
		}
		switch o := obj.(type) {
		case *ObjectValue:
			o.Fields[target.Name] = v
		case *NestedValue:
			o.fields()[target.Name] = v
		case *StructValue:
			o.Fields[target.Name] = v
		default:
			return e.throwf(n.Range(), source.KindType, "cannot assign a field of a %s value", obj.Kind())
		}
		return v
	}
	return e.throwf(n.Range(), source.KindType, "invalid assignment target")
}

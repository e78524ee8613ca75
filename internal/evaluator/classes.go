package evaluator

import (
	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/config"
	"github.com/fluxlang/flux/internal/source"
)

// instantiate builds a new ObjectValue for cd: fields are initialized
// from their declared defaults (or zero values), nested object groups
// get their own empty field storage, and __init is invoked with args if
// the class (or an ancestor) declares one, per spec.md §3.4/§9.
func (e *Evaluator) instantiate(cd *ClassDef, args []Value, call source.Range) Value {
	fields := make(map[string]Value)
	nested := make(map[string]map[string]Value)

	// Field defaults are inherited top-down: ancestor fields first, so a
	// subclass's own field of the same name takes precedence.
	var collectFields func(c *ClassDef)
	collectFields = func(c *ClassDef) {
		if c.Parent != nil {
			collectFields(c.Parent)
		}
		for _, f := range c.Fields {
			fields[f.Name] = e.fieldDefault(f)
		}
	}
	collectFields(cd)

	for name, od := range cd.NestedObjects {
		state := make(map[string]Value)
		for _, f := range od.Fields {
			state[f.Name] = e.fieldDefault(f)
		}
		nested[name] = state
	}

	refcount := 0
	obj := &ObjectValue{Def: cd, Fields: fields, NestedState: nested, RefCount: &refcount}
	e.retain(obj)

	if initFn, initClass, ok := cd.lookupMethod(config.MagicInit); ok {
		result := e.invokeMethod(obj, initClass, initFn, args, call)
		if isCarrier(result) {
			return result
		}
	}
	return obj
}

func (e *Evaluator) fieldDefault(f *ast.VariableDecl) Value {
	if f.Init != nil {
		return e.Eval(f.Init, e.Globals)
	}
	return e.zeroValue(f.Type)
}

// retain/release implement the reference-counting supplement of
// spec.md §9: every binding of an ObjectValue retains it; when a
// binding leaves scope (block exit, reassignment, function return) it
// releases, and __exit runs exactly once the count reaches zero.
func (e *Evaluator) retain(v Value) {
	if obj, ok := v.(*ObjectValue); ok {
		*obj.RefCount++
	}
}

// release decrements v's reference count (a no-op for non-Objects) and
// runs __exit once it reaches zero. __exit is not allowed to throw:
// an exception it raises is logged as a diagnostic and suppressed
// rather than propagated, matching spec.md §5's scoped-release rule.
// Any ordinary return value from __exit is likewise discarded, since
// __exit is a teardown hook, not an expression result.
func (e *Evaluator) release(v Value, call source.Range) {
	obj, ok := v.(*ObjectValue)
	if !ok {
		return
	}
	*obj.RefCount--
	if *obj.RefCount > 0 {
		return
	}
	if exitFn, exitClass, ok := obj.Def.lookupMethod(config.MagicExit); ok {
		if result := e.invokeMethod(obj, exitClass, exitFn, nil, call); isCarrier(result) {
			e.reportUncaught(result.(*ExceptionCarrier))
		}
	}
}

// releaseFrame runs release (and so __exit) for every Object bound
// directly in env, in reverse declaration order, per spec.md §9's
// teardown-on-scope-exit rule.
func (e *Evaluator) releaseFrame(env *Environment, call source.Range) {
	names := env.LocalNames()
	for i := len(names) - 1; i >= 0; i-- {
		v, _ := env.Get(names[i])
		e.release(v, call)
	}
}

// invokeMethod runs fn with obj bound as the implicit receiver (its
// fields directly addressable as bare identifiers, per spec.md §4.2),
// and binds `super` when definingClass has a parent.
func (e *Evaluator) invokeMethod(obj *ObjectValue, definingClass *ClassDef, fn *ast.FunctionDecl, args []Value, call source.Range) Value {
	frame := NewEnclosedEnvironment(e.Globals)
	for name, v := range obj.Fields {
		frame.Define(name, v)
	}
	frame.Define("this", obj)
	if definingClass.Parent != nil {
		frame.Define("super", &superRef{owner: obj, from: definingClass})
	}
	e.bindParams(frame, fn.Params, args, call)

	result := e.execBlock(fn.Body, frame)

	// Field mutations inside the method body are written back to obj so
	// later accesses (and the teardown pass) observe them.
	for name := range obj.Fields {
		if v, ok := frame.Get(name); ok {
			obj.Fields[name] = v
		}
	}

	if rc, ok := result.(*ReturnCarrier); ok {
		return rc.Value
	}
	return result
}

// invokeNestedMethod is invokeMethod's counterpart for a method declared
// inside a nested object group: the group's own field storage is bound
// alongside the owning object's fields, and bare-name writes to a group
// field land back in the group's NestedState.
func (e *Evaluator) invokeNestedMethod(nv *NestedValue, fn *ast.FunctionDecl, args []Value, call source.Range) Value {
	frame := NewEnclosedEnvironment(e.Globals)
	for name, v := range nv.Owner.Fields {
		frame.Define(name, v)
	}
	state := nv.fields()
	for name, v := range state {
		frame.Define(name, v)
	}
	frame.Define("this", nv.Owner)
	if nv.Owner.Def.Parent != nil {
		frame.Define("super", &superRef{owner: nv.Owner, from: nv.Owner.Def})
	}
	e.bindParams(frame, fn.Params, args, call)

	result := e.execBlock(fn.Body, frame)

	for name := range state {
		if v, ok := frame.Get(name); ok {
			state[name] = v
		}
	}
	for name := range nv.Owner.Fields {
		if v, ok := frame.Get(name); ok {
			nv.Owner.Fields[name] = v
		}
	}

	if rc, ok := result.(*ReturnCarrier); ok {
		return rc.Value
	}
	return result
}

func (e *Evaluator) bindParams(frame *Environment, params []ast.Param, args []Value, call source.Range) {
	for i, p := range params {
		if i < len(args) {
			frame.Define(p.Name, args[i])
		} else {
			frame.Define(p.Name, e.zeroValue(p.Type))
		}
	}
}

// resolveMember implements `obj.Name` for every receiver shape spec.md
// §4.2 allows: a plain field, a bound method, a nested object group, or
// (on a superRef/superClassRef) the next step of a super-navigation
// chain.
func (e *Evaluator) resolveMember(receiver Value, name string, call source.Range) Value {
	switch r := receiver.(type) {
	case *ObjectValue:
		if v, ok := r.Fields[name]; ok {
			return v
		}
		if od, _, ok := r.Def.lookupNested(name); ok {
			return &NestedValue{Owner: r, Name: name, Def: od}
		}
		if fn, cls, ok := r.Def.lookupMethod(name); ok {
			return &FunctionValue{Decl: fn, Closure: e.Globals, Receiver: r, DefiningClass: cls}
		}
		return e.throwf(call, source.KindNameResolution, "%s has no member %q", r.Def.Name, name)
	case *NestedValue:
		state := r.fields()
		if v, ok := state[name]; ok {
			return v
		}
		if fn, ok := r.Def.Methods[name]; ok {
			return &FunctionValue{Decl: fn, Closure: e.Globals, Receiver: r}
		}
		return e.throwf(call, source.KindNameResolution, "%s.%s has no member %q", r.Owner.Def.Name, r.Name, name)
	case *StructValue:
		if v, ok := r.Fields[name]; ok {
			return v
		}
		return e.throwf(call, source.KindNameResolution, "%s has no field %q", r.Def.Name, name)
	case *superRef:
		if name == r.from.Parent.Name {
			return &superClassRef{owner: r.owner, class: r.from.Parent}
		}
		return e.throwf(call, source.KindNameResolution, "super has no ancestor %q here", name)
	case *superClassRef:
		if od, _, ok := r.class.lookupNested(name); ok {
			return &NestedValue{Owner: r.owner, Name: name, Def: od}
		}
		if fn, ok := r.class.Methods[name]; ok {
			return &FunctionValue{Decl: fn, Closure: e.Globals, Receiver: r.owner, DefiningClass: r.class}
		}
		return e.throwf(call, source.KindNameResolution, "%s has no member %q", r.class.Name, name)
	case *ClassValue:
		// `ClassName.Nested` on the class itself is a NameResolution
		// fault: a nested group is only reachable through an instance.
		if _, ok := r.Def.NestedObjects[name]; ok {
			return e.throwf(call, source.KindNameResolution, "%s.%s requires an instance", r.Def.Name, name)
		}
		return e.throwf(call, source.KindNameResolution, "%s has no member %q", r.Def.Name, name)
	}
	return e.throwf(call, source.KindNameResolution, "cannot access member %q of %s", name, receiver.Kind())
}

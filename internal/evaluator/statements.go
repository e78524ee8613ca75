package evaluator

import (
	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/source"
)

// execStatement dispatches one Statement, mirroring funvibe-funxy's
// evalBlockStatement/evalReturnStatement family but via a direct
// type-switch rather than the ast.Visitor interface (the Visitor split
// is reserved for internal/ast/printer.go).
func (e *Evaluator) execStatement(stmt ast.Statement, env *Environment) Value {
	switch n := stmt.(type) {
	case *ast.ExpressionStatement:
		return e.stripNonCarrier(e.Eval(n.Expr, env))
	case *ast.BlockStatement:
		return e.execBlock(n, env)
	case *ast.VariableDecl:
		return e.evalVariableDecl(n, env)
	case *ast.IfStatement:
		return e.execIf(n, env)
	case *ast.WhileStatement:
		return e.execWhile(n, env)
	case *ast.DoWhileStatement:
		return e.execDoWhile(n, env)
	case *ast.ForStatement:
		return e.execFor(n, env)
	case *ast.ForEachStatement:
		return e.execForEach(n, env)
	case *ast.ReturnStatement:
		var v Value = NilValue{}
		if n.Value != nil {
			v = e.Eval(n.Value, env)
			if isCarrier(v) {
				return v
			}
		}
		return &ReturnCarrier{Value: v}
	case *ast.BreakStatement:
		return BreakMark{}
	case *ast.ContinueStatement:
		return ContinueMark{}
	case *ast.ThrowStatement:
		v := e.Eval(n.Value, env)
		if isCarrier(v) {
			return v
		}
		return &ExceptionCarrier{Value: v}
	case *ast.TryCatchStatement:
		return e.execTryCatch(n, env)
	case *ast.SwitchStatement:
		return e.execSwitch(n, env)
	case *ast.AssertStatement:
		return e.execAssert(n, env)
	case *ast.AsmStatement:
		// Opaque payload, per spec.md §6.5 — evaluating it is a no-op.
		return NilValue{}
	}
	return e.throwf(stmt.Range(), source.KindUnimplemented, "unsupported statement %T", stmt)
}

// stripNonCarrier normalizes a non-carrier Value to NilValue{} so an
// ExpressionStatement's result (discarded for effect) never leaks a
// live value into block-sequencing logic; carriers pass through
// unchanged so return/break/continue/throw still propagate out of a
// bare expression statement (only ThrowStatement/ReturnStatement
// normally produce these, but a call expression evaluating to an
// uncaught exception must still halt the block).
func (e *Evaluator) stripNonCarrier(v Value) Value {
	if isCarrier(v) {
		return v
	}
	return NilValue{}
}

// execBlock runs every statement of n in a fresh child frame, per
// spec.md §4.5, stopping at the first carrier. Locals bound in the
// frame are torn down (reverse declaration order, §9 __exit) once the
// block finishes, whether it finished normally or via a carrier.
func (e *Evaluator) execBlock(n *ast.BlockStatement, parent *Environment) Value {
	frame := NewEnclosedEnvironment(parent)
	var result Value = NilValue{}
	for _, stmt := range n.Statements {
		result = e.execStatement(stmt, frame)
		if isCarrier(result) {
			break
		}
	}
	e.releaseFrame(frame, n.Range())
	return result
}

func (e *Evaluator) execIf(n *ast.IfStatement, env *Environment) Value {
	cond := e.Eval(n.Cond, env)
	if isCarrier(cond) {
		return cond
	}
	if truthy(cond) {
		return e.execStatement(n.Then, env)
	}
	if n.Else != nil {
		return e.execStatement(n.Else, env)
	}
	return NilValue{}
}

func (e *Evaluator) execWhile(n *ast.WhileStatement, env *Environment) Value {
	for {
		cond := e.Eval(n.Cond, env)
		if isCarrier(cond) {
			return cond
		}
		if !truthy(cond) {
			return NilValue{}
		}
		result := e.execStatement(n.Body, env)
		switch result.Kind() {
		case BreakKind:
			return NilValue{}
		case ContinueKind:
			continue
		default:
			if isCarrier(result) {
				return result
			}
		}
	}
}

func (e *Evaluator) execDoWhile(n *ast.DoWhileStatement, env *Environment) Value {
	for {
		result := e.execStatement(n.Body, env)
		switch result.Kind() {
		case BreakKind:
			return NilValue{}
		case ContinueKind:
			// fall through to re-check condition
		default:
			if isCarrier(result) {
				return result
			}
		}
		cond := e.Eval(n.Cond, env)
		if isCarrier(cond) {
			return cond
		}
		if !truthy(cond) {
			return NilValue{}
		}
	}
}

func (e *Evaluator) execFor(n *ast.ForStatement, env *Environment) Value {
	frame := NewEnclosedEnvironment(env)
	if n.Init != nil {
		if result := e.execStatement(n.Init, frame); isCarrier(result) {
			return result
		}
	}
	for {
		if n.Cond != nil {
			cond := e.Eval(n.Cond, frame)
			if isCarrier(cond) {
				return cond
			}
			if !truthy(cond) {
				break
			}
		}
		result := e.execStatement(n.Body, frame)
		switch result.Kind() {
		case BreakKind:
			goto done
		case ContinueKind:
			// fall through to step
		default:
			if isCarrier(result) {
				return result
			}
		}
		if n.Step != nil {
			if stepResult := e.Eval(n.Step, frame); isCarrier(stepResult) {
				return stepResult
			}
		}
	}
done:
	return NilValue{}
}

// execForEach iterates VarName over Iter's elements, per spec.md §4.5.
// Array and String values iterate their elements/characters; any other
// iterable-shaped value (a class instance declaring an `__iter`-style
// accessor) is out of scope here since spec.md names no such protocol —
// iterating a non-Array/String value is reported as a type fault.
func (e *Evaluator) execForEach(n *ast.ForEachStatement, env *Environment) Value {
	iter := e.Eval(n.Iter, env)
	if isCarrier(iter) {
		return iter
	}
	var elements []Value
	switch it := iter.(type) {
	case *ArrayValue:
		elements = it.Cell.Elements
	case *StringValue:
		for _, r := range it.Value {
			elements = append(elements, &CharValue{Value: r})
		}
	default:
		return e.throwf(n.Range(), source.KindType, "cannot iterate a %s value", iter.Kind())
	}

	frame := NewEnclosedEnvironment(env)
	for _, el := range elements {
		frame.Define(n.VarName, el)
		result := e.execStatement(n.Body, frame)
		switch result.Kind() {
		case BreakKind:
			return NilValue{}
		case ContinueKind:
			continue
		default:
			if isCarrier(result) {
				return result
			}
		}
	}
	return NilValue{}
}

func (e *Evaluator) execTryCatch(n *ast.TryCatchStatement, env *Environment) Value {
	result := e.execBlock(n.Try, env)
	ex, ok := result.(*ExceptionCarrier)
	if !ok {
		return result
	}
	frame := NewEnclosedEnvironment(env)
	frame.Define(n.CatchVar, ex.Value)
	return e.execBlock(n.Catch, frame)
}

func (e *Evaluator) execSwitch(n *ast.SwitchStatement, env *Environment) Value {
	scrutinee := e.Eval(n.Scrutinee, env)
	if isCarrier(scrutinee) {
		return scrutinee
	}
	for _, c := range n.Cases {
		caseVal := e.Eval(c.Value, env)
		if isCarrier(caseVal) {
			return caseVal
		}
		if valuesEqual(scrutinee, caseVal) {
			return e.execStatements(c.Body, env)
		}
	}
	if n.Default != nil {
		return e.execStatements(n.Default, env)
	}
	return NilValue{}
}

// execStatements runs stmts in a fresh child frame without the
// surrounding-block's own BlockStatement node (used by switch arms,
// which carry a bare []Statement rather than a *BlockStatement).
func (e *Evaluator) execStatements(stmts []ast.Statement, parent *Environment) Value {
	frame := NewEnclosedEnvironment(parent)
	var result Value = NilValue{}
	for _, stmt := range stmts {
		result = e.execStatement(stmt, frame)
		if isCarrier(result) {
			break
		}
	}
	e.releaseFrame(frame, source.Range{})
	return result
}

func (e *Evaluator) execAssert(n *ast.AssertStatement, env *Environment) Value {
	cond := e.Eval(n.Cond, env)
	if isCarrier(cond) {
		return cond
	}
	if truthy(cond) {
		return NilValue{}
	}
	msg := "assertion failed"
	if n.Msg != nil {
		mv := e.Eval(n.Msg, env)
		if isCarrier(mv) {
			return mv
		}
		msg = mv.Inspect()
	}
	return e.throwf(n.Range(), source.KindAssertion, "%s", msg)
}

func (e *Evaluator) evalVariableDecl(n *ast.VariableDecl, env *Environment) Value {
	var v Value
	if n.Init != nil {
		v = e.Eval(n.Init, env)
		if isCarrier(v) {
			return v
		}
	} else {
		v = e.zeroValue(n.Type)
	}
	if at, ok := n.Type.(*ast.ArrayTypeExpr); ok {
		if want := constArrayLen(at.Len); want >= 0 {
			if av, ok := v.(*ArrayValue); ok && len(av.Cell.Elements) != want {
				return e.throwf(n.Range(), source.KindType, "cannot initialize %s[%d] with an array of length %d", e.resolveType(at.Elem), want, len(av.Cell.Elements))
			}
		}
	}
	e.retain(v)
	target := env
	if n.IsGlobal {
		target = e.Globals
	}
	target.Define(n.Name, v)
	return NilValue{}
}

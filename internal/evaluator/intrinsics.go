package evaluator

import (
	"bufio"
	"fmt"
	"math"

	"github.com/fluxlang/flux/internal/config"
	"github.com/fluxlang/flux/internal/source"
)

// registerIntrinsics binds the minimum host intrinsic set of spec.md
// §6.4 directly into Globals, so ordinary CallExpr dispatch in
// expressions.go's evalCall handles them the same way as any other
// callee — no separate intrinsic-call AST node is needed.
func (e *Evaluator) registerIntrinsics() {
	e.define(config.PrintFuncName, -1, e.intrinsicPrint)
	e.define(config.InputFuncName, ArityOptionalOne, e.intrinsicInput)
	e.define(config.LengthFuncName, 1, e.intrinsicLength)
	e.define(config.ToStringFuncName, 1, e.intrinsicToString)
	e.define(config.ToNumberFuncName, 1, e.intrinsicToNumber)
	e.define(config.SqrtFuncName, 1, mathUnary(math.Sqrt))
	e.define(config.SinFuncName, 1, mathUnary(math.Sin))
	e.define(config.CosFuncName, 1, mathUnary(math.Cos))
	e.define(config.TanFuncName, 1, mathUnary(math.Tan))
	e.define(config.MemallocFuncName, 1, e.intrinsicMemalloc)
}

func (e *Evaluator) define(name string, arity int, fn func(e *Evaluator, args []Value, call source.Range) Value) {
	iv := &IntrinsicValue{Name: name, Arity: arity, Fn: fn}
	e.intrinsics[name] = iv
	e.Globals.Define(name, iv)
}

func (e *Evaluator) intrinsicPrint(ev *Evaluator, args []Value, call source.Range) Value {
	parts := make([]interface{}, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	fmt.Fprintln(ev.Out, parts...)
	return NilValue{}
}

func (e *Evaluator) intrinsicInput(ev *Evaluator, args []Value, call source.Range) Value {
	if len(args) == 1 {
		if prompt, ok := args[0].(*StringValue); ok {
			fmt.Fprint(ev.Out, prompt.Value)
		} else {
			fmt.Fprint(ev.Out, args[0].Inspect())
		}
	}
	if ev.In == nil {
		return &StringValue{Value: ""}
	}
	scanner := bufio.NewScanner(ev.In)
	if scanner.Scan() {
		return &StringValue{Value: scanner.Text()}
	}
	return &StringValue{Value: ""}
}

func (e *Evaluator) intrinsicLength(ev *Evaluator, args []Value, call source.Range) Value {
	switch v := args[0].(type) {
	case *StringValue:
		return &IntValue{Value: int64(len([]rune(v.Value))), Bits: 64, Signed: true}
	case *ArrayValue:
		return &IntValue{Value: int64(len(v.Cell.Elements)), Bits: 64, Signed: true}
	}
	return ev.throwf(call, source.KindType, "length expects a string or array, got %s", args[0].Kind())
}

func (e *Evaluator) intrinsicToString(ev *Evaluator, args []Value, call source.Range) Value {
	return ev.stringOf(args[0], call)
}

func (e *Evaluator) intrinsicToNumber(ev *Evaluator, args []Value, call source.Range) Value {
	s, ok := args[0].(*StringValue)
	if !ok {
		return ev.throwf(call, source.KindType, "to_number expects a string, got %s", args[0].Kind())
	}
	var f float64
	if _, err := fmt.Sscanf(s.Value, "%g", &f); err != nil {
		return ev.throwf(call, source.KindType, "cannot parse %q as a number", s.Value)
	}
	return &FloatValue{Value: f, Bits: 64}
}

func (e *Evaluator) intrinsicMemalloc(ev *Evaluator, args []Value, call source.Range) Value {
	n, ok := args[0].(*IntValue)
	if !ok || n.Value < 0 {
		return ev.throwf(call, source.KindType, "memalloc expects a non-negative integer size")
	}
	elements := make([]Value, n.Value)
	for i := range elements {
		elements[i] = &IntValue{Bits: 8}
	}
	return NewArray(elements)
}

func mathUnary(fn func(float64) float64) func(e *Evaluator, args []Value, call source.Range) Value {
	return func(e *Evaluator, args []Value, call source.Range) Value {
		f, _, ok := numericOperand(args[0])
		if !ok {
			return e.throwf(call, source.KindType, "expects a numeric argument, got %s", args[0].Kind())
		}
		return &FloatValue{Value: fn(f), Bits: 64}
	}
}

package evaluator

import (
	"strings"

	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/config"
	"github.com/fluxlang/flux/internal/source"
)

// magicForOp maps an operator to the magic method that overloads it for
// a class instance, per spec.md §3.4/§9.
func magicForOp(op string) (string, bool) {
	switch op {
	case "+":
		return config.MagicAdd, true
	case "-":
		return config.MagicSub, true
	case "*":
		return config.MagicMul, true
	case "/":
		return config.MagicDiv, true
	case "==":
		return config.MagicEq, true
	case "<":
		return config.MagicLt, true
	}
	return "", false
}

// normalizeOp maps a keyword-spelled operator to its symbolic
// equivalent, since BinaryExpr.Op carries whatever lexeme the parser
// consumed (`and`/`&&`, `or`/`||`, `not`, `xor`, `is`, `in` all appear
// verbatim per spec.md §4.1's keyword-operator table).
func normalizeOp(op string) string {
	switch op {
	case "and":
		return "&&"
	case "or":
		return "||"
	case "xor":
		return "^"
	case "is":
		return "=="
	default:
		return op
	}
}

// evalBinary dispatches a BinaryExpr. Logical `&&`/`||` short-circuit
// ahead of operand widening and return the unevaluated-further operand
// unconverted, per spec.md §4.4.
func (e *Evaluator) evalBinary(n *ast.BinaryExpr, env *Environment) Value {
	op := normalizeOp(n.Op)

	if op == "&&" || op == "||" {
		left := e.Eval(n.Left, env)
		if isCarrier(left) {
			return left
		}
		if op == "&&" && !truthy(left) {
			return left
		}
		if op == "||" && truthy(left) {
			return left
		}
		return e.Eval(n.Right, env)
	}

	left := e.Eval(n.Left, env)
	if isCarrier(left) {
		return left
	}
	right := e.Eval(n.Right, env)
	if isCarrier(right) {
		return right
	}
	return e.applyBinary(op, left, right, n.Range())
}

func (e *Evaluator) applyBinary(op string, left, right Value, r source.Range) Value {
	if obj, ok := left.(*ObjectValue); ok {
		if magic, hasMagic := magicForOp(op); hasMagic {
			if fn, cls, ok := obj.Def.lookupMethod(magic); ok {
				return e.invokeMethod(obj, cls, fn, []Value{right}, r)
			}
		}
		if op == "!=" {
			if fn, cls, ok := obj.Def.lookupMethod(config.MagicEq); ok {
				result := e.invokeMethod(obj, cls, fn, []Value{right}, r)
				if isCarrier(result) {
					return result
				}
				return &BoolValue{Value: !truthy(result)}
			}
		}
	}

	switch op {
	case "==":
		return &BoolValue{Value: valuesEqual(left, right)}
	case "!=":
		return &BoolValue{Value: !valuesEqual(left, right)}
	case "in":
		return e.applyMembership(left, right, r)
	}

	if ls, ok := left.(*StringValue); ok && op == "+" {
		if rs, ok := right.(*StringValue); ok {
			return &StringValue{Value: ls.Value + rs.Value}
		}
		return &StringValue{Value: ls.Value + right.Inspect()}
	}

	switch op {
	case "<", "<=", ">", ">=":
		if ls, ok := left.(*StringValue); ok {
			rs, ok := right.(*StringValue)
			if !ok {
				return e.throwf(r, source.KindArithmetic, "operator %s does not apply to %s and %s", op, left.Kind(), right.Kind())
			}
			return &BoolValue{Value: compareNumeric(op, float64(strings.Compare(ls.Value, rs.Value)), 0)}
		}
		if lb, ok := left.(*BoolValue); ok {
			rb, ok := right.(*BoolValue)
			if !ok {
				return e.throwf(r, source.KindArithmetic, "operator %s does not apply to %s and %s", op, left.Kind(), right.Kind())
			}
			return &BoolValue{Value: compareNumeric(op, boolOrdinal(lb.Value), boolOrdinal(rb.Value))}
		}
	}

	lf, lIsFloat, lOk := numericOperand(left)
	rf, rIsFloat, rOk := numericOperand(right)
	if !lOk || !rOk {
		return e.throwf(r, source.KindArithmetic, "operator %s does not apply to %s and %s", op, left.Kind(), right.Kind())
	}

	switch op {
	case "<", "<=", ">", ">=":
		return &BoolValue{Value: compareNumeric(op, lf, rf)}
	}

	isFloat := lIsFloat || rIsFloat
	if isFloat {
		return e.applyFloatBinary(op, lf, rf, left, right, r)
	}
	li, ri := int64(lf), int64(rf)
	return e.applyIntBinary(op, li, ri, left, right, r)
}

func numericOperand(v Value) (value float64, isFloat bool, ok bool) {
	switch t := v.(type) {
	case *IntValue:
		return float64(t.Value), false, true
	case *FloatValue:
		return t.Value, true, true
	case *CharValue:
		return float64(t.Value), false, true
	case *BoolValue:
		if t.Value {
			return 1, false, true
		}
		return 0, false, true
	}
	return 0, false, false
}

// boolOrdinal orders bool comparisons false < true, per spec.md §4.4's
// element-wise bool/bool comparison rule.
func boolOrdinal(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func compareNumeric(op string, l, r float64) bool {
	switch op {
	case "<":
		return l < r
	case "<=":
		return l <= r
	case ">":
		return l > r
	case ">=":
		return l >= r
	}
	return false
}

// resultWidth picks the wider of the two operand bit-widths (matching
// spec.md §4.3's widest-common-type rule), defaulting to 64.
func resultWidth(a, b Value) (int, bool) {
	bitsOf := func(v Value) (int, bool, bool) {
		switch t := v.(type) {
		case *IntValue:
			return t.bits(), t.Signed, true
		case *FloatValue:
			if t.Bits == 0 {
				return 64, true, true
			}
			return t.Bits, true, true
		}
		return 64, true, false
	}
	ab, asigned, aok := bitsOf(a)
	bb, _, bok := bitsOf(b)
	if !aok && !bok {
		return 64, true
	}
	width := ab
	if bb > width {
		width = bb
	}
	return width, asigned
}

func (e *Evaluator) applyFloatBinary(op string, l, r float64, left, right Value, rng source.Range) Value {
	bits, _ := resultWidth(left, right)
	switch op {
	case "+":
		return &FloatValue{Value: l + r, Bits: bits}
	case "-":
		return &FloatValue{Value: l - r, Bits: bits}
	case "*":
		return &FloatValue{Value: l * r, Bits: bits}
	case "/":
		if r == 0 {
			return e.throwf(rng, source.KindArithmetic, "division by zero")
		}
		return &FloatValue{Value: l / r, Bits: bits}
	}
	return e.throwf(rng, source.KindArithmetic, "operator %s does not apply to floating-point operands", op)
}

// applyIntBinary implements integer arithmetic with spec.md §4.4's
// truncating division and sign-following modulo (Go's own / and %
// already truncate toward zero and follow the dividend's sign, matching
// C's semantics).
func (e *Evaluator) applyIntBinary(op string, l, r int64, left, right Value, rng source.Range) Value {
	bits, signed := resultWidth(left, right)
	wrap := func(v int64) Value { return &IntValue{Value: truncateTo(v, bits, signed), Bits: bits, Signed: signed} }
	switch op {
	case "+":
		return wrap(l + r)
	case "-":
		return wrap(l - r)
	case "*":
		return wrap(l * r)
	case "/":
		if r == 0 {
			return e.throwf(rng, source.KindArithmetic, "division by zero")
		}
		return wrap(l / r)
	case "%":
		if r == 0 {
			return e.throwf(rng, source.KindArithmetic, "division by zero")
		}
		return wrap(l % r)
	case "&":
		return wrap(l & r)
	case "|":
		return wrap(l | r)
	case "^":
		return wrap(l ^ r)
	case "<<":
		return wrap(l << uint(r))
	case ">>":
		return wrap(l >> uint(r))
	}
	return e.throwf(rng, source.KindArithmetic, "unknown operator %q", op)
}

// applyMembership implements `needle in haystack` for Array and String
// haystacks, per spec.md §4.1's `in` keyword operator.
func (e *Evaluator) applyMembership(needle, haystack Value, r source.Range) Value {
	switch h := haystack.(type) {
	case *ArrayValue:
		for _, el := range h.Cell.Elements {
			if valuesEqual(needle, el) {
				return &BoolValue{Value: true}
			}
		}
		return &BoolValue{Value: false}
	case *StringValue:
		cv, ok := needle.(*CharValue)
		if !ok {
			return e.throwf(r, source.KindType, "in on a string requires a char operand")
		}
		for _, rn := range h.Value {
			if rn == cv.Value {
				return &BoolValue{Value: true}
			}
		}
		return &BoolValue{Value: false}
	}
	return e.throwf(r, source.KindType, "in does not apply to a %s value", haystack.Kind())
}

func valuesEqual(a, b Value) bool {
	af, aIsFloat, aOk := numericOperand(a)
	bf, bIsFloat, bOk := numericOperand(b)
	if aOk && bOk {
		_ = aIsFloat
		_ = bIsFloat
		return af == bf
	}
	switch av := a.(type) {
	case *StringValue:
		bv, ok := b.(*StringValue)
		return ok && av.Value == bv.Value
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case *PointerValue:
		bv, ok := b.(*PointerValue)
		return ok && av.Cell == bv.Cell
	case *ObjectValue:
		bv, ok := b.(*ObjectValue)
		return ok && av == bv
	}
	return false
}

// evalUnary dispatches prefix/postfix unary operators, per spec.md
// §4.1/§4.4. `++`/`--` require an assignable (identifier) operand.
func (e *Evaluator) evalUnary(n *ast.UnaryExpr, env *Environment) Value {
	if n.Op == "++" || n.Op == "--" {
		return e.evalIncDec(n, env)
	}
	v := e.Eval(n.Operand, env)
	if isCarrier(v) {
		return v
	}
	switch n.Op {
	case "-":
		switch t := v.(type) {
		case *IntValue:
			return &IntValue{Value: truncateTo(-t.Value, t.bits(), true), Bits: t.Bits, Signed: true}
		case *FloatValue:
			return &FloatValue{Value: -t.Value, Bits: t.Bits}
		}
	case "+":
		return v
	case "!", "not":
		return &BoolValue{Value: !truthy(v)}
	case "~":
		if t, ok := v.(*IntValue); ok {
			return &IntValue{Value: truncateTo(^t.Value, t.bits(), t.Signed), Bits: t.Bits, Signed: t.Signed}
		}
	}
	return e.throwf(n.Range(), source.KindArithmetic, "operator %s does not apply to %s", n.Op, v.Kind())
}

func (e *Evaluator) evalIncDec(n *ast.UnaryExpr, env *Environment) Value {
	id, ok := n.Operand.(*ast.Identifier)
	if !ok {
		return e.throwf(n.Range(), source.KindType, "%s requires a variable operand", n.Op)
	}
	cur, ok := env.Get(id.Value)
	if !ok {
		return e.throwf(n.Range(), source.KindNameResolution, "undefined name %q", id.Value)
	}
	iv, ok := cur.(*IntValue)
	if !ok {
		return e.throwf(n.Range(), source.KindType, "%s requires an integer operand", n.Op)
	}
	delta := int64(1)
	if n.Op == "--" {
		delta = -1
	}
	updated := &IntValue{Value: truncateTo(iv.Value+delta, iv.bits(), iv.Signed), Bits: iv.Bits, Signed: iv.Signed}
	env.Assign(id.Value, updated)
	if n.Postfix {
		return iv
	}
	return updated
}

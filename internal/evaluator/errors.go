package evaluator

import (
	"fmt"

	"github.com/fluxlang/flux/internal/source"
)

// throwf synthesizes an ErrorValue wrapped in an ExceptionCarrier: the
// uniform path every built-in fault (arity mismatch, undefined name,
// division by zero, index out of range, ...) takes to become a
// catchable exception, per spec.md §7.
func (e *Evaluator) throwf(r source.Range, kind source.Kind, format string, args ...interface{}) Value {
	return &ExceptionCarrier{Value: &ErrorValue{
		ErrKind: string(kind),
		Message: fmt.Sprintf(format, args...),
		Range:   r,
	}}
}

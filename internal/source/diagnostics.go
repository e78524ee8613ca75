package source

import (
	"fmt"
	"io"
	"strings"
)

// Level is a diagnostic severity per spec.md §6.3.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
	Fatal
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	default:
		return "ERROR"
	}
}

// Kind names a diagnostic's subsystem category, per spec.md §7. These are
// labels for grouping/filtering, not Go error types.
type Kind string

const (
	KindLex            Kind = "Lex"
	KindParse          Kind = "Parse"
	KindNameResolution Kind = "NameResolution"
	KindType           Kind = "Type"
	KindArithmetic     Kind = "Arithmetic"
	KindIndex          Kind = "Index"
	KindArity          Kind = "Arity"
	KindUnimplemented  Kind = "Unimplemented"
	KindInternal       Kind = "Internal"
	KindAssertion      Kind = "Assertion"
)

// Diagnostic is one reported problem: its severity, subsystem kind,
// message, and (when known) the source range it pertains to.
type Diagnostic struct {
	Level   Level
	Kind    Kind
	Message string
	Range   Range
	HasPos  bool
}

// Collector accumulates diagnostics from the tokenizer, parser, and
// evaluator. Rather than a package-level global reporter (spec.md §9),
// every component is handed a *Collector explicitly.
type Collector struct {
	diags []Diagnostic
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a diagnostic with a known source range.
func (c *Collector) Add(level Level, kind Kind, r Range, format string, args ...interface{}) {
	c.diags = append(c.diags, Diagnostic{
		Level:   level,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Range:   r,
		HasPos:  true,
	})
}

// AddNoPos records a diagnostic with no associated location.
func (c *Collector) AddNoPos(level Level, kind Kind, format string, args ...interface{}) {
	c.diags = append(c.diags, Diagnostic{
		Level:   level,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	})
}

// Diagnostics returns every diagnostic recorded so far, in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

// Truncate discards every diagnostic recorded after index n, letting the
// parser discard diagnostics from a speculative parse it backtracked out
// of (see internal/parser's declaration/expression disambiguation).
func (c *Collector) Truncate(n int) {
	if n < len(c.diags) {
		c.diags = c.diags[:n]
	}
}

// HadErrors reports whether any Error- or Fatal-level diagnostic was
// recorded.
func (c *Collector) HadErrors() bool {
	for _, d := range c.diags {
		if d.Level >= Error {
			return true
		}
	}
	return false
}

// Writer formats diagnostics per spec.md §6.3:
//
//	[LEVEL] message
//	  --> file:line:col
//	  <source line>
//	  ^^^
//
// Color (ANSI) is applied only when Color is true.
type Writer struct {
	Out   io.Writer
	Color bool
}

// NewWriter returns a Writer sinking to out.
func NewWriter(out io.Writer, color bool) *Writer {
	return &Writer{Out: out, Color: color}
}

func (w *Writer) colorize(code, s string) string {
	if !w.Color {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func levelColorCode(l Level) string {
	switch l {
	case Debug:
		return "90"
	case Info:
		return "36"
	case Warning:
		return "33"
	case Error:
		return "31"
	case Fatal:
		return "91"
	default:
		return "31"
	}
}

// WriteDiagnostic renders a single diagnostic, optionally with a
// highlighted source line when src is non-nil and the diagnostic carries
// a position.
func (w *Writer) WriteDiagnostic(d Diagnostic, src *Source) {
	header := fmt.Sprintf("[%s] %s", d.Level, d.Message)
	fmt.Fprintln(w.Out, w.colorize(levelColorCode(d.Level), header))

	if !d.HasPos || src == nil {
		return
	}
	pos := src.Position(d.Range.Start)
	fmt.Fprintf(w.Out, "  --> %s:%d:%d\n", src.File, pos.Line, pos.Column)

	line := src.Line(pos.Line)
	if line == "" {
		return
	}
	fmt.Fprintf(w.Out, "  %s\n", line)

	width := d.Range.End - d.Range.Start
	if width < 1 {
		width = 1
	}
	if pos.Column-1 > len(line) {
		return
	}
	caretLine := strings.Repeat(" ", pos.Column-1) + strings.Repeat("^", width)
	fmt.Fprintln(w.Out, "  "+w.colorize(levelColorCode(d.Level), caretLine))
}

// WriteAll renders every diagnostic in c, in order.
func (w *Writer) WriteAll(c *Collector, src *Source) {
	for _, d := range c.Diagnostics() {
		w.WriteDiagnostic(d, src)
	}
}

package evaluator

// Environment is one lexical scope frame: a name->cell table plus a link
// to the enclosing frame, per spec.md §3.5/§4.5 (grounded on
// funvibe-funxy/internal/evaluator's Environment, generalized in two
// ways: the mutex is dropped since spec.md §5 guarantees a single
// evaluation goroutine, and values are boxed behind a shared *envCell so
// that `@x` (AddressOfExpr) can hand out a PointerValue that still
// observes later assignments to x).
//
// order records declaration order within this frame so a block's
// `__exit`-bearing Object locals can be torn down in reverse declaration
// order when the frame is discarded, per spec.md §9's reference-counting
// supplement.
type Environment struct {
	store map[string]*envCell
	order []string
	outer *Environment
}

// NewEnvironment returns an empty top-level (global) frame.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*envCell)}
}

// NewEnclosedEnvironment returns a child frame of outer, as entered on
// every BlockStatement/function call, per spec.md §4.5.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*envCell), outer: outer}
}

// Define introduces name in this frame, shadowing any outer binding of
// the same name. Redeclaration within the same frame overwrites the
// cell here, but that case is already a parse error by the time
// evaluation runs: internal/parser maintains its own symbols.Table
// alongside the AST and raises a NameResolution diagnostic on same-scope
// redefinition (spec.md §3.5), and evaluation never starts while the
// parser reported any error. This method stays permissive because it
// also backs parameter binding and loop-variable rebinding, which are
// not redeclarations.

func (e *Environment) Define(name string, v Value) {
	if _, exists := e.store[name]; !exists {
		e.order = append(e.order, name)
	}
	e.store[name] = &envCell{Value: v}
}

// Get resolves name through e and its ancestors, per spec.md §4.3's
// lexical-scope chain.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if c, ok := env.store[name]; ok {
			return c.Value, true
		}
	}
	return nil, false
}

// GetCell resolves name to its shared storage cell, used by
// AddressOfExpr to build a PointerValue.
func (e *Environment) GetCell(name string) (*envCell, bool) {
	for env := e; env != nil; env = env.outer {
		if c, ok := env.store[name]; ok {
			return c, true
		}
	}
	return nil, false
}

// Assign updates the nearest existing binding of name through the scope
// chain. Returns false if name is not declared anywhere visible (the
// caller reports an ExceptionCarrier for this per spec.md §7).
func (e *Environment) Assign(name string, v Value) bool {
	for env := e; env != nil; env = env.outer {
		if c, ok := env.store[name]; ok {
			c.Value = v
			return true
		}
	}
	return false
}

// LocalNames returns the names declared directly in this frame, in
// declaration order — used to run reverse-order `__exit` teardown when a
// block frame is discarded.
func (e *Environment) LocalNames() []string {
	return e.order
}

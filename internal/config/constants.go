// Package config holds Flux's version string, recognized source file
// extensions, and process-wide mode flags, per SPEC_FULL.md's ambient
// stack expansion (grounded on funvibe-funxy/internal/config).
package config

// Version is the current Flux version.
var Version = "0.1.0"

const SourceFileExt = ".flux"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".flux", ".fx"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode is set once at startup when the CLI is invoked under `go test`
// harnesses; cmd/flux disables ANSI color while it is set.
var IsTestMode = false

// IsLSPMode is set by cmd/flux-lsp to select server behavior over the
// plain CLI driver's behavior when both share this package.
var IsLSPMode = false

// Host intrinsic names, per spec.md §6.4.
const (
	PrintFuncName    = "print"
	InputFuncName    = "input"
	LengthFuncName   = "length"
	ToStringFuncName = "to_string"
	ToNumberFuncName = "to_number"
	SqrtFuncName     = "sqrt"
	SinFuncName      = "sin"
	CosFuncName      = "cos"
	TanFuncName      = "tan"
	MemallocFuncName = "memalloc"
)

// EntryPointFuncName is the function the evaluator invokes after
// registering top-level declarations, per spec.md §4.4.
const EntryPointFuncName = "main"

// Magic method names, per spec.md §3.4/§9.
const (
	MagicInit = "__init"
	MagicExit = "__exit"
	MagicAdd  = "__add"
	MagicSub  = "__sub"
	MagicMul  = "__mul"
	MagicDiv  = "__div"
	MagicEq   = "__eq"
	MagicLt   = "__lt"
	MagicExpr = "__expr"
)

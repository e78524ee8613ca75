// Command flux is the `interp` embedding driver of SPEC_FULL.md §6.1: it
// parses and evaluates a single Flux source file, optionally dumping the
// token table (-tokens) or the pretty-printed AST (-ast) first, and
// ANSI-colors diagnostics unless -no-color is passed or stdout isn't a
// terminal.
//
// Flags are hand-parsed over os.Args rather than with the flag package,
// mirroring funvibe-funxy/cmd/funxy/main.go's own driver: the flags may
// appear before or after the source file, the first non-flag argument is
// the source file, and any further arguments are ignored.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/fluxlang/flux/internal/ast"
	"github.com/fluxlang/flux/internal/config"
	"github.com/fluxlang/flux/internal/evaluator"
	"github.com/fluxlang/flux/internal/lexer"
	"github.com/fluxlang/flux/internal/parser"
	"github.com/fluxlang/flux/internal/source"
	"github.com/fluxlang/flux/internal/token"
)

// projectManifest is the flux.yaml project manifest consulted when no
// source file is given on the command line, per SPEC_FULL.md §6.
const projectManifest = "flux.yaml"

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [<source-file>] [-tokens] [-ast] [-no-color]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       (with no source-file, %s's 'entry' field is used if present)\n", projectManifest)
}

func main() {
	var sourcePath string
	var showTokens, showAST, noColor bool
	for _, arg := range os.Args[1:] {
		switch arg {
		case "-tokens":
			showTokens = true
		case "-ast":
			showAST = true
		case "-no-color":
			noColor = true
		default:
			if sourcePath == "" && len(arg) > 0 && arg[0] != '-' {
				sourcePath = arg
			}
		}
	}
	var importPath []string
	if sourcePath == "" {
		proj, err := config.LoadProject(projectManifest)
		if err != nil {
			fmt.Fprintf(os.Stderr, "flux: %s\n", err)
			os.Exit(1)
		}
		if proj == nil {
			usage()
			os.Exit(1)
		}
		sourcePath = proj.Entry
		importPath = proj.ImportPath
	}

	data, err := os.ReadFile(sourcePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flux: %s\n", err)
		os.Exit(1)
	}
	_ = importPath // import resolution is an opaque external collaborator, spec.md §1

	color := !noColor && isatty.IsTerminal(os.Stdout.Fd()) && !config.IsTestMode
	writer := source.NewWriter(os.Stderr, color)

	src := source.New(sourcePath, string(data))
	diags := source.NewCollector()

	if showTokens {
		dumpTokens(src)
	}

	p := parser.New(src, diags)
	prog := p.ParseProgram(sourcePath)

	if showAST {
		fmt.Println(ast.Print(prog))
	}

	if diags.HadErrors() {
		writer.WriteAll(diags, src)
		os.Exit(-1)
	}

	ev := evaluator.New(os.Stdout, os.Stdin, diags)
	code := ev.Run(prog)
	if diags.HadErrors() {
		writer.WriteAll(diags, src)
	}
	os.Exit(code)
}

// dumpTokens runs the lexer to completion over src and prints one line
// per token, per SPEC_FULL.md's -tokens flag. It runs independently of
// the parser's own tokenization so a -tokens dump still sees every token
// even if the parser later aborts.
//
// Plain NextToken calls can't drive an interpolated string by
// themselves: after ISTRING_START the literal text chunk comes from a
// direct ReadIStringText call, and once inside the `:{...}` argument
// list (InIStringExpr) tokens come from NextIStringToken instead of
// NextToken, exactly as internal/parser's lexNext routes them.
func dumpTokens(src *source.Source) {
	l := lexer.New(src)
	print := func(tok token.Token) {
		pos := src.Position(tok.Range.Start)
		fmt.Printf("%4d:%-3d %-18s %q\n", pos.Line, pos.Column, tok.Kind, tok.Lexeme)
	}
	for {
		var tok token.Token
		if l.InIStringExpr() {
			tok = l.NextIStringToken()
		} else {
			tok = l.NextToken()
		}
		print(tok)
		if tok.Kind == token.ISTRING_START {
			text := l.ReadIStringText()
			print(text)
			continue
		}
		if tok.Kind == token.EOF {
			break
		}
	}
}

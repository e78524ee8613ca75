// Command flux-lsp is the thin diagnostics-service launcher of
// SPEC_FULL.md's ambient stack expansion: it sets config.IsLSPMode (the
// same flag funvibe-funxy/cmd/lsp's main.go sets before starting its
// own language server) and starts internal/diagserver's gRPC service,
// which reuses the Tokenizer and Parser — never the evaluator — to turn
// `.flux` files into diagnostics for a remote client.
package main

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/fluxlang/flux/internal/config"
	"github.com/fluxlang/flux/internal/diagserver"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-addr host:port] [-no-color]\n", os.Args[0])
}

func main() {
	config.IsLSPMode = true

	addr := ":0"
	noColor := false
	for i := 1; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "-addr":
			if i+1 >= len(os.Args) {
				usage()
				os.Exit(1)
			}
			i++
			addr = os.Args[i]
		case "-no-color":
			noColor = true
		default:
			usage()
			os.Exit(1)
		}
	}

	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	color := !noColor && isatty.IsTerminal(os.Stdout.Fd())
	banner := "flux-lsp: serving diagnostics on %s\n"
	if color {
		banner = "\x1b[36mflux-lsp\x1b[0m: serving diagnostics on %s\n"
	}

	bound := make(chan net.Addr, 1)
	go func() {
		fmt.Fprintf(os.Stdout, banner, (<-bound).String())
	}()

	if err := diagserver.Listen(addr, bound); err != nil {
		log.Fatalf("flux-lsp: %s", err)
	}
}

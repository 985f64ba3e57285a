// Command pqparse is a small CLI wrapped around the parser core, useful for
// debugging the lexer and parser without writing a Go program against the
// library: tokenize a file, parse it and dump the tree, or check a round
// trip.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/pqparse/cmd/pqparse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

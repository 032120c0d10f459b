// Command kyra reads a single script file and runs it through the
// lexer, parser, code generator, and virtual machine in sequence.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/CrimsonDemon567/kyra/internal/bytecode"
	"github.com/CrimsonDemon567/kyra/internal/lexer"
	"github.com/CrimsonDemon567/kyra/internal/parser"
	"github.com/CrimsonDemon567/kyra/internal/vm"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: kyra <script.kyra>")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tokens := lexer.New(string(src)).Lex()

	stmts, err := parser.Parse(tokens)
	if err != nil {
		return err
	}

	program, err := bytecode.Generate(stmts)
	if err != nil {
		return err
	}

	machine := vm.New(os.Stdout)
	return machine.Run(program)
}

// Command sn is the SN compiler front end's CLI: lex, parse,
// type-check, optimize and (at interface level) lower one source
// file. A hand-rolled os.Args[1:] dispatcher with a command-alias
// table, no flag/cobra/viper.
package main

import (
	"fmt"
	"os"

	"sn/internal/ast"
	"sn/internal/codegen"
	"sn/internal/diag"
	"sn/internal/lexer"
	"sn/internal/optimizer"
	"sn/internal/parser"
	"sn/internal/symtab"
	"sn/internal/typecheck"
)

var commandAliases = map[string]string{
	"b": "build",
	"c": "check",
	"f": "fmt",
}

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "build":
		runBuild(args[1:])
	case "check":
		runCheck(args[1:])
	case "fmt":
		runFmt(args[1:])
	case "--help", "-h", "help":
		usage()
	case "--version", "-v", "version":
		fmt.Println("sn 0.1.0")
	default:
		fmt.Fprintf(os.Stderr, "sn: unknown command %q\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`sn — SN compiler front end

Usage:
  sn build <file>   lex, parse, type-check, optimize and declare
                     runtime symbols for <file>
  sn check <file>   lex, parse and type-check <file> without lowering;
                     report diagnostics and exit non-zero on failure
  sn fmt <file>     (reserved; not yet implemented)

A non-zero exit status indicates a diagnostic was reported.`)
}

// pipeline runs the front end through the type checker and optimizer.
// It returns the checked module, or nil if any stage failed; rep
// holds every diagnostic collected along the way, and is nil when the
// source file cannot be read.
func pipeline(filename string) (mod *ast.Module, rep *diag.Reporter) {
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sn: %v\n", err)
		return nil, nil
	}

	rep = diag.NewReporter()
	lx := lexer.New(string(data), filename)
	tokens := lx.ScanTokens()

	st := symtab.New()
	p := parser.New(tokens, st, rep)
	m := p.Execute(filename)
	if m == nil || rep.HasErrors() {
		return nil, rep
	}

	checker := typecheck.New(st, rep)
	if !checker.Check(m) {
		return nil, rep
	}

	optimizer.Optimize(m)
	return m, rep
}

func reportAndExit(rep *diag.Reporter) {
	if rep != nil {
		fmt.Fprint(os.Stderr, rep.Summary())
	}
	os.Exit(1)
}

func runCheck(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "sn check: missing source file")
		os.Exit(1)
	}
	mod, rep := pipeline(args[0])
	if mod == nil {
		reportAndExit(rep)
	}
	fmt.Printf("sn check: %s: ok\n", args[0])
}

func runBuild(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "sn build: missing source file")
		os.Exit(1)
	}
	mod, rep := pipeline(args[0])
	if mod == nil {
		reportAndExit(rep)
	}

	gen := codegen.Generate(mod)
	fmt.Printf("sn build: %s: declared %d runtime symbols and %d SN function signatures\n",
		args[0], len(gen.RtExterns), len(gen.SNFuncs))
}

func runFmt(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "sn fmt: missing source file")
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "sn fmt: not implemented")
	os.Exit(1)
}

// The drift command is the language's CLI: a REPL when given no source
// path, or a one-shot file executor otherwise, following the split the
// teacher's codecrafters/cmd/main.go and standalone main.go both use
// (raw os.Args dispatch plus flag.Bool for the handful of switches).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/drift-lang/drift/internal/builtin"
	"github.com/drift-lang/drift/internal/bytecode"
	"github.com/drift-lang/drift/internal/compiler"
	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/lexer"
	"github.com/drift-lang/drift/internal/loader"
	"github.com/drift-lang/drift/internal/parser"
	"github.com/drift-lang/drift/internal/semantic"
	"github.com/drift-lang/drift/internal/vm"
)

const (
	versionString = "DRIFT 0.0.1"
	stdDir        = "std"
)

var (
	showVersion = flag.Bool("v", false, "print version string")
	showUsage   = flag.Bool("u", false, "print usage")
	debugDump   = flag.Bool("d", false, "dump tokens and statements before running")
	disasm      = flag.Bool("b", false, "dump entity disassembly before running")
)

func main() {
	flag.Parse()
	// flag stops at the first positional argument, so switches that follow
	// the source path (`drift <path> -b`) are parsed in a second pass.
	path := flag.Arg(0)
	if flag.NArg() > 1 {
		flag.CommandLine.Parse(flag.Args()[1:])
	}

	if *showVersion {
		fmt.Println(versionString)
		return
	}
	if *showUsage {
		printUsage()
		return
	}

	machine := vm.New()
	builtin.Register(machine)

	if err := loader.Preload(machine, stdDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if path == "" {
		repl(machine)
		return
	}
	runFile(machine, path)
}

func printUsage() {
	fmt.Println("Usage: drift [path] [-v] [-u] [-d] [-b]")
	fmt.Println("  drift            enter the REPL")
	fmt.Println("  drift <path>     execute a source file")
	fmt.Println("  -v               print version string")
	fmt.Println("  -u               print usage")
	fmt.Println("  -d               dump tokens and statements, then run")
	fmt.Println("  -b               dump entity disassembly, then run")
}

func repl(machine *vm.VM) {
	reader := bufio.NewReader(os.Stdin)
	fmt.Println(versionString)
	for {
		fmt.Print(">> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		runSource(machine, []byte(line))
	}
}

func runFile(machine *vm.VM, path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	runSource(machine, src)
}

func runSource(machine *vm.VM, src []byte) {
	toks, err := lexer.New(src).Scan()
	if err != nil {
		printError(err)
		return
	}
	if *debugDump {
		for _, t := range toks {
			fmt.Println(t.String())
		}
	}

	prog, err := parser.New(toks).Parse()
	if err != nil {
		printError(err)
		return
	}
	if *debugDump {
		fmt.Println(prog.String())
	}

	if err := semantic.New().Run(prog); err != nil {
		printError(err)
		return
	}

	e, err := compiler.New().Compile(prog)
	if err != nil {
		printError(err)
		return
	}
	if *disasm {
		fmt.Println(bytecode.Disassemble(e))
	}

	if err := machine.Run(e); err != nil {
		printError(err)
	}
}

func printError(err error) {
	if exc, ok := err.(*exception.Exception); ok {
		color.Red("%s", exc.Error())
		return
	}
	color.Red("%s", err.Error())
}

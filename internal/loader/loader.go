// Package loader preloads the standard module directory (std/) before a
// program runs, following spec.md §5/A.5's "module load order is
// directory-listing order of std/ followed by the user entry point".
package loader

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/drift-lang/drift/internal/bytecode"
	"github.com/drift-lang/drift/internal/compiler"
	"github.com/drift-lang/drift/internal/lexer"
	"github.com/drift-lang/drift/internal/parser"
	"github.com/drift-lang/drift/internal/semantic"
	"github.com/drift-lang/drift/internal/vm"
)

// Preload compiles and runs every ".ft" file directly inside dir, in
// sorted directory-listing order, so each one's `mod` declaration
// registers itself in machine's module registry. A missing dir is not an
// error — a program with no std/ directory just has no preloaded
// modules.
func Preload(machine *vm.VM, dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".ft" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if err := runFile(machine, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func runFile(machine *vm.VM, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	e, err := Compile(src)
	if err != nil {
		return err
	}
	return machine.Run(e)
}

// Compile runs the full source->Entity pipeline (lexer, parser, semantic
// pass, compiler) used by std/ preload and cmd/driftconform; cmd/drift
// runs the same stages itself so it can dump between them.
func Compile(src []byte) (*bytecode.Entity, error) {
	toks, err := lexer.New(src).Scan()
	if err != nil {
		return nil, err
	}
	prog, err := parser.New(toks).Parse()
	if err != nil {
		return nil, err
	}
	if err := semantic.New().Run(prog); err != nil {
		return nil, err
	}
	return compiler.New().Compile(prog)
}

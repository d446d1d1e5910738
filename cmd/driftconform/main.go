// driftconform runs every ".ft" fixture under testdata/scripts against its
// paired ".golden" transcript and reports pass/fail, in the style of the
// teacher's test/main.go golden-transcript comparer — except the
// "reference" side is a golden file checked into the repo rather than a
// second binary shelled out to, since Drift has no prior implementation
// to diff against.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/drift-lang/drift/internal/builtin"
	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/loader"
	"github.com/drift-lang/drift/internal/vm"
)

const width = 100

type caseResult struct {
	name   string
	passed bool
	got    string
	want   string
}

func main() {
	dir := "testdata/scripts"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	scripts, err := filepath.Glob(filepath.Join(dir, "*.ft"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var results []caseResult
	for _, script := range scripts {
		results = append(results, runCase(script))
	}

	failed := 0
	for _, r := range results {
		spacing := strings.Repeat(" ", max(1, width-len("[passed] ")-len(r.name)))
		if r.passed {
			fmt.Printf("[%s]%s%s\n", color.GreenString("passed"), spacing, r.name)
			continue
		}
		failed++
		fmt.Printf("[%s]%s%s\n", color.RedString("failed"), spacing, r.name)
		fmt.Printf("  expected: %q\n", r.want)
		fmt.Printf("  actual:   %q\n", r.got)
	}

	fmt.Println(strings.Repeat("-", width))
	fmt.Printf("%d passed, %d failed, %d total\n", len(results)-failed, failed, len(results))
	if failed > 0 {
		os.Exit(1)
	}
}

func runCase(scriptPath string) caseResult {
	name := filepath.Base(scriptPath)
	goldenPath := strings.TrimSuffix(scriptPath, ".ft") + ".golden"

	want, err := os.ReadFile(goldenPath)
	if err != nil {
		return caseResult{name: name, passed: false, want: "(missing golden file)"}
	}

	got := captureOutput(scriptPath)
	return caseResult{
		name:   name,
		passed: strings.TrimRight(got, "\n") == strings.TrimRight(string(want), "\n"),
		got:    got,
		want:   string(want),
	}
}

func captureOutput(scriptPath string) string {
	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Sprintf("(pipe error: %v)", err)
	}
	origStdout := os.Stdout
	os.Stdout = w

	out := make(chan string)
	go func() {
		var buf bytes.Buffer
		buf.ReadFrom(r)
		out <- buf.String()
	}()

	src, err := os.ReadFile(scriptPath)
	if err == nil {
		runScript(src)
	} else {
		fmt.Println(err)
	}

	w.Close()
	os.Stdout = origStdout
	return <-out
}

func runScript(src []byte) {
	machine := vm.New()
	builtin.Register(machine)

	e, err := loader.Compile(src)
	if err != nil {
		printErr(err)
		return
	}
	if err := machine.Run(e); err != nil {
		printErr(err)
	}
}

func printErr(err error) {
	if exc, ok := err.(*exception.Exception); ok {
		fmt.Println(exc.Error())
		return
	}
	fmt.Println(err.Error())
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

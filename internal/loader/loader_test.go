package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/object"
	"github.com/drift-lang/drift/internal/vm"
)

func TestCompileRunsFullPipelineToAnEntity(t *testing.T) {
	e, err := Compile([]byte("def x: int = 3 + 4 * 2"))
	require.NoError(t, err)
	require.NotEmpty(t, e.Codes)
}

func TestCompilePropagatesLexicalErrors(t *testing.T) {
	_, err := Compile([]byte("def x: int = 1 @ 2"))
	require.Error(t, err)
	exc, ok := err.(*exception.Exception)
	require.True(t, ok)
	require.Equal(t, exception.UnknownSymbol, exc.Kind)
}

func TestCompilePropagatesSyntacticErrors(t *testing.T) {
	_, err := Compile([]byte("def x int"))
	require.Error(t, err)
	exc, ok := err.(*exception.Exception)
	require.True(t, ok)
	require.Equal(t, exception.Unexpected, exc.Kind)
}

func TestCompilePropagatesSemanticErrors(t *testing.T) {
	_, err := Compile([]byte("def x: int = 10 / 0"))
	require.Error(t, err)
	exc, ok := err.(*exception.Exception)
	require.True(t, ok)
	require.Equal(t, exception.DivisionZero, exc.Kind)
}

func TestPreloadWithMissingDirIsNotAnError(t *testing.T) {
	machine := vm.New()
	err := Preload(machine, filepath.Join(t.TempDir(), "nonexistent-std"))
	require.NoError(t, err)
}

func TestPreloadRunsEveryFtFileAndIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_second.ft", "mod Second\npub def val: int = 2\n")
	writeFile(t, dir, "a_first.ft", "mod First\npub def val: int = 1\n")
	writeFile(t, dir, "ignore.txt", "not drift source")

	machine := vm.New()
	require.NoError(t, Preload(machine, dir))

	first := machine.Registry.Lookup("First")
	require.Len(t, first, 1)
	require.Equal(t, int64(1), first[0].Pub["val"].(*object.Int).Value)

	second := machine.Registry.Lookup("Second")
	require.Len(t, second, 1)
	require.Equal(t, int64(2), second[0].Pub["val"].(*object.Int).Value)
}

func TestPreloadStopsAtFirstFailingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.ft", "def x: int = 10 / 0\n")

	machine := vm.New()
	err := Preload(machine, dir)
	require.Error(t, err)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

package solver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidegate/protoplan/solver"
)

// fakeSolver writes a tiny shell script standing in for the real solver
// binary: it ignores its program argument and writes canned tabular output
// into the -D scratch directory, exiting with exitCode.
func fakeSolver(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "fake-souffle.sh")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRunParsesTabularOutput(t *testing.T) {
	bin := fakeSolver(t, `
dir=$2
printf '1\tc1\n3\tc1\n' > "$dir/Goal.csv"
exit 0
`)
	g := solver.New(bin)
	out, err := g.Run(context.Background(), "irrelevant program text")
	require.NoError(t, err)
	require.Equal(t, []solver.Tuple{{"1", "c1"}, {"3", "c1"}}, out.Facts["Goal"])
}

func TestRunEmptyTupleLine(t *testing.T) {
	bin := fakeSolver(t, `
dir=$2
printf '()\n' > "$dir/Goal.csv"
exit 0
`)
	g := solver.New(bin)
	out, err := g.Run(context.Background(), "x")
	require.NoError(t, err)
	require.Equal(t, []solver.Tuple{{}}, out.Facts["Goal"])
}

func TestRunIgnoresNonTabularFiles(t *testing.T) {
	bin := fakeSolver(t, `
dir=$2
echo "not a fact file" > "$dir/program.dl.stray"
exit 0
`)
	g := solver.New(bin)
	out, err := g.Run(context.Background(), "x")
	require.NoError(t, err)
	require.Empty(t, out.Facts)
}

func TestRunNonZeroExitWithoutOutputIsOracleFailure(t *testing.T) {
	bin := fakeSolver(t, `exit 1`)
	g := solver.New(bin)
	_, err := g.Run(context.Background(), "x")
	require.Error(t, err)
}

func TestRunScratchDirectoryIsRemoved(t *testing.T) {
	var capturedDir string
	bin := fakeSolver(t, `
dir=$2
printf '%s' "$dir" > /tmp/protoplan_test_capture_dir
exit 0
`)
	g := solver.New(bin)
	_, err := g.Run(context.Background(), "x")
	require.NoError(t, err)

	data, err := os.ReadFile("/tmp/protoplan_test_capture_dir")
	require.NoError(t, err)
	capturedDir = string(data)
	_, statErr := os.Stat(capturedDir)
	require.True(t, os.IsNotExist(statErr), "scratch directory must be removed after Run returns")
	os.Remove("/tmp/protoplan_test_capture_dir")
}

// Package solver invokes the external Datalog solver as a subprocess and
// parses its tabular output back into raw fact tuples. It is the only
// component in this module that touches the filesystem or a child process;
// every other package deals purely in typed, in-memory values.
package solver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tidegate/protoplan/ir"
)

// tabularExt is the file extension the solver writes output relations
// under; any other file in the scratch directory is ignored.
const tabularExt = ".csv"

// Tuple is one fact: its argument values as raw, unparsed strings, in
// declared-argument order.
type Tuple []string

// Output is the solver's full result: output-relation name to fact tuples.
type Output struct {
	Facts map[string][]Tuple
}

// Gateway runs the external Datalog solver binary against generated source
// text.
type Gateway struct {
	// BinaryPath is the solver executable, e.g. "souffle". Looked up on
	// PATH if it contains no path separator.
	BinaryPath string
}

// New returns a Gateway invoking the named solver binary.
func New(binaryPath string) *Gateway {
	return &Gateway{BinaryPath: binaryPath}
}

// Run writes source to a scratch directory, invokes the solver with that
// directory as its working directory, and parses every tabular output file
// it finds there. The scratch directory is always removed, on every exit
// path.
//
// A non-zero exit with no output files at all is reported as an
// OracleFailure. A zero exit with an empty (or absent) output relation
// simply means that relation's goal is unsatisfiable: it is not an error.
func (g *Gateway) Run(ctx context.Context, source string) (Output, error) {
	scratch, err := os.MkdirTemp("", "protoplan-solver-")
	if err != nil {
		return Output{}, fmt.Errorf("allocating solver scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	programPath := filepath.Join(scratch, "program.dl")
	if err := os.WriteFile(programPath, []byte(source), 0o644); err != nil {
		return Output{}, fmt.Errorf("writing solver program: %w", err)
	}

	cmd := exec.CommandContext(ctx, g.BinaryPath, "-D", scratch, programPath)
	cmd.Dir = scratch
	cmd.Stdout = nil
	cmd.Stderr = nil
	runErr := cmd.Run()

	entries, readErr := os.ReadDir(scratch)
	if readErr != nil {
		return Output{}, fmt.Errorf("reading solver scratch directory: %w", readErr)
	}

	out := Output{Facts: map[string][]Tuple{}}
	sawOutput := false
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), tabularExt) {
			continue
		}
		sawOutput = true
		relName := strings.TrimSuffix(entry.Name(), tabularExt)
		tuples, err := parseTabularFile(filepath.Join(scratch, entry.Name()))
		if err != nil {
			return Output{}, fmt.Errorf("parsing solver output for %s: %w", relName, err)
		}
		out.Facts[relName] = tuples
	}

	if runErr != nil && !sawOutput {
		return Output{}, &ir.Error{
			Kind:    ir.KindOracleFailure,
			Message: fmt.Sprintf("solver exited without producing output: %v", runErr),
		}
	}

	return out, nil
}

func parseTabularFile(path string) ([]Tuple, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tuples []Tuple
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if line == "()" {
			tuples = append(tuples, Tuple{})
			continue
		}
		tuples = append(tuples, strings.Split(line, "\t"))
	}
	return tuples, nil
}

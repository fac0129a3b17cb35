package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qobj/internal/circuit"
	"github.com/roach88/qobj/internal/describe"
)

// QASMOptions holds flags for the qasm command.
type QASMOptions struct {
	*RootOptions
	Circuit string // only emit this circuit
}

// CircuitQASM is one emitted program.
type CircuitQASM struct {
	Name string `json:"name"`
	QASM string `json:"qasm"`
}

// NewQASMCommand creates the qasm command.
func NewQASMCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QASMOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "qasm <circuits.yaml>",
		Short: "Emit OPENQASM 2.0 for described circuits",
		Long: `Build the circuits in a YAML description and print them as OPENQASM 2.0.

When more than one circuit is printed, each program is preceded by a
"// <name>" comment line.

Exit codes:
  0 - All circuits built
  1 - A circuit was rejected (duplicate or unregistered qubit, bad gate)
  2 - Command error (file not found, malformed description)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQASM(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Circuit, "circuit", "", "emit only the named circuit")

	return cmd
}

func runQASM(opts *QASMOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	_, circuits, err := loadAndBuild(formatter, path)
	if err != nil {
		return err
	}

	var out []CircuitQASM
	for _, qc := range circuits {
		if opts.Circuit != "" && qc.Name() != opts.Circuit {
			continue
		}
		out = append(out, CircuitQASM{Name: qc.Name(), QASM: qc.QASM()})
	}
	if len(out) == 0 {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound,
			fmt.Sprintf("circuit %q not found in %s", opts.Circuit, path), nil)
	}

	if formatter.IsJSON() {
		return formatter.Success(map[string]any{"circuits": out})
	}

	w := formatter.Writer
	for i, c := range out {
		if len(out) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "// %s\n", c.Name)
		}
		fmt.Fprint(w, c.QASM)
	}
	return nil
}

// loadAndBuild loads a description and builds every circuit, reporting
// failures through formatter.
func loadAndBuild(formatter *OutputFormatter, path string) (*describe.File, []*circuit.QuantumCircuit, error) {
	f, err := LoadDescription(path)
	if err != nil {
		return nil, nil, failLoad(formatter, err)
	}
	formatter.VerboseLog("Loaded %d circuit(s) from %s", len(f.Circuits), path)

	circuits, err := f.Build()
	if err != nil {
		return nil, nil, formatter.Fail(ExitFailure, ErrCodeBuildFailed, err.Error(), err)
	}
	return f, circuits, nil
}

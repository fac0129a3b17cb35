package cli

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/roach88/qobj/internal/assemble"
	"github.com/roach88/qobj/internal/qobj"
)

// AssembleOptions holds flags for the assemble command.
type AssembleOptions struct {
	*RootOptions
	QobjID     string
	Shots      int
	Backend    string
	Archive    string
	NoValidate bool
}

// NewAssembleCommand creates the assemble command.
func NewAssembleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AssembleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "assemble <circuits.yaml>",
		Short: "Assemble described circuits into a QASM payload",
		Long: `Build the circuits in a YAML description, assemble them into one QASM
payload and print its canonical JSON.

Run options come from the description's run section; flags override them.
The payload is validated against --schema-version unless --no-validate is
given.

Exit codes:
  0 - Payload assembled (and valid)
  1 - A circuit or the payload was rejected
  2 - Command error (file not found, archive error)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssemble(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.QobjID, "qobj-id", "", "payload qobj_id (default: generated)")
	cmd.Flags().IntVar(&opts.Shots, "shots", 0, "number of shots (default 1024)")
	cmd.Flags().StringVar(&opts.Backend, "backend", "", "backend name for the payload header")
	cmd.Flags().StringVar(&opts.Archive, "archive", "", "archive the payload in this SQLite database")
	cmd.Flags().BoolVar(&opts.NoValidate, "no-validate", false, "skip schema validation")

	return cmd
}

func runAssemble(ctx context.Context, opts *AssembleOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	desc, circuits, err := loadAndBuild(formatter, path)
	if err != nil {
		return err
	}

	cfg := desc.Run.RunConfig()
	if cmd.Flags().Changed("qobj-id") {
		cfg.QobjID = opts.QobjID
	}
	if cmd.Flags().Changed("shots") {
		cfg.Shots = opts.Shots
	}
	if cmd.Flags().Changed("backend") {
		cfg.BackendName = opts.Backend
	}

	q, err := assemble.Assemble(circuits, cfg)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeAssembleFailed, err.Error(), err)
	}
	q.SchemaVersion = opts.SchemaVersion
	formatter.VerboseLog("Assembled %d experiment(s) into %s", len(q.Experiments), q.QobjID)

	if !opts.NoValidate {
		sve, err := validatePayload(q, opts.SchemaVersion)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "validation could not run", err)
		}
		if sve != nil {
			return outputValidationErrors(formatter, ValidationResult{
				Kind:          q.Kind(),
				QobjID:        q.ID(),
				SchemaVersion: opts.SchemaVersion,
				Errors:        sve.Fields,
			})
		}
	}

	if opts.Archive != "" {
		if _, err := archivePayload(ctx, opts.Archive, q); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeArchiveFailed, "archive write failed", err)
		}
	}

	if formatter.IsJSON() {
		dict, err := q.ToDict()
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, "encode payload", err)
		}
		return formatter.Success(dict)
	}

	out, err := indentedCanonical(q)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "encode payload", err)
	}
	_, err = formatter.Writer.Write(out)
	return err
}

// indentedCanonical renders the canonical JSON of q with two-space
// indentation and a trailing newline. Key order is the canonical order.
func indentedCanonical(q qobj.Qobj) ([]byte, error) {
	data, err := qobj.CanonicalJSON(q)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

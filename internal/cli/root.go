package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/qobj/internal/schema"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose       bool
	Format        string // "json" | "text"
	SchemaVersion string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the qobj CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "qobj",
		Short: "qobj - quantum execution payloads",
		Long: `Build, assemble and validate Qobj execution payloads.

Circuits are described in YAML and lowered to OPENQASM 2.0 or to QASM
payloads; payloads are checked against a versioned schema and may be
archived in SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !slices.Contains(schema.Versions(), opts.SchemaVersion) {
				return fmt.Errorf("unknown schema version %q: must be one of %v", opts.SchemaVersion, schema.Versions())
			}
			setupLogging(cmd, opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.SchemaVersion, "schema-version", schema.LatestVersion, "qobj schema version to validate against")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewQASMCommand(opts))
	cmd.AddCommand(NewAssembleCommand(opts))
	cmd.AddCommand(NewSchemasCommand(opts))
	cmd.AddCommand(NewArchiveCommand(opts))

	return cmd
}

// setupLogging installs a text handler on stderr. Debug records are shown
// only with --verbose.
func setupLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

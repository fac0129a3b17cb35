package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/qobj/internal/archive"
	"github.com/roach88/qobj/internal/qobj"
	"github.com/roach88/qobj/internal/schema"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Archive string // optional archive database for valid payloads
}

// ValidationResult is the data reported by validate.
type ValidationResult struct {
	Valid         bool                `json:"valid"`
	Kind          qobj.Kind           `json:"kind"`
	QobjID        string              `json:"qobj_id"`
	SchemaVersion string              `json:"schema_version"`
	ContentID     string              `json:"content_id,omitempty"`
	Archived      bool                `json:"archived,omitempty"`
	Errors        []schema.FieldError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <payload.json>",
		Short: "Validate a payload against the qobj schema",
		Long: `Decode a QASM or PULSE payload and check it against a schema version.

Exit codes:
  0 - Payload is valid
  1 - Payload rejected (not a payload, or schema failure)
  2 - Command error (file not found, archive error)

Examples:
  qobj validate payload.json
  qobj validate payload.json --schema-version 1.0.0
  qobj validate payload.json --archive ./payloads.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Archive, "archive", "", "archive valid payloads in this SQLite database")

	return cmd
}

func runValidate(ctx context.Context, opts *ValidateOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	q, err := LoadPayload(path)
	if err != nil {
		return failLoad(formatter, err)
	}
	formatter.VerboseLog("Decoded %s payload %s", q.Kind(), q.ID())

	result := ValidationResult{
		Kind:          q.Kind(),
		QobjID:        q.ID(),
		SchemaVersion: opts.SchemaVersion,
	}

	sve, err := validatePayload(q, opts.SchemaVersion)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "validation could not run", err)
	}
	if sve != nil {
		result.Errors = sve.Fields
		return outputValidationErrors(formatter, result)
	}

	result.Valid = true
	if result.ContentID, err = qobj.ContentID(q); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "content id failed", err)
	}

	if opts.Archive != "" {
		if _, err := archivePayload(ctx, opts.Archive, q); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeArchiveFailed, "archive write failed", err)
		}
		result.Archived = true
	}

	return outputValidateSuccess(formatter, result)
}

// validatePayload checks q against version. Schema rejections are
// returned in the first value; the error is for everything else.
func validatePayload(q qobj.Qobj, version string) (*schema.SchemaValidationError, error) {
	s, err := schema.Load(version)
	if err != nil {
		return nil, err
	}
	err = qobj.ValidateQobjAgainstSchema(q, s)
	var sve *schema.SchemaValidationError
	if errors.As(err, &sve) {
		slog.Debug("payload rejected", "qobj_id", q.ID(), "schema", version, "fields", len(sve.Fields))
		return sve, nil
	}
	return nil, err
}

// archivePayload stores q in the archive at path.
func archivePayload(ctx context.Context, path string, q qobj.Qobj) (archive.Record, error) {
	a, err := archive.Open(path)
	if err != nil {
		return archive.Record{}, err
	}
	defer a.Close()

	rec, err := archive.NewRecord(q)
	if err != nil {
		return archive.Record{}, err
	}
	inserted, err := a.Put(ctx, rec)
	if err != nil {
		return archive.Record{}, err
	}
	slog.Info("payload archived", "id", rec.ID, "qobj_id", rec.QobjID, "new", inserted)
	return rec, nil
}

func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ %s payload %s valid against schema %s\n", result.Kind, result.QobjID, result.SchemaVersion)
	fmt.Fprintf(w, "  content id: %s\n", result.ContentID)
	if result.Archived {
		fmt.Fprintln(w, "  archived")
	}
	return nil
}

func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	msg := fmt.Sprintf("validation failed with %d error(s)", len(result.Errors))

	if formatter.IsJSON() {
		if err := formatter.Failure(ErrCodeSchemaInvalid, msg, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✗ Validation failed against schema %s\n\n", result.SchemaVersion)
	for _, fe := range result.Errors {
		path := fe.Path
		if path == "" {
			path = "<root>"
		}
		fmt.Fprintf(w, "  %s: %s\n", path, fe.Message)
	}
	return NewExitError(ExitFailure, msg)
}

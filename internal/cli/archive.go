package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/qobj/internal/archive"
	"github.com/roach88/qobj/internal/canonical"
)

// ArchiveOptions holds flags for the archive subcommands.
type ArchiveOptions struct {
	*RootOptions
	Database string
	QobjID   string // list filter
}

// ArchiveEntry is one listed payload.
type ArchiveEntry struct {
	Seq           int64  `json:"seq"`
	ID            string `json:"id"`
	QobjID        string `json:"qobj_id"`
	Kind          string `json:"kind"`
	SchemaVersion string `json:"schema_version"`
}

// NewArchiveCommand creates the archive command group.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ArchiveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Inspect archived payloads",
		Long: `List and show payloads stored by validate --archive or assemble --archive.

Listings are in archive order (seq ASC, id ASC).

Examples:
  qobj archive list --db ./payloads.db
  qobj archive list --db ./payloads.db --qobj-id bell-1
  qobj archive show <content-id> --db ./payloads.db`,
	}

	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite archive (required)")
	_ = cmd.MarkPersistentFlagRequired("db")

	list := &cobra.Command{
		Use:           "list",
		Short:         "List archived payloads",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveList(cmd.Context(), opts, cmd)
		},
	}
	list.Flags().StringVar(&opts.QobjID, "qobj-id", "", "only payloads with this qobj_id")

	show := &cobra.Command{
		Use:           "show <content-id>",
		Short:         "Print an archived payload",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArchiveShow(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

func openArchive(formatter *OutputFormatter, path string) (*archive.Archive, error) {
	a, err := archive.Open(path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeArchiveFailed, "failed to open archive", err)
	}
	return a, nil
}

func runArchiveList(ctx context.Context, opts *ArchiveOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	a, err := openArchive(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer a.Close()

	var records []archive.Record
	if opts.QobjID != "" {
		records, err = a.ListByQobjID(ctx, opts.QobjID)
	} else {
		records, err = a.List(ctx)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArchiveFailed, "failed to list archive", err)
	}

	entries := make([]ArchiveEntry, len(records))
	for i, r := range records {
		entries[i] = ArchiveEntry{
			Seq:           r.Seq,
			ID:            r.ID,
			QobjID:        r.QobjID,
			Kind:          string(r.Kind),
			SchemaVersion: r.SchemaVersion,
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(map[string]any{"payloads": entries, "total": len(entries)})
	}
	if len(entries) == 0 {
		fmt.Fprintln(formatter.Writer, "No payloads archived.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(formatter.Writer, "%d\t%s\t%s\t%s\t%s\n", e.Seq, e.ID, e.Kind, e.QobjID, e.SchemaVersion)
	}
	return nil
}

func runArchiveShow(ctx context.Context, opts *ArchiveOptions, id string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	a, err := openArchive(formatter, opts.Database)
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.Get(ctx, id)
	if errors.Is(err, archive.ErrNotFound) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("payload %s not archived", id), err)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeArchiveFailed, "failed to read archive", err)
	}

	if formatter.IsJSON() {
		payload, err := canonical.Decode(rec.Payload)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeDecodeFailed, "stored payload is corrupt", err)
		}
		return formatter.Success(payload)
	}

	q, err := rec.Decode()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDecodeFailed, "stored payload is corrupt", err)
	}
	out, err := indentedCanonical(q)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "encode payload", err)
	}
	_, err = formatter.Writer.Write(out)
	return err
}

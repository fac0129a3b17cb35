package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/qobj/internal/schema"
)

// SchemaInfo describes one embedded schema version.
type SchemaInfo struct {
	Version string   `json:"version"`
	Kinds   []string `json:"kinds"`
	Latest  bool     `json:"latest,omitempty"`
}

// NewSchemasCommand creates the schemas command.
func NewSchemasCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "schemas",
		Short:         "List embedded qobj schema versions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchemas(rootOpts, cmd)
		},
	}
}

func runSchemas(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	var infos []SchemaInfo
	for _, v := range schema.Versions() {
		s, err := schema.Load(v)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("load schema %s", v), err)
		}
		infos = append(infos, SchemaInfo{
			Version: v,
			Kinds:   s.Kinds(),
			Latest:  v == schema.LatestVersion,
		})
	}

	if formatter.IsJSON() {
		return formatter.Success(infos)
	}
	for _, info := range infos {
		line := fmt.Sprintf("%-8s %s", info.Version, strings.Join(info.Kinds, ","))
		if info.Latest {
			line += " (latest)"
		}
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}

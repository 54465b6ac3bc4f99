// Package cli holds the importer command tree.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
)

// ErrRowsFailed is returned by validate when at least one row was rejected.
var ErrRowsFailed = errors.New("one or more rows failed validation")

// NewRootCmd builds the command tree. Flags default to cfg and write back into it.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "importer",
		Short:         "Import and validate invoice files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.Import.BaseDir, "dir", cfg.Import.BaseDir, "directory files are resolved against")
	flags.StringVar(&cfg.Import.Delimiter, "delimiter", cfg.Import.Delimiter, "field delimiter")
	flags.StringVar(&cfg.Import.SchemaFile, "schema", cfg.Import.SchemaFile, "YAML schema file")

	root.AddCommand(newRunCmd(cfg), newValidateCmd(cfg))

	return root
}

func newImportService(cfg *config.Config) (*importer.Service, error) {
	delimiter, err := cfg.DelimiterRune()
	if err != nil {
		return nil, err
	}

	reader, err := csvfile.NewReader(cfg.Import.BaseDir, delimiter)
	if err != nil {
		return nil, err
	}

	schema, err := cfg.Schema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	return importer.NewService(reader, schema)
}

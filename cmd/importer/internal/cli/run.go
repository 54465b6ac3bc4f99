package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/database"
	"github.com/MrJamesThe3rd/invoicer/internal/importer"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/invoicer/internal/invoice/store"
	"github.com/MrJamesThe3rd/invoicer/internal/report"
)

type runOptions struct {
	report  string
	json    bool
	persist bool
}

const runLong = `Import a file and print the accepted and rejected rows.

With --persist the accepted invoices are stored first; the --report workbook is
only written once that succeeds.`

func newRunCmd(cfg *config.Config) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Import a file and print the accepted and rejected rows",
		Long:  runLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newImportService(cfg)
			if err != nil {
				return err
			}

			file := args[0]

			res, err := svc.Import(cmd.Context(), file)
			if err != nil {
				return err
			}

			saved := 0

			if opts.persist && len(res.OK) > 0 {
				saved, err = persist(cmd.Context(), cfg, res.OK)
				if err != nil {
					return err
				}
			}

			if opts.report != "" {
				if err := writeReport(opts.report, res); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()

			if opts.json {
				return writeJSON(out, file, res, saved)
			}

			writeSummary(out, file, svc.Schema(), res)

			if opts.report != "" {
				fmt.Fprintf(out, "report written to %s\n", opts.report)
			}

			if opts.persist {
				fmt.Fprintf(out, "%d invoices saved\n", saved)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.report, "report", "", "write an XLSX report to this path")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.persist, "persist", false, "store accepted invoices in the database")

	return cmd
}

func writeReport(path string, res *importer.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report: %w", err)
	}
	defer f.Close()

	if err := report.WriteXLSX(f, res); err != nil {
		return err
	}

	return f.Close()
}

func persist(ctx context.Context, cfg *config.Config, invoices []invoice.Invoice) (int, error) {
	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return 0, err
	}

	saved, err := invoice.NewService(invoiceStore.New(db)).SaveBatch(ctx, invoices)
	if err != nil {
		return 0, err
	}

	return len(saved), nil
}

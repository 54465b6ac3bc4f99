package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
)

func newValidateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a file without storing anything; exits non-zero when a row fails",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newImportService(cfg)
			if err != nil {
				return err
			}

			res, err := svc.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			writeSummary(cmd.OutOrStdout(), args[0], svc.Schema(), res)

			if len(res.KO) > 0 {
				return ErrRowsFailed
			}

			return nil
		},
	}
}

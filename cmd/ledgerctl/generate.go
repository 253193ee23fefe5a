package main

import (
	"context"

	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

var insertIfNotExists bool

var generateCmd = &cobra.Command{
	Use:   "generate <charge-id>",
	Short: "Generate the ledger of a charge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chargeID, err := uuid.Parse(args[0])
		if err != nil {
			return errors.Wrapf(err, "invalid charge id %q", args[0])
		}
		return withService(cmd.Context(), func(ctx context.Context, svc *service.LedgerhubService, _ *bun.DB) error {
			result, err := svc.GenerateLedgerForCharge(ctx, chargeID, service.GenerateOptions{InsertIfNotExists: insertIfNotExists})
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), result)
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVar(&insertIfNotExists, "insert", false, "store the generated records unless the charge already has stored records")
}

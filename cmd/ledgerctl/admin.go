package main

import (
	"context"

	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <charge-id>",
	Short: "Drop the stored ledger of a charge and generate it again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnCharge(cmd, args[0], func(ctx context.Context, svc *service.LedgerhubService, chargeID uuid.UUID) (*service.GenerateResult, error) {
			return svc.UnlockAndRegenerate(ctx, chargeID)
		})
	},
}

var lockCmd = &cobra.Command{
	Use:   "lock <charge-id>",
	Short: "Lock the ledger of a charge against regeneration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOnCharge(cmd, args[0], func(ctx context.Context, svc *service.LedgerhubService, chargeID uuid.UUID) (*service.GenerateResult, error) {
			return svc.LockCharge(ctx, chargeID)
		})
	},
}

func init() {
	rootCmd.AddCommand(unlockCmd)
	rootCmd.AddCommand(lockCmd)
}

func runOnCharge(cmd *cobra.Command, arg string, op func(ctx context.Context, svc *service.LedgerhubService, chargeID uuid.UUID) (*service.GenerateResult, error)) error {
	chargeID, err := uuid.Parse(arg)
	if err != nil {
		return errors.Wrapf(err, "invalid charge id %q", arg)
	}
	return withService(cmd.Context(), func(ctx context.Context, svc *service.LedgerhubService, _ *bun.DB) error {
		result, err := op(ctx, svc, chargeID)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), result)
	})
}

package main

import (
	"context"
	"fmt"

	"github.com/accounter/ledgerhub.go/db/migrations"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd.Context(), func(ctx context.Context, _ *service.LedgerhubService, dbConn *bun.DB) error {
			migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
			if err := migrator.Init(ctx); err != nil {
				return errors.Wrap(err, "error initializing db migrator")
			}
			group, err := migrator.Migrate(ctx)
			if err != nil {
				return errors.Wrap(err, "error migrating database")
			}
			if group.IsZero() {
				fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated to %s\n", group)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

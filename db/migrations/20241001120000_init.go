package migrations

import (
	"context"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/uptrace/bun"
)

/* Since this init will reflect the latest model fields when run on fresh db
make sure that when you add/remove columns in subsequent migrations IfNotExists/IfExists is used
otherwise it's going to result in errors.
*/
func init() {
	tables := []interface{}{
		(*models.OwnerSettings)(nil),
		(*models.Charge)(nil),
		(*models.Transaction)(nil),
		(*models.Document)(nil),
		(*models.ExchangeRate)(nil),
		(*models.DepreciationRecord)(nil),
		(*models.AnnualAmount)(nil),
		(*models.LedgerRecord)(nil),
		(*models.LedgerGeneration)(nil),
	}
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, model := range tables {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for i := len(tables) - 1; i >= 0; i-- {
			if _, err := db.NewDropTable().Model(tables[i]).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

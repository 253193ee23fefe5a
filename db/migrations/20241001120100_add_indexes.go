package migrations

import (
	"context"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/uptrace/bun"
)

type index struct {
	name    string
	model   interface{}
	columns []string
}

var indexes = []index{
	{"index_transactions_on_charge_id", (*models.Transaction)(nil), []string{"charge_id"}},
	{"index_documents_on_charge_id", (*models.Document)(nil), []string{"charge_id"}},
	{"index_ledger_records_on_charge_id", (*models.LedgerRecord)(nil), []string{"charge_id"}},
	{"index_ledger_records_on_owner_id_and_value_date", (*models.LedgerRecord)(nil), []string{"owner_id", "value_date"}},
	{"index_depreciation_records_on_owner_id_and_year", (*models.DepreciationRecord)(nil), []string{"owner_id", "year"}},
}

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, idx := range indexes {
			_, err := db.NewCreateIndex().
				Model(idx.model).
				Index(idx.name).
				Column(idx.columns...).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return err
			}
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, idx := range indexes {
			if _, err := db.NewDropIndex().Index(idx.name).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

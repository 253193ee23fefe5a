package bunstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/accounter/ledgerhub.go/lib/ledger/generators"
	"github.com/accounter/ledgerhub.go/lib/money"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Store implements service.Store on top of a bun database (postgres or sqlite).
type Store struct {
	db           *bun.DB
	baseCurrency string
}

// New creates a store. Exchange rates are stored against baseCurrency.
func New(db *bun.DB, baseCurrency string) *Store {
	return &Store{db: db, baseCurrency: baseCurrency}
}

func (s *Store) ChargeByID(ctx context.Context, chargeID uuid.UUID) (*models.Charge, error) {
	charge := new(models.Charge)
	err := s.db.NewSelect().Model(charge).Where("id = ?", chargeID).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ChargeNotFoundError{ChargeID: chargeID}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error loading charge %s", chargeID)
	}
	return charge, nil
}

func (s *Store) LockCharge(ctx context.Context, chargeID uuid.UUID, lockedAt time.Time) error {
	charge := &models.Charge{ID: chargeID, LockedAt: bun.NullTime{Time: lockedAt}}
	res, err := s.db.NewUpdate().Model(charge).Column("locked_at", "updated_at").WherePK().Exec(ctx)
	if err != nil {
		return errors.Wrapf(err, "error locking charge %s", chargeID)
	}
	return mustAffect(res, ledger.ChargeNotFoundError{ChargeID: chargeID})
}

func (s *Store) OwnerSettings(ctx context.Context, ownerID uuid.UUID) (*models.OwnerSettings, error) {
	settings := new(models.OwnerSettings)
	err := s.db.NewSelect().Model(settings).Where("owner_id = ?", ownerID).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.MissingSettingsError{OwnerID: ownerID}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error loading settings of owner %s", ownerID)
	}
	return settings, nil
}

func (s *Store) TransactionsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := s.db.NewSelect().
		Model(&transactions).
		Where("charge_id = ?", chargeID).
		OrderExpr("event_date ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading transactions of charge %s", chargeID)
	}
	return transactions, nil
}

func (s *Store) DocumentsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.Document, error) {
	var documents []models.Document
	err := s.db.NewSelect().
		Model(&documents).
		Where("charge_id = ?", chargeID).
		OrderExpr("date ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading documents of charge %s", chargeID)
	}
	return documents, nil
}

// Rate returns the cross rate between two currencies using the latest
// quotes on or before the date.
func (s *Store) Rate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	fromRate, err := s.baseRate(ctx, from, on)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := s.baseRate(ctx, to, on)
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundRate(fromRate.Div(toRate)), nil
}

func (s *Store) baseRate(ctx context.Context, currency string, on time.Time) (decimal.Decimal, error) {
	if currency == s.baseCurrency {
		return decimal.NewFromInt(1), nil
	}
	rate := new(models.ExchangeRate)
	err := s.db.NewSelect().
		Model(rate).
		Where("currency = ?", currency).
		Where("date <= ?", on).
		Order("date DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, ledger.MissingExchangeRateError{Currency: currency, Date: on}
	}
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "error loading %s exchange rate", currency)
	}
	return rate.Rate, nil
}

func (s *Store) YearlyDepreciationTotals(ctx context.Context, ownerID uuid.UUID, year int) (generators.DepreciationTotals, error) {
	var records []models.DepreciationRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("owner_id = ?", ownerID).
		Where("year = ?", year).
		Scan(ctx)
	if err != nil {
		return generators.DepreciationTotals{}, errors.Wrapf(err, "error loading %d depreciation of owner %s", year, ownerID)
	}
	return generators.SumDepreciation(records), nil
}

func (s *Store) AnnualAmount(ctx context.Context, ownerID uuid.UUID, role string, year int) (decimal.Decimal, bool, error) {
	amount := new(models.AnnualAmount)
	err := s.db.NewSelect().
		Model(amount).
		Where("owner_id = ?", ownerID).
		Where("role = ?", role).
		Where("year = ?", year).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, errors.Wrapf(err, "error loading %s amount for %d", role, year)
	}
	return amount.Amount, true, nil
}

func (s *Store) ForeignBalances(ctx context.Context, ownerID uuid.UUID, localCurrency string, asOf time.Time, accounts []uuid.UUID) ([]generators.ForeignBalance, error) {
	var records []models.LedgerRecord
	err := s.db.NewSelect().
		Model(&records).
		Where("owner_id = ?", ownerID).
		Where("currency != ?", localCurrency).
		Where("value_date <= ?", asOf).
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading foreign ledger records of owner %s", ownerID)
	}
	return generators.SumForeignBalances(records, localCurrency, accounts), nil
}

func (s *Store) RecordsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.LedgerRecord, error) {
	return recordsByChargeID(ctx, s.db, chargeID)
}

// InsertIfAbsent implements service.LedgerStore. The generation marker is
// inserted first, only the transaction that wins it writes the records.
// A concurrent loser blocks on the marker row until the winner commits and
// then reads the winner's records.
func (s *Store) InsertIfAbsent(ctx context.Context, charge *models.Charge, generatorKind string, records []models.LedgerRecord) ([]models.LedgerRecord, bool, error) {
	var (
		persisted []models.LedgerRecord
		inserted  bool
	)
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		generation := &models.LedgerGeneration{
			ChargeID:      charge.ID,
			OwnerID:       charge.OwnerID,
			GeneratorKind: generatorKind,
			CreatedAt:     time.Now().UTC(),
		}
		res, err := tx.NewInsert().Model(generation).On("CONFLICT (charge_id) DO NOTHING").Exec(ctx)
		if err != nil {
			return errors.Wrap(err, "error inserting ledger generation")
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "error inserting ledger generation")
		}
		if affected > 0 && len(records) > 0 {
			toInsert := make([]models.LedgerRecord, len(records))
			copy(toInsert, records)
			for i := range toInsert {
				if toInsert[i].ID == uuid.Nil {
					toInsert[i].ID = uuid.New()
				}
			}
			if _, err := tx.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
				return errors.Wrap(err, "error inserting ledger records")
			}
		}
		inserted = affected > 0
		persisted, err = recordsByChargeID(ctx, tx, charge.ID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return persisted, inserted, nil
}

// ReplaceRecords implements service.LedgerStore. Clearing the lock, dropping
// the old ledger and writing the new one commit together or not at all.
func (s *Store) ReplaceRecords(ctx context.Context, charge *models.Charge, generatorKind string, records []models.LedgerRecord) ([]models.LedgerRecord, error) {
	var persisted []models.LedgerRecord
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		unlocked := &models.Charge{ID: charge.ID}
		res, err := tx.NewUpdate().Model(unlocked).Column("locked_at", "updated_at").WherePK().Exec(ctx)
		if err != nil {
			return errors.Wrapf(err, "error unlocking charge %s", charge.ID)
		}
		if err := mustAffect(res, ledger.ChargeNotFoundError{ChargeID: charge.ID}); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*models.LedgerRecord)(nil)).Where("charge_id = ?", charge.ID).Exec(ctx); err != nil {
			return errors.Wrapf(err, "error deleting ledger records of charge %s", charge.ID)
		}
		if _, err := tx.NewDelete().Model((*models.LedgerGeneration)(nil)).Where("charge_id = ?", charge.ID).Exec(ctx); err != nil {
			return errors.Wrapf(err, "error deleting ledger generation of charge %s", charge.ID)
		}

		if len(records) > 0 {
			generation := &models.LedgerGeneration{
				ChargeID:      charge.ID,
				OwnerID:       charge.OwnerID,
				GeneratorKind: generatorKind,
				CreatedAt:     time.Now().UTC(),
			}
			if _, err := tx.NewInsert().Model(generation).Exec(ctx); err != nil {
				return errors.Wrap(err, "error inserting ledger generation")
			}
			toInsert := make([]models.LedgerRecord, len(records))
			copy(toInsert, records)
			for i := range toInsert {
				toInsert[i].ID = uuid.New()
			}
			if _, err := tx.NewInsert().Model(&toInsert).Exec(ctx); err != nil {
				return errors.Wrap(err, "error inserting ledger records")
			}
		}
		persisted, err = recordsByChargeID(ctx, tx, charge.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

// GenerationsBetween lists the ledgers stored in [start, end).
func (s *Store) GenerationsBetween(ctx context.Context, start, end time.Time) ([]models.LedgerGeneration, error) {
	var generations []models.LedgerGeneration
	err := s.db.NewSelect().
		Model(&generations).
		Where("created_at >= ?", start).
		Where("created_at < ?", end).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "error loading ledger generations")
	}
	return generations, nil
}

// UngeneratedChargesUntil lists unlocked charges created before until whose
// ledger was never stored.
func (s *Store) UngeneratedChargesUntil(ctx context.Context, until time.Time) ([]uuid.UUID, error) {
	var chargeIDs []uuid.UUID
	err := s.db.NewSelect().
		Model((*models.Charge)(nil)).
		Column("id").
		Where("created_at < ?", until).
		Where("locked_at IS NULL").
		Where("NOT EXISTS (SELECT 1 FROM ledger_generations AS generation WHERE generation.charge_id = ?TableAlias.id)").
		Order("created_at ASC").
		Scan(ctx, &chargeIDs)
	if err != nil {
		return nil, errors.Wrap(err, "error loading charges without a ledger")
	}
	return chargeIDs, nil
}

func recordsByChargeID(ctx context.Context, db bun.IDB, chargeID uuid.UUID) ([]models.LedgerRecord, error) {
	var records []models.LedgerRecord
	err := db.NewSelect().
		Model(&records).
		Where("charge_id = ?", chargeID).
		OrderExpr("invoice_date ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading ledger records of charge %s", chargeID)
	}
	return records, nil
}

func mustAffect(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

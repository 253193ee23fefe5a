package bunstore

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/accounter/ledgerhub.go/db"
	"github.com/accounter/ledgerhub.go/db/migrations"
	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/accounter/ledgerhub.go/lib/ledger/generators"
	"github.com/accounter/ledgerhub.go/lib/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

type BunStoreTestSuite struct {
	suite.Suite
	db     *bun.DB
	store  *Store
	owner  uuid.UUID
	charge *models.Charge
}

// DATABASE_URI selects the database under test, an in-memory sqlite
// database is used when it is not set.
func (suite *BunStoreTestSuite) SetupTest() {
	dsn := os.Getenv("DATABASE_URI")
	if dsn == "" {
		dsn = fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", uuid.NewString())
	}
	dbConn, err := db.Open(&service.Config{
		DatabaseUri:             dsn,
		DatabaseMaxConns:        10,
		DatabaseMaxIdleConns:    5,
		DatabaseConnMaxLifetime: 1800,
	})
	suite.Require().NoError(err)
	ctx := context.Background()
	migrator := migrate.NewMigrator(dbConn, migrations.Migrations)
	suite.Require().NoError(migrator.Init(ctx))
	_, err = migrator.Migrate(ctx)
	suite.Require().NoError(err)

	suite.db = dbConn
	suite.store = New(dbConn, "ILS")
	suite.owner = uuid.New()
	suite.charge = &models.Charge{ID: uuid.New(), OwnerID: suite.owner, Type: models.ChargeTypeBalance}
	_, err = dbConn.NewInsert().Model(suite.charge).Exec(ctx)
	suite.Require().NoError(err)
}

func (suite *BunStoreTestSuite) TearDownTest() {
	ctx := context.Background()
	migrator := migrate.NewMigrator(suite.db, migrations.Migrations)
	_, err := migrator.Rollback(ctx)
	suite.NoError(err)
	suite.NoError(suite.db.Close())
}

func (suite *BunStoreTestSuite) record(amount int64, invoiceDate time.Time) models.LedgerRecord {
	return models.LedgerRecord{
		OwnerID:            suite.owner,
		ChargeID:           suite.charge.ID,
		GeneratorKind:      string(generators.KindBalance),
		InvoiceDate:        invoiceDate,
		ValueDate:          invoiceDate,
		Currency:           "ILS",
		CurrencyRate:       decimal.NewFromInt(1),
		LocalCreditAmount1: decimal.NewFromInt(amount),
		LocalDebitAmount1:  decimal.NewFromInt(amount),
	}
}

func (suite *BunStoreTestSuite) TestChargeByID() {
	ctx := context.Background()
	charge, err := suite.store.ChargeByID(ctx, suite.charge.ID)
	suite.Require().NoError(err)
	suite.Equal(suite.owner, charge.OwnerID)

	_, err = suite.store.ChargeByID(ctx, uuid.New())
	suite.ErrorAs(err, &ledger.ChargeNotFoundError{})
}

func (suite *BunStoreTestSuite) TestOwnerSettings() {
	ctx := context.Background()
	_, err := suite.store.OwnerSettings(ctx, suite.owner)
	suite.ErrorAs(err, &ledger.MissingSettingsError{})

	deposit := uuid.New()
	settings := &models.OwnerSettings{
		OwnerID:               suite.owner,
		LocalCurrency:         "ILS",
		DefaultTaxCategoryID:  uuid.New(),
		BankDepositAccountIDs: []uuid.UUID{deposit},
	}
	_, err = suite.db.NewInsert().Model(settings).Exec(ctx)
	suite.Require().NoError(err)

	loaded, err := suite.store.OwnerSettings(ctx, suite.owner)
	suite.Require().NoError(err)
	suite.Equal(settings.DefaultTaxCategoryID, loaded.DefaultTaxCategoryID)
	suite.Equal([]uuid.UUID{deposit}, loaded.BankDepositAccountIDs)
}

func (suite *BunStoreTestSuite) TestInsertIfAbsentIsIdempotent() {
	ctx := context.Background()
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	first, inserted, err := suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance),
		[]models.LedgerRecord{suite.record(10, day), suite.record(20, day.AddDate(0, 0, 1))})
	suite.Require().NoError(err)
	suite.True(inserted)
	suite.Require().Len(first, 2)
	suite.NotEqual(uuid.Nil, first[0].ID)

	second, inserted, err := suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance),
		[]models.LedgerRecord{suite.record(99, day)})
	suite.Require().NoError(err)
	suite.False(inserted)
	suite.Equal(first, second)

	stored, err := suite.store.RecordsByChargeID(ctx, suite.charge.ID)
	suite.Require().NoError(err)
	suite.Equal(first, stored)
}

func (suite *BunStoreTestSuite) TestInsertIfAbsentWithoutRecordsStillMarksCharge() {
	ctx := context.Background()
	_, inserted, err := suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance), nil)
	suite.Require().NoError(err)
	suite.True(inserted)

	persisted, inserted, err := suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance),
		[]models.LedgerRecord{suite.record(5, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))})
	suite.Require().NoError(err)
	suite.False(inserted)
	suite.Empty(persisted)
}

func (suite *BunStoreTestSuite) TestInsertIfAbsentConcurrentCallsStoreOnce() {
	const callers = 6
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var (
		mu            sync.Mutex
		wg            sync.WaitGroup
		insertedCount int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, inserted, err := suite.store.InsertIfAbsent(context.Background(), suite.charge, string(generators.KindBalance),
				[]models.LedgerRecord{suite.record(int64(i+1), day)})
			suite.NoError(err)
			if inserted {
				mu.Lock()
				insertedCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	suite.Equal(1, insertedCount)
	stored, err := suite.store.RecordsByChargeID(context.Background(), suite.charge.ID)
	suite.Require().NoError(err)
	suite.Len(stored, 1)
}

func (suite *BunStoreTestSuite) TestCancelledInsertLeavesNothing() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance),
		[]models.LedgerRecord{suite.record(10, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))})
	suite.Error(err)

	stored, err := suite.store.RecordsByChargeID(context.Background(), suite.charge.ID)
	suite.Require().NoError(err)
	suite.Empty(stored)
}

func (suite *BunStoreTestSuite) TestLockAndReplaceRecords() {
	ctx := context.Background()
	lockedAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	suite.Require().NoError(suite.store.LockCharge(ctx, suite.charge.ID, lockedAt))

	charge, err := suite.store.ChargeByID(ctx, suite.charge.ID)
	suite.Require().NoError(err)
	suite.False(charge.LockedAt.IsZero())

	_, _, err = suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance),
		[]models.LedgerRecord{suite.record(10, lockedAt)})
	suite.Require().NoError(err)

	replaced, err := suite.store.ReplaceRecords(ctx, suite.charge, string(generators.KindBalance),
		[]models.LedgerRecord{suite.record(20, lockedAt)})
	suite.Require().NoError(err)
	suite.Require().Len(replaced, 1)
	suite.Equal("20", replaced[0].LocalDebitAmount1.String())

	charge, err = suite.store.ChargeByID(ctx, suite.charge.ID)
	suite.Require().NoError(err)
	suite.True(charge.LockedAt.IsZero())
	stored, err := suite.store.RecordsByChargeID(ctx, suite.charge.ID)
	suite.Require().NoError(err)
	suite.Equal(replaced, stored)

	// the replacement carries its own generation marker
	_, inserted, err := suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance),
		[]models.LedgerRecord{suite.record(30, lockedAt)})
	suite.Require().NoError(err)
	suite.False(inserted)

	suite.ErrorAs(suite.store.LockCharge(ctx, uuid.New(), lockedAt), &ledger.ChargeNotFoundError{})
	_, err = suite.store.ReplaceRecords(ctx, &models.Charge{ID: uuid.New(), OwnerID: suite.owner}, string(generators.KindBalance), nil)
	suite.ErrorAs(err, &ledger.ChargeNotFoundError{})
}

func (suite *BunStoreTestSuite) TestReplaceRecordsCancelledKeepsLedger() {
	ctx := context.Background()
	lockedAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	_, _, err := suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance),
		[]models.LedgerRecord{suite.record(10, lockedAt)})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.store.LockCharge(ctx, suite.charge.ID, lockedAt))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = suite.store.ReplaceRecords(cancelled, suite.charge, string(generators.KindBalance),
		[]models.LedgerRecord{suite.record(20, lockedAt)})
	suite.Error(err)

	charge, err := suite.store.ChargeByID(ctx, suite.charge.ID)
	suite.Require().NoError(err)
	suite.False(charge.LockedAt.IsZero())
	stored, err := suite.store.RecordsByChargeID(ctx, suite.charge.ID)
	suite.Require().NoError(err)
	suite.Require().Len(stored, 1)
	suite.Equal("10", stored[0].LocalDebitAmount1.String())
}

func (suite *BunStoreTestSuite) TestGenerationsBetween() {
	ctx := context.Background()
	start := time.Now().Add(-time.Hour).UTC()
	_, _, err := suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance), nil)
	suite.Require().NoError(err)

	generations, err := suite.store.GenerationsBetween(ctx, start, time.Now().Add(time.Hour).UTC())
	suite.Require().NoError(err)
	suite.Require().Len(generations, 1)
	suite.Equal(suite.charge.ID, generations[0].ChargeID)

	generations, err = suite.store.GenerationsBetween(ctx, start.Add(-time.Hour), start)
	suite.Require().NoError(err)
	suite.Empty(generations)
}

func (suite *BunStoreTestSuite) TestUngeneratedChargesUntil() {
	ctx := context.Background()
	old := time.Now().Add(-48 * time.Hour).UTC()
	pending := &models.Charge{ID: uuid.New(), OwnerID: suite.owner, Type: models.ChargeTypeBalance, CreatedAt: old}
	generated := &models.Charge{ID: uuid.New(), OwnerID: suite.owner, Type: models.ChargeTypeBalance, CreatedAt: old}
	locked := &models.Charge{ID: uuid.New(), OwnerID: suite.owner, Type: models.ChargeTypeBalance, CreatedAt: old,
		LockedAt: bun.NullTime{Time: old}}
	for _, charge := range []*models.Charge{pending, generated, locked} {
		_, err := suite.db.NewInsert().Model(charge).Exec(ctx)
		suite.Require().NoError(err)
	}
	_, _, err := suite.store.InsertIfAbsent(ctx, generated, string(generators.KindBalance), nil)
	suite.Require().NoError(err)

	chargeIDs, err := suite.store.UngeneratedChargesUntil(ctx, time.Now().Add(-24*time.Hour).UTC())
	suite.Require().NoError(err)
	suite.Equal([]uuid.UUID{pending.ID}, chargeIDs)
}

func (suite *BunStoreTestSuite) TestRateUsesLatestQuoteOnOrBeforeDate() {
	ctx := context.Background()
	rates := []models.ExchangeRate{
		{Currency: "USD", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Rate: decimal.RequireFromString("3.6")},
		{Currency: "USD", Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Rate: decimal.RequireFromString("3.7")},
		{Currency: "EUR", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Rate: decimal.RequireFromString("4")},
	}
	_, err := suite.db.NewInsert().Model(&rates).Exec(ctx)
	suite.Require().NoError(err)

	rate, err := suite.store.Rate(ctx, "USD", "ILS", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("3.6").Equal(rate), rate.String())

	rate, err = suite.store.Rate(ctx, "USD", "ILS", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("3.7").Equal(rate), rate.String())

	rate, err = suite.store.Rate(ctx, "EUR", "USD", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	suite.Require().NoError(err)
	suite.True(decimal.RequireFromString("1.111111").Equal(rate), rate.String())

	_, err = suite.store.Rate(ctx, "USD", "ILS", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC))
	suite.ErrorAs(err, &ledger.MissingExchangeRateError{})
}

func (suite *BunStoreTestSuite) TestYearlyDepreciationAndAnnualAmounts() {
	ctx := context.Background()
	depreciation := []models.DepreciationRecord{
		{OwnerID: suite.owner, Year: 2023, Category: models.DepreciationCategoryRnd, Amount: decimal.NewFromInt(100)},
		{OwnerID: suite.owner, Year: 2023, Category: models.DepreciationCategoryGnm, Amount: decimal.NewFromInt(50)},
		{OwnerID: suite.owner, Year: 2022, Category: models.DepreciationCategoryRnd, Amount: decimal.NewFromInt(7)},
	}
	_, err := suite.db.NewInsert().Model(&depreciation).Exec(ctx)
	suite.Require().NoError(err)

	totals, err := suite.store.YearlyDepreciationTotals(ctx, suite.owner, 2023)
	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(100).Equal(totals.Rnd))
	suite.True(decimal.NewFromInt(150).Equal(totals.Total))

	_, found, err := suite.store.AnnualAmount(ctx, suite.owner, models.AnnualRoleTaxExpense, 2023)
	suite.Require().NoError(err)
	suite.False(found)

	_, err = suite.db.NewInsert().Model(&models.AnnualAmount{
		OwnerID: suite.owner, Year: 2023, Role: models.AnnualRoleTaxExpense, Amount: decimal.NewFromInt(42),
	}).Exec(ctx)
	suite.Require().NoError(err)
	amount, found, err := suite.store.AnnualAmount(ctx, suite.owner, models.AnnualRoleTaxExpense, 2023)
	suite.Require().NoError(err)
	suite.True(found)
	suite.True(decimal.NewFromInt(42).Equal(amount))
}

func (suite *BunStoreTestSuite) TestForeignBalances() {
	ctx := context.Background()
	account := uuid.New()
	foreign := decimal.NewFromInt(100)
	record := models.LedgerRecord{
		OwnerID:              suite.owner,
		ChargeID:             suite.charge.ID,
		GeneratorKind:        string(generators.KindBalance),
		InvoiceDate:          time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		ValueDate:            time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Currency:             "USD",
		CurrencyRate:         decimal.RequireFromString("3.7"),
		DebitAccountID1:      uuid.NullUUID{UUID: account, Valid: true},
		LocalDebitAmount1:    decimal.NewFromInt(370),
		ForeignDebitAmount1:  &foreign,
		LocalCreditAmount1:   decimal.NewFromInt(370),
		ForeignCreditAmount1: &foreign,
	}
	_, _, err := suite.store.InsertIfAbsent(ctx, suite.charge, string(generators.KindBalance), []models.LedgerRecord{record})
	suite.Require().NoError(err)

	balances, err := suite.store.ForeignBalances(ctx, suite.owner, "ILS", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), nil)
	suite.Require().NoError(err)
	suite.Require().Len(balances, 1)
	suite.Equal(account, balances[0].AccountID)
	suite.True(decimal.NewFromInt(100).Equal(balances[0].ForeignAmount))
	suite.True(decimal.NewFromInt(370).Equal(balances[0].LocalAmount))

	balances, err = suite.store.ForeignBalances(ctx, suite.owner, "ILS", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), nil)
	suite.Require().NoError(err)
	suite.Empty(balances)
}

func TestBunStoreTestSuite(t *testing.T) {
	suite.Run(t, new(BunStoreTestSuite))
}

func TestStoreImplementsServiceStore(t *testing.T) {
	var store service.Store = New(nil, "ILS")
	assert.NotNil(t, store)
	require.Implements(t, (*service.Store)(nil), store)
}

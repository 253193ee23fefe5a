package inmemory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(charge *models.Charge, amount int64) models.LedgerRecord {
	return models.LedgerRecord{
		OwnerID:            charge.OwnerID,
		ChargeID:           charge.ID,
		Currency:           "ILS",
		LocalCreditAmount1: decimal.NewFromInt(amount),
		LocalDebitAmount1:  decimal.NewFromInt(amount),
	}
}

func TestInsertIfAbsentIsIdempotent(t *testing.T) {
	store := NewStore("ILS")
	charge := &models.Charge{ID: uuid.New(), OwnerID: uuid.New()}
	store.AddCharge(*charge)
	ctx := context.Background()

	first, inserted, err := store.InsertIfAbsent(ctx, charge, "balance", []models.LedgerRecord{record(charge, 10), record(charge, 20)})
	require.NoError(t, err)
	assert.True(t, inserted)
	require.Len(t, first, 2)
	assert.NotEqual(t, uuid.Nil, first[0].ID)

	second, inserted, err := store.InsertIfAbsent(ctx, charge, "balance", []models.LedgerRecord{record(charge, 99)})
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first, second)

	stored, err := store.RecordsByChargeID(ctx, charge.ID)
	require.NoError(t, err)
	assert.Equal(t, first, stored)
}

func TestInsertIfAbsentConcurrentCallsStoreOnce(t *testing.T) {
	store := NewStore("ILS")
	charge := &models.Charge{ID: uuid.New(), OwnerID: uuid.New()}
	store.AddCharge(*charge)

	const callers = 8
	results := make([][]models.LedgerRecord, callers)
	insertedCount := 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			persisted, inserted, err := store.InsertIfAbsent(context.Background(), charge, "balance", []models.LedgerRecord{record(charge, int64(i+1))})
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			results[i] = persisted
			if inserted {
				insertedCount++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, insertedCount)
	for _, persisted := range results {
		assert.Equal(t, results[0], persisted)
	}
	stored, err := store.RecordsByChargeID(context.Background(), charge.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestInsertIfAbsentCancelledWritesNothing(t *testing.T) {
	store := NewStore("ILS")
	charge := &models.Charge{ID: uuid.New(), OwnerID: uuid.New()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.InsertIfAbsent(ctx, charge, "balance", []models.LedgerRecord{record(charge, 1)})
	assert.ErrorIs(t, err, context.Canceled)
	stored, err := store.RecordsByChargeID(context.Background(), charge.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestReplaceRecordsClearsLockAndSwapsRecords(t *testing.T) {
	store := NewStore("ILS")
	charge := &models.Charge{ID: uuid.New(), OwnerID: uuid.New()}
	store.AddCharge(*charge)
	ctx := context.Background()

	_, _, err := store.InsertIfAbsent(ctx, charge, "balance", []models.LedgerRecord{record(charge, 5)})
	require.NoError(t, err)
	require.NoError(t, store.LockCharge(ctx, charge.ID, time.Now()))
	locked, err := store.ChargeByID(ctx, charge.ID)
	require.NoError(t, err)
	assert.False(t, locked.LockedAt.IsZero())

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = store.ReplaceRecords(cancelled, charge, "balance", []models.LedgerRecord{record(charge, 6)})
	assert.ErrorIs(t, err, context.Canceled)
	kept, err := store.RecordsByChargeID(ctx, charge.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	replaced, err := store.ReplaceRecords(ctx, charge, "balance", []models.LedgerRecord{record(charge, 6)})
	require.NoError(t, err)
	unlocked, err := store.ChargeByID(ctx, charge.ID)
	require.NoError(t, err)
	assert.True(t, unlocked.LockedAt.IsZero())
	stored, err := store.RecordsByChargeID(ctx, charge.ID)
	require.NoError(t, err)
	assert.Equal(t, replaced, stored)
	assert.NotEqual(t, kept, stored)

	_, inserted, err := store.InsertIfAbsent(ctx, charge, "balance", []models.LedgerRecord{record(charge, 7)})
	require.NoError(t, err)
	assert.False(t, inserted)

	// an empty replacement leaves the charge free to be generated again
	replaced, err = store.ReplaceRecords(ctx, charge, "balance", nil)
	require.NoError(t, err)
	assert.Empty(t, replaced)
	_, inserted, err = store.InsertIfAbsent(ctx, charge, "balance", []models.LedgerRecord{record(charge, 7)})
	require.NoError(t, err)
	assert.True(t, inserted)

	_, err = store.ReplaceRecords(ctx, &models.Charge{ID: uuid.New()}, "balance", nil)
	assert.ErrorAs(t, err, &ledger.ChargeNotFoundError{})
}

func TestRateUsesLatestQuoteAndCrossRates(t *testing.T) {
	store := NewStore("ILS")
	store.AddExchangeRate(models.ExchangeRate{Currency: "USD", Date: time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), Rate: decimal.RequireFromString("3.75")})
	store.AddExchangeRate(models.ExchangeRate{Currency: "USD", Date: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), Rate: decimal.RequireFromString("3.7")})
	store.AddExchangeRate(models.ExchangeRate{Currency: "EUR", Date: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), Rate: decimal.RequireFromString("4")})
	ctx := context.Background()

	// a weekend falls back to the last quote
	rate, err := store.Rate(ctx, "USD", "ILS", time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "3.7", rate.String())

	rate, err = store.Rate(ctx, "USD", "ILS", time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "3.75", rate.String())

	rate, err = store.Rate(ctx, "EUR", "USD", time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "1.081081", rate.String())

	_, err = store.Rate(ctx, "USD", "ILS", time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC))
	_, ok := ledger.AsCommonError(err)
	assert.True(t, ok)
}

func TestMissingChargeAndSettings(t *testing.T) {
	store := NewStore("ILS")
	id := uuid.New()
	_, err := store.ChargeByID(context.Background(), id)
	assert.ErrorIs(t, err, ledger.ChargeNotFoundError{ChargeID: id})
	_, err = store.OwnerSettings(context.Background(), id)
	assert.ErrorIs(t, err, ledger.MissingSettingsError{OwnerID: id})
}

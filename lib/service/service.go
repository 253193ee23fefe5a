package service

import (
	"context"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger/generators"
	"github.com/accounter/ledgerhub.go/rabbitmq"
	"github.com/google/uuid"
	"github.com/ziflex/lecho/v3"
)

//go:generate mockgen -destination=./mock_service/service.go github.com/accounter/ledgerhub.go/lib/service ChargesStore,SettingsStore,LedgerStore

type ChargesStore interface {
	ChargeByID(ctx context.Context, chargeID uuid.UUID) (*models.Charge, error)
	LockCharge(ctx context.Context, chargeID uuid.UUID, lockedAt time.Time) error
}

type SettingsStore interface {
	OwnerSettings(ctx context.Context, ownerID uuid.UUID) (*models.OwnerSettings, error)
}

// LedgerStore persists generated ledger records. InsertIfAbsent writes the
// records of a charge only when the charge was never generated before, the
// existence check and the insert happen in one transaction. inserted is false
// when another generation won and the returned records are the ones already
// stored.
type LedgerStore interface {
	RecordsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.LedgerRecord, error)
	InsertIfAbsent(ctx context.Context, charge *models.Charge, generatorKind string, records []models.LedgerRecord) (persisted []models.LedgerRecord, inserted bool, err error)
	// ReplaceRecords clears the lock marker of the charge and swaps its stored
	// records for records in one transaction.
	ReplaceRecords(ctx context.Context, charge *models.Charge, generatorKind string, records []models.LedgerRecord) ([]models.LedgerRecord, error)
}

// Store is everything the service reads from and writes to.
type Store interface {
	ChargesStore
	SettingsStore
	LedgerStore
	generators.TransactionsStore
	generators.DocumentsStore
	generators.ExchangeRateProvider
	generators.DepreciationProvider
	generators.AnnualAmountsProvider
	generators.RevaluationProvider
}

type LedgerhubService struct {
	Config        *Config
	Logger        *lecho.Logger
	Charges       ChargesStore
	Settings      SettingsStore
	Ledger        LedgerStore
	Transactions  generators.TransactionsStore
	Documents     generators.DocumentsStore
	Rates         generators.ExchangeRateProvider
	Depreciation  generators.DepreciationProvider
	AnnualAmounts generators.AnnualAmountsProvider
	Revaluation   generators.RevaluationProvider
	// Publisher is nil when no rabbitmq connection is configured
	Publisher rabbitmq.Client
	Now       func() time.Time
}

func NewLedgerhubService(c *Config, store Store, logger *lecho.Logger) *LedgerhubService {
	return &LedgerhubService{
		Config:        c,
		Logger:        logger,
		Charges:       store,
		Settings:      store,
		Ledger:        store,
		Transactions:  store,
		Documents:     store,
		Rates:         store,
		Depreciation:  store,
		AnnualAmounts: store,
		Revaluation:   store,
		Now:           time.Now,
	}
}

func (svc *LedgerhubService) now() time.Time {
	if svc.Now == nil {
		return time.Now()
	}
	return svc.Now()
}

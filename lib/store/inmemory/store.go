package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/accounter/ledgerhub.go/lib/ledger/generators"
	"github.com/accounter/ledgerhub.go/lib/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type annualKey struct {
	ownerID uuid.UUID
	role    string
	year    int
}

// Store is an in-memory implementation of service.Store.
// It is safe for concurrent use. Data is lost on restart, use the bun
// backed store for persistence.
type Store struct {
	mu sync.RWMutex

	baseCurrency string
	charges      map[uuid.UUID]models.Charge
	settings     map[uuid.UUID]models.OwnerSettings
	transactions map[uuid.UUID][]models.Transaction
	documents    map[uuid.UUID][]models.Document
	rates        map[string][]models.ExchangeRate
	depreciation []models.DepreciationRecord
	annual       map[annualKey]decimal.Decimal
	records      map[uuid.UUID][]models.LedgerRecord
	generations  map[uuid.UUID]models.LedgerGeneration
}

// NewStore creates an empty store. Exchange rates added to it convert into
// baseCurrency.
func NewStore(baseCurrency string) *Store {
	return &Store{
		baseCurrency: baseCurrency,
		charges:      map[uuid.UUID]models.Charge{},
		settings:     map[uuid.UUID]models.OwnerSettings{},
		transactions: map[uuid.UUID][]models.Transaction{},
		documents:    map[uuid.UUID][]models.Document{},
		rates:        map[string][]models.ExchangeRate{},
		annual:       map[annualKey]decimal.Decimal{},
		records:      map[uuid.UUID][]models.LedgerRecord{},
		generations:  map[uuid.UUID]models.LedgerGeneration{},
	}
}

func (s *Store) AddCharge(charge models.Charge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.charges[charge.ID] = charge
}

func (s *Store) PutOwnerSettings(settings models.OwnerSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings.BankDepositAccountIDs = append([]uuid.UUID(nil), settings.BankDepositAccountIDs...)
	s.settings[settings.OwnerID] = settings
}

func (s *Store) AddTransactions(transactions ...models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range transactions {
		s.transactions[tx.ChargeID] = append(s.transactions[tx.ChargeID], tx)
	}
}

func (s *Store) AddDocuments(documents ...models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range documents {
		s.documents[doc.ChargeID] = append(s.documents[doc.ChargeID], doc)
	}
}

func (s *Store) AddExchangeRate(rate models.ExchangeRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rates := append(s.rates[rate.Currency], rate)
	sort.Slice(rates, func(i, j int) bool { return rates[i].Date.Before(rates[j].Date) })
	s.rates[rate.Currency] = rates
}

func (s *Store) AddDepreciation(records ...models.DepreciationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.depreciation = append(s.depreciation, records...)
}

func (s *Store) PutAnnualAmount(amount models.AnnualAmount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annual[annualKey{amount.OwnerID, amount.Role, amount.Year}] = amount.Amount
}

func (s *Store) ChargeByID(ctx context.Context, chargeID uuid.UUID) (*models.Charge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	charge, ok := s.charges[chargeID]
	if !ok {
		return nil, ledger.ChargeNotFoundError{ChargeID: chargeID}
	}
	return &charge, nil
}

func (s *Store) LockCharge(ctx context.Context, chargeID uuid.UUID, lockedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	charge, ok := s.charges[chargeID]
	if !ok {
		return ledger.ChargeNotFoundError{ChargeID: chargeID}
	}
	charge.LockedAt.Time = lockedAt
	s.charges[chargeID] = charge
	return nil
}

func (s *Store) OwnerSettings(ctx context.Context, ownerID uuid.UUID) (*models.OwnerSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[ownerID]
	if !ok {
		return nil, ledger.MissingSettingsError{OwnerID: ownerID}
	}
	settings.BankDepositAccountIDs = append([]uuid.UUID(nil), settings.BankDepositAccountIDs...)
	return &settings, nil
}

func (s *Store) TransactionsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Transaction(nil), s.transactions[chargeID]...), nil
}

func (s *Store) DocumentsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Document(nil), s.documents[chargeID]...), nil
}

// Rate returns the rate of the latest stored quote on or before the date.
func (s *Store) Rate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	fromRate, err := s.baseRate(from, on)
	if err != nil {
		return decimal.Zero, err
	}
	toRate, err := s.baseRate(to, on)
	if err != nil {
		return decimal.Zero, err
	}
	return money.RoundRate(fromRate.Div(toRate)), nil
}

func (s *Store) baseRate(currency string, on time.Time) (decimal.Decimal, error) {
	if currency == s.baseCurrency {
		return decimal.NewFromInt(1), nil
	}
	rates := s.rates[currency]
	for i := len(rates) - 1; i >= 0; i-- {
		if !rates[i].Date.After(on) {
			return rates[i].Rate, nil
		}
	}
	return decimal.Zero, ledger.MissingExchangeRateError{Currency: currency, Date: on}
}

func (s *Store) YearlyDepreciationTotals(ctx context.Context, ownerID uuid.UUID, year int) (generators.DepreciationTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []models.DepreciationRecord
	for _, record := range s.depreciation {
		if record.OwnerID == ownerID && record.Year == year {
			records = append(records, record)
		}
	}
	return generators.SumDepreciation(records), nil
}

func (s *Store) AnnualAmount(ctx context.Context, ownerID uuid.UUID, role string, year int) (decimal.Decimal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	amount, ok := s.annual[annualKey{ownerID, role, year}]
	return amount, ok, nil
}

func (s *Store) ForeignBalances(ctx context.Context, ownerID uuid.UUID, localCurrency string, asOf time.Time, accounts []uuid.UUID) ([]generators.ForeignBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []models.LedgerRecord
	for _, chargeRecords := range s.records {
		for _, record := range chargeRecords {
			if record.OwnerID == ownerID && !record.ValueDate.After(asOf) {
				records = append(records, record)
			}
		}
	}
	return generators.SumForeignBalances(records, localCurrency, accounts), nil
}

func (s *Store) RecordsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.LedgerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.LedgerRecord(nil), s.records[chargeID]...), nil
}

// InsertIfAbsent implements service.LedgerStore. The store lock makes the
// existence check and the insert atomic.
func (s *Store) InsertIfAbsent(ctx context.Context, charge *models.Charge, generatorKind string, records []models.LedgerRecord) ([]models.LedgerRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, generated := s.generations[charge.ID]; generated {
		return append([]models.LedgerRecord(nil), s.records[charge.ID]...), false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	now := time.Now()
	stored := make([]models.LedgerRecord, len(records))
	for i, record := range records {
		if record.ID == uuid.Nil {
			record.ID = uuid.New()
		}
		record.CreatedAt = now
		stored[i] = record
	}
	s.records[charge.ID] = stored
	s.generations[charge.ID] = models.LedgerGeneration{
		ChargeID:      charge.ID,
		OwnerID:       charge.OwnerID,
		GeneratorKind: generatorKind,
		CreatedAt:     now,
	}
	return append([]models.LedgerRecord(nil), stored...), true, nil
}

// ReplaceRecords implements service.LedgerStore under the store lock.
func (s *Store) ReplaceRecords(ctx context.Context, charge *models.Charge, generatorKind string, records []models.LedgerRecord) ([]models.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.charges[charge.ID]
	if !ok {
		return nil, ledger.ChargeNotFoundError{ChargeID: charge.ID}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stored.LockedAt.Time = time.Time{}
	s.charges[charge.ID] = stored
	delete(s.records, charge.ID)
	delete(s.generations, charge.ID)
	if len(records) == 0 {
		return []models.LedgerRecord{}, nil
	}

	now := time.Now()
	replaced := make([]models.LedgerRecord, len(records))
	for i, record := range records {
		record.ID = uuid.New()
		record.CreatedAt = now
		replaced[i] = record
	}
	s.records[charge.ID] = replaced
	s.generations[charge.ID] = models.LedgerGeneration{
		ChargeID:      charge.ID,
		OwnerID:       charge.OwnerID,
		GeneratorKind: generatorKind,
		CreatedAt:     now,
	}
	return append([]models.LedgerRecord(nil), replaced...), nil
}

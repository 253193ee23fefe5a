package generators

import (
	"context"
	"fmt"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type annualKey struct {
	role string
	year int
}

// sources serves every collaborator a generator reads from memory.
type sources struct {
	transactions  []models.Transaction
	documents     []models.Document
	rates         map[string]decimal.Decimal
	depreciation  map[int]DepreciationTotals
	annual        map[annualKey]decimal.Decimal
	balances      []ForeignBalance
	fetchErr      error
	balanceFilter []uuid.UUID
}

func (s *sources) TransactionsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.Transaction, error) {
	return s.transactions, s.fetchErr
}

func (s *sources) DocumentsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.Document, error) {
	return s.documents, nil
}

func (s *sources) Rate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error) {
	rate, ok := s.rates[fmt.Sprintf("%s/%s", from, on.Format("2006-01-02"))]
	if !ok {
		return decimal.Zero, ledger.MissingExchangeRateError{Currency: from, Date: on}
	}
	return rate, nil
}

func (s *sources) YearlyDepreciationTotals(ctx context.Context, ownerID uuid.UUID, year int) (DepreciationTotals, error) {
	return s.depreciation[year], s.fetchErr
}

func (s *sources) AnnualAmount(ctx context.Context, ownerID uuid.UUID, role string, year int) (decimal.Decimal, bool, error) {
	amount, ok := s.annual[annualKey{role, year}]
	return amount, ok, s.fetchErr
}

func (s *sources) ForeignBalances(ctx context.Context, ownerID uuid.UUID, localCurrency string, asOf time.Time, accounts []uuid.UUID) ([]ForeignBalance, error) {
	s.balanceFilter = accounts
	return s.balances, s.fetchErr
}

func (s *sources) context(settings *models.OwnerSettings, now time.Time) *Context {
	return &Context{
		Settings:      settings,
		Now:           now,
		Transactions:  s,
		Documents:     s,
		Rates:         s,
		Depreciation:  s,
		AnnualAmounts: s,
		Revaluation:   s,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

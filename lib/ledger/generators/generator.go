package generators

import (
	"context"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies a ledger generator. The set is closed: every kind has
// exactly one generator and unknown kinds are rejected.
type Kind string

const (
	KindBalance                Kind = "balance"
	KindExchangeRevaluation    Kind = "exchange_revaluation"
	KindTaxExpense             Kind = "tax_expense"
	KindDepreciationExpense    Kind = "depreciation_expense"
	KindRecoveryReserve        Kind = "recovery_reserve"
	KindVacationReserve        Kind = "vacation_reserve"
	KindBankDepositRevaluation Kind = "bank_deposit_revaluation"
)

func (k Kind) String() string {
	return string(k)
}

type TransactionsStore interface {
	TransactionsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.Transaction, error)
}

type DocumentsStore interface {
	DocumentsByChargeID(ctx context.Context, chargeID uuid.UUID) ([]models.Document, error)
}

// ExchangeRateProvider returns historical rates, deterministic for a date.
type ExchangeRateProvider interface {
	Rate(ctx context.Context, from, to string, on time.Time) (decimal.Decimal, error)
}

type DepreciationTotals struct {
	Rnd       decimal.Decimal `json:"rnd"`
	Gnm       decimal.Decimal `json:"gnm"`
	Marketing decimal.Decimal `json:"marketing"`
	Total     decimal.Decimal `json:"total"`
}

type DepreciationProvider interface {
	YearlyDepreciationTotals(ctx context.Context, ownerID uuid.UUID, year int) (DepreciationTotals, error)
}

// AnnualAmountsProvider returns yearly figures such as the tax expense or a
// reserve balance. found is false when no figure was recorded for the year.
type AnnualAmountsProvider interface {
	AnnualAmount(ctx context.Context, ownerID uuid.UUID, role string, year int) (amount decimal.Decimal, found bool, err error)
}

// ForeignBalance is the booked balance of an account held in a foreign
// currency.
type ForeignBalance struct {
	AccountID     uuid.UUID
	Currency      string
	ForeignAmount decimal.Decimal
	LocalAmount   decimal.Decimal
}

type RevaluationProvider interface {
	// ForeignBalances lists foreign currency balances as of asOf. When
	// accounts is not empty only those accounts are considered.
	ForeignBalances(ctx context.Context, ownerID uuid.UUID, localCurrency string, asOf time.Time, accounts []uuid.UUID) ([]ForeignBalance, error)
}

// Context carries everything a generator reads. It is built per generation
// call; Rates is expected to be memoized for the current request only.
type Context struct {
	Settings      *models.OwnerSettings
	Now           time.Time
	Transactions  TransactionsStore
	Documents     DocumentsStore
	Rates         ExchangeRateProvider
	Depreciation  DepreciationProvider
	AnnualAmounts AnnualAmountsProvider
	Revaluation   RevaluationProvider
}

func (gc *Context) LocalCurrency() string {
	return gc.Settings.LocalCurrency
}

// Proposal is the entry set of one generation together with the rule it has
// to be validated with.
type Proposal struct {
	Kind    Kind
	Records []models.LedgerRecord
	Rule    ledger.BalanceRule
}

func (p *Proposal) add(posting ledger.Posting, charge *models.Charge) {
	if record, ok := posting.Record(charge, p.Kind.String()); ok {
		p.Records = append(p.Records, record)
	}
}

// Generator builds the proposed ledger of a charge. Domain failures are
// returned as a CommonError, err is reserved for infrastructure failures.
type Generator interface {
	Kind() Kind
	Generate(ctx context.Context, charge *models.Charge, gc *Context) (*Proposal, *ledger.CommonError, error)
}

// ForKind returns the generator of kind.
func ForKind(kind Kind) (Generator, error) {
	switch kind {
	case KindBalance:
		return balanceGenerator{}, nil
	case KindDepreciationExpense:
		return depreciationGenerator{}, nil
	case KindTaxExpense:
		return taxExpenseGenerator{}, nil
	case KindRecoveryReserve:
		return reserveGenerator{kind: KindRecoveryReserve, label: "Recovery reserve"}, nil
	case KindVacationReserve:
		return reserveGenerator{kind: KindVacationReserve, label: "Vacation reserve"}, nil
	case KindExchangeRevaluation:
		return revaluationGenerator{kind: KindExchangeRevaluation}, nil
	case KindBankDepositRevaluation:
		return revaluationGenerator{kind: KindBankDepositRevaluation, depositsOnly: true}, nil
	default:
		return nil, ledger.NewCommonError("unknown ledger generator %q", kind)
	}
}

// splitError separates domain failures from infrastructure failures.
func splitError(err error) (*ledger.CommonError, error) {
	if commonErr, ok := ledger.AsCommonError(err); ok {
		return commonErr, nil
	}
	return nil, err
}

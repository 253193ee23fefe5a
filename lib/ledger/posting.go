package ledger

import (
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Posting is a simple two-sided movement of Amount from CreditAccount to
// DebitAccount. A negative amount swaps the sides. Either account may be
// left unassigned.
type Posting struct {
	InvoiceDate   time.Time
	ValueDate     time.Time
	Currency      string
	Rate          decimal.Decimal
	DebitAccount  uuid.NullUUID
	CreditAccount uuid.NullUUID
	// Amount is in the local currency.
	Amount decimal.Decimal
	// ForeignAmount is set when Currency is not the local currency.
	ForeignAmount *decimal.Decimal
	Description   string
}

// Account wraps an id into an assigned account reference.
func Account(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: true}
}

// Unassigned is the undesignated side of a one-sided posting.
var Unassigned = uuid.NullUUID{}

// Record builds the ledger record of the posting. Postings netting to zero
// are not recorded and ok is false.
func (p Posting) Record(charge *models.Charge, kind string) (record models.LedgerRecord, ok bool) {
	amount := money.Round(p.Amount)
	if amount.IsZero() {
		return record, false
	}

	debit, credit := p.DebitAccount, p.CreditAccount
	if amount.IsNegative() {
		debit, credit = credit, debit
	}
	amount = amount.Abs()

	rate := p.Rate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	record = models.LedgerRecord{
		OwnerID:            charge.OwnerID,
		ChargeID:           charge.ID,
		GeneratorKind:      kind,
		InvoiceDate:        p.InvoiceDate,
		ValueDate:          p.ValueDate,
		Currency:           p.Currency,
		CurrencyRate:       money.RoundRate(rate),
		CreditAccountID1:   credit,
		DebitAccountID1:    debit,
		LocalCreditAmount1: amount,
		LocalDebitAmount1:  amount,
		Description:        p.Description,
	}
	if p.ForeignAmount != nil {
		foreign := money.Round(p.ForeignAmount.Abs())
		record.ForeignCreditAmount1 = &foreign
		record.ForeignDebitAmount1 = &foreign
	}
	return record, true
}

// EndOfYear is December 31st of year, the date yearly adjustments are booked on.
func EndOfYear(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

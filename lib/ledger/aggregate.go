package ledger

import (
	"strings"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregatedTransaction is the single normalized view of the non-fee
// transactions of a charge. It is derived on every generation, never stored.
type AggregatedTransaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	BusinessID  uuid.NullUUID   `json:"business_id"`
	EventDate   time.Time       `json:"event_date"`
	DebitDate   *time.Time      `json:"debit_date,omitempty"`
	Description string          `json:"description"`
}

// ValueDate is the date currency conversion is done for: the debit date when
// known (debit timestamp first, then debit date), the event date otherwise.
func (a *AggregatedTransaction) ValueDate() time.Time {
	if a.DebitDate != nil {
		return *a.DebitDate
	}
	return a.EventDate
}

// Aggregate merges the transactions of one charge. Fees are ignored; the
// remaining transactions must share a single currency and at most one
// counterparty.
func Aggregate(transactions []models.Transaction) (*AggregatedTransaction, error) {
	if len(transactions) == 0 {
		return nil, EmptyInputError{}
	}

	primary := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.IsFee {
			continue
		}
		primary = append(primary, tx)
	}
	if len(primary) == 0 {
		return nil, AllFeesError{Count: len(transactions)}
	}

	currencies := []string{}
	seenCurrency := map[string]bool{}
	businesses := []uuid.UUID{}
	seenBusiness := map[uuid.UUID]bool{}
	for _, tx := range primary {
		if !seenCurrency[tx.Currency] {
			seenCurrency[tx.Currency] = true
			currencies = append(currencies, tx.Currency)
		}
		if tx.BusinessID.Valid && !seenBusiness[tx.BusinessID.UUID] {
			seenBusiness[tx.BusinessID.UUID] = true
			businesses = append(businesses, tx.BusinessID.UUID)
		}
	}
	if len(currencies) > 1 {
		return nil, MixedCurrencyError{Currencies: currencies}
	}
	if len(businesses) > 1 {
		return nil, MixedCounterpartyError{BusinessIDs: businesses}
	}

	aggregated := &AggregatedTransaction{
		Amount:    decimal.Zero,
		Currency:  currencies[0],
		EventDate: primary[0].EventDate,
	}
	if len(businesses) == 1 {
		aggregated.BusinessID = uuid.NullUUID{UUID: businesses[0], Valid: true}
	}

	descriptions := []string{}
	for _, tx := range primary {
		aggregated.Amount = aggregated.Amount.Add(tx.Amount)

		if tx.EventDate.Before(aggregated.EventDate) {
			aggregated.EventDate = tx.EventDate
		}
		if debitDate := debitDateOf(tx); debitDate != nil {
			if aggregated.DebitDate == nil || debitDate.Before(*aggregated.DebitDate) {
				aggregated.DebitDate = debitDate
			}
		}

		if strings.TrimSpace(tx.SourceDescription) != "" {
			descriptions = append(descriptions, tx.SourceDescription)
		}
	}
	aggregated.Description = strings.Join(descriptions, "\n")

	return aggregated, nil
}

func debitDateOf(tx models.Transaction) *time.Time {
	if tx.DebitTimestamp != nil {
		t := *tx.DebitTimestamp
		return &t
	}
	if tx.DebitDate != nil {
		t := *tx.DebitDate
		return &t
	}
	return nil
}

package generators

import (
	"sort"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SumDepreciation totals depreciation records per cost center.
func SumDepreciation(records []models.DepreciationRecord) DepreciationTotals {
	totals := DepreciationTotals{
		Rnd:       decimal.Zero,
		Gnm:       decimal.Zero,
		Marketing: decimal.Zero,
		Total:     decimal.Zero,
	}
	for _, record := range records {
		switch record.Category {
		case models.DepreciationCategoryRnd:
			totals.Rnd = totals.Rnd.Add(record.Amount)
		case models.DepreciationCategoryGnm:
			totals.Gnm = totals.Gnm.Add(record.Amount)
		case models.DepreciationCategoryMarketing:
			totals.Marketing = totals.Marketing.Add(record.Amount)
		default:
			continue
		}
		totals.Total = totals.Total.Add(record.Amount)
	}
	return totals
}

type balanceKey struct {
	account  uuid.UUID
	currency string
}

// SumForeignBalances nets ledger records held in a foreign currency per
// account and currency. Debits increase a balance, credits decrease it. When
// accounts is not empty only those accounts are reported.
func SumForeignBalances(records []models.LedgerRecord, localCurrency string, accounts []uuid.UUID) []ForeignBalance {
	wanted := map[uuid.UUID]bool{}
	for _, account := range accounts {
		wanted[account] = true
	}
	balances := map[balanceKey]*ForeignBalance{}
	add := func(account uuid.NullUUID, currency string, foreign *decimal.Decimal, local *decimal.Decimal, sign int64) {
		if !account.Valid || foreign == nil {
			return
		}
		if len(wanted) > 0 && !wanted[account.UUID] {
			return
		}
		key := balanceKey{account: account.UUID, currency: currency}
		balance, ok := balances[key]
		if !ok {
			balance = &ForeignBalance{AccountID: account.UUID, Currency: currency, ForeignAmount: decimal.Zero, LocalAmount: decimal.Zero}
			balances[key] = balance
		}
		factor := decimal.NewFromInt(sign)
		balance.ForeignAmount = balance.ForeignAmount.Add(foreign.Mul(factor))
		if local != nil {
			balance.LocalAmount = balance.LocalAmount.Add(local.Mul(factor))
		}
	}
	for i := range records {
		record := &records[i]
		if record.Currency == localCurrency {
			continue
		}
		add(record.DebitAccountID1, record.Currency, record.ForeignDebitAmount1, &record.LocalDebitAmount1, 1)
		add(record.DebitAccountID2, record.Currency, record.ForeignDebitAmount2, record.LocalDebitAmount2, 1)
		add(record.CreditAccountID1, record.Currency, record.ForeignCreditAmount1, &record.LocalCreditAmount1, -1)
		add(record.CreditAccountID2, record.Currency, record.ForeignCreditAmount2, record.LocalCreditAmount2, -1)
	}

	result := make([]ForeignBalance, 0, len(balances))
	for _, balance := range balances {
		if balance.ForeignAmount.IsZero() && balance.LocalAmount.IsZero() {
			continue
		}
		result = append(result, *balance)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].AccountID != result[j].AccountID {
			return result[i].AccountID.String() < result[j].AccountID.String()
		}
		return result[i].Currency < result[j].Currency
	})
	return result
}

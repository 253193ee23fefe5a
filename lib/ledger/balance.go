package ledger

import (
	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceRule carries the accounting rule of a charge kind for validation.
type BalanceRule struct {
	LocalCurrency string
	// Businesses are the counterparty accounts of the charge.
	Businesses []uuid.UUID
	// RequireBusinessesNetZero makes every account in Businesses net to zero.
	RequireBusinessesNetZero bool
	// Positions are the local amounts the charge leaves open on business
	// accounts outside of the records, debit positive. The records have to
	// settle them.
	Positions map[uuid.UUID]decimal.Decimal
}

type BalanceReport struct {
	IsBalanced         bool            `json:"is_balanced"`
	BalanceSum         decimal.Decimal `json:"balance_sum"`
	UnbalancedEntities []uuid.UUID     `json:"unbalanced_entities"`
	FinancialEntities  []uuid.UUID     `json:"financial_entities"`
}

type currencyTotals struct {
	credit decimal.Decimal
	debit  decimal.Decimal
	rate   decimal.Decimal
}

// Validate checks that the records net to zero per currency and, when the
// rule asks for it, per counterparty account.
func Validate(records []models.LedgerRecord, rule BalanceRule) BalanceReport {
	report := BalanceReport{
		BalanceSum:         decimal.Zero,
		UnbalancedEntities: []uuid.UUID{},
		FinancialEntities:  []uuid.UUID{},
	}

	local := &currencyTotals{credit: decimal.Zero, debit: decimal.Zero}
	foreign := map[string]*currencyTotals{}
	foreignOrder := []string{}
	accountNet := map[uuid.UUID]decimal.Decimal{}
	seenAccount := map[uuid.UUID]bool{}

	touch := func(account uuid.NullUUID, amount decimal.Decimal) {
		if !account.Valid {
			return
		}
		if !seenAccount[account.UUID] {
			seenAccount[account.UUID] = true
			report.FinancialEntities = append(report.FinancialEntities, account.UUID)
			accountNet[account.UUID] = decimal.Zero
		}
		accountNet[account.UUID] = accountNet[account.UUID].Add(amount)
	}

	for _, record := range records {
		credit := record.LocalCreditAmount1.Add(valueOrZero(record.LocalCreditAmount2))
		debit := record.LocalDebitAmount1.Add(valueOrZero(record.LocalDebitAmount2))
		local.credit = local.credit.Add(credit)
		local.debit = local.debit.Add(debit)

		touch(record.DebitAccountID1, record.LocalDebitAmount1)
		touch(record.DebitAccountID2, valueOrZero(record.LocalDebitAmount2))
		touch(record.CreditAccountID1, record.LocalCreditAmount1.Neg())
		touch(record.CreditAccountID2, valueOrZero(record.LocalCreditAmount2).Neg())

		if record.Currency == rule.LocalCurrency {
			continue
		}
		totals, ok := foreign[record.Currency]
		if !ok {
			totals = &currencyTotals{credit: decimal.Zero, debit: decimal.Zero}
			foreign[record.Currency] = totals
			foreignOrder = append(foreignOrder, record.Currency)
		}
		totals.credit = totals.credit.Add(valueOrZero(record.ForeignCreditAmount1)).Add(valueOrZero(record.ForeignCreditAmount2))
		totals.debit = totals.debit.Add(valueOrZero(record.ForeignDebitAmount1)).Add(valueOrZero(record.ForeignDebitAmount2))
		totals.rate = record.CurrencyRate
	}

	balanced := money.WithinTolerance(local.debit, local.credit)
	residual := local.debit.Sub(local.credit)
	for _, currency := range foreignOrder {
		totals := foreign[currency]
		if !money.WithinTolerance(totals.debit, totals.credit) {
			balanced = false
		}
		residual = residual.Add(totals.debit.Sub(totals.credit).Mul(totals.rate))
	}

	if rule.RequireBusinessesNetZero {
		reported := map[uuid.UUID]bool{}
		for _, business := range rule.Businesses {
			if reported[business] {
				continue
			}
			net, touched := accountNet[business]
			position, open := rule.Positions[business]
			if !touched && !open {
				continue
			}
			if !money.WithinTolerance(net.Add(position), decimal.Zero) {
				reported[business] = true
				report.UnbalancedEntities = append(report.UnbalancedEntities, business)
			}
		}
	}

	report.IsBalanced = balanced && len(report.UnbalancedEntities) == 0
	if !report.IsBalanced {
		report.BalanceSum = money.Round(residual)
	}
	return report
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

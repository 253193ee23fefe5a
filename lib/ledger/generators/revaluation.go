package generators

import (
	"context"
	"fmt"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/accounter/ledgerhub.go/lib/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// revaluationGenerator restates the foreign currency balances of the owner
// at the year end rate.
type revaluationGenerator struct {
	kind         Kind
	depositsOnly bool
}

func (g revaluationGenerator) Kind() Kind {
	return g.kind
}

func (g revaluationGenerator) Generate(ctx context.Context, charge *models.Charge, gc *Context) (*Proposal, *ledger.CommonError, error) {
	year, commonErr := ExtractYear(charge.UserDescription, gc.Now)
	if commonErr != nil {
		return nil, commonErr, nil
	}
	if g.depositsOnly && len(gc.Settings.BankDepositAccountIDs) == 0 {
		return nil, ledger.NewCommonError("no bank deposit accounts configured for owner %s", charge.OwnerID), nil
	}

	date := ledger.EndOfYear(year)
	accounts := gc.Settings.BankDepositAccountIDs
	if !g.depositsOnly {
		accounts = nil
	}
	balances, err := gc.Revaluation.ForeignBalances(ctx, charge.OwnerID, gc.LocalCurrency(), date, accounts)
	if err != nil {
		commonErr, err := splitError(err)
		return nil, commonErr, err
	}

	proposal := &Proposal{
		Kind: g.Kind(),
		Rule: ledger.BalanceRule{LocalCurrency: gc.LocalCurrency()},
	}
	counterAccounts := map[uuid.UUID]bool{}
	for _, category := range []uuid.NullUUID{
		charge.TaxCategoryID,
		gc.Settings.ExchangeRevaluationTaxCategoryID,
		gc.Settings.BankDepositRevaluationTaxCategoryID,
	} {
		if category.Valid {
			counterAccounts[category.UUID] = true
		}
	}
	for _, balance := range balances {
		if balance.Currency == gc.LocalCurrency() || counterAccounts[balance.AccountID] {
			continue
		}
		rate, err := gc.Rates.Rate(ctx, balance.Currency, gc.LocalCurrency(), date)
		if err != nil {
			commonErr, err := splitError(err)
			return nil, commonErr, err
		}
		diff := money.Convert(balance.ForeignAmount, rate).Sub(balance.LocalAmount)
		// booked in the balance currency with no foreign movement so later
		// years see the restated local amount
		noForeign := decimal.Zero
		proposal.add(ledger.Posting{
			InvoiceDate:   date,
			ValueDate:     date,
			Currency:      balance.Currency,
			Rate:          rate,
			ForeignAmount: &noForeign,
			DebitAccount:  ledger.Account(balance.AccountID),
			CreditAccount: charge.TaxCategoryID,
			Amount:        diff,
			Description:   fmt.Sprintf("Revaluation of %s balance %d", balance.Currency, year),
		}, charge)
	}
	return proposal, nil, nil
}

package generators

import (
	"context"
	"sort"
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/accounter/ledgerhub.go/lib/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/tomb.v2"
)

// balanceGenerator is the default path: it posts the difference between what
// moved on the accounts and what was documented against the counterparty.
type balanceGenerator struct{}

func (balanceGenerator) Kind() Kind {
	return KindBalance
}

func (g balanceGenerator) Generate(ctx context.Context, charge *models.Charge, gc *Context) (*Proposal, *ledger.CommonError, error) {
	transactions, documents, err := fetchChargeFacts(ctx, charge.ID, gc)
	if err != nil {
		return nil, nil, err
	}

	aggregated, err := ledger.Aggregate(transactions)
	if err != nil {
		commonErr, err := splitError(err)
		return nil, commonErr, err
	}
	if !aggregated.BusinessID.Valid {
		return nil, ledger.NewCommonError("charge %s has no counterparty, unable to balance it", charge.ID), nil
	}

	localCurrency := gc.LocalCurrency()
	rateOn := func(currency string, date time.Time) (decimal.Decimal, error) {
		return gc.Rates.Rate(ctx, currency, localCurrency, date)
	}

	rate := decimal.NewFromInt(1)
	if aggregated.Currency != localCurrency {
		rate, err = rateOn(aggregated.Currency, aggregated.ValueDate())
		if err != nil {
			commonErr, err := splitError(err)
			return nil, commonErr, err
		}
	}
	transactionsLocal := money.Convert(aggregated.Amount, rate)

	documented, err := ledger.ComputeDocumentsAmounts(documents, charge.OwnerID, localCurrency, rateOn)
	if err != nil {
		commonErr, err := splitError(err)
		return nil, commonErr, err
	}
	delta := transactionsLocal.Sub(documented.Amount())

	description := aggregated.Description
	if charge.UserDescription != "" {
		description = charge.UserDescription
	}
	posting := ledger.Posting{
		InvoiceDate:   aggregated.EventDate,
		ValueDate:     aggregated.ValueDate(),
		Currency:      aggregated.Currency,
		Rate:          rate,
		DebitAccount:  ledger.Account(gc.Settings.DefaultTaxCategoryID),
		CreditAccount: aggregated.BusinessID,
		Amount:        delta,
		Description:   description,
	}
	if aggregated.Currency != localCurrency {
		foreign := money.ConvertBack(delta, rate)
		posting.ForeignAmount = &foreign
	}

	proposal := &Proposal{
		Kind: g.Kind(),
		Rule: counterpartyRule(localCurrency, aggregated.BusinessID.UUID, transactionsLocal, documented),
	}
	proposal.add(posting, charge)
	return proposal, nil, nil
}

// counterpartyRule requires the balance posting to settle every counterparty
// of the charge. The business that was paid carries the money that moved
// less the documents it issued or received. Documents naming another
// business leave that business open, and the charge unbalanced.
func counterpartyRule(localCurrency string, business uuid.UUID, transactionsLocal decimal.Decimal, documented ledger.DocumentsAmounts) ledger.BalanceRule {
	positions := map[uuid.UUID]decimal.Decimal{business: transactionsLocal}
	others := []uuid.UUID{}
	for counterparty, amount := range documented.AmountsByCounterparty() {
		if counterparty == uuid.Nil {
			counterparty = business
		}
		if _, ok := positions[counterparty]; !ok {
			positions[counterparty] = decimal.Zero
			others = append(others, counterparty)
		}
		positions[counterparty] = positions[counterparty].Sub(amount)
	}
	sort.Slice(others, func(i, j int) bool {
		return others[i].String() < others[j].String()
	})
	for counterparty, position := range positions {
		positions[counterparty] = money.Round(position)
	}
	return ledger.BalanceRule{
		LocalCurrency:            localCurrency,
		Businesses:               append([]uuid.UUID{business}, others...),
		RequireBusinessesNetZero: true,
		Positions:                positions,
	}
}

// fetchChargeFacts loads transactions and documents of the charge
// concurrently. The first failure cancels the other fetch.
func fetchChargeFacts(ctx context.Context, chargeID uuid.UUID, gc *Context) ([]models.Transaction, []models.Document, error) {
	var (
		transactions []models.Transaction
		documents    []models.Document
	)
	t, tctx := tomb.WithContext(ctx)
	t.Go(func() error {
		// started from a tracked goroutine so the tomb cannot die in between
		t.Go(func() error {
			var err error
			documents, err = gc.Documents.DocumentsByChargeID(tctx, chargeID)
			return err
		})
		var err error
		transactions, err = gc.Transactions.TransactionsByChargeID(tctx, chargeID)
		return err
	})
	if err := t.Wait(); err != nil {
		return nil, nil, err
	}
	return transactions, documents, nil
}

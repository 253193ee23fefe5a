package generators

import (
	"context"
	"fmt"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type depreciationGenerator struct{}

func (depreciationGenerator) Kind() Kind {
	return KindDepreciationExpense
}

func (g depreciationGenerator) Generate(ctx context.Context, charge *models.Charge, gc *Context) (*Proposal, *ledger.CommonError, error) {
	year, commonErr := ExtractYear(charge.UserDescription, gc.Now)
	if commonErr != nil {
		return nil, commonErr, nil
	}

	totals, err := gc.Depreciation.YearlyDepreciationTotals(ctx, charge.OwnerID, year)
	if err != nil {
		commonErr, err := splitError(err)
		return nil, commonErr, err
	}

	settings := gc.Settings
	buckets := []struct {
		name    string
		amount  decimal.Decimal
		account uuid.NullUUID
	}{
		{"R&D", totals.Rnd, settings.RndDepreciationTaxCategoryID},
		{"G&A", totals.Gnm, settings.GnmDepreciationTaxCategoryID},
		{"marketing", totals.Marketing, settings.MarketingDepreciationTaxCategoryID},
	}

	date := ledger.EndOfYear(year)
	proposal := &Proposal{
		Kind: g.Kind(),
		Rule: ledger.BalanceRule{LocalCurrency: gc.LocalCurrency()},
	}
	for _, bucket := range buckets {
		if bucket.amount.IsZero() {
			continue
		}
		if !bucket.account.Valid {
			return nil, ledger.NewCommonError("no %s depreciation tax category configured for owner %s", bucket.name, charge.OwnerID), nil
		}
		proposal.add(ledger.Posting{
			InvoiceDate:   date,
			ValueDate:     date,
			Currency:      gc.LocalCurrency(),
			DebitAccount:  bucket.account,
			CreditAccount: ledger.Unassigned,
			Amount:        bucket.amount,
			Description:   fmt.Sprintf("%s depreciation %d", bucket.name, year),
		}, charge)
	}

	if !totals.Total.IsZero() {
		if !settings.AccumulatedDepreciationTaxCategoryID.Valid {
			return nil, ledger.NewCommonError("no accumulated depreciation tax category configured for owner %s", charge.OwnerID), nil
		}
		proposal.add(ledger.Posting{
			InvoiceDate:   date,
			ValueDate:     date,
			Currency:      gc.LocalCurrency(),
			DebitAccount:  ledger.Unassigned,
			CreditAccount: settings.AccumulatedDepreciationTaxCategoryID,
			Amount:        totals.Total,
			Description:   fmt.Sprintf("Accumulated depreciation %d", year),
		}, charge)
	}
	return proposal, nil, nil
}

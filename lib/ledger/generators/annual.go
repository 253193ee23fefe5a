package generators

import (
	"context"
	"fmt"
	"strings"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/shopspring/decimal"
)

type taxExpenseGenerator struct{}

func (taxExpenseGenerator) Kind() Kind {
	return KindTaxExpense
}

func (g taxExpenseGenerator) Generate(ctx context.Context, charge *models.Charge, gc *Context) (*Proposal, *ledger.CommonError, error) {
	year, commonErr := ExtractYear(charge.UserDescription, gc.Now)
	if commonErr != nil {
		return nil, commonErr, nil
	}
	amount, found, err := gc.AnnualAmounts.AnnualAmount(ctx, charge.OwnerID, models.AnnualRoleTaxExpense, year)
	if err != nil {
		commonErr, err := splitError(err)
		return nil, commonErr, err
	}
	if !found {
		return nil, ledger.NewCommonError("no tax expense amount recorded for %d", year), nil
	}

	date := ledger.EndOfYear(year)
	proposal := &Proposal{
		Kind: g.Kind(),
		Rule: ledger.BalanceRule{LocalCurrency: gc.LocalCurrency()},
	}
	proposal.add(ledger.Posting{
		InvoiceDate:   date,
		ValueDate:     date,
		Currency:      gc.LocalCurrency(),
		DebitAccount:  charge.TaxCategoryID,
		CreditAccount: gc.Settings.TaxPayableAccountID,
		Amount:        amount,
		Description:   fmt.Sprintf("Tax expenses %d", year),
	}, charge)
	return proposal, nil, nil
}

// reserveGenerator books the yearly change of a reserve balance.
type reserveGenerator struct {
	kind  Kind
	label string
}

func (g reserveGenerator) Kind() Kind {
	return g.kind
}

func (g reserveGenerator) role() string {
	if g.kind == KindVacationReserve {
		return models.AnnualRoleVacationReserve
	}
	return models.AnnualRoleRecoveryReserve
}

func (g reserveGenerator) Generate(ctx context.Context, charge *models.Charge, gc *Context) (*Proposal, *ledger.CommonError, error) {
	year, commonErr := ExtractYear(charge.UserDescription, gc.Now)
	if commonErr != nil {
		return nil, commonErr, nil
	}

	current, found, err := gc.AnnualAmounts.AnnualAmount(ctx, charge.OwnerID, g.role(), year)
	if err != nil {
		commonErr, err := splitError(err)
		return nil, commonErr, err
	}
	if !found {
		return nil, ledger.NewCommonError("no %s balance recorded for %d", strings.ToLower(g.label), year), nil
	}
	// no previous figure means the reserve was opened this year
	previous, found, err := gc.AnnualAmounts.AnnualAmount(ctx, charge.OwnerID, g.role(), year-1)
	if err != nil {
		commonErr, err := splitError(err)
		return nil, commonErr, err
	}
	if !found {
		previous = decimal.Zero
	}

	liability := gc.Settings.RecoveryReserveLiabilityID
	if g.kind == KindVacationReserve {
		liability = gc.Settings.VacationReserveLiabilityID
	}

	date := ledger.EndOfYear(year)
	proposal := &Proposal{
		Kind: g.Kind(),
		Rule: ledger.BalanceRule{LocalCurrency: gc.LocalCurrency()},
	}
	proposal.add(ledger.Posting{
		InvoiceDate:   date,
		ValueDate:     date,
		Currency:      gc.LocalCurrency(),
		DebitAccount:  charge.TaxCategoryID,
		CreditAccount: liability,
		Amount:        current.Sub(previous),
		Description:   fmt.Sprintf("%s %d", g.label, year),
	}, charge)
	return proposal, nil, nil
}


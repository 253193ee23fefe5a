package generators

import (
	"time"

	"github.com/accounter/ledgerhub.go/db/models"
	"github.com/accounter/ledgerhub.go/lib/ledger"
	"github.com/google/uuid"
)

// Roles maps the tenant's well-known tax category ids to generator kinds.
type Roles map[uuid.UUID]Kind

// RolesFromSettings builds the mapping from the owner's configuration. The
// default tax category is assigned last so a misconfigured tenant reusing it
// for another role does not silently route that role to the balance generator.
func RolesFromSettings(settings *models.OwnerSettings) Roles {
	roles := Roles{}
	optional := []struct {
		id   uuid.NullUUID
		kind Kind
	}{
		{settings.ExchangeRevaluationTaxCategoryID, KindExchangeRevaluation},
		{settings.TaxExpensesTaxCategoryID, KindTaxExpense},
		{settings.DepreciationExpensesTaxCategoryID, KindDepreciationExpense},
		{settings.RecoveryReserveTaxCategoryID, KindRecoveryReserve},
		{settings.VacationReserveTaxCategoryID, KindVacationReserve},
		{settings.BankDepositRevaluationTaxCategoryID, KindBankDepositRevaluation},
	}
	for _, role := range optional {
		if role.id.Valid {
			roles[role.id.UUID] = role.kind
		}
	}
	if _, taken := roles[settings.DefaultTaxCategoryID]; !taken && settings.DefaultTaxCategoryID != uuid.Nil {
		roles[settings.DefaultTaxCategoryID] = KindBalance
	}
	return roles
}

// Resolve picks the generator kind of a tax category. There is no fallback.
func Resolve(taxCategoryID uuid.NullUUID, roles Roles) (Kind, error) {
	if !taxCategoryID.Valid {
		return "", ledger.UnsupportedTaxCategoryError{TaxCategoryID: taxCategoryID}
	}
	kind, ok := roles[taxCategoryID.UUID]
	if !ok {
		return "", ledger.UnsupportedTaxCategoryError{TaxCategoryID: taxCategoryID}
	}
	return kind, nil
}

// Resolver dispatches a charge to its generator once the lock predicate
// allowed regeneration.
type Resolver struct {
	roles  Roles
	policy ledger.LockPolicy
}

func NewResolver(settings *models.OwnerSettings) *Resolver {
	return &Resolver{
		roles:  RolesFromSettings(settings),
		policy: ledger.LockPolicyFor(settings),
	}
}

func (r *Resolver) Resolve(charge *models.Charge, existing []models.LedgerRecord) (Generator, *ledger.CommonError) {
	if ledger.IsLocked(charge, existing, r.policy) {
		commonErr, _ := ledger.AsCommonError(ledger.LockedChargeError{ChargeID: charge.ID, LockDate: r.lockDateFor(charge)})
		return nil, commonErr
	}
	kind, err := Resolve(charge.TaxCategoryID, r.roles)
	if err != nil {
		commonErr, _ := ledger.AsCommonError(err)
		return nil, commonErr
	}
	generator, err := ForKind(kind)
	if err != nil {
		commonErr, _ := ledger.AsCommonError(err)
		return nil, commonErr
	}
	return generator, nil
}

func (r *Resolver) lockDateFor(charge *models.Charge) *time.Time {
	if !charge.LockedAt.IsZero() {
		t := charge.LockedAt.Time
		return &t
	}
	return r.policy.LockDate
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// OwnerSettings : Owner Settings Model
// Tenant scoped accounting configuration: the well-known tax category ids
// the generators are dispatched by, the accounts they post against and the
// ledger lock policy.
type OwnerSettings struct {
	OwnerID       uuid.UUID `json:"owner_id" bun:"type:uuid,pk"`
	LocalCurrency string    `json:"local_currency" bun:",notnull,default:'ILS'"`

	DefaultTaxCategoryID                uuid.UUID     `json:"default_tax_category_id" bun:"type:uuid,notnull"`
	ExchangeRevaluationTaxCategoryID    uuid.NullUUID `json:"exchange_revaluation_tax_category_id" bun:"type:uuid,nullzero"`
	TaxExpensesTaxCategoryID            uuid.NullUUID `json:"tax_expenses_tax_category_id" bun:"type:uuid,nullzero"`
	DepreciationExpensesTaxCategoryID   uuid.NullUUID `json:"depreciation_expenses_tax_category_id" bun:"type:uuid,nullzero"`
	RecoveryReserveTaxCategoryID        uuid.NullUUID `json:"recovery_reserve_tax_category_id" bun:"type:uuid,nullzero"`
	VacationReserveTaxCategoryID        uuid.NullUUID `json:"vacation_reserve_tax_category_id" bun:"type:uuid,nullzero"`
	BankDepositRevaluationTaxCategoryID uuid.NullUUID `json:"bank_deposit_revaluation_tax_category_id" bun:"type:uuid,nullzero"`

	AccumulatedDepreciationTaxCategoryID uuid.NullUUID `json:"accumulated_depreciation_tax_category_id" bun:"type:uuid,nullzero"`
	RndDepreciationTaxCategoryID         uuid.NullUUID `json:"rnd_depreciation_tax_category_id" bun:"type:uuid,nullzero"`
	GnmDepreciationTaxCategoryID         uuid.NullUUID `json:"gnm_depreciation_tax_category_id" bun:"type:uuid,nullzero"`
	MarketingDepreciationTaxCategoryID   uuid.NullUUID `json:"marketing_depreciation_tax_category_id" bun:"type:uuid,nullzero"`

	TaxPayableAccountID        uuid.NullUUID `json:"tax_payable_account_id" bun:"type:uuid,nullzero"`
	RecoveryReserveLiabilityID uuid.NullUUID `json:"recovery_reserve_liability_id" bun:"type:uuid,nullzero"`
	VacationReserveLiabilityID uuid.NullUUID `json:"vacation_reserve_liability_id" bun:"type:uuid,nullzero"`
	BankDepositAccountIDs      []uuid.UUID   `json:"bank_deposit_account_ids"`

	// Records dated on or before the lock date belong to a closed period.
	LedgerLockDate *time.Time `json:"ledger_lock_date,omitempty" bun:",nullzero"`

	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DepreciationCategoryRnd       = "rnd"
	DepreciationCategoryGnm       = "gnm"
	DepreciationCategoryMarketing = "marketing"
)

// DepreciationRecord : Depreciation Record Model
type DepreciationRecord struct {
	ID       int64           `json:"id" bun:",pk,autoincrement"`
	OwnerID  uuid.UUID       `json:"owner_id" bun:"type:uuid,notnull"`
	Year     int             `json:"year" bun:",notnull"`
	Category string          `json:"category" bun:",notnull"`
	Amount   decimal.Decimal `json:"amount" bun:"type:numeric,notnull"`
}

const (
	AnnualRoleTaxExpense      = "tax_expense"
	AnnualRoleRecoveryReserve = "recovery_reserve"
	AnnualRoleVacationReserve = "vacation_reserve"
)

// AnnualAmount : Annual Amount Model
// Yearly figures computed outside the engine (tax expense, reserve balances).
type AnnualAmount struct {
	OwnerID uuid.UUID       `json:"owner_id" bun:"type:uuid,pk"`
	Year    int             `json:"year" bun:",pk"`
	Role    string          `json:"role" bun:",pk"`
	Amount  decimal.Decimal `json:"amount" bun:"type:numeric,notnull"`
}

package models

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ChargeType is the accounting classification of a charge.
type ChargeType string

const (
	ChargeTypeBalance                ChargeType = "balance"
	ChargeTypeConversion             ChargeType = "conversion"
	ChargeTypeSalary                 ChargeType = "salary"
	ChargeTypeDividend               ChargeType = "dividend"
	ChargeTypeBusinessTrip           ChargeType = "business_trip"
	ChargeTypeDepreciationExpense    ChargeType = "depreciation_expense"
	ChargeTypeTaxExpense             ChargeType = "tax_expense"
	ChargeTypeExchangeRevaluation    ChargeType = "exchange_revaluation"
	ChargeTypeBankDepositRevaluation ChargeType = "bank_deposit_revaluation"
	ChargeTypeRecoveryReserve        ChargeType = "recovery_reserve"
	ChargeTypeVacationReserve        ChargeType = "vacation_reserve"
)

// Charge : Charge Model
// The aggregate root grouping all financial facts of one economic event.
type Charge struct {
	ID              uuid.UUID     `json:"id" bun:"type:uuid,pk"`
	OwnerID         uuid.UUID     `json:"owner_id" bun:"type:uuid,notnull"`
	Type            ChargeType    `json:"type" bun:",notnull,default:'balance'"`
	TaxCategoryID   uuid.NullUUID `json:"tax_category_id" bun:"type:uuid,nullzero"`
	UserDescription string        `json:"user_description" bun:",nullzero"`
	LockedAt        bun.NullTime  `json:"locked_at"`
	CreatedAt       time.Time     `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt       bun.NullTime  `json:"updated_at"`
}

func (c *Charge) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		c.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Charge)(nil)

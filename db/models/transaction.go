package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction : Transaction Model
// A single bank or card movement. Positive amounts are credits to the
// owner's account, negative amounts are debits.
type Transaction struct {
	ID                uuid.UUID       `json:"id" bun:"type:uuid,pk"`
	ChargeID          uuid.UUID       `json:"charge_id" bun:"type:uuid,notnull"`
	OwnerID           uuid.UUID       `json:"owner_id" bun:"type:uuid,notnull"`
	Amount            decimal.Decimal `json:"amount" bun:"type:numeric,notnull"`
	Currency          string          `json:"currency" bun:",notnull"`
	BusinessID        uuid.NullUUID   `json:"business_id" bun:"type:uuid,nullzero"`
	EventDate         time.Time       `json:"event_date" bun:",notnull"`
	DebitDate         *time.Time      `json:"debit_date,omitempty" bun:",nullzero"`
	DebitTimestamp    *time.Time      `json:"debit_timestamp,omitempty" bun:",nullzero"`
	SourceDescription string          `json:"source_description" bun:",nullzero"`
	IsFee             bool            `json:"is_fee" bun:",notnull,default:false"`
	CreatedAt         time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

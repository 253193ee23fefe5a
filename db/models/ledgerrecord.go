package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerRecord : Ledger Records Model
// One double-entry posting. Each side carries up to two accounts; an account
// left null is "unassigned" while its amount still counts for the balance.
type LedgerRecord struct {
	ID                   uuid.UUID        `json:"id" bun:"type:uuid,pk"`
	OwnerID              uuid.UUID        `json:"owner_id" bun:"type:uuid,notnull"`
	ChargeID             uuid.UUID        `json:"charge_id" bun:"type:uuid,notnull"`
	GeneratorKind        string           `json:"generator_kind" bun:",notnull"`
	InvoiceDate          time.Time        `json:"invoice_date" bun:",notnull"`
	ValueDate            time.Time        `json:"value_date" bun:",notnull"`
	Currency             string           `json:"currency" bun:",notnull"`
	CurrencyRate         decimal.Decimal  `json:"currency_rate" bun:"type:numeric,notnull,default:1"`
	CreditAccountID1     uuid.NullUUID    `json:"credit_account_1" bun:"credit_account_1,type:uuid,nullzero"`
	CreditAccountID2     uuid.NullUUID    `json:"credit_account_2" bun:"credit_account_2,type:uuid,nullzero"`
	DebitAccountID1      uuid.NullUUID    `json:"debit_account_1" bun:"debit_account_1,type:uuid,nullzero"`
	DebitAccountID2      uuid.NullUUID    `json:"debit_account_2" bun:"debit_account_2,type:uuid,nullzero"`
	LocalCreditAmount1   decimal.Decimal  `json:"local_credit_amount_1" bun:"local_credit_amount_1,type:numeric,notnull"`
	ForeignCreditAmount1 *decimal.Decimal `json:"foreign_credit_amount_1,omitempty" bun:"foreign_credit_amount_1,type:numeric"`
	LocalCreditAmount2   *decimal.Decimal `json:"local_credit_amount_2,omitempty" bun:"local_credit_amount_2,type:numeric"`
	ForeignCreditAmount2 *decimal.Decimal `json:"foreign_credit_amount_2,omitempty" bun:"foreign_credit_amount_2,type:numeric"`
	LocalDebitAmount1    decimal.Decimal  `json:"local_debit_amount_1" bun:"local_debit_amount_1,type:numeric,notnull"`
	ForeignDebitAmount1  *decimal.Decimal `json:"foreign_debit_amount_1,omitempty" bun:"foreign_debit_amount_1,type:numeric"`
	LocalDebitAmount2    *decimal.Decimal `json:"local_debit_amount_2,omitempty" bun:"local_debit_amount_2,type:numeric"`
	ForeignDebitAmount2  *decimal.Decimal `json:"foreign_debit_amount_2,omitempty" bun:"foreign_debit_amount_2,type:numeric"`
	Description          string           `json:"description" bun:",nullzero"`
	CreatedAt            time.Time        `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

// LedgerGeneration : Ledger Generation Model
// Marks a charge whose ledger was persisted. The primary key on charge_id
// makes "insert if absent" atomic.
type LedgerGeneration struct {
	ChargeID      uuid.UUID `json:"charge_id" bun:"type:uuid,pk"`
	OwnerID       uuid.UUID `json:"owner_id" bun:"type:uuid,notnull"`
	GeneratorKind string    `json:"generator_kind" bun:",notnull"`
	CreatedAt     time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

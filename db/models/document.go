package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DocumentType string

const (
	DocumentTypeInvoice        DocumentType = "invoice"
	DocumentTypeReceipt        DocumentType = "receipt"
	DocumentTypeInvoiceReceipt DocumentType = "invoice_receipt"
	DocumentTypeCreditInvoice  DocumentType = "credit_invoice"
	DocumentTypeProforma       DocumentType = "proforma"
	DocumentTypeUnprocessed    DocumentType = "unprocessed"
	DocumentTypeOther          DocumentType = "other"
)

// Document : Document Model
type Document struct {
	ID          uuid.UUID       `json:"id" bun:"type:uuid,pk"`
	ChargeID    uuid.UUID       `json:"charge_id" bun:"type:uuid,notnull"`
	OwnerID     uuid.UUID       `json:"owner_id" bun:"type:uuid,notnull"`
	Type        DocumentType    `json:"type" bun:",notnull"`
	Date        time.Time       `json:"date" bun:",notnull"`
	DebtorID    uuid.NullUUID   `json:"debtor_id" bun:"type:uuid,nullzero"`
	CreditorID  uuid.NullUUID   `json:"creditor_id" bun:"type:uuid,nullzero"`
	TotalAmount decimal.Decimal `json:"total_amount" bun:"type:numeric,notnull"`
	VatAmount   decimal.Decimal `json:"vat_amount" bun:"type:numeric,notnull,default:0"`
	Currency    string          `json:"currency" bun:",notnull"`
	CreatedAt   time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
